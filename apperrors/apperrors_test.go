package apperrors

import (
	"errors"
	"strings"
	"testing"
)

func TestKindStrings(t *testing.T) {
	cases := map[Kind]string{
		KindDataFormat: "DataFormatError",
		KindNotFound:   "NotFoundError",
		KindPermission: "PermissionError",
		KindOperation:  "OperationError",
		KindDatabase:   "DatabaseError",
	}
	for k, want := range cases {
		if k.String() != want {
			t.Errorf("expected %s got %s", want, k.String())
		}
	}
}

func TestKindOfForeignError(t *testing.T) {
	if KindOf(errors.New("driver: bad connection")) != KindDatabase {
		t.Error("foreign errors should classify as database faults")
	}
	if KindOf(NewNotFoundError("branch x does not exist")) != KindNotFound {
		t.Error("expected NotFound kind")
	}
}

func TestCombineErrorsKeepsBoth(t *testing.T) {
	original := NewDatabaseError(nil, "not all elements were cloned")
	cleanup := errors.New("delete failed: connection reset")
	combined := CombineErrors(original, cleanup)
	if combined == nil {
		t.Fatal("expected an error")
	}
	if !strings.Contains(combined.Error(), "not all elements were cloned") {
		t.Error("combined error lost the original cause")
	}
	if !strings.Contains(combined.Error(), "connection reset") {
		t.Error("combined error lost the cleanup failure")
	}
	if !errors.Is(combined, original) {
		t.Error("combined error should unwrap to the original")
	}
}

func TestCombineErrorsPassthrough(t *testing.T) {
	original := NewOperationError("branch ids already exist: a, b")
	if CombineErrors(original, nil) != original {
		t.Error("nil cleanup should return the original unchanged")
	}
}

func TestEnumerateIDsSortedAndComplete(t *testing.T) {
	got := EnumerateIDs([]string{"org:proj:b", "org:proj:a"})
	if got != "org:proj:a, org:proj:b" {
		t.Errorf("unexpected enumeration: %s", got)
	}
}
