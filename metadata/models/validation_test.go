package models

import (
	"encoding/json"
	"testing"
)

func TestBranchUpdateAllowList(t *testing.T) {
	for _, field := range []string{"name", "custom", "archived"} {
		if !ValidBranchUpdateField(field) {
			t.Errorf("expected %s to be updatable", field)
		}
	}
	for _, field := range []string{"id", "source", "tag", "createdBy", "project"} {
		if ValidBranchUpdateField(field) {
			t.Errorf("expected %s to be rejected", field)
		}
	}
}

func TestValidateBranchName(t *testing.T) {
	if err := ValidateBranchField("name", "Release 2.1"); err != nil {
		t.Errorf("plain name rejected: %v", err)
	}
	if err := ValidateBranchField("name", "<script>"); err == nil {
		t.Error("angle brackets should be rejected")
	}
	if err := ValidateBranchField("name", 42); err == nil {
		t.Error("non-string name should be rejected")
	}
}

func TestValidateBranchArchived(t *testing.T) {
	if err := ValidateBranchField("archived", true); err != nil {
		t.Errorf("boolean rejected: %v", err)
	}
	if err := ValidateBranchField("archived", "true"); err == nil {
		t.Error("string archived should be rejected")
	}
}

func TestValidateBranchCustom(t *testing.T) {
	if err := ValidateBranchField("custom", map[string]interface{}{"k": "v"}); err != nil {
		t.Errorf("object rejected: %v", err)
	}
	if err := ValidateBranchField("custom", json.RawMessage(`{"k":1}`)); err != nil {
		t.Errorf("raw JSON object rejected: %v", err)
	}
	if err := ValidateBranchField("custom", json.RawMessage(`[1,2]`)); err == nil {
		t.Error("JSON array should be rejected")
	}
}
