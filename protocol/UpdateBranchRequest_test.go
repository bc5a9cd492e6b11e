package protocol

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestUpdateBranchRequestDecodesKnownFields(t *testing.T) {
	raw := `{"id":"dev","name":"Development","custom":{"a":1},"archived":true}`
	var req UpdateBranchRequest
	if err := json.Unmarshal([]byte(raw), &req); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if req.ID != "dev" || req.Name == nil || *req.Name != "Development" {
		t.Errorf("fields not decoded: %+v", req)
	}
	if req.Archived == nil || !*req.Archived {
		t.Error("archived pointer should be set true")
	}
}

func TestUpdateBranchRequestLeavesAbsentFieldsNil(t *testing.T) {
	var req UpdateBranchRequest
	if err := json.Unmarshal([]byte(`{"id":"dev"}`), &req); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if req.Name != nil || req.Custom != nil || req.Archived != nil {
		t.Errorf("absent fields must stay nil: %+v", req)
	}
}

func TestUpdateBranchRequestRejectsUnknownKeys(t *testing.T) {
	var req UpdateBranchRequest
	err := json.Unmarshal([]byte(`{"id":"dev","source":"master"}`), &req)
	if err == nil {
		t.Fatal("immutable key should be rejected")
	}
	if !strings.Contains(err.Error(), "source") {
		t.Errorf("error should name the offending key: %v", err)
	}
}
