package models

import (
	"encoding/json"
	"regexp"

	"github.com/Open-MBEE/mcf-sub004/apperrors"
)

// FieldValidator checks a single updatable field. Either Pattern or Check
// is set; Pattern applies to string values only.
type FieldValidator struct {
	Pattern *regexp.Regexp
	Check   func(value interface{}) bool
}

// branchNamePattern forbids control characters and angle brackets in names.
var branchNamePattern = regexp.MustCompile(`^[^<>\x00-\x1f]*$`)

// branchUpdateFields is the allow-list of branch fields mutable after
// creation. The id is lookup-only and everything else is system-managed.
var branchUpdateFields = map[string]FieldValidator{
	"name": {Pattern: branchNamePattern},
	"custom": {Check: func(value interface{}) bool {
		switch v := value.(type) {
		case map[string]interface{}:
			return true
		case json.RawMessage:
			var out map[string]interface{}
			return json.Unmarshal(v, &out) == nil
		case []byte:
			var out map[string]interface{}
			return json.Unmarshal(v, &out) == nil
		default:
			return false
		}
	}},
	"archived": {Check: func(value interface{}) bool {
		_, ok := value.(bool)
		return ok
	}},
}

// ValidBranchUpdateField reports whether the named branch field may be
// changed through update.
func ValidBranchUpdateField(field string) bool {
	_, ok := branchUpdateFields[field]
	return ok
}

// ValidateBranchField runs the registered validator for a branch field
// against a proposed value. Unknown fields are the caller's concern; this
// only answers whether a permitted field's value is well formed.
func ValidateBranchField(field string, value interface{}) error {
	validator, ok := branchUpdateFields[field]
	if !ok {
		return nil
	}
	if validator.Pattern != nil {
		s, ok := value.(string)
		if !ok || !validator.Pattern.MatchString(s) {
			return apperrors.NewDataFormatError("invalid value for field [%s]", field)
		}
		return nil
	}
	if validator.Check != nil && !validator.Check(value) {
		return apperrors.NewDataFormatError("invalid value for field [%s]", field)
	}
	return nil
}
