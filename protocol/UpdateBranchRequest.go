package protocol

import (
	"encoding/json"
	"fmt"
)

// updateBranchFields is the closed set of keys an update document may carry.
// The id is lookup-only; everything else mutable after creation must be
// listed here.
var updateBranchFields = map[string]bool{
	"id":       true,
	"name":     true,
	"custom":   true,
	"archived": true,
}

// UpdateBranchRequest is a subset of Branch for updating one branch. The
// update endpoint accepts an array of these. Unknown keys are rejected at
// parse time so a misspelled field fails loudly instead of silently doing
// nothing.
type UpdateBranchRequest struct {
	// ID is the leaf id of the branch to update
	ID string `json:"id"`
	// Name replaces the branch name when present
	Name *string `json:"name,omitempty"`
	// Custom replaces the custom document when present
	Custom json.RawMessage `json:"custom,omitempty"`
	// Archived archives or unarchives the branch when present
	Archived *bool `json:"archived,omitempty"`
}

// UnmarshalJSON enforces the closed field set before decoding.
func (u *UpdateBranchRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for key := range raw {
		if !updateBranchFields[key] {
			return fmt.Errorf("branch update contains an invalid key [%s]", key)
		}
	}
	type alias UpdateBranchRequest
	var decoded alias
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*u = UpdateBranchRequest(decoded)
	return nil
}
