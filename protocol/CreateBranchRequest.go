package protocol

import "encoding/json"

// CreateBranchRequest is a subset of Branch for creating one branch. The
// create endpoint accepts an array of these; every entry must name the same
// source.
type CreateBranchRequest struct {
	// ID is the leaf id of the new branch within its project
	ID string `json:"id"`
	// Source is the leaf id of the branch to clone from
	Source string `json:"source"`
	// Name is the human-readable branch name. Defaults to the id.
	Name string `json:"name,omitempty"`
	// Tag marks the new branch as an immutable label
	Tag bool `json:"tag,omitempty"`
	// Custom holds arbitrary user-defined JSON data
	Custom json.RawMessage `json:"custom,omitempty"`
	// Archived creates the branch already hidden from default queries
	Archived bool `json:"archived,omitempty"`
}
