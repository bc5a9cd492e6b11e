package protocol

import "encoding/json"

// Branch is a serialized representation of a project branch.
type Branch struct {
	// ID is the fully-qualified composite identifier org:project:branch
	ID string `json:"id"`
	// Project is the composite identifier of the owning project
	Project string `json:"project"`
	// Source is the composite identifier of the branch this branch was
	// cloned from. Empty for the project's master branch.
	Source string `json:"source,omitempty"`
	// SourceBranch is the embedded source document when population of the
	// source reference was requested.
	SourceBranch *Branch `json:"sourceBranch,omitempty"`
	// Name is the human-readable branch name
	Name string `json:"name"`
	// Tag marks an immutable point-in-time label rather than a working branch
	Tag bool `json:"tag"`
	// Custom holds arbitrary user-defined JSON data
	Custom json.RawMessage `json:"custom,omitempty"`
	// CreatedBy is the username that created this branch
	CreatedBy string `json:"createdBy"`
	// CreatedDate is the timestamp the branch was created, RFC3339
	CreatedDate string `json:"createdOn"`
	// ModifiedBy is the username that last changed this branch
	ModifiedBy string `json:"lastModifiedBy"`
	// ModifiedDate is the timestamp of the last change, RFC3339
	ModifiedDate string `json:"updatedOn"`
	// Archived indicates the branch is hidden from default queries
	Archived bool `json:"archived"`
	// ArchivedBy is the username that archived the branch, if archived
	ArchivedBy string `json:"archivedBy,omitempty"`
	// ArchivedDate is the timestamp the branch was archived, if archived
	ArchivedDate string `json:"archivedOn,omitempty"`
}
