package models

import "github.com/jmoiron/sqlx/types"

// MCFArtifact is a file associated with a branch. Only the metadata lives
// here; the binary content is addressed by Location in the blob store.
type MCFArtifact struct {
	MCFCommonMeta
	MCFArchivable
	// ID is the fully-qualified composite identifier org:project:branch:artifact
	ID string `db:"id" json:"id"`
	// Project is the composite identifier of the owning project
	Project string `db:"projectId" json:"project"`
	// Branch is the composite identifier of the owning branch
	Branch string `db:"branchId" json:"branch"`
	// Filename is the original name of the uploaded file
	Filename string `db:"filename" json:"filename"`
	// Location addresses the binary content in the blob store
	Location string `db:"location" json:"location"`
	// Strategy names the storage strategy the content was written with
	Strategy string `db:"strategy" json:"strategy"`
	// Size is the content length in bytes
	Size NullInt64 `db:"size" json:"size"`
	// Description is an abstract of the artifact
	Description NullString `db:"description" json:"description"`
	// Custom holds arbitrary user-defined JSON data
	Custom types.JSONText `db:"custom" json:"custom"`
}

// MCFArtifactResultset is an array of artifacts with paging metrics
type MCFArtifactResultset struct {
	Resultset
	Artifacts []MCFArtifact
}
