package models

import (
	"strings"

	"github.com/jmoiron/sqlx/types"
)

// MCFBranch is a named, independent copy-at-a-point-in-time of a project's
// element tree. Branches record their lineage through Source but are not a
// DAG; there is no merge support.
type MCFBranch struct {
	MCFCommonMeta
	MCFArchivable
	// ID is the fully-qualified composite identifier org:project:branch
	ID string `db:"id" json:"id"`
	// Project is the composite identifier of the owning project
	Project string `db:"projectId" json:"project"`
	// Source is the composite identifier of the branch this branch was
	// cloned from. Null only for the project's master branch.
	Source NullString `db:"sourceId" json:"source"`
	// Name is the human-readable branch name
	Name string `db:"name" json:"name"`
	// Tag marks an immutable point-in-time label rather than a working branch
	Tag bool `db:"tag" json:"tag"`
	// Custom holds arbitrary user-defined JSON data
	Custom types.JSONText `db:"custom" json:"custom"`
}

// IsMaster reports whether this branch is its project's protected root branch
func (b *MCFBranch) IsMaster() bool {
	return strings.HasSuffix(b.ID, Delimiter+MasterBranch)
}

// MCFBranchResultset is an array of branches with paging metrics
type MCFBranchResultset struct {
	Resultset
	Branches []MCFBranch
}
