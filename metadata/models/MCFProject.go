package models

import "github.com/jmoiron/sqlx/types"

// MCFProject is a container of branches within an organization. Every
// project owns a master branch created with it.
type MCFProject struct {
	MCFCommonMeta
	MCFArchivable
	// ID is the fully-qualified composite identifier org:project
	ID string `db:"id" json:"id"`
	// Org is the id of the owning organization
	Org string `db:"orgId" json:"org"`
	// Name is the human-readable project name
	Name string `db:"name" json:"name"`
	// Visibility is either internal (org members may read) or private
	Visibility string `db:"visibility" json:"visibility"`
	// Permissions maps usernames to their role (read, write, admin) within
	// this project
	Permissions types.JSONText `db:"permissions" json:"permissions"`
	// Custom holds arbitrary user-defined JSON data
	Custom types.JSONText `db:"custom" json:"custom"`
}
