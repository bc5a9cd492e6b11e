package models

import "github.com/jmoiron/sqlx/types"

// MCFOrganization is the top-level tenant. Organizations contain projects.
type MCFOrganization struct {
	MCFCommonMeta
	MCFArchivable
	// ID is the organization's id, the first segment of every composite id
	// beneath it
	ID string `db:"id" json:"id"`
	// Name is the human-readable organization name
	Name string `db:"name" json:"name"`
	// Permissions maps usernames to their role (read, write, admin) within
	// this organization
	Permissions types.JSONText `db:"permissions" json:"permissions"`
	// Custom holds arbitrary user-defined JSON data
	Custom types.JSONText `db:"custom" json:"custom"`
}
