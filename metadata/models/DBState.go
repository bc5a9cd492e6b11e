package models

import "time"

// DBState reflects the schema version and instance identifier recorded in
// the database at migration time
type DBState struct {
	// CreatedDate is when the schema was created
	CreatedDate time.Time `db:"createdDate"`
	// ModifiedDate is when the schema was last migrated
	ModifiedDate time.Time `db:"modifiedDate"`
	// SchemaVersion identifies the migration the database is at
	SchemaVersion string `db:"schemaVersion"`
	// Identifier distinguishes this database instance
	Identifier string `db:"identifier"`
}
