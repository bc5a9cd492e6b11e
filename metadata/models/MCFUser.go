package models

// MCFUser is an account that can hold permissions on organizations and
// projects. Authentication happens upstream; the core only consumes the
// identity and the admin flag.
type MCFUser struct {
	MCFCommonMeta
	MCFArchivable
	// Username is the unique account identifier
	Username string `db:"username" json:"username"`
	// Email is the optional contact address
	Email NullString `db:"email" json:"email"`
	// FirstName is the optional given name
	FirstName NullString `db:"fname" json:"fname"`
	// LastName is the optional family name
	LastName NullString `db:"lname" json:"lname"`
	// Admin grants site-wide permission to every action
	Admin bool `db:"admin" json:"admin"`
}
