package models

import "time"

// MCFCommonMeta defines the audit attributes common to every MCF entity
type MCFCommonMeta struct {
	// CreatedBy is the username of the user that created this entity
	CreatedBy string `db:"createdBy" json:"createdBy"`
	// CreatedDate is the timestamp the entity was created
	CreatedDate time.Time `db:"createdOn" json:"createdOn"`
	// ModifiedBy is the username of the user that last changed this entity
	ModifiedBy string `db:"lastModifiedBy" json:"lastModifiedBy"`
	// ModifiedDate is the timestamp of the last change
	ModifiedDate time.Time `db:"updatedOn" json:"updatedOn"`
}

// StampCreate sets all audit fields for a newly created entity
func (m *MCFCommonMeta) StampCreate(username string, now time.Time) {
	m.CreatedBy = username
	m.CreatedDate = now
	m.ModifiedBy = username
	m.ModifiedDate = now
}

// StampUpdate sets the modification audit fields
func (m *MCFCommonMeta) StampUpdate(username string, now time.Time) {
	m.ModifiedBy = username
	m.ModifiedDate = now
}

// MCFArchivable defines the archive attributes common to entities that
// support archive-before-delete semantics
type MCFArchivable struct {
	// IsArchived indicates whether the entity is hidden from default queries
	IsArchived bool `db:"archived" json:"archived"`
	// ArchivedBy is the username that archived the entity, if archived
	ArchivedBy NullString `db:"archivedBy" json:"archivedBy"`
	// ArchivedDate is the timestamp the entity was archived, if archived
	ArchivedDate NullTime `db:"archivedOn" json:"archivedOn"`
}

// Archive marks the entity archived and records who and when
func (a *MCFArchivable) Archive(username string, now time.Time) {
	a.IsArchived = true
	a.ArchivedBy = ToNullString(username)
	a.ArchivedDate = ToNullTime(now)
}

// Unarchive clears the archive state
func (a *MCFArchivable) Unarchive() {
	a.IsArchived = false
	a.ArchivedBy = NullString{}
	a.ArchivedDate = NullTime{}
}
