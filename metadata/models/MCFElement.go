package models

import "github.com/jmoiron/sqlx/types"

// MCFElement is a node in a branch's model tree. Elements form a hierarchy
// through Parent and may carry a directed relationship through Source and
// Target, which are co-required.
type MCFElement struct {
	MCFCommonMeta
	MCFArchivable
	// ID is the fully-qualified composite identifier org:project:branch:element
	ID string `db:"id" json:"id"`
	// Project is the composite identifier of the owning project
	Project string `db:"projectId" json:"project"`
	// Branch is the composite identifier of the owning branch. Must match
	// the branch prefix embedded in ID.
	Branch string `db:"branchId" json:"branch"`
	// Parent is the composite identifier of the containing element. Null
	// only for the branch's root element.
	Parent NullString `db:"parentId" json:"parent"`
	// Source is the composite identifier of the relationship origin, if
	// this element is a relationship. Set if and only if Target is set.
	Source NullString `db:"sourceId" json:"source"`
	// Target is the composite identifier of the relationship destination.
	Target NullString `db:"targetId" json:"target"`
	// Name is the human-readable element name
	Name string `db:"name" json:"name"`
	// Documentation is the element's descriptive text
	Documentation string `db:"documentation" json:"documentation"`
	// Type is the modeling type of the element
	Type string `db:"type" json:"type"`
	// Custom holds arbitrary user-defined JSON data
	Custom types.JSONText `db:"custom" json:"custom"`
}

// MCFElementResultset is an array of elements with paging metrics
type MCFElementResultset struct {
	Resultset
	Elements []MCFElement
}
