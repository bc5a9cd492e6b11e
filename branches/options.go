package branches

import (
	"encoding/json"

	"github.com/Open-MBEE/mcf-sub004/dao"
)

// FindOptions narrows, orders, and shapes a branch query. The zero value
// is the documented default: non-archived branches only, unbounded page,
// insertion order by id, no projection, no population.
type FindOptions struct {
	// Limit bounds the page size. 0 is unbounded.
	Limit int
	// Skip is the row offset into the result.
	Skip int
	// SortBy names a sortable column; unknown names fall back to id order.
	SortBy string
	// SortDescending reverses the sort direction.
	SortDescending bool
	// Fields projects the response to the named fields. Empty returns all.
	Fields []string
	// Populate resolves the named reference fields into embedded documents.
	// Only "source" is populatable on branches.
	Populate []string
	// IncludeArchived lifts the default non-archived visibility constraint
	// on the branches and on the org/project existence checks.
	IncludeArchived bool
	// ArchivedOnly returns archived branches exclusively.
	ArchivedOnly bool
	// Filter matches branches on individual field values.
	Filter SearchFilter
}

// SearchFilter matches branches on field values. Source takes the leaf id
// of the lineage branch; Custom maps dot paths inside the custom document
// to required values.
type SearchFilter struct {
	Source     string
	Name       string
	CreatedBy  string
	ArchivedBy string
	Tag        *bool
	Custom     map[string]string
}

// storeFilter lowers the options onto the store's filter, with the source
// leaf already qualified to its composite form.
func (o FindOptions) storeFilter(qualifiedSource string) dao.BranchFilter {
	return dao.BranchFilter{
		IncludeArchived: o.IncludeArchived,
		ArchivedOnly:    o.ArchivedOnly,
		Source:          qualifiedSource,
		Name:            o.Filter.Name,
		CreatedBy:       o.Filter.CreatedBy,
		ArchivedBy:      o.Filter.ArchivedBy,
		Tag:             o.Filter.Tag,
		Custom:          o.Filter.Custom,
	}
}

// storePaging lowers the options onto the store's page window.
func (o FindOptions) storePaging() dao.PagingRequest {
	return dao.PagingRequest{
		Limit:          o.Limit,
		Skip:           o.Skip,
		SortBy:         o.SortBy,
		SortDescending: o.SortDescending,
	}
}

// wantsPopulate reports whether the named reference field was requested.
func (o FindOptions) wantsPopulate(field string) bool {
	for _, f := range o.Populate {
		if f == field {
			return true
		}
	}
	return false
}

// BranchSpec is the input for creating one branch. ID and Source are leaf
// ids, qualified by the controller. Every spec in one create call must
// name the same Source.
type BranchSpec struct {
	ID       string
	Source   string
	Name     string
	Tag      bool
	Custom   json.RawMessage
	Archived bool
}

// BranchUpdate is the input for updating one branch. ID is a leaf id,
// required and immutable, used only for lookup. Nil fields are untouched.
type BranchUpdate struct {
	ID       string
	Name     *string
	Custom   json.RawMessage
	Archived *bool
}

// hasFieldChangesBesidesArchived reports whether the update touches
// anything an archived branch would refuse.
func (u BranchUpdate) hasFieldChangesBesidesArchived() bool {
	return u.Name != nil || u.Custom != nil
}
