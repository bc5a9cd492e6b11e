package mapping

import (
	"github.com/Open-MBEE/mcf-sub004/branches"
	"github.com/Open-MBEE/mcf-sub004/protocol"
)

// MapPagingRequestToFindOptions lowers parsed query options onto the branch
// controller's option type.
func MapPagingRequestToFindOptions(pr protocol.PagingRequest) branches.FindOptions {
	return branches.FindOptions{
		Limit:           pr.Limit,
		Skip:            pr.Skip,
		SortBy:          pr.SortBy,
		SortDescending:  pr.SortDescending,
		Fields:          pr.Fields,
		Populate:        pr.Populate,
		IncludeArchived: pr.IncludeArchived,
		ArchivedOnly:    pr.ArchivedOnly,
		Filter: branches.SearchFilter{
			Source:     pr.Source,
			Name:       pr.Name,
			CreatedBy:  pr.CreatedBy,
			ArchivedBy: pr.ArchivedBy,
			Tag:        pr.Tag,
			Custom:     pr.Custom,
		},
	}
}
