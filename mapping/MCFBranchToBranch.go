package mapping

import (
	"encoding/json"
	"time"

	"github.com/Open-MBEE/mcf-sub004/metadata/models"
	"github.com/Open-MBEE/mcf-sub004/protocol"
)

// MapMCFBranchToBranch converts an internal branch to the wire shape.
func MapMCFBranchToBranch(i models.MCFBranch) protocol.Branch {
	o := protocol.Branch{
		ID:           i.ID,
		Project:      i.Project,
		Source:       i.Source.String,
		Name:         i.Name,
		Tag:          i.Tag,
		Custom:       json.RawMessage(i.Custom),
		CreatedBy:    i.CreatedBy,
		CreatedDate:  i.CreatedDate.Format(time.RFC3339),
		ModifiedBy:   i.ModifiedBy,
		ModifiedDate: i.ModifiedDate.Format(time.RFC3339),
		Archived:     i.IsArchived,
	}
	if i.ArchivedBy.Valid {
		o.ArchivedBy = i.ArchivedBy.String
	}
	if i.ArchivedDate.Valid {
		o.ArchivedDate = i.ArchivedDate.Time.Format(time.RFC3339)
	}
	return o
}

// MapMCFBranchesToBranches converts a slice of internal branches. The
// sources map, when non-nil, embeds the resolved source document on each
// branch whose source it holds.
func MapMCFBranchesToBranches(i []models.MCFBranch, sources map[string]models.MCFBranch) []protocol.Branch {
	o := make([]protocol.Branch, len(i))
	for k, branch := range i {
		o[k] = MapMCFBranchToBranch(branch)
		if sources == nil || !branch.Source.Valid {
			continue
		}
		if source, ok := sources[branch.Source.String]; ok {
			embedded := MapMCFBranchToBranch(source)
			o[k].SourceBranch = &embedded
		}
	}
	return o
}

// MapMCFBranchResultsetToBranchResultset converts a result set page.
func MapMCFBranchResultsetToBranchResultset(i models.MCFBranchResultset, sources map[string]models.MCFBranch) protocol.BranchResultset {
	return protocol.BranchResultset{
		Resultset: protocol.Resultset{
			TotalRows:  i.TotalRows,
			PageCount:  i.PageCount,
			PageNumber: i.PageNumber,
			PageSize:   i.PageSize,
			PageRows:   i.PageRows,
		},
		Branches: MapMCFBranchesToBranches(i.Branches, sources),
	}
}
