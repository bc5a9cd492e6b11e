package mapping

import (
	"github.com/Open-MBEE/mcf-sub004/branches"
	"github.com/Open-MBEE/mcf-sub004/protocol"
)

// MapCreateBranchRequestsToBranchSpecs converts create request documents to
// controller inputs.
func MapCreateBranchRequestsToBranchSpecs(i []protocol.CreateBranchRequest) []branches.BranchSpec {
	o := make([]branches.BranchSpec, len(i))
	for k, req := range i {
		o[k] = branches.BranchSpec{
			ID:       req.ID,
			Source:   req.Source,
			Name:     req.Name,
			Tag:      req.Tag,
			Custom:   req.Custom,
			Archived: req.Archived,
		}
	}
	return o
}

// MapUpdateBranchRequestsToBranchUpdates converts update request documents
// to controller inputs.
func MapUpdateBranchRequestsToBranchUpdates(i []protocol.UpdateBranchRequest) []branches.BranchUpdate {
	o := make([]branches.BranchUpdate, len(i))
	for k, req := range i {
		o[k] = branches.BranchUpdate{
			ID:       req.ID,
			Name:     req.Name,
			Custom:   req.Custom,
			Archived: req.Archived,
		}
	}
	return o
}
