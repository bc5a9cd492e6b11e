package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"golang.org/x/net/context"

	"github.com/Open-MBEE/mcf-sub004/mapping"
	"github.com/Open-MBEE/mcf-sub004/protocol"
	"github.com/Open-MBEE/mcf-sub004/util"
)

func (h AppServer) updateBranches(ctx context.Context, w http.ResponseWriter, r *http.Request) *AppError {

	user, ok := UserFromContext(ctx)
	if !ok {
		return NewAppError(http.StatusInternalServerError, errors.New("Could not determine user"), "Invalid user.")
	}
	captured, ok := CaptureGroupsFromContext(ctx)
	if !ok {
		return NewAppError(http.StatusInternalServerError, errors.New("Could not get capture groups"), "No capture groups.")
	}

	requests, err := parseUpdateBranchRequests(r, captured["branchId"])
	if err != nil {
		return NewAppError(http.StatusBadRequest, err, "Error parsing JSON")
	}

	pagingRequest := protocol.NewPagingRequestFromURLValues(r.URL.Query())
	result, err := h.Branches.Update(user, captured["orgId"], captured["projectId"],
		mapping.MapUpdateBranchRequestsToBranchUpdates(requests), mapping.MapPagingRequestToFindOptions(pagingRequest))
	if err != nil {
		return mapError(err)
	}

	jsonResponse(w, mapping.MapMCFBranchResultsetToBranchResultset(result, nil))
	return nil
}

// parseUpdateBranchRequests accepts a single update document or an array.
// On the single-branch route the URI wins over any id in the body.
func parseUpdateBranchRequests(r *http.Request, uriLeaf string) ([]protocol.UpdateBranchRequest, error) {
	var raw json.RawMessage
	if err := util.FullDecode(r.Body, &raw); err != nil {
		return nil, err
	}
	var batch []protocol.UpdateBranchRequest
	if err := json.Unmarshal(raw, &batch); err == nil {
		return batch, nil
	}
	var single protocol.UpdateBranchRequest
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, err
	}
	if uriLeaf != "" {
		single.ID = uriLeaf
	}
	return []protocol.UpdateBranchRequest{single}, nil
}
