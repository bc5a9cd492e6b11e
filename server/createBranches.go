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

func (h AppServer) createBranches(ctx context.Context, w http.ResponseWriter, r *http.Request) *AppError {

	user, ok := UserFromContext(ctx)
	if !ok {
		return NewAppError(http.StatusInternalServerError, errors.New("Could not determine user"), "Invalid user.")
	}
	captured, ok := CaptureGroupsFromContext(ctx)
	if !ok {
		return NewAppError(http.StatusInternalServerError, errors.New("Could not get capture groups"), "No capture groups.")
	}

	requests, err := parseCreateBranchRequests(r)
	if err != nil {
		return NewAppError(http.StatusBadRequest, err, "Error parsing JSON")
	}

	pagingRequest := protocol.NewPagingRequestFromURLValues(r.URL.Query())
	result, err := h.Branches.Create(user, captured["orgId"], captured["projectId"],
		mapping.MapCreateBranchRequestsToBranchSpecs(requests), mapping.MapPagingRequestToFindOptions(pagingRequest))
	if err != nil {
		return mapError(err)
	}

	apiResponse := mapping.MapMCFBranchResultsetToBranchResultset(result, nil)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	jsonResponse(w, apiResponse)
	return nil
}

// parseCreateBranchRequests accepts either a single create document or an
// array of them.
func parseCreateBranchRequests(r *http.Request) ([]protocol.CreateBranchRequest, error) {
	var raw json.RawMessage
	if err := util.FullDecode(r.Body, &raw); err != nil {
		return nil, err
	}
	var batch []protocol.CreateBranchRequest
	if err := json.Unmarshal(raw, &batch); err == nil {
		return batch, nil
	}
	var single protocol.CreateBranchRequest
	if err := json.Unmarshal(raw, &single); err != nil {
		return nil, err
	}
	return []protocol.CreateBranchRequest{single}, nil
}
