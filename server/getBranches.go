package server

import (
	"errors"
	"net/http"
	"strings"

	"golang.org/x/net/context"

	"github.com/Open-MBEE/mcf-sub004/mapping"
	"github.com/Open-MBEE/mcf-sub004/metadata/models"
	"github.com/Open-MBEE/mcf-sub004/protocol"
)

func (h AppServer) getBranches(ctx context.Context, w http.ResponseWriter, r *http.Request) *AppError {

	user, ok := UserFromContext(ctx)
	if !ok {
		return NewAppError(http.StatusInternalServerError, errors.New("Could not determine user"), "Invalid user.")
	}
	captured, ok := CaptureGroupsFromContext(ctx)
	if !ok {
		return NewAppError(http.StatusInternalServerError, errors.New("Could not get capture groups"), "No capture groups.")
	}

	pagingRequest := protocol.NewPagingRequestFromURLValues(r.URL.Query())
	branchIDs := requestedBranchIDs(captured, r)

	result, err := h.Branches.Find(user, captured["orgId"], captured["projectId"], branchIDs, mapping.MapPagingRequestToFindOptions(pagingRequest))
	if err != nil {
		return mapError(err)
	}

	var sources map[string]models.MCFBranch
	if containsField(pagingRequest.Populate, "source") {
		if sources, err = h.Branches.ResolveSources(result); err != nil {
			return mapError(err)
		}
	}

	apiResponse := mapping.MapMCFBranchResultsetToBranchResultset(result, sources)
	jsonResponse(w, mapping.ProjectBranchResultsetFields(apiResponse, pagingRequest.Fields))
	return nil
}

// requestedBranchIDs collects leaf branch ids from the URI and from the ids
// query parameter. Empty means the whole project.
func requestedBranchIDs(captured map[string]string, r *http.Request) []string {
	var ids []string
	if leaf := captured["branchId"]; leaf != "" {
		ids = append(ids, leaf)
	}
	if raw := r.URL.Query().Get("ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				ids = append(ids, trimmed)
			}
		}
	}
	return ids
}

func containsField(fields []string, name string) bool {
	for _, f := range fields {
		if f == name {
			return true
		}
	}
	return false
}
