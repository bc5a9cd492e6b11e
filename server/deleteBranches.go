package server

import (
	"errors"
	"net/http"

	"golang.org/x/net/context"

	"github.com/Open-MBEE/mcf-sub004/protocol"
)

func (h AppServer) deleteBranches(ctx context.Context, w http.ResponseWriter, r *http.Request) *AppError {

	user, ok := UserFromContext(ctx)
	if !ok {
		return NewAppError(http.StatusInternalServerError, errors.New("Could not determine user"), "Invalid user.")
	}
	captured, ok := CaptureGroupsFromContext(ctx)
	if !ok {
		return NewAppError(http.StatusInternalServerError, errors.New("Could not get capture groups"), "No capture groups.")
	}

	branchIDs := requestedBranchIDs(captured, r)
	deleted, err := h.Branches.Remove(user, captured["orgId"], captured["projectId"], branchIDs)
	if err != nil {
		return mapError(err)
	}

	jsonResponse(w, protocol.DeletedBranchResponse{Deleted: deleted})
	return nil
}
