package server

import (
	"net/http"

	"golang.org/x/net/context"

	"github.com/Open-MBEE/mcf-sub004/dao"
)

// ping is a basic HTTP 200 health check that also reports the schema
// version this build expects.
func (h AppServer) ping(ctx context.Context, w http.ResponseWriter, r *http.Request) *AppError {
	jsonResponse(w, map[string]string{
		"status":         "ok",
		"schema_version": dao.SchemaVersion,
	})
	return nil
}
