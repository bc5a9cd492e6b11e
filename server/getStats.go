package server

import (
	"net/http"

	"golang.org/x/net/context"
)

// statLine is one response counter entry for the stats endpoint.
type statLine struct {
	Code  int    `json:"code"`
	File  string `json:"file,omitempty"`
	Line  int    `json:"line,omitempty"`
	Count int64  `json:"count"`
}

// getStats dumps the response counters. Useful when chasing which exit a
// spike of 4xx or 5xx responses is coming from.
func (h AppServer) getStats(ctx context.Context, w http.ResponseWriter, r *http.Request) *AppError {
	mutex.Lock()
	lines := make([]statLine, 0, len(counters))
	for key, count := range counters {
		lines = append(lines, statLine{Code: key.Code, File: key.File, Line: key.Line, Count: count})
	}
	mutex.Unlock()
	jsonResponse(w, lines)
	return nil
}
