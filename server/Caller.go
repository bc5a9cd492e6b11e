package server

import "net/http"

// Caller provides the attributes of the authenticated requester. The proxy
// in front of this service terminates authentication and forwards the
// account name in a header; an absent header is an anonymous caller.
type Caller struct {
	// UserName is the authenticated account name, empty for anonymous.
	UserName string
}

// CallerFromRequest populates a Caller from request headers.
func CallerFromRequest(r *http.Request) Caller {
	username := r.Header.Get("X-Remote-User")
	if username == "" {
		username = r.Header.Get("USER_NAME")
	}
	return Caller{UserName: username}
}
