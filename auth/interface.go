package auth

import "github.com/Open-MBEE/mcf-sub004/metadata/models"

// Error is our error type.
type Error string

func (e Error) Error() string { return string(e) }

const (
	// ErrUserNotSpecified is returned if a user identity is required but not specified.
	ErrUserNotSpecified = Error("auth: user not specified")
	// ErrUserNotAuthorized is returned if a user identity does not have the permission the action requires.
	ErrUserNotAuthorized = Error("auth: user not authorized")
	// ErrPermissionsNotReadable is returned if a permission map on an org or project cannot be decoded.
	ErrPermissionsNotReadable = Error("auth: permissions not readable")
)

// Action is the kind of access a caller requests on a scope.
type Action string

const (
	// ActionRead covers find and get operations.
	ActionRead Action = "read"
	// ActionWrite covers create and update operations.
	ActionWrite Action = "write"
	// ActionDelete covers remove operations and their cascades.
	ActionDelete Action = "delete"
)

// Authorization is the permission gate the branch lifecycle calls before
// any operation proceeds past existence checks. Implementations answer
// allow (nil) or deny (ErrUserNotAuthorized) for a (user, org, project,
// action) tuple; branch-level grants are not modeled.
type Authorization interface {
	CheckPermission(user models.MCFUser, org models.MCFOrganization, project models.MCFProject, action Action) error
}
