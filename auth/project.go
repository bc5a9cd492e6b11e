package auth

import (
	"encoding/json"

	"github.com/jmoiron/sqlx/types"

	"github.com/Open-MBEE/mcf-sub004/metadata/models"
)

// roleRank orders permission roles. A role satisfies an action when its
// rank is at least the action's required rank.
var roleRank = map[string]int{
	"read":  1,
	"write": 2,
	"admin": 3,
}

var actionRank = map[Action]int{
	ActionRead:   1,
	ActionWrite:  2,
	ActionDelete: 3,
}

// ProjectAuthorization resolves permissions from the permission maps
// stored on organization and project documents. Site admins bypass the
// maps; a project grant and an org grant are equivalent, whichever ranks
// higher wins; internal projects are readable by anyone holding any org
// role.
type ProjectAuthorization struct{}

var _ Authorization = ProjectAuthorization{}

// CheckPermission implements the Authorization interface.
func (ProjectAuthorization) CheckPermission(user models.MCFUser, org models.MCFOrganization, project models.MCFProject, action Action) error {
	if user.Username == "" {
		return ErrUserNotSpecified
	}
	if user.Admin {
		return nil
	}

	required, ok := actionRank[action]
	if !ok {
		return ErrUserNotAuthorized
	}

	orgRank, err := rankFor(org.Permissions, user.Username)
	if err != nil {
		return err
	}
	projectRank, err := rankFor(project.Permissions, user.Username)
	if err != nil {
		return err
	}

	rank := orgRank
	if projectRank > rank {
		rank = projectRank
	}
	if project.Visibility == "internal" && orgRank > 0 && rank < roleRank["read"] {
		rank = roleRank["read"]
	}

	if rank < required {
		return ErrUserNotAuthorized
	}
	return nil
}

func rankFor(permissions types.JSONText, username string) (int, error) {
	if len(permissions) == 0 {
		return 0, nil
	}
	var grants map[string]string
	if err := json.Unmarshal(permissions, &grants); err != nil {
		return 0, ErrPermissionsNotReadable
	}
	return roleRank[grants[username]], nil
}
