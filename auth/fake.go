package auth

import "github.com/Open-MBEE/mcf-sub004/metadata/models"

// FakeAuth is suitable for tests. Set Err to force a denial, or leave it
// nil to allow everything. Calls records every permission check made.
type FakeAuth struct {
	Err   error
	Calls []Action
}

var _ Authorization = (*FakeAuth)(nil)

// CheckPermission for FakeAuth
func (fake *FakeAuth) CheckPermission(user models.MCFUser, org models.MCFOrganization, project models.MCFProject, action Action) error {
	fake.Calls = append(fake.Calls, action)
	return fake.Err
}
