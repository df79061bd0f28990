package snowflake

import (
	"context"

	"snowflake-admin/internal/model"
)

// User manages account users through the parent client's session
type User struct {
	sf *Client
}

// Create creates a user who must change the password at first login
func (u *User) Create(ctx context.Context, spec UserSpec) (string, error) {
	return u.sf.execScalar(ctx, createUserStatement(spec))
}

// Remove drops a user if it exists
func (u *User) Remove(ctx context.Context, name string) (string, error) {
	return u.sf.execScalar(ctx, dropUserStatement(name))
}

// ResetPassword issues a password reset link for a user
func (u *User) ResetPassword(ctx context.Context, name string) (string, error) {
	return u.sf.execScalar(ctx, resetPasswordStatement(name))
}

// AddRole grants a role to a user
func (u *User) AddRole(ctx context.Context, name, role string) (string, error) {
	return u.sf.execScalar(ctx, grantRoleToUserStatement(name, role))
}

// RemoveRole revokes a role from a user
func (u *User) RemoveRole(ctx context.Context, name, role string) (string, error) {
	return u.sf.execScalar(ctx, revokeRoleFromUserStatement(name, role))
}

// Describe returns the properties of a user
func (u *User) Describe(ctx context.Context, name string) (*model.Frame, error) {
	return u.sf.execFrame(ctx, describeUserStatement(name))
}

// All lists the account's users
func (u *User) All(ctx context.Context) (*model.Frame, error) {
	return u.sf.execFrame(ctx, "SHOW USERS")
}
