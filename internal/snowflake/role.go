package snowflake

import (
	"context"

	"snowflake-admin/internal/model"
)

// Role manages roles and privilege grants through the parent client's session
type Role struct {
	sf *Client
}

// All lists the account's roles
func (r *Role) All(ctx context.Context) (*model.Frame, error) {
	return r.sf.execFrame(ctx, "SHOW ROLES")
}

// Create creates a role if it does not exist
func (r *Role) Create(ctx context.Context, spec RoleSpec) (string, error) {
	return r.sf.execScalar(ctx, createRoleStatement(spec))
}

// Remove drops a role if it exists
func (r *Role) Remove(ctx context.Context, name string) (string, error) {
	return r.sf.execScalar(ctx, dropRoleStatement(name))
}

// GrantPrivilegeToAllTables grants a privilege on every table in a schema
func (r *Role) GrantPrivilegeToAllTables(ctx context.Context, privilege, schema, role string) (string, error) {
	return r.sf.execScalar(ctx, grantOnAllTablesStatement(privilege, schema, role))
}

// GrantPrivilege grants a privilege on one object
func (r *Role) GrantPrivilege(ctx context.Context, privilege, objectName string, objectType model.ObjectType, role string) (string, error) {
	return r.sf.execScalar(ctx, grantPrivilegeStatement(privilege, objectName, objectType, role))
}

// GrantImportedPrivileges grants access to a shared database
func (r *Role) GrantImportedPrivileges(ctx context.Context, database, role string) (string, error) {
	return r.sf.execScalar(ctx, grantImportedPrivilegesStatement(database, role))
}

// RevokePrivilege revokes a privilege on one object
func (r *Role) RevokePrivilege(ctx context.Context, privilege, objectName string, objectType model.ObjectType, role string) (string, error) {
	return r.sf.execScalar(ctx, revokePrivilegeStatement(privilege, objectName, objectType, role))
}
