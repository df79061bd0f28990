package controller

import (
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"snowflake-admin/internal/model"
	"snowflake-admin/internal/snowflake"
)

type RoleController struct {
	roles     RoleAdmin
	validator *validator.Validate
}

func NewRoleController(roles RoleAdmin) *RoleController {
	return &RoleController{
		roles:     roles,
		validator: validator.New(),
	}
}

// @Router /api/v1/roles [get]
func (rc *RoleController) ListRoles(c *gin.Context) {
	frame, err := rc.roles.All(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, frame)
}

// @Router /api/v1/roles [post]
func (rc *RoleController) CreateRole(c *gin.Context) {
	var spec snowflake.RoleSpec
	if !bindJSON(c, rc.validator, &spec) {
		return
	}
	rc.run(c, func() (string, error) {
		return rc.roles.Create(c.Request.Context(), spec)
	})
}

// @Router /api/v1/roles/{name} [delete]
func (rc *RoleController) RemoveRole(c *gin.Context) {
	rc.run(c, func() (string, error) {
		return rc.roles.Remove(c.Request.Context(), c.Param("name"))
	})
}

// GrantPrivilege grants a privilege on one object to the role
// @Router /api/v1/roles/{name}/grants [post]
func (rc *RoleController) GrantPrivilege(c *gin.Context) {
	var req model.GrantRequest
	if !bindJSON(c, rc.validator, &req) {
		return
	}
	objectType, ok := parseObjectType(c, req.ObjectType)
	if !ok {
		return
	}
	rc.run(c, func() (string, error) {
		return rc.roles.GrantPrivilege(c.Request.Context(), req.Privilege, req.ObjectName, objectType, c.Param("name"))
	})
}

// RevokePrivilege revokes a privilege on one object from the role
// @Router /api/v1/roles/{name}/revokes [post]
func (rc *RoleController) RevokePrivilege(c *gin.Context) {
	var req model.GrantRequest
	if !bindJSON(c, rc.validator, &req) {
		return
	}
	objectType, ok := parseObjectType(c, req.ObjectType)
	if !ok {
		return
	}
	rc.run(c, func() (string, error) {
		return rc.roles.RevokePrivilege(c.Request.Context(), req.Privilege, req.ObjectName, objectType, c.Param("name"))
	})
}

// @Router /api/v1/roles/{name}/grants/all-tables [post]
func (rc *RoleController) GrantOnAllTables(c *gin.Context) {
	var req model.AllTablesGrantRequest
	if !bindJSON(c, rc.validator, &req) {
		return
	}
	rc.run(c, func() (string, error) {
		return rc.roles.GrantPrivilegeToAllTables(c.Request.Context(), req.Privilege, req.Schema, c.Param("name"))
	})
}

// @Router /api/v1/roles/{name}/grants/imported [post]
func (rc *RoleController) GrantImportedPrivileges(c *gin.Context) {
	var req model.ImportedGrantRequest
	if !bindJSON(c, rc.validator, &req) {
		return
	}
	rc.run(c, func() (string, error) {
		return rc.roles.GrantImportedPrivileges(c.Request.Context(), req.Database, c.Param("name"))
	})
}

func (rc *RoleController) run(c *gin.Context, fn func() (string, error)) {
	status, err := fn()
	if err != nil {
		respondError(c, err)
		return
	}
	respondStatus(c, status)
}
