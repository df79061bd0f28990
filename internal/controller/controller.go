package controller

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"

	"snowflake-admin/internal/database"
	"snowflake-admin/internal/middleware"
	"snowflake-admin/internal/model"
	"snowflake-admin/internal/snowflake"
	"snowflake-admin/internal/utils"
	"snowflake-admin/pkg/response"
)

// Warehouse is the part of the Snowflake client the admin API drives
type Warehouse interface {
	QueryStatement(ctx context.Context, stmt string, returnType model.ReturnType) (*model.QueryResult, error)
	AccountInfo(ctx context.Context) (*database.SnowflakeAccountInfo, error)
	Use(ctx context.Context, warehouse, dbName, schema string) error
	Warehouse(ctx context.Context) (string, error)
	Database() string
	Schema() string

	RenderCreate(def model.ObjectDefinition, objectType model.ObjectType) (string, error)
	CreateFromDefinition(ctx context.Context, def model.ObjectDefinition, objectType model.ObjectType) (string, error)
	Drop(ctx context.Context, name string, objectType model.ObjectType) (string, error)
	TruncateTable(ctx context.Context, table string) (string, error)
	InsertData(ctx context.Context, table string, frame *model.Frame) (int64, error)
	CreateSchema(ctx context.Context, name string, replace bool) (string, error)
	CreateDatabase(ctx context.Context, name string, replace bool) (string, error)
}

// UserAdmin manages account users
type UserAdmin interface {
	Create(ctx context.Context, spec snowflake.UserSpec) (string, error)
	Remove(ctx context.Context, name string) (string, error)
	ResetPassword(ctx context.Context, name string) (string, error)
	AddRole(ctx context.Context, name, role string) (string, error)
	RemoveRole(ctx context.Context, name, role string) (string, error)
	Describe(ctx context.Context, name string) (*model.Frame, error)
	All(ctx context.Context) (*model.Frame, error)
}

// RoleAdmin manages roles and grants
type RoleAdmin interface {
	All(ctx context.Context) (*model.Frame, error)
	Create(ctx context.Context, spec snowflake.RoleSpec) (string, error)
	Remove(ctx context.Context, name string) (string, error)
	GrantPrivilegeToAllTables(ctx context.Context, privilege, schema, role string) (string, error)
	GrantPrivilege(ctx context.Context, privilege, objectName string, objectType model.ObjectType, role string) (string, error)
	GrantImportedPrivileges(ctx context.Context, database, role string) (string, error)
	RevokePrivilege(ctx context.Context, privilege, objectName string, objectType model.ObjectType, role string) (string, error)
}

// TemplateLister lists the available SQL templates
type TemplateLister interface {
	List() ([]string, error)
}

// bindJSON decodes and validates the body into req. It writes the error
// response and returns false on failure.
func bindJSON(c *gin.Context, v *validator.Validate, req any) bool {
	correlationID := middleware.GetCorrelationID(c)

	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, response.ErrorResponse(
			utils.ErrCodeInvalidJSON,
			"Invalid request body: "+err.Error(),
			"",
			correlationID,
		))
		return false
	}
	if err := v.Struct(req); err != nil {
		c.JSON(http.StatusUnprocessableEntity, response.ValidationErrorResponse(err.Error(), correlationID))
		return false
	}
	return true
}

// respondError classifies err and writes it with the matching status
func respondError(c *gin.Context, err error) {
	appErr := utils.FromError(err)
	status := appErr.Status()
	if status >= http.StatusInternalServerError {
		zerolog.Ctx(c.Request.Context()).Error().Err(err).Str("code", appErr.Code).Msg("request failed")
	}
	_ = c.Error(err)
	c.JSON(status, response.ErrorResponseFromAppError(appErr, middleware.GetCorrelationID(c)))
}

func respondOK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, response.SuccessResponse(data, middleware.GetCorrelationID(c)))
}

func respondStatus(c *gin.Context, status string) {
	respondOK(c, model.StatementResult{Status: status})
}

// parseObjectType writes a 400 and returns false for an unknown type
func parseObjectType(c *gin.Context, raw string) (model.ObjectType, bool) {
	objectType, err := model.ParseObjectType(raw)
	if err != nil {
		respondError(c, err)
		return "", false
	}
	return objectType, true
}
