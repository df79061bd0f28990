package controller

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"snowflake-admin/internal/middleware"
	"snowflake-admin/internal/model"
	"snowflake-admin/pkg/response"
)

// AdminController serves queries, session context and object management
type AdminController struct {
	warehouse Warehouse
	templates TemplateLister
	validator *validator.Validate
}

func NewAdminController(warehouse Warehouse, templates TemplateLister) *AdminController {
	return &AdminController{
		warehouse: warehouse,
		templates: templates,
		validator: validator.New(),
	}
}

// ExecuteQuery runs a statement and returns it in the requested shape. The
// body is always SQL text, never a path on the server.
// @Router /api/v1/query [post]
func (ac *AdminController) ExecuteQuery(c *gin.Context) {
	var req model.QueryRequest
	if !bindJSON(c, ac.validator, &req) {
		return
	}

	returnType, err := model.ParseReturnType(req.ReturnType)
	if err != nil {
		respondError(c, err)
		return
	}

	ctx := c.Request.Context()
	if req.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, time.Duration(req.Timeout)*time.Second)
		defer cancel()
	}

	start := time.Now()
	result, err := ac.warehouse.QueryStatement(ctx, req.Query, returnType)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, response.QueryResultResponse(result, start, middleware.GetCorrelationID(c)))
}

// Use switches the session's warehouse, database or schema
// @Router /api/v1/use [post]
func (ac *AdminController) Use(c *gin.Context) {
	var req model.UseRequest
	if !bindJSON(c, ac.validator, &req) {
		return
	}
	if req.Warehouse == "" && req.Database == "" && req.Schema == "" {
		c.JSON(http.StatusUnprocessableEntity, response.ValidationErrorResponse(
			"one of warehouse, database or schema is required",
			middleware.GetCorrelationID(c),
		))
		return
	}

	if err := ac.warehouse.Use(c.Request.Context(), req.Warehouse, req.Database, req.Schema); err != nil {
		respondError(c, err)
		return
	}
	ac.currentContext(c)
}

// GetWarehouse reports the session's current context
// @Router /api/v1/warehouse [get]
func (ac *AdminController) GetWarehouse(c *gin.Context) {
	ac.currentContext(c)
}

// GetSession reports who the pinned session runs as and where
// @Router /api/v1/session [get]
func (ac *AdminController) GetSession(c *gin.Context) {
	info, err := ac.warehouse.AccountInfo(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, info)
}

func (ac *AdminController) currentContext(c *gin.Context) {
	warehouse, err := ac.warehouse.Warehouse(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, model.SessionContext{
		Warehouse: warehouse,
		Database:  ac.warehouse.Database(),
		Schema:    ac.warehouse.Schema(),
	})
}

// CreateObject renders a definition and runs the CREATE statement
// @Router /api/v1/objects [post]
func (ac *AdminController) CreateObject(c *gin.Context) {
	var req model.CreateObjectRequest
	if !bindJSON(c, ac.validator, &req) {
		return
	}
	objectType, ok := parseObjectType(c, req.Type)
	if !ok {
		return
	}

	status, err := ac.warehouse.CreateFromDefinition(c.Request.Context(), req.Definition, objectType)
	if err != nil {
		respondError(c, err)
		return
	}
	respondStatus(c, status)
}

// RenderObject returns the CREATE statement for a definition without running it
// @Router /api/v1/objects/render [post]
func (ac *AdminController) RenderObject(c *gin.Context) {
	var req model.CreateObjectRequest
	if !bindJSON(c, ac.validator, &req) {
		return
	}
	objectType, ok := parseObjectType(c, req.Type)
	if !ok {
		return
	}

	stmt, err := ac.warehouse.RenderCreate(req.Definition, objectType)
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"statement": stmt})
}

// DropObject drops an object if it exists
// @Router /api/v1/objects/{type}/{name} [delete]
func (ac *AdminController) DropObject(c *gin.Context) {
	objectType, ok := parseObjectType(c, c.Param("type"))
	if !ok {
		return
	}

	status, err := ac.warehouse.Drop(c.Request.Context(), c.Param("name"), objectType)
	if err != nil {
		respondError(c, err)
		return
	}
	respondStatus(c, status)
}

// TruncateTable removes all rows from a table
// @Router /api/v1/tables/{name}/truncate [post]
func (ac *AdminController) TruncateTable(c *gin.Context) {
	status, err := ac.warehouse.TruncateTable(c.Request.Context(), c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}
	respondStatus(c, status)
}

// InsertRows appends rows to a table
// @Router /api/v1/tables/{name}/rows [post]
func (ac *AdminController) InsertRows(c *gin.Context) {
	var req model.InsertRowsRequest
	if !bindJSON(c, ac.validator, &req) {
		return
	}

	n, err := ac.warehouse.InsertData(c.Request.Context(), c.Param("name"), req.Frame())
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, gin.H{"rowsInserted": n})
}

// CreateSchema creates a schema in the current database
// @Router /api/v1/schemas [post]
func (ac *AdminController) CreateSchema(c *gin.Context) {
	var req model.ContainerRequest
	if !bindJSON(c, ac.validator, &req) {
		return
	}

	status, err := ac.warehouse.CreateSchema(c.Request.Context(), req.Name, req.Replace)
	if err != nil {
		respondError(c, err)
		return
	}
	respondStatus(c, status)
}

// CreateDatabase creates a database
// @Router /api/v1/databases [post]
func (ac *AdminController) CreateDatabase(c *gin.Context) {
	var req model.ContainerRequest
	if !bindJSON(c, ac.validator, &req) {
		return
	}

	status, err := ac.warehouse.CreateDatabase(c.Request.Context(), req.Name, req.Replace)
	if err != nil {
		respondError(c, err)
		return
	}
	respondStatus(c, status)
}

// ListTemplates lists the SQL templates the server renders with
// @Router /api/v1/templates [get]
func (ac *AdminController) ListTemplates(c *gin.Context) {
	names, err := ac.templates.List()
	if err != nil {
		respondError(c, err)
		return
	}
	respondOK(c, names)
}
