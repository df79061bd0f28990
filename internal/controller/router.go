package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"snowflake-admin/internal/middleware"
	"snowflake-admin/internal/security"
)

// RouterConfig carries everything the admin API is assembled from. Nil
// middleware fields are skipped.
type RouterConfig struct {
	Logger      zerolog.Logger
	Metrics     *middleware.PrometheusMetrics
	MetricsPath string
	// MetricsHandler serves MetricsPath when set
	MetricsHandler http.Handler
	RateLimiter    *middleware.RateLimiter
	Auth           *security.AuthMiddleware

	Health *HealthController
	Admin  *AdminController
	Users  *UserController
	Roles  *RoleController
}

// NewRouter builds the gin engine with every route registered
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.CorrelationID())
	router.Use(middleware.RequestLogger(cfg.Logger))
	if cfg.Metrics != nil {
		router.Use(cfg.Metrics.Middleware())
	}

	// Public endpoints
	router.GET("/health", cfg.Health.HealthCheck)
	if cfg.MetricsHandler != nil {
		router.GET(cfg.MetricsPath, gin.WrapH(cfg.MetricsHandler))
	}

	api := router.Group("/api/v1")
	if cfg.Auth != nil {
		api.Use(cfg.Auth.RequireAuth())
	}
	if cfg.RateLimiter != nil {
		api.Use(cfg.RateLimiter.RateLimit())
	}

	read := api.Group("")
	write := api.Group("")
	if cfg.Auth != nil {
		read.Use(cfg.Auth.RequireAnyRole(security.RoleAdmin, security.RoleViewer))
		write.Use(cfg.Auth.RequireAnyRole(security.RoleAdmin))
	}

	{
		read.GET("/warehouse", cfg.Admin.GetWarehouse)
		read.GET("/session", cfg.Admin.GetSession)
		read.GET("/templates", cfg.Admin.ListTemplates)
		read.POST("/objects/render", cfg.Admin.RenderObject)

		write.POST("/query", cfg.Admin.ExecuteQuery)
		write.POST("/use", cfg.Admin.Use)
		write.POST("/objects", cfg.Admin.CreateObject)
		write.DELETE("/objects/:type/:name", cfg.Admin.DropObject)
		write.POST("/tables/:name/truncate", cfg.Admin.TruncateTable)
		write.POST("/tables/:name/rows", cfg.Admin.InsertRows)
		write.POST("/schemas", cfg.Admin.CreateSchema)
		write.POST("/databases", cfg.Admin.CreateDatabase)
	}

	{
		read.GET("/users", cfg.Users.ListUsers)
		read.GET("/users/:name", cfg.Users.DescribeUser)
		write.POST("/users", cfg.Users.CreateUser)
		write.DELETE("/users/:name", cfg.Users.RemoveUser)
		write.POST("/users/:name/reset-password", cfg.Users.ResetPassword)
		write.POST("/users/:name/roles", cfg.Users.AddRole)
		write.DELETE("/users/:name/roles/:role", cfg.Users.RemoveRole)
	}

	{
		read.GET("/roles", cfg.Roles.ListRoles)
		write.POST("/roles", cfg.Roles.CreateRole)
		write.DELETE("/roles/:name", cfg.Roles.RemoveRole)
		write.POST("/roles/:name/grants", cfg.Roles.GrantPrivilege)
		write.POST("/roles/:name/revokes", cfg.Roles.RevokePrivilege)
		write.POST("/roles/:name/grants/all-tables", cfg.Roles.GrantOnAllTables)
		write.POST("/roles/:name/grants/imported", cfg.Roles.GrantImportedPrivileges)
	}

	return router
}
