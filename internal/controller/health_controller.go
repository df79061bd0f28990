package controller

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"snowflake-admin/internal/database"
)

// Version is reported by the health endpoint
var Version = "dev"

type HealthResponse struct {
	Status    string                      `json:"status"`
	Timestamp time.Time                   `json:"timestamp"`
	Service   string                      `json:"service"`
	Version   string                      `json:"version"`
	Snowflake *database.HealthCheckResult `json:"snowflake"`
}

type HealthController struct {
	checker *database.HealthChecker
	// onCheck, when set, is told whether the session answered
	onCheck func(up bool)
}

func NewHealthController(checker *database.HealthChecker, onCheck func(up bool)) *HealthController {
	return &HealthController{
		checker: checker,
		onCheck: onCheck,
	}
}

// HealthCheck reports service health. An unopened session counts as
// healthy; the check never opens one.
func (hc *HealthController) HealthCheck(c *gin.Context) {
	result := hc.checker.Check(c.Request.Context())

	resp := HealthResponse{
		Status:    database.HealthStatusHealthy,
		Timestamp: time.Now(),
		Service:   "snowflake-admin",
		Version:   Version,
		Snowflake: result,
	}

	statusCode := http.StatusOK
	if !result.Healthy() {
		resp.Status = database.HealthStatusUnhealthy
		statusCode = http.StatusServiceUnavailable
	}
	if hc.onCheck != nil && result.Status != database.HealthStatusIdle {
		hc.onCheck(result.Healthy())
	}

	c.JSON(statusCode, resp)
}
