package database

import (
	"context"
	"fmt"
	"time"
)

// HealthTarget is a connection whose liveness can be checked
type HealthTarget interface {
	Connected() bool
	Ping(ctx context.Context) error
}

// HealthChecker performs health checks on the warehouse connection
type HealthChecker struct {
	target  HealthTarget
	timeout time.Duration
}

// NewHealthChecker creates a new HealthChecker instance
func NewHealthChecker(target HealthTarget, timeout time.Duration) *HealthChecker {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &HealthChecker{
		target:  target,
		timeout: timeout,
	}
}

const (
	HealthStatusHealthy   = "healthy"
	HealthStatusUnhealthy = "unhealthy"
	// HealthStatusIdle means no connection has been opened yet
	HealthStatusIdle = "idle"
)

// HealthCheckResult represents the result of a health check
type HealthCheckResult struct {
	Status    string        `json:"status"`
	Message   string        `json:"message,omitempty"`
	Latency   time.Duration `json:"latency"`
	CheckedAt time.Time     `json:"checkedAt"`
}

// Healthy reports whether the check did not fail
func (r *HealthCheckResult) Healthy() bool {
	return r.Status != HealthStatusUnhealthy
}

// Check pings the connection. A connection that was never opened is
// reported idle rather than opened on demand.
func (hc *HealthChecker) Check(ctx context.Context) *HealthCheckResult {
	startTime := time.Now()
	result := &HealthCheckResult{CheckedAt: startTime}

	if !hc.target.Connected() {
		result.Status = HealthStatusIdle
		result.Message = "Connection not opened yet"
		return result
	}

	ctx, cancel := context.WithTimeout(ctx, hc.timeout)
	defer cancel()

	// Ping waits behind any statement holding the session
	done := make(chan error, 1)
	go func() { done <- hc.target.Ping(ctx) }()

	var err error
	select {
	case err = <-done:
	case <-ctx.Done():
		err = ctx.Err()
	}
	result.Latency = time.Since(startTime)

	if err != nil {
		result.Status = HealthStatusUnhealthy
		result.Message = fmt.Sprintf("Connection test failed: %v", err)
	} else {
		result.Status = HealthStatusHealthy
		result.Message = "Connection successful"
	}

	return result
}
