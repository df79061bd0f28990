package middleware

import (
	"bytes"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"snowflake-admin/internal/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func serve(r *gin.Engine, method, path string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	for k, values := range header {
		for _, v := range values {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestCorrelationID(t *testing.T) {
	r := gin.New()
	r.Use(CorrelationID())
	r.GET("/ping", func(c *gin.Context) {
		c.String(http.StatusOK, GetCorrelationID(c))
	})

	w := serve(r, http.MethodGet, "/ping", nil)
	generated := w.Header().Get(CorrelationIDHeader)
	_, err := uuid.Parse(generated)
	require.NoError(t, err)
	assert.Equal(t, generated, w.Body.String())

	given := uuid.New().String()
	w = serve(r, http.MethodGet, "/ping", http.Header{CorrelationIDHeader: {given}})
	assert.Equal(t, given, w.Header().Get(CorrelationIDHeader))

	w = serve(r, http.MethodGet, "/ping", http.Header{CorrelationIDHeader: {"not-a-uuid"}})
	assert.NotEqual(t, "not-a-uuid", w.Header().Get(CorrelationIDHeader))
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	r := gin.New()
	r.Use(CorrelationID(), RequestLogger(zerolog.New(&buf)))
	r.GET("/ok", func(c *gin.Context) {
		zerolog.Ctx(c.Request.Context()).Info().Msg("inside")
		c.Status(http.StatusOK)
	})
	r.GET("/fail", func(c *gin.Context) { c.Status(http.StatusBadGateway) })

	serve(r, http.MethodGet, "/ok", nil)
	serve(r, http.MethodGet, "/fail", nil)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], `"message":"inside"`)
	assert.Contains(t, lines[0], `"correlation_id"`)
	assert.Contains(t, lines[1], `"level":"info"`)
	assert.Contains(t, lines[1], `"route":"/ok"`)
	assert.Contains(t, lines[2], `"level":"error"`)
	assert.Contains(t, lines[2], `"status":502`)
}

func TestRateLimit(t *testing.T) {
	rl := NewRateLimiter(RateLimiterConfig{RPM: 1, Burst: 2})
	defer rl.Stop()

	r := gin.New()
	r.Use(CorrelationID(), rl.RateLimit())
	r.GET("/q", func(c *gin.Context) { c.Status(http.StatusOK) })

	for i := 0; i < 2; i++ {
		w := serve(r, http.MethodGet, "/q", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "1", w.Header().Get("X-RateLimit-Limit"))
	}

	w := serve(r, http.MethodGet, "/q", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Contains(t, w.Body.String(), "RATE_LIMIT_EXCEEDED")
	assert.Equal(t, 1, rl.ActiveClients())

	rl.evictIdle(time.Now().Add(10 * time.Minute))
	assert.Zero(t, rl.ActiveClients())
}

func TestPrometheusMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewPrometheusMetrics(reg)

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/v1/users/:name", func(c *gin.Context) { c.String(http.StatusOK, "ok") })

	serve(r, http.MethodGet, "/api/v1/users/jdoe", nil)
	serve(r, http.MethodGet, "/nowhere", nil)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.HttpRequestsTotal.WithLabelValues("GET", "/api/v1/users/:name", "200")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HttpRequestsTotal.WithLabelValues("GET", "unmatched", "404")))

	m.ObserveQuery("SHOW USERS", model.ReturnFrame, 20*time.Millisecond, nil)
	m.ObserveQuery("SELECT", model.ReturnLog, time.Second, errors.New("boom"))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueryTotal.WithLabelValues("SHOW USERS", "df", "success")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.QueryTotal.WithLabelValues("SELECT", "log", "error")))

	m.SetSessionUp(true)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SessionUp))
	m.SetSessionUp(false)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SessionUp))
}
