package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"snowflake-admin/internal/model"
)

// PrometheusMetrics holds the server's HTTP and Snowflake metrics
type PrometheusMetrics struct {
	// HTTP request metrics
	HttpRequestsTotal   *prometheus.CounterVec
	HttpRequestDuration *prometheus.HistogramVec
	HttpRequestSize     *prometheus.HistogramVec
	HttpResponseSize    *prometheus.HistogramVec

	// Statement metrics
	QueryTotal    *prometheus.CounterVec
	QueryDuration *prometheus.HistogramVec

	// Session health
	SessionUp prometheus.Gauge
}

// NewPrometheusMetrics registers the metrics with reg
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		HttpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sfadmin_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status"},
		),
		HttpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sfadmin_http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),
		HttpRequestSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sfadmin_http_request_size_bytes",
				Help:    "HTTP request size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "endpoint"},
		),
		HttpResponseSize: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sfadmin_http_response_size_bytes",
				Help:    "HTTP response size in bytes",
				Buckets: []float64{100, 1000, 10000, 100000, 1000000},
			},
			[]string{"method", "endpoint"},
		),

		QueryTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "sfadmin_statements_total",
				Help: "Total number of Snowflake statements executed",
			},
			[]string{"kind", "return_type", "status"},
		),
		// Warehouse statements run far longer than HTTP handlers
		QueryDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "sfadmin_statement_duration_seconds",
				Help:    "Snowflake statement execution time in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
			},
			[]string{"kind"},
		),

		SessionUp: factory.NewGauge(prometheus.GaugeOpts{
			Name: "sfadmin_snowflake_session_up",
			Help: "Whether the Snowflake session answered the last health check (1=up, 0=down)",
		}),
	}
}

// Middleware records HTTP metrics for every request
func (m *PrometheusMetrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(c.Writer.Status())
		method := c.Request.Method
		endpoint := c.FullPath()
		if endpoint == "" {
			endpoint = "unmatched"
		}

		m.HttpRequestsTotal.WithLabelValues(method, endpoint, status).Inc()
		m.HttpRequestDuration.WithLabelValues(method, endpoint).Observe(duration)

		if c.Request.ContentLength > 0 {
			m.HttpRequestSize.WithLabelValues(method, endpoint).Observe(float64(c.Request.ContentLength))
		}
		if c.Writer.Size() > 0 {
			m.HttpResponseSize.WithLabelValues(method, endpoint).Observe(float64(c.Writer.Size()))
		}
	}
}

// ObserveQuery records one executed statement
func (m *PrometheusMetrics) ObserveQuery(kind string, returnType model.ReturnType, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	m.QueryTotal.WithLabelValues(kind, string(returnType), status).Inc()
	m.QueryDuration.WithLabelValues(kind).Observe(duration.Seconds())
}

// SetSessionUp records the outcome of a health check
func (m *PrometheusMetrics) SetSessionUp(up bool) {
	if up {
		m.SessionUp.Set(1)
		return
	}
	m.SessionUp.Set(0)
}
