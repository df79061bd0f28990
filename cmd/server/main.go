package main

import (
	"context"
	"errors"
	"flag"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"snowflake-admin/internal/config"
	"snowflake-admin/internal/controller"
	"snowflake-admin/internal/database"
	"snowflake-admin/internal/logger"
	"snowflake-admin/internal/middleware"
	"snowflake-admin/internal/security"
	"snowflake-admin/internal/snowflake"
)

func main() {
	configPath := flag.String("config", "", "config file (default ./configs/config.yaml or ./config.yaml)")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		bootLog := zerolog.New(os.Stderr).With().Timestamp().Logger()
		bootLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(cfg.Logging)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("Server stopped")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	sfCfg, err := cfg.Snowflake.ToSnowflakeConfig()
	if err != nil {
		return err
	}
	log.Info().Interface("snowflake", sfCfg.GetConnectionParameters()).Msg("Snowflake connection configured")

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewPrometheusMetrics(registry)

	// The session opens on the first request that needs it
	client, err := snowflake.NewFromConfig(sfCfg, snowflake.Options{
		TemplateFolder:  cfg.Templates.Dir,
		InsertBatchSize: cfg.Snowflake.InsertBatchSize,
		Logger:          log,
		Observer:        metrics,
	})
	if err != nil {
		return err
	}
	defer func() {
		if err := client.Close(); err != nil {
			log.Error().Err(err).Msg("Failed to close Snowflake session")
		}
	}()

	routerCfg := controller.RouterConfig{
		Logger:  log,
		Metrics: metrics,
		Health:  controller.NewHealthController(database.NewHealthChecker(client, 5*time.Second), metrics.SetSessionUp),
		Admin:   controller.NewAdminController(client, client.Template),
		Users:   controller.NewUserController(client.User),
		Roles:   controller.NewRoleController(client.Role),
	}
	if cfg.Metrics.Enabled {
		routerCfg.MetricsPath = cfg.Metrics.Path
		routerCfg.MetricsHandler = promhttp.HandlerFor(registry, promhttp.HandlerOpts{Registry: registry})
	}
	if cfg.Security.EnableAuth {
		routerCfg.Auth = security.NewAuthMiddleware(security.NewJWTManager(cfg.Security.JWTSecret, cfg.Security.JWTExpiration))
	}
	if cfg.Security.EnableRateLimit {
		rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
			RPM:             cfg.Security.RateLimitPerMinute,
			Burst:           cfg.Security.RateLimitBurst,
			CleanupInterval: 5 * time.Minute,
		})
		defer rateLimiter.Stop()
		routerCfg.RateLimiter = rateLimiter
	}

	srv := &http.Server{
		Addr:              net.JoinHostPort(cfg.Server.Host, cfg.Server.Port),
		Handler:           controller.NewRouter(routerCfg),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info().Msg("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
