// Package main is the entrypoint for the bridgekit API server.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/bridgekit/bridgekit/internal/cache"
	"github.com/bridgekit/bridgekit/internal/config"
	"github.com/bridgekit/bridgekit/internal/docstore"
	"github.com/bridgekit/bridgekit/internal/entitlement"
	"github.com/bridgekit/bridgekit/internal/gateway"
	"github.com/bridgekit/bridgekit/internal/handler"
	"github.com/bridgekit/bridgekit/internal/httpx"
	"github.com/bridgekit/bridgekit/internal/identity"
	"github.com/bridgekit/bridgekit/internal/metrics"
	"github.com/bridgekit/bridgekit/internal/middleware"
	"github.com/bridgekit/bridgekit/internal/server"
	"github.com/bridgekit/bridgekit/internal/service"
	"github.com/bridgekit/bridgekit/internal/telemetry"
)

func main() {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Initialize logger
	logger := initLogger(cfg)

	// Initialize document store
	docs, err := docstore.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error(
			"failed to connect to document store",
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}
	defer docs.Close()
	logger.Info("connected to document store")

	// Initialize cache
	cacheClient, err := cache.New(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error(
			"failed to connect to Redis",
			slog.String("error", sanitizeError(err, cfg.RedisURL)),
			slog.String("redis_url", redactURL(cfg.RedisURL)),
		)
		os.Exit(1)
	}
	defer cacheClient.Close()
	logger.Info("connected to Redis")

	// One tuned HTTP client shared by all upstream collaborators.
	upstreamClient := httpx.NewClient()

	// Telemetry reporter
	recorder := metrics.NewInMemory()
	sink := telemetry.NewSinkClient(upstreamClient, cfg.TelemetryHost, cfg.TelemetryAPIKey)
	reporter := telemetry.NewReporter(sink, logger, recorder)

	// Upstream clients
	identityClient := identity.NewClient(upstreamClient, cfg.IdentityAPIURL, cfg.IdentityAPIKey, logger)
	oracleClient := entitlement.NewClient(upstreamClient, cfg.OracleAPIURL, cfg.OracleAPIKey, reporter, logger, recorder)
	gatewayClient := gateway.NewClient(upstreamClient, cfg.GatewayAPIURL, cfg.GatewayAppID, cfg.GatewayAPIKey, reporter, logger, recorder)

	// Services
	reportService := service.NewReportService(
		identityClient, docs, oracleClient, reporter, logger, recorder,
		cfg.PostsCollection, cfg.EntitlementWorkers,
	)
	notifyService := service.NewNotifyService(identityClient, gatewayClient, reporter, logger, recorder)

	// Handlers
	h := handler.New()
	healthHandler := handler.NewHealthHandler(docs, cacheClient)
	usersHandler := handler.NewUsersHandler(reportService, logger)
	notificationsHandler := handler.NewNotificationsHandler(notifyService, logger)
	metricsHandler := handler.NewMetricsHandler(recorder)

	// Setup router
	r := setupRouter(h, healthHandler, usersHandler, notificationsHandler, metricsHandler, identityClient, cacheClient, cfg, logger)

	// Create and run server
	srv := server.New(
		r,
		cfg.AppPort,
		cfg.ReadTimeout,
		cfg.WriteTimeout,
		cfg.ShutdownTimeout,
		logger,
	)

	// Drain in-flight telemetry deliveries on shutdown.
	srv.OnShutdown("telemetry reporter", reporter.Shutdown)

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// setupRouter configures the chi router with all routes and middleware.
func setupRouter(
	h *handler.Handler,
	healthHandler *handler.HealthHandler,
	usersHandler *handler.UsersHandler,
	notificationsHandler *handler.NotificationsHandler,
	metricsHandler *handler.MetricsHandler,
	verifier identity.TokenVerifier,
	cacheClient *cache.Cache,
	cfg *config.Config,
	logger *slog.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))

	// Health endpoints (no auth required)
	r.Get("/healthz", healthHandler.Healthz)
	r.Get("/readyz", healthHandler.Readyz)
	r.Get("/metrics", metricsHandler.Metrics)

	// Root info endpoint
	r.Get("/", h.Hello)

	authCfg := middleware.AuthConfig{
		Logger:   logger,
		Verifier: verifier,
		Cache:    cacheClient,
		CacheTTL: cfg.AuthCacheTTL,
	}

	rateLimitCfg := middleware.RateLimitConfig{
		Logger:  logger,
		Cache:   cacheClient,
		Enabled: cfg.RateLimitEnabled,
		RPM:     cfg.RateLimitRPM,
		Burst:   cfg.RateLimitBurst,
	}

	// API v1 routes (require authentication)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(authCfg))
		r.Use(middleware.RateLimit(rateLimitCfg))

		r.Get("/users", usersHandler.List)
		r.Post("/notifications", notificationsHandler.Send)
	})

	// 404 and 405 handlers
	r.NotFound(h.NotFound)
	r.MethodNotAllowed(h.MethodNotAllowed)

	return r
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
