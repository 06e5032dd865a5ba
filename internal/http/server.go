package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/metric"

	authHTTP "github.com/allisson/tokengate/internal/auth/http"
	authService "github.com/allisson/tokengate/internal/auth/service"
	"github.com/allisson/tokengate/internal/config"
	"github.com/allisson/tokengate/internal/metrics"
	tokenHTTP "github.com/allisson/tokengate/internal/token/http"
)

// Server represents the HTTP server for the token API.
type Server struct {
	server *http.Server
	logger *slog.Logger
}

// NewServer creates a new HTTP server with the full middleware chain and
// token routes.
func NewServer(
	cfg *config.Config,
	logger *slog.Logger,
	tokenHandler *tokenHTTP.TokenHandler,
	apiKeyService authService.APIKeyService,
	meterProvider metric.MeterProvider,
) *Server {
	router := NewRouter(cfg, logger, tokenHandler, apiKeyService, meterProvider)

	return &Server{
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.ServerHost, cfg.ServerPort),
			Handler:      router,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// NewRouter builds the gin engine with middleware and routes. Exposed
// separately so tests can exercise the routing table without a listener.
func NewRouter(
	cfg *config.Config,
	logger *slog.Logger,
	tokenHandler *tokenHTTP.TokenHandler,
	apiKeyService authService.APIKeyService,
	meterProvider metric.MeterProvider,
) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(RequestIDMiddleware())
	router.Use(CustomLoggerMiddleware(logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if meterProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(meterProvider, cfg.MetricsNamespace))
	}

	// Health and readiness endpoints stay outside auth and rate limiting.
	router.GET("/health", HealthHandler)
	router.GET("/ready", ReadinessHandler)

	api := router.Group("/v1/tokens")

	if cfg.RateLimitEnabled {
		api.Use(RateLimitMiddleware(cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, logger))
	}

	if cfg.AuthEnabled && apiKeyService != nil {
		api.Use(authHTTP.AuthenticationMiddleware(apiKeyService, logger))
	}

	api.POST("/issue", tokenHandler.IssueHandler)
	api.POST("/validate", tokenHandler.ValidateHandler)
	api.DELETE("/:token_id", tokenHandler.RevokeHandler)
	api.GET("/stats", tokenHandler.StatsHandler)
	api.POST("/cleanup", tokenHandler.CleanupHandler)

	return router
}

// HealthHandler reports process liveness.
func HealthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// ReadinessHandler reports readiness to serve traffic. The token store is
// purely in-memory, so the process is ready as soon as it is serving.
func ReadinessHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

// GetHandler returns the http.Handler for testing purposes.
func (s *Server) GetHandler() http.Handler {
	return s.server.Handler
}

// Start starts the HTTP server.
func (s *Server) Start(ctx context.Context) error {
	s.logger.Info("starting http server", slog.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down http server")
	return s.server.Shutdown(ctx)
}
