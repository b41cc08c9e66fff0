// Package http provides the HTTP server, router and shared middleware.
package http

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/allisson/sporeid/internal/config"
	deviceHTTP "github.com/allisson/sporeid/internal/device/http"
	"github.com/allisson/sporeid/internal/metrics"
)

// readinessTimeout bounds the database ping done by /ready.
const readinessTimeout = 2 * time.Second

// Server is the public API server.
type Server struct {
	db     *sql.DB
	server *http.Server
	router *gin.Engine
	logger *slog.Logger
}

// NewServer creates a server listening on host:port. Call SetupRouter before Start.
func NewServer(
	db *sql.DB,
	host string,
	port int,
	logger *slog.Logger,
) *Server {
	return &Server{
		db:     db,
		logger: logger,
		server: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", host, port),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}
}

// SetupRouter registers middleware and routes. ctx bounds background work started by
// middleware, such as rate limiter cleanup.
func (s *Server) SetupRouter(
	ctx context.Context,
	cfg *config.Config,
	deviceIDHandler *deviceHTTP.DeviceIDHandler,
	deviceHandler *deviceHTTP.DeviceHandler,
	metricsProvider *metrics.Provider,
) {
	gin.SetMode(cfg.GetGinMode())

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestid.New(requestid.WithGenerator(func() string {
		return uuid.Must(uuid.NewV7()).String()
	})))
	router.Use(CustomLoggerMiddleware(s.logger))

	if corsMiddleware := createCORSMiddleware(cfg.CORSEnabled, cfg.CORSAllowOrigins, s.logger); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	if metricsProvider != nil {
		router.Use(metrics.HTTPMetricsMiddleware(metricsProvider.MeterProvider(), metricsProvider.Namespace()))
	}

	router.GET("/health", s.healthHandler)
	router.GET("/ready", s.readinessHandler)

	v1 := router.Group("/v1")
	if cfg.RateLimitEnabled {
		v1.Use(RateLimitMiddleware(ctx, cfg.RateLimitRequestsPerSec, cfg.RateLimitBurst, s.logger))
	}

	deviceIDs := v1.Group("/device-ids")
	{
		deviceIDs.POST("", deviceIDHandler.GenerateHandler)
		deviceIDs.POST("/validate", deviceIDHandler.ValidateHandler)
		deviceIDs.GET("/:id", deviceIDHandler.ParseHandler)
	}

	devices := v1.Group("/devices")
	{
		devices.POST("", deviceHandler.ProvisionHandler)
		devices.POST("/batch", deviceHandler.ProvisionBatchHandler)
		devices.GET("", deviceHandler.ListHandler)
		devices.GET("/:id", deviceHandler.GetHandler)
		devices.DELETE("/:id", deviceHandler.RevokeHandler)
		devices.POST("/:id/announce", deviceHandler.AnnounceHandler)
	}

	s.router = router
}

// GetHandler returns the configured router.
func (s *Server) GetHandler() http.Handler {
	return s.router
}

// Start serves requests until Shutdown is called.
func (s *Server) Start(ctx context.Context) error {
	if s.router == nil {
		return fmt.Errorf("router not configured: call SetupRouter before Start")
	}
	s.server.Handler = s.router

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

func (s *Server) healthHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

// readinessHandler reports ready only when the database answers a ping.
func (s *Server) readinessHandler(c *gin.Context) {
	if s.db == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
	defer cancel()

	if err := s.db.PingContext(ctx); err != nil {
		s.logger.Warn("readiness check failed", slog.Any("error", err))
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":     "not_ready",
			"components": gin.H{"database": "error"},
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":     "ready",
		"components": gin.H{"database": "ok"},
	})
}
