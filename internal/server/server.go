// Package server wires the HTTP surface: router, middleware and the
// listening http.Server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/justsurfingit/talentra/internal/auth"
	"github.com/justsurfingit/talentra/internal/config"
	"github.com/justsurfingit/talentra/internal/database"
	"github.com/justsurfingit/talentra/internal/handlers"
	"github.com/justsurfingit/talentra/internal/middleware"
	"github.com/justsurfingit/talentra/internal/services"
)

// Version is reported by the health endpoint; set at build time.
var Version = "dev"

// NewRouter builds the gin engine serving /api/v1.
func NewRouter(cfg *config.Config, db *gorm.DB, log *zap.Logger) (*gin.Engine, error) {
	tokens, err := cfg.Auth.TokenMap()
	if err != nil {
		return nil, err
	}
	handlers.RegisterValidatorTagNames()

	// Services
	jobService := services.NewJobService(db, log)
	candidateService := services.NewCandidateService(db, log)
	applicationService := services.NewApplicationService(db, log)
	reportService := services.NewReportService(db, log)

	// Handlers
	jobHandler := handlers.NewJobHandler(jobService, applicationService, reportService)
	candidateHandler := handlers.NewCandidateHandler(candidateService)
	applicationHandler := handlers.NewApplicationHandler(applicationService, reportService, log)
	healthHandler := handlers.NewHealthHandler(func(ctx context.Context) error {
		return database.Ping(ctx, db)
	}, Version, log)

	authn := auth.NewAuthenticator(tokens, log)
	requireSession := authn.RequireSession()

	r := gin.New()
	// ClientIP feeds the rate limiter, so forwarded headers count only from
	// configured proxies.
	if err := r.SetTrustedProxies(cfg.Server.TrustedProxies); err != nil {
		return nil, fmt.Errorf("trusted proxies: %w", err)
	}
	r.Use(middleware.RequestID(), middleware.Logger(log), middleware.Recovery(log))
	r.Use(cors.New(corsConfig(cfg.Server.CORSOrigins)))

	createLimit := func(c *gin.Context) { c.Next() }
	if cfg.RateLimit.Enabled {
		createLimit = middleware.NewIPRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst).Middleware()
	}

	api := r.Group("/api/v1")
	{
		api.GET("/health", healthHandler.HealthCheck)

		// Job Routes
		api.GET("/jobs", jobHandler.ListJobs)
		api.GET("/jobs/pipeline-summary", jobHandler.PipelineSummary)
		api.GET("/jobs/:id", jobHandler.GetJob)
		api.GET("/jobs/:id/applications", jobHandler.ListJobApplications)
		api.POST("/jobs", requireSession, jobHandler.CreateJob)
		api.PUT("/jobs/:id", requireSession, jobHandler.UpdateJob)
		api.PATCH("/jobs/:id/status", requireSession, jobHandler.UpdateJobStatus)
		api.DELETE("/jobs/:id", requireSession, jobHandler.DeleteJob)

		// Candidate Routes
		api.GET("/candidates", candidateHandler.ListCandidates)
		api.GET("/candidates/:id", candidateHandler.GetCandidate)
		api.POST("/candidates", createLimit, candidateHandler.CreateCandidate)

		// Application Routes
		api.GET("/applications/stats", applicationHandler.Stats)
		api.GET("/applications/trend", applicationHandler.Trend)
		api.GET("/applications/stale", applicationHandler.Stale)
		api.GET("/applications/recent", applicationHandler.Recent)
		api.POST("/applications", requireSession, applicationHandler.CreateApplication)
		api.PATCH("/applications/:id/status", requireSession, applicationHandler.UpdateApplicationStatus)
	}
	return r, nil
}

func corsConfig(origins []string) cors.Config {
	c := cors.DefaultConfig()
	c.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", middleware.RequestIDHeader}
	c.AllowMethods = []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions}
	c.ExposeHeaders = []string{middleware.RequestIDHeader}

	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	return c
}

// Server is the HTTP server with graceful shutdown.
type Server struct {
	cfg  config.ServerConfig
	http *http.Server
	log  *zap.Logger
}

func New(cfg *config.Config, db *gorm.DB, log *zap.Logger) (*Server, error) {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	router, err := NewRouter(cfg, db, log)
	if err != nil {
		return nil, err
	}
	return &Server{
		cfg: cfg.Server,
		http: &http.Server{
			Addr:         cfg.Server.Addr(),
			Handler:      router,
			ReadTimeout:  cfg.Server.ReadTimeout,
			WriteTimeout: cfg.Server.WriteTimeout,
			IdleTimeout:  cfg.Server.IdleTimeout,
		},
		log: log,
	}, nil
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.http.Handler
}

// Run serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("Server starting", zap.String("addr", s.http.Addr))
		if err := s.http.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	s.log.Info("Shutting down server", zap.Duration("timeout", timeout))
	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
