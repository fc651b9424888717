// Package server is the composition root: it opens storage, builds the
// services and handlers, mounts the routes and runs the HTTP server.
//
// DEPENDENCY FLOW:
//
//	config.Config → repository.Store (sqlite or gormdb)
//	             → upload.Uploader (Cloudinary or Disabled)
//	Store + Uploader → services → handlers → chi routes
//
// Handlers only see services and services only see repository
// interfaces, so tests can swap any layer.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sakif/job-board/internal/auth"
	"github.com/sakif/job-board/internal/config"
	"github.com/sakif/job-board/internal/handler"
	"github.com/sakif/job-board/internal/middleware"
	"github.com/sakif/job-board/internal/repository"
	"github.com/sakif/job-board/internal/repository/gormdb"
	sqliteRepo "github.com/sakif/job-board/internal/repository/sqlite"
	"github.com/sakif/job-board/internal/service"
	"github.com/sakif/job-board/internal/upload"
)

// Server owns the router and the store. The store is closed when Start
// returns.
type Server struct {
	router   *chi.Mux
	config   config.Config
	logger   *slog.Logger
	store    repository.Store
	registry *prometheus.Registry
}

// New opens the configured store and uploader and wires the server.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	store, err := OpenStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	uploader, err := newUploader(cfg, logger)
	if err != nil {
		store.Close()
		return nil, err
	}

	s, err := NewWithDeps(cfg, logger, store, uploader)
	if err != nil {
		store.Close()
		return nil, err
	}
	return s, nil
}

// NewWithDeps wires a server around an already-open store and uploader.
// Tests use it with an in-memory store and a fake uploader.
func NewWithDeps(cfg config.Config, logger *slog.Logger, store repository.Store, uploader upload.Uploader) (*Server, error) {
	s := &Server{
		router:   chi.NewRouter(),
		config:   cfg,
		logger:   logger,
		store:    store,
		registry: prometheus.NewRegistry(),
	}
	if err := s.setupRoutes(uploader); err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}
	return s, nil
}

// OpenStore opens the repository selected by cfg.DBDriver.
func OpenStore(cfg config.Config, logger *slog.Logger) (repository.Store, error) {
	switch cfg.DBDriver {
	case config.DriverPostgres:
		store, err := gormdb.OpenPostgres(cfg.DatabaseURL, gormdb.Options{
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: time.Hour,
			Logger:          logger,
		})
		if err != nil {
			return nil, fmt.Errorf("opening postgres: %w", err)
		}
		return store, nil

	case config.DriverSQLite, "":
		if cfg.DBPath != ":memory:" {
			// Like `mkdir -p`; the sqlite driver will not create directories.
			if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory: %w", err)
			}
		}
		store, err := sqliteRepo.New(cfg.DBPath)
		if err != nil {
			return nil, fmt.Errorf("opening sqlite: %w", err)
		}
		return store, nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DBDriver)
	}
}

// newUploader returns Cloudinary when credentials are configured. Without
// them the server still starts; every application submission then fails
// with an upload error.
func newUploader(cfg config.Config, logger *slog.Logger) (upload.Uploader, error) {
	if !cfg.UploadsEnabled() {
		logger.Warn("cloudinary credentials not set, resume uploads are disabled")
		return upload.Disabled{}, nil
	}
	c, err := upload.NewCloudinary(cfg.Cloudinary.CloudName, cfg.Cloudinary.APIKey, cfg.Cloudinary.APISecret, logger)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.router
}

// setupRoutes configures middleware and routes.
//
// ROUTES:
//
//	POST /auth/signup                    public
//	POST /auth/login                     public (form)
//	GET  /auth/me                        bearer
//	POST /jobs                           bearer, company
//	GET  /jobs                           bearer
//	POST /applications                   bearer, applicant (multipart)
//	GET  /applications                   bearer, applicant
//	GET  /applications/jobs/{jobID}      bearer, owning company
//	GET  /healthz                        public
//	GET  /metrics                        public
//
// Role checks happen in the services; the router only decides whether a
// bearer token is required.
func (s *Server) setupRoutes(uploader upload.Uploader) error {
	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}

	s.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics := middleware.NewMetrics(s.registry)

	// Order: request id first so the logger can print it; Recoverer last so
	// a panic is still logged and counted as a 500.
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(metrics.Handler)
	s.router.Use(chimiddleware.Recoverer)

	authService := service.NewAuthService(s.store, tokens, auth.NewPasswordService(), s.logger)
	jobService := service.NewJobService(s.store, s.config.MaxPageSize, s.logger)
	applicationService := service.NewApplicationService(s.store, s.store, uploader, service.ApplicationSettings{
		ResumeFolder:    s.config.Cloudinary.Folder,
		ResumeURLPrefix: s.config.ResumeURLPrefix,
		MaxPageSize:     s.config.MaxPageSize,
	}, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	jobHandler := handler.NewJobHandler(jobService, s.logger)
	applicationHandler := handler.NewApplicationHandler(applicationService, s.config.MaxUploadBytes, s.logger)
	healthHandler := handler.NewHealthHandler(s.store, s.logger)

	s.router.Get("/healthz", healthHandler.HandleHealth)
	s.router.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	s.router.Route("/auth", func(r chi.Router) {
		r.Post("/signup", authHandler.HandleSignup)
		r.Post("/login", authHandler.HandleLogin)
		r.With(auth.RequireAuth(authService)).Get("/me", authHandler.HandleMe)
	})

	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(authService))

		r.Post("/jobs", jobHandler.HandleCreate)
		r.Get("/jobs", jobHandler.HandleBrowse)

		r.Post("/applications", applicationHandler.HandleApply)
		r.Get("/applications", applicationHandler.HandleListMine)
		r.Get("/applications/jobs/{jobID}", applicationHandler.HandleListForJob)
	})

	return nil
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully:
// stop accepting connections, give in-flight requests 30 seconds, close the
// store.
func (s *Server) Start() error {
	defer s.store.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("url", fmt.Sprintf("http://localhost:%d", s.config.Port)),
			slog.String("db_driver", s.config.DBDriver),
		)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-quit:
		s.logger.Info("shutdown signal received", slog.String("signal", sig.String()))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("graceful shutdown failed: %w", err)
		}
		s.logger.Info("server stopped gracefully")
	}

	return nil
}
