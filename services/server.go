package services

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/upcv/backend/repository"
)

type routeRegistrar interface {
	RegisterRoutes(r chi.Router)
}

// Server holds all server dependencies
type Server struct {
	config        *Config
	repo          *repository.GORMRepository
	authService   *AuthService
	authEndpoints *AuthEndpoints
	cvRoutes      []routeRegistrar
}

// NewServer creates a new server instance
func NewServer(config *Config, repo *repository.GORMRepository) *Server {
	authService := NewAuthService(repo, config.JWT.Secret, config.IsProduction())

	return &Server{
		config:        config,
		repo:          repo,
		authService:   authService,
		authEndpoints: NewAuthEndpoints(authService),
		cvRoutes: []routeRegistrar{
			NewRecordEndpoints("personal-information", repo.PersonalInformation),
			NewRecordEndpoints("education", repo.Education),
			NewRecordEndpoints("work-experience", repo.WorkExperience),
			NewRecordEndpoints("skills", repo.Skills),
			NewRecordEndpoints("certifications", repo.Certifications),
			NewRecordEndpoints("projects", repo.Projects),
			NewCVEndpoints(repo),
		},
	}
}

// SetupRoutes configures all HTTP routes
func (s *Server) SetupRoutes() *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health endpoint
	r.Get("/health", s.healthHandler)

	// API v1 route group
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/", s.apiV1Handler)

		s.authEndpoints.RegisterRoutes(r)

		// CV routes (protected)
		r.Group(func(r chi.Router) {
			r.Use(s.authService.Middleware)
			for _, routes := range s.cvRoutes {
				routes.RegisterRoutes(r)
			}
		})
	})

	return r
}

// Start starts the HTTP server and blocks until SIGINT or SIGTERM.
func (s *Server) Start() {
	port := s.config.Server.Port
	if port == "" {
		port = "8080"
	}

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           s.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		slog.Info("Starting server", "port", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
	}

	slog.Info("Server exited")
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	dbStatus := "up"

	if err := s.repo.Ping(r.Context()); err != nil {
		slog.Error("Database ping failed", "error", err)
		dbStatus = "down"
		status = "degraded"
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":   status,
		"database": dbStatus,
	})
}

func (s *Server) apiV1Handler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "API v1",
		"version": "1.0.0",
	})
}
