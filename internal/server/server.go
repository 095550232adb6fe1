// Package server is the composition root: it wires the database,
// repositories, services, and handlers together, defines every route, and
// owns the server lifecycle.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/time/rate"

	"github.com/SmitChaudhari26/VoxDesk/internal/auth"
	"github.com/SmitChaudhari26/VoxDesk/internal/config"
	"github.com/SmitChaudhari26/VoxDesk/internal/handler"
	"github.com/SmitChaudhari26/VoxDesk/internal/metrics"
	"github.com/SmitChaudhari26/VoxDesk/internal/middleware"
	sqliteRepo "github.com/SmitChaudhari26/VoxDesk/internal/repository/sqlite"
	"github.com/SmitChaudhari26/VoxDesk/internal/service"
)

// Auth endpoints get a much stricter budget than the rest of the API:
// they are the ones worth brute-forcing.
const (
	authRateLimit = rate.Limit(1)
	authRateBurst = 5
)

// Server holds the router and the resources it owns. The database
// connection is closed during graceful shutdown.
type Server struct {
	router      *chi.Mux
	config      config.Config
	logger      *slog.Logger
	db          *sqliteRepo.DB
	apiLimiter  *middleware.RateLimiter
	authLimiter *middleware.RateLimiter
}

// New builds the full dependency graph and registers every route.
func New(cfg config.Config, logger *slog.Logger) (*Server, error) {
	db, err := sqliteRepo.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
		db:     db,
	}

	if err := s.setupRoutes(); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) setupRoutes() error {
	userRepo := sqliteRepo.NewUserRepo(s.db)
	noteRepo := sqliteRepo.NewNoteRepo(s.db)
	todoRepo := sqliteRepo.NewTodoRepo(s.db)
	taskRepo := sqliteRepo.NewTaskRepo(s.db)

	tokens, err := auth.NewTokenService(s.config.JWTSecret, s.config.TokenTTL)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()
	google := auth.NewGoogleProvider(s.config.GoogleClientID, s.config.GoogleClientSecret, s.config.GoogleCallbackURL)

	authService := service.NewAuthService(userRepo, tokens, passwords, s.logger)
	noteService := service.NewNoteService(noteRepo, s.logger)
	todoService := service.NewTodoService(todoRepo, s.logger)
	taskService := service.NewTaskService(taskRepo, s.logger)

	registry := prometheus.NewRegistry()
	collector := metrics.NewCollector(registry)

	authHandler := handler.NewAuthHandler(authService, google, s.logger).WithSignInRecorder(collector)
	noteHandler := handler.NewNoteHandler(noteService, s.logger)
	todoHandler := handler.NewTodoHandler(todoService, s.logger)
	taskHandler := handler.NewTaskHandler(taskService, s.logger)
	healthHandler := handler.NewHealthHandler(s.config.Env)

	s.apiLimiter = middleware.NewRateLimiter(rate.Limit(s.config.RateLimitRPS), s.config.RateLimitBurst)
	s.authLimiter = middleware.NewRateLimiter(authRateLimit, authRateBurst)

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.CORS(s.config.AllowedOrigin))
	s.router.Use(collector.Middleware)

	s.router.Handle("/metrics", metrics.Handler(registry))
	s.router.Get("/api/health", healthHandler.HandleHealth)

	s.router.Route("/api/auth", func(r chi.Router) {
		r.Use(s.authLimiter.Limit)
		r.Post("/register", authHandler.HandleRegister)
		r.Post("/login", authHandler.HandleLogin)
		r.Post("/google", authHandler.HandleGoogleSignIn)
		r.Get("/google/login", authHandler.HandleGoogleLogin)
		r.Get("/google/callback", authHandler.HandleGoogleCallback)
	})

	s.router.Group(func(r chi.Router) {
		r.Use(s.apiLimiter.Limit)
		r.Use(auth.RequireAuth(tokens, userRepo))

		r.Get("/api/profile", authHandler.HandleProfile)

		r.Route("/api/notes", func(r chi.Router) {
			r.Get("/", noteHandler.HandleList)
			r.Post("/", noteHandler.HandleCreate)
			r.Delete("/{id}", noteHandler.HandleDelete)
		})

		r.Route("/api/todos", func(r chi.Router) {
			r.Get("/", todoHandler.HandleList)
			r.Post("/", todoHandler.HandleCreate)
			r.Put("/{id}", todoHandler.HandleUpdate)
			r.Delete("/{id}", todoHandler.HandleDelete)
		})

		r.Route("/api/tasks", func(r chi.Router) {
			r.Get("/", taskHandler.HandleList)
			r.Post("/", taskHandler.HandleCreate)
			r.Put("/{id}", taskHandler.HandleUpdate)
			r.Delete("/{id}", taskHandler.HandleDelete)
		})
	})

	return nil
}

// Handler exposes the router, mainly so tests can drive the full stack
// without binding a port.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Close releases the server's resources without serving. Start does this
// itself; Close exists for callers that never reach Start.
func (s *Server) Close() error {
	s.apiLimiter.Stop()
	s.authLimiter.Stop()
	return s.db.Close()
}

// Start runs the HTTP server until SIGINT/SIGTERM, then drains in-flight
// requests for up to 30 seconds and closes the database.
func (s *Server) Start() error {
	defer s.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("env", s.config.Env),
			slog.String("database", s.config.DBPath),
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
