// Package server sets up the HTTP server, router, and all route definitions.
//
// This is the composition root: the one place where the dependency chain is
// assembled and wired to routes.
//
//	config.Config → backend.Client → AuthService / UserService
//	                session.Store  ↗
//	                Renderer       → AuthHandler / DashboardHandler
//
// Each layer only receives what it needs: handlers get services and the
// session store, services get the shared client, the client gets config.
// No layer reaches around another.
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

	"github.com/sakif/user-admin/internal/backend"
	"github.com/sakif/user-admin/internal/config"
	"github.com/sakif/user-admin/internal/handler"
	"github.com/sakif/user-admin/internal/middleware"
	"github.com/sakif/user-admin/internal/session"
)

// Server is the HTTP server and its wired dependencies.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
}

// New creates a Server with the full dependency graph assembled.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	s := &Server{
		router: chi.NewRouter(),
		config: cfg,
		logger: logger,
	}

	if err := s.setupRoutes(); err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

// setupRoutes wires middleware, handlers, and routes.
//
// ROUTE MAP:
//
//	GET    /                              → login page (redirects to /dashboard when a session exists)
//	POST   /login                         → submit credentials
//	POST   /logout                        → end the session
//	GET    /static/*                      → css/js assets
//	GET    /dashboard                     → user table (guarded)
//	POST   /dashboard/users               → create user (guarded)
//	POST   /dashboard/users/{id}          → update user (guarded)
//	POST   /dashboard/users/{id}/delete   → delete user (guarded)
//
// MIDDLEWARE ORDER: RequestID first so the logger can pick the ID up, then
// RealIP, Recoverer, our request logger, and the session guard ahead of
// every route — the guard itself decides which paths it cares about.
func (s *Server) setupRoutes() error {
	sessions := session.New(s.config.Session.CookieName, s.config.Session.TTL)

	client := backend.NewClient(s.config.Remote, s.logger)
	authSvc := backend.NewAuthService(client, s.logger)
	userSvc := backend.NewUserService(client, s.logger)

	render, err := handler.NewRenderer(s.config.Assets.TemplateDir, s.logger)
	if err != nil {
		return fmt.Errorf("creating renderer: %w", err)
	}

	authHandler := handler.NewAuthHandler(render, authSvc, sessions, s.logger)
	dashHandler := handler.NewDashboardHandler(render, authSvc, userSvc, sessions, s.logger)

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.Guard(sessions, "/"))

	fileServer := http.FileServer(http.Dir(s.config.Assets.StaticDir))
	s.router.Handle("/static/*", http.StripPrefix("/static/", fileServer))

	s.router.Get("/", authHandler.HandleLoginPage)
	s.router.Post("/login", authHandler.HandleLogin)
	s.router.Post("/logout", authHandler.HandleLogout)

	s.router.Route("/dashboard", func(r chi.Router) {
		r.Get("/", dashHandler.HandleDashboard)
		r.Post("/users", dashHandler.HandleUserCreate)
		r.Post("/users/{id}", dashHandler.HandleUserUpdate)
		r.Post("/users/{id}/delete", dashHandler.HandleUserDelete)
	})

	return nil
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully,
// giving in-flight requests 30 seconds to complete.
func (s *Server) Start() error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Server.Port),
		Handler:      s.router,
		ReadTimeout:  s.config.Server.ReadTimeout,
		WriteTimeout: s.config.Server.WriteTimeout,
		IdleTimeout:  s.config.Server.IdleTimeout,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Server.Port),
			slog.String("authAPI", s.config.Remote.AuthBaseURL),
			slog.String("directoryAPI", s.config.Remote.APIBaseURL),
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
