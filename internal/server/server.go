// Package server is the composition root: it wires the database, token
// and password services, the Gemini client, the lounge hub, and every
// HTTP route, then runs the listener with graceful shutdown.
//
// main.go stays minimal on purpose; everything assembled here can also be
// assembled by a test.
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
	"github.com/go-chi/cors"

	"github.com/OfirNeeman/ai-stylist/internal/auth"
	"github.com/OfirNeeman/ai-stylist/internal/community"
	"github.com/OfirNeeman/ai-stylist/internal/config"
	"github.com/OfirNeeman/ai-stylist/internal/handler"
	"github.com/OfirNeeman/ai-stylist/internal/middleware"
	sqliteRepo "github.com/OfirNeeman/ai-stylist/internal/repository/sqlite"
	"github.com/OfirNeeman/ai-stylist/internal/service"
	"github.com/OfirNeeman/ai-stylist/internal/stylist"
)

// Server owns the router and the resources that need closing on shutdown.
type Server struct {
	router *chi.Mux
	config *config.Config
	logger *slog.Logger
	db     *sqliteRepo.DB
}

// New assembles the full dependency graph:
//
//	sqlite.DB → services → handlers → routes
//
// Each layer receives interfaces or already-built values, never the
// layers below it.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
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

// setupRoutes configures middleware, builds services and handlers, and
// mounts the route table:
//
//	POST /signup                → register, returns {token, user}
//	POST /login                 → authenticate, returns {token, user}
//	POST /get-user              → resolve stored token to user
//	POST /save-profile          → (bearer) replace style profile
//	POST /save-items            → (bearer) replace saved closet
//	POST /upload-profile-image  → (bearer) derive profile from photo
//	POST /recommendations       → (bearer) generate style recommendations
//	GET  /ws/community          → lounge websocket
//	GET  /healthz               → liveness probe
func (s *Server) setupRoutes() error {
	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// The browser frontend runs on a different origin in development, so
	// every route needs CORS headers, including the preflight responses.
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.config.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	tokens, err := auth.NewTokenService(s.config.JWTSecret)
	if err != nil {
		return fmt.Errorf("creating token service: %w", err)
	}
	passwords := auth.NewPasswordService()

	models := stylist.NewClient(s.config.GeminiBaseURL, s.config.GeminiAPIKey, s.config.GeminiModel, s.logger)

	authService := service.NewAuthService(s.db, tokens, passwords, s.logger)
	stylistService := service.NewStylistService(s.db, models, s.logger)

	authHandler := handler.NewAuthHandler(authService, s.logger)
	profileHandler := handler.NewProfileHandler(stylistService, s.logger)
	stylistHandler := handler.NewStylistHandler(stylistService, s.logger)

	hub := community.NewHub(s.logger)
	go hub.Run()
	loungeHandler := community.NewHandler(hub, tokens, s.config.CORSOrigin, s.logger)

	s.router.Post("/signup", authHandler.HandleSignup)
	s.router.Post("/login", authHandler.HandleLogin)
	s.router.Post("/get-user", authHandler.HandleGetUser)

	s.router.Group(func(r chi.Router) {
		r.Use(auth.RequireAuth(tokens))
		r.Post("/save-profile", profileHandler.HandleSaveProfile)
		r.Post("/save-items", profileHandler.HandleSaveItems)
		r.Post("/upload-profile-image", profileHandler.HandleUploadProfileImage)
		r.Post("/recommendations", stylistHandler.HandleRecommendations)
	})

	s.router.Get("/ws/community", loungeHandler.ServeWS)

	s.router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"ok":true}`))
	})

	return nil
}

// Start runs the listener until SIGINT/SIGTERM, then drains in-flight
// requests and closes the database.
func (s *Server) Start() error {
	defer s.db.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // model calls can be slow
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
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
