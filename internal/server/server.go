// Package server wires the dependency graph and runs the HTTP server.
//
// This is the composition root: every client, repository, service and
// handler is constructed here and nowhere else. main.go only loads config
// and calls New/Start.
//
// DEPENDENCY FLOW:
//
//	contentstack.Client → contentstackRepo.Store ─┬→ services → handlers
//	sqlite.DB (audit)  ──────────────────────────┘
//	chat.Client ────────→ ChatService → ChatHandler
//	GoogleProvider + TokenService → AuthHandler / auth middleware
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

	"github.com/sakif/devdocs/internal/auth"
	"github.com/sakif/devdocs/internal/chat"
	"github.com/sakif/devdocs/internal/config"
	"github.com/sakif/devdocs/internal/contentstack"
	"github.com/sakif/devdocs/internal/handler"
	"github.com/sakif/devdocs/internal/middleware"
	contentstackRepo "github.com/sakif/devdocs/internal/repository/contentstack"
	sqliteRepo "github.com/sakif/devdocs/internal/repository/sqlite"
	"github.com/sakif/devdocs/internal/service"
)

// Server owns the router and the resources that need closing on shutdown.
type Server struct {
	router  *chi.Mux
	config  *config.Config
	logger  *slog.Logger
	auditDB *sqliteRepo.DB
}

// New assembles the full dependency graph.
func New(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	auditDB, err := sqliteRepo.New(cfg.Audit.DBPath)
	if err != nil {
		return nil, fmt.Errorf("opening audit database: %w", err)
	}

	s := &Server{
		router:  chi.NewRouter(),
		config:  cfg,
		logger:  logger,
		auditDB: auditDB,
	}

	if err := s.setupRoutes(); err != nil {
		auditDB.Close()
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	return s, nil
}

func (s *Server) setupRoutes() error {
	cfg := s.config

	s.router.Use(chimiddleware.RequestID)
	s.router.Use(chimiddleware.RealIP)
	s.router.Use(chimiddleware.Recoverer)
	s.router.Use(middleware.Logger(s.logger))

	// === CMS-backed repositories ===
	csClient := contentstack.New(contentstack.Config{
		APIHost:         cfg.Contentstack.APIHost,
		APIKey:          cfg.Contentstack.APIKey,
		ManagementToken: cfg.Contentstack.ManagementToken,
	})
	store := contentstackRepo.NewStore(csClient, cfg.Contentstack.Environment, cfg.Contentstack.Locale)

	// === Services ===
	resolver := service.NewUserResolver(store, s.logger)
	engagements := service.NewEngagementService(store, store, s.auditDB, s.logger)
	projections := service.NewProjectionService(store, store, s.logger)
	catalog := service.NewCatalogService(store, store, s.logger)
	contributions := service.NewContributionService(store, s.logger)

	// === Handlers ===
	engagementHandler := handler.NewEngagementHandler(engagements, projections, s.logger)
	profileHandler := handler.NewProfileHandler(projections, s.logger)
	catalogHandler := handler.NewCatalogHandler(catalog, s.logger)
	contributeHandler := handler.NewContributeHandler(contributions, s.logger)

	// === Auth (optional: without credentials the protected routes are
	// simply not registered, public reads still work) ===
	var tokens *auth.TokenService
	if cfg.AuthEnabled() {
		var err error
		tokens, err = auth.NewTokenService(cfg.Auth.JWTSecret)
		if err != nil {
			return fmt.Errorf("creating token service: %w", err)
		}

		callbackURL := cfg.Auth.GoogleCallbackURL
		if callbackURL == "" {
			callbackURL = fmt.Sprintf("http://localhost:%d/auth/google/callback", cfg.Port)
		}
		google := auth.NewGoogleProvider(cfg.Auth.GoogleClientID, cfg.Auth.GoogleClientSecret, callbackURL)
		authHandler := handler.NewAuthHandler(google, tokens, resolver, s.logger)

		s.router.Get("/auth/google/login", authHandler.HandleLogin)
		s.router.Get("/auth/google/callback", authHandler.HandleCallback)
		s.router.Post("/auth/logout", authHandler.HandleLogout)

		s.router.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth(tokens))
			r.Get("/api/me", authHandler.HandleMe)
			r.Get("/api/profile", profileHandler.HandleProfile)
			r.Post("/api/engagement/upvote", engagementHandler.HandleUpvote)
			r.Post("/api/engagement/like", engagementHandler.HandleLike)
			r.Post("/api/contribute", contributeHandler.HandleContribute)
		})

		s.router.Group(func(r chi.Router) {
			r.Use(auth.OptionalAuth(tokens))
			r.Get("/api/engagement/state", engagementHandler.HandleState)
		})
	} else {
		s.logger.Warn("auth not configured — session routes disabled")

		// The state endpoint stays up for anonymous callers: it always
		// answers 200 with empty lists.
		s.router.Get("/api/engagement/state", engagementHandler.HandleState)
	}

	// === Public catalog reads ===
	s.router.Get("/api/applications", catalogHandler.HandleListApplications)
	s.router.Get("/api/applications/{uid}", catalogHandler.HandleGetApplication)
	s.router.Get("/api/applications/{uid}/changelog", catalogHandler.HandleApplicationChangelog)
	s.router.Get("/api/homepage", catalogHandler.HandleHomepage)
	s.router.Get("/api/faqs", catalogHandler.HandleFAQs)
	s.router.Get("/api/support", catalogHandler.HandleSupportPage)

	// === Assistant ===
	if cfg.ChatEnabled() {
		chatClient := chat.New(cfg.Chat.Endpoint, cfg.Chat.Model, cfg.Chat.APIKey)
		chats := service.NewChatService(chatClient, s.logger)
		chatHandler := handler.NewChatHandler(chats, s.logger)
		s.router.Post("/api/chat", chatHandler.HandleChat)
	} else {
		s.logger.Warn("chat not configured — /api/chat disabled")
	}

	return nil
}

// Start runs the server until SIGINT/SIGTERM, then shuts down gracefully:
// stop accepting connections, drain in-flight requests (30s), close the
// audit database so its WAL is flushed.
func (s *Server) Start() error {
	defer s.auditDB.Close()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", s.config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // chat completions are slow
		IdleTimeout:  60 * time.Second,
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("server starting",
			slog.Int("port", s.config.Port),
			slog.String("auditDB", s.config.Audit.DBPath),
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
