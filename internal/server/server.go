// Package server provides the HTTP server and routing for the sovereignty
// dashboard API.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/runwaylabs/sovereign/internal/config"
	"github.com/runwaylabs/sovereign/internal/di"
	badgehandlers "github.com/runwaylabs/sovereign/internal/modules/badges/handlers"
	portfoliohandlers "github.com/runwaylabs/sovereign/internal/modules/portfolio/handlers"
	signalhandlers "github.com/runwaylabs/sovereign/internal/modules/signals/handlers"
	sovereigntyhandlers "github.com/runwaylabs/sovereign/internal/modules/sovereignty/handlers"
)

// Config holds server configuration.
type Config struct {
	Log       zerolog.Logger
	Cfg       *config.Config
	Container *di.Container
	Port      int
	DevMode   bool
}

// Server is the HTTP server for the dashboard API.
type Server struct {
	router    *chi.Mux
	server    *http.Server
	log       zerolog.Logger
	cfg       *config.Config
	container *di.Container
	limiter   *rateLimiter
}

// New creates a new HTTP server.
func New(cfg Config) *Server {
	s := &Server{
		router:    chi.NewRouter(),
		log:       cfg.Log.With().Str("component", "server").Logger(),
		cfg:       cfg.Cfg,
		container: cfg.Container,
		limiter:   newRateLimiter(cfg.Cfg.RateLimitRPS, cfg.Cfg.RateLimitBurst, cfg.Log),
	}

	s.setupMiddleware(cfg.DevMode)
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // SSE and websocket streams stay open indefinitely
		IdleTimeout:  120 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware.
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(s.limiter.Middleware)

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{s.cfg.CORSOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes.
func (s *Server) setupRoutes() {
	systemHandlers := NewSystemHandlers(s.container, s.log)
	walletHandlers := NewWalletHandlers(s.container, s.log)
	eventsStream := NewEventsStreamHandler(s.container.EventBus, s.log)
	wsStream := NewWebSocketHandler(s.container.EventBus, s.wsOriginPatterns(), s.log)

	sovereigntyH := sovereigntyhandlers.NewHandler(s.log)
	portfolioH := portfoliohandlers.NewHandler(s.log)
	badgeH := badgehandlers.NewHandler(s.log)
	signalH := signalhandlers.NewHandler(s.log)

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/events/stream", eventsStream.HandleStream)
		r.Get("/events/ws", wsStream.HandleStream)

		systemHandlers.RegisterRoutes(r)
		sovereigntyH.RegisterRoutes(r)
		portfolioH.RegisterRoutes(r)
		badgeH.RegisterRoutes(r)
		signalH.RegisterRoutes(r)
		walletHandlers.RegisterRoutes(r)
	})
}

// wsOriginPatterns derives websocket origin patterns from the configured
// CORS origin. A wildcard origin allows any host, matching the SSE policy.
func (s *Server) wsOriginPatterns() []string {
	if s.cfg.CORSOrigin == "*" {
		return []string{"*"}
	}
	return []string{s.cfg.CORSOrigin}
}

// Router exposes the configured router for tests.
func (s *Server) Router() http.Handler {
	return s.router
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs each request with its status and duration.
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Dur("duration", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("Request handled")
	})
}
