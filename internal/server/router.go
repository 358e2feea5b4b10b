package server

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/agentstation/showroom/internal/server/handlers"
	"github.com/agentstation/showroom/internal/server/middleware"
	"github.com/agentstation/showroom/internal/server/response"
)

// Handler returns the configured http.Handler with the middleware chain
// applied.
func (s *Server) Handler() http.Handler {
	h := handlers.New(handlers.Config{
		Catalog:        s,
		Cache:          s.cache,
		Broker:         s.broker,
		WSHub:          s.wsHub,
		SSEBroadcaster: s.sseBroadcaster,
		Upgrader:       s.upgrader,
		Logger:         s.logger,
		Version:        s.version,
		StartTime:      s.startTime,
	})

	r := chi.NewRouter()
	s.applyMiddleware(r)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		response.NotFound(w, "no route for "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		response.MethodNotAllowed(w, r.Method)
	})

	// Avoid 404 noise from browsers
	r.Get("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	api := func(r chi.Router) {
		r.Get("/health", h.HandleHealth)
		r.Get("/ready", h.HandleReady)
		r.Get("/stats", h.HandleStats)

		r.Route("/vehicles", func(r chi.Router) {
			r.Get("/", h.HandleListVehicles)
			r.Get("/{id}", h.HandleGetVehicle)
			r.With(middleware.Auth(middleware.AuthConfig{
				APIKey:     s.config.APIKey,
				HeaderName: s.config.AuthHeader,
			}, s.logger)).Post("/refresh", h.HandleRefresh)
		})

		r.Get("/updates/ws", h.HandleWebSocket)
		r.Get("/updates/stream", h.HandleSSE)
	}

	if prefix := strings.TrimSuffix(s.config.PathPrefix, "/"); prefix != "" {
		r.Get("/health", h.HandleHealth)
		r.Route(prefix, api)
	} else {
		api(r)
	}

	return r
}

// applyMiddleware installs the middleware chain. Recovery runs outermost
// after request ID assignment so panics are logged with their ID.
func (s *Server) applyMiddleware(r chi.Router) {
	cfg := s.config

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recovery(s.logger))
	r.Use(middleware.Logger(s.logger))
	r.Use(chimw.StripSlashes)

	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
		}
		r.Use(middleware.CORS(corsConfig))
	}

	if cfg.RateLimit > 0 {
		r.Use(middleware.RateLimit(middleware.NewRateLimiter(cfg.RateLimit, cfg.Burst, s.logger)))
	}
}
