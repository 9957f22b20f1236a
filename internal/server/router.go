package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/agentstation/instantbox/internal/server/handlers"
	"github.com/agentstation/instantbox/internal/server/middleware"
	"github.com/agentstation/instantbox/internal/server/response"
)

// setupRouter creates the HTTP handler with routes and middleware.
func (s *Server) setupRouter() http.Handler {
	r := chi.NewRouter()

	h := handlers.New(handlers.Deps{
		Box:            s.box,
		Cache:          s.cache,
		Broker:         s.broker,
		Metrics:        s.metrics,
		WSHub:          s.wsHub,
		SSEBroadcaster: s.sseBroadcaster,
		Upgrader:       s.upgrader,
		Logger:         s.logger,
		StartTime:      s.startTime,
	})

	s.applyMiddleware(r)

	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		response.NotFound(w, "Route not found", "")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, req *http.Request) {
		response.MethodNotAllowed(w, req.Method)
	})

	// Favicon handler (return 204 No Content to avoid 404 logs)
	r.Get("/favicon.ico", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	r.Get("/health", h.HandleHealth)

	if s.config.MetricsEnabled {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route(s.config.PathPrefix, func(api chi.Router) {
		s.registerRoutes(api, h)
	})

	return r
}

// registerRoutes registers the API routes under the path prefix.
func (s *Server) registerRoutes(r chi.Router, h *handlers.Handlers) {
	r.Get("/health", h.HandleHealth)
	r.Get("/ready", h.HandleReady)

	r.Route("/cameras", func(r chi.Router) {
		r.Get("/", h.HandleListCameras)
		r.Post("/", h.HandleCreateCamera)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.HandleGetCamera)
			r.Patch("/", h.HandleUpdateCamera)
			r.Delete("/", h.HandleDeleteCamera)
			r.Get("/pack", h.HandleCameraPack)
			r.Post("/load", h.HandleLoad)
			r.Post("/unload", h.HandleUnload)
			r.Post("/eject", h.HandleEject)
			r.Post("/shoot", h.HandleShoot)
		})
	})

	r.Route("/packs", func(r chi.Router) {
		r.Get("/", h.HandleListPacks)
		r.Post("/", h.HandleCreatePack)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.HandleGetPack)
			r.Patch("/", h.HandleUpdatePack)
			r.Delete("/", h.HandleDeletePack)
			r.Post("/duplicate", h.HandleDuplicatePack)
			r.Get("/cameras", h.HandleCompatibleCameras)
		})
	})

	r.Get("/groups", h.HandleListGroups)
	r.Get("/groups/{key}", h.HandleGetGroup)

	r.Get("/catalog", h.HandleGetCatalog)
	r.Get("/catalog/types/{type}/models", h.HandleFilmTypeModels)
	r.Post("/catalog/refresh", h.HandleRefreshCatalog)

	r.Post("/sync", h.HandleSync)
	r.Get("/stats", h.HandleStats)

	// Real-time endpoints
	r.Get("/events/ws", h.HandleWebSocket)
	r.Get("/events/stream", h.HandleSSE)

	// OpenAPI specification endpoints
	r.Get("/openapi.json", h.HandleOpenAPIJSON)
	r.Get("/openapi.yaml", h.HandleOpenAPIYAML)
}

// applyMiddleware installs the middleware chain, outermost first.
func (s *Server) applyMiddleware(r chi.Router) {
	cfg := s.config

	r.Use(chimw.RequestID)
	r.Use(middleware.Recovery(s.logger))
	r.Use(middleware.Logger(s.logger))
	if cfg.MetricsEnabled {
		r.Use(middleware.Metrics(s.metrics))
	}

	if cfg.CORSEnabled {
		corsConfig := middleware.DefaultCORSConfig()
		if len(cfg.CORSOrigins) > 0 {
			corsConfig.AllowedOrigins = cfg.CORSOrigins
			corsConfig.AllowAll = false
		} else {
			corsConfig.AllowAll = true
		}
		r.Use(middleware.CORS(corsConfig))
	}

	if cfg.RateLimit > 0 {
		r.Use(middleware.RateLimit(middleware.NewRateLimiter(s.ctx, cfg.RateLimit, s.logger)))
	}

	if cfg.AuthEnabled {
		r.Use(middleware.Auth(s.authConfig(), s.logger))
	}
}

// authConfig derives the token settings and public paths from the config.
func (s *Server) authConfig() middleware.AuthConfig {
	prefix := s.config.PathPrefix
	auth := middleware.DefaultAuthConfig()
	auth.Enabled = s.config.AuthEnabled
	auth.Secret = []byte(s.config.AuthSecret)
	auth.Issuer = s.config.AuthIssuer
	auth.PublicPaths = []string{
		"/health",
		"/metrics",
		prefix + "/health",
		prefix + "/ready",
		prefix + "/openapi.json",
		prefix + "/openapi.yaml",
	}
	return auth
}

// IssueToken signs an API token for subject with the server's secret.
func (s *Server) IssueToken(subject string) (string, error) {
	return middleware.IssueToken(s.authConfig(), subject, s.box.DeviceID(), s.config.TokenTTL)
}
