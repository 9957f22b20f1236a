// Package server provides the HTTP API for the instantbox inventory.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/instantbox"
	"github.com/agentstation/instantbox/internal/server/cache"
	"github.com/agentstation/instantbox/internal/server/events"
	"github.com/agentstation/instantbox/internal/server/events/adapters"
	"github.com/agentstation/instantbox/internal/server/metrics"
	"github.com/agentstation/instantbox/internal/server/sse"
	ws "github.com/agentstation/instantbox/internal/server/websocket"
	"github.com/agentstation/instantbox/pkg/inventory"
)

// Server holds the HTTP server state and dependencies.
type Server struct {
	box            instantbox.Client
	cache          *cache.Cache
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	metrics        *metrics.Metrics
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
	config         Config
	ctx            context.Context
	cancel         context.CancelFunc
	wg             sync.WaitGroup
	startTime      time.Time
}

// New creates a server for box. Background services do not run until
// Start is called.
func New(box instantbox.Client, cfg Config, logger *zerolog.Logger) (*Server, error) {
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = 5 * time.Minute
	}

	broker := events.NewBroker(logger)
	wsHub := ws.NewHub(logger)
	sseBroadcaster := sse.NewBroadcaster(logger)
	m := metrics.New()

	broker.Subscribe(adapters.NewWebSocketSubscriber(wsHub))
	broker.Subscribe(adapters.NewSSESubscriber(sseBroadcaster))
	broker.OnPublish(func(t events.EventType) { m.Event(string(t)) })
	wsHub.OnClientsChanged(func(n int) { m.RealtimeClients("websocket", n) })
	sseBroadcaster.OnClientsChanged(func(n int) { m.RealtimeClients("sse", n) })

	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		box:            box,
		cache:          cache.New(cfg.CacheTTL, cfg.CacheTTL*2),
		broker:         broker,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		metrics:        m,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
		logger:    logger,
		config:    cfg,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}

	s.connectHooks()
	logger.Debug().Msg("Server instance created")
	return s, nil
}

// connectHooks publishes inventory changes to the broker and drops cached
// views of the collections.
func (s *Server) connectHooks() {
	s.box.OnCameraAdded(func(c inventory.Camera) {
		s.broker.Publish(events.CameraAdded, map[string]any{"camera": c})
	})
	s.box.OnCameraUpdated(func(old, updated inventory.Camera) {
		s.broker.Publish(events.CameraUpdated, map[string]any{"old_camera": old, "new_camera": updated})
	})
	s.box.OnCameraRemoved(func(c inventory.Camera) {
		s.broker.Publish(events.CameraRemoved, map[string]any{"camera": c})
	})
	s.box.OnFilmPackAdded(func(p inventory.FilmPack) {
		s.broker.Publish(events.FilmPackAdded, map[string]any{"pack": p})
	})
	s.box.OnFilmPackUpdated(func(old, updated inventory.FilmPack) {
		s.broker.Publish(events.FilmPackUpdated, map[string]any{"old_pack": old, "new_pack": updated})
	})
	s.box.OnFilmPackRemoved(func(p inventory.FilmPack) {
		s.broker.Publish(events.FilmPackRemoved, map[string]any{"pack": p})
	})
	s.box.OnCollectionChanged(func(ev inventory.Event) {
		s.cache.Delete(cache.KeyGroups)
		s.logger.Debug().Str("collection", ev.Collection).Msg("Collection changed, cached views dropped")
	})
}

// Start starts background services (broker, WebSocket hub, SSE broadcaster).
func (s *Server) Start() {
	for _, run := range []func(context.Context){s.broker.Run, s.wsHub.Run, s.sseBroadcaster.Run} {
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			run(s.ctx)
		}()
	}
	s.logger.Debug().Msg("Background services started")
}

// Handler returns the configured http.Handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.setupRouter()
}

// ListenAndServe serves the API until ctx is done, then shuts the HTTP
// server and the background services down.
func (s *Server) ListenAndServe(ctx context.Context) error {
	httpServer := &http.Server{
		Addr:              s.config.Addr(),
		Handler:           s.Handler(),
		ReadTimeout:       s.config.ReadTimeout,
		ReadHeaderTimeout: s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
		BaseContext:       func(net.Listener) context.Context { return s.ctx },
	}

	s.Start()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", httpServer.Addr).Msg("Server starting")
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		_ = s.Shutdown(context.Background())
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	err := httpServer.Shutdown(shutdownCtx)
	if serr := s.Shutdown(shutdownCtx); err == nil {
		err = serr
	}
	return err
}

// Shutdown stops background services and waits for them to exit.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("Shutting down server background services")
	s.cancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info().Msg("Background services shut down")
		return nil
	case <-ctx.Done():
		s.logger.Warn().Msg("Background services shutdown timed out")
		return ctx.Err()
	}
}

// Cache returns the server's cache instance.
func (s *Server) Cache() *cache.Cache {
	return s.cache
}

// Broker returns the event broker.
func (s *Server) Broker() *events.Broker {
	return s.broker
}

// Metrics returns the Prometheus collectors.
func (s *Server) Metrics() *metrics.Metrics {
	return s.metrics
}

// StartTime returns the server start time for uptime calculations.
func (s *Server) StartTime() time.Time {
	return s.startTime
}
