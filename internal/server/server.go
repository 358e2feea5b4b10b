// Package server serves the vehicle catalog over HTTP.
//
// The server loads records through a Loader on demand, keeps the result in a
// TTL cache and answers list, lookup and refresh requests from it. Changes
// between consecutive loads are published as vehicle events to WebSocket and
// SSE clients.
//
// Usage:
//
//	p, _ := showroom.New(showroom.WithRecordDir("_vehicules"))
//	srv, err := server.New(p, server.DefaultConfig(), logger)
//	if err != nil {
//	    return err
//	}
//	srv.Start()
//	defer srv.Shutdown(ctx)
//	http.ListenAndServe(":8080", srv.Handler())
package server

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"

	"github.com/agentstation/showroom/internal/server/cache"
	"github.com/agentstation/showroom/internal/server/events"
	"github.com/agentstation/showroom/internal/server/events/adapters"
	"github.com/agentstation/showroom/internal/server/sse"
	ws "github.com/agentstation/showroom/internal/server/websocket"
	"github.com/agentstation/showroom/pkg/catalogs"
	"github.com/agentstation/showroom/pkg/constants"
	"github.com/agentstation/showroom/pkg/errors"
	"github.com/agentstation/showroom/pkg/reconciler"
)

// Loader produces the current vehicle set. *showroom.Pipeline implements it.
type Loader interface {
	Load(ctx context.Context) ([]catalogs.Vehicle, error)
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	loader         Loader
	cache          *cache.Cache
	loads          singleflight.Group
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
	config         Config
	version        string
	now            func() time.Time

	ctx       context.Context
	cancel    context.CancelFunc
	wg        sync.WaitGroup
	startOnce sync.Once
	startTime time.Time
}

// Option configures a Server.
type Option func(*Server)

// WithVersion sets the version reported by the health endpoint.
func WithVersion(version string) Option {
	return func(s *Server) { s.version = version }
}

// WithClock sets the time source used to stamp snapshots.
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.now = now
		}
	}
}

// New creates a new server instance with the given configuration.
func New(loader Loader, cfg Config, logger *zerolog.Logger, opts ...Option) (*Server, error) {
	if loader == nil {
		return nil, errors.NewValidationError("loader", nil, "loader is required")
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = constants.CacheTTL
	}
	if cfg.Watch && cfg.WatchDir == "" {
		return nil, errors.NewValidationError("watch_dir", cfg.WatchDir, "watch requires a directory")
	}

	broker := events.NewBroker(logger)
	wsHub := ws.NewHub(logger)
	sseBroadcaster := sse.NewBroadcaster(logger)

	// Registration is buffered, so subscribing before Start is safe
	broker.Subscribe(adapters.NewWebSocketSubscriber(wsHub))
	broker.Subscribe(adapters.NewSSESubscriber(sseBroadcaster))

	ctx, cancel := context.WithCancel(context.Background())

	s := &Server{
		loader:         loader,
		cache:          cache.New(cfg.CacheTTL, constants.CacheCleanupInterval),
		broker:         broker,
		wsHub:          wsHub,
		sseBroadcaster: sseBroadcaster,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(_ *http.Request) bool {
				return true
			},
		},
		logger:    logger,
		config:    cfg,
		version:   "dev",
		now:       time.Now,
		ctx:       ctx,
		cancel:    cancel,
		startTime: time.Now(),
	}
	for _, opt := range opts {
		opt(s)
	}

	logger.Debug().
		Str("prefix", cfg.PathPrefix).
		Dur("cache_ttl", cfg.CacheTTL).
		Msg("Server instance created")
	return s, nil
}

// Start starts background services: the event broker, the WebSocket hub,
// the SSE broadcaster and, when configured, the record directory watcher.
// It is safe to call more than once.
func (s *Server) Start() error {
	var err error
	s.startOnce.Do(func() {
		s.goRun(s.broker.Run)
		s.goRun(s.wsHub.Run)
		s.goRun(s.sseBroadcaster.Run)

		if s.config.Watch {
			var w *watcher
			w, err = newWatcher(s.config.WatchDir, constants.WatchDebounce, s.onRecordsChanged, s.logger)
			if err != nil {
				return
			}
			s.goRun(w.run)
		}
		s.logger.Debug().Msg("Background services started")
	})
	return err
}

func (s *Server) goRun(fn func(context.Context)) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		fn(s.ctx)
	}()
}

// Shutdown stops background services and waits for them until ctx is done.
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

// Snapshot returns the cached dataset, loading it on a cache miss. When the
// load fails the last good snapshot is returned with stale set; without one
// the load error is returned.
func (s *Server) Snapshot(ctx context.Context) (cache.Snapshot, bool, error) {
	if snap, ok := s.cache.Snapshot(); ok {
		return snap, false, nil
	}

	snap, err := s.load(ctx)
	if err == nil {
		return snap, false, nil
	}

	if last, ok := s.cache.Last(); ok {
		s.logger.Warn().Err(err).
			Time("loaded_at", last.LoadedAt).
			Msg("Reload failed, serving stale snapshot")
		return last, true, nil
	}
	return cache.Snapshot{}, false, err
}

// Refresh invalidates the cache and reloads the records.
func (s *Server) Refresh(ctx context.Context) (events.RefreshSummary, error) {
	s.cache.Invalidate()
	res, err := s.reload(ctx)
	if err != nil {
		return events.RefreshSummary{}, err
	}
	return res.summary, nil
}

type loadResult struct {
	snap    cache.Snapshot
	summary events.RefreshSummary
}

func (s *Server) load(ctx context.Context) (cache.Snapshot, error) {
	res, err := s.reload(ctx)
	return res.snap, err
}

// reload reads the records once for all concurrent callers, stores the
// snapshot and publishes the changes against the previous one.
func (s *Server) reload(ctx context.Context) (loadResult, error) {
	ch := s.loads.DoChan("load", func() (any, error) {
		// Detached so one canceled request does not fail the others
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), constants.BuildTimeout)
		defer cancel()

		vehicles, err := s.loader.Load(loadCtx)
		if err != nil {
			s.broker.Publish(events.RefreshFailed, map[string]string{"error": err.Error()})
			return nil, err
		}

		prev, hadPrev := s.cache.Last()
		snap := s.cache.Store(vehicles, s.now())
		summary := events.RefreshSummary{Count: len(vehicles)}
		if hadPrev {
			summary = s.publishChanges(prev.Vehicles, vehicles)
		}
		s.broker.Publish(events.RefreshCompleted, summary)
		return loadResult{snap: snap, summary: summary}, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return loadResult{}, res.Err
		}
		return res.Val.(loadResult), nil
	case <-ctx.Done():
		return loadResult{}, errors.Join(errors.ErrCanceled, ctx.Err())
	}
}

// publishChanges emits one event per added, updated or removed vehicle.
func (s *Server) publishChanges(prev, next []catalogs.Vehicle) events.RefreshSummary {
	summary := events.RefreshSummary{Count: len(next)}

	diff, err := reconciler.Reconcile(prev, next, reconciler.WithLogger(s.logger))
	if err != nil {
		s.logger.Warn().Err(err).Msg("Failed to diff snapshots")
		return summary
	}

	for _, id := range diff.Added {
		if v, ok := catalogs.FindByID(next, id); ok {
			s.broker.Publish(events.VehicleAdded, events.VehicleChange{ID: id, Vehicle: &v})
		}
	}
	for _, id := range diff.Updated {
		if v, ok := catalogs.FindByID(next, id); ok {
			s.broker.Publish(events.VehicleUpdated, events.VehicleChange{ID: id, Vehicle: &v})
		}
	}
	// Kept means present before and absent now
	for _, id := range diff.Kept {
		s.broker.Publish(events.VehicleRemoved, events.VehicleChange{ID: id})
	}

	summary.Added = len(diff.Added)
	summary.Updated = len(diff.Updated)
	summary.Removed = len(diff.Kept)
	if summary.Added+summary.Updated+summary.Removed > 0 {
		s.logger.Info().
			Int("added", summary.Added).
			Int("updated", summary.Updated).
			Int("removed", summary.Removed).
			Msg("Catalog changed")
	}
	return summary
}

// onRecordsChanged is called by the watcher after a debounced burst of
// filesystem events.
func (s *Server) onRecordsChanged(ctx context.Context, paths []string) {
	s.logger.Info().Int("files", len(paths)).Msg("Record files changed, reloading")
	s.cache.Invalidate()
	if _, err := s.reload(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("Reload after change failed")
	}
}

// Cache returns the server's cache instance.
func (s *Server) Cache() *cache.Cache {
	return s.cache
}

// Broker returns the event broker for publishing events.
func (s *Server) Broker() *events.Broker {
	return s.broker
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

// HTTPServer returns an *http.Server for Handler with the configured
// timeouts.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:              s.Addr(),
		Handler:           s.Handler(),
		ReadTimeout:       s.config.ReadTimeout,
		ReadHeaderTimeout: s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		IdleTimeout:       s.config.IdleTimeout,
	}
}
