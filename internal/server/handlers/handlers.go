// Package handlers provides HTTP request handlers for the showroom API.
package handlers

import (
	"context"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/agentstation/showroom/internal/server/cache"
	"github.com/agentstation/showroom/internal/server/events"
	"github.com/agentstation/showroom/internal/server/sse"
	ws "github.com/agentstation/showroom/internal/server/websocket"
)

// Catalog is the dataset the handlers serve.
type Catalog interface {
	// Snapshot returns the current dataset. stale is true when the latest
	// reload failed and the previous snapshot is served instead.
	Snapshot(ctx context.Context) (snap cache.Snapshot, stale bool, err error)

	// Refresh discards the cached snapshot and reloads the records.
	Refresh(ctx context.Context) (events.RefreshSummary, error)
}

// Handlers provides access to all HTTP handlers.
type Handlers struct {
	catalog        Catalog
	cache          *cache.Cache
	broker         *events.Broker
	wsHub          *ws.Hub
	sseBroadcaster *sse.Broadcaster
	upgrader       websocket.Upgrader
	logger         *zerolog.Logger
	version        string
	startTime      time.Time
}

// Config groups the dependencies of New.
type Config struct {
	Catalog        Catalog
	Cache          *cache.Cache
	Broker         *events.Broker
	WSHub          *ws.Hub
	SSEBroadcaster *sse.Broadcaster
	Upgrader       websocket.Upgrader
	Logger         *zerolog.Logger
	Version        string
	StartTime      time.Time
}

// New creates a new Handlers instance.
func New(cfg Config) *Handlers {
	logger := cfg.Logger
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	return &Handlers{
		catalog:        cfg.Catalog,
		cache:          cfg.Cache,
		broker:         cfg.Broker,
		wsHub:          cfg.WSHub,
		sseBroadcaster: cfg.SSEBroadcaster,
		upgrader:       cfg.Upgrader,
		logger:         logger,
		version:        cfg.Version,
		startTime:      cfg.StartTime,
	}
}

// requestLogger returns the request-scoped logger set by the logging
// middleware, falling back to the handler logger.
func (h *Handlers) requestLogger(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l != nil && l.GetLevel() != zerolog.Disabled {
		return l
	}
	return h.logger
}
