package handlers

import (
	"net/http"
	"time"

	"github.com/agentstation/showroom/internal/server/response"
)

// HandleHealth handles GET /health and GET /api/v1/health (liveness).
func (h *Handlers) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"status":  "healthy",
		"service": "showroom-api",
		"version": h.version,
	})
}

// HandleReady handles GET /api/v1/ready. The server is ready once a
// snapshot, fresh or stale, can be served.
func (h *Handlers) HandleReady(w http.ResponseWriter, r *http.Request) {
	snap, stale, err := h.catalog.Snapshot(r.Context())
	if err != nil {
		response.JSON(w, http.StatusServiceUnavailable, response.Fail("catalog not available: "+err.Error()))
		return
	}

	response.OK(w, map[string]any{
		"status":            "ready",
		"vehicles":          len(snap.Vehicles),
		"stale":             stale,
		"websocket_clients": h.wsHub.ClientCount(),
		"sse_clients":       h.sseBroadcaster.ClientCount(),
	})
}

// HandleStats handles GET /api/v1/stats.
func (h *Handlers) HandleStats(w http.ResponseWriter, _ *http.Request) {
	response.OK(w, map[string]any{
		"uptime_seconds":    int64(time.Since(h.startTime).Seconds()),
		"cache":             h.cache.GetStats(),
		"subscribers":       h.broker.SubscriberCount(),
		"websocket_clients": h.wsHub.ClientCount(),
		"sse_clients":       h.sseBroadcaster.ClientCount(),
	})
}
