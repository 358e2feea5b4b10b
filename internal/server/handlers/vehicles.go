package handlers

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/agentstation/showroom/internal/server/filter"
	"github.com/agentstation/showroom/internal/server/response"
	"github.com/agentstation/showroom/pkg/catalogs"
)

// HandleListVehicles handles GET /api/v1/vehicles.
//
// Query parameters type, destination, brand, min_price, max_price, fuel and
// transmission narrow the list. The response always carries the vehicles
// array, empty when nothing matches.
func (h *Handlers) HandleListVehicles(w http.ResponseWriter, r *http.Request) {
	snap, stale, err := h.catalog.Snapshot(r.Context())
	if err != nil {
		h.requestLogger(r.Context()).Error().Err(err).Msg("Failed to load vehicles")
		response.ErrorFromType(w, err)
		return
	}

	f := filter.ParseVehicleFilter(r)
	response.Vehicles(w, f.Apply(snap.Vehicles), stale)
}

// HandleGetVehicle handles GET /api/v1/vehicles/{id}.
func (h *Handlers) HandleGetVehicle(w http.ResponseWriter, r *http.Request) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.Atoi(raw)
	if err != nil {
		response.BadRequest(w, "invalid vehicle id "+strconv.Quote(raw))
		return
	}

	snap, _, err := h.catalog.Snapshot(r.Context())
	if err != nil {
		h.requestLogger(r.Context()).Error().Err(err).Msg("Failed to load vehicles")
		response.ErrorFromType(w, err)
		return
	}

	v, ok := catalogs.FindByID(snap.Vehicles, id)
	if !ok {
		response.NotFound(w, "vehicle "+raw+" not found")
		return
	}
	response.Vehicle(w, v)
}

// HandleRefresh handles POST /api/v1/vehicles/refresh.
func (h *Handlers) HandleRefresh(w http.ResponseWriter, r *http.Request) {
	summary, err := h.catalog.Refresh(r.Context())
	if err != nil {
		h.requestLogger(r.Context()).Error().Err(err).Msg("Refresh failed")
		response.ErrorFromType(w, err)
		return
	}

	h.requestLogger(r.Context()).Info().
		Int("count", summary.Count).
		Int("added", summary.Added).
		Int("updated", summary.Updated).
		Int("removed", summary.Removed).
		Msg("Vehicles refreshed")
	response.OK(w, summary)
}
