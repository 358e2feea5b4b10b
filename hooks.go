package showroom

import (
	"sync"

	"github.com/agentstation/showroom/pkg/catalogs"
	"github.com/agentstation/showroom/pkg/reconciler"
)

// Hook function types for build events
type (
	// VehicleAddedHook is called for each record whose identifier was not in
	// the baseline.
	VehicleAddedHook func(vehicle catalogs.Vehicle)

	// VehicleReplacedHook is called for each record that replaced a baseline
	// vehicle with different content.
	VehicleReplacedHook func(old, new catalogs.Vehicle)
)

// hooks manages event callbacks for build changes
type hooks struct {
	mu                sync.RWMutex
	onVehicleAdded    []VehicleAddedHook
	onVehicleReplaced []VehicleReplacedHook
}

func newHooks() *hooks {
	return &hooks{}
}

// OnVehicleAdded registers a callback for vehicles added by Build.
func (p *Pipeline) OnVehicleAdded(fn VehicleAddedHook) {
	p.hooks.mu.Lock()
	defer p.hooks.mu.Unlock()
	p.hooks.onVehicleAdded = append(p.hooks.onVehicleAdded, fn)
}

// OnVehicleReplaced registers a callback for baseline vehicles changed by Build.
func (p *Pipeline) OnVehicleReplaced(fn VehicleReplacedHook) {
	p.hooks.mu.Lock()
	defer p.hooks.mu.Unlock()
	p.hooks.onVehicleReplaced = append(p.hooks.onVehicleReplaced, fn)
}

// trigger fires hooks for a reconciliation, in identifier order.
func (h *hooks) trigger(baseline []catalogs.Vehicle, result *reconciler.Result) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if len(h.onVehicleAdded) == 0 && len(h.onVehicleReplaced) == 0 {
		return
	}

	merged := make(map[int]catalogs.Vehicle, len(result.Vehicles))
	for _, v := range result.Vehicles {
		merged[v.ID] = v
	}
	// last occurrence wins, matching the collapsed baseline
	previous := make(map[int]catalogs.Vehicle, len(baseline))
	for _, v := range baseline {
		previous[v.ID] = v
	}

	for _, id := range result.Added {
		for _, hook := range h.onVehicleAdded {
			hook(merged[id].Clone())
		}
	}
	for _, id := range result.Updated {
		for _, hook := range h.onVehicleReplaced {
			hook(previous[id].Clone(), merged[id].Clone())
		}
	}
}
