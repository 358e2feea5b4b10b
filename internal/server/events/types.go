// Package events fans catalog changes out to live clients.
//
// The server publishes one event per vehicle that appears, changes or
// disappears between two loaded snapshots, plus one refresh event per reload.
// The broker delivers every event to all registered subscribers, which adapt
// it to a transport (WebSocket, SSE).
package events

import (
	"time"

	"github.com/agentstation/showroom/pkg/catalogs"
)

// EventType represents the type of catalog event.
type EventType string

// Event types for catalog changes.
const (
	// Vehicle events, computed by diffing consecutive snapshots.
	VehicleAdded   EventType = "vehicle.added"
	VehicleUpdated EventType = "vehicle.updated"
	VehicleRemoved EventType = "vehicle.removed"

	// Refresh events, one per reload of the record directory.
	RefreshCompleted EventType = "refresh.completed"
	RefreshFailed    EventType = "refresh.failed"

	// Client events (from transport layers).
	ClientConnected EventType = "client.connected"
)

// Event represents a catalog event with type, timestamp, and data.
type Event struct {
	Type      EventType `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// VehicleChange is the payload of vehicle events. Vehicle is omitted for
// removals.
type VehicleChange struct {
	ID      int               `json:"id"`
	Vehicle *catalogs.Vehicle `json:"vehicle,omitempty"`
}

// RefreshSummary is the payload of refresh.completed.
type RefreshSummary struct {
	Count   int `json:"count"`
	Added   int `json:"added"`
	Updated int `json:"updated"`
	Removed int `json:"removed"`
}
