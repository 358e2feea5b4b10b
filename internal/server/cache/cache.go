// Package cache provides the in-memory dataset cache for the HTTP server.
// It uses patrickmn/go-cache for TTL-based expiry of the current snapshot
// and keeps the last successfully loaded snapshot without expiry so that a
// failed reload can still be answered.
package cache

import (
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/agentstation/showroom/pkg/catalogs"
)

const (
	currentKey = "vehicles"
	lastKey    = "vehicles:last"
)

// Snapshot is an immutable view of the dataset at one load.
type Snapshot struct {
	Vehicles []catalogs.Vehicle `json:"vehicles"`
	LoadedAt time.Time          `json:"loaded_at"`
	TTL      time.Duration      `json:"ttl"`
}

// ExpiresAt returns when the snapshot stops being fresh.
func (s Snapshot) ExpiresAt() time.Time {
	return s.LoadedAt.Add(s.TTL)
}

// Age returns how long ago the snapshot was loaded.
func (s Snapshot) Age(now time.Time) time.Duration {
	return now.Sub(s.LoadedAt)
}

// Cache wraps go-cache with snapshot helpers.
type Cache struct {
	store *gocache.Cache
	ttl   time.Duration
}

// New creates a cache whose snapshots expire after ttl. cleanupInterval is
// how often expired items are removed from memory.
func New(ttl, cleanupInterval time.Duration) *Cache {
	return &Cache{
		store: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
	}
}

// TTL returns the snapshot lifetime.
func (c *Cache) TTL() time.Duration {
	return c.ttl
}

// Snapshot returns the current snapshot if it has not expired.
func (c *Cache) Snapshot() (Snapshot, bool) {
	v, ok := c.store.Get(currentKey)
	if !ok {
		return Snapshot{}, false
	}
	return v.(Snapshot), true
}

// Last returns the most recent snapshot, expired or not.
func (c *Cache) Last() (Snapshot, bool) {
	v, ok := c.store.Get(lastKey)
	if !ok {
		return Snapshot{}, false
	}
	return v.(Snapshot), true
}

// Store records vehicles as the current snapshot and returns it.
func (c *Cache) Store(vehicles []catalogs.Vehicle, loadedAt time.Time) Snapshot {
	snap := Snapshot{Vehicles: vehicles, LoadedAt: loadedAt, TTL: c.ttl}
	c.store.Set(currentKey, snap, gocache.DefaultExpiration)
	c.store.Set(lastKey, snap, gocache.NoExpiration)
	return snap
}

// Invalidate expires the current snapshot. The last snapshot is kept.
func (c *Cache) Invalidate() {
	c.store.Delete(currentKey)
}

// Clear removes all snapshots.
func (c *Cache) Clear() {
	c.store.Flush()
}

// Stats returns cache statistics.
type Stats struct {
	ItemCount int       `json:"item_count"`
	Fresh     bool      `json:"fresh"`
	Vehicles  int       `json:"vehicles"`
	LoadedAt  time.Time `json:"loaded_at,omitzero"`
}

// GetStats returns current cache statistics.
func (c *Cache) GetStats() Stats {
	stats := Stats{ItemCount: c.store.ItemCount()}
	_, stats.Fresh = c.Snapshot()
	if last, ok := c.Last(); ok {
		stats.Vehicles = len(last.Vehicles)
		stats.LoadedAt = last.LoadedAt
	}
	return stats
}
