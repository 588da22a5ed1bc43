package ledger

import (
	"sync"

	"github.com/adilzhm/garagelog/internal/models"
)

// cache holds the per-owner vehicle snapshots between refreshes. It is owned
// by the Coordinator, rebuilt on every refresh and dropped on invalidation.
// Cached vehicles are treated as read-only; a refresh replaces the slice
// wholesale.
type cache struct {
	mu      sync.RWMutex
	byOwner map[string][]*models.Vehicle
}

func newCache() *cache {
	return &cache{byOwner: make(map[string][]*models.Vehicle)}
}

func (c *cache) get(ownerID string) ([]*models.Vehicle, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	vehicles, ok := c.byOwner[ownerID]
	return vehicles, ok
}

func (c *cache) put(ownerID string, vehicles []*models.Vehicle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byOwner[ownerID] = vehicles
}

func (c *cache) invalidate(ownerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.byOwner, ownerID)
}
