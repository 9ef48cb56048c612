package memory

import (
	"context"
	"sync"

	"silent-auction/internal/domain"
)

// StatusCache is an in-memory implementation of domain.ItemStatusCache.
type StatusCache struct {
	mu       sync.RWMutex
	statuses map[string]domain.ItemStatus
}

func NewStatusCache() *StatusCache {
	return &StatusCache{
		statuses: make(map[string]domain.ItemStatus),
	}
}

func (c *StatusCache) SetItemStatus(ctx context.Context, itemID string, status domain.ItemStatus) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.statuses[itemID] = status
	return nil
}

func (c *StatusCache) GetItemStatus(ctx context.Context, itemID string) (domain.ItemStatus, bool, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	status, ok := c.statuses[itemID]
	if !ok {
		return domain.ItemActive, false, nil
	}
	return status, true, nil
}
