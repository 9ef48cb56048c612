package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"silent-auction/internal/domain"
)

// ItemRepository is a concurrency-safe in-memory implementation of
// domain.ItemRepository.
type ItemRepository struct {
	mu    sync.RWMutex
	items map[string]domain.Item
}

func NewItemRepository() *ItemRepository {
	return &ItemRepository{
		items: make(map[string]domain.Item),
	}
}

func (r *ItemRepository) CreateItem(ctx context.Context, item *domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[item.ID] = *item
	return nil
}

func (r *ItemRepository) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.items[itemID]
	if !ok {
		return nil, domain.ErrItemNotFound
	}
	return &item, nil
}

func (r *ItemRepository) ListItems(ctx context.Context) ([]*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := make([]*domain.Item, 0, len(r.items))
	for _, item := range r.items {
		item := item
		items = append(items, &item)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].Deadline.After(items[j].Deadline)
	})
	return items, nil
}

func (r *ItemRepository) ListItemsByOwner(ctx context.Context, ownerID string) ([]*domain.Item, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var items []*domain.Item
	for _, item := range r.items {
		if item.OwnerID == ownerID {
			item := item
			items = append(items, &item)
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (r *ItemRepository) UpdateItem(ctx context.Context, item *domain.Item) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[item.ID]; !ok {
		return domain.ErrItemNotFound
	}
	r.items[item.ID] = *item
	return nil
}

func (r *ItemRepository) DeleteItem(ctx context.Context, itemID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[itemID]; !ok {
		return domain.ErrItemNotFound
	}
	delete(r.items, itemID)
	return nil
}

func (r *ItemRepository) ListCategories(ctx context.Context) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]bool)
	var categories []string
	for _, item := range r.items {
		if item.Category != "" && !seen[item.Category] {
			seen[item.Category] = true
			categories = append(categories, item.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

func (r *ItemRepository) EndExpiredItems(ctx context.Context, now time.Time) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var closed []string
	for id, item := range r.items {
		if item.Status == domain.ItemActive && !item.Deadline.After(now) {
			item.Status = domain.ItemEnded
			r.items[id] = item
			closed = append(closed, id)
		}
	}
	sort.Strings(closed)
	return closed, nil
}
