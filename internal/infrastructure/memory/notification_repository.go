package memory

import (
	"context"
	"sort"
	"sync"

	"silent-auction/internal/domain"
)

// NotificationRepository is a concurrency-safe in-memory implementation
// of domain.NotificationRepository.
type NotificationRepository struct {
	mu            sync.RWMutex
	notifications map[string]domain.Notification
}

func NewNotificationRepository() *NotificationRepository {
	return &NotificationRepository{
		notifications: make(map[string]domain.Notification),
	}
}

func (r *NotificationRepository) CreateNotification(ctx context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.notifications[n.ID] = *n
	return nil
}

func (r *NotificationRepository) GetNotification(ctx context.Context, notificationID string) (*domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n, ok := r.notifications[notificationID]
	if !ok {
		return nil, domain.ErrNotificationNotFound
	}
	return &n, nil
}

func (r *NotificationRepository) NotificationsForUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			n := n
			out = append(out, &n)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *NotificationRepository) MarkNotificationRead(ctx context.Context, notificationID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notifications[notificationID]
	if !ok {
		return domain.ErrNotificationNotFound
	}
	n.Read = true
	r.notifications[notificationID] = n
	return nil
}
