package services

import (
	"context"
	"fmt"
	"time"

	"silent-auction/internal/domain"
	"silent-auction/pkg/logger"
	"silent-auction/pkg/utils"
)

// NotificationService appends durable notification records and lets
// recipients mark them read. Records are never mutated otherwise.
type NotificationService struct {
	notifications domain.NotificationRepository
	log           logger.Logger
	now           func() time.Time
}

func NewNotificationService(notifications domain.NotificationRepository, log logger.Logger) *NotificationService {
	return &NotificationService{
		notifications: notifications,
		log:           log,
		now:           time.Now,
	}
}

func (s *NotificationService) Notify(ctx context.Context, userID, message string, ntype domain.NotificationType) (*domain.Notification, error) {
	if userID == "" || message == "" {
		return nil, fmt.Errorf("%w: missing recipient or message", domain.ErrInvalidInput)
	}

	n := &domain.Notification{
		ID:        utils.GenerateID("ntf"),
		UserID:    userID,
		Message:   message,
		Type:      ntype,
		Read:      false,
		CreatedAt: s.now(),
	}

	if err := s.notifications.CreateNotification(ctx, n); err != nil {
		return nil, err
	}

	s.log.Debug("notification created", "notification_id", n.ID, "user_id", userID, "type", ntype)
	return n, nil
}

func (s *NotificationService) ListForUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	return s.notifications.NotificationsForUser(ctx, userID)
}

// MarkRead flags a notification as read. Only the recipient may do so;
// marking an already-read notification again is a no-op success.
func (s *NotificationService) MarkRead(ctx context.Context, notificationID, callerID string) error {
	n, err := s.notifications.GetNotification(ctx, notificationID)
	if err != nil {
		return err
	}

	if n.UserID != callerID {
		return fmt.Errorf("%w: not your notification", domain.ErrUnauthorized)
	}

	if n.Read {
		return nil
	}
	return s.notifications.MarkNotificationRead(ctx, notificationID)
}
