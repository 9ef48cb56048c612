package services

import (
	"context"
	"testing"

	"silent-auction/internal/domain"
	"silent-auction/internal/infrastructure/memory"
	"silent-auction/pkg/logger"

	"github.com/stretchr/testify/require"
)

func newNotificationService() (*NotificationService, *memory.NotificationRepository) {
	repo := memory.NewNotificationRepository()
	return NewNotificationService(repo, logger.NewNop()), repo
}

func TestNotify(t *testing.T) {
	t.Parallel()

	svc, _ := newNotificationService()

	n, err := svc.Notify(context.Background(), "userA", "You have been outbid on item: Clock", domain.NotificationOutbid)
	require.NoError(t, err)
	require.False(t, n.Read)
	require.Equal(t, domain.NotificationOutbid, n.Type)

	_, err = svc.Notify(context.Background(), "", "message", domain.NotificationOutbid)
	require.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Notify(context.Background(), "userA", "", domain.NotificationOutbid)
	require.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestListForUser_NewestFirst(t *testing.T) {
	t.Parallel()

	svc, _ := newNotificationService()

	for _, msg := range []string{"first", "second"} {
		_, err := svc.Notify(context.Background(), "userA", msg, domain.NotificationOutbid)
		require.NoError(t, err)
	}
	_, err := svc.Notify(context.Background(), "userB", "other", domain.NotificationOutbid)
	require.NoError(t, err)

	list, err := svc.ListForUser(context.Background(), "userA")
	require.NoError(t, err)
	require.Len(t, list, 2)
}

func TestMarkRead(t *testing.T) {
	t.Parallel()

	svc, repo := newNotificationService()

	n, err := svc.Notify(context.Background(), "userA", "outbid", domain.NotificationOutbid)
	require.NoError(t, err)

	err = svc.MarkRead(context.Background(), "missing", "userA")
	require.ErrorIs(t, err, domain.ErrNotificationNotFound)

	err = svc.MarkRead(context.Background(), n.ID, "userB")
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	require.NoError(t, svc.MarkRead(context.Background(), n.ID, "userA"))

	got, err := repo.GetNotification(context.Background(), n.ID)
	require.NoError(t, err)
	require.True(t, got.Read)

	// Marking again is a no-op success.
	require.NoError(t, svc.MarkRead(context.Background(), n.ID, "userA"))
}
