package services

import (
	"context"
	"testing"
	"time"

	"silent-auction/internal/domain"
	"silent-auction/internal/infrastructure/memory"
	"silent-auction/pkg/logger"

	"github.com/stretchr/testify/require"
)

type stubLeader struct {
	leader bool
}

func (s *stubLeader) BecomeLeader(ctx context.Context, instanceID string) (bool, error) {
	return s.leader, nil
}

func (s *stubLeader) IsLeader(ctx context.Context, instanceID string) (bool, error) {
	return s.leader, nil
}

func (s *stubLeader) ReleaseLeadership(ctx context.Context, instanceID string) error {
	return nil
}

func newTestCloser(items *memory.ItemRepository, statusCache *memory.StatusCache, events *capturePublisher) *AuctionCloser {
	return NewAuctionCloser(items, statusCache, events, &stubLeader{leader: true},
		"test-instance", "@every 1m", logger.NewNop())
}

func TestSweep_ClosesExpiredItems(t *testing.T) {
	t.Parallel()

	items := memory.NewItemRepository()
	statusCache := memory.NewStatusCache()
	events := &capturePublisher{}
	closer := newTestCloser(items, statusCache, events)

	now := time.Now()
	items.CreateItem(context.Background(), &domain.Item{
		ID: "expired", Status: domain.ItemActive, Deadline: now.Add(-time.Minute),
	})
	items.CreateItem(context.Background(), &domain.Item{
		ID: "running", Status: domain.ItemActive, Deadline: now.Add(time.Hour),
	})

	closed, err := closer.Sweep(context.Background(), now)
	require.NoError(t, err)
	require.Equal(t, []string{"expired"}, closed)

	expired, err := items.GetItem(context.Background(), "expired")
	require.NoError(t, err)
	require.Equal(t, domain.ItemEnded, expired.Status)

	running, err := items.GetItem(context.Background(), "running")
	require.NoError(t, err)
	require.Equal(t, domain.ItemActive, running.Status)

	// Ended status is cached and the close is announced once.
	status, ok, err := statusCache.GetItemStatus(context.Background(), "expired")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, domain.ItemEnded, status)
	require.Len(t, events.byType(domain.AuctionEnded), 1)
}

func TestSweep_Idempotent(t *testing.T) {
	t.Parallel()

	items := memory.NewItemRepository()
	events := &capturePublisher{}
	closer := newTestCloser(items, memory.NewStatusCache(), events)

	now := time.Now()
	items.CreateItem(context.Background(), &domain.Item{
		ID: "expired", Status: domain.ItemActive, Deadline: now.Add(-time.Minute),
	})

	closed, err := closer.Sweep(context.Background(), now)
	require.NoError(t, err)
	require.Len(t, closed, 1)

	// Repeat sweeps find nothing to do and emit nothing new.
	for i := 0; i < 3; i++ {
		closed, err = closer.Sweep(context.Background(), now)
		require.NoError(t, err)
		require.Empty(t, closed)
	}
	require.Len(t, events.byType(domain.AuctionEnded), 1)
}

func TestSweep_LeavesFutureDeadlinesAlone(t *testing.T) {
	t.Parallel()

	items := memory.NewItemRepository()
	closer := newTestCloser(items, memory.NewStatusCache(), &capturePublisher{})

	now := time.Now()
	items.CreateItem(context.Background(), &domain.Item{
		ID: "running", Status: domain.ItemActive, Deadline: now.Add(time.Hour),
	})

	closed, err := closer.Sweep(context.Background(), now)
	require.NoError(t, err)
	require.Empty(t, closed)

	running, err := items.GetItem(context.Background(), "running")
	require.NoError(t, err)
	require.Equal(t, domain.ItemActive, running.Status)
}
