package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"silent-auction/internal/domain"
	"silent-auction/internal/infrastructure/memory"
	"silent-auction/pkg/logger"

	"github.com/stretchr/testify/require"
)

type capturePublisher struct {
	mu     sync.Mutex
	events []*domain.BidEvent
}

func (p *capturePublisher) PublishBidEvent(ctx context.Context, event *domain.BidEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *capturePublisher) byType(t domain.BidEventType) []*domain.BidEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []*domain.BidEvent
	for _, e := range p.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

type failingNotifier struct{}

func (failingNotifier) Notify(ctx context.Context, userID, message string, ntype domain.NotificationType) (*domain.Notification, error) {
	return nil, errors.New("notification store down")
}

type bidTestEnv struct {
	items         *memory.ItemRepository
	bids          *memory.BidRepository
	users         *memory.UserRepository
	notifications *memory.NotificationRepository
	statusCache   *memory.StatusCache
	events        *capturePublisher
	svc           *BidService
}

func newBidTestEnv() *bidTestEnv {
	log := logger.NewNop()

	env := &bidTestEnv{
		items:         memory.NewItemRepository(),
		bids:          memory.NewBidRepository(),
		users:         memory.NewUserRepository(),
		notifications: memory.NewNotificationRepository(),
		statusCache:   memory.NewStatusCache(),
		events:        &capturePublisher{},
	}
	env.svc = NewBidService(env.items, env.bids, env.users, env.statusCache,
		NewNotificationService(env.notifications, log), env.events, log)
	return env
}

func (env *bidTestEnv) addItem(id, ownerID string, startingBid float64, deadline time.Time, status domain.ItemStatus) {
	env.items.CreateItem(context.Background(), &domain.Item{
		ID:          id,
		OwnerID:     ownerID,
		Title:       "Item " + id,
		StartingBid: startingBid,
		Deadline:    deadline,
		Status:      status,
		CreatedAt:   time.Now(),
	})
}

func TestPlaceBid_FirstBid(t *testing.T) {
	t.Parallel()

	env := newBidTestEnv()
	env.addItem("item1", "seller1", 100, time.Now().Add(time.Hour), domain.ItemActive)

	bid, err := env.svc.PlaceBid(context.Background(), "item1", "bidder1", 150)
	require.NoError(t, err)
	require.True(t, bid.Winning)
	require.Equal(t, 150.0, bid.Amount)

	winning, err := env.svc.CurrentWinningBid(context.Background(), "item1")
	require.NoError(t, err)
	require.NotNil(t, winning)
	require.Equal(t, bid.ID, winning.ID)

	require.Len(t, env.events.byType(domain.BidAccepted), 1)
	// No prior winner, so no outbid notification.
	notifications, err := env.notifications.NotificationsForUser(context.Background(), "bidder1")
	require.NoError(t, err)
	require.Empty(t, notifications)
}

func TestPlaceBid_Rejections(t *testing.T) {
	t.Parallel()

	env := newBidTestEnv()
	now := time.Now()
	env.addItem("open", "seller1", 100, now.Add(time.Hour), domain.ItemActive)
	env.addItem("expired", "seller1", 100, now.Add(-time.Minute), domain.ItemActive)
	env.addItem("ended", "seller1", 100, now.Add(time.Hour), domain.ItemEnded)

	tests := []struct {
		name     string
		itemID   string
		bidderID string
		amount   float64
		wantErr  error
	}{
		{name: "empty_item_id", itemID: "", bidderID: "bidder1", amount: 150, wantErr: domain.ErrInvalidInput},
		{name: "empty_bidder_id", itemID: "open", bidderID: "", amount: 150, wantErr: domain.ErrInvalidInput},
		{name: "zero_amount", itemID: "open", bidderID: "bidder1", amount: 0, wantErr: domain.ErrInvalidInput},
		{name: "negative_amount", itemID: "open", bidderID: "bidder1", amount: -5, wantErr: domain.ErrInvalidInput},
		{name: "item_not_found", itemID: "missing", bidderID: "bidder1", amount: 150, wantErr: domain.ErrItemNotFound},
		{name: "self_bid", itemID: "open", bidderID: "seller1", amount: 500, wantErr: domain.ErrSelfBid},
		{name: "past_deadline", itemID: "expired", bidderID: "bidder1", amount: 150, wantErr: domain.ErrAuctionClosed},
		{name: "status_ended", itemID: "ended", bidderID: "bidder1", amount: 150, wantErr: domain.ErrAuctionClosed},
		{name: "at_starting_bid", itemID: "open", bidderID: "bidder1", amount: 100, wantErr: domain.ErrBidTooLow},
		{name: "below_starting_bid", itemID: "open", bidderID: "bidder1", amount: 80, wantErr: domain.ErrBidTooLow},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.svc.PlaceBid(context.Background(), tc.itemID, tc.bidderID, tc.amount)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestPlaceBid_CachedEndedStatusRejectsEarly(t *testing.T) {
	t.Parallel()

	env := newBidTestEnv()
	// Item record still says active with a future deadline, but the
	// sweep already cached the ended status.
	env.addItem("item1", "seller1", 100, time.Now().Add(time.Hour), domain.ItemActive)
	env.statusCache.SetItemStatus(context.Background(), "item1", domain.ItemEnded)

	_, err := env.svc.PlaceBid(context.Background(), "item1", "bidder1", 150)
	require.ErrorIs(t, err, domain.ErrAuctionClosed)
}

func TestPlaceBid_SequentialFloor(t *testing.T) {
	t.Parallel()

	env := newBidTestEnv()
	env.addItem("item1", "seller1", 100, time.Now().Add(time.Hour), domain.ItemActive)

	first, err := env.svc.PlaceBid(context.Background(), "item1", "bidderA", 120)
	require.NoError(t, err)

	_, err = env.svc.PlaceBid(context.Background(), "item1", "bidderB", 110)
	require.ErrorIs(t, err, domain.ErrBidTooLow)

	// First bid is still the winner.
	winning, err := env.svc.CurrentWinningBid(context.Background(), "item1")
	require.NoError(t, err)
	require.Equal(t, first.ID, winning.ID)
	require.Equal(t, 120.0, winning.Amount)
}

func TestPlaceBid_OutbidNotification(t *testing.T) {
	t.Parallel()

	env := newBidTestEnv()
	env.addItem("item1", "seller1", 100, time.Now().Add(time.Hour), domain.ItemActive)

	bidA, err := env.svc.PlaceBid(context.Background(), "item1", "bidderA", 120)
	require.NoError(t, err)

	bidB, err := env.svc.PlaceBid(context.Background(), "item1", "bidderB", 130)
	require.NoError(t, err)

	// Exactly one outbid notification, addressed to A.
	notifications, err := env.notifications.NotificationsForUser(context.Background(), "bidderA")
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.Equal(t, domain.NotificationOutbid, notifications[0].Type)
	require.False(t, notifications[0].Read)

	forB, err := env.notifications.NotificationsForUser(context.Background(), "bidderB")
	require.NoError(t, err)
	require.Empty(t, forB)

	// A's bid was demoted, B's is winning.
	winning, err := env.svc.CurrentWinningBid(context.Background(), "item1")
	require.NoError(t, err)
	require.Equal(t, bidB.ID, winning.ID)

	all, err := env.bids.BidsForItem(context.Background(), "item1")
	require.NoError(t, err)
	for _, b := range all {
		if b.ID == bidA.ID {
			require.False(t, b.Winning)
		}
	}
}

func TestPlaceBid_NotificationFailureDoesNotFailCommit(t *testing.T) {
	t.Parallel()

	env := newBidTestEnv()
	env.svc.notifier = failingNotifier{}
	env.addItem("item1", "seller1", 100, time.Now().Add(time.Hour), domain.ItemActive)

	_, err := env.svc.PlaceBid(context.Background(), "item1", "bidderA", 120)
	require.NoError(t, err)

	bid, err := env.svc.PlaceBid(context.Background(), "item1", "bidderB", 130)
	require.NoError(t, err)
	require.True(t, bid.Winning)

	winning, err := env.svc.CurrentWinningBid(context.Background(), "item1")
	require.NoError(t, err)
	require.Equal(t, bid.ID, winning.ID)
}

func TestCurrentWinningBid(t *testing.T) {
	t.Parallel()

	env := newBidTestEnv()
	env.addItem("item1", "seller1", 100, time.Now().Add(time.Hour), domain.ItemActive)

	winning, err := env.svc.CurrentWinningBid(context.Background(), "item1")
	require.NoError(t, err)
	require.Nil(t, winning)

	_, err = env.svc.CurrentWinningBid(context.Background(), "missing")
	require.ErrorIs(t, err, domain.ErrItemNotFound)
}

func TestBidsForItem_JoinsBidder(t *testing.T) {
	t.Parallel()

	env := newBidTestEnv()
	env.addItem("item1", "seller1", 100, time.Now().Add(time.Hour), domain.ItemActive)
	env.users.AddUser(domain.User{ID: "bidderA", Name: "Alice", Email: "alice@example.com"})

	_, err := env.svc.PlaceBid(context.Background(), "item1", "bidderA", 120)
	require.NoError(t, err)
	_, err = env.svc.PlaceBid(context.Background(), "item1", "bidderB", 130)
	require.NoError(t, err)

	bids, err := env.svc.BidsForItem(context.Background(), "item1")
	require.NoError(t, err)
	require.Len(t, bids, 2)

	// Newest first; unknown bidders keep an ID-only summary.
	require.Equal(t, 130.0, bids[0].Bid.Amount)
	require.Equal(t, "bidderB", bids[0].Bidder.ID)
	require.Empty(t, bids[0].Bidder.Name)
	require.Equal(t, "Alice", bids[1].Bidder.Name)
	require.Equal(t, "alice@example.com", bids[1].Bidder.Email)
}

func TestBidsForUser_OwnBidsOnly(t *testing.T) {
	t.Parallel()

	env := newBidTestEnv()
	env.addItem("item1", "seller1", 100, time.Now().Add(time.Hour), domain.ItemActive)

	_, err := env.svc.PlaceBid(context.Background(), "item1", "bidderA", 120)
	require.NoError(t, err)

	_, err = env.svc.BidsForUser(context.Background(), "bidderA", "bidderB")
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	bids, err := env.svc.BidsForUser(context.Background(), "bidderA", "bidderA")
	require.NoError(t, err)
	require.Len(t, bids, 1)
	require.Equal(t, "Item item1", bids[0].Item.Title)
}

func TestWonBids(t *testing.T) {
	t.Parallel()

	env := newBidTestEnv()
	now := time.Now()
	env.addItem("running", "seller1", 100, now.Add(2*time.Hour), domain.ItemActive)
	env.addItem("finished", "seller1", 100, now.Add(30*time.Minute), domain.ItemActive)
	env.addItem("vanishing", "seller1", 100, now.Add(30*time.Minute), domain.ItemActive)

	for _, itemID := range []string{"running", "finished", "vanishing"} {
		_, err := env.svc.PlaceBid(context.Background(), itemID, "bidderA", 150)
		require.NoError(t, err)
	}

	// End the short auctions, then delete one out from under its
	// winning bid.
	_, err := env.items.EndExpiredItems(context.Background(), now.Add(time.Hour))
	require.NoError(t, err)
	require.NoError(t, env.items.DeleteItem(context.Background(), "vanishing"))

	won, err := env.svc.WonBids(context.Background(), "bidderA")
	require.NoError(t, err)
	require.Len(t, won, 1)
	require.Equal(t, "finished", won[0].Item.ID)
	require.Equal(t, domain.ItemEnded, won[0].Item.Status)
}
