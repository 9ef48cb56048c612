package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"silent-auction/internal/domain"
	"silent-auction/pkg/logger"
	"silent-auction/pkg/utils"
)

// NotificationEmitter is the slice of the notification service the
// ledger needs for its best-effort outbid side effect.
type NotificationEmitter interface {
	Notify(ctx context.Context, userID, message string, ntype domain.NotificationType) (*domain.Notification, error)
}

// BidService is the bid ledger: it decides whether an incoming bid is
// accepted, atomically promotes it to current winner, and emits the
// outbid notification for the demoted bidder.
type BidService struct {
	items       domain.ItemRepository
	bids        domain.BidRepository
	users       domain.UserRepository
	statusCache domain.ItemStatusCache
	notifier    NotificationEmitter
	events      domain.EventPublisher
	log         logger.Logger
	now         func() time.Time
}

func NewBidService(
	items domain.ItemRepository,
	bids domain.BidRepository,
	users domain.UserRepository,
	statusCache domain.ItemStatusCache,
	notifier NotificationEmitter,
	events domain.EventPublisher,
	log logger.Logger,
) *BidService {
	return &BidService{
		items:       items,
		bids:        bids,
		users:       users,
		statusCache: statusCache,
		notifier:    notifier,
		events:      events,
		log:         log,
		now:         time.Now,
	}
}

// PlaceBid validates and commits a bid. Validation order: item lookup,
// self-bid, auction closed, amount vs floor. The floor check is
// repeated inside the repository's per-item critical section, so of two
// concurrent bids the loser is re-evaluated against the winner's
// committed amount. Notification and event emission are best-effort and
// never roll back the commit.
func (s *BidService) PlaceBid(ctx context.Context, itemID, bidderID string, amount float64) (*domain.Bid, error) {
	if itemID == "" || bidderID == "" {
		return nil, fmt.Errorf("%w: missing item or bidder id", domain.ErrInvalidInput)
	}
	if amount <= 0 {
		return nil, fmt.Errorf("%w: bid amount must be positive", domain.ErrInvalidInput)
	}

	item, err := s.items.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	now := s.now()

	if err := domain.ValidateBidder(item, bidderID); err != nil {
		return nil, err
	}

	// Fast path when the sweep has already persisted the ended status.
	// The live deadline check below stays authoritative either way.
	if status, ok, err := s.statusCache.GetItemStatus(ctx, itemID); err != nil {
		s.log.Warn("status cache read failed", "item_id", itemID, "error", err)
	} else if ok && status == domain.ItemEnded {
		return nil, domain.ErrAuctionClosed
	}

	if err := domain.ValidateOpen(item, now); err != nil {
		return nil, err
	}

	bid := &domain.Bid{
		ID:       utils.GenerateID("bid"),
		ItemID:   itemID,
		BidderID: bidderID,
		Amount:   amount,
		PlacedAt: now,
		Winning:  true,
	}

	demoted, err := s.bids.AcceptBid(ctx, item, bid)
	if err != nil {
		return nil, err
	}

	s.log.Info("bid accepted",
		"bid_id", bid.ID, "item_id", itemID, "bidder_id", bidderID, "amount", amount)

	if demoted != nil {
		s.notifyOutbid(ctx, item, demoted)
	}
	s.publish(ctx, &domain.BidEvent{
		Type:      domain.BidAccepted,
		ItemID:    itemID,
		UserID:    bidderID,
		Amount:    amount,
		Timestamp: now,
	})

	return bid, nil
}

// CurrentWinningBid returns the winning bid for the item, or nil when
// no bid has been accepted yet.
func (s *BidService) CurrentWinningBid(ctx context.Context, itemID string) (*domain.Bid, error) {
	if _, err := s.items.GetItem(ctx, itemID); err != nil {
		return nil, err
	}
	return s.bids.WinningBid(ctx, itemID)
}

// BidsForItem returns the item's bids, newest first, each with a
// bidder summary assembled from the user store.
func (s *BidService) BidsForItem(ctx context.Context, itemID string) ([]domain.ItemBid, error) {
	if _, err := s.items.GetItem(ctx, itemID); err != nil {
		return nil, err
	}

	bids, err := s.bids.BidsForItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ItemBid, 0, len(bids))
	for _, bid := range bids {
		entry := domain.ItemBid{Bid: *bid, Bidder: domain.UserSummary{ID: bid.BidderID}}
		user, err := s.users.GetUser(ctx, bid.BidderID)
		if err != nil && !errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		if user != nil {
			entry.Bidder.Name = user.Name
			entry.Bidder.Email = user.Email
		}
		out = append(out, entry)
	}
	return out, nil
}

// BidsForUser returns the user's bids, newest first, each with an item
// summary. Callers may only list their own bids.
func (s *BidService) BidsForUser(ctx context.Context, userID, callerID string) ([]domain.UserBid, error) {
	if callerID != userID {
		return nil, fmt.Errorf("%w: you can only view your own bids", domain.ErrUnauthorized)
	}

	bids, err := s.bids.BidsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.UserBid, 0, len(bids))
	for _, bid := range bids {
		entry := domain.UserBid{Bid: *bid, Item: domain.ItemSummary{ID: bid.ItemID}}
		item, err := s.items.GetItem(ctx, bid.ItemID)
		if err != nil && !errors.Is(err, domain.ErrItemNotFound) {
			return nil, err
		}
		if item != nil {
			entry.Item = itemSummary(item)
		}
		out = append(out, entry)
	}
	return out, nil
}

// WonBids returns the user's winning bids on ended items. Bids whose
// item can no longer be resolved are dropped, not surfaced as empty
// entries.
func (s *BidService) WonBids(ctx context.Context, userID string) ([]domain.UserBid, error) {
	bids, err := s.bids.WinningBidsForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.UserBid, 0, len(bids))
	for _, bid := range bids {
		item, err := s.items.GetItem(ctx, bid.ItemID)
		if errors.Is(err, domain.ErrItemNotFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		if item.Status != domain.ItemEnded && item.Deadline.After(s.now()) {
			continue
		}
		out = append(out, domain.UserBid{Bid: *bid, Item: itemSummary(item)})
	}
	return out, nil
}

func (s *BidService) notifyOutbid(ctx context.Context, item *domain.Item, demoted *domain.Bid) {
	message := fmt.Sprintf("You have been outbid on item: %s", item.Title)
	if _, err := s.notifier.Notify(ctx, demoted.BidderID, message, domain.NotificationOutbid); err != nil {
		s.log.Error("failed to create outbid notification",
			"item_id", item.ID, "user_id", demoted.BidderID, "error", err)
	}

	s.publish(ctx, &domain.BidEvent{
		Type:      domain.BidderOutbid,
		ItemID:    item.ID,
		UserID:    demoted.BidderID,
		Amount:    demoted.Amount,
		Timestamp: s.now(),
	})
}

func (s *BidService) publish(ctx context.Context, event *domain.BidEvent) {
	if err := s.events.PublishBidEvent(ctx, event); err != nil {
		s.log.Warn("failed to publish bid event",
			"type", event.Type, "item_id", event.ItemID, "error", err)
	}
}

func itemSummary(item *domain.Item) domain.ItemSummary {
	return domain.ItemSummary{
		ID:       item.ID,
		Title:    item.Title,
		Images:   item.Images,
		Deadline: item.Deadline,
		Status:   item.Status,
	}
}
