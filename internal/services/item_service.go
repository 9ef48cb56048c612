package services

import (
	"context"
	"fmt"
	"sort"
	"time"

	"silent-auction/internal/domain"
	"silent-auction/pkg/logger"
	"silent-auction/pkg/utils"
)

// ItemService owns auction item records and their lifecycle. Items stay
// owner-editable only until the first bid is accepted.
type ItemService struct {
	items       domain.ItemRepository
	bids        domain.BidRepository
	statusCache domain.ItemStatusCache
	log         logger.Logger
	now         func() time.Time
}

func NewItemService(
	items domain.ItemRepository,
	bids domain.BidRepository,
	statusCache domain.ItemStatusCache,
	log logger.Logger,
) *ItemService {
	return &ItemService{
		items:       items,
		bids:        bids,
		statusCache: statusCache,
		log:         log,
		now:         time.Now,
	}
}

type ItemInput struct {
	Title       string
	Description string
	Category    string
	StartingBid float64
	Deadline    time.Time
	Images      []string
}

// ItemUpdate carries a partial update; nil fields keep the prior value.
type ItemUpdate struct {
	Title       *string
	Description *string
	Category    *string
	StartingBid *float64
	Deadline    *time.Time
	Images      []string
}

func (s *ItemService) CreateItem(ctx context.Context, ownerID string, in ItemInput) (*domain.Item, error) {
	if ownerID == "" {
		return nil, fmt.Errorf("%w: missing owner id", domain.ErrInvalidInput)
	}
	if in.Title == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if in.StartingBid < 0 {
		return nil, fmt.Errorf("%w: starting bid must not be negative", domain.ErrInvalidInput)
	}

	now := s.now()
	if !in.Deadline.After(now) {
		return nil, fmt.Errorf("%w: deadline must be in the future", domain.ErrInvalidInput)
	}

	item := &domain.Item{
		ID:          utils.GenerateID("item"),
		OwnerID:     ownerID,
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		StartingBid: in.StartingBid,
		Deadline:    in.Deadline,
		Status:      domain.ItemActive,
		Images:      in.Images,
		CreatedAt:   now,
	}

	if err := s.items.CreateItem(ctx, item); err != nil {
		return nil, err
	}

	if err := s.statusCache.SetItemStatus(ctx, item.ID, domain.ItemActive); err != nil {
		s.log.Warn("failed to cache item status", "item_id", item.ID, "error", err)
	}

	s.log.Info("item created", "item_id", item.ID, "owner_id", ownerID, "deadline", item.Deadline)
	return item, nil
}

func (s *ItemService) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	return s.items.GetItem(ctx, itemID)
}

func (s *ItemService) ListItems(ctx context.Context) ([]*domain.Item, error) {
	return s.items.ListItems(ctx)
}

// MyItems returns the owner's items, newest first, each with its bids
// ordered highest first.
func (s *ItemService) MyItems(ctx context.Context, ownerID string) ([]domain.ItemWithBids, error) {
	items, err := s.items.ListItemsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	out := make([]domain.ItemWithBids, 0, len(items))
	for _, item := range items {
		bids, err := s.bids.BidsForItem(ctx, item.ID)
		if err != nil {
			return nil, err
		}

		entry := domain.ItemWithBids{Item: *item, Bids: make([]domain.Bid, 0, len(bids))}
		for _, bid := range bids {
			entry.Bids = append(entry.Bids, *bid)
		}
		sort.Slice(entry.Bids, func(i, j int) bool {
			return entry.Bids[i].Amount > entry.Bids[j].Amount
		})
		out = append(out, entry)
	}
	return out, nil
}

// UpdateItem applies a partial update. It fails once any bid exists:
// an item becomes immutable the instant its first bid is accepted.
func (s *ItemService) UpdateItem(ctx context.Context, itemID, callerID string, upd ItemUpdate) (*domain.Item, error) {
	item, err := s.guardOwnerMutation(ctx, itemID, callerID)
	if err != nil {
		return nil, err
	}

	if upd.Title != nil {
		item.Title = *upd.Title
	}
	if upd.Description != nil {
		item.Description = *upd.Description
	}
	if upd.Category != nil {
		item.Category = *upd.Category
	}
	if upd.StartingBid != nil {
		if *upd.StartingBid < 0 {
			return nil, fmt.Errorf("%w: starting bid must not be negative", domain.ErrInvalidInput)
		}
		item.StartingBid = *upd.StartingBid
	}
	if upd.Deadline != nil {
		if !upd.Deadline.After(s.now()) {
			return nil, fmt.Errorf("%w: deadline must be in the future", domain.ErrInvalidInput)
		}
		item.Deadline = *upd.Deadline
	}
	if upd.Images != nil {
		item.Images = upd.Images
	}

	if err := s.items.UpdateItem(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}

func (s *ItemService) DeleteItem(ctx context.Context, itemID, callerID string) error {
	if _, err := s.guardOwnerMutation(ctx, itemID, callerID); err != nil {
		return err
	}
	return s.items.DeleteItem(ctx, itemID)
}

func (s *ItemService) Categories(ctx context.Context) ([]string, error) {
	return s.items.ListCategories(ctx)
}

func (s *ItemService) guardOwnerMutation(ctx context.Context, itemID, callerID string) (*domain.Item, error) {
	item, err := s.items.GetItem(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if item.OwnerID != callerID {
		return nil, fmt.Errorf("%w: not your item", domain.ErrUnauthorized)
	}

	hasBids, err := s.bids.HasBids(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if hasBids {
		return nil, domain.ErrBidsExist
	}
	return item, nil
}
