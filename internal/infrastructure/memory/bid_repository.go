package memory

import (
	"context"
	"sort"
	"sync"

	"silent-auction/internal/domain"
)

// BidRepository is a concurrency-safe in-memory implementation of
// domain.BidRepository. Acceptance is serialized per item: each item
// has its own mutex, so bids on different items never contend.
type BidRepository struct {
	mu    sync.RWMutex
	bids  map[string][]domain.Bid // itemID -> bids in placement order
	locks map[string]*sync.Mutex  // itemID -> acceptance lock
}

func NewBidRepository() *BidRepository {
	return &BidRepository{
		bids:  make(map[string][]domain.Bid),
		locks: make(map[string]*sync.Mutex),
	}
}

func (r *BidRepository) AcceptBid(ctx context.Context, item *domain.Item, bid *domain.Bid) (*domain.Bid, error) {
	lock := r.itemLock(item.ID)
	lock.Lock()
	defer lock.Unlock()

	// Re-read the floor inside the critical section: the winner of a
	// race commits first, and the loser must fail against the new floor.
	prev := r.winningBid(item.ID)
	if err := domain.ValidateAmount(bid.Amount, domain.BidFloor(item, prev)); err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if prev != nil {
		bids := r.bids[item.ID]
		for i := range bids {
			if bids[i].ID == prev.ID {
				bids[i].Winning = false
				break
			}
		}
		prev.Winning = false
	}

	accepted := *bid
	accepted.Winning = true
	r.bids[item.ID] = append(r.bids[item.ID], accepted)

	return prev, nil
}

func (r *BidRepository) WinningBid(ctx context.Context, itemID string) (*domain.Bid, error) {
	return r.winningBid(itemID), nil
}

func (r *BidRepository) BidsForItem(ctx context.Context, itemID string) ([]*domain.Bid, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	bids := r.bids[itemID]
	out := make([]*domain.Bid, 0, len(bids))
	for i := len(bids) - 1; i >= 0; i-- { // newest first
		bid := bids[i]
		out = append(out, &bid)
	}
	return out, nil
}

func (r *BidRepository) BidsForUser(ctx context.Context, userID string) ([]*domain.Bid, error) {
	return r.collect(func(b *domain.Bid) bool {
		return b.BidderID == userID
	}), nil
}

func (r *BidRepository) WinningBidsForUser(ctx context.Context, userID string) ([]*domain.Bid, error) {
	return r.collect(func(b *domain.Bid) bool {
		return b.BidderID == userID && b.Winning
	}), nil
}

func (r *BidRepository) HasBids(ctx context.Context, itemID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.bids[itemID]) > 0, nil
}

func (r *BidRepository) itemLock(itemID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()

	lock, ok := r.locks[itemID]
	if !ok {
		lock = &sync.Mutex{}
		r.locks[itemID] = lock
	}
	return lock
}

func (r *BidRepository) winningBid(itemID string) *domain.Bid {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, bid := range r.bids[itemID] {
		if bid.Winning {
			bid := bid
			return &bid
		}
	}
	return nil
}

func (r *BidRepository) collect(match func(*domain.Bid) bool) []*domain.Bid {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*domain.Bid
	for _, bids := range r.bids {
		for i := range bids {
			bid := bids[i]
			if match(&bid) {
				out = append(out, &bid)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].PlacedAt.After(out[j].PlacedAt)
	})
	return out
}
