package domain

import "time"

// Bid acceptance rules. These are pure predicates over snapshots so the
// ledger can apply them both before and inside the atomic commit, and
// tests can exercise each rule without storage.

// ValidateBidder rejects bids a seller places on their own item.
func ValidateBidder(item *Item, bidderID string) error {
	if item.OwnerID == bidderID {
		return ErrSelfBid
	}
	return nil
}

// ValidateOpen rejects bids on ended items or past the deadline.
func ValidateOpen(item *Item, now time.Time) error {
	if !item.IsOpenForBidding(now) {
		return ErrAuctionClosed
	}
	return nil
}

// ValidateAmount rejects bids at or below the floor.
func ValidateAmount(amount, floor float64) error {
	if amount <= floor {
		return ErrBidTooLow
	}
	return nil
}

// BidFloor is the minimum amount a new bid must exceed: the current
// winning bid's amount, or the starting bid when no bid exists yet.
func BidFloor(item *Item, winning *Bid) float64 {
	if winning != nil {
		return winning.Amount
	}
	return item.StartingBid
}
