package domain

import (
	"context"
	"time"
)

// Repository interfaces
type ItemRepository interface {
	CreateItem(ctx context.Context, item *Item) error
	GetItem(ctx context.Context, itemID string) (*Item, error)
	ListItems(ctx context.Context) ([]*Item, error)
	ListItemsByOwner(ctx context.Context, ownerID string) ([]*Item, error)
	UpdateItem(ctx context.Context, item *Item) error
	DeleteItem(ctx context.Context, itemID string) error
	ListCategories(ctx context.Context) ([]string, error)
	// EndExpiredItems conditionally transitions every active item whose
	// deadline has passed to ended and returns the IDs it transitioned.
	// The transition is compare-and-set on the current status, so
	// concurrent sweepers converge without double processing.
	EndExpiredItems(ctx context.Context, now time.Time) ([]string, error)
}

type BidRepository interface {
	// AcceptBid atomically demotes the current winning bid (if any) and
	// inserts bid as the new winning bid. The floor is re-read inside
	// the per-item critical section; a bid that no longer clears it
	// fails with ErrBidTooLow. Returns the demoted bid, or nil when the
	// item had no prior winning bid.
	AcceptBid(ctx context.Context, item *Item, bid *Bid) (*Bid, error)
	// WinningBid returns the current winning bid, or nil when the item
	// has no bids. Reflects the latest committed AcceptBid.
	WinningBid(ctx context.Context, itemID string) (*Bid, error)
	BidsForItem(ctx context.Context, itemID string) ([]*Bid, error)
	BidsForUser(ctx context.Context, userID string) ([]*Bid, error)
	WinningBidsForUser(ctx context.Context, userID string) ([]*Bid, error)
	HasBids(ctx context.Context, itemID string) (bool, error)
}

type NotificationRepository interface {
	CreateNotification(ctx context.Context, n *Notification) error
	GetNotification(ctx context.Context, notificationID string) (*Notification, error)
	NotificationsForUser(ctx context.Context, userID string) ([]*Notification, error)
	MarkNotificationRead(ctx context.Context, notificationID string) error
}

type UserRepository interface {
	GetUser(ctx context.Context, userID string) (*User, error)
	UpdateUser(ctx context.Context, user *User) error
}

// Cache interfaces
type ItemStatusCache interface {
	SetItemStatus(ctx context.Context, itemID string, status ItemStatus) error
	// GetItemStatus returns the cached status and whether it was cached
	// at all. A miss is not an error.
	GetItemStatus(ctx context.Context, itemID string) (ItemStatus, bool, error)
}

// Event interfaces
type EventPublisher interface {
	PublishBidEvent(ctx context.Context, event *BidEvent) error
}

// Leader election interface
type LeaderElection interface {
	BecomeLeader(ctx context.Context, instanceID string) (bool, error)
	IsLeader(ctx context.Context, instanceID string) (bool, error)
	ReleaseLeadership(ctx context.Context, instanceID string) error
}
