package domain

import (
	"time"
)

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         UserRole  `json:"role"`
	ProfileImage string    `json:"profile_image"`
	CreatedAt    time.Time `json:"created_at"`
}

type UserRole string

const (
	RoleSeller UserRole = "seller"
	RoleBidder UserRole = "bidder"
)

type Item struct {
	ID          string     `json:"id"`
	OwnerID     string     `json:"owner_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Category    string     `json:"category"`
	StartingBid float64    `json:"starting_bid"`
	Deadline    time.Time  `json:"deadline"`
	Status      ItemStatus `json:"status"`
	Images      []string   `json:"images"`
	CreatedAt   time.Time  `json:"created_at"`
}

// IsOpenForBidding reports whether the item accepts bids at the given
// instant. The check is live against the clock so bid rejection never
// depends on the status sweep having run.
func (i *Item) IsOpenForBidding(now time.Time) bool {
	return i.Status == ItemActive && now.Before(i.Deadline)
}

type ItemStatus int

const (
	ItemActive ItemStatus = iota
	ItemEnded
)

func (s ItemStatus) String() string {
	switch s {
	case ItemActive:
		return "active"
	case ItemEnded:
		return "ended"
	default:
		return "unknown"
	}
}

func (s ItemStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

type Bid struct {
	ID       string    `json:"id"`
	ItemID   string    `json:"item_id"`
	BidderID string    `json:"bidder_id"`
	Amount   float64   `json:"amount"`
	PlacedAt time.Time `json:"placed_at"`
	Winning  bool      `json:"winning"`
}

type Notification struct {
	ID        string           `json:"id"`
	UserID    string           `json:"user_id"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	Read      bool             `json:"read"`
	CreatedAt time.Time        `json:"created_at"`
}

type NotificationType string

const (
	NotificationOutbid NotificationType = "outbid"
)

type BidEvent struct {
	Type      BidEventType `json:"type"`
	ItemID    string       `json:"item_id"`
	UserID    string       `json:"user_id"`
	Amount    float64      `json:"amount"`
	Timestamp time.Time    `json:"timestamp"`
}

type BidEventType string

const (
	BidAccepted  BidEventType = "bid_accepted"
	BidderOutbid BidEventType = "bidder_outbid"
	AuctionEnded BidEventType = "auction_ended"
)

// ItemSummary is the slice of an item carried along with a bid in
// user-facing bid lists.
type ItemSummary struct {
	ID       string     `json:"id"`
	Title    string     `json:"title"`
	Images   []string   `json:"images"`
	Deadline time.Time  `json:"deadline"`
	Status   ItemStatus `json:"status"`
}

// UserSummary is the slice of a user carried along with a bid in
// per-item bid lists.
type UserSummary struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// UserBid is a bid enriched with its item, assembled on the read side.
type UserBid struct {
	Bid  Bid         `json:"bid"`
	Item ItemSummary `json:"item"`
}

// ItemBid is a bid enriched with its bidder, assembled on the read side.
type ItemBid struct {
	Bid    Bid         `json:"bid"`
	Bidder UserSummary `json:"bidder"`
}

// ItemWithBids is an owner's item together with its bids, highest first.
type ItemWithBids struct {
	Item Item  `json:"item"`
	Bids []Bid `json:"bids"`
}
