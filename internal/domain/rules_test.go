package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func testItem(status ItemStatus, deadline time.Time) *Item {
	return &Item{
		ID:          "item1",
		OwnerID:     "seller1",
		Title:       "Antique Clock",
		StartingBid: 100,
		Deadline:    deadline,
		Status:      status,
	}
}

func TestValidateBidder(t *testing.T) {
	t.Parallel()

	item := testItem(ItemActive, time.Now().Add(time.Hour))

	require.ErrorIs(t, ValidateBidder(item, "seller1"), ErrSelfBid)
	require.NoError(t, ValidateBidder(item, "bidder1"))
}

func TestValidateOpen(t *testing.T) {
	t.Parallel()

	now := time.Now()

	tests := []struct {
		name     string
		status   ItemStatus
		deadline time.Time
		wantErr  error
	}{
		{name: "active_before_deadline", status: ItemActive, deadline: now.Add(time.Hour), wantErr: nil},
		{name: "active_past_deadline", status: ItemActive, deadline: now.Add(-time.Minute), wantErr: ErrAuctionClosed},
		{name: "active_at_deadline", status: ItemActive, deadline: now, wantErr: ErrAuctionClosed},
		{name: "ended_before_deadline", status: ItemEnded, deadline: now.Add(time.Hour), wantErr: ErrAuctionClosed},
		{name: "ended_past_deadline", status: ItemEnded, deadline: now.Add(-time.Hour), wantErr: ErrAuctionClosed},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateOpen(testItem(tc.status, tc.deadline), now)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestValidateAmount(t *testing.T) {
	t.Parallel()

	require.ErrorIs(t, ValidateAmount(100, 100), ErrBidTooLow)
	require.ErrorIs(t, ValidateAmount(99.99, 100), ErrBidTooLow)
	require.NoError(t, ValidateAmount(100.01, 100))
}

func TestBidFloor(t *testing.T) {
	t.Parallel()

	item := testItem(ItemActive, time.Now().Add(time.Hour))

	require.Equal(t, 100.0, BidFloor(item, nil))
	require.Equal(t, 150.0, BidFloor(item, &Bid{Amount: 150}))
}
