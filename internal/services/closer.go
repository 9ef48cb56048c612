package services

import (
	"context"
	"time"

	"silent-auction/internal/domain"
	"silent-auction/pkg/logger"

	"github.com/robfig/cron/v3"
)

// AuctionCloser sweeps expired active items to ended on a schedule. The
// transition is compare-and-set in the repository, so repeated or
// concurrent sweeps converge to the same end state. Bid rejection never
// waits for the sweep: the ledger checks the deadline live.
type AuctionCloser struct {
	cron        *cron.Cron
	items       domain.ItemRepository
	statusCache domain.ItemStatusCache
	events      domain.EventPublisher
	leader      domain.LeaderElection
	instanceID  string
	schedule    string
	log         logger.Logger
	now         func() time.Time
}

func NewAuctionCloser(
	items domain.ItemRepository,
	statusCache domain.ItemStatusCache,
	events domain.EventPublisher,
	leader domain.LeaderElection,
	instanceID string,
	schedule string,
	log logger.Logger,
) *AuctionCloser {
	return &AuctionCloser{
		cron:        cron.New(cron.WithSeconds()),
		items:       items,
		statusCache: statusCache,
		events:      events,
		leader:      leader,
		instanceID:  instanceID,
		schedule:    schedule,
		log:         log,
		now:         time.Now,
	}
}

func (c *AuctionCloser) Start(ctx context.Context) error {
	c.log.Info("starting auction closer", "schedule", c.schedule)

	_, err := c.cron.AddFunc(c.schedule, func() {
		c.runSweep(ctx)
	})
	if err != nil {
		return err
	}

	c.cron.Start()
	return nil
}

func (c *AuctionCloser) Stop() error {
	c.log.Info("stopping auction closer")
	c.cron.Stop()
	return nil
}

func (c *AuctionCloser) runSweep(ctx context.Context) {
	isLeader, err := c.leader.IsLeader(ctx, c.instanceID)
	if err != nil {
		c.log.Error("leader check failed", "error", err)
		return
	}
	if !isLeader {
		return
	}

	if _, err := c.Sweep(ctx, c.now()); err != nil {
		c.log.Error("sweep failed", "error", err)
	}
}

// Sweep transitions every active item whose deadline has passed to
// ended and returns the IDs it closed. Safe to call repeatedly and
// from multiple workers.
func (c *AuctionCloser) Sweep(ctx context.Context, now time.Time) ([]string, error) {
	closed, err := c.items.EndExpiredItems(ctx, now)
	if err != nil {
		return closed, err
	}

	for _, itemID := range closed {
		if err := c.statusCache.SetItemStatus(ctx, itemID, domain.ItemEnded); err != nil {
			c.log.Warn("failed to cache ended status", "item_id", itemID, "error", err)
		}
		if err := c.events.PublishBidEvent(ctx, &domain.BidEvent{
			Type:      domain.AuctionEnded,
			ItemID:    itemID,
			Timestamp: now,
		}); err != nil {
			c.log.Warn("failed to publish auction ended event", "item_id", itemID, "error", err)
		}
	}

	if len(closed) > 0 {
		c.log.Info("sweep closed items", "count", len(closed))
	}
	return closed, nil
}
