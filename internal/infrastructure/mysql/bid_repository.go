package mysql

import (
	"context"
	"database/sql"
	"errors"

	"silent-auction/internal/domain"
)

type MySQLBidRepository struct {
	db *sql.DB
}

func NewMySQLBidRepository(db *sql.DB) *MySQLBidRepository {
	return &MySQLBidRepository{db: db}
}

// AcceptBid runs the demote-and-promote as one transaction. The item
// row is locked first, which serializes concurrent acceptance per item
// while leaving other items uncontended; the floor is then re-read
// under that lock so the loser of a race fails against the committed
// floor, not the stale one it validated against.
func (r *MySQLBidRepository) AcceptBid(ctx context.Context, item *domain.Item, bid *domain.Bid) (*domain.Bid, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	var startingBid float64
	err = tx.QueryRowContext(ctx,
		`SELECT starting_bid FROM items WHERE id = ? FOR UPDATE`,
		item.ID).Scan(&startingBid)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrItemNotFound
	}
	if err != nil {
		return nil, err
	}

	prev, err := winningBidTx(ctx, tx, item.ID)
	if err != nil {
		return nil, err
	}

	locked := *item
	locked.StartingBid = startingBid
	if err := domain.ValidateAmount(bid.Amount, domain.BidFloor(&locked, prev)); err != nil {
		return nil, err
	}

	if prev != nil {
		if _, err := tx.ExecContext(ctx,
			`UPDATE bids SET winning = 0 WHERE id = ?`, prev.ID); err != nil {
			return nil, err
		}
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO bids (id, item_id, bidder_id, amount, placed_at, winning)
         VALUES (?, ?, ?, ?, ?, 1)`,
		bid.ID, bid.ItemID, bid.BidderID, bid.Amount, bid.PlacedAt)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	if prev != nil {
		prev.Winning = false
	}
	return prev, nil
}

func (r *MySQLBidRepository) WinningBid(ctx context.Context, itemID string) (*domain.Bid, error) {
	query := `
        SELECT id, item_id, bidder_id, amount, placed_at, winning
        FROM bids WHERE item_id = ? AND winning = 1
    `

	var bid domain.Bid
	err := r.db.QueryRowContext(ctx, query, itemID).Scan(
		&bid.ID, &bid.ItemID, &bid.BidderID, &bid.Amount, &bid.PlacedAt, &bid.Winning)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bid, nil
}

func (r *MySQLBidRepository) BidsForItem(ctx context.Context, itemID string) ([]*domain.Bid, error) {
	query := `
        SELECT id, item_id, bidder_id, amount, placed_at, winning
        FROM bids WHERE item_id = ? ORDER BY placed_at DESC
    `
	return r.queryBids(ctx, query, itemID)
}

func (r *MySQLBidRepository) BidsForUser(ctx context.Context, userID string) ([]*domain.Bid, error) {
	query := `
        SELECT id, item_id, bidder_id, amount, placed_at, winning
        FROM bids WHERE bidder_id = ? ORDER BY placed_at DESC
    `
	return r.queryBids(ctx, query, userID)
}

func (r *MySQLBidRepository) WinningBidsForUser(ctx context.Context, userID string) ([]*domain.Bid, error) {
	query := `
        SELECT id, item_id, bidder_id, amount, placed_at, winning
        FROM bids WHERE bidder_id = ? AND winning = 1 ORDER BY placed_at DESC
    `
	return r.queryBids(ctx, query, userID)
}

func (r *MySQLBidRepository) HasBids(ctx context.Context, itemID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS(SELECT 1 FROM bids WHERE item_id = ?)`, itemID).Scan(&exists)
	return exists, err
}

func (r *MySQLBidRepository) queryBids(ctx context.Context, query string, args ...interface{}) ([]*domain.Bid, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bids []*domain.Bid
	for rows.Next() {
		var bid domain.Bid
		err := rows.Scan(&bid.ID, &bid.ItemID, &bid.BidderID, &bid.Amount,
			&bid.PlacedAt, &bid.Winning)
		if err != nil {
			return nil, err
		}
		bids = append(bids, &bid)
	}
	return bids, rows.Err()
}

func winningBidTx(ctx context.Context, tx *sql.Tx, itemID string) (*domain.Bid, error) {
	var bid domain.Bid
	err := tx.QueryRowContext(ctx,
		`SELECT id, item_id, bidder_id, amount, placed_at, winning
         FROM bids WHERE item_id = ? AND winning = 1`,
		itemID).Scan(&bid.ID, &bid.ItemID, &bid.BidderID, &bid.Amount,
		&bid.PlacedAt, &bid.Winning)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &bid, nil
}
