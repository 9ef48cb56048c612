package mysql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"silent-auction/internal/domain"
)

type MySQLItemRepository struct {
	db *sql.DB
}

func NewMySQLItemRepository(db *sql.DB) *MySQLItemRepository {
	return &MySQLItemRepository{db: db}
}

func (r *MySQLItemRepository) CreateItem(ctx context.Context, item *domain.Item) error {
	images, err := encodeImages(item.Images)
	if err != nil {
		return err
	}

	query := `
        INSERT INTO items (id, owner_id, title, description, category, starting_bid, deadline, status, images, created_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err = r.db.ExecContext(ctx, query,
		item.ID, item.OwnerID, item.Title, item.Description, item.Category,
		item.StartingBid, item.Deadline, int(item.Status), images, item.CreatedAt)
	return err
}

func (r *MySQLItemRepository) GetItem(ctx context.Context, itemID string) (*domain.Item, error) {
	query := `
        SELECT id, owner_id, title, description, category, starting_bid, deadline, status, images, created_at
        FROM items WHERE id = ?
    `

	item, err := scanItem(r.db.QueryRowContext(ctx, query, itemID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrItemNotFound
	}
	return item, err
}

func (r *MySQLItemRepository) ListItems(ctx context.Context) ([]*domain.Item, error) {
	query := `
        SELECT id, owner_id, title, description, category, starting_bid, deadline, status, images, created_at
        FROM items ORDER BY deadline DESC
    `
	return r.queryItems(ctx, query)
}

func (r *MySQLItemRepository) ListItemsByOwner(ctx context.Context, ownerID string) ([]*domain.Item, error) {
	query := `
        SELECT id, owner_id, title, description, category, starting_bid, deadline, status, images, created_at
        FROM items WHERE owner_id = ? ORDER BY created_at DESC
    `
	return r.queryItems(ctx, query, ownerID)
}

func (r *MySQLItemRepository) UpdateItem(ctx context.Context, item *domain.Item) error {
	images, err := encodeImages(item.Images)
	if err != nil {
		return err
	}

	query := `
        UPDATE items
        SET title = ?, description = ?, category = ?, starting_bid = ?, deadline = ?, images = ?
        WHERE id = ?
    `
	_, err = r.db.ExecContext(ctx, query,
		item.Title, item.Description, item.Category, item.StartingBid,
		item.Deadline, images, item.ID)
	return err
}

func (r *MySQLItemRepository) DeleteItem(ctx context.Context, itemID string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, itemID)
	return err
}

func (r *MySQLItemRepository) ListCategories(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT category FROM items WHERE category <> '' ORDER BY category`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

func (r *MySQLItemRepository) EndExpiredItems(ctx context.Context, now time.Time) ([]string, error) {
	query := `SELECT id FROM items WHERE status = ? AND deadline <= ?`

	rows, err := r.db.QueryContext(ctx, query, int(domain.ItemActive), now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var candidates []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		candidates = append(candidates, id)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Compare-and-set per item: a concurrent sweeper that already ended
	// the item affects zero rows here, so each close is reported once.
	var closed []string
	for _, id := range candidates {
		res, err := r.db.ExecContext(ctx,
			`UPDATE items SET status = ? WHERE id = ? AND status = ?`,
			int(domain.ItemEnded), id, int(domain.ItemActive))
		if err != nil {
			return closed, err
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return closed, err
		}
		if affected == 1 {
			closed = append(closed, id)
		}
	}
	return closed, nil
}

func (r *MySQLItemRepository) queryItems(ctx context.Context, query string, args ...interface{}) ([]*domain.Item, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []*domain.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (*domain.Item, error) {
	var item domain.Item
	var status int
	var images string

	err := row.Scan(&item.ID, &item.OwnerID, &item.Title, &item.Description,
		&item.Category, &item.StartingBid, &item.Deadline, &status, &images,
		&item.CreatedAt)
	if err != nil {
		return nil, err
	}

	item.Status = domain.ItemStatus(status)
	if err := json.Unmarshal([]byte(images), &item.Images); err != nil {
		return nil, err
	}
	return &item, nil
}

func encodeImages(images []string) (string, error) {
	if images == nil {
		images = []string{}
	}
	data, err := json.Marshal(images)
	return string(data), err
}
