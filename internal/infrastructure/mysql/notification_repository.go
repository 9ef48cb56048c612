package mysql

import (
	"context"
	"database/sql"
	"errors"

	"silent-auction/internal/domain"
)

type MySQLNotificationRepository struct {
	db *sql.DB
}

func NewMySQLNotificationRepository(db *sql.DB) *MySQLNotificationRepository {
	return &MySQLNotificationRepository{db: db}
}

func (r *MySQLNotificationRepository) CreateNotification(ctx context.Context, n *domain.Notification) error {
	query := `
        INSERT INTO notifications (id, user_id, message, type, is_read, created_at)
        VALUES (?, ?, ?, ?, ?, ?)
    `
	_, err := r.db.ExecContext(ctx, query,
		n.ID, n.UserID, n.Message, string(n.Type), n.Read, n.CreatedAt)
	return err
}

func (r *MySQLNotificationRepository) GetNotification(ctx context.Context, notificationID string) (*domain.Notification, error) {
	query := `
        SELECT id, user_id, message, type, is_read, created_at
        FROM notifications WHERE id = ?
    `

	var n domain.Notification
	var ntype string

	err := r.db.QueryRowContext(ctx, query, notificationID).Scan(
		&n.ID, &n.UserID, &n.Message, &ntype, &n.Read, &n.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotificationNotFound
	}
	if err != nil {
		return nil, err
	}

	n.Type = domain.NotificationType(ntype)
	return &n, nil
}

func (r *MySQLNotificationRepository) NotificationsForUser(ctx context.Context, userID string) ([]*domain.Notification, error) {
	query := `
        SELECT id, user_id, message, type, is_read, created_at
        FROM notifications WHERE user_id = ? ORDER BY created_at DESC
    `

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var notifications []*domain.Notification
	for rows.Next() {
		var n domain.Notification
		var ntype string

		err := rows.Scan(&n.ID, &n.UserID, &n.Message, &ntype, &n.Read, &n.CreatedAt)
		if err != nil {
			return nil, err
		}

		n.Type = domain.NotificationType(ntype)
		notifications = append(notifications, &n)
	}
	return notifications, rows.Err()
}

func (r *MySQLNotificationRepository) MarkNotificationRead(ctx context.Context, notificationID string) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE notifications SET is_read = 1 WHERE id = ?`, notificationID)
	return err
}
