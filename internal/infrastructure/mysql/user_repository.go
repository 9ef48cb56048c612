package mysql

import (
	"context"
	"database/sql"
	"errors"

	"silent-auction/internal/domain"
)

type MySQLUserRepository struct {
	db *sql.DB
}

func NewMySQLUserRepository(db *sql.DB) *MySQLUserRepository {
	return &MySQLUserRepository{db: db}
}

func (r *MySQLUserRepository) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	query := `
        SELECT id, name, email, role, profile_image, created_at
        FROM users WHERE id = ?
    `

	var user domain.User
	var role string

	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&user.ID, &user.Name, &user.Email, &role, &user.ProfileImage, &user.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}

	user.Role = domain.UserRole(role)
	return &user, nil
}

func (r *MySQLUserRepository) UpdateUser(ctx context.Context, user *domain.User) error {
	query := `UPDATE users SET name = ?, profile_image = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, user.Name, user.ProfileImage, user.ID)
	return err
}
