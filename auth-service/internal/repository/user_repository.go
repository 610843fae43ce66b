package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/Jpjss/family-finance/shared/database"
	"github.com/Jpjss/family-finance/shared/errs"
	"github.com/Jpjss/family-finance/shared/models"
)

// UserRepository is the credential lookup used at login. Users are written
// by user-service only.
type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := r.db.Rebind(`
		SELECT id, name, email, password_hash, created_at
		FROM users
		WHERE email = ?
	`)

	var user models.User
	err := r.db.QueryRowContext(ctx, query, email).Scan(
		&user.ID, &user.Name, &user.Email, &user.PasswordHash, &user.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user", errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}
