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

// UserWriteRepository handles all state-mutating operations for users.
// It operates exclusively against the SQL write store (source of truth).
type UserWriteRepository struct {
	db *database.DB
}

func NewUserWriteRepository(db *database.DB) *UserWriteRepository {
	return &UserWriteRepository{db: db}
}

// Create inserts user. A taken email yields errs.ErrConflict.
func (r *UserWriteRepository) Create(ctx context.Context, user *models.User) error {
	query := r.db.Rebind(`
		INSERT INTO users (id, name, email, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query, user.ID, user.Name, user.Email, user.PasswordHash, user.CreatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return fmt.Errorf("%w: email already registered", errs.ErrConflict)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByEmail fetches the full write model, including PasswordHash.
func (r *UserWriteRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
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
