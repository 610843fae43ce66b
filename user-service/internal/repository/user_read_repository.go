package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Jpjss/family-finance/shared/database"
	"github.com/Jpjss/family-finance/shared/errs"
	"github.com/Jpjss/family-finance/shared/models"
	sharedredis "github.com/Jpjss/family-finance/shared/redis"
)

const userViewKeyPrefix = "user:view"

// UserReadRepository handles all read operations for users.
// It uses Redis as the primary read store, falling back to SQL on a miss.
type UserReadRepository struct {
	db    *database.DB
	cache *sharedredis.ViewCache[models.UserView]
}

func NewUserReadRepository(db *database.DB, redisClient *goredis.Client, ttl time.Duration) *UserReadRepository {
	return &UserReadRepository{
		db:    db,
		cache: sharedredis.NewViewCache[models.UserView](redisClient, ttl),
	}
}

// GetByID returns a UserView from Redis first, then SQL.
func (r *UserReadRepository) GetByID(ctx context.Context, id string) (*models.UserView, error) {
	cacheKey := sharedredis.Key(userViewKeyPrefix, id)

	if view, ok := r.cache.Get(ctx, cacheKey); ok {
		return view, nil
	}

	query := r.db.Rebind(`SELECT id, name, email, created_at FROM users WHERE id = ?`)
	var view models.UserView
	err := r.db.QueryRowContext(ctx, query, id).Scan(&view.ID, &view.Name, &view.Email, &view.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: user", errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	r.CacheUserView(ctx, &view)
	return &view, nil
}

// CacheUserView stores or refreshes the Redis read model for a user.
func (r *UserReadRepository) CacheUserView(ctx context.Context, view *models.UserView) {
	r.cache.Set(ctx, sharedredis.Key(userViewKeyPrefix, view.ID), view)
}
