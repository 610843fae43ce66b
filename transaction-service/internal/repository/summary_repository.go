package repository

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Jpjss/family-finance/shared/ledger"
	sharedredis "github.com/Jpjss/family-finance/shared/redis"
)

const (
	summaryKeyPrefix        = "txn:summary"
	summaryVersionKeyPrefix = "txn:summary:version"
)

// SummaryRepository keeps the all-time summary projection of each user in
// Redis. Every ledger mutation bumps a per-user version; a summary computed
// before a concurrent write is never returned after it.
type SummaryRepository struct {
	cache *sharedredis.VersionedCache[ledger.Summary]
}

func NewSummaryRepository(client *goredis.Client, ttl time.Duration) *SummaryRepository {
	return &SummaryRepository{cache: sharedredis.NewVersionedCache[ledger.Summary](client, ttl)}
}

func summaryKeys(ownerID string) (versionKey, key string) {
	return sharedredis.Key(summaryVersionKeyPrefix, ownerID), sharedredis.Key(summaryKeyPrefix, ownerID)
}

// Version returns the current ledger version of ownerID, 0 if none.
func (r *SummaryRepository) Version(ctx context.Context, ownerID string) int64 {
	versionKey, _ := summaryKeys(ownerID)
	return r.cache.Version(ctx, versionKey)
}

// Bump marks the cached summary of ownerID stale.
func (r *SummaryRepository) Bump(ctx context.Context, ownerID string) {
	versionKey, key := summaryKeys(ownerID)
	r.cache.Bump(ctx, versionKey, key)
}

// Get returns the cached summary when it matches the current version.
func (r *SummaryRepository) Get(ctx context.Context, ownerID string) (*ledger.Summary, bool) {
	versionKey, key := summaryKeys(ownerID)
	return r.cache.Get(ctx, versionKey, key)
}

// Put stores summary computed from the ledger at version.
func (r *SummaryRepository) Put(ctx context.Context, ownerID string, version int64, summary ledger.Summary) {
	_, key := summaryKeys(ownerID)
	r.cache.Put(ctx, key, version, &summary)
}
