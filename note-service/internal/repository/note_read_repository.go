package repository

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Jpjss/family-finance/shared/database"
	"github.com/Jpjss/family-finance/shared/models"
	sharedredis "github.com/Jpjss/family-finance/shared/redis"
)

const (
	noteViewKeyPrefix    = "note:view"
	noteVersionKeyPrefix = "note:version"
)

// NoteReadRepository serves note views from Redis, falling back to SQL.
// Views are cached by readers only, tagged with the note's version as seen
// before the SQL read; writers bump the version after committing, so a view
// read before a write is never served after it. Absent months are not cached.
type NoteReadRepository struct {
	db    *database.DB
	cache *sharedredis.VersionedCache[models.NoteView]
}

func NewNoteReadRepository(db *database.DB, redisClient *goredis.Client, ttl time.Duration) *NoteReadRepository {
	return &NoteReadRepository{
		db:    db,
		cache: sharedredis.NewVersionedCache[models.NoteView](redisClient, ttl),
	}
}

func noteKeys(ownerID string, month, year int) (versionKey, key string) {
	y, m := strconv.Itoa(year), strconv.Itoa(month)
	return sharedredis.Key(noteVersionKeyPrefix, ownerID, y, m), sharedredis.Key(noteViewKeyPrefix, ownerID, y, m)
}

// Find returns ErrNotFound when the month has no note.
func (r *NoteReadRepository) Find(ctx context.Context, ownerID string, month, year int) (*models.NoteView, error) {
	versionKey, key := noteKeys(ownerID, month, year)
	if view, ok := r.cache.Get(ctx, versionKey, key); ok {
		return view, nil
	}

	version := r.cache.Version(ctx, versionKey)
	note, err := findNote(ctx, r.db, ownerID, month, year)
	if err != nil {
		return nil, err
	}

	view := models.NewNoteView(note)
	r.cache.Put(ctx, key, version, view)
	return view, nil
}

// ListMonths returns the months that have a note, newest first.
func (r *NoteReadRepository) ListMonths(ctx context.Context, ownerID string) ([]models.NoteMonth, error) {
	query := r.db.Rebind(`
		SELECT year, month FROM monthly_notes
		WHERE owner_id = ?
		ORDER BY year DESC, month DESC
	`)
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list note months: %w", err)
	}
	defer rows.Close()

	months := []models.NoteMonth{}
	for rows.Next() {
		var m models.NoteMonth
		if err := rows.Scan(&m.Year, &m.Month); err != nil {
			return nil, fmt.Errorf("failed to scan note month: %w", err)
		}
		months = append(months, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list note months: %w", err)
	}
	return months, nil
}

// InvalidateNoteView must be called after every committed write to a note.
func (r *NoteReadRepository) InvalidateNoteView(ctx context.Context, ownerID string, month, year int) {
	versionKey, key := noteKeys(ownerID, month, year)
	r.cache.Bump(ctx, versionKey, key)
}
