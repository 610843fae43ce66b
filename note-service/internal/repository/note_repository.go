package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Jpjss/family-finance/shared/database"
	"github.com/Jpjss/family-finance/shared/errs"
	"github.com/Jpjss/family-finance/shared/models"
)

// NoteWriteRepository handles all state-mutating operations for monthly
// notes. A note is identified by (owner, month, year).
type NoteWriteRepository struct {
	db *database.DB
}

func NewNoteWriteRepository(db *database.DB) *NoteWriteRepository {
	return &NoteWriteRepository{db: db}
}

// NoteChange carries the fields of an upsert. Nil notes keep the stored value
// and default to "" on insert.
type NoteChange struct {
	ID           string
	OwnerID      string
	Month        int
	Year         int
	ExpenseNotes *string
	IncomeNotes  *string
	At           time.Time
}

// Upsert creates or merges a note and returns the stored row.
func (r *NoteWriteRepository) Upsert(ctx context.Context, change NoteChange) (*models.MonthlyNote, error) {
	set := []string{"updated_at = excluded.updated_at"}
	if change.ExpenseNotes != nil {
		set = append(set, "expense_notes = excluded.expense_notes")
	}
	if change.IncomeNotes != nil {
		set = append(set, "income_notes = excluded.income_notes")
	}

	query := r.db.Rebind(`
		INSERT INTO monthly_notes (id, owner_id, month, year, expense_notes, income_notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner_id, month, year) DO UPDATE SET ` + strings.Join(set, ", "))

	_, err := r.db.ExecContext(ctx, query,
		change.ID, change.OwnerID, change.Month, change.Year,
		valueOrEmpty(change.ExpenseNotes), valueOrEmpty(change.IncomeNotes),
		change.At, change.At,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to save note: %w", err)
	}
	return findNote(ctx, r.db, change.OwnerID, change.Month, change.Year)
}

func findNote(ctx context.Context, db *database.DB, ownerID string, month, year int) (*models.MonthlyNote, error) {
	query := db.Rebind(`
		SELECT id, owner_id, month, year, expense_notes, income_notes, created_at, updated_at
		FROM monthly_notes
		WHERE owner_id = ? AND month = ? AND year = ?
	`)
	var note models.MonthlyNote
	err := db.QueryRowContext(ctx, query, ownerID, month, year).Scan(
		&note.ID, &note.OwnerID, &note.Month, &note.Year,
		&note.ExpenseNotes, &note.IncomeNotes, &note.CreatedAt, &note.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: note", errs.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note: %w", err)
	}
	return &note, nil
}

func (r *NoteWriteRepository) Delete(ctx context.Context, ownerID string, month, year int) error {
	query := r.db.Rebind(`DELETE FROM monthly_notes WHERE owner_id = ? AND month = ? AND year = ?`)
	result, err := r.db.ExecContext(ctx, query, ownerID, month, year)
	if err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: note", errs.ErrNotFound)
	}
	return nil
}

func valueOrEmpty(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
