package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/Jpjss/family-finance/shared/database"
	"github.com/Jpjss/family-finance/shared/errs"
	"github.com/Jpjss/family-finance/shared/models"
)

// TransactionWriteRepository handles all state-mutating operations for
// transactions. Updates and deletes are scoped by owner in the statement
// itself, so a foreign ID behaves exactly like a missing one.
type TransactionWriteRepository struct {
	db *database.DB
}

func NewTransactionWriteRepository(db *database.DB) *TransactionWriteRepository {
	return &TransactionWriteRepository{db: db}
}

func (r *TransactionWriteRepository) Create(ctx context.Context, t *models.Transaction) error {
	query := r.db.Rebind(`
		INSERT INTO transactions (id, owner_id, type, amount, category, description, is_paid, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.OwnerID, string(t.Type), t.Amount, t.Category, t.Description, t.IsPaid, t.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

// SetPaid is idempotent; repeating it only refreshes updated_at.
func (r *TransactionWriteRepository) SetPaid(ctx context.Context, id, ownerID string, isPaid bool, at time.Time) error {
	query := r.db.Rebind(`UPDATE transactions SET is_paid = ?, updated_at = ? WHERE id = ? AND owner_id = ?`)
	result, err := r.db.ExecContext(ctx, query, isPaid, at, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to update transaction: %w", err)
	}
	return requireRow(result.RowsAffected())
}

func (r *TransactionWriteRepository) Delete(ctx context.Context, id, ownerID string) error {
	query := r.db.Rebind(`DELETE FROM transactions WHERE id = ? AND owner_id = ?`)
	result, err := r.db.ExecContext(ctx, query, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}
	return requireRow(result.RowsAffected())
}

func requireRow(rows int64, err error) error {
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: transaction", errs.ErrNotFound)
	}
	return nil
}
