package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Jpjss/family-finance/shared/database"
	"github.com/Jpjss/family-finance/shared/models"
)

// TransactionReadRepository lists a user's ledger straight from the SQL
// store so every read is a fresh snapshot.
type TransactionReadRepository struct {
	db *database.DB
}

func NewTransactionReadRepository(db *database.DB) *TransactionReadRepository {
	return &TransactionReadRepository{db: db}
}

// ListByOwner returns the newest transactions first.
func (r *TransactionReadRepository) ListByOwner(ctx context.Context, ownerID string) ([]models.TransactionView, error) {
	query := r.db.Rebind(`
		SELECT id, owner_id, type, amount, category, description, is_paid, created_at, updated_at
		FROM transactions
		WHERE owner_id = ?
		ORDER BY created_at DESC, id DESC
	`)
	rows, err := r.db.QueryContext(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	views := []models.TransactionView{}
	for rows.Next() {
		var view models.TransactionView
		var updatedAt sql.NullTime

		if err := rows.Scan(
			&view.ID, &view.OwnerID, &view.Type, &view.Amount,
			&view.Category, &view.Description, &view.IsPaid,
			&view.CreatedAt, &updatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		if updatedAt.Valid {
			t := updatedAt.Time
			view.UpdatedAt = &t
		}
		views = append(views, view)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	return views, nil
}
