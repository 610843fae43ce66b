package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// UserView is the read-optimised projection of a user. It never carries the
// password hash.
type UserView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"createdAt"`
}

func NewUserView(u *User) *UserView {
	return &UserView{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
}

// TransactionView is the API and cache shape of a transaction.
type TransactionView struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"userId"`
	Type        TransactionType `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Category    string          `json:"category"`
	Description string          `json:"description"`
	IsPaid      bool            `json:"isPaid"`
	CreatedAt   time.Time       `json:"createdAt"`
	UpdatedAt   *time.Time      `json:"updatedAt,omitempty"`
}

func NewTransactionView(t *Transaction) TransactionView {
	return TransactionView{
		ID:          t.ID,
		OwnerID:     t.OwnerID,
		Type:        t.Type,
		Amount:      t.Amount,
		Category:    t.Category,
		Description: t.Description,
		IsPaid:      t.IsPaid,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
}

// Transaction converts the view back for aggregation.
func (v TransactionView) Transaction() Transaction {
	return Transaction(v)
}

// NoteView is what GET /monthly-notes returns. Months without a stored note
// come back with empty strings.
type NoteView struct {
	Month        int        `json:"month"`
	Year         int        `json:"year"`
	ExpenseNotes string     `json:"expenseNotes"`
	IncomeNotes  string     `json:"incomeNotes"`
	CreatedAt    *time.Time `json:"createdAt,omitempty"`
	UpdatedAt    *time.Time `json:"updatedAt,omitempty"`
}

func NewNoteView(n *MonthlyNote) *NoteView {
	created, updated := n.CreatedAt, n.UpdatedAt
	return &NoteView{
		Month:        n.Month,
		Year:         n.Year,
		ExpenseNotes: n.ExpenseNotes,
		IncomeNotes:  n.IncomeNotes,
		CreatedAt:    &created,
		UpdatedAt:    &updated,
	}
}

func EmptyNoteView(month, year int) *NoteView {
	return &NoteView{Month: month, Year: year}
}

// NoteMonth identifies a month that has a note.
type NoteMonth struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}
