package cqrs

import "github.com/shopspring/decimal"

type RegisterUserCommand struct {
	Name     string
	Email    string
	Password string
}

type LoginCommand struct {
	Email    string
	Password string
}

type RefreshTokenCommand struct {
	Token string
}

type CreateTransactionCommand struct {
	UserID      string
	Description string
	Amount      decimal.Decimal
	Category    string
	Type        string
}

type SetPaymentStatusCommand struct {
	TransactionID string
	UserID        string
	IsPaid        bool
}

type DeleteTransactionCommand struct {
	TransactionID string
	UserID        string
}

// UpsertNoteCommand changes only the note fields that are non-nil.
type UpsertNoteCommand struct {
	UserID       string
	Month        int
	Year         int
	ExpenseNotes *string
	IncomeNotes  *string
}

type ClearNoteCommand struct {
	UserID string
	Month  int
	Year   int
}
