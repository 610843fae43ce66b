package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// amounts travel as JSON numbers, matching the original clients
	decimal.MarshalJSONWithoutQuotes = true
}

type TransactionType string

const (
	Income  TransactionType = "income"
	Expense TransactionType = "expense"
)

// ParseTransactionType normalises t, also accepting the Portuguese names
// stored by earlier clients.
func ParseTransactionType(t string) (TransactionType, bool) {
	switch strings.ToLower(strings.TrimSpace(t)) {
	case "income", "receita":
		return Income, true
	case "expense", "despesa":
		return Expense, true
	default:
		return "", false
	}
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}

type Transaction struct {
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

type MonthlyNote struct {
	ID           string    `json:"id"`
	OwnerID      string    `json:"userId"`
	Month        int       `json:"month"`
	Year         int       `json:"year"`
	ExpenseNotes string    `json:"expenseNotes"`
	IncomeNotes  string    `json:"incomeNotes"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
