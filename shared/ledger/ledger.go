// Package ledger derives totals, category breakdowns and health indicators
// from a snapshot of transactions. Every function is pure: same input, same
// output, nothing persisted.
package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Jpjss/family-finance/shared/models"
)

var hundred = decimal.NewFromInt(100)

type Totals struct {
	Income         decimal.Decimal `json:"totalIncome"`
	Expense        decimal.Decimal `json:"totalExpense"`
	PaidExpense    decimal.Decimal `json:"paidExpense"`
	PendingExpense decimal.Decimal `json:"pendingExpense"`
	// AvailableBalance only subtracts expenses already paid.
	AvailableBalance decimal.Decimal `json:"availableBalance"`
	NetBalance       decimal.Decimal `json:"netBalance"`
	Count            int             `json:"count"`
}

func ComputeTotals(txs []models.Transaction) Totals {
	var t Totals
	for _, tx := range txs {
		switch tx.Type {
		case models.Income:
			t.Income = t.Income.Add(tx.Amount)
		case models.Expense:
			t.Expense = t.Expense.Add(tx.Amount)
			if tx.IsPaid {
				t.PaidExpense = t.PaidExpense.Add(tx.Amount)
			}
		default:
			continue
		}
		t.Count++
	}
	t.PendingExpense = t.Expense.Sub(t.PaidExpense)
	t.AvailableBalance = t.Income.Sub(t.PaidExpense)
	t.NetBalance = t.Income.Sub(t.Expense)
	return t
}

type CategoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
	Count    int             `json:"count"`
	// Share is the percentage of the type's total.
	Share float64 `json:"share"`
}

// CategoryBreakdown sums amounts of type typ per category, largest first.
// Equal amounts keep the order in which the category first appeared.
func CategoryBreakdown(txs []models.Transaction, typ models.TransactionType) []CategoryTotal {
	index := make(map[string]int)
	var out []CategoryTotal
	total := decimal.Zero

	for _, tx := range txs {
		if tx.Type != typ {
			continue
		}
		total = total.Add(tx.Amount)
		i, ok := index[tx.Category]
		if !ok {
			i = len(out)
			index[tx.Category] = i
			out = append(out, CategoryTotal{Category: tx.Category, Amount: decimal.Zero})
		}
		out[i].Amount = out[i].Amount.Add(tx.Amount)
		out[i].Count++
	}

	// insertion sort is stable and the category count is small
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Amount.GreaterThan(out[j-1].Amount); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}

	for i := range out {
		out[i].Share = Percent(out[i].Amount, total)
	}
	return out
}

// Top returns at most n entries. n <= 0 returns everything.
func Top(cats []CategoryTotal, n int) []CategoryTotal {
	if n <= 0 || n >= len(cats) {
		return cats
	}
	return cats[:n]
}

// Percent returns part/whole*100 rounded to two places, or 0 when whole is 0.
func Percent(part, whole decimal.Decimal) float64 {
	if whole.IsZero() {
		return 0
	}
	f, _ := part.Mul(hundred).DivRound(whole, 2).Float64()
	return f
}

// InMonth keeps the transactions created in the given calendar month (UTC).
func InMonth(txs []models.Transaction, year int, month time.Month) []models.Transaction {
	var out []models.Transaction
	for _, tx := range txs {
		c := tx.CreatedAt.UTC()
		if c.Year() == year && c.Month() == month {
			out = append(out, tx)
		}
	}
	return out
}
