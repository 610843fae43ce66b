package ledger

import "github.com/Jpjss/family-finance/shared/models"

type Ratios struct {
	// Efficiency is the share of income left after all expenses.
	Efficiency float64 `json:"efficiency"`
	// Commitment is the share of income consumed by expenses.
	Commitment        float64 `json:"commitment"`
	PaymentCompletion float64 `json:"paymentCompletion"`
	IncomeShare       float64 `json:"incomeShare"`
	ExpenseShare      float64 `json:"expenseShare"`
}

func ComputeRatios(t Totals) Ratios {
	volume := t.Income.Add(t.Expense)
	return Ratios{
		Efficiency:        Percent(t.NetBalance, t.Income),
		Commitment:        Percent(t.Expense, t.Income),
		PaymentCompletion: Percent(t.PaidExpense, t.Expense),
		IncomeShare:       Percent(t.Income, volume),
		ExpenseShare:      Percent(t.Expense, volume),
	}
}

type Status string

const (
	StatusHealthy  Status = "healthy"
	StatusWarning  Status = "warning"
	StatusCritical Status = "critical"

	StatusGood     Status = "good"
	StatusFair     Status = "fair"
	StatusNegative Status = "negative"
)

type Health struct {
	Commitment Status `json:"commitment"`
	Efficiency Status `json:"efficiency"`
}

func CommitmentStatus(commitment float64) Status {
	switch {
	case commitment >= 80:
		return StatusCritical
	case commitment >= 60:
		return StatusWarning
	default:
		return StatusHealthy
	}
}

func EfficiencyStatus(efficiency float64) Status {
	switch {
	case efficiency >= 20:
		return StatusGood
	case efficiency >= 0:
		return StatusFair
	default:
		return StatusNegative
	}
}

// DefaultTop is the number of categories reported per type.
const DefaultTop = 5

type Period struct {
	Year  int `json:"year"`
	Month int `json:"month"`
}

type Summary struct {
	Period               *Period           `json:"period,omitempty"`
	Totals               Totals            `json:"totals"`
	Ratios               Ratios            `json:"ratios"`
	Health               Health            `json:"health"`
	TopExpenseCategories []CategoryTotal   `json:"topExpenseCategories"`
	TopIncomeCategories  []CategoryTotal   `json:"topIncomeCategories"`
	Formatted            map[string]string `json:"formatted,omitempty"`
}

// Summarize builds the full report for txs keeping top categories per type.
func Summarize(txs []models.Transaction, top int) Summary {
	totals := ComputeTotals(txs)
	ratios := ComputeRatios(totals)

	expense := Top(CategoryBreakdown(txs, models.Expense), top)
	income := Top(CategoryBreakdown(txs, models.Income), top)
	if expense == nil {
		expense = []CategoryTotal{}
	}
	if income == nil {
		income = []CategoryTotal{}
	}

	return Summary{
		Totals: totals,
		Ratios: ratios,
		Health: Health{
			Commitment: CommitmentStatus(ratios.Commitment),
			Efficiency: EfficiencyStatus(ratios.Efficiency),
		},
		TopExpenseCategories: expense,
		TopIncomeCategories:  income,
	}
}

// WithFormatting fills Formatted with display strings for the money totals.
func (s Summary) WithFormatting(f *Formatter) Summary {
	s.Formatted = map[string]string{
		"totalIncome":      f.Format(s.Totals.Income),
		"totalExpense":     f.Format(s.Totals.Expense),
		"paidExpense":      f.Format(s.Totals.PaidExpense),
		"pendingExpense":   f.Format(s.Totals.PendingExpense),
		"availableBalance": f.Format(s.Totals.AvailableBalance),
		"netBalance":       f.Format(s.Totals.NetBalance),
	}
	return s
}
