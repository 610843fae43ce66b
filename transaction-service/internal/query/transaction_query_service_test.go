package query

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/Jpjss/family-finance/shared/cqrs"
	"github.com/Jpjss/family-finance/shared/database"
	"github.com/Jpjss/family-finance/shared/errs"
	"github.com/Jpjss/family-finance/shared/events"
	"github.com/Jpjss/family-finance/shared/ledger"
	"github.com/Jpjss/family-finance/shared/models"
	"github.com/Jpjss/family-finance/transaction-service/internal/repository"
)

type TransactionQuerySuite struct {
	suite.Suite
	ctx       context.Context
	mr        *miniredis.Miniredis
	write     *repository.TransactionWriteRepository
	summaries *repository.SummaryRepository
	svc       *TransactionQueryService
}

func (s *TransactionQuerySuite) SetupTest() {
	s.ctx = context.Background()
	db := database.OpenTest(s.T())
	s.mr = miniredis.RunT(s.T())
	client := goredis.NewClient(&goredis.Options{Addr: s.mr.Addr()})
	s.T().Cleanup(func() { client.Close() })

	formatter, err := ledger.NewFormatter("pt-BR", "BRL")
	s.Require().NoError(err)

	s.write = repository.NewTransactionWriteRepository(db)
	s.summaries = repository.NewSummaryRepository(client, time.Minute)
	s.svc = NewTransactionQueryService(repository.NewTransactionReadRepository(db), s.summaries, formatter)
}

func (s *TransactionQuerySuite) add(id string, typ models.TransactionType, amount, category string, paid bool, at time.Time) {
	s.Require().NoError(s.write.Create(s.ctx, &models.Transaction{
		ID: id, OwnerID: "usr-1", Type: typ, Amount: decimal.RequireFromString(amount),
		Category: category, Description: id, IsPaid: paid, CreatedAt: at,
	}))
}

func (s *TransactionQuerySuite) seed() {
	march := time.Date(2024, 3, 5, 12, 0, 0, 0, time.UTC)
	april := time.Date(2024, 4, 2, 12, 0, 0, 0, time.UTC)
	s.add("txn-1", models.Income, "5000.00", "Salário", true, march)
	s.add("txn-2", models.Expense, "1500.00", "Moradia", true, march)
	s.add("txn-3", models.Expense, "500.00", "Mercado", false, march)
	s.add("txn-4", models.Income, "1000.00", "Freela", true, april)
	s.add("txn-5", models.Expense, "250.00", "Mercado", true, april)
}

func (s *TransactionQuerySuite) TestListTransactions() {
	s.seed()

	views, err := s.svc.ListTransactions(s.ctx, cqrs.ListTransactionsQuery{UserID: "usr-1"})
	s.Require().NoError(err)
	s.Len(views, 5)
	s.Equal("txn-5", views[0].ID)
}

func (s *TransactionQuerySuite) TestSummaryAllTime() {
	s.seed()

	summary, err := s.svc.Summary(s.ctx, cqrs.SummaryQuery{UserID: "usr-1"})
	s.Require().NoError(err)
	s.Nil(summary.Period)
	s.True(decimal.RequireFromString("6000").Equal(summary.Totals.Income))
	s.True(decimal.RequireFromString("2250").Equal(summary.Totals.Expense))
	s.True(decimal.RequireFromString("500").Equal(summary.Totals.PendingExpense))
	s.True(decimal.RequireFromString("4250").Equal(summary.Totals.AvailableBalance))
	s.Equal(37.5, summary.Ratios.Commitment)
	s.Equal(ledger.StatusHealthy, summary.Health.Commitment)
	s.Equal("Moradia", summary.TopExpenseCategories[0].Category)
	s.Contains(summary.Formatted["totalIncome"], "6.000,00")
}

func (s *TransactionQuerySuite) TestSummaryMonth() {
	s.seed()

	summary, err := s.svc.Summary(s.ctx, cqrs.SummaryQuery{UserID: "usr-1", Year: 2024, Month: 4, Top: 1})
	s.Require().NoError(err)
	s.Require().NotNil(summary.Period)
	s.Equal(ledger.Period{Year: 2024, Month: 4}, *summary.Period)
	s.Equal(2, summary.Totals.Count)
	s.True(decimal.RequireFromString("750").Equal(summary.Totals.NetBalance))
	s.Len(summary.TopExpenseCategories, 1)
}

func (s *TransactionQuerySuite) TestSummaryInvalid() {
	for _, q := range []cqrs.SummaryQuery{
		{UserID: "usr-1", Month: 3},
		{UserID: "usr-1", Year: 2024},
		{UserID: "usr-1", Month: 13, Year: 2024},
		{UserID: "usr-1", Top: MaxTop + 1},
		{UserID: "usr-1", Top: -1},
	} {
		_, err := s.svc.Summary(s.ctx, q)
		s.ErrorIs(err, errs.ErrValidation, "%+v", q)
	}
}

func (s *TransactionQuerySuite) TestSummaryIsCachedUntilLedgerChanges() {
	s.seed()

	first, err := s.svc.Summary(s.ctx, cqrs.SummaryQuery{UserID: "usr-1"})
	s.Require().NoError(err)
	s.True(s.mr.Exists("txn:summary:usr-1"))

	// rows written behind the service's back are not seen while the cache is current
	s.add("txn-6", models.Income, "1.00", "Outros", true, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC))
	cached, err := s.svc.Summary(s.ctx, cqrs.SummaryQuery{UserID: "usr-1"})
	s.Require().NoError(err)
	s.True(first.Totals.Income.Equal(cached.Totals.Income))

	s.summaries.Bump(s.ctx, "usr-1")
	fresh, err := s.svc.Summary(s.ctx, cqrs.SummaryQuery{UserID: "usr-1"})
	s.Require().NoError(err)
	s.True(decimal.RequireFromString("6001").Equal(fresh.Totals.Income))
}

func (s *TransactionQuerySuite) TestHandleTransactionEventRefreshesProjection() {
	s.seed()
	s.summaries.Bump(s.ctx, "usr-1")

	err := s.svc.HandleTransactionEvent(s.ctx, events.Event{
		Type: events.TransactionCreated,
		Data: map[string]any{"transactionId": "txn-5", "userId": "usr-1", "amount": 250},
	})
	s.Require().NoError(err)

	cached, ok := s.summaries.Get(s.ctx, "usr-1")
	s.Require().True(ok)
	s.Equal(5, cached.Totals.Count)
}

func (s *TransactionQuerySuite) TestHandleTransactionEventIgnoresMissingOwner() {
	err := s.svc.HandleTransactionEvent(s.ctx, events.Event{Type: events.TransactionDeleted, Data: map[string]any{}})
	s.NoError(err)
}

func (s *TransactionQuerySuite) TestHandleTransactionEventRejectsUndecodablePayload() {
	err := s.svc.HandleTransactionEvent(s.ctx, events.Event{
		Type: events.TransactionCreated,
		Data: map[string]any{"userId": []int{1}},
	})
	s.ErrorIs(err, events.ErrMalformed)
}

func TestTransactionQuerySuite(t *testing.T) {
	suite.Run(t, new(TransactionQuerySuite))
}
