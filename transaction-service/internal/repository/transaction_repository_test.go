package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"

	"github.com/Jpjss/family-finance/shared/database"
	"github.com/Jpjss/family-finance/shared/errs"
	"github.com/Jpjss/family-finance/shared/ledger"
	"github.com/Jpjss/family-finance/shared/models"
)

var base = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type TransactionRepositorySuite struct {
	suite.Suite
	db    *database.DB
	write *TransactionWriteRepository
	read  *TransactionReadRepository
	ctx   context.Context
}

func (s *TransactionRepositorySuite) SetupTest() {
	s.db = database.OpenTest(s.T())
	s.write = NewTransactionWriteRepository(s.db)
	s.read = NewTransactionReadRepository(s.db)
	s.ctx = context.Background()
}

func (s *TransactionRepositorySuite) create(id, owner string, typ models.TransactionType, amount string, at time.Time) {
	s.Require().NoError(s.write.Create(s.ctx, &models.Transaction{
		ID:          id,
		OwnerID:     owner,
		Type:        typ,
		Amount:      decimal.RequireFromString(amount),
		Category:    "Mercado",
		Description: "Compra " + id,
		IsPaid:      typ == models.Income,
		CreatedAt:   at,
	}))
}

func (s *TransactionRepositorySuite) TestListByOwnerNewestFirst() {
	s.create("txn-a", "usr-1", models.Expense, "10.10", base)
	s.create("txn-b", "usr-1", models.Income, "3500.00", base.Add(2*time.Hour))
	s.create("txn-c", "usr-1", models.Expense, "0.20", base.Add(time.Hour))
	s.create("txn-x", "usr-2", models.Expense, "99.00", base)

	views, err := s.read.ListByOwner(s.ctx, "usr-1")
	s.Require().NoError(err)
	s.Require().Len(views, 3)
	s.Equal([]string{"txn-b", "txn-c", "txn-a"}, []string{views[0].ID, views[1].ID, views[2].ID})

	s.True(decimal.RequireFromString("3500").Equal(views[0].Amount))
	s.True(views[0].IsPaid)
	s.False(views[1].IsPaid)
	s.Nil(views[0].UpdatedAt)
	s.True(views[2].CreatedAt.Equal(base))
}

func (s *TransactionRepositorySuite) TestListByOwnerEmpty() {
	views, err := s.read.ListByOwner(s.ctx, "usr-none")
	s.Require().NoError(err)
	s.NotNil(views)
	s.Empty(views)
}

func (s *TransactionRepositorySuite) TestSetPaid() {
	s.create("txn-a", "usr-1", models.Expense, "10.00", base)
	updated := base.Add(24 * time.Hour)

	s.Require().NoError(s.write.SetPaid(s.ctx, "txn-a", "usr-1", true, updated))
	// repeating is not an error
	s.Require().NoError(s.write.SetPaid(s.ctx, "txn-a", "usr-1", true, updated))

	views, err := s.read.ListByOwner(s.ctx, "usr-1")
	s.Require().NoError(err)
	s.True(views[0].IsPaid)
	s.Require().NotNil(views[0].UpdatedAt)
	s.True(views[0].UpdatedAt.Equal(updated))
}

func (s *TransactionRepositorySuite) TestSetPaidScopedByOwner() {
	s.create("txn-a", "usr-1", models.Expense, "10.00", base)

	s.ErrorIs(s.write.SetPaid(s.ctx, "txn-a", "usr-2", true, base), errs.ErrNotFound)
	s.ErrorIs(s.write.SetPaid(s.ctx, "txn-missing", "usr-1", true, base), errs.ErrNotFound)

	views, err := s.read.ListByOwner(s.ctx, "usr-1")
	s.Require().NoError(err)
	s.False(views[0].IsPaid)
}

func (s *TransactionRepositorySuite) TestDelete() {
	s.create("txn-a", "usr-1", models.Expense, "10.00", base)

	s.ErrorIs(s.write.Delete(s.ctx, "txn-a", "usr-2"), errs.ErrNotFound)
	s.Require().NoError(s.write.Delete(s.ctx, "txn-a", "usr-1"))
	s.ErrorIs(s.write.Delete(s.ctx, "txn-a", "usr-1"), errs.ErrNotFound)

	views, err := s.read.ListByOwner(s.ctx, "usr-1")
	s.Require().NoError(err)
	s.Empty(views)
}

func TestTransactionRepositorySuite(t *testing.T) {
	suite.Run(t, new(TransactionRepositorySuite))
}

func TestSummaryRepository(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	defer client.Close()
	repo := NewSummaryRepository(client, time.Minute)

	_, ok := repo.Get(ctx, "usr-1")
	if ok {
		t.Fatal("expected miss on empty cache")
	}

	summary := ledger.Summarize(nil, ledger.DefaultTop)
	repo.Put(ctx, "usr-1", repo.Version(ctx, "usr-1"), summary)
	if _, ok := repo.Get(ctx, "usr-1"); !ok {
		t.Fatal("expected hit after put")
	}

	repo.Bump(ctx, "usr-1")
	if _, ok := repo.Get(ctx, "usr-1"); ok {
		t.Fatal("expected miss after version bump")
	}
	if got := repo.Version(ctx, "usr-1"); got != 1 {
		t.Fatalf("expected version 1, got %d", got)
	}

	// a projection computed before the bump stays invisible
	repo.Put(ctx, "usr-1", 0, summary)
	if _, ok := repo.Get(ctx, "usr-1"); ok {
		t.Fatal("expected stale projection to be ignored")
	}
}

func TestSummaryRepositoryWithoutRedis(t *testing.T) {
	ctx := context.Background()
	repo := NewSummaryRepository(nil, 0)

	repo.Bump(ctx, "usr-1")
	repo.Put(ctx, "usr-1", 0, ledger.Summarize(nil, ledger.DefaultTop))
	if _, ok := repo.Get(ctx, "usr-1"); ok {
		t.Fatal("expected miss without redis")
	}
	if v := repo.Version(ctx, "usr-1"); v != 0 {
		t.Fatalf("expected version 0, got %d", v)
	}
}
