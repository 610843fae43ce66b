package query

import (
	"context"
	"fmt"
	"time"

	"github.com/Jpjss/family-finance/shared/cqrs"
	"github.com/Jpjss/family-finance/shared/errs"
	"github.com/Jpjss/family-finance/shared/events"
	"github.com/Jpjss/family-finance/shared/ledger"
	"github.com/Jpjss/family-finance/shared/models"
	"github.com/Jpjss/family-finance/transaction-service/internal/repository"
)

// MaxTop bounds the number of categories a summary may report per type.
const MaxTop = 50

// TransactionQueryService serves ledger reads. The all-time summary with the
// default category count is served from the Redis projection when current.
type TransactionQueryService struct {
	readRepo  *repository.TransactionReadRepository
	summaries *repository.SummaryRepository
	formatter *ledger.Formatter
}

func NewTransactionQueryService(
	readRepo *repository.TransactionReadRepository,
	summaries *repository.SummaryRepository,
	formatter *ledger.Formatter,
) *TransactionQueryService {
	return &TransactionQueryService{readRepo: readRepo, summaries: summaries, formatter: formatter}
}

func (s *TransactionQueryService) ListTransactions(ctx context.Context, q cqrs.ListTransactionsQuery) ([]models.TransactionView, error) {
	return s.readRepo.ListByOwner(ctx, q.UserID)
}

// Summary aggregates the caller's ledger. Year and Month must be given
// together; both zero means the whole history.
func (s *TransactionQueryService) Summary(ctx context.Context, q cqrs.SummaryQuery) (*ledger.Summary, error) {
	if err := validateSummaryQuery(&q); err != nil {
		return nil, err
	}
	cacheable := q.Month == 0 && q.Top == ledger.DefaultTop
	if cacheable {
		if summary, ok := s.summaries.Get(ctx, q.UserID); ok {
			return summary, nil
		}
	}

	version := s.summaries.Version(ctx, q.UserID)
	summary, err := s.compute(ctx, q)
	if err != nil {
		return nil, err
	}
	if cacheable {
		s.summaries.Put(ctx, q.UserID, version, summary)
	}
	return &summary, nil
}

// HandleTransactionEvent refreshes the summary projection of the event's
// owner. It is registered as a transaction stream subscriber.
func (s *TransactionQueryService) HandleTransactionEvent(ctx context.Context, event events.Event) error {
	var payload events.TransactionEvent
	if err := event.Decode(&payload); err != nil {
		return err
	}
	if payload.UserID == "" {
		return nil
	}

	version := s.summaries.Version(ctx, payload.UserID)
	summary, err := s.compute(ctx, cqrs.SummaryQuery{UserID: payload.UserID, Top: ledger.DefaultTop})
	if err != nil {
		return err
	}
	s.summaries.Put(ctx, payload.UserID, version, summary)
	return nil
}

func (s *TransactionQueryService) compute(ctx context.Context, q cqrs.SummaryQuery) (ledger.Summary, error) {
	views, err := s.readRepo.ListByOwner(ctx, q.UserID)
	if err != nil {
		return ledger.Summary{}, err
	}
	txs := make([]models.Transaction, len(views))
	for i, v := range views {
		txs[i] = v.Transaction()
	}

	var period *ledger.Period
	if q.Month != 0 {
		txs = ledger.InMonth(txs, q.Year, time.Month(q.Month))
		period = &ledger.Period{Year: q.Year, Month: q.Month}
	}

	summary := ledger.Summarize(txs, q.Top)
	summary.Period = period
	if s.formatter != nil {
		summary = summary.WithFormatting(s.formatter)
	}
	return summary, nil
}

func validateSummaryQuery(q *cqrs.SummaryQuery) error {
	if (q.Month == 0) != (q.Year == 0) {
		return fmt.Errorf("%w: month and year must be given together", errs.ErrValidation)
	}
	if q.Month != 0 {
		if err := cqrs.ValidatePeriod(q.Month, q.Year); err != nil {
			return err
		}
	}
	if q.Top == 0 {
		q.Top = ledger.DefaultTop
	}
	if q.Top < 0 || q.Top > MaxTop {
		return fmt.Errorf("%w: top must be between 1 and %d", errs.ErrValidation, MaxTop)
	}
	return nil
}
