package command

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Jpjss/family-finance/shared/cqrs"
	"github.com/Jpjss/family-finance/shared/errs"
	"github.com/Jpjss/family-finance/shared/events"
	"github.com/Jpjss/family-finance/shared/models"
	"github.com/Jpjss/family-finance/shared/utils"
	"github.com/Jpjss/family-finance/transaction-service/internal/repository"
)

// Amounts are stored as NUMERIC(15, 2) on Postgres.
const amountPlaces = 2

var maxAmount = decimal.New(1, 13)

// TransactionCommandService mutates a user's ledger. Every successful write
// marks the cached summary stale and publishes a transaction event.
type TransactionCommandService struct {
	writeRepo *repository.TransactionWriteRepository
	summaries *repository.SummaryRepository
	publisher *events.Publisher
	now       func() time.Time
}

func NewTransactionCommandService(
	writeRepo *repository.TransactionWriteRepository,
	summaries *repository.SummaryRepository,
	publisher *events.Publisher,
) *TransactionCommandService {
	return &TransactionCommandService{
		writeRepo: writeRepo,
		summaries: summaries,
		publisher: publisher,
		now:       time.Now,
	}
}

// CreateTransaction records a new entry. Income is paid on creation, expenses
// start pending.
func (s *TransactionCommandService) CreateTransaction(ctx context.Context, cmd cqrs.CreateTransactionCommand) (*models.TransactionView, error) {
	typ, ok := models.ParseTransactionType(cmd.Type)
	if !ok {
		return nil, fmt.Errorf("%w: type must be income or expense", errs.ErrValidation)
	}
	if cmd.Amount.IsNegative() {
		return nil, fmt.Errorf("%w: amount must not be negative", errs.ErrValidation)
	}
	if !cmd.Amount.Equal(cmd.Amount.Round(amountPlaces)) {
		return nil, fmt.Errorf("%w: amount must have at most %d decimal places", errs.ErrValidation, amountPlaces)
	}
	if !cmd.Amount.LessThan(maxAmount) {
		return nil, fmt.Errorf("%w: amount must be less than %s", errs.ErrValidation, maxAmount)
	}
	description := strings.TrimSpace(cmd.Description)
	category := strings.TrimSpace(cmd.Category)
	if description == "" || category == "" {
		return nil, fmt.Errorf("%w: description and category are required", errs.ErrValidation)
	}

	transaction := &models.Transaction{
		ID:          utils.GenerateID(utils.TransactionPrefix),
		OwnerID:     cmd.UserID,
		Type:        typ,
		Amount:      cmd.Amount,
		Category:    category,
		Description: description,
		IsPaid:      typ == models.Income,
		CreatedAt:   s.timestamp(),
	}
	if err := s.writeRepo.Create(ctx, transaction); err != nil {
		return nil, err
	}

	s.changed(ctx, events.TransactionCreated, transaction.ID, cmd.UserID, events.TransactionEvent{
		Type:   string(transaction.Type),
		Amount: transaction.Amount,
		IsPaid: transaction.IsPaid,
	})
	view := models.NewTransactionView(transaction)
	return &view, nil
}

// SetPaymentStatus sets the paid flag of one of the caller's transactions.
func (s *TransactionCommandService) SetPaymentStatus(ctx context.Context, cmd cqrs.SetPaymentStatusCommand) error {
	if !utils.ValidateTransactionID(cmd.TransactionID) {
		return fmt.Errorf("%w: transaction", errs.ErrNotFound)
	}
	if err := s.writeRepo.SetPaid(ctx, cmd.TransactionID, cmd.UserID, cmd.IsPaid, s.timestamp()); err != nil {
		return err
	}
	s.changed(ctx, events.TransactionPaymentChanged, cmd.TransactionID, cmd.UserID, events.TransactionEvent{IsPaid: cmd.IsPaid})
	return nil
}

func (s *TransactionCommandService) DeleteTransaction(ctx context.Context, cmd cqrs.DeleteTransactionCommand) error {
	if !utils.ValidateTransactionID(cmd.TransactionID) {
		return fmt.Errorf("%w: transaction", errs.ErrNotFound)
	}
	if err := s.writeRepo.Delete(ctx, cmd.TransactionID, cmd.UserID); err != nil {
		return err
	}
	s.changed(ctx, events.TransactionDeleted, cmd.TransactionID, cmd.UserID, events.TransactionEvent{})
	return nil
}

func (s *TransactionCommandService) changed(ctx context.Context, eventType, id, ownerID string, event events.TransactionEvent) {
	s.summaries.Bump(ctx, ownerID)
	event.TransactionID = id
	event.UserID = ownerID
	s.publisher.PublishAsync(ctx, events.TransactionEventsStream, eventType, event)
}

// timestamp is truncated to the precision every supported store keeps.
func (s *TransactionCommandService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}
