package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	UserRegistered = "user.registered"

	TransactionCreated        = "transaction.created"
	TransactionPaymentChanged = "transaction.payment_changed"
	TransactionDeleted        = "transaction.deleted"

	NoteSaved   = "note.saved"
	NoteCleared = "note.cleared"
)

// Stream names
const (
	UserEventsStream        = "user.events"
	TransactionEventsStream = "transaction.events"
	NoteEventsStream        = "note.events"
)

type Event struct {
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Decode unmarshals the event payload into v. Events read back from a stream
// carry their payload as generic JSON values. Failures wrap ErrMalformed.
func (e Event) Decode(v any) error {
	raw, err := json.Marshal(e.Data)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%w: %s payload: %v", ErrMalformed, e.Type, err)
	}
	return nil
}

type UserRegisteredEvent struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Name   string `json:"name"`
}

// TransactionEvent is published for every ledger mutation.
type TransactionEvent struct {
	TransactionID string          `json:"transactionId"`
	UserID        string          `json:"userId"`
	Type          string          `json:"type,omitempty"`
	Amount        decimal.Decimal `json:"amount"`
	IsPaid        bool            `json:"isPaid"`
}

type NoteEvent struct {
	UserID string `json:"userId"`
	Month  int    `json:"month"`
	Year   int    `json:"year"`
}
