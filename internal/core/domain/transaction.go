package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxCommentLength bounds the free-text comment attached to a transaction.
const MaxCommentLength = 100

// Transaction is an immutable ledger entry recording one movement of funds.
// Sender is nil for deposits from an external source; Payee is always set.
// Rows are append-only: the engine never updates or deletes them.
type Transaction struct {
	ID          uuid.UUID       `json:"id"`
	Sender      *uuid.UUID      `json:"sender,omitempty"`
	Payee       uuid.UUID       `json:"payee"`
	Amount      decimal.Decimal `json:"amount"`
	IsAnonymous bool            `json:"is_anonymous"`
	Comment     string          `json:"comment,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// IsDeposit reports whether the entry credits funds from an external source.
func (t *Transaction) IsDeposit() bool {
	return t.Sender == nil
}
