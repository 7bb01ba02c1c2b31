package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Wallet holds a single owner's monetary balance, fixed-point with scale 2.
//
// The Balance column is a cache over the transaction ledger: at any moment
// with no in-flight write it equals the sum of incoming minus outgoing
// transaction amounts. Only the transfer engine mutates it, and only inside
// a wallet lock plus a single database transaction.
type Wallet struct {
	ID        uuid.UUID       `json:"id"`
	OwnerID   uuid.UUID       `json:"owner_id"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// OwnedBy reports whether the wallet belongs to the given owner.
func (w *Wallet) OwnedBy(ownerID uuid.UUID) bool {
	return w.OwnerID == ownerID
}

// CanDebit reports whether the cached balance covers the given amount.
func (w *Wallet) CanDebit(amount decimal.Decimal) bool {
	return w.Balance.GreaterThanOrEqual(amount)
}
