package ports

import (
	"context"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletLocker grants a time-bounded, uniquely-owned mutual-exclusion lock
// keyed by wallet identity, shared by every engine instance.
type WalletLocker interface {
	// Acquire attempts to take the wallet's lock with a single conditional
	// set-if-absent. It returns false immediately when the lock is held by
	// anyone; retry policy belongs to the caller.
	Acquire(ctx context.Context, walletID uuid.UUID, ownerToken string, ttl time.Duration) (bool, error)
	// Release clears the lock only while ownerToken still owns it. Releasing
	// a lock owned by someone else (e.g. after the caller's TTL expired) is
	// a silent no-op.
	Release(ctx context.Context, walletID uuid.UUID, ownerToken string) error
}

// TokenService handles JWT token operations at the identity boundary.
// Token issuance lives with the external identity collaborator; Validate is
// what the engine's HTTP layer trusts for the owner identifier.
type TokenService interface {
	Generate(ownerID uuid.UUID) (string, time.Time, error)
	Validate(tokenString string) (*TokenClaims, error)
}

// TokenClaims holds the parsed JWT claims.
type TokenClaims struct {
	OwnerID uuid.UUID
}

// --- Service Ports (Business Logic) ---

// TransferService is the deposit/transfer engine.
type TransferService interface {
	Deposit(ctx context.Context, req DepositRequest) (*domain.Transaction, error)
	Transfer(ctx context.Context, req TransferRequest) (*domain.Transaction, error)
}

// DepositRequest holds validated input for crediting external funds.
type DepositRequest struct {
	Payee       uuid.UUID
	Amount      decimal.Decimal
	IsAnonymous bool
	Comment     string
}

// TransferRequest holds validated input for a wallet-to-wallet transfer.
// OwnerID is the authenticated requester; the engine re-verifies that the
// sender wallet belongs to it after taking the lock.
type TransferRequest struct {
	OwnerID     uuid.UUID
	Sender      uuid.UUID
	Payee       uuid.UUID
	Amount      decimal.Decimal
	IsAnonymous bool
	Comment     string
}

// ReconcileService detects drift between cached balances and the ledger.
type ReconcileService interface {
	// CheckBalance returns cached_balance − ledger_sum for the wallet.
	// Zero means consistent. With correct=true a non-zero difference is
	// repaired by overwriting the cached balance with the ledger sum.
	CheckBalance(ctx context.Context, walletID uuid.UUID, correct bool) (decimal.Decimal, error)
}

// WalletService covers wallet lifecycle and read paths outside the engine.
type WalletService interface {
	CreateWallet(ctx context.Context, ownerID uuid.UUID) (*domain.Wallet, error)
	GetBalance(ctx context.Context, ownerID, walletID uuid.UUID) (decimal.Decimal, error)
	ListTransactions(ctx context.Context, ownerID, walletID uuid.UUID, limit, offset int) ([]domain.Transaction, error)
}
