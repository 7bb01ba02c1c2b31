package ports

import (
	"context"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// WalletRepository defines persistence operations for wallets.
// Methods accepting pgx.Tx run inside the ledger store's atomic unit.
type WalletRepository interface {
	Create(ctx context.Context, wallet *domain.Wallet) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Wallet, error)
	// AdjustBalance applies an additive delta to the cached balance.
	// The delta may be negative; non-negativity is the engine's invariant,
	// never enforced here.
	AdjustBalance(ctx context.Context, tx pgx.Tx, walletID uuid.UUID, delta decimal.Decimal) error
	// SetBalance overwrites the cached balance. Used by reconciliation only.
	SetBalance(ctx context.Context, walletID uuid.UUID, balance decimal.Decimal) error
}

// TransactionRepository defines persistence operations for ledger entries.
// Entries are append-only: there is no update or delete.
type TransactionRepository interface {
	Create(ctx context.Context, tx pgx.Tx, transaction *domain.Transaction) error
	// SumForWallet computes Σ(amount where payee) − Σ(amount where sender)
	// over committed rows, ignoring the cached balance column.
	SumForWallet(ctx context.Context, walletID uuid.UUID) (decimal.Decimal, error)
	ListByWallet(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]domain.Transaction, error)
}

// LedgerStore is the durable, atomic persistence boundary the engine and the
// reconciler talk to. CreateTransactionAndAdjustBalances is all-or-nothing:
// either the ledger row and every balance delta commit together, or nothing
// does. Concurrent units against the same wallet are serialized by the wallet
// lock, not by this component; the additive delta update keeps concurrent
// units against distinct wallets (and pure payee-side credits) safe.
type LedgerStore interface {
	GetWallet(ctx context.Context, walletID uuid.UUID) (*domain.Wallet, error)
	CreateWallet(ctx context.Context, wallet *domain.Wallet) error
	CreateTransactionAndAdjustBalances(ctx context.Context, entry *domain.Transaction, deltas map[uuid.UUID]decimal.Decimal) error
	SumTransactionsForWallet(ctx context.Context, walletID uuid.UUID) (decimal.Decimal, error)
	SetWalletBalance(ctx context.Context, walletID uuid.UUID, balance decimal.Decimal) error
	ListTransactions(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]domain.Transaction, error)
}

// DBTransactor provides database transaction management.
type DBTransactor interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}
