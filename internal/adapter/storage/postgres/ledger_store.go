package postgres

import (
	"bytes"
	"context"
	"fmt"
	"sort"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerStore implements ports.LedgerStore by composing the wallet and
// transaction repositories under one database transaction per atomic unit.
type LedgerStore struct {
	wallets    *WalletRepo
	txns       *TransactionRepo
	transactor ports.DBTransactor
}

// NewLedgerStore creates a LedgerStore over the given pool.
func NewLedgerStore(pool Pool) *LedgerStore {
	return &LedgerStore{
		wallets:    NewWalletRepo(pool),
		txns:       NewTransactionRepo(pool),
		transactor: NewTransactor(pool),
	}
}

// GetWallet fetches a wallet without locking. Returns nil, nil when absent.
func (s *LedgerStore) GetWallet(ctx context.Context, walletID uuid.UUID) (*domain.Wallet, error) {
	return s.wallets.GetByID(ctx, walletID)
}

// CreateWallet persists a new wallet row.
func (s *LedgerStore) CreateWallet(ctx context.Context, wallet *domain.Wallet) error {
	return s.wallets.Create(ctx, wallet)
}

// CreateTransactionAndAdjustBalances writes the ledger entry and applies all
// balance deltas as a single all-or-nothing database transaction. Deltas are
// applied in wallet-id order so two crossing transfers cannot deadlock on
// row locks.
func (s *LedgerStore) CreateTransactionAndAdjustBalances(ctx context.Context, entry *domain.Transaction, deltas map[uuid.UUID]decimal.Decimal) error {
	dbTx, err := s.transactor.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin atomic unit: %w", err)
	}
	defer dbTx.Rollback(ctx) //nolint:errcheck

	if err := s.txns.Create(ctx, dbTx, entry); err != nil {
		return err
	}

	ids := make([]uuid.UUID, 0, len(deltas))
	for id := range deltas {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		return bytes.Compare(ids[i][:], ids[j][:]) < 0
	})

	for _, id := range ids {
		if err := s.wallets.AdjustBalance(ctx, dbTx, id, deltas[id]); err != nil {
			return err
		}
	}

	if err := dbTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit atomic unit: %w", err)
	}
	return nil
}

// SumTransactionsForWallet computes the ledger-derived balance.
func (s *LedgerStore) SumTransactionsForWallet(ctx context.Context, walletID uuid.UUID) (decimal.Decimal, error) {
	return s.txns.SumForWallet(ctx, walletID)
}

// SetWalletBalance overwrites the cached balance (reconciliation only).
func (s *LedgerStore) SetWalletBalance(ctx context.Context, walletID uuid.UUID, balance decimal.Decimal) error {
	return s.wallets.SetBalance(ctx, walletID, balance)
}

// ListTransactions returns the wallet's ledger history, newest first.
func (s *LedgerStore) ListTransactions(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]domain.Transaction, error) {
	return s.txns.ListByWallet(ctx, walletID, limit, offset)
}
