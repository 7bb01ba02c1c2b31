package integration

import (
	"context"
	"fmt"
	"sync"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// inMemoryLedgerStore implements ports.LedgerStore on maps guarded by one
// mutex. The mutex plays the role the database's row-level atomicity plays
// in production: every atomic unit either fully applies or fully fails.
type inMemoryLedgerStore struct {
	mu           sync.Mutex
	wallets      map[uuid.UUID]*domain.Wallet
	transactions []domain.Transaction
}

func newInMemoryLedgerStore() *inMemoryLedgerStore {
	return &inMemoryLedgerStore{wallets: make(map[uuid.UUID]*domain.Wallet)}
}

func (s *inMemoryLedgerStore) GetWallet(ctx context.Context, walletID uuid.UUID) (*domain.Wallet, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[walletID]
	if !ok {
		return nil, nil
	}
	copied := *w
	return &copied, nil
}

func (s *inMemoryLedgerStore) CreateWallet(ctx context.Context, wallet *domain.Wallet) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.wallets[wallet.ID]; exists {
		return fmt.Errorf("wallet already exists: %s", wallet.ID)
	}
	copied := *wallet
	s.wallets[wallet.ID] = &copied
	return nil
}

func (s *inMemoryLedgerStore) CreateTransactionAndAdjustBalances(ctx context.Context, entry *domain.Transaction, deltas map[uuid.UUID]decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	// All-or-nothing: verify every wallet before touching any balance.
	for id := range deltas {
		if _, ok := s.wallets[id]; !ok {
			return fmt.Errorf("wallet not found: %s", id)
		}
	}

	s.transactions = append(s.transactions, *entry)
	for id, delta := range deltas {
		s.wallets[id].Balance = s.wallets[id].Balance.Add(delta)
		s.wallets[id].UpdatedAt = entry.UpdatedAt
	}
	return nil
}

func (s *inMemoryLedgerStore) SumTransactionsForWallet(ctx context.Context, walletID uuid.UUID) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := decimal.Zero
	for i := range s.transactions {
		t := &s.transactions[i]
		if t.Payee == walletID {
			sum = sum.Add(t.Amount)
		}
		if t.Sender != nil && *t.Sender == walletID {
			sum = sum.Sub(t.Amount)
		}
	}
	return sum, nil
}

func (s *inMemoryLedgerStore) SetWalletBalance(ctx context.Context, walletID uuid.UUID, balance decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	w, ok := s.wallets[walletID]
	if !ok {
		return fmt.Errorf("wallet not found: %s", walletID)
	}
	w.Balance = balance
	return nil
}

func (s *inMemoryLedgerStore) ListTransactions(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]domain.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Insertion order is creation order; walk backwards for newest-first.
	var result []domain.Transaction
	skipped := 0
	for i := len(s.transactions) - 1; i >= 0 && len(result) < limit; i-- {
		t := s.transactions[i]
		if t.Payee != walletID && (t.Sender == nil || *t.Sender != walletID) {
			continue
		}
		if skipped < offset {
			skipped++
			continue
		}
		result = append(result, t)
	}
	return result, nil
}

// transactionCount reports the total number of ledger rows, for asserting
// that failed requests write nothing.
func (s *inMemoryLedgerStore) transactionCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.transactions)
}
