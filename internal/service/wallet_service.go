package service

import (
	"context"
	"fmt"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// WalletServiceImpl implements ports.WalletService.
type WalletServiceImpl struct {
	ledger ports.LedgerStore
	log    zerolog.Logger
}

// NewWalletService creates a new WalletServiceImpl.
func NewWalletService(ledger ports.LedgerStore, log zerolog.Logger) *WalletServiceImpl {
	return &WalletServiceImpl{ledger: ledger, log: log}
}

// CreateWallet provisions an empty wallet for the owner.
func (s *WalletServiceImpl) CreateWallet(ctx context.Context, ownerID uuid.UUID) (*domain.Wallet, error) {
	now := time.Now().UTC()
	wallet := &domain.Wallet{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.ledger.CreateWallet(ctx, wallet); err != nil {
		return nil, apperror.ErrStorageUnavailable(fmt.Errorf("create wallet: %w", err))
	}

	s.log.Info().
		Str("wallet", wallet.ID.String()).
		Str("owner", ownerID.String()).
		Msg("wallet created")

	return wallet, nil
}

// GetBalance returns the cached balance of a wallet the caller owns.
// A wallet owned by someone else is reported as not found, never as
// forbidden, so the response does not leak wallet existence.
func (s *WalletServiceImpl) GetBalance(ctx context.Context, ownerID, walletID uuid.UUID) (decimal.Decimal, error) {
	wallet, err := s.ledger.GetWallet(ctx, walletID)
	if err != nil {
		return decimal.Zero, apperror.ErrStorageUnavailable(fmt.Errorf("read wallet: %w", err))
	}
	if wallet == nil || !wallet.OwnedBy(ownerID) {
		return decimal.Zero, apperror.ErrWalletNotFound()
	}
	return wallet.Balance, nil
}

// ListTransactions returns the wallet's ledger entries, newest first.
func (s *WalletServiceImpl) ListTransactions(ctx context.Context, ownerID, walletID uuid.UUID, limit, offset int) ([]domain.Transaction, error) {
	wallet, err := s.ledger.GetWallet(ctx, walletID)
	if err != nil {
		return nil, apperror.ErrStorageUnavailable(fmt.Errorf("read wallet: %w", err))
	}
	if wallet == nil || !wallet.OwnedBy(ownerID) {
		return nil, apperror.ErrWalletNotFound()
	}

	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}
	if offset < 0 {
		offset = 0
	}

	entries, err := s.ledger.ListTransactions(ctx, walletID, limit, offset)
	if err != nil {
		return nil, apperror.ErrStorageUnavailable(fmt.Errorf("list transactions: %w", err))
	}
	return entries, nil
}
