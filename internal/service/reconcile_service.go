package service

import (
	"context"
	"fmt"

	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// ReconcileServiceImpl implements ports.ReconcileService.
//
// The transaction table is the source of truth; the wallet balance column is
// a cache of its sum. CheckBalance reports the drift between the two and can
// rewrite the cache from the ledger.
type ReconcileServiceImpl struct {
	ledger ports.LedgerStore
	log    zerolog.Logger
}

// NewReconcileService creates a new ReconcileServiceImpl.
func NewReconcileService(ledger ports.LedgerStore, log zerolog.Logger) *ReconcileServiceImpl {
	return &ReconcileServiceImpl{ledger: ledger, log: log}
}

// CheckBalance returns cached balance minus the ledger-derived balance for
// the wallet. Zero means consistent. When correct is true and drift is found,
// the cached balance is overwritten with the ledger sum.
func (s *ReconcileServiceImpl) CheckBalance(ctx context.Context, walletID uuid.UUID, correct bool) (decimal.Decimal, error) {
	wallet, err := s.ledger.GetWallet(ctx, walletID)
	if err != nil {
		return decimal.Zero, apperror.ErrStorageUnavailable(fmt.Errorf("read wallet: %w", err))
	}
	if wallet == nil {
		return decimal.Zero, apperror.ErrWalletNotFound()
	}

	sum, err := s.ledger.SumTransactionsForWallet(ctx, walletID)
	if err != nil {
		return decimal.Zero, apperror.ErrStorageUnavailable(fmt.Errorf("sum ledger entries: %w", err))
	}

	diff := wallet.Balance.Sub(sum)
	if diff.IsZero() {
		return diff, nil
	}

	s.log.Warn().
		Str("wallet", walletID.String()).
		Str("cached", wallet.Balance.String()).
		Str("ledger", sum.String()).
		Str("diff", diff.String()).
		Msg("balance drift detected")

	if correct {
		if err := s.ledger.SetWalletBalance(ctx, walletID, sum); err != nil {
			return diff, apperror.ErrStorageUnavailable(fmt.Errorf("correct balance: %w", err))
		}
		s.log.Info().
			Str("wallet", walletID.String()).
			Str("balance", sum.String()).
			Msg("cached balance corrected from ledger")
	}

	return diff, nil
}
