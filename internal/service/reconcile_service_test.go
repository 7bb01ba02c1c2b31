package service

import (
	"context"
	"errors"
	"testing"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports/mocks"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestReconcileService(t *testing.T) (*ReconcileServiceImpl, *mocks.MockLedgerStore) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockLedgerStore(ctrl)
	return NewReconcileService(ledger, zerolog.Nop()), ledger
}

func TestCheckBalance_Consistent(t *testing.T) {
	svc, ledger := newTestReconcileService(t)
	ctx := context.Background()
	walletID := uuid.New()
	balance := decimal.RequireFromString("42.00")

	ledger.EXPECT().
		GetWallet(ctx, walletID).
		Return(&domain.Wallet{ID: walletID, Balance: balance}, nil)
	ledger.EXPECT().
		SumTransactionsForWallet(ctx, walletID).
		Return(balance, nil)

	diff, err := svc.CheckBalance(ctx, walletID, false)
	require.NoError(t, err)
	assert.True(t, diff.IsZero())
}

func TestCheckBalance_DriftReported(t *testing.T) {
	svc, ledger := newTestReconcileService(t)
	ctx := context.Background()
	walletID := uuid.New()

	ledger.EXPECT().
		GetWallet(ctx, walletID).
		Return(&domain.Wallet{ID: walletID, Balance: decimal.RequireFromString("50.00")}, nil)
	ledger.EXPECT().
		SumTransactionsForWallet(ctx, walletID).
		Return(decimal.RequireFromString("47.50"), nil)

	// correct=false: drift is reported, cached balance stays untouched.
	diff, err := svc.CheckBalance(ctx, walletID, false)
	require.NoError(t, err)
	assert.True(t, diff.Equal(decimal.RequireFromString("2.50")), "diff = cached - ledger, got %s", diff)
}

func TestCheckBalance_DriftCorrected(t *testing.T) {
	svc, ledger := newTestReconcileService(t)
	ctx := context.Background()
	walletID := uuid.New()
	ledgerSum := decimal.RequireFromString("47.50")

	ledger.EXPECT().
		GetWallet(ctx, walletID).
		Return(&domain.Wallet{ID: walletID, Balance: decimal.RequireFromString("50.00")}, nil)
	ledger.EXPECT().
		SumTransactionsForWallet(ctx, walletID).
		Return(ledgerSum, nil)
	ledger.EXPECT().
		SetWalletBalance(ctx, walletID, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, balance decimal.Decimal) error {
			assert.True(t, balance.Equal(ledgerSum), "cache must be rewritten from the ledger sum")
			return nil
		})

	diff, err := svc.CheckBalance(ctx, walletID, true)
	require.NoError(t, err)
	assert.True(t, diff.Equal(decimal.RequireFromString("2.50")))
}

func TestCheckBalance_ConsistentSkipsCorrection(t *testing.T) {
	svc, ledger := newTestReconcileService(t)
	ctx := context.Background()
	walletID := uuid.New()
	balance := decimal.RequireFromString("10.00")

	ledger.EXPECT().
		GetWallet(ctx, walletID).
		Return(&domain.Wallet{ID: walletID, Balance: balance}, nil)
	ledger.EXPECT().
		SumTransactionsForWallet(ctx, walletID).
		Return(balance, nil)
	// No SetWalletBalance expectation: zero drift must not write.

	diff, err := svc.CheckBalance(ctx, walletID, true)
	require.NoError(t, err)
	assert.True(t, diff.IsZero())
}

func TestCheckBalance_WalletMissing(t *testing.T) {
	svc, ledger := newTestReconcileService(t)
	ctx := context.Background()
	walletID := uuid.New()

	ledger.EXPECT().GetWallet(ctx, walletID).Return(nil, nil)

	_, err := svc.CheckBalance(ctx, walletID, false)
	assertCode(t, err, apperror.CodeWalletNotFound)
}

func TestCheckBalance_SumFails(t *testing.T) {
	svc, ledger := newTestReconcileService(t)
	ctx := context.Background()
	walletID := uuid.New()

	ledger.EXPECT().
		GetWallet(ctx, walletID).
		Return(&domain.Wallet{ID: walletID, Balance: decimal.Zero}, nil)
	ledger.EXPECT().
		SumTransactionsForWallet(ctx, walletID).
		Return(decimal.Zero, errors.New("connection reset"))

	_, err := svc.CheckBalance(ctx, walletID, false)
	assertCode(t, err, apperror.CodeStorageUnavailable)
}
