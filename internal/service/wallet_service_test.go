package service

import (
	"context"
	"errors"
	"testing"
	"time"

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

func newTestWalletService(t *testing.T) (*WalletServiceImpl, *mocks.MockLedgerStore) {
	ctrl := gomock.NewController(t)
	ledger := mocks.NewMockLedgerStore(ctrl)
	return NewWalletService(ledger, zerolog.Nop()), ledger
}

func TestCreateWallet(t *testing.T) {
	svc, ledger := newTestWalletService(t)
	ctx := context.Background()
	ownerID := uuid.New()

	ledger.EXPECT().
		CreateWallet(ctx, gomock.Any()).
		DoAndReturn(func(_ context.Context, w *domain.Wallet) error {
			assert.Equal(t, ownerID, w.OwnerID)
			assert.True(t, w.Balance.IsZero(), "new wallets start empty")
			assert.NotEqual(t, uuid.Nil, w.ID)
			return nil
		})

	wallet, err := svc.CreateWallet(ctx, ownerID)
	require.NoError(t, err)
	assert.Equal(t, ownerID, wallet.OwnerID)
}

func TestCreateWallet_StorageDown(t *testing.T) {
	svc, ledger := newTestWalletService(t)
	ctx := context.Background()

	ledger.EXPECT().CreateWallet(ctx, gomock.Any()).Return(errors.New("connection refused"))

	_, err := svc.CreateWallet(ctx, uuid.New())
	assertCode(t, err, apperror.CodeStorageUnavailable)
}

func TestGetBalance(t *testing.T) {
	svc, ledger := newTestWalletService(t)
	ctx := context.Background()
	ownerID := uuid.New()
	walletID := uuid.New()
	balance := decimal.RequireFromString("12.34")

	ledger.EXPECT().
		GetWallet(ctx, walletID).
		Return(&domain.Wallet{ID: walletID, OwnerID: ownerID, Balance: balance}, nil)

	got, err := svc.GetBalance(ctx, ownerID, walletID)
	require.NoError(t, err)
	assert.True(t, got.Equal(balance))
}

func TestGetBalance_NotOwner(t *testing.T) {
	svc, ledger := newTestWalletService(t)
	ctx := context.Background()
	walletID := uuid.New()

	ledger.EXPECT().
		GetWallet(ctx, walletID).
		Return(&domain.Wallet{ID: walletID, OwnerID: uuid.New(), Balance: decimal.Zero}, nil)

	_, err := svc.GetBalance(ctx, uuid.New(), walletID)
	assertCode(t, err, apperror.CodeWalletNotFound)
}

func TestGetBalance_Missing(t *testing.T) {
	svc, ledger := newTestWalletService(t)
	ctx := context.Background()
	walletID := uuid.New()

	ledger.EXPECT().GetWallet(ctx, walletID).Return(nil, nil)

	_, err := svc.GetBalance(ctx, uuid.New(), walletID)
	assertCode(t, err, apperror.CodeWalletNotFound)
}

func TestListTransactions_ClampsPagination(t *testing.T) {
	svc, ledger := newTestWalletService(t)
	ctx := context.Background()
	ownerID := uuid.New()
	walletID := uuid.New()

	now := time.Now()
	entries := []domain.Transaction{
		{ID: uuid.New(), Payee: walletID, Amount: decimal.RequireFromString("5.00"), CreatedAt: now},
	}

	ledger.EXPECT().
		GetWallet(ctx, walletID).
		Return(&domain.Wallet{ID: walletID, OwnerID: ownerID}, nil).
		Times(2)
	ledger.EXPECT().
		ListTransactions(ctx, walletID, defaultHistoryLimit, 0).
		Return(entries, nil)
	ledger.EXPECT().
		ListTransactions(ctx, walletID, maxHistoryLimit, 0).
		Return(entries, nil)

	got, err := svc.ListTransactions(ctx, ownerID, walletID, 0, -3)
	require.NoError(t, err)
	assert.Len(t, got, 1)

	got, err = svc.ListTransactions(ctx, ownerID, walletID, 10000, 0)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestListTransactions_NotOwner(t *testing.T) {
	svc, ledger := newTestWalletService(t)
	ctx := context.Background()
	walletID := uuid.New()

	ledger.EXPECT().
		GetWallet(ctx, walletID).
		Return(&domain.Wallet{ID: walletID, OwnerID: uuid.New()}, nil)

	_, err := svc.ListTransactions(ctx, uuid.New(), walletID, 10, 0)
	assertCode(t, err, apperror.CodeWalletNotFound)
}
