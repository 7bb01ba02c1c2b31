package postgres

import (
	"context"
	"testing"
	"time"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestTransfer(sender, payee uuid.UUID, amount string) *domain.Transaction {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &domain.Transaction{
		ID:        uuid.New(),
		Sender:    &sender,
		Payee:     payee,
		Amount:    decimal.RequireFromString(amount),
		Comment:   "lunch",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func transactionColumns() []string {
	return []string{"id", "sender", "payee", "amount", "is_anonymous", "comment", "created_at", "updated_at"}
}

func TestTransactionRepo_Create(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	txn := newTestTransfer(uuid.New(), uuid.New(), "42.50")

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(txn.ID, txn.Sender, txn.Payee, txn.Amount,
			txn.IsAnonymous, txn.Comment, txn.CreatedAt, txn.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, txn)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_Create_Deposit(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	now := time.Now().UTC()
	txn := &domain.Transaction{
		ID:        uuid.New(),
		Sender:    nil, // external source
		Payee:     uuid.New(),
		Amount:    decimal.RequireFromString("200.00"),
		CreatedAt: now,
		UpdatedAt: now,
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO transactions").
		WithArgs(txn.ID, (*uuid.UUID)(nil), txn.Payee, txn.Amount,
			txn.IsAnonymous, txn.Comment, txn.CreatedAt, txn.UpdatedAt).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	tx, err := mock.Begin(context.Background())
	require.NoError(t, err)

	err = repo.Create(context.Background(), tx, txn)
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_SumForWallet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	walletID := uuid.New()

	mock.ExpectQuery("SELECT .+ FROM transactions WHERE payee").
		WithArgs(walletID).
		WillReturnRows(pgxmock.NewRows([]string{"sum"}).AddRow(decimal.RequireFromString("150.25")))

	sum, err := repo.SumForWallet(context.Background(), walletID)
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("150.25").Equal(sum))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRepo_ListByWallet(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewTransactionRepo(mock)
	walletID := uuid.New()
	sender := uuid.New()
	now := time.Now().UTC()

	rows := pgxmock.NewRows(transactionColumns()).
		AddRow(uuid.New(), &sender, walletID, decimal.RequireFromString("10.00"), false, "", now, now).
		AddRow(uuid.New(), (*uuid.UUID)(nil), walletID, decimal.RequireFromString("200.00"), true, "deposit", now.Add(-time.Hour), now.Add(-time.Hour))

	mock.ExpectQuery("SELECT .+ FROM transactions WHERE payee .+ ORDER BY created_at DESC").
		WithArgs(walletID, 20, 0).
		WillReturnRows(rows)

	txns, err := repo.ListByWallet(context.Background(), walletID, 20, 0)
	require.NoError(t, err)
	require.Len(t, txns, 2)
	assert.False(t, txns[0].IsDeposit())
	assert.True(t, txns[1].IsDeposit())
	assert.NoError(t, mock.ExpectationsWereMet())
}
