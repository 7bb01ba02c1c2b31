package postgres

import (
	"context"
	"fmt"

	"wallet-ledger/internal/core/domain"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

// TransactionRepo implements ports.TransactionRepository. The transactions
// table is append-only; there is deliberately no update or delete here.
type TransactionRepo struct {
	pool Pool
}

// NewTransactionRepo creates a new TransactionRepo.
func NewTransactionRepo(pool Pool) *TransactionRepo {
	return &TransactionRepo{pool: pool}
}

// Create inserts a new ledger entry within a database transaction.
func (r *TransactionRepo) Create(ctx context.Context, tx pgx.Tx, t *domain.Transaction) error {
	query := `INSERT INTO transactions (id, sender, payee, amount, is_anonymous, comment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := tx.Exec(ctx, query,
		t.ID, t.Sender, t.Payee, t.Amount,
		t.IsAnonymous, t.Comment, t.CreatedAt, t.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

// SumForWallet computes the ledger-derived balance: the sum of amounts where
// the wallet is payee minus the sum where it is sender. Reads committed rows
// only and ignores the cached balance column.
func (r *TransactionRepo) SumForWallet(ctx context.Context, walletID uuid.UUID) (decimal.Decimal, error) {
	query := `SELECT
		COALESCE(SUM(CASE WHEN payee = $1 THEN amount ELSE 0 END), 0)
		- COALESCE(SUM(CASE WHEN sender = $1 THEN amount ELSE 0 END), 0)
		FROM transactions WHERE payee = $1 OR sender = $1`

	var sum decimal.Decimal
	if err := r.pool.QueryRow(ctx, query, walletID).Scan(&sum); err != nil {
		return decimal.Zero, fmt.Errorf("sum transactions for wallet: %w", err)
	}
	return sum, nil
}

// ListByWallet fetches the wallet's incoming and outgoing ledger entries,
// newest first.
func (r *TransactionRepo) ListByWallet(ctx context.Context, walletID uuid.UUID, limit, offset int) ([]domain.Transaction, error) {
	query := `SELECT id, sender, payee, amount, is_anonymous, comment, created_at, updated_at
		FROM transactions WHERE payee = $1 OR sender = $1
		ORDER BY created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, walletID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		t := domain.Transaction{}
		err := rows.Scan(
			&t.ID, &t.Sender, &t.Payee, &t.Amount,
			&t.IsAnonymous, &t.Comment, &t.CreatedAt, &t.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan transaction row: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transaction rows: %w", err)
	}
	return txns, nil
}
