package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// TransferServiceImpl implements ports.TransferService.
//
// Every balance mutation happens under the wallet's distributed lock and
// inside one atomic ledger write. The engine never retries: lock contention
// and storage failures surface to the caller, which owns the retry policy.
type TransferServiceImpl struct {
	ledger      ports.LedgerStore
	locker      ports.WalletLocker
	lockTTL     time.Duration
	minDeposit  decimal.Decimal
	minTransfer decimal.Decimal
	log         zerolog.Logger
}

// NewTransferService creates a new TransferServiceImpl.
func NewTransferService(
	ledger ports.LedgerStore,
	locker ports.WalletLocker,
	lockTTL time.Duration,
	minDeposit decimal.Decimal,
	minTransfer decimal.Decimal,
	log zerolog.Logger,
) *TransferServiceImpl {
	return &TransferServiceImpl{
		ledger:      ledger,
		locker:      locker,
		lockTTL:     lockTTL,
		minDeposit:  minDeposit,
		minTransfer: minTransfer,
		log:         log,
	}
}

// newOwnerToken generates a per-attempt lock owner token: 128 bits of
// entropy plus the current microseconds, unguessable and unique enough
// that no two acquire attempts can collide.
func newOwnerToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is in no state to serve.
		panic(fmt.Sprintf("owner token entropy: %v", err))
	}
	return hex.EncodeToString(buf) + "-" + strconv.FormatInt(time.Now().UnixMicro(), 10)
}

// Deposit credits external funds to the payee wallet.
//
// Deposits take the payee-side lock too: without it a concurrent transfer
// and deposit against the same payee could interleave if the underlying
// store were ever not strictly row-atomic.
func (s *TransferServiceImpl) Deposit(ctx context.Context, req ports.DepositRequest) (*domain.Transaction, error) {
	if req.Amount.LessThan(s.minDeposit) {
		return nil, apperror.ErrValidation(fmt.Sprintf("amount must be at least %s", s.minDeposit))
	}

	token := newOwnerToken()
	acquired, err := s.locker.Acquire(ctx, req.Payee, token, s.lockTTL)
	if err != nil {
		return nil, apperror.ErrStorageUnavailable(fmt.Errorf("acquire payee lock: %w", err))
	}
	if !acquired {
		return nil, apperror.ErrLockContention()
	}
	defer s.release(ctx, req.Payee, token)

	// Re-check payee existence after acquiring the lock; a pre-validated
	// foreign key may no longer exist by the time we run.
	payee, err := s.ledger.GetWallet(ctx, req.Payee)
	if err != nil {
		return nil, apperror.ErrStorageUnavailable(fmt.Errorf("read payee wallet: %w", err))
	}
	if payee == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	now := time.Now().UTC()
	entry := &domain.Transaction{
		ID:          uuid.New(),
		Sender:      nil,
		Payee:       req.Payee,
		Amount:      req.Amount,
		IsAnonymous: req.IsAnonymous,
		Comment:     req.Comment,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	deltas := map[uuid.UUID]decimal.Decimal{req.Payee: req.Amount}
	if err := s.ledger.CreateTransactionAndAdjustBalances(ctx, entry, deltas); err != nil {
		return nil, apperror.ErrStorageUnavailable(fmt.Errorf("commit deposit: %w", err))
	}

	s.log.Info().
		Str("tx_id", entry.ID.String()).
		Str("payee", req.Payee.String()).
		Str("amount", req.Amount.String()).
		Msg("deposit committed")

	return entry, nil
}

// Transfer moves funds between two wallets.
//
// Only the sender-side lock is held. The payee mutation is a pure additive
// delta inside the same atomic unit, so two simultaneous incoming transfers
// to one payee each fully apply.
func (s *TransferServiceImpl) Transfer(ctx context.Context, req ports.TransferRequest) (*domain.Transaction, error) {
	if req.Amount.LessThan(s.minTransfer) {
		return nil, apperror.ErrValidation(fmt.Sprintf("amount must be at least %s", s.minTransfer))
	}
	if req.Sender == req.Payee {
		return nil, apperror.ErrValidation("sender and payee must be different wallets")
	}

	token := newOwnerToken()
	acquired, err := s.locker.Acquire(ctx, req.Sender, token, s.lockTTL)
	if err != nil {
		return nil, apperror.ErrStorageUnavailable(fmt.Errorf("acquire sender lock: %w", err))
	}
	if !acquired {
		return nil, apperror.ErrLockContention()
	}
	defer s.release(ctx, req.Sender, token)

	// Re-read the sender after acquiring the lock. The lock's TTL may have
	// expired under a previous holder, so any state read before this point
	// cannot be trusted.
	sender, err := s.ledger.GetWallet(ctx, req.Sender)
	if err != nil {
		return nil, apperror.ErrStorageUnavailable(fmt.Errorf("read sender wallet: %w", err))
	}
	if sender == nil || !sender.OwnedBy(req.OwnerID) {
		return nil, apperror.ErrWalletNotFound()
	}

	payee, err := s.ledger.GetWallet(ctx, req.Payee)
	if err != nil {
		return nil, apperror.ErrStorageUnavailable(fmt.Errorf("read payee wallet: %w", err))
	}
	if payee == nil {
		return nil, apperror.ErrWalletNotFound()
	}

	if !sender.CanDebit(req.Amount) {
		return nil, apperror.ErrInsufficientFunds()
	}

	now := time.Now().UTC()
	senderID := req.Sender
	entry := &domain.Transaction{
		ID:          uuid.New(),
		Sender:      &senderID,
		Payee:       req.Payee,
		Amount:      req.Amount,
		IsAnonymous: req.IsAnonymous,
		Comment:     req.Comment,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	deltas := map[uuid.UUID]decimal.Decimal{
		req.Sender: req.Amount.Neg(),
		req.Payee:  req.Amount,
	}
	if err := s.ledger.CreateTransactionAndAdjustBalances(ctx, entry, deltas); err != nil {
		return nil, apperror.ErrStorageUnavailable(fmt.Errorf("commit transfer: %w", err))
	}

	s.log.Info().
		Str("tx_id", entry.ID.String()).
		Str("sender", req.Sender.String()).
		Str("payee", req.Payee.String()).
		Str("amount", req.Amount.String()).
		Msg("transfer committed")

	return entry, nil
}

// release clears the wallet lock on a best-effort basis. If the lock store
// is unreachable the lock simply outlives the request until its TTL expires;
// that bounded staleness is an accepted trade-off.
func (s *TransferServiceImpl) release(ctx context.Context, walletID uuid.UUID, token string) {
	if err := s.locker.Release(ctx, walletID, token); err != nil {
		s.log.Warn().Err(err).
			Str("wallet", walletID.String()).
			Msg("lock release failed; lock will expire by TTL")
	}
}
