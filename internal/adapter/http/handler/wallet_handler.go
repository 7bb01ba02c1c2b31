package handler

import (
	"strconv"
	"time"

	"wallet-ledger/internal/adapter/http/dto"
	"wallet-ledger/internal/adapter/http/middleware"
	"wallet-ledger/internal/core/domain"
	"wallet-ledger/internal/core/ports"
	"wallet-ledger/pkg/apperror"
	"wallet-ledger/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// WalletHandler handles wallet and transaction endpoints.
type WalletHandler struct {
	transferSvc  ports.TransferService
	walletSvc    ports.WalletService
	reconcileSvc ports.ReconcileService
}

// NewWalletHandler creates a new WalletHandler.
func NewWalletHandler(transferSvc ports.TransferService, walletSvc ports.WalletService, reconcileSvc ports.ReconcileService) *WalletHandler {
	return &WalletHandler{
		transferSvc:  transferSvc,
		walletSvc:    walletSvc,
		reconcileSvc: reconcileSvc,
	}
}

// ownerID extracts the authenticated owner set by the JWT middleware.
func ownerID(c *gin.Context) (uuid.UUID, bool) {
	v, ok := c.Get(middleware.CtxOwnerID)
	if !ok {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

// parseAmount converts a wire amount into a scale-2 decimal. Amounts with
// more than two fractional digits are rejected rather than rounded.
func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, apperror.ErrValidation("amount must be a decimal number")
	}
	if amount.Exponent() < -2 {
		return decimal.Zero, apperror.ErrValidation("amount supports at most two decimal places")
	}
	return amount, nil
}

// Deposit handles POST /api/v1/deposit. A successful deposit returns an
// empty data object by contract.
func (h *WalletHandler) Deposit(c *gin.Context) {
	var req dto.DepositRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrValidation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	amount, err := parseAmount(req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	payee, err := uuid.Parse(req.Payee)
	if err != nil {
		response.Error(c, apperror.ErrValidation("payee must be a UUID"))
		return
	}

	if _, err := h.transferSvc.Deposit(c.Request.Context(), ports.DepositRequest{
		Payee:       payee,
		Amount:      amount,
		IsAnonymous: req.IsAnonymous,
		Comment:     req.Comment,
	}); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{})
}

// Transfer handles POST /api/v1/transfer. A successful transfer returns an
// empty data object by contract.
func (h *WalletHandler) Transfer(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, apperror.ErrValidation(err.Error()))
		return
	}
	dto.SanitizeStruct(&req)

	amount, err := parseAmount(req.Amount)
	if err != nil {
		response.Error(c, err)
		return
	}

	sender, err := uuid.Parse(req.Sender)
	if err != nil {
		response.Error(c, apperror.ErrValidation("sender must be a UUID"))
		return
	}
	payee, err := uuid.Parse(req.Payee)
	if err != nil {
		response.Error(c, apperror.ErrValidation("payee must be a UUID"))
		return
	}

	if _, err := h.transferSvc.Transfer(c.Request.Context(), ports.TransferRequest{
		OwnerID:     owner,
		Sender:      sender,
		Payee:       payee,
		Amount:      amount,
		IsAnonymous: req.IsAnonymous,
		Comment:     req.Comment,
	}); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{})
}

// CreateWallet handles POST /api/v1/wallets.
func (h *WalletHandler) CreateWallet(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	wallet, err := h.walletSvc.CreateWallet(c.Request.Context(), owner)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, dto.WalletResponse{
		ID:        wallet.ID.String(),
		OwnerID:   wallet.OwnerID.String(),
		Balance:   wallet.Balance.StringFixed(2),
		CreatedAt: wallet.CreatedAt.Format(time.RFC3339),
	})
}

// GetBalance handles GET /api/v1/wallets/:id/balance.
func (h *WalletHandler) GetBalance(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	walletID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.ErrValidation("wallet id must be a UUID"))
		return
	}

	balance, err := h.walletSvc.GetBalance(c.Request.Context(), owner, walletID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.BalanceResponse{
		WalletID: walletID.String(),
		Balance:  balance.StringFixed(2),
	})
}

// ListTransactions handles GET /api/v1/wallets/:id/transactions.
func (h *WalletHandler) ListTransactions(c *gin.Context) {
	owner, ok := ownerID(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return
	}

	walletID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.ErrValidation("wallet id must be a UUID"))
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	entries, err := h.walletSvc.ListTransactions(c.Request.Context(), owner, walletID, limit, offset)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]dto.TransactionResponse, 0, len(entries))
	for i := range entries {
		items = append(items, toTransactionResponse(&entries[i]))
	}

	response.OK(c, dto.TransactionListResponse{
		Items:  items,
		Limit:  limit,
		Offset: offset,
	})
}

// Reconcile handles POST /api/v1/wallets/:id/reconcile. Out-of-band
// diagnostic; it does not take the wallet lock, so running it concurrently
// with transfers against the same wallet may report transient drift.
func (h *WalletHandler) Reconcile(c *gin.Context) {
	walletID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, apperror.ErrValidation("wallet id must be a UUID"))
		return
	}

	correct := c.Query("correct") == "true"

	diff, err := h.reconcileSvc.CheckBalance(c.Request.Context(), walletID, correct)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, dto.ReconcileResponse{
		WalletID:   walletID.String(),
		Difference: diff.StringFixed(2),
		Consistent: diff.IsZero(),
		Corrected:  correct && !diff.IsZero(),
	})
}

func toTransactionResponse(t *domain.Transaction) dto.TransactionResponse {
	var sender *string
	if t.Sender != nil {
		s := t.Sender.String()
		sender = &s
	}
	return dto.TransactionResponse{
		ID:          t.ID.String(),
		Sender:      sender,
		Payee:       t.Payee.String(),
		Amount:      t.Amount.StringFixed(2),
		IsAnonymous: t.IsAnonymous,
		Comment:     t.Comment,
		CreatedAt:   t.CreatedAt.Format(time.RFC3339),
	}
}
