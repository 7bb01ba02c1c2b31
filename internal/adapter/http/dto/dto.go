package dto

// DepositRequest is the request body for crediting external funds.
// Amount travels as a string to keep exact decimal semantics on the wire.
type DepositRequest struct {
	Payee       string `json:"payee" binding:"required,uuid"`
	Amount      string `json:"amount" binding:"required"`
	IsAnonymous bool   `json:"is_anonymous"`
	Comment     string `json:"comment" binding:"max=100"`
}

// TransferRequest is the request body for a wallet-to-wallet transfer.
type TransferRequest struct {
	Sender      string `json:"sender" binding:"required,uuid"`
	Payee       string `json:"payee" binding:"required,uuid"`
	Amount      string `json:"amount" binding:"required"`
	IsAnonymous bool   `json:"is_anonymous"`
	Comment     string `json:"comment" binding:"max=100"`
}

// WalletResponse is the response body for wallet creation.
type WalletResponse struct {
	ID        string `json:"id"`
	OwnerID   string `json:"owner_id"`
	Balance   string `json:"balance"`
	CreatedAt string `json:"created_at"`
}

// BalanceResponse is the response for a balance query.
type BalanceResponse struct {
	WalletID string `json:"wallet_id"`
	Balance  string `json:"balance"`
}

// TransactionResponse is one ledger entry in a history listing.
type TransactionResponse struct {
	ID          string  `json:"id"`
	Sender      *string `json:"sender"` // null for deposits
	Payee       string  `json:"payee"`
	Amount      string  `json:"amount"`
	IsAnonymous bool    `json:"is_anonymous"`
	Comment     string  `json:"comment,omitempty"`
	CreatedAt   string  `json:"created_at"`
}

// TransactionListResponse wraps a paginated history listing.
type TransactionListResponse struct {
	Items  []TransactionResponse `json:"items"`
	Limit  int                   `json:"limit"`
	Offset int                   `json:"offset"`
}

// ReconcileResponse reports the drift between a wallet's cached balance and
// the sum of its ledger entries.
type ReconcileResponse struct {
	WalletID   string `json:"wallet_id"`
	Difference string `json:"difference"`
	Consistent bool   `json:"consistent"`
	Corrected  bool   `json:"corrected"`
}
