package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/autotransfer/internal/domain"
	"github.com/iho/autotransfer/internal/usecase"
)

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	CreatedAt time.Time       `json:"created_at"`
	ID        string          `json:"id"`
	BankName  string          `json:"bank_name"`
	Name      string          `json:"name"`
	Number    string          `json:"number"`
	Type      string          `json:"type"`
	Balance   decimal.Decimal `json:"balance"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:        a.ID,
		BankName:  a.BankName,
		Name:      a.Name,
		Number:    a.Number,
		Type:      string(a.Type),
		Balance:   decimal.NewFromInt(a.Balance),
		CreatedAt: a.CreatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ReceivingAccountResponse is the confirmation view of a destination account.
type ReceivingAccountResponse struct {
	BankName  string `json:"bank_name"`
	Number    string `json:"number"`
	OwnerName string `json:"owner_name"`
}

// ReceivingAccountFromUseCase converts a lookup result to response.
func ReceivingAccountFromUseCase(a *usecase.ReceivingAccount) *ReceivingAccountResponse {
	return &ReceivingAccountResponse{
		BankName:  a.BankName,
		Number:    a.Number,
		OwnerName: a.OwnerName,
	}
}

// TransactionResponse represents one ledger line.
type TransactionResponse struct {
	CreatedAt      time.Time       `json:"created_at"`
	ID             string          `json:"id"`
	AccountID      string          `json:"account_id"`
	OpponentName   string          `json:"opponent_name"`
	Direction      string          `json:"direction"`
	Amount         decimal.Decimal `json:"amount"`
	UpdatedBalance decimal.Decimal `json:"updated_balance"`
}

// TransactionFromDomain converts a ledger line to response.
func TransactionFromDomain(t *domain.Transaction) *TransactionResponse {
	return &TransactionResponse{
		ID:             t.ID,
		AccountID:      t.AccountID,
		OpponentName:   t.OpponentName,
		Direction:      string(t.Direction),
		Amount:         decimal.NewFromInt(t.Amount),
		UpdatedBalance: decimal.NewFromInt(t.UpdatedBalance),
		CreatedAt:      t.CreatedAt,
	}
}

// TransactionsFromDomain converts ledger lines to responses.
func TransactionsFromDomain(lines []*domain.Transaction) []*TransactionResponse {
	result := make([]*TransactionResponse, len(lines))
	for i, l := range lines {
		result[i] = TransactionFromDomain(l)
	}
	return result
}

// TransferResponse holds both lines a transfer produced.
type TransferResponse struct {
	Debit  *TransactionResponse `json:"debit"`
	Credit *TransactionResponse `json:"credit"`
}

// TransferFromDomain converts a transfer result to response.
func TransferFromDomain(r *domain.TransferResult) *TransferResponse {
	return &TransferResponse{
		Debit:  TransactionFromDomain(r.Debit),
		Credit: TransactionFromDomain(r.Credit),
	}
}

// AutoTransferResponse represents a recurring transfer in API responses.
type AutoTransferResponse struct {
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
	ID                  string          `json:"id"`
	AccountID           string          `json:"account_id"`
	SourceAccountNumber string          `json:"source_account_number"`
	TargetBankName      string          `json:"target_bank_name"`
	TargetAccountNumber string          `json:"target_account_number"`
	Status              string          `json:"status"`
	Amount              decimal.Decimal `json:"amount"`
	TransferDay         int             `json:"transfer_day"`
}

// AutoTransferFromDomain converts domain auto-transfer to response.
func AutoTransferFromDomain(t *domain.AutoTransfer) *AutoTransferResponse {
	return &AutoTransferResponse{
		ID:                  t.ID,
		AccountID:           t.AccountID,
		SourceAccountNumber: t.SourceAccountNumber,
		TargetBankName:      t.TargetBankName,
		TargetAccountNumber: t.TargetAccountNumber,
		Status:              string(t.Status),
		Amount:              decimal.NewFromInt(t.Amount),
		TransferDay:         t.TransferDay,
		CreatedAt:           t.CreatedAt,
		UpdatedAt:           t.UpdatedAt,
	}
}

// AutoTransfersFromDomain converts domain auto-transfers to responses.
func AutoTransfersFromDomain(ts []*domain.AutoTransfer) []*AutoTransferResponse {
	result := make([]*AutoTransferResponse, len(ts))
	for i, t := range ts {
		result[i] = AutoTransferFromDomain(t)
	}
	return result
}

// NotificationResponse represents a notification in API responses.
type NotificationResponse struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
}

// NotificationFromDomain converts domain notification to response.
func NotificationFromDomain(n *domain.Notification) *NotificationResponse {
	return &NotificationResponse{
		ID:        n.ID,
		Kind:      string(n.Kind),
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

// NotificationsFromDomain converts domain notifications to responses.
func NotificationsFromDomain(ns []*domain.Notification) []*NotificationResponse {
	result := make([]*NotificationResponse, len(ns))
	for i, n := range ns {
		result[i] = NotificationFromDomain(n)
	}
	return result
}

// UnreadCountResponse carries the unread notification count.
type UnreadCountResponse struct {
	Unread int `json:"unread"`
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
