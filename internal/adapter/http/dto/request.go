package dto

import (
	"github.com/shopspring/decimal"

	"github.com/iho/autotransfer/internal/domain"
	"github.com/iho/autotransfer/internal/usecase"
)

// CreateTransferRequest represents a member initiated transfer.
type CreateTransferRequest struct {
	FromAccountID       string          `json:"from_account_id"`
	ToBankName          string          `json:"to_bank_name"`
	ToAccountNumber     string          `json:"to_account_number"`
	Password            string          `json:"password"`
	SenderDisplayName   string          `json:"sender_display_name,omitempty"`
	ReceiverDisplayName string          `json:"receiver_display_name,omitempty"`
	Amount              decimal.Decimal `json:"amount"`
}

// ToTransferInput converts the request for the transfer engine.
func (r *CreateTransferRequest) ToTransferInput(memberID string) (domain.TransferInput, error) {
	amount, err := domain.ParseAmount(r.Amount)
	if err != nil {
		return domain.TransferInput{}, err
	}

	return domain.TransferInput{
		MemberID:            memberID,
		FromAccountID:       r.FromAccountID,
		ToBankName:          r.ToBankName,
		ToAccountNumber:     r.ToAccountNumber,
		Credential:          r.Password,
		SenderDisplayName:   r.SenderDisplayName,
		ReceiverDisplayName: r.ReceiverDisplayName,
		Kind:                domain.TransferKindInteractive,
		Amount:              amount,
	}, nil
}

// CreateAutoTransferRequest registers a recurring transfer.
type CreateAutoTransferRequest struct {
	AccountID           string          `json:"account_id"`
	TargetBankName      string          `json:"target_bank_name"`
	TargetAccountNumber string          `json:"target_account_number"`
	Amount              decimal.Decimal `json:"amount"`
	TransferDay         int             `json:"transfer_day"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAutoTransferRequest) ToUseCaseInput(memberID string) (usecase.CreateAutoTransferInput, error) {
	amount, err := domain.ParseAmount(r.Amount)
	if err != nil {
		return usecase.CreateAutoTransferInput{}, err
	}

	return usecase.CreateAutoTransferInput{
		MemberID:            memberID,
		AccountID:           r.AccountID,
		TargetBankName:      r.TargetBankName,
		TargetAccountNumber: r.TargetAccountNumber,
		Amount:              amount,
		TransferDay:         r.TransferDay,
	}, nil
}

// UpdateAutoTransferRequest changes amount and day of a recurring transfer.
type UpdateAutoTransferRequest struct {
	Amount      decimal.Decimal `json:"amount"`
	TransferDay int             `json:"transfer_day"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateAutoTransferRequest) ToUseCaseInput(id, memberID string) (usecase.UpdateAutoTransferInput, error) {
	amount, err := domain.ParseAmount(r.Amount)
	if err != nil {
		return usecase.UpdateAutoTransferInput{}, err
	}

	return usecase.UpdateAutoTransferInput{
		ID:          id,
		MemberID:    memberID,
		Amount:      amount,
		TransferDay: r.TransferDay,
	}, nil
}
