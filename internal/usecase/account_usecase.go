package usecase

import (
	"context"

	"github.com/iho/autotransfer/internal/domain"
)

// AccountUseCase serves the account lookups a member needs before transferring.
type AccountUseCase struct {
	accountRepo AccountRepository
	memberRepo  MemberRepository
}

// NewAccountUseCase creates a new AccountUseCase.
func NewAccountUseCase(accountRepo AccountRepository, memberRepo MemberRepository) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		memberRepo:  memberRepo,
	}
}

// ReceivingAccount is what a sender sees when confirming a destination.
type ReceivingAccount struct {
	BankName  string
	Number    string
	OwnerName string
}

// ListCheckingAccounts returns the member's checking accounts, the only ones money can leave from.
func (uc *AccountUseCase) ListCheckingAccounts(ctx context.Context, memberID string) ([]*domain.Account, error) {
	return uc.accountRepo.ListCheckingByMember(ctx, memberID)
}

// GetAccount returns an account owned by memberID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id, memberID string) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !account.OwnedBy(memberID) {
		return nil, domain.ErrUnauthorized
	}

	return account, nil
}

// LookupReceivingAccount resolves a destination by bank name and number.
func (uc *AccountUseCase) LookupReceivingAccount(ctx context.Context, bankName, number string) (*ReceivingAccount, error) {
	if err := domain.ValidateAccountRef(bankName, number); err != nil {
		return nil, err
	}

	account, err := uc.accountRepo.GetByBankAndNumber(ctx, bankName, number)
	if err != nil {
		return nil, err
	}

	owner, err := uc.memberRepo.GetByID(ctx, account.MemberID)
	if err != nil {
		return nil, err
	}

	return &ReceivingAccount{
		BankName:  account.BankName,
		Number:    account.Number,
		OwnerName: owner.Name,
	}, nil
}
