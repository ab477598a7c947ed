package usecase

import (
	"context"
	"time"

	"github.com/iho/autotransfer/internal/domain"
)

// AutoTransferUseCase manages recurring transfer definitions.
type AutoTransferUseCase struct {
	repo        AutoTransferRepository
	accountRepo AccountRepository
	idGen       IDGenerator
	now         func() time.Time
}

// NewAutoTransferUseCase creates a new AutoTransferUseCase.
func NewAutoTransferUseCase(repo AutoTransferRepository, accountRepo AccountRepository, idGen IDGenerator) *AutoTransferUseCase {
	return &AutoTransferUseCase{
		repo:        repo,
		accountRepo: accountRepo,
		idGen:       idGen,
		now:         time.Now,
	}
}

// WithClock replaces the time source.
func (uc *AutoTransferUseCase) WithClock(now func() time.Time) *AutoTransferUseCase {
	uc.now = now
	return uc
}

// CreateAutoTransferInput represents input for creating an auto-transfer.
type CreateAutoTransferInput struct {
	MemberID            string
	AccountID           string
	TargetBankName      string
	TargetAccountNumber string
	Amount              int64
	TransferDay         int
}

// UpdateAutoTransferInput represents input for updating an auto-transfer.
// An empty MemberID skips the ownership check.
type UpdateAutoTransferInput struct {
	ID          string
	MemberID    string
	Amount      int64
	TransferDay int
}

// Create registers a recurring transfer from one of the member's accounts.
// The destination must exist at creation time.
func (uc *AutoTransferUseCase) Create(ctx context.Context, input CreateAutoTransferInput) (*domain.AutoTransfer, error) {
	if err := domain.ValidateAmount(input.Amount); err != nil {
		return nil, err
	}

	if err := domain.ValidateTransferDay(input.TransferDay); err != nil {
		return nil, err
	}

	if err := domain.ValidateAccountRef(input.TargetBankName, input.TargetAccountNumber); err != nil {
		return nil, err
	}

	source, err := uc.accountRepo.GetByID(ctx, input.AccountID)
	if err != nil {
		return nil, err
	}

	if !source.OwnedBy(input.MemberID) {
		return nil, domain.ErrUnauthorized
	}

	dest, err := uc.accountRepo.GetByBankAndNumber(ctx, input.TargetBankName, input.TargetAccountNumber)
	if err != nil {
		return nil, err
	}

	if dest.ID == source.ID {
		return nil, domain.ErrSameAccount
	}

	at, err := domain.NewAutoTransfer(uc.idGen.Generate(), source, dest.BankName, dest.Number, input.Amount, input.TransferDay, uc.now().UTC())
	if err != nil {
		return nil, err
	}

	if err := uc.repo.Create(ctx, at); err != nil {
		return nil, err
	}

	return at, nil
}

// List returns all auto-transfers whose source account belongs to the member.
func (uc *AutoTransferUseCase) List(ctx context.Context, memberID string) ([]*domain.AutoTransfer, error) {
	return uc.repo.ListByMember(ctx, memberID)
}

// Get returns an auto-transfer. An empty memberID skips the ownership check.
func (uc *AutoTransferUseCase) Get(ctx context.Context, id, memberID string) (*domain.AutoTransfer, error) {
	at, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if memberID != "" && at.MemberID != memberID {
		return nil, domain.ErrUnauthorized
	}

	return at, nil
}

// Update changes amount and day and puts the transfer back to ACTIVE.
func (uc *AutoTransferUseCase) Update(ctx context.Context, input UpdateAutoTransferInput) (*domain.AutoTransfer, error) {
	at, err := uc.Get(ctx, input.ID, input.MemberID)
	if err != nil {
		return nil, err
	}

	if err := at.Update(input.Amount, input.TransferDay, uc.now().UTC()); err != nil {
		return nil, err
	}

	if err := uc.repo.Update(ctx, at); err != nil {
		return nil, err
	}

	return at, nil
}

// Toggle flips ACTIVE and INACTIVE. A FAILED transfer becomes ACTIVE.
func (uc *AutoTransferUseCase) Toggle(ctx context.Context, id, memberID string) (*domain.AutoTransfer, error) {
	at, err := uc.Get(ctx, id, memberID)
	if err != nil {
		return nil, err
	}

	at.Toggle(uc.now().UTC())

	if err := uc.repo.UpdateStatus(ctx, at.ID, at.Status, at.UpdatedAt); err != nil {
		return nil, err
	}

	return at, nil
}

// Delete removes an auto-transfer.
func (uc *AutoTransferUseCase) Delete(ctx context.Context, id, memberID string) error {
	if _, err := uc.Get(ctx, id, memberID); err != nil {
		return err
	}

	return uc.repo.Delete(ctx, id)
}

// MarkFailed records that an execution failed.
func (uc *AutoTransferUseCase) MarkFailed(ctx context.Context, id string) error {
	return uc.repo.UpdateStatus(ctx, id, domain.AutoTransferFailed, uc.now().UTC())
}

// MarkActive records that an execution succeeded.
func (uc *AutoTransferUseCase) MarkActive(ctx context.Context, id string) error {
	return uc.repo.UpdateStatus(ctx, id, domain.AutoTransferActive, uc.now().UTC())
}
