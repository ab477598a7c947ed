package usecase

import (
	"context"
	"time"

	"github.com/iho/autotransfer/internal/domain"
)

const verifyPageSize = 200

// LedgerUseCase checks that transaction lines reproduce account balances.
type LedgerUseCase struct {
	accountRepo AccountRepository
	ledgerRepo  LedgerRepository
	now         func() time.Time
}

// NewLedgerUseCase creates a new LedgerUseCase.
func NewLedgerUseCase(accountRepo AccountRepository, ledgerRepo LedgerRepository) *LedgerUseCase {
	return &LedgerUseCase{
		accountRepo: accountRepo,
		ledgerRepo:  ledgerRepo,
		now:         time.Now,
	}
}

// ReconciliationResult is the outcome of replaying one account's ledger.
type ReconciliationResult struct {
	LastChecked     time.Time               `json:"last_checked"`
	AccountID       string                  `json:"account_id"`
	Mismatches      []domain.LedgerMismatch `json:"mismatches,omitempty"`
	RecordedBalance int64                   `json:"recorded_balance"`
	ReplayedBalance int64                   `json:"replayed_balance"`
	Transactions    int                     `json:"transactions"`
	IsReconciled    bool                    `json:"is_reconciled"`
}

// VerifyAccount replays an account's transactions from zero. Every prefix sum must
// match the recorded updated balance, and the last one must equal the account balance.
func (uc *LedgerUseCase) VerifyAccount(ctx context.Context, accountID string) (*ReconciliationResult, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	return uc.verify(ctx, account)
}

// VerifyAll replays every account and returns the ones that do not reconcile.
func (uc *LedgerUseCase) VerifyAll(ctx context.Context) ([]*ReconciliationResult, error) {
	var broken []*ReconciliationResult

	for offset := 0; ; offset += verifyPageSize {
		accounts, err := uc.accountRepo.List(ctx, verifyPageSize, offset)
		if err != nil {
			return nil, err
		}

		for _, account := range accounts {
			result, err := uc.verify(ctx, account)
			if err != nil {
				return nil, err
			}

			if !result.IsReconciled {
				broken = append(broken, result)
			}
		}

		if len(accounts) < verifyPageSize {
			return broken, nil
		}
	}
}

// ListTransactions returns the ledger lines of an account owned by memberID, oldest first.
func (uc *LedgerUseCase) ListTransactions(ctx context.Context, accountID, memberID string) ([]*domain.Transaction, error) {
	account, err := uc.accountRepo.GetByID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	if !account.OwnedBy(memberID) {
		return nil, domain.ErrUnauthorized
	}

	return uc.ledgerRepo.ListByAccount(ctx, accountID)
}

func (uc *LedgerUseCase) verify(ctx context.Context, account *domain.Account) (*ReconciliationResult, error) {
	lines, err := uc.ledgerRepo.ListByAccount(ctx, account.ID)
	if err != nil {
		return nil, err
	}

	replayed, mismatches := domain.ReplayLedger(lines)

	return &ReconciliationResult{
		AccountID:       account.ID,
		RecordedBalance: account.Balance,
		ReplayedBalance: replayed,
		Transactions:    len(lines),
		Mismatches:      mismatches,
		IsReconciled:    len(mismatches) == 0 && replayed == account.Balance,
		LastChecked:     uc.now().UTC(),
	}, nil
}
