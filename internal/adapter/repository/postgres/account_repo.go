package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/autotransfer/internal/domain"
	"github.com/iho/autotransfer/internal/infrastructure/postgres/generated"
	"github.com/iho/autotransfer/internal/usecase"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{queries: generated.New(db)}
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	return toAccount(row.Account, row.BankName), nil
}

// GetByBankAndNumber retrieves an account by its bank name and account number.
func (r *AccountRepository) GetByBankAndNumber(ctx context.Context, bankName, number string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByBankAndNumber(ctx, generated.GetAccountByBankAndNumberParams{
		Name:   bankName,
		Number: number,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, err
	}

	return toAccount(row.Account, row.BankName), nil
}

// GetByIDsForUpdate locks the accounts in ascending id order.
func (r *AccountRepository) GetByIDsForUpdate(ctx context.Context, tx usecase.Transaction, ids []string) ([]*domain.Account, error) {
	q, err := queriesFor(tx)
	if err != nil {
		return nil, err
	}

	rows, err := q.GetAccountsByIDsForUpdate(ctx, ids)
	if err != nil {
		return nil, mapLockError(err)
	}

	if len(rows) != len(ids) {
		return nil, domain.ErrAccountNotFound
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, toAccount(row.Account, row.BankName))
	}

	return accounts, nil
}

// UpdateBalance sets the balance of a locked account.
func (r *AccountRepository) UpdateBalance(ctx context.Context, tx usecase.Transaction, id string, balance int64) error {
	q, err := queriesFor(tx)
	if err != nil {
		return err
	}

	return q.UpdateAccountBalance(ctx, generated.UpdateAccountBalanceParams{
		ID:      id,
		Balance: balance,
	})
}

// ListCheckingByMember returns the member's checking accounts ordered by number.
func (r *AccountRepository) ListCheckingByMember(ctx context.Context, memberID string) ([]*domain.Account, error) {
	rows, err := r.queries.ListCheckingAccountsByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, toAccount(row.Account, row.BankName))
	}

	return accounts, nil
}

// List lists accounts with pagination.
func (r *AccountRepository) List(ctx context.Context, limit, offset int) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccounts(ctx, generated.ListAccountsParams{
		Limit:  int32(limit),
		Offset: int32(offset),
	})
	if err != nil {
		return nil, err
	}

	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, toAccount(row.Account, row.BankName))
	}

	return accounts, nil
}

func toAccount(a generated.Account, bankName string) *domain.Account {
	return &domain.Account{
		ID:             a.ID,
		MemberID:       a.MemberID,
		BankID:         a.BankID,
		BankName:       bankName,
		Name:           a.Name,
		Number:         a.Number,
		Type:           domain.AccountType(a.Type),
		CredentialHash: a.CredentialHash,
		Balance:        a.Balance,
		CreatedAt:      a.CreatedAt.Time,
		MaturedAt:      optionalTime(a.MaturedAt),
	}
}
