package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/iho/autotransfer/internal/domain"
	"github.com/iho/autotransfer/internal/infrastructure/postgres/generated"
)

// AutoTransferRepository implements usecase.AutoTransferRepository.
type AutoTransferRepository struct {
	queries *generated.Queries
}

// NewAutoTransferRepository creates a new AutoTransferRepository.
func NewAutoTransferRepository(db generated.DBTX) *AutoTransferRepository {
	return &AutoTransferRepository{queries: generated.New(db)}
}

// Create stores a new auto-transfer.
func (r *AutoTransferRepository) Create(ctx context.Context, t *domain.AutoTransfer) error {
	return r.queries.CreateAutoTransfer(ctx, generated.CreateAutoTransferParams{
		ID:                  t.ID,
		AccountID:           t.AccountID,
		MemberID:            t.MemberID,
		TargetBankName:      t.TargetBankName,
		TargetAccountNumber: t.TargetAccountNumber,
		Amount:              t.Amount,
		TransferDay:         int32(t.TransferDay),
		Status:              string(t.Status),
		CreatedAt:           timestamptz(t.CreatedAt),
		UpdatedAt:           timestamptz(t.UpdatedAt),
	})
}

// GetByID returns an auto-transfer with its source account number.
func (r *AutoTransferRepository) GetByID(ctx context.Context, id string) (*domain.AutoTransfer, error) {
	row, err := r.queries.GetAutoTransferByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAutoTransferNotFound
		}
		return nil, err
	}

	return toAutoTransfer(row.AutoTransfer, row.SourceAccountNumber), nil
}

// ListByMember returns the member's auto-transfers, oldest first.
func (r *AutoTransferRepository) ListByMember(ctx context.Context, memberID string) ([]*domain.AutoTransfer, error) {
	rows, err := r.queries.ListAutoTransfersByMember(ctx, memberID)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.AutoTransfer, 0, len(rows))
	for _, row := range rows {
		out = append(out, toAutoTransfer(row.AutoTransfer, row.SourceAccountNumber))
	}

	return out, nil
}

// ListActiveByDays returns ACTIVE auto-transfers scheduled on any of days.
func (r *AutoTransferRepository) ListActiveByDays(ctx context.Context, days []int) ([]*domain.AutoTransfer, error) {
	if len(days) == 0 {
		return nil, nil
	}

	pgDays := make([]int32, len(days))
	for i, d := range days {
		pgDays[i] = int32(d)
	}

	rows, err := r.queries.ListActiveAutoTransfersByDays(ctx, pgDays)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.AutoTransfer, 0, len(rows))
	for _, row := range rows {
		out = append(out, toAutoTransfer(row.AutoTransfer, row.SourceAccountNumber))
	}

	return out, nil
}

// ListByStatus returns auto-transfers in the given status.
func (r *AutoTransferRepository) ListByStatus(ctx context.Context, status domain.AutoTransferStatus) ([]*domain.AutoTransfer, error) {
	rows, err := r.queries.ListAutoTransfersByStatus(ctx, string(status))
	if err != nil {
		return nil, err
	}

	out := make([]*domain.AutoTransfer, 0, len(rows))
	for _, row := range rows {
		out = append(out, toAutoTransfer(row.AutoTransfer, row.SourceAccountNumber))
	}

	return out, nil
}

// Update stores amount, day and status.
func (r *AutoTransferRepository) Update(ctx context.Context, t *domain.AutoTransfer) error {
	n, err := r.queries.UpdateAutoTransfer(ctx, generated.UpdateAutoTransferParams{
		ID:          t.ID,
		Amount:      t.Amount,
		TransferDay: int32(t.TransferDay),
		Status:      string(t.Status),
		UpdatedAt:   timestamptz(t.UpdatedAt),
	})

	return affected(n, err, domain.ErrAutoTransferNotFound)
}

// UpdateStatus changes the status of an auto-transfer.
func (r *AutoTransferRepository) UpdateStatus(ctx context.Context, id string, status domain.AutoTransferStatus, updatedAt time.Time) error {
	n, err := r.queries.UpdateAutoTransferStatus(ctx, generated.UpdateAutoTransferStatusParams{
		ID:        id,
		Status:    string(status),
		UpdatedAt: timestamptz(updatedAt),
	})

	return affected(n, err, domain.ErrAutoTransferNotFound)
}

// Delete removes an auto-transfer.
func (r *AutoTransferRepository) Delete(ctx context.Context, id string) error {
	n, err := r.queries.DeleteAutoTransfer(ctx, id)
	return affected(n, err, domain.ErrAutoTransferNotFound)
}

func toAutoTransfer(t generated.AutoTransfer, sourceNumber string) *domain.AutoTransfer {
	return &domain.AutoTransfer{
		ID:                  t.ID,
		AccountID:           t.AccountID,
		MemberID:            t.MemberID,
		SourceAccountNumber: sourceNumber,
		TargetBankName:      t.TargetBankName,
		TargetAccountNumber: t.TargetAccountNumber,
		Amount:              t.Amount,
		TransferDay:         int(t.TransferDay),
		Status:              domain.AutoTransferStatus(t.Status),
		CreatedAt:           t.CreatedAt.Time,
		UpdatedAt:           t.UpdatedAt.Time,
	}
}

func affected(n int64, err error, notFound error) error {
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
