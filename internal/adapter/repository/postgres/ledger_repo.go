package postgres

import (
	"context"

	"github.com/iho/autotransfer/internal/domain"
	"github.com/iho/autotransfer/internal/infrastructure/postgres/generated"
	"github.com/iho/autotransfer/internal/usecase"
)

// LedgerRepository implements usecase.LedgerRepository over the transactions table.
type LedgerRepository struct {
	queries *generated.Queries
}

// NewLedgerRepository creates a new LedgerRepository.
func NewLedgerRepository(db generated.DBTX) *LedgerRepository {
	return &LedgerRepository{queries: generated.New(db)}
}

// Append writes a transaction line inside tx.
func (r *LedgerRepository) Append(ctx context.Context, tx usecase.Transaction, line *domain.Transaction) error {
	q, err := queriesFor(tx)
	if err != nil {
		return err
	}

	return q.CreateTransaction(ctx, generated.CreateTransactionParams{
		ID:             line.ID,
		AccountID:      line.AccountID,
		OpponentName:   line.OpponentName,
		Direction:      string(line.Direction),
		Amount:         line.Amount,
		UpdatedBalance: line.UpdatedBalance,
		CategoryID:     optionalText(line.CategoryID),
		CreatedAt:      timestamptz(line.CreatedAt),
	})
}

// ListByAccount returns an account's lines ordered by (created_at, id).
func (r *LedgerRepository) ListByAccount(ctx context.Context, accountID string) ([]*domain.Transaction, error) {
	rows, err := r.queries.ListTransactionsByAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	lines := make([]*domain.Transaction, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, &domain.Transaction{
			ID:             row.ID,
			AccountID:      row.AccountID,
			OpponentName:   row.OpponentName,
			CategoryID:     row.CategoryID.String,
			Direction:      domain.Direction(row.Direction),
			Amount:         row.Amount,
			UpdatedBalance: row.UpdatedBalance,
			CreatedAt:      row.CreatedAt.Time,
		})
	}

	return lines, nil
}
