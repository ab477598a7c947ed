package postgres

import (
	"context"
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/autotransfer/internal/domain"
)

func TestOutboxRepositoryCreateWritesInsideTransaction(t *testing.T) {
	mock := newMockPool(t)
	repo := NewOutboxRepository(mock)
	at := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO outbox_events")).
		WithArgs("ev-1", "acc-1", domain.EventTypeTransferCompleted, []byte(`{"amount":100}`), pgtype.Timestamptz{Time: at, Valid: true}).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectRollback()

	tx, err := NewTxManager(mock, 0).Begin(context.Background())
	require.NoError(t, err)

	require.NoError(t, repo.Create(context.Background(), tx, domain.Event{
		ID:          "ev-1",
		AggregateID: "acc-1",
		Type:        domain.EventTypeTransferCompleted,
		Payload:     map[string]any{"amount": 100},
		CreatedAt:   at,
	}))
	require.NoError(t, tx.Rollback(context.Background()))

	assertExpectations(t, mock)
}

func TestOutboxRepositoryCreateRejectsForeignTransaction(t *testing.T) {
	repo := NewOutboxRepository(newMockPool(t))

	err := repo.Create(context.Background(), nil, domain.Event{ID: "ev-1"})
	assert.ErrorIs(t, err, ErrForeignTransaction)
}

func TestOutboxRepositoryGetUnpublishedKeepsExactAmounts(t *testing.T) {
	mock := newMockPool(t)
	repo := NewOutboxRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE published_at IS NULL")).
		WithArgs(int32(50)).
		WillReturnRows(pgxmock.NewRows([]string{"id", "aggregate_id", "event_type", "payload", "created_at", "published_at"}).
			AddRow("ev-1", "acc-1", domain.EventTypeTransferCompleted, []byte(`{"amount":9007199254740993}`), created, pgtype.Timestamptz{}))

	events, err := repo.GetUnpublished(context.Background(), 50)
	require.NoError(t, err)
	require.Len(t, events, 1)

	assert.Equal(t, "ev-1", events[0].ID)
	assert.Equal(t, json.Number("9007199254740993"), events[0].Payload["amount"])
	assertExpectations(t, mock)
}

func TestOutboxRepositoryMarkAndPrune(t *testing.T) {
	mock := newMockPool(t)
	repo := NewOutboxRepository(mock)
	at := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE outbox_events SET published_at")).
		WithArgs("ev-1", pgtype.Timestamptz{Time: at, Valid: true}).
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM outbox_events")).
		WithArgs(pgtype.Timestamptz{Time: at, Valid: true}).
		WillReturnResult(pgxmock.NewResult("DELETE", 3))

	require.NoError(t, repo.MarkPublished(context.Background(), "ev-1", at), "marking twice is not an error")

	deleted, err := repo.DeletePublished(context.Background(), at)
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)
	assertExpectations(t, mock)
}
