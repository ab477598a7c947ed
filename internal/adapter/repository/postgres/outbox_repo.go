package postgres

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/iho/autotransfer/internal/domain"
	"github.com/iho/autotransfer/internal/infrastructure/postgres/generated"
	"github.com/iho/autotransfer/internal/usecase"
)

// OutboxRepository implements usecase.OutboxRepository on the outbox_events table.
type OutboxRepository struct {
	queries *generated.Queries
}

// NewOutboxRepository creates a new OutboxRepository.
func NewOutboxRepository(db generated.DBTX) *OutboxRepository {
	return &OutboxRepository{queries: generated.New(db)}
}

// Create writes event inside tx so it commits or rolls back with the transfer.
func (r *OutboxRepository) Create(ctx context.Context, tx usecase.Transaction, event domain.Event) error {
	q, err := queriesFor(tx)
	if err != nil {
		return err
	}

	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return fmt.Errorf("encode outbox payload: %w", err)
	}

	return q.CreateOutboxEvent(ctx, generated.CreateOutboxEventParams{
		ID:          event.ID,
		AggregateID: event.AggregateID,
		EventType:   event.Type,
		Payload:     payload,
		CreatedAt:   timestamptz(event.CreatedAt),
	})
}

// GetUnpublished returns up to limit undelivered events, oldest first.
func (r *OutboxRepository) GetUnpublished(ctx context.Context, limit int) ([]domain.Event, error) {
	rows, err := r.queries.ListUnpublishedOutboxEvents(ctx, int32(limit))
	if err != nil {
		return nil, err
	}

	events := make([]domain.Event, 0, len(rows))
	for _, row := range rows {
		event, err := toEvent(row)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, nil
}

// MarkPublished records delivery. Marking an already delivered event is a no-op.
func (r *OutboxRepository) MarkPublished(ctx context.Context, id string, publishedAt time.Time) error {
	_, err := r.queries.MarkOutboxEventPublished(ctx, generated.MarkOutboxEventPublishedParams{
		ID:          id,
		PublishedAt: timestamptz(publishedAt),
	})
	return err
}

// DeletePublished removes events delivered before the cutoff.
func (r *OutboxRepository) DeletePublished(ctx context.Context, before time.Time) (int64, error) {
	return r.queries.DeletePublishedOutboxEvents(ctx, timestamptz(before))
}

func toEvent(row generated.OutboxEvent) (domain.Event, error) {
	var payload map[string]any
	if len(row.Payload) > 0 {
		dec := json.NewDecoder(bytes.NewReader(row.Payload))
		dec.UseNumber()
		if err := dec.Decode(&payload); err != nil {
			return domain.Event{}, fmt.Errorf("decode outbox event %s: %w", row.ID, err)
		}
	}

	return domain.Event{
		ID:          row.ID,
		AggregateID: row.AggregateID,
		Type:        row.EventType,
		Payload:     payload,
		CreatedAt:   row.CreatedAt.Time,
	}, nil
}
