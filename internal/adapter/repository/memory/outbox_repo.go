package memory

import (
	"context"
	"sort"
	"time"

	"github.com/iho/autotransfer/internal/domain"
	"github.com/iho/autotransfer/internal/usecase"
)

type outboxEntry struct {
	event       domain.Event
	publishedAt *time.Time
}

// OutboxRepository implements usecase.OutboxRepository. Events are staged on
// the transaction and become visible on Commit.
type OutboxRepository struct {
	store *Store
}

// NewOutboxRepository creates a new OutboxRepository.
func NewOutboxRepository(store *Store) *OutboxRepository {
	return &OutboxRepository{store: store}
}

// Create stages event on tx.
func (r *OutboxRepository) Create(_ context.Context, tx usecase.Transaction, event domain.Event) error {
	t, err := asTx(tx)
	if err != nil {
		return err
	}

	t.events = append(t.events, event)

	return nil
}

// GetUnpublished returns up to limit undelivered events, oldest first.
func (r *OutboxRepository) GetUnpublished(_ context.Context, limit int) ([]domain.Event, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var events []domain.Event
	for _, e := range r.store.outbox {
		if e.publishedAt == nil {
			events = append(events, e.event)
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		if events[i].CreatedAt.Equal(events[j].CreatedAt) {
			return events[i].ID < events[j].ID
		}
		return events[i].CreatedAt.Before(events[j].CreatedAt)
	})

	if limit > 0 && len(events) > limit {
		events = events[:limit]
	}

	return events, nil
}

// MarkPublished records delivery.
func (r *OutboxRepository) MarkPublished(_ context.Context, id string, publishedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if e, ok := r.store.outbox[id]; ok && e.publishedAt == nil {
		at := publishedAt
		e.publishedAt = &at
	}

	return nil
}

// DeletePublished removes events delivered before the cutoff.
func (r *OutboxRepository) DeletePublished(_ context.Context, before time.Time) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var n int64
	for id, e := range r.store.outbox {
		if e.publishedAt != nil && e.publishedAt.Before(before) {
			delete(r.store.outbox, id)
			n++
		}
	}

	return n, nil
}
