package eventpublisher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iho/autotransfer/internal/adapter/repository/memory"
	"github.com/iho/autotransfer/internal/domain"
	"github.com/iho/autotransfer/internal/infrastructure/metrics"
)

type funcPublisher struct {
	publish func(ctx context.Context, event domain.Event) error
	sent    []string
}

func (p *funcPublisher) Publish(ctx context.Context, event domain.Event) error {
	if p.publish != nil {
		if err := p.publish(ctx, event); err != nil {
			return err
		}
	}
	p.sent = append(p.sent, event.ID)
	return nil
}

func outboxEvent(id string, at time.Time) domain.Event {
	return domain.Event{ID: id, AggregateID: "acc-a", Type: domain.EventTypeTransferCompleted, CreatedAt: at}
}

// seedOutbox commits events through a store transaction, or rolls them back.
func seedOutbox(t *testing.T, store *memory.Store, outbox *memory.OutboxRepository, commit bool, events ...domain.Event) {
	t.Helper()

	tx, err := store.Begin(t.Context())
	require.NoError(t, err)
	for _, e := range events {
		require.NoError(t, outbox.Create(t.Context(), tx, e))
	}

	if commit {
		require.NoError(t, tx.Commit(t.Context()))
		return
	}
	require.NoError(t, tx.Rollback(t.Context()))
}

func TestRelayDeliversCommittedEventsInOrder(t *testing.T) {
	store := memory.NewStore(time.Second)
	outbox := memory.NewOutboxRepository(store)
	base := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)

	seedOutbox(t, store, outbox, true, outboxEvent("e-2", base.Add(time.Second)), outboxEvent("e-1", base))
	seedOutbox(t, store, outbox, false, outboxEvent("e-rolled-back", base))

	publisher := &funcPublisher{}
	m := metrics.New(prometheus.NewRegistry())
	relay := NewRelay(RelayConfig{Outbox: outbox, Publisher: publisher, Logger: zerolog.Nop(), Metrics: m})

	delivered, err := relay.ProcessBatch(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, delivered)
	assert.Equal(t, []string{"e-1", "e-2"}, publisher.sent)
	assert.Equal(t, float64(2), testutil.ToFloat64(m.OutboxEvents.WithLabelValues(domain.EventTypeTransferCompleted, "published")))

	delivered, err = relay.ProcessBatch(t.Context())
	require.NoError(t, err)
	assert.Zero(t, delivered, "published events must not be sent again")
}

func TestRelayKeepsFailedEventsForNextPoll(t *testing.T) {
	store := memory.NewStore(time.Second)
	outbox := memory.NewOutboxRepository(store)
	base := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	seedOutbox(t, store, outbox, true, outboxEvent("e-1", base), outboxEvent("e-2", base.Add(time.Second)))

	brokerDown := true
	publisher := &funcPublisher{publish: func(_ context.Context, e domain.Event) error {
		if brokerDown && e.ID == "e-1" {
			return ErrBrokerUnavailable
		}
		return nil
	}}
	relay := NewRelay(RelayConfig{Outbox: outbox, Publisher: publisher, Logger: zerolog.Nop()})

	delivered, err := relay.ProcessBatch(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)

	pending, err := outbox.GetUnpublished(t.Context(), 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, "e-1", pending[0].ID)

	brokerDown = false
	delivered, err = relay.ProcessBatch(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 1, delivered)
	assert.Equal(t, []string{"e-2", "e-1"}, publisher.sent)
}

func TestRelayPrunesOldPublishedEvents(t *testing.T) {
	store := memory.NewStore(time.Second)
	outbox := memory.NewOutboxRepository(store)
	now := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	seedOutbox(t, store, outbox, true, outboxEvent("e-old", now.Add(-48*time.Hour)), outboxEvent("e-new", now))

	require.NoError(t, outbox.MarkPublished(t.Context(), "e-old", now.Add(-47*time.Hour)))

	relay := NewRelay(RelayConfig{
		Outbox:    outbox,
		Publisher: &funcPublisher{},
		Logger:    zerolog.Nop(),
		Retention: time.Hour,
		Now:       func() time.Time { return now },
	})
	relay.poll(t.Context())

	deleted, err := outbox.DeletePublished(t.Context(), now.Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted, "only the event published by this poll should remain to prune")
}

func TestRelayStopsOnCancel(t *testing.T) {
	store := memory.NewStore(time.Second)
	relay := NewRelay(RelayConfig{
		Outbox:    memory.NewOutboxRepository(store),
		Publisher: &funcPublisher{},
		Logger:    zerolog.Nop(),
		Interval:  time.Millisecond,
	})

	ctx, cancel := context.WithCancel(t.Context())
	done := make(chan error, 1)
	go func() { done <- relay.Start(ctx) }()

	cancel()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(time.Second):
		t.Fatal("relay did not stop")
	}
}
