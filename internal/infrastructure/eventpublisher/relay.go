package eventpublisher

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/autotransfer/internal/infrastructure/metrics"
	"github.com/iho/autotransfer/internal/usecase"
)

// RelayConfig configures a Relay.
type RelayConfig struct {
	Outbox    usecase.OutboxRepository
	Publisher usecase.EventPublisher
	Logger    zerolog.Logger
	Metrics   *metrics.Metrics
	BatchSize int           // events fetched per poll
	Interval  time.Duration // polling interval
	Retention time.Duration // published events older than this are deleted
	Now       func() time.Time
}

// Relay delivers committed outbox events to a publisher. Delivery is at least
// once: an event published but not marked is sent again on the next poll.
type Relay struct {
	outbox    usecase.OutboxRepository
	publisher usecase.EventPublisher
	logger    zerolog.Logger
	metrics   *metrics.Metrics
	batchSize int
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
}

// NewRelay creates a new Relay.
func NewRelay(cfg RelayConfig) *Relay {
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 5 * time.Second
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 24 * time.Hour
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}

	return &Relay{
		outbox:    cfg.Outbox,
		publisher: cfg.Publisher,
		logger:    cfg.Logger.With().Str("component", "outbox_relay").Logger(),
		metrics:   cfg.Metrics,
		batchSize: cfg.BatchSize,
		interval:  cfg.Interval,
		retention: cfg.Retention,
		now:       cfg.Now,
	}
}

// Start polls the outbox until ctx is cancelled.
func (r *Relay) Start(ctx context.Context) error {
	r.logger.Info().Int("batch_size", r.batchSize).Dur("interval", r.interval).Msg("outbox relay started")

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	r.poll(ctx)

	for {
		select {
		case <-ctx.Done():
			r.logger.Info().Msg("outbox relay shutting down")
			return ctx.Err()
		case <-ticker.C:
			r.poll(ctx)
		}
	}
}

func (r *Relay) poll(ctx context.Context) {
	if _, err := r.ProcessBatch(ctx); err != nil {
		r.logger.Error().Err(err).Msg("error processing outbox")
	}

	deleted, err := r.outbox.DeletePublished(ctx, r.now().Add(-r.retention))
	if err != nil {
		r.logger.Warn().Err(err).Msg("failed to prune published outbox events")
	} else if deleted > 0 {
		r.logger.Debug().Int64("deleted", deleted).Msg("pruned published outbox events")
	}
}

// ProcessBatch publishes one batch of undelivered events and returns how many
// were delivered. A failed event is left for the next poll and later events
// are still attempted.
func (r *Relay) ProcessBatch(ctx context.Context) (int, error) {
	events, err := r.outbox.GetUnpublished(ctx, r.batchSize)
	if err != nil {
		return 0, err
	}

	delivered := 0
	for _, event := range events {
		err := r.publisher.Publish(ctx, event)
		r.metrics.ObserveOutboxEvent(event.Type, err)
		if err != nil {
			r.logger.Error().Err(err).
				Str("event_id", event.ID).
				Str("event_type", event.Type).
				Msg("failed to publish event")
			continue
		}

		if err := r.outbox.MarkPublished(ctx, event.ID, r.now()); err != nil {
			r.logger.Error().Err(err).Str("event_id", event.ID).Msg("failed to mark event as published")
			continue
		}
		delivered++
	}

	return delivered, nil
}
