package usecase

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/iho/autotransfer/internal/domain"
	"github.com/iho/autotransfer/internal/infrastructure/metrics"
)

// NotificationUseCase stores member notifications and fans them out to the
// replay cache and the broker. It is the process-scoped notification registry.
type NotificationUseCase struct {
	repo      NotificationRepository
	cache     NotificationCache
	publisher EventPublisher
	metrics   *metrics.Metrics
	idGen     IDGenerator
	logger    zerolog.Logger
	now       func() time.Time
}

// NewNotificationUseCase creates a new NotificationUseCase.
func NewNotificationUseCase(repo NotificationRepository, idGen IDGenerator, logger zerolog.Logger) *NotificationUseCase {
	return &NotificationUseCase{
		repo:   repo,
		idGen:  idGen,
		logger: logger.With().Str("component", "notifications").Logger(),
		now:    time.Now,
	}
}

// WithCache enables replay of recent notifications.
func (uc *NotificationUseCase) WithCache(c NotificationCache) *NotificationUseCase {
	uc.cache = c
	return uc
}

// WithPublisher enables publishing of created notifications.
func (uc *NotificationUseCase) WithPublisher(p EventPublisher) *NotificationUseCase {
	uc.publisher = p
	return uc
}

// WithMetrics counts stored notifications and delivery errors.
func (uc *NotificationUseCase) WithMetrics(m *metrics.Metrics) *NotificationUseCase {
	uc.metrics = m
	return uc
}

// WithClock replaces the time source.
func (uc *NotificationUseCase) WithClock(now func() time.Time) *NotificationUseCase {
	uc.now = now
	return uc
}

// Notify implements Notifier. Failures are logged and discarded.
func (uc *NotificationUseCase) Notify(ctx context.Context, memberID string, kind domain.NotificationKind, message string) {
	n := &domain.Notification{
		ID:        uc.idGen.Generate(),
		MemberID:  memberID,
		Kind:      kind,
		Message:   message,
		CreatedAt: uc.now().UTC(),
	}

	log := uc.logger.With().Str("member_id", memberID).Str("kind", string(kind)).Logger()

	err := uc.repo.Create(ctx, n)
	uc.metrics.ObserveNotification(kind, metrics.StagePersist, err)
	if err != nil {
		log.Error().Err(err).Msg("failed to store notification")
		return
	}

	if uc.cache != nil {
		if err := uc.cache.Append(ctx, n); err != nil {
			uc.metrics.ObserveNotification(kind, metrics.StageCache, err)
			log.Warn().Err(err).Msg("failed to cache notification")
		}
	}

	if uc.publisher != nil {
		if err := uc.publisher.Publish(ctx, domain.NewNotificationEvent(n)); err != nil {
			uc.metrics.ObserveNotification(kind, metrics.StagePublish, err)
			log.Warn().Err(err).Msg("failed to publish notification")
		}
	}
}

// List returns the member's notifications, newest first.
func (uc *NotificationUseCase) List(ctx context.Context, memberID string, limit, offset int) ([]*domain.Notification, error) {
	limit, offset = domain.ValidatePagination(limit, offset)
	return uc.repo.ListByMember(ctx, memberID, limit, offset)
}

// MarkRead flags one of the member's notifications as read.
func (uc *NotificationUseCase) MarkRead(ctx context.Context, id, memberID string) error {
	if _, err := uc.owned(ctx, id, memberID); err != nil {
		return err
	}
	return uc.repo.MarkRead(ctx, id)
}

// Delete hides one of the member's notifications.
func (uc *NotificationUseCase) Delete(ctx context.Context, id, memberID string) error {
	if _, err := uc.owned(ctx, id, memberID); err != nil {
		return err
	}
	return uc.repo.SoftDelete(ctx, id)
}

// UnreadCount returns the number of unread notifications.
func (uc *NotificationUseCase) UnreadCount(ctx context.Context, memberID string) (int, error) {
	return uc.repo.CountUnread(ctx, memberID)
}

// ReplaySince returns cached notifications newer than lastEventID.
func (uc *NotificationUseCase) ReplaySince(ctx context.Context, memberID, lastEventID string) ([]*domain.Notification, error) {
	if uc.cache == nil {
		return nil, nil
	}
	return uc.cache.Since(ctx, memberID, lastEventID)
}

func (uc *NotificationUseCase) owned(ctx context.Context, id, memberID string) (*domain.Notification, error) {
	n, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if n.MemberID != memberID || n.Deleted {
		return nil, domain.ErrNotificationNotFound
	}

	return n, nil
}
