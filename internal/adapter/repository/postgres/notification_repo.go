package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/iho/autotransfer/internal/domain"
	"github.com/iho/autotransfer/internal/infrastructure/postgres/generated"
)

// NotificationRepository implements usecase.NotificationRepository.
type NotificationRepository struct {
	queries *generated.Queries
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(db generated.DBTX) *NotificationRepository {
	return &NotificationRepository{queries: generated.New(db)}
}

// Create stores a notification.
func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	return r.queries.CreateNotification(ctx, generated.CreateNotificationParams{
		ID:        n.ID,
		MemberID:  n.MemberID,
		Kind:      string(n.Kind),
		Message:   n.Message,
		Read:      n.Read,
		Deleted:   n.Deleted,
		CreatedAt: timestamptz(n.CreatedAt),
	})
}

// GetByID returns a notification, including soft deleted ones.
func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	row, err := r.queries.GetNotificationByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotificationNotFound
		}
		return nil, err
	}

	return toNotification(row), nil
}

// ListByMember returns visible notifications, newest first.
func (r *NotificationRepository) ListByMember(ctx context.Context, memberID string, limit, offset int) ([]*domain.Notification, error) {
	rows, err := r.queries.ListNotificationsByMember(ctx, generated.ListNotificationsByMemberParams{
		MemberID: memberID,
		Limit:    int32(limit),
		Offset:   int32(offset),
	})
	if err != nil {
		return nil, err
	}

	out := make([]*domain.Notification, 0, len(rows))
	for _, row := range rows {
		out = append(out, toNotification(row))
	}

	return out, nil
}

// MarkRead flags a notification as read.
func (r *NotificationRepository) MarkRead(ctx context.Context, id string) error {
	n, err := r.queries.MarkNotificationRead(ctx, id)
	return affected(n, err, domain.ErrNotificationNotFound)
}

// SoftDelete hides a notification.
func (r *NotificationRepository) SoftDelete(ctx context.Context, id string) error {
	n, err := r.queries.SoftDeleteNotification(ctx, id)
	return affected(n, err, domain.ErrNotificationNotFound)
}

// CountUnread counts visible unread notifications.
func (r *NotificationRepository) CountUnread(ctx context.Context, memberID string) (int, error) {
	count, err := r.queries.CountUnreadNotifications(ctx, memberID)
	return int(count), err
}

func toNotification(n generated.Notification) *domain.Notification {
	return &domain.Notification{
		ID:        n.ID,
		MemberID:  n.MemberID,
		Kind:      domain.NotificationKind(n.Kind),
		Message:   n.Message,
		Read:      n.Read,
		Deleted:   n.Deleted,
		CreatedAt: n.CreatedAt.Time,
	}
}
