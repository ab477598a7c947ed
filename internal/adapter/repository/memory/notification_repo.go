package memory

import (
	"context"
	"sort"

	"github.com/iho/autotransfer/internal/domain"
)

// NotificationRepository implements usecase.NotificationRepository.
type NotificationRepository struct {
	store *Store
}

// NewNotificationRepository creates a new NotificationRepository.
func NewNotificationRepository(store *Store) *NotificationRepository {
	return &NotificationRepository{store: store}
}

// Create stores a notification.
func (r *NotificationRepository) Create(_ context.Context, n *domain.Notification) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	c := *n
	r.store.notifications[n.ID] = &c

	return nil
}

// GetByID returns a notification, including soft deleted ones.
func (r *NotificationRepository) GetByID(_ context.Context, id string) (*domain.Notification, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	n, ok := r.store.notifications[id]
	if !ok {
		return nil, domain.ErrNotificationNotFound
	}

	c := *n
	return &c, nil
}

// ListByMember returns visible notifications, newest first.
func (r *NotificationRepository) ListByMember(_ context.Context, memberID string, limit, offset int) ([]*domain.Notification, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*domain.Notification
	for _, n := range r.store.notifications {
		if n.MemberID == memberID && !n.Deleted {
			c := *n
			out = append(out, &c)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	if offset >= len(out) {
		return nil, nil
	}

	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}

	return out, nil
}

// MarkRead flags a notification as read.
func (r *NotificationRepository) MarkRead(_ context.Context, id string) error {
	return r.mutate(id, func(n *domain.Notification) { n.Read = true })
}

// SoftDelete hides a notification.
func (r *NotificationRepository) SoftDelete(_ context.Context, id string) error {
	return r.mutate(id, func(n *domain.Notification) { n.Deleted = true })
}

// CountUnread counts visible unread notifications.
func (r *NotificationRepository) CountUnread(_ context.Context, memberID string) (int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	count := 0
	for _, n := range r.store.notifications {
		if n.MemberID == memberID && !n.Read && !n.Deleted {
			count++
		}
	}

	return count, nil
}

func (r *NotificationRepository) mutate(id string, fn func(*domain.Notification)) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	n, ok := r.store.notifications[id]
	if !ok {
		return domain.ErrNotificationNotFound
	}

	fn(n)

	return nil
}
