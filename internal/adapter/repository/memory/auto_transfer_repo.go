package memory

import (
	"context"
	"slices"
	"sort"
	"time"

	"github.com/iho/autotransfer/internal/domain"
)

// AutoTransferRepository implements usecase.AutoTransferRepository.
type AutoTransferRepository struct {
	store *Store
}

// NewAutoTransferRepository creates a new AutoTransferRepository.
func NewAutoTransferRepository(store *Store) *AutoTransferRepository {
	return &AutoTransferRepository{store: store}
}

// Create stores a new auto-transfer.
func (r *AutoTransferRepository) Create(_ context.Context, t *domain.AutoTransfer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	at := *t
	r.store.autoTransfers[t.ID] = &at

	return nil
}

// GetByID returns an auto-transfer.
func (r *AutoTransferRepository) GetByID(_ context.Context, id string) (*domain.AutoTransfer, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	t, ok := r.store.autoTransfers[id]
	if !ok {
		return nil, domain.ErrAutoTransferNotFound
	}

	at := *t
	return &at, nil
}

// ListByMember returns the member's auto-transfers, oldest first.
func (r *AutoTransferRepository) ListByMember(_ context.Context, memberID string) ([]*domain.AutoTransfer, error) {
	return r.filter(func(t *domain.AutoTransfer) bool { return t.MemberID == memberID }), nil
}

// ListActiveByDays returns ACTIVE auto-transfers scheduled on any of days.
func (r *AutoTransferRepository) ListActiveByDays(_ context.Context, days []int) ([]*domain.AutoTransfer, error) {
	return r.filter(func(t *domain.AutoTransfer) bool {
		return t.Status == domain.AutoTransferActive && slices.Contains(days, t.TransferDay)
	}), nil
}

// ListByStatus returns auto-transfers in the given status.
func (r *AutoTransferRepository) ListByStatus(_ context.Context, status domain.AutoTransferStatus) ([]*domain.AutoTransfer, error) {
	return r.filter(func(t *domain.AutoTransfer) bool { return t.Status == status }), nil
}

// Update stores amount, day and status.
func (r *AutoTransferRepository) Update(_ context.Context, t *domain.AutoTransfer) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cur, ok := r.store.autoTransfers[t.ID]
	if !ok {
		return domain.ErrAutoTransferNotFound
	}

	cur.Amount = t.Amount
	cur.TransferDay = t.TransferDay
	cur.Status = t.Status
	cur.UpdatedAt = t.UpdatedAt

	return nil
}

// UpdateStatus changes the status of an auto-transfer.
func (r *AutoTransferRepository) UpdateStatus(_ context.Context, id string, status domain.AutoTransferStatus, updatedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	cur, ok := r.store.autoTransfers[id]
	if !ok {
		return domain.ErrAutoTransferNotFound
	}

	cur.Status = status
	cur.UpdatedAt = updatedAt

	return nil
}

// Delete removes an auto-transfer.
func (r *AutoTransferRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.autoTransfers[id]; !ok {
		return domain.ErrAutoTransferNotFound
	}

	delete(r.store.autoTransfers, id)

	return nil
}

func (r *AutoTransferRepository) filter(keep func(*domain.AutoTransfer) bool) []*domain.AutoTransfer {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var out []*domain.AutoTransfer
	for _, t := range r.store.autoTransfers {
		if keep(t) {
			at := *t
			out = append(out, &at)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})

	return out
}
