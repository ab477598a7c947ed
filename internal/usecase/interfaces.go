package usecase

import (
	"context"
	"time"

	"github.com/iho/autotransfer/internal/domain"
)

// AccountRepository defines data access for accounts.
type AccountRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByBankAndNumber(ctx context.Context, bankName, number string) (*domain.Account, error)
	// GetByIDsForUpdate locks the rows in ascending id order and keeps them locked
	// until tx ends. It fails with domain.ErrLockTimeout when a lock cannot be taken in time.
	GetByIDsForUpdate(ctx context.Context, tx Transaction, ids []string) ([]*domain.Account, error)
	UpdateBalance(ctx context.Context, tx Transaction, id string, balance int64) error
	ListCheckingByMember(ctx context.Context, memberID string) ([]*domain.Account, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Account, error)
}

// LedgerRepository defines data access for the append-only transaction lines.
type LedgerRepository interface {
	Append(ctx context.Context, tx Transaction, line *domain.Transaction) error
	ListByAccount(ctx context.Context, accountID string) ([]*domain.Transaction, error)
}

// MemberRepository defines data access for members.
type MemberRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Member, error)
}

// CategoryRepository defines data access for transaction categories.
type CategoryRepository interface {
	GetByName(ctx context.Context, name string) (*domain.Category, error)
}

// AutoTransferRepository defines data access for recurring transfers.
type AutoTransferRepository interface {
	Create(ctx context.Context, t *domain.AutoTransfer) error
	GetByID(ctx context.Context, id string) (*domain.AutoTransfer, error)
	ListByMember(ctx context.Context, memberID string) ([]*domain.AutoTransfer, error)
	ListActiveByDays(ctx context.Context, days []int) ([]*domain.AutoTransfer, error)
	ListByStatus(ctx context.Context, status domain.AutoTransferStatus) ([]*domain.AutoTransfer, error)
	Update(ctx context.Context, t *domain.AutoTransfer) error
	UpdateStatus(ctx context.Context, id string, status domain.AutoTransferStatus, updatedAt time.Time) error
	Delete(ctx context.Context, id string) error
}

// NotificationRepository defines data access for member notifications.
type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	ListByMember(ctx context.Context, memberID string, limit, offset int) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id string) error
	SoftDelete(ctx context.Context, id string) error
	CountUnread(ctx context.Context, memberID string) (int, error)
}

// NotificationCache keeps recent notifications per member for replay after a reconnect.
type NotificationCache interface {
	Append(ctx context.Context, n *domain.Notification) error
	// Since returns cached notifications created after lastEventID, oldest first.
	// An unknown or empty lastEventID returns everything cached.
	Since(ctx context.Context, memberID, lastEventID string) ([]*domain.Notification, error)
}

// OutboxRepository stores events in the same transaction as the state change
// they describe. A relay delivers them after commit.
type OutboxRepository interface {
	Create(ctx context.Context, tx Transaction, event domain.Event) error
	// GetUnpublished returns undelivered events, oldest first.
	GetUnpublished(ctx context.Context, limit int) ([]domain.Event, error)
	MarkPublished(ctx context.Context, id string, publishedAt time.Time) error
	// DeletePublished removes events delivered before the cutoff.
	DeletePublished(ctx context.Context, before time.Time) (int64, error)
}

// EventPublisher publishes committed events to downstream consumers.
type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// Notifier informs a member about an outcome. It never fails the caller.
type Notifier interface {
	Notify(ctx context.Context, memberID string, kind domain.NotificationKind, message string)
}

// CredentialVerifier checks a plaintext credential against a stored hash.
type CredentialVerifier interface {
	Verify(credential, hash string) bool
}

// TransferExecutor runs a single transfer.
type TransferExecutor interface {
	Execute(ctx context.Context, input domain.TransferInput) (*domain.TransferResult, error)
}

// AutoTransferStatusMarker records the outcome of a scheduled execution.
type AutoTransferStatusMarker interface {
	MarkFailed(ctx context.Context, id string) error
	MarkActive(ctx context.Context, id string) error
}

// RunLocker guards batch runs so only one instance executes a run at a time.
type RunLocker interface {
	// TryLock returns ok=false when another holder owns the lock.
	TryLock(ctx context.Context, name string) (unlock func(), ok bool, err error)
}

// Retrier retries an operation on transient storage errors.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// Transaction represents a database transaction. Locks taken inside it are
// released on Commit or Rollback.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
}
