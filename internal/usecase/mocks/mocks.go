package mocks

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/iho/autotransfer/internal/domain"
	"github.com/iho/autotransfer/internal/usecase"
)

// StubTransactionManager is a func-field implementation of TransactionManager.
type StubTransactionManager struct {
	BeginFunc func(ctx context.Context) (usecase.Transaction, error)
}

func NewStubTransactionManager() *StubTransactionManager {
	return &StubTransactionManager{}
}

func (m *StubTransactionManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	if m.BeginFunc != nil {
		return m.BeginFunc(ctx)
	}
	return &StubTransaction{}, nil
}

// StubTransaction is a func-field implementation of Transaction.
type StubTransaction struct {
	CommitFunc   func(ctx context.Context) error
	RollbackFunc func(ctx context.Context) error

	mu         sync.Mutex
	Committed  bool
	RolledBack bool
}

func (m *StubTransaction) Commit(ctx context.Context) error {
	if m.CommitFunc != nil {
		return m.CommitFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Committed = true
	return nil
}

func (m *StubTransaction) Rollback(ctx context.Context) error {
	if m.RollbackFunc != nil {
		return m.RollbackFunc(ctx)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.Committed {
		m.RolledBack = true
	}
	return nil
}

// StubIDGenerator is a func-field implementation of IDGenerator.
type StubIDGenerator struct {
	GenerateFunc func() string
	counter      int
	mu           sync.Mutex
}

func NewStubIDGenerator() *StubIDGenerator {
	return &StubIDGenerator{}
}

func (m *StubIDGenerator) Generate() string {
	if m.GenerateFunc != nil {
		return m.GenerateFunc()
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counter++
	return fmt.Sprintf("id-%06d", m.counter)
}

// StubCredentialVerifier compares credentials against hashes in plain text.
type StubCredentialVerifier struct {
	VerifyFunc func(credential, hash string) bool
}

func (m *StubCredentialVerifier) Verify(credential, hash string) bool {
	if m.VerifyFunc != nil {
		return m.VerifyFunc(credential, hash)
	}
	return credential == hash
}

// RecordingNotifier collects notifications in memory.
type RecordingNotifier struct {
	mu   sync.Mutex
	Sent []domain.Notification
}

func (m *RecordingNotifier) Notify(_ context.Context, memberID string, kind domain.NotificationKind, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Sent = append(m.Sent, domain.Notification{MemberID: memberID, Kind: kind, Message: message})
}

// Kinds returns the kinds of all recorded notifications in order.
func (m *RecordingNotifier) Kinds() []domain.NotificationKind {
	m.mu.Lock()
	defer m.mu.Unlock()
	kinds := make([]domain.NotificationKind, 0, len(m.Sent))
	for _, n := range m.Sent {
		kinds = append(kinds, n.Kind)
	}
	return kinds
}

// StubIdempotencyStore is a map backed implementation of IdempotencyStore.
// TTLs are ignored.
type StubIdempotencyStore struct {
	mu   sync.RWMutex
	data map[string][]byte

	CheckAndSetFunc func(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	UpdateFunc      func(ctx context.Context, key string, response []byte, ttl time.Duration) error
}

func NewStubIdempotencyStore() *StubIdempotencyStore {
	return &StubIdempotencyStore{
		data: make(map[string][]byte),
	}
}

func (m *StubIdempotencyStore) CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error) {
	if m.CheckAndSetFunc != nil {
		return m.CheckAndSetFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.data[key]; ok {
		return true, existing, nil
	}
	if response != nil {
		m.data[key] = response
	} else {
		m.data[key] = []byte("processing")
	}
	return false, nil, nil
}

func (m *StubIdempotencyStore) Update(ctx context.Context, key string, response []byte, ttl time.Duration) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, key, response, ttl)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	// A nil response releases the key.
	if response == nil {
		delete(m.data, key)
		return nil
	}
	m.data[key] = response
	return nil
}
