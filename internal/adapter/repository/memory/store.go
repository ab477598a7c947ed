// Package memory is an in-process ledger store. Account locks are per-account
// semaphores taken in ascending id order and held until the transaction ends.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/iho/autotransfer/internal/domain"
	"github.com/iho/autotransfer/internal/usecase"
)

// ErrTxClosed is returned when a finished transaction is committed again.
var ErrTxClosed = errors.New("transaction already closed")

// DefaultLockTimeout bounds a single account lock wait.
const DefaultLockTimeout = 5 * time.Second

// Store holds all records in memory.
type Store struct {
	mu sync.RWMutex

	accounts      map[string]*domain.Account
	accountRefs   map[string]string
	lines         map[string][]*domain.Transaction
	members       map[string]*domain.Member
	categories    map[string]*domain.Category
	autoTransfers map[string]*domain.AutoTransfer
	notifications map[string]*domain.Notification
	outbox        map[string]*outboxEntry

	locks       *lockTable
	lockTimeout time.Duration
}

// NewStore creates an empty Store.
func NewStore(lockTimeout time.Duration) *Store {
	if lockTimeout <= 0 {
		lockTimeout = DefaultLockTimeout
	}

	return &Store{
		accounts:      make(map[string]*domain.Account),
		accountRefs:   make(map[string]string),
		lines:         make(map[string][]*domain.Transaction),
		members:       make(map[string]*domain.Member),
		categories:    make(map[string]*domain.Category),
		autoTransfers: make(map[string]*domain.AutoTransfer),
		notifications: make(map[string]*domain.Notification),
		outbox:        make(map[string]*outboxEntry),
		locks:         newLockTable(),
		lockTimeout:   lockTimeout,
	}
}

func refKey(bankName, number string) string {
	return bankName + "\x00" + number
}

// AddMember registers a member.
func (s *Store) AddMember(m domain.Member) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.members[m.ID] = &m
}

// AddCategory registers a category.
func (s *Store) AddCategory(c domain.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.categories[c.Name] = &c
}

// AddAccount registers an account. Account numbers are unique across banks. A positive opening balance is recorded as
// a CREDIT line so the ledger replays to the balance.
func (s *Store) AddAccount(a domain.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.accounts {
		if existing.Number == a.Number {
			return fmt.Errorf("account number %s already exists", a.Number)
		}
	}

	s.accounts[a.ID] = &a
	s.accountRefs[refKey(a.BankName, a.Number)] = a.ID

	if a.Balance > 0 {
		s.lines[a.ID] = append(s.lines[a.ID], &domain.Transaction{
			ID:             a.ID + "-opening",
			AccountID:      a.ID,
			OpponentName:   "opening balance",
			Direction:      domain.DirectionCredit,
			Amount:         a.Balance,
			UpdatedBalance: a.Balance,
			CreatedAt:      a.CreatedAt,
		})
	}

	return nil
}

// Begin implements usecase.TransactionManager.
func (s *Store) Begin(_ context.Context) (usecase.Transaction, error) {
	return &Tx{
		store:    s,
		balances: make(map[string]int64),
	}, nil
}

// Tx stages writes and holds account locks until Commit or Rollback.
type Tx struct {
	store    *Store
	held     []string
	balances map[string]int64
	lines    []*domain.Transaction
	events   []domain.Event
	done     bool
}

// Commit applies staged writes atomically and releases the locks.
func (t *Tx) Commit(_ context.Context) error {
	if t.done {
		return ErrTxClosed
	}
	t.done = true

	s := t.store
	s.mu.Lock()
	for id, balance := range t.balances {
		if a, ok := s.accounts[id]; ok {
			a.Balance = balance
		}
	}
	for _, line := range t.lines {
		s.lines[line.AccountID] = append(s.lines[line.AccountID], line)
	}
	for _, e := range t.events {
		s.outbox[e.ID] = &outboxEntry{event: e}
	}
	s.mu.Unlock()

	t.release()

	return nil
}

// Rollback discards staged writes and releases the locks. It is a no-op after Commit.
func (t *Tx) Rollback(_ context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.release()

	return nil
}

func (t *Tx) release() {
	for i := len(t.held) - 1; i >= 0; i-- {
		t.store.locks.release(t.held[i])
	}
	t.held = nil
}

func (t *Tx) holds(id string) bool {
	for _, h := range t.held {
		if h == id {
			return true
		}
	}
	return false
}

func asTx(tx usecase.Transaction) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok || t.done {
		return nil, ErrTxClosed
	}
	return t, nil
}

// lockTable maps account ids to one-slot semaphores.
type lockTable struct {
	mu    sync.Mutex
	slots map[string]chan struct{}
}

func newLockTable() *lockTable {
	return &lockTable{slots: make(map[string]chan struct{})}
}

func (l *lockTable) slot(id string) chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()

	ch, ok := l.slots[id]
	if !ok {
		ch = make(chan struct{}, 1)
		l.slots[id] = ch
	}

	return ch
}

func (l *lockTable) acquire(ctx context.Context, id string, timeout time.Duration) error {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case l.slot(id) <- struct{}{}:
		return nil
	case <-timer.C:
		return fmt.Errorf("%w: account %s", domain.ErrLockTimeout, id)
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return fmt.Errorf("%w: account %s", domain.ErrLockTimeout, id)
		}
		return ctx.Err()
	}
}

func (l *lockTable) release(id string) {
	<-l.slot(id)
}

func sortedUnique(ids []string) []string {
	out := make([]string, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}
