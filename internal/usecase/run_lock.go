package usecase

import (
	"context"
	"sync"
)

// LocalRunLocker serialises runs inside one process.
type LocalRunLocker struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewLocalRunLocker creates a new LocalRunLocker.
func NewLocalRunLocker() *LocalRunLocker {
	return &LocalRunLocker{locks: make(map[string]*sync.Mutex)}
}

// TryLock implements RunLocker.
func (l *LocalRunLocker) TryLock(_ context.Context, name string) (func(), bool, error) {
	l.mu.Lock()
	m, ok := l.locks[name]
	if !ok {
		m = &sync.Mutex{}
		l.locks[name] = m
	}
	l.mu.Unlock()

	if !m.TryLock() {
		return nil, false, nil
	}

	return m.Unlock, true, nil
}
