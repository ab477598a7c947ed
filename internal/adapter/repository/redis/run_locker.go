package redis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redsync/redsync/v4"
	"github.com/go-redsync/redsync/v4/redis/goredis/v9"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// DefaultRunLockExpiry outlives any single batch run.
const DefaultRunLockExpiry = 30 * time.Minute

// RunLocker implements usecase.RunLocker with a redsync mutex so that only one
// instance executes a given batch run.
type RunLocker struct {
	redsync *redsync.Redsync
	prefix  string
	expiry  time.Duration
	logger  zerolog.Logger
}

// NewRunLocker creates a new RunLocker.
func NewRunLocker(client redis.UniversalClient, expiry time.Duration, logger zerolog.Logger) *RunLocker {
	if expiry <= 0 {
		expiry = DefaultRunLockExpiry
	}
	return &RunLocker{
		redsync: redsync.New(goredis.NewPool(client)),
		prefix:  "autotransfer:run:",
		expiry:  expiry,
		logger:  logger,
	}
}

// TryLock tries once to take the lock for name.
func (l *RunLocker) TryLock(ctx context.Context, name string) (func(), bool, error) {
	mutex := l.redsync.NewMutex(
		l.prefix+name,
		redsync.WithExpiry(l.expiry),
		redsync.WithTries(1),
	)

	if err := mutex.LockContext(ctx); err != nil {
		if isLockContention(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("acquire run lock %s: %w", name, err)
	}

	unlock := func() {
		// The run context may already be cancelled.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if ok, err := mutex.UnlockContext(ctx); !ok || err != nil {
			l.logger.Warn().Err(err).Str("lock", name).Msg("failed to release run lock")
		}
	}

	return unlock, true, nil
}

func isLockContention(err error) bool {
	var taken *redsync.ErrTaken
	return errors.Is(err, redsync.ErrFailed) ||
		errors.As(err, &taken) ||
		strings.Contains(err.Error(), "lock already taken")
}
