package lock

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrLockNotAcquired = errors.New("failed to acquire lock")
	ErrLockNotHeld     = errors.New("lock is not held")
)

// Unlock releases a held lock. It reports ErrLockNotHeld if the lock expired
// or was already released.
type Unlock func(ctx context.Context) error

// Locker grants exclusive access to a key until it is unlocked or ttl passes.
// Lock blocks until the key is free or ctx is done.
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (Unlock, error)
}

// Local is an in-process Locker for single-instance deployments and tests.
// ttl is ignored; holders must unlock.
type Local struct {
	mu   sync.Mutex
	held map[string]chan struct{}
}

func NewLocal() *Local {
	return &Local{held: make(map[string]chan struct{})}
}

func (l *Local) Lock(ctx context.Context, key string, _ time.Duration) (Unlock, error) {
	for {
		l.mu.Lock()
		released, busy := l.held[key]
		if !busy {
			mine := make(chan struct{})
			l.held[key] = mine
			l.mu.Unlock()
			return l.unlocker(key, mine), nil
		}
		l.mu.Unlock()

		select {
		case <-released:
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %w", ErrLockNotAcquired, key, ctx.Err())
		}
	}
}

func (l *Local) unlocker(key string, mine chan struct{}) Unlock {
	return func(context.Context) error {
		l.mu.Lock()
		defer l.mu.Unlock()

		if l.held[key] != mine {
			return ErrLockNotHeld
		}
		delete(l.held, key)
		close(mine)
		return nil
	}
}
