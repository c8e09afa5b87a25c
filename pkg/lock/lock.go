package lock

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrLocked is returned by Acquire when another holder owns the key.
var ErrLocked = errors.New("lock is held")

// Locker provides a non-blocking, per-key mutual exclusion.
type Locker interface {
	// Acquire takes the lock for key or fails with ErrLocked.
	// The returned release func is safe to call more than once.
	Acquire(ctx context.Context, key string, ttl time.Duration) (release func(), err error)
}

// MemoryLocker is an in-process Locker for single-instance deployments.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]time.Time
	now  func() time.Time
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{
		held: make(map[string]time.Time),
		now:  time.Now,
	}
}

func (l *MemoryLocker) Acquire(_ context.Context, key string, ttl time.Duration) (func(), error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if expires, ok := l.held[key]; ok && now.Before(expires) {
		return nil, ErrLocked
	}
	expires := now.Add(ttl)
	l.held[key] = expires

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			defer l.mu.Unlock()
			// A holder whose ttl lapsed must not release a newer holder.
			if l.held[key].Equal(expires) {
				delete(l.held, key)
			}
		})
	}, nil
}
