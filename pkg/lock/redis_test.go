package lock

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { client.Close() })

	return NewRedisLocker(client), mr
}

func TestRedisLockerExcludesSecondHolder(t *testing.T) {
	l, mr := newTestRedisLocker(t)
	ctx := context.Background()

	release, err := l.Acquire(ctx, "sync:u1", time.Minute)
	require.NoError(t, err)
	assert.True(t, mr.Exists("triage:lock:sync:u1"))

	_, err = l.Acquire(ctx, "sync:u1", time.Minute)
	assert.ErrorIs(t, err, ErrLocked)

	// other keys are independent
	releaseOther, err := l.Acquire(ctx, "sync:u2", time.Minute)
	require.NoError(t, err)
	releaseOther()

	release()
	release()
	assert.False(t, mr.Exists("triage:lock:sync:u1"))

	again, err := l.Acquire(ctx, "sync:u1", time.Minute)
	require.NoError(t, err)
	again()
}

func TestRedisLockerExpires(t *testing.T) {
	l, mr := newTestRedisLocker(t)
	ctx := context.Background()

	_, err := l.Acquire(ctx, "sync:u1", time.Second)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	release, err := l.Acquire(ctx, "sync:u1", time.Second)
	require.NoError(t, err)
	release()
}

func TestRedisLockerStaleReleaseKeepsNewerHolder(t *testing.T) {
	l, mr := newTestRedisLocker(t)
	ctx := context.Background()

	staleRelease, err := l.Acquire(ctx, "sync:u1", time.Second)
	require.NoError(t, err)

	mr.FastForward(2 * time.Second)

	newRelease, err := l.Acquire(ctx, "sync:u1", time.Minute)
	require.NoError(t, err)
	newToken, err := mr.Get("triage:lock:sync:u1")
	require.NoError(t, err)

	staleRelease()

	got, err := mr.Get("triage:lock:sync:u1")
	require.NoError(t, err)
	assert.Equal(t, newToken, got)
	_, err = l.Acquire(ctx, "sync:u1", time.Minute)
	assert.ErrorIs(t, err, ErrLocked)

	newRelease()
	assert.False(t, mr.Exists("triage:lock:sync:u1"))
}

func TestNewRedisClientFailsWithoutServer(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(context.Background(), addr, "", 0)
	assert.Error(t, err)
}

var _ Locker = (*RedisLocker)(nil)
