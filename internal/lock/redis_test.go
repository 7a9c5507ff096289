package lock_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aaravmahajanofficial/storefront-checkout/internal/lock"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRedisLocker(t *testing.T, ttl time.Duration) (*lock.RedisLocker, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	t.Cleanup(func() {
		client.Close()
	})

	return lock.NewRedisLocker(client, ttl), mr
}

func TestRedisLocker_AcquireAndRelease(t *testing.T) {
	locker, mr := setupRedisLocker(t, 10*time.Second)
	key := lock.Key(lock.CartKeyPrefix, "acc-1")

	unlock, err := locker.Lock(t.Context(), key)
	require.NoError(t, err)

	assert.True(t, mr.Exists(key))
	assert.Equal(t, 10*time.Second, mr.TTL(key))

	unlock()

	assert.False(t, mr.Exists(key))
}

func TestRedisLocker_BlocksWhileHeld(t *testing.T) {
	locker, _ := setupRedisLocker(t, 10*time.Second)
	key := lock.Key(lock.OrderKeyPrefix, "ord-1")

	unlock, err := locker.Lock(t.Context(), key)
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(t.Context(), 80*time.Millisecond)
	defer cancel()

	_, err = locker.Lock(ctx, key)
	assert.ErrorIs(t, err, lock.ErrNotAcquired)
}

func TestRedisLocker_WaiterAcquiresAfterRelease(t *testing.T) {
	locker, _ := setupRedisLocker(t, 10*time.Second)
	key := lock.Key(lock.CartKeyPrefix, "acc-2")

	unlock, err := locker.Lock(t.Context(), key)
	require.NoError(t, err)

	go func() {
		time.Sleep(50 * time.Millisecond)
		unlock()
	}()

	ctx, cancel := context.WithTimeout(t.Context(), time.Second)
	defer cancel()

	unlock2, err := locker.Lock(ctx, key)
	require.NoError(t, err)
	unlock2()
}

func TestRedisLocker_StaleReleaseKeepsNewHolder(t *testing.T) {
	locker, mr := setupRedisLocker(t, time.Second)
	key := lock.Key(lock.CartKeyPrefix, "acc-3")

	unlockStale, err := locker.Lock(t.Context(), key)
	require.NoError(t, err)

	// Lease expires and someone else takes over.
	mr.FastForward(2 * time.Second)
	require.False(t, mr.Exists(key))

	unlockNew, err := locker.Lock(t.Context(), key)
	require.NoError(t, err)
	defer unlockNew()

	unlockStale()

	assert.True(t, mr.Exists(key), "stale holder must not delete the new lease")
}

func TestRedisLocker_DeadlineDuringAcquireIsNotAcquired(t *testing.T) {
	locker, mr := setupRedisLocker(t, 10*time.Second)
	key := lock.Key(lock.OrderKeyPrefix, "ord-9")

	ctx, cancel := context.WithDeadline(t.Context(), time.Now().Add(-time.Millisecond))
	defer cancel()

	_, err := locker.Lock(ctx, key)

	assert.ErrorIs(t, err, lock.ErrNotAcquired)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.False(t, mr.Exists(key))
}

func TestRedisLocker_RedisDown(t *testing.T) {
	locker, mr := setupRedisLocker(t, 10*time.Second)
	mr.Close()

	_, err := locker.Lock(t.Context(), lock.Key(lock.CartKeyPrefix, "acc-4"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to acquire lock")
}
