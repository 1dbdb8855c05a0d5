package locks

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLocker(t *testing.T) (*RedisLocker, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	l := NewRedisLocker(client)
	l.pollInterval = 5 * time.Millisecond
	return l, mr
}

func TestRedisLockerAcquireRelease(t *testing.T) {
	l, mr := newTestLocker(t)
	ctx := context.Background()

	release, err := l.Acquire(ctx, "route:vehicle:V1", time.Minute)
	require.NoError(t, err)
	assert.True(t, mr.Exists("routeconsolidation:lock:route:vehicle:V1"))

	release()
	assert.False(t, mr.Exists("routeconsolidation:lock:route:vehicle:V1"))

	// Second release is a no-op.
	release()
}

func TestRedisLockerBlocksUntilReleased(t *testing.T) {
	l, _ := newTestLocker(t)
	ctx := context.Background()

	release, err := l.Acquire(ctx, "k", time.Minute)
	require.NoError(t, err)

	acquired := make(chan struct{})
	go func() {
		r, err := l.Acquire(ctx, "k", time.Minute)
		if err == nil {
			r()
		}
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("second holder acquired while lock was held")
	case <-time.After(30 * time.Millisecond):
	}

	release()

	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("second holder never acquired the lock")
	}
}

func TestRedisLockerAcquireHonorsContext(t *testing.T) {
	l, _ := newTestLocker(t)

	release, err := l.Acquire(context.Background(), "k", time.Minute)
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err = l.Acquire(ctx, "k", time.Minute)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}

func TestRedisLockerReleaseKeepsForeignLock(t *testing.T) {
	l, mr := newTestLocker(t)

	release, err := l.Acquire(context.Background(), "k", time.Second)
	require.NoError(t, err)

	// The lock expires and another instance takes it.
	mr.FastForward(2 * time.Second)
	require.NoError(t, mr.Set("routeconsolidation:lock:k", "other-token"))

	release()

	got, err := mr.Get("routeconsolidation:lock:k")
	require.NoError(t, err)
	assert.Equal(t, "other-token", got)
}
