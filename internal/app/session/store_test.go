package session

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newPending(pin string, ttl time.Duration) *Session {
	now := time.Now()
	return &Session{
		ID:         "session-" + pin,
		PIN:        pin,
		State:      StatePending,
		CustomerID: "customer-" + pin,
		CreatedAt:  now,
		ExpiresAt:  now.Add(ttl),
	}
}

// storeFactories lets every behavioural test run against each Store implementation.
func storeFactories(t *testing.T) map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store {
			s := NewMemoryStore()
			t.Cleanup(func() { s.Close() })
			return s
		},
		"redis": func(t *testing.T) Store {
			mr, err := miniredis.Run()
			require.NoError(t, err)
			t.Cleanup(mr.Close)

			s := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
			t.Cleanup(func() { s.Close() })
			return s
		},
	}
}

func TestStoreLifecycle(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)

			_, err := store.Get(ctx, "123456")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, store.Create(ctx, newPending("123456", time.Minute)))
			assert.ErrorIs(t, store.Create(ctx, newPending("123456", time.Minute)), ErrPINExists)

			got, err := store.Get(ctx, "123456")
			require.NoError(t, err)
			assert.Equal(t, StatePending, got.State)
			assert.Equal(t, "customer-123456", got.CustomerID)

			activated, err := store.Activate(ctx, "123456", "agent-1")
			require.NoError(t, err)
			assert.Equal(t, StateActive, activated.State)
			assert.Equal(t, "agent-1", activated.AgentID)

			_, err = store.Activate(ctx, "123456", "agent-2")
			assert.ErrorIs(t, err, ErrAlreadyActive)

			got, err = store.Get(ctx, "123456")
			require.NoError(t, err)
			assert.Equal(t, "agent-1", got.AgentID)
			assert.True(t, got.HasParticipant("agent-1"))
			assert.True(t, got.HasParticipant("customer-123456"))
			assert.False(t, got.HasParticipant("agent-2"))

			require.NoError(t, store.Delete(ctx, "123456"))
			assert.ErrorIs(t, store.Delete(ctx, "123456"), ErrNotFound)

			_, err = store.Activate(ctx, "123456", "agent-3")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestStoreConcurrentActivateHasOneWinner(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)
			require.NoError(t, store.Create(ctx, newPending("654321", time.Minute)))

			const agents = 10
			var (
				wg      sync.WaitGroup
				mu      sync.Mutex
				winners int
			)

			for i := 0; i < agents; i++ {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if _, err := store.Activate(ctx, "654321", "agent"); err == nil {
						mu.Lock()
						winners++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			assert.Equal(t, 1, winners)
		})
	}
}

func TestRedisStoreActivateConflict(t *testing.T) {
	ctx := context.Background()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	store := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { store.Close() })

	require.NoError(t, store.Create(ctx, newPending("111111", time.Minute)))
	_, err = store.Activate(ctx, "111111", "agent-1")
	require.NoError(t, err)
	assert.ErrorIs(t, store.conflictError(ctx, sessionKey("111111")), ErrAlreadyActive)

	require.NoError(t, store.Delete(ctx, "111111"))
	assert.ErrorIs(t, store.conflictError(ctx, sessionKey("111111")), ErrNotFound)
}

func TestStoreActivateRacingDelete(t *testing.T) {
	for name, newStore := range storeFactories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			store := newStore(t)
			require.NoError(t, store.Create(ctx, newPending("222222", time.Minute)))

			var (
				wg        sync.WaitGroup
				activated error
			)
			wg.Add(2)
			go func() {
				defer wg.Done()
				_, activated = store.Activate(ctx, "222222", "agent-1")
			}()
			go func() {
				defer wg.Done()
				_ = store.Delete(ctx, "222222")
			}()
			wg.Wait()

			if activated != nil {
				assert.ErrorIs(t, activated, ErrNotFound)
			}
			_, err := store.Get(ctx, "222222")
			assert.ErrorIs(t, err, ErrNotFound)
		})
	}
}

func TestMemoryStoreHidesAndSweepsExpired(t *testing.T) {
	now := time.Now()
	clock := func() time.Time { return now }

	store := newMemoryStore(clock, time.Hour)
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Create(ctx, newPending("111111", time.Minute)))

	now = now.Add(2 * time.Minute)

	_, err := store.Get(ctx, "111111")
	assert.ErrorIs(t, err, ErrNotFound)

	// An expired PIN may be reused.
	fresh := newPending("111111", time.Hour)
	fresh.CreatedAt, fresh.ExpiresAt = now, now.Add(time.Hour)
	require.NoError(t, store.Create(ctx, fresh))

	require.NoError(t, store.Create(ctx, newPending("222222", time.Minute)))
	now = now.Add(30 * time.Minute)

	assert.Equal(t, 1, store.removeExpired())
	assert.Equal(t, 1, store.Len())
}

func TestRedisStoreUsesSessionTTL(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	store := NewRedisStore(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer store.Close()

	ctx := context.Background()
	require.NoError(t, store.Create(ctx, newPending("333333", 90*time.Second)))

	ttl := mr.TTL(sessionKey("333333"))
	assert.InDelta(t, (90 * time.Second).Seconds(), ttl.Seconds(), 2)

	mr.FastForward(2 * time.Minute)

	_, err = store.Get(ctx, "333333")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDialRedis(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()

	client, err := DialRedis(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	require.NoError(t, client.Close())

	mr.Close()
	_, err = DialRedis(context.Background(), mr.Addr(), "", 0)
	assert.Error(t, err)
}
