package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const sessionKeyPrefix = "cobrowse:session:"

// RedisStore keeps each session as a JSON value whose TTL matches the session expiry,
// so several server instances can share PINs.
type RedisStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisStore wraps an existing client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client: client,
		now:    time.Now,
	}
}

// DialRedis connects to Redis and verifies the connection with PING.
func DialRedis(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}

	return client, nil
}

func sessionKey(pin string) string {
	return sessionKeyPrefix + pin
}

func (r *RedisStore) ttl(s *Session) time.Duration {
	ttl := s.ExpiresAt.Sub(r.now())
	if ttl < time.Second {
		ttl = time.Second
	}
	return ttl
}

// Create implements Store.
func (r *RedisStore) Create(ctx context.Context, s *Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	ok, err := r.client.SetNX(ctx, sessionKey(s.PIN), data, r.ttl(s)).Result()
	if err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	if !ok {
		return ErrPINExists
	}

	return nil
}

// Get implements Store.
func (r *RedisStore) Get(ctx context.Context, pin string) (*Session, error) {
	data, err := r.client.Get(ctx, sessionKey(pin)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return &s, nil
}

// Activate implements Store. The read-modify-write runs under WATCH so that two agents
// racing for the same PIN cannot both join.
func (r *RedisStore) Activate(ctx context.Context, pin, agentID string) (*Session, error) {
	key := sessionKey(pin)
	var activated Session

	txf := func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to get session: %w", err)
		}

		if err := json.Unmarshal(data, &activated); err != nil {
			return fmt.Errorf("failed to unmarshal session: %w", err)
		}
		if err := activated.activate(agentID); err != nil {
			return err
		}

		updated, err := json.Marshal(&activated)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, updated, r.ttl(&activated))
			return nil
		})
		return err
	}

	err := r.client.Watch(ctx, txf, key)
	if errors.Is(err, redis.TxFailedErr) {
		return nil, r.conflictError(ctx, key)
	}
	if err != nil {
		return nil, err
	}

	return &activated, nil
}

// conflictError classifies an aborted activation: the key changed between our read
// and write because another agent activated it or the session was ended.
func (r *RedisStore) conflictError(ctx context.Context, key string) error {
	exists, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to re-check session: %w", err)
	}
	if exists == 0 {
		return ErrNotFound
	}

	return ErrAlreadyActive
}

// Delete implements Store.
func (r *RedisStore) Delete(ctx context.Context, pin string) error {
	n, err := r.client.Del(ctx, sessionKey(pin)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	return nil
}

// Close closes the underlying client.
func (r *RedisStore) Close() error {
	return r.client.Close()
}
