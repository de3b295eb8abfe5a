package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	sessionKeyPrefix = "digest:session:"
	maxTxRetries     = 5
)

// RedisStore keeps sessions as JSON values that expire after ttl of
// inactivity. Update uses WATCH so concurrent writers never lose an update.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore connects to addr and verifies it with a PING.
func NewRedisStore(addr, password string, ttl time.Duration) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}
	return &RedisStore{client: client, ttl: ttl}, nil
}

func (r *RedisStore) Create(ctx context.Context) (*Session, error) {
	s := New(time.Now().UTC())
	data, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	if err := r.client.Set(ctx, sessionKeyPrefix+s.ID, data, r.ttl).Err(); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}
	return s, nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (*Session, error) {
	return r.load(ctx, r.client, id)
}

func (r *RedisStore) Update(ctx context.Context, id string, fn func(*Session) error) (*Session, error) {
	key := sessionKeyPrefix + id
	var updated *Session

	txf := func(tx *redis.Tx) error {
		s, err := r.load(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := fn(s); err != nil {
			return err
		}
		data, err := json.Marshal(s)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		if err == nil {
			updated = s
		}
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		if err != nil {
			return nil, err
		}
		return updated, nil
	}
	return nil, fmt.Errorf("update session %s: too much contention", id)
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionKeyPrefix+id).Err()
}

// getter is satisfied by both *redis.Client and *redis.Tx.
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

func (r *RedisStore) load(ctx context.Context, c getter, id string) (*Session, error) {
	data, err := c.Get(ctx, sessionKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("decode session: %w", err)
	}
	return &s, nil
}
