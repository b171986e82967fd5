package cartstore

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fieldsales/backend/internal/domain/order"
)

const sessionKeyPrefix = "fieldsales:cart:"

// RedisCartStore persists cart state in Redis so sessions survive process
// restarts and can be shared across nodes. Each session lives under its own
// key with a sliding TTL.
type RedisCartStore struct {
	client *redis.Client
	ttl    time.Duration
}

var _ order.CartStore = (*RedisCartStore)(nil)

// RedisConfig holds Redis connection settings for the cart store
type RedisConfig struct {
	Addr       string
	Password   string
	DB         int
	SessionTTL time.Duration
}

// NewRedisCartStore connects to Redis and verifies the connection
func NewRedisCartStore(ctx context.Context, cfg RedisConfig) (*RedisCartStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisCartStoreWithClient(client, cfg.SessionTTL), nil
}

// NewRedisCartStoreWithClient wraps an existing Redis client. Used in tests
// and when the client is shared with other components.
func NewRedisCartStoreWithClient(client *redis.Client, ttl time.Duration) *RedisCartStore {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisCartStore{client: client, ttl: ttl}
}

func sessionKey(sessionID string) string {
	return sessionKeyPrefix + sessionID
}

// Get returns the session's cart state
func (s *RedisCartStore) Get(ctx context.Context, sessionID string) (*order.OrderCartState, error) {
	data, err := s.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err == redis.Nil {
		return nil, order.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get cart state: %w", err)
	}

	var state order.OrderCartState
	if err := json.Unmarshal(data, &state); err != nil {
		return nil, fmt.Errorf("decode cart state: %w", err)
	}
	return &state, nil
}

// Save stores the cart state and refreshes the session TTL
func (s *RedisCartStore) Save(ctx context.Context, sessionID string, state *order.OrderCartState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("encode cart state: %w", err)
	}
	if err := s.client.Set(ctx, sessionKey(sessionID), data, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis save cart state: %w", err)
	}
	return nil
}

// Delete removes the session's cart state
func (s *RedisCartStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("redis delete cart state: %w", err)
	}
	return nil
}
