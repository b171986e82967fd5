package cartstore

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/fieldsales/backend/internal/domain/order"
)

// Backend names a cart store implementation
type Backend string

const (
	BackendMemory Backend = "memory"
	BackendRedis  Backend = "redis"
)

// New creates the cart store for the configured backend. When Redis is
// configured but unreachable, it falls back to the in-memory store so a
// sales rep can keep working; the degradation is logged.
func New(ctx context.Context, backend Backend, redisCfg RedisConfig, logger *zap.Logger) (order.CartStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch backend {
	case BackendMemory, "":
		return NewInMemoryCartStore(), nil
	case BackendRedis:
		store, err := NewRedisCartStore(ctx, redisCfg)
		if err != nil {
			logger.Warn("redis unavailable, falling back to in-memory cart store",
				zap.String("addr", redisCfg.Addr),
				zap.Error(err))
			return NewInMemoryCartStore(), nil
		}
		logger.Info("using redis cart store", zap.String("addr", redisCfg.Addr))
		return store, nil
	default:
		return nil, fmt.Errorf("unknown cart store backend: %s", backend)
	}
}
