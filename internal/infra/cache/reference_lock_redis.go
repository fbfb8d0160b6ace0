package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/Stephen-J4455/ExpressMart-sub001/internal/usecase"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const referenceLockTTL = 2 * time.Minute

// 決済参照ごとのロック（SETNX）
type RedisReferenceLocker struct {
	client *redis.Client
	logger *zap.Logger
}

func NewRedisReferenceLocker(addr string, logger *zap.Logger) *RedisReferenceLocker {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisReferenceLocker{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		logger: logger,
	}
}

func (l *RedisReferenceLocker) Ping(ctx context.Context) error {
	return l.client.Ping(ctx).Err()
}

func (l *RedisReferenceLocker) Acquire(ctx context.Context, reference string) (func(), error) {
	key := lockKey(reference)

	ok, err := l.client.SetNX(ctx, key, "locked", referenceLockTTL).Result()
	if err != nil {
		return nil, fmt.Errorf("redis setnx %s: %w", key, err)
	}
	if !ok {
		return nil, usecase.ErrReferenceLocked
	}

	release := func() {
		// 呼び出し元のctxがキャンセル済みでも解放する
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := l.client.Del(ctx, key).Err(); err != nil {
			l.logger.Warn("failed to release payment reference lock", zap.String("key", key), zap.Error(err))
		}
	}
	return release, nil
}

func (l *RedisReferenceLocker) Close() error {
	return l.client.Close()
}

func lockKey(reference string) string {
	return fmt.Sprintf("payment-ref:%s", reference)
}

var _ usecase.ReferenceLocker = (*RedisReferenceLocker)(nil)
