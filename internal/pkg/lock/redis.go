package lock

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	domainErrors "github.com/mercadillo/mercadillo/internal/domain/errors"
)

const (
	serviceName   = "mercadillo"
	defaultTTL    = 30 * time.Second
	defaultWait   = 5 * time.Second
	defaultPoll   = 100 * time.Millisecond
	releaseScript = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) end return 0`
)

type redisClient interface {
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.BoolCmd
	Eval(ctx context.Context, script string, keys []string, args ...interface{}) *redis.Cmd
}

// RedisLocker serializes work on a key across processes with SET NX.
type RedisLocker struct {
	client redisClient
	logger *slog.Logger
	ttl    time.Duration
	wait   time.Duration
	poll   time.Duration
}

// NewRedisLocker creates locker on top of client.
func NewRedisLocker(client redisClient, logger *slog.Logger) *RedisLocker {
	return &RedisLocker{
		client: client,
		logger: logger,
		ttl:    defaultTTL,
		wait:   defaultWait,
		poll:   defaultPoll,
	}
}

// GenerateKey namespaces key for the service.
func GenerateKey(key string) string {
	return fmt.Sprintf("%s:lock:%s", serviceName, key)
}

// Acquire blocks until the lock is held, the wait elapses or ctx is done.
func (l *RedisLocker) Acquire(ctx context.Context, key string) (func(), error) {
	redisKey := GenerateKey(key)
	token := uuid.NewString()

	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	ticker := time.NewTicker(l.poll)
	defer ticker.Stop()

	for {
		ok, err := l.client.SetNX(waitCtx, redisKey, token, l.ttl).Result()
		if err != nil {
			if waitCtx.Err() != nil {
				return nil, fmt.Errorf("%w: %s", domainErrors.ErrLockNotAcquired, key)
			}
			return nil, fmt.Errorf("acquire lock %s: %w", key, err)
		}
		if ok {
			return l.releaser(redisKey, token), nil
		}

		select {
		case <-waitCtx.Done():
			return nil, fmt.Errorf("%w: %s", domainErrors.ErrLockNotAcquired, key)
		case <-ticker.C:
		}
	}
}

func (l *RedisLocker) releaser(redisKey, token string) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		err := l.client.Eval(ctx, releaseScript, []string{redisKey}, token).Err()
		if err != nil && !errors.Is(err, redis.Nil) {
			l.logger.Warn("release lock failed", slog.String("key", redisKey), slog.Any("error", err))
		}
	}
}
