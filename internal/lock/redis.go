package lock

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// releaseScript deletes the key only while it still holds our token, so an
// expired lock taken over by another instance is never released by us.
var releaseScript = redis.NewScript(`
    if redis.call('GET', KEYS[1]) == ARGV[1] then
        return redis.call('DEL', KEYS[1])
    end
    return 0
`)

// Redis is a lock shared by every instance talking to the same Redis.
type Redis struct {
	rdb    *redis.Client
	prefix string
	ttl    time.Duration
	retry  time.Duration
	wait   time.Duration
	log    *zap.Logger
}

// RedisOptions tunes a Redis lock. Zero values fall back to defaults.
type RedisOptions struct {
	Prefix string
	// TTL bounds how long a crashed holder can block the key.
	TTL time.Duration
	// Retry is the polling interval while the key is held elsewhere.
	Retry time.Duration
	// Wait caps the total time spent acquiring.
	Wait time.Duration
}

func NewRedis(rdb *redis.Client, opts RedisOptions, log *zap.Logger) *Redis {
	if opts.Prefix == "" {
		opts.Prefix = "lock"
	}
	if opts.TTL <= 0 {
		opts.TTL = 10 * time.Second
	}
	if opts.Retry <= 0 {
		opts.Retry = 25 * time.Millisecond
	}
	if opts.Wait <= 0 {
		opts.Wait = 5 * time.Second
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Redis{rdb: rdb, prefix: opts.Prefix, ttl: opts.TTL, retry: opts.Retry, wait: opts.Wait, log: log}
}

func (r *Redis) Lock(ctx context.Context, key string) (Unlock, error) {
	full := r.prefix + ":" + key
	token := uuid.NewString()

	ctx, cancel := context.WithTimeout(ctx, r.wait)
	defer cancel()

	ticker := time.NewTicker(r.retry)
	defer ticker.Stop()
	for {
		ok, err := r.rdb.SetNX(ctx, full, token, r.ttl).Result()
		if err != nil && !errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				return nil, ErrTimeout
			}
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true
		// the caller's context may already be cancelled
		relCtx, relCancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer relCancel()
		if err := releaseScript.Run(relCtx, r.rdb, []string{full}, token).Err(); err != nil {
			r.log.Warn("lock release failed", zap.String("key", full), zap.Error(err))
		}
	}, nil
}
