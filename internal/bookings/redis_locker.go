package bookings

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"airbook/pkg/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

//go:embed scripts/release_lock.lua
var releaseLockSource string

var releaseLockScript = redis.NewScript(releaseLockSource)

var ErrLockTimeout = errors.New("timed out waiting for flight lock")

// RedisLocker is a Locker shared by every API instance. A lock is a key set
// with NX and a TTL; its value is a per-acquisition token so only the owner
// can release it.
type RedisLocker struct {
	redis        *redis.Client
	ttl          time.Duration
	wait         time.Duration
	pollInterval time.Duration
	log          *logger.Logger
}

func NewRedisLocker(client *redis.Client, ttl, wait time.Duration, log *logger.Logger) *RedisLocker {
	return &RedisLocker{
		redis:        client,
		ttl:          ttl,
		wait:         wait,
		pollInterval: 10 * time.Millisecond,
		log:          logger.OrDefault(log),
	}
}

// PreloadScripts loads the release script so the first unlock is an EVALSHA.
func (l *RedisLocker) PreloadScripts(ctx context.Context) error {
	if l.redis == nil {
		return fmt.Errorf("redis client not available")
	}
	if err := releaseLockScript.Load(ctx, l.redis).Err(); err != nil {
		return fmt.Errorf("failed to load lock release script: %w", err)
	}
	return nil
}

func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	if l.redis == nil {
		return nil, fmt.Errorf("redis client not available")
	}

	owner := uuid.NewString()
	deadline := time.Now().Add(l.wait)
	for {
		ok, err := l.redis.SetNX(ctx, key, owner, l.ttl).Result()
		if err != nil {
			return nil, fmt.Errorf("failed to acquire lock %s: %w", key, err)
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, fmt.Errorf("%w: %s", ErrLockTimeout, key)
		}

		timer := time.NewTimer(l.pollInterval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}

	return func() { l.release(key, owner) }, nil
}

// release deletes the lock if owner still holds it. Otherwise the key stays
// until its TTL runs out, which is logged at warn level.
func (l *RedisLocker) release(key, owner string) {
	// the claim is already settled; release must not inherit a cancelled ctx
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	deleted, err := releaseLockScript.Run(ctx, l.redis, []string{key}, owner).Int()
	if err != nil {
		l.log.Warn("Failed to release flight lock",
			"key", key,
			"ttl", l.ttl.String(),
			"error", err.Error(),
		)
		return
	}
	if deleted == 0 {
		l.log.Warn("Flight lock was no longer held at release", "key", key, "ttl", l.ttl.String())
	}
}
