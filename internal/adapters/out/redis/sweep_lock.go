// Package redis implements the sweep lease on top of go-redis.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const keyPrefix = "takeout:sweep:"

// unlockScript deletes the key only while it still holds our token, so a
// lease that expired and was taken by another replica is never released by us.
var unlockScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// SweepLock implements ports.SweepLock with SET NX PX and a per-process token.
type SweepLock struct {
	client redis.Cmdable
	token  string
}

func NewSweepLock(client redis.Cmdable) *SweepLock {
	return &SweepLock{client: client, token: uuid.NewString()}
}

func (l *SweepLock) TryLock(ctx context.Context, key string, ttl time.Duration) (bool, error) {
	ok, err := l.client.SetNX(ctx, keyPrefix+key, l.token, ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire sweep lease %s: %w", key, err)
	}
	return ok, nil
}

func (l *SweepLock) Unlock(ctx context.Context, key string) error {
	if err := unlockScript.Run(ctx, l.client, []string{keyPrefix + key}, l.token).Err(); err != nil {
		return fmt.Errorf("release sweep lease %s: %w", key, err)
	}
	return nil
}

// NoopSweepLock always grants the lease; used on single-replica deployments.
type NoopSweepLock struct{}

func (NoopSweepLock) TryLock(context.Context, string, time.Duration) (bool, error) { return true, nil }

func (NoopSweepLock) Unlock(context.Context, string) error { return nil }

// NewClient connects to Redis and pings it.
func NewClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("connect to redis at %s: %w", addr, err)
	}
	return client, nil
}
