package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/uniedit/seeder/internal/port/outbound"
)

const seedLockKeyPrefix = "seed:lock:"

// releaseScript deletes the key only while it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// seedLock implements outbound.SeedLockPort.
type seedLock struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSeedLock creates a new seed lock adapter. The lock expires after ttl
// if the holder dies without releasing it.
func NewSeedLock(client *redis.Client, ttl time.Duration) outbound.SeedLockPort {
	return &seedLock{client: client, ttl: ttl}
}

func (l *seedLock) Acquire(ctx context.Context, name string) (func(context.Context) error, bool, error) {
	key := seedLockKeyPrefix + name
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, false, fmt.Errorf("acquire seed lock %s: %w", name, err)
	}
	if !ok {
		return nil, false, nil
	}

	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{key}, token).Err(); err != nil {
			return fmt.Errorf("release seed lock %s: %w", name, err)
		}
		return nil
	}
	return release, true, nil
}

// Compile-time check
var _ outbound.SeedLockPort = (*seedLock)(nil)
