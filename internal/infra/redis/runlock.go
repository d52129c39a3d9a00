package redis

import (
	"context"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	// defaultLockTTL bounds how long a crashed run can hold the lock.
	defaultLockTTL = 2 * time.Hour

	lockKeyPrefix = "asp-relay:runlock:"
)

var releaseScript = goredis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// ErrLockHeld is returned when another transfer run owns the lock.
var ErrLockHeld = fmt.Errorf("another transfer run is in progress")

// RunLock serializes transfer runs against the shared remote directory.
// Upload and download runs are scheduled separately and must never
// mutate remote state concurrently.
type RunLock struct {
	client *goredis.Client
	ttl    time.Duration
}

func NewRunLock(client *goredis.Client, ttl time.Duration) (*RunLock, error) {
	return newRunLock(client, ttl)
}

func newRunLock(client *goredis.Client, ttl time.Duration) (*RunLock, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is required")
	}
	if ttl <= 0 {
		ttl = defaultLockTTL
	}

	return &RunLock{client: client, ttl: ttl}, nil
}

// Acquire takes the named lock for this run. The token identifies the
// owner so an expired holder cannot release a lock it no longer owns.
func (l *RunLock) Acquire(ctx context.Context, name, token string) error {
	if l == nil || l.client == nil {
		return fmt.Errorf("run lock is not initialized")
	}

	name = strings.TrimSpace(name)
	if name == "" {
		return fmt.Errorf("lock name is required")
	}
	if strings.TrimSpace(token) == "" {
		return fmt.Errorf("lock token is required")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	ok, err := l.client.SetNX(ctx, lockKeyPrefix+name, token, l.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to acquire run lock: %w", err)
	}
	if !ok {
		return ErrLockHeld
	}

	return nil
}

// Release gives the lock back, only if this run still owns it.
func (l *RunLock) Release(ctx context.Context, name, token string) error {
	if l == nil || l.client == nil {
		return fmt.Errorf("run lock is not initialized")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	if err := releaseScript.Run(ctx, l.client, []string{lockKeyPrefix + name}, token).Err(); err != nil {
		return fmt.Errorf("failed to release run lock: %w", err)
	}

	return nil
}
