package redis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
)

func newTestRedisClient(t *testing.T) *goredis.Client {
	t.Helper()

	srv := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})

	return client
}

func TestRunLockAcquireRelease(t *testing.T) {
	t.Parallel()

	lock, err := newRunLock(newTestRedisClient(t), time.Minute)
	if err != nil {
		t.Fatalf("newRunLock() error = %v", err)
	}

	ctx := context.Background()
	if err := lock.Acquire(ctx, "transfer", "run-1"); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	err = lock.Acquire(ctx, "transfer", "run-2")
	if !errors.Is(err, ErrLockHeld) {
		t.Fatalf("second Acquire() error = %v, want ErrLockHeld", err)
	}

	if err := lock.Release(ctx, "transfer", "run-1"); err != nil {
		t.Fatalf("Release() error = %v", err)
	}

	if err := lock.Acquire(ctx, "transfer", "run-2"); err != nil {
		t.Fatalf("Acquire() after release error = %v", err)
	}
}

func TestRunLockReleaseIgnoresForeignToken(t *testing.T) {
	t.Parallel()

	lock, err := newRunLock(newTestRedisClient(t), time.Minute)
	if err != nil {
		t.Fatalf("newRunLock() error = %v", err)
	}

	ctx := context.Background()
	if err := lock.Acquire(ctx, "transfer", "run-1"); err != nil {
		t.Fatalf("Acquire() error = %v", err)
	}

	// A stale holder must not be able to release the current owner's lock.
	if err := lock.Release(ctx, "transfer", "stale-token"); err != nil {
		t.Fatalf("Release() with foreign token error = %v", err)
	}

	err = lock.Acquire(ctx, "transfer", "run-3")
	if !errors.Is(err, ErrLockHeld) {
		t.Fatalf("Acquire() error = %v, want ErrLockHeld (lock still owned)", err)
	}
}

func TestRunLockValidation(t *testing.T) {
	t.Parallel()

	if _, err := newRunLock(nil, time.Minute); err == nil {
		t.Fatal("expected error for nil client")
	}

	lock, err := newRunLock(newTestRedisClient(t), time.Minute)
	if err != nil {
		t.Fatalf("newRunLock() error = %v", err)
	}

	if err := lock.Acquire(context.Background(), "", "token"); err == nil {
		t.Fatal("expected error for empty lock name")
	}
	if err := lock.Acquire(context.Background(), "transfer", " "); err == nil {
		t.Fatal("expected error for empty token")
	}
}
