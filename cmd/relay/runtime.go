package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/kursadbilgin/asp-relay/internal/config"
	"github.com/kursadbilgin/asp-relay/internal/infra/postgresql"
	"github.com/kursadbilgin/asp-relay/internal/infra/redis"
	"github.com/kursadbilgin/asp-relay/internal/observability"
	"github.com/kursadbilgin/asp-relay/internal/repository"
	"github.com/kursadbilgin/asp-relay/internal/transfer"
)

const transferLockTTL = 2 * time.Hour

// runtime bundles the dependencies every subcommand needs: config,
// logger and the notification store.
type runtime struct {
	cfg           *config.Config
	logger        *zap.Logger
	db            *gorm.DB
	notifications repository.NotificationRepository
	activities    repository.ActivityRepository
}

func newRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}

	logger, err := observability.NewLogger(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	db, err := postgresql.NewPostgres(cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	return &runtime{
		cfg:           cfg,
		logger:        logger,
		db:            db,
		notifications: repository.NewGormNotificationRepo(db),
		activities:    repository.NewGormActivityRepo(db),
	}, nil
}

func (rt *runtime) close() {
	_ = rt.logger.Sync()
}

func (rt *runtime) transferClient() *transfer.SFTPClient {
	return transfer.NewSFTPClient(transfer.SFTPConfig{
		Host:      rt.cfg.SFTPHost,
		Port:      rt.cfg.SFTPPort,
		User:      rt.cfg.SFTPUser,
		Password:  rt.cfg.SFTPPassword,
		KeyPath:   rt.cfg.SFTPKeyPath,
		RemoteDir: rt.cfg.SFTPRemoteDir,
	}, os.Stdout)
}

// withTransferLock serializes transfer runs across hosts with a redis
// lease. Without REDIS_URL the command still runs, unguarded.
func (rt *runtime) withTransferLock(ctx context.Context, fn func(context.Context) error) error {
	if rt.cfg.RedisURL == "" {
		rt.logger.Warn("REDIS_URL is not set, running without a transfer lock")
		return fn(ctx)
	}

	client, err := redis.NewRedis(rt.cfg.RedisURL)
	if err != nil {
		return err
	}
	defer client.Close()

	lock, err := redis.NewRunLock(client, transferLockTTL)
	if err != nil {
		return err
	}

	token := uuid.NewString()
	if err := lock.Acquire(ctx, "transfer", token); err != nil {
		if errors.Is(err, redis.ErrLockHeld) {
			return fmt.Errorf("another transfer run is in progress, try again later")
		}
		return err
	}
	defer func() {
		if err := lock.Release(context.Background(), "transfer", token); err != nil {
			rt.logger.Warn("failed to release transfer lock", zap.Error(err))
		}
	}()

	return fn(ctx)
}
