package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/kursadbilgin/asp-relay/internal/domain"
	"github.com/kursadbilgin/asp-relay/internal/observability"
	"github.com/kursadbilgin/asp-relay/internal/queue"
	"github.com/kursadbilgin/asp-relay/internal/repository"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const minIntakeConcurrency = 1

// IntakeService consumes employee record change events from the
// platform queue and persists them as NEW notifications, feeding the
// upload pipeline.
type IntakeService struct {
	notifications repository.NotificationRepository
	consumer      queue.Consumer
	logger        *zap.Logger
	metrics       *observability.Metrics
	concurrency   int
}

func NewIntakeService(
	notifications repository.NotificationRepository,
	consumer queue.Consumer,
	concurrency int,
	logger *zap.Logger,
) (*IntakeService, error) {
	if notifications == nil {
		return nil, fmt.Errorf("notification repository is required")
	}
	if consumer == nil {
		return nil, fmt.Errorf("queue consumer is required")
	}
	if concurrency < minIntakeConcurrency {
		concurrency = minIntakeConcurrency
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &IntakeService{
		notifications: notifications,
		consumer:      consumer,
		logger:        logger,
		concurrency:   concurrency,
	}, nil
}

func (s *IntakeService) SetMetrics(metrics *observability.Metrics) {
	if s == nil {
		return
	}
	s.metrics = metrics
}

// Start consumes the record queue until context cancellation.
func (s *IntakeService) Start(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	g, groupCtx := errgroup.WithContext(ctx)
	for i := 0; i < s.concurrency; i++ {
		workerID := i + 1

		g.Go(func() error {
			s.logger.Info("intake worker started", zap.Int("workerId", workerID))

			err := s.consumer.Consume(groupCtx, queue.RecordQueueName, s.processEvent)
			if err != nil {
				s.logger.Error("intake worker stopped with error",
					zap.Int("workerId", workerID),
					zap.Error(err),
				)
				return err
			}

			s.logger.Info("intake worker stopped", zap.Int("workerId", workerID))
			return nil
		})
	}

	return g.Wait()
}

func (s *IntakeService) processEvent(ctx context.Context, event queue.RecordEvent) error {
	ctx = observability.WithEmployeeRecord(ctx, event.EmployeeRecordID)
	logger := observability.WithContextLogger(s.logger, ctx)

	// Re-deliveries are expected from the broker; an event whose record
	// already has a pending notification is dropped, not duplicated.
	existing, err := s.notifications.GetByEmployeeRecordID(ctx, event.EmployeeRecordID)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return fmt.Errorf("failed to look up existing notification: %w", err)
	}
	if existing != nil && existing.Status == domain.StatusNew {
		logger.Info("pending notification already exists, skipping event")
		s.metrics.IncRecordIngested("duplicate")
		return nil
	}

	notification := event.ToNotification()
	notification.ID = uuid.NewString()

	if err := notification.Validate(); err != nil {
		// Invalid events never become valid; drop them to the DLQ path
		// by acking instead of requeueing forever.
		logger.Warn("dropping invalid record event", zap.Error(err))
		s.metrics.IncRecordIngested("invalid")
		return nil
	}

	if err := s.notifications.Create(ctx, notification); err != nil {
		s.metrics.IncRecordIngested("error")
		return fmt.Errorf("failed to persist notification: %w", err)
	}

	logger.Info("notification created",
		zap.String("notificationId", notification.ID),
		zap.String("movement", notification.Movement.String()),
	)
	s.metrics.IncRecordIngested("created")

	return nil
}
