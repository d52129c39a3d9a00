package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/kursadbilgin/asp-relay/internal/asp"
	"github.com/kursadbilgin/asp-relay/internal/domain"
	"github.com/kursadbilgin/asp-relay/internal/observability"
	"github.com/kursadbilgin/asp-relay/internal/repository"
	"github.com/kursadbilgin/asp-relay/internal/transfer"
	"go.uber.org/zap"
)

// DownloadService fetches agency feedback files, reconciles their
// results against local notifications and deletes only the files whose
// every record was applied cleanly.
type DownloadService struct {
	notifications repository.NotificationRepository
	activities    repository.ActivityRepository
	client        transfer.Client
	out           io.Writer
	logger        *zap.Logger
	metrics       *observability.Metrics
}

func NewDownloadService(
	notifications repository.NotificationRepository,
	activities repository.ActivityRepository,
	client transfer.Client,
	out io.Writer,
	logger *zap.Logger,
) (*DownloadService, error) {
	if notifications == nil {
		return nil, fmt.Errorf("notification repository is required")
	}
	if client == nil {
		return nil, fmt.Errorf("transfer client is required")
	}
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &DownloadService{
		notifications: notifications,
		activities:    activities,
		client:        client,
		out:           out,
		logger:        logger,
	}, nil
}

func (s *DownloadService) SetMetrics(metrics *observability.Metrics) {
	if s == nil {
		return
	}
	s.metrics = metrics
}

// Run executes one feedback cycle. A file that fails to parse or apply
// is kept on the remote server for the next run; the cycle itself still
// completes normally.
func (s *DownloadService) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	session, err := s.client.Connect(ctx)
	if err != nil {
		return err
	}
	defer func() {
		fmt.Fprintln(s.out, processingDoneMsg)
		if closeErr := session.Close(); closeErr != nil {
			s.logger.Error("failed to close transfer session", zap.Error(closeErr))
		}
	}()

	fmt.Fprintln(s.out, "Starting DOWNLOAD of feedback files")

	names, err := session.List("*" + asp.FeedbackSuffix)
	if err != nil {
		s.logger.Error("failed to list feedback files", zap.Error(err))
		return err
	}

	parsed := 0
	for _, name := range names {
		fmt.Fprintf(s.out, "Fetching file: %s\n", name)

		if err := s.processFile(ctx, session, name); err != nil {
			fmt.Fprintf(s.out, "Error while parsing file %s: ex=%v\n", name, err)
			fmt.Fprintf(s.out, "Will not delete file '%s' because of errors.\n", name)
			s.metrics.IncFeedbackFile("error")
			s.recordActivity(ctx, name, false, err.Error())
			continue
		}

		parsed++
		fmt.Fprintf(s.out, "Successfully processed '%s', it can be deleted.\n", name)
		fmt.Fprintf(s.out, "Deleting '%s' from SFTP server\n", name)
		if err := session.Delete(name); err != nil {
			// Local state is already reconciled; the leftover file will
			// reprocess as a no-op on the next run.
			s.logger.Error("failed to delete feedback file",
				zap.String("filename", name),
				zap.Error(err),
			)
		}
		s.metrics.IncFeedbackFile("success")
		s.recordActivity(ctx, name, true, "")
	}

	fmt.Fprintf(s.out, "Successfully parsed %d/%d files\n", parsed, len(names))

	return nil
}

// processFile downloads and applies one feedback file. Any returned
// error leaves the remote file in place.
func (s *DownloadService) processFile(ctx context.Context, session transfer.Session, name string) error {
	content, err := session.Download(name)
	if err != nil {
		return err
	}

	file, err := asp.ParseFeedback(content)
	if err != nil {
		return err
	}

	for _, line := range file.Lines {
		if err := s.applyLine(ctx, name, line); err != nil {
			return err
		}
	}

	return nil
}

func (s *DownloadService) applyLine(ctx context.Context, filename string, line asp.FeedbackLine) error {
	if _, err := s.notifications.GetByID(ctx, line.NotificationID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			// The agency can echo identifiers this instance never sent
			// (replays, other environments). Skipped, not fatal.
			s.logger.Warn("feedback line references unknown notification",
				zap.String("filename", filename),
				zap.String("notificationId", line.NotificationID),
			)
			return nil
		}
		return fmt.Errorf("looking up notification %s: %w", line.NotificationID, err)
	}

	status := domain.StatusProcessed
	if !line.Succeeded() {
		status = domain.StatusError
	}

	if err := s.notifications.SetResult(ctx, line.NotificationID, status, line.ProcessingCode, line.ProcessingLabel); err != nil {
		return fmt.Errorf("applying result to notification %s: %w", line.NotificationID, err)
	}

	s.metrics.IncNotificationReconciled(status.String())

	return nil
}

func (s *DownloadService) recordActivity(ctx context.Context, filename string, succeeded bool, detail string) {
	if s.activities == nil {
		return
	}

	activity := &domain.TransferActivity{
		ID:        uuid.NewString(),
		Filename:  filename,
		Direction: domain.DirectionDownload,
		Succeeded: succeeded,
	}
	if detail != "" {
		activity.Detail = &detail
	}

	if err := s.activities.Create(ctx, activity); err != nil {
		s.logger.Error("failed to record transfer activity",
			zap.String("filename", filename),
			zap.Error(err),
		)
	}
}
