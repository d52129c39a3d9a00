package service

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/kursadbilgin/asp-relay/internal/batch"
	"github.com/kursadbilgin/asp-relay/internal/domain"
	"github.com/kursadbilgin/asp-relay/internal/observability"
	"github.com/kursadbilgin/asp-relay/internal/repository"
	"github.com/kursadbilgin/asp-relay/internal/transfer"
	"go.uber.org/zap"
)

// processingDoneMsg closes every transfer run, success or abort. The
// status lines written to the run writer are consumed by operational
// tooling and must stay stable.
const processingDoneMsg = "Employee record notifications processing done!"

// UploadService pushes pending notifications to the agency server in
// bounded batches. One transfer session per run; a failed file aborts
// the remaining batches rather than risking out-of-order delivery.
type UploadService struct {
	notifications repository.NotificationRepository
	activities    repository.ActivityRepository
	builder       *batch.Builder
	client        transfer.Client
	out           io.Writer
	logger        *zap.Logger
	metrics       *observability.Metrics
}

func NewUploadService(
	notifications repository.NotificationRepository,
	activities repository.ActivityRepository,
	builder *batch.Builder,
	client transfer.Client,
	out io.Writer,
	logger *zap.Logger,
) (*UploadService, error) {
	if notifications == nil {
		return nil, fmt.Errorf("notification repository is required")
	}
	if builder == nil {
		return nil, fmt.Errorf("batch builder is required")
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

	return &UploadService{
		notifications: notifications,
		activities:    activities,
		builder:       builder,
		client:        client,
		out:           out,
		logger:        logger,
	}, nil
}

func (s *UploadService) SetMetrics(metrics *observability.Metrics) {
	if s == nil {
		return
	}
	s.metrics = metrics
}

// Run executes one upload cycle. Individual file failures end the run
// early but are not an error exit; only the inability to fetch work or
// to open the session is.
func (s *UploadService) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	pending, err := s.notifications.FetchPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch pending notifications: %w", err)
	}

	if len(pending) == 0 {
		fmt.Fprintf(s.out, "Starting UPLOAD of %d notification(s)\n", 0)
		fmt.Fprintln(s.out, processingDoneMsg)
		return nil
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

	fmt.Fprintf(s.out, "Starting UPLOAD of %d notification(s)\n", len(pending))

	for _, planned := range s.builder.Plan(pending) {
		if !s.uploadBatch(ctx, session, planned) {
			fmt.Fprintln(s.out, "Could not upload file, exiting ...")
			break
		}
	}

	return nil
}

// uploadBatch reports whether the run may continue with the next batch.
func (s *UploadService) uploadBatch(ctx context.Context, session transfer.Session, planned batch.Batch) bool {
	content, err := s.builder.Materialize(planned)
	if err != nil {
		s.reportFailure(ctx, planned.Filename, err)
		return false
	}

	if err := session.Upload(content, planned.Filename); err != nil {
		s.reportFailure(ctx, planned.Filename, err)
		return false
	}

	// The upload is positively confirmed: only now may the contained
	// notifications transition to SENT.
	if err := s.notifications.MarkSent(ctx, planned.IDs(), planned.Filename); err != nil {
		s.logger.Error("uploaded batch could not be marked as sent",
			zap.String("filename", planned.Filename),
			zap.Error(err),
		)
		return false
	}

	fmt.Fprintf(s.out, "Successfully uploaded: %s\n", planned.Filename)
	s.metrics.IncFileUploaded("success")
	s.recordActivity(ctx, planned.Filename, true, "")

	return true
}

func (s *UploadService) reportFailure(ctx context.Context, filename string, cause error) {
	fmt.Fprintf(s.out, "Could not upload file: %s, reason: %v\n", filename, cause)
	s.logger.Error("batch upload failed",
		zap.String("filename", filename),
		zap.Error(cause),
	)
	s.metrics.IncFileUploaded("error")
	s.recordActivity(ctx, filename, false, cause.Error())
}

func (s *UploadService) recordActivity(ctx context.Context, filename string, succeeded bool, detail string) {
	if s.activities == nil {
		return
	}

	activity := &domain.TransferActivity{
		ID:        uuid.NewString(),
		Filename:  filename,
		Direction: domain.DirectionUpload,
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
