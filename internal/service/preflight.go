package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/kursadbilgin/asp-relay/internal/asp"
	"github.com/kursadbilgin/asp-relay/internal/batch"
	"github.com/kursadbilgin/asp-relay/internal/repository"
	"go.uber.org/zap"
)

// PreflightService re-serializes every pending notification in chunks
// without touching remote state or notification status. The first
// failure halts the check with a full diagnostic.
type PreflightService struct {
	notifications repository.NotificationRepository
	serializer    *asp.NotificationSerializer
	chunkSize     int
	out           io.Writer
	logger        *zap.Logger
}

func NewPreflightService(
	notifications repository.NotificationRepository,
	serializer *asp.NotificationSerializer,
	chunkSize int,
	out io.Writer,
	logger *zap.Logger,
) (*PreflightService, error) {
	if notifications == nil {
		return nil, fmt.Errorf("notification repository is required")
	}
	if serializer == nil {
		serializer = asp.NewNotificationSerializer()
	}
	if chunkSize < 1 {
		chunkSize = batch.DefaultChunkSize
	}
	if out == nil {
		out = io.Discard
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &PreflightService{
		notifications: notifications,
		serializer:    serializer,
		chunkSize:     chunkSize,
		out:           out,
		logger:        logger,
	}, nil
}

func (s *PreflightService) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	pending, err := s.notifications.FetchPending(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch pending notifications: %w", err)
	}

	if len(pending) == 0 {
		fmt.Fprintln(s.out, "No object to check. Exiting preflight.")
		return nil
	}

	chunks := batch.Chunk(pending, s.chunkSize)
	fmt.Fprintf(s.out, "Found %d object(s) to check, split in %d chunk(s)\n", len(pending), len(chunks))

	for idx, chunk := range chunks {
		fmt.Fprintf(s.out, "Checking file #%d (chunk of %d objects)\n", idx+1, len(chunk))

		for i, notification := range chunk {
			if _, err := s.serializer.Serialize(notification, i+1); err != nil {
				s.reportDiagnostic(err)
				return err
			}
		}
	}

	fmt.Fprintln(s.out, "All serializations ok, you may skip preflight...")

	return nil
}

func (s *PreflightService) reportDiagnostic(err error) {
	fmt.Fprintln(s.out, "Serialization of object failed!")

	var serErr *asp.SerializationError
	if errors.As(err, &serErr) {
		fmt.Fprintf(s.out, "> CLASS: %s\n", serErr.Kind)
		fmt.Fprintf(s.out, "> ID: %s\n", serErr.ObjectID)
		fmt.Fprintf(s.out, "> SERIALIZER: %s\n", serErr.Serializer)
		fmt.Fprintf(s.out, "> FIELD: %s\n", serErr.Field)
		fmt.Fprintf(s.out, "> ERROR: %v\n", serErr.Unwrap())
	} else {
		fmt.Fprintf(s.out, "> ERROR: %v\n", err)
	}

	s.logger.Error("preflight serialization check failed", zap.Error(err))
}
