package observability

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type employeeRecordKey struct{}

func NewLogger(level string) (*zap.Logger, error) {
	parsedLevel, err := parseLevel(level)
	if err != nil {
		return nil, err
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(parsedLevel)
	cfg.EncoderConfig.TimeKey = "timestamp"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true

	logger, err := cfg.Build(zap.AddCaller())
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return logger, nil
}

func parseLevel(level string) (zapcore.Level, error) {
	var parsed zapcore.Level
	normalized := strings.ToLower(strings.TrimSpace(level))
	if normalized == "" {
		normalized = "info"
	}

	if err := parsed.UnmarshalText([]byte(normalized)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	return parsed, nil
}

// WithEmployeeRecord tags the context with the employee record being
// processed, so every log line of an intake handler can be correlated.
func WithEmployeeRecord(ctx context.Context, employeeRecordID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	return context.WithValue(ctx, employeeRecordKey{}, employeeRecordID)
}

func EmployeeRecordFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}

	employeeRecordID, ok := ctx.Value(employeeRecordKey{}).(string)
	if !ok || employeeRecordID == "" {
		return "", false
	}

	return employeeRecordID, true
}

func WithContextLogger(logger *zap.Logger, ctx context.Context) *zap.Logger {
	if logger == nil {
		return nil
	}

	employeeRecordID, ok := EmployeeRecordFromContext(ctx)
	if !ok {
		return logger
	}

	return logger.With(zap.String("employeeRecordId", employeeRecordID))
}
