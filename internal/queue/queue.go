package queue

import "context"

const (
	// RecordQueueName carries employee record change events from the
	// upstream platform.
	RecordQueueName = "employee-records"

	// RecordDLQName receives events rejected by the intake worker.
	RecordDLQName = "dlq.employee-records"
)

// Publisher publishes employee record events to a queue.
type Publisher interface {
	Publish(ctx context.Context, queue string, event RecordEvent) error
	Close() error
}

// EventHandler handles a consumed record event.
type EventHandler func(ctx context.Context, event RecordEvent) error

// Consumer consumes employee record events from a queue.
type Consumer interface {
	Consume(ctx context.Context, queue string, handler EventHandler) error
	Close() error
}
