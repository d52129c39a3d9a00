package batch

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/kursadbilgin/asp-relay/internal/asp"
	"github.com/kursadbilgin/asp-relay/internal/domain"
)

const (
	// DefaultChunkSize bounds the number of notifications per uploaded file.
	DefaultChunkSize = 700

	filenamePrefix = "RIAE_FS_"
	filenameLayout = "20060102150405"
)

// Batch is an ephemeral, immutable grouping of notifications destined
// for one uploaded file. It is never persisted on its own.
type Batch struct {
	Filename      string
	Notifications []*domain.Notification
}

// IDs returns the notification identifiers in batch order.
func (b Batch) IDs() []string {
	ids := make([]string, 0, len(b.Notifications))
	for _, n := range b.Notifications {
		ids = append(ids, n.ID)
	}
	return ids
}

// Builder groups sendable notifications into bounded batches and
// materializes their upload payloads on demand.
type Builder struct {
	serializer *asp.NotificationSerializer
	chunkSize  int
	now        func() time.Time
}

func NewBuilder(serializer *asp.NotificationSerializer, chunkSize int) *Builder {
	if serializer == nil {
		serializer = asp.NewNotificationSerializer()
	}
	if chunkSize < 1 {
		chunkSize = DefaultChunkSize
	}

	return &Builder{
		serializer: serializer,
		chunkSize:  chunkSize,
		now:        time.Now,
	}
}

// Chunk splits notifications into ceil(N/K) groups of at most K,
// preserving the original relative order.
func Chunk(notifications []*domain.Notification, size int) [][]*domain.Notification {
	if size < 1 {
		size = DefaultChunkSize
	}

	chunks := make([][]*domain.Notification, 0, (len(notifications)+size-1)/size)
	for start := 0; start < len(notifications); start += size {
		end := start + size
		if end > len(notifications) {
			end = len(notifications)
		}
		chunks = append(chunks, notifications[start:end])
	}

	return chunks
}

// Plan assigns the ordered batches for one upload run. Filenames are
// derived from the run timestamp with a per-batch second offset, so two
// batches planned within the same run never collide. Serialization is
// deferred to Materialize, one file at a time.
func (b *Builder) Plan(notifications []*domain.Notification) []Batch {
	chunks := Chunk(notifications, b.chunkSize)
	base := b.now().UTC()

	batches := make([]Batch, 0, len(chunks))
	for idx, chunk := range chunks {
		batches = append(batches, Batch{
			Filename:      Filename(base.Add(time.Duration(idx) * time.Second)),
			Notifications: chunk,
		})
	}

	return batches
}

// Materialize serializes one planned batch into its upload payload.
func (b *Builder) Materialize(planned Batch) ([]byte, error) {
	envelope := asp.FileEnvelope{
		TelID:   strings.TrimSuffix(planned.Filename, ".json"),
		LineCnt: len(planned.Notifications),
		Lines:   make([]asp.Line, 0, len(planned.Notifications)),
	}

	for i, notification := range planned.Notifications {
		line, err := b.serializer.Serialize(notification, i+1)
		if err != nil {
			return nil, err
		}
		envelope.Lines = append(envelope.Lines, *line)
	}

	content, err := json.Marshal(envelope)
	if err != nil {
		return nil, fmt.Errorf("encoding envelope for %s: %w", planned.Filename, err)
	}

	return content, nil
}

// Filename builds the remote upload name for a batch timestamp.
func Filename(t time.Time) string {
	return filenamePrefix + t.Format(filenameLayout) + ".json"
}

// FeedbackName maps an upload filename to the agency's result filename.
func FeedbackName(uploadName string) string {
	return strings.TrimSuffix(uploadName, ".json") + asp.FeedbackSuffix
}
