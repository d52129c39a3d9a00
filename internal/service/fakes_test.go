package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/kursadbilgin/asp-relay/internal/domain"
	"github.com/kursadbilgin/asp-relay/internal/queue"
	"github.com/kursadbilgin/asp-relay/internal/transfer"
)

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications map[string]*domain.Notification

	fetchPendingErr error
	markSentErr     error
	setResultErr    error
}

func newFakeNotificationRepo(notifications ...*domain.Notification) *fakeNotificationRepo {
	repo := &fakeNotificationRepo{notifications: map[string]*domain.Notification{}}
	for _, n := range notifications {
		copied := *n
		repo.notifications[n.ID] = &copied
	}
	return repo
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	copied := *n
	r.notifications[n.ID] = &copied
	return nil
}

func (r *fakeNotificationRepo) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notifications[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	copied := *n
	return &copied, nil
}

func (r *fakeNotificationRepo) GetByEmployeeRecordID(ctx context.Context, employeeRecordID string) (*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, n := range r.notifications {
		if n.EmployeeRecordID == employeeRecordID {
			copied := *n
			return &copied, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (r *fakeNotificationRepo) FetchPending(ctx context.Context) ([]*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.fetchPendingErr != nil {
		return nil, r.fetchPendingErr
	}

	var pending []*domain.Notification
	for _, n := range r.notifications {
		if n.Status == domain.StatusNew {
			copied := *n
			pending = append(pending, &copied)
		}
	}
	sort.Slice(pending, func(i, j int) bool { return pending[i].ID < pending[j].ID })
	return pending, nil
}

func (r *fakeNotificationRepo) MarkSent(ctx context.Context, ids []string, batchFilename string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.markSentErr != nil {
		return r.markSentErr
	}

	for _, id := range ids {
		n, ok := r.notifications[id]
		if !ok {
			return domain.ErrNotFound
		}
		n.Status = domain.StatusSent
		filename := batchFilename
		n.BatchFilename = &filename
	}
	return nil
}

func (r *fakeNotificationRepo) SetResult(ctx context.Context, id string, status domain.Status, code, label string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.setResultErr != nil {
		return r.setResultErr
	}

	n, ok := r.notifications[id]
	if !ok {
		return domain.ErrNotFound
	}
	n.Status = status
	n.ProcessingCode = &code
	n.ProcessingLabel = &label
	return nil
}

func (r *fakeNotificationRepo) Disable(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	n, ok := r.notifications[id]
	if !ok || n.Status != domain.StatusNew {
		return domain.ErrNotFound
	}
	n.Status = domain.StatusDisabled
	return nil
}

func (r *fakeNotificationRepo) get(id string) *domain.Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.notifications[id]
}

type fakeActivityRepo struct {
	mu         sync.Mutex
	activities []domain.TransferActivity
}

func (r *fakeActivityRepo) Create(ctx context.Context, a *domain.TransferActivity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activities = append(r.activities, *a)
	return nil
}

func (r *fakeActivityRepo) GetByFilename(ctx context.Context, filename string) ([]domain.TransferActivity, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var matched []domain.TransferActivity
	for _, a := range r.activities {
		if a.Filename == filename {
			matched = append(matched, a)
		}
	}
	return matched, nil
}

// fakeClient mimics the SFTP client's session scope and status lines
// against an in-memory remote directory.
type fakeClient struct {
	host       string
	user       string
	remoteDir  string
	out        io.Writer
	connectErr error

	session *fakeSession
}

func newFakeClient(out io.Writer) *fakeClient {
	return &fakeClient{
		host:      "sftp.asp.test",
		user:      "riae",
		remoteDir: "/depot",
		out:       out,
		session: &fakeSession{
			remoteDir: "/depot",
			files:     map[string][]byte{},
		},
	}
}

func (c *fakeClient) Connect(ctx context.Context) (transfer.Session, error) {
	if c.connectErr != nil {
		return nil, c.connectErr
	}

	fmt.Fprintf(c.out, "Connected to %q as %q\n", c.host, c.user)
	fmt.Fprintf(c.out, "Current remote dir is %q\n", c.remoteDir)

	c.session.closed = false
	return c.session, nil
}

type fakeSession struct {
	remoteDir string
	files     map[string][]byte
	order     []string
	closed    bool

	failAllUploads bool
	downloadErrFor string
	deleteErrFor   string

	uploadAttempts int
	uploads        []string
	deletes        []string
}

func (s *fakeSession) CurrentDir() string { return s.remoteDir }

func (s *fakeSession) List(pattern string) ([]string, error) {
	var names []string
	for _, name := range s.order {
		if _, ok := s.files[name]; !ok {
			continue
		}
		matched, err := matchPattern(pattern, name)
		if err != nil {
			return nil, err
		}
		if matched {
			names = append(names, name)
		}
	}
	return names, nil
}

func (s *fakeSession) Upload(content []byte, remoteName string) error {
	s.uploadAttempts++
	if s.failAllUploads {
		return &transfer.TransferError{Op: transfer.OpUpload, Name: remoteName, Cause: fmt.Errorf("remote disk full")}
	}
	s.put(remoteName, content)
	s.uploads = append(s.uploads, remoteName)
	return nil
}

func (s *fakeSession) Download(remoteName string) ([]byte, error) {
	if s.downloadErrFor != "" && s.downloadErrFor == remoteName {
		return nil, &transfer.TransferError{Op: transfer.OpDownload, Name: remoteName, Cause: fmt.Errorf("connection reset")}
	}
	content, ok := s.files[remoteName]
	if !ok {
		return nil, &transfer.TransferError{Op: transfer.OpDownload, Name: remoteName, Cause: fmt.Errorf("no such file")}
	}
	return content, nil
}

func (s *fakeSession) Delete(remoteName string) error {
	if s.deleteErrFor != "" && s.deleteErrFor == remoteName {
		return &transfer.TransferError{Op: transfer.OpDelete, Name: remoteName, Cause: fmt.Errorf("permission denied")}
	}
	delete(s.files, remoteName)
	s.deletes = append(s.deletes, remoteName)
	return nil
}

func (s *fakeSession) Close() error {
	s.closed = true
	return nil
}

func (s *fakeSession) put(name string, content []byte) {
	if _, exists := s.files[name]; !exists {
		s.order = append(s.order, name)
	}
	s.files[name] = content
}

func matchPattern(pattern, name string) (bool, error) {
	// Mirrors path.Match semantics for the patterns the services use.
	if pattern == "*" {
		return true, nil
	}
	if len(pattern) > 1 && pattern[0] == '*' {
		suffix := pattern[1:]
		return len(name) >= len(suffix) && name[len(name)-len(suffix):] == suffix, nil
	}
	return pattern == name, nil
}

type fakeConsumer struct {
	events []queue.RecordEvent
}

func (c *fakeConsumer) Consume(ctx context.Context, queueName string, handler queue.EventHandler) error {
	for _, event := range c.events {
		if err := handler(ctx, event); err != nil {
			return err
		}
	}
	return nil
}

func (c *fakeConsumer) Close() error { return nil }
