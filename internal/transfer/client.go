package transfer

import (
	"context"
	"fmt"
)

// Client opens authenticated transfer sessions against the remote server.
type Client interface {
	Connect(ctx context.Context) (Session, error)
}

// Session is one authenticated connection scope. It owns the current
// remote directory and must be closed on every exit path; the remote
// directory offers no transactional guarantee, so callers sequence
// their operations accordingly.
type Session interface {
	CurrentDir() string
	List(pattern string) ([]string, error)
	Upload(content []byte, remoteName string) error
	Download(remoteName string) ([]byte, error)
	Delete(remoteName string) error
	Close() error
}

// ConnectionError reports a failure to establish a transfer session.
type ConnectionError struct {
	Host  string
	Cause error
}

func (e *ConnectionError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("cannot connect to %q: %v", e.Host, e.Cause)
}

func (e *ConnectionError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Op identifies the transfer operation that failed.
type Op string

const (
	OpList     Op = "list"
	OpUpload   Op = "upload"
	OpDownload Op = "download"
	OpDelete   Op = "delete"
)

// TransferError reports a per-file operation failure.
type TransferError struct {
	Op    Op
	Name  string
	Cause error
}

func (e *TransferError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s %q: %v", e.Op, e.Name, e.Cause)
}

func (e *TransferError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}
