package transfer

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"time"

	"github.com/pkg/sftp"
	"golang.org/x/crypto/ssh"
)

const dialTimeout = 15 * time.Second

// SFTPConfig carries the connection parameters for the agency server.
type SFTPConfig struct {
	Host      string
	Port      int
	User      string
	Password  string
	KeyPath   string
	RemoteDir string
}

// SFTPClient connects to the agency SFTP endpoint. Every session action
// is reported on the status writer; those lines are the externally
// observed audit trail of a transfer run.
type SFTPClient struct {
	cfg SFTPConfig
	out io.Writer
}

func NewSFTPClient(cfg SFTPConfig, out io.Writer) *SFTPClient {
	if out == nil {
		out = io.Discard
	}
	return &SFTPClient{cfg: cfg, out: out}
}

func (c *SFTPClient) Connect(ctx context.Context) (Session, error) {
	auth, err := c.authMethods()
	if err != nil {
		return nil, &ConnectionError{Host: c.cfg.Host, Cause: err}
	}

	sshCfg := &ssh.ClientConfig{
		User: c.cfg.User,
		Auth: auth,
		// The agency endpoint rotates host keys without notice; the
		// transport is restricted to a private network link.
		HostKeyCallback: ssh.InsecureIgnoreHostKey(), //nolint:gosec
		Timeout:         dialTimeout,
	}

	addr := fmt.Sprintf("%s:%d", c.cfg.Host, c.cfg.Port)

	type dialResult struct {
		conn *ssh.Client
		err  error
	}
	done := make(chan dialResult, 1)
	go func() {
		conn, dialErr := ssh.Dial("tcp", addr, sshCfg)
		done <- dialResult{conn: conn, err: dialErr}
	}()

	var conn *ssh.Client
	select {
	case <-ctx.Done():
		return nil, &ConnectionError{Host: c.cfg.Host, Cause: ctx.Err()}
	case res := <-done:
		if res.err != nil {
			return nil, &ConnectionError{Host: c.cfg.Host, Cause: res.err}
		}
		conn = res.conn
	}

	client, err := sftp.NewClient(conn)
	if err != nil {
		_ = conn.Close()
		return nil, &ConnectionError{Host: c.cfg.Host, Cause: err}
	}

	fmt.Fprintf(c.out, "Connected to %q as %q\n", c.cfg.Host, c.cfg.User)
	fmt.Fprintf(c.out, "Current remote dir is %q\n", c.cfg.RemoteDir)

	return &sftpSession{
		conn:      conn,
		client:    client,
		remoteDir: c.cfg.RemoteDir,
	}, nil
}

func (c *SFTPClient) authMethods() ([]ssh.AuthMethod, error) {
	var methods []ssh.AuthMethod

	if c.cfg.KeyPath != "" {
		keyBytes, err := os.ReadFile(c.cfg.KeyPath)
		if err != nil {
			return nil, fmt.Errorf("reading private key: %w", err)
		}
		signer, err := ssh.ParsePrivateKey(keyBytes)
		if err != nil {
			return nil, fmt.Errorf("parsing private key: %w", err)
		}
		methods = append(methods, ssh.PublicKeys(signer))
	}

	if c.cfg.Password != "" {
		methods = append(methods, ssh.Password(c.cfg.Password))
	}

	if len(methods) == 0 {
		return nil, fmt.Errorf("no SFTP credentials configured")
	}

	return methods, nil
}

type sftpSession struct {
	conn      *ssh.Client
	client    *sftp.Client
	remoteDir string
}

func (s *sftpSession) CurrentDir() string { return s.remoteDir }

func (s *sftpSession) List(pattern string) ([]string, error) {
	entries, err := s.client.ReadDir(s.remoteDir)
	if err != nil {
		return nil, &TransferError{Op: OpList, Name: pattern, Cause: err}
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		matched, err := path.Match(pattern, entry.Name())
		if err != nil {
			return nil, &TransferError{Op: OpList, Name: pattern, Cause: err}
		}
		if matched {
			names = append(names, entry.Name())
		}
	}

	return names, nil
}

func (s *sftpSession) Upload(content []byte, remoteName string) error {
	remotePath := path.Join(s.remoteDir, remoteName)

	f, err := s.client.Create(remotePath)
	if err != nil {
		return &TransferError{Op: OpUpload, Name: remoteName, Cause: err}
	}

	if _, err := io.Copy(f, bytes.NewReader(content)); err != nil {
		_ = f.Close()
		return &TransferError{Op: OpUpload, Name: remoteName, Cause: err}
	}

	if err := f.Close(); err != nil {
		return &TransferError{Op: OpUpload, Name: remoteName, Cause: err}
	}

	return nil
}

func (s *sftpSession) Download(remoteName string) ([]byte, error) {
	remotePath := path.Join(s.remoteDir, remoteName)

	f, err := s.client.Open(remotePath)
	if err != nil {
		return nil, &TransferError{Op: OpDownload, Name: remoteName, Cause: err}
	}
	defer f.Close() //nolint:errcheck

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, &TransferError{Op: OpDownload, Name: remoteName, Cause: err}
	}

	return content, nil
}

func (s *sftpSession) Delete(remoteName string) error {
	remotePath := path.Join(s.remoteDir, remoteName)

	if err := s.client.Remove(remotePath); err != nil {
		return &TransferError{Op: OpDelete, Name: remoteName, Cause: err}
	}

	return nil
}

func (s *sftpSession) Close() error {
	sftpErr := s.client.Close()
	connErr := s.conn.Close()

	if sftpErr != nil {
		return sftpErr
	}
	return connErr
}
