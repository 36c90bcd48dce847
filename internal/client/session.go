// Package client fetches files from a fileget server.
package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"time"

	"gitlab.com/fcv-2025.net/fileget/internal/config"
	"gitlab.com/fcv-2025.net/fileget/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/fileget/internal/domain"
	"gitlab.com/fcv-2025.net/fileget/internal/static/errs"
	"gitlab.com/fcv-2025.net/fileget/internal/tcp/codec"
	"gitlab.com/fcv-2025.net/fileget/internal/tcp/defs"
)

var errSessionClosed = errors.New("session closed")

// Result describes one completed GET
type Result struct {
	FileName string
	Path     string
	Meta     domain.FileMeta
	Duration time.Duration
}

// Session is one client connection. Fetch may be called repeatedly while
// the server keeps the connection alive.
type Session struct {
	conn    net.Conn
	in      *bufio.Reader
	logger  primary.Logger
	destDir string
	buf     []byte
	closed  bool
}

// Dial connects to address and returns a ready session
func Dial(ctx context.Context, address string, cfg *config.ClientConfig, logger primary.Logger) (*Session, error) {
	dialer := net.Dialer{Timeout: cfg.DialTimeout}
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", errs.ErrConnect, address, err)
	}
	logger.Info("Connected", "address", address)
	return NewSession(conn, cfg, logger), nil
}

// NewSession wraps an established connection
func NewSession(conn net.Conn, cfg *config.ClientConfig, logger primary.Logger) *Session {
	bufSize := cfg.BufferSize
	if bufSize <= 0 {
		bufSize = defs.DefaultBufferSize
	}
	destDir := cfg.DestDir
	if destDir == "" {
		destDir = "."
	}
	return &Session{
		conn:    conn,
		in:      bufio.NewReaderSize(conn, bufSize),
		logger:  logger,
		destDir: destDir,
		buf:     make([]byte, bufSize),
	}
}

// Fetch requests name and writes it to name inside the destination
// directory, replacing any existing file. On NOT_FOUND nothing is created
// and the session is closed. A transfer that fails mid-stream may leave a
// partial file behind.
func (s *Session) Fetch(ctx context.Context, name string) (*Result, error) {
	if s.closed {
		return nil, fmt.Errorf("%w: %w", errs.ErrIO, errSessionClosed)
	}

	stop := context.AfterFunc(ctx, func() {
		s.conn.SetDeadline(time.Now())
	})
	defer stop()

	res, err := s.fetch(name)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			err = fmt.Errorf("%w: %w", err, ctxErr)
		}
		s.shutdown()
		return nil, err
	}
	return res, nil
}

func (s *Session) fetch(name string) (*Result, error) {
	started := time.Now()

	s.logger.Debug("Sending request", "file", name, "nameLength", len(name))
	if err := codec.WriteGetRequest(s.conn, name); err != nil {
		return nil, err
	}

	status, err := codec.ReadStatus(s.in)
	if err != nil {
		return nil, err
	}
	s.logger.Debug("Response", "status", status)

	switch status {
	case defs.StatusOK:
	case defs.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", errs.ErrNotFound, name)
	default:
		return nil, fmt.Errorf("%w: %w: %d", errs.ErrProtocol, errs.ErrUnknownStatus, status)
	}

	meta, err := codec.ReadMetadata(s.in)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Receiving file", "file", name, "size", meta.Size, "modTime", meta.ModTime)

	path := filepath.Join(s.destDir, name)
	dst, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("%w: create %s: %w", errs.ErrIO, path, err)
	}

	received, err := codec.ReceiveContent(s.in, dst, meta.Size, s.buf)
	closeErr := dst.Close()
	if err != nil {
		s.logger.Error("Transfer aborted", "file", name, "received", received, "size", meta.Size)
		return nil, err
	}
	if closeErr != nil {
		return nil, fmt.Errorf("%w: close %s: %w", errs.ErrIO, path, closeErr)
	}

	res := &Result{
		FileName: name,
		Path:     path,
		Meta:     meta,
		Duration: time.Since(started),
	}
	s.logger.Info("Transfer complete", "file", name, "bytes", received, "duration", res.Duration.String())
	return res, nil
}

// Close sends QUIT when the connection is still usable, then closes it
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	if err := codec.WriteCommand(s.conn, defs.CmdQuit); err != nil {
		s.logger.Debug("Failed to send quit", "error", err)
	}
	return s.shutdown()
}

func (s *Session) shutdown() error {
	if s.closed {
		return nil
	}
	s.closed = true
	return s.conn.Close()
}
