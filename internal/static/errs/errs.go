package errs

import "errors"

// Transport and protocol failures. Every error produced while serving or
// fetching a file wraps exactly one of these so callers can classify it with
// errors.Is.
var (
	ErrConnect         = errors.New("connect error")
	ErrProtocol        = errors.New("protocol error")
	ErrTimeout         = errors.New("timeout")
	ErrNotFound        = errors.New("file not found")
	ErrIO              = errors.New("io error")
	ErrPartialTransfer = errors.New("partial transfer")
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUnknownStatus  = errors.New("unknown response code")
	ErrFileTooLarge   = errors.New("file not representable in 32-bit size/mtime fields")
	ErrNameTooLong    = errors.New("filename too long")
)
