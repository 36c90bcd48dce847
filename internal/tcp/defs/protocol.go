package defs

import "time"

// Protocol constants
const (
	// Commands
	CmdGet  byte = 0
	CmdQuit byte = 2

	// Response status
	StatusOK       byte = 1
	StatusNotFound byte = 3

	// MaxFilenameLength is bounded by the 16-bit length prefix.
	MaxFilenameLength = 1<<16 - 1

	// Field widths
	FilenameLengthSize = 2
	MetadataSize       = 8
)

// Pool defaults
const (
	DefaultWorkers     = 3
	DefaultBacklog     = 3
	DefaultBufferSize  = 1024
	DefaultIdleTimeout = 10 * time.Second

	AcceptRetryDelay  = 100 * time.Millisecond
	HeartbeatInterval = 30 * time.Second
)

// CommandName returns a printable name for a command byte
func CommandName(cmd byte) string {
	switch cmd {
	case CmdGet:
		return "GET"
	case CmdQuit:
		return "QUIT"
	default:
		return "UNKNOWN"
	}
}
