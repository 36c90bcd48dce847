package primary

import (
	"context"
	"io"
)

// Exchange is the request side of one command on a connection. In is
// positioned right after the command byte.
type Exchange struct {
	In          io.Reader
	Out         io.Writer
	RemoteAddr  string
	WorkerID    string
	WorkerIndex int
}

// CommandHandler defines an interface for handling one protocol command.
// keepAlive reports whether the connection should wait for another command.
type CommandHandler interface {
	HandleCommand(ctx context.Context, ex *Exchange) (keepAlive bool, err error)
}
