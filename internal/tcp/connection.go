package tcp

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"gitlab.com/fcv-2025.net/fileget/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/fileget/internal/static/errs"
	"gitlab.com/fcv-2025.net/fileget/internal/tcp/codec"
	"gitlab.com/fcv-2025.net/fileget/internal/tcp/defs"
	"gitlab.com/fcv-2025.net/fileget/internal/tcp/handlers"
)

// ConnectionHandler runs the per-connection command loop
type ConnectionHandler struct {
	pctx     *PoolContext
	logger   primary.Logger
	handlers map[byte]primary.CommandHandler
}

// NewConnectionHandler registers the GET and QUIT command handlers
func NewConnectionHandler(pctx *PoolContext, logger primary.Logger) *ConnectionHandler {
	return &ConnectionHandler{
		pctx:   pctx,
		logger: logger,
		handlers: map[byte]primary.CommandHandler{
			defs.CmdGet: &handlers.GetFileHandler{
				Files:     pctx.Files,
				Transfers: pctx.Transfers,
				Buffers:   pctx.Buffers,
				Logger:    logger,
			},
			defs.CmdQuit: &handlers.QuitHandler{Logger: logger},
		},
	}
}

// Serve reads and dispatches commands until a handler ends the connection,
// the peer stays idle past the idle timeout, or any read or write fails.
// The caller has already waited for the first byte and owns closing conn.
func (h *ConnectionHandler) Serve(ctx context.Context, conn net.Conn, in *bufio.Reader, w *Worker) error {
	ex := &primary.Exchange{
		In:          in,
		Out:         conn,
		RemoteAddr:  conn.RemoteAddr().String(),
		WorkerID:    w.ID(),
		WorkerIndex: w.Index(),
	}

	for {
		cmd, err := codec.ReadCommand(in)
		if err != nil {
			return err
		}

		handler, ok := h.handlers[cmd]
		h.logger.Debug("Command received", "command", defs.CommandName(cmd), "code", cmd)
		if !ok {
			return fmt.Errorf("%w: %w: %d", errs.ErrProtocol, errs.ErrUnknownCommand, cmd)
		}

		keepAlive, err := handler.HandleCommand(ctx, ex)
		if err != nil || !keepAlive {
			return err
		}

		if err := awaitReadable(conn, in, h.pctx.IdleTimeout); err != nil {
			return err
		}
	}
}

// awaitReadable blocks until at least one byte can be read from in or the
// timeout expires. Reads after it returns have no deadline.
func awaitReadable(conn net.Conn, in *bufio.Reader, timeout time.Duration) error {
	if in.Buffered() > 0 {
		return nil
	}

	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return fmt.Errorf("%w: set deadline: %w", errs.ErrIO, err)
	}
	_, peekErr := in.Peek(1)
	if err := conn.SetReadDeadline(time.Time{}); err != nil && peekErr == nil {
		return fmt.Errorf("%w: clear deadline: %w", errs.ErrIO, err)
	}

	if peekErr != nil {
		var ne net.Error
		if errors.As(peekErr, &ne) && ne.Timeout() {
			return fmt.Errorf("%w: no data within %s", errs.ErrTimeout, timeout)
		}
		return fmt.Errorf("%w: waiting for data: %w", errs.ErrIO, peekErr)
	}
	return nil
}
