package tcp

import (
	"bufio"
	"context"
	"errors"
	"io"
	"net"
	"time"

	"github.com/google/uuid"

	"gitlab.com/fcv-2025.net/fileget/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/fileget/internal/static/errs"
	"gitlab.com/fcv-2025.net/fileget/internal/tcp/defs"
)

// Worker accepts connections from the shared listener and serves them one
// at a time.
type Worker struct {
	id       string
	index    int
	pctx     *PoolContext
	listener net.Listener
	stopCh   <-chan struct{}
	logger   primary.Logger
	handler  *ConnectionHandler
}

func NewWorker(index int, listener net.Listener, stopCh <-chan struct{}, pctx *PoolContext) *Worker {
	id := uuid.New().String()
	logger := pctx.Logger.With("worker", index, "workerId", id, "pid", pctx.PID)
	return &Worker{
		id:       id,
		index:    index,
		pctx:     pctx,
		listener: listener,
		stopCh:   stopCh,
		logger:   logger,
		handler:  NewConnectionHandler(pctx, logger),
	}
}

func (w *Worker) ID() string {
	return w.id
}

func (w *Worker) Index() int {
	return w.index
}

func (w *Worker) stopping() bool {
	select {
	case <-w.stopCh:
		return true
	default:
		return false
	}
}

// Run is the accept loop. It returns once the pool is stopping or the
// listener is closed.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Info("Worker starting")
	for {
		if w.stopping() {
			return
		}

		w.logger.Debug("Waiting for connection")
		conn, err := w.listener.Accept()
		if err != nil {
			if w.stopping() || errors.Is(err, net.ErrClosed) {
				return
			}
			w.logger.Error("Failed to accept connection", "error", err)
			time.Sleep(defs.AcceptRetryDelay)
			continue
		}

		w.serve(ctx, conn)
	}
}

func (w *Worker) serve(ctx context.Context, conn net.Conn) {
	remote := conn.RemoteAddr().String()
	w.pctx.ConnectionMgr.Track(w.id, conn)
	defer func() {
		conn.Close()
		w.pctx.ConnectionMgr.Release(w.id)
		if err := w.pctx.Registry.FinishConnection(context.WithoutCancel(ctx), w.id); err != nil {
			w.logger.Warn("Failed to update registry", "error", err)
		}
	}()

	// Stop may have run between Accept and Track
	if w.stopping() {
		return
	}

	if err := w.pctx.Registry.StartConnection(ctx, w.id, remote); err != nil {
		w.logger.Warn("Failed to update registry", "error", err)
	}
	w.logger.Info("Connection accepted", "remote", remote)

	in := bufio.NewReaderSize(conn, w.pctx.Buffers.BufSize())
	err := awaitReadable(conn, in, w.pctx.IdleTimeout)
	if err == nil {
		err = w.handler.Serve(ctx, conn, in, w)
	}
	w.logConnectionEnd(remote, err)
}

func (w *Worker) logConnectionEnd(remote string, err error) {
	switch {
	case err == nil:
		w.logger.Info("Connection closed", "remote", remote)
	case w.stopping():
		w.logger.Debug("Connection dropped on shutdown", "remote", remote, "error", err)
	case errors.Is(err, errs.ErrTimeout):
		w.logger.Info("No data received. Timeout occurred", "remote", remote)
	case errors.Is(err, io.EOF):
		w.logger.Info("Peer closed connection", "remote", remote)
	case errors.Is(err, errs.ErrUnknownCommand):
		w.logger.Warn("Unknown command received", "remote", remote, "error", err)
	default:
		w.logger.Error("Connection failed", "remote", remote, "error", err)
	}
}
