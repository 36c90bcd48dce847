// Package tcp implements the preforked file server: a fixed pool of workers
// accepting from one listening socket.
package tcp

import (
	"context"
	"fmt"
	"net"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"gitlab.com/fcv-2025.net/fileget/internal/bufpool"
	"gitlab.com/fcv-2025.net/fileget/internal/config"
	"gitlab.com/fcv-2025.net/fileget/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/fileget/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/fileget/internal/core/services/transfer"
	"gitlab.com/fcv-2025.net/fileget/internal/core/services/worker"
	"gitlab.com/fcv-2025.net/fileget/internal/domain"
	"gitlab.com/fcv-2025.net/fileget/internal/tcp/connectionmanager"
	"gitlab.com/fcv-2025.net/fileget/internal/tcp/defs"
)

// Pool owns the listening socket and the workers sharing it
type Pool struct {
	address     string
	name        string
	workers     int
	backlog     int
	idleTimeout time.Duration
	bufferSize  int
	respawn     bool

	pctx     *PoolContext
	logger   primary.Logger
	listener net.Listener

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	alive    atomic.Int32
}

// PoolOption configures a Pool
type PoolOption func(*Pool)

// WithAddress sets the listen address
func WithAddress(address string) PoolOption {
	return func(p *Pool) {
		p.address = address
	}
}

// WithWorkers sets the number of workers started by Start
func WithWorkers(n int) PoolOption {
	return func(p *Pool) {
		if n > 0 {
			p.workers = n
		}
	}
}

// WithBacklog sets the accept queue depth
func WithBacklog(n int) PoolOption {
	return func(p *Pool) {
		if n > 0 {
			p.backlog = n
		}
	}
}

// WithIdleTimeout sets how long a connection may stay silent before a command
func WithIdleTimeout(d time.Duration) PoolOption {
	return func(p *Pool) {
		if d > 0 {
			p.idleTimeout = d
		}
	}
}

// WithBufferSize sets the file chunk size
func WithBufferSize(n int) PoolOption {
	return func(p *Pool) {
		if n > 0 {
			p.bufferSize = n
		}
	}
}

// WithRespawn replaces a crashed worker instead of shrinking the pool
func WithRespawn(respawn bool) PoolOption {
	return func(p *Pool) {
		p.respawn = respawn
	}
}

// WithName sets the program name reported in logs
func WithName(name string) PoolOption {
	return func(p *Pool) {
		p.name = name
	}
}

// WithServerConfig applies every pool setting from cfg
func WithServerConfig(cfg *config.ServerConfig) PoolOption {
	return func(p *Pool) {
		for _, opt := range []PoolOption{
			WithWorkers(cfg.Workers),
			WithBacklog(cfg.Backlog),
			WithIdleTimeout(cfg.IdleTimeout),
			WithBufferSize(cfg.BufferSize),
			WithRespawn(cfg.Respawn),
		} {
			opt(p)
		}
	}
}

// NewPool creates a pool; nothing listens until Start
func NewPool(
	registry worker.IWorkerRegistryService,
	transfers transfer.ITransferLogService,
	files secondary.FileStore,
	logger primary.Logger,
	options ...PoolOption,
) *Pool {
	p := &Pool{
		address:     ":0",
		name:        "fileget",
		workers:     defs.DefaultWorkers,
		backlog:     defs.DefaultBacklog,
		idleTimeout: defs.DefaultIdleTimeout,
		bufferSize:  defs.DefaultBufferSize,
		stopCh:      make(chan struct{}),
	}

	for _, option := range options {
		option(p)
	}

	p.logger = logger.With("app", p.name)
	p.pctx = &PoolContext{
		Name:          p.name,
		PID:           os.Getpid(),
		IdleTimeout:   p.idleTimeout,
		Logger:        p.logger,
		Registry:      registry,
		Transfers:     transfers,
		Files:         files,
		ConnectionMgr: connectionmanager.NewConnectionManager(p.logger),
		Buffers:       bufpool.New(p.bufferSize),
	}
	return p
}

// Start binds the listener and starts every worker
func (p *Pool) Start(ctx context.Context) error {
	ln, err := listenTCP(p.address, p.backlog)
	if err != nil {
		return fmt.Errorf("failed to start TCP server: %w", err)
	}
	p.listener = ln

	p.logger.Info("TCP server listening",
		"address", ln.Addr().String(),
		"workers", p.workers,
		"backlog", p.backlog,
		"idleTimeout", p.idleTimeout.String(),
	)

	for i := 0; i < p.workers; i++ {
		p.spawn(ctx, i)
	}
	return nil
}

// Addr returns the bound address, nil before Start
func (p *Pool) Addr() net.Addr {
	if p.listener == nil {
		return nil
	}
	return p.listener.Addr()
}

// Alive returns the number of running workers
func (p *Pool) Alive() int {
	return int(p.alive.Load())
}

// Context exposes the shared pool context
func (p *Pool) Context() *PoolContext {
	return p.pctx
}

func (p *Pool) spawn(ctx context.Context, index int) {
	w := NewWorker(index, p.listener, p.stopCh, p.pctx)
	info := &domain.WorkerInfo{ID: w.ID(), Index: index, PID: p.pctx.PID}
	if err := p.pctx.Registry.RegisterWorker(ctx, info); err != nil {
		p.logger.Warn("Failed to register worker", "worker", index, "error", err)
	}

	p.alive.Add(1)
	p.wg.Add(1)
	go p.runWorker(ctx, w)
}

func (p *Pool) runWorker(ctx context.Context, w *Worker) {
	defer p.wg.Done()
	defer p.alive.Add(-1)

	crashed := p.runSafely(ctx, w)
	state := domain.WorkerStateStopped
	if crashed {
		state = domain.WorkerStateDead
	}
	if err := p.pctx.Registry.MarkState(context.WithoutCancel(ctx), w.ID(), state); err != nil {
		p.logger.Warn("Failed to update registry", "worker", w.Index(), "error", err)
	}
	p.logger.Info("Worker exited", "worker", w.Index(), "workerId", w.ID(), "state", state)

	if crashed && p.respawn && !p.stopping() {
		p.logger.Info("Respawning worker", "worker", w.Index())
		p.spawn(ctx, w.Index())
	}
}

func (p *Pool) runSafely(ctx context.Context, w *Worker) (crashed bool) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("Worker crashed", "worker", w.Index(), "workerId", w.ID(), "panic", r)
			crashed = true
		}
	}()
	w.Run(ctx)
	return false
}

func (p *Pool) stopping() bool {
	select {
	case <-p.stopCh:
		return true
	default:
		return false
	}
}

// stopAccepting closes the stop channel and the listener exactly once
func (p *Pool) stopAccepting() {
	p.stopOnce.Do(func() {
		close(p.stopCh)
		if p.listener != nil {
			if err := p.listener.Close(); err != nil {
				p.logger.Error("Failed to close listener", "error", err)
			}
		}
	})
}

// Stop terminates the pool immediately: no new connections are accepted and
// every connection being served is dropped mid-exchange.
func (p *Pool) Stop(ctx context.Context) error {
	p.logger.Info("Killing workers")
	p.stopAccepting()
	dropped := p.pctx.ConnectionMgr.CloseAll()
	if dropped > 0 {
		p.logger.Info("Dropped active connections", "count", dropped)
	}
	return p.wait(ctx)
}

// Drain stops accepting and lets workers finish their current connection.
// When ctx ends first the remaining connections are dropped and ctx's error
// is returned.
func (p *Pool) Drain(ctx context.Context) error {
	p.logger.Info("Draining workers", "active", p.pctx.ConnectionMgr.Count())
	p.stopAccepting()
	if err := p.wait(ctx); err != nil {
		dropped := p.pctx.ConnectionMgr.CloseAll()
		p.logger.Warn("Drain deadline exceeded, dropping connections", "count", dropped)
		p.wg.Wait()
		return err
	}
	return nil
}

// Shutdown dispatches to Stop or Drain
func (p *Pool) Shutdown(ctx context.Context, mode config.ShutdownMode) error {
	if mode == config.ShutdownDrain {
		return p.Drain(ctx)
	}
	return p.Stop(ctx)
}

func (p *Pool) wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
