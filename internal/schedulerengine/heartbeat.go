// Package schedulerengine runs the periodic background jobs of the server.
package schedulerengine

import (
	"context"
	"sync"
	"time"

	"gitlab.com/fcv-2025.net/fileget/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/fileget/internal/core/services/worker"
	"gitlab.com/fcv-2025.net/fileget/internal/tcp/defs"
)

// HeartbeatEngine refreshes the liveness of running workers and evicts
// registry entries that stopped heartbeating.
type HeartbeatEngine struct {
	interval time.Duration
	registry worker.IWorkerRegistryService
	logger   primary.Logger
	wg       sync.WaitGroup
}

func NewHeartbeatEngine(registry worker.IWorkerRegistryService, logger primary.Logger, interval time.Duration) *HeartbeatEngine {
	if interval <= 0 {
		interval = defs.HeartbeatInterval
	}
	return &HeartbeatEngine{
		interval: interval,
		registry: registry,
		logger:   logger,
	}
}

// Start runs the engine in the background until ctx is done
func (e *HeartbeatEngine) Start(ctx context.Context) {
	e.wg.Add(1)
	ticker := time.NewTicker(e.interval)
	go func() {
		defer e.wg.Done()
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				e.Tick(ctx)
			}
		}
	}()
}

// Wait blocks until the goroutine started by Start has returned
func (e *HeartbeatEngine) Wait() {
	e.wg.Wait()
}

// Tick runs one heartbeat and cleanup round
func (e *HeartbeatEngine) Tick(ctx context.Context) {
	workers, err := e.registry.GetAllWorkers(ctx)
	if err != nil {
		e.logger.Error("Failed to list workers", "error", err)
		return
	}

	beats := 0
	for _, w := range workers {
		if !w.Alive() {
			continue
		}
		if err := e.registry.Heartbeat(ctx, w.ID); err != nil {
			e.logger.Warn("Failed to record heartbeat", "workerId", w.ID, "error", err)
			continue
		}
		beats++
	}
	e.logger.Debug("Heartbeat", "workers", len(workers), "alive", beats)

	if err := e.registry.CleanupInactiveWorkers(ctx); err != nil {
		e.logger.Error("Failed to clean up inactive workers", "error", err)
	}
}
