package schedulerengine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/fcv-2025.net/fileget/internal/adapter/logging"
	"gitlab.com/fcv-2025.net/fileget/internal/adapter/memory/workerport"
	"gitlab.com/fcv-2025.net/fileget/internal/core/services/worker"
	"gitlab.com/fcv-2025.net/fileget/internal/domain"
)

func seed(t *testing.T, repo *workerport.WorkerRepository, id string, state domain.WorkerState, lastBeat time.Time) {
	t.Helper()
	require.NoError(t, repo.SaveWorker(context.Background(), &domain.WorkerInfo{
		ID:            id,
		State:         state,
		StartedAt:     lastBeat,
		LastHeartbeat: lastBeat,
	}))
}

func TestTickRefreshesAliveAndEvictsStale(t *testing.T) {
	ctx := context.Background()
	repo := workerport.NewWorkerRepository()
	logger := logging.NewNopLogger()
	registry := worker.NewWorkerRegistryService(repo, logger)

	stale := time.Now().Add(-time.Hour)
	seed(t, repo, "idle", domain.WorkerStateIdle, stale)
	seed(t, repo, "busy", domain.WorkerStateBusy, stale)
	seed(t, repo, "dead", domain.WorkerStateDead, stale)
	seed(t, repo, "stopped", domain.WorkerStateStopped, time.Now())

	NewHeartbeatEngine(registry, logger, time.Second).Tick(ctx)

	workers, err := registry.GetAllWorkers(ctx)
	require.NoError(t, err)

	ids := make([]string, 0, len(workers))
	for _, w := range workers {
		ids = append(ids, w.ID)
		assert.WithinDuration(t, time.Now(), w.LastHeartbeat, time.Minute, w.ID)
	}
	assert.ElementsMatch(t, []string{"idle", "busy", "stopped"}, ids)
}

func TestStartStopsWithContext(t *testing.T) {
	repo := workerport.NewWorkerRepository()
	logger := logging.NewNopLogger()
	registry := worker.NewWorkerRegistryService(repo, logger)

	stale := time.Now().Add(-time.Hour)
	seed(t, repo, "idle", domain.WorkerStateIdle, stale)

	ctx, cancel := context.WithCancel(context.Background())
	engine := NewHeartbeatEngine(registry, logger, 10*time.Millisecond)
	engine.Start(ctx)

	assert.Eventually(t, func() bool {
		w, err := registry.GetWorker(context.Background(), "idle")
		return err == nil && w != nil && w.LastHeartbeat.After(stale)
	}, time.Second, 10*time.Millisecond)

	cancel()
	done := make(chan struct{})
	go func() {
		engine.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("engine did not stop")
	}
}

func TestNewHeartbeatEngineDefaultsInterval(t *testing.T) {
	engine := NewHeartbeatEngine(nil, logging.NewNopLogger(), 0)
	assert.Equal(t, 30*time.Second, engine.interval)
}
