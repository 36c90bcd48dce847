package workerport

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gitlab.com/fcv-2025.net/fileget/internal/domain"
)

func TestWorkerRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewWorkerRepository()
	now := time.Now()

	require.NoError(t, repo.SaveWorker(ctx, &domain.WorkerInfo{ID: "b", Index: 1, LastHeartbeat: now}))
	require.NoError(t, repo.SaveWorker(ctx, &domain.WorkerInfo{ID: "a", Index: 0, LastHeartbeat: now}))
	require.NoError(t, repo.SaveWorker(ctx, &domain.WorkerInfo{ID: "c", Index: 2, LastHeartbeat: now.Add(-time.Hour)}))

	all, err := repo.GetAllWorkers(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, []string{"a", "b", "c"}, []string{all[0].ID, all[1].ID, all[2].ID})

	// returned values are copies
	all[0].Served = 99
	got, err := repo.GetWorker(ctx, "a")
	require.NoError(t, err)
	assert.Zero(t, got.Served)

	missing, err := repo.GetWorker(ctx, "zzz")
	require.NoError(t, err)
	assert.Nil(t, missing)

	require.NoError(t, repo.RemoveInactiveWorkers(ctx, now.Add(-time.Minute)))
	all, _ = repo.GetAllWorkers(ctx)
	assert.Len(t, all, 2)

	require.NoError(t, repo.RemoveInactiveWorkers(ctx, now.Add(time.Minute)))
	all, _ = repo.GetAllWorkers(ctx)
	assert.Empty(t, all)
}
