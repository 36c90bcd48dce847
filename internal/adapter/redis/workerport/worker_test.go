package workerport

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"

	"gitlab.com/fcv-2025.net/fileget/internal/adapter/logging"
	"gitlab.com/fcv-2025.net/fileget/internal/domain"
)

func unreachableClient() *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 200 * time.Millisecond,
		MaxRetries:  -1,
	})
}

func TestWorkerKey(t *testing.T) {
	assert.Equal(t, "fileget:worker:abc", workerKey("abc"))
}

func TestRedisErrorsAreWrapped(t *testing.T) {
	client := unreachableClient()
	defer client.Close()
	repo := NewWorkerRepository(client, logging.NewNopLogger())
	ctx := context.Background()

	err := repo.SaveWorker(ctx, &domain.WorkerInfo{ID: "w1"})
	assert.ErrorContains(t, err, "failed to save worker info")

	_, err = repo.GetWorker(ctx, "w1")
	assert.ErrorContains(t, err, "failed to get worker info")

	_, err = repo.GetAllWorkers(ctx)
	assert.ErrorContains(t, err, "failed to get worker IDs")
}
