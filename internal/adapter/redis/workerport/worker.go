package workerport

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"

	"gitlab.com/fcv-2025.net/fileget/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/fileget/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/fileget/internal/domain"
)

const (
	workerKeyPrefix  = "fileget:worker:"
	workerIndexKey   = "fileget:workers"
	workerExpiration = 5 * time.Minute
)

var _ secondary.WorkerRepository = (*WorkerRepository)(nil)

// WorkerRepository implements the WorkerRepository interface with Redis.
// Entries expire unless refreshed by a heartbeat.
type WorkerRepository struct {
	redisClient *redis.Client
	logger      primary.Logger
}

// NewWorkerRepository creates a new Redis worker repository
func NewWorkerRepository(redisClient *redis.Client, logger primary.Logger) *WorkerRepository {
	return &WorkerRepository{
		redisClient: redisClient,
		logger:      logger,
	}
}

func workerKey(workerID string) string {
	return workerKeyPrefix + workerID
}

// SaveWorker saves worker information to Redis
func (r *WorkerRepository) SaveWorker(ctx context.Context, worker *domain.WorkerInfo) error {
	workerJSON, err := json.Marshal(worker)
	if err != nil {
		return fmt.Errorf("failed to marshal worker info: %w", err)
	}

	_, err = r.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, workerKey(worker.ID), workerJSON, workerExpiration)
		pipe.SAdd(ctx, workerIndexKey, worker.ID)
		return nil
	})
	if err != nil {
		r.logger.Error("Failed to save worker info", "workerId", worker.ID, "error", err)
		return fmt.Errorf("failed to save worker info: %w", err)
	}

	return nil
}

// GetWorker retrieves worker information from Redis by ID
func (r *WorkerRepository) GetWorker(ctx context.Context, workerID string) (*domain.WorkerInfo, error) {
	workerJSON, err := r.redisClient.Get(ctx, workerKey(workerID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get worker info: %w", err)
	}

	var worker domain.WorkerInfo
	if err := json.Unmarshal(workerJSON, &worker); err != nil {
		return nil, fmt.Errorf("failed to unmarshal worker info: %w", err)
	}

	return &worker, nil
}

// GetAllWorkers retrieves all worker information from Redis.
func (r *WorkerRepository) GetAllWorkers(ctx context.Context) ([]*domain.WorkerInfo, error) {
	workerIDs, err := r.redisClient.SMembers(ctx, workerIndexKey).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get worker IDs: %w", err)
	}

	workers := make([]*domain.WorkerInfo, 0, len(workerIDs))
	if len(workerIDs) == 0 {
		return workers, nil
	}

	keys := make([]string, len(workerIDs))
	for i, id := range workerIDs {
		keys[i] = workerKey(id)
	}

	// Use MGET to retrieve all worker data at once
	workerData, err := r.redisClient.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve worker data: %w", err)
	}

	for _, data := range workerData {
		// expired entries come back as nil
		raw, ok := data.(string)
		if !ok {
			continue
		}
		var worker domain.WorkerInfo
		if err := json.Unmarshal([]byte(raw), &worker); err != nil {
			return nil, fmt.Errorf("failed to unmarshal worker data: %w", err)
		}
		workers = append(workers, &worker)
	}

	sort.Slice(workers, func(i, j int) bool {
		if workers[i].Index != workers[j].Index {
			return workers[i].Index < workers[j].Index
		}
		return workers[i].StartedAt.Before(workers[j].StartedAt)
	})
	return workers, nil
}

// removeWorker deletes a worker entry and its index membership
func (r *WorkerRepository) removeWorker(ctx context.Context, workerID string) error {
	_, err := r.redisClient.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, workerKey(workerID))
		pipe.SRem(ctx, workerIndexKey, workerID)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to remove worker: %w", err)
	}
	return nil
}

// RemoveInactiveWorkers drops index entries whose worker key expired or whose
// heartbeat is older than cutoffTime.
func (r *WorkerRepository) RemoveInactiveWorkers(ctx context.Context, cutoffTime time.Time) error {
	workerIDs, err := r.redisClient.SMembers(ctx, workerIndexKey).Result()
	if err != nil {
		return fmt.Errorf("failed to get worker IDs: %w", err)
	}

	for _, workerID := range workerIDs {
		worker, err := r.GetWorker(ctx, workerID)
		if err != nil {
			r.logger.Error("Failed to check worker", "workerId", workerID, "error", err)
			continue
		}

		if worker == nil || worker.LastHeartbeat.Before(cutoffTime) {
			if err := r.removeWorker(ctx, workerID); err != nil {
				r.logger.Error("Failed to remove inactive worker", "workerId", workerID, "error", err)
			}
		}
	}

	return nil
}
