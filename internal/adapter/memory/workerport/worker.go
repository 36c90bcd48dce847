package workerport

import (
	"context"
	"sort"
	"sync"
	"time"

	"gitlab.com/fcv-2025.net/fileget/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/fileget/internal/domain"
)

var _ secondary.WorkerRepository = (*WorkerRepository)(nil)

// WorkerRepository keeps worker information in process memory
type WorkerRepository struct {
	mu      sync.RWMutex
	workers map[string]domain.WorkerInfo
}

func NewWorkerRepository() *WorkerRepository {
	return &WorkerRepository{workers: make(map[string]domain.WorkerInfo)}
}

func (r *WorkerRepository) SaveWorker(_ context.Context, worker *domain.WorkerInfo) error {
	r.mu.Lock()
	r.workers[worker.ID] = *worker
	r.mu.Unlock()
	return nil
}

func (r *WorkerRepository) GetWorker(_ context.Context, workerID string) (*domain.WorkerInfo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	w, ok := r.workers[workerID]
	if !ok {
		return nil, nil
	}
	return &w, nil
}

func (r *WorkerRepository) GetAllWorkers(_ context.Context) ([]*domain.WorkerInfo, error) {
	r.mu.RLock()
	workers := make([]*domain.WorkerInfo, 0, len(r.workers))
	for _, w := range r.workers {
		w := w
		workers = append(workers, &w)
	}
	r.mu.RUnlock()

	sortWorkers(workers)
	return workers, nil
}

func (r *WorkerRepository) RemoveInactiveWorkers(_ context.Context, cutoffTime time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for id, w := range r.workers {
		if w.LastHeartbeat.Before(cutoffTime) {
			delete(r.workers, id)
		}
	}
	return nil
}

// sortWorkers orders by index, then start time so a respawned worker follows
// the one it replaced.
func sortWorkers(workers []*domain.WorkerInfo) {
	sort.Slice(workers, func(i, j int) bool {
		if workers[i].Index != workers[j].Index {
			return workers[i].Index < workers[j].Index
		}
		return workers[i].StartedAt.Before(workers[j].StartedAt)
	})
}
