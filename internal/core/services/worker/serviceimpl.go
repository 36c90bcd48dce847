package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gitlab.com/fcv-2025.net/fileget/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/fileget/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/fileget/internal/domain"
)

const inactiveCutoff = 5 * time.Minute

var _ IWorkerRegistryService = &WorkerRegistryService{}

// WorkerRegistryService implements the IWorkerRegistryService interface
type WorkerRegistryService struct {
	workerRepo secondary.WorkerRepository
	logger     primary.Logger
	now        func() time.Time

	// serializes read-modify-write between a worker and the heartbeat engine
	mu sync.Mutex
}

// NewWorkerRegistryService creates a new worker registry service
func NewWorkerRegistryService(workerRepo secondary.WorkerRepository, logger primary.Logger) *WorkerRegistryService {
	return &WorkerRegistryService{
		workerRepo: workerRepo,
		logger:     logger,
		now:        time.Now,
	}
}

// RegisterWorker registers a worker as idle
func (s *WorkerRegistryService) RegisterWorker(ctx context.Context, workerInfo *domain.WorkerInfo) error {
	s.logger.Debug("Registering worker", "workerId", workerInfo.ID, "index", workerInfo.Index)

	now := s.now()
	workerInfo.State = domain.WorkerStateIdle
	if workerInfo.StartedAt.IsZero() {
		workerInfo.StartedAt = now
	}
	workerInfo.LastHeartbeat = now

	if err := s.workerRepo.SaveWorker(ctx, workerInfo); err != nil {
		return fmt.Errorf("failed to register worker: %w", err)
	}
	return nil
}

func (s *WorkerRegistryService) StartConnection(ctx context.Context, workerID string, remoteAddr string) error {
	return s.update(ctx, workerID, func(w *domain.WorkerInfo) {
		w.State = domain.WorkerStateBusy
		w.RemoteAddr = remoteAddr
	})
}

func (s *WorkerRegistryService) FinishConnection(ctx context.Context, workerID string) error {
	return s.update(ctx, workerID, func(w *domain.WorkerInfo) {
		if w.State == domain.WorkerStateBusy {
			w.State = domain.WorkerStateIdle
		}
		w.RemoteAddr = ""
		w.Served++
	})
}

func (s *WorkerRegistryService) MarkState(ctx context.Context, workerID string, state domain.WorkerState) error {
	s.logger.Debug("Worker state changed", "workerId", workerID, "state", state)
	return s.update(ctx, workerID, func(w *domain.WorkerInfo) {
		w.State = state
		w.RemoteAddr = ""
	})
}

// Heartbeat updates the worker's liveness timestamp
func (s *WorkerRegistryService) Heartbeat(ctx context.Context, workerID string) error {
	return s.update(ctx, workerID, func(*domain.WorkerInfo) {})
}

func (s *WorkerRegistryService) GetWorker(ctx context.Context, workerID string) (*domain.WorkerInfo, error) {
	worker, err := s.workerRepo.GetWorker(ctx, workerID)
	if err != nil {
		return nil, fmt.Errorf("failed to get worker: %w", err)
	}
	return worker, nil
}

func (s *WorkerRegistryService) GetAllWorkers(ctx context.Context) ([]*domain.WorkerInfo, error) {
	workers, err := s.workerRepo.GetAllWorkers(ctx)
	if err != nil {
		s.logger.Error("Failed to get all workers", "error", err)
		return nil, fmt.Errorf("failed to get all workers: %w", err)
	}
	return workers, nil
}

// CleanupInactiveWorkers removes workers that haven't sent a heartbeat recently
func (s *WorkerRegistryService) CleanupInactiveWorkers(ctx context.Context) error {
	cutoffTime := s.now().Add(-inactiveCutoff)

	if err := s.workerRepo.RemoveInactiveWorkers(ctx, cutoffTime); err != nil {
		s.logger.Error("Failed to remove inactive workers", "error", err)
		return fmt.Errorf("failed to clean up inactive workers: %w", err)
	}
	return nil
}

func (s *WorkerRegistryService) update(ctx context.Context, workerID string, fn func(*domain.WorkerInfo)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	worker, err := s.workerRepo.GetWorker(ctx, workerID)
	if err != nil {
		return fmt.Errorf("failed to get worker: %w", err)
	}
	if worker == nil {
		return fmt.Errorf("worker not found: %s", workerID)
	}

	fn(worker)
	worker.LastHeartbeat = s.now()

	if err := s.workerRepo.SaveWorker(ctx, worker); err != nil {
		return fmt.Errorf("failed to update worker: %w", err)
	}
	return nil
}
