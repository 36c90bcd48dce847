package worker

import (
	"context"

	"gitlab.com/fcv-2025.net/fileget/internal/domain"
)

// IWorkerRegistryService tracks the identity and state of every pool worker
type IWorkerRegistryService interface {
	// RegisterWorker records a freshly started worker as idle
	RegisterWorker(ctx context.Context, workerInfo *domain.WorkerInfo) error

	// StartConnection marks the worker busy serving remoteAddr
	StartConnection(ctx context.Context, workerID string, remoteAddr string) error

	// FinishConnection marks the worker idle and counts the served connection
	FinishConnection(ctx context.Context, workerID string) error

	// MarkState sets a terminal or administrative state
	MarkState(ctx context.Context, workerID string, state domain.WorkerState) error

	// Heartbeat refreshes the worker's liveness timestamp
	Heartbeat(ctx context.Context, workerID string) error

	GetWorker(ctx context.Context, workerID string) (*domain.WorkerInfo, error)

	// GetAllWorkers gets all registered workers
	GetAllWorkers(ctx context.Context) ([]*domain.WorkerInfo, error)

	// CleanupInactiveWorkers removes workers that haven't sent a heartbeat recently
	CleanupInactiveWorkers(ctx context.Context) error
}
