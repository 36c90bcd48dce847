package secondary

import (
	"context"
	"time"

	"gitlab.com/fcv-2025.net/fileget/internal/domain"
)

type WorkerRepository interface {
	// SaveWorker saves worker information
	SaveWorker(ctx context.Context, worker *domain.WorkerInfo) error

	// GetWorker retrieves worker information by ID, nil when unknown
	GetWorker(ctx context.Context, workerID string) (*domain.WorkerInfo, error)

	// GetAllWorkers retrieves every worker of the pool ordered by index
	GetAllWorkers(ctx context.Context) ([]*domain.WorkerInfo, error)

	// RemoveInactiveWorkers removes workers whose heartbeat is older than cutoffTime
	RemoveInactiveWorkers(ctx context.Context, cutoffTime time.Time) error
}
