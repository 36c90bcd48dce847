package transferlog

import (
	"context"
	"sync"

	"gitlab.com/fcv-2025.net/fileget/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/fileget/internal/domain"
)

const DefaultCapacity = 1000

var _ secondary.TransferRepository = (*TransferRepository)(nil)

// TransferRepository keeps the most recent transfer records in a ring
type TransferRepository struct {
	mu      sync.Mutex
	records []domain.TransferRecord
	next    int
	full    bool
}

func NewTransferRepository(capacity int) *TransferRepository {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &TransferRepository{records: make([]domain.TransferRecord, capacity)}
}

func (r *TransferRepository) SaveTransfer(_ context.Context, record *domain.TransferRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[r.next] = *record
	r.next = (r.next + 1) % len(r.records)
	if r.next == 0 {
		r.full = true
	}
	return nil
}

func (r *TransferRepository) ListRecent(_ context.Context, limit int) ([]*domain.TransferRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	count := r.next
	if r.full {
		count = len(r.records)
	}
	if limit <= 0 || limit > count {
		limit = count
	}

	out := make([]*domain.TransferRecord, 0, limit)
	for i := 1; i <= limit; i++ {
		idx := (r.next - i + len(r.records)) % len(r.records)
		rec := r.records[idx]
		out = append(out, &rec)
	}
	return out, nil
}
