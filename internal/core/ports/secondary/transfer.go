package secondary

import (
	"context"

	"gitlab.com/fcv-2025.net/fileget/internal/domain"
)

// TransferRepository stores the outcome of served GET requests
type TransferRepository interface {
	SaveTransfer(ctx context.Context, record *domain.TransferRecord) error

	// ListRecent returns up to limit records, newest first
	ListRecent(ctx context.Context, limit int) ([]*domain.TransferRecord, error)
}
