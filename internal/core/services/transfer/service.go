package transfer

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"gitlab.com/fcv-2025.net/fileget/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/fileget/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/fileget/internal/domain"
)

const MaxListLimit = 1000

// ITransferLogService records served GET requests
type ITransferLogService interface {
	// Record stores a transfer outcome. Failures are logged, never returned,
	// so a broken log cannot affect a connection.
	Record(ctx context.Context, record *domain.TransferRecord)

	ListRecent(ctx context.Context, limit int) ([]*domain.TransferRecord, error)
}

var _ ITransferLogService = &TransferLogService{}

type TransferLogService struct {
	repo   secondary.TransferRepository
	logger primary.Logger
}

func NewTransferLogService(repo secondary.TransferRepository, logger primary.Logger) *TransferLogService {
	return &TransferLogService{repo: repo, logger: logger}
}

func (s *TransferLogService) Record(ctx context.Context, record *domain.TransferRecord) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	if err := s.repo.SaveTransfer(ctx, record); err != nil {
		s.logger.Warn("Failed to record transfer", "file", record.FileName, "error", err)
	}
}

func (s *TransferLogService) ListRecent(ctx context.Context, limit int) ([]*domain.TransferRecord, error) {
	if limit <= 0 || limit > MaxListLimit {
		limit = MaxListLimit
	}
	records, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	return records, nil
}
