// Package transferrepository stores the transfer log in PostgreSQL
package transferrepository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"gitlab.com/fcv-2025.net/fileget/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/fileget/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/fileget/internal/domain"
)

var _ secondary.TransferRepository = (*TransferRepository)(nil)

// TransferRepository implements the TransferRepository interface with PostgreSQL
type TransferRepository struct {
	db     *sqlx.DB
	logger primary.Logger
	table  string
}

// NewTransferRepository creates a new PostgreSQL transfer repository
func NewTransferRepository(db *sqlx.DB, logger primary.Logger, schema string) *TransferRepository {
	return &TransferRepository{
		db:     db,
		logger: logger,
		table:  qualifiedTable(schema),
	}
}

func qualifiedTable(schema string) string {
	tbl := domain.GetTransferTable()
	if schema == "" {
		return pq.QuoteIdentifier(tbl.Name())
	}
	return pq.QuoteIdentifier(schema) + "." + pq.QuoteIdentifier(tbl.Name())
}

// EnsureSchema creates the transfers table when it does not exist
func (r *TransferRepository) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id           UUID PRIMARY KEY,
			worker_id    TEXT NOT NULL,
			worker_index INTEGER NOT NULL,
			remote_addr  TEXT NOT NULL,
			file_name    TEXT NOT NULL,
			status       TEXT NOT NULL,
			size         BIGINT NOT NULL,
			bytes_sent   BIGINT NOT NULL,
			started_at   TIMESTAMPTZ NOT NULL,
			duration_ms  BIGINT NOT NULL,
			error        TEXT NOT NULL DEFAULT ''
		)`, r.table)

	if _, err := r.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("failed to create transfers table: %w", err)
	}
	return nil
}

// SaveTransfer inserts one transfer record
func (r *TransferRepository) SaveTransfer(ctx context.Context, record *domain.TransferRecord) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (
			id, worker_id, worker_index, remote_addr, file_name, status,
			size, bytes_sent, started_at, duration_ms, error
		) VALUES (
			:id, :worker_id, :worker_index, :remote_addr, :file_name, :status,
			:size, :bytes_sent, :started_at, :duration_ms, :error
		)`, r.table)

	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		r.logger.Error("Failed to save transfer", "transferId", record.ID, "error", err)
		return fmt.Errorf("failed to save transfer: %w", err)
	}
	return nil
}

// ListRecent returns the newest records first
func (r *TransferRepository) ListRecent(ctx context.Context, limit int) ([]*domain.TransferRecord, error) {
	if limit <= 0 {
		limit = 100
	}
	query := fmt.Sprintf(`
		SELECT id, worker_id, worker_index, remote_addr, file_name, status,
			   size, bytes_sent, started_at, duration_ms, error
		FROM %s
		ORDER BY started_at DESC
		LIMIT $1`, r.table)

	var records []*domain.TransferRecord
	if err := r.db.SelectContext(ctx, &records, query, limit); err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	return records, nil
}
