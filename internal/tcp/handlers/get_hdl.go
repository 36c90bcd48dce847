package handlers

import (
	"context"
	"time"

	"gitlab.com/fcv-2025.net/fileget/internal/bufpool"
	"gitlab.com/fcv-2025.net/fileget/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/fileget/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/fileget/internal/core/services/transfer"
	"gitlab.com/fcv-2025.net/fileget/internal/domain"
	"gitlab.com/fcv-2025.net/fileget/internal/tcp/codec"
	"gitlab.com/fcv-2025.net/fileget/internal/tcp/defs"
)

var _ primary.CommandHandler = (*GetFileHandler)(nil)

// GetFileHandler serves a GET: filename, lookup, status, metadata, content.
type GetFileHandler struct {
	Files     secondary.FileStore
	Transfers transfer.ITransferLogService
	Buffers   *bufpool.Pool
	Logger    primary.Logger
}

// HandleCommand implements the CommandHandler interface. The connection is
// kept alive only after a complete transfer.
func (h *GetFileHandler) HandleCommand(ctx context.Context, ex *primary.Exchange) (bool, error) {
	name, err := codec.ReadFilename(ex.In)
	if err != nil {
		return false, err
	}
	h.Logger.Info("File requested", "file", name)

	record := &domain.TransferRecord{
		WorkerID:    ex.WorkerID,
		WorkerIndex: ex.WorkerIndex,
		RemoteAddr:  ex.RemoteAddr,
		FileName:    name,
		StartedAt:   time.Now(),
	}
	defer func() {
		record.DurationMs = time.Since(record.StartedAt).Milliseconds()
		h.Transfers.Record(context.WithoutCancel(ctx), record)
	}()

	file, meta, err := h.Files.Open(name)
	if err != nil {
		h.Logger.Info("File not found", "file", name, "error", err)
		record.Status = domain.TransferStatusNotFound
		record.Error = err.Error()
		if err := codec.WriteStatus(ex.Out, defs.StatusNotFound); err != nil {
			return false, failed(record, err)
		}
		return false, nil
	}
	defer file.Close()

	record.Size = int64(meta.Size)
	h.Logger.Debug("Sending file", "file", name, "size", meta.Size, "modTime", meta.ModTime)

	if err := codec.WriteStatus(ex.Out, defs.StatusOK); err != nil {
		return false, failed(record, err)
	}
	if err := codec.WriteMetadata(ex.Out, meta); err != nil {
		return false, failed(record, err)
	}

	buf := h.Buffers.Get()
	defer h.Buffers.Put(buf)

	sent, err := codec.SendContent(ex.Out, file, meta.Size, buf)
	record.BytesSent = int64(sent)
	if err != nil {
		return false, failed(record, err)
	}

	record.Status = domain.TransferStatusOK
	h.Logger.Info("File transfer complete", "file", name, "bytes", sent)
	return true, nil
}

func failed(record *domain.TransferRecord, err error) error {
	record.Status = domain.TransferStatusFailed
	record.Error = err.Error()
	return err
}
