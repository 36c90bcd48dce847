package tcp

import (
	"time"

	"gitlab.com/fcv-2025.net/fileget/internal/bufpool"
	"gitlab.com/fcv-2025.net/fileget/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/fileget/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/fileget/internal/core/services/transfer"
	"gitlab.com/fcv-2025.net/fileget/internal/core/services/worker"
	"gitlab.com/fcv-2025.net/fileget/internal/tcp/connectionmanager"
)

// PoolContext holds everything shared by the workers of one pool. It is
// built once by NewPool and handed to each worker and connection handler.
type PoolContext struct {
	Name        string
	PID         int
	IdleTimeout time.Duration

	Logger        primary.Logger
	Registry      worker.IWorkerRegistryService
	Transfers     transfer.ITransferLogService
	Files         secondary.FileStore
	ConnectionMgr *connectionmanager.ConnectionManager
	Buffers       *bufpool.Pool
}
