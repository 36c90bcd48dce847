package domain

import (
	"time"

	"github.com/google/uuid"
)

// TransferStatus is the outcome of a single GET
type TransferStatus string

const (
	TransferStatusOK       TransferStatus = "ok"
	TransferStatusNotFound TransferStatus = "not_found"
	TransferStatusFailed   TransferStatus = "failed"
)

// TransferRecord describes one served GET request
type TransferRecord struct {
	ID          uuid.UUID      `db:"id" json:"id"`
	WorkerID    string         `db:"worker_id" json:"worker_id"`
	WorkerIndex int            `db:"worker_index" json:"worker_index"`
	RemoteAddr  string         `db:"remote_addr" json:"remote_addr"`
	FileName    string         `db:"file_name" json:"file_name"`
	Status      TransferStatus `db:"status" json:"status"`
	Size        int64          `db:"size" json:"size"`
	BytesSent   int64          `db:"bytes_sent" json:"bytes_sent"`
	StartedAt   time.Time      `db:"started_at" json:"started_at"`
	DurationMs  int64          `db:"duration_ms" json:"duration_ms"`
	Error       string         `db:"error" json:"error,omitempty"`
}

type TransferTable struct {
	ID          string
	WorkerID    string
	WorkerIndex string
	RemoteAddr  string
	FileName    string
	Status      string
	Size        string
	BytesSent   string
	StartedAt   string
	DurationMs  string
	Error       string
}

func (t TransferTable) Name() string {
	return "transfers"
}

func GetTransferTable() TransferTable {
	return TransferTable{
		ID:          "id",
		WorkerID:    "worker_id",
		WorkerIndex: "worker_index",
		RemoteAddr:  "remote_addr",
		FileName:    "file_name",
		Status:      "status",
		Size:        "size",
		BytesSent:   "bytes_sent",
		StartedAt:   "started_at",
		DurationMs:  "duration_ms",
		Error:       "error",
	}
}
