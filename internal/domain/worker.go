package domain

import "time"

// WorkerState is the lifecycle state of a pool worker
type WorkerState string

const (
	WorkerStateIdle    WorkerState = "idle"
	WorkerStateBusy    WorkerState = "busy"
	WorkerStateDead    WorkerState = "dead"
	WorkerStateStopped WorkerState = "stopped"
)

// WorkerInfo represents information about a worker
type WorkerInfo struct {
	ID            string      `json:"id"`
	Index         int         `json:"index"`
	PID           int         `json:"pid"`
	State         WorkerState `json:"state"`
	Served        int64       `json:"served"`
	RemoteAddr    string      `json:"remote_addr,omitempty"`
	StartedAt     time.Time   `json:"started_at"`
	LastHeartbeat time.Time   `json:"last_heartbeat"`
}

// Alive reports whether the worker still accepts connections.
func (w *WorkerInfo) Alive() bool {
	return w.State == WorkerStateIdle || w.State == WorkerStateBusy
}
