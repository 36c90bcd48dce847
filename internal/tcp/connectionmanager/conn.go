package connectionmanager

import (
	"net"
	"sync"

	"gitlab.com/fcv-2025.net/fileget/internal/core/ports/primary"
)

// ConnectionManager tracks the connection each worker is serving so a hard
// shutdown can drop them all.
type ConnectionManager struct {
	connections map[string]net.Conn
	connMutex   sync.Mutex
	logger      primary.Logger
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager(logger primary.Logger) *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]net.Conn),
		logger:      logger,
	}
}

// Track records conn as the connection served by workerID
func (cm *ConnectionManager) Track(workerID string, conn net.Conn) {
	cm.connMutex.Lock()
	cm.connections[workerID] = conn
	cm.connMutex.Unlock()
}

// Release forgets the connection of workerID
func (cm *ConnectionManager) Release(workerID string) {
	cm.connMutex.Lock()
	delete(cm.connections, workerID)
	cm.connMutex.Unlock()
}

func (cm *ConnectionManager) Count() int {
	cm.connMutex.Lock()
	defer cm.connMutex.Unlock()
	return len(cm.connections)
}

// CloseAll closes every tracked connection and returns how many were closed
func (cm *ConnectionManager) CloseAll() int {
	cm.connMutex.Lock()
	defer cm.connMutex.Unlock()

	closed := 0
	for workerID, conn := range cm.connections {
		if err := conn.Close(); err != nil {
			cm.logger.Debug("Failed to close connection", "workerId", workerID, "error", err)
		}
		delete(cm.connections, workerID)
		closed++
	}
	return closed
}
