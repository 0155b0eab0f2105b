package services

import (
	"log"
	"sync"
	"time"

	"fgperfume/internal/models"
)

// ChatConnection is one open /ws/chat socket
type ChatConnection struct {
	ConnID      string
	RemoteIP    string
	Role        models.Role
	ConnectedAt time.Time
}

// ConnectionManager tracks the open chat sockets
type ConnectionManager struct {
	connections map[string]*ChatConnection
	mutex       sync.RWMutex
}

// NewConnectionManager creates a new connection manager
func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]*ChatConnection),
	}
}

// Add adds a new connection
func (cm *ConnectionManager) Add(conn *ChatConnection) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	cm.connections[conn.ConnID] = conn
	log.Printf("✅ Connection added: %s (Total: %d)", conn.ConnID, len(cm.connections))
}

// Remove removes a connection
func (cm *ConnectionManager) Remove(connID string) {
	cm.mutex.Lock()
	defer cm.mutex.Unlock()
	if _, exists := cm.connections[connID]; exists {
		delete(cm.connections, connID)
		log.Printf("❌ Connection removed: %s (Total: %d)", connID, len(cm.connections))
	}
}

// Get retrieves a connection by ID
func (cm *ConnectionManager) Get(connID string) (*ChatConnection, bool) {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	conn, exists := cm.connections[connID]
	return conn, exists
}

// Count returns the number of active connections
func (cm *ConnectionManager) Count() int {
	cm.mutex.RLock()
	defer cm.mutex.RUnlock()
	return len(cm.connections)
}
