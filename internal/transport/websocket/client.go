package websocket

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/iamasit07/connect4-engine/internal/domain"
)

const writeWait = 10 * time.Second

// ConnectionManager tracks the one live socket each game session may have.
type ConnectionManager struct {
	connections map[string]*websocket.Conn

	// conn.WriteJSON is not safe for concurrent use, so every socket gets its
	// own write lock.
	writeMu map[string]*sync.Mutex

	mu sync.RWMutex // Protects the maps themselves
}

func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections: make(map[string]*websocket.Conn),
		writeMu:     make(map[string]*sync.Mutex),
	}
}

// AddConnection registers conn for sessionID, closing any socket already
// attached to that session.
func (cm *ConnectionManager) AddConnection(sessionID string, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if oldConn, exists := cm.connections[sessionID]; exists && oldConn != conn {
		oldConn.Close()
	}

	cm.connections[sessionID] = conn
	cm.writeMu[sessionID] = &sync.Mutex{}
}

// RemoveConnectionIfMatching leaves a newer socket for the same session alone.
func (cm *ConnectionManager) RemoveConnectionIfMatching(sessionID string, conn *websocket.Conn) {
	cm.mu.Lock()
	defer cm.mu.Unlock()

	if currentConn, exists := cm.connections[sessionID]; exists && currentConn == conn {
		currentConn.Close()
		delete(cm.connections, sessionID)
		delete(cm.writeMu, sessionID)
	}
}

func (cm *ConnectionManager) IsCurrentConnection(sessionID string, conn *websocket.Conn) bool {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	currentConn, exists := cm.connections[sessionID]
	return exists && currentConn == conn
}

// SendMessage writes message to the socket attached to sessionID. A session
// with no socket is not an error.
func (cm *ConnectionManager) SendMessage(sessionID string, message any) error {
	cm.mu.RLock()
	conn, exists := cm.connections[sessionID]
	mu, muExists := cm.writeMu[sessionID]
	cm.mu.RUnlock()

	if !exists || !muExists {
		return nil
	}

	mu.Lock()
	defer mu.Unlock()

	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(message)
}

func (cm *ConnectionManager) SendError(sessionID, message string) error {
	return cm.SendMessage(sessionID, domain.ErrorMessage{Type: "error", Message: message})
}

// DisconnectSession tells the client why and closes its socket.
func (cm *ConnectionManager) DisconnectSession(sessionID, reason string) {
	_ = cm.SendMessage(sessionID, domain.ServerMessage{Type: "force_disconnect", Message: reason})

	cm.mu.Lock()
	defer cm.mu.Unlock()
	if conn, exists := cm.connections[sessionID]; exists {
		conn.Close()
		delete(cm.connections, sessionID)
		delete(cm.writeMu, sessionID)
	}
}

func (cm *ConnectionManager) Count() int {
	cm.mu.RLock()
	defer cm.mu.RUnlock()
	return len(cm.connections)
}
