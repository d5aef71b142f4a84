package server

import (
	"context"
	"errors"
	"sync"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

var ErrConnectionNotFound = errors.New("CONNECTION_NOT_FOUND: connection is not registered")

// Socket is the transport seen by the core: a full-duplex textual channel.
// Production wraps *websocket.Conn; tests substitute an in-memory fake.
type Socket interface {
	Write(ctx context.Context, data []byte) error
	Close(code websocket.StatusCode, reason string) error
}

type wsSocket struct {
	conn *websocket.Conn
}

func NewWebSocket(conn *websocket.Conn) Socket {
	return &wsSocket{conn: conn}
}

func (s *wsSocket) Write(ctx context.Context, data []byte) error {
	return s.conn.Write(ctx, websocket.MessageText, data)
}

func (s *wsSocket) Close(code websocket.StatusCode, reason string) error {
	return s.conn.Close(code, reason)
}

// ConnectionRegistry is the bidirectional map between live sockets and their
// connection identities. Pure identity bookkeeping; no game knowledge.
type ConnectionRegistry struct {
	identities  map[Socket]string
	connections map[string]Socket
	mu          sync.RWMutex
}

func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{
		identities:  make(map[Socket]string),
		connections: make(map[string]Socket),
	}
}

// Register assigns an identity to a socket and returns it. Registering an
// already-known socket returns the existing identity.
func (cr *ConnectionRegistry) Register(socket Socket) string {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	if id, ok := cr.identities[socket]; ok {
		return id
	}

	id := uuid.New().String()
	cr.identities[socket] = id
	cr.connections[id] = socket
	return id
}

// Unregister removes both directions of the mapping. Unknown sockets are a
// no-op.
func (cr *ConnectionRegistry) Unregister(socket Socket) {
	cr.mu.Lock()
	defer cr.mu.Unlock()

	id, ok := cr.identities[socket]
	if !ok {
		return
	}
	delete(cr.identities, socket)
	delete(cr.connections, id)
}

func (cr *ConnectionRegistry) IdentityOf(socket Socket) (string, error) {
	cr.mu.RLock()
	defer cr.mu.RUnlock()

	id, ok := cr.identities[socket]
	if !ok {
		return "", ErrConnectionNotFound
	}
	return id, nil
}

func (cr *ConnectionRegistry) ConnectionOf(connectionID string) (Socket, error) {
	cr.mu.RLock()
	defer cr.mu.RUnlock()

	socket, ok := cr.connections[connectionID]
	if !ok {
		return nil, ErrConnectionNotFound
	}
	return socket, nil
}

// Count reports how many connections are currently open.
func (cr *ConnectionRegistry) Count() int {
	cr.mu.RLock()
	defer cr.mu.RUnlock()
	return len(cr.connections)
}
