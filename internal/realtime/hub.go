package realtime

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"
)

// Client is one websocket connection attached to a relay session.
type Client struct {
	Conn      *websocket.Conn
	SessionID string
	ID        string

	writeMu sync.Mutex
}

func (c *Client) Write(msg []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.Conn.WriteMessage(websocket.TextMessage, msg)
}

// RoomManager relays frames between the clients of a session. Frames are opaque to it.
type RoomManager struct {
	mu    sync.RWMutex
	rooms map[string][]*Client // sessionID -> clients
}

var Manager = NewRoomManager()

func NewRoomManager() *RoomManager {
	return &RoomManager{
		rooms: make(map[string][]*Client),
	}
}

func (m *RoomManager) AddClient(c *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms[c.SessionID] = append(m.rooms[c.SessionID], c)
}

func (m *RoomManager) RemoveClient(c *Client) {
	m.mu.Lock()
	defer m.mu.Unlock()

	clients := m.rooms[c.SessionID]
	newList := make([]*Client, 0, len(clients))
	for _, cl := range clients {
		if cl != c {
			newList = append(newList, cl)
		}
	}
	if len(newList) == 0 {
		delete(m.rooms, c.SessionID)
	} else {
		m.rooms[c.SessionID] = newList
	}
}

// Count returns the number of clients connected to sessionID.
func (m *RoomManager) Count(sessionID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms[sessionID])
}

// Broadcast writes msg to every client of the session except from, and returns how many writes
// succeeded.
func (m *RoomManager) Broadcast(sessionID string, from *Client, msg []byte) int {
	m.mu.RLock()
	clients := append([]*Client(nil), m.rooms[sessionID]...)
	m.mu.RUnlock()

	delivered := 0
	for _, c := range clients {
		if c == from {
			continue
		}
		if err := c.Write(msg); err != nil {
			log.Warn().Err(err).Str("session", sessionID).Str("client", c.ID).Msg("Failed to relay frame.")
			continue
		}
		delivered++
	}
	return delivered
}
