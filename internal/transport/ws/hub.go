package ws

import (
	"encoding/json"
	"log"
	"sync"
)

// MessageType defines the type of WebSocket message
type MessageType string

const (
	MsgSignedIn  MessageType = "signed_in"
	MsgSignedOut MessageType = "signed_out"
)

// Message is the WebSocket envelope format
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// Hub is the process-wide observable for authentication state: there is one
// hub for the whole server, started at init and stopped at teardown, and
// every sign-in/sign-out transition is broadcast to all connected observers.
type Hub struct {
	conns map[*Connection]bool

	mu sync.RWMutex

	register   chan *Connection
	unregister chan *Connection
	broadcast  chan *Message
}

// Connection represents a WebSocket observer connection
type Connection struct {
	UID  string
	Send chan []byte
	Hub  *Hub
}

// NewHub creates the auth-event hub and starts its loop
func NewHub() *Hub {
	h := &Hub{
		conns:      make(map[*Connection]bool),
		register:   make(chan *Connection),
		unregister: make(chan *Connection),
		broadcast:  make(chan *Message, 256),
	}
	go h.run()
	return h
}

func (h *Hub) run() {
	for {
		select {
		case conn := <-h.register:
			h.mu.Lock()
			h.conns[conn] = true
			h.mu.Unlock()
			log.Printf("Auth observer connected (uid=%s)", conn.UID)

		case conn := <-h.unregister:
			h.mu.Lock()
			if h.conns[conn] {
				delete(h.conns, conn)
				close(conn.Send)
				log.Printf("Auth observer disconnected (uid=%s)", conn.UID)
			}
			h.mu.Unlock()

		case msg := <-h.broadcast:
			h.mu.RLock()
			data, _ := json.Marshal(msg)
			for conn := range h.conns {
				select {
				case conn.Send <- data:
				default:
					// Drop message if buffer full
				}
			}
			h.mu.RUnlock()
		}
	}
}

// Register adds a connection
func (h *Hub) Register(conn *Connection) {
	h.register <- conn
}

// Unregister removes a connection
func (h *Hub) Unregister(conn *Connection) {
	h.unregister <- conn
}

// BroadcastAuthEvent sends an auth transition to every observer
// (implements service.Broadcaster)
func (h *Hub) BroadcastAuthEvent(msgType string, payload interface{}) {
	data, _ := json.Marshal(payload)
	h.broadcast <- &Message{
		Type:    MessageType(msgType),
		Payload: data,
	}
}
