package wshub

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/coder/websocket"
)

// ClientMessage is the JSON structure received from clients.
type ClientMessage struct {
	Type   string  `json:"t"`
	ID     string  `json:"id,omitempty"`
	W      float64 `json:"w,omitempty"`
	H      float64 `json:"h,omitempty"`
	Inside bool    `json:"in,omitempty"`
}

// ServerMessage is the JSON structure sent to clients.
type ServerMessage struct {
	Type     string            `json:"t"`
	ID       string            `json:"id,omitempty"`
	Kind     string            `json:"k,omitempty"`
	X        float64           `json:"x,omitempty"`
	Y        float64           `json:"y,omitempty"`
	Element  string            `json:"e,omitempty"`
	Props    map[string]string `json:"p,omitempty"`
	Duration int64             `json:"d,omitempty"` // ms
	Easing   string            `json:"ez,omitempty"`
	Outcome  string            `json:"o,omitempty"`
	Reaction int64             `json:"r,omitempty"` // ms
	State    string            `json:"s,omitempty"`
}

// Client represents a single WebSocket connection in the hub.
type Client struct {
	SessionID string
	Conn      *websocket.Conn
	Send      chan []byte

	mu     sync.Mutex
	closed bool
}

func NewClient(sessionID string, conn *websocket.Conn) *Client {
	return &Client{
		SessionID: sessionID,
		Conn:      conn,
		Send:      make(chan []byte, 256),
	}
}

// Enqueue queues msg for the write pump. Non-blocking: it returns false if
// the channel is full or the client is closed.
func (c *Client) Enqueue(msg ServerMessage) bool {
	data, err := json.Marshal(msg)
	if err != nil {
		log.Printf("[WSHub] Marshal error: %v\n", err)
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.Send <- data:
		return true
	default:
		return false
	}
}

// Close closes the Send channel, which ends the write pump. Safe to call
// more than once.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return
	}
	c.closed = true
	close(c.Send)
}

// WritePump reads from the Send channel and writes to the WebSocket connection.
func (c *Client) WritePump(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-c.Send:
			if !ok {
				return
			}
			if err := c.Conn.Write(ctx, websocket.MessageText, msg); err != nil {
				return
			}
		}
	}
}

// Hub tracks the connected players by session id.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]*Client
}

func NewHub() *Hub {
	return &Hub{
		clients: make(map[string]*Client),
	}
}

func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.clients[c.SessionID] = c
}

// Unregister removes a client and closes it.
func (h *Hub) Unregister(sessionID string) {
	h.mu.Lock()
	c, ok := h.clients[sessionID]
	if ok {
		delete(h.clients, sessionID)
	}
	h.mu.Unlock()

	if ok {
		c.Close()
	}
}

// Disconnect unregisters the client and closes its connection with reason.
func (h *Hub) Disconnect(sessionID, reason string) {
	h.mu.Lock()
	c, ok := h.clients[sessionID]
	delete(h.clients, sessionID)
	h.mu.Unlock()

	if !ok {
		return
	}
	c.Close()
	if c.Conn != nil {
		c.Conn.Close(websocket.StatusGoingAway, reason)
	}
}

// SendTo queues msg for one client. Non-blocking: drops if channel full.
func (h *Hub) SendTo(sessionID string, msg ServerMessage) bool {
	h.mu.RLock()
	c, ok := h.clients[sessionID]
	h.mu.RUnlock()
	if !ok {
		return false
	}
	return c.Enqueue(msg)
}

func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}
