// Package websocket provides WebSocket support for realtime inventory updates.
package websocket

import (
	"context"
	"encoding/json"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

// Hub maintains active WebSocket connections and broadcasts messages.
type Hub struct {
	clients    map[*Client]struct{}
	broadcast  chan Message
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	logger     *zerolog.Logger
	onChange   func(clients int)
}

// NewHub creates a new WebSocket hub.
func NewHub(logger *zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]struct{}),
		broadcast:  make(chan Message, 256),
		register:   make(chan *Client, 16),
		unregister: make(chan *Client, 16),
		logger:     logger,
	}
}

// OnClientsChanged registers a callback run with the client count after
// every connect and disconnect. It must be set before Run.
func (h *Hub) OnClientsChanged(fn func(clients int)) {
	h.onChange = fn
}

// Run starts the hub's main loop and blocks until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			h.logger.Info().Msg("WebSocket hub shut down")
			return
		case c := <-h.register:
			h.track(c, true)
		case c := <-h.unregister:
			h.track(c, false)
		case m := <-h.broadcast:
			h.fanOut(m)
		}
	}
}

func (h *Hub) track(c *Client, connected bool) {
	h.mu.Lock()
	if connected {
		h.clients[c] = struct{}{}
	} else if _, ok := h.clients[c]; ok {
		delete(h.clients, c)
		close(c.send)
	}
	n := len(h.clients)
	h.mu.Unlock()

	msg := "WebSocket client disconnected"
	if connected {
		msg = "WebSocket client connected"
	}
	h.logger.Info().
		Str("client_id", c.id).
		Strs("topics", c.Topics()).
		Int("total_clients", n).
		Msg(msg)
	if h.onChange != nil {
		h.onChange(n)
	}
}

func (h *Hub) fanOut(m Message) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		if !c.Wants(m.Type) {
			continue
		}
		select {
		case c.send <- m:
		default:
			// slow consumer
			close(c.send)
			delete(h.clients, c)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		close(c.send)
		delete(h.clients, c)
	}
}

// Register adds a client to the hub.
func (h *Hub) Register(c *Client) {
	h.register <- c
}

// Broadcast queues a message for every client subscribed to its type. The
// message is dropped when the queue is full.
func (h *Hub) Broadcast(message Message) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn().Str("type", message.Type).Msg("Broadcast channel full, message dropped")
	}
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// Message represents a WebSocket message.
type Message struct {
	ID        string    `json:"id,omitempty"`
	Type      string    `json:"type"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// Topic is the part of a message type before the first dot, e.g. "pack"
// for "pack.updated".
func Topic(messageType string) string {
	topic, _, _ := strings.Cut(messageType, ".")
	return topic
}

// Client represents a WebSocket client connection.
type Client struct {
	id   string
	hub  *Hub
	conn *websocket.Conn
	send chan Message

	mu     sync.RWMutex
	topics []string
}

// NewClient creates a client subscribed to topics, or to everything when
// none are given.
func NewClient(id string, hub *Hub, conn *websocket.Conn, topics ...string) *Client {
	c := &Client{
		id:   id,
		hub:  hub,
		conn: conn,
		send: make(chan Message, 64),
	}
	c.Subscribe(topics...)
	return c
}

// ID returns the client id.
func (c *Client) ID() string { return c.id }

// Subscribe replaces the client's topics. Empty topics are ignored; no
// topics means every message.
func (c *Client) Subscribe(topics ...string) {
	clean := make([]string, 0, len(topics))
	for _, t := range topics {
		if t = strings.ToLower(strings.TrimSpace(t)); t != "" && !slices.Contains(clean, t) {
			clean = append(clean, t)
		}
	}
	c.mu.Lock()
	c.topics = clean
	c.mu.Unlock()
}

// Topics returns the subscribed topics.
func (c *Client) Topics() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return slices.Clone(c.topics)
}

// Wants reports whether a message of the given type goes to this client.
// Client lifecycle messages always do.
func (c *Client) Wants(messageType string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	topic := Topic(messageType)
	return len(c.topics) == 0 || topic == "client" || slices.Contains(c.topics, topic)
}

// control is the only frame clients send.
type control struct {
	Subscribe []string `json:"subscribe"`
}

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 512
)

// ReadPump reads subscription frames until the connection closes, then
// unregisters the client.
func (c *Client) ReadPump() {
	defer func() {
		c.hub.unregister <- c
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Error().Err(err).Str("client_id", c.id).Msg("WebSocket read error")
			}
			return
		}
		var ctl control
		if err := json.Unmarshal(data, &ctl); err != nil || ctl.Subscribe == nil {
			c.hub.logger.Debug().Str("client_id", c.id).Msg("Ignoring unknown WebSocket frame")
			continue
		}
		c.Subscribe(ctl.Subscribe...)
		c.hub.logger.Debug().Str("client_id", c.id).Strs("topics", c.Topics()).Msg("WebSocket subscription changed")
	}
}

// WritePump pumps messages from the hub to the WebSocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
