package server

import (
	"encoding/json"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

// Conn wraps a single websocket channel. It implements match.Sink.
type Conn struct {
	ID string

	ws          *websocket.Conn
	mu          sync.Mutex // protects writes, closed, participant
	closed      bool
	participant string
}

func NewConn(ws *websocket.Conn) *Conn {
	return &Conn{
		ID: uuid.New().String(),
		ws: ws,
	}
}

// Send serializes v to JSON and writes it to the websocket.
func (c *Conn) Send(v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

func (c *Conn) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.ws.Close()
}

// SetParticipant binds the channel to a participant identity on the first
// authenticated message.
func (c *Conn) SetParticipant(p string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.participant == "" {
		c.participant = p
	}
}

func (c *Conn) Participant() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.participant
}

// ReadLoop pumps inbound messages into the handler until the channel drops,
// then reports the disconnect. Blocks until then.
func (c *Conn) ReadLoop(h *Handler) {
	defer func() {
		h.HandleDisconnect(c)
		_ = c.Close()
	}()

	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("ws read error for %s: %v", c.ID, err)
			}
			return
		}
		h.HandleMessage(c, raw)
	}
}
