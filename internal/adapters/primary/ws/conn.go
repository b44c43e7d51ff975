package ws

import (
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/swathi-reddy30/pulse-app/internal/core/domain"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBufferSize = 16
)

// ErrSendBufferFull reports a dropped frame: the client is too slow to drain
// its queue and the push is fire-and-forget, so we drop rather than block.
var ErrSendBufferFull = errors.New("connection send buffer full")

// pushPayload is the wire shape the client listens for.
type pushPayload struct {
	Type        string `json:"type"`
	Kind        string `json:"kind"`
	Sender      string `json:"sender"`
	RelatedPost string `json:"relatedPost,omitempty"`
}

// Conn is one live websocket wrapped as a presence handle. All writes go
// through the send channel; the write pump is the only goroutine touching
// the underlying socket for output.
type Conn struct {
	id     string
	userID string
	ws     *websocket.Conn

	send chan []byte
	done chan struct{}
	once sync.Once
}

func newConn(userID string, wsConn *websocket.Conn) *Conn {
	return &Conn{
		id:     uuid.NewString(),
		userID: userID,
		ws:     wsConn,
		send:   make(chan []byte, sendBufferSize),
		done:   make(chan struct{}),
	}
}

func (c *Conn) ID() string { return c.id }

// Push queues the notification frame without ever blocking the dispatcher.
func (c *Conn) Push(n *domain.Notification) error {
	data, err := json.Marshal(pushPayload{
		Type:        "newNotification",
		Kind:        string(n.Kind),
		Sender:      n.SenderID,
		RelatedPost: n.PostID,
	})
	if err != nil {
		return err
	}

	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return errors.New("connection closed")
	default:
		return ErrSendBufferFull
	}
}

func (c *Conn) close() {
	c.once.Do(func() {
		close(c.done)
		c.ws.Close()
	})
}

// writePump drains the send queue and keeps the connection alive with pings.
func (c *Conn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case data := <-c.send:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// readPump drains control frames; the channel is push-only from our side.
// It returns when the peer goes away, which is the disconnect signal.
func (c *Conn) readPump() {
	defer c.close()

	c.ws.SetReadLimit(maxMessageSize)
	c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		c.ws.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.ws.ReadMessage(); err != nil {
			return
		}
	}
}
