package client

import (
	"log/slog"
	"time"

	"github.com/gorilla/websocket"

	"github.com/devaloi/msgboard/internal/domain"
	"github.com/devaloi/msgboard/internal/hub"
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer.
	maxMessageSize = 4096
)

// Client is a websocket subscriber connected to the hub.
type Client struct {
	hub      *hub.Hub
	conn     *websocket.Conn
	send     chan []byte
	username string
	tables   map[string]bool
	log      *slog.Logger
}

// New creates a new Client.
func New(h *hub.Hub, conn *websocket.Conn, username string, log *slog.Logger) *Client {
	return &Client{
		hub:      h,
		conn:     conn,
		send:     make(chan []byte, 256),
		username: username,
		tables:   make(map[string]bool),
		log:      log.With("user", username),
	}
}

// Username returns the client's username.
func (c *Client) Username() string {
	return c.username
}

// Send queues a frame to be written to the websocket.
func (c *Client) Send(data []byte) {
	select {
	case c.send <- data:
	default:
		c.log.Warn("Send buffer full, dropping frame")
	}
}

// ReadPump reads frames from the websocket connection and routes them to the hub.
func (c *Client) ReadPump() {
	defer func() {
		// Unsubscribe from all tables on disconnect.
		for table := range c.tables {
			c.hub.Unsubscribe(c, table)
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.log.Warn("Read error", "error", err)
			}
			return
		}
		c.handleFrame(data)
	}
}

// WritePump writes frames from the send channel to the websocket connection.
func (c *Client) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleFrame(data []byte) {
	f, err := domain.DecodeFrame(data)
	if err != nil {
		c.sendError("invalid JSON")
		return
	}

	switch f.Type {
	case domain.FrameSubscribe:
		if !domain.ValidTable(f.Table) {
			c.sendError("valid table name required")
			return
		}
		if c.tables[f.Table] {
			return
		}
		if err := c.hub.Subscribe(c, f.Table); err != nil {
			c.log.Debug("Subscribe rejected", "table", f.Table, "error", err)
			return
		}
		c.tables[f.Table] = true

	case domain.FrameUnsubscribe:
		if !c.tables[f.Table] {
			c.sendError("not subscribed")
			return
		}
		delete(c.tables, f.Table)
		c.hub.Unsubscribe(c, f.Table)

	default:
		c.sendError("unknown frame type: " + f.Type)
	}
}

func (c *Client) sendError(message string) {
	errFrame := domain.ErrorFrame{Type: domain.FrameError, Message: message}
	if data, err := domain.Encode(errFrame); err == nil {
		c.Send(data)
	}
}
