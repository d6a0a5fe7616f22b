package server

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Errors
var (
	ErrChannelClosed = errors.New("channel closed")
	ErrBufferFull    = errors.New("send buffer full")
)

// client wraps one WebSocket connection behind the registry.Channel contract.
// All writes to the socket go through writePump; Send only enqueues.
type client struct {
	conn   *websocket.Conn
	cfg    Config
	logger *slog.Logger

	send chan []byte
	done chan struct{}

	closeOnce sync.Once
}

func newClient(conn *websocket.Conn, cfg Config, logger *slog.Logger) *client {
	return &client{
		conn:   conn,
		cfg:    cfg,
		logger: logger,
		send:   make(chan []byte, cfg.SendBuffer),
		done:   make(chan struct{}),
	}
}

// Send enqueues one outbound message. It never blocks: a full buffer means the
// peer is not draining and the message is dropped with an error the caller can
// log.
func (c *client) Send(data []byte) error {
	select {
	case <-c.done:
		return ErrChannelClosed
	default:
	}

	select {
	case c.send <- data:
		return nil
	case <-c.done:
		return ErrChannelClosed
	default:
		return ErrBufferFull
	}
}

// Close releases the channel. Safe to call more than once; later sends fail
// with ErrChannelClosed.
func (c *client) Close() error {
	c.closeOnce.Do(func() {
		close(c.done)

		c.conn.WriteControl(
			websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
			time.Now().Add(time.Second),
		)
		c.conn.Close()
	})
	return nil
}

// writePump drains the send buffer onto the socket and keeps the connection
// alive with periodic WebSocket pings. It is the only goroutine that writes.
func (c *client) writePump() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.done:
			return

		case data := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				c.logger.Debug("write failed", "error", err)
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
