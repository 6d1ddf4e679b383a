/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	clientSendBuffer = 32
	maxMessageSize   = 4096
	writeWait        = 10 * time.Second
)

// peer is one live connection as the coordinator sees it. Send never blocks.
type peer interface {
	Send(msg any) bool
	Close()
}

type Client struct {
	cfg  *Config
	conn *websocket.Conn
	role string
	send chan any

	mu     sync.Mutex
	closed bool
}

func newClient(cfg *Config, conn *websocket.Conn, role string) *Client {
	return &Client{
		cfg:  cfg,
		conn: conn,
		role: role,
		send: make(chan any, clientSendBuffer),
	}
}

// Send queues msg for the write pump. A client whose buffer is full is
// too slow to keep up and gets disconnected.
func (c *Client) Send(msg any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return false
	}

	select {
	case c.send <- msg:
		return true
	default:
		logf(c.cfg, "CONN: Send buffer full for %s client %s, disconnecting", c.role, c.conn.RemoteAddr())
		sendFailures.Inc()
		c.closeLocked()
		return false
	}
}

// Close lets the write pump flush whatever is queued, then closes the socket.
func (c *Client) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.closeLocked()
}

func (c *Client) closeLocked() {
	if c.closed {
		return
	}

	c.closed = true
	close(c.send)
}

// pongWait allows one unanswered ping before the read deadline expires.
func (c *Client) pongWait() time.Duration {
	return 2*c.cfg.heartbeat + writeWait
}

func (c *Client) readPump(handle func(data []byte)) {
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(c.pongWait()))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(c.pongWait()))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logf(c.cfg, "CONN: Read error from %s client %s: %v", c.role, c.conn.RemoteAddr(), err)
			}
			return
		}

		_ = c.conn.SetReadDeadline(time.Now().Add(c.pongWait()))

		handle(data)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(c.cfg.heartbeat)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))

			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}

			if err := c.conn.WriteJSON(msg); err != nil {
				logf(c.cfg, "CONN: Write error to %s client %s: %v", c.role, c.conn.RemoteAddr(), err)
				sendFailures.Inc()
				return
			}

			messagesSent.Inc()

		case <-ticker.C:
			if err := c.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return
			}
		}
	}
}
