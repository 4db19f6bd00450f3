package ws

import (
	"sync"

	"github.com/gorilla/websocket"
)

// wire abstracts the underlying websocket connection so the registry
// and router can be exercised without real sockets.
type wire interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Client is the ephemeral handle for one live connection. It is
// created on handshake and destroyed on disconnect; never persisted.
type Client struct {
	info ConnInfo
	conn wire

	// Serializes writes: fan-out reaches a connection from many
	// request goroutines, and gorilla connections allow only one
	// concurrent writer. This also gives each publisher→subscriber
	// pair FIFO delivery.
	writeMu sync.Mutex
}

func newClient(conn wire, info ConnInfo) *Client {
	return &Client{info: info, conn: conn}
}

func (c *Client) write(payload []byte) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.conn.WriteMessage(websocket.TextMessage, payload)
}

func (c *Client) close() {
	_ = c.conn.Close()
}
