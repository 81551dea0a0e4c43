// network/connection.go
package network

import (
	"net"
	"sync"

	"github.com/gorilla/websocket"
)

type Connection interface {
	Send(v interface{}) error
	ReadMessage() ([]byte, error)
	Close() error
	RemoteAddr() net.Addr
}

type WSConnection struct {
	conn      *websocket.Conn
	sendMutex sync.Mutex
}

func NewWSConnection(conn *websocket.Conn) *WSConnection {
	return &WSConnection{conn: conn}
}

// Send marshals v to a JSON text frame. Writes are serialized because both
// the broadcaster and the per-connection handler may send concurrently.
func (c *WSConnection) Send(v interface{}) error {
	c.sendMutex.Lock()
	defer c.sendMutex.Unlock()
	return c.conn.WriteJSON(v)
}

// ReadMessage blocks for the next text frame from the client. Non-text
// frames are skipped.
func (c *WSConnection) ReadMessage() ([]byte, error) {
	for {
		msgType, data, err := c.conn.ReadMessage()
		if err != nil {
			return nil, err
		}
		if msgType != websocket.TextMessage {
			continue
		}
		return data, nil
	}
}

func (c *WSConnection) Close() error {
	return c.conn.Close()
}

func (c *WSConnection) RemoteAddr() net.Addr {
	return c.conn.RemoteAddr()
}
