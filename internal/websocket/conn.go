package websocket

import (
	"time"

	"github.com/gorilla/websocket"
)

// Connection is what the client pumps need from a socket. Tests substitute
// an in-memory fake.
type Connection interface {
	WriteMessage(messageType int, data []byte) error
	ReadMessage() (messageType int, p []byte, err error)
	Close() error
	SetReadDeadline(t time.Time) error
	SetWriteDeadline(t time.Time) error
	SetReadLimit(limit int64)
	SetPongHandler(h func(string) error)
	RemoteAddr() string
}

// gorillaConn adapts *websocket.Conn; only RemoteAddr differs in shape.
type gorillaConn struct {
	*websocket.Conn
}

// NewConnectionWrapper wraps an upgraded gorilla connection.
func NewConnectionWrapper(conn *websocket.Conn) Connection {
	return gorillaConn{Conn: conn}
}

func (c gorillaConn) RemoteAddr() string {
	if addr := c.Conn.RemoteAddr(); addr != nil {
		return addr.String()
	}
	return ""
}
