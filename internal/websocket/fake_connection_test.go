package websocket

import (
	"errors"
	"sync"
	"time"
)

var errClosed = errors.New("connection closed")

// fakeConnection records writes; ReadMessage blocks until Close.
type fakeConnection struct {
	mu      sync.Mutex
	written []fakeFrame
	closed  chan struct{}
	once    sync.Once
}

type fakeFrame struct {
	Type int
	Data []byte
}

func newFakeConnection() *fakeConnection {
	return &fakeConnection{closed: make(chan struct{})}
}

func (f *fakeConnection) WriteMessage(messageType int, data []byte) error {
	select {
	case <-f.closed:
		return errClosed
	default:
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written = append(f.written, fakeFrame{Type: messageType, Data: append([]byte(nil), data...)})
	return nil
}

func (f *fakeConnection) ReadMessage() (int, []byte, error) {
	<-f.closed
	return 0, nil, errClosed
}

func (f *fakeConnection) Close() error {
	f.once.Do(func() { close(f.closed) })
	return nil
}

func (f *fakeConnection) SetReadDeadline(time.Time) error  { return nil }
func (f *fakeConnection) SetWriteDeadline(time.Time) error { return nil }
func (f *fakeConnection) SetReadLimit(int64)               {}
func (f *fakeConnection) SetPongHandler(func(string) error) {}
func (f *fakeConnection) RemoteAddr() string               { return "127.0.0.1:9999" }

func (f *fakeConnection) frames() []fakeFrame {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]fakeFrame(nil), f.written...)
}
