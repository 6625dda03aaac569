package ws

import (
	"net"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// Mock WebSocket connection implementing WebSocketConn interface
type mockWebSocketConn struct {
	mu      sync.Mutex
	closed  bool
	written [][]byte
}

func (m *mockWebSocketConn) SetReadLimit(int64) {}

func (m *mockWebSocketConn) ReadMessage() (messageType int, p []byte, err error) {
	time.Sleep(10 * time.Millisecond)
	return websocket.TextMessage, []byte("test"), nil
}

func (m *mockWebSocketConn) WriteMessage(messageType int, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return websocket.ErrCloseSent
	}
	m.written = append(m.written, data)
	return nil
}

func (m *mockWebSocketConn) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.closed = true
	return nil
}

func (m *mockWebSocketConn) SetWriteDeadline(time.Time) error {
	return nil
}

func (m *mockWebSocketConn) SetReadDeadline(time.Time) error {
	return nil
}

func (m *mockWebSocketConn) SetPongHandler(func(appData string) error) {}

func (m *mockWebSocketConn) WriteControl(int, []byte, time.Time) error {
	return nil
}

func (m *mockWebSocketConn) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 8080}
}

func NewMockWebSocketConn() WebSocketConn {
	return &mockWebSocketConn{}
}
