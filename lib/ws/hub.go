package ws

import (
	"sync"

	"go.uber.org/zap"
)

// Broadcast is a message for every client following Room. An empty Room
// reaches every client.
type Broadcast struct {
	Room    string
	Message []byte
}

// Hub maintains the set of active Clients and broadcasts messages to the
// Clients.
type Hub struct {
	// Registered Clients.
	Clients        map[*Client]bool
	ClientsRWMutex sync.RWMutex

	Broadcast chan Broadcast

	// Register requests from the Clients.
	Register chan *Client

	// Unregister requests from Clients.
	Unregister chan *Client

	logger *zap.SugaredLogger
	done   chan struct{}
	once   sync.Once
}

func NewHub(logger *zap.SugaredLogger) *Hub {
	return &Hub{
		Broadcast:  make(chan Broadcast, 256),
		Register:   make(chan *Client),
		Unregister: make(chan *Client),
		Clients:    make(map[*Client]bool),
		logger:     logger,
		done:       make(chan struct{}),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case <-h.done:
			h.ClientsRWMutex.Lock()
			for client := range h.Clients {
				delete(h.Clients, client)
				close(client.Send)
			}
			h.ClientsRWMutex.Unlock()
			return
		case client := <-h.Register:
			if client == nil {
				continue
			}
			h.ClientsRWMutex.Lock()
			h.Clients[client] = true
			h.ClientsRWMutex.Unlock()
		case client := <-h.Unregister:
			if client == nil {
				continue
			}
			h.ClientsRWMutex.Lock()
			if _, ok := h.Clients[client]; ok {
				delete(h.Clients, client)
				close(client.Send)
			}
			h.ClientsRWMutex.Unlock()
		case broadcast := <-h.Broadcast:
			h.ClientsRWMutex.Lock()
			for client := range h.Clients {
				if broadcast.Room != "" && client.Room != "" && client.Room != broadcast.Room {
					continue
				}
				select {
				case client.Send <- broadcast.Message:
				default:
					h.logger.Warnf("Removing websocket client %s, its send buffer is full", client.Conn.RemoteAddr())
					delete(h.Clients, client)
					close(client.Send)
				}
			}
			h.ClientsRWMutex.Unlock()
		}
	}
}

// Publish queues a broadcast. It returns false once the hub was stopped.
func (h *Hub) Publish(broadcast Broadcast) bool {
	select {
	case <-h.done:
		return false
	default:
	}
	select {
	case h.Broadcast <- broadcast:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) ClientCount() int {
	h.ClientsRWMutex.RLock()
	defer h.ClientsRWMutex.RUnlock()
	return len(h.Clients)
}

// Stop disconnects every client and ends Run.
func (h *Hub) Stop() {
	h.once.Do(func() {
		close(h.done)
	})
}
