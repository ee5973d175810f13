package ws

import (
	"context"
	"encoding/json"
	"log"
	"sync"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// EventCatalogUpdate tells open admin lists that rows changed
const EventCatalogUpdate = "catalog_update"

// Event is the JSON frame pushed to every client
type Event struct {
	Type     string `json:"type"`
	Resource string `json:"resource"`
	Action   string `json:"action"`
	IDs      []uint `json:"ids"`
	Message  string `json:"message,omitempty"`
}

// Publisher is what services depend on; a nil Publisher is allowed
type Publisher interface {
	Publish(Event)
}

type Hub struct {
	Clients    map[*websocket.Conn]bool
	Register   chan *websocket.Conn
	Unregister chan *websocket.Conn
	Broadcast  chan []byte
	mutex      sync.Mutex

	done     chan struct{} // closed when Run returns
	stopOnce sync.Once
}

func NewHub() *Hub {
	return &Hub{
		Clients:    make(map[*websocket.Conn]bool),
		Register:   make(chan *websocket.Conn),
		Unregister: make(chan *websocket.Conn),
		Broadcast:  make(chan []byte, 64),
		done:       make(chan struct{}),
	}
}

// Run serves the hub until ctx is cancelled, then closes every client
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			h.stopOnce.Do(func() { close(h.done) })
			h.mutex.Lock()
			for conn := range h.Clients {
				conn.Close()
				delete(h.Clients, conn)
			}
			h.mutex.Unlock()
			return

		case conn := <-h.Register:
			h.mutex.Lock()
			h.Clients[conn] = true
			h.mutex.Unlock()
			log.Println("New WS Client Connected")

		case conn := <-h.Unregister:
			h.mutex.Lock()
			if _, ok := h.Clients[conn]; ok {
				delete(h.Clients, conn)
				conn.Close()
			}
			h.mutex.Unlock()
			log.Println("WS Client Disconnected")

		case message := <-h.Broadcast:
			h.mutex.Lock()
			for conn := range h.Clients {
				if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
					conn.Close()
					delete(h.Clients, conn)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Publish queues ev for broadcast without blocking the caller
func (h *Hub) Publish(ev Event) {
	if ev.Type == "" {
		ev.Type = EventCatalogUpdate
	}
	msg, err := json.Marshal(ev)
	if err != nil {
		log.Printf("ws: marshal event: %v", err)
		return
	}
	select {
	case <-h.done:
		return
	default:
	}
	go h.enqueue(msg)
}

// Done is closed once Run has stopped
func (h *Hub) Done() <-chan struct{} {
	return h.done
}

// enqueue, join and leave give up once the hub has stopped, so no
// sender is left blocked on a channel nobody reads.
func (h *Hub) enqueue(msg []byte) {
	select {
	case h.Broadcast <- msg:
	case <-h.done:
	}
}

func (h *Hub) join(c *websocket.Conn) bool {
	select {
	case h.Register <- c:
		return true
	case <-h.done:
		return false
	}
}

func (h *Hub) leave(c *websocket.Conn) {
	select {
	case h.Unregister <- c:
	case <-h.done:
	}
}

// ClientCount reports connected clients
func (h *Hub) ClientCount() int {
	h.mutex.Lock()
	defer h.mutex.Unlock()
	return len(h.Clients)
}

// UpgradeOnly rejects plain HTTP requests on the websocket route
func UpgradeOnly(c *fiber.Ctx) error {
	if websocket.IsWebSocketUpgrade(c) {
		return c.Next()
	}
	return c.SendStatus(fiber.StatusUpgradeRequired)
}

// Handler registers each connection and keeps it until the client leaves
func (h *Hub) Handler() fiber.Handler {
	return websocket.New(func(c *websocket.Conn) {
		if !h.join(c) {
			return
		}
		defer h.leave(c)

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	})
}
