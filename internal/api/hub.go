/*
Package api
File: hub.go
Description:
    The WebSocket Hub is the core of the real-time observer layer.

    It maintains a registry of all connected observers and fans every
    published message out to them. The tick loop publishes through Pulse,
    and Publish never blocks: if the hub is busy the message is dropped,
    and a client whose buffer is full is disconnected.

    Architecture:
    - Hub: One per process, run with `go hub.Run(ctx)`.
    - Client: One browser tab or dashboard connection.
    - ServeWs: Upgrades a GET request to a WebSocket.
    - Pulse: game.TickObserver that publishes a summary every N ticks.
*/

package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"

	"github.com/everforgeworks/cookey-typer/internal/game"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
)

// Message defines the JSON envelope of every real-time message.
type Message struct {
	Type    string `json:"type"`    // Event type (e.g., "tick_pulse")
	Payload any    `json:"payload"` // Event body
	Sender  string `json:"sender"`  // Origin, "engine" for pulses
}

// Client is one connected observer.
type Client struct {
	hub  *Hub
	conn *websocket.Conn
	send chan []byte // Buffered outbound messages
}

// Hub maintains the set of active clients and broadcasts messages to them.
type Hub struct {
	clients map[*Client]bool

	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{} // Closed when Run returns

	count   atomic.Int64
	dropped atomic.Uint64
	log     *log.Logger
}

// NewHub creates a Hub. A nil logger uses the standard logger.
func NewHub(logger *log.Logger) *Hub {
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		broadcast:  make(chan []byte, 64),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		done:       make(chan struct{}),
		log:        logger,
	}
}

// Run is the event loop of the Hub. It returns when ctx is cancelled,
// closing every client.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		for client := range h.clients {
			close(client.send)
			delete(h.clients, client)
		}
		h.count.Store(0)
		if n := h.dropped.Load(); n > 0 {
			h.log.Printf("[WS] hub stopped, %d messages dropped", n)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.clients[client] = true
			h.count.Store(int64(len(h.clients)))
			h.log.Println("[WS] observer connected")

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
				h.count.Store(int64(len(h.clients)))
			}

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Slow reader: cut it loose
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.count.Store(int64(len(h.clients)))
		}
	}
}

// Publish queues a message for every client without blocking.
func (h *Hub) Publish(message []byte) bool {
	select {
	case h.broadcast <- message:
		return true
	default:
		h.dropped.Add(1)
		return false
	}
}

// ClientCount is the number of registered clients.
func (h *Hub) ClientCount() int { return int(h.count.Load()) }

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// ServeWs upgrades the request and registers the new client.
func ServeWs(hub *Hub, w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		hub.log.Println("[WS] upgrade error:", err)
		return
	}

	client := &Client{hub: hub, conn: conn, send: make(chan []byte, 64)}
	select {
	case hub.register <- client:
	case <-hub.done:
		_ = conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump only exists to process control frames; observers do not send
// anything meaningful.
func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Printf("[WS] read error: %v", err)
			}
			return
		}
	}
}

// writePump pumps messages from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// PulseSummary is the payload of a tick_pulse message.
type PulseSummary struct {
	Tick           uint64           `json:"tick"`
	Balance        float64          `json:"balance"`
	ProductionRate float64          `json:"production_rate"`
	Available      []game.UpgradeID `json:"available"`
	Owned          map[string]int64 `json:"owned"`
}

// Pulse publishes a PulseSummary every `every` ticks.
type Pulse struct {
	hub   *Hub
	every uint64
}

// NewPulse returns a tick observer publishing to hub. every < 1 means every tick.
func NewPulse(hub *Hub, every int) *Pulse {
	if every < 1 {
		every = 1
	}
	return &Pulse{hub: hub, every: uint64(every)}
}

// ObserveTick implements game.TickObserver.
func (p *Pulse) ObserveTick(s *game.Snapshot, _ time.Duration) {
	if s.Tick%p.every != 0 || p.hub.ClientCount() == 0 {
		return
	}

	sum := PulseSummary{
		Tick:           s.Tick,
		Balance:        s.Balance,
		ProductionRate: s.ProductionRate,
		Available:      s.Available,
		Owned:          make(map[string]int64),
	}
	for _, f := range s.Facilities {
		if f.Amount > 0 {
			sum.Owned[string(f.ID)] = f.Amount
		}
	}

	b, err := json.Marshal(Message{Type: "tick_pulse", Payload: sum, Sender: "engine"})
	if err != nil {
		p.hub.log.Printf("[WS] pulse marshal: %v", err)
		return
	}
	p.hub.Publish(b)
}
