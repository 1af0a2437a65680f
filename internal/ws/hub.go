// Package ws pushes cart updates to connected WebSocket clients, the analog
// of the navbar badge: independent observers stay consistent with the cart
// without any coupling to it.
package ws

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/mittbutik/storefront/internal/bus"
	"github.com/mittbutik/storefront/pkg/logger"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	sendBufferSize = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type client struct {
	conn *websocket.Conn
	send chan []byte
}

// Hub fans bus CartUpdated events out to every connected client.
type Hub struct {
	clients    map[*client]bool
	register   chan *client
	unregister chan *client
	broadcast  chan []byte
}

// NewHub creates the hub and subscribes it to CartUpdated.
func NewHub(b *bus.Bus) *Hub {
	h := &Hub{
		clients:    make(map[*client]bool),
		register:   make(chan *client, 16),
		unregister: make(chan *client, 16),
		broadcast:  make(chan []byte, 64),
	}

	b.Subscribe(bus.EventCartUpdated, func(e bus.Event) {
		updated := e.(bus.CartUpdated)
		payload, err := json.Marshal(map[string]interface{}{
			"event": bus.EventCartUpdated,
			"items": updated.Items,
			"total": updated.Total,
		})
		if err != nil {
			logger.Error("Failed to marshal cart update", err)
			return
		}
		select {
		case h.broadcast <- payload:
		default:
			logger.Warn("Cart feed channel full, update dropped")
		}
	})

	return h
}

// Run processes registrations and broadcasts. Call in its own goroutine.
func (h *Hub) Run() {
	for {
		select {
		case c := <-h.register:
			h.clients[c] = true
			logger.Info("Cart feed client connected", map[string]interface{}{
				"clients": len(h.clients),
			})

		case c := <-h.unregister:
			if _, ok := h.clients[c]; ok {
				delete(h.clients, c)
				close(c.send)
			}

		case payload := <-h.broadcast:
			for c := range h.clients {
				select {
				case c.send <- payload:
				default:
					// Slow client, drop it rather than block the feed.
					delete(h.clients, c)
					close(c.send)
					logger.Warn("Cart feed client send buffer full, disconnecting")
				}
			}
		}
	}
}

// Serve upgrades the request and attaches the connection to the hub.
func (h *Hub) Serve(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Warn("WebSocket upgrade failed", map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	c := &client{
		conn: conn,
		send: make(chan []byte, sendBufferSize),
	}
	h.register <- c

	go c.writePump()
	go c.readPump(h)
}

func (c *client) readPump(h *Hub) {
	defer func() {
		h.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// The feed is one-way; inbound messages are drained until close.
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (c *client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case payload, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
