package websocket

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"serene/middleware"

	"github.com/gorilla/websocket"
)

// Envelope is the frame every listener receives: a named event plus the
// mutation payload.
type Envelope struct {
	Event   string      `json:"event"`
	Payload interface{} `json:"payload"`
}

// Hub fans mutation events out to every connected client. There is no
// per-listener filtering and no acknowledgment; a slow client is dropped.
//
// Ownership rule: the Run goroutine is the only party that closes a
// client's done channel, and send is never closed at all. The pumps may
// therefore write to send at any time without racing a close.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
}

type Client struct {
	conn   *websocket.Conn
	userID string
	send   chan []byte
	done   chan struct{}
	hub    *Hub
}

// trySend queues a frame for the write pump. Frames for a dropped client
// or a full buffer are discarded.
func (c *Client) trySend(msg []byte) {
	select {
	case c.send <- msg:
	case <-c.done:
	default:
	}
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			log.Printf("websocket client registered, total: %d", len(h.clients))

		case client := <-h.unregister:
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.done)
			}
			log.Printf("websocket client unregistered, total: %d", len(h.clients))

		case message := <-h.broadcast:
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					delete(h.clients, client)
					close(client.done)
				}
			}
		}
	}
}

// Emit broadcasts a named event to all connected clients. Fire-and-forget:
// marshal failures and a full broadcast queue only log, never surface.
func (h *Hub) Emit(event string, payload interface{}) {
	msg, err := json.Marshal(Envelope{Event: event, Payload: payload})
	if err != nil {
		log.Printf("websocket: marshal %s event: %v", event, err)
		return
	}

	select {
	case h.broadcast <- msg:
	default:
		log.Printf("websocket: broadcast queue full, dropping %s event", event)
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// ServeWS upgrades an authenticated connection and attaches it to the hub.
// The bearer token rides in the query string because browsers cannot set
// headers on websocket upgrades.
func ServeWS(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token == "" {
			http.Error(w, "Token required", http.StatusUnauthorized)
			return
		}

		claims, err := middleware.ParseToken(token)
		if err != nil {
			http.Error(w, "Invalid token", http.StatusUnauthorized)
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Printf("websocket upgrade failed: %v", err)
			return
		}

		client := &Client{
			conn:   conn,
			userID: claims.UserID,
			send:   make(chan []byte, 256),
			done:   make(chan struct{}),
			hub:    hub,
		}

		hub.register <- client

		welcome, _ := json.Marshal(Envelope{
			Event: "connected",
			Payload: map[string]interface{}{
				"userId": client.userID,
				"time":   time.Now().Unix(),
			},
		})
		client.trySend(welcome)

		go client.writePump()
		go client.readPump()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("websocket read error: %v", err)
			}
			break
		}

		// Listeners are read-only except for keepalive pings.
		var data map[string]interface{}
		if err := json.Unmarshal(message, &data); err != nil {
			continue
		}
		if data["event"] == "ping" {
			pong, _ := json.Marshal(Envelope{
				Event:   "pong",
				Payload: map[string]interface{}{"time": time.Now().Unix()},
			})
			c.trySend(pong)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-c.done:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			c.conn.WriteMessage(websocket.CloseMessage, []byte{})
			return

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
