package websocket

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/gofiber/websocket/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/evstation/internal/adapter/queue"
)

const sendBuffer = 256

// Hub fans station lifecycle events out to connected WebSocket clients.
// A client may follow a single station; otherwise it receives every event.
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan envelope
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	log        *zap.Logger

	mu sync.RWMutex
}

type Client struct {
	hub       *Hub
	conn      *websocket.Conn
	send      chan []byte
	userID    string
	stationID string
}

type envelope struct {
	stationID string
	data      []byte
}

func NewHub(log *zap.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan envelope, sendBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[*Client]bool),
		log:        log,
	}
}

// Run serves registrations and broadcasts until ctx is cancelled.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
		case msg := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				if client.stationID != "" && client.stationID != msg.stationID {
					continue
				}
				select {
				case client.send <- msg.data:
				default:
					// Slow consumer: drop it rather than block the feed.
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()
		}
	}
}

// Subscribe forwards every message published on subject to the clients.
func (h *Hub) Subscribe(mq queue.MessageQueue, subject string) error {
	return mq.Subscribe(subject, h.Publish)
}

// Publish queues a station event for delivery. Payloads without a station_id
// only reach clients that follow every station.
func (h *Hub) Publish(data []byte) error {
	var head struct {
		StationID string `json:"station_id"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		h.log.Warn("Dropping undecodable station event", zap.Error(err))
		return err
	}
	select {
	case h.broadcast <- envelope{stationID: head.StationID, data: data}:
	default:
		h.log.Warn("Station feed backlog full, dropping event", zap.String("station_id", head.StationID))
	}
	return nil
}

// ClientCount returns the number of connected clients.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

// AddClient registers conn and blocks until the connection closes, as the
// gofiber websocket handler requires.
func (h *Hub) AddClient(conn *websocket.Conn, userID, stationID string) {
	client := &Client{
		hub:       h,
		conn:      conn,
		send:      make(chan []byte, sendBuffer),
		userID:    userID,
		stationID: stationID,
	}
	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	client.readPump()
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()
	for {
		// Clients only listen; reads keep control frames flowing.
		if _, _, err := c.conn.ReadMessage(); err != nil {
			break
		}
	}
}

func (c *Client) writePump() {
	defer c.conn.Close()
	for message := range c.send {
		if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
			return
		}
	}
	_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
}
