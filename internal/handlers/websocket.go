package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"casino-engine-backend/internal/models"
	"casino-engine-backend/internal/services"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// WebSocketHandler pushes settlement and balance events to connected
// players. The feed is one-way apart from pings; all mutations go through
// the HTTP surface.
type WebSocketHandler struct {
	engine *services.Engine
	hub    *Hub
	log    *logrus.Logger
}

type Hub struct {
	clients    map[int64]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan *Message
	log        *logrus.Logger
}

// Client owns one connection. The conn is written only by the client's
// write pump; every producer goes through the send channel.
type Client struct {
	UserID int64
	Conn   *websocket.Conn
	send   chan *Message
}

type Message struct {
	Type   string      `json:"type"`
	UserID int64       `json:"user_id,omitempty"`
	Data   interface{} `json:"data"`
}

func NewWebSocketHandler(engine *services.Engine, log *logrus.Logger) *WebSocketHandler {
	hub := &Hub{
		clients:    make(map[int64]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan *Message, 100),
		log:        log,
	}

	go hub.run()

	h := &WebSocketHandler{engine: engine, hub: hub, log: log}

	// Settlements reach the feed straight from the engine pipeline.
	engine.OnSettle(h.notifySettled)

	return h
}

func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	userID := c.GetInt64("user_id")

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.WithError(err).Warn("websocket upgrade failed")
		return
	}

	client := &Client{
		UserID: userID,
		Conn:   conn,
		send:   make(chan *Message, 16),
	}
	h.hub.register <- client

	go client.writePump()

	defer func() {
		h.hub.unregister <- client
		conn.Close()
	}()

	h.sendBalance(client)

	for {
		var msg Message
		if err := conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.log.WithError(err).Debug("websocket read error")
			}
			break
		}

		if msg.Type == "PING" {
			client.push(&Message{
				Type: "PONG",
				Data: gin.H{"timestamp": time.Now().Unix()},
			})
		}
	}
}

// writePump drains the send channel onto the connection. Runs until the
// hub closes the channel at unregister.
func (c *Client) writePump() {
	for msg := range c.send {
		if err := c.Conn.WriteJSON(msg); err != nil {
			return
		}
	}
}

// push enqueues without blocking; a slow consumer drops events rather than
// stalling a producer.
func (c *Client) push(msg *Message) bool {
	select {
	case c.send <- msg:
		return true
	default:
		return false
	}
}

func (h *WebSocketHandler) sendBalance(client *Client) {
	balance, err := h.engine.Balance(context.Background(), client.UserID)
	if err != nil {
		h.log.WithError(err).WithField("user_id", client.UserID).Warn("failed to load balance for feed")
		return
	}

	client.push(&Message{
		Type: "BALANCE_UPDATE",
		Data: balance,
	})
}

// notifySettled pushes a settled bet to its owner. Bets arrive already
// sanitized by the engine.
func (h *WebSocketHandler) notifySettled(bet *models.Bet) {
	msg := &Message{
		Type:   "BET_SETTLED",
		UserID: bet.UserID,
		Data:   bet,
	}

	select {
	case h.hub.broadcast <- msg:
	default:
		h.log.Warn("websocket broadcast queue full, dropping settlement event")
	}
}

func (hub *Hub) run() {
	for {
		select {
		case client := <-hub.register:
			hub.clients[client.UserID] = client
			hub.log.WithField("user_id", client.UserID).Debug("websocket client registered")

		case client := <-hub.unregister:
			if _, ok := hub.clients[client.UserID]; ok {
				delete(hub.clients, client.UserID)
				close(client.send)
				hub.log.WithField("user_id", client.UserID).Debug("websocket client unregistered")
			}

		case message := <-hub.broadcast:
			hub.deliver(message)
		}
	}
}

func (hub *Hub) deliver(message *Message) {
	if message.UserID != 0 {
		if client, ok := hub.clients[message.UserID]; ok {
			client.push(message)
		}
		return
	}

	for _, client := range hub.clients {
		client.push(message)
	}
}
