// Package realtime entrega os eventos do gabinete aos painéis conectados por websocket.
package realtime

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"gabinete-digital/internal/models"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 64
)

// Message é o envelope trocado com o navegador.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
}

type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	broadcast  chan models.Notification
	done       chan struct{}

	upgrader websocket.Upgrader
	log      logrus.FieldLogger
	mutex    sync.RWMutex
}

type Client struct {
	hub    *Hub
	conn   *websocket.Conn
	send   chan []byte
	userID string
	role   models.UserRole

	mu     sync.Mutex
	topics map[string]bool
	closed bool
}

// NewHub cria o hub; checkOrigin nil aceita qualquer origem.
func NewHub(checkOrigin func(r *http.Request) bool, log logrus.FieldLogger) *Hub {
	if checkOrigin == nil {
		checkOrigin = func(*http.Request) bool { return true }
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan models.Notification, sendBuffer),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     checkOrigin,
		},
		log: log,
	}
}

// Run processa registros e envios até ctx ser cancelado. Ao sair, encerra
// todas as conexões.
func (h *Hub) Run(ctx context.Context) {
	defer func() {
		close(h.done)
		h.mutex.Lock()
		for client := range h.clients {
			client.close()
			delete(h.clients, client)
		}
		h.mutex.Unlock()
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case client := <-h.register:
			h.mutex.Lock()
			h.clients[client] = true
			h.mutex.Unlock()
			h.log.WithField("user_id", client.userID).Debug("painel conectado")

		case client := <-h.unregister:
			h.mutex.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				client.close()
			}
			h.mutex.Unlock()
			h.log.WithField("user_id", client.userID).Debug("painel desconectado")

		case notification := <-h.broadcast:
			payload, err := json.Marshal(Message{Type: notification.Type, Data: notification})
			if err != nil {
				h.log.WithError(err).Error("falha ao serializar evento")
				continue
			}

			h.mutex.Lock()
			for client := range h.clients {
				if !client.wants(notification.Type) {
					continue
				}
				if !client.enqueue(payload) {
					client.close()
					delete(h.clients, client)
				}
			}
			h.mutex.Unlock()
		}
	}
}

// Broadcast enfileira o evento sem bloquear quem grava o registro. Com a fila
// cheia (ou o hub parado) o evento é descartado.
func (h *Hub) Broadcast(n models.Notification) {
	select {
	case h.broadcast <- n:
	case <-h.done:
	default:
		h.log.WithField("type", n.Type).Warn("fila de eventos cheia, evento descartado")
	}
}

// Clients devolve quantos painéis estão conectados.
func (h *Hub) Clients() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

// ServeWS promove a requisição a websocket para um usuário já autenticado.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string, role models.UserRole) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	client := &Client{
		hub:    h,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		userID: userID,
		role:   role,
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return nil
	}

	go client.writePump()
	go client.readPump()
	return nil
}

// enqueue não bloqueia: devolve false se o buffer estiver cheio ou o cliente fechado.
func (c *Client) enqueue(payload []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- payload:
		return true
	default:
		return false
	}
}

func (c *Client) close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// wants indica se o cliente assinou o tipo; sem assinatura recebe tudo.
func (c *Client) wants(eventType string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.topics) == 0 || c.topics[eventType]
}

func (c *Client) subscribe(data any) {
	items, _ := data.([]any)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.topics = make(map[string]bool, len(items))
	for _, item := range items {
		if topic, ok := item.(string); ok {
			c.topics[topic] = true
		}
	}
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg Message
		if err := c.conn.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure, websocket.CloseAbnormalClosure) {
				c.hub.log.WithError(err).Warn("erro no websocket")
			}
			return
		}

		switch msg.Type {
		case "subscribe":
			c.subscribe(msg.Data)
		case "ping":
			pong, _ := json.Marshal(Message{Type: "pong"})
			c.enqueue(pong)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
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
