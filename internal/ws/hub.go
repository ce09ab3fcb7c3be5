package ws

import (
	"net/http"
	"strings"
	"sync"

	"unisport/auth"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Client represents one open notification stream.
type Client struct {
	Conn   *websocket.Conn
	UserID uint
}

// Hub tracks the open notification streams per user. A user may hold several
// connections (multiple tabs or devices).
type Hub struct {
	mu      sync.Mutex
	clients map[uint]map[*Client]bool
	logger  *zap.Logger
}

func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		clients: make(map[uint]map[*Client]bool),
		logger:  logger,
	}
}

func (h *Hub) add(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[client.UserID] == nil {
		h.clients[client.UserID] = make(map[*Client]bool)
	}
	h.clients[client.UserID][client] = true
}

func (h *Hub) remove(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.clients[client.UserID]; ok {
		delete(conns, client)
		if len(conns) == 0 {
			delete(h.clients, client.UserID)
		}
	}
}

// Push delivers a JSON payload to every open connection of the user.
// Delivery is best-effort: a dead connection is dropped, never retried.
func (h *Hub) Push(userID uint, payload interface{}) {
	h.mu.Lock()
	conns := make([]*Client, 0, len(h.clients[userID]))
	for client := range h.clients[userID] {
		conns = append(conns, client)
	}
	h.mu.Unlock()

	for _, client := range conns {
		if err := client.Conn.WriteJSON(payload); err != nil {
			h.logger.Warn("Failed to push notification, dropping connection",
				zap.Uint("userID", userID), zap.Error(err))
			client.Conn.Close()
			h.remove(client)
		}
	}
}

// HandleConnections upgrades an authenticated request to a websocket and
// registers it with the hub. The token is taken from the Authorization
// header or, for browser clients, the "token" query parameter.
func (h *Hub) HandleConnections(c *gin.Context) {
	tokenString := c.GetHeader("Authorization")
	if strings.HasPrefix(tokenString, "Bearer ") {
		tokenString = strings.TrimPrefix(tokenString, "Bearer ")
	}
	if tokenString == "" {
		tokenString = c.Query("token")
	}

	claims, err := auth.ParseToken(tokenString)
	if err != nil {
		h.logger.Warn("Websocket auth failed", zap.Error(err))
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "Invalid or expired token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("Error upgrading WebSocket", zap.Error(err))
		return
	}

	client := &Client{Conn: conn, UserID: claims.UserID}
	h.add(client)
	h.logger.Info("Notification stream opened", zap.Uint("UserID", client.UserID))

	conn.SetCloseHandler(func(code int, text string) error {
		h.logger.Info("Notification stream closed", zap.Int("code", code))
		conn.Close()
		h.remove(client)
		return nil
	})

	// Drain incoming frames; the stream is push-only.
	go func() {
		defer func() {
			conn.Close()
			h.remove(client)
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
