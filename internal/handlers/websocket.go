package handlers

import (
	"context"
	"encoding/json"
	"log"
	"sync"
	"time"

	"fgperfume/internal/middleware"
	"fgperfume/internal/models"
	"fgperfume/internal/services"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	wsReadTimeout  = 120 * time.Second
	wsPingInterval = 30 * time.Second
	wsWriteTimeout = 10 * time.Second
)

// WebSocketHandler answers customer questions over a WebSocket
type WebSocketHandler struct {
	chat        *ChatHandler
	connManager *services.ConnectionManager
	metrics     *services.Metrics
}

// NewWebSocketHandler creates a new WebSocket handler
func NewWebSocketHandler(chat *ChatHandler, connManager *services.ConnectionManager, metrics *services.Metrics) *WebSocketHandler {
	return &WebSocketHandler{chat: chat, connManager: connManager, metrics: metrics}
}

// Upgrade rejects plain HTTP requests on the WebSocket route and passes the
// caller's role on to the connection
func (h *WebSocketHandler) Upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	c.Locals("client_ip", c.IP())
	return c.Next()
}

// wsConn serializes writes to one socket
type wsConn struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (w *wsConn) send(v interface{}) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
	return w.conn.WriteJSON(v)
}

// Handle serves one connection until the client goes away
func (h *WebSocketHandler) Handle(c *websocket.Conn) {
	connID := uuid.New().String()
	role, ok := c.Locals(middleware.LocalUserRole).(models.Role)
	if !ok {
		role = models.RoleUser
	}
	clientIP, _ := c.Locals("client_ip").(string)

	h.connManager.Add(&services.ChatConnection{
		ConnID:      connID,
		RemoteIP:    clientIP,
		Role:        role,
		ConnectedAt: time.Now(),
	})
	h.metrics.RecordWebSocketConnect()

	done := make(chan struct{})
	defer func() {
		close(done)
		h.connManager.Remove(connID)
		h.metrics.RecordWebSocketDisconnect()
	}()

	conn := &wsConn{conn: c}
	c.SetReadDeadline(time.Now().Add(wsReadTimeout))
	c.SetPongHandler(func(string) error {
		c.SetReadDeadline(time.Now().Add(wsReadTimeout))
		return nil
	})
	go h.pingLoop(conn, done)

	if err := conn.send(fiber.Map{"type": "connected", "content": "WebSocket connected. Ready to receive messages."}); err != nil {
		return
	}

	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("⚠️  [WS] Connection %s closed: %v", connID, err)
			}
			return
		}
		c.SetReadDeadline(time.Now().Add(wsReadTimeout))
		h.metrics.RecordWebSocketMessage("chat", "inbound")

		if err := h.handleMessage(conn, data, role, connID); err != nil {
			log.Printf("⚠️  [WS] Write to %s failed: %v", connID, err)
			return
		}
	}
}

func (h *WebSocketHandler) handleMessage(conn *wsConn, data []byte, role models.Role, connID string) error {
	var req models.ConciergeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		h.metrics.RecordWebSocketMessage("error", "outbound")
		return conn.send(fiber.Map{"type": "error", "error": "Invalid message format"})
	}
	if problem := validateMessage(req.Message); problem != "" {
		h.metrics.RecordWebSocketMessage("error", "outbound")
		return conn.send(fiber.Map{"type": "error", "error": problem})
	}

	resp := h.chat.answer(context.Background(), req, role, connID+":"+uuid.New().String()[:8])
	resp.Type = "answer"
	h.metrics.RecordWebSocketMessage("answer", "outbound")
	return conn.send(resp)
}

// pingLoop keeps idle connections alive
func (h *WebSocketHandler) pingLoop(conn *wsConn, done <-chan struct{}) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			conn.mu.Lock()
			err := conn.conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(wsWriteTimeout))
			conn.mu.Unlock()
			if err != nil {
				return
			}
		}
	}
}
