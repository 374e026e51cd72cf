package community

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/OfirNeeman/ai-stylist/internal/auth"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024
)

// Client is the middleman between one websocket connection and the hub.
// readPump is the only reader and writePump the only writer, per the
// gorilla/websocket concurrency contract.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	send     chan []byte
	username string
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()
	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		c.hub.inbox <- inbound{sender: c, payload: message}
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
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed this client.
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

// Handler upgrades lounge connections and hands them to the hub.
type Handler struct {
	hub      *Hub
	tokens   *auth.TokenService
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewHandler creates a lounge Handler. allowedOrigin is the browser
// origin permitted to connect; the CLI client sends no Origin header and
// is always allowed.
func NewHandler(hub *Hub, tokens *auth.TokenService, allowedOrigin string, logger *slog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		tokens: tokens,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == allowedOrigin
			},
		},
		logger: logger,
	}
}

// ServeWS authenticates and upgrades one connection.
//
// HTTP: GET /ws/community?token=...
//
// The token rides a query parameter because browser websocket APIs cannot
// set an Authorization header.
func (h *Handler) ServeWS(w http.ResponseWriter, r *http.Request) {
	username, err := h.tokens.Verify(r.URL.Query().Get("token"))
	if err != nil {
		http.Error(w, `{"message":"Invalid token"}`, http.StatusUnauthorized)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", slog.String("error", err.Error()))
		return
	}

	client := &Client{
		hub:      h.hub,
		conn:     conn,
		send:     make(chan []byte, 256),
		username: username,
	}
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}
