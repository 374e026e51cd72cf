// Package community runs the live lounge: a single shared room where
// signed-in users see who else is online and share outfit posts. State is
// deliberately ephemeral; nothing here touches the database, and a server
// restart empties the room.
package community

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/rs/xid"
)

// Event is the wire format for everything the hub sends. Type is one of
// "presence" or "post".
type Event struct {
	Type        string    `json:"type"`
	Username    string    `json:"username,omitempty"`
	Online      bool      `json:"online,omitempty"`
	OnlineCount int       `json:"onlineCount,omitempty"`
	PostID      string    `json:"postId,omitempty"`
	Text        string    `json:"text,omitempty"`
	ImageURL    string    `json:"imageUrl,omitempty"`
	SentAt      time.Time `json:"sentAt,omitempty"`
}

// inbound is a raw client message paired with its sender.
type inbound struct {
	sender  *Client
	payload []byte
}

// Hub owns the client set. All mutation happens on the Run goroutine, so
// no locks are needed; the channels are the synchronization.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	inbox      chan inbound
	logger     *slog.Logger
}

// NewHub creates a Hub. Call Run on its own goroutine before serving
// connections.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbox:      make(chan inbound, 64),
		logger:     logger,
	}
}

// Run processes registrations, departures, and posts until the channels
// close. It never returns in normal operation.
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.logger.Info("user joined lounge",
				slog.String("username", client.username),
				slog.Int("online", len(h.clients)),
			)
			h.broadcast(Event{
				Type:        "presence",
				Username:    client.username,
				Online:      true,
				OnlineCount: len(h.clients),
			})

		case client := <-h.unregister:
			if _, ok := h.clients[client]; !ok {
				continue
			}
			delete(h.clients, client)
			close(client.send)
			h.logger.Info("user left lounge",
				slog.String("username", client.username),
				slog.Int("online", len(h.clients)),
			)
			h.broadcast(Event{
				Type:        "presence",
				Username:    client.username,
				Online:      false,
				OnlineCount: len(h.clients),
			})

		case msg := <-h.inbox:
			h.handlePost(msg)
		}
	}
}

// handlePost validates an outfit post and rebroadcasts it with a server
// assigned id and timestamp. Malformed or empty posts are dropped.
func (h *Hub) handlePost(msg inbound) {
	var in struct {
		Text     string `json:"text"`
		ImageURL string `json:"imageUrl"`
	}
	if err := json.Unmarshal(msg.payload, &in); err != nil {
		h.logger.Debug("dropping malformed lounge message",
			slog.String("username", msg.sender.username),
		)
		return
	}
	if in.Text == "" && in.ImageURL == "" {
		return
	}

	h.broadcast(Event{
		Type:     "post",
		Username: msg.sender.username,
		PostID:   xid.New().String(),
		Text:     in.Text,
		ImageURL: in.ImageURL,
		SentAt:   time.Now().UTC(),
	})
}

// broadcast fans an event out to every connected client. A client whose
// send buffer is full is dropped rather than allowed to stall the room.
func (h *Hub) broadcast(event Event) {
	payload, err := json.Marshal(event)
	if err != nil {
		h.logger.Error("encoding lounge event", slog.String("error", err.Error()))
		return
	}
	for client := range h.clients {
		select {
		case client.send <- payload:
		default:
			delete(h.clients, client)
			close(client.send)
		}
	}
}
