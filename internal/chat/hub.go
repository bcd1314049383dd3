package chat

import (
	"encoding/json"
	"sync"

	"github.com/gorilla/websocket"

	"gymhub/internal/logger"
	"gymhub/internal/metrics"
)

// Hub tracks live websocket connections per channel. rooms[channelID] maps
// each connection to the user behind it. All access goes through mu.
type Hub struct {
	mu    sync.Mutex
	rooms map[int]map[*websocket.Conn]int
}

func NewHub() *Hub {
	return &Hub{
		rooms: make(map[int]map[*websocket.Conn]int),
	}
}

func (h *Hub) Join(channelID int, conn *websocket.Conn, userID int) {
	h.mu.Lock()
	if h.rooms[channelID] == nil {
		h.rooms[channelID] = make(map[*websocket.Conn]int)
	}
	h.rooms[channelID][conn] = userID
	h.mu.Unlock()

	metrics.ChatConnectionsActive.Inc()
	h.broadcastPresence(channelID)
}

func (h *Hub) Leave(channelID int, conn *websocket.Conn) {
	h.mu.Lock()
	delete(h.rooms[channelID], conn)
	if len(h.rooms[channelID]) == 0 {
		delete(h.rooms, channelID)
	}
	h.mu.Unlock()

	metrics.ChatConnectionsActive.Dec()
	h.broadcastPresence(channelID)
}

// CloseChannel drops every connection in a room, used when staff delete the
// channel itself.
func (h *Hub) CloseChannel(channelID int) {
	h.mu.Lock()
	conns := h.rooms[channelID]
	delete(h.rooms, channelID)
	h.mu.Unlock()

	for conn := range conns {
		conn.Close()
		metrics.ChatConnectionsActive.Dec()
	}
}

func (h *Hub) BroadcastMessage(channelID int, msg Message) {
	h.broadcast(channelID, envelope{Type: "message", Data: msg})
}

func (h *Hub) broadcastPresence(channelID int) {
	h.mu.Lock()
	online := make([]int, 0, len(h.rooms[channelID]))
	for _, uid := range h.rooms[channelID] {
		online = append(online, uid)
	}
	h.mu.Unlock()

	h.broadcast(channelID, envelope{Type: "presence", Data: online})
}

func (h *Hub) broadcast(channelID int, env envelope) {
	payload, err := json.Marshal(env)
	if err != nil {
		logger.Errorf("Chat: failed to marshal %s payload: %v", env.Type, err)
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	for conn := range h.rooms[channelID] {
		// The client may have gone away already; the read loop cleans up.
		if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			logger.Errorf("Chat: write to channel %d failed: %v", channelID, err)
		}
	}
}
