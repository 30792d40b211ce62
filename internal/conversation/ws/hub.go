package ws

import (
	"context"
	"encoding/json"
	"sync"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/brandloom/brandloom/internal/conversation/domain"
)

// Hub relays chat messages between websocket clients grouped into one room
// per service request. Persistence happens before broadcast, so a delivered
// frame is always a stored message.
type Hub struct {
	log     *zap.Logger
	service domain.Service

	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
}

type HubParams struct {
	fx.In

	Log     *zap.Logger
	Service domain.Service
}

func NewHub(p HubParams) *Hub {
	return &Hub{
		log:     p.Log.Named("conversation.hub"),
		service: p.Service,
		rooms:   make(map[string]map[*Client]struct{}),
	}
}

func (h *Hub) join(roomID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[roomID]
	if !ok {
		room = make(map[*Client]struct{})
		h.rooms[roomID] = room
	}
	room[client] = struct{}{}
}

func (h *Hub) leave(roomID string, client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.rooms[roomID]
	if !ok {
		return
	}
	delete(room, client)
	if len(room) == 0 {
		delete(h.rooms, roomID)
	}
}

// Broadcast fans a stored message out to every client in the room. Slow
// clients are skipped rather than blocking the room.
func (h *Hub) Broadcast(roomID string, message domain.Message) {
	payload, err := json.Marshal(message)
	if err != nil {
		h.log.Warn("broadcast marshal failed", zap.Error(err))
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.rooms[roomID] {
		select {
		case client.send <- payload:
		default:
			h.log.Debug("dropping frame for slow client", zap.String("room", roomID))
		}
	}
}

// handleInbound persists an incoming frame and broadcasts the result.
func (h *Hub) handleInbound(ctx context.Context, client *Client, text string) {
	message, err := h.service.CreateMessage(ctx, client.principal, client.roomID, text)
	if err != nil {
		client.sendError(err)
		return
	}
	h.Broadcast(client.roomID, message)
}
