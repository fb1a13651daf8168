package ws

import (
	"log/slog"
	"sync"

	"github.com/praveenarya123/real-time-collaborative-canvas/internal/registry"
)

// EventHandler receives connection lifecycle events and inbound frames.
// The hub invokes it from a single goroutine, one event at a time.
type EventHandler interface {
	HandleConnect(connectionID string)
	HandleMessage(connectionID string, data []byte)
	HandleDisconnect(connectionID string)
}

type inboundFrame struct {
	connectionID string
	data         []byte
}

// Hub tracks live connections and serializes all protocol work: every
// register, unregister, and inbound frame funnels through one Run loop,
// so operations within a room are applied and broadcast in arrival
// order. Broadcast targets are resolved against registry membership.
type Hub struct {
	registry *registry.Registry
	handler  EventHandler

	// Live connections by connection id. The mutex covers reads from
	// the HTTP surface.
	conns map[string]*Client
	mu    sync.RWMutex

	register   chan *Client
	unregister chan *Client
	inbound    chan inboundFrame
}

func NewHub(reg *registry.Registry) *Hub {
	return &Hub{
		registry:   reg,
		conns:      make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		inbound:    make(chan inboundFrame, 64),
	}
}

// SetHandler must be called before Run.
func (h *Hub) SetHandler(handler EventHandler) {
	h.handler = handler
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.conns[client.id] = client
			total := len(h.conns)
			h.mu.Unlock()

			h.handler.HandleConnect(client.id)
			slog.Debug("connection registered", "connectionId", client.id, "total", total)

		case client := <-h.unregister:
			h.mu.Lock()
			_, ok := h.conns[client.id]
			if ok {
				delete(h.conns, client.id)
				close(client.send)
			}
			h.mu.Unlock()

			if ok {
				h.handler.HandleDisconnect(client.id)
			}

		case frame := <-h.inbound:
			h.handler.HandleMessage(frame.connectionID, frame.data)
		}
	}
}

// ToClient sends to a single connection. Fire-and-forget: a full send
// buffer drops the frame rather than blocking the event loop.
func (h *Hub) ToClient(connectionID string, data []byte) {
	h.mu.RLock()
	client, ok := h.conns[connectionID]
	h.mu.RUnlock()
	if !ok {
		return
	}
	client.trySend(data)
}

// ToRoom sends to every member of the room.
func (h *Hub) ToRoom(roomID string, data []byte) {
	h.ToRoomExcept(roomID, data, "")
}

// ToRoomExcept sends to every member of the room except exceptID.
func (h *Hub) ToRoomExcept(roomID string, data []byte, exceptID string) {
	members := h.registry.MemberIDs(roomID)

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, id := range members {
		if id == exceptID {
			continue
		}
		if client, ok := h.conns[id]; ok {
			client.trySend(data)
		}
	}
}

// ClientCount returns the number of live connections, joined or not.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}
