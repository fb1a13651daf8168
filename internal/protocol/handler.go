// Package protocol implements the per-connection session state machine:
// it decodes inbound events, applies them to the registry, and decides
// the multicast fan-out for each one.
package protocol

import (
	"encoding/json"
	"log/slog"

	"github.com/praveenarya123/real-time-collaborative-canvas/internal/canvas"
	"github.com/praveenarya123/real-time-collaborative-canvas/internal/registry"
)

// Sender is the room-scoped multicast primitive provided by the
// transport. Delivery is fire-and-forget.
type Sender interface {
	ToClient(connectionID string, data []byte)
	ToRoom(roomID string, data []byte)
	ToRoomExcept(roomID string, data []byte, exceptID string)
}

type sessionState int

const (
	stateConnected sessionState = iota
	stateJoined
)

type session struct {
	roomID string
	state  sessionState
}

// Handler owns one session record per live connection. All methods are
// invoked from the hub's single event loop, which serializes every
// registry mutation and broadcast decision; the handler itself holds no
// locks.
type Handler struct {
	registry *registry.Registry
	sender   Sender
	sessions map[string]*session
}

func NewHandler(reg *registry.Registry, sender Sender) *Handler {
	return &Handler{
		registry: reg,
		sender:   sender,
		sessions: make(map[string]*session),
	}
}

// HandleConnect records a new connection. The connection stays roomless
// until it sends join-room.
func (h *Handler) HandleConnect(connectionID string) {
	h.sessions[connectionID] = &session{state: stateConnected}
	slog.Info("client connected", "connectionId", connectionID)
}

// HandleMessage decodes one inbound frame and dispatches it. Malformed
// frames and events referencing unknown rooms are dropped silently
// (logged, never surfaced to the client).
func (h *Handler) HandleMessage(connectionID string, data []byte) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		slog.Warn("malformed envelope", "connectionId", connectionID, "error", err)
		return
	}

	switch env.Type {
	case EventJoinRoom:
		h.handleJoin(connectionID, env.Data)
	case EventDraw:
		h.handleDraw(connectionID, env.Data)
	case EventUndo:
		h.handleUndo(connectionID, env.Data)
	case EventRedo:
		h.handleRedo(connectionID, env.Data)
	case EventClearCanvas:
		h.handleClear(connectionID, env.Data)
	case EventCursorMove:
		h.handleCursor(connectionID, env.Data)
	default:
		slog.Warn("unknown event type", "connectionId", connectionID, "type", env.Type)
	}
}

// HandleDisconnect removes the connection from whatever rooms still
// hold it and notifies the remaining members. Safe to call more than
// once for the same connection.
func (h *Handler) HandleDisconnect(connectionID string) {
	delete(h.sessions, connectionID)

	departures := h.registry.RemoveMember(connectionID)
	for _, dep := range departures {
		h.broadcast(dep.RoomID, EventUserLeft, connectionID)
		slog.Info("client left room",
			"connectionId", connectionID, "room", dep.RoomID, "remaining", dep.Remaining)
	}
}

func (h *Handler) handleJoin(connectionID string, data json.RawMessage) {
	var req JoinRequest
	if !h.decode(connectionID, EventJoinRoom, data, &req) || req.RoomID == "" {
		return
	}

	sess, ok := h.sessions[connectionID]
	if !ok {
		return
	}
	if sess.state == stateJoined {
		slog.Warn("join-room from already-joined connection dropped",
			"connectionId", connectionID, "room", req.RoomID)
		return
	}

	member, snapshot := h.registry.AddMember(req.RoomID, connectionID, req.UserName)
	sess.roomID = req.RoomID
	sess.state = stateJoined

	h.unicast(connectionID, EventInitCanvas, InitCanvas{
		OperationLog: snapshot.Operations,
		Members:      snapshot.Members,
		ConnectionID: connectionID,
		Color:        member.Color,
	})
	h.broadcastExcept(req.RoomID, EventUserJoined, member, connectionID)

	slog.Info("client joined room",
		"connectionId", connectionID, "room", req.RoomID, "name", member.DisplayName)
}

func (h *Handler) handleDraw(connectionID string, data json.RawMessage) {
	var req DrawRequest
	if !h.decode(connectionID, EventDraw, data, &req) {
		return
	}
	if !h.joined(connectionID) || !h.roomKnown(req.RoomID) {
		return
	}
	if req.Operation.Kind != canvas.KindDraw && req.Operation.Kind != canvas.KindErase {
		slog.Warn("draw with invalid kind dropped",
			"connectionId", connectionID, "kind", req.Operation.Kind)
		return
	}

	// The server is authoritative on authorship.
	req.Operation.AuthorID = connectionID

	h.registry.AppendOperation(req.RoomID, req.Operation)
	h.broadcastExcept(req.RoomID, EventDraw, req.Operation, connectionID)
}

func (h *Handler) handleUndo(connectionID string, data json.RawMessage) {
	var req UndoRequest
	if !h.decode(connectionID, EventUndo, data, &req) {
		return
	}
	if !h.joined(connectionID) || !h.roomKnown(req.RoomID) {
		return
	}

	if _, ok := h.registry.UndoLast(req.RoomID, req.AuthorID); !ok {
		return
	}

	// The server decided which entry matched, so the sender gets the
	// echo too and removes the same entry from its replica.
	h.broadcast(req.RoomID, EventUndo, req.AuthorID)
}

func (h *Handler) handleRedo(connectionID string, data json.RawMessage) {
	var req RedoRequest
	if !h.decode(connectionID, EventRedo, data, &req) {
		return
	}
	if !h.joined(connectionID) || !h.roomKnown(req.RoomID) {
		return
	}

	req.Operation.AuthorID = connectionID

	h.registry.RedoAppend(req.RoomID, req.Operation)
	h.broadcastExcept(req.RoomID, EventRedo, RedoBroadcast{
		AuthorID:  req.Operation.AuthorID,
		Operation: req.Operation,
	}, connectionID)
}

func (h *Handler) handleClear(connectionID string, data json.RawMessage) {
	var roomID string
	if !h.decode(connectionID, EventClearCanvas, data, &roomID) || roomID == "" {
		return
	}
	if !h.joined(connectionID) || !h.roomKnown(roomID) {
		return
	}

	h.registry.Clear(roomID)
	h.broadcast(roomID, EventClearCanvas, nil)
}

func (h *Handler) handleCursor(connectionID string, data json.RawMessage) {
	var req CursorRequest
	if !h.decode(connectionID, EventCursorMove, data, &req) {
		return
	}
	if !h.joined(connectionID) {
		return
	}

	member, ok := h.registry.Member(req.RoomID, connectionID)
	if !ok {
		// Tolerates a cursor-move racing a room teardown.
		return
	}

	h.registry.SetCursor(req.RoomID, connectionID, req.X, req.Y)
	h.broadcastExcept(req.RoomID, EventCursorMove, CursorBroadcast{
		ConnectionID: connectionID,
		Name:         member.DisplayName,
		Color:        member.Color,
		X:            req.X,
		Y:            req.Y,
	}, connectionID)
}

func (h *Handler) joined(connectionID string) bool {
	sess, ok := h.sessions[connectionID]
	return ok && sess.state == stateJoined
}

func (h *Handler) roomKnown(roomID string) bool {
	return roomID != "" && h.registry.HasRoom(roomID)
}

func (h *Handler) decode(connectionID, eventType string, data json.RawMessage, v any) bool {
	if len(data) == 0 {
		slog.Warn("event missing payload", "connectionId", connectionID, "type", eventType)
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		slog.Warn("malformed payload dropped",
			"connectionId", connectionID, "type", eventType, "error", err)
		return false
	}
	return true
}

func (h *Handler) unicast(connectionID, eventType string, payload any) {
	if data, err := encode(eventType, payload); err == nil {
		h.sender.ToClient(connectionID, data)
	}
}

func (h *Handler) broadcast(roomID, eventType string, payload any) {
	if data, err := encode(eventType, payload); err == nil {
		h.sender.ToRoom(roomID, data)
	}
}

func (h *Handler) broadcastExcept(roomID, eventType string, payload any, exceptID string) {
	if data, err := encode(eventType, payload); err == nil {
		h.sender.ToRoomExcept(roomID, data, exceptID)
	}
}
