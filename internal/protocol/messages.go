package protocol

import (
	"encoding/json"

	"github.com/praveenarya123/real-time-collaborative-canvas/internal/canvas"
)

// Event types carried in the envelope. Client-to-server and
// server-to-client events share the namespace; draw, undo, redo,
// clear-canvas and cursor-move appear in both directions.
const (
	EventJoinRoom    = "join-room"
	EventDraw        = "draw"
	EventUndo        = "undo"
	EventRedo        = "redo"
	EventClearCanvas = "clear-canvas"
	EventCursorMove  = "cursor-move"

	EventInitCanvas = "init-canvas"
	EventUserJoined = "user-joined"
	EventUserLeft   = "user-left"
)

// Envelope is the tagged wrapper around every wire message. Data is
// decoded per event type; a shape mismatch drops the whole event.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

type JoinRequest struct {
	RoomID   string `json:"roomId"`
	UserName string `json:"userName,omitempty"`
}

type DrawRequest struct {
	RoomID    string               `json:"roomId"`
	Operation canvas.DrawOperation `json:"operation"`
}

type UndoRequest struct {
	RoomID   string `json:"roomId"`
	AuthorID string `json:"authorId"`
}

type RedoRequest struct {
	RoomID    string               `json:"roomId"`
	Operation canvas.DrawOperation `json:"operation"`
}

type CursorRequest struct {
	RoomID string  `json:"roomId"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// InitCanvas is the unicast join response: the full log, the member
// list in join order, and the joiner's assigned identity.
type InitCanvas struct {
	OperationLog []canvas.DrawOperation `json:"operationLog"`
	Members      []canvas.Member        `json:"members"`
	ConnectionID string                 `json:"connectionId"`
	Color        string                 `json:"color"`
}

type RedoBroadcast struct {
	AuthorID  string               `json:"authorId"`
	Operation canvas.DrawOperation `json:"operation"`
}

type CursorBroadcast struct {
	ConnectionID string  `json:"connectionId"`
	Name         string  `json:"name"`
	Color        string  `json:"color"`
	X            float64 `json:"x"`
	Y            float64 `json:"y"`
}

func encode(eventType string, payload any) ([]byte, error) {
	var data json.RawMessage
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		data = raw
	}
	return json.Marshal(Envelope{Type: eventType, Data: data})
}
