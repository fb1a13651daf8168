// Package canvas holds the shared whiteboard domain types: stroke
// operations, room members, and the color palette assigned to joiners.
package canvas

// OperationKind distinguishes pen strokes from eraser strokes. Erase
// strokes carry a color like any other stroke; renderers substitute the
// background color when painting them.
type OperationKind string

const (
	KindDraw  OperationKind = "draw"
	KindErase OperationKind = "erase"
)

// Point is a single canvas coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// DrawOperation is one continuous stroke. Operations with fewer than two
// points are never rendered but are stored and broadcast unchanged.
type DrawOperation struct {
	Kind      OperationKind `json:"kind"`
	Points    []Point       `json:"points"`
	Color     string        `json:"color"`
	Width     float64       `json:"width"`
	AuthorID  string        `json:"authorId"`
	Timestamp int64         `json:"timestamp"`
}

// Member is a connection's identity within a room. Cursor is nil until
// the first cursor-move event arrives and is never part of the
// operation log.
type Member struct {
	ConnectionID string `json:"connectionId"`
	DisplayName  string `json:"name"`
	Color        string `json:"color"`
	Cursor       *Point `json:"cursor,omitempty"`
}

// Palette is the fixed set of member colors, handed out round-robin by
// a process-wide counter shared across all rooms.
var Palette = []string{
	"#FF6B6B", "#4ECDC4", "#45B7D1", "#FFA07A", "#98D8C8",
	"#F7DC6F", "#BB8FCE", "#85C1E2", "#F8B739", "#52B788",
}
