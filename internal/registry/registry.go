// Package registry owns the authoritative in-memory room state: the
// room map, each room's member set and operation log, and the
// process-wide color-assignment counter. It does no networking.
package registry

import (
	"fmt"
	"sync"

	"github.com/praveenarya123/real-time-collaborative-canvas/internal/canvas"
)

// room is the registry's internal record. Member join order is kept
// alongside the map because default display names number by it.
type room struct {
	id      string
	members map[string]*canvas.Member
	order   []string
	ops     []canvas.DrawOperation
}

// Registry maps room ids to live rooms. Mutations are driven from the
// hub's single event loop; the mutex exists so the HTTP surface and the
// monitor can take consistent read snapshots from other goroutines.
type Registry struct {
	mu         sync.RWMutex
	rooms      map[string]*room
	colorIndex int
}

func New() *Registry {
	return &Registry{
		rooms: make(map[string]*room),
	}
}

// Snapshot is the room state handed to a joiner: the current operation
// log and the member list in join order.
type Snapshot struct {
	Operations []canvas.DrawOperation
	Members    []canvas.Member
}

// Departure records a room that lost a member and still has members
// left to notify. Rooms emptied by the removal are deleted and do not
// appear here.
type Departure struct {
	RoomID    string
	Remaining int
}

// EnsureRoom creates the room if absent. Idempotent.
func (reg *Registry) EnsureRoom(roomID string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.ensureLocked(roomID)
}

func (reg *Registry) ensureLocked(roomID string) *room {
	r, ok := reg.rooms[roomID]
	if !ok {
		r = &room{
			id:      roomID,
			members: make(map[string]*canvas.Member),
			ops:     make([]canvas.DrawOperation, 0),
		}
		reg.rooms[roomID] = r
	}
	return r
}

// AddMember inserts a new member, creating the room if needed. The
// color comes from the process-wide palette counter, which is shared
// across all rooms and never resets. An empty requestedName defaults to
// "User {n}" with n = member count before insertion + 1. Returns the
// member and a snapshot for the join response.
func (reg *Registry) AddMember(roomID, connectionID, requestedName string) (canvas.Member, Snapshot) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r := reg.ensureLocked(roomID)

	color := canvas.Palette[reg.colorIndex%len(canvas.Palette)]
	reg.colorIndex++

	name := requestedName
	if name == "" {
		name = fmt.Sprintf("User %d", len(r.members)+1)
	}

	member := &canvas.Member{
		ConnectionID: connectionID,
		DisplayName:  name,
		Color:        color,
	}
	r.members[connectionID] = member
	r.order = append(r.order, connectionID)

	return *member, Snapshot{
		Operations: copyOps(r.ops),
		Members:    r.memberList(),
	}
}

// RemoveMember removes the connection from every room that contains it.
// A connection belongs to at most one room in the supported flow, but
// the scan is defensive. Rooms left empty are deleted. Safe to call
// again for an already-removed connection.
func (reg *Registry) RemoveMember(connectionID string) []Departure {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	var departures []Departure
	for id, r := range reg.rooms {
		if _, ok := r.members[connectionID]; !ok {
			continue
		}
		delete(r.members, connectionID)
		for i, cid := range r.order {
			if cid == connectionID {
				r.order = append(r.order[:i], r.order[i+1:]...)
				break
			}
		}
		if len(r.members) == 0 {
			delete(reg.rooms, id)
			continue
		}
		departures = append(departures, Departure{RoomID: id, Remaining: len(r.members)})
	}
	return departures
}

// AppendOperation appends to the room's operation log. No-op if the
// room is absent.
func (reg *Registry) AppendOperation(roomID string, op canvas.DrawOperation) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r, ok := reg.rooms[roomID]
	if !ok {
		return
	}
	r.ops = append(r.ops, op)
}

// UndoLast removes the most recent operation authored by authorID,
// scanning from the tail. Returns the removed operation, or ok=false if
// the room is absent or no operation matched.
func (reg *Registry) UndoLast(roomID, authorID string) (canvas.DrawOperation, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r, ok := reg.rooms[roomID]
	if !ok {
		return canvas.DrawOperation{}, false
	}
	for i := len(r.ops) - 1; i >= 0; i-- {
		if r.ops[i].AuthorID == authorID {
			removed := r.ops[i]
			r.ops = append(r.ops[:i], r.ops[i+1:]...)
			return removed, true
		}
	}
	return canvas.DrawOperation{}, false
}

// RedoAppend re-appends a previously undone operation. The log keeps no
// undone-but-recoverable state; the client resubmits the exact
// operation and it lands at the tail like any fresh draw.
func (reg *Registry) RedoAppend(roomID string, op canvas.DrawOperation) {
	reg.AppendOperation(roomID, op)
}

// Clear resets the room's operation log to empty. No-op if the room is
// absent.
func (reg *Registry) Clear(roomID string) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r, ok := reg.rooms[roomID]
	if !ok {
		return
	}
	r.ops = make([]canvas.DrawOperation, 0)
}

// SetCursor updates a member's last-known pointer position. No-op if
// the room or member is absent.
func (reg *Registry) SetCursor(roomID, connectionID string, x, y float64) {
	reg.mu.Lock()
	defer reg.mu.Unlock()

	r, ok := reg.rooms[roomID]
	if !ok {
		return
	}
	m, ok := r.members[connectionID]
	if !ok {
		return
	}
	m.Cursor = &canvas.Point{X: x, Y: y}
}

// Member returns a copy of the member's current state.
func (reg *Registry) Member(roomID, connectionID string) (canvas.Member, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	r, ok := reg.rooms[roomID]
	if !ok {
		return canvas.Member{}, false
	}
	m, ok := r.members[connectionID]
	if !ok {
		return canvas.Member{}, false
	}
	return *m, true
}

// MemberIDs returns the room's member connection ids in join order.
// Empty for an absent room.
func (reg *Registry) MemberIDs(roomID string) []string {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	r, ok := reg.rooms[roomID]
	if !ok {
		return nil
	}
	ids := make([]string, len(r.order))
	copy(ids, r.order)
	return ids
}

// HasRoom reports whether the room currently exists.
func (reg *Registry) HasRoom(roomID string) bool {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	_, ok := reg.rooms[roomID]
	return ok
}

// RoomSummary describes one active room for the inspection surface.
type RoomSummary struct {
	ID             string
	MemberCount    int
	OperationCount int
}

// Rooms returns a summary of every active room.
func (reg *Registry) Rooms() []RoomSummary {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	summaries := make([]RoomSummary, 0, len(reg.rooms))
	for id, r := range reg.rooms {
		summaries = append(summaries, RoomSummary{
			ID:             id,
			MemberCount:    len(r.members),
			OperationCount: len(r.ops),
		})
	}
	return summaries
}

// RoomState returns the member list (join order) and operation count of
// one room.
func (reg *Registry) RoomState(roomID string) ([]canvas.Member, int, bool) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	r, ok := reg.rooms[roomID]
	if !ok {
		return nil, 0, false
	}
	return r.memberList(), len(r.ops), true
}

// Stats returns process-wide totals: active rooms, members across all
// rooms, and stored operations across all rooms.
func (reg *Registry) Stats() (rooms, members, operations int) {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	rooms = len(reg.rooms)
	for _, r := range reg.rooms {
		members += len(r.members)
		operations += len(r.ops)
	}
	return rooms, members, operations
}

// Operations returns a copy of the room's operation log.
func (reg *Registry) Operations(roomID string) []canvas.DrawOperation {
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	r, ok := reg.rooms[roomID]
	if !ok {
		return nil
	}
	return copyOps(r.ops)
}

func (r *room) memberList() []canvas.Member {
	members := make([]canvas.Member, 0, len(r.order))
	for _, id := range r.order {
		if m, ok := r.members[id]; ok {
			members = append(members, *m)
		}
	}
	return members
}

func copyOps(ops []canvas.DrawOperation) []canvas.DrawOperation {
	out := make([]canvas.DrawOperation, len(ops))
	copy(out, ops)
	return out
}
