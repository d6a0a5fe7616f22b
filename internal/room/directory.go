package room

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// ErrRoomFull is returned by Add when a bounded room already holds its
// capacity of distinct members.
var ErrRoomFull = errors.New("room full")

// Directory maps room ids to member sets.
type Directory struct {
	mu       sync.RWMutex
	capacity int // max distinct members per room; 0 = unbounded
	rooms    map[string]map[string]struct{}
	logger   *slog.Logger
}

// NewDirectory creates an empty Directory. Capacity 0 gives broadcast rooms of
// any size; capacity 2 reproduces two-party call semantics.
func NewDirectory(capacity int, logger *slog.Logger) *Directory {
	if logger == nil {
		logger = slog.Default()
	}
	return &Directory{
		capacity: capacity,
		rooms:    make(map[string]map[string]struct{}),
		logger:   logger,
	}
}

// Ensure creates the room if it does not exist yet. Callers must follow up
// with Add before releasing control, so the empty-room invariant holds at
// every observable point.
func (d *Directory) Ensure(roomID string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ensureLocked(roomID)
}

func (d *Directory) ensureLocked(roomID string) map[string]struct{} {
	members, ok := d.rooms[roomID]
	if !ok {
		members = make(map[string]struct{})
		d.rooms[roomID] = members
		d.logger.Debug("room created", "room", roomID)
	}
	return members
}

// Add puts connID into the room's member set, creating the room if needed.
// Adding an existing member is a no-op. With a bounded capacity the add is
// rejected, without mutating anything, when the room is already full.
func (d *Directory) Add(roomID, connID string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	members := d.ensureLocked(roomID)
	if _, present := members[connID]; present {
		return nil
	}
	if d.capacity > 0 && len(members) >= d.capacity {
		// A brand-new room can never trip this, so Ensure+failed Add
		// cannot leave an empty room behind.
		return fmt.Errorf("add %s to %s: %w", connID, roomID, ErrRoomFull)
	}
	members[connID] = struct{}{}
	return nil
}

// Remove deletes connID from the room's member set and deletes the room the
// moment it becomes empty. Unknown rooms and non-members are no-ops.
func (d *Directory) Remove(roomID, connID string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	members, ok := d.rooms[roomID]
	if !ok {
		return
	}
	delete(members, connID)
	if len(members) == 0 {
		delete(d.rooms, roomID)
		d.logger.Debug("room deleted", "room", roomID)
	}
}

// Members returns the current member set of the room.
func (d *Directory) Members(roomID string) ([]string, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	members, ok := d.rooms[roomID]
	if !ok {
		return nil, false
	}
	out := make([]string, 0, len(members))
	for id := range members {
		out = append(out, id)
	}
	return out, true
}

// MembersExcept returns the room's members minus the given id, for fan-out.
func (d *Directory) MembersExcept(roomID, connID string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	members, ok := d.rooms[roomID]
	if !ok {
		return nil
	}
	out := make([]string, 0, len(members))
	for id := range members {
		if id != connID {
			out = append(out, id)
		}
	}
	return out
}

// MemberOf scans every room for connID. The join and call flows only ever put
// a connection in one room, but the disconnect path must not rely on that.
func (d *Directory) MemberOf(connID string) []string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	var out []string
	for roomID, members := range d.rooms {
		if _, ok := members[connID]; ok {
			out = append(out, roomID)
		}
	}
	return out
}

// Exists reports whether the room is in the directory. By the empty-room
// invariant this is equivalent to "has at least one member".
func (d *Directory) Exists(roomID string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	_, ok := d.rooms[roomID]
	return ok
}

// Len returns the number of rooms in the directory.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.rooms)
}
