package world

import (
	"errors"
	"fmt"
	"sort"

	"github.com/cory-johannsen/tworld/internal/game/dice"
)

var (
	// ErrUnknownRoom is returned for a room eid that is not on the map.
	ErrUnknownRoom = errors.New("no such room")
	// ErrNoSuchDoor is returned when the current room does not list the door.
	ErrNoSuchDoor = errors.New("no such door")
	// ErrDoorLeadsNowhere is returned when no other room lists the door.
	ErrDoorLeadsNowhere = errors.New("the door doesn't go anywhere")
	// ErrCannotFlee is returned when only the first room remains on the history stack.
	ErrCannotFlee = errors.New("there is nowhere to flee to")
	// ErrNotStarted is returned by navigation before Start.
	ErrNotStarted = errors.New("map has not been started")
	// ErrEmptyMap is returned by Start on a map with no rooms.
	ErrEmptyMap = errors.New("map has no rooms")
)

// Map owns the rooms of the active world and the room-history stack.
// The top of the stack is the current room; once started the stack is never empty.
type Map struct {
	rooms   map[string]*Room
	order   []string
	history []*Room
}

// NewMap indexes rooms by eid, keeping their order for listings.
//
// Postcondition: Returns an error on duplicate room eids.
func NewMap(rooms []*Room) (*Map, error) {
	m := &Map{rooms: make(map[string]*Room, len(rooms))}
	for _, r := range rooms {
		if _, exists := m.rooms[r.EID()]; exists {
			return nil, fmt.Errorf("duplicate room ID %q", r.EID())
		}
		m.rooms[r.EID()] = r
		m.order = append(m.order, r.EID())
	}
	return m, nil
}

// Room returns the room with the given eid.
func (m *Map) Room(eid string) (*Room, bool) {
	r, ok := m.rooms[eid]
	return r, ok
}

// Rooms returns every room in map order.
func (m *Map) Rooms() []*Room {
	out := make([]*Room, 0, len(m.order))
	for _, eid := range m.order {
		out = append(out, m.rooms[eid])
	}
	return out
}

// Current returns the room on top of the history stack, or nil before Start.
func (m *Map) Current() *Room {
	if len(m.history) == 0 {
		return nil
	}
	return m.history[len(m.history)-1]
}

// History returns a copy of the history stack, bottom first.
func (m *Map) History() []*Room {
	return append([]*Room(nil), m.history...)
}

// Start resets the history stack to a single room and enters it. An empty
// eid picks a room at random.
func (m *Map) Start(eid string, roller *dice.Roller) (*Room, error) {
	if len(m.order) == 0 {
		return nil, ErrEmptyMap
	}
	if eid == "" {
		eid = m.order[roller.Pick("start room", len(m.order))]
	}
	r, ok := m.rooms[eid]
	if !ok {
		return nil, fmt.Errorf("start room %q: %w", eid, ErrUnknownRoom)
	}
	m.history = []*Room{r}
	r.Enter(roller)
	return r, nil
}

// Neighbor resolves the room on the other side of the door with the given
// eid. When several other rooms list the door the lowest eid wins.
func (m *Map) Neighbor(from *Room, doorEID string) (*Room, error) {
	var candidates []string
	for _, eid := range m.order {
		r := m.rooms[eid]
		if r == from || !r.HasDoor(doorEID) {
			continue
		}
		candidates = append(candidates, eid)
	}
	if len(candidates) == 0 {
		return nil, ErrDoorLeadsNowhere
	}
	sort.Strings(candidates)
	return m.rooms[candidates[0]], nil
}

// Traverse moves through the door with the given eid. Gating is the
// caller's concern; Traverse only resolves and performs the move.
//
// Precondition: the map has been started.
// Postcondition: on success the target is current, the previous room is
// marked visited and the target's active monster has been reselected. On
// error nothing changes.
func (m *Map) Traverse(doorEID string, roller *dice.Roller) (*Room, error) {
	cur := m.Current()
	if cur == nil {
		return nil, ErrNotStarted
	}
	if !cur.HasDoor(doorEID) {
		return nil, fmt.Errorf("%s: %w", doorEID, ErrNoSuchDoor)
	}
	next, err := m.Neighbor(cur, doorEID)
	if err != nil {
		return nil, err
	}
	m.push(next, roller)
	return next, nil
}

// Flee pops depth rooms off the history stack (at least one) but never the
// first room, then reselects the new current room's monster.
func (m *Map) Flee(depth int, roller *dice.Roller) (*Room, error) {
	if len(m.history) == 0 {
		return nil, ErrNotStarted
	}
	if len(m.history) == 1 {
		return nil, ErrCannotFlee
	}
	depth = min(max(depth, 1), len(m.history)-1)
	m.Current().Visited = true
	m.history = m.history[:len(m.history)-depth]
	cur := m.Current()
	cur.Enter(roller)
	return cur, nil
}

// Teleport pushes the room with the given eid regardless of doors.
func (m *Map) Teleport(eid string, roller *dice.Roller) (*Room, error) {
	r, ok := m.rooms[eid]
	if !ok {
		return nil, fmt.Errorf("%s: %w", eid, ErrUnknownRoom)
	}
	if m.Current() == nil {
		m.history = []*Room{r}
		r.Enter(roller)
		return r, nil
	}
	m.push(r, roller)
	return r, nil
}

// RestoreHistory replaces the history stack without reselecting monsters.
func (m *Map) RestoreHistory(eids []string) error {
	h := make([]*Room, 0, len(eids))
	for _, eid := range eids {
		r, ok := m.rooms[eid]
		if !ok {
			return fmt.Errorf("history room %q: %w", eid, ErrUnknownRoom)
		}
		h = append(h, r)
	}
	m.history = h
	return nil
}

func (m *Map) push(r *Room, roller *dice.Roller) {
	if cur := m.Current(); cur != nil {
		cur.Visited = true
	}
	m.history = append(m.history, r)
	r.Enter(roller)
}
