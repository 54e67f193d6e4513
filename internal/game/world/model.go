// Package world provides the room graph: doors, rooms and the map that tracks
// the player's position through a history stack.
package world

import (
	"fmt"
	"strings"

	"github.com/cory-johannsen/tworld/internal/game/character"
	"github.com/cory-johannsen/tworld/internal/game/dice"
	"github.com/cory-johannsen/tworld/internal/game/entity"
	"github.com/cory-johannsen/tworld/internal/game/item"
)

// Gate is the passage state of a door, computed on each traversal attempt.
type Gate int

// Gate values in the order they are checked.
const (
	GateOpen Gate = iota
	GateKey
	GatePuzzle
)

// String returns the gate name.
func (g Gate) String() string {
	switch g {
	case GateKey:
		return "locked-by-key"
	case GatePuzzle:
		return "locked-by-puzzle"
	default:
		return "open"
	}
}

// Door connects the two rooms that list it. It does not store its endpoints;
// the Map resolves them by eid.
type Door struct {
	entity.Base
	// Puzzle, when set, must be solved before passage.
	Puzzle *item.Item
	// Key, when set, must be carried (matched by eid) before passage.
	Key *item.Item
}

// NewDoor creates a door with optional key and puzzle requirements.
func NewDoor(base entity.Base, key, puzzle *item.Item) *Door {
	return &Door{Base: base, Key: key, Puzzle: puzzle}
}

// Gate reports whether a holder of inv may pass. A missing key is reported
// before an unsolved puzzle.
func (d *Door) Gate(inv *entity.Inventory) Gate {
	if d.Key != nil && !inv.Contains(entity.ByEID(d.Key.EID())) {
		return GateKey
	}
	if d.Puzzle != nil && d.Puzzle.Puzzle != nil && !d.Puzzle.Puzzle.IsSolved() {
		return GatePuzzle
	}
	return GateOpen
}

// Inspect describes the door and its requirements.
func (d *Door) Inspect() string {
	var reqs []string
	if d.Key != nil {
		reqs = append(reqs, "requires "+d.Key.Name())
	}
	if d.Puzzle != nil && d.Puzzle.Puzzle != nil && !d.Puzzle.Puzzle.IsSolved() {
		reqs = append(reqs, "sealed by "+d.Puzzle.Name())
	}
	s := d.Base.Inspect()
	if len(reqs) > 0 {
		s += " (" + strings.Join(reqs, "; ") + ")"
	}
	return s
}

// Room is a location with floor items, doors and a pool of monsters, one of
// which may be active during a visit.
type Room struct {
	entity.Base
	Doors []*Door
	Floor *entity.Inventory
	Pool  []*character.Monster
	// Monster is the active monster for the current visit, reselected by Enter.
	Monster *character.Monster
	Visited bool
}

// NewRoom creates an empty room.
func NewRoom(base entity.Base) *Room {
	return &Room{Base: base, Floor: entity.NewInventory()}
}

// Enter reselects the active monster among the living members of Pool. A
// living boss always wins; otherwise each living monster and "none" are
// equally likely.
//
// Postcondition: Monster is nil or a living member of Pool.
func (r *Room) Enter(roller *dice.Roller) *character.Monster {
	r.Monster = nil
	alive := make([]*character.Monster, 0, len(r.Pool))
	for _, m := range r.Pool {
		if !m.IsAlive() {
			continue
		}
		if m.IsBoss {
			r.Monster = m
			return m
		}
		alive = append(alive, m)
	}
	if len(alive) == 0 {
		return nil
	}
	idx := roller.Pick("monster in "+r.EID(), len(alive)+1)
	if idx < len(alive) {
		r.Monster = alive[idx]
	}
	return r.Monster
}

// HasDoor reports whether the room lists a door with the given eid.
func (r *Room) HasDoor(eid string) bool {
	for _, d := range r.Doors {
		if d.EID() == eid {
			return true
		}
	}
	return false
}

// Door finds a door by exact eid, falling back to a case-insensitive name
// match. Returns nil when nothing matches.
func (r *Room) Door(query string) *Door {
	inv := entity.NewInventory()
	for _, d := range r.Doors {
		inv.Add(d)
	}
	found := inv.Get(entity.Query{EID: query, Name: query})
	if found == nil {
		return nil
	}
	return found.(*Door)
}

// RemoveMonster drops m from the pool and clears it if active.
func (r *Room) RemoveMonster(m *character.Monster) {
	for i, p := range r.Pool {
		if p == m {
			r.Pool = append(r.Pool[:i], r.Pool[i+1:]...)
			break
		}
	}
	if r.Monster == m {
		r.Monster = nil
	}
}

// Inspect describes the room as seen by the player.
func (r *Room) Inspect() string {
	var sb strings.Builder
	sb.WriteString(r.Name())
	if d := r.Description(); d != "" {
		sb.WriteString("\n" + d)
	}
	if r.Floor.Len() > 0 {
		sb.WriteString("\nYou see: " + strings.Join(r.Floor.Names(), ", "))
	}
	if len(r.Doors) > 0 {
		names := make([]string, 0, len(r.Doors))
		for _, d := range r.Doors {
			names = append(names, d.Name())
		}
		sb.WriteString("\nDoors: " + strings.Join(names, ", "))
	}
	if r.Monster != nil {
		fmt.Fprintf(&sb, "\nA %s blocks your way! (%d health)", r.Monster.Name(), r.Monster.Health())
	}
	if r.Visited {
		sb.WriteString("\nYou've been here before.")
	}
	return sb.String()
}
