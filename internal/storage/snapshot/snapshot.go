// Package snapshot saves and restores the full state of a game as YAML.
//
// A snapshot records entities by eid and uid. Restoring rebuilds the world
// from its definitions and then overwrites the mutable state, so inventory
// order, uids and per-room state survive a round trip.
package snapshot

import (
	"errors"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/cory-johannsen/tworld/internal/game/character"
	"github.com/cory-johannsen/tworld/internal/game/engine"
	"github.com/cory-johannsen/tworld/internal/game/entity"
	"github.com/cory-johannsen/tworld/internal/game/factory"
	"github.com/cory-johannsen/tworld/internal/game/item"
	"github.com/cory-johannsen/tworld/internal/game/puzzle"
	"github.com/cory-johannsen/tworld/internal/game/world"
)

// FormatVersion is the snapshot schema version written by Capture.
const FormatVersion = 1

var (
	// ErrVersion is returned when restoring a snapshot with an unknown schema version.
	ErrVersion = errors.New("unsupported snapshot version")
	// ErrWorldMismatch is returned when a snapshot was taken in a different world.
	ErrWorldMismatch = errors.New("snapshot belongs to a different world")
	// ErrEmptyHistory is returned when a snapshot does not place the player in a room.
	ErrEmptyHistory = errors.New("snapshot has an empty room history")
)

// Snapshot is the serialized state of a game.
type Snapshot struct {
	Version int            `yaml:"version"`
	World   string         `yaml:"world"`
	SavedAt time.Time      `yaml:"saved_at"`
	Player  CharacterState `yaml:"player"`
	History []string       `yaml:"history"`
	Rooms   []RoomState    `yaml:"rooms"`
	Doors   []DoorState    `yaml:"doors,omitempty"`
}

// PuzzleState is the mutable part of a puzzle.
type PuzzleState struct {
	Solved    bool `yaml:"solved"`
	Attempts  *int `yaml:"attempts,omitempty"`
	HintIndex int  `yaml:"hint_index,omitempty"`
}

// ItemState records one item and its nested contents.
type ItemState struct {
	UID      string       `yaml:"uid"`
	EID      string       `yaml:"eid"`
	Locked   *bool        `yaml:"locked,omitempty"`
	Puzzle   *PuzzleState `yaml:"puzzle,omitempty"`
	Contents []ItemState  `yaml:"contents,omitempty"`
}

// CharacterState records the player or a monster.
type CharacterState struct {
	UID        string      `yaml:"uid"`
	EID        string      `yaml:"eid"`
	Name       string      `yaml:"name,omitempty"`
	Health     int         `yaml:"health"`
	MaxHealth  int         `yaml:"max_health,omitempty"`
	Attack     int         `yaml:"attack"`
	Resistance int         `yaml:"resistance"`
	Inventory  []ItemState `yaml:"inventory,omitempty"`
	// Equipped holds the uids of equipped inventory items.
	Equipped []string `yaml:"equipped,omitempty"`
}

// RoomState records the mutable state of a room.
type RoomState struct {
	EID     string           `yaml:"eid"`
	Visited bool             `yaml:"visited,omitempty"`
	Floor   []ItemState      `yaml:"floor,omitempty"`
	Pool    []CharacterState `yaml:"pool,omitempty"`
	// Monster is the uid of the active monster, empty for none.
	Monster string `yaml:"monster,omitempty"`
}

// DoorState records a shared door's puzzle progress.
type DoorState struct {
	EID    string       `yaml:"eid"`
	Puzzle *PuzzleState `yaml:"puzzle,omitempty"`
}

// Capture records the state of g.
func Capture(g *engine.Game) *Snapshot {
	s := &Snapshot{
		Version: FormatVersion,
		World:   g.Factory().World().Meta.Name,
		SavedAt: time.Now().UTC(),
		Player:  captureCharacter(&g.Player().Character),
	}
	for _, r := range g.Map().History() {
		s.History = append(s.History, r.EID())
	}
	for _, r := range g.Map().Rooms() {
		rs := RoomState{EID: r.EID(), Visited: r.Visited, Floor: captureItems(r.Floor)}
		for _, m := range r.Pool {
			rs.Pool = append(rs.Pool, captureCharacter(&m.Character))
		}
		if r.Monster != nil {
			rs.Monster = r.Monster.UID()
		}
		s.Rooms = append(s.Rooms, rs)
	}
	for _, r := range g.Map().Rooms() {
		for _, d := range r.Doors {
			if containsDoor(s.Doors, d.EID()) {
				continue
			}
			ds := DoorState{EID: d.EID()}
			if d.Puzzle != nil && d.Puzzle.Puzzle != nil {
				ds.Puzzle = capturePuzzle(d.Puzzle.Puzzle)
			}
			s.Doors = append(s.Doors, ds)
		}
	}
	return s
}

// Restore rebuilds g's world from its definitions and applies s.
//
// Postcondition: on error g is unchanged.
func Restore(g *engine.Game, s *Snapshot) error {
	if s.Version != FormatVersion {
		return fmt.Errorf("version %d: %w", s.Version, ErrVersion)
	}
	if len(s.History) == 0 {
		return ErrEmptyHistory
	}
	f := g.Factory()
	if name := f.World().Meta.Name; s.World != name {
		return fmt.Errorf("saved in %q, playing %q: %w", s.World, name, ErrWorldMismatch)
	}

	m, err := f.BuildMap()
	if err != nil {
		return fmt.Errorf("rebuilding map: %w", err)
	}
	for _, rs := range s.Rooms {
		r, ok := m.Room(rs.EID)
		if !ok {
			return fmt.Errorf("room %q: %w", rs.EID, world.ErrUnknownRoom)
		}
		if err := restoreRoom(f, r, rs); err != nil {
			return err
		}
	}
	doors := f.Doors()
	for _, ds := range s.Doors {
		d, ok := doors[ds.EID]
		if !ok || ds.Puzzle == nil || d.Puzzle == nil || d.Puzzle.Puzzle == nil {
			continue
		}
		restorePuzzle(d.Puzzle.Puzzle, ds.Puzzle)
	}
	if err := m.RestoreHistory(s.History); err != nil {
		return err
	}

	ps := s.Player
	p := character.NewPlayer(entity.RestoreBase(ps.UID, ps.EID, ps.Name, ""), 0, ps.Attack, ps.Resistance)
	if err := restoreCharacter(f, &p.Character, ps); err != nil {
		return fmt.Errorf("player: %w", err)
	}
	g.Replace(p, m)
	return nil
}

// Marshal encodes s as YAML.
func Marshal(s *Snapshot) ([]byte, error) {
	return yaml.Marshal(s)
}

// Unmarshal decodes a YAML snapshot.
func Unmarshal(data []byte) (*Snapshot, error) {
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}
	return &s, nil
}

func containsDoor(ds []DoorState, eid string) bool {
	for _, d := range ds {
		if d.EID == eid {
			return true
		}
	}
	return false
}

func capturePuzzle(p *puzzle.Puzzle) *PuzzleState {
	ps := &PuzzleState{Solved: p.IsSolved(), HintIndex: p.HintIndex()}
	if n, limited := p.Remaining(); limited {
		ps.Attempts = &n
	}
	return ps
}

func restorePuzzle(p *puzzle.Puzzle, ps *PuzzleState) {
	p.Restore(ps.Solved, ps.Attempts, ps.HintIndex)
}

func captureItems(inv *entity.Inventory) []ItemState {
	var out []ItemState
	for _, e := range inv.All() {
		it, ok := e.(*item.Item)
		if !ok {
			continue
		}
		st := ItemState{UID: it.UID(), EID: it.EID(), Contents: captureItems(it.Contents)}
		if it.Lock != nil {
			locked := it.Lock.Locked
			st.Locked = &locked
		}
		if it.Puzzle != nil {
			st.Puzzle = capturePuzzle(it.Puzzle)
		}
		out = append(out, st)
	}
	return out
}

func restoreItems(f *factory.Factory, inv *entity.Inventory, states []ItemState) error {
	inv.Clear()
	for _, st := range states {
		it, err := f.CreateItem(st.EID)
		if err != nil {
			return fmt.Errorf("item %s: %w", st.EID, err)
		}
		it.SetUID(st.UID)
		if it.Lock != nil && st.Locked != nil {
			it.Lock.Locked = *st.Locked
		}
		if it.Puzzle != nil && st.Puzzle != nil {
			restorePuzzle(it.Puzzle, st.Puzzle)
		}
		if err := restoreItems(f, it.Contents, st.Contents); err != nil {
			return err
		}
		inv.Add(it)
	}
	return nil
}

func captureCharacter(c *character.Character) CharacterState {
	cs := CharacterState{
		UID:        c.UID(),
		EID:        c.EID(),
		Name:       c.Name(),
		Health:     c.Health(),
		MaxHealth:  c.MaxHealth,
		Attack:     c.BaseAttack,
		Resistance: c.BaseResistance,
		Inventory:  captureItems(c.Inventory),
	}
	for _, it := range c.Equipped() {
		cs.Equipped = append(cs.Equipped, it.UID())
	}
	return cs
}

func restoreCharacter(f *factory.Factory, c *character.Character, cs CharacterState) error {
	c.SetUID(cs.UID)
	if cs.Name != "" {
		c.SetName(cs.Name)
	}
	c.BaseAttack = cs.Attack
	c.BaseResistance = cs.Resistance
	c.MaxHealth = cs.MaxHealth
	c.SetHealth(cs.Health)
	for _, it := range c.Equipped() {
		_ = c.Unequip(it)
	}
	if err := restoreItems(f, c.Inventory, cs.Inventory); err != nil {
		return err
	}
	for _, uid := range cs.Equipped {
		it, ok := c.Inventory.Get(entity.ByUID(uid)).(*item.Item)
		if !ok {
			return fmt.Errorf("equipped item %s not in inventory", uid)
		}
		if err := c.Equip(it); err != nil {
			return err
		}
	}
	return nil
}

func restoreRoom(f *factory.Factory, r *world.Room, rs RoomState) error {
	r.Visited = rs.Visited
	if err := restoreItems(f, r.Floor, rs.Floor); err != nil {
		return fmt.Errorf("room %s: %w", rs.EID, err)
	}
	r.Pool = nil
	r.Monster = nil
	for _, ms := range rs.Pool {
		m, err := f.CreateMonster(ms.EID)
		if err != nil {
			return fmt.Errorf("room %s: %w", rs.EID, err)
		}
		if err := restoreCharacter(f, &m.Character, ms); err != nil {
			return fmt.Errorf("room %s monster %s: %w", rs.EID, ms.EID, err)
		}
		r.Pool = append(r.Pool, m)
		if ms.UID == rs.Monster {
			r.Monster = m
		}
	}
	return nil
}
