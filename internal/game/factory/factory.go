// Package factory builds live entity graphs from content definitions.
//
// Definitions are resolved lazily: nothing is built until Create is called,
// so definitions may reference each other in any order. Doors are cached by
// eid so that the two rooms sharing a door also share its key and puzzle.
package factory

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/tworld/internal/game/character"
	"github.com/cory-johannsen/tworld/internal/game/content"
	"github.com/cory-johannsen/tworld/internal/game/entity"
	"github.com/cory-johannsen/tworld/internal/game/item"
	"github.com/cory-johannsen/tworld/internal/game/puzzle"
	"github.com/cory-johannsen/tworld/internal/game/world"
)

var (
	// ErrUnknownEntity is returned for an eid with no definition.
	ErrUnknownEntity = errors.New("unknown entity")
	// ErrCycle is returned when a definition transitively contains itself.
	ErrCycle = errors.New("definition contains itself")
	// ErrWrongType is returned by the typed helpers when the eid resolves to another variant.
	ErrWrongType = errors.New("entity has the wrong type")
)

type constructor func(f *Factory, d content.Definition) (entity.Entity, error)

// constructors maps each definition type to its builder.
var constructors map[content.Type]constructor

func init() {
	constructors = map[content.Type]constructor{
		content.TypeRoom:    (*Factory).buildRoom,
		content.TypeDoor:    (*Factory).buildDoor,
		content.TypeMonster: (*Factory).buildMonster,
		content.TypeItem:    (*Factory).buildItem,
		content.TypeKey:     (*Factory).buildItem,
		content.TypeWeapon:  (*Factory).buildItem,
		content.TypeArmor:   (*Factory).buildItem,
		content.TypeFood:    (*Factory).buildItem,
		content.TypePuzzle:  (*Factory).buildItem,
		content.TypeChest:   (*Factory).buildItem,
	}
}

// Factory creates entities from a World's definitions.
//
// Factory is not safe for concurrent use.
type Factory struct {
	world    *content.World
	logger   *zap.Logger
	doors    map[string]*world.Door
	building map[string]bool
}

// New creates a Factory over w.
//
// Precondition: w must be non-nil. A nil logger disables logging.
func New(w *content.World, logger *zap.Logger) *Factory {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Factory{
		world:    w,
		logger:   logger,
		doors:    make(map[string]*world.Door),
		building: make(map[string]bool),
	}
}

// World returns the definitions the factory builds from.
func (f *Factory) World() *content.World { return f.world }

// Reset forgets cached doors so the next build starts from fresh state.
func (f *Factory) Reset() {
	f.doors = make(map[string]*world.Door)
}

// Create builds the entity defined by eid, resolving nested references.
// Every call returns a new instance except for doors, which are cached.
//
// Postcondition: Returns a live entity or an error wrapping ErrUnknownEntity or ErrCycle.
func (f *Factory) Create(eid string) (entity.Entity, error) {
	if d, ok := f.doors[eid]; ok {
		return d, nil
	}
	def, ok := f.world.Definition(eid)
	if !ok {
		return nil, fmt.Errorf("%q: %w", eid, ErrUnknownEntity)
	}
	build, ok := constructors[def.Kind()]
	if !ok {
		return nil, fmt.Errorf("%q: no constructor for type %q: %w", eid, def.Kind(), ErrUnknownEntity)
	}
	if f.building[eid] {
		return nil, fmt.Errorf("%q: %w", eid, ErrCycle)
	}
	f.building[eid] = true
	defer delete(f.building, eid)

	e, err := build(f, def)
	if err != nil {
		return nil, err
	}
	f.logger.Debug("entity created",
		zap.String("eid", eid),
		zap.String("type", string(def.Kind())),
		zap.String("uid", e.UID()),
	)
	return e, nil
}

// CreateItem builds an item variant.
func (f *Factory) CreateItem(eid string) (*item.Item, error) {
	return create[*item.Item](f, eid)
}

// CreateMonster builds a monster.
func (f *Factory) CreateMonster(eid string) (*character.Monster, error) {
	return create[*character.Monster](f, eid)
}

// CreateRoom builds a room with its doors, floor items and monster pool.
func (f *Factory) CreateRoom(eid string) (*world.Room, error) {
	return create[*world.Room](f, eid)
}

// CreateDoor returns the shared door instance for eid.
func (f *Factory) CreateDoor(eid string) (*world.Door, error) {
	return create[*world.Door](f, eid)
}

// Doors returns every door built so far keyed by eid.
func (f *Factory) Doors() map[string]*world.Door {
	out := make(map[string]*world.Door, len(f.doors))
	for k, v := range f.doors {
		out[k] = v
	}
	return out
}

// BuildMap resets the door cache and builds every room on the world map.
//
// Postcondition: Returns an unstarted Map or the first build error.
func (f *Factory) BuildMap() (*world.Map, error) {
	f.Reset()
	rooms := make([]*world.Room, 0, len(f.world.Map))
	for _, eid := range f.world.Map {
		r, err := f.CreateRoom(eid)
		if err != nil {
			return nil, fmt.Errorf("building room %s: %w", eid, err)
		}
		rooms = append(rooms, r)
	}
	return world.NewMap(rooms)
}

func create[T entity.Entity](f *Factory, eid string) (T, error) {
	var zero T
	e, err := f.Create(eid)
	if err != nil {
		return zero, err
	}
	t, ok := e.(T)
	if !ok {
		return zero, fmt.Errorf("%q is a %T: %w", eid, e, ErrWrongType)
	}
	return t, nil
}

func base(d content.Definition) entity.Base {
	return entity.NewBase(d.ID, d.Name, d.Description)
}

func (f *Factory) fill(inv *entity.Inventory, eids []string) error {
	for _, eid := range eids {
		it, err := f.CreateItem(eid)
		if err != nil {
			return err
		}
		inv.Add(it)
	}
	return nil
}

func (f *Factory) buildItem(d content.Definition) (entity.Entity, error) {
	var it *item.Item
	switch d.Kind() {
	case content.TypeKey:
		it = item.NewKey(base(d))
	case content.TypeWeapon:
		it = item.NewWeapon(base(d), d.Damage)
	case content.TypeArmor:
		it = item.NewArmor(base(d), d.Damage)
	case content.TypeFood:
		it = item.NewFood(base(d), d.Health)
	case content.TypePuzzle:
		p := puzzle.New(d.Solutions, d.Hints, d.Attempts)
		p.Drops = append([]string(nil), d.Drops...)
		it = item.NewPuzzle(base(d), p)
	case content.TypeChest:
		var key *item.Item
		if d.Key != "" {
			k, err := f.CreateItem(d.Key)
			if err != nil {
				return nil, fmt.Errorf("chest %s key: %w", d.ID, err)
			}
			key = k
		}
		it = item.NewChest(base(d), key)
	default:
		it = item.New(base(d), item.KindItem)
	}
	if d.DropChance != nil {
		it.SetDropChance(*d.DropChance)
	}
	if err := f.fill(it.Contents, d.Items); err != nil {
		return nil, fmt.Errorf("contents of %s: %w", d.ID, err)
	}
	return it, nil
}

func (f *Factory) buildMonster(d content.Definition) (entity.Entity, error) {
	m := character.NewMonster(base(d), d.Health, d.Attack, d.Resistance, d.Boss)
	if err := f.fill(m.Inventory, d.Items); err != nil {
		return nil, fmt.Errorf("inventory of %s: %w", d.ID, err)
	}
	for _, eid := range d.Equipped {
		it, _ := m.Inventory.Get(entity.ByEID(eid)).(*item.Item)
		if it == nil {
			created, err := f.CreateItem(eid)
			if err != nil {
				return nil, fmt.Errorf("equipment of %s: %w", d.ID, err)
			}
			it = created
		}
		if err := m.Equip(it); err != nil {
			return nil, fmt.Errorf("equipment of %s: %w", d.ID, err)
		}
	}
	return m, nil
}

func (f *Factory) buildDoor(d content.Definition) (entity.Entity, error) {
	var key, pz *item.Item
	if d.Key != "" {
		k, err := f.CreateItem(d.Key)
		if err != nil {
			return nil, fmt.Errorf("door %s key: %w", d.ID, err)
		}
		key = k
	}
	if d.Puzzle != "" {
		p, err := f.CreateItem(d.Puzzle)
		if err != nil {
			return nil, fmt.Errorf("door %s puzzle: %w", d.ID, err)
		}
		pz = p
	}
	door := world.NewDoor(base(d), key, pz)
	f.doors[d.ID] = door
	return door, nil
}

func (f *Factory) buildRoom(d content.Definition) (entity.Entity, error) {
	r := world.NewRoom(base(d))
	for _, eid := range d.Doors {
		door, err := f.CreateDoor(eid)
		if err != nil {
			return nil, fmt.Errorf("room %s: %w", d.ID, err)
		}
		r.Doors = append(r.Doors, door)
	}
	if err := f.fill(r.Floor, d.Items); err != nil {
		return nil, fmt.Errorf("room %s: %w", d.ID, err)
	}
	for _, eid := range d.Monsters {
		m, err := f.CreateMonster(eid)
		if err != nil {
			return nil, fmt.Errorf("room %s: %w", d.ID, err)
		}
		r.Pool = append(r.Pool, m)
	}
	return r, nil
}
