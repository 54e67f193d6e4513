// Package content holds the declarative world definitions and loads them
// from YAML or Lua files.
package content

import (
	"fmt"
	"sort"
	"strings"
)

// Type is the entity variant a definition resolves to.
type Type string

// Type constants.
const (
	TypeRoom    Type = "room"
	TypeDoor    Type = "door"
	TypeMonster Type = "monster"
	TypeItem    Type = "item"
	TypeKey     Type = "key"
	TypeWeapon  Type = "weapon"
	TypeArmor   Type = "armor"
	TypeFood    Type = "food"
	TypePuzzle  Type = "puzzle"
	TypeChest   Type = "chest"
)

// prefixes maps the 3-character eid tag to its Type for definitions that
// omit an explicit type.
var prefixes = map[string]Type{
	"rom": TypeRoom,
	"dor": TypeDoor,
	"mon": TypeMonster,
	"itm": TypeItem,
	"key": TypeKey,
	"wpn": TypeWeapon,
	"arm": TypeArmor,
	"fod": TypeFood,
	"pzl": TypePuzzle,
	"cst": TypeChest,
}

// Definition is the raw record for one entity. Only the fields meaningful
// for its Type are read.
type Definition struct {
	ID          string `yaml:"-"`
	Type        Type   `yaml:"type,omitempty"`
	Name        string `yaml:"name"`
	Description string `yaml:"description,omitempty"`

	// Monster stats.
	Health     int  `yaml:"health,omitempty"`
	Attack     int  `yaml:"attack,omitempty"`
	Resistance int  `yaml:"resistance,omitempty"`
	Boss       bool `yaml:"boss,omitempty"`

	// Weapon and armor modifier.
	Damage int `yaml:"damage,omitempty"`
	// DropChance overrides the default drop probability of an item.
	DropChance *float64 `yaml:"drop_chance,omitempty"`

	// References by eid.
	Items    []string `yaml:"items,omitempty"`
	Equipped []string `yaml:"equipped,omitempty"`
	Doors    []string `yaml:"doors,omitempty"`
	Monsters []string `yaml:"monsters,omitempty"`
	Key      string   `yaml:"key,omitempty"`
	Puzzle   string   `yaml:"puzzle,omitempty"`

	// Puzzle fields.
	Solutions []string `yaml:"solutions,omitempty"`
	Hints     []string `yaml:"hints,omitempty"`
	Attempts  *int     `yaml:"attempts,omitempty"`
	Drops     []string `yaml:"drops,omitempty"`
}

// Kind returns the explicit type, falling back to the eid prefix.
// It returns "" when neither resolves.
func (d Definition) Kind() Type {
	if d.Type != "" {
		return d.Type
	}
	if len(d.ID) >= 3 {
		return prefixes[strings.ToLower(d.ID[:3])]
	}
	return ""
}

// IsItem reports whether the definition resolves to an item variant.
func (d Definition) IsItem() bool {
	switch d.Kind() {
	case TypeItem, TypeKey, TypeWeapon, TypeArmor, TypeFood, TypePuzzle, TypeChest:
		return true
	}
	return false
}

// Meta is the descriptive header of a world file.
type Meta struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version,omitempty"`
	Welcome string `yaml:"welcome,omitempty"`
	// Start is the starting room eid; empty picks one at random.
	Start string `yaml:"start,omitempty"`
}

// World is a parsed world file.
type World struct {
	Meta        Meta                  `yaml:"meta"`
	Map         []string              `yaml:"map"`
	Definitions map[string]Definition `yaml:"definitions"`
}

// Definition returns the definition for eid with its ID filled in.
func (w *World) Definition(eid string) (Definition, bool) {
	d, ok := w.Definitions[eid]
	if !ok {
		return Definition{}, false
	}
	d.ID = eid
	return d, true
}

// Validate checks that every reference resolves and the map is well formed.
//
// Postcondition: Returns nil if the world is valid, or an error describing all violations.
func (w *World) Validate() error {
	var errs []string

	if len(w.Map) == 0 {
		errs = append(errs, "map must list at least one room")
	}
	inMap := make(map[string]bool, len(w.Map))
	for _, eid := range w.Map {
		if inMap[eid] {
			errs = append(errs, fmt.Sprintf("map: room %q listed twice", eid))
		}
		inMap[eid] = true
		d, ok := w.Definition(eid)
		switch {
		case !ok:
			errs = append(errs, fmt.Sprintf("map: room %q is not defined", eid))
		case d.Kind() != TypeRoom:
			errs = append(errs, fmt.Sprintf("map: %q is a %s, not a room", eid, d.Kind()))
		}
	}
	if w.Meta.Start != "" && !inMap[w.Meta.Start] {
		errs = append(errs, fmt.Sprintf("meta.start %q is not on the map", w.Meta.Start))
	}

	ids := make([]string, 0, len(w.Definitions))
	for id := range w.Definitions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	for _, id := range ids {
		d, _ := w.Definition(id)
		errs = append(errs, w.validateDefinition(d)...)
	}

	if len(errs) > 0 {
		return fmt.Errorf("world validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}

func (w *World) validateDefinition(d Definition) []string {
	var errs []string
	kind := d.Kind()
	if _, known := typeSet[kind]; !known {
		return []string{fmt.Sprintf("%s: unknown type %q", d.ID, kind)}
	}
	if d.Name == "" {
		errs = append(errs, fmt.Sprintf("%s: name must not be empty", d.ID))
	}
	ref := func(field, eid string, want func(Definition) bool, what string) {
		target, ok := w.Definition(eid)
		switch {
		case !ok:
			errs = append(errs, fmt.Sprintf("%s: %s references undefined %q", d.ID, field, eid))
		case !want(target):
			errs = append(errs, fmt.Sprintf("%s: %s %q is not %s", d.ID, field, eid, what))
		}
	}
	isKind := func(t Type) func(Definition) bool {
		return func(x Definition) bool { return x.Kind() == t }
	}
	isItem := func(x Definition) bool { return x.IsItem() }

	for _, eid := range d.Items {
		ref("items", eid, isItem, "an item")
	}
	for _, eid := range d.Equipped {
		ref("equipped", eid, func(x Definition) bool {
			return x.Kind() == TypeWeapon || x.Kind() == TypeArmor
		}, "a weapon or armor")
	}
	for _, eid := range d.Doors {
		ref("doors", eid, isKind(TypeDoor), "a door")
	}
	for _, eid := range d.Monsters {
		ref("monsters", eid, isKind(TypeMonster), "a monster")
	}
	for _, eid := range d.Drops {
		ref("drops", eid, isItem, "an item")
	}
	if d.Key != "" {
		ref("key", d.Key, isKind(TypeKey), "a key")
	}
	if d.Puzzle != "" {
		ref("puzzle", d.Puzzle, isKind(TypePuzzle), "a puzzle")
	}
	if kind == TypePuzzle && len(d.Solutions) == 0 {
		errs = append(errs, fmt.Sprintf("%s: puzzle must have at least one solution", d.ID))
	}
	if kind == TypeMonster && d.Health < 1 {
		errs = append(errs, fmt.Sprintf("%s: monster health must be >= 1, got %d", d.ID, d.Health))
	}
	if d.DropChance != nil && (*d.DropChance < 0 || *d.DropChance > 1) {
		errs = append(errs, fmt.Sprintf("%s: drop_chance must be in [0, 1], got %v", d.ID, *d.DropChance))
	}
	return errs
}

var typeSet = map[Type]struct{}{
	TypeRoom: {}, TypeDoor: {}, TypeMonster: {}, TypeItem: {}, TypeKey: {},
	TypeWeapon: {}, TypeArmor: {}, TypeFood: {}, TypePuzzle: {}, TypeChest: {},
}
