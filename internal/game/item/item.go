// Package item defines the closed set of item variants and their capabilities.
//
// An Item is a base entity plus optional capability structs: Combat for
// equippable gear, Heal for food, Puzzle for puzzles and Lock for chests.
// Kind selects which capabilities are meaningful.
package item

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/tworld/internal/game/entity"
	"github.com/cory-johannsen/tworld/internal/game/puzzle"
)

// Kind is the concrete item variant.
type Kind string

// Kind constants.
const (
	KindItem   Kind = "item"
	KindKey    Kind = "key"
	KindWeapon Kind = "weapon"
	KindArmor  Kind = "armor"
	KindFood   Kind = "food"
	KindPuzzle Kind = "puzzle"
	KindChest  Kind = "chest"
)

// Kinds lists every valid Kind.
var Kinds = []Kind{KindItem, KindKey, KindWeapon, KindArmor, KindFood, KindPuzzle, KindChest}

// Valid reports whether k is one of Kinds.
func (k Kind) Valid() bool {
	for _, v := range Kinds {
		if k == v {
			return true
		}
	}
	return false
}

// DefaultDropChance is the drop probability of an item with no explicit chance.
const DefaultDropChance = 1.0

var (
	// ErrNotUsable is returned when using an item without the usable capability.
	ErrNotUsable = errors.New("item is not usable")
	// ErrNotHeld is returned when the item is missing from the inventory it is used from.
	ErrNotHeld = errors.New("item is not in the inventory")
	// ErrActivatesPuzzle is returned by Use on a puzzle; the caller enters puzzle mode.
	ErrActivatesPuzzle = errors.New("item activates a puzzle")
	// ErrLocked is returned when a locked container is opened without its key.
	ErrLocked = errors.New("item is locked")
	// ErrNotContainer is returned when opening an item that is not a chest.
	ErrNotContainer = errors.New("item cannot be opened")
)

// Combat holds the combat modifier of a weapon or armor.
type Combat struct {
	// Damage is added to attacks for weapons and subtracted from incoming
	// damage for armor. Never negative.
	Damage int
}

// Heal holds the health delta applied when food is used.
type Heal struct {
	Health int
}

// Lock gates a container behind a key.
type Lock struct {
	KeyEID  string
	KeyName string
	Locked  bool
}

// Target receives use effects.
type Target interface {
	// Heal changes health by delta and returns the resulting health.
	Heal(delta int) int
}

// Item is a world object that can be placed in an inventory.
type Item struct {
	entity.Base
	Kind       Kind
	dropChance float64
	// Contents holds nested entities; every item may contain others.
	Contents *entity.Inventory
	Combat   *Combat
	Heal     *Heal
	Puzzle   *puzzle.Puzzle
	Lock     *Lock
}

// New creates a plain item of the given kind with no capabilities attached.
func New(base entity.Base, kind Kind) *Item {
	return &Item{
		Base:       base,
		Kind:       kind,
		dropChance: DefaultDropChance,
		Contents:   entity.NewInventory(),
	}
}

// NewKey creates a key.
func NewKey(base entity.Base) *Item {
	return New(base, KindKey)
}

// NewWeapon creates a weapon; negative damage is coerced to zero.
func NewWeapon(base entity.Base, damage int) *Item {
	it := New(base, KindWeapon)
	it.Combat = &Combat{Damage: max(damage, 0)}
	return it
}

// NewArmor creates armor; negative damage is coerced to zero.
func NewArmor(base entity.Base, damage int) *Item {
	it := New(base, KindArmor)
	it.Combat = &Combat{Damage: max(damage, 0)}
	return it
}

// NewFood creates a single-use food item.
func NewFood(base entity.Base, health int) *Item {
	it := New(base, KindFood)
	it.Heal = &Heal{Health: health}
	return it
}

// NewPuzzle creates a puzzle item around p.
func NewPuzzle(base entity.Base, p *puzzle.Puzzle) *Item {
	it := New(base, KindPuzzle)
	it.Puzzle = p
	return it
}

// NewChest creates a container. When key is non-nil the chest starts locked.
func NewChest(base entity.Base, key *Item) *Item {
	it := New(base, KindChest)
	if key != nil {
		it.Lock = &Lock{KeyEID: key.EID(), KeyName: key.Name(), Locked: true}
	}
	return it
}

// DropChance returns the probability this item drops from a dead monster.
func (it *Item) DropChance() float64 { return it.dropChance }

// SetDropChance sets the drop probability clamped to [0, 1].
func (it *Item) SetDropChance(p float64) {
	it.dropChance = min(max(p, 0), 1)
}

// Equippable reports whether the item can occupy an equipment slot.
func (it *Item) Equippable() bool {
	return it.Kind == KindWeapon || it.Kind == KindArmor
}

// Usable reports whether the item has a use effect.
func (it *Item) Usable() bool {
	return it.Kind == KindFood || it.Kind == KindPuzzle
}

// Damage returns the combat modifier, or zero for items without one.
func (it *Item) Damage() int {
	if it.Combat == nil {
		return 0
	}
	return it.Combat.Damage
}

// SetDamage replaces the combat modifier, clamped to zero.
func (it *Item) SetDamage(d int) {
	if it.Combat == nil {
		it.Combat = &Combat{}
	}
	it.Combat.Damage = max(d, 0)
}

// Use applies the item's effect to target. The item must be held in inv.
// Food is consumed: it is removed from inv after its effect.
//
// Postcondition: on ErrActivatesPuzzle nothing is changed.
func (it *Item) Use(target Target, inv *entity.Inventory) (string, error) {
	if !it.Usable() {
		return "", fmt.Errorf("%s: %w", it.Name(), ErrNotUsable)
	}
	if !inv.Contains(entity.ByUID(it.UID())) {
		return "", fmt.Errorf("%s: %w", it.Name(), ErrNotHeld)
	}
	switch it.Kind {
	case KindFood:
		health := target.Heal(it.Heal.Health)
		inv.Remove(it)
		return fmt.Sprintf("You consume the %s. Health is now %d.", it.Name(), health), nil
	case KindPuzzle:
		return "", ErrActivatesPuzzle
	}
	return "", fmt.Errorf("%s: %w", it.Name(), ErrNotUsable)
}

// Unlock unlocks a chest when holder carries its key.
func (it *Item) Unlock(holder *entity.Inventory) error {
	if it.Kind != KindChest {
		return fmt.Errorf("%s: %w", it.Name(), ErrNotContainer)
	}
	if it.Lock == nil || !it.Lock.Locked {
		return nil
	}
	if !holder.Contains(entity.ByEID(it.Lock.KeyEID)) {
		return fmt.Errorf("%s requires %s: %w", it.Name(), it.Lock.KeyName, ErrLocked)
	}
	it.Lock.Locked = false
	return nil
}

// Locked reports whether the item is a locked container.
func (it *Item) Locked() bool {
	return it.Lock != nil && it.Lock.Locked
}

// Inspect describes the item including its capabilities.
func (it *Item) Inspect() string {
	var tags []string
	switch it.Kind {
	case KindWeapon:
		tags = append(tags, fmt.Sprintf("weapon, +%d damage", it.Damage()))
	case KindArmor:
		tags = append(tags, fmt.Sprintf("armor, %d protection", it.Damage()))
	case KindFood:
		tags = append(tags, fmt.Sprintf("food, %+d health", it.Heal.Health))
	case KindKey:
		tags = append(tags, "key")
	case KindPuzzle:
		switch {
		case it.Puzzle.IsSolved():
			tags = append(tags, "solved")
		default:
			if n, limited := it.Puzzle.Remaining(); limited {
				tags = append(tags, fmt.Sprintf("%d attempts remaining", n))
			}
		}
	case KindChest:
		if it.Locked() {
			tags = append(tags, "locked")
		}
	}

	var sb strings.Builder
	sb.WriteString(it.Name())
	if len(tags) > 0 {
		sb.WriteString(" (" + strings.Join(tags, "; ") + ")")
	}
	if d := it.Description(); d != "" {
		sb.WriteString(": " + d)
	}
	if it.Contents.Len() > 0 && !it.Locked() {
		sb.WriteString("\nContains: " + strings.Join(it.Contents.Names(), ", "))
	}
	return sb.String()
}
