// Package character defines combatants: the player and monsters.
package character

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cory-johannsen/tworld/internal/game/dice"
	"github.com/cory-johannsen/tworld/internal/game/entity"
	"github.com/cory-johannsen/tworld/internal/game/item"
)

var (
	// ErrNotEquippable is returned when equipping an item without an equipment slot.
	ErrNotEquippable = errors.New("item cannot be equipped")
	// ErrNotEquipped is returned when unequipping an item that is not equipped.
	ErrNotEquipped = errors.New("item is not equipped")
)

// Damageable receives damage from an attack.
type Damageable interface {
	// Damage applies an incoming hit and returns the health actually lost.
	Damage(value int) int
}

// Character is an entity with health, combat stats, an inventory and at most
// one equipped item per equippable kind (one weapon and one armor).
//
// Incoming damage is mitigated by flat subtraction of DefenseValue and
// never goes below zero. Health never drops below zero; when MaxHealth is
// positive it is also the upper bound.
type Character struct {
	entity.Base
	health         int
	MaxHealth      int
	BaseAttack     int
	BaseResistance int
	Inventory      *entity.Inventory
	equipped       []*item.Item
}

// New creates a Character with an empty inventory.
func New(base entity.Base, health, attack, resistance int) *Character {
	c := &Character{
		Base:           base,
		BaseAttack:     attack,
		BaseResistance: resistance,
		Inventory:      entity.NewInventory(),
	}
	c.SetHealth(health)
	return c
}

// Health returns current health.
func (c *Character) Health() int { return c.health }

// SetHealth sets health clamped to [0, MaxHealth] (no upper bound when
// MaxHealth is zero or negative).
func (c *Character) SetHealth(v int) {
	if v < 0 {
		v = 0
	}
	if c.MaxHealth > 0 && v > c.MaxHealth {
		v = c.MaxHealth
	}
	c.health = v
}

// Heal changes health by delta and returns the resulting health.
func (c *Character) Heal(delta int) int {
	c.SetHealth(c.health + delta)
	return c.health
}

// IsAlive reports whether health is above zero.
func (c *Character) IsAlive() bool { return c.health > 0 }

// AttackValue is BaseAttack plus the equipped weapon's damage.
func (c *Character) AttackValue() int {
	v := c.BaseAttack
	if w := c.Weapon(); w != nil {
		v += w.Damage()
	}
	return v
}

// DefenseValue is BaseResistance plus the equipped armor's damage value.
func (c *Character) DefenseValue() int {
	v := c.BaseResistance
	if a := c.Armor(); a != nil {
		v += a.Damage()
	}
	return v
}

// Attack hits target with AttackValue and returns the damage dealt, before
// the target's mitigation.
func (c *Character) Attack(target Damageable) int {
	dmg := c.AttackValue()
	target.Damage(dmg)
	return dmg
}

// Damage applies value minus DefenseValue, clamped at zero, and returns the
// health lost.
func (c *Character) Damage(value int) int {
	taken := max(value-c.DefenseValue(), 0)
	before := c.health
	c.SetHealth(c.health - taken)
	return before - c.health
}

// Equip puts it in its slot, replacing any equipped item of the same kind.
// Equipping implies possession: the item is added to the inventory if absent.
//
// Postcondition: at most one item of each equippable kind is equipped.
func (c *Character) Equip(it *item.Item) error {
	if !it.Equippable() {
		return fmt.Errorf("%s: %w", it.Name(), ErrNotEquippable)
	}
	if c.IsEquipped(it) {
		return nil
	}
	if prev := c.equippedKind(it.Kind); prev != nil {
		_ = c.Unequip(prev)
	}
	if !c.Inventory.Contains(entity.ByUID(it.UID())) {
		c.Inventory.Add(it)
	}
	c.equipped = append(c.equipped, it)
	return nil
}

// Unequip frees the slot held by it. The item stays in the inventory.
func (c *Character) Unequip(it *item.Item) error {
	for i, e := range c.equipped {
		if e.UID() == it.UID() {
			c.equipped = append(c.equipped[:i], c.equipped[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("%s: %w", it.Name(), ErrNotEquipped)
}

// IsEquipped reports whether it is currently equipped.
func (c *Character) IsEquipped(it *item.Item) bool {
	for _, e := range c.equipped {
		if e.UID() == it.UID() {
			return true
		}
	}
	return false
}

// Equipped returns the equipped items in equip order.
func (c *Character) Equipped() []*item.Item {
	return append([]*item.Item(nil), c.equipped...)
}

// Weapon returns the equipped weapon or nil.
func (c *Character) Weapon() *item.Item { return c.equippedKind(item.KindWeapon) }

// Armor returns the equipped armor or nil.
func (c *Character) Armor() *item.Item { return c.equippedKind(item.KindArmor) }

func (c *Character) equippedKind(k item.Kind) *item.Item {
	for _, e := range c.equipped {
		if e.Kind == k {
			return e
		}
	}
	return nil
}

// Inspect summarizes the character.
func (c *Character) Inspect() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s | %d health | attack %d | defense %d", c.Name(), c.health, c.AttackValue(), c.DefenseValue())
	if d := c.Description(); d != "" {
		sb.WriteString("\n" + d)
	}
	for _, e := range c.Inventory.All() {
		line := "\n- " + e.Name()
		if it, ok := e.(*item.Item); ok && c.IsEquipped(it) {
			line += " (equipped)"
		}
		sb.WriteString(line)
	}
	return sb.String()
}

// Player is the character controlled by the user.
type Player struct {
	Character
}

// NewPlayer creates a Player.
func NewPlayer(base entity.Base, health, attack, resistance int) *Player {
	return &Player{Character: *New(base, health, attack, resistance)}
}

// Monster is a hostile character that may guard a room.
type Monster struct {
	Character
	IsBoss bool
}

// NewMonster creates a Monster.
func NewMonster(base entity.Base, health, attack, resistance int, boss bool) *Monster {
	return &Monster{Character: *New(base, health, attack, resistance), IsBoss: boss}
}

// DroppedItems rolls each carried item's drop chance independently and
// returns the items that drop, removing them from the monster's inventory.
// Entities that are not items always drop.
func (m *Monster) DroppedItems(r *dice.Roller) []entity.Entity {
	var out []entity.Entity
	for _, e := range m.Inventory.All() {
		chance := item.DefaultDropChance
		if it, ok := e.(*item.Item); ok {
			chance = it.DropChance()
		}
		if r.Chance("drop "+e.EID(), chance) {
			m.Inventory.Remove(e)
			out = append(out, e)
		}
	}
	return out
}

// Inspect describes the monster.
func (m *Monster) Inspect() string {
	s := m.Character.Inspect()
	if m.IsBoss {
		s = "[boss] " + s
	}
	return s
}
