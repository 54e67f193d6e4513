// Package entity provides the identity shared by everything placeable in the
// world and the ordered Inventory container that holds it.
package entity

import (
	"fmt"

	"github.com/google/uuid"
)

// Entity is anything that can be placed in a room or carried.
type Entity interface {
	// UID is unique per live instance and never reused.
	UID() string
	// EID is the stable definition identifier used for cross references.
	EID() string
	// Name is the display name.
	Name() string
	// Description is the free-text description.
	Description() string
	// Inspect returns the text shown when the entity is examined.
	Inspect() string
}

// Base carries the identity fields common to every entity.
type Base struct {
	uid         string
	eid         string
	name        string
	description string
}

// NewBase creates a Base with a freshly generated uid.
//
// Postcondition: UID() is a new random uuid string.
func NewBase(eid, name, description string) Base {
	return Base{
		uid:         uuid.New().String(),
		eid:         eid,
		name:        name,
		description: description,
	}
}

// RestoreBase recreates a Base with a previously assigned uid.
// An empty uid is replaced by a fresh one.
func RestoreBase(uid, eid, name, description string) Base {
	b := NewBase(eid, name, description)
	if uid != "" {
		b.uid = uid
	}
	return b
}

// UID returns the instance identifier.
func (b *Base) UID() string { return b.uid }

// EID returns the definition identifier.
func (b *Base) EID() string { return b.eid }

// Name returns the display name.
func (b *Base) Name() string { return b.name }

// Description returns the description text.
func (b *Base) Description() string { return b.description }

// SetName replaces the display name.
func (b *Base) SetName(name string) { b.name = name }

// Inspect returns "<name>: <description>".
func (b *Base) Inspect() string {
	if b.description == "" {
		return b.name
	}
	return fmt.Sprintf("%s: %s", b.name, b.description)
}

// String implements fmt.Stringer.
func (b *Base) String() string { return b.name }

// SetUID reassigns the instance identifier when restoring a saved game.
// An empty uid is ignored.
func (b *Base) SetUID(uid string) {
	if uid != "" {
		b.uid = uid
	}
}
