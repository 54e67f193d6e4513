package entity

import (
	"reflect"
	"strings"

	"golang.org/x/text/cases"
)

// Query selects an entity from an Inventory. Fields are tried in priority
// order UID, EID, Name; the first non-empty field that produces a match wins.
// Name matches are case-insensitive substring matches.
type Query struct {
	UID  string
	EID  string
	Name string
}

// ByUID returns a Query matching an exact uid.
func ByUID(uid string) Query { return Query{UID: uid} }

// ByEID returns a Query matching an exact eid.
func ByEID(eid string) Query { return Query{EID: eid} }

// ByName returns a Query matching a case-insensitive name substring.
func ByName(name string) Query { return Query{Name: name} }

// IsZero reports whether the query has no criteria.
func (q Query) IsZero() bool {
	return q.UID == "" && q.EID == "" && q.Name == ""
}

// Inventory is an ordered collection of entities. Insertion order is kept so
// that listings and ambiguous name lookups are deterministic: the earliest
// inserted match is returned.
//
// Inventory is not safe for concurrent use.
type Inventory struct {
	items []Entity
}

// NewInventory returns an Inventory holding es in order.
func NewInventory(es ...Entity) *Inventory {
	inv := &Inventory{}
	inv.Update(es)
	return inv
}

// Add appends e. Nil entities are ignored.
//
// Postcondition: returns true iff e was appended.
func (inv *Inventory) Add(e Entity) bool {
	if isNil(e) {
		return false
	}
	inv.items = append(inv.items, e)
	return true
}

// Update appends every non-nil entity of es in order.
func (inv *Inventory) Update(es []Entity) {
	for _, e := range es {
		inv.Add(e)
	}
}

// Get returns the first entity matching q, or nil.
func (inv *Inventory) Get(q Query) Entity {
	if i := inv.index(q); i >= 0 {
		return inv.items[i]
	}
	return nil
}

// Pop removes and returns the first entity matching q, or nil when absent.
//
// Postcondition: on a match, Len() decreases by exactly one.
func (inv *Inventory) Pop(q Query) Entity {
	i := inv.index(q)
	if i < 0 {
		return nil
	}
	e := inv.items[i]
	inv.items = append(inv.items[:i], inv.items[i+1:]...)
	return e
}

// Contains reports whether any entity matches q.
func (inv *Inventory) Contains(q Query) bool {
	return inv.index(q) >= 0
}

// Remove removes the exact instance e.
func (inv *Inventory) Remove(e Entity) bool {
	if isNil(e) {
		return false
	}
	return inv.Pop(ByUID(e.UID())) != nil
}

// All returns a snapshot copy of the entities in insertion order.
func (inv *Inventory) All() []Entity {
	out := make([]Entity, len(inv.items))
	copy(out, inv.items)
	return out
}

// Len returns the number of entities held.
func (inv *Inventory) Len() int { return len(inv.items) }

// Names returns the display names in insertion order.
func (inv *Inventory) Names() []string {
	names := make([]string, 0, len(inv.items))
	for _, e := range inv.items {
		names = append(names, e.Name())
	}
	return names
}

// Clear removes and returns every entity.
func (inv *Inventory) Clear() []Entity {
	out := inv.items
	inv.items = nil
	return out
}

func (inv *Inventory) index(q Query) int {
	if inv == nil || q.IsZero() {
		return -1
	}
	if q.UID != "" {
		for i, e := range inv.items {
			if e.UID() == q.UID {
				return i
			}
		}
	}
	if q.EID != "" {
		for i, e := range inv.items {
			if e.EID() == q.EID {
				return i
			}
		}
	}
	if q.Name != "" {
		needle := fold(q.Name)
		for i, e := range inv.items {
			if strings.Contains(fold(e.Name()), needle) {
				return i
			}
		}
	}
	return -1
}

func fold(s string) string {
	return cases.Fold().String(s)
}

// isNil catches typed nil pointers stored in the interface.
func isNil(e Entity) bool {
	if e == nil {
		return true
	}
	v := reflect.ValueOf(e)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
