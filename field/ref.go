package field

import (
	"fmt"
	"strings"

	"github.com/Jakan-Kink/stash-graphql-client/unset"
)

// Identifiable is satisfied by every entity type: a stable identifier used
// as the snapshot encoding for relationship fields (id for a single ref,
// list of ids for a collection — spec §4.3).
type Identifiable interface {
	EntityID() string
}

// Ref is a tri-state single-valued relationship field: Unset, Null (cleared),
// or a reference to a loaded peer entity. Unlike Field[T], Ref's Snapshot
// reduces the peer to its id rather than comparing the peer struct itself,
// since dirty detection must never recurse into a referent (spec §9,
// "Cyclic graphs in dirty detection").
type Ref[E Identifiable] struct {
	state state
	value E
}

func UnsetRef[E Identifiable]() Ref[E] { return Ref[E]{state: stateUnset} }
func NullRef[E Identifiable]() Ref[E]  { return Ref[E]{state: stateNull} }
func OfRef[E Identifiable](v E) Ref[E] { return Ref[E]{state: stateValue, value: v} }

func (r Ref[E]) IsUnset() bool { return r.state == stateUnset }
func (r Ref[E]) IsNull() bool  { return r.state == stateNull }
func (r Ref[E]) IsValue() bool { return r.state == stateValue }

func (r Ref[E]) Get() (E, bool) {
	return r.value, r.state == stateValue
}

// Snapshot reduces the reference to its id (or nil/unset.Value), per §4.3:
// "an entity reference is snapshotted by its id."
func (r Ref[E]) Snapshot() interface{} {
	switch r.state {
	case stateUnset:
		return unset.Value
	case stateNull:
		return nil
	default:
		return r.value.EntityID()
	}
}

func (r Ref[E]) String() string {
	switch r.state {
	case stateUnset:
		return "<unset>"
	case stateNull:
		return "<null>"
	default:
		return fmt.Sprintf("ref(%s)", r.value.EntityID())
	}
}

// RefList is a tri-state many-valued relationship field: Unset, Null, or a
// list of loaded peers.
type RefList[E Identifiable] struct {
	state state
	value []E
}

func UnsetRefList[E Identifiable]() RefList[E] { return RefList[E]{state: stateUnset} }
func NullRefList[E Identifiable]() RefList[E]  { return RefList[E]{state: stateNull} }
func OfRefList[E Identifiable](v []E) RefList[E] {
	return RefList[E]{state: stateValue, value: v}
}

func (r RefList[E]) IsUnset() bool { return r.state == stateUnset }
func (r RefList[E]) IsNull() bool  { return r.state == stateNull }
func (r RefList[E]) IsValue() bool { return r.state == stateValue }

func (r RefList[E]) Get() ([]E, bool) {
	return r.value, r.state == stateValue
}

// Snapshot reduces the list to its ids, per §4.3: "a list of entity
// references by the list of their ids."
func (r RefList[E]) Snapshot() interface{} {
	switch r.state {
	case stateUnset:
		return unset.Value
	case stateNull:
		return nil
	default:
		ids := make([]string, len(r.value))
		for i, e := range r.value {
			ids[i] = e.EntityID()
		}
		return ids
	}
}

// String renders a short, truncated form: at most 2 ids, with the remainder
// collapsed to "(+N more)" — spec §9's "Repr shallowing" truncation rule.
func (r RefList[E]) String() string {
	switch r.state {
	case stateUnset:
		return "<unset>"
	case stateNull:
		return "<null>"
	default:
		n := len(r.value)
		shown := n
		if shown > 2 {
			shown = 2
		}
		ids := make([]string, shown)
		for i := 0; i < shown; i++ {
			ids[i] = r.value[i].EntityID()
		}
		s := "[" + strings.Join(ids, ", ") + "]"
		if n > 2 {
			s += fmt.Sprintf(" (+%d more)", n-2)
		}
		return s
	}
}

// Has reports whether peer (matched by id) is already present.
func (r RefList[E]) Has(peer E) bool {
	if r.state != stateValue {
		return false
	}
	for _, e := range r.value {
		if e.EntityID() == peer.EntityID() {
			return true
		}
	}
	return false
}

// Add appends peer if not already present, initializing an Unset list to
// empty first. Grounded in spec §4.6's add-<relation> helper contract.
func (r RefList[E]) Add(peer E) RefList[E] {
	if r.state != stateValue {
		return RefList[E]{state: stateValue, value: []E{peer}}
	}
	if r.Has(peer) {
		return r
	}
	out := make([]E, len(r.value), len(r.value)+1)
	copy(out, r.value)
	out = append(out, peer)
	return RefList[E]{state: stateValue, value: out}
}

// Remove drops peer (matched by id) if present. A no-op on an Unset or Null
// list, per spec §4.6's remove-<relation> contract.
func (r RefList[E]) Remove(peer E) RefList[E] {
	if r.state != stateValue {
		return r
	}
	out := make([]E, 0, len(r.value))
	for _, e := range r.value {
		if e.EntityID() != peer.EntityID() {
			out = append(out, e)
		}
	}
	return RefList[E]{state: stateValue, value: out}
}
