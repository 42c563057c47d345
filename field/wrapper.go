package field

import (
	"fmt"
	"reflect"

	"github.com/Jakan-Kink/stash-graphql-client/reflectutil"
	"github.com/Jakan-Kink/stash-graphql-client/unset"
)

// Wrapper holds a peer reference plus relationship metadata M, for the
// complex_object query strategy (spec §3: "a wrapper carrying relationship
// metadata"; §4.6: "wrappers are represented as first-class value objects
// holding a reference and their own metadata fields").
type Wrapper[E Identifiable, M any] struct {
	Peer E
	Meta M
}

// Snapshot reduces a Wrapper to an (id, metadata) pair, per §4.3: "a wrapper
// carrying relationship metadata by an (id, metadata) pair."
func (w Wrapper[E, M]) Snapshot() interface{} {
	return [2]interface{}{w.Peer.EntityID(), w.Meta}
}

// WrapperList is a tri-state many-valued complex_object relationship field.
type WrapperList[E Identifiable, M any] struct {
	state state
	value []Wrapper[E, M]
}

func UnsetWrapperList[E Identifiable, M any]() WrapperList[E, M] {
	return WrapperList[E, M]{state: stateUnset}
}

func NullWrapperList[E Identifiable, M any]() WrapperList[E, M] {
	return WrapperList[E, M]{state: stateNull}
}

func OfWrapperList[E Identifiable, M any](v []Wrapper[E, M]) WrapperList[E, M] {
	return WrapperList[E, M]{state: stateValue, value: v}
}

func (r WrapperList[E, M]) IsUnset() bool { return r.state == stateUnset }
func (r WrapperList[E, M]) IsNull() bool  { return r.state == stateNull }
func (r WrapperList[E, M]) IsValue() bool { return r.state == stateValue }

func (r WrapperList[E, M]) Get() ([]Wrapper[E, M], bool) {
	return r.value, r.state == stateValue
}

// PeerType reports the concrete peer type E, the same way Ref.PeerType
// does, so a caller holding only a *WrapperList[E, M] as interface{} (the
// relationship package's complex_object decode path) can still construct
// the right peer type.
func (r WrapperList[E, M]) PeerType() reflect.Type {
	return reflect.TypeOf((*E)(nil)).Elem()
}

// SetFromWrappers assigns the list from parallel peer/metadata slices:
// peers[i] must assert to E, and metas[i] is coerced to M via
// reflectutil.Coerce (typically a map[string]interface{} decoded from the
// wrapper's own fields, coerced field-by-field into an M struct).
func (r *WrapperList[E, M]) SetFromWrappers(peers []interface{}, metas []interface{}) error {
	if len(peers) != len(metas) {
		return fmt.Errorf("field: %d peers but %d metadata entries", len(peers), len(metas))
	}
	var zero M
	out := make([]Wrapper[E, M], len(peers))
	for i := range peers {
		e, ok := peers[i].(E)
		if !ok {
			return fmt.Errorf("field: cannot assign %T as a %T relationship peer", peers[i], e)
		}
		coerced, err := reflectutil.Coerce(metas[i], zero)
		if err != nil {
			return fmt.Errorf("field: coercing wrapper metadata: %w", err)
		}
		m, ok := coerced.(M)
		if !ok {
			return fmt.Errorf("field: coerced metadata %v is %T, not %T", coerced, coerced, zero)
		}
		out[i] = Wrapper[E, M]{Peer: e, Meta: m}
	}
	*r = OfWrapperList(out)
	return nil
}

func (r WrapperList[E, M]) Snapshot() interface{} {
	switch r.state {
	case stateUnset:
		return unset.Value
	case stateNull:
		return nil
	default:
		out := make([]interface{}, len(r.value))
		for i, w := range r.value {
			out[i] = w.Snapshot()
		}
		return out
	}
}
