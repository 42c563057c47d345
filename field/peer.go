package field

import (
	"fmt"
	"reflect"
)

// PeerType reports the concrete Go type a Ref[E] holds, without requiring
// the caller to know E. The store's construction-interception protocol
// needs this: given only a reflect.Value over a struct field of static type
// Ref[someStruct], Go's reflect package exposes no way to recover
// someStruct from the instantiated generic type alone, so each
// instantiation reports its own E this way instead.
func (r Ref[E]) PeerType() reflect.Type {
	return reflect.TypeOf((*E)(nil)).Elem()
}

// Peers returns the loaded peer (if any) as a one-element slice, or nil if
// Unset/Null. Used by populate to recurse into a single-valued relationship
// without the caller needing to know E.
func (r Ref[E]) Peers() []interface{} {
	if r.state != stateValue {
		return nil
	}
	return []interface{}{r.value}
}

// SetFromPeer assigns peer in place. peer must be nil (clears to Null) or
// assertable to E; anything else is an error. This is how the store's
// generic decode loop writes a freshly-constructed or cache-hit peer into a
// relationship field it only holds as interface{}.
func (r *Ref[E]) SetFromPeer(peer interface{}) error {
	if peer == nil {
		*r = NullRef[E]()
		return nil
	}
	e, ok := peer.(E)
	if !ok {
		return fmt.Errorf("field: cannot assign %T as a %T relationship peer", peer, e)
	}
	*r = OfRef(e)
	return nil
}

// PeerType reports the concrete Go type RefList[E] holds. See Ref.PeerType.
func (r RefList[E]) PeerType() reflect.Type {
	return reflect.TypeOf((*E)(nil)).Elem()
}

// Peers returns the loaded peers, or nil if Unset/Null.
func (r RefList[E]) Peers() []interface{} {
	if r.state != stateValue {
		return nil
	}
	out := make([]interface{}, len(r.value))
	for i, e := range r.value {
		out[i] = e
	}
	return out
}

// SetFromPeers assigns the whole list in place from a slice of interface{},
// each of which must be assertable to E. See Ref.SetFromPeer.
func (r *RefList[E]) SetFromPeers(peers []interface{}) error {
	out := make([]E, 0, len(peers))
	for _, p := range peers {
		e, ok := p.(E)
		if !ok {
			var zero E
			return fmt.Errorf("field: cannot assign %T as a %T relationship peer", p, zero)
		}
		out = append(out, e)
	}
	*r = OfRefList(out)
	return nil
}
