package relationship

import (
	"fmt"
	"reflect"

	"github.com/Jakan-Kink/stash-graphql-client/schema"
)

type peersProvider interface {
	Peers() []interface{}
}

type settableRef interface {
	SetFromPeer(peer interface{}) error
}

type settableRefList interface {
	SetFromPeers(peers []interface{}) error
}

type loadedChecker interface {
	IsUnset() bool
}

func structElem(v interface{}) (reflect.Value, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return reflect.Value{}, fmt.Errorf("relationship: expected a non-nil pointer to struct, got %T", v)
	}
	return rv.Elem(), nil
}

func entityIDOf(v interface{}) string {
	if ider, ok := v.(interface{ EntityID() string }); ok {
		return ider.EntityID()
	}
	return ""
}

func fieldAddr(self interface{}, fieldName string) (reflect.Value, *schema.TypeMeta, *schema.RelationshipMeta, error) {
	elem, err := structElem(self)
	if err != nil {
		return reflect.Value{}, nil, nil, err
	}
	tm, err := schema.For(elem.Type())
	if err != nil {
		return reflect.Value{}, nil, nil, err
	}
	rel, ok := tm.Relationships[fieldName]
	if !ok {
		return reflect.Value{}, nil, nil, fmt.Errorf("relationship: %s has no relationship field %q", tm.TypeName, fieldName)
	}
	fv := elem.FieldByName(fieldName)
	if !fv.IsValid() || !fv.CanAddr() {
		return reflect.Value{}, nil, nil, fmt.Errorf("relationship: %s.%s is not addressable", tm.TypeName, fieldName)
	}
	return fv, tm, rel, nil
}

// Set assigns self's single-valued relationship field to peer (or clears
// it to null if peer is nil), then syncs the peer's inverse if it is
// currently loaded (spec §4.6, "set-<relation>").
func Set(self interface{}, fieldName string, peer interface{}) error {
	return set(self, fieldName, peer, true)
}

func set(self interface{}, fieldName string, peer interface{}, sync bool) error {
	fv, _, rel, err := fieldAddr(self, fieldName)
	if err != nil {
		return err
	}
	if rel.IsList {
		return fmt.Errorf("relationship: %s is list-valued, use Add/Remove", fieldName)
	}
	setter, ok := fv.Addr().Interface().(settableRef)
	if !ok {
		return fmt.Errorf("relationship: %s does not support SetFromPeer", fieldName)
	}
	if err := setter.SetFromPeer(peer); err != nil {
		return err
	}
	if sync && peer != nil {
		return syncInverseSet(self, rel, peer)
	}
	return nil
}

// Add appends peer to self's list-valued relationship field if not already
// present (by id), initializing an Unset field to empty first, then syncs
// the peer's inverse if loaded (spec §4.6, "add-<relation>").
func Add(self interface{}, fieldName string, peer interface{}) error {
	return add(self, fieldName, peer, true)
}

func add(self interface{}, fieldName string, peer interface{}, sync bool) error {
	fv, _, rel, err := fieldAddr(self, fieldName)
	if err != nil {
		return err
	}
	if !rel.IsList {
		return fmt.Errorf("relationship: %s is single-valued, use Set", fieldName)
	}
	addr := fv.Addr().Interface()
	pp, ok := addr.(peersProvider)
	if !ok {
		return fmt.Errorf("relationship: %s does not support Peers", fieldName)
	}
	peers := pp.Peers()
	id := entityIDOf(peer)
	for _, p := range peers {
		if entityIDOf(p) == id {
			return nil // already present
		}
	}
	peers = append(peers, peer)
	setter, ok := addr.(settableRefList)
	if !ok {
		return fmt.Errorf("relationship: %s does not support SetFromPeers", fieldName)
	}
	if err := setter.SetFromPeers(peers); err != nil {
		return err
	}
	if sync {
		return syncInverseAdd(self, rel, peer)
	}
	return nil
}

// Remove drops peer (matched by id) from self's list-valued relationship
// field if present, then syncs the peer's inverse if loaded (spec §4.6,
// "remove-<relation>").
func Remove(self interface{}, fieldName string, peer interface{}) error {
	return remove(self, fieldName, peer, true)
}

func remove(self interface{}, fieldName string, peer interface{}, sync bool) error {
	fv, _, rel, err := fieldAddr(self, fieldName)
	if err != nil {
		return err
	}
	if !rel.IsList {
		return fmt.Errorf("relationship: %s is single-valued, use Set(nil)", fieldName)
	}
	addr := fv.Addr().Interface()
	pp, ok := addr.(peersProvider)
	if !ok {
		return fmt.Errorf("relationship: %s does not support Peers", fieldName)
	}
	id := entityIDOf(peer)
	peers := pp.Peers()
	out := make([]interface{}, 0, len(peers))
	removed := false
	for _, p := range peers {
		if entityIDOf(p) == id {
			removed = true
			continue
		}
		out = append(out, p)
	}
	if !removed {
		return nil
	}
	setter, ok := addr.(settableRefList)
	if !ok {
		return fmt.Errorf("relationship: %s does not support SetFromPeers", fieldName)
	}
	if err := setter.SetFromPeers(out); err != nil {
		return err
	}
	if sync {
		return syncInverseRemove(self, rel, peer)
	}
	return nil
}

// inverseField locates peer's Go field name for the inverse side of rel,
// and reports whether that field is currently loaded (not Unset). Returns
// ok=false if peer isn't a schema-declared entity, has no matching
// relationship, or the field isn't loaded -- in every such case the
// caller must not sync, per spec §4.6's "no surprising I/O" guarantee.
func inverseField(rel *schema.RelationshipMeta, peer interface{}) (string, bool) {
	if rel.InverseQueryField == "" {
		return "", false
	}
	elem, err := structElem(peer)
	if err != nil {
		return "", false
	}
	invTM, err := schema.For(elem.Type())
	if err != nil {
		return "", false
	}
	invRel, ok := invTM.RelationshipByQueryKey(rel.InverseQueryField)
	if !ok {
		return "", false
	}
	fv := elem.FieldByName(invRel.FieldName)
	if !fv.IsValid() {
		return "", false
	}
	lc, ok := fv.Interface().(loadedChecker)
	if !ok || lc.IsUnset() {
		return "", false
	}
	return invRel.FieldName, true
}

func syncInverseSet(self interface{}, rel *schema.RelationshipMeta, peer interface{}) error {
	invField, ok := inverseField(rel, peer)
	if !ok {
		return nil
	}
	_, _, invRel, err := fieldAddr(peer, invField)
	if err != nil {
		return nil
	}
	if invRel.IsList {
		return add(peer, invField, self, false)
	}
	return set(peer, invField, self, false)
}

func syncInverseAdd(self interface{}, rel *schema.RelationshipMeta, peer interface{}) error {
	return syncInverseSet(self, rel, peer)
}

func syncInverseRemove(self interface{}, rel *schema.RelationshipMeta, peer interface{}) error {
	invField, ok := inverseField(rel, peer)
	if !ok {
		return nil
	}
	_, _, invRel, err := fieldAddr(peer, invField)
	if err != nil {
		return nil
	}
	if invRel.IsList {
		return remove(peer, invField, self, false)
	}
	return set(peer, invField, nil, false)
}
