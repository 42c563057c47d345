package store

import (
	"fmt"
	"reflect"

	"github.com/Jakan-Kink/stash-graphql-client/entity"
	"github.com/Jakan-Kink/stash-graphql-client/logging"
	"github.com/Jakan-Kink/stash-graphql-client/schema"
	"github.com/Jakan-Kink/stash-graphql-client/zerror"
)

// settableRef, settableRefList and settableScalar are the duck interfaces
// every field.Ref/RefList/Field instantiation satisfies (via field/peer.go
// and field/field.go's SetFromRaw), letting the store assign a decoded
// value into a field it only holds as interface{}.
type settableRef interface {
	SetFromPeer(peer interface{}) error
}

type settableRefList interface {
	SetFromPeers(peers []interface{}) error
}

type settableScalar interface {
	SetFromRaw(raw interface{}) error
}

type peerTyped interface {
	PeerType() reflect.Type
}

func typeMetaOf[T any]() (*schema.TypeMeta, error) {
	return schema.For(reflect.TypeOf((*T)(nil)).Elem())
}

// Construct runs the full construction-interception protocol for payload as
// type T: a cache hit merges payload onto the existing instance and
// returns it; a miss builds, hoists, and caches a fresh one (spec §4.5).
func Construct[T any](s *Store, payload map[string]interface{}) (*T, error) {
	rt := reflect.TypeOf((*T)(nil)).Elem()
	v, err := s.construct(rt, payload)
	if err != nil {
		return nil, err
	}
	return v.(*T), nil
}

func (s *Store) construct(rt reflect.Type, payload map[string]interface{}) (interface{}, error) {
	tm, err := schema.For(rt)
	if err != nil {
		return nil, err
	}

	concreteRT := rt
	if typeTag, _ := payload["__typename"].(string); typeTag != "" && typeTag != tm.TypeName {
		factory := s.factoryFor(typeTag)
		if factory == nil {
			return nil, &zerror.TypeMismatch{Want: tm.TypeName, Got: typeTag}
		}
		concreteRT = reflect.TypeOf(factory()).Elem()
		tm, err = schema.For(concreteRT)
		if err != nil {
			return nil, err
		}
	}

	id, _ := payload["id"].(string)
	if id == "" {
		ptr := reflect.New(concreteRT).Interface()
		received, err := s.decodeInto(ptr, payload, tm)
		if err != nil {
			return nil, err
		}
		if err := entity.FromPayload(ptr, received); err != nil {
			return nil, err
		}
		return ptr, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if e := s.get(tm.TypeName, id); e != nil {
		received, err := s.decodeInto(e.Value, payload, tm)
		if err != nil {
			return nil, err
		}
		entity.MarkReceived(e.Value, received)
		entity.UpdateSnapshotFor(e.Value, received)
		logging.Debug(nil, "store: cache hit %s/%s, merged %d fields", tm.TypeName, id, len(received))
		return e.Value, nil
	}

	ptr := reflect.New(concreteRT).Interface()
	received, err := s.decodeInto(ptr, payload, tm)
	if err != nil {
		return nil, err
	}
	if err := entity.FromPayload(ptr, received); err != nil {
		return nil, err
	}
	s.put(tm.TypeName, id, ptr)
	logging.Debug(nil, "store: cache miss %s/%s, built and cached", tm.TypeName, id)
	return ptr, nil
}

// ConstructDynamic runs the same interception protocol as Construct, but
// for a peer type known only as a reflect.Type at runtime. The relationship
// package's complex_object wrapper decoding uses this: a WrapperList's peer
// type is only discoverable via its own PeerType method, not a compile-time
// type parameter (see field/peer.go).
func (s *Store) ConstructDynamic(rt reflect.Type, payload map[string]interface{}) (interface{}, error) {
	return s.construct(rt, payload)
}

func (s *Store) factoryFor(typeName string) func() interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.factories[typeName]
}

// decodeInto walks tm's declared fields, assigning each payload value
// present under its QueryKey onto instance. Relationship fields recurse
// through construct so nested payloads are hoisted through the same
// cache-hit/miss protocol as the root (spec §4.5, "Hoisting"). Returns the
// Go field names whose QueryKey was present in payload.
func (s *Store) decodeInto(instance interface{}, payload map[string]interface{}, tm *schema.TypeMeta) ([]string, error) {
	elem := reflect.ValueOf(instance).Elem()
	var received []string

	for name, fm := range tm.Fields {
		rel, isRel := tm.Relationships[name]
		key := fm.QueryKey
		if isRel {
			key = rel.QueryKey
		}
		if key == "" {
			continue
		}
		raw, present := payload[key]
		if !present {
			continue
		}
		received = append(received, name)

		fv := elem.FieldByName(name)
		if !fv.IsValid() || !fv.CanAddr() {
			continue
		}
		addr := fv.Addr().Interface()

		if isRel {
			if err := s.decodeRelationship(addr, raw, rel.IsList); err != nil {
				return received, fmt.Errorf("store: %s.%s: %w", tm.TypeName, name, err)
			}
			continue
		}
		setter, ok := addr.(settableScalar)
		if !ok {
			continue
		}
		if err := setter.SetFromRaw(raw); err != nil {
			return received, fmt.Errorf("store: %s.%s: %w", tm.TypeName, name, err)
		}
	}
	return received, nil
}

func (s *Store) decodeRelationship(addr interface{}, raw interface{}, isList bool) error {
	pt, ok := addr.(peerTyped)
	if !ok {
		return nil
	}
	peerElemType := pt.PeerType()
	if peerElemType.Kind() == reflect.Ptr {
		peerElemType = peerElemType.Elem()
	}

	if isList {
		items, _ := raw.([]interface{})
		peers := make([]interface{}, 0, len(items))
		for _, item := range items {
			m, ok := item.(map[string]interface{})
			if !ok {
				continue
			}
			peer, err := s.construct(peerElemType, m)
			if err != nil {
				return err
			}
			peers = append(peers, peer)
		}
		setter, ok := addr.(settableRefList)
		if !ok {
			return nil
		}
		return setter.SetFromPeers(peers)
	}

	setter, ok := addr.(settableRef)
	if !ok {
		return nil
	}
	if raw == nil {
		return setter.SetFromPeer(nil)
	}
	m, ok := raw.(map[string]interface{})
	if !ok {
		return fmt.Errorf("expected an object payload, got %T", raw)
	}
	peer, err := s.construct(peerElemType, m)
	if err != nil {
		return err
	}
	return setter.SetFromPeer(peer)
}
