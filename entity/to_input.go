package entity

import (
	"reflect"

	"github.com/Jakan-Kink/stash-graphql-client/unset"
)

// ToInput implements spec §4.4.1's decision table:
//
//	Unset            -> never emitted
//	Null, new        -> emitted as explicit null
//	Null, existing   -> emitted iff dirty
//	Value, new       -> always emitted
//	Value, existing  -> emitted iff changed from snapshot
//
// New entities emit every field declared with an input key; existing
// entities emit only tracked/relationship fields, plus the id.
func ToInput(self interface{}) (map[string]interface{}, error) {
	elem := mustStructElem(self)
	b, err := baseOf(elem)
	if err != nil {
		return nil, err
	}
	b.mu.Lock()
	tm := b.typeMeta
	snapshot := b.snapshot
	id := b.id
	isNew := b.isNew && !b.saved
	b.mu.Unlock()

	out := make(map[string]interface{})
	if !isNew {
		out["id"] = id
	}
	for name, fm := range tm.Fields {
		if fm.InputKey == "" {
			continue
		}
		if !isNew && !fm.Tracked {
			continue
		}
		fv := elem.FieldByName(name)
		if !fv.IsValid() {
			continue
		}
		s, ok := fv.Interface().(snapshotter)
		if !ok {
			continue
		}
		cur := s.Snapshot()
		if unset.IsUnset(cur) {
			continue
		}
		if isNew {
			out[fm.InputKey] = cur
			continue
		}
		old, hadOld := snapshot[name]
		if !hadOld || !reflect.DeepEqual(old, cur) {
			out[fm.InputKey] = cur
		}
	}
	return out, nil
}
