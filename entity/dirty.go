package entity

import "reflect"

// IsDirty reports whether any tracked field's current snapshot-encoded
// value differs from its stored snapshot (spec §4.3). Compares field by
// field; never serializes the whole entity, since that would recurse
// through bidirectional relationships (spec §9).
func IsDirty(self interface{}) bool {
	elem := mustStructElem(self)
	b, err := baseOf(elem)
	if err != nil {
		return false
	}
	b.mu.Lock()
	tm := b.typeMeta
	snapshot := b.snapshot
	b.mu.Unlock()
	if tm == nil {
		return false
	}
	for _, name := range tm.Tracked {
		cur, had := currentSnapshot(elem, name)
		if !had {
			continue
		}
		old, hadOld := snapshot[name]
		if !hadOld || !reflect.DeepEqual(old, cur) {
			return true
		}
	}
	return false
}

// ChangedFields returns the tracked fields whose current value differs from
// snapshot, mapped to their current in-memory (unreduced) value.
func ChangedFields(self interface{}) map[string]interface{} {
	elem := mustStructElem(self)
	b, err := baseOf(elem)
	if err != nil {
		return nil
	}
	b.mu.Lock()
	tm := b.typeMeta
	snapshot := b.snapshot
	b.mu.Unlock()
	if tm == nil {
		return nil
	}
	out := make(map[string]interface{})
	for _, name := range tm.Tracked {
		cur, had := currentSnapshot(elem, name)
		if !had {
			continue
		}
		old, hadOld := snapshot[name]
		if !hadOld || !reflect.DeepEqual(old, cur) {
			out[name] = elem.FieldByName(name).Interface()
		}
	}
	return out
}

// MarkClean snapshots every tracked field's current value. Idempotent.
func MarkClean(self interface{}) {
	elem := mustStructElem(self)
	b, err := baseOf(elem)
	if err != nil {
		return
	}
	b.mu.Lock()
	tm := b.typeMeta
	b.mu.Unlock()
	if tm == nil {
		return
	}
	snap := snapshotTracked(elem, tm)
	b.mu.Lock()
	b.snapshot = snap
	b.mu.Unlock()
}

// MarkDirty clears the snapshot: every subsequent IsDirty call returns true
// and ChangedFields returns every tracked field, until the next MarkClean.
func MarkDirty(self interface{}) {
	elem := mustStructElem(self)
	b, err := baseOf(elem)
	if err != nil {
		return
	}
	b.mu.Lock()
	b.snapshot = map[string]interface{}{}
	b.mu.Unlock()
}

// UpdateSnapshotFor refreshes the snapshot only for the intersection of
// names with tracked fields, leaving every other field's snapshot (and
// therefore any pending edit to it) untouched. Used by the store after a
// partial merge (spec §4.3's "dirty-after-merge" invariant).
func UpdateSnapshotFor(self interface{}, names []string) {
	elem := mustStructElem(self)
	b, err := baseOf(elem)
	if err != nil {
		return
	}
	b.mu.Lock()
	tm := b.typeMeta
	b.mu.Unlock()
	if tm == nil {
		return
	}
	tracked := make(map[string]bool, len(tm.Tracked))
	for _, n := range tm.Tracked {
		tracked[n] = true
	}
	b.mu.Lock()
	if b.snapshot == nil {
		b.snapshot = map[string]interface{}{}
	}
	for _, name := range names {
		if !tracked[name] {
			continue
		}
		if cur, had := currentSnapshot(elem, name); had {
			b.snapshot[name] = cur
		}
	}
	b.mu.Unlock()
}

func currentSnapshot(elem reflect.Value, fieldName string) (interface{}, bool) {
	fv := elem.FieldByName(fieldName)
	if !fv.IsValid() {
		return nil, false
	}
	s, ok := fv.Interface().(snapshotter)
	if !ok {
		return nil, false
	}
	return s.Snapshot(), true
}
