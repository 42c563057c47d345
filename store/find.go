package store

import "time"

// snapshotCache returns every live (typeName) entry's value without
// holding s.mu across predicate evaluation (spec §4.5: "operations that
// span I/O... do not hold the cache lock across suspension points";
// predicate evaluation itself is pure CPU, but the same snapshot-then-
// release shape keeps find from blocking a concurrent construct/populate).
func (s *Store) snapshotCache(typeName string) []interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	byID := s.entries[typeName]
	now := time.Now()
	out := make([]interface{}, 0, len(byID))
	for id, e := range byID {
		if e.expired(now) {
			delete(byID, id)
			continue
		}
		out = append(out, e.Value)
	}
	return out
}

// Find evaluates f against every live cache entry for T, without reaching
// the transport.
func Find[T any](s *Store, f Filter) ([]*T, error) {
	tm, err := typeMetaOf[T]()
	if err != nil {
		return nil, err
	}
	var out []*T
	for _, v := range s.snapshotCache(tm.TypeName) {
		t := v.(*T)
		ok, err := f.Match(t)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, t)
		}
	}
	return out, nil
}

// FindIter runs Find at once and returns an iterator over its matches: call
// it with a yield func that returns false to stop early (spec §4.5: "short-
// circuiting if the consumer stops"). Matching is not deferred; only the
// yielding stops early.
func FindIter[T any](s *Store, f Filter) (func(yield func(*T) bool) error, error) {
	matches, err := Find[T](s, f)
	if err != nil {
		return nil, err
	}
	return func(yield func(*T) bool) error {
		for _, m := range matches {
			if !yield(m) {
				return nil
			}
		}
		return nil
	}, nil
}
