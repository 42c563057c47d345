package store

import (
	"context"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/Jakan-Kink/stash-graphql-client/entity"
	"github.com/Jakan-Kink/stash-graphql-client/pool"
	"github.com/Jakan-Kink/stash-graphql-client/zerror"
)

// Stats reports the bookkeeping filter-and-populate-with-stats computes
// alongside its matches (spec §4.5).
type Stats struct {
	TotalCached     int
	NeededPopulation int
	PopulatedFields int
	Matches         int
	CacheHitRate    float64
}

// missingFields reports which of required (dotted paths allowed, same
// grammar as Populate) are not yet received on self.
func missingFields(self interface{}, required []string) []string {
	var missing []string
	for _, path := range required {
		if !hasPath(self, path) {
			missing = append(missing, path)
		}
	}
	return missing
}

func hasPath(self interface{}, path string) bool {
	segs := strings.SplitN(path, ".", 2)
	head := segs[0]
	if !entity.FieldReceived(self, head) {
		return false
	}
	if len(segs) == 1 {
		return true
	}
	elem := reflect.ValueOf(self)
	if elem.Kind() == reflect.Ptr {
		elem = elem.Elem()
	}
	fv := elem.FieldByName(head)
	if !fv.IsValid() {
		return false
	}
	pp, ok := fv.Interface().(peersProvider)
	if !ok {
		return true
	}
	for _, peer := range pp.Peers() {
		if !hasPath(peer, segs[1]) {
			return false
		}
	}
	return true
}

func entityIDOf(v interface{}) string {
	if ider, ok := v.(interface{ EntityID() string }); ok {
		return ider.EntityID()
	}
	return ""
}

// FilterStrict fails with a *zerror.StrictFilterGap naming the first
// entity found missing any required field, instead of silently excluding
// it (spec §4.5, scenario: "Strict filter naming gap").
func FilterStrict[T any](s *Store, required []string, f Filter) ([]*T, error) {
	tm, err := typeMetaOf[T]()
	if err != nil {
		return nil, err
	}
	items := s.snapshotCache(tm.TypeName)
	var out []*T
	for _, v := range items {
		t := v.(*T)
		if missing := missingFields(t, required); len(missing) > 0 {
			return nil, &zerror.StrictFilterGap{TypeName: tm.TypeName, ID: entityIDOf(t), Missing: missing}
		}
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

// tokenPassthrough hands tokens through unchanged, minting one when the pool
// passes nil (a Get on an empty pool), so pool.New's preload leaves the pool
// holding its full load of tokens.
func tokenPassthrough(v interface{}, _ pool.Action, _ int) (interface{}, error) {
	if v == nil {
		v = struct{}{}
	}
	return v, nil
}

// populateMissing fetches required for every entity in items lacking it,
// at most batch concurrent fetches at a time, and returns how many entities
// needed populating.
func populateMissing[T any](ctx context.Context, s *Store, items []interface{}, required []string, batch int) (needed int, err error) {
	if batch < 1 {
		batch = 1
	}
	sem, err := pool.New(tokenPassthrough, batch, batch)
	if err != nil {
		return 0, err
	}
	var wg sync.WaitGroup
	errs := make([]error, len(items))
	for i, v := range items {
		t := v.(*T)
		missing := missingFields(t, required)
		if len(missing) == 0 {
			continue
		}
		needed++
		wg.Add(1)
		go func(i int, t *T, missing []string) {
			defer wg.Done()
			tok, _ := sem.Get(time.Hour)
			defer sem.Put(tok)
			errs[i] = Populate(ctx, s, t, missing, false)
		}(i, t, missing)
	}
	wg.Wait()
	var merr zerror.Multi
	for _, e := range errs {
		if e != nil {
			merr = append(merr, e)
		}
	}
	return needed, merr.NonNilError()
}

// FilterAndPopulate fetches just the missing fields for each entity
// lacking them, in batches of at most batch concurrent fetches, then
// evaluates f (spec §4.5).
func FilterAndPopulate[T any](ctx context.Context, s *Store, required []string, f Filter, batch int) ([]*T, error) {
	tm, err := typeMetaOf[T]()
	if err != nil {
		return nil, err
	}
	items := s.snapshotCache(tm.TypeName)
	if _, err := populateMissing[T](ctx, s, items, required, batch); err != nil {
		return nil, err
	}
	var out []*T
	for _, v := range items {
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

// FilterAndPopulateWithStats is FilterAndPopulate plus the bookkeeping
// spec §4.5 names: total cached, how many needed population, how many
// matched, and the resulting cache hit rate.
func FilterAndPopulateWithStats[T any](ctx context.Context, s *Store, required []string, f Filter, batch int) ([]*T, Stats, error) {
	tm, err := typeMetaOf[T]()
	if err != nil {
		return nil, Stats{}, err
	}
	items := s.snapshotCache(tm.TypeName)
	needed, err := populateMissing[T](ctx, s, items, required, batch)
	if err != nil {
		return nil, Stats{}, err
	}

	var out []*T
	for _, v := range items {
		t := v.(*T)
		ok, err := f.Match(t)
		if err != nil {
			return nil, Stats{}, err
		}
		if ok {
			out = append(out, t)
		}
	}

	stats := Stats{
		TotalCached:      len(items),
		NeededPopulation: needed,
		PopulatedFields:  needed * len(required),
		Matches:          len(out),
	}
	if stats.TotalCached > 0 {
		stats.CacheHitRate = float64(stats.TotalCached-needed) / float64(stats.TotalCached)
	}
	return out, stats, nil
}

// PopulatedFilterIter fetches on demand in sub-batches of populateBatch and
// evaluates/yields in sub-batches of yieldBatch, stopping as soon as yield
// returns false (spec §4.5: "yield matches lazily").
func PopulatedFilterIter[T any](ctx context.Context, s *Store, required []string, f Filter, populateBatch, yieldBatch int) (func(yield func(*T) bool) error, error) {
	tm, err := typeMetaOf[T]()
	if err != nil {
		return nil, err
	}
	if populateBatch < 1 {
		populateBatch = 1
	}
	if yieldBatch < 1 {
		yieldBatch = 1
	}
	items := s.snapshotCache(tm.TypeName)

	return func(yield func(*T) bool) error {
		for start := 0; start < len(items); start += populateBatch {
			end := start + populateBatch
			if end > len(items) {
				end = len(items)
			}
			chunk := items[start:end]
			if _, err := populateMissing[T](ctx, s, chunk, required, populateBatch); err != nil {
				return err
			}
			for yStart := 0; yStart < len(chunk); yStart += yieldBatch {
				yEnd := yStart + yieldBatch
				if yEnd > len(chunk) {
					yEnd = len(chunk)
				}
				for _, v := range chunk[yStart:yEnd] {
					t := v.(*T)
					ok, err := f.Match(t)
					if err != nil {
						return err
					}
					if !ok {
						continue
					}
					if !yield(t) {
						return nil
					}
				}
			}
		}
		return nil
	}, nil
}
