package store

import (
	"context"
	"time"

	"github.com/Jakan-Kink/stash-graphql-client/logging"
	"github.com/Jakan-Kink/stash-graphql-client/runtimeutil"
	"github.com/Jakan-Kink/stash-graphql-client/transport"
)

const (
	defaultTTL    = 10 * time.Minute
	defaultNegTTL = 30 * time.Second
)

// Entry is one cached instance plus the bookkeeping needed to evaluate
// expiration lazily, at lookup time (spec §4.5: "no background sweeper").
type Entry struct {
	Value    interface{}
	CachedAt time.Time
	TTL      time.Duration
}

func (e *Entry) expired(now time.Time) bool {
	if e.TTL <= 0 {
		return false
	}
	return now.Sub(e.CachedAt) >= e.TTL
}

// Populator fetches and populates a single relationship field on self. The
// per-entity operation catalog (outside this package's scope) registers
// one per (type name, field name) via RegisterPopulator.
type Populator func(ctx context.Context, s *Store, self interface{}) error

// Store is the identity map: one cache entry per (type name, id), a
// negative cache for confirmed not-found ids, a type registry resolving
// polymorphic __typename tags to constructors, and a populator registry
// resolving populate field names to fetch operations.
//
// An explicit *Store handle, passed to every store-aware call, is the
// client-library shape spec §9's "Global store vs explicit store" open
// question favors for a statically-typed language: it makes the dependency
// visible at every call site and lets a test construct an isolated store
// per case instead of sharing process-global cache state.
type Store struct {
	mu runtimeutil.ReentrantMutex

	entries map[string]map[string]*Entry    // typeName -> id -> entry
	neg     map[string]map[string]time.Time // typeName -> id -> expiry

	ttl    time.Duration
	negTTL time.Duration

	transport transport.Transport

	factories  map[string]func() interface{}
	populators map[string]map[string]Populator
}

// Option configures a Store at construction.
type Option func(*Store)

// WithTTL overrides the positive-cache entry lifetime (default 10m).
func WithTTL(d time.Duration) Option { return func(s *Store) { s.ttl = d } }

// WithNegativeTTL overrides the not-found memoization lifetime (default 30s).
func WithNegativeTTL(d time.Duration) Option { return func(s *Store) { s.negTTL = d } }

// New builds a Store backed by t for read-through fetches.
func New(t transport.Transport, opts ...Option) *Store {
	s := &Store{
		entries:    make(map[string]map[string]*Entry),
		neg:        make(map[string]map[string]time.Time),
		ttl:        defaultTTL,
		negTTL:     defaultNegTTL,
		transport:  t,
		factories:  make(map[string]func() interface{}),
		populators: make(map[string]map[string]Populator),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterType lets a polymorphic relationship field (one whose declared
// peer type is an interface, e.g. a file base type with concrete variants)
// resolve a payload's __typename to a concrete constructor (spec §4.5,
// "Polymorphism").
func (s *Store) RegisterType(typeName string, newFn func() interface{}) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.factories[typeName] = newFn
}

// RegisterPopulator registers the fetch used to satisfy populate(entity,
// fieldName) when fieldName is Unset. The per-entity operation catalog
// owns the operation name and query shape; the store only needs to know
// when to call it.
func (s *Store) RegisterPopulator(typeName, fieldName string, fn Populator) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.populators[typeName] == nil {
		s.populators[typeName] = make(map[string]Populator)
	}
	s.populators[typeName][fieldName] = fn
}

func (s *Store) populatorFor(typeName, fieldName string) Populator {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.populators[typeName][fieldName]
}

// get returns the live (non-expired) entry for (typeName, id), evicting it
// first if it has expired. Caller must hold s.mu.
func (s *Store) get(typeName, id string) *Entry {
	byID := s.entries[typeName]
	if byID == nil {
		return nil
	}
	e, ok := byID[id]
	if !ok {
		return nil
	}
	if e.expired(time.Now()) {
		delete(byID, id)
		return nil
	}
	return e
}

// put inserts or replaces the entry for (typeName, id). Caller must hold s.mu.
func (s *Store) put(typeName, id string, value interface{}) {
	if s.entries[typeName] == nil {
		s.entries[typeName] = make(map[string]*Entry)
	}
	s.entries[typeName][id] = &Entry{Value: value, CachedAt: time.Now(), TTL: s.ttl}
}

// CachedGet returns the cached *T for id without touching the transport, or
// (nil, false) on a cache miss or type mismatch.
func CachedGet[T any](s *Store, id string) (*T, bool) {
	tm, err := typeMetaOf[T]()
	if err != nil {
		return nil, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	e := s.get(tm.TypeName, id)
	if e == nil {
		return nil, false
	}
	v, ok := e.Value.(*T)
	return v, ok
}

// Invalidate evicts every cached entry (positive and negative) for
// typeName, or the entire store if typeName is "".
func (s *Store) Invalidate(typeName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if typeName == "" {
		s.entries = make(map[string]map[string]*Entry)
		s.neg = make(map[string]map[string]time.Time)
		logging.Debug(nil, "store: invalidated entire cache")
		return
	}
	delete(s.entries, typeName)
	delete(s.neg, typeName)
	logging.Debug(nil, "store: invalidated cache for %s", typeName)
}

func (s *Store) negativeHit(typeName, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.neg[typeName]
	if m == nil {
		return false
	}
	exp, ok := m[id]
	if !ok {
		return false
	}
	if time.Now().After(exp) {
		delete(m, id)
		return false
	}
	return true
}

func (s *Store) recordNegative(typeName, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.neg[typeName] == nil {
		s.neg[typeName] = make(map[string]time.Time)
	}
	s.neg[typeName][id] = time.Now().Add(s.negTTL)
}
