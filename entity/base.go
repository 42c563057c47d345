package entity

import (
	"sync"

	"github.com/Jakan-Kink/stash-graphql-client/schema"
)

// legacyNewMarker is the old sentinel id value some payloads still carry for
// a not-yet-saved entity. Kept for backward compatibility (spec §9's Open
// Question "Legacy new id marker"); new code should rely on the 32-hex
// token shape alone.
const legacyNewMarker = "new"

// Base is embedded anonymously by every entity type. It holds the
// bookkeeping spec §4.3 requires to survive any field reassignment on the
// outer struct: snapshot, received-fields, is-new, and (since Go gives an
// embedded type no way to see its outer struct) a pointer to that struct,
// set once by Construct.
type Base struct {
	mu       sync.Mutex
	self     interface{}
	typeMeta *schema.TypeMeta
	id       string
	isNew    bool
	saved    bool
	received map[string]bool
	snapshot map[string]interface{}
}

// EntityID satisfies field.Identifiable, promoted to every embedding type.
func (b *Base) EntityID() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.id
}

// TypeName returns the schema-declared type name, or "" before Construct.
func (b *Base) TypeName() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.typeMeta == nil {
		return ""
	}
	return b.typeMeta.TypeName
}

// IsNew reports whether this entity has a locally-minted id (or the legacy
// "new" marker) and has not yet been saved (spec §4.4).
func (b *Base) IsNew() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.isNew && !b.saved
}

// ReceivedFields reports the set of field names that have appeared in some
// server payload merged into this instance.
func (b *Base) ReceivedFields() map[string]bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make(map[string]bool, len(b.received))
	for k := range b.received {
		out[k] = true
	}
	return out
}

// ReceivedFields is the package-level form of (*Base).ReceivedFields,
// usable without a typed *Base reference.
func ReceivedFields(self interface{}) map[string]bool {
	b, err := baseOf(mustStructElem(self))
	if err != nil {
		return nil
	}
	return b.ReceivedFields()
}

// FieldReceived reports whether name is in self's received-fields set.
func FieldReceived(self interface{}, name string) bool {
	return ReceivedFields(self)[name]
}

// MarkReceived unions names into self's received-fields set without
// touching its snapshot. Used by the store when merging a payload whose
// fields were already decoded onto an existing cache-hit instance.
func MarkReceived(self interface{}, names []string) {
	b, err := baseOf(mustStructElem(self))
	if err != nil {
		return
	}
	b.markReceived(names)
}

// markReceived unions names into the received-fields set.
func (b *Base) markReceived(names []string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.received == nil {
		b.received = make(map[string]bool, len(names))
	}
	for _, n := range names {
		b.received[n] = true
	}
}
