/*
Package schema declares, per entity type, the frozen field/relationship
metadata spec §4.2 calls for: tracked fields, field conversions (local name
-> input key), relationship metadata, type name, create/update input schema
names, and short-repr fields.

Declarations live in a single struct tag key, "stash", following the
teacher's db:"..." comma-separated mini grammar (db_setup.go's
getStructTagValue/addStructMetaFromType). A struct-level tag on the embedded
entity.Base field carries the type-level keys (type=, create=, update=,
repr=a|b|c); field-level tags carry the per-field keys (track, rel, input=,
query=, inverse=, inverseField=, strategy=, list).

Types are registered once, lazily, on first use via For(reflect.Type),
mirroring the teacher's GetStructMetaFromType: a package-level cache guarded
by a mutex during first build, safestore-backed exactly as the teacher's
StructMetas registry was.
*/
package schema

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/Jakan-Kink/stash-graphql-client/safestore"
)

// Strategy names how a relationship's inverse side is read (spec §4.6).
type Strategy string

const (
	Direct  Strategy = "direct"
	Filter  Strategy = "filter"
	Complex Strategy = "complex"
)

// FieldMeta describes one declared field.
type FieldMeta struct {
	Name     string // Go struct field name
	IsID     bool
	Tracked  bool
	InputKey string // create/update input payload key; "" if not conversion-declared
	QueryKey string // read payload key, defaults to InputKey if unset
}

// RelationshipMeta describes one declared relationship field (spec §3).
type RelationshipMeta struct {
	FieldName         string
	IsList            bool
	InputKey          string
	QueryKey          string
	InverseType       string
	InverseQueryField string
	Strategy          Strategy
}

// TypeMeta is the frozen, per-type schema (spec §4.2).
type TypeMeta struct {
	Type            reflect.Type
	TypeName        string
	CreateInputType string
	UpdateInputType string
	ReprFields      []string
	IDField         string
	Fields          map[string]*FieldMeta        // keyed by Go field name
	Relationships    map[string]*RelationshipMeta // keyed by Go field name
	Tracked         []string                     // Go field names, tracked or relationship
}

// FieldByInputKey looks up the FieldMeta whose InputKey matches key.
func (tm *TypeMeta) FieldByInputKey(key string) (*FieldMeta, bool) {
	for _, fm := range tm.Fields {
		if fm.InputKey == key {
			return fm, true
		}
	}
	return nil, false
}

// RelationshipByQueryKey looks up the RelationshipMeta whose QueryKey
// matches key. The relationship engine uses this to locate a peer's
// inverse field from only the owning side's declared InverseQueryField.
func (tm *TypeMeta) RelationshipByQueryKey(key string) (*RelationshipMeta, bool) {
	for _, rm := range tm.Relationships {
		if rm.QueryKey == key {
			return rm, true
		}
	}
	return nil, false
}

var (
	structMetas      = safestore.New(true)
	structMetasMutex sync.Mutex
)

// For returns the TypeMeta for rt, building and caching it on first use.
// rt must be a struct type (not a pointer).
func For(rt reflect.Type) (*TypeMeta, error) {
	if rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema: %v is not a struct type", rt)
	}
	if v := structMetas.Get(rt); v != nil {
		return v.(*TypeMeta), nil
	}
	structMetasMutex.Lock()
	defer structMetasMutex.Unlock()
	// re-check: another goroutine may have built it while we waited for the lock.
	if v := structMetas.Get(rt); v != nil {
		return v.(*TypeMeta), nil
	}
	tm, err := build(rt)
	if err != nil {
		return nil, err
	}
	structMetas.Put(rt, tm, 0)
	return tm, nil
}

func build(rt reflect.Type) (*TypeMeta, error) {
	tm := &TypeMeta{
		Type:          rt,
		Fields:        make(map[string]*FieldMeta),
		Relationships: make(map[string]*RelationshipMeta),
	}
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		tag, ok := sf.Tag.Lookup(tagKey)
		if !ok {
			continue
		}
		tokens := splitTag(tag)
		if sf.Anonymous {
			if err := applyTypeTokens(tm, tokens); err != nil {
				return nil, fmt.Errorf("schema: %v.%s: %w", rt, sf.Name, err)
			}
			continue
		}
		if err := applyFieldTokens(tm, sf.Name, tokens); err != nil {
			return nil, fmt.Errorf("schema: %v.%s: %w", rt, sf.Name, err)
		}
	}
	if tm.TypeName == "" {
		tm.TypeName = rt.Name()
	}
	return tm, nil
}

const tagKey = "stash"

func splitTag(tag string) []string {
	parts := strings.Split(tag, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func applyTypeTokens(tm *TypeMeta, tokens []string) error {
	for _, tok := range tokens {
		k, v, hasV := cutEq(tok)
		switch k {
		case "type":
			tm.TypeName = v
		case "create":
			tm.CreateInputType = v
		case "update":
			tm.UpdateInputType = v
		case "repr":
			tm.ReprFields = strings.Split(v, "|")
		default:
			if !hasV {
				return fmt.Errorf("unrecognized type-level tag token %q", tok)
			}
			return fmt.Errorf("unrecognized type-level tag key %q", k)
		}
	}
	return nil
}

func applyFieldTokens(tm *TypeMeta, goName string, tokens []string) error {
	fm := &FieldMeta{Name: goName}
	var rel *RelationshipMeta
	for _, tok := range tokens {
		k, v, _ := cutEq(tok)
		switch k {
		case "id":
			fm.IsID = true
			tm.IDField = goName
		case "track":
			fm.Tracked = true
		case "rel":
			fm.Tracked = true
			if rel == nil {
				rel = &RelationshipMeta{FieldName: goName}
			}
		case "list":
			if rel == nil {
				rel = &RelationshipMeta{FieldName: goName}
			}
			rel.IsList = true
		case "input":
			fm.InputKey = v
			if rel != nil {
				rel.InputKey = v
			}
		case "query":
			fm.QueryKey = v
			if rel != nil {
				rel.QueryKey = v
			}
		case "inverse":
			if rel == nil {
				rel = &RelationshipMeta{FieldName: goName}
			}
			rel.InverseType = v
		case "inverseField":
			if rel == nil {
				rel = &RelationshipMeta{FieldName: goName}
			}
			rel.InverseQueryField = v
		case "strategy":
			if rel == nil {
				rel = &RelationshipMeta{FieldName: goName}
			}
			rel.Strategy = Strategy(v)
		default:
			return fmt.Errorf("unrecognized field tag token %q", tok)
		}
	}
	if fm.QueryKey == "" {
		fm.QueryKey = fm.InputKey
	}
	tm.Fields[goName] = fm
	if fm.Tracked {
		tm.Tracked = append(tm.Tracked, goName)
	}
	if rel != nil {
		if rel.QueryKey == "" {
			rel.QueryKey = rel.InputKey
		}
		tm.Relationships[goName] = rel
	}
	return nil
}

// cutEq splits "key=value" into ("key", "value", true), or "key" into
// ("key", "", false).
func cutEq(tok string) (key, val string, hasVal bool) {
	if i := strings.IndexByte(tok, '='); i >= 0 {
		return tok[:i], tok[i+1:], true
	}
	return tok, "", false
}
