package store

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/Jakan-Kink/stash-graphql-client/regexputil"
	"github.com/Jakan-Kink/stash-graphql-client/unset"
)

// Modifier names one of the recognized filter-DSL suffixes (spec §4.5,
// "Filter translation").
type Modifier string

const (
	Exact    Modifier = "exact"
	Contains Modifier = "contains"
	Regex    Modifier = "regex"
	GT       Modifier = "gt"
	GTE      Modifier = "gte"
	LT       Modifier = "lt"
	LTE      Modifier = "lte"
	Between  Modifier = "between"
	IsNull   Modifier = "null"
	In       Modifier = "in"
	Includes Modifier = "includes"
)

// Criterion is one "field__modifier: value" entry of the filter DSL. Field
// names the Go struct field (not the wire key); Value2 is only used by
// Between.
type Criterion struct {
	Field    string
	Modifier Modifier
	Value    interface{}
	Value2   interface{}
}

// Filter is a conjunction of Criteria, evaluated purely against the
// in-memory cache (spec §4.5: "without reaching the server for the
// predicate evaluation itself").
type Filter struct {
	Criteria []Criterion
}

// Match reports whether self satisfies every criterion.
func (f Filter) Match(self interface{}) (bool, error) {
	for _, c := range f.Criteria {
		ok, err := c.match(self)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

// RequiredFields returns the distinct field names f's criteria reference,
// for the advanced filter forms' missing-field check.
func (f Filter) RequiredFields() []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range f.Criteria {
		if !seen[c.Field] {
			seen[c.Field] = true
			out = append(out, c.Field)
		}
	}
	return out
}

func (c Criterion) match(self interface{}) (bool, error) {
	elem := reflect.ValueOf(self)
	if elem.Kind() == reflect.Ptr {
		elem = elem.Elem()
	}
	fv := elem.FieldByName(c.Field)
	if !fv.IsValid() {
		return false, fmt.Errorf("store: unknown field %q", c.Field)
	}

	var raw interface{}
	if s, ok := fv.Interface().(snapshotter); ok {
		raw = s.Snapshot()
		if unset.IsUnset(raw) {
			return false, nil
		}
	} else {
		raw = fv.Interface()
	}

	switch c.Modifier {
	case Exact, "":
		return reflect.DeepEqual(raw, c.Value), nil
	case Contains:
		s, _ := raw.(string)
		substr, _ := c.Value.(string)
		return strings.Contains(s, substr), nil
	case Regex:
		s, _ := raw.(string)
		pat, _ := c.Value.(string)
		re, _, _, err := regexputil.ParseRegexTemplate(pat)
		if err != nil {
			return false, err
		}
		return re.MatchString(s), nil
	case GT, GTE, LT, LTE:
		return compareOrdered(raw, c.Value, c.Modifier)
	case Between:
		gte, err := compareOrdered(raw, c.Value, GTE)
		if err != nil {
			return false, err
		}
		lte, err := compareOrdered(raw, c.Value2, LTE)
		if err != nil {
			return false, err
		}
		return gte && lte, nil
	case IsNull:
		want, _ := c.Value.(bool)
		return (raw == nil) == want, nil
	case In:
		return matchIn(raw, c.Value)
	case Includes:
		return matchIncludes(raw, c.Value)
	}
	return false, fmt.Errorf("store: unrecognized modifier %q", c.Modifier)
}

type snapshotter interface {
	Snapshot() interface{}
}

func compareOrdered(a, b interface{}, mod Modifier) (bool, error) {
	if as, ok := a.(string); ok {
		bs, _ := b.(string)
		switch mod {
		case GT:
			return as > bs, nil
		case GTE:
			return as >= bs, nil
		case LT:
			return as < bs, nil
		case LTE:
			return as <= bs, nil
		}
	}
	af, aok := toFloat(a)
	bf, bok := toFloat(b)
	if !aok || !bok {
		return false, fmt.Errorf("store: cannot order %T against %T", a, b)
	}
	switch mod {
	case GT:
		return af > bf, nil
	case GTE:
		return af >= bf, nil
	case LT:
		return af < bf, nil
	case LTE:
		return af <= bf, nil
	}
	return false, fmt.Errorf("store: modifier %q is not an ordering", mod)
}

func toFloat(v interface{}) (float64, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), true
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true
	}
	return 0, false
}

func matchIn(raw, list interface{}) (bool, error) {
	items, ok := list.([]interface{})
	if !ok {
		return false, fmt.Errorf("store: in modifier requires a list value")
	}
	for _, item := range items {
		if reflect.DeepEqual(raw, item) {
			return true, nil
		}
	}
	return false, nil
}

// matchIncludes implements spec §4.5's "INCLUDES modifier": raw is expected
// to be the snapshot of a list-valued relationship field (a []string of
// ids); it matches if any of the wanted ids is present. A single string
// value is accepted as shorthand for a one-element wanted set.
func matchIncludes(raw, val interface{}) (bool, error) {
	rawList, ok := toStringSlice(raw)
	if !ok {
		s, isStr := raw.(string)
		if !isStr {
			return false, fmt.Errorf("store: includes modifier requires a string or list-valued field, got %T", raw)
		}
		rawList = []string{s}
	}
	wanted, ok := toStringSlice(val)
	if !ok {
		s, ok := val.(string)
		if !ok {
			return false, fmt.Errorf("store: includes modifier requires a string or list value, got %T", val)
		}
		wanted = []string{s}
	}
	have := make(map[string]bool, len(rawList))
	for _, v := range rawList {
		have[v] = true
	}
	for _, w := range wanted {
		if have[w] {
			return true, nil
		}
	}
	return false, nil
}

func toStringSlice(v interface{}) ([]string, bool) {
	switch t := v.(type) {
	case []string:
		return t, true
	case []interface{}:
		out := make([]string, 0, len(t))
		for _, e := range t {
			s, ok := e.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}
