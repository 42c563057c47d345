package entity

import (
	"fmt"
	"strings"
)

// presenceChecker is implemented by every field.Field/Ref/RefList/
// WrapperList instantiation.
type presenceChecker interface {
	IsValue() bool
}

// ShortRepr renders spec §4.2's compact description: the declared
// short-repr-fields that are currently present, e.g. Performer(name="Jane");
// falls back to TypeName(id=...) when none are present (spec §9's "Repr
// shallowing", which exists to keep bidirectional relationships from
// exploding into a recursive full dump).
func ShortRepr(self interface{}) string {
	elem := mustStructElem(self)
	b, err := baseOf(elem)
	if err != nil {
		return fmt.Sprintf("%v", self)
	}
	b.mu.Lock()
	tm := b.typeMeta
	id := b.id
	b.mu.Unlock()
	if tm == nil {
		return fmt.Sprintf("%v", self)
	}

	var parts []string
	for _, name := range tm.ReprFields {
		fv := elem.FieldByName(name)
		if !fv.IsValid() {
			continue
		}
		if pc, ok := fv.Interface().(presenceChecker); ok && !pc.IsValue() {
			continue
		}
		parts = append(parts, fmt.Sprintf("%s=%v", lowerFirst(name), renderField(fv)))
	}
	if len(parts) == 0 {
		return fmt.Sprintf("%s(id=%s)", tm.TypeName, id)
	}
	return fmt.Sprintf("%s(%s)", tm.TypeName, strings.Join(parts, ", "))
}

func renderField(fv interface{ Interface() any }) string {
	if s, ok := fv.Interface().(fmt.Stringer); ok {
		return fmt.Sprintf("%q", s.String())
	}
	return fmt.Sprintf("%v", fv.Interface())
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
