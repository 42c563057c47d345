// Package unset provides the process-wide sentinel that marks a field as
// never observed from a server response and never assigned locally.
//
// It is distinct from nil/null: a field can be explicitly Null (observed or
// assigned as the absent value, and therefore present on the wire) or Unset
// (never touched, and therefore omitted from the wire). Serializers use
// IsUnset to decide what to omit; everything else is emitted, Null included.
//
// Modeled on the teacher's tree package, which uses a pair of unexported
// struct{} singletons (DefDesc/DefAsc) as sentinels distinguishable from any
// user value by pointer identity alone.
package unset

import "fmt"

type sentinel struct{ label string }

// Value is the single Unset sentinel. Compare against it with IsUnset/IsSet;
// never with ==, since callers may box it behind an interface{} of varying
// static type.
var Value = &sentinel{label: "<unset>"}

func (s *sentinel) String() string {
	if s == nil {
		return "<unset>"
	}
	return s.label
}

// IsUnset reports whether x is the Unset sentinel. It is O(1) pointer
// comparison and cannot be fooled by a user type's own Equal/== semantics,
// since x is compared for identity against Value, not for equality.
func IsUnset(x interface{}) bool {
	s, ok := x.(*sentinel)
	return ok && s == Value
}

// IsSet is the narrowing predicate: true iff x is not Unset. When true,
// callers may treat x as the declared field type (itself possibly nil/null).
func IsSet(x interface{}) bool {
	return !IsUnset(x)
}

// Stringer renders a diagnostic form regardless of x's concrete type.
func Stringer(x interface{}) string {
	if IsUnset(x) {
		return Value.String()
	}
	return fmt.Sprintf("%v", x)
}
