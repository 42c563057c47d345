// Package field provides the tri-state value holder every tracked entity
// field is declared with: Unset (never observed or assigned), Null (observed
// or assigned as the absent value), or Value(x). It generalizes the teacher's
// db package, which had no notion of a field ever being "unset" versus
// "null" (every Go zero value was ambiguous with "not provided"); Field[T]
// removes that ambiguity by keeping the state separate from T's own zero
// value, the way unset.Value disambiguates a boxed interface{}.
package field

import (
	"fmt"
	"reflect"

	"github.com/Jakan-Kink/stash-graphql-client/reflectutil"
	"github.com/Jakan-Kink/stash-graphql-client/unset"
)

type state uint8

const (
	stateUnset state = iota
	stateNull
	stateValue
)

// Field is a tracked field's tri-state value: Unset, Null, or Value(T).
type Field[T any] struct {
	state state
	value T
}

// Unset returns a field in the Unset state: never observed, never assigned.
func Unset[T any]() Field[T] {
	return Field[T]{state: stateUnset}
}

// Null returns a field explicitly observed or assigned as the absent value.
func Null[T any]() Field[T] {
	return Field[T]{state: stateNull}
}

// Of returns a field holding v.
func Of[T any](v T) Field[T] {
	return Field[T]{state: stateValue, value: v}
}

// IsUnset reports whether the field has never been observed or assigned.
func (f Field[T]) IsUnset() bool { return f.state == stateUnset }

// IsNull reports whether the field was explicitly observed or assigned as null.
func (f Field[T]) IsNull() bool { return f.state == stateNull }

// IsValue reports whether the field holds a concrete value.
func (f Field[T]) IsValue() bool { return f.state == stateValue }

// Get returns the held value and true iff IsValue(); otherwise the zero
// value of T and false.
func (f Field[T]) Get() (T, bool) {
	return f.value, f.state == stateValue
}

// MustGet panics if the field is not in the Value state. Use only where a
// caller has already checked IsValue, e.g. after a schema-validated read.
func (f Field[T]) MustGet() T {
	if f.state != stateValue {
		panic(fmt.Sprintf("field: MustGet called on a %s field", f.stateName()))
	}
	return f.value
}

func (f Field[T]) stateName() string {
	switch f.state {
	case stateUnset:
		return "Unset"
	case stateNull:
		return "Null"
	default:
		return "Value"
	}
}

// Snapshot returns the stable encoding used for dirty comparison and storage
// in an entity's snapshot map: unset.Value for Unset, nil for Null, and the
// raw value for Value. This is the scalar leaf of spec §4.3's "stable
// encoding" — reference-valued fields use Ref/RefList's own Snapshot instead.
func (f Field[T]) Snapshot() interface{} {
	switch f.state {
	case stateUnset:
		return unset.Value
	case stateNull:
		return nil
	default:
		return f.value
	}
}

// Equal reports whether f and other encode to the same snapshot value,
// using reflect.DeepEqual so T may be a slice, map, or struct.
func (f Field[T]) Equal(other Field[T]) bool {
	return reflect.DeepEqual(f.Snapshot(), other.Snapshot())
}

// SetFromRaw assigns f from a raw decoded payload value (typically a
// JSON-shaped string/float64/bool/[]interface{}/map, as a GraphQL transport
// hands back), coercing it to T via reflectutil.Coerce. A nil raw value
// sets Null. The store's generic payload decoder uses this to fill a
// Field[T] it only holds as interface{}, without knowing T.
func (f *Field[T]) SetFromRaw(raw interface{}) error {
	if raw == nil {
		*f = Null[T]()
		return nil
	}
	var zero T
	coerced, err := reflectutil.Coerce(raw, zero)
	if err != nil {
		return fmt.Errorf("field: coercing %v into %T: %w", raw, zero, err)
	}
	tv, ok := coerced.(T)
	if !ok {
		return fmt.Errorf("field: coerced value %v is %T, not %T", coerced, coerced, zero)
	}
	*f = Of(tv)
	return nil
}

// String renders a diagnostic form: "<unset>", "<null>", or fmt's default
// rendering of the held value.
func (f Field[T]) String() string {
	switch f.state {
	case stateUnset:
		return unset.Value.String()
	case stateNull:
		return "<null>"
	default:
		return fmt.Sprintf("%v", f.value)
	}
}
