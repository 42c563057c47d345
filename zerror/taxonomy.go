package zerror

import "fmt"

// Validation reports that a payload did not satisfy an entity's declared
// field types. Entities failing validation are never cached.
type Validation struct {
	TypeName string
	Field    string
	Cause    error
}

func (e *Validation) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: validation failed: %v", e.TypeName, e.Cause)
	}
	return fmt.Sprintf("%s.%s: validation failed: %v", e.TypeName, e.Field, e.Cause)
}

func (e *Validation) Unwrap() error { return e.Cause }

// TypeMismatch reports that a payload's __typename did not identify the
// target type or one of its declared concrete subtypes.
type TypeMismatch struct {
	Want string
	Got  string
}

func (e *TypeMismatch) Error() string {
	return fmt.Sprintf("expected __typename %s (or a concrete subtype), got %s", e.Want, e.Got)
}

// Transport wraps any error returned by the Transport capability. No cache
// mutation happens for the operation that produced it.
type Transport struct {
	Operation string
	Cause     error
}

func (e *Transport) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.Operation, e.Cause)
}

func (e *Transport) Unwrap() error { return e.Cause }

// Config reports a refused write to a protected configuration path field, or
// an invalid connection configuration. Refused before any transport call.
type Config struct {
	Reason string
}

func (e *Config) Error() string { return "configuration refused: " + e.Reason }

// InvalidIdentifier reports an id that is not a positive integer string in a
// context that requires a numeric id. Refused before any transport call.
type InvalidIdentifier struct {
	ID string
}

func (e *InvalidIdentifier) Error() string {
	return fmt.Sprintf("invalid identifier: %q is not a positive integer string", e.ID)
}

// StrictFilterGap is returned by filter-strict when at least one cached
// entity is missing one or more of the required fields.
type StrictFilterGap struct {
	TypeName string
	ID       string
	Missing  []string
}

func (e *StrictFilterGap) Error() string {
	return fmt.Sprintf("%s %s: missing required fields: %v", e.TypeName, e.ID, e.Missing)
}
