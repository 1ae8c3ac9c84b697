// Package code holds the closed enumerations of the scheduler's domain.
// Every member has a storage code, the value persisted in the metadata
// store, and a wire code, the value the HTTP API expects in forms.
package code

import (
	"errors"
	"fmt"
)

// ErrNoSuchCode is matched by every LookupError.
var ErrNoSuchCode = errors.New("no such enumeration value")

// LookupError reports a storage code with no matching member.
type LookupError struct {
	Enum  string
	Value any
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%v is not a valid %s value", e.Value, e.Enum)
}

func (e *LookupError) Is(target error) bool {
	return target == ErrNoSuchCode
}

type member[S comparable] interface {
	comparable
	Storage() S
}

// lookup returns the first member whose storage code equals v.
func lookup[S comparable, T member[S]](enum string, members []T, v S) (T, error) {
	for _, m := range members {
		if m.Storage() == v {
			return m, nil
		}
	}
	var zero T
	return zero, &LookupError{Enum: enum, Value: v}
}

type wired interface {
	comparable
	Wire() string
}

// parseWire returns the first member whose wire code equals s.
func parseWire[T wired](enum string, members []T, s string) (T, error) {
	for _, m := range members {
		if m.Wire() == s {
			return m, nil
		}
	}
	var zero T
	return zero, &LookupError{Enum: enum, Value: s}
}
