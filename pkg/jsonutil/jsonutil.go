package jsonutil

import (
	"encoding/json"

	"github.com/pkg/errors"
)

// MarshalString marshals the provided value to a JSON string.
func MarshalString[T any](value T) (string, error) {
	buf, err := json.Marshal(value)
	if err != nil {
		return "", errors.Wrapf(err, "marshal %T", value)
	}
	return string(buf), nil
}

// MarshalSliceString marshals a slice to a JSON string, substituting an empty slice when nil.
func MarshalSliceString[T any](values []T) (string, error) {
	if values == nil {
		values = []T{}
	}
	return MarshalString(values)
}

// MarshalOptionalMapString marshals m, rendering a nil map as the empty string.
func MarshalOptionalMapString[K comparable, V any](m map[K]V) (string, error) {
	if m == nil {
		return "", nil
	}
	return MarshalString(m)
}
