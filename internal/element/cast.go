package element

import (
	"fmt"
	"math"
)

// ToF64 widens v to float64. Missing floats stay NaN.
func ToF64[T Number](v T) float64 {
	return float64(v)
}

// FromF64 narrows f to T. NaN becomes the missing value of T, or
// ErrMissingCast when T has none.
func FromF64[T Number](f float64) (T, error) {
	return Cast[T](f)
}

// Cast converts between numeric types, mapping missing to missing.
func Cast[U, T Number](v T) (U, error) {
	if v != v {
		if Nullable[U]() {
			return U(math.NaN()), nil
		}
		var zero U
		return zero, fmt.Errorf("%w: %v", ErrMissingCast, v)
	}
	return U(v), nil
}

// ToBool casts 0 to false and 1 to true. Any other value, missing included,
// is rejected with ErrInvalidBool; it is never truncated.
func ToBool[T Number](v T) (bool, error) {
	switch v {
	case 0:
		return false, nil
	case 1:
		return true, nil
	default:
		return false, fmt.Errorf("%w: %v", ErrInvalidBool, v)
	}
}

// MustToBool is ToBool for callers that treat a non 0/1 value as a bug.
func MustToBool[T Number](v T) bool {
	b, err := ToBool(v)
	if err != nil {
		panic(err)
	}
	return b
}

// FromBool casts false to 0 and true to 1.
func FromBool[T Number](b bool) T {
	if b {
		return 1
	}
	return 0
}
