// Package element defines what a column value is and what "missing" means
// for it. Missing-ness is a property of the value itself: NaN for floats.
// Integers, bools and strings have no missing representation and are always
// valid.
package element

import (
	"math"
	"reflect"
)

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

type Integer interface {
	Signed | Unsigned
}

type Float interface {
	~float32 | ~float64
}

// Number is every type the statistics library accepts as input.
type Number interface {
	Integer | Float
}

// Sortable is every type with a natural total order.
type Sortable interface {
	Number | ~string
}

// Element is every type a vector may hold.
type Element interface {
	Number | ~bool | ~string
}

// IsNone reports whether v is the missing value of its type.
// Only NaN compares unequal to itself, so the check costs one comparison and
// is false for every type without a missing representation.
func IsNone[T Element](v T) bool {
	return v != v
}

// NotNone is the negation of IsNone.
func NotNone[T Element](v T) bool {
	return v == v
}

// Nullable reports whether T has a missing representation.
func Nullable[T Element]() bool {
	switch reflect.TypeFor[T]().Kind() {
	case reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// None returns the missing value of T. It panics with ErrNoMissing when T has
// no missing representation.
func None[T Element]() T {
	rt := reflect.TypeFor[T]()
	switch rt.Kind() {
	case reflect.Float32, reflect.Float64:
		return reflect.ValueOf(math.NaN()).Convert(rt).Interface().(T)
	default:
		panic(noMissingError(rt))
	}
}

// NaN returns the missing value of a float type without reflection.
func NaN[T Float]() T {
	return T(math.NaN())
}

// ToOpt splits v into its value and a validity flag.
func ToOpt[T Element](v T) (T, bool) {
	return v, v == v
}

// FromOpt is the inverse of ToOpt: an invalid value becomes None[T]().
func FromOpt[T Element](v T, ok bool) T {
	if !ok {
		return None[T]()
	}
	return v
}
