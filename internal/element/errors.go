package element

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	ErrInvalidBool = errors.New("value is neither 0 nor 1 and cannot be cast to bool")
	ErrMissingCast = errors.New("missing value cannot be cast to a type without a missing representation")
	ErrNoMissing   = errors.New("type has no missing representation")
)

func noMissingError(rt reflect.Type) error {
	return fmt.Errorf("%w: %s", ErrNoMissing, rt)
}
