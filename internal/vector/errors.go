package vector

import "errors"

var (
	ErrOutOfRange     = errors.New("index out of range")
	ErrTrustedLength  = errors.New("trusted sequence yielded a different length than promised")
	ErrNotContiguous  = errors.New("vector storage is not contiguous")
	ErrLengthMismatch = errors.New("vector lengths differ")
)
