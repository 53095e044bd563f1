package dyn

import "errors"

var (
	ErrUnknownKind = errors.New("unknown column kind")
	ErrParse       = errors.New("failed to parse column value")
)
