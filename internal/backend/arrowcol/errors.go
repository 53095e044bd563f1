package arrowcol

import "errors"

var (
	ErrDataType              = errors.New("arrow column has an unexpected data type")
	ErrNullsNotRepresentable = errors.New("arrow column has nulls but its element type has no missing value")
)
