package rolling

import "github.com/sanspareilsmyn/vecstat/internal/vector"

// ErrLengthMismatch is returned when paired inputs, or an input and its
// output buffer, differ in length.
var ErrLengthMismatch = vector.ErrLengthMismatch
