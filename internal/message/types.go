package message

import (
	"fmt"
	"math"
	"time"
)

// DynamicMessage is one feature record with arbitrary fields, as decoded
// from JSON.
type DynamicMessage map[string]any

// Float64 reads key as a number. Absent and null fields read as NaN, which
// the statistics treat as missing. A present value that is not numeric is
// an error.
func (dm DynamicMessage) Float64(key string) (float64, error) {
	val, exists := dm[key]
	if !exists || val == nil {
		return math.NaN(), nil
	}

	switch v := val.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case int32:
		return float64(v), nil
	}
	return math.NaN(), fmt.Errorf("%w: field %q holds %T", ErrNotNumeric, key, val)
}

// HasNonNull reports whether key exists and is not null.
func (dm DynamicMessage) HasNonNull(key string) bool {
	val, exists := dm[key]
	return exists && val != nil
}

var timeFormats = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// Time parses key as a timestamp string.
func (dm DynamicMessage) Time(key string) (time.Time, bool) {
	s, ok := dm[key].(string)
	if !ok {
		return time.Time{}, false
	}
	for _, format := range timeFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FieldSnippet renders a field for log output, truncated to maxLength.
func (dm DynamicMessage) FieldSnippet(fieldName string, maxLength int) string {
	value, exists := dm[fieldName]
	if !exists {
		return "<missing>"
	}
	if maxLength <= 0 {
		return "..."
	}
	s := fmt.Sprintf("%v", value)
	if len(s) > maxLength {
		return s[:maxLength] + "..."
	}
	return s
}
