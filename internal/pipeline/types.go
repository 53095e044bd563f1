package pipeline

import "time"

// AggregationResult is one feature's statistics at a tick. Values holds the
// newest rolling output of every configured statistic; NaN means the
// window had too few valid values.
type AggregationResult struct {
	FeatureName string
	Tick        time.Time
	// LastEvent is the newest message timestamp seen, zero when messages
	// carry none.
	LastEvent time.Time
	Count     int
	NullCount int
	// Received counts messages since the previous result.
	Received int
	Values   map[string]float64
}

// NullRate is NullCount / Count, NaN for an empty history.
func (r AggregationResult) NullRate() float64 {
	if r.Count == 0 {
		return nan
	}
	return float64(r.NullCount) / float64(r.Count)
}
