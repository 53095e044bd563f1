package stats

import "errors"

var (
	ErrQuantileRange = errors.New("quantile must be within [0, 1]")
	ErrUnknownMethod = errors.New("unknown quantile method")
	ErrUnknownStat   = errors.New("unknown statistic")
)
