package stats

import (
	"fmt"
	"slices"

	"github.com/sanspareilsmyn/vecstat/internal/element"
	"github.com/sanspareilsmyn/vecstat/internal/vector"
)

// TypedFunc is a single-input rolling statistic over columns of T.
type TypedFunc[T element.Number] func(v vector.View[T], window int, opts ...Option) (vector.Vec[float64], error)

// Func is a single-input rolling statistic over float64 columns.
type Func = TypedFunc[float64]

// PairFunc is a two-input rolling statistic over float64 columns.
type PairFunc func(a, b vector.View[float64], window int, opts ...Option) (vector.Vec[float64], error)

func table[T element.Number]() map[string]TypedFunc[T] {
	return map[string]TypedFunc[T]{
		"ts_sum":             TsSum[T],
		"ts_vsum":            TsVSum[T],
		"ts_mean":            TsMean[T],
		"ts_vmean":           TsVMean[T],
		"ts_ewm":             TsEwm[T],
		"ts_vewm":            TsVEwm[T],
		"ts_wma":             TsWma[T],
		"ts_vwma":            TsVWma[T],
		"ts_vvar":            TsVVar[T],
		"ts_vstd":            TsVStd[T],
		"ts_vskew":           TsVSkew[T],
		"ts_vkurt":           TsVKurt[T],
		"ts_vzscore":         TsVZScore[T],
		"ts_vmax":            TsVMax[T],
		"ts_vmin":            TsVMin[T],
		"ts_vargmax":         TsVArgMax[T],
		"ts_vargmin":         TsVArgMin[T],
		"ts_vminmaxnorm":     TsVMinMaxNorm[T],
		"ts_vreg":            TsVReg[T],
		"ts_vtsf":            TsVTsf[T],
		"ts_vreg_slope":      TsVRegSlope[T],
		"ts_vreg_intercept":  TsVRegIntercept[T],
		"ts_vreg_resid_mean": TsVRegResidMean[T],
		"ts_vreg_resid_std":  TsVRegResidStd[T],
		"ts_vreg_resid_skew": TsVRegResidSkew[T],
	}
}

var registry = table[float64]()

var pairRegistry = map[string]PairFunc{
	"ts_vcov":  TsVCov[float64, float64],
	"ts_vcorr": TsVCorr[float64, float64],
}

// Lookup returns the single-input statistic registered under name.
func Lookup(name string) (Func, error) {
	f, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStat, name)
	}
	return f, nil
}

// LookupTyped returns the single-input statistic registered under name,
// instantiated for T.
func LookupTyped[T element.Number](name string) (TypedFunc[T], error) {
	f, ok := table[T]()[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStat, name)
	}
	return f, nil
}

// LookupPair returns the two-input statistic registered under name.
func LookupPair(name string) (PairFunc, error) {
	f, ok := pairRegistry[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStat, name)
	}
	return f, nil
}

// IsPair reports whether name is a two-input statistic.
func IsPair(name string) bool {
	_, ok := pairRegistry[name]
	return ok
}

// Names lists every registered statistic, sorted.
func Names() []string {
	names := make([]string, 0, len(registry)+len(pairRegistry))
	for name := range registry {
		names = append(names, name)
	}
	for name := range pairRegistry {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}
