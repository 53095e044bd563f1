package stats

import (
	"math"
	"math/rand"
	"slices"
	"testing"

	mstats "github.com/montanaflynn/stats"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/stat"

	"github.com/sanspareilsmyn/vecstat/internal/vector"
)

func TestNullSkip(t *testing.T) {
	v := vector.Vec[float64]{1, nan, 3}

	sum, err := TsVSum[float64](v, 3, WithMinPeriods(1))
	require.NoError(t, err)
	assert.Equal(t, vector.Vec[float64]{1, 1, 4}, sum)

	mean, err := TsVMean[float64](v, 3, WithMinPeriods(1))
	require.NoError(t, err)
	assert.Equal(t, vector.Vec[float64]{1, 1, 2}, mean)

	plain, err := TsSum[float64](v, 3, WithMinPeriods(1))
	require.NoError(t, err)
	assert.Equal(t, 1.0, plain[0])
	assert.True(t, math.IsNaN(plain[1]) && math.IsNaN(plain[2]))
}

// A missing value makes only the windows holding it missing.
func TestPlainRecoversAfterMissing(t *testing.T) {
	v := vector.Vec[float64]{1, nan, 3, 4, 5, 6}

	sum, err := TsSum[float64](v, 2, WithMinPeriods(1))
	require.NoError(t, err)
	closeTo(t, []float64{1, nan, nan, 7, 9, 11}, sum, 0)

	mean, err := TsMean[float64](v, 2, WithMinPeriods(1))
	require.NoError(t, err)
	closeTo(t, []float64{1, nan, nan, 3.5, 4.5, 5.5}, mean, 1e-12)

	wma, err := TsWma[float64](v, 2, WithMinPeriods(1))
	require.NoError(t, err)
	closeTo(t, []float64{1, nan, nan, 11.0 / 3, 14.0 / 3, 17.0 / 3}, wma, 1e-12)

	ewm, err := TsEwm[float64](v, 2, WithMinPeriods(1))
	require.NoError(t, err)
	closeTo(t, []float64{1, nan, nan, 4, 5, 6}, ewm, 1e-12)

	ewm, err = TsEwm[float64](append(v, 7), 3, WithMinPeriods(1))
	require.NoError(t, err)
	assert.True(t, math.IsNaN(ewm[3]))
	assert.InDelta(t, ewmOf([]float64{4, 5, 6}, 3), ewm[5], 1e-12)
	assert.InDelta(t, ewmOf([]float64{5, 6, 7}, 3), ewm[6], 1e-12)
}

func TestInfinityLeavesWindow(t *testing.T) {
	inf := math.Inf(1)
	v := vector.Vec[float64]{1, inf, 3, 4, 5, 6}

	sum, err := TsVSum[float64](v, 2, WithMinPeriods(1))
	require.NoError(t, err)
	assert.Equal(t, vector.Vec[float64]{1, inf, inf, 7, 9, 11}, sum)

	sum, err = TsSum[float64](v, 2, WithMinPeriods(1))
	require.NoError(t, err)
	assert.Equal(t, vector.Vec[float64]{1, inf, inf, 7, 9, 11}, sum)

	mean, err := TsVMean[float64](v, 2, WithMinPeriods(1))
	require.NoError(t, err)
	assert.Equal(t, vector.Vec[float64]{1, inf, inf, 3.5, 4.5, 5.5}, mean)

	wma, err := TsVWma[float64](v, 2, WithMinPeriods(1))
	require.NoError(t, err)
	closeTo(t, []float64{1, inf, inf, 11.0 / 3, 14.0 / 3, 17.0 / 3}, wma, 1e-12)

	variance, err := TsVVar[float64](v, 2)
	require.NoError(t, err)
	closeTo(t, []float64{nan, nan, nan, 0.5, 0.5, 0.5}, variance, 1e-12)

	slope, err := TsVRegSlope[float64](v, 3)
	require.NoError(t, err)
	closeTo(t, []float64{nan, nan, nan, nan, 1, 1}, slope, 1e-12)

	// Only the newest element carries weight in a window of 2.
	ewm, err := TsVEwm[float64](vector.Vec[float64]{inf, 5, 6}, 2, WithMinPeriods(1))
	require.NoError(t, err)
	assert.Equal(t, vector.Vec[float64]{inf, 5, 6}, ewm)

	ewm, err = TsVEwm[float64](vector.Vec[float64]{inf, 5, 6, 7}, 3, WithMinPeriods(1))
	require.NoError(t, err)
	assert.Equal(t, vector.Vec[float64]{inf, inf, inf}, ewm[:3])
	assert.InDelta(t, ewmOf([]float64{5, 6, 7}, 3), ewm[3], 1e-12)
}

func TestOpposingInfinities(t *testing.T) {
	inf := math.Inf(1)
	v := vector.Vec[float64]{inf, -inf, 1, 2}

	sum, err := TsVSum[float64](v, 2, WithMinPeriods(1))
	require.NoError(t, err)
	closeTo(t, []float64{inf, nan, -inf, 3}, sum, 0)

	ewm, err := TsVEwm[float64](v, 3, WithMinPeriods(1))
	require.NoError(t, err)
	closeTo(t, []float64{inf, nan, nan, -inf}, ewm, 0)
}

func TestPairWithInfinity(t *testing.T) {
	a := vector.Vec[float64]{1, 2, math.Inf(1), 4, 5, 6}
	b := vector.Vec[float64]{2, 4, 6, 8, 10, 12}

	cov, err := TsVCov[float64, float64](a, b, 2)
	require.NoError(t, err)
	closeTo(t, []float64{nan, 1, nan, nan, 1, 1}, cov, 1e-12)

	corr, err := TsVCorr[float64, float64](a, b, 2)
	require.NoError(t, err)
	closeTo(t, []float64{nan, 1, nan, nan, 1, 1}, corr, 1e-9)
}

func TestMinPeriodsBoundary(t *testing.T) {
	v := vector.Vec[float64]{1, 2, 3, 4}

	got, err := TsVMean[float64](v, 4)
	require.NoError(t, err)
	closeTo(t, []float64{nan, 1.5, 2, 2.5}, got, 0)

	got, err = TsVMean[float64](v, 4, WithMinPeriods(4))
	require.NoError(t, err)
	closeTo(t, []float64{nan, nan, nan, 2.5}, got, 0)

	// Above the window it is clamped down to the window.
	got, err = TsVMean[float64](v, 2, WithMinPeriods(10))
	require.NoError(t, err)
	closeTo(t, []float64{nan, 1.5, 2.5, 3.5}, got, 0)

	// Below the statistic's floor it is raised.
	got, err = TsVVar[float64](v, 4, WithMinPeriods(0))
	require.NoError(t, err)
	closeTo(t, []float64{nan, 0.5, 1, 5.0 / 3}, got, 1e-12)

	// A window longer than the column is clamped before the default is taken.
	got, err = TsVMean[float64](v, 100)
	require.NoError(t, err)
	closeTo(t, []float64{nan, 1.5, 2, 2.5}, got, 0)
}

func TestEwmValues(t *testing.T) {
	got, err := TsVEwm[float64](vector.Vec[float64]{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)
	closeTo(t, []float64{1, 1.75, 68.0 / 26, 94.0 / 26, 120.0 / 26}, got, 1e-12)
}

func TestPlainMatchesValidWithoutMissing(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	v := make(vector.Vec[float64], 40)
	for i := range v {
		v[i] = rng.NormFloat64()
	}
	for _, window := range []int{1, 3, 8, 50} {
		a, err := TsEwm[float64](v, window)
		require.NoError(t, err)
		b, err := TsVEwm[float64](v, window)
		require.NoError(t, err)
		closeTo(t, a, b, 0, "ewm window=%d", window)

		a, err = TsWma[float64](v, window)
		require.NoError(t, err)
		b, err = TsVWma[float64](v, window)
		require.NoError(t, err)
		closeTo(t, a, b, 0, "wma window=%d", window)

		a, err = TsMean[float64](v, window)
		require.NoError(t, err)
		b, err = TsVMean[float64](v, window)
		require.NoError(t, err)
		closeTo(t, a, b, 0, "mean window=%d", window)
	}
}

func TestWma(t *testing.T) {
	got, err := TsWma[float64](vector.Vec[float64]{1, 2, 3, 4}, 3, WithMinPeriods(1))
	require.NoError(t, err)
	// The last window [2, 3, 4] weighs 2·1 + 3·2 + 4·3 = 20 over 1+2+3.
	closeTo(t, []float64{1, 5.0 / 3, 14.0 / 6, 20.0 / 6}, got, 1e-12)
}

func TestArgMaxTies(t *testing.T) {
	got, err := TsVArgMax[float64](vector.Vec[float64]{5, 1, 5, 0}, 2)
	require.NoError(t, err)
	assert.Equal(t, vector.Vec[float64]{1, 1, 2, 1}, got)

	got, err = TsVArgMin[float64](vector.Vec[float64]{2, 2, nan, 2}, 3)
	require.NoError(t, err)
	assert.Equal(t, vector.Vec[float64]{1, 1, 1, 1}, got)
}

func TestExtremumRescan(t *testing.T) {
	// The maximum leaves the window at every step of a decreasing run.
	v := vector.Vec[float64]{9, 8, 7, nan, 6, 5, 10, 1}
	got, err := TsVMax[float64](v, 3, WithMinPeriods(1))
	require.NoError(t, err)
	assert.Equal(t, vector.Vec[float64]{9, 9, 9, 8, 7, 6, 10, 10}, got)

	got, err = TsVMin[float64](v, 3, WithMinPeriods(1))
	require.NoError(t, err)
	assert.Equal(t, vector.Vec[float64]{9, 8, 7, 7, 6, 5, 5, 1}, got)
}

func TestDegenerateWindows(t *testing.T) {
	v := vector.Vec[float64]{4, 4, 4, 4}

	variance, err := TsVVar[float64](v, 3)
	require.NoError(t, err)
	closeTo(t, []float64{nan, 0, 0, 0}, variance, 0)

	z, err := TsVZScore[float64](v, 3)
	require.NoError(t, err)
	closeTo(t, []float64{nan, nan, nan, nan}, z, 0)

	norm, err := TsVMinMaxNorm[float64](v, 3)
	require.NoError(t, err)
	closeTo(t, []float64{nan, nan, nan, nan}, norm, 0)

	corr, err := TsVCorr[float64, float64](v, vector.Vec[float64]{1, 2, 3, 4}, 3)
	require.NoError(t, err)
	closeTo(t, []float64{nan, nan, nan, nan}, corr, 0)

	cov, err := TsVCov[float64, float64](v, vector.Vec[float64]{1, 2, 3, 4}, 3)
	require.NoError(t, err)
	closeTo(t, []float64{nan, 0, 0, 0}, cov, 1e-12)
}

func TestRegressionOnLine(t *testing.T) {
	v := vector.Vec[float64]{3, 5, 7, 9, 11}

	slope, err := TsVRegSlope[float64](v, 3)
	require.NoError(t, err)
	closeTo(t, []float64{nan, 2, 2, 2, 2}, slope, 1e-12)

	intercept, err := TsVRegIntercept[float64](v, 3)
	require.NoError(t, err)
	closeTo(t, []float64{nan, 1, 1, 3, 5}, intercept, 1e-12)

	fitted, err := TsVReg[float64](v, 3)
	require.NoError(t, err)
	closeTo(t, []float64{nan, 5, 7, 9, 11}, fitted, 1e-12)

	forecast, err := TsVTsf[float64](v, 3)
	require.NoError(t, err)
	closeTo(t, []float64{nan, 7, 9, 11, 13}, forecast, 1e-12)

	resid, err := TsVRegResidStd[float64](v, 3)
	require.NoError(t, err)
	closeTo(t, []float64{nan, 0, 0, 0, 0}, resid, 1e-9)
}

func TestIntegerColumns(t *testing.T) {
	ints := vector.Vec[int32]{1, 2, 3, 4, 5}
	floats := vector.Vec[float64]{1, 2, 3, 4, 5}

	a, err := TsVStd[int32](ints, 3)
	require.NoError(t, err)
	b, err := TsVStd[float64](floats, 3)
	require.NoError(t, err)
	assert.Equal(t, b, a)

	c, err := TsVCorr[int32, float64](ints, floats, 4)
	require.NoError(t, err)
	closeTo(t, []float64{nan, 1, 1, 1, 1}, c, 1e-12)
}

func TestWithOut(t *testing.T) {
	v := vector.Vec[float64]{1, 2, 3}
	out := make(vector.Vec[float64], 3)
	got, err := TsVSum[float64](v, 2, WithOut(out), WithMinPeriods(1))
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, vector.Vec[float64]{1, 3, 5}, out)

	_, err = TsVMax[float64](v, 2, WithOut(make(vector.Vec[float64], 2)))
	assert.ErrorIs(t, err, vector.ErrLengthMismatch)

	_, err = TsVCov[float64, float64](v, v[:2], 2)
	assert.ErrorIs(t, err, vector.ErrLengthMismatch)
}

func TestEmptyAndZeroWindow(t *testing.T) {
	for _, name := range Names() {
		if IsPair(name) {
			f, err := LookupPair(name)
			require.NoError(t, err)
			got, err := f(vector.Vec[float64]{}, vector.Vec[float64]{}, 3)
			require.NoError(t, err)
			assert.Empty(t, got, name)
			continue
		}
		f, err := Lookup(name)
		require.NoError(t, err)
		got, err := f(vector.Vec[float64]{}, 3)
		require.NoError(t, err)
		assert.Empty(t, got, name)

		got, err = f(vector.Vec[float64]{1, 2, 3}, 0)
		require.NoError(t, err)
		assert.Empty(t, got, name)
	}
}

func TestAggregates(t *testing.T) {
	v := vector.Vec[float64]{2, nan, 4, 9, nan}
	valid := []float64{2, 4, 9}

	assert.Equal(t, 15.0, VSum[float64](v))
	assert.InDelta(t, stat.Mean(valid, nil), VMean[float64](v), 1e-12)
	assert.InDelta(t, stat.Variance(valid, nil), VVar[float64](v), 1e-12)

	assert.True(t, math.IsNaN(VMean[float64](vector.Vec[float64]{nan})))
	assert.True(t, math.IsNaN(VVar[float64](vector.Vec[float64]{1})))
	assert.Equal(t, 0.0, VSum[float64](vector.Vec[float64]{}))
}

func TestQuantile(t *testing.T) {
	v := vector.Vec[float64]{7, 3, nan, 10, 1, 5, 2, 9, 4, 8, 6, nan}

	cases := []struct {
		q      float64
		method Method
		want   float64
	}{
		{0.5, Linear, 5.5},
		{0.5, Lower, 5},
		{0.5, Higher, 6},
		{0.5, MidPoint, 5.5},
		{0.25, Linear, 3.25},
		{0.75, Linear, 7.75},
		{0, Linear, 1},
		{1, Linear, 10},
		{1, Higher, 10},
	}
	for _, tc := range cases {
		got, err := VQuantile[float64](slices.Clone(v), tc.q, tc.method)
		require.NoError(t, err)
		assert.InDelta(t, tc.want, got, 1e-12, "q=%v method=%v", tc.q, tc.method)
	}

	_, err := VQuantile[float64](v, 1.5, Linear)
	assert.ErrorIs(t, err, ErrQuantileRange)
	_, err = VQuantile[float64](v, nan, Linear)
	assert.ErrorIs(t, err, ErrQuantileRange)
	_, err = VQuantile[float64](v, 0.5, Method(42))
	assert.ErrorIs(t, err, ErrUnknownMethod)

	got, err := VQuantile[float64](vector.Vec[float64]{nan, nan}, 0.5, Linear)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(got))

	before := slices.Clone(v)
	assert.Equal(t, 5.5, VMedian[float64](v))
	closeTo(t, before, v, 0, "input is not reordered")
}

func TestQuantileMatchesSort(t *testing.T) {
	rng := rand.New(rand.NewSource(5))
	for trial := 0; trial < 50; trial++ {
		n := 1 + rng.Intn(40)
		v := make(vector.Vec[int64], n)
		for i := range v {
			v[i] = int64(rng.Intn(8)) // plenty of ties
		}
		sorted := slices.Clone([]int64(v))
		slices.Sort(sorted)

		q := rng.Float64()
		pos := q * float64(n-1)
		lo := int(math.Floor(pos))
		hi := min(lo+1, n-1)
		if float64(lo) == pos {
			hi = lo
		}

		lower, err := VQuantile[int64](v, q, Lower)
		require.NoError(t, err)
		higher, err := VQuantile[int64](v, q, Higher)
		require.NoError(t, err)
		assert.Equal(t, float64(sorted[lo]), lower, "trial %d", trial)
		assert.Equal(t, float64(sorted[hi]), higher, "trial %d", trial)
	}
}

func TestMedianMatchesReference(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	for _, n := range []int{1, 2, 7, 64} {
		v := randomColumn(rng, n)
		valid := validOf(v)
		if len(valid) == 0 {
			continue
		}
		want, err := mstats.Median(valid)
		require.NoError(t, err)
		assert.InDelta(t, want, VMedian[float64](v), 1e-12, "n=%d", n)

		if len(valid) > 1 {
			wantVar, err := mstats.SampleVariance(valid)
			require.NoError(t, err)
			assert.InDelta(t, wantVar, VVar[float64](v), 1e-9, "n=%d", n)
		}
	}
}

func TestRank(t *testing.T) {
	v := vector.Vec[float64]{2, 1, nan, 3, 1}

	got, err := VRank[float64](v, false, false)
	require.NoError(t, err)
	closeTo(t, []float64{3, 1.5, nan, 4, 1.5}, got, 0)

	got, err = VRank[float64](v, true, false)
	require.NoError(t, err)
	closeTo(t, []float64{0.75, 0.375, nan, 1, 0.375}, got, 1e-12)

	got, err = VRank[float64](v, false, true)
	require.NoError(t, err)
	closeTo(t, []float64{2, 3.5, nan, 1, 3.5}, got, 0)

	out := make(vector.Vec[float64], 5)
	got, err = VRank[float64](v, false, false, WithOut(out))
	require.NoError(t, err)
	assert.Nil(t, got)
	assert.Equal(t, 4.0, out[3])

	_, err = VRank[float64](v, false, false, WithOut(make(vector.Vec[float64], 1)))
	assert.ErrorIs(t, err, vector.ErrLengthMismatch)
}

func TestPartition(t *testing.T) {
	v := vector.Vec[float64]{5, nan, 1, 4, 2, 3}

	got, err := VPartition[float64](v, 2, true, false)
	require.NoError(t, err)
	assert.Equal(t, vector.Vec[float64]{1, 2, 3}, got)

	got, err = VPartition[float64](v, 2, true, true)
	require.NoError(t, err)
	assert.Equal(t, vector.Vec[float64]{5, 4, 3}, got)

	got, err = VPartition[float64](v, 1, false, false)
	require.NoError(t, err)
	assert.ElementsMatch(t, []float64{1, 2}, []float64(got))

	_, err = VPartition[float64](v, 5, false, false)
	assert.ErrorIs(t, err, vector.ErrOutOfRange)
	_, err = VPartition[float64](v, -1, false, false)
	assert.ErrorIs(t, err, vector.ErrOutOfRange)
}

func TestRegistry(t *testing.T) {
	names := Names()
	assert.True(t, slices.IsSorted(names))
	assert.Contains(t, names, "ts_vcorr")
	assert.Contains(t, names, "ts_vreg_resid_skew")
	assert.Len(t, names, 27)

	assert.True(t, IsPair("ts_vcov"))
	assert.False(t, IsPair("ts_vmean"))

	_, err := Lookup("ts_nope")
	assert.ErrorIs(t, err, ErrUnknownStat)
	_, err = Lookup("ts_vcov")
	assert.ErrorIs(t, err, ErrUnknownStat, "pair statistics are not single-input")
	_, err = LookupPair("ts_vmean")
	assert.ErrorIs(t, err, ErrUnknownStat)

	f, err := LookupTyped[int64]("ts_vmax")
	require.NoError(t, err)
	got, err := f(vector.Vec[int64]{3, 1, 2}, 2)
	require.NoError(t, err)
	assert.Equal(t, vector.Vec[float64]{3, 3, 2}, got)

	m, err := ParseMethod("midpoint")
	require.NoError(t, err)
	assert.Equal(t, MidPoint, m)
	assert.Equal(t, "higher", Higher.String())
	_, err = ParseMethod("nearest")
	assert.ErrorIs(t, err, ErrUnknownMethod)
}
