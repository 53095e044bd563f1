package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/sanspareilsmyn/vecstat/internal/backend/arrowcol"
	"github.com/sanspareilsmyn/vecstat/internal/backend/dense"
	"github.com/sanspareilsmyn/vecstat/internal/dyn"
	"github.com/sanspareilsmyn/vecstat/internal/stats"
	"github.com/sanspareilsmyn/vecstat/internal/vector"
)

var (
	ErrUnknownBackend = errors.New("unknown backend")
	ErrBackendKind    = errors.New("backend only holds float64 columns")
	ErrPairLine       = errors.New("two-input statistics need 'a,b' lines")
)

// request is one compute invocation.
type request struct {
	stat       string
	window     int
	minPeriods int
	dtype      string
	backend    string
	q          float64
	method     string
	pct        bool
	desc       bool
}

type seriesOutput struct {
	Stat   string     `json:"stat"`
	Window int        `json:"window,omitempty"`
	Values []*float64 `json:"values"`
}

type scalarOutput struct {
	Stat  string   `json:"stat"`
	Q     float64  `json:"q"`
	Value *float64 `json:"value"`
}

var req request

var computeCmd = &cobra.Command{
	Use:   "compute <stat> [file]",
	Short: "Compute a statistic over a column read one value per line",
	Long: `Reads one value per line from file, or stdin when no file is given, and
prints the result as JSON. Empty lines, "nan" and "null" are missing.
Missing and infinite results print as null.
Two-input statistics read "a,b" lines. Besides the rolling statistics
listed by 'vecstat stats', "quantile", "median" and "rank" are accepted.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		r := req
		r.stat = args[0]
		if !cmd.Flags().Changed("min-periods") {
			r.minPeriods = -1
		}
		in := io.Reader(os.Stdin)
		if len(args) == 2 {
			f, err := os.Open(args[1])
			if err != nil {
				return err
			}
			defer f.Close()
			in = f
		}
		return compute(in, cmd.OutOrStdout(), r)
	},
}

func init() {
	f := computeCmd.Flags()
	f.IntVar(&req.window, "window", 10, "rolling window length")
	f.IntVar(&req.minPeriods, "min-periods", 0, "valid values a window needs (default: per statistic)")
	f.StringVar(&req.dtype, "dtype", "float64", "element type: float64, float32, int64 or int32")
	f.StringVar(&req.backend, "backend", "heap", "storage backend: heap, dense or arrow")
	f.Float64Var(&req.q, "q", 0.5, "quantile level in [0, 1]")
	f.StringVar(&req.method, "method", "linear", "quantile interpolation: linear, lower, higher or midpoint")
	f.BoolVar(&req.pct, "pct", false, "rank as a fraction of the valid count")
	f.BoolVar(&req.desc, "desc", false, "rank in descending order")
	rootCmd.AddCommand(computeCmd)
}

func compute(in io.Reader, out io.Writer, r request) error {
	lines, err := readLines(in)
	if err != nil {
		return err
	}
	kind, err := dyn.ParseKind(r.dtype)
	if err != nil {
		return err
	}

	var opts []stats.Option
	if r.minPeriods >= 0 {
		opts = append(opts, stats.WithMinPeriods(r.minPeriods))
	}

	enc := json.NewEncoder(out)
	switch {
	case r.stat == "quantile" || r.stat == "median":
		col, release, err := column(kind, r.backend, lines)
		if err != nil {
			return err
		}
		defer release()
		q, method := r.q, stats.Linear
		if r.stat == "quantile" {
			if method, err = stats.ParseMethod(r.method); err != nil {
				return err
			}
		} else {
			q = 0.5
		}
		v, err := col.Quantile(q, method)
		if err != nil {
			return err
		}
		return enc.Encode(scalarOutput{Stat: r.stat, Q: q, Value: nullable(v)})

	case r.stat == "rank":
		col, release, err := column(kind, r.backend, lines)
		if err != nil {
			return err
		}
		defer release()
		ranks, err := col.Rank(r.pct, r.desc)
		if err != nil {
			return err
		}
		return enc.Encode(seriesOutput{Stat: r.stat, Values: nullables(ranks)})

	case stats.IsPair(r.stat):
		left, right, err := splitPairs(lines)
		if err != nil {
			return err
		}
		a, releaseA, err := column(kind, r.backend, left)
		if err != nil {
			return err
		}
		defer releaseA()
		b, releaseB, err := column(kind, r.backend, right)
		if err != nil {
			return err
		}
		defer releaseB()
		res, err := a.Rolling2(r.stat, b, r.window, opts...)
		if err != nil {
			return err
		}
		return enc.Encode(seriesOutput{Stat: r.stat, Window: r.window, Values: nullables(res)})

	default:
		col, release, err := column(kind, r.backend, lines)
		if err != nil {
			return err
		}
		defer release()
		res, err := col.Rolling(r.stat, r.window, opts...)
		if err != nil {
			return err
		}
		return enc.Encode(seriesOutput{Stat: r.stat, Window: r.window, Values: nullables(res)})
	}
}

func readLines(in io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(in)
	for sc.Scan() {
		lines = append(lines, sc.Text())
	}
	return lines, sc.Err()
}

func splitPairs(lines []string) (left, right []string, err error) {
	left = make([]string, len(lines))
	right = make([]string, len(lines))
	for i, line := range lines {
		a, b, ok := strings.Cut(line, ",")
		if !ok {
			return nil, nil, fmt.Errorf("%w: line %d", ErrPairLine, i+1)
		}
		left[i], right[i] = a, b
	}
	return left, right, nil
}

// column parses fields and moves them onto the requested backend. release
// frees backend memory and is always safe to call.
func column(kind dyn.Kind, backend string, fields []string) (dyn.Column, func(), error) {
	noop := func() {}
	col, err := dyn.Parse(kind, fields)
	if err != nil {
		return dyn.Column{}, noop, err
	}

	switch backend {
	case "heap":
		return col, noop, nil
	case "dense", "arrow":
		if kind != dyn.KindFloat64 {
			return dyn.Column{}, noop, fmt.Errorf("%w: %s, got %s", ErrBackendKind, backend, kind)
		}
	default:
		return dyn.Column{}, noop, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}

	values := vector.TrustedValues(col.Float64())
	if backend == "dense" {
		v, err := dense.Builder{}.CollectTrusted(values)
		if err != nil {
			return dyn.Column{}, noop, err
		}
		return dyn.Float64(v), noop, nil
	}
	c, err := arrowcol.Float64Builder{}.CollectTrusted(values)
	if err != nil {
		return dyn.Column{}, noop, err
	}
	return dyn.Float64(c), c.Release, nil
}

// nullable maps NaN and ±Inf to JSON null; JSON has no literal for either.
func nullable(x float64) *float64 {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return nil
	}
	return &x
}

func nullables(v vector.Vec[float64]) []*float64 {
	out := make([]*float64, len(v))
	for i, x := range v {
		out[i] = nullable(x)
	}
	return out
}
