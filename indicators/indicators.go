// Package indicators derives technical indicator columns from a daily
// bar series. All computations are pure: a value at index i depends on
// bars[0..i] only, and every column carries NaN until its warm-up
// window has elapsed. Requesting a window longer than the available
// history yields an all-NaN column, never an error.
package indicators

import (
	"fmt"
	"math"

	"github.com/wqshao/screener/market"
)

// Kind selects the computation a Spec performs.
type Kind int

const (
	KindSMA Kind = iota
	KindEMA
	KindMACD
	KindRSI
	KindKDJ
	KindHighN
	KindLowN
	KindVolMA
	KindVolRatio
)

// Spec identifies one requested indicator. Multi-output indicators
// (MACD, KDJ) publish several columns from a single spec.
type Spec struct {
	Kind   Kind
	Window int // primary window or span
	Fast   int // MACD fast span; KDJ K smoothing
	Slow   int // MACD slow span; KDJ D smoothing
	Signal int // MACD signal span

	// IncludeCurrent picks the rolling-extrema convention: true takes
	// the extremum over [i-w+1, i] (the decision bar counts), false
	// over [i-w, i-1]. The choice is fixed per predicate because it
	// shifts signal timing by one bar.
	IncludeCurrent bool
}

func SMA(w int) Spec      { return Spec{Kind: KindSMA, Window: w} }
func EMA(span int) Spec   { return Spec{Kind: KindEMA, Window: span} }
func RSI(w int) Spec      { return Spec{Kind: KindRSI, Window: w} }
func VolMA(w int) Spec    { return Spec{Kind: KindVolMA, Window: w} }
func VolRatio(w int) Spec { return Spec{Kind: KindVolRatio, Window: w} }

func MACD(fast, slow, signal int) Spec {
	return Spec{Kind: KindMACD, Fast: fast, Slow: slow, Signal: signal}
}

func KDJ(n, k, d int) Spec {
	return Spec{Kind: KindKDJ, Window: n, Fast: k, Slow: d}
}

func HighN(w int, includeCurrent bool) Spec {
	return Spec{Kind: KindHighN, Window: w, IncludeCurrent: includeCurrent}
}

func LowN(w int, includeCurrent bool) Spec {
	return Spec{Kind: KindLowN, Window: w, IncludeCurrent: includeCurrent}
}

// Name returns the column key for single-output specs and the primary
// column for multi-output ones.
func (s Spec) Name() string {
	switch s.Kind {
	case KindSMA:
		return fmt.Sprintf("SMA(%d)", s.Window)
	case KindEMA:
		return fmt.Sprintf("EMA(%d)", s.Window)
	case KindMACD:
		return s.HistName()
	case KindRSI:
		return fmt.Sprintf("RSI(%d)", s.Window)
	case KindKDJ:
		return s.KName()
	case KindHighN:
		return extremaName("HHV", s.Window, s.IncludeCurrent)
	case KindLowN:
		return extremaName("LLV", s.Window, s.IncludeCurrent)
	case KindVolMA:
		return fmt.Sprintf("VOLMA(%d)", s.Window)
	case KindVolRatio:
		return fmt.Sprintf("VOLR(%d)", s.Window)
	}
	return "?"
}

func extremaName(prefix string, w int, cur bool) string {
	if cur {
		return fmt.Sprintf("%s(%d)", prefix, w)
	}
	return fmt.Sprintf("%s(%d,prev)", prefix, w)
}

// DiffName is the MACD fast-minus-slow EMA line.
func (s Spec) DiffName() string { return fmt.Sprintf("DIFF(%d,%d)", s.Fast, s.Slow) }

// DeaName is the signal line, an EMA of DIFF.
func (s Spec) DeaName() string { return fmt.Sprintf("DEA(%d,%d,%d)", s.Fast, s.Slow, s.Signal) }

// HistName is the histogram, (DIFF-DEA)*2 by the A-share charting convention.
func (s Spec) HistName() string { return fmt.Sprintf("MACD(%d,%d,%d)", s.Fast, s.Slow, s.Signal) }

func (s Spec) KName() string { return fmt.Sprintf("K(%d,%d,%d)", s.Window, s.Fast, s.Slow) }
func (s Spec) DName() string { return fmt.Sprintf("D(%d,%d,%d)", s.Window, s.Fast, s.Slow) }
func (s Spec) JName() string { return fmt.Sprintf("J(%d,%d,%d)", s.Window, s.Fast, s.Slow) }

// Columns holds one float64 column per indicator output, all the same
// length as the source series.
type Columns struct {
	n    int
	cols map[string][]float64
}

// Len returns the series length the columns were computed over.
func (c *Columns) Len() int { return c.n }

// Col returns the named column, or nil when it was not requested.
func (c *Columns) Col(name string) []float64 { return c.cols[name] }

// At returns the value of a column at index i, NaN when the column is
// missing or not yet warmed up.
func (c *Columns) At(name string, i int) float64 {
	col := c.cols[name]
	if col == nil || i < 0 || i >= len(col) {
		return math.NaN()
	}
	return col[i]
}

// Defined reports whether every named column has a non-NaN value at i.
func (c *Columns) Defined(i int, names ...string) bool {
	for _, name := range names {
		if math.IsNaN(c.At(name, i)) {
			return false
		}
	}
	return true
}

// Compute evaluates every requested spec over the series. Duplicate
// specs are computed once. The input series must already be sorted;
// Compute validates and rejects rather than reordering.
func Compute(s *market.Series, specs []Spec) (*Columns, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	c := &Columns{n: s.Len(), cols: make(map[string][]float64)}
	closes := s.Closes()

	for _, spec := range specs {
		if _, done := c.cols[spec.Name()]; done {
			continue
		}
		switch spec.Kind {
		case KindSMA:
			c.cols[spec.Name()] = sma(closes, spec.Window)
		case KindEMA:
			c.cols[spec.Name()] = ema(closes, spec.Window)
		case KindMACD:
			diff, dea, hist := macd(closes, spec.Fast, spec.Slow, spec.Signal)
			c.cols[spec.DiffName()] = diff
			c.cols[spec.DeaName()] = dea
			c.cols[spec.HistName()] = hist
		case KindRSI:
			c.cols[spec.Name()] = rsi(closes, spec.Window)
		case KindKDJ:
			k, d, j := kdj(s.Bars, spec.Window, spec.Fast, spec.Slow)
			c.cols[spec.KName()] = k
			c.cols[spec.DName()] = d
			c.cols[spec.JName()] = j
		case KindHighN:
			c.cols[spec.Name()] = rollingExtrema(s.Bars, spec.Window, spec.IncludeCurrent, true)
		case KindLowN:
			c.cols[spec.Name()] = rollingExtrema(s.Bars, spec.Window, spec.IncludeCurrent, false)
		case KindVolMA:
			c.cols[spec.Name()] = sma(volumes(s.Bars), spec.Window)
		case KindVolRatio:
			c.cols[spec.Name()] = volRatio(s.Bars, spec.Window)
		default:
			return nil, fmt.Errorf("indicators: unknown spec kind %d", spec.Kind)
		}
	}
	return c, nil
}

func volumes(bars []market.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Volume
	}
	return out
}

func nanSlice(n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = math.NaN()
	}
	return out
}
