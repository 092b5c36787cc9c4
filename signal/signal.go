// Package signal holds the predicate registry: named, pure entry
// conditions evaluated against bars and indicator columns up to and
// including a decision bar. Predicates never read past the decision
// index; that invariant is what makes the backtest point-in-time.
package signal

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/wqshao/screener/indicators"
	"github.com/wqshao/screener/market"
)

// Signal is a point-in-time enter decision. Immutable once created.
type Signal struct {
	Instrument string
	Date       time.Time
	Strategy   string
	EntryPrice float64 // decision-bar close; the simulator fills here
}

// Window is the evaluation context at decision index I. Offsets into
// the past are non-positive: Bar(0) is the decision bar, Bar(-1) the
// one before it.
type Window struct {
	Series *market.Series
	Cols   *indicators.Columns
	I      int
}

// Bar returns the bar at the given non-positive offset from I.
func (w Window) Bar(off int) market.Bar { return w.Series.Bars[w.I+off] }

// At returns an indicator value at offset off from the decision bar.
func (w Window) At(name string, off int) float64 { return w.Cols.At(name, w.I+off) }

// Defined reports whether all named columns are non-NaN at the decision bar.
func (w Window) Defined(names ...string) bool { return w.Cols.Defined(w.I, names...) }

// DefinedAt is Defined at an offset.
func (w Window) DefinedAt(off int, names ...string) bool {
	return w.Cols.Defined(w.I+off, names...)
}

// Predicate is a named entry condition. Match must only inspect
// Window.Bar/At with non-positive offsets and must return false when
// any required indicator is NaN, never guessing a default.
type Predicate interface {
	Name() string

	// Specs lists the indicator columns Match reads.
	Specs() []indicators.Spec

	// MinBars is the fewest bars that must exist at or before the
	// decision index for Match to be meaningful.
	MinBars() int

	Match(w Window) bool
}

// Constructor builds a predicate from the shared threshold config.
type Constructor func(cfg Config) Predicate

var (
	mu       sync.RWMutex
	registry = make(map[string]Constructor)
)

// Register adds a named predicate constructor. Registration happens in
// package init; duplicate names panic early rather than shadowing.
func Register(name string, ctor Constructor) {
	mu.Lock()
	defer mu.Unlock()
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("signal: duplicate predicate %q", name))
	}
	registry[name] = ctor
}

// New builds the named predicate, or errors listing what is available.
func New(name string, cfg Config) (Predicate, error) {
	mu.RLock()
	ctor, ok := registry[name]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("signal: unknown predicate %q (available: %v)", name, Names())
	}
	return ctor(cfg), nil
}

// Names returns the registered predicate names, sorted.
func Names() []string {
	mu.RLock()
	defer mu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// EvaluateAt runs the predicate at one decision index.
func EvaluateAt(p Predicate, s *market.Series, cols *indicators.Columns, i int) (Signal, bool) {
	if i < p.MinBars()-1 || i >= s.Len() {
		return Signal{}, false
	}
	w := Window{Series: s, Cols: cols, I: i}
	if !p.Match(w) {
		return Signal{}, false
	}
	return Signal{
		Instrument: s.Instrument,
		Date:       s.Bars[i].Date,
		Strategy:   p.Name(),
		EntryPrice: s.Bars[i].Close,
	}, true
}

// Evaluate runs the predicate at every index of the series and returns
// the signals in date order.
func Evaluate(p Predicate, s *market.Series, cols *indicators.Columns) []Signal {
	var out []Signal
	for i := 0; i < s.Len(); i++ {
		if sig, ok := EvaluateAt(p, s, cols, i); ok {
			out = append(out, sig)
		}
	}
	return out
}
