// Package backtest runs the signal pipeline over a universe of
// instruments: admission filter, indicator computation, predicate
// evaluation, trade simulation, then a single aggregate.
package backtest

import (
	"fmt"

	"github.com/wqshao/screener/indicators"
	"github.com/wqshao/screener/market"
	"github.com/wqshao/screener/signal"
	"github.com/wqshao/screener/sim"
)

// Runner evaluates one strategy/policy pair against single
// instruments. It is stateless and safe to share across workers.
type Runner struct {
	Predicate signal.Predicate
	Policy    sim.ExitPolicy
	Universe  market.UniverseFilter
}

// Result is the per-instrument outcome. Skipped instruments carry a
// reason and nothing else; Excluded counts trades the simulator could
// not close.
type Result struct {
	Instrument string
	Skip       market.SkipReason
	Signals    []signal.Signal
	Trades     []sim.Trade
	Excluded   int
}

// Skipped reports whether the instrument never entered the pipeline.
func (r Result) Skipped() bool { return r.Skip != market.SkipNone }

// Run pushes one series through the pipeline. Filter rejections and
// short or malformed histories come back as skips, not errors; errors
// are reserved for conditions the caller cannot attribute to the data.
func (r *Runner) Run(s *market.Series) (Result, error) {
	res := Result{Instrument: s.Instrument}

	if err := s.Validate(); err != nil {
		res.Skip = market.SkipBadData
		return res, nil
	}
	if reason := r.Universe.Check(s); reason != market.SkipNone {
		res.Skip = reason
		return res, nil
	}
	if s.Len() < r.Predicate.MinBars() {
		res.Skip = market.SkipShortHistory
		return res, nil
	}

	cols, err := indicators.Compute(s, r.Predicate.Specs())
	if err != nil {
		return Result{}, fmt.Errorf("compute %s: %w", s.Instrument, err)
	}

	res.Signals = signal.Evaluate(r.Predicate, s, cols)
	if len(res.Signals) == 0 {
		return res, nil
	}

	res.Trades, err = sim.SimulateAll(res.Signals, s, r.Policy)
	if err != nil {
		return Result{}, fmt.Errorf("simulate %s: %w", s.Instrument, err)
	}
	for _, t := range res.Trades {
		if !t.Closed() {
			res.Excluded++
		}
	}
	return res, nil
}
