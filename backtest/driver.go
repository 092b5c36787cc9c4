package backtest

import (
	"context"
	"runtime"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/wqshao/screener/market"
	"github.com/wqshao/screener/portfolio"
	"github.com/wqshao/screener/signal"
	"github.com/wqshao/screener/sim"
)

// Driver fans the runner out across the universe. Workers defaults to
// one per CPU; a nil logger is replaced with a no-op one.
type Driver struct {
	Runner  *Runner
	Workers int
	Log     *zap.Logger
}

// Summary is the whole-universe reduction of a run.
type Summary struct {
	Instruments int
	Skips       map[market.SkipReason]int
	Signals     []signal.Signal
	Trades      []sim.Trade
	Excluded    int
	Stats       portfolio.Stats
	Curve       []portfolio.EquityPoint
}

// Run evaluates every series in parallel and reduces the results in a
// single goroutine once all workers are done, so the summary never
// depends on completion order. The context cancels between
// instruments; a cancelled run returns the context error.
func (d *Driver) Run(ctx context.Context, universe []*market.Series) (Summary, error) {
	log := d.Log
	if log == nil {
		log = zap.NewNop()
	}
	workers := d.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]Result, len(universe))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, s := range universe {
		i, s := i, s
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := d.Runner.Run(s)
			if err != nil {
				log.Error("instrument failed", zap.String("instrument", s.Instrument), zap.Error(err))
				return err
			}
			if res.Skipped() {
				log.Debug("instrument skipped",
					zap.String("instrument", s.Instrument),
					zap.String("reason", string(res.Skip)))
			}
			results[i] = res
			return nil
		})
	}
	err := g.Wait()
	sum := reduce(results)
	if err != nil {
		// Partial reduction over whatever completed before the
		// failure; callers get the error alongside it.
		return sum, err
	}
	log.Info("run complete",
		zap.Int("instruments", sum.Instruments),
		zap.Int("signals", len(sum.Signals)),
		zap.Int("trades", sum.Stats.Trades),
		zap.Int("excluded", sum.Excluded),
		zap.Float64("win_rate", sum.Stats.WinRate))
	return sum, nil
}

func reduce(results []Result) Summary {
	sum := Summary{
		Skips: make(map[market.SkipReason]int),
	}
	for _, res := range results {
		// A zero Result is a slot whose worker never finished.
		if res.Instrument == "" {
			continue
		}
		sum.Instruments++
		if res.Skipped() {
			sum.Skips[res.Skip]++
			continue
		}
		sum.Signals = append(sum.Signals, res.Signals...)
		sum.Trades = append(sum.Trades, res.Trades...)
		sum.Excluded += res.Excluded
	}

	// Stable output order regardless of worker scheduling.
	sort.Slice(sum.Signals, func(i, j int) bool {
		a, b := sum.Signals[i], sum.Signals[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.Instrument < b.Instrument
	})
	sort.Slice(sum.Trades, func(i, j int) bool {
		a, b := sum.Trades[i], sum.Trades[j]
		if !a.EntryDate.Equal(b.EntryDate) {
			return a.EntryDate.Before(b.EntryDate)
		}
		return a.Instrument < b.Instrument
	})

	sum.Stats, sum.Curve = portfolio.Aggregate(sum.Trades)
	return sum
}
