// journal/journal.go
package journal

import (
	"context"
	"time"

	"github.com/wqshao/screener/portfolio"
	"github.com/wqshao/screener/signal"
	"github.com/wqshao/screener/sim"
)

// Run is one journaled backtest: identity, the configuration that
// produced it, and the aggregate statistics. Signals and trades hang
// off the run id in their own tables.
type Run struct {
	ID         string
	Created    time.Time
	Strategy   string
	ExitPolicy string
	DataDir    string
	Config     []byte // full config, JSON

	Stats portfolio.Stats
}

type Journal interface {
	RecordRun(ctx context.Context, run Run, sigs []signal.Signal, trades []sim.Trade, curve []portfolio.EquityPoint) error
	Close() error
}

// Nop discards everything. Used when journaling is configured off.
type Nop struct{}

func (Nop) RecordRun(context.Context, Run, []signal.Signal, []sim.Trade, []portfolio.EquityPoint) error {
	return nil
}

func (Nop) Close() error { return nil }
