package journal

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wqshao/screener/pkg/id"
	"github.com/wqshao/screener/portfolio"
	"github.com/wqshao/screener/signal"
	"github.com/wqshao/screener/sim"
)

func testRun() (Run, []signal.Signal, []sim.Trade) {
	entry := time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)
	run := Run{
		ID:         id.New(),
		Created:    time.Now().UTC(),
		Strategy:   "breakout-volume",
		ExitPolicy: "fixed_horizon",
		DataDir:    "/data/bars",
		Config:     []byte(`{"strategy":{"name":"breakout-volume"}}`),
		Stats: portfolio.Stats{
			Trades: 2, Winners: 1, Losers: 1, WinRate: 0.5,
			AvgWin: 0.08, AvgLoss: -0.03, AvgReturn: 0.025,
			ProfitFactor: 8.0 / 3.0, Annualized: 1.2, Sharpe: 1.1, MaxDrawdown: 0.03,
		},
	}
	sigs := []signal.Signal{
		{Instrument: "600000", Date: entry, Strategy: "breakout-volume", EntryPrice: 10},
		{Instrument: "000002", Date: entry.AddDate(0, 0, 1), Strategy: "breakout-volume", EntryPrice: 8},
	}
	trades := []sim.Trade{
		{
			Instrument: "600000", Strategy: "breakout-volume",
			EntryDate: entry, EntryPrice: 10,
			ExitDate: entry.AddDate(0, 0, 7), ExitPrice: 10.8,
			ExitReason: sim.ExitHorizon, ReturnPct: 0.08,
		},
		{
			Instrument: "000002", Strategy: "breakout-volume",
			EntryDate: entry.AddDate(0, 0, 1), EntryPrice: 8,
			ExitDate: entry.AddDate(0, 0, 4), ExitPrice: 7.76,
			ExitReason: sim.ExitStopLoss, ReturnPct: -0.03,
		},
	}
	return run, sigs, trades
}

func TestSQLiteRoundTrip(t *testing.T) {
	t.Parallel()

	j, err := NewSQLite(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer j.Close()

	ctx := context.Background()
	run, sigs, trades := testRun()
	require.NoError(t, j.RecordRun(ctx, run, sigs, trades, nil))

	got, err := j.GetRun(ctx, run.ID)
	require.NoError(t, err)
	assert.Equal(t, run.Strategy, got.Strategy)
	assert.Equal(t, run.ExitPolicy, got.ExitPolicy)
	assert.Equal(t, run.Config, got.Config)
	assert.Equal(t, run.Stats, got.Stats)

	gotTrades, err := j.ListTradesByRun(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, gotTrades, 2)
	assert.Equal(t, "600000", gotTrades[0].Instrument)
	assert.Equal(t, sim.ExitStopLoss, gotTrades[1].ExitReason)
	assert.InDelta(t, -0.03, gotTrades[1].ReturnPct, 1e-9)

	gotSigs, err := j.ListSignalsByRun(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, gotSigs, 2)
	assert.Equal(t, 10.0, gotSigs[0].EntryPrice)
}

func TestSQLiteGetRunMissing(t *testing.T) {
	t.Parallel()

	j, err := NewSQLite(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer j.Close()

	_, err = j.GetRun(context.Background(), "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLiteListRunsNewestFirst(t *testing.T) {
	t.Parallel()

	j, err := NewSQLite(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	defer j.Close()

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		run, sigs, trades := testRun()
		run.ID = id.New()
		run.Created = time.Date(2024, 6, 1+i, 0, 0, 0, 0, time.UTC)
		require.NoError(t, j.RecordRun(ctx, run, sigs, trades, nil))
	}

	runs, err := j.ListRuns(ctx, 2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.True(t, runs[0].Created.After(runs[1].Created))
}
