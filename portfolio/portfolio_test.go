package portfolio

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wqshao/screener/sim"
)

func trade(day int, ret float64) sim.Trade {
	d := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, day)
	return sim.Trade{
		Instrument: "600000",
		Strategy:   "test",
		EntryDate:  d,
		EntryPrice: 10,
		ExitDate:   d.AddDate(0, 0, 5),
		ExitPrice:  10 * (1 + ret),
		ExitReason: sim.ExitHorizon,
		ReturnPct:  ret,
	}
}

func TestAggregateBasics(t *testing.T) {
	t.Parallel()

	trades := []sim.Trade{
		trade(0, 0.10),
		trade(1, -0.05),
		trade(2, 0.02),
		trade(3, 0.0), // flat counts as a loser
	}
	st, curve := Aggregate(trades)

	assert.Equal(t, 4, st.Trades)
	assert.Equal(t, 2, st.Winners)
	assert.Equal(t, 2, st.Losers)
	assert.InDelta(t, 0.5, st.WinRate, 1e-12)
	assert.InDelta(t, 0.06, st.AvgWin, 1e-12)
	assert.InDelta(t, -0.025, st.AvgLoss, 1e-12)
	assert.InDelta(t, 0.06/0.025, st.ProfitFactor, 1e-12)
	assert.InDelta(t, 0.0175, st.AvgReturn, 1e-12)

	require.Len(t, curve, 4)
	assert.InDelta(t, 1.10, curve[0].Equity, 1e-12)
	assert.InDelta(t, 1.10*0.95, curve[1].Equity, 1e-12)
	assert.InDelta(t, 1.10*0.95*1.02, curve[2].Equity, 1e-12)
	assert.True(t, curve[0].Date.Before(curve[1].Date))
}

func TestAggregateNoLosers(t *testing.T) {
	t.Parallel()

	st, _ := Aggregate([]sim.Trade{trade(0, 0.1), trade(1, 0.2)})
	assert.True(t, math.IsInf(st.ProfitFactor, 1))
	assert.Equal(t, 0.0, st.AvgLoss)
	assert.Equal(t, 1.0, st.WinRate)
}

func TestAggregateEmpty(t *testing.T) {
	t.Parallel()

	st, curve := Aggregate(nil)
	assert.Equal(t, Stats{}, st)
	assert.Nil(t, curve)
}

func TestAggregateSkipsOpenTrades(t *testing.T) {
	t.Parallel()

	open := trade(5, 0)
	open.ExitReason = sim.ExitInsufficientData
	st, _ := Aggregate([]sim.Trade{trade(0, 0.1), open})
	assert.Equal(t, 1, st.Trades)
	assert.Equal(t, 1, st.Winners)
}

func TestAggregateSameDayEntriesAveraged(t *testing.T) {
	t.Parallel()

	// Both entries on day 0: the curve compounds their mean, once.
	st, curve := Aggregate([]sim.Trade{trade(0, 0.10), trade(0, -0.02)})
	require.Len(t, curve, 1)
	assert.InDelta(t, 1.04, curve[0].Equity, 1e-12)
	assert.Equal(t, 2, st.Trades)
}

func TestAggregateOrderIndependent(t *testing.T) {
	t.Parallel()

	trades := []sim.Trade{
		trade(0, 0.10), trade(1, -0.05), trade(1, 0.03),
		trade(2, 0.02), trade(4, -0.01), trade(7, 0.06),
	}
	want, wantCurve := Aggregate(trades)

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 10; i++ {
		shuffled := append([]sim.Trade(nil), trades...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})
		got, gotCurve := Aggregate(shuffled)
		assert.Equal(t, want, got)
		assert.Equal(t, wantCurve, gotCurve)
	}
}

func TestMaxDrawdown(t *testing.T) {
	t.Parallel()

	// Equity path 1.2, 0.9, 1.5: the 25% dip off the 1.2 peak is the
	// worst excursion.
	st, _ := Aggregate([]sim.Trade{
		trade(0, 0.2),
		trade(1, -0.25),
		trade(2, 2.0/3.0),
	})
	assert.InDelta(t, 0.25, st.MaxDrawdown, 1e-12)
}

func TestSharpeZeroVolatility(t *testing.T) {
	t.Parallel()

	st, _ := Aggregate([]sim.Trade{trade(0, 0.01), trade(1, 0.01)})
	assert.Equal(t, 0.0, st.Sharpe)
	assert.Greater(t, st.Annualized, 0.0)
}
