package signal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wqshao/screener/indicators"
	"github.com/wqshao/screener/market"
)

func testSeries(t *testing.T, bars []market.Bar) *market.Series {
	t.Helper()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := range bars {
		bars[i].Date = base.AddDate(0, 0, i)
		if bars[i].Volume == 0 {
			bars[i].Volume = 100
		}
	}
	s := &market.Series{Instrument: "600000", Bars: bars}
	require.NoError(t, s.Validate())
	return s
}

func TestRegistry(t *testing.T) {
	t.Parallel()

	names := Names()
	for _, want := range []string{
		"oversold-reversal",
		"golden-cross-trend",
		"bottom-reversal",
		"momentum-reacceleration",
		"breakout-volume",
		"rising-three-methods",
		"bullish-engulf-reversal",
	} {
		assert.Contains(t, names, want)
	}

	_, err := New("no-such-strategy", Config{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no-such-strategy")
}

func TestEvaluateAtRespectsWarmup(t *testing.T) {
	t.Parallel()

	p, err := New("rising-three-methods", Config{})
	require.NoError(t, err)

	bars := make([]market.Bar, 3)
	for i := range bars {
		bars[i] = market.Bar{Open: 10, High: 10.5, Low: 9.5, Close: 10.1}
	}
	s := testSeries(t, bars)
	cols, err := indicators.Compute(s, p.Specs())
	require.NoError(t, err)

	_, ok := EvaluateAt(p, s, cols, 2)
	assert.False(t, ok, "fewer bars than the formation needs")
}

func TestBreakoutVolumeEndToEnd(t *testing.T) {
	t.Parallel()

	cfg := Config{FastMA: 3, SlowMA: 5, BreakoutN: 4, VolMAShort: 3, BreakoutVolMult: 1.2}
	p, err := New("breakout-volume", cfg)
	require.NoError(t, err)

	// Flat tape, then one wide-range close on triple volume.
	bars := make([]market.Bar, 12)
	for i := range bars {
		bars[i] = market.Bar{Open: 10, High: 10.2, Low: 9.8, Close: 10, Volume: 100}
	}
	bars[11] = market.Bar{Open: 10, High: 12.1, Low: 9.9, Close: 12, Volume: 300}
	s := testSeries(t, bars)

	cols, err := indicators.Compute(s, p.Specs())
	require.NoError(t, err)

	sigs := Evaluate(p, s, cols)
	require.Len(t, sigs, 1)
	assert.Equal(t, s.Bars[11].Date, sigs[0].Date)
	assert.Equal(t, "breakout-volume", sigs[0].Strategy)
	assert.Equal(t, 12.0, sigs[0].EntryPrice)
	assert.Equal(t, "600000", sigs[0].Instrument)
}

// A reversal formation planted at bars 10..12 of a 30-bar tape must
// produce exactly one signal, dated at the completion bar, and nothing
// from the surrounding noise bars.
func TestEngulfReversalSingleSignal(t *testing.T) {
	t.Parallel()

	bars := make([]market.Bar, 30)
	for i := range bars {
		// Small alternating bodies inside a wide range; too small
		// for any formation on their own.
		if i%2 == 0 {
			bars[i] = market.Bar{Open: 10.0, High: 10.6, Low: 9.6, Close: 10.1}
		} else {
			bars[i] = market.Bar{Open: 10.1, High: 10.6, Low: 9.6, Close: 10.0}
		}
	}
	bars[10] = market.Bar{Open: 10.8, High: 10.9, Low: 9.7, Close: 9.8}
	bars[11] = market.Bar{Open: 9.6, High: 9.7, Low: 9.5, Close: 9.65}
	bars[12] = market.Bar{Open: 9.7, High: 10.7, Low: 9.65, Close: 10.6}
	s := testSeries(t, bars)

	p, err := New("bullish-engulf-reversal", Config{})
	require.NoError(t, err)
	cols, err := indicators.Compute(s, p.Specs())
	require.NoError(t, err)

	sigs := Evaluate(p, s, cols)
	require.Len(t, sigs, 1)
	assert.Equal(t, s.Bars[12].Date, sigs[0].Date)
	assert.Equal(t, 10.6, sigs[0].EntryPrice)
}
