package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wqshao/screener/indicators"
	"github.com/wqshao/screener/market"
)

func matchAt(t *testing.T, name string, bars []market.Bar, i int) bool {
	t.Helper()
	p, err := New(name, Config{})
	require.NoError(t, err)
	s := testSeries(t, bars)
	cols, err := indicators.Compute(s, p.Specs())
	require.NoError(t, err)
	_, ok := EvaluateAt(p, s, cols, i)
	return ok
}

func risingThreeBars() []market.Bar {
	return []market.Bar{
		{Open: 10.0, High: 11.2, Low: 9.9, Close: 11.0},
		{Open: 10.5, High: 10.9, Low: 10.2, Close: 10.4},
		{Open: 10.4, High: 10.8, Low: 10.15, Close: 10.5},
		{Open: 10.6, High: 10.85, Low: 10.3, Close: 10.5},
		{Open: 10.8, High: 11.35, Low: 10.7, Close: 11.3},
	}
}

func TestRisingThreeMethods(t *testing.T) {
	t.Parallel()

	assert.True(t, matchAt(t, "rising-three-methods", risingThreeBars(), 4))

	// Fifth bar fails to clear the first high.
	weak := risingThreeBars()
	weak[4].Close = 11.1
	assert.False(t, matchAt(t, "rising-three-methods", weak, 4))

	// A middle bar escapes the first body.
	escape := risingThreeBars()
	escape[1].High = 11.5
	assert.False(t, matchAt(t, "rising-three-methods", escape, 4))

	// A hair above the body top still counts as contained.
	graze := risingThreeBars()
	graze[1].High = 11.02
	assert.True(t, matchAt(t, "rising-three-methods", graze, 4))

	// First bar with a weak body is not a base.
	thin := risingThreeBars()
	thin[0].Close = 10.3
	assert.False(t, matchAt(t, "rising-three-methods", thin, 4))
}

func engulfBars() []market.Bar {
	return []market.Bar{
		{Open: 10.0, High: 10.3, Low: 9.9, Close: 10.1},
		{Open: 10.1, High: 10.3, Low: 9.9, Close: 10.0},
		{Open: 10.0, High: 10.3, Low: 9.9, Close: 10.1},
		{Open: 10.8, High: 10.9, Low: 9.7, Close: 9.8},
		{Open: 9.6, High: 9.7, Low: 9.5, Close: 9.65},
		{Open: 9.7, High: 10.7, Low: 9.65, Close: 10.6},
	}
}

func TestBullishEngulfReversal(t *testing.T) {
	t.Parallel()

	assert.True(t, matchAt(t, "bullish-engulf-reversal", engulfBars(), 5))

	// Hesitation bar too large relative to the bearish body.
	big := engulfBars()
	big[4].Close = 10.2
	big[4].High = 10.3
	assert.False(t, matchAt(t, "bullish-engulf-reversal", big, 5))

	// Hesitation bar opens above the bearish close, no gap down.
	gap := engulfBars()
	gap[4].Open = 10.0
	gap[4].High = 10.1
	assert.False(t, matchAt(t, "bullish-engulf-reversal", gap, 5))

	// Final bar fails to reclaim half the bearish body.
	shallow := engulfBars()
	shallow[5].Close = 10.2
	assert.False(t, matchAt(t, "bullish-engulf-reversal", shallow, 5))

	// The bearish bar is not long against the preceding tape.
	tame := engulfBars()
	tame[3].Open = 10.0
	tame[3].Close = 9.85
	assert.False(t, matchAt(t, "bullish-engulf-reversal", tame, 5))
}
