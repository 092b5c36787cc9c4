package indicators

import (
	"math"

	"github.com/wqshao/screener/market"
)

// rollingExtrema computes the w-day highest high (high=true) or lowest
// low over either [i-w+1, i] or, with includeCurrent=false, [i-w, i-1].
// The excluding variant is the no-leak form breakout predicates need:
// "close above the 20-day high" is only a breakout if the current bar is
// not part of the 20 days.
func rollingExtrema(bars []market.Bar, w int, includeCurrent, high bool) []float64 {
	out := nanSlice(len(bars))
	if w <= 0 {
		return out
	}

	for i := range bars {
		lo, hi := i-w+1, i
		if !includeCurrent {
			lo, hi = i-w, i-1
		}
		if lo < 0 {
			continue
		}
		ext := math.Inf(-1)
		if !high {
			ext = math.Inf(1)
		}
		for _, b := range bars[lo : hi+1] {
			if high {
				ext = math.Max(ext, b.High)
			} else {
				ext = math.Min(ext, b.Low)
			}
		}
		out[i] = ext
	}
	return out
}

// volRatio is the day's volume over its w-day average volume, the
// original screeners' "量比". NaN until the average is defined or when
// the average is zero (a halted stretch).
func volRatio(bars []market.Bar, w int) []float64 {
	avg := sma(volumes(bars), w)
	out := nanSlice(len(bars))
	for i, b := range bars {
		if math.IsNaN(avg[i]) || avg[i] == 0 {
			continue
		}
		out[i] = b.Volume / avg[i]
	}
	return out
}
