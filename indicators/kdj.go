package indicators

import (
	"math"

	"github.com/wqshao/screener/market"
)

// kdj computes the stochastic oscillator in its A-share form. RSV is
// the percent position of the close inside the rolling n-day high/low
// range; K smooths RSV with alpha 1/m1, D smooths K with alpha 1/m2,
// and J = 3K - 2D, which is unbounded and routinely leaves [0,100].
//
// A zero high-low range (limit-locked or fully flat window) makes RSV 0:
// the close sits on the window low when the range collapses.
func kdj(bars []market.Bar, n, m1, m2 int) (k, d, j []float64) {
	if m1 <= 0 || m2 <= 0 {
		return nanSlice(len(bars)), nanSlice(len(bars)), nanSlice(len(bars))
	}

	rsv := nanSlice(len(bars))
	if n > 0 && n <= len(bars) {
		for i := n - 1; i < len(bars); i++ {
			hi, lo := math.Inf(-1), math.Inf(1)
			for _, b := range bars[i-n+1 : i+1] {
				hi = math.Max(hi, b.High)
				lo = math.Min(lo, b.Low)
			}
			if hi == lo {
				rsv[i] = 0
				continue
			}
			rsv[i] = (bars[i].Close - lo) / (hi - lo) * 100
		}
	}

	k = ewm(rsv, 1/float64(m1))
	d = ewm(k, 1/float64(m2))

	j = nanSlice(len(bars))
	for i := range bars {
		j[i] = 3*k[i] - 2*d[i]
	}
	return k, d, j
}
