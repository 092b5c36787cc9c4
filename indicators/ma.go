package indicators

import "math"

// sma is a rolling simple mean over w values. NaN until index w-1.
func sma(vals []float64, w int) []float64 {
	out := nanSlice(len(vals))
	if w <= 0 || w > len(vals) {
		return out
	}

	sum := 0.0
	for i, v := range vals {
		sum += v
		if i >= w {
			sum -= vals[i-w]
		}
		if i >= w-1 {
			out[i] = sum / float64(w)
		}
	}
	return out
}

// ema is an exponential moving average with alpha = 2/(span+1), seeded
// with the first value. This is the recursive (adjust=false) convention
// the signal thresholds were tuned against: values are defined from
// index 0 but drift toward the steady state over roughly one span.
func ema(vals []float64, span int) []float64 {
	if span <= 0 {
		return nanSlice(len(vals))
	}
	return ewm(vals, 2.0/float64(span+1))
}

// ewm applies the recursive smoothing v' = alpha*v + (1-alpha)*v' with
// the seed at the first non-NaN input. Leading NaNs stay NaN, which is
// how smoothing chains onto a column with a warm-up window (KDJ's K and
// D, MACD's DEA).
func ewm(vals []float64, alpha float64) []float64 {
	out := nanSlice(len(vals))
	seeded := false
	var prev float64
	for i, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		if !seeded {
			prev = v
			seeded = true
		} else {
			prev = alpha*v + (1-alpha)*prev
		}
		out[i] = prev
	}
	return out
}
