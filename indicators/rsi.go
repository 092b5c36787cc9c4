package indicators

// rsi computes the relative strength index with Wilder smoothing: the
// seed at index w is the simple mean of the first w up-moves and
// down-moves, then both averages decay with factor (w-1)/w. Values are
// NaN for i < w.
//
// A flat window has zero average down-move; RSI is defined as 100 there
// rather than dividing by zero. That covers both the all-gains case and
// the fully flat series.
func rsi(closes []float64, w int) []float64 {
	out := nanSlice(len(closes))
	if w <= 0 || len(closes) <= w {
		return out
	}

	var avgGain, avgLoss float64
	for i := 1; i <= w; i++ {
		d := closes[i] - closes[i-1]
		if d > 0 {
			avgGain += d
		} else {
			avgLoss -= d
		}
	}
	avgGain /= float64(w)
	avgLoss /= float64(w)
	out[w] = rsiValue(avgGain, avgLoss)

	for i := w + 1; i < len(closes); i++ {
		d := closes[i] - closes[i-1]
		gain, loss := 0.0, 0.0
		if d > 0 {
			gain = d
		} else {
			loss = -d
		}
		avgGain = (avgGain*float64(w-1) + gain) / float64(w)
		avgLoss = (avgLoss*float64(w-1) + loss) / float64(w)
		out[i] = rsiValue(avgGain, avgLoss)
	}
	return out
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	return 100 - 100/(1+avgGain/avgLoss)
}
