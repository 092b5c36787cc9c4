package indicators

// macd returns the DIFF line (fast EMA minus slow EMA), the DEA signal
// line (EMA of DIFF over the signal span) and the histogram. The
// histogram is (DIFF-DEA)*2, matching the doubled-bar convention of
// A-share charting packages; a histogram of zero means the lines touch.
func macd(closes []float64, fast, slow, signal int) (diff, dea, hist []float64) {
	fastEMA := ema(closes, fast)
	slowEMA := ema(closes, slow)

	diff = make([]float64, len(closes))
	for i := range closes {
		diff[i] = fastEMA[i] - slowEMA[i]
	}

	dea = ema(diff, signal)

	hist = make([]float64, len(closes))
	for i := range closes {
		hist[i] = (diff[i] - dea[i]) * 2
	}
	return diff, dea, hist
}
