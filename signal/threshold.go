package signal

import "github.com/wqshao/screener/indicators"

func init() {
	Register("oversold-reversal", func(cfg Config) Predicate {
		return &oversoldReversal{cfg: cfg.Defaults()}
	})
	Register("golden-cross-trend", func(cfg Config) Predicate {
		return &goldenCrossTrend{cfg: cfg.Defaults()}
	})
	Register("bottom-reversal", func(cfg Config) Predicate {
		return &bottomReversal{cfg: cfg.Defaults()}
	})
	Register("momentum-reacceleration", func(cfg Config) Predicate {
		return &momentumReaccel{cfg: cfg.Defaults()}
	})
	Register("breakout-volume", func(cfg Config) Predicate {
		return &breakoutVolume{cfg: cfg.Defaults()}
	})
}

// oversoldReversal enters when a long-term uptrend meets a short-term
// oversold extreme that is starting to turn: close above the trend MA,
// RSI under the oversold threshold, MACD histogram rising out of
// negative territory, and J above K.
type oversoldReversal struct {
	cfg Config
}

func (p *oversoldReversal) Name() string { return "oversold-reversal" }

func (p *oversoldReversal) Specs() []indicators.Spec {
	c := p.cfg
	return []indicators.Spec{
		indicators.SMA(c.TrendMA),
		indicators.RSI(c.RSIPeriod),
		indicators.MACD(c.MACDFast, c.MACDSlow, c.MACDSignal),
		indicators.KDJ(c.KDJN, c.KDJK, c.KDJD),
	}
}

func (p *oversoldReversal) MinBars() int {
	return maxInt(p.cfg.TrendMA, p.cfg.MACDSlow, p.cfg.RSIPeriod+2, p.cfg.KDJN+1)
}

func (p *oversoldReversal) Match(w Window) bool {
	c := p.cfg
	trend := indicators.SMA(c.TrendMA).Name()
	rsi := indicators.RSI(c.RSIPeriod).Name()
	macd := indicators.MACD(c.MACDFast, c.MACDSlow, c.MACDSignal)
	kdj := indicators.KDJ(c.KDJN, c.KDJK, c.KDJD)

	if !w.Defined(trend, rsi, macd.HistName(), kdj.KName(), kdj.JName()) ||
		!w.DefinedAt(-1, macd.HistName()) {
		return false
	}

	bar := w.Bar(0)
	hist, prevHist := w.At(macd.HistName(), 0), w.At(macd.HistName(), -1)

	return bar.Close > w.At(trend, 0) &&
		w.At(rsi, 0) < c.RSIOversold &&
		hist > prevHist && prevHist < 0 &&
		w.At(kdj.JName(), 0) > w.At(kdj.KName(), 0)
}

// goldenCrossTrend enters on the day the fast MA crosses above the slow
// MA, with the close above the slow MA, the slow MA sloping upward, and
// the pullback from the recent closing high under control.
type goldenCrossTrend struct {
	cfg Config
}

func (p *goldenCrossTrend) Name() string { return "golden-cross-trend" }

func (p *goldenCrossTrend) Specs() []indicators.Spec {
	return []indicators.Spec{
		indicators.SMA(p.cfg.FastMA),
		indicators.SMA(p.cfg.SlowMA),
	}
}

func (p *goldenCrossTrend) MinBars() int {
	return maxInt(p.cfg.SlowMA+p.cfg.SlopeBars, p.cfg.DrawdownBars)
}

func (p *goldenCrossTrend) Match(w Window) bool {
	c := p.cfg
	fast := indicators.SMA(c.FastMA).Name()
	slow := indicators.SMA(c.SlowMA).Name()

	slopeOff := -(c.SlopeBars - 1)
	if !w.Defined(fast, slow) || !w.DefinedAt(-1, fast, slow) || !w.DefinedAt(slopeOff, slow) {
		return false
	}

	cross := w.At(fast, 0) > w.At(slow, 0) && w.At(fast, -1) <= w.At(slow, -1)
	if !cross {
		return false
	}

	bar := w.Bar(0)
	if bar.Close <= w.At(slow, 0) {
		return false
	}
	if w.At(slow, 0)-w.At(slow, slopeOff) <= 0 {
		return false
	}

	// Pullback check uses the highest close of the window including the
	// decision bar: the decision bar can itself be the recent high.
	high := maxCloseBack(w, c.DrawdownBars)
	if high <= 0 {
		return false
	}
	return (high-bar.Close)/high <= c.MaxDrawdown
}

// bottomReversal enters on a KDJ golden cross in the low zone while
// price still sits under the long MA: an early base-building turn with
// a mild volume pickup, not a confirmed trend.
type bottomReversal struct {
	cfg Config
}

func (p *bottomReversal) Name() string { return "bottom-reversal" }

func (p *bottomReversal) Specs() []indicators.Spec {
	c := p.cfg
	return []indicators.Spec{
		indicators.SMA(c.FastMA),
		indicators.SMA(c.LongMA),
		indicators.KDJ(c.KDJN, c.KDJK, c.KDJD),
		indicators.VolRatio(c.VolMAShort),
	}
}

func (p *bottomReversal) MinBars() int {
	return maxInt(p.cfg.LongMA, p.cfg.KDJN+1, p.cfg.VolMAShort) + 1
}

func (p *bottomReversal) Match(w Window) bool {
	c := p.cfg
	fast := indicators.SMA(c.FastMA).Name()
	long := indicators.SMA(c.LongMA).Name()
	kdj := indicators.KDJ(c.KDJN, c.KDJK, c.KDJD)
	volr := indicators.VolRatio(c.VolMAShort).Name()

	if !w.Defined(fast, long, kdj.KName(), kdj.DName(), volr) ||
		!w.DefinedAt(-1, kdj.KName(), kdj.DName()) {
		return false
	}

	bar, prev := w.Bar(0), w.Bar(-1)
	k, d := w.At(kdj.KName(), 0), w.At(kdj.DName(), 0)

	goldenCross := k > d && w.At(kdj.KName(), -1) <= w.At(kdj.DName(), -1)

	return bar.Close < w.At(long, 0) &&
		goldenCross && k < c.KDLow && d < c.KDLow &&
		bar.Close > prev.Close && bar.Close > w.At(fast, 0) &&
		w.At(volr, 0) > c.VolRatioMin
}

// momentumReaccel enters when a strong trend resumes after a brief
// histogram contraction: MACD well above zero, histogram re-expanding,
// MAs stacked bullishly, and the close hugging the short MA on a
// high-volume up day.
type momentumReaccel struct {
	cfg Config
}

func (p *momentumReaccel) Name() string { return "momentum-reacceleration" }

func (p *momentumReaccel) Specs() []indicators.Spec {
	c := p.cfg
	return []indicators.Spec{
		indicators.SMA(c.ShortMA),
		indicators.SMA(c.MidMA),
		indicators.SMA(c.LongMA),
		indicators.MACD(c.MACDFast, c.MACDSlow, c.MACDSignal),
		indicators.VolMA(c.VolMALong),
	}
}

func (p *momentumReaccel) MinBars() int {
	return maxInt(p.cfg.LongMA, p.cfg.MACDSlow+3, p.cfg.VolMALong) + 1
}

func (p *momentumReaccel) Match(w Window) bool {
	c := p.cfg
	short := indicators.SMA(c.ShortMA).Name()
	mid := indicators.SMA(c.MidMA).Name()
	long := indicators.SMA(c.LongMA).Name()
	macd := indicators.MACD(c.MACDFast, c.MACDSlow, c.MACDSignal)
	volma := indicators.VolMA(c.VolMALong).Name()

	if !w.Defined(short, mid, long, macd.DiffName(), macd.DeaName(), macd.HistName(), volma) ||
		!w.DefinedAt(-1, macd.HistName()) || !w.DefinedAt(-2, macd.HistName()) {
		return false
	}

	if w.At(macd.DiffName(), 0) <= c.MACDFloor || w.At(macd.DeaName(), 0) <= c.MACDFloor {
		return false
	}

	hist := w.At(macd.HistName(), 0)
	prevHist := w.At(macd.HistName(), -1)
	prev2Hist := w.At(macd.HistName(), -2)
	reaccel := hist > prevHist*(1+c.ReaccelPct) && prevHist < prev2Hist
	if !reaccel {
		return false
	}

	if !(w.At(short, 0) > w.At(mid, 0) && w.At(mid, 0) > w.At(long, 0)) {
		return false
	}

	bar, prev := w.Bar(0), w.Bar(-1)
	tight := bar.Close > w.At(short, 0) && bar.Close/w.At(short, 0) < 1+c.TightPct

	return tight &&
		bar.Close > prev.Close &&
		bar.Volume > w.At(volma, 0)*c.VolMult
}

// breakoutVolume enters when the close clears both MAs and the N-day
// high of the preceding bars on expanded volume. The extrema column is
// the no-leak variant: the decision bar is excluded from the window it
// must break.
type breakoutVolume struct {
	cfg Config
}

func (p *breakoutVolume) Name() string { return "breakout-volume" }

func (p *breakoutVolume) Specs() []indicators.Spec {
	c := p.cfg
	return []indicators.Spec{
		indicators.SMA(c.FastMA),
		indicators.SMA(c.SlowMA),
		indicators.HighN(c.BreakoutN, false),
		indicators.VolRatio(c.VolMAShort),
	}
}

func (p *breakoutVolume) MinBars() int {
	return maxInt(p.cfg.SlowMA, p.cfg.BreakoutN+1, p.cfg.VolMAShort)
}

func (p *breakoutVolume) Match(w Window) bool {
	c := p.cfg
	fast := indicators.SMA(c.FastMA).Name()
	slow := indicators.SMA(c.SlowMA).Name()
	hhv := indicators.HighN(c.BreakoutN, false).Name()
	volr := indicators.VolRatio(c.VolMAShort).Name()

	if !w.Defined(fast, slow, hhv, volr) {
		return false
	}

	bar := w.Bar(0)
	return bar.Close > w.At(fast, 0) &&
		bar.Close > w.At(slow, 0) &&
		bar.Close > w.At(hhv, 0) &&
		w.At(volr, 0) > c.BreakoutVolMult
}

// maxCloseBack returns the highest close over the last n bars ending at
// the decision bar (fewer when history is shorter).
func maxCloseBack(w Window, n int) float64 {
	lo := w.I - n + 1
	if lo < 0 {
		lo = 0
	}
	high := 0.0
	for _, b := range w.Series.Bars[lo : w.I+1] {
		if b.Close > high {
			high = b.Close
		}
	}
	return high
}

func maxInt(vals ...int) int {
	m := vals[0]
	for _, v := range vals[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
