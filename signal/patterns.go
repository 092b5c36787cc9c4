package signal

import "github.com/wqshao/screener/indicators"

// Pattern predicates are fixed-length sliding-window matchers over raw
// bars: a handful of named sub-checks (body size, containment,
// direction) evaluated in one pass, no state carried between calls.
// Price comparisons that the formation does not require to be strict
// use the configured relative tolerance, since OHLC floats never align
// exactly.

func init() {
	Register("rising-three-methods", func(cfg Config) Predicate {
		return &risingThreeMethods{cfg: cfg.Defaults()}
	})
	Register("bullish-engulf-reversal", func(cfg Config) Predicate {
		return &bullishEngulfReversal{cfg: cfg.Defaults()}
	})
}

// risingThreeMethods matches the five-bar continuation formation: a
// long bullish bar, three bars whose full ranges hold inside the first
// bar's body, then a bullish bar closing above the first bar's high.
type risingThreeMethods struct {
	cfg Config
}

func (p *risingThreeMethods) Name() string { return "rising-three-methods" }

func (p *risingThreeMethods) Specs() []indicators.Spec { return nil }

func (p *risingThreeMethods) MinBars() int { return 5 }

func (p *risingThreeMethods) Match(w Window) bool {
	c := p.cfg
	first := w.Bar(-4)
	last := w.Bar(0)

	// First bar: long bullish body.
	if !first.Bullish() || first.Range() <= 0 {
		return false
	}
	if first.Body()/first.Range() <= c.BodyFrac {
		return false
	}

	// Middle three bars: ranges contained in the first body, within
	// tolerance.
	band := c.tol(first.Close)
	for off := -3; off <= -1; off++ {
		mid := w.Bar(off)
		if mid.High >= first.BodyHigh()+band || mid.Low <= first.BodyLow()-band {
			return false
		}
	}

	// Fifth bar: bullish and a genuine breakout over the first high.
	// Strict, no tolerance.
	return last.Bullish() && last.Close > first.High
}

// bullishEngulfReversal matches the three-bar bottom turn: a long
// bearish bar, a small hesitation bar opening below its close, then a
// bullish bar that clears the hesitation bar's open and reclaims at
// least half of the bearish body.
type bullishEngulfReversal struct {
	cfg Config
}

func (p *bullishEngulfReversal) Name() string { return "bullish-engulf-reversal" }

func (p *bullishEngulfReversal) Specs() []indicators.Spec { return nil }

// MinBars covers the three formation bars plus the three bars before
// them used to judge whether the bearish bar is "long".
func (p *bullishEngulfReversal) MinBars() int { return 6 }

func (p *bullishEngulfReversal) Match(w Window) bool {
	c := p.cfg
	bear := w.Bar(-2)
	small := w.Bar(-1)
	bull := w.Bar(0)

	if !bear.Bearish() || !bull.Bullish() {
		return false
	}

	// "Long" is relative to the bars just before the formation; a flat
	// stretch falls back to a fraction of the bar's own range.
	avg := (w.Bar(-5).Body() + w.Bar(-4).Body() + w.Bar(-3).Body()) / 3
	bearBody := bear.Body()
	if avg > 0 {
		if bearBody <= 2*avg {
			return false
		}
	} else if bear.Range() <= 0 || bearBody <= 0.4*bear.Range() {
		return false
	}

	if small.Body() >= bearBody*c.ShortBodyFrac {
		return false
	}

	// Hesitation bar opens at or below the bearish close, within
	// tolerance.
	if small.Open >= bear.Close+c.tol(bear.Close) {
		return false
	}

	return bull.Close > small.Open &&
		bull.Close > bear.Open-bearBody/2
}
