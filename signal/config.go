package signal

// Config carries every threshold the registered predicates read. The
// batch scripts this engine replaces hard-coded these per file variant;
// hoisting them into one record is what collapses the variants into a
// single parameterized engine. Zero values are filled by Defaults, so a
// partial config (e.g. only RSIOversold overridden) stays usable.
type Config struct {
	// Shared indicator parameters.
	MACDFast   int `yaml:"macd_fast" json:"macd_fast"`
	MACDSlow   int `yaml:"macd_slow" json:"macd_slow"`
	MACDSignal int `yaml:"macd_signal" json:"macd_signal"`
	KDJN       int `yaml:"kdj_n" json:"kdj_n"`
	KDJK       int `yaml:"kdj_k" json:"kdj_k"`
	KDJD       int `yaml:"kdj_d" json:"kdj_d"`
	RSIPeriod  int `yaml:"rsi_period" json:"rsi_period"`

	// oversold-reversal
	TrendMA     int     `yaml:"trend_ma" json:"trend_ma"`
	RSIOversold float64 `yaml:"rsi_oversold" json:"rsi_oversold"`

	// golden-cross-trend
	FastMA       int     `yaml:"fast_ma" json:"fast_ma"`
	SlowMA       int     `yaml:"slow_ma" json:"slow_ma"`
	SlopeBars    int     `yaml:"slope_bars" json:"slope_bars"`
	DrawdownBars int     `yaml:"drawdown_bars" json:"drawdown_bars"`
	MaxDrawdown  float64 `yaml:"max_drawdown" json:"max_drawdown"`

	// bottom-reversal / momentum-reacceleration
	ShortMA     int     `yaml:"short_ma" json:"short_ma"`
	MidMA       int     `yaml:"mid_ma" json:"mid_ma"`
	LongMA      int     `yaml:"long_ma" json:"long_ma"`
	KDLow       float64 `yaml:"kd_low" json:"kd_low"`
	VolRatioMin float64 `yaml:"vol_ratio_min" json:"vol_ratio_min"`
	MACDFloor   float64 `yaml:"macd_floor" json:"macd_floor"`
	ReaccelPct  float64 `yaml:"reaccel_pct" json:"reaccel_pct"`
	TightPct    float64 `yaml:"tight_pct" json:"tight_pct"`
	VolMult     float64 `yaml:"vol_mult" json:"vol_mult"`

	// breakout-volume
	BreakoutN       int     `yaml:"breakout_n" json:"breakout_n"`
	BreakoutVolMult float64 `yaml:"breakout_vol_mult" json:"breakout_vol_mult"`

	// volume moving averages
	VolMAShort int `yaml:"vol_ma_short" json:"vol_ma_short"`
	VolMALong  int `yaml:"vol_ma_long" json:"vol_ma_long"`

	// pattern matchers
	BodyFrac      float64 `yaml:"body_frac" json:"body_frac"`
	ShortBodyFrac float64 `yaml:"short_body_frac" json:"short_body_frac"`

	// Tolerance is the relative price tolerance for pattern
	// containment/alignment checks. OHLC floats never align exactly, so
	// "contained" means inside the reference body widened by
	// Tolerance * reference price.
	Tolerance float64 `yaml:"tolerance" json:"tolerance"`
}

// Defaults fills zero fields with the thresholds the original screeners
// shipped with.
func (c Config) Defaults() Config {
	def := func(v *int, d int) {
		if *v == 0 {
			*v = d
		}
	}
	deff := func(v *float64, d float64) {
		if *v == 0 {
			*v = d
		}
	}

	def(&c.MACDFast, 12)
	def(&c.MACDSlow, 26)
	def(&c.MACDSignal, 9)
	def(&c.KDJN, 9)
	def(&c.KDJK, 3)
	def(&c.KDJD, 3)
	def(&c.RSIPeriod, 14)

	def(&c.TrendMA, 200)
	deff(&c.RSIOversold, 25)

	def(&c.FastMA, 5)
	def(&c.SlowMA, 20)
	def(&c.SlopeBars, 5)
	def(&c.DrawdownBars, 30)
	deff(&c.MaxDrawdown, 0.15)

	def(&c.ShortMA, 10)
	def(&c.MidMA, 30)
	def(&c.LongMA, 60)
	deff(&c.KDLow, 50)
	deff(&c.VolRatioMin, 1.1)
	deff(&c.MACDFloor, 0.1)
	deff(&c.ReaccelPct, 0.1)
	deff(&c.TightPct, 0.01)
	deff(&c.VolMult, 1.5)

	def(&c.BreakoutN, 20)
	deff(&c.BreakoutVolMult, 1.2)

	def(&c.VolMAShort, 5)
	def(&c.VolMALong, 10)

	deff(&c.BodyFrac, 0.6)
	deff(&c.ShortBodyFrac, 0.5)
	deff(&c.Tolerance, 0.003)

	return c
}

// tol returns the absolute tolerance band around a reference price.
func (c Config) tol(ref float64) float64 {
	if ref < 0 {
		ref = -ref
	}
	return c.Tolerance * ref
}
