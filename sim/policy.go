package sim

import (
	"fmt"

	"github.com/wqshao/screener/market"
)

// Exit is a policy's answer: which bar the trade leaves on, at what
// price, and why.
type Exit struct {
	Index  int
	Price  float64
	Reason ExitReason
}

// ExitPolicy decides when a trade entered at bars[entry] (filled at
// entryPrice) leaves the market. ok is false when the remaining
// history cannot answer, which the simulator records as
// insufficient_data.
type ExitPolicy interface {
	Name() string
	Validate() error
	Exit(s *market.Series, entry int, entryPrice float64) (e Exit, ok bool)
}

// FixedHorizon closes at the close of the n-th bar after entry,
// unconditionally.
type FixedHorizon struct {
	Days int `yaml:"days" json:"days"`
}

func (p FixedHorizon) Name() string { return "fixed_horizon" }

func (p FixedHorizon) Validate() error {
	if p.Days <= 0 {
		return fmt.Errorf("fixed_horizon: days must be positive, got %d", p.Days)
	}
	return nil
}

func (p FixedHorizon) Exit(s *market.Series, entry int, _ float64) (Exit, bool) {
	i := entry + p.Days
	if i >= s.Len() {
		return Exit{}, false
	}
	return Exit{Index: i, Price: s.Bars[i].Close, Reason: ExitHorizon}, true
}

// StopLossTakeProfit scans forward for a stop or target touch using
// the bar's low and high. When both levels fall inside the same bar
// the stop wins; intrabar order is unknowable from daily data. Fills
// are at the level, not the close. If neither triggers within MaxDays
// the trade closes at the MaxDays bar's close.
type StopLossTakeProfit struct {
	StopPct   float64 `yaml:"stop_pct" json:"stop_pct"`
	TargetPct float64 `yaml:"target_pct" json:"target_pct"`
	MaxDays   int     `yaml:"max_days" json:"max_days"`
}

func (p StopLossTakeProfit) Name() string { return "stop_target" }

func (p StopLossTakeProfit) Validate() error {
	if p.StopPct <= 0 || p.StopPct >= 1 {
		return fmt.Errorf("stop_target: stop_pct must be in (0,1), got %v", p.StopPct)
	}
	if p.TargetPct <= 0 {
		return fmt.Errorf("stop_target: target_pct must be positive, got %v", p.TargetPct)
	}
	if p.MaxDays <= 0 {
		return fmt.Errorf("stop_target: max_days must be positive, got %d", p.MaxDays)
	}
	return nil
}

func (p StopLossTakeProfit) Exit(s *market.Series, entry int, entryPrice float64) (Exit, bool) {
	stop := entryPrice * (1 - p.StopPct)
	target := entryPrice * (1 + p.TargetPct)
	last := entry + p.MaxDays

	for i := entry + 1; i <= last && i < s.Len(); i++ {
		bar := s.Bars[i]
		if bar.Low <= stop {
			return Exit{Index: i, Price: stop, Reason: ExitStopLoss}, true
		}
		if bar.High >= target {
			return Exit{Index: i, Price: target, Reason: ExitTakeProfit}, true
		}
	}
	if last >= s.Len() {
		return Exit{}, false
	}
	return Exit{Index: last, Price: s.Bars[last].Close, Reason: ExitHorizon}, true
}

// TrendBreak holds until the first future bar that closes below its
// trailing moving average. A trade still open at the last bar closes
// there with reason end_of_data and stays in the aggregate.
type TrendBreak struct {
	MAPeriod int `yaml:"ma_period" json:"ma_period"`
}

func (p TrendBreak) Name() string { return "trend_break" }

func (p TrendBreak) Validate() error {
	if p.MAPeriod <= 0 {
		return fmt.Errorf("trend_break: ma_period must be positive, got %d", p.MAPeriod)
	}
	return nil
}

func (p TrendBreak) Exit(s *market.Series, entry int, _ float64) (Exit, bool) {
	n := s.Len()
	if entry+1 >= n {
		return Exit{}, false
	}
	for i := entry + 1; i < n; i++ {
		ma, ok := trailingMean(s, i, p.MAPeriod)
		if !ok {
			continue
		}
		if s.Bars[i].Close < ma {
			return Exit{Index: i, Price: s.Bars[i].Close, Reason: ExitTrendBreak}, true
		}
	}
	return Exit{Index: n - 1, Price: s.Bars[n-1].Close, Reason: ExitEndOfData}, true
}

// trailingMean is the mean close of the w bars ending at i, false when
// fewer than w bars exist.
func trailingMean(s *market.Series, i, w int) (float64, bool) {
	lo := i - w + 1
	if lo < 0 {
		return 0, false
	}
	sum := 0.0
	for _, b := range s.Bars[lo : i+1] {
		sum += b.Close
	}
	return sum / float64(w), true
}
