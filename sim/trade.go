// Package sim turns signals into completed trades by walking the bars
// after the entry under a configured exit policy. Entries fill at the
// signal bar's close; exits fill at the price the policy names, on the
// first bar that satisfies it.
package sim

import "time"

// ExitReason tags how a trade was closed. insufficient_data marks a
// signal too close to the end of history to simulate; callers exclude
// those trades from aggregation.
type ExitReason string

const (
	ExitHorizon          ExitReason = "horizon"
	ExitStopLoss         ExitReason = "stop_loss"
	ExitTakeProfit       ExitReason = "take_profit"
	ExitTrendBreak       ExitReason = "trend_break"
	ExitEndOfData        ExitReason = "end_of_data"
	ExitInsufficientData ExitReason = "insufficient_data"
)

// Trade is one simulated round trip. Long only, one unit.
type Trade struct {
	Instrument string     `json:"instrument"`
	Strategy   string     `json:"strategy"`
	EntryDate  time.Time  `json:"entry_date"`
	EntryPrice float64    `json:"entry_price"`
	ExitDate   time.Time  `json:"exit_date"`
	ExitPrice  float64    `json:"exit_price"`
	ExitReason ExitReason `json:"exit_reason"`
	ReturnPct  float64    `json:"return_pct"`
}

// Closed reports whether the trade completed a round trip. Trades cut
// short by the end of history never did.
func (t Trade) Closed() bool { return t.ExitReason != ExitInsufficientData }
