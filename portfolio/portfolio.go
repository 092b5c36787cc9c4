// Package portfolio reduces a pile of simulated trades into the
// summary statistics a strategy is judged by. All statistics are
// computed over closed trades only; trades the simulator could not
// finish are dropped before anything is counted.
package portfolio

import (
	"math"
	"sort"
	"time"

	"github.com/wqshao/screener/sim"
)

// tradingDaysPerYear is the A-share session count used to annualize
// per-entry-date returns.
const tradingDaysPerYear = 252

// Stats summarizes one strategy run. A run with zero closed trades is
// all zeros, not an error.
type Stats struct {
	Trades       int     `json:"trades"`
	Winners      int     `json:"winners"`
	Losers       int     `json:"losers"`
	WinRate      float64 `json:"win_rate"`
	AvgWin       float64 `json:"avg_win"`
	AvgLoss      float64 `json:"avg_loss"`
	AvgReturn    float64 `json:"avg_return"`
	ProfitFactor float64 `json:"profit_factor"`
	Annualized   float64 `json:"annualized"`
	Sharpe       float64 `json:"sharpe"`
	MaxDrawdown  float64 `json:"max_drawdown"`
}

// EquityPoint is one step of the portfolio curve: compounded equity
// after all trades entered on Date.
type EquityPoint struct {
	Date   time.Time `json:"date"`
	Equity float64   `json:"equity"`
}

// Aggregate computes run statistics and the equity curve. Trades
// entered on the same date are averaged into a single period return,
// as if capital were split evenly across that day's entries, so the
// result does not depend on input order.
func Aggregate(trades []sim.Trade) (Stats, []EquityPoint) {
	var st Stats
	var sumWin, sumLoss float64

	byDate := make(map[time.Time][]float64)
	for _, t := range trades {
		if !t.Closed() {
			continue
		}
		st.Trades++
		if t.ReturnPct > 0 {
			st.Winners++
			sumWin += t.ReturnPct
		} else {
			st.Losers++
			sumLoss += t.ReturnPct
		}
		d := t.EntryDate.UTC().Truncate(24 * time.Hour)
		byDate[d] = append(byDate[d], t.ReturnPct)
	}
	if st.Trades == 0 {
		return st, nil
	}

	st.WinRate = float64(st.Winners) / float64(st.Trades)
	if st.Winners > 0 {
		st.AvgWin = sumWin / float64(st.Winners)
	}
	if st.Losers > 0 {
		st.AvgLoss = sumLoss / float64(st.Losers)
	}
	st.AvgReturn = (sumWin + sumLoss) / float64(st.Trades)

	switch {
	case st.Losers > 0 && st.AvgLoss != 0:
		st.ProfitFactor = st.AvgWin / math.Abs(st.AvgLoss)
	case st.Winners > 0:
		st.ProfitFactor = math.Inf(1)
	}

	curve, periods := equityCurve(byDate)
	st.Annualized = annualize(periods)
	st.Sharpe = sharpe(st.Annualized, periods)
	st.MaxDrawdown = maxDrawdown(curve)
	return st, curve
}

// equityCurve compounds the per-date mean returns in date order and
// also returns those period returns for the ratio statistics.
func equityCurve(byDate map[time.Time][]float64) ([]EquityPoint, []float64) {
	dates := make([]time.Time, 0, len(byDate))
	for d := range byDate {
		dates = append(dates, d)
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i].Before(dates[j]) })

	curve := make([]EquityPoint, len(dates))
	periods := make([]float64, len(dates))
	equity := 1.0
	for i, d := range dates {
		r := mean(byDate[d])
		equity *= 1 + r
		curve[i] = EquityPoint{Date: d, Equity: equity}
		periods[i] = r
	}
	return curve, periods
}

func annualize(periods []float64) float64 {
	if len(periods) == 0 {
		return 0
	}
	return math.Pow(1+mean(periods), tradingDaysPerYear) - 1
}

// sharpe uses the annualized return over annualized volatility, zero
// when volatility cannot be estimated.
func sharpe(annualized float64, periods []float64) float64 {
	sd := stddev(periods)
	if sd == 0 {
		return 0
	}
	return annualized / (sd * math.Sqrt(tradingDaysPerYear))
}

func maxDrawdown(curve []EquityPoint) float64 {
	peak := math.Inf(-1)
	worst := 0.0
	for _, p := range curve {
		if p.Equity > peak {
			peak = p.Equity
		}
		if dd := (peak - p.Equity) / peak; dd > worst {
			worst = dd
		}
	}
	return worst
}

func mean(xs []float64) float64 {
	if len(xs) == 0 {
		return 0
	}
	sum := 0.0
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// stddev is the sample standard deviation, zero for fewer than two
// observations.
func stddev(xs []float64) float64 {
	n := len(xs)
	if n < 2 {
		return 0
	}
	m := mean(xs)
	ss := 0.0
	for _, x := range xs {
		ss += (x - m) * (x - m)
	}
	return math.Sqrt(ss / float64(n-1))
}
