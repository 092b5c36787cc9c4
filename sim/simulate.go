package sim

import (
	"fmt"
	"sort"

	"github.com/wqshao/screener/market"
	"github.com/wqshao/screener/signal"
)

// Simulate runs one signal forward under the policy. A signal too
// close to the end of history comes back as an open trade with reason
// insufficient_data, not an error; errors are reserved for signals
// that do not belong to the series at all.
func Simulate(sig signal.Signal, s *market.Series, policy ExitPolicy) (Trade, error) {
	entry, err := entryIndex(s, sig)
	if err != nil {
		return Trade{}, err
	}

	t := Trade{
		Instrument: sig.Instrument,
		Strategy:   sig.Strategy,
		EntryDate:  sig.Date,
		EntryPrice: sig.EntryPrice,
	}

	exit, ok := policy.Exit(s, entry, sig.EntryPrice)
	if !ok {
		t.ExitReason = ExitInsufficientData
		return t, nil
	}

	t.ExitDate = s.Bars[exit.Index].Date
	t.ExitPrice = exit.Price
	t.ExitReason = exit.Reason
	t.ReturnPct = exit.Price/sig.EntryPrice - 1
	return t, nil
}

// SimulateAll runs every signal against its series and returns the
// trades in signal order.
func SimulateAll(sigs []signal.Signal, s *market.Series, policy ExitPolicy) ([]Trade, error) {
	trades := make([]Trade, 0, len(sigs))
	for _, sig := range sigs {
		t, err := Simulate(sig, s, policy)
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	return trades, nil
}

// entryIndex locates the signal's bar. Series are validated sorted, so
// a binary search suffices.
func entryIndex(s *market.Series, sig signal.Signal) (int, error) {
	if sig.Instrument != s.Instrument {
		return 0, fmt.Errorf("sim: signal for %s against series %s", sig.Instrument, s.Instrument)
	}
	n := s.Len()
	i := sort.Search(n, func(i int) bool {
		return !s.Bars[i].Date.Before(sig.Date)
	})
	if i == n || !s.Bars[i].Date.Equal(sig.Date) {
		return 0, fmt.Errorf("sim: %s has no bar on %s", s.Instrument, sig.Date.Format("2006-01-02"))
	}
	return i, nil
}
