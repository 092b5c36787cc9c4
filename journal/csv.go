// journal/csv.go
package journal

import (
	"context"
	"encoding/csv"
	"os"
	"strconv"

	"github.com/wqshao/screener/portfolio"
	"github.com/wqshao/screener/signal"
	"github.com/wqshao/screener/sim"
)

const csvDate = "2006-01-02"

// CSV writes each run's trades and equity curve to flat files,
// overwriting on every run. EquityPath may be empty to skip the curve.
type CSV struct {
	TradesPath string
	EquityPath string
}

func NewCSV(tradesPath, equityPath string) *CSV {
	return &CSV{TradesPath: tradesPath, EquityPath: equityPath}
}

func (j *CSV) RecordRun(_ context.Context, _ Run, _ []signal.Signal, trades []sim.Trade, curve []portfolio.EquityPoint) error {
	if err := ExportTradesCSV(j.TradesPath, trades); err != nil {
		return err
	}
	if j.EquityPath == "" {
		return nil
	}
	return ExportEquityCSV(j.EquityPath, curve)
}

func (j *CSV) Close() error { return nil }

// ExportTradesCSV writes trades with a header row, entry order
// preserved.
func ExportTradesCSV(path string, trades []sim.Trade) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{
		"instrument", "strategy", "entry_date", "entry_price",
		"exit_date", "exit_price", "reason", "return_pct",
	}); err != nil {
		return err
	}
	for _, t := range trades {
		exitDate := ""
		if !t.ExitDate.IsZero() {
			exitDate = t.ExitDate.Format(csvDate)
		}
		if err := w.Write([]string{
			t.Instrument,
			t.Strategy,
			t.EntryDate.Format(csvDate),
			fmtf(t.EntryPrice),
			exitDate,
			fmtf(t.ExitPrice),
			string(t.ExitReason),
			fmtf(t.ReturnPct),
		}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ExportEquityCSV writes the date-indexed equity curve.
func ExportEquityCSV(path string, curve []portfolio.EquityPoint) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"date", "equity"}); err != nil {
		return err
	}
	for _, p := range curve {
		if err := w.Write([]string{p.Date.Format(csvDate), fmtf(p.Equity)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func fmtf(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
