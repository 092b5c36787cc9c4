package journal

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/wqshao/screener/signal"
	"github.com/wqshao/screener/sim"
)

const runColumns = `run_id, created, strategy, exit_policy, data_dir, config,
	trades, winners, losers, win_rate, avg_win, avg_loss, avg_return,
	profit_factor, annualized, sharpe, max_drawdown`

func scanRun(row interface{ Scan(...any) error }) (Run, error) {
	var r Run
	var cfg string
	err := row.Scan(
		&r.ID, &r.Created, &r.Strategy, &r.ExitPolicy, &r.DataDir, &cfg,
		&r.Stats.Trades, &r.Stats.Winners, &r.Stats.Losers, &r.Stats.WinRate,
		&r.Stats.AvgWin, &r.Stats.AvgLoss, &r.Stats.AvgReturn,
		&r.Stats.ProfitFactor, &r.Stats.Annualized, &r.Stats.Sharpe, &r.Stats.MaxDrawdown,
	)
	r.Config = []byte(cfg)
	return r, err
}

// GetRun returns a single run row by id.
func (j *SQLite) GetRun(ctx context.Context, runID string) (Run, error) {
	row := j.db.QueryRowContext(ctx,
		`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID)
	r, err := scanRun(row)
	if err == sql.ErrNoRows {
		return Run{}, fmt.Errorf("run %q not found", runID)
	}
	return r, err
}

// ListRuns returns the most recent runs, newest first.
func (j *SQLite) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	rows, err := j.db.QueryContext(ctx,
		`SELECT `+runColumns+` FROM runs ORDER BY created DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ListTradesByRun returns a run's trades ordered by entry date.
func (j *SQLite) ListTradesByRun(ctx context.Context, runID string) ([]sim.Trade, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT instrument, strategy, entry_date, entry_price, exit_date, exit_price, reason, return_pct
		FROM trades
		WHERE run_id = ?
		ORDER BY entry_date ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sim.Trade
	for rows.Next() {
		var t sim.Trade
		var reason string
		var exitDate sql.NullTime
		if err := rows.Scan(
			&t.Instrument, &t.Strategy, &t.EntryDate, &t.EntryPrice,
			&exitDate, &t.ExitPrice, &reason, &t.ReturnPct,
		); err != nil {
			return nil, err
		}
		if exitDate.Valid {
			t.ExitDate = exitDate.Time
		}
		t.ExitReason = sim.ExitReason(reason)
		out = append(out, t)
	}
	return out, rows.Err()
}

// ListSignalsByRun returns a run's signals ordered by date.
func (j *SQLite) ListSignalsByRun(ctx context.Context, runID string) ([]signal.Signal, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT instrument, date, strategy, entry_price
		FROM signals
		WHERE run_id = ?
		ORDER BY date ASC`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []signal.Signal
	for rows.Next() {
		var s signal.Signal
		if err := rows.Scan(&s.Instrument, &s.Date, &s.Strategy, &s.EntryPrice); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// ListTradesEnteredBetween returns trades across runs whose entry date
// is within [start, end).
func (j *SQLite) ListTradesEnteredBetween(ctx context.Context, start, end time.Time) ([]sim.Trade, error) {
	rows, err := j.db.QueryContext(ctx, `
		SELECT instrument, strategy, entry_date, entry_price, exit_date, exit_price, reason, return_pct
		FROM trades
		WHERE entry_date >= ? AND entry_date < ?
		ORDER BY entry_date ASC`, start, end)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []sim.Trade
	for rows.Next() {
		var t sim.Trade
		var reason string
		var exitDate sql.NullTime
		if err := rows.Scan(
			&t.Instrument, &t.Strategy, &t.EntryDate, &t.EntryPrice,
			&exitDate, &t.ExitPrice, &reason, &t.ReturnPct,
		); err != nil {
			return nil, err
		}
		if exitDate.Valid {
			t.ExitDate = exitDate.Time
		}
		t.ExitReason = sim.ExitReason(reason)
		out = append(out, t)
	}
	return out, rows.Err()
}
