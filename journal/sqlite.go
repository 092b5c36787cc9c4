package journal

import (
	"context"
	"database/sql"

	_ "github.com/mattn/go-sqlite3"

	"github.com/wqshao/screener/portfolio"
	"github.com/wqshao/screener/signal"
	"github.com/wqshao/screener/sim"
)

type SQLite struct {
	db *sql.DB
}

func NewSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLite{db: db}, nil
}

// RecordRun writes the run row plus its signals and trades in one
// transaction. The equity curve is derivable from the trades and is
// not stored.
func (j *SQLite) RecordRun(ctx context.Context, run Run, sigs []signal.Signal, trades []sim.Trade, _ []portfolio.EquityPoint) error {
	tx, err := j.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	st := run.Stats
	_, err = tx.ExecContext(ctx, `
		INSERT INTO runs
		(run_id, created, strategy, exit_policy, data_dir, config,
		 trades, winners, losers, win_rate, avg_win, avg_loss, avg_return,
		 profit_factor, annualized, sharpe, max_drawdown)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.Created, run.Strategy, run.ExitPolicy, run.DataDir, string(run.Config),
		st.Trades, st.Winners, st.Losers, st.WinRate, st.AvgWin, st.AvgLoss, st.AvgReturn,
		st.ProfitFactor, st.Annualized, st.Sharpe, st.MaxDrawdown,
	)
	if err != nil {
		return err
	}

	sigStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO signals (run_id, instrument, date, strategy, entry_price)
		VALUES (?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer sigStmt.Close()
	for _, s := range sigs {
		if _, err := sigStmt.ExecContext(ctx, run.ID, s.Instrument, s.Date, s.Strategy, s.EntryPrice); err != nil {
			return err
		}
	}

	trStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO trades
		(run_id, instrument, strategy, entry_date, entry_price, exit_date, exit_price, reason, return_pct)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer trStmt.Close()
	for _, t := range trades {
		if _, err := trStmt.ExecContext(ctx, run.ID, t.Instrument, t.Strategy,
			t.EntryDate, t.EntryPrice, t.ExitDate, t.ExitPrice, string(t.ExitReason), t.ReturnPct); err != nil {
			return err
		}
	}

	return tx.Commit()
}

func (j *SQLite) Close() error {
	return j.db.Close()
}
