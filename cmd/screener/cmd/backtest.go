package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wqshao/screener/backtest"
	"github.com/wqshao/screener/config"
	"github.com/wqshao/screener/journal"
	"github.com/wqshao/screener/market"
	"github.com/wqshao/screener/pkg/id"
	"github.com/wqshao/screener/sim"
)

var backtestCmd = &cobra.Command{
	Use:   "backtest",
	Short: "Run a signal backtest over a directory of bar files",
	Long: `Backtest loads every bar file under the data directory, filters the
universe, evaluates the configured predicate at every bar and simulates
the resulting trades under the configured exit policy.

Example:
  screener backtest -c screener.yaml --data ./bars --strategy breakout-volume`,
	RunE: runBacktest,
}

var (
	btData     string
	btStrategy string
	btWorkers  int
	btOrgPath  string
)

func init() {
	rootCmd.AddCommand(backtestCmd)

	backtestCmd.Flags().StringVarP(&btData, "data", "d", "", "bar file directory (overrides config)")
	backtestCmd.Flags().StringVarP(&btStrategy, "strategy", "s", "", "predicate name (overrides config)")
	backtestCmd.Flags().IntVarP(&btWorkers, "workers", "w", 0, "parallel workers (overrides config, 0 = one per CPU)")
	backtestCmd.Flags().StringVar(&btOrgPath, "org", "", "also write an org-mode run summary to this path")
}

func runBacktest(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if btData != "" {
		cfg.Data.Dir = btData
	}
	if btStrategy != "" {
		cfg.Strategy.Name = btStrategy
	}
	if btWorkers > 0 {
		cfg.Runner.Workers = btWorkers
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	pred, err := cfg.Strategy.Predicate()
	if err != nil {
		return err
	}
	policy, err := cfg.Exit.Build()
	if err != nil {
		return err
	}

	universe, err := loadUniverse(cfg)
	if err != nil {
		return err
	}

	driver := &backtest.Driver{
		Runner: &backtest.Runner{
			Predicate: pred,
			Policy:    policy,
			Universe:  cfg.Universe.Filter(),
		},
		Workers: cfg.Runner.Workers,
		Log:     logger,
	}

	sum, err := driver.Run(cmd.Context(), universe)
	if err != nil {
		return err
	}

	printSummary(sum, pred.Name(), policy.Name())

	run, err := recordRun(cmd, cfg, pred.Name(), policy.Name(), sum)
	if err != nil {
		return err
	}
	if btOrgPath != "" {
		if err := run.WriteOrg(btOrgPath); err != nil {
			return err
		}
	}
	return nil
}

// loadUniverse reads every bar file and attaches display names when a
// names file is configured.
func loadUniverse(cfg *config.Config) ([]*market.Series, error) {
	universe, skipped, err := market.LoadDir(cfg.Data.Dir)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", cfg.Data.Dir, err)
	}
	for _, path := range skipped {
		logger.Warn("unreadable bar file", zap.String("path", path))
	}

	if cfg.Data.NamesFile != "" {
		names, err := market.LoadNames(cfg.Data.NamesFile)
		if err != nil {
			return nil, fmt.Errorf("load names: %w", err)
		}
		market.ApplyNames(universe, names)
	}
	return universe, nil
}

// recordRun journals the run per config and always returns the run row
// so callers can render it.
func recordRun(cmd *cobra.Command, cfg *config.Config, strategy, policy string, sum backtest.Summary) (journal.Run, error) {
	cfgJSON, err := json.Marshal(cfg)
	if err != nil {
		return journal.Run{}, err
	}
	run := journal.Run{
		ID:         id.New(),
		Created:    time.Now().UTC(),
		Strategy:   strategy,
		ExitPolicy: policy,
		DataDir:    cfg.Data.Dir,
		Config:     cfgJSON,
		Stats:      sum.Stats,
	}

	var j journal.Journal
	switch cfg.Journal.Type {
	case "sqlite":
		j, err = journal.NewSQLite(cfg.Journal.DBPath)
		if err != nil {
			return journal.Run{}, err
		}
	case "csv":
		j = journal.NewCSV(cfg.Journal.TradesFile, cfg.Journal.EquityFile)
	default:
		j = journal.Nop{}
	}
	defer j.Close()

	if err := j.RecordRun(cmd.Context(), run, sum.Signals, sum.Trades, sum.Curve); err != nil {
		return journal.Run{}, err
	}
	if cfg.Journal.Type == "sqlite" {
		fmt.Printf("run %s recorded in %s\n", run.ID, cfg.Journal.DBPath)
	}
	return run, nil
}

func printSummary(sum backtest.Summary, strategy, policy string) {
	fmt.Printf("\n%s / %s: %d instruments, %d signals, %d trades (%d open excluded)\n",
		strategy, policy, sum.Instruments, len(sum.Signals), sum.Stats.Trades, sum.Excluded)

	if len(sum.Skips) > 0 {
		skips := tablewriter.NewWriter(os.Stdout)
		skips.SetHeader([]string{"Skip Reason", "Count"})
		for reason, n := range sum.Skips {
			skips.Append([]string{string(reason), fmt.Sprintf("%d", n)})
		}
		skips.Render()
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Metric", "Value"})
	st := sum.Stats
	for _, row := range [][]string{
		{"Trades", fmt.Sprintf("%d", st.Trades)},
		{"Winners", fmt.Sprintf("%d", st.Winners)},
		{"Losers", fmt.Sprintf("%d", st.Losers)},
		{"Win Rate", fmt.Sprintf("%.2f%%", st.WinRate*100)},
		{"Avg Win", fmt.Sprintf("%.2f%%", st.AvgWin*100)},
		{"Avg Loss", fmt.Sprintf("%.2f%%", st.AvgLoss*100)},
		{"Avg Return", fmt.Sprintf("%.2f%%", st.AvgReturn*100)},
		{"Profit Factor", fmt.Sprintf("%.2f", st.ProfitFactor)},
		{"Annualized", fmt.Sprintf("%.2f%%", st.Annualized*100)},
		{"Sharpe", fmt.Sprintf("%.2f", st.Sharpe)},
		{"Max Drawdown", fmt.Sprintf("%.2f%%", st.MaxDrawdown*100)},
	} {
		table.Append(row)
	}
	table.Render()

	reasons := make(map[sim.ExitReason]int)
	for _, t := range sum.Trades {
		reasons[t.ExitReason]++
	}
	if len(reasons) > 0 {
		exits := tablewriter.NewWriter(os.Stdout)
		exits.SetHeader([]string{"Exit Reason", "Count"})
		for reason, n := range reasons {
			exits.Append([]string{string(reason), fmt.Sprintf("%d", n)})
		}
		exits.Render()
	}
}
