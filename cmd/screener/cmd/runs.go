package cmd

import (
	"fmt"
	"os"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/wqshao/screener/journal"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List journaled backtest runs",
	Long:  `Runs lists the most recent backtest runs from the SQLite journal, newest first.`,
	RunE:  runRuns,
}

var runsLimit int

func init() {
	rootCmd.AddCommand(runsCmd)

	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "maximum runs to list")
}

func runRuns(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.Journal.Type != "sqlite" || cfg.Journal.DBPath == "" {
		return fmt.Errorf("runs requires a sqlite journal in the config")
	}

	j, err := journal.NewSQLite(cfg.Journal.DBPath)
	if err != nil {
		return err
	}
	defer j.Close()

	runs, err := j.ListRuns(cmd.Context(), runsLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Run", "Created", "Strategy", "Exit", "Trades", "Win Rate", "Annualized", "Max DD"})
	for _, r := range runs {
		table.Append([]string{
			r.ID,
			r.Created.Format("2006-01-02 15:04"),
			r.Strategy,
			r.ExitPolicy,
			fmt.Sprintf("%d", r.Stats.Trades),
			fmt.Sprintf("%.1f%%", r.Stats.WinRate*100),
			fmt.Sprintf("%.1f%%", r.Stats.Annualized*100),
			fmt.Sprintf("%.1f%%", r.Stats.MaxDrawdown*100),
		})
	}
	table.Render()
	return nil
}
