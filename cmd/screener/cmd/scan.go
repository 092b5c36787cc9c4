package cmd

import (
	"fmt"
	"os"
	"runtime"
	"sort"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/wqshao/screener/indicators"
	"github.com/wqshao/screener/market"
	"github.com/wqshao/screener/signal"
)

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan the latest session for fresh signals",
	Long: `Scan evaluates the configured predicate at the final bar of every
eligible instrument and lists the ones that fire today.

Example:
  screener scan -c screener.yaml --strategy bottom-reversal`,
	RunE: runScan,
}

var (
	scanData     string
	scanStrategy string
)

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVarP(&scanData, "data", "d", "", "bar file directory (overrides config)")
	scanCmd.Flags().StringVarP(&scanStrategy, "strategy", "s", "", "predicate name (overrides config)")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if scanData != "" {
		cfg.Data.Dir = scanData
	}
	if scanStrategy != "" {
		cfg.Strategy.Name = scanStrategy
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	pred, err := cfg.Strategy.Predicate()
	if err != nil {
		return err
	}
	universe, err := loadUniverse(cfg)
	if err != nil {
		return err
	}
	filter := cfg.Universe.Filter()

	workers := cfg.Runner.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	type hit struct {
		sig  signal.Signal
		name string
	}
	hits := make([]*hit, len(universe))

	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(workers)
	for i, s := range universe {
		i, s := i, s
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			if s.Validate() != nil || filter.Check(s) != market.SkipNone || s.Len() < pred.MinBars() {
				return nil
			}
			cols, err := indicators.Compute(s, pred.Specs())
			if err != nil {
				return err
			}
			if sig, ok := signal.EvaluateAt(pred, s, cols, s.Len()-1); ok {
				hits[i] = &hit{sig: sig, name: s.Name}
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var fired []*hit
	for _, h := range hits {
		if h != nil {
			fired = append(fired, h)
		}
	}
	sort.Slice(fired, func(i, j int) bool { return fired[i].sig.Instrument < fired[j].sig.Instrument })

	if len(fired) == 0 {
		fmt.Printf("%s: no signals\n", pred.Name())
		return nil
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Code", "Name", "Date", "Close"})
	for _, h := range fired {
		table.Append([]string{
			h.sig.Instrument,
			h.name,
			h.sig.Date.Format("2006-01-02"),
			fmt.Sprintf("%.2f", h.sig.EntryPrice),
		})
	}
	table.Render()
	fmt.Printf("%d signal(s) from %s\n", len(fired), pred.Name())
	return nil
}
