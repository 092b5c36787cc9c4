package cmd

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/wqshao/screener/config"
)

var rootCmd = &cobra.Command{
	Use:   "screener",
	Short: "A-share daily-bar signal screener and backtester",
	Long: `Screener evaluates entry signals over Chinese A-share daily OHLCV
history and measures how they would have traded.

It provides tools for:
  - Backtesting signal predicates against a directory of bar files
  - Scanning the latest session for fresh signals
  - Journaling runs, signals and trades to SQLite or CSV
  - Reviewing past runs`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if verbose {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
}

var (
	cfgPath string
	verbose bool
	logger  *zap.Logger
)

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "", "config file (YAML or JSON)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

// loadConfig returns the file config when --config is set, defaults
// otherwise.
func loadConfig() (*config.Config, error) {
	if cfgPath == "" {
		return config.Default(), nil
	}
	return config.LoadFromFile(cfgPath)
}
