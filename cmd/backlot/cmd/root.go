package cmd

import (
	"github.com/spf13/cobra"

	"backlot/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "backlot",
	Short: "Rule-based backtesting for multi-lot accumulation strategies",
	Long: `Backlot replays historical bar data through rule-based trading
strategies and reports risk and return statistics.

It provides tools for:
  - Backtesting multi-lot accumulation and percentage-trigger strategies
  - Sweeping strategy parameters in parallel and ranking the results
  - Caching bar data in SQLite and exchanging it as CSV or Parquet
  - Journaling trade logs and equity curves for later analysis`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(func() { logger.Init("backlot") })
}
