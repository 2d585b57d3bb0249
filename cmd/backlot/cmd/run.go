package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"backlot/backtest"
	"backlot/config"
	"backlot/internal/logger"
	"backlot/journal"
	"backlot/market"
	"backlot/store"
	"backlot/strategy"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run a single backtest from a config file",
	Long: `Run loads a bar series, replays it through the configured strategy,
prints the performance report, and optionally journals the trade log and
equity curve.

Example:
  backlot run -c configs/multilot.yaml`,
	RunE: runRun,
}

var runConfigPath string

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runConfigPath, "config", "c", "", "path to run config (YAML or JSON) (required)")
	runCmd.MarkFlagRequired("config")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(runConfigPath)
	if err != nil {
		return err
	}

	series, err := loadSeries(&cfg.Data)
	if err != nil {
		return fmt.Errorf("load bars: %w", err)
	}
	logger.Info().
		Str("symbol", series.Symbol).
		Int("bars", series.Len()).
		Str("strategy", cfg.Strategy.Name).
		Msg("starting backtest")

	strat, err := strategy.New(cfg.Strategy)
	if err != nil {
		return err
	}

	res, err := backtest.Run(strat, series, cfg.Costs, backtest.Options{Confidence: cfg.Confidence})
	if err != nil {
		return err
	}

	fmt.Print(res.Report())

	if cfg.Journal.Type != "" && cfg.Journal.Type != "none" {
		if err := journalResult(&cfg.Journal, res); err != nil {
			return fmt.Errorf("journal: %w", err)
		}
	}
	return nil
}

func journalResult(jc *config.JournalConfig, res *backtest.Result) error {
	var j journal.Journal
	var err error

	switch jc.Type {
	case "sqlite":
		j, err = journal.NewSQLite(jc.DBPath)
	case "csv":
		j, err = journal.NewCSV(jc.TradesFile, jc.EquityFile)
	default:
		return fmt.Errorf("unknown journal type %q", jc.Type)
	}
	if err != nil {
		return err
	}
	defer j.Close()

	runID := fmt.Sprintf("%s-%s-%d", res.Symbol, res.Strategy, res.Start.UTC().Unix())
	if err := journal.Record(j, runID, res); err != nil {
		return err
	}
	logger.Info().Str("run_id", runID).Int("trades", len(res.Trades)).Msg("journaled run")
	return nil
}

// loadSeries materializes the bar series named by the data config. Exactly
// one source is set; config.Validate enforced that.
func loadSeries(dc *config.DataConfig) (*market.Series, error) {
	switch {
	case dc.CSVPath != "":
		return store.LoadCSV(dc.CSVPath, dc.Symbol, dc.Interval)

	case dc.DBPath != "":
		db, err := store.OpenSQLite(dc.DBPath)
		if err != nil {
			return nil, err
		}
		defer db.Close()
		return db.LoadBars(dc.Symbol, dc.Interval)

	case dc.ParquetPath != "":
		return store.ImportParquet(dc.ParquetPath, dc.Symbol, dc.Interval)

	default:
		return nil, fmt.Errorf("no data source configured")
	}
}
