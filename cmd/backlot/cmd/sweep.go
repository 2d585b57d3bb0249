package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"backlot/backtest"
	"backlot/config"
	"backlot/internal/logger"
	"backlot/sweep"
)

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Sweep multi-lot parameters and rank the results",
	Long: `Sweep runs the configured series through every combination of the
given profit targets and pullback thresholds, in parallel, and prints the
ranked outcomes plus the full report of the best run.

Example:
  backlot sweep -c configs/multilot.yaml --targets 2,3,5 --pullbacks 2,3,5 --rank sharpe`,
	RunE: runSweep,
}

var (
	swConfigPath string
	swTargets    string
	swPullbacks  string
	swWorkers    int
	swRank       string
)

func init() {
	rootCmd.AddCommand(sweepCmd)

	sweepCmd.Flags().StringVarP(&swConfigPath, "config", "c", "", "path to run config (YAML or JSON) (required)")
	sweepCmd.Flags().StringVar(&swTargets, "targets", "2,3,5", "comma-separated profit target percentages")
	sweepCmd.Flags().StringVar(&swPullbacks, "pullbacks", "2,3,5", "comma-separated pullback threshold percentages")
	sweepCmd.Flags().IntVar(&swWorkers, "workers", 0, "parallel runs (0 = GOMAXPROCS)")
	sweepCmd.Flags().StringVar(&swRank, "rank", "return", "ranking metric (return, sharpe)")
	sweepCmd.MarkFlagRequired("config")
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadFromFile(swConfigPath)
	if err != nil {
		return err
	}

	targets, err := parseFloats(swTargets)
	if err != nil {
		return fmt.Errorf("targets: %w", err)
	}
	pullbacks, err := parseFloats(swPullbacks)
	if err != nil {
		return fmt.Errorf("pullbacks: %w", err)
	}

	var score func(backtest.Metrics) float64
	switch swRank {
	case "return":
		score = sweep.ByTotalReturn
	case "sharpe":
		score = sweep.BySharpe
	default:
		return fmt.Errorf("unknown rank %q (return, sharpe)", swRank)
	}

	series, err := loadSeries(&cfg.Data)
	if err != nil {
		return fmt.Errorf("load bars: %w", err)
	}

	specs := sweep.GridMultiLot(cfg.Strategy.MultiLot, targets, pullbacks)
	logger.Info().Int("candidates", len(specs)).Int("bars", series.Len()).Msg("starting sweep")

	runner := &sweep.Runner{
		Series:  series,
		Costs:   cfg.Costs,
		Options: backtest.Options{Confidence: cfg.Confidence},
		Workers: swWorkers,
	}
	outcomes, err := runner.Run(specs)
	if err != nil {
		return err
	}

	fmt.Printf("%-10s %-10s %12s %10s %10s\n", "target%", "pullback%", "return", "sharpe", "maxDD")
	for _, o := range outcomes {
		if o.Err != nil {
			logger.Warn().Err(o.Err).Msg("candidate failed")
			continue
		}
		m := o.Result.Metrics
		fmt.Printf("%-10.2f %-10.2f %11.2f%% %10.2f %9.2f%%\n",
			o.Spec.MultiLot.ProfitTargetPct, o.Spec.MultiLot.PullbackPct,
			m.TotalReturn*100, m.Sharpe, m.MaxDrawdown*100)
	}

	best, ok := sweep.Best(outcomes, score)
	if !ok {
		return fmt.Errorf("sweep: no run finished")
	}
	fmt.Printf("\nBest by %s: target %.2f%%, pullback %.2f%%\n\n",
		swRank, best.Spec.MultiLot.ProfitTargetPct, best.Spec.MultiLot.PullbackPct)
	fmt.Print(best.Result.Report())
	return nil
}

func parseFloats(s string) ([]float64, error) {
	var out []float64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", part)
		}
		out = append(out, v)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty list")
	}
	return out, nil
}
