package sweep

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backlot/backtest"
	"backlot/market"
	"backlot/strategy"
)

func sampleSeries() *market.Series {
	closes := []float64{100, 97, 99, 95, 98, 102, 99, 104, 101, 106}
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	s := &market.Series{Symbol: "TEST", Interval: market.Daily}
	for i, c := range closes {
		s.Bars = append(s.Bars, market.Bar{
			Time: start.AddDate(0, 0, i),
			Open: c, High: c + 1, Low: c - 1, Close: c,
			Volume: 1000,
		})
	}
	return s
}

func TestRunnerPreservesCandidateOrder(t *testing.T) {
	t.Parallel()

	specs := GridMultiLot(strategy.MultiLotConfig{BuyFirstBar: true}, []float64{2, 3}, []float64{2, 3})
	require.Len(t, specs, 4)

	runner := &Runner{
		Series:  sampleSeries(),
		Costs:   backtest.Costs{InitialCapital: 10_000},
		Workers: 3,
	}

	outcomes, err := runner.Run(specs)
	require.NoError(t, err)
	require.Len(t, outcomes, 4)

	for i, o := range outcomes {
		require.NoError(t, o.Err)
		require.NotNil(t, o.Result)
		assert.Equal(t, specs[i].MultiLot.ProfitTargetPct, o.Spec.MultiLot.ProfitTargetPct,
			"outcome %d must sit at its candidate's index", i)
	}
}

func TestRunnerMatchesSoloRuns(t *testing.T) {
	t.Parallel()

	series := sampleSeries()
	costs := backtest.Costs{InitialCapital: 10_000, CommissionRate: 0.001}
	specs := GridMultiLot(strategy.MultiLotConfig{BuyFirstBar: true}, []float64{2, 4}, []float64{3})

	runner := &Runner{Series: series, Costs: costs, Workers: 2}
	outcomes, err := runner.Run(specs)
	require.NoError(t, err)

	for i, spec := range specs {
		strat, err := strategy.New(spec)
		require.NoError(t, err)
		solo, err := backtest.Run(strat, series, costs, backtest.Options{})
		require.NoError(t, err)

		assert.Equal(t, solo, outcomes[i].Result,
			"a sweep run must be identical to the same spec run alone")
	}
}

func TestRunnerReportsBadSpecWithoutAborting(t *testing.T) {
	t.Parallel()

	specs := []strategy.Spec{
		{Name: "multilot"},
		{Name: "does-not-exist"},
		{Name: "dca"},
	}

	runner := &Runner{Series: sampleSeries(), Costs: backtest.Costs{InitialCapital: 10_000}}
	outcomes, err := runner.Run(specs)
	require.NoError(t, err)

	assert.NoError(t, outcomes[0].Err)
	assert.Error(t, outcomes[1].Err)
	assert.Nil(t, outcomes[1].Result)
	assert.NoError(t, outcomes[2].Err)
}

func TestRunnerValidatesInput(t *testing.T) {
	t.Parallel()

	runner := &Runner{Series: nil}
	_, err := runner.Run([]strategy.Spec{{Name: "multilot"}})
	assert.Error(t, err)

	runner = &Runner{Series: sampleSeries()}
	_, err = runner.Run(nil)
	assert.Error(t, err)
}

func TestBestPicksHighestScoreDeterministically(t *testing.T) {
	t.Parallel()

	mk := func(totalReturn float64) Outcome {
		return Outcome{Result: &backtest.Result{Metrics: backtest.Metrics{TotalReturn: totalReturn}}}
	}

	outcomes := []Outcome{mk(0.1), mk(0.3), {Err: assert.AnError}, mk(0.3), mk(0.2)}

	best, ok := Best(outcomes, ByTotalReturn)
	require.True(t, ok)
	assert.Same(t, outcomes[1].Result, best.Result, "ties keep the earliest candidate")

	_, ok = Best([]Outcome{{Err: assert.AnError}}, ByTotalReturn)
	assert.False(t, ok)
}

func TestGridMultiLotEnumeratesProduct(t *testing.T) {
	t.Parallel()

	base := strategy.MultiLotConfig{MaxCohorts: 5, BaseQuantity: 2}
	specs := GridMultiLot(base, []float64{1, 2, 3}, []float64{4, 5})
	require.Len(t, specs, 6)

	for _, spec := range specs {
		assert.Equal(t, "multilot", spec.Name)
		assert.Equal(t, 5, spec.MultiLot.MaxCohorts, "base fields carry through")
		assert.Equal(t, 2.0, spec.MultiLot.BaseQuantity)
	}
	assert.Equal(t, 1.0, specs[0].MultiLot.ProfitTargetPct)
	assert.Equal(t, 4.0, specs[0].MultiLot.PullbackPct)
	assert.Equal(t, 3.0, specs[5].MultiLot.ProfitTargetPct)
	assert.Equal(t, 5.0, specs[5].MultiLot.PullbackPct)
}
