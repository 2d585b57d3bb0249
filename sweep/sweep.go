// Package sweep runs the same series through many strategy variants in
// parallel and ranks the results. Each run gets its own ledger and id
// generator, so runs never share mutable state and the output for a given
// spec is identical whether it ran alone or inside a sweep.
package sweep

import (
	"fmt"
	"runtime"
	"sync"

	"backlot/backtest"
	"backlot/market"
	"backlot/strategy"
)

// Outcome pairs one candidate spec with its result. Err is set when the spec
// failed to build or the run aborted; Result is nil in that case.
type Outcome struct {
	Spec   strategy.Spec
	Result *backtest.Result
	Err    error
}

// Runner sweeps candidate specs over a fixed series and cost model.
type Runner struct {
	Series  *market.Series
	Costs   backtest.Costs
	Options backtest.Options

	// Workers bounds parallelism. Zero means GOMAXPROCS.
	Workers int
}

// Run executes every candidate and returns outcomes in candidate order,
// regardless of which worker finished first.
func (r *Runner) Run(candidates []strategy.Spec) ([]Outcome, error) {
	if r.Series == nil {
		return nil, &market.InputError{Reason: "nil series"}
	}
	if err := r.Series.Validate(); err != nil {
		return nil, err
	}
	if len(candidates) == 0 {
		return nil, fmt.Errorf("sweep: no candidate specs")
	}

	workers := r.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if workers > len(candidates) {
		workers = len(candidates)
	}

	outcomes := make([]Outcome, len(candidates))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				outcomes[i] = r.runOne(candidates[i])
			}
		}()
	}

	for i := range candidates {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	return outcomes, nil
}

func (r *Runner) runOne(spec strategy.Spec) Outcome {
	out := Outcome{Spec: spec}

	strat, err := strategy.New(spec)
	if err != nil {
		out.Err = err
		return out
	}

	res, err := backtest.Run(strat, r.Series, r.Costs, r.Options)
	if err != nil {
		out.Err = fmt.Errorf("run %s: %w", strat.Name(), err)
		return out
	}
	out.Result = res
	return out
}

// Best returns the outcome with the highest score among runs that finished.
// Ties keep the earliest candidate, so ranking is deterministic. The second
// return is false when no run finished.
func Best(outcomes []Outcome, score func(backtest.Metrics) float64) (Outcome, bool) {
	best := -1
	for i, o := range outcomes {
		if o.Err != nil || o.Result == nil {
			continue
		}
		if best < 0 || score(o.Result.Metrics) > score(outcomes[best].Result.Metrics) {
			best = i
		}
	}
	if best < 0 {
		return Outcome{}, false
	}
	return outcomes[best], true
}

// ByTotalReturn and BySharpe are the common ranking criteria.
func ByTotalReturn(m backtest.Metrics) float64 { return m.TotalReturn }
func BySharpe(m backtest.Metrics) float64      { return m.Sharpe }

// GridMultiLot enumerates multi-lot specs over the cartesian product of
// profit targets and pullback thresholds.
func GridMultiLot(base strategy.MultiLotConfig, targets, pullbacks []float64) []strategy.Spec {
	var specs []strategy.Spec
	for _, target := range targets {
		for _, pullback := range pullbacks {
			cfg := base
			cfg.ProfitTargetPct = target
			cfg.PullbackPct = pullback
			specs = append(specs, strategy.Spec{Name: "multilot", MultiLot: cfg})
		}
	}
	return specs
}
