package backtest

import (
	"errors"
	"fmt"
	"math"

	"backlot/internal/id"
	"backlot/ledger"
	"backlot/market"
	"backlot/strategy"
)

// Options tune metric computation. The zero value is sensible.
type Options struct {
	// Confidence for VaR/CVaR, e.g. 0.95. Zero means 0.95.
	Confidence float64
}

// Run executes one backtest: the strategy sees bars[0..t] and the pre-bar
// book at every bar t, trades are applied at that bar's close adjusted for
// slippage and commission, and one equity snapshot is recorded per bar.
//
// A rejected trade (would overdraw cash, or sized below one unit) is logged
// and skipped; the run continues. A ledger consistency violation aborts the
// whole run with a *ledger.LedgerError and no partial result.
//
// Given identical inputs the output is bit-for-bit identical: there is no
// randomness and no wall-clock dependence.
func Run(strat strategy.Strategy, series *market.Series, costs Costs, opts Options) (*Result, error) {
	if strat == nil {
		return nil, fmt.Errorf("backtest: strategy is required")
	}
	if series == nil {
		return nil, &market.InputError{Reason: "nil series"}
	}
	if err := series.Validate(); err != nil {
		return nil, err
	}
	if costs.InitialCapital <= 0 {
		return nil, &market.InputError{Symbol: series.Symbol, Reason: "initial capital must be positive"}
	}
	if costs.CommissionRate < 0 || costs.SlippageRate < 0 {
		return nil, &market.InputError{Symbol: series.Symbol, Reason: "negative cost rates"}
	}

	led := ledger.New(costs.InitialCapital)
	gen := id.NewGenerator()

	res := &Result{
		Symbol:   series.Symbol,
		Strategy: strat.Name(),
		Costs:    costs,
		Start:    series.Bars[0].Time,
		End:      series.Bars[len(series.Bars)-1].Time,
	}

	for i, bar := range series.Bars {
		signals := strat.OnBar(series.Bars[:i+1], led)

		for _, sig := range signals {
			var err error
			switch sig.Action {
			case strategy.Buy:
				err = applyBuy(res, led, gen, bar, costs, sig)
			case strategy.Sell:
				err = applySell(res, led, gen, bar, costs, sig)
			}
			if err != nil {
				// Ledger consistency errors indicate a strategy or simulator
				// bug. Abort: no partial result is surfaced as valid.
				return nil, err
			}
		}

		res.Snapshots = append(res.Snapshots, EquitySnapshot{
			Time:          bar.Time,
			Cash:          led.Cash(),
			PositionValue: led.MarketValue(bar.Close),
			TotalEquity:   led.Equity(bar.Close),
		})
	}

	// End of series: open cohorts stay open, marked at the last close.
	res.Realized = led.RealizedLog()
	res.OpenCohorts = led.OpenCohorts()

	lastClose := series.Bars[len(series.Bars)-1].Close
	firstClose := series.Bars[0].Close

	res.Metrics = ComputeMetrics(MetricsInput{
		Snapshots:      res.Snapshots,
		Realized:       res.Realized,
		Trades:         res.Trades,
		InitialCapital: costs.InitialCapital,
		PeriodsPerYear: series.Interval.PeriodsPerYear(),
		Confidence:     opts.Confidence,
		BuyHoldReturn:  lastClose/firstClose - 1,
	})

	return res, nil
}

func applyBuy(res *Result, led *ledger.Ledger, gen *id.Generator, bar market.Bar, costs Costs, sig strategy.Signal) error {
	fill := bar.Close * (1 + costs.SlippageRate)

	qty := sig.Quantity
	if qty <= 0 && sig.CapitalFraction > 0 {
		unitCost := fill * (1 + costs.CommissionRate)
		qty = math.Floor(led.Cash() * sig.CapitalFraction / unitCost)
	}

	commission := fill * qty * costs.CommissionRate
	cost := fill*qty + commission

	rec := TradeRecord{
		ID:       gen.At(bar.Time),
		Time:     bar.Time,
		Side:     strategy.Buy.String(),
		Quantity: qty,
		Price:    fill,
		Reason:   sig.Reason,
	}

	if qty < 1 {
		rec.Rejected = true
		rec.Reason = "sized below one unit"
		res.Trades = append(res.Trades, rec)
		return nil
	}

	cohortID := gen.At(bar.Time)
	if err := led.Buy(cohortID, fill, qty, cost, bar.Time); err != nil {
		var sizing *ledger.SizingError
		if errors.As(err, &sizing) {
			rec.Rejected = true
			rec.Reason = sizing.Reason
			res.Trades = append(res.Trades, rec)
			return nil
		}
		return err
	}

	rec.CohortID = cohortID
	rec.Commission = commission
	rec.Slippage = (fill - bar.Close) * qty
	res.Trades = append(res.Trades, rec)
	return nil
}

func applySell(res *Result, led *ledger.Ledger, gen *id.Generator, bar market.Bar, costs Costs, sig strategy.Signal) error {
	fill := bar.Close * (1 - costs.SlippageRate)
	proceeds := fill * sig.Quantity * (1 - costs.CommissionRate)

	if _, err := led.Sell(sig.CohortID, fill, sig.Quantity, proceeds, bar.Time); err != nil {
		// Any sell failure is a ledger consistency bug, never swallowed.
		return err
	}

	res.Trades = append(res.Trades, TradeRecord{
		ID:         gen.At(bar.Time),
		Time:       bar.Time,
		Side:       strategy.Sell.String(),
		Quantity:   sig.Quantity,
		Price:      fill,
		Commission: fill * sig.Quantity * costs.CommissionRate,
		Slippage:   (bar.Close - fill) * sig.Quantity,
		CohortID:   sig.CohortID,
		Reason:     sig.Reason,
	})
	return nil
}
