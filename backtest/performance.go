package backtest

import (
	"math"
	"sort"

	"backlot/indicators"
	"backlot/ledger"
)

// Metrics are the risk/return statistics of a completed run.
//
// Sentinels instead of NaN: ProfitFactor and Sortino are +Inf when there are
// no losses / no downside returns; a run with zero closed cohorts reports
// WinRate 0 and ProfitFactor 0 with ClosedCohorts 0 marking them undefined.
type Metrics struct {
	InitialCapital float64 `json:"initial_capital"`
	FinalEquity    float64 `json:"final_equity"`

	TotalReturn      float64 `json:"total_return"`
	AnnualizedReturn float64 `json:"annualized_return"`
	BuyHoldReturn    float64 `json:"buy_hold_return"`

	Volatility float64 `json:"volatility"`
	Sharpe     float64 `json:"sharpe"`
	Sortino    float64 `json:"sortino"`
	Calmar     float64 `json:"calmar"`

	MaxDrawdown         float64 `json:"max_drawdown"`
	MaxDrawdownDuration int     `json:"max_drawdown_duration_bars"`

	VaR        float64 `json:"var"`
	CVaR       float64 `json:"cvar"`
	Confidence float64 `json:"confidence"`

	ClosedCohorts int     `json:"closed_cohorts"`
	WinRate       float64 `json:"win_rate"`
	ProfitFactor  float64 `json:"profit_factor"`
	AvgWin        float64 `json:"avg_win"`
	AvgLoss       float64 `json:"avg_loss"`
	LargestWin    float64 `json:"largest_win"`
	LargestLoss   float64 `json:"largest_loss"`

	RejectedTrades int `json:"rejected_trades"`
}

// MetricsInput bundles everything the analyzer consumes. It is pure data;
// the analyzer never touches the ledger or the series.
type MetricsInput struct {
	Snapshots      []EquitySnapshot
	Realized       []ledger.Realized
	Trades         []TradeRecord
	InitialCapital float64
	PeriodsPerYear float64
	Confidence     float64
	BuyHoldReturn  float64
}

// ComputeMetrics derives all statistics from the equity curve and the trade
// logs. It is a pure function: same input, same output.
func ComputeMetrics(in MetricsInput) Metrics {
	conf := in.Confidence
	if conf <= 0 || conf >= 1 {
		conf = 0.95
	}

	m := Metrics{
		InitialCapital: in.InitialCapital,
		FinalEquity:    in.InitialCapital,
		Confidence:     conf,
		BuyHoldReturn:  in.BuyHoldReturn,
	}
	if len(in.Snapshots) > 0 {
		m.FinalEquity = in.Snapshots[len(in.Snapshots)-1].TotalEquity
	}
	m.TotalReturn = m.FinalEquity/in.InitialCapital - 1

	if n := len(in.Snapshots); n > 0 && in.PeriodsPerYear > 0 {
		m.AnnualizedReturn = math.Pow(1+m.TotalReturn, in.PeriodsPerYear/float64(n)) - 1
	}

	returns := equityReturns(in.Snapshots)
	m.Volatility = indicators.Stdev(returns) * math.Sqrt(in.PeriodsPerYear)
	m.Sharpe = sharpe(returns, in.PeriodsPerYear)
	m.Sortino = sortino(returns, in.PeriodsPerYear)

	m.MaxDrawdown, m.MaxDrawdownDuration = drawdown(in.Snapshots)
	if m.MaxDrawdown != 0 {
		m.Calmar = m.TotalReturn / m.MaxDrawdown
	}

	m.VaR, m.CVaR = historicalVaR(returns, conf)

	fillTradeStats(&m, in.Realized)

	for _, t := range in.Trades {
		if t.Rejected {
			m.RejectedTrades++
		}
	}

	return m
}

// equityReturns is the per-bar percentage change of total equity.
func equityReturns(snaps []EquitySnapshot) []float64 {
	if len(snaps) < 2 {
		return nil
	}
	out := make([]float64, 0, len(snaps)-1)
	for i := 1; i < len(snaps); i++ {
		prev := snaps[i-1].TotalEquity
		if prev == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, snaps[i].TotalEquity/prev-1)
	}
	return out
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sharpe annualizes mean/stdev of per-bar returns. Zero variance reports 0,
// never NaN.
func sharpe(returns []float64, periodsPerYear float64) float64 {
	sd := indicators.Stdev(returns)
	if sd == 0 {
		return 0
	}
	return mean(returns) / sd * math.Sqrt(periodsPerYear)
}

// sortino uses only downside deviation in the denominator. With no negative
// returns it is undefined: +Inf when the mean is positive, 0 otherwise.
func sortino(returns []float64, periodsPerYear float64) float64 {
	var downside []float64
	for _, r := range returns {
		if r < 0 {
			downside = append(downside, r)
		}
	}

	mu := mean(returns)
	if len(downside) == 0 {
		if mu > 0 {
			return math.Inf(1)
		}
		return 0
	}

	sd := indicators.Stdev(downside)
	if sd == 0 {
		if mu > 0 {
			return math.Inf(1)
		}
		return 0
	}
	return mu / sd * math.Sqrt(periodsPerYear)
}

// drawdown returns the max peak-to-trough decline as a positive fraction of
// the peak, and the longest drawdown span in bars (peak to recovery, or to
// the series end if never recovered).
func drawdown(snaps []EquitySnapshot) (maxDD float64, longest int) {
	if len(snaps) == 0 {
		return 0, 0
	}

	peak := snaps[0].TotalEquity
	peakIdx := 0
	inDD := false

	for i, s := range snaps {
		if s.TotalEquity >= peak {
			if inDD {
				if span := i - peakIdx; span > longest {
					longest = span
				}
				inDD = false
			}
			peak = s.TotalEquity
			peakIdx = i
			continue
		}

		inDD = true
		if peak > 0 {
			if dd := (peak - s.TotalEquity) / peak; dd > maxDD {
				maxDD = dd
			}
		}
	}

	if inDD {
		if span := len(snaps) - 1 - peakIdx; span > longest {
			longest = span
		}
	}
	return maxDD, longest
}

// historicalVaR computes VaR and CVaR from the empirical distribution of
// per-bar returns (no distributional assumption). VaR is the linearly
// interpolated (1-confidence) quantile; CVaR is the mean of returns at or
// below it.
func historicalVaR(returns []float64, confidence float64) (valueAtRisk, conditional float64) {
	if len(returns) == 0 {
		return 0, 0
	}

	sorted := make([]float64, len(returns))
	copy(sorted, returns)
	sort.Float64s(sorted)

	valueAtRisk = quantile(sorted, 1-confidence)

	var tail []float64
	for _, r := range sorted {
		if r <= valueAtRisk {
			tail = append(tail, r)
		}
	}
	if len(tail) == 0 {
		return valueAtRisk, valueAtRisk
	}
	return valueAtRisk, mean(tail)
}

// quantile interpolates linearly between order statistics, matching the
// classic empirical percentile definition.
func quantile(sorted []float64, q float64) float64 {
	n := len(sorted)
	if n == 1 {
		return sorted[0]
	}
	pos := q * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo < 0 {
		lo, hi = 0, 0
	}
	if hi > n-1 {
		lo, hi = n-1, n-1
	}
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}

func fillTradeStats(m *Metrics, realized []ledger.Realized) {
	m.ClosedCohorts = len(realized)
	if len(realized) == 0 {
		return
	}

	var wins, losses int
	var grossWin, grossLoss float64
	for _, r := range realized {
		switch {
		case r.PnL > 0:
			wins++
			grossWin += r.PnL
			if r.PnL > m.LargestWin {
				m.LargestWin = r.PnL
			}
		case r.PnL < 0:
			losses++
			grossLoss += -r.PnL
			if -r.PnL > m.LargestLoss {
				m.LargestLoss = -r.PnL
			}
		}
	}

	m.WinRate = float64(wins) / float64(len(realized))
	if wins > 0 {
		m.AvgWin = grossWin / float64(wins)
	}
	if losses > 0 {
		m.AvgLoss = grossLoss / float64(losses)
	}

	switch {
	case grossLoss > 0:
		m.ProfitFactor = grossWin / grossLoss
	case grossWin > 0:
		m.ProfitFactor = math.Inf(1)
	}
}
