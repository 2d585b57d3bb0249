package backtest

import (
	"fmt"
	"math"
	"strings"
)

// Report renders the metrics as a fixed-width text summary. Infinite
// sentinels print as "inf"; ratios that are undefined for a zero-trade run
// print as "n/a". The caller decides where the text goes.
func (r *Result) Report() string {
	m := r.Metrics

	var b strings.Builder
	rule := strings.Repeat("=", 56)

	fmt.Fprintln(&b, rule)
	fmt.Fprintf(&b, "Backtest %s on %s (%s .. %s)\n",
		r.Strategy, r.Symbol, r.Start.Format("2006-01-02"), r.End.Format("2006-01-02"))
	fmt.Fprintln(&b, rule)

	row := func(name, value string) {
		fmt.Fprintf(&b, "%-28s %26s\n", name, value)
	}
	money := func(v float64) string { return fmt.Sprintf("$%.2f", v) }
	pct := func(v float64) string { return fmt.Sprintf("%.2f%%", v*100) }

	row("Initial capital", money(m.InitialCapital))
	row("Final equity", money(m.FinalEquity))
	row("Total return", pct(m.TotalReturn))
	row("Annualized return", pct(m.AnnualizedReturn))
	row("Buy & hold return", pct(m.BuyHoldReturn))
	row("Excess vs buy & hold", pct(m.TotalReturn-m.BuyHoldReturn))
	row("Annual volatility", pct(m.Volatility))
	row("Sharpe", ratio(m.Sharpe))
	row("Sortino", ratio(m.Sortino))
	row("Calmar", ratio(m.Calmar))
	row("Max drawdown", pct(m.MaxDrawdown))
	row("Max drawdown duration", fmt.Sprintf("%d bars", m.MaxDrawdownDuration))
	row(fmt.Sprintf("VaR %.0f%%", m.Confidence*100), pct(m.VaR))
	row(fmt.Sprintf("CVaR %.0f%%", m.Confidence*100), pct(m.CVaR))
	row("Closed cohorts", fmt.Sprintf("%d", m.ClosedCohorts))
	if m.ClosedCohorts == 0 {
		row("Win rate", "n/a")
		row("Profit factor", "n/a")
	} else {
		row("Win rate", pct(m.WinRate))
		row("Profit factor", ratio(m.ProfitFactor))
		row("Avg win / avg loss", fmt.Sprintf("%.2f / %.2f", m.AvgWin, m.AvgLoss))
		row("Largest win / loss", fmt.Sprintf("%.2f / %.2f", m.LargestWin, m.LargestLoss))
	}
	row("Rejected trades", fmt.Sprintf("%d", m.RejectedTrades))
	row("Open cohorts at end", fmt.Sprintf("%d", len(r.OpenCohorts)))

	fmt.Fprintln(&b, rule)
	return b.String()
}

func ratio(v float64) string {
	if math.IsInf(v, 1) {
		return "inf"
	}
	return fmt.Sprintf("%.2f", v)
}
