// Package backtest walks a validated price series bar-by-bar, applies
// strategy signals to a position ledger under cash, commission and slippage
// constraints, and computes performance statistics over the resulting equity
// curve. Output is pure data; nothing here writes files or logs.
package backtest

import (
	"time"

	"backlot/ledger"
)

// Costs are the cash and friction parameters of a run. Rates are fractions
// (0.001 = 0.1%) and are charged on both legs, no netting.
type Costs struct {
	InitialCapital float64 `json:"initial_capital" yaml:"initial_capital"`
	CommissionRate float64 `json:"commission_rate" yaml:"commission_rate"`
	SlippageRate   float64 `json:"slippage_rate" yaml:"slippage_rate"`
}

// TradeRecord is one executed or rejected trade. Records are append-only and
// never mutated after creation; rejected attempts stay in the log with
// Rejected set and no ledger effect.
type TradeRecord struct {
	ID         string    `json:"id"`
	Time       time.Time `json:"time"`
	Side       string    `json:"side"`
	Quantity   float64   `json:"quantity"`
	Price      float64   `json:"price"`
	Commission float64   `json:"commission"`
	Slippage   float64   `json:"slippage"`
	CohortID   string    `json:"cohort_id,omitempty"`
	Rejected   bool      `json:"rejected,omitempty"`
	Reason     string    `json:"reason,omitempty"`
}

// EquitySnapshot marks the account at one bar's close.
type EquitySnapshot struct {
	Time          time.Time `json:"time"`
	Cash          float64   `json:"cash"`
	PositionValue float64   `json:"position_value"`
	TotalEquity   float64   `json:"total_equity"`
}

// Result is the complete outcome of one run: the full equity curve, the
// trade log, the realized P&L log and the computed metrics.
type Result struct {
	Symbol   string `json:"symbol"`
	Strategy string `json:"strategy"`

	Costs Costs     `json:"costs"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	Snapshots []EquitySnapshot  `json:"snapshots"`
	Trades    []TradeRecord     `json:"trades"`
	Realized  []ledger.Realized `json:"realized"`

	// OpenCohorts holds positions still open at the end of the series,
	// marked-to-market in the last snapshot but never liquidated.
	OpenCohorts []ledger.Cohort `json:"open_cohorts,omitempty"`

	Metrics Metrics `json:"metrics"`
}

// FinalEquity returns the total equity at the last snapshot.
func (r *Result) FinalEquity() float64 {
	if len(r.Snapshots) == 0 {
		return r.Costs.InitialCapital
	}
	return r.Snapshots[len(r.Snapshots)-1].TotalEquity
}
