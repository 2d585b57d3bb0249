package strategy

import "backlot/ledger"

// Action is the per-bar decision of a strategy.
type Action int8

const (
	Hold Action = iota
	Buy
	Sell
)

func (a Action) String() string {
	switch a {
	case Buy:
		return "BUY"
	case Sell:
		return "SELL"
	default:
		return "HOLD"
	}
}

// Signal is one trade request for the current bar. It is produced by a
// strategy, consumed immediately by the simulator, and not retained.
//
// Exactly one of Quantity or CapitalFraction sizes a BUY: a positive Quantity
// is an absolute unit count; otherwise CapitalFraction is the share of free
// cash to deploy. SELLs always carry the Quantity and CohortID of the cohort
// being closed.
type Signal struct {
	Action          Action
	Quantity        float64
	CapitalFraction float64
	CohortID        string
	Reason          string
}

// Book is the read-only view of the position ledger a strategy may consult.
// Cohorts are returned in entry order, which fixes the close tie-break:
// oldest entry first.
type Book interface {
	Cash() float64
	OpenCount() int
	OpenCohorts() []ledger.Cohort
	AverageCost() float64
	TotalQuantity() float64
}
