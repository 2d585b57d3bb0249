// Package ledger tracks the cash and open purchase cohorts of a single
// backtest run. A Ledger is owned by exactly one simulator and never shared
// across runs.
package ledger

import (
	"fmt"
	"time"
)

// Ledger holds cash and open cohorts in entry order. Cohorts are kept in an
// insertion-ordered slice for stable iteration plus an id index for O(1)
// close lookups.
type Ledger struct {
	cash     float64
	open     []*Cohort
	byID     map[string]*Cohort
	realized []Realized
}

// New creates a ledger with the given starting cash.
func New(cash float64) *Ledger {
	return &Ledger{
		cash: cash,
		byID: make(map[string]*Cohort),
	}
}

// Cash returns the current free cash.
func (l *Ledger) Cash() float64 { return l.cash }

// OpenCount returns the number of open cohorts.
func (l *Ledger) OpenCount() int { return len(l.open) }

// OpenCohorts returns a copy of the open cohorts in entry order.
func (l *Ledger) OpenCohorts() []Cohort {
	out := make([]Cohort, len(l.open))
	for i, c := range l.open {
		out[i] = *c
	}
	return out
}

// RealizedLog returns the append-only realized P&L log.
func (l *Ledger) RealizedLog() []Realized { return l.realized }

// TotalQuantity returns the summed quantity of all open cohorts.
func (l *Ledger) TotalQuantity() float64 {
	total := 0.0
	for _, c := range l.open {
		total += c.Quantity
	}
	return total
}

// AverageCost returns the quantity-weighted mean entry price over currently
// open cohorts. Closed cohorts are excluded. Returns 0 with no open cohorts.
func (l *Ledger) AverageCost() float64 {
	qty, cost := 0.0, 0.0
	for _, c := range l.open {
		qty += c.Quantity
		cost += c.Quantity * c.EntryPrice
	}
	if qty == 0 {
		return 0
	}
	return cost / qty
}

// MarketValue marks all open cohorts at the given price.
func (l *Ledger) MarketValue(price float64) float64 {
	return l.TotalQuantity() * price
}

// Equity returns cash plus position value at the given mark price.
func (l *Ledger) Equity(price float64) float64 {
	return l.cash + l.MarketValue(price)
}

// Buy opens a new cohort. cost is the full cash outlay including commission
// and slippage. A cost exceeding available cash returns a *SizingError and
// leaves the ledger untouched; trades are never resized to fit.
func (l *Ledger) Buy(id string, entryPrice, quantity, cost float64, at time.Time) error {
	if quantity <= 0 {
		return &SizingError{Reason: fmt.Sprintf("non-positive quantity %v", quantity)}
	}
	if cost > l.cash {
		return &SizingError{Reason: fmt.Sprintf("cost %.2f exceeds cash %.2f", cost, l.cash)}
	}
	if _, dup := l.byID[id]; dup {
		return &LedgerError{Reason: fmt.Sprintf("duplicate cohort id %s", id)}
	}

	c := &Cohort{
		ID:         id,
		EntryPrice: entryPrice,
		Quantity:   quantity,
		EntryTime:  at,
	}
	l.cash -= cost
	l.open = append(l.open, c)
	l.byID[id] = c

	return l.check()
}

// Sell closes quantity units of the identified cohort, crediting proceeds
// (net of commission and slippage) to cash. Selling more than the cohort
// holds, or an unknown cohort, is a fatal *LedgerError.
func (l *Ledger) Sell(cohortID string, exitPrice, quantity, proceeds float64, at time.Time) (Realized, error) {
	c, ok := l.byID[cohortID]
	if !ok {
		return Realized{}, &LedgerError{Reason: fmt.Sprintf("unknown cohort %s", cohortID)}
	}
	if quantity <= 0 {
		return Realized{}, &LedgerError{Reason: fmt.Sprintf("non-positive sell quantity %v", quantity)}
	}
	if quantity > c.Quantity {
		return Realized{}, &LedgerError{
			Reason: fmt.Sprintf("oversell: cohort %s holds %v, asked %v", cohortID, c.Quantity, quantity),
		}
	}

	rec := Realized{
		CohortID:   c.ID,
		EntryPrice: c.EntryPrice,
		ExitPrice:  exitPrice,
		Quantity:   quantity,
		PnL:        proceeds - c.EntryPrice*quantity,
		EntryTime:  c.EntryTime,
		ExitTime:   at,
	}

	l.cash += proceeds
	c.Quantity -= quantity
	if c.Quantity == 0 {
		l.remove(cohortID)
	}
	l.realized = append(l.realized, rec)

	if err := l.check(); err != nil {
		return Realized{}, err
	}
	return rec, nil
}

func (l *Ledger) remove(id string) {
	delete(l.byID, id)
	for i, c := range l.open {
		if c.ID == id {
			l.open = append(l.open[:i], l.open[i+1:]...)
			return
		}
	}
}

// check enforces the ledger invariants after every mutation.
func (l *Ledger) check() error {
	if l.cash < 0 {
		return &LedgerError{Reason: fmt.Sprintf("negative cash %.4f", l.cash)}
	}
	for _, c := range l.open {
		if c.Quantity <= 0 {
			return &LedgerError{Reason: fmt.Sprintf("cohort %s has non-positive quantity %v", c.ID, c.Quantity)}
		}
	}
	return nil
}
