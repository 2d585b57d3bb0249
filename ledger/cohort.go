package ledger

import "time"

// Cohort is one independently tracked purchase. It is created by a buy fill
// and closed on its own once its strategy's profit condition is met.
type Cohort struct {
	ID         string
	EntryPrice float64
	Quantity   float64
	EntryTime  time.Time
}

// Gain returns the unrealized gain of the cohort at the given price, as a
// percentage of the entry price.
func (c Cohort) Gain(price float64) float64 {
	return (price - c.EntryPrice) / c.EntryPrice * 100
}

// Realized records the outcome of a closed (or partially closed) cohort.
// Records are append-only.
type Realized struct {
	CohortID   string
	EntryPrice float64
	ExitPrice  float64
	Quantity   float64
	PnL        float64
	EntryTime  time.Time
	ExitTime   time.Time
}
