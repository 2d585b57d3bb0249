package ledger

import "fmt"

// SizingError means a requested trade cannot be afforded or sized. The trade
// is rejected; the run continues.
type SizingError struct {
	Reason string
}

func (e *SizingError) Error() string {
	return fmt.Sprintf("ledger: sizing: %s", e.Reason)
}

// LedgerError means an internal invariant was violated (oversell, unknown
// cohort, negative quantity). It indicates a strategy or simulator bug and is
// fatal to the run.
type LedgerError struct {
	Reason string
}

func (e *LedgerError) Error() string {
	return fmt.Sprintf("ledger: consistency: %s", e.Reason)
}
