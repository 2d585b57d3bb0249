package market

import "fmt"

// InputError reports a malformed price series. It is always returned before
// any simulation state is touched.
type InputError struct {
	Symbol string
	Bar    int
	Reason string
}

func (e *InputError) Error() string {
	if e.Symbol == "" {
		return fmt.Sprintf("market: bad input: %s", e.Reason)
	}
	return fmt.Sprintf("market: bad input for %s: %s", e.Symbol, e.Reason)
}
