// Package strategy implements the signal engines: rule-based accumulation
// strategies plus the legacy indicator-crossover strategies. Every strategy
// is a pure function of the series-so-far and the current position book;
// none may look at bars past the one being evaluated.
package strategy

import "backlot/market"

// Strategy maps the series-so-far to trade signals for the latest bar.
//
// OnBar receives bars[0..t] inclusive — the bar under evaluation is the last
// element — and the pre-bar position book. Implementations must be
// deterministic and stateless apart from their parameters, so that the signal
// at bar t is invariant under appending later bars.
type Strategy interface {
	Name() string
	OnBar(bars []market.Bar, book Book) []Signal
}
