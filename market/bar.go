// Package market holds the price-series data model shared by every other
// package: immutable OHLCV bars and the validated, ordered Series the
// simulator walks.
package market

import "time"

// Bar is one OHLCV candlestick. Bars are immutable once produced.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Interval is the sampling period of a series.
type Interval string

const (
	Daily  Interval = "1d"
	Weekly Interval = "1w"
	Hourly Interval = "1h"
)

// PeriodsPerYear returns the annualization factor for the interval.
// Daily bars use 252 trading days; unknown intervals fall back to daily.
func (iv Interval) PeriodsPerYear() float64 {
	switch iv {
	case Weekly:
		return 52
	case Hourly:
		return 252 * 6.5
	default:
		return 252
	}
}
