// Package indicators provides technical analysis computations over bar
// slices. All functions are deterministic and safe to call per prefix of a
// series during a backtest.
package indicators

import (
	"fmt"
	"math"

	"backlot/market"
)

// Closes extracts the close column from a bar slice.
func Closes(bars []market.Bar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.Close
	}
	return out
}

// Stdev returns the sample standard deviation of values.
// Fewer than two values yields 0.
func Stdev(values []float64) float64 {
	n := len(values)
	if n < 2 {
		return 0
	}
	mean := 0.0
	for _, v := range values {
		mean += v
	}
	mean /= float64(n)

	ss := 0.0
	for _, v := range values {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(n-1))
}

func checkPeriod(n, period int) error {
	if period <= 0 {
		return fmt.Errorf("period must be positive, got %d", period)
	}
	if n < period {
		return fmt.Errorf("not enough bars: need %d, got %d", period, n)
	}
	return nil
}
