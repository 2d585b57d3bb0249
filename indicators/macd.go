package indicators

// MACDResult carries the MACD line, its signal line and the histogram at the
// last bar of the input.
type MACDResult struct {
	MACD      float64
	Signal    float64
	Histogram float64
}

// MACD calculates Moving Average Convergence Divergence with the given fast,
// slow and signal periods (classically 12, 26, 9).
func MACD(closes []float64, fast, slow, signal int) (MACDResult, error) {
	if err := checkPeriod(len(closes), slow+signal); err != nil {
		return MACDResult{}, err
	}

	fastSeries := emaSeries(closes, fast)
	slowSeries := emaSeries(closes, slow)

	macdLine := make([]float64, len(closes))
	for i := range closes {
		macdLine[i] = fastSeries[i] - slowSeries[i]
	}

	signalSeries := emaSeries(macdLine, signal)

	last := len(closes) - 1
	return MACDResult{
		MACD:      macdLine[last],
		Signal:    signalSeries[last],
		Histogram: macdLine[last] - signalSeries[last],
	}, nil
}
