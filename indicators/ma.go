package indicators

// SMA calculates the Simple Moving Average of the closes over the last
// period values.
func SMA(closes []float64, period int) (float64, error) {
	if err := checkPeriod(len(closes), period); err != nil {
		return 0, err
	}

	sum := 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		sum += closes[i]
	}
	return sum / float64(period), nil
}

// EMA calculates the Exponential Moving Average over the closes, seeded with
// the SMA of the first period values.
func EMA(closes []float64, period int) (float64, error) {
	if err := checkPeriod(len(closes), period); err != nil {
		return 0, err
	}
	series := emaSeries(closes, period)
	return series[len(series)-1], nil
}

// emaSeries returns the EMA value at every index from period-1 onward.
// Indexes before the warmup hold the running SMA seed.
func emaSeries(closes []float64, period int) []float64 {
	out := make([]float64, len(closes))
	multiplier := 2.0 / float64(period+1)

	seed := 0.0
	for i := 0; i < period; i++ {
		seed += closes[i]
		out[i] = seed / float64(i+1)
	}
	ema := seed / float64(period)
	out[period-1] = ema

	for i := period; i < len(closes); i++ {
		ema = (closes[i]-ema)*multiplier + ema
		out[i] = ema
	}
	return out
}
