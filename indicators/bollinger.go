package indicators

// Bands holds Bollinger band levels at the last bar of the input.
type Bands struct {
	Middle float64
	Upper  float64
	Lower  float64
}

// Bollinger calculates Bollinger Bands: an SMA middle band with upper/lower
// bands numStd standard deviations away.
func Bollinger(closes []float64, period int, numStd float64) (Bands, error) {
	if err := checkPeriod(len(closes), period); err != nil {
		return Bands{}, err
	}

	window := closes[len(closes)-period:]
	mid, err := SMA(closes, period)
	if err != nil {
		return Bands{}, err
	}
	sd := Stdev(window)

	return Bands{
		Middle: mid,
		Upper:  mid + numStd*sd,
		Lower:  mid - numStd*sd,
	}, nil
}

// ZScore returns how many standard deviations the last close sits from the
// rolling mean over period bars. Zero variance yields 0.
func ZScore(closes []float64, period int) (float64, error) {
	if err := checkPeriod(len(closes), period); err != nil {
		return 0, err
	}

	window := closes[len(closes)-period:]
	mid, err := SMA(closes, period)
	if err != nil {
		return 0, err
	}
	sd := Stdev(window)
	if sd == 0 {
		return 0, nil
	}
	return (closes[len(closes)-1] - mid) / sd, nil
}
