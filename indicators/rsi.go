package indicators

// RSI calculates the Relative Strength Index over the last period close
// changes. Gains and losses are averaged with a simple rolling mean.
func RSI(closes []float64, period int) (float64, error) {
	if err := checkPeriod(len(closes), period+1); err != nil {
		return 0, err
	}

	gains, losses := 0.0, 0.0
	for i := len(closes) - period; i < len(closes); i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	if losses == 0 {
		return 100, nil
	}

	rs := gains / losses
	return 100 - 100/(1+rs), nil
}
