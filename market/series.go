package market

import "fmt"

// Series is an ordered run of bars for one symbol. The caller is responsible
// for filling gaps; Validate only enforces ordering and sane values.
type Series struct {
	Symbol   string
	Interval Interval
	Bars     []Bar
}

// Validate checks the input contract before a simulation starts:
// non-empty, strictly increasing timestamps, positive prices, non-negative
// volume. It never sorts or skips bad bars; the first violation is returned
// as an *InputError.
func (s *Series) Validate() error {
	if len(s.Bars) == 0 {
		return &InputError{Symbol: s.Symbol, Reason: "empty series"}
	}

	for i, b := range s.Bars {
		if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
			return &InputError{
				Symbol: s.Symbol,
				Bar:    i,
				Reason: fmt.Sprintf("non-positive price at %s", b.Time.Format("2006-01-02")),
			}
		}
		if b.Volume < 0 {
			return &InputError{
				Symbol: s.Symbol,
				Bar:    i,
				Reason: fmt.Sprintf("negative volume at %s", b.Time.Format("2006-01-02")),
			}
		}
		if i == 0 {
			continue
		}
		prev := s.Bars[i-1].Time
		if !b.Time.After(prev) {
			return &InputError{
				Symbol: s.Symbol,
				Bar:    i,
				Reason: fmt.Sprintf("timestamp %s not after %s", b.Time.Format("2006-01-02"), prev.Format("2006-01-02")),
			}
		}
	}
	return nil
}

// Len returns the number of bars.
func (s *Series) Len() int { return len(s.Bars) }

// HighestClose returns the maximum close over the last lookback bars of the
// given prefix (the bar at the end of the prefix included). A lookback longer
// than the prefix uses whatever bars exist.
func HighestClose(bars []Bar, lookback int) float64 {
	if len(bars) == 0 || lookback <= 0 {
		return 0
	}
	start := len(bars) - lookback
	if start < 0 {
		start = 0
	}
	high := bars[start].Close
	for _, b := range bars[start+1:] {
		if b.Close > high {
			high = b.Close
		}
	}
	return high
}
