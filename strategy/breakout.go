package strategy

import (
	"fmt"

	"backlot/market"
)

// VolatilityBreakout buys when the close pushes above the previous close by a
// fraction of the previous bar's range, then exits the single cohort on either
// the profit target or the stop loss. This is the one variant allowed to sell
// at a loss; the stop is an explicit parameter.
type VolatilityBreakout struct {
	BreakoutRatio   float64
	ProfitTargetPct float64
	StopLossPct     float64
}

// NewVolatilityBreakout applies the documented defaults: half the previous
// range, 5% target, 3% stop.
func NewVolatilityBreakout(ratio, profitTargetPct, stopLossPct float64) *VolatilityBreakout {
	if ratio <= 0 {
		ratio = 0.5
	}
	if profitTargetPct <= 0 {
		profitTargetPct = 5
	}
	if stopLossPct <= 0 {
		stopLossPct = 3
	}
	return &VolatilityBreakout{
		BreakoutRatio:   ratio,
		ProfitTargetPct: profitTargetPct,
		StopLossPct:     stopLossPct,
	}
}

func (s *VolatilityBreakout) Name() string {
	return fmt.Sprintf("vol-breakout(%.2f)", s.BreakoutRatio)
}

func (s *VolatilityBreakout) OnBar(bars []market.Bar, book Book) []Signal {
	t := len(bars) - 1
	close := bars[t].Close

	if book.OpenCount() > 0 {
		c := book.OpenCohorts()[0]
		gain := c.Gain(close)
		switch {
		case gain >= s.ProfitTargetPct:
			return sellAll(book, fmt.Sprintf("target: gain %.2f%% >= %.2f%%", gain, s.ProfitTargetPct))
		case gain <= -s.StopLossPct:
			return sellAll(book, fmt.Sprintf("stop: gain %.2f%% <= -%.2f%%", gain, s.StopLossPct))
		}
		return nil
	}

	if t == 0 {
		return nil
	}
	prev := bars[t-1]
	breakout := prev.Close + (prev.High-prev.Low)*s.BreakoutRatio
	if close > breakout {
		return []Signal{{
			Action:          Buy,
			CapitalFraction: 1,
			Reason:          fmt.Sprintf("close %.2f above breakout %.2f", close, breakout),
		}}
	}
	return nil
}
