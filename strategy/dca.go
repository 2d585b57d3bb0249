package strategy

import (
	"fmt"

	"backlot/market"
)

// DCA buys a fixed quantity every IntervalBars bars regardless of price and
// liquidates everything once the gain over the running average cost clears
// the profit target.
type DCA struct {
	IntervalBars  int
	SellProfitPct float64
	BaseQuantity  float64
}

// NewDCA applies the documented defaults: a purchase every 7 bars, 10% take
// profit, one unit per purchase.
func NewDCA(intervalBars int, sellProfitPct, baseQuantity float64) *DCA {
	if intervalBars <= 0 {
		intervalBars = 7
	}
	if sellProfitPct <= 0 {
		sellProfitPct = 10
	}
	if baseQuantity <= 0 {
		baseQuantity = 1
	}
	return &DCA{
		IntervalBars:  intervalBars,
		SellProfitPct: sellProfitPct,
		BaseQuantity:  baseQuantity,
	}
}

func (s *DCA) Name() string {
	return fmt.Sprintf("dca(%dbars)", s.IntervalBars)
}

func (s *DCA) OnBar(bars []market.Bar, book Book) []Signal {
	t := len(bars) - 1
	close := bars[t].Close

	if avg := book.AverageCost(); avg > 0 {
		gain := (close - avg) / avg * 100
		if gain >= s.SellProfitPct {
			return sellAll(book, fmt.Sprintf("gain over avg cost %.2f%% >= %.2f%%", gain, s.SellProfitPct))
		}
	}

	if t%s.IntervalBars == 0 {
		return []Signal{{
			Action:   Buy,
			Quantity: s.BaseQuantity,
			Reason:   "scheduled purchase",
		}}
	}
	return nil
}
