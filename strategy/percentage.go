package strategy

import (
	"fmt"
	"sort"

	"backlot/market"
)

// referenceChange returns the percentage move of the latest close against the
// close lookback bars earlier, and false while not enough history exists.
func referenceChange(bars []market.Bar, lookback int) (float64, bool) {
	t := len(bars) - 1
	if lookback <= 0 {
		lookback = 1
	}
	ref := t - lookback
	if ref < 0 {
		return 0, false
	}
	return (bars[t].Close - bars[ref].Close) / bars[ref].Close * 100, true
}

// DropBuy buys the full capital once the close has fallen DropPct below the
// reference close and sells the position once its gain over entry clears
// SellProfitPct. A single cohort is open at a time.
type DropBuy struct {
	DropPct       float64
	SellProfitPct float64
	LookbackDays  int
}

func (s *DropBuy) Name() string {
	return fmt.Sprintf("dropbuy(%.1f%%)", s.DropPct)
}

func (s *DropBuy) OnBar(bars []market.Bar, book Book) []Signal {
	bar := bars[len(bars)-1]

	if book.OpenCount() > 0 {
		c := book.OpenCohorts()[0]
		if c.Gain(bar.Close) >= s.SellProfitPct {
			return []Signal{{
				Action:   Sell,
				Quantity: c.Quantity,
				CohortID: c.ID,
				Reason:   fmt.Sprintf("gain %.2f%% >= %.2f%%", c.Gain(bar.Close), s.SellProfitPct),
			}}
		}
		return nil
	}

	change, ok := referenceChange(bars, s.LookbackDays)
	if !ok {
		return nil
	}
	if change <= -s.DropPct {
		return []Signal{{
			Action:          Buy,
			CapitalFraction: 1,
			Reason:          fmt.Sprintf("drop %.2f%% <= -%.2f%%", change, s.DropPct),
		}}
	}
	return nil
}

// BuyLevel pairs a percentage drop with the capital fraction to deploy there.
type BuyLevel struct {
	DropPct  float64 `json:"drop_pct" yaml:"drop_pct"`
	Fraction float64 `json:"fraction" yaml:"fraction"`
}

// SellLevel pairs a percentage rise with the fraction of the open position
// to unload there.
type SellLevel struct {
	RisePct  float64 `json:"rise_pct" yaml:"rise_pct"`
	Fraction float64 `json:"fraction" yaml:"fraction"`
}

// Pyramiding scales into weakness along a ladder of drop levels, deploying a
// bigger slice of capital the deeper the decline, and liquidates everything
// once the reference-relative rise clears the profit target.
type Pyramiding struct {
	Levels        []BuyLevel
	SellProfitPct float64
	LookbackDays  int
	MaxCohorts    int
}

// NewPyramiding sorts the ladder by depth and applies the documented default
// rungs when none are given.
func NewPyramiding(levels []BuyLevel, sellProfitPct float64, lookbackDays, maxCohorts int) *Pyramiding {
	if len(levels) == 0 {
		levels = []BuyLevel{{3, 0.2}, {5, 0.3}, {8, 0.3}, {12, 0.2}}
	}
	sorted := make([]BuyLevel, len(levels))
	copy(sorted, levels)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].DropPct < sorted[j].DropPct })

	if maxCohorts <= 0 {
		maxCohorts = len(sorted)
	}
	return &Pyramiding{
		Levels:        sorted,
		SellProfitPct: sellProfitPct,
		LookbackDays:  lookbackDays,
		MaxCohorts:    maxCohorts,
	}
}

func (s *Pyramiding) Name() string { return "pyramiding" }

func (s *Pyramiding) OnBar(bars []market.Bar, book Book) []Signal {
	change, ok := referenceChange(bars, s.LookbackDays)
	if !ok {
		return nil
	}

	if change >= s.SellProfitPct && book.OpenCount() > 0 {
		return sellAll(book, fmt.Sprintf("rise %.2f%% >= %.2f%%", change, s.SellProfitPct))
	}

	if book.OpenCount() >= s.MaxCohorts {
		return nil
	}

	// Deepest matched rung wins.
	var matched *BuyLevel
	for i := range s.Levels {
		if change <= -s.Levels[i].DropPct {
			matched = &s.Levels[i]
		}
	}
	if matched == nil {
		return nil
	}
	return []Signal{{
		Action:          Buy,
		CapitalFraction: matched.Fraction,
		Reason:          fmt.Sprintf("drop %.2f%% hit %.1f%% rung", change, matched.DropPct),
	}}
}

// CombinedPercentage runs independent buy and sell ladders: drops buy a
// fraction of capital, rises unload a fraction of the open quantity. Sells
// close whole cohorts oldest-first until the fraction is covered.
type CombinedPercentage struct {
	BuyLevels    []BuyLevel
	SellLevels   []SellLevel
	LookbackDays int
	MaxCohorts   int
}

// NewCombinedPercentage applies the documented default ladders when none are
// given.
func NewCombinedPercentage(buys []BuyLevel, sells []SellLevel, lookbackDays, maxCohorts int) *CombinedPercentage {
	if len(buys) == 0 {
		buys = []BuyLevel{{3, 0.3}, {7, 0.7}}
	}
	if len(sells) == 0 {
		sells = []SellLevel{{5, 0.5}, {10, 1.0}}
	}
	sortedBuys := make([]BuyLevel, len(buys))
	copy(sortedBuys, buys)
	sort.Slice(sortedBuys, func(i, j int) bool { return sortedBuys[i].DropPct < sortedBuys[j].DropPct })

	sortedSells := make([]SellLevel, len(sells))
	copy(sortedSells, sells)
	sort.Slice(sortedSells, func(i, j int) bool { return sortedSells[i].RisePct < sortedSells[j].RisePct })

	if maxCohorts <= 0 {
		maxCohorts = 30
	}
	return &CombinedPercentage{
		BuyLevels:    sortedBuys,
		SellLevels:   sortedSells,
		LookbackDays: lookbackDays,
		MaxCohorts:   maxCohorts,
	}
}

func (s *CombinedPercentage) Name() string { return "combined-pct" }

func (s *CombinedPercentage) OnBar(bars []market.Bar, book Book) []Signal {
	change, ok := referenceChange(bars, s.LookbackDays)
	if !ok {
		return nil
	}

	if change > 0 && book.OpenCount() > 0 {
		var matched *SellLevel
		for i := range s.SellLevels {
			if change >= s.SellLevels[i].RisePct {
				matched = &s.SellLevels[i]
			}
		}
		if matched != nil {
			return sellFraction(book, matched.Fraction,
				fmt.Sprintf("rise %.2f%% hit %.1f%% rung", change, matched.RisePct))
		}
		return nil
	}

	if book.OpenCount() >= s.MaxCohorts {
		return nil
	}
	var matched *BuyLevel
	for i := range s.BuyLevels {
		if change <= -s.BuyLevels[i].DropPct {
			matched = &s.BuyLevels[i]
		}
	}
	if matched == nil {
		return nil
	}
	return []Signal{{
		Action:          Buy,
		CapitalFraction: matched.Fraction,
		Reason:          fmt.Sprintf("drop %.2f%% hit %.1f%% rung", change, matched.DropPct),
	}}
}

// sellAll emits one SELL per open cohort in entry order.
func sellAll(book Book, reason string) []Signal {
	cohorts := book.OpenCohorts()
	signals := make([]Signal, 0, len(cohorts))
	for _, c := range cohorts {
		signals = append(signals, Signal{
			Action:   Sell,
			Quantity: c.Quantity,
			CohortID: c.ID,
			Reason:   reason,
		})
	}
	return signals
}

// sellFraction closes whole cohorts oldest-first until the requested share of
// the open quantity has been covered.
func sellFraction(book Book, fraction float64, reason string) []Signal {
	if fraction >= 1 {
		return sellAll(book, reason)
	}
	target := book.TotalQuantity() * fraction

	var signals []Signal
	sold := 0.0
	for _, c := range book.OpenCohorts() {
		if sold >= target {
			break
		}
		signals = append(signals, Signal{
			Action:   Sell,
			Quantity: c.Quantity,
			CohortID: c.ID,
			Reason:   reason,
		})
		sold += c.Quantity
	}
	return signals
}
