package strategy

import (
	"fmt"

	"backlot/market"
)

// Grid places buy rungs below and sell rungs above a center price at fixed
// percentage spacing. Each rung crossed downward opens one base-quantity
// cohort; crossing a sell rung liquidates all open cohorts.
type Grid struct {
	GridSizePct  float64
	NumGrids     int
	CenterPrice  float64 // 0 means use the first close of the series
	BaseQuantity float64
}

// NewGrid applies the documented defaults: 3% spacing, 10 rungs, one unit per
// rung.
func NewGrid(gridSizePct float64, numGrids int, centerPrice, baseQuantity float64) *Grid {
	if gridSizePct <= 0 {
		gridSizePct = 3
	}
	if numGrids <= 0 {
		numGrids = 10
	}
	if baseQuantity <= 0 {
		baseQuantity = 1
	}
	return &Grid{
		GridSizePct:  gridSizePct,
		NumGrids:     numGrids,
		CenterPrice:  centerPrice,
		BaseQuantity: baseQuantity,
	}
}

func (s *Grid) Name() string {
	return fmt.Sprintf("grid(%.1f%%x%d)", s.GridSizePct, s.NumGrids)
}

func (s *Grid) OnBar(bars []market.Bar, book Book) []Signal {
	center := s.CenterPrice
	if center == 0 {
		center = bars[0].Close
	}
	close := bars[len(bars)-1].Close

	for i := 1; i <= s.NumGrids; i++ {
		sellLevel := center * (1 + s.GridSizePct/100*float64(i))
		if close >= sellLevel && book.OpenCount() > 0 {
			return sellAll(book, fmt.Sprintf("close %.2f above sell rung %d (%.2f)", close, i, sellLevel))
		}
	}

	if book.OpenCount() >= s.NumGrids {
		return nil
	}
	for i := 1; i <= s.NumGrids; i++ {
		buyLevel := center * (1 - s.GridSizePct/100*float64(i))
		if close <= buyLevel {
			return []Signal{{
				Action:   Buy,
				Quantity: s.BaseQuantity,
				Reason:   fmt.Sprintf("close %.2f below buy rung %d (%.2f)", close, i, buyLevel),
			}}
		}
	}
	return nil
}
