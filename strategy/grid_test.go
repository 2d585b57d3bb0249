package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backlot/ledger"
)

func TestGridBuysBelowCenter(t *testing.T) {
	t.Parallel()

	s := NewGrid(3, 5, 100, 2)

	t.Run("at_center", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, s.OnBar(barsFromCloses(100), &fakeBook{cash: 1000}))
	})

	t.Run("below_first_rung", func(t *testing.T) {
		t.Parallel()
		got := s.OnBar(barsFromCloses(100, 96), &fakeBook{cash: 1000})
		require.Len(t, got, 1)
		assert.Equal(t, Buy, got[0].Action)
		assert.Equal(t, 2.0, got[0].Quantity)
	})

	t.Run("capped_at_num_grids", func(t *testing.T) {
		t.Parallel()
		book := &fakeBook{cash: 1000}
		for i := 0; i < 5; i++ {
			book.cohorts = append(book.cohorts, ledger.Cohort{ID: string(rune('a' + i)), EntryPrice: 95, Quantity: 1})
		}
		assert.Empty(t, s.OnBar(barsFromCloses(100, 90), book))
	})
}

func TestGridSellsAboveCenter(t *testing.T) {
	t.Parallel()

	s := NewGrid(3, 5, 100, 1)
	book := &fakeBook{cohorts: []ledger.Cohort{
		{ID: "a", EntryPrice: 97, Quantity: 1},
		{ID: "b", EntryPrice: 94, Quantity: 1},
	}}

	got := s.OnBar(barsFromCloses(100, 104), book)
	require.Len(t, got, 2, "crossing a sell rung liquidates everything")
	assert.Equal(t, "a", got[0].CohortID)
	assert.Equal(t, "b", got[1].CohortID)
}

func TestGridCenterDefaultsToFirstClose(t *testing.T) {
	t.Parallel()

	s := NewGrid(3, 5, 0, 1)

	// First close 200 becomes the center: 190 is -5%, below the first rung.
	got := s.OnBar(barsFromCloses(200, 190), &fakeBook{cash: 1000})
	require.Len(t, got, 1)
	assert.Equal(t, Buy, got[0].Action)
}

func TestDCASchedule(t *testing.T) {
	t.Parallel()

	s := NewDCA(3, 10, 1)
	book := &fakeBook{cash: 1000}

	wantBuy := map[int]bool{0: true, 3: true, 6: true}
	closes := []float64{100, 100, 100, 100, 100, 100, 100}

	for k := 1; k <= len(closes); k++ {
		got := s.OnBar(barsFromCloses(closes[:k]...), book)
		if wantBuy[k-1] {
			require.Len(t, got, 1, "bar %d", k-1)
			assert.Equal(t, Buy, got[0].Action)
		} else {
			assert.Empty(t, got, "bar %d", k-1)
		}
	}
}

func TestDCASellsOverAverageCost(t *testing.T) {
	t.Parallel()

	s := NewDCA(100, 10, 1) // long interval so no buy interferes
	book := &fakeBook{cohorts: []ledger.Cohort{
		{ID: "a", EntryPrice: 100, Quantity: 1},
		{ID: "b", EntryPrice: 90, Quantity: 1},
	}}
	// Average cost 95; +10% target needs 104.5.

	got := s.OnBar(barsFromCloses(100, 104), book)
	assert.Empty(t, got)

	got = s.OnBar(barsFromCloses(100, 104, 105), book)
	require.Len(t, got, 2)
	for _, sig := range got {
		assert.Equal(t, Sell, sig.Action)
	}
}

func TestVolatilityBreakout(t *testing.T) {
	t.Parallel()

	s := NewVolatilityBreakout(0.5, 5, 3)

	t.Run("buys_above_breakout", func(t *testing.T) {
		t.Parallel()
		bars := barsFromCloses(100, 100)
		bars[0].High, bars[0].Low = 104, 96 // range 8, breakout at 100 + 4
		bars[1].Close = 105

		got := s.OnBar(bars, &fakeBook{cash: 1000})
		require.Len(t, got, 1)
		assert.Equal(t, Buy, got[0].Action)
		assert.Equal(t, 1.0, got[0].CapitalFraction)
	})

	t.Run("holds_below_breakout", func(t *testing.T) {
		t.Parallel()
		bars := barsFromCloses(100, 103)
		bars[0].High, bars[0].Low = 104, 96

		assert.Empty(t, s.OnBar(bars, &fakeBook{cash: 1000}))
	})

	t.Run("exits_on_target", func(t *testing.T) {
		t.Parallel()
		book := &fakeBook{cohorts: []ledger.Cohort{{ID: "a", EntryPrice: 100, Quantity: 3}}}
		got := s.OnBar(barsFromCloses(100, 106), book)
		require.Len(t, got, 1)
		assert.Equal(t, Sell, got[0].Action)
	})

	t.Run("exits_on_stop_at_a_loss", func(t *testing.T) {
		t.Parallel()
		book := &fakeBook{cohorts: []ledger.Cohort{{ID: "a", EntryPrice: 100, Quantity: 3}}}
		got := s.OnBar(barsFromCloses(100, 96), book)
		require.Len(t, got, 1)
		assert.Equal(t, Sell, got[0].Action, "the stop is the one loss-taking exit")
	})

	t.Run("holds_between_stop_and_target", func(t *testing.T) {
		t.Parallel()
		book := &fakeBook{cohorts: []ledger.Cohort{{ID: "a", EntryPrice: 100, Quantity: 3}}}
		assert.Empty(t, s.OnBar(barsFromCloses(100, 101), book))
	})
}
