package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"backlot/ledger"
)

func TestMACross(t *testing.T) {
	t.Parallel()

	s := NewMACross(2, 3, false)

	t.Run("warmup_is_silent", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, s.OnBar(barsFromCloses(10, 9, 8), &fakeBook{cash: 1000}),
			"previous diff needs slow+1 bars")
	})

	t.Run("bull_cross_buys", func(t *testing.T) {
		t.Parallel()
		// fast-slow flips from -0.17 to +0.83 on the last bar.
		got := s.OnBar(barsFromCloses(10, 9, 8, 9, 12), &fakeBook{cash: 1000})
		require.Len(t, got, 1)
		assert.Equal(t, Buy, got[0].Action)
		assert.Equal(t, 1.0, got[0].CapitalFraction)
	})

	t.Run("bull_cross_ignored_while_holding", func(t *testing.T) {
		t.Parallel()
		book := &fakeBook{cohorts: []ledger.Cohort{{ID: "a", EntryPrice: 9, Quantity: 1}}}
		assert.Empty(t, s.OnBar(barsFromCloses(10, 9, 8, 9, 12), book))
	})

	t.Run("bear_cross_sells", func(t *testing.T) {
		t.Parallel()
		book := &fakeBook{cohorts: []ledger.Cohort{{ID: "a", EntryPrice: 9, Quantity: 1}}}
		got := s.OnBar(barsFromCloses(8, 9, 10, 9, 7), book)
		require.Len(t, got, 1)
		assert.Equal(t, Sell, got[0].Action)
		assert.Equal(t, "a", got[0].CohortID)
	})

	t.Run("bear_cross_without_position", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, s.OnBar(barsFromCloses(8, 9, 10, 9, 7), &fakeBook{cash: 1000}))
	})
}

func TestRSIBands(t *testing.T) {
	t.Parallel()

	s := NewRSIBands(2, 30, 70)

	t.Run("oversold_buys", func(t *testing.T) {
		t.Parallel()
		got := s.OnBar(barsFromCloses(10, 9, 8), &fakeBook{cash: 1000})
		require.Len(t, got, 1)
		assert.Equal(t, Buy, got[0].Action)
	})

	t.Run("overbought_sells", func(t *testing.T) {
		t.Parallel()
		book := &fakeBook{cohorts: []ledger.Cohort{{ID: "a", EntryPrice: 8, Quantity: 1}}}
		got := s.OnBar(barsFromCloses(8, 9, 10), book)
		require.Len(t, got, 1)
		assert.Equal(t, Sell, got[0].Action)
	})

	t.Run("warmup_is_silent", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, s.OnBar(barsFromCloses(10, 9), &fakeBook{cash: 1000}))
	})
}

func TestMACDCrossWalksLongSwing(t *testing.T) {
	t.Parallel()

	s := NewMACDCross(2, 3, 2)

	// Decline then recovery: walking the prefixes must produce a buy while
	// flat and never a sell before that buy.
	closes := []float64{20, 19, 18, 17, 16, 15, 16, 17, 18, 19, 20}
	bars := barsFromCloses(closes...)
	book := &fakeBook{cash: 1000}

	sawBuy := false
	for k := 1; k <= len(bars); k++ {
		for _, sig := range s.OnBar(bars[:k], book) {
			switch sig.Action {
			case Buy:
				sawBuy = true
			case Sell:
				t.Fatalf("sell emitted with an empty book at bar %d", k-1)
			}
		}
	}
	assert.True(t, sawBuy, "recovery should trigger a bull cross")
}

func TestBollingerReversion(t *testing.T) {
	t.Parallel()

	s := NewBollingerReversion(3, 1)

	t.Run("buys_below_lower_band", func(t *testing.T) {
		t.Parallel()
		got := s.OnBar(barsFromCloses(100, 102, 98, 90), &fakeBook{cash: 1000})
		require.Len(t, got, 1)
		assert.Equal(t, Buy, got[0].Action)
	})

	t.Run("sells_above_middle_band", func(t *testing.T) {
		t.Parallel()
		book := &fakeBook{cohorts: []ledger.Cohort{{ID: "a", EntryPrice: 90, Quantity: 1}}}
		got := s.OnBar(barsFromCloses(100, 100, 101), book)
		require.Len(t, got, 1)
		assert.Equal(t, Sell, got[0].Action)
	})

	t.Run("flat_market_is_silent", func(t *testing.T) {
		t.Parallel()
		assert.Empty(t, s.OnBar(barsFromCloses(100, 100, 100), &fakeBook{cash: 1000}))
	})
}
