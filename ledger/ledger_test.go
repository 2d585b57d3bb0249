package ledger

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)

func TestBuyOpensCohort(t *testing.T) {
	t.Parallel()

	l := New(1000)
	require.NoError(t, l.Buy("a", 100, 2, 200, t0))

	assert.Equal(t, 800.0, l.Cash())
	assert.Equal(t, 1, l.OpenCount())
	assert.Equal(t, 2.0, l.TotalQuantity())
	assert.Equal(t, 100.0, l.AverageCost())
}

func TestBuySizingErrors(t *testing.T) {
	t.Parallel()

	l := New(100)

	var sizing *SizingError

	err := l.Buy("a", 100, 2, 200, t0)
	require.ErrorAs(t, err, &sizing, "cost above cash is a sizing error")
	assert.Equal(t, 100.0, l.Cash(), "rejected buy leaves the ledger untouched")
	assert.Zero(t, l.OpenCount())

	err = l.Buy("b", 100, 0, 0, t0)
	require.ErrorAs(t, err, &sizing, "zero quantity is a sizing error")
}

func TestBuyDuplicateIDIsFatal(t *testing.T) {
	t.Parallel()

	l := New(1000)
	require.NoError(t, l.Buy("a", 100, 1, 100, t0))

	var fatal *LedgerError
	err := l.Buy("a", 90, 1, 90, t0)
	require.ErrorAs(t, err, &fatal)
}

func TestAverageCostTracksOpenCohortsOnly(t *testing.T) {
	t.Parallel()

	l := New(10_000)
	require.NoError(t, l.Buy("a", 100, 1, 100, t0))
	require.NoError(t, l.Buy("b", 90, 2, 180, t0.AddDate(0, 0, 1)))

	// (1*100 + 2*90) / 3
	assert.InDelta(t, 93.3333, l.AverageCost(), 1e-3)

	_, err := l.Sell("b", 95, 2, 190, t0.AddDate(0, 0, 2))
	require.NoError(t, err)
	assert.Equal(t, 100.0, l.AverageCost(), "closed cohorts drop out of the average")

	_, err = l.Sell("a", 110, 1, 110, t0.AddDate(0, 0, 3))
	require.NoError(t, err)
	assert.Zero(t, l.AverageCost(), "no open cohorts means zero, not NaN")
}

func TestSellRealizesPnL(t *testing.T) {
	t.Parallel()

	l := New(1000)
	require.NoError(t, l.Buy("a", 100, 3, 300, t0))

	rec, err := l.Sell("a", 110, 3, 330, t0.AddDate(0, 0, 5))
	require.NoError(t, err)

	assert.Equal(t, "a", rec.CohortID)
	assert.InDelta(t, 30.0, rec.PnL, 1e-9)
	assert.Equal(t, 1030.0, l.Cash())
	assert.Zero(t, l.OpenCount())
	require.Len(t, l.RealizedLog(), 1)
}

func TestPartialSellKeepsCohortOpen(t *testing.T) {
	t.Parallel()

	l := New(1000)
	require.NoError(t, l.Buy("a", 100, 4, 400, t0))

	_, err := l.Sell("a", 105, 1, 105, t0.AddDate(0, 0, 1))
	require.NoError(t, err)

	assert.Equal(t, 1, l.OpenCount())
	assert.Equal(t, 3.0, l.TotalQuantity())
}

func TestSellConsistencyErrors(t *testing.T) {
	t.Parallel()

	l := New(1000)
	require.NoError(t, l.Buy("a", 100, 2, 200, t0))

	var fatal *LedgerError

	_, err := l.Sell("missing", 100, 1, 100, t0)
	require.ErrorAs(t, err, &fatal, "unknown cohort")

	_, err = l.Sell("a", 100, 3, 300, t0)
	require.ErrorAs(t, err, &fatal, "oversell")

	_, err = l.Sell("a", 100, 0, 0, t0)
	require.ErrorAs(t, err, &fatal, "non-positive quantity")

	// The ledger is unchanged after every failed sell.
	assert.Equal(t, 800.0, l.Cash())
	assert.Equal(t, 2.0, l.TotalQuantity())
	assert.Empty(t, l.RealizedLog())
}

func TestOpenCohortsEntryOrder(t *testing.T) {
	t.Parallel()

	l := New(10_000)
	require.NoError(t, l.Buy("first", 100, 1, 100, t0))
	require.NoError(t, l.Buy("second", 95, 1, 95, t0.AddDate(0, 0, 1)))
	require.NoError(t, l.Buy("third", 90, 1, 90, t0.AddDate(0, 0, 2)))

	cohorts := l.OpenCohorts()
	require.Len(t, cohorts, 3)
	assert.Equal(t, "first", cohorts[0].ID)
	assert.Equal(t, "second", cohorts[1].ID)
	assert.Equal(t, "third", cohorts[2].ID)

	// Closing the middle cohort preserves the order of the rest.
	_, err := l.Sell("second", 100, 1, 100, t0.AddDate(0, 0, 3))
	require.NoError(t, err)

	cohorts = l.OpenCohorts()
	require.Len(t, cohorts, 2)
	assert.Equal(t, "first", cohorts[0].ID)
	assert.Equal(t, "third", cohorts[1].ID)
}

func TestOpenCohortsReturnsCopies(t *testing.T) {
	t.Parallel()

	l := New(1000)
	require.NoError(t, l.Buy("a", 100, 2, 200, t0))

	cohorts := l.OpenCohorts()
	cohorts[0].Quantity = 999

	assert.Equal(t, 2.0, l.TotalQuantity(), "mutating the copy must not touch the ledger")
}

func TestEquityMarksOpenCohorts(t *testing.T) {
	t.Parallel()

	l := New(1000)
	require.NoError(t, l.Buy("a", 100, 2, 200, t0))

	assert.Equal(t, 220.0, l.MarketValue(110))
	assert.Equal(t, 1020.0, l.Equity(110))
}

func TestCohortGain(t *testing.T) {
	t.Parallel()

	c := Cohort{ID: "a", EntryPrice: 100, Quantity: 1}
	assert.InDelta(t, 3.0, c.Gain(103), 1e-9)
	assert.InDelta(t, -5.0, c.Gain(95), 1e-9)
	assert.Zero(t, c.Gain(100))
}
