package market

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(n int) time.Time {
	return time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, n)
}

func closesToBars(closes ...float64) []Bar {
	bars := make([]Bar, len(closes))
	for i, c := range closes {
		bars[i] = Bar{Time: day(i), Open: c, High: c, Low: c, Close: c, Volume: 100}
	}
	return bars
}

func TestSeriesValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		bars    []Bar
		wantBar int
		wantErr bool
	}{
		{
			name:    "valid",
			bars:    closesToBars(100, 101, 102),
			wantErr: false,
		},
		{
			name:    "empty",
			bars:    nil,
			wantErr: true,
		},
		{
			name: "zero_price",
			bars: []Bar{
				{Time: day(0), Open: 100, High: 100, Low: 100, Close: 100, Volume: 1},
				{Time: day(1), Open: 100, High: 100, Low: 0, Close: 100, Volume: 1},
			},
			wantBar: 1,
			wantErr: true,
		},
		{
			name: "negative_volume",
			bars: []Bar{
				{Time: day(0), Open: 100, High: 100, Low: 100, Close: 100, Volume: -5},
			},
			wantBar: 0,
			wantErr: true,
		},
		{
			name: "duplicate_timestamp",
			bars: []Bar{
				{Time: day(0), Open: 100, High: 100, Low: 100, Close: 100, Volume: 1},
				{Time: day(0), Open: 101, High: 101, Low: 101, Close: 101, Volume: 1},
			},
			wantBar: 1,
			wantErr: true,
		},
		{
			name: "out_of_order",
			bars: []Bar{
				{Time: day(2), Open: 100, High: 100, Low: 100, Close: 100, Volume: 1},
				{Time: day(1), Open: 101, High: 101, Low: 101, Close: 101, Volume: 1},
			},
			wantBar: 1,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := &Series{Symbol: "TEST", Interval: Daily, Bars: tt.bars}
			err := s.Validate()

			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)

			var inputErr *InputError
			require.ErrorAs(t, err, &inputErr)
			assert.Equal(t, "TEST", inputErr.Symbol)
			assert.Equal(t, tt.wantBar, inputErr.Bar)
		})
	}
}

func TestValidateNeverMutates(t *testing.T) {
	t.Parallel()

	bars := []Bar{
		{Time: day(2), Open: 100, High: 100, Low: 100, Close: 100, Volume: 1},
		{Time: day(0), Open: 101, High: 101, Low: 101, Close: 101, Volume: 1},
	}
	s := &Series{Symbol: "X", Bars: bars}

	require.Error(t, s.Validate())
	assert.Equal(t, day(2), s.Bars[0].Time, "validate must not sort")
	assert.Len(t, s.Bars, 2, "validate must not drop bars")
}

func TestHighestClose(t *testing.T) {
	t.Parallel()

	bars := closesToBars(100, 105, 103, 98, 101)

	tests := []struct {
		name     string
		lookback int
		want     float64
	}{
		{"full_window", 5, 105},
		{"recent_only", 2, 101},
		{"single", 1, 101},
		{"longer_than_series", 50, 105},
		{"zero_lookback", 0, 0},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, HighestClose(bars, tt.lookback))
		})
	}

	assert.Zero(t, HighestClose(nil, 5))
}

func TestIntervalPeriodsPerYear(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 252.0, Daily.PeriodsPerYear())
	assert.Equal(t, 52.0, Weekly.PeriodsPerYear())
	assert.Equal(t, 252*6.5, Hourly.PeriodsPerYear())
	assert.Equal(t, 252.0, Interval("unknown").PeriodsPerYear())
}
