package store

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"backlot/market"
)

// csv layout: time,open,high,low,close,volume with an optional header row.
// Time accepts RFC3339 or a bare date.

// LoadCSV reads a bar series from a CSV file. Rows must already be in time
// order; validation happens at simulation start, not here.
func LoadCSV(path, symbol string, interval market.Interval) (*market.Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	series := &market.Series{Symbol: symbol, Interval: interval}
	first := true

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) == 0 {
			continue
		}
		if first {
			first = false
			if strings.EqualFold(strings.TrimSpace(row[0]), "time") {
				continue
			}
		}
		if len(row) < 6 {
			return nil, fmt.Errorf("store: short csv row in %s: %v", path, row)
		}

		b, err := parseBarRow(row)
		if err != nil {
			return nil, fmt.Errorf("store: %s: %w", path, err)
		}
		series.Bars = append(series.Bars, b)
	}
	return series, nil
}

func parseBarRow(row []string) (market.Bar, error) {
	ts, err := parseTime(strings.TrimSpace(row[0]))
	if err != nil {
		return market.Bar{}, err
	}

	vals := make([]float64, 5)
	for i := 0; i < 5; i++ {
		v, err := strconv.ParseFloat(strings.TrimSpace(row[i+1]), 64)
		if err != nil {
			return market.Bar{}, fmt.Errorf("bad number %q: %w", row[i+1], err)
		}
		vals[i] = v
	}

	return market.Bar{
		Time:   ts,
		Open:   vals[0],
		High:   vals[1],
		Low:    vals[2],
		Close:  vals[3],
		Volume: vals[4],
	}, nil
}

func parseTime(s string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("bad timestamp %q", s)
}

// WriteCSV writes a series in the canonical layout, header included.
func WriteCSV(path string, series *market.Series) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"time", "open", "high", "low", "close", "volume"}); err != nil {
		return err
	}

	ff := func(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
	for _, b := range series.Bars {
		if err := w.Write([]string{
			b.Time.UTC().Format(time.RFC3339),
			ff(b.Open), ff(b.High), ff(b.Low), ff(b.Close), ff(b.Volume),
		}); err != nil {
			return err
		}
	}

	w.Flush()
	return w.Error()
}
