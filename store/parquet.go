package store

import (
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/parquet-go/parquet-go"

	"backlot/market"
)

// BarRecord is the Parquet on-disk schema for bar data, compatible with
// year-partitioned daily-bar pipelines.
type BarRecord struct {
	Symbol    string  `parquet:"symbol"`
	Timestamp int64   `parquet:"timestamp,timestamp(millisecond)"` // Unix ms
	Open      float64 `parquet:"open"`
	High      float64 `parquet:"high"`
	Low       float64 `parquet:"low"`
	Close     float64 `parquet:"close"`
	Volume    float64 `parquet:"volume"`
}

// ExportParquet writes the series to a single Parquet file, merging with and
// deduplicating against any existing records at the path.
func ExportParquet(path string, series *market.Series) error {
	incoming := make([]BarRecord, 0, len(series.Bars))
	for _, b := range series.Bars {
		incoming = append(incoming, BarRecord{
			Symbol:    series.Symbol,
			Timestamp: b.Time.UnixMilli(),
			Open:      b.Open,
			High:      b.High,
			Low:       b.Low,
			Close:     b.Close,
			Volume:    b.Volume,
		})
	}

	existing, _ := parquet.ReadFile[BarRecord](path)
	merged := mergeBarRecords(existing, incoming)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return parquet.WriteFile(path, merged)
}

// ImportParquet reads one symbol's bars back out of a Parquet file, ordered
// by time.
func ImportParquet(path, symbol string, interval market.Interval) (*market.Series, error) {
	records, err := parquet.ReadFile[BarRecord](path)
	if err != nil {
		return nil, err
	}

	series := &market.Series{Symbol: symbol, Interval: interval}
	for _, r := range records {
		if r.Symbol != symbol {
			continue
		}
		series.Bars = append(series.Bars, market.Bar{
			Time:   time.UnixMilli(r.Timestamp).UTC(),
			Open:   r.Open,
			High:   r.High,
			Low:    r.Low,
			Close:  r.Close,
			Volume: r.Volume,
		})
	}
	sort.Slice(series.Bars, func(i, j int) bool {
		return series.Bars[i].Time.Before(series.Bars[j].Time)
	})
	return series, nil
}

// mergeBarRecords deduplicates by (symbol, timestamp), preferring incoming
// records over existing ones.
func mergeBarRecords(existing, incoming []BarRecord) []BarRecord {
	type key struct {
		symbol string
		ts     int64
	}
	seen := make(map[key]BarRecord, len(existing)+len(incoming))
	for _, r := range existing {
		seen[key{r.Symbol, r.Timestamp}] = r
	}
	for _, r := range incoming {
		seen[key{r.Symbol, r.Timestamp}] = r
	}

	merged := make([]BarRecord, 0, len(seen))
	for _, r := range seen {
		merged = append(merged, r)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Symbol != merged[j].Symbol {
			return merged[i].Symbol < merged[j].Symbol
		}
		return merged[i].Timestamp < merged[j].Timestamp
	})
	return merged
}
