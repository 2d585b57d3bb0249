// Package store is the data-retrieval collaborator: it caches and loads the
// fully materialized bar series the simulator consumes. All I/O lives here;
// nothing in this package runs inside a simulation loop.
package store

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"backlot/market"
)

const schema = `
CREATE TABLE IF NOT EXISTS bars (
	symbol TEXT NOT NULL,
	interval TEXT NOT NULL,
	time INTEGER NOT NULL,
	open REAL NOT NULL,
	high REAL NOT NULL,
	low REAL NOT NULL,
	close REAL NOT NULL,
	volume REAL NOT NULL,
	UNIQUE(symbol, interval, time)
);

CREATE INDEX IF NOT EXISTS idx_bars_lookup ON bars(symbol, interval, time);
`

// SQLiteStore caches bar series in a local SQLite database.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the bar cache at path.
func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteStore{db: db}, nil
}

// SaveBars upserts all bars of the series and returns the row count written.
func (s *SQLiteStore) SaveBars(series *market.Series) (int, error) {
	if err := series.Validate(); err != nil {
		return 0, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT OR REPLACE INTO bars
		(symbol, interval, time, open, high, low, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()

	for _, b := range series.Bars {
		if _, err := stmt.Exec(
			series.Symbol, string(series.Interval), b.Time.UTC().Unix(),
			b.Open, b.High, b.Low, b.Close, b.Volume,
		); err != nil {
			return 0, err
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return len(series.Bars), nil
}

// LoadBars returns the cached series for a symbol and interval, ordered by
// time. A symbol with no cached bars yields an empty series, not an error.
func (s *SQLiteStore) LoadBars(symbol string, interval market.Interval) (*market.Series, error) {
	return s.LoadBarsBetween(symbol, interval, time.Time{}, time.Time{})
}

// LoadBarsBetween restricts the load to [from, to]; zero bounds are open.
func (s *SQLiteStore) LoadBarsBetween(symbol string, interval market.Interval, from, to time.Time) (*market.Series, error) {
	query := `SELECT time, open, high, low, close, volume FROM bars
		WHERE symbol = ? AND interval = ?`
	args := []any{symbol, string(interval)}

	if !from.IsZero() {
		query += " AND time >= ?"
		args = append(args, from.UTC().Unix())
	}
	if !to.IsZero() {
		query += " AND time <= ?"
		args = append(args, to.UTC().Unix())
	}
	query += " ORDER BY time"

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	series := &market.Series{Symbol: symbol, Interval: interval}
	for rows.Next() {
		var ts int64
		var b market.Bar
		if err := rows.Scan(&ts, &b.Open, &b.High, &b.Low, &b.Close, &b.Volume); err != nil {
			return nil, err
		}
		b.Time = time.Unix(ts, 0).UTC()
		series.Bars = append(series.Bars, b)
	}
	return series, rows.Err()
}

// DateRange returns the first and last cached bar times for a symbol.
func (s *SQLiteStore) DateRange(symbol string, interval market.Interval) (first, last time.Time, err error) {
	row := s.db.QueryRow(
		`SELECT MIN(time), MAX(time) FROM bars WHERE symbol = ? AND interval = ?`,
		symbol, string(interval))

	var lo, hi sql.NullInt64
	if err := row.Scan(&lo, &hi); err != nil {
		return time.Time{}, time.Time{}, err
	}
	if !lo.Valid {
		return time.Time{}, time.Time{}, fmt.Errorf("store: no bars cached for %s/%s", symbol, interval)
	}
	return time.Unix(lo.Int64, 0).UTC(), time.Unix(hi.Int64, 0).UTC(), nil
}

// Symbols lists every symbol with cached bars.
func (s *SQLiteStore) Symbols() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT symbol FROM bars ORDER BY symbol`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var sym string
		if err := rows.Scan(&sym); err != nil {
			return nil, err
		}
		out = append(out, sym)
	}
	return out, rows.Err()
}

// DeleteBars removes all cached bars for a symbol and interval.
func (s *SQLiteStore) DeleteBars(symbol string, interval market.Interval) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM bars WHERE symbol = ? AND interval = ?`,
		symbol, string(interval))
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
