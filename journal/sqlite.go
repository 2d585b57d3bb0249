package journal

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"backlot/backtest"
)

const schema = `
CREATE TABLE IF NOT EXISTS trades (
	trade_id TEXT PRIMARY KEY,
	run_id TEXT NOT NULL,
	time DATETIME NOT NULL,
	side TEXT NOT NULL,
	quantity REAL NOT NULL,
	price REAL NOT NULL,
	commission REAL NOT NULL,
	slippage REAL NOT NULL,
	cohort_id TEXT NOT NULL,
	rejected INTEGER NOT NULL,
	reason TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS equity (
	run_id TEXT NOT NULL,
	time DATETIME NOT NULL,
	cash REAL NOT NULL,
	position_value REAL NOT NULL,
	total_equity REAL NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_trades_run ON trades(run_id, time);
CREATE INDEX IF NOT EXISTS idx_equity_run ON equity(run_id, time);
`

// SQLiteJournal persists runs to a SQLite database.
type SQLiteJournal struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the journal database at path.
func NewSQLite(path string) (*SQLiteJournal, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, err
	}
	return &SQLiteJournal{db: db}, nil
}

func (j *SQLiteJournal) RecordTrade(runID string, t backtest.TradeRecord) error {
	rejected := 0
	if t.Rejected {
		rejected = 1
	}
	_, err := j.db.Exec(`
		INSERT INTO trades
		(trade_id, run_id, time, side, quantity, price, commission, slippage, cohort_id, rejected, reason)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, runID, t.Time, t.Side, t.Quantity, t.Price,
		t.Commission, t.Slippage, t.CohortID, rejected, t.Reason,
	)
	return err
}

func (j *SQLiteJournal) RecordEquity(runID string, e backtest.EquitySnapshot) error {
	_, err := j.db.Exec(`
		INSERT INTO equity (run_id, time, cash, position_value, total_equity)
		VALUES (?, ?, ?, ?, ?)`,
		runID, e.Time, e.Cash, e.PositionValue, e.TotalEquity,
	)
	return err
}

// ListTrades returns the trade log of one run in time order.
func (j *SQLiteJournal) ListTrades(runID string) ([]backtest.TradeRecord, error) {
	rows, err := j.db.Query(`
		SELECT trade_id, time, side, quantity, price, commission, slippage, cohort_id, rejected, reason
		FROM trades WHERE run_id = ? ORDER BY time, trade_id`, runID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []backtest.TradeRecord
	for rows.Next() {
		var t backtest.TradeRecord
		var ts time.Time
		var rejected int
		if err := rows.Scan(&t.ID, &ts, &t.Side, &t.Quantity, &t.Price,
			&t.Commission, &t.Slippage, &t.CohortID, &rejected, &t.Reason); err != nil {
			return nil, err
		}
		t.Time = ts
		t.Rejected = rejected != 0
		out = append(out, t)
	}
	return out, rows.Err()
}

func (j *SQLiteJournal) Close() error {
	return j.db.Close()
}
