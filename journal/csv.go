package journal

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"backlot/backtest"
)

// CSVJournal writes trades and equity snapshots to two flat CSV files.
type CSVJournal struct {
	trades *csv.Writer
	equity *csv.Writer
	tf, ef *os.File
}

// NewCSV creates (truncating) the two output files and writes headers.
func NewCSV(tradesPath, equityPath string) (*CSVJournal, error) {
	tf, err := os.Create(tradesPath)
	if err != nil {
		return nil, err
	}
	ef, err := os.Create(equityPath)
	if err != nil {
		tf.Close()
		return nil, err
	}

	tw := csv.NewWriter(tf)
	ew := csv.NewWriter(ef)

	if err := tw.Write([]string{"trade_id", "run_id", "time", "side", "quantity", "price", "commission", "slippage", "cohort_id", "rejected", "reason"}); err != nil {
		return nil, err
	}
	if err := ew.Write([]string{"run_id", "time", "cash", "position_value", "total_equity"}); err != nil {
		return nil, err
	}

	tw.Flush()
	ew.Flush()
	if err := tw.Error(); err != nil {
		return nil, err
	}
	if err := ew.Error(); err != nil {
		return nil, err
	}

	return &CSVJournal{trades: tw, equity: ew, tf: tf, ef: ef}, nil
}

func (j *CSVJournal) RecordTrade(runID string, t backtest.TradeRecord) error {
	err := j.trades.Write([]string{
		t.ID,
		runID,
		t.Time.UTC().Format(time.RFC3339),
		t.Side,
		f(t.Quantity),
		f(t.Price),
		f(t.Commission),
		f(t.Slippage),
		t.CohortID,
		strconv.FormatBool(t.Rejected),
		t.Reason,
	})
	if err != nil {
		return err
	}
	j.trades.Flush()
	return j.trades.Error()
}

func (j *CSVJournal) RecordEquity(runID string, e backtest.EquitySnapshot) error {
	err := j.equity.Write([]string{
		runID,
		e.Time.UTC().Format(time.RFC3339),
		f(e.Cash),
		f(e.PositionValue),
		f(e.TotalEquity),
	})
	if err != nil {
		return err
	}
	j.equity.Flush()
	return j.equity.Error()
}

func (j *CSVJournal) Close() error {
	j.trades.Flush()
	if err := j.trades.Error(); err != nil {
		return err
	}
	j.equity.Flush()
	if err := j.equity.Error(); err != nil {
		return err
	}
	if err := j.tf.Close(); err != nil {
		return err
	}
	return j.ef.Close()
}

func f(x float64) string {
	return strconv.FormatFloat(x, 'f', 6, 64)
}
