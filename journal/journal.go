// Package journal persists completed backtest results: the trade log and the
// equity curve. The simulation core never touches it; callers journal a
// Result after the run finishes.
package journal

import "backlot/backtest"

// Journal records trades and equity snapshots of completed runs.
type Journal interface {
	RecordTrade(runID string, t backtest.TradeRecord) error
	RecordEquity(runID string, e backtest.EquitySnapshot) error
	Close() error
}

// Record writes a whole result under one run id.
func Record(j Journal, runID string, res *backtest.Result) error {
	for _, t := range res.Trades {
		if err := j.RecordTrade(runID, t); err != nil {
			return err
		}
	}
	for _, e := range res.Snapshots {
		if err := j.RecordEquity(runID, e); err != nil {
			return err
		}
	}
	return nil
}
