// Package config loads and validates the run configuration file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"backlot/backtest"
	"backlot/market"
	"backlot/strategy"
)

// Config describes one backtest run end to end: where the bars come from,
// which strategy variant to apply, the cost model, and where to journal the
// result.
type Config struct {
	Data     DataConfig     `json:"data" yaml:"data"`
	Costs    backtest.Costs `json:"costs" yaml:"costs"`
	Strategy strategy.Spec  `json:"strategy" yaml:"strategy"`
	Journal  JournalConfig  `json:"journal,omitempty" yaml:"journal,omitempty"`

	// Confidence for VaR/CVaR; 0 means 0.95.
	Confidence float64 `json:"confidence,omitempty" yaml:"confidence,omitempty"`
}

// DataConfig selects the bar source. Exactly one of CSVPath, DBPath or
// ParquetPath must be set.
type DataConfig struct {
	Symbol      string          `json:"symbol" yaml:"symbol"`
	Interval    market.Interval `json:"interval,omitempty" yaml:"interval,omitempty"`
	CSVPath     string          `json:"csv_path,omitempty" yaml:"csv_path,omitempty"`
	DBPath      string          `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	ParquetPath string          `json:"parquet_path,omitempty" yaml:"parquet_path,omitempty"`
}

// JournalConfig selects where results are persisted. Empty Type disables
// journaling.
type JournalConfig struct {
	Type       string `json:"type,omitempty" yaml:"type,omitempty"` // "csv" or "sqlite"
	DBPath     string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	TradesFile string `json:"trades_file,omitempty" yaml:"trades_file,omitempty"`
	EquityFile string `json:"equity_file,omitempty" yaml:"equity_file,omitempty"`
}

// LoadFromFile reads YAML or JSON (tried in that order) and validates.
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		if jerr := json.Unmarshal(data, cfg); jerr != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// SaveToFile writes the config; extension picks the format.
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks the configuration before anything is opened or run.
func (c *Config) Validate() error {
	if c.Data.Symbol == "" {
		return fmt.Errorf("data.symbol is required")
	}

	sources := 0
	for _, p := range []string{c.Data.CSVPath, c.Data.DBPath, c.Data.ParquetPath} {
		if p != "" {
			sources++
		}
	}
	if sources != 1 {
		return fmt.Errorf("exactly one of data.csv_path, data.db_path, data.parquet_path must be set")
	}

	if c.Costs.InitialCapital <= 0 {
		return fmt.Errorf("costs.initial_capital must be positive")
	}
	if c.Costs.CommissionRate < 0 || c.Costs.CommissionRate >= 1 {
		return fmt.Errorf("costs.commission_rate must be in [0, 1)")
	}
	if c.Costs.SlippageRate < 0 || c.Costs.SlippageRate >= 1 {
		return fmt.Errorf("costs.slippage_rate must be in [0, 1)")
	}

	if c.Strategy.Name == "" {
		return fmt.Errorf("strategy.name is required")
	}
	if _, err := strategy.New(c.Strategy); err != nil {
		return err
	}

	switch c.Journal.Type {
	case "", "none":
	case "sqlite":
		if c.Journal.DBPath == "" {
			return fmt.Errorf("journal.db_path is required for sqlite journal")
		}
	case "csv":
		if c.Journal.TradesFile == "" || c.Journal.EquityFile == "" {
			return fmt.Errorf("journal.trades_file and journal.equity_file are required for csv journal")
		}
	default:
		return fmt.Errorf("unknown journal.type %q (csv, sqlite)", c.Journal.Type)
	}

	if c.Confidence < 0 || c.Confidence >= 1 {
		return fmt.Errorf("confidence must be in [0, 1)")
	}
	return nil
}
