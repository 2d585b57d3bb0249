package strategy

import (
	"fmt"
	"strings"
)

// Spec is the flat, serializable description of a strategy variant. The Name
// selects the variant; only the fields that variant reads are consulted, and
// zero values fall back to each variant's documented defaults.
type Spec struct {
	Name string `json:"name" yaml:"name"`

	// Multi-lot accumulation.
	MultiLot MultiLotConfig `json:"multilot,omitempty" yaml:"multilot,omitempty"`

	// Percentage variants.
	DropPct       float64     `json:"drop_pct,omitempty" yaml:"drop_pct,omitempty"`
	SellProfitPct float64     `json:"sell_profit_pct,omitempty" yaml:"sell_profit_pct,omitempty"`
	LookbackDays  int         `json:"lookback_days,omitempty" yaml:"lookback_days,omitempty"`
	MaxCohorts    int         `json:"max_cohorts,omitempty" yaml:"max_cohorts,omitempty"`
	BuyLevels     []BuyLevel  `json:"buy_levels,omitempty" yaml:"buy_levels,omitempty"`
	SellLevels    []SellLevel `json:"sell_levels,omitempty" yaml:"sell_levels,omitempty"`

	// Grid / DCA.
	GridSizePct  float64 `json:"grid_size_pct,omitempty" yaml:"grid_size_pct,omitempty"`
	NumGrids     int     `json:"num_grids,omitempty" yaml:"num_grids,omitempty"`
	CenterPrice  float64 `json:"center_price,omitempty" yaml:"center_price,omitempty"`
	BaseQuantity float64 `json:"base_quantity,omitempty" yaml:"base_quantity,omitempty"`
	IntervalBars int     `json:"interval_bars,omitempty" yaml:"interval_bars,omitempty"`

	// Volatility breakout.
	BreakoutRatio   float64 `json:"breakout_ratio,omitempty" yaml:"breakout_ratio,omitempty"`
	ProfitTargetPct float64 `json:"profit_target_pct,omitempty" yaml:"profit_target_pct,omitempty"`
	StopLossPct     float64 `json:"stop_loss_pct,omitempty" yaml:"stop_loss_pct,omitempty"`

	// Indicator variants.
	FastPeriod   int     `json:"fast_period,omitempty" yaml:"fast_period,omitempty"`
	SlowPeriod   int     `json:"slow_period,omitempty" yaml:"slow_period,omitempty"`
	SignalPeriod int     `json:"signal_period,omitempty" yaml:"signal_period,omitempty"`
	UseEMA       bool    `json:"use_ema,omitempty" yaml:"use_ema,omitempty"`
	Period       int     `json:"period,omitempty" yaml:"period,omitempty"`
	Oversold     float64 `json:"oversold,omitempty" yaml:"oversold,omitempty"`
	Overbought   float64 `json:"overbought,omitempty" yaml:"overbought,omitempty"`
	NumStd       float64 `json:"num_std,omitempty" yaml:"num_std,omitempty"`
}

// New builds the strategy named by the spec. Unknown names are an error so
// the simulator only ever sees the closed set of variants.
func New(spec Spec) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(spec.Name)) {
	case "multilot", "multi-lot", "accumulate":
		return NewMultiLot(spec.MultiLot), nil

	case "dropbuy", "drop-buy":
		s := &DropBuy{
			DropPct:       spec.DropPct,
			SellProfitPct: spec.SellProfitPct,
			LookbackDays:  spec.LookbackDays,
		}
		if s.DropPct <= 0 {
			s.DropPct = 5
		}
		if s.SellProfitPct <= 0 {
			s.SellProfitPct = 3
		}
		return s, nil

	case "pyramiding":
		return NewPyramiding(spec.BuyLevels, orDefault(spec.SellProfitPct, 5), spec.LookbackDays, spec.MaxCohorts), nil

	case "combined", "combined-pct":
		return NewCombinedPercentage(spec.BuyLevels, spec.SellLevels, spec.LookbackDays, spec.MaxCohorts), nil

	case "grid":
		return NewGrid(spec.GridSizePct, spec.NumGrids, spec.CenterPrice, spec.BaseQuantity), nil

	case "dca":
		return NewDCA(spec.IntervalBars, spec.SellProfitPct, spec.BaseQuantity), nil

	case "vol-breakout", "breakout":
		return NewVolatilityBreakout(spec.BreakoutRatio, spec.ProfitTargetPct, spec.StopLossPct), nil

	case "ma-cross", "sma-cross", "ema-cross":
		return NewMACross(spec.FastPeriod, spec.SlowPeriod, spec.UseEMA || spec.Name == "ema-cross"), nil

	case "rsi":
		return NewRSIBands(spec.Period, spec.Oversold, spec.Overbought), nil

	case "macd":
		return NewMACDCross(spec.FastPeriod, spec.SlowPeriod, spec.SignalPeriod), nil

	case "bollinger", "mean-reversion":
		return NewBollingerReversion(spec.Period, spec.NumStd), nil

	default:
		return nil, fmt.Errorf("unknown strategy %q (supported: multilot, dropbuy, pyramiding, combined, grid, dca, breakout, ma-cross, rsi, macd, bollinger)", spec.Name)
	}
}

func orDefault(v, def float64) float64 {
	if v <= 0 {
		return def
	}
	return v
}
