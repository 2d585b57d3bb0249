package strategy

import (
	"fmt"
	"math"

	"backlot/market"
)

// MultiLotConfig parameterizes the multi-lot accumulation strategy.
type MultiLotConfig struct {
	MaxCohorts            int     `json:"max_cohorts" yaml:"max_cohorts"`
	ProfitTargetPct       float64 `json:"profit_target_pct" yaml:"profit_target_pct"`
	LookbackDays          int     `json:"lookback_days" yaml:"lookback_days"`
	PullbackPct           float64 `json:"pullback_pct" yaml:"pullback_pct"`
	PositionScaling       bool    `json:"position_scaling" yaml:"position_scaling"`
	BaseQuantity          float64 `json:"base_quantity" yaml:"base_quantity"`
	DepthThresholdPct     float64 `json:"depth_threshold_pct" yaml:"depth_threshold_pct"`
	MaxQuantityMultiplier int     `json:"max_quantity_multiplier" yaml:"max_quantity_multiplier"`
	BuyFirstBar           bool    `json:"buy_first_bar" yaml:"buy_first_bar"`
}

// MultiLotDefaults mirrors the documented defaults: up to 30 cohorts, 3%
// per-cohort profit target, 7-day trailing high with a 3% pullback trigger,
// scaling every 5% of drawdown depth up to 5x the base quantity.
func MultiLotDefaults() MultiLotConfig {
	return MultiLotConfig{
		MaxCohorts:            30,
		ProfitTargetPct:       3.0,
		LookbackDays:          7,
		PullbackPct:           3.0,
		PositionScaling:       true,
		BaseQuantity:          1,
		DepthThresholdPct:     5.0,
		MaxQuantityMultiplier: 5,
		BuyFirstBar:           true,
	}
}

// MultiLot accumulates independent purchase cohorts on weakness and exits
// each cohort on its own once it clears the profit target.
//
// Buys fire on a down day or on a pullback from the trailing high; quantity
// scales with drawdown depth from the running average cost when scaling is
// enabled. Sells are evaluated per cohort, oldest entry first. Cohorts that
// never reach the target stay open to the end of the series.
type MultiLot struct {
	MultiLotConfig
}

// NewMultiLot builds the strategy, filling zero-valued fields from the
// defaults.
func NewMultiLot(cfg MultiLotConfig) *MultiLot {
	def := MultiLotDefaults()
	if cfg.MaxCohorts <= 0 {
		cfg.MaxCohorts = def.MaxCohorts
	}
	if cfg.ProfitTargetPct == 0 {
		cfg.ProfitTargetPct = def.ProfitTargetPct
	}
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = def.LookbackDays
	}
	if cfg.BaseQuantity <= 0 {
		cfg.BaseQuantity = def.BaseQuantity
	}
	if cfg.DepthThresholdPct <= 0 {
		cfg.DepthThresholdPct = def.DepthThresholdPct
	}
	if cfg.MaxQuantityMultiplier <= 0 {
		cfg.MaxQuantityMultiplier = def.MaxQuantityMultiplier
	}
	return &MultiLot{MultiLotConfig: cfg}
}

func (s *MultiLot) Name() string {
	return fmt.Sprintf("multilot(max=%d,target=%.1f%%)", s.MaxCohorts, s.ProfitTargetPct)
}

func (s *MultiLot) OnBar(bars []market.Bar, book Book) []Signal {
	t := len(bars) - 1
	bar := bars[t]

	var signals []Signal

	// Exits first: each open cohort closes independently once its own gain
	// clears the target. Entry order fixes the tie-break.
	for _, c := range book.OpenCohorts() {
		if c.Gain(bar.Close) >= s.ProfitTargetPct {
			signals = append(signals, Signal{
				Action:   Sell,
				Quantity: c.Quantity,
				CohortID: c.ID,
				Reason:   fmt.Sprintf("cohort gain %.2f%% >= %.2f%%", c.Gain(bar.Close), s.ProfitTargetPct),
			})
		}
	}

	if buy, reason := s.shouldBuy(bars, book); buy {
		signals = append(signals, Signal{
			Action:   Buy,
			Quantity: s.buyQuantity(bar.Close, book),
			Reason:   reason,
		})
	}

	return signals
}

func (s *MultiLot) shouldBuy(bars []market.Bar, book Book) (bool, string) {
	if book.OpenCount() >= s.MaxCohorts {
		return false, ""
	}

	t := len(bars) - 1
	if t == 0 {
		if s.BuyFirstBar {
			return true, "first bar"
		}
		return false, ""
	}

	bar := bars[t]
	if bar.Close < bars[t-1].Close {
		return true, "down day"
	}

	high := market.HighestClose(bars[:t], s.LookbackDays)
	trigger := high * (1 - s.PullbackPct/100)
	if bar.Close <= trigger {
		return true, fmt.Sprintf("pullback below %.2f (high %.2f)", trigger, high)
	}

	return false, ""
}

// buyQuantity scales the base quantity by how deep the close sits under the
// running average cost: base * clamp(floor(depth/threshold)+1, 1, maxMult).
func (s *MultiLot) buyQuantity(close float64, book Book) float64 {
	if !s.PositionScaling {
		return s.BaseQuantity
	}

	avg := book.AverageCost()
	if avg <= 0 {
		return s.BaseQuantity
	}

	depth := (avg - close) / avg * 100
	if depth < 0 {
		depth = 0
	}

	mult := int(math.Floor(depth/s.DepthThresholdPct)) + 1
	if mult < 1 {
		mult = 1
	}
	if mult > s.MaxQuantityMultiplier {
		mult = s.MaxQuantityMultiplier
	}

	return s.BaseQuantity * float64(mult)
}
