package strategy

import (
	"fmt"

	"backlot/indicators"
	"backlot/market"
)

// The legacy indicator strategies below all reduce to a single implicit
// cohort: a trigger buys the full capital, the opposite trigger liquidates.
// They share the Signal contract and the same simulator as the percentage
// strategies.

// MACross trades a fast/slow moving-average crossover. EMA when UseEMA is
// set, SMA otherwise.
type MACross struct {
	FastPeriod int
	SlowPeriod int
	UseEMA     bool
}

// NewMACross applies the classic 20/50 defaults.
func NewMACross(fast, slow int, useEMA bool) *MACross {
	if fast <= 0 {
		fast = 20
	}
	if slow <= 0 {
		slow = 50
	}
	return &MACross{FastPeriod: fast, SlowPeriod: slow, UseEMA: useEMA}
}

func (s *MACross) Name() string {
	kind := "sma"
	if s.UseEMA {
		kind = "ema"
	}
	return fmt.Sprintf("%s-cross(%d/%d)", kind, s.FastPeriod, s.SlowPeriod)
}

func (s *MACross) diff(closes []float64) (float64, bool) {
	ma := indicators.SMA
	if s.UseEMA {
		ma = indicators.EMA
	}
	fast, err := ma(closes, s.FastPeriod)
	if err != nil {
		return 0, false
	}
	slow, err := ma(closes, s.SlowPeriod)
	if err != nil {
		return 0, false
	}
	return fast - slow, true
}

func (s *MACross) OnBar(bars []market.Bar, book Book) []Signal {
	closes := indicators.Closes(bars)

	now, ok := s.diff(closes)
	if !ok {
		return nil
	}
	prev, ok := s.diff(closes[:len(closes)-1])
	if !ok {
		return nil
	}

	switch {
	case now > 0 && prev <= 0 && book.OpenCount() == 0:
		return []Signal{{Action: Buy, CapitalFraction: 1, Reason: "bull cross"}}
	case now < 0 && prev >= 0 && book.OpenCount() > 0:
		return sellAll(book, "bear cross")
	}
	return nil
}

// RSIBands buys when RSI dips under the oversold band and sells when it
// pushes over the overbought band.
type RSIBands struct {
	Period     int
	Oversold   float64
	Overbought float64
}

// NewRSIBands applies the classic 14 / 30 / 70 defaults.
func NewRSIBands(period int, oversold, overbought float64) *RSIBands {
	if period <= 0 {
		period = 14
	}
	if oversold <= 0 {
		oversold = 30
	}
	if overbought <= 0 {
		overbought = 70
	}
	return &RSIBands{Period: period, Oversold: oversold, Overbought: overbought}
}

func (s *RSIBands) Name() string {
	return fmt.Sprintf("rsi(%d,%.0f/%.0f)", s.Period, s.Oversold, s.Overbought)
}

func (s *RSIBands) OnBar(bars []market.Bar, book Book) []Signal {
	rsi, err := indicators.RSI(indicators.Closes(bars), s.Period)
	if err != nil {
		return nil
	}

	switch {
	case rsi <= s.Oversold && book.OpenCount() == 0:
		return []Signal{{Action: Buy, CapitalFraction: 1, Reason: fmt.Sprintf("rsi %.1f oversold", rsi)}}
	case rsi >= s.Overbought && book.OpenCount() > 0:
		return sellAll(book, fmt.Sprintf("rsi %.1f overbought", rsi))
	}
	return nil
}

// MACDCross trades the MACD line crossing its signal line.
type MACDCross struct {
	FastPeriod   int
	SlowPeriod   int
	SignalPeriod int
}

// NewMACDCross applies the classic 12/26/9 defaults.
func NewMACDCross(fast, slow, signal int) *MACDCross {
	if fast <= 0 {
		fast = 12
	}
	if slow <= 0 {
		slow = 26
	}
	if signal <= 0 {
		signal = 9
	}
	return &MACDCross{FastPeriod: fast, SlowPeriod: slow, SignalPeriod: signal}
}

func (s *MACDCross) Name() string {
	return fmt.Sprintf("macd(%d/%d/%d)", s.FastPeriod, s.SlowPeriod, s.SignalPeriod)
}

func (s *MACDCross) OnBar(bars []market.Bar, book Book) []Signal {
	closes := indicators.Closes(bars)

	now, err := indicators.MACD(closes, s.FastPeriod, s.SlowPeriod, s.SignalPeriod)
	if err != nil {
		return nil
	}
	prev, err := indicators.MACD(closes[:len(closes)-1], s.FastPeriod, s.SlowPeriod, s.SignalPeriod)
	if err != nil {
		return nil
	}

	switch {
	case now.Histogram > 0 && prev.Histogram <= 0 && book.OpenCount() == 0:
		return []Signal{{Action: Buy, CapitalFraction: 1, Reason: "macd bull cross"}}
	case now.Histogram < 0 && prev.Histogram >= 0 && book.OpenCount() > 0:
		return sellAll(book, "macd bear cross")
	}
	return nil
}

// BollingerReversion buys closes under the lower band and exits once the
// close reverts above the middle band.
type BollingerReversion struct {
	Period int
	NumStd float64
}

// NewBollingerReversion applies the classic 20-period, 2-sigma defaults.
func NewBollingerReversion(period int, numStd float64) *BollingerReversion {
	if period <= 0 {
		period = 20
	}
	if numStd <= 0 {
		numStd = 2
	}
	return &BollingerReversion{Period: period, NumStd: numStd}
}

func (s *BollingerReversion) Name() string {
	return fmt.Sprintf("bollinger(%d,%.1f)", s.Period, s.NumStd)
}

func (s *BollingerReversion) OnBar(bars []market.Bar, book Book) []Signal {
	closes := indicators.Closes(bars)
	bands, err := indicators.Bollinger(closes, s.Period, s.NumStd)
	if err != nil {
		return nil
	}
	close := closes[len(closes)-1]

	switch {
	case close < bands.Lower && book.OpenCount() == 0:
		return []Signal{{Action: Buy, CapitalFraction: 1, Reason: "below lower band"}}
	case close > bands.Middle && book.OpenCount() > 0:
		return sellAll(book, "reverted above middle band")
	}
	return nil
}
