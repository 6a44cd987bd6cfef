// Package indicators provides technical indicator calculation and
// signal interpretation over candle series.
package indicators

import (
	"time"
)

// Type identifies a technical indicator.
type Type string

const (
	TypeMovingAverage  Type = "MOVING_AVERAGE"
	TypeRSI            Type = "RSI"
	TypeMACD           Type = "MACD"
	TypeBollingerBands Type = "BOLLINGER_BANDS"
	TypeStochastic     Type = "STOCHASTIC"
	TypeATR            Type = "ATR"
)

// AllTypes lists every supported indicator type.
func AllTypes() []Type {
	return []Type{
		TypeMovingAverage,
		TypeRSI,
		TypeMACD,
		TypeBollingerBands,
		TypeStochastic,
		TypeATR,
	}
}

// Signal is the per-bar interpretation of an indicator value.
type Signal string

const (
	SignalBuy        Signal = "BUY"
	SignalSell       Signal = "SELL"
	SignalHold       Signal = "HOLD"
	SignalOverbought Signal = "OVERBOUGHT"
	SignalOversold   Signal = "OVERSOLD"
	SignalBreakout   Signal = "BREAKOUT"
	SignalNone       Signal = ""
)

// Value is a single computed indicator point. Scalar indicators fill
// Value; composite indicators (MACD, Bollinger, Stochastic) fill
// Components with named series values.
type Value struct {
	Timestamp  time.Time
	Value      float64
	Components map[string]float64
	Signal     Signal
	Confidence float64
	Metadata   map[string]bool
}

// Primary returns the scalar value, falling back to the first declared
// component for composite indicators.
func (v Value) Primary(componentOrder []string) float64 {
	if len(v.Components) == 0 {
		return v.Value
	}
	for _, key := range componentOrder {
		if c, ok := v.Components[key]; ok {
			return c
		}
	}
	return v.Value
}

// Indicator is a computed indicator series with its interpretation
// context. Values are append-only and timestamp ordered.
type Indicator struct {
	Type        Type
	Name        string
	Description string
	Parameters  map[string]float64
	Values      []Value

	InterpretationGuide []string
	CommonMistakes      []string
	BestTimeframes      []string

	// componentOrder fixes which component stands in for the scalar
	// value when correlating composite indicators.
	componentOrder []string
}

// LatestValue returns the most recent value, or false if none exist.
func (ind *Indicator) LatestValue() (Value, bool) {
	if len(ind.Values) == 0 {
		return Value{}, false
	}
	return ind.Values[len(ind.Values)-1], true
}

// LatestSignal returns the most recent signal, or SignalNone.
func (ind *Indicator) LatestSignal() Signal {
	v, ok := ind.LatestValue()
	if !ok {
		return SignalNone
	}
	return v.Signal
}

// ValueAt returns the last value at or before the given timestamp.
func (ind *Indicator) ValueAt(ts time.Time) (Value, bool) {
	for i := len(ind.Values) - 1; i >= 0; i-- {
		if !ind.Values[i].Timestamp.After(ts) {
			return ind.Values[i], true
		}
	}
	return Value{}, false
}

// SignalAccuracy measures how often the indicator's BUY and SELL
// signals predicted the direction of the cumulative price change over
// the following horizon bars. Returns 0 when no directional signals
// were emitted.
func (ind *Indicator) SignalAccuracy(returns []float64, horizon int) float64 {
	if horizon <= 0 || len(ind.Values) < horizon || len(returns) < horizon {
		return 0
	}

	correct := 0
	total := 0
	limit := len(ind.Values) - horizon
	if limit > len(returns)-horizon {
		limit = len(returns) - horizon
	}

	for i := 0; i < limit; i++ {
		sig := ind.Values[i].Signal
		if sig != SignalBuy && sig != SignalSell {
			continue
		}
		var future float64
		for _, r := range returns[i : i+horizon] {
			future += r
		}
		if (sig == SignalBuy && future > 0) || (sig == SignalSell && future < 0) {
			correct++
		}
		total++
	}

	if total == 0 {
		return 0
	}
	return float64(correct) / float64(total)
}

// ToMap renders the indicator as plain data for the wire.
func (ind *Indicator) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"indicator_type":       string(ind.Type),
		"name":                 ind.Name,
		"description":          ind.Description,
		"parameters":           ind.Parameters,
		"values_count":         len(ind.Values),
		"interpretation_guide": ind.InterpretationGuide,
		"common_mistakes":      ind.CommonMistakes,
		"best_timeframes":      ind.BestTimeframes,
	}
	if v, ok := ind.LatestValue(); ok {
		lv := map[string]interface{}{
			"timestamp":  v.Timestamp,
			"signal":     string(v.Signal),
			"confidence": v.Confidence,
		}
		if len(v.Components) > 0 {
			lv["components"] = v.Components
		} else {
			lv["value"] = v.Value
		}
		m["latest_value"] = lv
		m["latest_signal"] = string(v.Signal)
	}
	return m
}
