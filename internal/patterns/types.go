// Package patterns provides chart pattern definitions, recognition,
// and synthetic formation generation.
package patterns

import (
	"time"
)

// Type identifies a chart pattern.
type Type string

const (
	// Reversal patterns
	HeadAndShoulders        Type = "HEAD_AND_SHOULDERS"
	InverseHeadAndShoulders Type = "INVERSE_HEAD_AND_SHOULDERS"
	DoubleTop               Type = "DOUBLE_TOP"
	DoubleBottom            Type = "DOUBLE_BOTTOM"
	TripleTop               Type = "TRIPLE_TOP"
	TripleBottom            Type = "TRIPLE_BOTTOM"

	// Continuation patterns
	AscendingTriangle   Type = "ASCENDING_TRIANGLE"
	DescendingTriangle  Type = "DESCENDING_TRIANGLE"
	SymmetricalTriangle Type = "SYMMETRICAL_TRIANGLE"
	Flag                Type = "FLAG"
	Pennant             Type = "PENNANT"
	WedgeRising         Type = "WEDGE_RISING"
	WedgeFalling        Type = "WEDGE_FALLING"

	// Other formations
	CupAndHandle Type = "CUP_AND_HANDLE"
	Rectangle    Type = "RECTANGLE"
	Channel      Type = "CHANNEL"
)

// AllTypes lists every known pattern type.
func AllTypes() []Type {
	return []Type{
		HeadAndShoulders, InverseHeadAndShoulders,
		DoubleTop, DoubleBottom, TripleTop, TripleBottom,
		AscendingTriangle, DescendingTriangle, SymmetricalTriangle,
		Flag, Pennant, WedgeRising, WedgeFalling,
		CupAndHandle, Rectangle, Channel,
	}
}

// Signal is the directional implication of a pattern.
type Signal string

const (
	SignalBullish      Signal = "BULLISH"
	SignalBearish      Signal = "BEARISH"
	SignalNeutral      Signal = "NEUTRAL"
	SignalBreakoutUp   Signal = "BREAKOUT_UP"
	SignalBreakoutDown Signal = "BREAKOUT_DOWN"
	SignalBreakdown    Signal = "BREAKDOWN"
)

// Point is a structurally significant point of a pattern.
type Point struct {
	Timestamp  time.Time
	Price      float64
	Role       string // left_shoulder, head, valley, resistance_touch, breakout, ...
	Importance float64
}

// Pattern is a detected or generated chart pattern.
type Pattern struct {
	Type       Type
	Signal     Signal
	Confidence float64

	KeyPoints        []Point
	SupportLevels    []float64
	ResistanceLevels []float64

	StartTime time.Time
	EndTime   time.Time

	TargetPrice float64
	StopLoss    float64
	Probability float64

	Description     string
	Characteristics []string
	TradingTips     []string
}

// requiredPoints returns the key point count that makes a pattern of
// this type structurally complete.
func requiredPoints(t Type) int {
	switch t {
	case HeadAndShoulders:
		return 5
	case DoubleTop, DoubleBottom:
		return 4
	case AscendingTriangle:
		return 6
	case Flag:
		return 4
	case CupAndHandle:
		return 6
	default:
		return 3
	}
}

// CompletionPercentage reports the structural completion of the
// pattern in [0, 1]. Adding key points never lowers it.
func (p *Pattern) CompletionPercentage() float64 {
	required := requiredPoints(p.Type)
	completion := float64(len(p.KeyPoints)) / float64(required)
	if completion > 1 {
		return 1
	}
	return completion
}

// IsComplete reports whether the pattern has all its required points.
func (p *Pattern) IsComplete() bool {
	return p.CompletionPercentage() >= 1.0
}

// RiskRewardRatio computes reward over risk from the last key point to
// the target and stop. Returns false when the pattern lacks a target,
// stop, or reference price.
func (p *Pattern) RiskRewardRatio() (float64, bool) {
	if p.TargetPrice == 0 || p.StopLoss == 0 || len(p.KeyPoints) == 0 {
		return 0, false
	}
	current := p.KeyPoints[len(p.KeyPoints)-1].Price
	reward := absf(p.TargetPrice - current)
	risk := absf(current - p.StopLoss)
	if risk == 0 {
		return 0, false
	}
	return reward / risk, true
}

// ToMap renders the pattern as plain data for the wire.
func (p *Pattern) ToMap() map[string]interface{} {
	m := map[string]interface{}{
		"pattern_type":          string(p.Type),
		"signal":                string(p.Signal),
		"confidence":            p.Confidence,
		"completion_percentage": p.CompletionPercentage(),
		"target_price":          p.TargetPrice,
		"stop_loss":             p.StopLoss,
		"probability":           p.Probability,
		"description":           p.Description,
		"characteristics":       p.Characteristics,
		"trading_tips":          p.TradingTips,
		"key_points_count":      len(p.KeyPoints),
	}
	if rr, ok := p.RiskRewardRatio(); ok {
		m["risk_reward_ratio"] = rr
	}
	return m
}

func absf(x float64) float64 {
	if x < 0 {
		return -x
	}
	return x
}
