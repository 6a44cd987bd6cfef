package indicators

import (
	"fmt"
	"strings"
)

// Info is the catalog entry describing an indicator's character and
// recommended use.
type Info struct {
	Name            string
	Category        string
	DefaultParams   map[string]float64
	RangeMin        float64
	RangeMax        float64
	Bounded         bool
	OverboughtLevel float64
	OversoldLevel   float64
	BestFor         []string
	Difficulty      string
	Reliability     float64
}

// Library is the static indicator catalog with combination presets.
type Library struct {
	definitions map[Type]Info
}

// NewLibrary creates the catalog.
func NewLibrary() *Library {
	return &Library{definitions: map[Type]Info{
		TypeRSI: {
			Name:            "RSI (Relative Strength Index)",
			Category:        "momentum",
			DefaultParams:   map[string]float64{"period": 14},
			RangeMin:        0,
			RangeMax:        100,
			Bounded:         true,
			OverboughtLevel: 70,
			OversoldLevel:   30,
			BestFor:         []string{"reversal_signals", "divergence_analysis"},
			Difficulty:      "beginner",
			Reliability:     0.7,
		},
		TypeMACD: {
			Name:          "MACD (Moving Average Convergence Divergence)",
			Category:      "trend_momentum",
			DefaultParams: map[string]float64{"fast": 12, "slow": 26, "signal": 9},
			BestFor:       []string{"trend_following", "momentum_analysis"},
			Difficulty:    "intermediate",
			Reliability:   0.75,
		},
		TypeBollingerBands: {
			Name:          "Bollinger Bands",
			Category:      "volatility",
			DefaultParams: map[string]float64{"period": 20, "std_dev": 2.0},
			BestFor:       []string{"volatility_analysis", "mean_reversion"},
			Difficulty:    "intermediate",
			Reliability:   0.65,
		},
		TypeStochastic: {
			Name:            "Stochastic Oscillator",
			Category:        "momentum",
			DefaultParams:   map[string]float64{"k_period": 14, "d_period": 3},
			RangeMin:        0,
			RangeMax:        100,
			Bounded:         true,
			OverboughtLevel: 80,
			OversoldLevel:   20,
			BestFor:         []string{"short_term_reversal", "momentum_confirmation"},
			Difficulty:      "intermediate",
			Reliability:     0.6,
		},
		TypeMovingAverage: {
			Name:          "Moving Average",
			Category:      "trend",
			DefaultParams: map[string]float64{"period": 20},
			BestFor:       []string{"trend_identification", "support_resistance"},
			Difficulty:    "beginner",
			Reliability:   0.8,
		},
		TypeATR: {
			Name:          "Average True Range",
			Category:      "volatility",
			DefaultParams: map[string]float64{"period": 14},
			BestFor:       []string{"volatility_measurement", "stop_loss_setting"},
			Difficulty:    "advanced",
			Reliability:   0.9,
		},
	}}
}

// Info returns the catalog entry for an indicator type.
func (l *Library) Info(typ Type) (Info, bool) {
	info, ok := l.definitions[typ]
	return info, ok
}

// BeginnerTypes lists indicators suited to beginners.
func (l *Library) BeginnerTypes() []Type {
	var out []Type
	for _, t := range AllTypes() {
		if info, ok := l.definitions[t]; ok && info.Difficulty == "beginner" {
			out = append(out, t)
		}
	}
	return out
}

// TypesByCategory lists indicators whose category contains the given
// category string.
func (l *Library) TypesByCategory(category string) []Type {
	var out []Type
	for _, t := range AllTypes() {
		if info, ok := l.definitions[t]; ok && strings.Contains(info.Category, category) {
			out = append(out, t)
		}
	}
	return out
}

// Combination returns the recommended indicator set for an analysis
// style, or nil for an unknown style.
func (l *Library) Combination(style string) []Type {
	combinations := map[string][]Type{
		"trend_following":     {TypeMovingAverage, TypeMACD, TypeATR},
		"mean_reversion":      {TypeRSI, TypeBollingerBands, TypeStochastic},
		"momentum_analysis":   {TypeRSI, TypeMACD, TypeStochastic},
		"volatility_analysis": {TypeBollingerBands, TypeATR},
		"complete_analysis":   {TypeMovingAverage, TypeRSI, TypeMACD, TypeBollingerBands},
	}
	return combinations[style]
}

// Correlations computes pairwise Pearson correlations between
// indicators over their shared timestamps. Pairs with too few shared
// points are omitted.
func (l *Library) Correlations(indicators []*Indicator) map[string]float64 {
	const minShared = 10

	out := make(map[string]float64)
	for i := 0; i < len(indicators); i++ {
		for j := i + 1; j < len(indicators); j++ {
			a, b := indicators[i], indicators[j]

			var valsA, valsB []float64
			for _, va := range a.Values {
				vb, ok := b.ValueAt(va.Timestamp)
				if !ok {
					continue
				}
				valsA = append(valsA, va.Primary(a.componentOrder))
				valsB = append(valsB, vb.Primary(b.componentOrder))
			}

			if len(valsA) > minShared {
				key := fmt.Sprintf("%s_vs_%s", a.Name, b.Name)
				out[key] = correlation(valsA, valsB)
			}
		}
	}
	return out
}
