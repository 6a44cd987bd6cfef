package indicators

import (
	"fmt"

	apperrors "walkrisk-engine/internal/errors"
	"walkrisk-engine/internal/models"
)

// computeBollingerBands computes Bollinger Bands with band width and
// %B. Parameters "period" and "std_dev" default to 20 and 2.0.
func computeBollingerBands(candles []models.Candle, params map[string]float64) (*Indicator, error) {
	period := int(param(params, "period", 20))
	stdMul := param(params, "std_dev", 2.0)
	if period <= 0 || stdMul <= 0 {
		return nil, apperrors.ErrInvalidPeriod
	}
	if len(candles) < period+1 {
		return nil, apperrors.ErrInsufficientData
	}

	n := len(candles)
	closes := models.Closes(candles)

	ind := &Indicator{
		Type:        TypeBollingerBands,
		Name:        fmt.Sprintf("BollingerBands(%d,%.1f)", period, stdMul),
		Description: "Bollinger bands, volatility envelope around a moving average",
		Parameters: map[string]float64{
			"period":  float64(period),
			"std_dev": stdMul,
		},
		InterpretationGuide: []string{
			"Touching the upper band suggests overbought conditions",
			"Touching the lower band suggests oversold conditions",
			"A narrowing band (squeeze) precedes volatility expansion",
			"A widening band confirms a strong trend",
			"%B above 1 or below 0 marks a band breakout",
		},
		CommonMistakes: []string{
			"Fading a trending market at the bands",
			"Trading every band touch immediately",
			"Guessing breakout direction during a squeeze",
		},
		BestTimeframes: []string{"daily", "4h", "1h"},
		componentOrder: []string{"middle", "upper", "lower", "width", "percent_b"},
	}

	for i := period - 1; i < n; i++ {
		window := closes[i-period+1 : i+1]
		middle := mean(window)
		sd := stdDev(window)
		upper := middle + stdMul*sd
		lower := middle - stdMul*sd

		var width, percentB float64
		if middle != 0 {
			width = (upper - lower) / middle * 100
		}
		if upper != lower {
			percentB = (closes[i] - lower) / (upper - lower)
		}

		price := closes[i]
		var sig Signal
		switch {
		case price >= upper:
			sig = SignalOverbought
		case price <= lower:
			sig = SignalOversold
		case width < 10:
			// Squeeze, direction undecided
			sig = SignalHold
		case price > middle && percentB > 0.8:
			sig = SignalSell
		case price < middle && percentB < 0.2:
			sig = SignalBuy
		default:
			sig = SignalHold
		}

		ind.Values = append(ind.Values, Value{
			Timestamp: candles[i].Timestamp,
			Components: map[string]float64{
				"upper":     upper,
				"middle":    middle,
				"lower":     lower,
				"width":     width,
				"percent_b": percentB,
			},
			Signal:     sig,
			Confidence: 0.6,
			Metadata: map[string]bool{
				"squeeze":   width < 10,
				"expansion": width > 20,
			},
		})
	}

	return ind, nil
}

// computeATR computes the Average True Range with Wilder smoothing and
// a volatility breakout signal against its own trailing average.
// Parameter "period" defaults to 14.
func computeATR(candles []models.Candle, params map[string]float64) (*Indicator, error) {
	period := int(param(params, "period", 14))
	if period <= 0 {
		return nil, apperrors.ErrInvalidPeriod
	}
	if len(candles) < 2*period+1 {
		return nil, apperrors.ErrInsufficientData
	}

	n := len(candles)
	tr := make([]float64, n)
	tr[0] = candles[0].High - candles[0].Low
	for i := 1; i < n; i++ {
		tr[i] = trueRange(candles[i], candles[i-1])
	}

	atr := make([]float64, n)
	atr[period-1] = mean(tr[:period])
	for i := period; i < n; i++ {
		atr[i] = (atr[i-1]*float64(period-1) + tr[i]) / float64(period)
	}

	// Trailing average ATR for the breakout comparison
	atrAvg := make([]float64, n)
	for i := 2*period - 2; i < n; i++ {
		atrAvg[i] = mean(atr[i-period+1 : i+1])
	}

	ind := &Indicator{
		Type:        TypeATR,
		Name:        fmt.Sprintf("ATR(%d)", period),
		Description: "Average true range, market volatility gauge",
		Parameters:  map[string]float64{"period": float64(period)},
		InterpretationGuide: []string{
			"Rising ATR means expanding volatility, often trend strength",
			"Falling ATR means contracting volatility before a move",
			"Used for stop placement at price plus or minus ATR",
			"Used for position sizing",
			"Confirms breakouts when ATR spikes",
		},
		CommonMistakes: []string{
			"Reading ATR as a directional signal",
			"Trading on volatility alone",
			"Using a poorly calibrated multiple",
		},
		BestTimeframes: []string{"daily", "4h", "1h"},
	}

	for i := period; i < n; i++ {
		sig := SignalHold
		highVol := false
		lowVol := false
		if i >= 2*period {
			highVol = atr[i] > atrAvg[i]*1.5
			lowVol = atr[i] < atrAvg[i]*0.7
			if highVol {
				sig = SignalBreakout
			}
		}

		ind.Values = append(ind.Values, Value{
			Timestamp:  candles[i].Timestamp,
			Value:      atr[i],
			Signal:     sig,
			Confidence: 0.5,
			Metadata: map[string]bool{
				"high_volatility": highVol,
				"low_volatility":  lowVol,
			},
		})
	}

	return ind, nil
}
