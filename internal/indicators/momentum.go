package indicators

import (
	"fmt"

	apperrors "walkrisk-engine/internal/errors"
	"walkrisk-engine/internal/models"
)

// computeRSI computes the Relative Strength Index using Wilder
// smoothing. Parameter "period" defaults to 14.
func computeRSI(candles []models.Candle, params map[string]float64) (*Indicator, error) {
	period := int(param(params, "period", 14))
	if period <= 0 {
		return nil, apperrors.ErrInvalidPeriod
	}
	if len(candles) < period+1 {
		return nil, apperrors.ErrInsufficientData
	}

	n := len(candles)
	closes := models.Closes(candles)
	rsi := make([]float64, n)

	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	// First average is an SMA, the rest use Wilder smoothing
	avgGain := mean(gains[1 : period+1])
	avgLoss := mean(losses[1 : period+1])
	rsi[period] = rsiFromAverages(avgGain, avgLoss)

	for i := period + 1; i < n; i++ {
		avgGain = (avgGain*float64(period-1) + gains[i]) / float64(period)
		avgLoss = (avgLoss*float64(period-1) + losses[i]) / float64(period)
		rsi[i] = rsiFromAverages(avgGain, avgLoss)
	}

	ind := &Indicator{
		Type:        TypeRSI,
		Name:        fmt.Sprintf("RSI(%d)", period),
		Description: "Relative strength index, overbought and oversold gauge",
		Parameters:  map[string]float64{"period": float64(period)},
		InterpretationGuide: []string{
			"Above 70: overbought, consider selling",
			"Below 30: oversold, consider buying",
			"Cross above 50: strengthening upside momentum",
			"Cross below 50: strengthening downside momentum",
			"Divergence against price warns of reversal",
		},
		CommonMistakes: []string{
			"Trading overbought/oversold alone in strong trends",
			"Ignoring divergence and reading only the level",
			"Using a period mismatched to the market",
		},
		BestTimeframes: []string{"daily", "4h", "1h"},
	}

	for i := period; i < n; i++ {
		var sig Signal
		switch {
		// Crossing the midline fires once, even when the cross lands
		// straight in an extreme zone.
		case i > period && rsi[i] > 50 && rsi[i-1] <= 50:
			sig = SignalBuy
		case i > period && rsi[i] < 50 && rsi[i-1] >= 50:
			sig = SignalSell
		case rsi[i] >= 70:
			sig = SignalOverbought
		case rsi[i] <= 30:
			sig = SignalOversold
		default:
			sig = SignalHold
		}

		confidence := 0.6
		if sig == SignalOverbought || sig == SignalOversold {
			confidence = 0.8
		}

		ind.Values = append(ind.Values, Value{
			Timestamp:  candles[i].Timestamp,
			Value:      rsi[i],
			Signal:     sig,
			Confidence: confidence,
			Metadata:   map[string]bool{"is_extreme": rsi[i] >= 70 || rsi[i] <= 30},
		})
	}

	return ind, nil
}

func rsiFromAverages(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		if avgGain == 0 {
			return 50
		}
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - (100 / (1 + rs))
}

// computeStochastic computes the stochastic oscillator (%K and %D).
// Parameters "k_period" and "d_period" default to 14 and 3.
func computeStochastic(candles []models.Candle, params map[string]float64) (*Indicator, error) {
	kPeriod := int(param(params, "k_period", 14))
	dPeriod := int(param(params, "d_period", 3))
	if kPeriod <= 0 || dPeriod <= 0 {
		return nil, apperrors.ErrInvalidPeriod
	}
	warmup := kPeriod + dPeriod - 1
	if len(candles) < warmup+1 {
		return nil, apperrors.ErrInsufficientData
	}

	n := len(candles)
	highs := models.Highs(candles)
	lows := models.Lows(candles)
	closes := models.Closes(candles)

	percentK := make([]float64, n)
	for i := kPeriod - 1; i < n; i++ {
		hh := highest(highs[i-kPeriod+1 : i+1])
		ll := lowest(lows[i-kPeriod+1 : i+1])
		if hh == ll {
			percentK[i] = 50
		} else {
			percentK[i] = 100 * (closes[i] - ll) / (hh - ll)
		}
	}

	percentD := make([]float64, n)
	for i := warmup - 1; i < n; i++ {
		percentD[i] = mean(percentK[i-dPeriod+1 : i+1])
	}

	ind := &Indicator{
		Type:        TypeStochastic,
		Name:        fmt.Sprintf("Stochastic(%%K%d,%%D%d)", kPeriod, dPeriod),
		Description: "Stochastic oscillator, momentum shifts at range extremes",
		Parameters: map[string]float64{
			"k_period": float64(kPeriod),
			"d_period": float64(dPeriod),
		},
		InterpretationGuide: []string{
			"Above 80: overbought zone",
			"Below 20: oversold zone",
			"%K crossing above %D is a buy signal",
			"%K crossing below %D is a sell signal",
			"Crosses out of the extreme zones are the strongest signals",
		},
		CommonMistakes: []string{
			"Fading strong trends on extreme readings alone",
			"Using it on noisy short-term charts",
			"Taking signals without confirmation from other tools",
		},
		BestTimeframes: []string{"daily", "4h"},
		componentOrder: []string{"percent_k", "percent_d"},
	}

	for i := warmup - 1; i < n; i++ {
		k, d := percentK[i], percentD[i]
		prevK, prevD := k, d
		if i > warmup-1 {
			prevK, prevD = percentK[i-1], percentD[i-1]
		}

		var sig Signal
		switch {
		case k >= 80 && d >= 80:
			sig = SignalOverbought
		case k <= 20 && d <= 20:
			sig = SignalOversold
		case k > d && prevK <= prevD && k < 80:
			sig = SignalBuy
		case k < d && prevK >= prevD && k > 20:
			sig = SignalSell
		default:
			sig = SignalHold
		}

		ind.Values = append(ind.Values, Value{
			Timestamp: candles[i].Timestamp,
			Components: map[string]float64{
				"percent_k": k,
				"percent_d": d,
			},
			Signal:     sig,
			Confidence: 0.7,
			Metadata: map[string]bool{
				"extreme_level": k >= 80 || k <= 20,
				"bullish_cross": sig == SignalBuy,
				"bearish_cross": sig == SignalSell,
			},
		})
	}

	return ind, nil
}
