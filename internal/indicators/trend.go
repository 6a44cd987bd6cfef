package indicators

import (
	"fmt"

	apperrors "walkrisk-engine/internal/errors"
	"walkrisk-engine/internal/models"
)

// computeMovingAverage computes a simple moving average with price
// cross signals. Parameter "period" defaults to 20.
func computeMovingAverage(candles []models.Candle, params map[string]float64) (*Indicator, error) {
	period := int(param(params, "period", 20))
	if period <= 0 {
		return nil, apperrors.ErrInvalidPeriod
	}
	if len(candles) < period+1 {
		return nil, apperrors.ErrInsufficientData
	}

	closes := models.Closes(candles)
	ma := rollingMean(closes, period)

	ind := &Indicator{
		Type:        TypeMovingAverage,
		Name:        fmt.Sprintf("SMA(%d)", period),
		Description: "Simple moving average with price cross signals",
		Parameters:  map[string]float64{"period": float64(period)},
		InterpretationGuide: []string{
			"Price above the average suggests an uptrend",
			"Price below the average suggests a downtrend",
			"The slope of the average indicates trend strength",
			"A cross above the average is a buy signal",
			"A cross below the average is a sell signal",
		},
		CommonMistakes: []string{
			"Frequent false signals in sideways markets",
			"Relying on a single average in isolation",
			"Period mismatched to the traded timeframe",
		},
		BestTimeframes: []string{"daily", "4h"},
	}

	for i := period - 1; i < len(candles); i++ {
		sig := SignalHold
		if i >= period {
			crossedUp := closes[i] > ma[i] && closes[i-1] <= ma[i-1]
			crossedDown := closes[i] < ma[i] && closes[i-1] >= ma[i-1]
			switch {
			case crossedUp:
				sig = SignalBuy
			case crossedDown:
				sig = SignalSell
			}
		}
		ind.Values = append(ind.Values, Value{
			Timestamp:  candles[i].Timestamp,
			Value:      ma[i],
			Signal:     sig,
			Confidence: 0.6,
		})
	}

	return ind, nil
}

// computeMACD computes MACD (fast/slow/signal EMAs, default 12/26/9)
// with crossover signals.
func computeMACD(candles []models.Candle, params map[string]float64) (*Indicator, error) {
	fast := int(param(params, "fast", 12))
	slow := int(param(params, "slow", 26))
	signalPeriod := int(param(params, "signal", 9))
	if fast <= 0 || slow <= 0 || signalPeriod <= 0 || fast >= slow {
		return nil, apperrors.ErrInvalidPeriod
	}
	warmup := slow + signalPeriod - 1
	if len(candles) < warmup+1 {
		return nil, apperrors.ErrInsufficientData
	}

	n := len(candles)
	closes := models.Closes(candles)
	fastEMA := calculateEMA(closes, fast)
	slowEMA := calculateEMA(closes, slow)

	macdLine := make([]float64, n)
	for i := slow - 1; i < n; i++ {
		macdLine[i] = fastEMA[i] - slowEMA[i]
	}

	signalLine := make([]float64, n)
	signalEMA := calculateEMA(macdLine[slow-1:], signalPeriod)
	for i, v := range signalEMA {
		signalLine[slow-1+i] = v
	}

	ind := &Indicator{
		Type:        TypeMACD,
		Name:        fmt.Sprintf("MACD(%d,%d,%d)", fast, slow, signalPeriod),
		Description: "Moving average convergence divergence, trend and momentum combined",
		Parameters: map[string]float64{
			"fast":   float64(fast),
			"slow":   float64(slow),
			"signal": float64(signalPeriod),
		},
		InterpretationGuide: []string{
			"MACD crossing above the signal line is a buy signal",
			"MACD crossing below the signal line is a sell signal",
			"MACD above zero indicates an uptrend",
			"MACD below zero indicates a downtrend",
			"Histogram direction changes flag momentum shifts",
		},
		CommonMistakes: []string{
			"Many false crossovers in ranging markets",
			"Ignoring divergence against price",
			"Overlooking the histogram",
		},
		BestTimeframes: []string{"daily", "4h"},
		componentOrder: []string{"macd", "signal", "histogram"},
	}

	for i := warmup - 1; i < n; i++ {
		sig := SignalHold
		if i > warmup-1 {
			crossedUp := macdLine[i] > signalLine[i] && macdLine[i-1] <= signalLine[i-1]
			crossedDown := macdLine[i] < signalLine[i] && macdLine[i-1] >= signalLine[i-1]
			switch {
			case crossedUp:
				sig = SignalBuy
			case crossedDown:
				sig = SignalSell
			}
		}
		ind.Values = append(ind.Values, Value{
			Timestamp: candles[i].Timestamp,
			Components: map[string]float64{
				"macd":      macdLine[i],
				"signal":    signalLine[i],
				"histogram": macdLine[i] - signalLine[i],
			},
			Signal:     sig,
			Confidence: 0.7,
			Metadata: map[string]bool{
				"crossover":  sig == SignalBuy || sig == SignalSell,
				"above_zero": macdLine[i] > 0,
			},
		})
	}

	return ind, nil
}
