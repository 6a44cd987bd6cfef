package indicators

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/rs/zerolog"

	"walkrisk-engine/internal/models"
)

// Property: for any valid candle data, bounded oscillators stay within
// their mathematical ranges:
// - RSI: [0, 100]
// - Stochastic %K and %D: [0, 100]
// and every indicator emits values only after its warm-up window.

// candleGen generates valid candle data with realistic OHLCV values.
func candleGen() gopter.Gen {
	return gen.Struct(reflect.TypeOf(models.Candle{}), map[string]gopter.Gen{
		"Timestamp": gen.TimeRange(time.Now().Add(-365*24*time.Hour), time.Hour),
		"Open":      gen.Float64Range(100.0, 1000.0),
		"High":      gen.Float64Range(100.0, 1000.0),
		"Low":       gen.Float64Range(100.0, 1000.0),
		"Close":     gen.Float64Range(100.0, 1000.0),
		"Volume":    gen.Int64Range(1000, 10000000),
	}).Map(func(c models.Candle) models.Candle {
		if c.Open <= 0 {
			c.Open = 100.0
		}
		if c.High <= 0 {
			c.High = 100.0
		}
		if c.Low <= 0 {
			c.Low = 100.0
		}
		if c.Close <= 0 {
			c.Close = 100.0
		}
		// OHLC constraints: High >= max(Open, Close), Low <= min(Open, Close)
		c.High = math.Max(c.High, math.Max(c.Open, c.Close))
		c.Low = math.Min(c.Low, math.Min(c.Open, c.Close))
		if c.High <= c.Low {
			c.High = c.Low + 1.0
		}
		return c
	})
}

// candleSliceGen generates a slice of valid candles with ordered timestamps.
func candleSliceGen(minLen, maxLen int) gopter.Gen {
	return gen.SliceOfN(maxLen, candleGen()).Map(func(candles []models.Candle) []models.Candle {
		for len(candles) < minLen {
			candles = append(candles, candles[len(candles)-1])
		}
		for i := range candles {
			candles[i].Timestamp = time.Now().Add(time.Duration(i) * time.Hour)
			candles[i].High = math.Max(candles[i].High, math.Max(candles[i].Open, candles[i].Close))
			candles[i].Low = math.Min(candles[i].Low, math.Min(candles[i].Open, candles[i].Close))
			if candles[i].High <= candles[i].Low {
				candles[i].High = candles[i].Low + 1.0
			}
		}
		return candles
	})
}

func TestProperty_RSIWithinBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)
	calc := NewCalculator(zerolog.Nop())

	properties.Property("RSI stays within [0, 100]", prop.ForAll(
		func(candles []models.Candle) bool {
			ind, err := calc.Calculate(TypeRSI, candles, nil)
			if err != nil {
				return true
			}
			for _, v := range ind.Values {
				if v.Value < 0 || v.Value > 100 {
					t.Logf("RSI out of bounds: %f", v.Value)
					return false
				}
			}
			return true
		},
		candleSliceGen(20, 120),
	))

	properties.TestingRun(t)
}

func TestProperty_StochasticWithinBounds(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)
	calc := NewCalculator(zerolog.Nop())

	properties.Property("Stochastic %K and %D stay within [0, 100]", prop.ForAll(
		func(candles []models.Candle) bool {
			ind, err := calc.Calculate(TypeStochastic, candles, nil)
			if err != nil {
				return true
			}
			for _, v := range ind.Values {
				k := v.Components["percent_k"]
				d := v.Components["percent_d"]
				if k < 0 || k > 100 || d < 0 || d > 100 {
					t.Logf("Stochastic out of bounds: k=%f d=%f", k, d)
					return false
				}
			}
			return true
		},
		candleSliceGen(25, 120),
	))

	properties.TestingRun(t)
}

func TestProperty_WarmupWindowRespected(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)
	calc := NewCalculator(zerolog.Nop())

	properties.Property("no indicator emits more values than bars", prop.ForAll(
		func(candles []models.Candle) bool {
			for _, typ := range calc.Supported() {
				ind, err := calc.Calculate(typ, candles, nil)
				if err != nil {
					continue
				}
				if len(ind.Values) > len(candles) {
					t.Logf("%s emitted %d values for %d bars", typ, len(ind.Values), len(candles))
					return false
				}
				// Values carry timestamps from the input series.
				for _, v := range ind.Values {
					if v.Timestamp.Before(candles[0].Timestamp) {
						return false
					}
				}
			}
			return true
		},
		candleSliceGen(60, 120),
	))

	properties.TestingRun(t)
}
