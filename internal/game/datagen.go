package game

import (
	"math"
	"math/rand"
	"time"

	"walkrisk-engine/internal/models"
)

// MarketDataGenerator produces synthetic daily candles for challenges.
type MarketDataGenerator struct {
	rng       *rand.Rand
	startDate time.Time
	basePrice float64
}

// NewMarketDataGenerator creates a generator seeded from the clock.
func NewMarketDataGenerator(basePrice float64) *MarketDataGenerator {
	return NewMarketDataGeneratorWith(rand.New(rand.NewSource(time.Now().UnixNano())), basePrice)
}

// NewMarketDataGeneratorWith creates a generator with an explicit RNG so
// challenge data can be reproduced from a seed.
func NewMarketDataGeneratorWith(rng *rand.Rand, basePrice float64) *MarketDataGenerator {
	if basePrice <= 0 {
		basePrice = 100
	}
	return &MarketDataGenerator{
		rng:       rng,
		startDate: time.Now().AddDate(0, 0, -90).Truncate(24 * time.Hour),
		basePrice: basePrice,
	}
}

func (g *MarketDataGenerator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func (g *MarketDataGenerator) volume() int64 {
	return int64(100000 + g.rng.Intn(900001))
}

// candle fills in OHLC around a close, with high and low clamped so the
// body always sits inside the range.
func (g *MarketDataGenerator) candle(day int, open, close, highFactorHi, lowFactorLo float64) models.Candle {
	high := close * g.uniform(1.001, highFactorHi)
	low := close * g.uniform(lowFactorLo, 0.999)
	return models.Candle{
		Timestamp: g.startDate.AddDate(0, 0, day),
		Open:      open,
		High:      math.Max(high, math.Max(open, close)),
		Low:       math.Min(low, math.Min(open, close)),
		Close:     close,
		Volume:    g.volume(),
	}
}

// RandomWalk generates days of candles from a gaussian random walk.
func (g *MarketDataGenerator) RandomWalk(days int, volatility float64) []models.Candle {
	prices := make([]float64, days)
	prices[0] = g.basePrice
	for i := 1; i < days; i++ {
		ret := g.rng.NormFloat64() * volatility
		prices[i] = prices[i-1] * (1 + ret)
	}

	candles := make([]models.Candle, days)
	for i, close := range prices {
		open := close
		if i > 0 {
			open = prices[i-1]
		}
		candles[i] = g.candle(i, open, close, 1.02, 0.98)
	}
	return candles
}

// Trending generates candles whose drift changes direction trendChanges
// times, splitting the series into equal-length segments.
func (g *MarketDataGenerator) Trending(days, trendChanges int) []models.Candle {
	segmentLength := days / (trendChanges + 1)
	trendChoices := []float64{0.001, -0.001, 0.002, -0.002}

	trends := make([]float64, trendChanges+1)
	for i := range trends {
		trends[i] = trendChoices[g.rng.Intn(len(trendChoices))]
	}

	prices := make([]float64, days)
	prices[0] = g.basePrice
	for day := 1; day < days; day++ {
		segment := day / segmentLength
		if segment >= len(trends) {
			segment = len(trends) - 1
		}
		noise := g.uniform(-0.02, 0.02)
		prices[day] = prices[day-1] * (1 + trends[segment] + noise)
	}

	candles := make([]models.Candle, days)
	for i, close := range prices {
		open := close
		if i > 0 {
			open = prices[i-1]
		}
		candles[i] = g.candle(i, open, close, 1.015, 0.985)
	}
	return candles
}

// Divergence generates candles where price grinds higher on a 15-day
// cycle while momentum fades, so momentum oscillators diverge from price.
func (g *MarketDataGenerator) Divergence(days int) []models.Candle {
	if days <= 0 {
		days = 50
	}

	prices := make([]float64, days)
	momentum := make([]float64, days)
	for i := 0; i < days; i++ {
		baseTrend := 0.002
		cycleEffect := 0.01 * math.Sin(float64(i)*2*math.Pi/15)
		if i == 0 {
			prices[i] = g.basePrice
		} else {
			change := baseTrend + cycleEffect + g.uniform(-0.01, 0.01)
			prices[i] = prices[i-1] * (1 + change)
		}
		m := 1.0 - (float64(i)/float64(days))*0.8 + g.uniform(-0.1, 0.1)
		momentum[i] = math.Max(0.2, m)
	}

	candles := make([]models.Candle, days)
	for i, close := range prices {
		open := close
		if i > 0 {
			open = prices[i-1]
		}
		// Volatility shrinks with momentum so swings visibly weaken.
		volatility := 0.01 * momentum[i]
		high := close * (1 + g.uniform(0.001, volatility))
		low := close * (1 - g.uniform(0.001, volatility))
		candles[i] = models.Candle{
			Timestamp: g.startDate.AddDate(0, 0, i),
			Open:      open,
			High:      math.Max(high, math.Max(open, close)),
			Low:       math.Min(low, math.Min(open, close)),
			Close:     close,
			Volume:    g.volume(),
		}
	}
	return candles
}

// AddNoise multiplies each OHLC field by an independent gaussian factor.
// The input is not modified.
func (g *MarketDataGenerator) AddNoise(candles []models.Candle, noiseLevel float64) []models.Candle {
	noisy := make([]models.Candle, len(candles))
	for i, c := range candles {
		c.Open *= 1 + g.rng.NormFloat64()*noiseLevel
		c.High *= 1 + g.rng.NormFloat64()*noiseLevel
		c.Low *= 1 + g.rng.NormFloat64()*noiseLevel
		c.Close *= 1 + g.rng.NormFloat64()*noiseLevel
		noisy[i] = c
	}
	return noisy
}
