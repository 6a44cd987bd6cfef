package patterns

import (
	"math/rand"
	"time"

	apperrors "walkrisk-engine/internal/errors"
	"walkrisk-engine/internal/models"
)

// HeadShouldersPreset shapes a generated head and shoulders formation.
// Ratios are relative to the base price.
type HeadShouldersPreset struct {
	Days          int
	LeftShoulder  float64
	Head          float64
	RightShoulder float64
	Valley        float64
	Noise         float64
}

// DoubleTopPreset shapes a generated double top formation.
type DoubleTopPreset struct {
	Days       int
	FirstPeak  float64
	SecondPeak float64
	Valley     float64
	Noise      float64
}

// TrianglePreset shapes a generated ascending triangle formation.
type TrianglePreset struct {
	Days        int
	Resistance  float64
	Support     float64
	Oscillation int
	Breakout    float64
	Noise       float64
}

// GeneratorPresets bundles the tunable shape ratios for all synthetic
// formations.
type GeneratorPresets struct {
	BasePrice     float64
	HeadShoulders HeadShouldersPreset
	DoubleTop     DoubleTopPreset
	Triangle      TrianglePreset
}

// DefaultPresets returns the standard formation shapes.
func DefaultPresets() GeneratorPresets {
	return GeneratorPresets{
		BasePrice: 100,
		HeadShoulders: HeadShouldersPreset{
			Days:          60,
			LeftShoulder:  1.10,
			Head:          1.20,
			RightShoulder: 1.08,
			Valley:        0.95,
			Noise:         0.02,
		},
		DoubleTop: DoubleTopPreset{
			Days:       40,
			FirstPeak:  1.15,
			SecondPeak: 1.14,
			Valley:     0.92,
			Noise:      0.02,
		},
		Triangle: TrianglePreset{
			Days:        30,
			Resistance:  1.10,
			Support:     0.95,
			Oscillation: 6,
			Breakout:    1.10,
			Noise:       0.015,
		},
	}
}

// Generator builds synthetic candle series containing known pattern
// formations, with the ground truth pattern alongside. Higher
// difficulty raises the noise overlaid on the formation.
type Generator struct {
	presets GeneratorPresets
	library *Library
	rng     *rand.Rand
	start   time.Time
}

// NewGenerator creates a generator with the given presets and a seeded
// random source.
func NewGenerator(presets GeneratorPresets, library *Library, rng *rand.Rand) *Generator {
	return &Generator{
		presets: presets,
		library: library,
		rng:     rng,
		start:   time.Now().UTC().Truncate(24 * time.Hour).AddDate(0, 0, -90),
	}
}

// Generate builds a candle series with the requested formation and
// returns it with the ground truth pattern. Types without a dedicated
// builder get a neutral random walk labeled with the type.
func (g *Generator) Generate(t Type, difficulty float64) ([]models.Candle, *Pattern, error) {
	if difficulty < 0 || difficulty > 1 {
		return nil, nil, apperrors.NewValidationError("difficulty", difficulty, "must be in [0, 1]")
	}

	switch t {
	case HeadAndShoulders:
		candles, pattern := g.generateHeadAndShoulders(difficulty)
		return candles, pattern, nil
	case DoubleTop:
		candles, pattern := g.generateDoubleTop(difficulty)
		return candles, pattern, nil
	case AscendingTriangle:
		candles, pattern := g.generateAscendingTriangle(difficulty)
		return candles, pattern, nil
	default:
		candles, pattern := g.generateBasic(t)
		return candles, pattern, nil
	}
}

// noisy applies symmetric relative noise to a price.
func (g *Generator) noisy(price, level float64) float64 {
	return price * (1 + (g.rng.Float64()*2-1)*level)
}

// uniform draws from [lo, hi).
func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func (g *Generator) day(i int) time.Time {
	return g.start.AddDate(0, 0, i)
}

// toCandles wraps a close series into OHLCV candles. Volume ranges per
// bar may vary; breakout sections pass a larger range.
func (g *Generator) toCandles(closes []float64, volLo, volHi int64) []models.Candle {
	candles := make([]models.Candle, len(closes))
	for i, close := range closes {
		open := close
		if i > 0 {
			open = closes[i-1]
		}
		high := close * g.uniform(1.001, 1.01)
		low := close * g.uniform(0.99, 0.999)
		// Gaps between consecutive closes must stay inside the range
		if open > high {
			high = open
		}
		if open < low {
			low = open
		}
		candles[i] = models.Candle{
			Timestamp: g.day(i),
			Open:      open,
			High:      high,
			Low:       low,
			Close:     close,
			Volume:    volLo + g.rng.Int63n(volHi-volLo),
		}
	}
	return candles
}

func (g *Generator) generateHeadAndShoulders(difficulty float64) ([]models.Candle, *Pattern) {
	p := g.presets.HeadShoulders
	base := g.presets.BasePrice
	noise := p.Noise * (1 + difficulty)

	leftPeak := base * p.LeftShoulder
	headPeak := base * p.Head
	rightPeak := base * p.RightShoulder
	valley := base * p.Valley
	neckline := valley
	target := neckline - (headPeak - neckline)

	var closes []float64

	// Left shoulder: rise then fall back to the valley
	for i := 0; i < 15; i++ {
		var price float64
		if i < 7 {
			price = base + (leftPeak-base)*float64(i)/7
		} else {
			price = leftPeak - (leftPeak-valley)*float64(i-7)/8
		}
		closes = append(closes, g.noisy(price, noise))
	}

	// Head
	for i := 0; i < 20; i++ {
		var price float64
		if i < 10 {
			price = valley + (headPeak-valley)*float64(i)/10
		} else {
			price = headPeak - (headPeak-valley)*float64(i-10)/10
		}
		closes = append(closes, g.noisy(price, noise))
	}

	// Right shoulder, slightly lower than the left
	for i := 0; i < 15; i++ {
		var price float64
		if i < 7 {
			price = valley + (rightPeak-valley)*float64(i)/7
		} else {
			price = rightPeak - (rightPeak-valley)*float64(i-7)/8
		}
		closes = append(closes, g.noisy(price, noise))
	}

	// Neckline breakdown toward the measured target
	for i := 0; i < p.Days-50; i++ {
		price := neckline - (neckline-target)*float64(i)/float64(p.Days-50)
		closes = append(closes, g.noisy(price, noise))
	}

	candles := g.toCandles(closes, 100_000, 1_000_000)
	def, _ := g.library.Definition(HeadAndShoulders)

	pattern := &Pattern{
		Type:       HeadAndShoulders,
		Signal:     SignalBearish,
		Confidence: 0.9,
		KeyPoints: []Point{
			{Timestamp: g.day(7), Price: leftPeak, Role: "left_shoulder", Importance: 1},
			{Timestamp: g.day(25), Price: headPeak, Role: "head", Importance: 1},
			{Timestamp: g.day(42), Price: rightPeak, Role: "right_shoulder", Importance: 1},
			{Timestamp: g.day(50), Price: neckline, Role: "neckline_break", Importance: 1},
		},
		ResistanceLevels: []float64{headPeak},
		SupportLevels:    []float64{neckline},
		StartTime:        g.day(0),
		EndTime:          g.day(50),
		TargetPrice:      target,
		StopLoss:         rightPeak * 1.02,
		Description:      def.Description,
		Characteristics:  def.Characteristics,
	}
	return candles, pattern
}

func (g *Generator) generateDoubleTop(difficulty float64) ([]models.Candle, *Pattern) {
	p := g.presets.DoubleTop
	base := g.presets.BasePrice
	noise := p.Noise * (1 + difficulty)

	firstPeak := base * p.FirstPeak
	secondPeak := base * p.SecondPeak
	valley := base * p.Valley
	target := valley - (firstPeak - valley)

	var closes []float64

	// First peak
	for i := 0; i < 12; i++ {
		var price float64
		if i < 6 {
			price = base + (firstPeak-base)*float64(i)/6
		} else {
			price = firstPeak - (firstPeak-valley)*float64(i-6)/6
		}
		closes = append(closes, g.noisy(price, noise))
	}

	// Valley consolidation
	for i := 0; i < 4; i++ {
		closes = append(closes, g.noisy(valley, noise/2))
	}

	// Second peak, marginally lower
	for i := 0; i < 12; i++ {
		var price float64
		if i < 6 {
			price = valley + (secondPeak-valley)*float64(i)/6
		} else {
			price = secondPeak - (secondPeak-valley)*float64(i-6)/6
		}
		closes = append(closes, g.noisy(price, noise))
	}

	// Support break toward the measured target
	breakdown := p.Days - 28
	for i := 0; i < breakdown; i++ {
		price := valley - (valley-target)*float64(i)/float64(breakdown)
		closes = append(closes, g.noisy(price, noise))
	}

	candles := g.toCandles(closes, 100_000, 1_000_000)
	def, _ := g.library.Definition(DoubleTop)

	higher := firstPeak
	if secondPeak > higher {
		higher = secondPeak
	}

	pattern := &Pattern{
		Type:       DoubleTop,
		Signal:     SignalBearish,
		Confidence: 0.85,
		KeyPoints: []Point{
			{Timestamp: g.day(6), Price: firstPeak, Role: "first_peak", Importance: 1},
			{Timestamp: g.day(14), Price: valley, Role: "valley", Importance: 1},
			{Timestamp: g.day(22), Price: secondPeak, Role: "second_peak", Importance: 1},
			{Timestamp: g.day(28), Price: valley, Role: "support_break", Importance: 1},
		},
		ResistanceLevels: []float64{higher},
		SupportLevels:    []float64{valley},
		StartTime:        g.day(0),
		EndTime:          g.day(28),
		TargetPrice:      target,
		StopLoss:         higher * 1.02,
		Description:      def.Description,
		Characteristics:  def.Characteristics,
	}
	return candles, pattern
}

func (g *Generator) generateAscendingTriangle(difficulty float64) ([]models.Candle, *Pattern) {
	p := g.presets.Triangle
	base := g.presets.BasePrice
	noise := p.Noise * (1 + difficulty)

	resistance := base * p.Resistance
	initialSupport := base * p.Support
	breakoutTarget := resistance * p.Breakout

	var closes []float64

	// Oscillation between a rising support and a flat resistance
	for i := 0; i < p.Days; i++ {
		support := initialSupport + (resistance-initialSupport)*0.6*float64(i)/float64(p.Days)
		cycle := float64(i%p.Oscillation) / float64(p.Oscillation)

		var price float64
		if cycle < 0.5 {
			price = support + (resistance-support)*cycle*2
		} else {
			price = resistance - (resistance-support)*(cycle-0.5)*2
		}
		// Resistance holds until the breakout
		if price > resistance*0.98 {
			price = resistance * g.uniform(0.97, 0.99)
		}
		closes = append(closes, g.noisy(price, noise))
	}

	// Breakout leg
	const breakoutDays = 5
	for i := 0; i < breakoutDays; i++ {
		price := resistance + (breakoutTarget-resistance)*float64(i)/breakoutDays
		closes = append(closes, g.noisy(price, noise))
	}

	// Breakout bars carry heavier volume
	quiet := g.toCandles(closes[:p.Days], 50_000, 200_000)
	burst := g.toCandles(closes, 200_000, 500_000)[p.Days:]
	candles := append(quiet, burst...)

	def, _ := g.library.Definition(AscendingTriangle)

	var keyPoints []Point
	for _, i := range []int{6, 12, 18, 24} {
		if i < len(closes) {
			keyPoints = append(keyPoints, Point{Timestamp: g.day(i), Price: closes[i], Role: "resistance_touch", Importance: 1})
		}
	}
	for _, i := range []int{3, 9, 15, 21, 27} {
		if i < len(closes) {
			keyPoints = append(keyPoints, Point{Timestamp: g.day(i), Price: closes[i], Role: "support_touch", Importance: 1})
		}
	}
	keyPoints = append(keyPoints, Point{Timestamp: g.day(p.Days), Price: resistance, Role: "breakout", Importance: 1})

	pattern := &Pattern{
		Type:             AscendingTriangle,
		Signal:           SignalBullish,
		Confidence:       0.8,
		KeyPoints:        keyPoints,
		ResistanceLevels: []float64{resistance},
		SupportLevels:    []float64{initialSupport},
		StartTime:        g.day(0),
		EndTime:          g.day(p.Days),
		TargetPrice:      breakoutTarget,
		StopLoss:         initialSupport * 0.98,
		Description:      def.Description,
		Characteristics:  def.Characteristics,
	}
	return candles, pattern
}

// generateBasic produces a neutral random walk labeled with the type,
// for formations without a dedicated builder.
func (g *Generator) generateBasic(t Type) ([]models.Candle, *Pattern) {
	const days = 30
	base := g.presets.BasePrice

	closes := make([]float64, days)
	for i := range closes {
		closes[i] = base + g.uniform(-5, 5)
	}
	candles := g.toCandles(closes, 100_000, 1_000_000)

	pattern := &Pattern{
		Type:        t,
		Signal:      SignalNeutral,
		Confidence:  0.5,
		StartTime:   g.day(0),
		EndTime:     g.day(days - 1),
		Description: "Synthetic practice formation",
	}
	return candles, pattern
}
