package patterns

import (
	"sort"

	"github.com/rs/zerolog"

	"walkrisk-engine/internal/logging"
	"walkrisk-engine/internal/models"
)

// detectFunc attempts to find one pattern type in a candle series.
type detectFunc func(r *Recognizer, candles []models.Candle) []*Pattern

// Recognizer detects chart patterns in candle series. Detection is
// dispatched through a per-type table so new detectors register
// without touching the scan loop.
type Recognizer struct {
	library   *Library
	log       zerolog.Logger
	detectors map[Type]detectFunc

	// prominence is the minimum relative height of a local extreme
	// against its neighbors.
	prominence float64
}

// NewRecognizer creates a recognizer over the given library.
func NewRecognizer(library *Library, log zerolog.Logger) *Recognizer {
	r := &Recognizer{
		library:    library,
		log:        log.With().Str("component", "pattern_recognizer").Logger(),
		prominence: 0.02,
	}
	r.detectors = map[Type]detectFunc{
		HeadAndShoulders:  (*Recognizer).detectHeadAndShoulders,
		DoubleTop:         (*Recognizer).detectDoubleTop,
		AscendingTriangle: (*Recognizer).detectAscendingTriangle,
	}
	return r
}

// DetectAll scans for every registered pattern type and returns
// matches ordered by descending confidence.
func (r *Recognizer) DetectAll(candles []models.Candle) []*Pattern {
	var detected []*Pattern
	for _, t := range AllTypes() {
		fn, ok := r.detectors[t]
		if !ok {
			continue
		}
		detected = append(detected, fn(r, candles)...)
	}

	sort.SliceStable(detected, func(i, j int) bool {
		return detected[i].Confidence > detected[j].Confidence
	})

	for _, p := range detected {
		logging.LogDetection(r.log, string(p.Type), p.Confidence, len(p.KeyPoints))
	}
	return detected
}

// Detect scans for a single pattern type.
func (r *Recognizer) Detect(t Type, candles []models.Candle) []*Pattern {
	fn, ok := r.detectors[t]
	if !ok {
		return nil
	}
	return fn(r, candles)
}

// findPeaks returns indices of local highs whose height exceeds both
// neighbors by the prominence ratio.
func (r *Recognizer) findPeaks(values []float64) []int {
	var peaks []int
	for i := 1; i < len(values)-1; i++ {
		lowerNeighbor := values[i-1]
		if values[i+1] < lowerNeighbor {
			lowerNeighbor = values[i+1]
		}
		if values[i] > values[i-1] && values[i] > values[i+1] &&
			lowerNeighbor > 0 && values[i]/lowerNeighbor > 1+r.prominence {
			peaks = append(peaks, i)
		}
	}
	return peaks
}

// findTroughs returns indices of local lows whose depth exceeds both
// neighbors by the prominence ratio.
func (r *Recognizer) findTroughs(values []float64) []int {
	var troughs []int
	for i := 1; i < len(values)-1; i++ {
		higherNeighbor := values[i-1]
		if values[i+1] > higherNeighbor {
			higherNeighbor = values[i+1]
		}
		if values[i] < values[i-1] && values[i] < values[i+1] &&
			values[i] > 0 && higherNeighbor/values[i] > 1+r.prominence {
			troughs = append(troughs, i)
		}
	}
	return troughs
}

func (r *Recognizer) detectHeadAndShoulders(candles []models.Candle) []*Pattern {
	highs := models.Highs(candles)
	peaks := r.findPeaks(highs)
	if len(peaks) < 3 {
		return nil
	}

	var out []*Pattern
	for i := 0; i+2 < len(peaks); i++ {
		ls, head, rs := peaks[i], peaks[i+1], peaks[i+2]
		if !r.validHeadAndShoulders(highs[ls], highs[head], highs[rs]) {
			continue
		}
		out = append(out, r.buildHeadAndShoulders(candles, ls, head, rs))
	}
	return out
}

func (r *Recognizer) validHeadAndShoulders(left, head, right float64) bool {
	higherShoulder := left
	if right > higherShoulder {
		higherShoulder = right
	}
	if head <= higherShoulder {
		return false
	}
	// Shoulders must sit within 10% of each other
	if absf(left-right)/higherShoulder > 0.1 {
		return false
	}
	// Head must stand at least 5% above the shoulders
	return head/higherShoulder >= 1.05
}

func (r *Recognizer) buildHeadAndShoulders(candles []models.Candle, ls, head, rs int) *Pattern {
	highs := models.Highs(candles)
	lows := models.Lows(candles)

	// Neckline is the mean of lows across the formation
	neckline := meanRange(lows, ls, rs)
	headHeight := highs[head] - neckline
	def, _ := r.library.Definition(HeadAndShoulders)

	return &Pattern{
		Type:       HeadAndShoulders,
		Signal:     SignalBearish,
		Confidence: 0.8,
		KeyPoints: []Point{
			{Timestamp: candles[ls].Timestamp, Price: highs[ls], Role: "left_shoulder", Importance: 1},
			{Timestamp: candles[head].Timestamp, Price: highs[head], Role: "head", Importance: 1},
			{Timestamp: candles[rs].Timestamp, Price: highs[rs], Role: "right_shoulder", Importance: 1},
		},
		ResistanceLevels: []float64{highs[head]},
		SupportLevels:    []float64{neckline},
		StartTime:        candles[ls].Timestamp,
		EndTime:          candles[rs].Timestamp,
		TargetPrice:      neckline - headHeight,
		StopLoss:         highs[rs] * 1.02,
		Description:      def.Description,
		Characteristics:  def.Characteristics,
		TradingTips:      def.CommonMistakes,
	}
}

func (r *Recognizer) detectDoubleTop(candles []models.Candle) []*Pattern {
	highs := models.Highs(candles)
	lows := models.Lows(candles)
	peaks := r.findPeaks(highs)
	if len(peaks) < 2 {
		return nil
	}

	var out []*Pattern
	for i := 0; i+1 < len(peaks); i++ {
		first, second := peaks[i], peaks[i+1]
		if !r.validDoubleTop(highs, lows, first, second) {
			continue
		}
		out = append(out, r.buildDoubleTop(candles, first, second))
	}
	return out
}

func (r *Recognizer) validDoubleTop(highs, lows []float64, first, second int) bool {
	higher := highs[first]
	if highs[second] > higher {
		higher = highs[second]
	}
	// Peaks must match within 3%
	if absf(highs[first]-highs[second])/higher > 0.03 {
		return false
	}
	// The valley between must drop at least 10% from the peaks
	valleyLow := lows[first]
	for i := first; i <= second; i++ {
		if lows[i] < valleyLow {
			valleyLow = lows[i]
		}
	}
	return (higher-valleyLow)/higher >= 0.1
}

func (r *Recognizer) buildDoubleTop(candles []models.Candle, first, second int) *Pattern {
	highs := models.Highs(candles)
	lows := models.Lows(candles)

	valleyIdx := first
	for i := first; i <= second; i++ {
		if lows[i] < lows[valleyIdx] {
			valleyIdx = i
		}
	}
	valley := lows[valleyIdx]

	higher := highs[first]
	if highs[second] > higher {
		higher = highs[second]
	}
	height := higher - valley
	def, _ := r.library.Definition(DoubleTop)

	return &Pattern{
		Type:       DoubleTop,
		Signal:     SignalBearish,
		Confidence: 0.7,
		KeyPoints: []Point{
			{Timestamp: candles[first].Timestamp, Price: highs[first], Role: "first_peak", Importance: 1},
			{Timestamp: candles[valleyIdx].Timestamp, Price: valley, Role: "valley", Importance: 1},
			{Timestamp: candles[second].Timestamp, Price: highs[second], Role: "second_peak", Importance: 1},
		},
		ResistanceLevels: []float64{higher},
		SupportLevels:    []float64{valley},
		StartTime:        candles[first].Timestamp,
		EndTime:          candles[second].Timestamp,
		TargetPrice:      valley - height,
		StopLoss:         higher * 1.02,
		Description:      def.Description,
		Characteristics:  def.Characteristics,
		TradingTips:      def.CommonMistakes,
	}
}

func (r *Recognizer) detectAscendingTriangle(candles []models.Candle) []*Pattern {
	highs := models.Highs(candles)
	lows := models.Lows(candles)
	peaks := r.findPeaks(highs)
	troughs := r.findTroughs(lows)
	if len(peaks) < 3 || len(troughs) < 3 {
		return nil
	}

	recentPeaks := peaks[len(peaks)-3:]
	recentTroughs := troughs[len(troughs)-3:]
	if !r.validAscendingTriangle(highs, lows, recentPeaks, recentTroughs) {
		return nil
	}
	return []*Pattern{r.buildAscendingTriangle(candles, recentPeaks, recentTroughs)}
}

func (r *Recognizer) validAscendingTriangle(highs, lows []float64, peaks, troughs []int) bool {
	// Peaks must form a flat resistance: low variance relative to mean
	var peakPrices []float64
	for _, p := range peaks {
		peakPrices = append(peakPrices, highs[p])
	}
	m := meanOf(peakPrices)
	if m == 0 {
		return false
	}
	var variance float64
	for _, v := range peakPrices {
		d := v - m
		variance += d * d
	}
	variance /= float64(len(peakPrices))
	if variance/m > 0.01 {
		return false
	}

	// Troughs must be strictly rising
	for i := 0; i+1 < len(troughs); i++ {
		if lows[troughs[i]] >= lows[troughs[i+1]] {
			return false
		}
	}
	return true
}

func (r *Recognizer) buildAscendingTriangle(candles []models.Candle, peaks, troughs []int) *Pattern {
	highs := models.Highs(candles)
	lows := models.Lows(candles)

	var keyPoints []Point
	var peakSum float64
	for _, p := range peaks {
		keyPoints = append(keyPoints, Point{
			Timestamp: candles[p].Timestamp, Price: highs[p], Role: "resistance_touch", Importance: 1,
		})
		peakSum += highs[p]
	}
	minTrough := lows[troughs[0]]
	for _, t := range troughs {
		keyPoints = append(keyPoints, Point{
			Timestamp: candles[t].Timestamp, Price: lows[t], Role: "support_touch", Importance: 1,
		})
		if lows[t] < minTrough {
			minTrough = lows[t]
		}
	}

	resistance := peakSum / float64(len(peaks))
	height := resistance - minTrough
	def, _ := r.library.Definition(AscendingTriangle)

	first := peaks[0]
	if troughs[0] < first {
		first = troughs[0]
	}
	last := peaks[len(peaks)-1]
	if troughs[len(troughs)-1] > last {
		last = troughs[len(troughs)-1]
	}

	return &Pattern{
		Type:             AscendingTriangle,
		Signal:           SignalBullish,
		Confidence:       0.75,
		KeyPoints:        keyPoints,
		ResistanceLevels: []float64{resistance},
		SupportLevels:    []float64{minTrough},
		StartTime:        candles[first].Timestamp,
		EndTime:          candles[last].Timestamp,
		TargetPrice:      resistance + height,
		StopLoss:         minTrough * 0.98,
		Description:      def.Description,
		Characteristics:  def.Characteristics,
		TradingTips:      def.CommonMistakes,
	}
}

func meanRange(values []float64, from, to int) float64 {
	if to < from {
		return 0
	}
	var total float64
	for i := from; i <= to; i++ {
		total += values[i]
	}
	return total / float64(to-from+1)
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}
