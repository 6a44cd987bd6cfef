package indicators

import (
	"time"

	"walkrisk-engine/internal/models"
)

// DivergenceType classifies a price/indicator divergence.
type DivergenceType string

const (
	DivergenceBullish DivergenceType = "BULLISH_DIVERGENCE"
	DivergenceBearish DivergenceType = "BEARISH_DIVERGENCE"
)

// Divergence is a detected disagreement between price extremes and
// indicator extremes.
type Divergence struct {
	Type           DivergenceType
	StartTime      time.Time
	EndTime        time.Time
	StartIndex     int
	EndIndex       int
	PriceStart     float64
	PriceEnd       float64
	IndicatorStart float64
	IndicatorEnd   float64
	Confidence     float64
	Description    string
}

// DivergenceDetector matches price extrema against indicator extrema
// within an index tolerance.
type DivergenceDetector struct {
	lookback  int
	tolerance int
}

// NewDivergenceDetector creates a detector with the default window
// (20-bar extrema, 5-bar matching tolerance).
func NewDivergenceDetector() *DivergenceDetector {
	return &DivergenceDetector{lookback: 20, tolerance: 5}
}

// NewDivergenceDetectorWith creates a detector with explicit window
// parameters.
func NewDivergenceDetectorWith(lookback, tolerance int) *DivergenceDetector {
	return &DivergenceDetector{lookback: lookback, tolerance: tolerance}
}

// extremum is a local maximum or minimum of a series.
type extremum struct {
	index int
	value float64
}

// Detect finds bullish and bearish divergences between a price series
// and an indicator series of equal length. Series too short for the
// extremum window produce no divergences.
func (d *DivergenceDetector) Detect(price, indicator models.Series) []Divergence {
	if price.Len() != indicator.Len() || price.Len() <= 2*d.lookback {
		return nil
	}

	pricePeaks := findPeaks(price.Values, d.lookback)
	priceTroughs := findTroughs(price.Values, d.lookback)
	indicatorPeaks := findPeaks(indicator.Values, d.lookback)
	indicatorTroughs := findTroughs(indicator.Values, d.lookback)

	var out []Divergence

	// Bullish: price sets a lower trough while the indicator trough rises
	for i := 1; i < len(priceTroughs); i++ {
		p1, p2 := priceTroughs[i-1], priceTroughs[i]
		t1 := nearestExtremum(indicatorTroughs, p1.index, d.tolerance)
		t2 := nearestExtremum(indicatorTroughs, p2.index, d.tolerance)
		if t1 == nil || t2 == nil {
			continue
		}
		if p2.value < p1.value && t2.value > t1.value {
			out = append(out, Divergence{
				Type:           DivergenceBullish,
				StartTime:      price.Timestamps[p1.index],
				EndTime:        price.Timestamps[p2.index],
				StartIndex:     p1.index,
				EndIndex:       p2.index,
				PriceStart:     p1.value,
				PriceEnd:       p2.value,
				IndicatorStart: t1.value,
				IndicatorEnd:   t2.value,
				Confidence:     0.7,
				Description:    "Bullish divergence: price falling while the indicator rises",
			})
		}
	}

	// Bearish: price sets a higher peak while the indicator peak falls
	for i := 1; i < len(pricePeaks); i++ {
		p1, p2 := pricePeaks[i-1], pricePeaks[i]
		t1 := nearestExtremum(indicatorPeaks, p1.index, d.tolerance)
		t2 := nearestExtremum(indicatorPeaks, p2.index, d.tolerance)
		if t1 == nil || t2 == nil {
			continue
		}
		if p2.value > p1.value && t2.value < t1.value {
			out = append(out, Divergence{
				Type:           DivergenceBearish,
				StartTime:      price.Timestamps[p1.index],
				EndTime:        price.Timestamps[p2.index],
				StartIndex:     p1.index,
				EndIndex:       p2.index,
				PriceStart:     p1.value,
				PriceEnd:       p2.value,
				IndicatorStart: t1.value,
				IndicatorEnd:   t2.value,
				Confidence:     0.7,
				Description:    "Bearish divergence: price rising while the indicator falls",
			})
		}
	}

	return out
}

// DetectWithIndicator runs detection against a computed indicator,
// using its primary component for composite indicators.
func (d *DivergenceDetector) DetectWithIndicator(candles []models.Candle, ind *Indicator) []Divergence {
	price := models.SeriesFromCandles(candles)

	series := models.Series{
		Timestamps: make([]time.Time, 0, len(ind.Values)),
		Values:     make([]float64, 0, len(ind.Values)),
	}
	for _, v := range ind.Values {
		series.Timestamps = append(series.Timestamps, v.Timestamp)
		series.Values = append(series.Values, v.Primary(ind.componentOrder))
	}

	// Align price to the indicator's warm-up offset
	offset := price.Len() - series.Len()
	if offset < 0 {
		return nil
	}
	return d.Detect(price.Slice(offset, price.Len()), series)
}

// findPeaks returns indices whose value is the maximum of the
// symmetric window around them.
func findPeaks(values []float64, lookback int) []extremum {
	var peaks []extremum
	for i := lookback; i < len(values)-lookback; i++ {
		if values[i] == highest(values[i-lookback:i+lookback+1]) {
			peaks = append(peaks, extremum{index: i, value: values[i]})
		}
	}
	return peaks
}

// findTroughs returns indices whose value is the minimum of the
// symmetric window around them.
func findTroughs(values []float64, lookback int) []extremum {
	var troughs []extremum
	for i := lookback; i < len(values)-lookback; i++ {
		if values[i] == lowest(values[i-lookback:i+lookback+1]) {
			troughs = append(troughs, extremum{index: i, value: values[i]})
		}
	}
	return troughs
}

// nearestExtremum returns the extremum closest to target within the
// tolerance, or nil when none qualifies.
func nearestExtremum(candidates []extremum, target, tolerance int) *extremum {
	var nearest *extremum
	minDist := tolerance + 1
	for i := range candidates {
		dist := candidates[i].index - target
		if dist < 0 {
			dist = -dist
		}
		if dist <= tolerance && dist < minDist {
			minDist = dist
			nearest = &candidates[i]
		}
	}
	return nearest
}
