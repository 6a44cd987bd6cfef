package indicators

import (
	"testing"
	"time"

	"walkrisk-engine/internal/models"
)

func seriesFrom(values []float64) models.Series {
	start := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	s := models.Series{
		Timestamps: make([]time.Time, len(values)),
		Values:     values,
	}
	for i := range values {
		s.Timestamps[i] = start.AddDate(0, 0, i)
	}
	return s
}

// vShape builds a series with troughs at the given indices, rising away
// from each trough at the given slope.
func vShape(length int, troughIdx []int, troughVal []float64, slope float64) []float64 {
	values := make([]float64, length)
	for i := range values {
		best := 0
		bestDist := length * 2
		for j, t := range troughIdx {
			dist := i - t
			if dist < 0 {
				dist = -dist
			}
			if dist < bestDist {
				bestDist = dist
				best = j
			}
		}
		values[i] = troughVal[best] + slope*float64(bestDist)
	}
	return values
}

func TestDetectBullishDivergence(t *testing.T) {
	// Price makes a lower low while the indicator makes a higher low.
	price := seriesFrom(vShape(30, []int{8, 22}, []float64{90, 85}, 2))
	indicator := seriesFrom(vShape(30, []int{8, 22}, []float64{30, 40}, 1.5))

	d := NewDivergenceDetectorWith(5, 5)
	divs := d.Detect(price, indicator)

	var bullish []Divergence
	for _, div := range divs {
		if div.Type == DivergenceBullish {
			bullish = append(bullish, div)
		}
	}
	if len(bullish) != 1 {
		t.Fatalf("expected exactly 1 bullish divergence, got %d (all: %d)", len(bullish), len(divs))
	}

	div := bullish[0]
	if div.StartIndex != 8 || div.EndIndex != 22 {
		t.Errorf("expected divergence spanning troughs 8..22, got %d..%d", div.StartIndex, div.EndIndex)
	}
	if !div.StartTime.Equal(price.Timestamps[8]) || !div.EndTime.Equal(price.Timestamps[22]) {
		t.Errorf("divergence timestamps do not match trough timestamps")
	}
	if div.PriceEnd >= div.PriceStart {
		t.Errorf("expected falling price legs, got %f -> %f", div.PriceStart, div.PriceEnd)
	}
	if div.IndicatorEnd <= div.IndicatorStart {
		t.Errorf("expected rising indicator legs, got %f -> %f", div.IndicatorStart, div.IndicatorEnd)
	}
}

func TestDetectNoDivergenceWhenAligned(t *testing.T) {
	// Price and indicator both make lower lows: no disagreement.
	price := seriesFrom(vShape(30, []int{8, 22}, []float64{90, 85}, 2))
	indicator := seriesFrom(vShape(30, []int{8, 22}, []float64{40, 30}, 1.5))

	d := NewDivergenceDetectorWith(5, 5)
	for _, div := range d.Detect(price, indicator) {
		if div.Type == DivergenceBullish {
			t.Fatalf("unexpected bullish divergence on aligned series")
		}
	}
}

func TestDetectShortSeries(t *testing.T) {
	price := seriesFrom([]float64{1, 2, 3})
	indicator := seriesFrom([]float64{1, 2, 3})

	d := NewDivergenceDetector()
	if divs := d.Detect(price, indicator); divs != nil {
		t.Fatalf("expected no divergences on short series, got %d", len(divs))
	}
}

func TestDetectLengthMismatch(t *testing.T) {
	price := seriesFrom(vShape(30, []int{8, 22}, []float64{90, 85}, 2))
	indicator := seriesFrom(vShape(25, []int{8, 20}, []float64{30, 40}, 1.5))

	d := NewDivergenceDetectorWith(5, 5)
	if divs := d.Detect(price, indicator); divs != nil {
		t.Fatalf("expected no divergences on mismatched series")
	}
}
