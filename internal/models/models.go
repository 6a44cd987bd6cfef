// Package models provides domain models shared across the pattern engine.
package models

import (
	"time"
)

// Candle represents OHLCV data for a time period.
type Candle struct {
	Timestamp time.Time
	Open      float64
	High      float64
	Low       float64
	Close     float64
	Volume    int64
}

// Closes extracts the close series from a candle slice.
func Closes(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Close
	}
	return out
}

// Highs extracts the high series from a candle slice.
func Highs(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.High
	}
	return out
}

// Lows extracts the low series from a candle slice.
func Lows(candles []Candle) []float64 {
	out := make([]float64, len(candles))
	for i, c := range candles {
		out[i] = c.Low
	}
	return out
}

// Series is a timestamp-aligned numeric time series, the common currency
// between indicator output and divergence analysis.
type Series struct {
	Timestamps []time.Time
	Values     []float64
}

// Len returns the number of points in the series.
func (s Series) Len() int {
	return len(s.Values)
}

// At returns the point at index i.
func (s Series) At(i int) (time.Time, float64) {
	return s.Timestamps[i], s.Values[i]
}

// Slice returns the sub-series [from, to).
func (s Series) Slice(from, to int) Series {
	return Series{
		Timestamps: s.Timestamps[from:to],
		Values:     s.Values[from:to],
	}
}

// SeriesFromCandles builds a close-price series from candles.
func SeriesFromCandles(candles []Candle) Series {
	s := Series{
		Timestamps: make([]time.Time, len(candles)),
		Values:     make([]float64, len(candles)),
	}
	for i, c := range candles {
		s.Timestamps[i] = c.Timestamp
		s.Values[i] = c.Close
	}
	return s
}
