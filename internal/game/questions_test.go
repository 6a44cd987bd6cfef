package game

import (
	"strconv"
	"testing"

	"walkrisk-engine/internal/models"
	"walkrisk-engine/internal/patterns"
)

func TestTimingDistractorsOutsideTolerance(t *testing.T) {
	// V-shaped closes with a single local low at bar 30.
	candles := make([]models.Candle, 60)
	for i := range candles {
		d := i - 30
		if d < 0 {
			d = -d
		}
		candles[i].Close = 100 + float64(d)
	}

	for seed := int64(1); seed <= 25; seed++ {
		e := newTestEngine(seed)
		c := &Challenge{}
		e.timingQuestions(c, candles)

		if len(c.Questions) != 1 {
			t.Fatalf("seed %d: got %d questions, want 1", seed, len(c.Questions))
		}
		q := c.Questions[0]
		if q.Kind != KindIndex || q.CorrectIdx != 30 {
			t.Fatalf("seed %d: kind %s correct %d, want index question at 30", seed, q.Kind, q.CorrectIdx)
		}
		if len(q.Options) != 4 {
			t.Fatalf("seed %d: got %d options, want 4", seed, len(q.Options))
		}

		seen := map[int]bool{}
		correctShown := false
		for _, opt := range q.Options {
			idx, err := strconv.Atoi(opt)
			if err != nil {
				t.Fatalf("seed %d: option %q not an index: %v", seed, opt, err)
			}
			if seen[idx] {
				t.Errorf("seed %d: duplicate option %d", seed, idx)
			}
			seen[idx] = true

			if idx == q.CorrectIdx {
				correctShown = true
				continue
			}
			d := idx - q.CorrectIdx
			if d < 0 {
				d = -d
			}
			// A distractor inside the tolerance would grade as correct too.
			if d <= q.Tolerance {
				t.Errorf("seed %d: distractor %d within tolerance of %d", seed, idx, q.CorrectIdx)
			}
		}
		if !correctShown {
			t.Errorf("seed %d: correct index %d missing from options", seed, q.CorrectIdx)
		}
	}
}

func TestPatternTargetQuestionSkippedAtTarget(t *testing.T) {
	e := newTestEngine(1)
	p := &patterns.Pattern{
		Type:        patterns.HeadAndShoulders,
		Signal:      patterns.SignalBearish,
		TargetPrice: 100,
		Description: "bearish reversal",
	}

	// The series already sits at the measured target, so every return
	// multiple would format to the same string.
	c := &Challenge{MarketData: []models.Candle{{Close: 100}}}
	e.patternQuestions(c, p)

	if len(c.Questions) != 2 {
		t.Fatalf("got %d questions, want identification and signal only", len(c.Questions))
	}
	for _, q := range c.Questions {
		if q.Prompt == "What is the expected target return of this pattern?" {
			t.Error("target return question asked with no measurable move left")
		}
	}
}

func TestPatternTargetQuestionDistinctOptions(t *testing.T) {
	e := newTestEngine(1)
	p := &patterns.Pattern{
		Type:        patterns.HeadAndShoulders,
		Signal:      patterns.SignalBearish,
		TargetPrice: 80,
		Description: "bearish reversal",
	}
	c := &Challenge{MarketData: []models.Candle{{Close: 100}}}
	e.patternQuestions(c, p)

	if len(c.Questions) != 3 {
		t.Fatalf("got %d questions, want 3", len(c.Questions))
	}
	q := c.Questions[2]
	if q.CorrectText != "-20.0%" {
		t.Errorf("correct target return = %q, want -20.0%%", q.CorrectText)
	}
	seen := map[string]bool{}
	for _, opt := range q.Options {
		if seen[opt] {
			t.Errorf("duplicate target option %q", opt)
		}
		seen[opt] = true
	}
	if len(seen) != 4 {
		t.Errorf("got %d distinct options, want 4", len(seen))
	}
}
