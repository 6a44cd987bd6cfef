package patterns

import (
	"math"
	"testing"
	"time"
)

func evalPattern(t Type, start, end time.Time, confidence float64) *Pattern {
	return &Pattern{
		Type:       t,
		Confidence: confidence,
		StartTime:  start,
		EndTime:    end,
	}
}

func TestEvaluatePerfectMatch(t *testing.T) {
	e := NewAccuracyEvaluator()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	actual := []*Pattern{evalPattern(DoubleTop, base, base.AddDate(0, 0, 30), 0.9)}
	recognized := []*Pattern{evalPattern(DoubleTop, base.AddDate(0, 0, 5), base.AddDate(0, 0, 25), 0.8)}

	result := e.Evaluate(recognized, actual)
	if result.TruePositives != 1 || result.FalsePositives != 0 || result.FalseNegatives != 0 {
		t.Fatalf("counts = %+v", result)
	}
	if result.Precision != 1 || result.Recall != 1 || result.F1Score != 1 {
		t.Errorf("scores = %+v, want all 1", result)
	}
}

func TestEvaluateMixedSet(t *testing.T) {
	e := NewAccuracyEvaluator()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	actual := []*Pattern{
		evalPattern(DoubleTop, base, base.AddDate(0, 0, 20), 0.9),
		evalPattern(HeadAndShoulders, base.AddDate(0, 0, 30), base.AddDate(0, 0, 60), 0.9),
	}
	recognized := []*Pattern{
		// Matches the double top.
		evalPattern(DoubleTop, base.AddDate(0, 0, 2), base.AddDate(0, 0, 18), 0.7),
		// Wrong type for the second window.
		evalPattern(AscendingTriangle, base.AddDate(0, 0, 30), base.AddDate(0, 0, 60), 0.8),
	}

	result := e.Evaluate(recognized, actual)
	if result.TruePositives != 1 || result.FalsePositives != 1 || result.FalseNegatives != 1 {
		t.Fatalf("counts = %+v", result)
	}
	if result.Precision != 0.5 || result.Recall != 0.5 {
		t.Errorf("precision/recall = %f/%f, want 0.5/0.5", result.Precision, result.Recall)
	}
	if math.Abs(result.F1Score-0.5) > 1e-9 {
		t.Errorf("f1 = %f, want 0.5", result.F1Score)
	}
}

func TestEvaluateConfidenceFloor(t *testing.T) {
	e := NewAccuracyEvaluator()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	actual := []*Pattern{evalPattern(DoubleTop, base, base.AddDate(0, 0, 20), 0.9)}
	recognized := []*Pattern{evalPattern(DoubleTop, base, base.AddDate(0, 0, 20), 0.3)}

	result := e.Evaluate(recognized, actual)
	if result.TruePositives != 0 || result.FalsePositives != 1 {
		t.Errorf("weak detection should not match: %+v", result)
	}
}

func TestEvaluateNoOverlap(t *testing.T) {
	e := NewAccuracyEvaluator()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	actual := []*Pattern{evalPattern(DoubleTop, base, base.AddDate(0, 0, 10), 0.9)}
	recognized := []*Pattern{evalPattern(DoubleTop, base.AddDate(0, 0, 20), base.AddDate(0, 0, 30), 0.9)}

	result := e.Evaluate(recognized, actual)
	if result.TruePositives != 0 {
		t.Errorf("disjoint ranges should not match: %+v", result)
	}
}

func TestEvaluateEmptyActual(t *testing.T) {
	e := NewAccuracyEvaluator()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	result := e.Evaluate([]*Pattern{evalPattern(DoubleTop, base, base, 0.9)}, nil)
	if result.FalsePositives != 1 || result.Precision != 0 {
		t.Errorf("empty ground truth result = %+v", result)
	}
}
