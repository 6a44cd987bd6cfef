package patterns

// EvaluationResult summarizes recognition quality against a labeled
// ground truth set.
type EvaluationResult struct {
	Precision      float64
	Recall         float64
	F1Score        float64
	TruePositives  int
	FalsePositives int
	FalseNegatives int
}

// AccuracyEvaluator scores recognized patterns against known actual
// patterns.
type AccuracyEvaluator struct {
	// minConfidence excludes weak detections and weak labels from
	// matching.
	minConfidence float64
}

// NewAccuracyEvaluator creates an evaluator with the default
// confidence floor.
func NewAccuracyEvaluator() *AccuracyEvaluator {
	return &AccuracyEvaluator{minConfidence: 0.6}
}

// Evaluate computes precision, recall, and F1 for the recognized set
// against the actual set. Each actual pattern matches at most one
// recognized pattern.
func (e *AccuracyEvaluator) Evaluate(recognized, actual []*Pattern) EvaluationResult {
	if len(actual) == 0 {
		return EvaluationResult{FalsePositives: len(recognized)}
	}

	result := EvaluationResult{FalseNegatives: len(actual)}
	matched := make([]bool, len(actual))

	for _, rec := range recognized {
		found := false
		for i, act := range actual {
			if matched[i] {
				continue
			}
			if e.patternsMatch(rec, act) {
				result.TruePositives++
				result.FalseNegatives--
				matched[i] = true
				found = true
				break
			}
		}
		if !found {
			result.FalsePositives++
		}
	}

	if tp := result.TruePositives; tp+result.FalsePositives > 0 {
		result.Precision = float64(tp) / float64(tp+result.FalsePositives)
	}
	if tp := result.TruePositives; tp+result.FalseNegatives > 0 {
		result.Recall = float64(tp) / float64(tp+result.FalseNegatives)
	}
	if result.Precision+result.Recall > 0 {
		result.F1Score = 2 * result.Precision * result.Recall / (result.Precision + result.Recall)
	}
	return result
}

// patternsMatch reports whether two patterns describe the same
// formation: same type, overlapping time range, and both confident.
func (e *AccuracyEvaluator) patternsMatch(a, b *Pattern) bool {
	if a.Type != b.Type {
		return false
	}
	if a.EndTime.Before(b.StartTime) || b.EndTime.Before(a.StartTime) {
		return false
	}
	return a.Confidence >= e.minConfidence && b.Confidence >= e.minConfidence
}
