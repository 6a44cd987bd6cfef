package game

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func TestProperty_FinalScoreClamped(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	properties.Property("final score stays within [0, 100]", prop.ForAll(
		func(base, accuracy, bonus, multiplier float64) bool {
			score := FinalScoreFor(base, accuracy, bonus, multiplier)
			return score >= 0 && score <= 100
		},
		gen.Float64Range(-50, 200),
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 10),
		gen.Float64Range(0.5, 3),
	))

	properties.Property("higher accuracy never lowers the score", prop.ForAll(
		func(acc1, acc2, bonus float64) bool {
			lo, hi := acc1, acc2
			if lo > hi {
				lo, hi = hi, lo
			}
			return FinalScoreFor(100, lo, bonus, 1.0) <= FinalScoreFor(100, hi, bonus, 1.0)
		},
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 1),
		gen.Float64Range(0, 10),
	))

	properties.TestingRun(t)
}

func TestSpeedBonusTiers(t *testing.T) {
	cases := []struct {
		name      string
		timeTaken float64
		timeLimit int
		want      float64
	}{
		{"no limit", 100, 0, 0},
		{"over limit", 700, 600, 0},
		{"at limit", 600, 600, 0},
		{"half of limit", 300, 600, 10},
		{"under 70 percent", 400, 600, 5},
		{"under 80 percent", 475, 600, 2},
		{"just under limit", 580, 600, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SpeedBonusFor(tc.timeTaken, tc.timeLimit); got != tc.want {
				t.Errorf("SpeedBonusFor(%f, %d) = %f, want %f", tc.timeTaken, tc.timeLimit, got, tc.want)
			}
		})
	}
}

func TestGradeBands(t *testing.T) {
	cases := []struct {
		score float64
		want  string
	}{
		{100, "S"}, {90, "S"}, {89.9, "A"}, {80, "A"},
		{79.9, "B"}, {70, "B"}, {60, "C"}, {50, "D"}, {49.9, "F"}, {0, "F"},
	}
	for _, tc := range cases {
		if got := GradeFor(tc.score); got != tc.want {
			t.Errorf("GradeFor(%f) = %s, want %s", tc.score, got, tc.want)
		}
	}
}

func TestDifficultyTables(t *testing.T) {
	if Beginner.Multiplier() != 1.0 || Expert.Multiplier() != 2.0 {
		t.Error("multiplier table mismatch")
	}
	if Beginner.TimeLimit() != 600 || Expert.TimeLimit() != 300 {
		t.Error("time limit table mismatch")
	}
	if Advanced.NoiseLevel() != 0.03 {
		t.Error("noise table mismatch")
	}
	// Unknown difficulty falls back to the beginner row.
	if Difficulty("NIGHTMARE").Multiplier() != 1.0 {
		t.Error("unknown difficulty should use the beginner multiplier")
	}
}

func TestQuestionGrading(t *testing.T) {
	text := Question{Kind: KindText, CorrectText: "Bullish"}
	if !text.Grade(Answer{Text: "  bullish "}) {
		t.Error("text grading should be case-insensitive and trimmed")
	}
	if text.Grade(Answer{Text: "bearish"}) {
		t.Error("wrong text accepted")
	}

	timing := Question{Kind: KindIndex, CorrectIdx: 20, Tolerance: 2}
	if !timing.Grade(Answer{Index: 22}) {
		t.Error("index within tolerance rejected")
	}
	if timing.Grade(Answer{Index: 23}) {
		t.Error("index outside tolerance accepted")
	}
	if !timing.Grade(Answer{Text: "19"}) {
		t.Error("numeric text within tolerance rejected")
	}
}

func TestChallengeToMapHidesAnswers(t *testing.T) {
	c := &Challenge{
		ID:         "c1",
		Mode:       ModePatternRecognition,
		Type:       TypeMultipleChoice,
		Difficulty: Beginner,
		Questions: []Question{
			{Prompt: "p", Options: []string{"a", "b"}, Kind: KindText, CorrectText: "a"},
		},
		CreatedAt: time.Now(),
	}

	m := c.ToMap()
	questions, ok := m["questions"].([]map[string]any)
	if !ok || len(questions) != 1 {
		t.Fatalf("unexpected questions shape: %#v", m["questions"])
	}
	for key := range questions[0] {
		if key == "correct" || key == "correct_text" || key == "explanation" {
			t.Errorf("answer key leaked into transport map: %s", key)
		}
	}
}
