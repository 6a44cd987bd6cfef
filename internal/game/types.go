// Package game implements the pattern trading game engine: challenge
// creation, answer grading, player progression and recommendations.
package game

import (
	"time"

	"walkrisk-engine/internal/models"
	"walkrisk-engine/internal/patterns"
)

// GameMode identifies the kind of skill a challenge exercises.
type GameMode string

const (
	ModePatternRecognition  GameMode = "PATTERN_RECOGNITION"
	ModePatternPrediction   GameMode = "PATTERN_PREDICTION"
	ModeIndicatorAnalysis   GameMode = "INDICATOR_ANALYSIS"
	ModeDivergenceDetection GameMode = "DIVERGENCE_DETECTION"
	ModeSignalTiming        GameMode = "SIGNAL_TIMING"
	ModeRiskAssessment      GameMode = "RISK_ASSESSMENT"
	ModePortfolioSimulation GameMode = "PORTFOLIO_SIMULATION"
)

// ChallengeType identifies the answer format of a challenge.
type ChallengeType string

const (
	TypeMultipleChoice ChallengeType = "MULTIPLE_CHOICE"
	TypeTrueFalse      ChallengeType = "TRUE_FALSE"
	TypeDragDrop       ChallengeType = "DRAG_DROP"
	TypeDrawing        ChallengeType = "DRAWING"
	TypeTiming         ChallengeType = "TIMING"
	TypeAnalysis       ChallengeType = "ANALYSIS"
)

// Difficulty controls noise, clarity, time limits and score multipliers.
type Difficulty string

const (
	Beginner     Difficulty = "BEGINNER"
	Intermediate Difficulty = "INTERMEDIATE"
	Advanced     Difficulty = "ADVANCED"
	Expert       Difficulty = "EXPERT"
)

// Strategy tables keyed by difficulty. Unknown difficulties fall back to
// the beginner row.

var noiseLevels = map[Difficulty]float64{
	Beginner:     0.01,
	Intermediate: 0.02,
	Advanced:     0.03,
	Expert:       0.04,
}

var clarityLevels = map[Difficulty]float64{
	Beginner:     0.9,
	Intermediate: 0.7,
	Advanced:     0.5,
	Expert:       0.3,
}

var timeLimits = map[Difficulty]int{
	Beginner:     600,
	Intermediate: 480,
	Advanced:     360,
	Expert:       300,
}

var difficultyLevels = map[Difficulty]float64{
	Beginner:     0.2,
	Intermediate: 0.5,
	Advanced:     0.7,
	Expert:       0.9,
}

var scoreMultipliers = map[Difficulty]float64{
	Beginner:     1.0,
	Intermediate: 1.2,
	Advanced:     1.5,
	Expert:       2.0,
}

// NoiseLevel returns the market noise amplitude applied to challenge data.
func (d Difficulty) NoiseLevel() float64 {
	if v, ok := noiseLevels[d]; ok {
		return v
	}
	return noiseLevels[Beginner]
}

// Clarity returns how cleanly the target pattern is rendered, in [0, 1].
func (d Difficulty) Clarity() float64 {
	if v, ok := clarityLevels[d]; ok {
		return v
	}
	return clarityLevels[Beginner]
}

// TimeLimit returns the base answer window in seconds.
func (d Difficulty) TimeLimit() int {
	if v, ok := timeLimits[d]; ok {
		return v
	}
	return timeLimits[Beginner]
}

// Level returns the difficulty as a fraction in [0, 1] for generators.
func (d Difficulty) Level() float64 {
	if v, ok := difficultyLevels[d]; ok {
		return v
	}
	return difficultyLevels[Beginner]
}

// Multiplier returns the score multiplier applied to final scores.
func (d Difficulty) Multiplier() float64 {
	if v, ok := scoreMultipliers[d]; ok {
		return v
	}
	return scoreMultipliers[Beginner]
}

// AnswerKind selects the comparison strategy used when grading a question.
type AnswerKind string

const (
	// KindText compares answers as trimmed, case-insensitive strings.
	KindText AnswerKind = "text"
	// KindIndex compares integer indices within a tolerance window.
	KindIndex AnswerKind = "index"
)

// Question is a single graded item within a challenge.
type Question struct {
	Prompt      string     `json:"prompt"`
	Options     []string   `json:"options,omitempty"`
	Kind        AnswerKind `json:"kind"`
	CorrectText string     `json:"-"`
	CorrectIdx  int        `json:"-"`
	// Tolerance is the accepted deviation for index answers.
	Tolerance   int    `json:"-"`
	Explanation string `json:"explanation,omitempty"`
}

// Answer is a player's response to one question.
type Answer struct {
	Text  string `json:"text,omitempty"`
	Index int    `json:"index,omitempty"`
}

// Challenge is a generated exercise a player can attempt once.
type Challenge struct {
	ID            string          `json:"id"`
	Mode          GameMode        `json:"mode"`
	Type          ChallengeType   `json:"type"`
	Difficulty    Difficulty      `json:"difficulty"`
	Title         string          `json:"title"`
	Description   string          `json:"description"`
	MarketData    []models.Candle `json:"market_data"`
	Questions     []Question      `json:"questions"`
	TimeLimit     int             `json:"time_limit"`
	Hints         []string        `json:"hints,omitempty"`
	Objectives    []string        `json:"learning_objectives,omitempty"`
	Prerequisites []string        `json:"prerequisite_knowledge,omitempty"`
	Tags          []string        `json:"tags,omitempty"`
	// EstimatedDuration is the expected solve time in seconds.
	EstimatedDuration int             `json:"estimated_duration"`
	TargetPattern     *patterns.Type  `json:"target_pattern,omitempty"`
	CreatedAt         time.Time       `json:"created_at"`
	Submitted         map[string]bool `json:"-"`
}

// ToMap renders the challenge for transport without the answer keys.
func (c *Challenge) ToMap() map[string]any {
	m := map[string]any{
		"id":                 c.ID,
		"mode":               string(c.Mode),
		"type":               string(c.Type),
		"difficulty":         string(c.Difficulty),
		"title":              c.Title,
		"description":        c.Description,
		"market_data":        c.MarketData,
		"time_limit":         c.TimeLimit,
		"estimated_duration": c.EstimatedDuration,
		"created_at":         c.CreatedAt,
	}
	qs := make([]map[string]any, 0, len(c.Questions))
	for _, q := range c.Questions {
		qs = append(qs, map[string]any{
			"prompt":  q.Prompt,
			"options": q.Options,
			"kind":    string(q.Kind),
		})
	}
	m["questions"] = qs
	if len(c.Hints) > 0 {
		m["hints"] = c.Hints
	}
	if len(c.Objectives) > 0 {
		m["learning_objectives"] = c.Objectives
	}
	if len(c.Tags) > 0 {
		m["tags"] = c.Tags
	}
	if c.TargetPattern != nil {
		m["target_pattern"] = string(*c.TargetPattern)
	}
	return m
}

// Performance summarizes a graded attempt for feedback.
type Performance struct {
	Strengths   []string `json:"strengths"`
	Weaknesses  []string `json:"weaknesses"`
	Suggestions []string `json:"suggestions"`
}

// Rewards lists what a player earned for one attempt.
type Rewards struct {
	XP     int      `json:"xp"`
	Badges []string `json:"badges,omitempty"`
}

// Result records a graded submission.
type Result struct {
	ChallengeID  string      `json:"challenge_id"`
	PlayerID     string      `json:"player_id"`
	Mode         GameMode    `json:"mode"`
	Difficulty   Difficulty  `json:"difficulty"`
	Correct      int         `json:"correct"`
	Total        int         `json:"total"`
	Accuracy     float64     `json:"accuracy"`
	TimeTaken    float64     `json:"time_taken"`
	SpeedBonus   float64     `json:"speed_bonus"`
	FinalScore   float64     `json:"final_score"`
	Grade        string      `json:"grade"`
	Performance  Performance `json:"performance"`
	Rewards      Rewards     `json:"rewards"`
	NewBestScore bool        `json:"new_best_score"`
	SubmittedAt  time.Time   `json:"submitted_at"`
}

// ToMap renders the result for transport.
func (r *Result) ToMap() map[string]any {
	return map[string]any{
		"challenge_id":   r.ChallengeID,
		"player_id":      r.PlayerID,
		"mode":           string(r.Mode),
		"difficulty":     string(r.Difficulty),
		"correct":        r.Correct,
		"total":          r.Total,
		"accuracy":       r.Accuracy,
		"time_taken":     r.TimeTaken,
		"speed_bonus":    r.SpeedBonus,
		"final_score":    r.FinalScore,
		"grade":          r.Grade,
		"performance":    r.Performance,
		"rewards":        r.Rewards,
		"new_best_score": r.NewBestScore,
		"submitted_at":   r.SubmittedAt,
	}
}

// GradeFor maps a final score to a letter grade.
func GradeFor(score float64) string {
	switch {
	case score >= 90:
		return "S"
	case score >= 80:
		return "A"
	case score >= 70:
		return "B"
	case score >= 60:
		return "C"
	case score >= 50:
		return "D"
	default:
		return "F"
	}
}

// SpeedBonusFor returns the bonus points for finishing well under the limit.
func SpeedBonusFor(timeTaken float64, timeLimit int) float64 {
	if timeLimit <= 0 || timeTaken >= float64(timeLimit) {
		return 0
	}
	ratio := timeTaken / float64(timeLimit)
	switch {
	case ratio <= 0.5:
		return 10
	case ratio <= 0.7:
		return 5
	case ratio <= 0.8:
		return 2
	default:
		return 0
	}
}

// FinalScoreFor combines base score, accuracy, speed bonus and the
// difficulty multiplier, clamped to [0, 100].
func FinalScoreFor(baseScore, accuracy, speedBonus, multiplier float64) float64 {
	score := (baseScore*accuracy + speedBonus) * multiplier
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
