package game

import (
	"context"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"walkrisk-engine/internal/errors"
	"walkrisk-engine/internal/indicators"
	"walkrisk-engine/internal/logging"
	"walkrisk-engine/internal/patterns"
)

// Engine creates challenges, grades submissions and tracks player
// progression. Stores are injected so callers choose persistence.
type Engine struct {
	challenges ChallengeStore
	results    ResultStore

	patternLib *patterns.Library
	recognizer *patterns.Recognizer
	synthetic  *patterns.Generator
	indLib     *indicators.Library
	calculator *indicators.Calculator
	divergence *indicators.DivergenceDetector
	datagen    *MarketDataGenerator

	rng *rand.Rand
	log zerolog.Logger
}

// Options tunes engine construction. Zero values fall back to defaults.
type Options struct {
	Presets   patterns.GeneratorPresets
	BasePrice float64
	Seed      int64
}

// NewEngine wires an engine from injected stores and default components.
func NewEngine(challenges ChallengeStore, results ResultStore, log zerolog.Logger) *Engine {
	return NewEngineWith(challenges, results, log, Options{Presets: patterns.DefaultPresets()})
}

// NewEngineWith wires an engine with explicit generator presets and seed.
func NewEngineWith(challenges ChallengeStore, results ResultStore, log zerolog.Logger, opts Options) *Engine {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	patternLib := patterns.NewLibrary()
	return &Engine{
		challenges: challenges,
		results:    results,
		patternLib: patternLib,
		recognizer: patterns.NewRecognizer(patternLib, log),
		synthetic:  patterns.NewGenerator(opts.Presets, patternLib, rng),
		indLib:     indicators.NewLibrary(),
		calculator: indicators.NewCalculator(log),
		divergence: indicators.NewDivergenceDetector(),
		datagen:    NewMarketDataGeneratorWith(rng, opts.BasePrice),
		rng:        rng,
		log:        log,
	}
}

// challengeBuilder creates a challenge from transport-level parameters.
type challengeBuilder func(e *Engine, params CreateParams) (*Challenge, error)

// CreateParams carries the knobs a caller can set when requesting a
// challenge by mode.
type CreateParams struct {
	Difficulty Difficulty
	Patterns   []patterns.Type
	Indicators []indicators.Type
}

var builders = map[GameMode]challengeBuilder{
	ModePatternRecognition: func(e *Engine, p CreateParams) (*Challenge, error) {
		return e.CreatePatternRecognitionChallenge(p.Patterns, p.Difficulty)
	},
	ModeIndicatorAnalysis: func(e *Engine, p CreateParams) (*Challenge, error) {
		return e.CreateIndicatorAnalysisChallenge(p.Indicators, p.Difficulty)
	},
	ModeSignalTiming: func(e *Engine, p CreateParams) (*Challenge, error) {
		return e.CreateSignalTimingChallenge(p.Difficulty)
	},
	ModeDivergenceDetection: func(e *Engine, p CreateParams) (*Challenge, error) {
		return e.CreateDivergenceDetectionChallenge(p.Difficulty)
	},
}

// SupportedModes lists the game modes challenges can be created for.
func SupportedModes() []GameMode {
	modes := make([]GameMode, 0, len(builders))
	for mode := range builders {
		modes = append(modes, mode)
	}
	return modes
}

// CreateChallenge dispatches to the builder registered for the mode.
func (e *Engine) CreateChallenge(mode GameMode, params CreateParams) (*Challenge, error) {
	builder, ok := builders[mode]
	if !ok {
		return nil, errors.NewValidationError("mode", string(mode), "unsupported game mode")
	}
	return builder(e, params)
}

// CreatePatternRecognitionChallenge builds a challenge around one pattern
// drawn at random from patternTypes, rendered synthetically with noise
// scaled to the difficulty.
func (e *Engine) CreatePatternRecognitionChallenge(patternTypes []patterns.Type, difficulty Difficulty) (*Challenge, error) {
	if len(patternTypes) == 0 {
		patternTypes = []patterns.Type{
			patterns.HeadAndShoulders,
			patterns.DoubleTop,
			patterns.AscendingTriangle,
		}
	}
	if difficulty == "" {
		difficulty = Beginner
	}

	selected := patternTypes[e.rng.Intn(len(patternTypes))]

	candles, actual, err := e.synthetic.Generate(selected, difficulty.Level())
	if err != nil {
		return nil, errors.Wrapf(err, "generating %s challenge data", selected)
	}
	if noise := difficulty.NoiseLevel(); noise > 0 {
		candles = e.datagen.AddNoise(candles, noise)
	}

	target := selected
	c := &Challenge{
		ID:          uuid.New().String(),
		Mode:        ModePatternRecognition,
		Type:        TypeMultipleChoice,
		Difficulty:  difficulty,
		Title:       fmt.Sprintf("%s Pattern Recognition Challenge", displayName(string(selected))),
		Description: fmt.Sprintf("Find and analyze the %s pattern at %s difficulty.", displayName(string(selected)), difficulty),
		MarketData:  candles,
		TimeLimit:   difficulty.TimeLimit(),
		Objectives: []string{
			fmt.Sprintf("Understand the characteristics of the %s pattern", displayName(string(selected))),
			"Improve pattern identification on charts",
			"Interpret pattern-based trading signals",
		},
		Tags:              []string{"pattern", strings.ToLower(string(selected))},
		EstimatedDuration: 300,
		TargetPattern:     &target,
		CreatedAt:         time.Now(),
	}
	e.patternQuestions(c, actual)

	if err := e.challenges.Create(c); err != nil {
		return nil, errors.Wrap(err, "storing challenge")
	}
	logging.LogChallengeCreated(e.log, c.ID, string(c.Mode), string(difficulty), c.TimeLimit)
	return c, nil
}

// CreateIndicatorAnalysisChallenge builds a challenge over a random walk
// with the requested indicators computed on it. Indicator analysis gets
// twice the base time limit.
func (e *Engine) CreateIndicatorAnalysisChallenge(indicatorTypes []indicators.Type, difficulty Difficulty) (*Challenge, error) {
	if len(indicatorTypes) == 0 {
		indicatorTypes = []indicators.Type{indicators.TypeRSI, indicators.TypeMACD}
	}
	if difficulty == "" {
		difficulty = Beginner
	}

	candles := e.datagen.RandomWalk(60, 0.02)
	inds := e.calculator.CalculateAll(indicatorTypes, candles)

	c := &Challenge{
		ID:          uuid.New().String(),
		Mode:        ModeIndicatorAnalysis,
		Type:        TypeMultipleChoice,
		Difficulty:  difficulty,
		Title:       "Technical Indicator Analysis Challenge",
		Description: fmt.Sprintf("Analyze %d indicator(s) to find the trading signal.", len(indicatorTypes)),
		MarketData:  candles,
		TimeLimit:   difficulty.TimeLimit() * 2,
		Objectives: []string{
			"Improve technical indicator interpretation",
			"Judge the reliability of indicator signals",
			"Learn multi-indicator analysis",
		},
		Tags:              []string{"indicators"},
		EstimatedDuration: 300,
		CreatedAt:         time.Now(),
	}
	e.indicatorQuestions(c, inds)
	if len(c.Questions) == 0 {
		return nil, errors.NewDataError("indicators", "challenge creation", "no gradable indicator readings", nil)
	}

	if err := e.challenges.Create(c); err != nil {
		return nil, errors.Wrap(err, "storing challenge")
	}
	logging.LogChallengeCreated(e.log, c.ID, string(c.Mode), string(difficulty), c.TimeLimit)
	return c, nil
}

// CreateSignalTimingChallenge builds a timing challenge over trending data
// with two trend changes. Timing gets 1.5x the base time limit.
func (e *Engine) CreateSignalTimingChallenge(difficulty Difficulty) (*Challenge, error) {
	if difficulty == "" {
		difficulty = Intermediate
	}

	candles := e.datagen.Trending(40, 2)

	c := &Challenge{
		ID:          uuid.New().String(),
		Mode:        ModeSignalTiming,
		Type:        TypeTiming,
		Difficulty:  difficulty,
		Title:       "Signal Timing Challenge",
		Description: "Find the best entry and exit timing.",
		MarketData:  candles,
		TimeLimit:   difficulty.TimeLimit() * 3 / 2,
		Objectives: []string{
			"Judge optimal entry and exit timing",
			"Combine indicator signals",
			"Learn risk management timing",
		},
		Tags:              []string{"timing"},
		EstimatedDuration: 300,
		CreatedAt:         time.Now(),
	}
	e.timingQuestions(c, candles)
	if len(c.Questions) == 0 {
		return nil, errors.NewDataError("market data", "challenge creation", "no local lows found for timing question", nil)
	}

	if err := e.challenges.Create(c); err != nil {
		return nil, errors.Wrap(err, "storing challenge")
	}
	logging.LogChallengeCreated(e.log, c.ID, string(c.Mode), string(difficulty), c.TimeLimit)
	return c, nil
}

// CreateDivergenceDetectionChallenge builds an analysis challenge over a
// series engineered to diverge from RSI. Analysis gets twice the base
// time limit and defaults to advanced difficulty.
func (e *Engine) CreateDivergenceDetectionChallenge(difficulty Difficulty) (*Challenge, error) {
	if difficulty == "" {
		difficulty = Advanced
	}

	candles := e.datagen.Divergence(50)

	rsi, err := e.calculator.Calculate(indicators.TypeRSI, candles, nil)
	if err != nil {
		return nil, errors.Wrap(err, "computing RSI for divergence challenge")
	}
	divs := e.divergence.DetectWithIndicator(candles, rsi)

	c := &Challenge{
		ID:          uuid.New().String(),
		Mode:        ModeDivergenceDetection,
		Type:        TypeAnalysis,
		Difficulty:  difficulty,
		Title:       "Divergence Detection Challenge",
		Description: "Find divergences between price and the indicator to anticipate trend reversals.",
		MarketData:  candles,
		TimeLimit:   difficulty.TimeLimit() * 2,
		Objectives: []string{
			"Understand divergence patterns",
			"Detect trend reversal signals",
			"Practice advanced technical analysis",
		},
		Tags:              []string{"divergence", "rsi"},
		EstimatedDuration: 300,
		CreatedAt:         time.Now(),
	}
	e.divergenceQuestions(c, divs)

	if err := e.challenges.Create(c); err != nil {
		return nil, errors.Wrap(err, "storing challenge")
	}
	logging.LogChallengeCreated(e.log, c.ID, string(c.Mode), string(difficulty), c.TimeLimit)
	return c, nil
}

// GetChallenge returns a live challenge by ID.
func (e *Engine) GetChallenge(id string) (*Challenge, error) {
	return e.challenges.Get(id)
}

// SubmitAnswers grades a player's answers to a challenge. Each
// (challenge, player) pair can submit once.
func (e *Engine) SubmitAnswers(ctx context.Context, challengeID, playerID string, answers []Answer, timeTaken float64) (*Result, error) {
	c, err := e.challenges.Get(challengeID)
	if err != nil {
		return nil, err
	}
	if len(answers) != len(c.Questions) {
		return nil, errors.NewValidationError("answers", len(answers),
			fmt.Sprintf("expected %d answers", len(c.Questions)))
	}
	if err := e.challenges.MarkSubmitted(challengeID, playerID); err != nil {
		return nil, err
	}

	correct := 0
	for i, q := range c.Questions {
		if q.Grade(answers[i]) {
			correct++
		}
	}

	total := len(c.Questions)
	accuracy := 0.0
	if total > 0 {
		accuracy = float64(correct) / float64(total)
	}

	// Raw score is full marks; accuracy scales it inside FinalScoreFor.
	speedBonus := SpeedBonusFor(timeTaken, c.TimeLimit)
	finalScore := FinalScoreFor(100, accuracy, speedBonus, c.Difficulty.Multiplier())

	best, err := e.results.BestScore(ctx, playerID, c.Mode)
	if err != nil {
		return nil, errors.Wrap(err, "loading best score")
	}

	result := &Result{
		ChallengeID:  challengeID,
		PlayerID:     playerID,
		Mode:         c.Mode,
		Difficulty:   c.Difficulty,
		Correct:      correct,
		Total:        total,
		Accuracy:     accuracy,
		TimeTaken:    timeTaken,
		SpeedBonus:   speedBonus,
		FinalScore:   finalScore,
		Grade:        GradeFor(finalScore),
		Performance:  analyzePerformance(accuracy, speedBonus, c),
		Rewards:      calculateRewards(accuracy, speedBonus, finalScore, c.Difficulty),
		NewBestScore: finalScore > best,
		SubmittedAt:  time.Now(),
	}

	if err := e.results.SaveResult(ctx, result); err != nil {
		return nil, err
	}
	logging.LogSubmission(logging.WithPlayer(e.log, playerID), challengeID, playerID, finalScore, result.Grade)
	return result, nil
}

// Grade reports whether an answer is correct for this question's kind.
func (q Question) Grade(a Answer) bool {
	switch q.Kind {
	case KindIndex:
		diff := a.Index - q.CorrectIdx
		if diff < 0 {
			diff = -diff
		}
		// Accept numeric text too so clients can send either form.
		if a.Text != "" {
			if idx, err := strconv.Atoi(strings.TrimSpace(a.Text)); err == nil {
				d := idx - q.CorrectIdx
				if d < 0 {
					d = -d
				}
				return d <= q.Tolerance
			}
		}
		return diff <= q.Tolerance
	default:
		return strings.EqualFold(strings.TrimSpace(a.Text), strings.TrimSpace(q.CorrectText))
	}
}

func analyzePerformance(accuracy, speedBonus float64, c *Challenge) Performance {
	var p Performance

	if accuracy >= 0.8 {
		p.Strengths = append(p.Strengths, "Excellent pattern recognition")
	}
	if accuracy >= 0.9 {
		p.Strengths = append(p.Strengths, "Highly accurate analysis")
	}
	if speedBonus > 0 {
		p.Strengths = append(p.Strengths, "Quick decision making")
	}

	if accuracy < 0.6 {
		p.Weaknesses = append(p.Weaknesses, "Needs work on basic patterns")
	}
	if speedBonus == 0 && c.TimeLimit > 0 {
		p.Weaknesses = append(p.Weaknesses, "Decision speed needs improvement")
	}

	if c.Mode == ModePatternRecognition && accuracy < 0.7 {
		p.Suggestions = append(p.Suggestions,
			"Spend more time on chart pattern fundamentals",
			"Focus on the key features of each pattern")
	}
	if c.Mode == ModeIndicatorAnalysis && accuracy < 0.7 {
		p.Suggestions = append(p.Suggestions,
			"Review the basics of each technical indicator",
			"Study how indicators interact with each other")
	}
	return p
}

func calculateRewards(accuracy, speedBonus, finalScore float64, difficulty Difficulty) Rewards {
	xp := 50 + int(accuracy*50) + int((difficulty.Multiplier()-1)*30) + int(speedBonus)

	var badges []string
	if finalScore >= 95 {
		badges = append(badges, "완벽주의자")
	}
	if finalScore >= 90 {
		badges = append(badges, "패턴 마스터")
	}
	if speedBonus >= 10 {
		badges = append(badges, "빛의 속도")
	}
	if difficulty == Expert && finalScore >= 80 {
		badges = append(badges, "전문가")
	}
	return Rewards{XP: xp, Badges: badges}
}

// AdaptiveDifficulty picks a difficulty from the player's recent scores.
// Fewer than three recorded attempts keeps the player at beginner.
func (e *Engine) AdaptiveDifficulty(ctx context.Context, playerID string) (Difficulty, error) {
	history, err := e.results.RecentScores(ctx, playerID, 20)
	if err != nil {
		return "", errors.Wrap(err, "loading score history")
	}
	if len(history) < 3 {
		return Beginner, nil
	}

	recent := history
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	sum := 0.0
	for _, s := range recent {
		sum += s
	}
	avg := sum / float64(len(recent))

	switch {
	case avg >= 85:
		return Expert, nil
	case avg >= 75:
		return Advanced, nil
	case avg >= 65:
		return Intermediate, nil
	default:
		return Beginner, nil
	}
}

// Recommendation describes a suggested challenge for a player.
type Recommendation struct {
	Type              string   `json:"type"`
	Pattern           string   `json:"pattern,omitempty"`
	Indicators        []string `json:"indicators,omitempty"`
	Difficulty        string   `json:"difficulty"`
	EstimatedDuration int      `json:"estimated_duration"`
	LearningValue     string   `json:"learning_value"`
}

// RecommendedChallenges returns a challenge catalog tailored to the
// player's adaptive difficulty. Advanced modes unlock at advanced tiers.
func (e *Engine) RecommendedChallenges(ctx context.Context, playerID string) ([]Recommendation, error) {
	difficulty, err := e.AdaptiveDifficulty(ctx, playerID)
	if err != nil {
		return nil, err
	}

	var recs []Recommendation

	basicPatterns := []patterns.Type{
		patterns.HeadAndShoulders,
		patterns.DoubleTop,
		patterns.AscendingTriangle,
	}
	for _, p := range basicPatterns {
		recs = append(recs, Recommendation{
			Type:              "pattern_recognition",
			Pattern:           string(p),
			Difficulty:        string(difficulty),
			EstimatedDuration: 300,
			LearningValue:     "high",
		})
	}

	indicatorCombos := [][]indicators.Type{
		{indicators.TypeRSI},
		{indicators.TypeMACD},
		{indicators.TypeRSI, indicators.TypeMACD},
		{indicators.TypeBollingerBands, indicators.TypeRSI},
	}
	for _, combo := range indicatorCombos {
		names := make([]string, len(combo))
		for i, t := range combo {
			names[i] = string(t)
		}
		recs = append(recs, Recommendation{
			Type:              "indicator_analysis",
			Indicators:        names,
			Difficulty:        string(difficulty),
			EstimatedDuration: 400,
			LearningValue:     "medium",
		})
	}

	if difficulty == Advanced || difficulty == Expert {
		recs = append(recs,
			Recommendation{
				Type:              "divergence_detection",
				Difficulty:        string(difficulty),
				EstimatedDuration: 600,
				LearningValue:     "very_high",
			},
			Recommendation{
				Type:              "signal_timing",
				Difficulty:        string(difficulty),
				EstimatedDuration: 450,
				LearningValue:     "high",
			})
	}
	return recs, nil
}

// Statistics summarizes all completed challenges.
type Statistics struct {
	TotalChallenges        int                `json:"total_challenges"`
	AverageScore           float64            `json:"average_score"`
	AverageAccuracy        float64            `json:"average_accuracy"`
	CompletionRate         float64            `json:"completion_rate"`
	DifficultyDistribution map[string]int     `json:"difficulty_distribution"`
	PopularGameModes       map[string]int     `json:"popular_game_modes"`
}

// ChallengeStatistics aggregates results against the live challenge count.
func (e *Engine) ChallengeStatistics(ctx context.Context) (Statistics, error) {
	results, err := e.results.AllResults(ctx)
	if err != nil {
		return Statistics{}, errors.Wrap(err, "loading results")
	}

	stats := Statistics{
		TotalChallenges:        len(results),
		DifficultyDistribution: make(map[string]int),
		PopularGameModes:       make(map[string]int),
	}
	if len(results) == 0 {
		return stats, nil
	}

	var scoreSum, accSum float64
	for _, r := range results {
		scoreSum += r.FinalScore
		accSum += r.Accuracy
		stats.DifficultyDistribution[string(r.Difficulty)]++
		stats.PopularGameModes[string(r.Mode)]++
	}
	stats.AverageScore = scoreSum / float64(len(results))
	stats.AverageAccuracy = accSum / float64(len(results))

	if live := e.challenges.Len(); live > 0 {
		stats.CompletionRate = float64(len(results)) / float64(live)
	} else {
		stats.CompletionRate = 1.0
	}
	return stats, nil
}

// displayName turns SNAKE_CASE identifiers into title-cased prose.
func displayName(id string) string {
	words := strings.Split(strings.ToLower(id), "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
