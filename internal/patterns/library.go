package patterns

// FormationRules constrains how a pattern must form to count as valid.
// Only the fields relevant to a pattern type are set.
type FormationRules struct {
	MinDuration int
	MaxDuration int

	HeadProminence      float64 // head vs shoulders, head and shoulders
	ShoulderSymmetry    float64 // max shoulder height difference
	PeakSimilarity      float64 // max peak difference, double top
	ValleyDepth         float64 // min valley depth, double top
	ResistanceTolerance float64 // flat resistance tolerance, triangles
	MinTouches          int     // touches per line, triangles

	PoleMinMove     float64 // flags
	FlagDurationMin int
	FlagDurationMax int

	CupDepthMin    float64 // cup and handle
	CupDepthMax    float64
	HandleDepthMax float64

	VolumePattern string
}

// TradingRules describes the textbook trade setup for a pattern.
type TradingRules struct {
	Entry    string
	Target   string
	StopLoss string
}

// Definition is the educational and structural profile of a pattern.
type Definition struct {
	Name            string
	Description     string
	Signal          Signal
	Characteristics []string
	Formation       FormationRules
	Trading         TradingRules
	SuccessRate     float64
	CommonMistakes  []string
}

// Library holds pattern definitions for the recognizer and the game.
type Library struct {
	definitions map[Type]Definition
}

// NewLibrary builds the pattern definition catalog.
func NewLibrary() *Library {
	defs := map[Type]Definition{
		HeadAndShoulders: {
			Name:        "Head and Shoulders",
			Description: "Strong reversal signal at the end of an uptrend",
			Signal:      SignalBearish,
			Characteristics: []string{
				"Three consecutive peaks",
				"The middle peak (head) is the highest",
				"Both shoulders at similar heights",
				"Confirmed on a neckline break",
			},
			Formation: FormationRules{
				MinDuration:      20,
				MaxDuration:      200,
				HeadProminence:   1.05,
				ShoulderSymmetry: 0.1,
				VolumePattern:    "decreasing",
			},
			Trading: TradingRules{
				Entry:    "neckline_break",
				Target:   "neckline_minus_head_height",
				StopLoss: "above_right_shoulder",
			},
			SuccessRate: 0.75,
			CommonMistakes: []string{
				"Entering early on a false break",
				"Entering without volume confirmation",
				"Exiting before the target is reached",
			},
		},
		DoubleTop: {
			Name:        "Double Top",
			Description: "Reversal pattern at the end of an uptrend",
			Signal:      SignalBearish,
			Characteristics: []string{
				"Two peaks at similar heights",
				"A clear valley between them",
				"Volume fades into the second peak",
				"Confirmed when support breaks",
			},
			Formation: FormationRules{
				MinDuration:    15,
				MaxDuration:    150,
				PeakSimilarity: 0.03,
				ValleyDepth:    0.1,
				VolumePattern:  "second_peak_lower",
			},
			Trading: TradingRules{
				Entry:    "support_break",
				Target:   "support_minus_pattern_height",
				StopLoss: "above_second_peak",
			},
			SuccessRate: 0.65,
			CommonMistakes: []string{
				"Entering before the pattern completes",
				"Ignoring volume",
				"Setting an overambitious target",
			},
		},
		AscendingTriangle: {
			Name:        "Ascending Triangle",
			Description: "Bullish continuation pattern",
			Signal:      SignalBullish,
			Characteristics: []string{
				"Flat resistance with a rising support line",
				"Peaks at similar levels",
				"Troughs rising progressively",
				"Volume expands on the breakout",
			},
			Formation: FormationRules{
				MinDuration:         10,
				MaxDuration:         100,
				ResistanceTolerance: 0.02,
				MinTouches:          3,
			},
			Trading: TradingRules{
				Entry:    "resistance_breakout",
				Target:   "resistance_plus_pattern_height",
				StopLoss: "below_last_low",
			},
			SuccessRate: 0.70,
			CommonMistakes: []string{
				"Failing to distinguish false breakouts",
				"Entering without a volume surge",
				"Mismeasuring the pattern height",
			},
		},
		Flag: {
			Name:        "Flag",
			Description: "Continuation pattern: a sharp move, a brief pullback, then resumption",
			Signal:      SignalBullish,
			Characteristics: []string{
				"A sharp advance forming the pole",
				"A short shallow pullback",
				"Parallel trendlines around the pullback",
				"Volume dries up during the flag",
			},
			Formation: FormationRules{
				PoleMinMove:     0.15,
				FlagDurationMin: 3,
				FlagDurationMax: 20,
				VolumePattern:   "decreasing_in_flag",
			},
			Trading: TradingRules{
				Entry:    "flag_breakout",
				Target:   "pole_height_projection",
				StopLoss: "below_flag_low",
			},
			SuccessRate: 0.80,
			CommonMistakes: []string{
				"Mismeasuring the pole height",
				"Waiting too long through the consolidation",
				"Ignoring the volume pattern",
			},
		},
		CupAndHandle: {
			Name:        "Cup and Handle",
			Description: "Bullish continuation pattern with a rounded base and a small handle",
			Signal:      SignalBullish,
			Characteristics: []string{
				"A U-shaped corrective base",
				"A small handle on the right side of the cup",
				"Handle depth under a third of the cup depth",
				"Common in fundamentally strong names",
			},
			Formation: FormationRules{
				CupDepthMin:    0.15,
				CupDepthMax:    0.5,
				HandleDepthMax: 0.15,
				VolumePattern:  "dry_up_in_handle",
			},
			Trading: TradingRules{
				Entry:    "handle_breakout",
				Target:   "cup_depth_projection",
				StopLoss: "below_handle_low",
			},
			SuccessRate: 0.85,
			CommonMistakes: []string{
				"A handle that corrects too deep",
				"Entering without volume confirmation",
				"Ignoring fundamentals",
			},
		},
	}
	return &Library{definitions: defs}
}

// Definition returns the catalog entry for a pattern type.
func (l *Library) Definition(t Type) (Definition, bool) {
	d, ok := l.definitions[t]
	return d, ok
}

// Defined lists the pattern types with full definitions.
func (l *Library) Defined() []Type {
	var out []Type
	for _, t := range AllTypes() {
		if _, ok := l.definitions[t]; ok {
			out = append(out, t)
		}
	}
	return out
}

// PatternsBySignal lists defined patterns with the given signal.
func (l *Library) PatternsBySignal(signal Signal) []Type {
	var out []Type
	for _, t := range l.Defined() {
		if l.definitions[t].Signal == signal {
			out = append(out, t)
		}
	}
	return out
}

// MarketContext scales a pattern's base success rate to current
// conditions. Factors default to 1 (neutral) when zero.
type MarketContext struct {
	TrendStrength      float64
	VolumeConfirmation float64
	VolatilityLevel    float64
}

// AdjustedProbability computes the success probability of a pattern
// under the given market context, clamped to [0.1, 0.9].
func (l *Library) AdjustedProbability(t Type, ctx MarketContext) float64 {
	base := 0.5
	if d, ok := l.definitions[t]; ok {
		base = d.SuccessRate
	}

	trend := orOne(ctx.TrendStrength)
	volume := orOne(ctx.VolumeConfirmation)
	volatility := orOne(ctx.VolatilityLevel)

	p := base * trend * volume * volatility
	if p < 0.1 {
		return 0.1
	}
	if p > 0.9 {
		return 0.9
	}
	return p
}

func orOne(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}
