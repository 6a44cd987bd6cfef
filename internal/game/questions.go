package game

import (
	"fmt"
	"math"

	"walkrisk-engine/internal/indicators"
	"walkrisk-engine/internal/models"
	"walkrisk-engine/internal/patterns"
)

// patternQuestions builds the identification, signal and target questions
// for a pattern recognition challenge.
func (e *Engine) patternQuestions(c *Challenge, p *patterns.Pattern) {
	others := make([]string, 0, len(patterns.AllTypes())-1)
	for _, t := range patterns.AllTypes() {
		if t != p.Type {
			others = append(others, string(t))
		}
	}
	e.rng.Shuffle(len(others), func(i, j int) { others[i], others[j] = others[j], others[i] })

	options := append([]string{string(p.Type)}, others[:3]...)
	e.rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })

	c.Questions = append(c.Questions, Question{
		Prompt:      "Which pattern is forming on the chart?",
		Options:     options,
		Kind:        KindText,
		CorrectText: string(p.Type),
		Explanation: fmt.Sprintf("This pattern shows the characteristics of %s.", p.Description),
	})

	var direction string
	switch p.Signal {
	case patterns.SignalBullish, patterns.SignalBreakoutUp:
		direction = "bullish"
	case patterns.SignalBearish, patterns.SignalBreakoutDown, patterns.SignalBreakdown:
		direction = "bearish"
	default:
		direction = "neutral"
	}
	c.Questions = append(c.Questions, Question{
		Prompt:      "What signal does this pattern indicate?",
		Options:     []string{"bullish", "bearish", "neutral"},
		Kind:        KindText,
		CorrectText: direction,
		Explanation: fmt.Sprintf("This pattern is generally read as a %s signal.", direction),
	})

	if p.TargetPrice > 0 && len(c.MarketData) > 0 {
		current := c.MarketData[len(c.MarketData)-1].Close
		change := (p.TargetPrice - current) / current * 100

		// The series may already have run to the measured target, which
		// would collapse the distractor multiples into one string.
		if math.Abs(change) < 1 {
			return
		}

		correct := fmt.Sprintf("%.1f%%", change)
		targetOptions := []string{
			correct,
			fmt.Sprintf("%.1f%%", change*0.5),
			fmt.Sprintf("%.1f%%", change*1.5),
			fmt.Sprintf("%.1f%%", change*2),
		}
		c.Questions = append(c.Questions, Question{
			Prompt:      "What is the expected target return of this pattern?",
			Options:     targetOptions,
			Kind:        KindText,
			CorrectText: correct,
			Explanation: "The target is measured from the height of the pattern.",
		})
	}
}

// indicatorQuestions builds interpretation questions for the computed
// indicators. Only RSI and MACD readings have question templates.
func (e *Engine) indicatorQuestions(c *Challenge, inds []*indicators.Indicator) {
	for _, ind := range inds {
		latest, ok := ind.LatestValue()
		if !ok {
			continue
		}

		switch ind.Type {
		case indicators.TypeRSI:
			rsi := latest.Value
			var correct string
			var options []string
			switch {
			case rsi >= 70:
				correct = "overbought"
				options = []string{"overbought", "oversold", "neutral", "strong uptrend"}
			case rsi <= 30:
				correct = "oversold"
				options = []string{"oversold", "overbought", "neutral", "weak downtrend"}
			default:
				correct = "neutral"
				options = []string{"neutral", "overbought", "oversold", "no trend"}
			}
			c.Questions = append(c.Questions, Question{
				Prompt:      fmt.Sprintf("What condition does the current RSI (%.1f) indicate?", rsi),
				Options:     options,
				Kind:        KindText,
				CorrectText: correct,
				Explanation: fmt.Sprintf("RSI %.1f is in the %s zone.", rsi, correct),
			})

		case indicators.TypeMACD:
			macdLine := latest.Components["macd"]
			signalLine := latest.Components["signal"]

			correct := "sell signal"
			options := []string{"sell signal", "buy signal", "wait", "neutral"}
			crossed := "below"
			if macdLine > signalLine {
				correct = "buy signal"
				options = []string{"buy signal", "sell signal", "wait", "neutral"}
				crossed = "above"
			}
			c.Questions = append(c.Questions, Question{
				Prompt:      "What is the current MACD signal?",
				Options:     options,
				Kind:        KindText,
				CorrectText: correct,
				Explanation: fmt.Sprintf("The MACD line is %s the signal line.", crossed),
			})
		}
	}
}

// timingQuestions finds local lows in the closes and asks the player to
// pick the best entry bar. Graded with a tolerance of two bars.
func (e *Engine) timingQuestions(c *Challenge, candles []models.Candle) {
	closes := models.Closes(candles)

	var buyPoints []int
	for i := 5; i < len(closes)-5; i++ {
		low := closes[i]
		isMin := true
		for j := i - 5; j <= i+5; j++ {
			if closes[j] < low {
				isMin = false
				break
			}
		}
		if isMin {
			buyPoints = append(buyPoints, i)
		}
	}
	if len(buyPoints) == 0 {
		return
	}

	correct := buyPoints[e.rng.Intn(len(buyPoints))]
	const tolerance = 2

	seen := map[int]bool{correct: true}
	options := []int{correct}
	for len(options) < 4 {
		idx := 10 + e.rng.Intn(len(closes)-20)
		d := idx - correct
		if d < 0 {
			d = -d
		}
		// A distractor inside the grading tolerance would also count
		// as correct.
		if seen[idx] || d <= tolerance {
			continue
		}
		seen[idx] = true
		options = append(options, idx)
	}
	e.rng.Shuffle(len(options), func(i, j int) { options[i], options[j] = options[j], options[i] })

	display := make([]string, len(options))
	for i, idx := range options {
		display[i] = fmt.Sprintf("%d", idx)
	}

	c.Questions = append(c.Questions, Question{
		Prompt:      "Which bar index on the chart is the best entry timing?",
		Options:     display,
		Kind:        KindIndex,
		CorrectIdx:  correct,
		Tolerance:   tolerance,
		Explanation: "The best timing weighs indicator signals together with the price action.",
	})
}

// divergenceQuestions asks whether a divergence exists and, when one does,
// what kind it is.
func (e *Engine) divergenceQuestions(c *Challenge, divs []indicators.Divergence) {
	if len(divs) == 0 {
		c.Questions = append(c.Questions, Question{
			Prompt:      "Is there a divergence between price and the indicator on this chart?",
			Options:     []string{"yes", "no"},
			Kind:        KindText,
			CorrectText: "no",
			Explanation: "No clear divergence pattern is present.",
		})
		return
	}

	c.Questions = append(c.Questions, Question{
		Prompt:      "Is there a divergence between price and the indicator on this chart?",
		Options:     []string{"yes", "no"},
		Kind:        KindText,
		CorrectText: "yes",
		Explanation: fmt.Sprintf("%d divergence pattern(s) were found.", len(divs)),
	})

	typeName := "bearish divergence"
	if divs[0].Type == indicators.DivergenceBullish {
		typeName = "bullish divergence"
	}
	c.Questions = append(c.Questions, Question{
		Prompt:      "What kind of divergence was found?",
		Options:     []string{"bullish divergence", "bearish divergence", "hidden divergence", "no divergence"},
		Kind:        KindText,
		CorrectText: typeName,
		Explanation: divs[0].Description,
	})
}
