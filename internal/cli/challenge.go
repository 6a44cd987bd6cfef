package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"walkrisk-engine/internal/game"
	"walkrisk-engine/internal/indicators"
	"walkrisk-engine/internal/patterns"
)

// addChallengeCommands adds challenge creation and submission commands.
func addChallengeCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "challenge",
		Short: "Create and play challenges",
	}

	cmd.AddCommand(newChallengeCreateCmd(app))
	cmd.AddCommand(newChallengeShowCmd(app))
	cmd.AddCommand(newChallengeSubmitCmd(app))
	rootCmd.AddCommand(cmd)
}

func newChallengeCreateCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a new challenge",
		Long: `Create a challenge for one of the supported game modes.

Modes: PATTERN_RECOGNITION, INDICATOR_ANALYSIS, SIGNAL_TIMING, DIVERGENCE_DETECTION`,
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			mode, _ := cmd.Flags().GetString("mode")
			difficulty, _ := cmd.Flags().GetString("difficulty")
			patternNames, _ := cmd.Flags().GetStringSlice("patterns")
			indicatorNames, _ := cmd.Flags().GetStringSlice("indicators")

			params := game.CreateParams{
				Difficulty: game.Difficulty(strings.ToUpper(difficulty)),
			}
			for _, p := range patternNames {
				params.Patterns = append(params.Patterns, patterns.Type(strings.ToUpper(p)))
			}
			for _, i := range indicatorNames {
				params.Indicators = append(params.Indicators, indicators.Type(strings.ToUpper(i)))
			}

			c, err := app.Engine.CreateChallenge(game.GameMode(strings.ToUpper(mode)), params)
			if err != nil {
				output.Error("Failed to create challenge: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(c.ToMap())
			}
			printChallenge(output, c)
			return nil
		},
	}

	cmd.Flags().String("mode", string(game.ModePatternRecognition), "game mode")
	cmd.Flags().String("difficulty", "", "difficulty (BEGINNER, INTERMEDIATE, ADVANCED, EXPERT)")
	cmd.Flags().StringSlice("patterns", nil, "candidate pattern types for pattern recognition")
	cmd.Flags().StringSlice("indicators", nil, "indicator types for indicator analysis")
	return cmd
}

func newChallengeShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <challenge-id>",
		Short: "Show a live challenge",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			c, err := app.Engine.GetChallenge(args[0])
			if err != nil {
				output.Error("%v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(c.ToMap())
			}
			printChallenge(output, c)
			return nil
		},
	}
}

func newChallengeSubmitCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submit <challenge-id>",
		Short: "Submit answers to a challenge",
		Long: `Submit answers to a challenge and print the graded result.

Answers are given in question order with --answer, repeated once per
question. Index questions accept the bar index as a number.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)

			player, _ := cmd.Flags().GetString("player")
			rawAnswers, _ := cmd.Flags().GetStringSlice("answer")
			timeTaken, _ := cmd.Flags().GetFloat64("time")

			answers := make([]game.Answer, len(rawAnswers))
			for i, a := range rawAnswers {
				answers[i] = game.Answer{Text: a}
			}

			result, err := app.Engine.SubmitAnswers(cmd.Context(), args[0], player, answers, timeTaken)
			if err != nil {
				output.Error("Submission failed: %v", err)
				return err
			}

			if output.IsJSON() {
				return output.JSON(result.ToMap())
			}
			printResult(output, result)
			return nil
		},
	}

	cmd.Flags().String("player", "local", "player identifier")
	cmd.Flags().StringSlice("answer", nil, "answer per question, in order")
	cmd.Flags().Float64("time", 0, "elapsed time in seconds")
	return cmd
}

func printChallenge(output *Output, c *game.Challenge) {
	output.Header("%s", c.Title)
	output.Println(c.Description)
	output.Dim("ID: %s", c.ID)
	output.Printf("Difficulty: %s  Time limit: %ds  Bars: %d\n",
		c.Difficulty, c.TimeLimit, len(c.MarketData))
	output.Println()
	for i, q := range c.Questions {
		output.Printf("%d. %s\n", i+1, q.Prompt)
		for _, opt := range q.Options {
			output.Printf("   - %s\n", opt)
		}
	}
}

func printResult(output *Output, r *game.Result) {
	output.Header("Result: %s", FormatGrade(r.Grade, r.FinalScore))
	output.Printf("Correct: %d/%d (%s)  Time: %s  Speed bonus: %.0f\n",
		r.Correct, r.Total, FormatPercent(r.Accuracy), FormatDuration(r.TimeTaken), r.SpeedBonus)
	output.Printf("XP earned: %d\n", r.Rewards.XP)
	for _, b := range r.Rewards.Badges {
		output.Success("Badge: %s", b)
	}
	for _, s := range r.Performance.Strengths {
		output.Info("+ %s", s)
	}
	for _, w := range r.Performance.Weaknesses {
		output.Warning("- %s", w)
	}
	for _, s := range r.Performance.Suggestions {
		output.Dim("> %s", s)
	}
}
