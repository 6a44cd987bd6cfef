package cli

import (
	"github.com/spf13/cobra"
)

// addPlayerCommands adds player progression and statistics commands.
func addPlayerCommands(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "player",
		Short: "Player progression and recommendations",
	}
	cmd.AddCommand(newPlayerDifficultyCmd(app))
	cmd.AddCommand(newPlayerRecommendCmd(app))
	rootCmd.AddCommand(cmd)

	rootCmd.AddCommand(newStatsCmd(app))
}

func newPlayerDifficultyCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "difficulty <player-id>",
		Short: "Show a player's adaptive difficulty",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			difficulty, err := app.Engine.AdaptiveDifficulty(cmd.Context(), args[0])
			if err != nil {
				output.Error("%v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(map[string]string{"difficulty": string(difficulty)})
			}
			output.Printf("Adaptive difficulty for %s: %s\n", args[0], difficulty)
			return nil
		},
	}
}

func newPlayerRecommendCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "recommend <player-id>",
		Short: "Recommend challenges for a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			recs, err := app.Engine.RecommendedChallenges(cmd.Context(), args[0])
			if err != nil {
				output.Error("%v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(recs)
			}
			for _, r := range recs {
				line := r.Type
				if r.Pattern != "" {
					line += " (" + r.Pattern + ")"
				}
				output.Printf("%s  difficulty=%s  duration=%ds  value=%s\n",
					PadRight(line, 44), r.Difficulty, r.EstimatedDuration, r.LearningValue)
			}
			return nil
		},
	}
}

func newStatsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show challenge statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			stats, err := app.Engine.ChallengeStatistics(cmd.Context())
			if err != nil {
				output.Error("%v", err)
				return err
			}
			if output.IsJSON() {
				return output.JSON(stats)
			}
			output.Header("Challenge statistics")
			output.Printf("Total completed: %d\n", stats.TotalChallenges)
			if stats.TotalChallenges > 0 {
				output.Printf("Average score: %s  Average accuracy: %s  Completion rate: %s\n",
					FormatScore(stats.AverageScore),
					FormatPercent(stats.AverageAccuracy),
					FormatPercent(stats.CompletionRate))
				for difficulty, n := range stats.DifficultyDistribution {
					output.Dim("%s: %d", difficulty, n)
				}
			}
			return nil
		},
	}
}
