package cli

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"walkrisk-engine/internal/config"
	"walkrisk-engine/internal/game"
	"walkrisk-engine/internal/logging"
)

// Version information
const (
	Version   = "0.1.0"
	BuildDate = "2025-06-01"
)

// App holds the application dependencies.
type App struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Engine     *game.Engine
	Challenges *game.MemoryStore
	Results    game.ResultStore
}

// NewRootCmd creates the root command for the CLI.
func NewRootCmd(cfg *config.Config, logger zerolog.Logger) *cobra.Command {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	app.Challenges = game.NewMemoryStore(cfg.Game.ChallengeTTL)

	switch cfg.Store.Backend {
	case "sqlite":
		results, err := game.NewSQLiteResultStore(cfg.Store.Path)
		if err != nil {
			logger.Warn().Err(err).Msg("Failed to open results database, falling back to memory")
			app.Results = game.NewMemoryResultStore(cfg.Game.HistoryCap)
		} else {
			app.Results = results
			logger.Debug().Str("path", cfg.Store.Path).Msg("SQLite result store initialized")
		}
	default:
		app.Results = game.NewMemoryResultStore(cfg.Game.HistoryCap)
	}

	app.Engine = game.NewEngineWith(app.Challenges, app.Results, logger, game.Options{
		Presets:   cfg.Generator.Presets(),
		BasePrice: cfg.Generator.BasePrice,
	})

	rootCmd := &cobra.Command{
		Use:   "walkrisk",
		Short: "Walk Risk - chart pattern trading game engine",
		Long: `Walk Risk is a gamified technical analysis trainer.

It generates synthetic chart challenges around patterns, indicators,
signal timing and divergences, grades submitted answers, and adapts
difficulty to each player's recent performance.

Use 'walkrisk help <command>' for more information about a command.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			debug, _ := cmd.Flags().GetBool("debug")
			if debug {
				logging.SetDebugLevel()
				app.Logger = app.Logger.Level(zerolog.DebugLevel)
			}
			return nil
		},
	}

	// Global flags
	rootCmd.PersistentFlags().String("config", "", "config directory (default: ~/.config/walkrisk)")
	rootCmd.PersistentFlags().Bool("json", false, "output in JSON format")
	rootCmd.PersistentFlags().Bool("debug", false, "enable debug logging")

	addCoreCommands(rootCmd, app)
	addServeCommand(rootCmd, app)
	addChallengeCommands(rootCmd, app)
	addPlayerCommands(rootCmd, app)

	return rootCmd
}

// addCoreCommands adds core utility commands.
func addCoreCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd(app))
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{
					"version":    Version,
					"build_date": BuildDate,
				})
			} else {
				output.Printf("Walk Risk Engine v%s\n", Version)
				output.Dim("Build date: %s", BuildDate)
			}
		},
	}
}

func newConfigCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration management",
		Long:  "View and manage application configuration.",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			return output.JSON(app.Config)
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration directory path",
		Run: func(cmd *cobra.Command, args []string) {
			output := NewOutput(cmd)
			if output.IsJSON() {
				output.JSON(map[string]string{"path": config.DefaultConfigDir()})
			} else {
				output.Println(config.DefaultConfigDir())
			}
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration files",
		RunE: func(cmd *cobra.Command, args []string) error {
			output := NewOutput(cmd)
			if err := app.Config.Validate(); err != nil {
				output.Error("Configuration validation failed: %v", err)
				return err
			}
			if output.IsJSON() {
				output.JSON(map[string]bool{"valid": true})
			} else {
				output.Success("Configuration is valid")
			}
			return nil
		},
	})

	return cmd
}
