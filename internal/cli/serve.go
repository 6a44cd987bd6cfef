package cli

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"walkrisk-engine/internal/web"
)

// addServeCommand adds the HTTP server command.
func addServeCommand(rootCmd *cobra.Command, app *App) {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the challenge HTTP API",
		Long:  "Start the HTTP server exposing challenge creation, submission, player progression and statistics endpoints.",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app.Challenges.StartSweeper(ctx, app.Config.Game.SweepInterval)

			server := web.NewServer(app.Config.Web, app.Engine, app.Logger)

			errCh := make(chan error, 1)
			go func() {
				errCh <- server.ListenAndServe()
			}()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
				app.Logger.Info().Msg("Shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return server.Shutdown(shutdownCtx)
			}
		},
	}

	cmd.Flags().String("listen", "", "listen address (overrides config)")
	cmd.PreRun = func(cmd *cobra.Command, args []string) {
		if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
			app.Config.Web.Listen = listen
		}
	}

	rootCmd.AddCommand(cmd)
}
