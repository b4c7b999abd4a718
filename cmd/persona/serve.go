package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/marlowe-io/persona/internal/dashboard"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the interactive dashboard",
		Long: `Classify the dataset and serve the dashboard over HTTP: KPI tiles,
a donut of persona share, a radar of averaged scores, and a risk
scatter. Filters arrive as query parameters and only re-run the cheap
filter stage.

When --watch is enabled the input file is monitored and the dataset is
reclassified on change.`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", ":8080", "listen address")
	cmd.Flags().Bool("watch", true, "reload when the input file changes")

	_ = viper.BindPFlag("dashboard.addr", cmd.Flags().Lookup("addr"))
	_ = viper.BindPFlag("dashboard.watch", cmd.Flags().Lookup("watch"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	pipeline, result, err := runPipeline(ctx)
	if err != nil {
		return err
	}

	if viper.GetBool("dashboard.watch") {
		go func() {
			watchErr := dashboard.WatchInput(ctx, pipeline, result.Source)
			if watchErr != nil && !errors.Is(watchErr, context.Canceled) {
				slog.Error("Watcher stopped", "error", watchErr)
			}
		}()
	}

	server := dashboard.NewServer(pipeline, result.Source, viper.GetString("dashboard.addr"))
	return server.ListenAndServe(ctx)
}
