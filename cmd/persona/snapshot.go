package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/marlowe-io/persona/internal/cli"
	"github.com/marlowe-io/persona/internal/common"
	"github.com/marlowe-io/persona/internal/model"
	"github.com/marlowe-io/persona/internal/view"
)

func snapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Persist and inspect classification runs",
	}

	cmd.AddCommand(snapshotSaveCmd())
	cmd.AddCommand(snapshotListCmd())
	cmd.AddCommand(snapshotShowCmd())

	return cmd
}

func snapshotShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <run-id>",
		Short: "Show a persisted run's persona breakdown",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			runID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid run id %q", args[0])
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := store.Close(); closeErr != nil {
					slog.Error("Failed to close database", "error", closeErr)
				}
			}()

			run, err := store.GetRun(ctx, runID)
			if err != nil {
				if errors.Is(err, common.ErrNotFound) {
					return common.NewUserError(
						fmt.Sprintf("Run %d does not exist. Use 'persona snapshot list' to see saved runs", runID), err)
				}
				return err
			}
			records, err := store.GetRunRecords(ctx, runID)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "run %d  %s  saved %s\n", run.ID, run.Source,
				run.CreatedAt.Format("2006-01-02 15:04:05"))
			fmt.Fprintln(out, cli.RenderThresholds(model.Thresholds{Q75: run.Q75, Median: run.Median}))
			fmt.Fprintln(out, cli.RenderKPIs(view.ComputeKPIs(records)))
			fmt.Fprintln(out)
			fmt.Fprint(out, cli.RenderDistribution(view.Distribution(records)))
			return nil
		},
	}
}

func snapshotSaveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "save",
		Short: "Classify the dataset and persist the run",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			_, result, err := runPipeline(ctx)
			if err != nil {
				return err
			}

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := store.Close(); closeErr != nil {
					slog.Error("Failed to close database", "error", closeErr)
				}
			}()

			bar := progressbar.Default(int64(len(result.Records)), "saving")
			runID, err := store.SaveRun(ctx, result.Source, result.Records, result.Thresholds,
				func(_, _ int) { _ = bar.Add(1) })
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(),
				cli.SuccessStyle.Render(fmt.Sprintf("Saved run %d (%d records)", runID, len(result.Records))))
			return nil
		},
	}
}

func snapshotListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List persisted classification runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := initStorage(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if closeErr := store.Close(); closeErr != nil {
					slog.Error("Failed to close database", "error", closeErr)
				}
			}()

			runs, err := store.ListRuns(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(runs) == 0 {
				fmt.Fprintln(out, cli.WarningStyle.Render("No runs saved yet"))
				return nil
			}

			for _, run := range runs {
				fmt.Fprintf(out, "run %d  %s  %d rows  q75 %.4f  median %.4f  (%s)\n",
					run.ID, run.Source, run.RowCount, run.Q75, run.Median,
					run.CreatedAt.Format("2006-01-02 15:04:05"))
				for _, p := range model.AllPersonas() {
					if run.Counts[p] == 0 {
						continue
					}
					fmt.Fprintf(out, "  %s\n",
						cli.PersonaStyle(p).Render(fmt.Sprintf("%-30s %d", p, run.Counts[p])))
				}
			}
			return nil
		},
	}
}
