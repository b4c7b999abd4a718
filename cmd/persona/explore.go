package main

import (
	"github.com/spf13/cobra"

	"github.com/marlowe-io/persona/internal/tui"
)

func exploreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "explore",
		Short: "Explore the classified dataset interactively",
		Long: `Classify the dataset and open a terminal explorer: toggle personas
with 1-4, adjust the engagement range with [ ] { }, and scroll the
filtered records.`,
		RunE: runExplore,
	}
}

func runExplore(cmd *cobra.Command, _ []string) error {
	_, result, err := runPipeline(cmd.Context())
	if err != nil {
		return err
	}

	return tui.Run(result.Records)
}
