package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marlowe-io/persona/internal/cli"
	"github.com/marlowe-io/persona/internal/model"
	"github.com/marlowe-io/persona/internal/view"
)

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify",
		Short: "Classify the dataset and print a persona summary",
		Long: `Load the customer dataset, derive the engagement, persistence and
financial-exposure scores, assign every customer to a persona, and
print the headline metrics.

Examples:
  persona classify                         # use data/processed_data.*
  persona classify --input customers.csv   # explicit dataset`,
		RunE: runClassify,
	}
}

func runClassify(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	_, result, err := runPipeline(ctx)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	kpis := view.ComputeKPIs(result.Records)

	fmt.Fprintln(out, cli.TitleStyle.Render("Customer Persona Summary"))
	fmt.Fprintln(out, cli.RenderKPIs(kpis))
	fmt.Fprintln(out)
	fmt.Fprint(out, cli.RenderDistribution(view.Distribution(result.Records)))
	fmt.Fprintln(out)
	for _, p := range model.AllPersonas() {
		avg := view.PersonaAverages(result.Records, p)
		if avg.Count == 0 {
			continue
		}
		fmt.Fprintln(out, cli.RenderAverages(avg))
	}
	fmt.Fprintln(out)
	fmt.Fprintln(out, cli.RenderThresholds(result.Thresholds))

	return nil
}
