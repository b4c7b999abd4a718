package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/marlowe-io/persona/internal/cli"
	"github.com/marlowe-io/persona/internal/report"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the classified dataset to a file",
		Long: `Classify the dataset and write it, including the derived score and
persona columns, to CSV or Excel. The Excel export adds a per-persona
summary sheet.

Examples:
  persona export --format csv --output personas.csv
  persona export --format xlsx --output personas.xlsx`,
		RunE: runExport,
	}

	cmd.Flags().String("format", "csv", "export format (csv, xlsx)")
	cmd.Flags().StringP("output", "o", "", "output path (required)")
	_ = cmd.MarkFlagRequired("output")

	_ = viper.BindPFlag("export.format", cmd.Flags().Lookup("format"))
	_ = viper.BindPFlag("export.output", cmd.Flags().Lookup("output"))

	return cmd
}

func runExport(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	format := viper.GetString("export.format")
	output := viper.GetString("export.output")

	_, result, err := runPipeline(ctx)
	if err != nil {
		return err
	}

	switch format {
	case "csv":
		err = report.WriteCSV(result.Table, output)
	case "xlsx":
		err = report.WriteXLSX(result.Table, result.Records, output)
	default:
		return fmt.Errorf("unknown export format %q (use csv or xlsx)", format)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(),
		cli.SuccessStyle.Render(fmt.Sprintf("Exported %d records to %s", len(result.Records), output)))
	return nil
}
