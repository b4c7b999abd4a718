// Package report exports a classified table to file formats an
// analyst can hand off: CSV and Excel.
package report

import (
	"fmt"
	"os"

	"github.com/xuri/excelize/v2"

	"github.com/marlowe-io/persona/internal/model"
	"github.com/marlowe-io/persona/internal/tabular"
	"github.com/marlowe-io/persona/internal/view"
)

// WriteCSV writes the full classified table, including every source
// column plus the derived ones, to path.
func WriteCSV(t *tabular.Table, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := t.WriteCSV(f); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// WriteXLSX writes the classified table plus a per-persona summary
// sheet to path.
func WriteXLSX(t *tabular.Table, records []model.Record, path string) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	const dataSheet = "Customers"
	if err := f.SetSheetName("Sheet1", dataSheet); err != nil {
		return fmt.Errorf("failed to name data sheet: %w", err)
	}

	for rowIdx, rec := range t.Records() {
		for colIdx, val := range rec {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			if err != nil {
				return fmt.Errorf("failed to address cell: %w", err)
			}
			if err := f.SetCellValue(dataSheet, cell, val); err != nil {
				return fmt.Errorf("failed to write cell %s: %w", cell, err)
			}
		}
	}

	if err := writeSummarySheet(f, records); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, records []model.Record) error {
	const sheet = "Personas"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}

	headers := []string{"Persona", "Customers", "Share %", "Avg Engagement", "Avg Persistence", "Avg Exposure"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("failed to address header cell: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}

	row := 2
	for _, share := range view.Distribution(records) {
		avg := view.PersonaAverages(records, share.Persona)
		values := []any{
			string(share.Persona),
			share.Count,
			share.Pct,
			avg.Engagement,
			avg.Persistence,
			avg.Exposure,
		}
		for i, v := range values {
			cell, err := excelize.CoordinatesToCellName(i+1, row)
			if err != nil {
				return fmt.Errorf("failed to address summary cell: %w", err)
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to write summary row: %w", err)
			}
		}
		row++
	}

	return nil
}
