// Package export serializes filtered record subsets for download. Field
// order matches generation order; rows are never reordered. CSV goes through
// encoding/csv, XLSX through excelize.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"agridash/internal/dataset/models"
)

// Table names, also the export file stems.
const (
	TableIVS        = "ivs"
	TableTreeCrops  = "treecrops"
	TableVegetables = "vegetables"
)

// Table is one export-ready table: a header row plus typed cells. Cells stay
// typed so XLSX columns come out numeric; CSV formatting happens at write
// time.
type Table struct {
	Name   string
	Header []string
	Rows   [][]any
}

// IVSTable shapes the irrigated valley rows, including the derived yield
// gain column the source dashboard computed into its frame.
func IVSTable(rows []models.IVSRecord) Table {
	t := Table{
		Name: TableIVS,
		Header: []string{
			"region", "year", "farmers_trained", "women_pct", "youth_pct",
			"hectares_developed", "yield_before_tpha", "yield_after_tpha",
			"yield_gain_pct",
		},
	}
	for _, rec := range rows {
		t.Rows = append(t.Rows, []any{
			rec.Region.String(), rec.Year, rec.FarmersTrained,
			rec.WomenPct, rec.YouthPct, rec.HectaresDeveloped,
			rec.YieldBefore, rec.YieldAfter, rec.YieldGainPct(),
		})
	}
	return t
}

// TreeCropTable shapes the tree-crop rows.
func TreeCropTable(rows []models.TreeCropRecord) Table {
	t := Table{
		Name: TableTreeCrops,
		Header: []string{
			"region", "year", "cocoa_seedlings", "oil_palm_seedlings",
			"total_seedlings", "survival_rate",
		},
	}
	for _, rec := range rows {
		t.Rows = append(t.Rows, []any{
			rec.Region.String(), rec.Year, rec.CocoaSeedlings,
			rec.OilPalmSeedlings, rec.TotalSeedlings(), rec.SurvivalRate,
		})
	}
	return t
}

// VegetableTable shapes the vegetable-technique rows.
func VegetableTable(rows []models.VegetableRecord) Table {
	t := Table{
		Name: TableVegetables,
		Header: []string{
			"region", "technique", "farmers_adopting",
			"dry_season_gain_pct", "wet_season_gain_pct",
		},
	}
	for _, rec := range rows {
		t.Rows = append(t.Rows, []any{
			rec.Region.String(), rec.Technique.String(),
			rec.FarmersAdopting, rec.DrySeasonGainPct, rec.WetSeasonGainPct,
		})
	}
	return t
}

// WriteCSV writes the table as delimited text, header first.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, row := range t.Rows {
		cells := make([]string, len(row))
		for i, cell := range row {
			cells[i] = formatCell(cell)
		}
		if err := cw.Write(cells); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the table as a single-sheet workbook named after the
// table. Cells keep their Go types so spreadsheets see real numbers.
func WriteXLSX(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := t.Name
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	header := make([]any, len(t.Header))
	for i, h := range t.Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write xlsx header: %w", err)
	}

	for i, row := range t.Rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		rowCopy := append([]any(nil), row...)
		if err := f.SetSheetRow(sheet, cell, &rowCopy); err != nil {
			return fmt.Errorf("write xlsx row: %w", err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

// formatCell renders one CSV cell. Floats keep two decimals, matching the
// precision the dashboard tiles display.
func formatCell(v any) string {
	switch cell := v.(type) {
	case string:
		return cell
	case int:
		return strconv.Itoa(cell)
	case float64:
		return strconv.FormatFloat(cell, 'f', 2, 64)
	default:
		return fmt.Sprintf("%v", cell)
	}
}
