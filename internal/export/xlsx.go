package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/MatrixRex/daamtrack/internal/chart"
)

const (
	sheetPrices = "Prices"
	sheetStats  = "Stats"
)

// WriteXLSX writes the dataset as a workbook with a Prices sheet (same
// grid as the CSV export) and a Stats sheet.
func WriteXLSX(w io.Writer, res chart.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetPrices); err != nil {
		return fmt.Errorf("rename prices sheet: %w", err)
	}

	if err := writePricesSheet(f, res); err != nil {
		return err
	}
	if err := writeStatsSheet(f, res); err != nil {
		return err
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writePricesSheet(f *excelize.File, res chart.Result) error {
	if err := setRow(f, sheetPrices, 1, toAny(header(res.Names))); err != nil {
		return err
	}

	for i, row := range res.Rows {
		cells := make([]any, 0, 1+2*len(res.Names))
		cells = append(cells, row.Key)
		for _, name := range res.Names {
			v := row.Value(name)
			cells = append(cells, cellValue(v.Actual), cellValue(v.Ext))
		}
		if err := setRow(f, sheetPrices, i+2, cells); err != nil {
			return err
		}
	}
	return nil
}

func writeStatsSheet(f *excelize.File, res chart.Result) error {
	if _, err := f.NewSheet(sheetStats); err != nil {
		return fmt.Errorf("create stats sheet: %w", err)
	}

	if err := setRow(f, sheetStats, 1, []any{"name", "color", "current", "min", "max", "change"}); err != nil {
		return err
	}
	for i, s := range res.Stats {
		cells := []any{s.Name, s.Color, s.Current, s.Min, s.Max, s.Change}
		if err := setRow(f, sheetStats, i+2, cells); err != nil {
			return err
		}
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, cells []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("cell name for row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
		return fmt.Errorf("set %s row %d: %w", sheet, row, err)
	}
	return nil
}

// cellValue maps an undefined chart value to an empty cell.
func cellValue(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func toAny(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}
