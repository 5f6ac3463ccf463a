package pipeline

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/nachoviau/automatizacion-broker/internal"
)

// ExportRowsToXLSX writes the per-field review sheet for one document.
func ExportRowsToXLSX(rows []internal.FieldExportRow, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{
		"field_key", "tab", "raw_text", "value", "mapped_value",
		"status", "strategy", "plan_index",
	}

	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, h)
	}

	for i, row := range rows {
		r := i + 2
		set := func(col int, value any) {
			cell, _ := excelize.CoordinatesToCellName(col, r)
			_ = f.SetCellValue(sheet, cell, value)
		}

		set(1, row.FieldKey)
		set(2, row.Tab)
		set(3, derefString(row.RawText))
		set(4, derefString(row.Value))
		set(5, derefString(row.MappedValue))
		set(6, string(row.Status))
		set(7, string(row.Strategy))
		set(8, derefInt(row.PlanIndex))
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

func derefString(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}

func derefInt(v *int) any {
	if v == nil {
		return ""
	}
	return *v
}
