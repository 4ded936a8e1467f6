package suite

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"enercheck/internal"
)

func ExportChecksToXLSX(rows []internal.CheckExportRow, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	headers := []string{"run_trace_id", "seq", "check", "status", "detail", "duration_ms"}
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

		set(1, row.RunTraceID)
		set(2, row.Seq)
		set(3, row.Name)
		set(4, row.Status)
		set(5, row.Detail)
		set(6, row.DurationMs)
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}
