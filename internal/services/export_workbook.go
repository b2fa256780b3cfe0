package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

const exportSheetName = "Transactions"

var exportColumnWidths = []float64{12, 28, 14, 12, 16}

// BuildWorkbook renders entries as an XLSX sheet with a frozen, styled header
// row. Amounts are written as numbers so spreadsheet sums work.
func BuildWorkbook(entries []ExportEntry) ([]byte, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), exportSheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "bottom", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("create header style: %w", err)
	}

	for col, header := range ExportCSVHeaders {
		if err := setWorkbookCell(f, col+1, 1, header); err != nil {
			f.Close()
			return nil, err
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("column name: %w", err)
		}
		if err := f.SetColWidth(exportSheetName, name, name, exportColumnWidths[col]); err != nil {
			f.Close()
			return nil, fmt.Errorf("set column width: %w", err)
		}
	}
	if err := f.SetCellStyle(exportSheetName, "A1", "E1", headerStyle); err != nil {
		f.Close()
		return nil, fmt.Errorf("set header style: %w", err)
	}

	for rowIndex, entry := range entries {
		row := rowIndex + 2
		var amount any
		amount, _ = entry.Amount.Float64()
		if text, unreadable := entry.Amount.Unreadable(); unreadable {
			amount = text
		}
		values := []any{entry.Unit, entry.Tenant, entry.Date, string(entry.Status), amount}
		for col, value := range values {
			if err := setWorkbookCell(f, col+1, row, value); err != nil {
				f.Close()
				return nil, err
			}
		}
	}

	if err := f.SetPanes(exportSheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		f.Close()
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func setWorkbookCell(f *excelize.File, col int, row int, value any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("cell name: %w", err)
	}
	if err := f.SetCellValue(exportSheetName, cell, value); err != nil {
		return fmt.Errorf("set cell %s: %w", cell, err)
	}
	return nil
}
