package export

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	defaultSheet   = "Sheet1"
	xlsxUnitWidth  = 14.0
	maxSheetLength = 31
)

// XLSXRenderer writes the table to a single sheet with a bold, frozen and
// filterable header row.
type XLSXRenderer struct{}

// NewXLSXRenderer constructs an XLSX renderer.
func NewXLSXRenderer() *XLSXRenderer {
	return &XLSXRenderer{}
}

func (r *XLSXRenderer) Render(t Table) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("xlsx: %w", err)
	}
	sheet := sheetName(t.Title)

	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck

	if err := f.SetSheetName(defaultSheet, sheet); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	header := make([]interface{}, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col.Header
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, err
		}
		width := col.Width
		if width <= 0 {
			width = 1
		}
		if err := f.SetColWidth(sheet, name, name, width*xlsxUnitWidth); err != nil {
			return nil, fmt.Errorf("size column %s: %w", name, err)
		}
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("write xlsx header: %w", err)
	}

	for i, row := range t.Rows {
		values := make([]interface{}, len(row))
		for j, v := range row {
			values[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return nil, fmt.Errorf("write xlsx row %d: %w", i, err)
		}
	}

	lastHeader, err := excelize.CoordinatesToCellName(len(t.Columns), 1)
	if err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E6E6E6"}},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}
	if err := f.SetCellStyle(sheet, "A1", lastHeader, bold); err != nil {
		return nil, fmt.Errorf("style xlsx header: %w", err)
	}
	if err := f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, fmt.Errorf("freeze xlsx header: %w", err)
	}
	lastCell, err := excelize.CoordinatesToCellName(len(t.Columns), len(t.Rows)+1)
	if err != nil {
		return nil, err
	}
	if err := f.AutoFilter(sheet, "A1:"+lastCell, nil); err != nil {
		return nil, fmt.Errorf("filter xlsx header: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("render xlsx: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetName makes title usable as a worksheet name.
func sheetName(title string) string {
	name := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(title))
	if runes := []rune(name); len(runes) > maxSheetLength {
		name = string(runes[:maxSheetLength])
	}
	if name == "" {
		return defaultSheet
	}
	return name
}
