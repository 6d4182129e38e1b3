package export

import "fmt"

// Column is one table column. Width is a relative weight; zero counts as 1.
type Column struct {
	Header string
	Width  float64
}

// Table is the tabular content shared by every renderer. Title heads the PDF
// page and names the XLSX sheet.
type Table struct {
	Title   string
	Columns []Column
	Rows    [][]string
}

// Renderer turns a table into a downloadable document.
type Renderer interface {
	Render(t Table) ([]byte, error)
}

// Headers returns the column headers in order.
func (t Table) Headers() []string {
	headers := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		headers[i] = col.Header
	}
	return headers
}

func (t Table) validate() error {
	if len(t.Columns) == 0 {
		return fmt.Errorf("table has no columns")
	}
	for i, row := range t.Rows {
		if len(row) != len(t.Columns) {
			return fmt.Errorf("row %d has %d cells, want %d", i, len(row), len(t.Columns))
		}
	}
	return nil
}

// widths spreads total across the columns by weight.
func (t Table) widths(total float64) []float64 {
	sum := 0.0
	weights := make([]float64, len(t.Columns))
	for i, col := range t.Columns {
		weights[i] = col.Width
		if weights[i] <= 0 {
			weights[i] = 1
		}
		sum += weights[i]
	}
	for i := range weights {
		weights[i] = total * weights[i] / sum
	}
	return weights
}
