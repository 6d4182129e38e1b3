package export

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfMargin       = 10.0
	pdfLineHeight   = 5.0
	pdfMaxCellLines = 8
)

// PDFRenderer lays the table out on landscape A4 pages for printing a plan book.
// Long cells wrap inside their column and the header row repeats on every page.
type PDFRenderer struct{}

// NewPDFRenderer constructs a PDF renderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

func (r *PDFRenderer) Render(t Table) ([]byte, error) {
	if err := t.validate(); err != nil {
		return nil, fmt.Errorf("pdf: %w", err)
	}
	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(false, pdfMargin)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pageW, pageH := pdf.GetPageSize()
	widths := t.widths(pageW - 2*pdfMargin)

	header := func() {
		pdf.SetFont("Arial", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		for i, col := range t.Columns {
			pdf.CellFormat(widths[i], 7, tr(col.Header), "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
		pdf.SetFont("Arial", "", 8)
	}

	pdf.AddPage()
	if t.Title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, tr(t.Title), "", 1, "C", false, 0, "")
		pdf.Ln(2)
	}
	header()

	for _, row := range t.Rows {
		cells := make([][][]byte, len(row))
		lines := 1
		for i, value := range row {
			cells[i] = pdf.SplitLines([]byte(tr(value)), widths[i]-2)
			if len(cells[i]) > pdfMaxCellLines {
				cells[i] = cells[i][:pdfMaxCellLines]
			}
			lines = max(lines, len(cells[i]))
		}
		height := float64(lines) * pdfLineHeight

		if pdf.GetY()+height > pageH-pdfMargin {
			pdf.AddPage()
			header()
		}
		x, y := pdf.GetXY()
		for i := range row {
			pdf.Rect(x, y, widths[i], height, "D")
			for j, line := range cells[i] {
				pdf.SetXY(x+1, y+float64(j)*pdfLineHeight)
				pdf.CellFormat(widths[i]-2, pdfLineHeight, string(line), "", 0, "L", false, 0, "")
			}
			x += widths[i]
		}
		pdf.SetXY(pdfMargin, y+height)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
