package export

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

// PDFExporter renders datasets into a basic tabular PDF and floor
// plans into a one-page classroom drawing.
type PDFExporter struct{}

// NewPDFExporter constructs a PDF exporter.
func NewPDFExporter() *PDFExporter {
	return &PDFExporter{}
}

// Render creates a PDF document with an optional title and table body.
func (e *PDFExporter) Render(data Dataset, title string) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("pdf requires at least one header")
	}
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(10, 15, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
		pdf.Ln(5)
	}

	pdf.SetFont("Arial", "B", 10)
	colWidth := 190.0 / float64(len(data.Headers))
	for _, header := range data.Headers {
		pdf.CellFormat(colWidth, 8, header, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range data.Rows {
		for _, header := range data.Headers {
			value := row[header]
			pdf.CellFormat(colWidth, 7, value, "1", 0, "", false, 0, "")
		}
		pdf.Ln(-1)
	}

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// FloorPlan describes a grid of desks for spatial rendering.
type FloorPlan struct {
	Rows    int
	Columns int
	Cells   [][]FloorCell
}

// FloorCell is one desk on the plan.
type FloorCell struct {
	Blocked  bool
	Students []string
}

// RenderFloorPlan draws the classroom as a landscape grid: one box per
// desk, blocked desks shaded, occupant names stacked inside each box.
func (e *PDFExporter) RenderFloorPlan(plan FloorPlan, title string) ([]byte, error) {
	if plan.Rows < 1 || plan.Columns < 1 {
		return nil, fmt.Errorf("floor plan requires at least one desk")
	}

	pdf := gofpdf.New("L", "mm", "A4", "")
	pdf.SetMargins(10, 12, 10)
	pdf.AddPage()

	if title != "" {
		pdf.SetFont("Arial", "B", 14)
		pdf.CellFormat(0, 8, strings.ToUpper(title), "", 1, "C", false, 0, "")
	}
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(0, 6, "FRONT OF CLASSROOM", "", 1, "C", false, 0, "")
	pdf.Ln(2)

	pageWidth, pageHeight := pdf.GetPageSize()
	left, _, right, bottom := pdf.GetMargins()
	gridWidth := pageWidth - left - right
	gridHeight := pageHeight - pdf.GetY() - bottom - 8

	cellWidth := gridWidth / float64(plan.Columns)
	cellHeight := gridHeight / float64(plan.Rows)
	originY := pdf.GetY()

	for row := 0; row < plan.Rows; row++ {
		for col := 0; col < plan.Columns; col++ {
			x := left + float64(col)*cellWidth
			y := originY + float64(row)*cellHeight
			cell := FloorCell{}
			if row < len(plan.Cells) && col < len(plan.Cells[row]) {
				cell = plan.Cells[row][col]
			}

			if cell.Blocked {
				pdf.SetFillColor(210, 210, 210)
				pdf.Rect(x, y, cellWidth, cellHeight, "FD")
				pdf.SetFont("Arial", "B", 10)
				pdf.SetXY(x, y+cellHeight/2-3)
				pdf.CellFormat(cellWidth, 6, "X", "", 0, "C", false, 0, "")
				continue
			}

			pdf.Rect(x, y, cellWidth, cellHeight, "D")
			pdf.SetFont("Arial", "", 9)
			lineHeight := 4.5
			startY := y + cellHeight/2 - lineHeight*float64(len(cell.Students))/2
			for i, name := range cell.Students {
				pdf.SetXY(x+1, startY+float64(i)*lineHeight)
				pdf.CellFormat(cellWidth-2, lineHeight, name, "", 0, "C", false, 0, "")
			}
		}
	}

	pdf.SetXY(left, originY+float64(plan.Rows)*cellHeight+2)
	pdf.SetFont("Arial", "I", 9)
	pdf.CellFormat(0, 6, "BACK OF CLASSROOM", "", 1, "C", false, 0, "")

	buf := &bytes.Buffer{}
	if err := pdf.Output(buf); err != nil {
		return nil, fmt.Errorf("render floor plan pdf: %w", err)
	}
	return buf.Bytes(), nil
}
