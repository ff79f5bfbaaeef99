package render

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/ntc490/seating-charter/internal/seating"
)

const minColumnWidth = 20

// TextRenderer prints a chart the way the classic console tool does:
// banner, bordered grid, orientation footer and a summary line.
type TextRenderer struct{}

// NewTextRenderer builds a text renderer.
func NewTextRenderer() *TextRenderer {
	return &TextRenderer{}
}

// RenderString renders the chart into a string.
func (r *TextRenderer) RenderString(chart *seating.Chart) string {
	var sb strings.Builder
	_ = r.Render(&sb, chart)
	return sb.String()
}

// Render writes the chart to w.
func (r *TextRenderer) Render(w io.Writer, chart *seating.Chart) error {
	layout := chart.Layout()
	colWidth := columnWidth(chart)
	lineWidth := (colWidth+1)*layout.Columns + 1

	divider := strings.Repeat("=", lineWidth)
	rowDivider := strings.Repeat("-", lineWidth)

	lines := []string{
		"",
		divider,
		center("FRONT OF CLASSROOM", lineWidth),
		divider,
	}

	for row := 0; row < layout.Rows; row++ {
		var sb strings.Builder
		sb.WriteString("|")
		for col := 0; col < layout.Columns; col++ {
			p := seating.Position{Row: row, Col: col}
			sb.WriteString(" ")
			sb.WriteString(center(deskLabel(chart, p, colWidth), colWidth-1))
			sb.WriteString("|")
		}
		lines = append(lines, sb.String(), rowDivider)
	}

	lines = append(lines,
		center("BACK OF CLASSROOM", lineWidth),
		divider,
		"",
		"Left side ← → Right side",
		"",
		fmt.Sprintf("Students: %d | Desks: %d/%d occupied",
			chart.PlacedStudents(), chart.OccupiedDesks(), layout.OpenDesks()),
	)

	_, err := io.WriteString(w, strings.Join(lines, "\n")+"\n")
	return err
}

// deskLabel formats one desk cell, truncating long occupant lists.
func deskLabel(chart *seating.Chart, p seating.Position, colWidth int) string {
	if chart.Layout().IsBlocked(p) {
		return "[X]"
	}
	occupants := chart.Occupants(p)
	if len(occupants) == 0 {
		return "[empty]"
	}
	label := strings.Join(occupants, ", ")
	if utf8.RuneCountInString(label) > colWidth-2 {
		runes := []rune(label)
		label = string(runes[:colWidth-5]) + "..."
	}
	return label
}

// columnWidth sizes cells to fit up to three comma-joined names of the
// longest occupant, with a floor for small classrooms.
func columnWidth(chart *seating.Chart) int {
	longest := 5
	layout := chart.Layout()
	for _, p := range layout.Positions() {
		for _, name := range chart.Occupants(p) {
			if n := utf8.RuneCountInString(name); n > longest {
				longest = n
			}
		}
	}
	width := longest*3 + 6
	if width < minColumnWidth {
		return minColumnWidth
	}
	return width
}

func center(s string, width int) string {
	n := utf8.RuneCountInString(s)
	if n >= width {
		return s
	}
	left := (width - n) / 2
	right := width - n - left
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
}
