package render

import (
	"fmt"
	"strings"

	"github.com/ntc490/seating-charter/internal/seating"
	"github.com/ntc490/seating-charter/pkg/export"
)

// ChartDataset flattens a chart into the tabular export format, one
// row per desk with one-indexed coordinates.
func ChartDataset(chart *seating.Chart) export.Dataset {
	layout := chart.Layout()
	rows := make([]map[string]string, 0, layout.Rows*layout.Columns)

	for _, p := range layout.Positions() {
		status := "Open"
		students := ""
		switch {
		case layout.IsBlocked(p):
			status = "Blocked"
		case len(chart.Occupants(p)) > 0:
			status = "Occupied"
			students = strings.Join(chart.Occupants(p), ", ")
		}
		rows = append(rows, map[string]string{
			"Row":      fmt.Sprintf("%d", p.Row+1),
			"Column":   fmt.Sprintf("%d", p.Col+1),
			"Status":   status,
			"Students": students,
			"Capacity": fmt.Sprintf("%d", layout.CapacityAt(p).Max),
		})
	}

	return export.Dataset{
		Headers: []string{"Row", "Column", "Status", "Students", "Capacity"},
		Rows:    rows,
	}
}

// FloorPlan converts a chart into the spatial structure the PDF
// exporter draws.
func FloorPlan(chart *seating.Chart) export.FloorPlan {
	layout := chart.Layout()
	cells := make([][]export.FloorCell, layout.Rows)
	for row := 0; row < layout.Rows; row++ {
		cells[row] = make([]export.FloorCell, layout.Columns)
		for col := 0; col < layout.Columns; col++ {
			p := seating.Position{Row: row, Col: col}
			cells[row][col] = export.FloorCell{
				Blocked:  layout.IsBlocked(p),
				Students: chart.Occupants(p),
			}
		}
	}
	return export.FloorPlan{
		Rows:    layout.Rows,
		Columns: layout.Columns,
		Cells:   cells,
	}
}
