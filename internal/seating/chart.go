package seating

// Chart is a seating assignment over a layout. During generation it is
// the working state of a single attempt; a successful attempt returns
// it as the finished chart.
type Chart struct {
	layout   Layout
	cells    [][][]string
	attempts int
}

// NewChart returns an empty chart for the layout.
func NewChart(layout Layout) *Chart {
	cells := make([][][]string, layout.Rows)
	for row := range cells {
		cells[row] = make([][]string, layout.Columns)
	}
	return &Chart{layout: layout, cells: cells}
}

// Restore rebuilds a chart from previously generated cell contents,
// for example when loading a saved chart. No legality checks run.
func Restore(layout Layout, cells [][][]string) *Chart {
	chart := NewChart(layout)
	for row := 0; row < layout.Rows && row < len(cells); row++ {
		for col := 0; col < layout.Columns && col < len(cells[row]); col++ {
			chart.cells[row][col] = append([]string(nil), cells[row][col]...)
		}
	}
	return chart
}

// Layout returns the layout the chart was generated for.
func (c *Chart) Layout() Layout {
	return c.layout
}

// Attempts reports how many generation attempts ran before this chart
// was produced.
func (c *Chart) Attempts() int {
	return c.attempts
}

// Occupants returns the students seated at p.
func (c *Chart) Occupants(p Position) []string {
	if !c.layout.Contains(p) {
		return nil
	}
	return c.cells[p.Row][p.Col]
}

// PositionOf locates a student on the chart.
func (c *Chart) PositionOf(student string) (Position, bool) {
	for _, p := range c.layout.Positions() {
		for _, name := range c.cells[p.Row][p.Col] {
			if name == student {
				return p, true
			}
		}
	}
	return Position{}, false
}

// PlacedStudents counts every seated student.
func (c *Chart) PlacedStudents() int {
	total := 0
	for _, row := range c.cells {
		for _, desk := range row {
			total += len(desk)
		}
	}
	return total
}

// OccupiedDesks counts desks holding at least one student.
func (c *Chart) OccupiedDesks() int {
	occupied := 0
	for _, row := range c.cells {
		for _, desk := range row {
			if len(desk) > 0 {
				occupied++
			}
		}
	}
	return occupied
}

// Underfilled lists occupied desks seating fewer students than their
// minimum capacity. Minimums are advisory; callers may warn, never
// fail.
func (c *Chart) Underfilled() []Position {
	var desks []Position
	for _, p := range c.layout.Positions() {
		if c.layout.IsBlocked(p) {
			continue
		}
		count := len(c.cells[p.Row][p.Col])
		if count > 0 && count < c.layout.CapacityAt(p).Min {
			desks = append(desks, p)
		}
	}
	return desks
}

// Cells exposes the raw seating as a rows × columns matrix of occupant
// lists, suitable for serialization.
func (c *Chart) Cells() [][][]string {
	cells := make([][][]string, len(c.cells))
	for row := range c.cells {
		cells[row] = make([][]string, len(c.cells[row]))
		for col := range c.cells[row] {
			cells[row][col] = append([]string(nil), c.cells[row][col]...)
		}
	}
	return cells
}

func (c *Chart) place(student string, p Position) {
	c.cells[p.Row][p.Col] = append(c.cells[p.Row][p.Col], student)
}
