package seating

// Position identifies a desk by zero-indexed grid coordinates.
// Configuration surfaces are one-indexed; loaders convert before
// handing positions to this package.
type Position struct {
	Row int
	Col int
}

// CapacityRule bounds the occupancy of a single desk. Max limits the
// summed occupant weight; Min is advisory and never enforced.
type CapacityRule struct {
	Min int
	Max int
}

// Layout describes the classroom: grid dimensions, blocked desks and
// capacity rules. It is immutable once generation starts.
type Layout struct {
	Rows      int
	Columns   int
	Default   CapacityRule
	Blocked   []Position
	Overrides map[Position]CapacityRule
}

// Contains reports whether p lies inside the grid.
func (l Layout) Contains(p Position) bool {
	return p.Row >= 0 && p.Row < l.Rows && p.Col >= 0 && p.Col < l.Columns
}

// IsBlocked reports whether the desk at p is blocked.
func (l Layout) IsBlocked(p Position) bool {
	for _, b := range l.Blocked {
		if b == p {
			return true
		}
	}
	return false
}

// CapacityAt returns the effective capacity rule for the desk at p.
func (l Layout) CapacityAt(p Position) CapacityRule {
	if rule, ok := l.Overrides[p]; ok {
		return rule
	}
	return l.Default
}

// Positions returns every grid position in row-major order.
func (l Layout) Positions() []Position {
	positions := make([]Position, 0, l.Rows*l.Columns)
	for row := 0; row < l.Rows; row++ {
		for col := 0; col < l.Columns; col++ {
			positions = append(positions, Position{Row: row, Col: col})
		}
	}
	return positions
}

// Neighbors returns the in-grid desks sharing an edge with p. Diagonal
// desks are not neighbors and the grid does not wrap.
func (l Layout) Neighbors(p Position) []Position {
	candidates := [4]Position{
		{Row: p.Row - 1, Col: p.Col},
		{Row: p.Row + 1, Col: p.Col},
		{Row: p.Row, Col: p.Col - 1},
		{Row: p.Row, Col: p.Col + 1},
	}
	neighbors := make([]Position, 0, 4)
	for _, n := range candidates {
		if l.Contains(n) {
			neighbors = append(neighbors, n)
		}
	}
	return neighbors
}

// OpenDesks counts the desks available for seating.
func (l Layout) OpenDesks() int {
	open := 0
	for _, p := range l.Positions() {
		if !l.IsBlocked(p) {
			open++
		}
	}
	return open
}

// capacitySum totals the maximum occupancy weight across open desks.
func (l Layout) capacitySum() int {
	total := 0
	for _, p := range l.Positions() {
		if l.IsBlocked(p) {
			continue
		}
		total += l.CapacityAt(p).Max
	}
	return total
}
