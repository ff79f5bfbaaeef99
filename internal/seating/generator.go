package seating

import (
	"fmt"
	"math/rand"
	"sort"
	"time"
)

// DefaultMaxAttempts bounds the retry loop when no budget is given.
const DefaultMaxAttempts = 1000

// Strategy selects how candidate desks are prioritised for each
// placement.
type Strategy string

const (
	// StrategyCluster fills partially occupied desks before opening
	// empty ones, producing grouped seating.
	StrategyCluster Strategy = "cluster"
	// StrategySpread orders desks by ascending occupancy so students
	// spread across the room before any desk fills.
	StrategySpread Strategy = "spread"
	// StrategySingle seats at most one student per desk.
	StrategySingle Strategy = "single"
)

// ParseStrategy maps user input onto a Strategy. Empty input selects
// the cluster default.
func ParseStrategy(raw string) (Strategy, error) {
	switch Strategy(raw) {
	case "":
		return StrategyCluster, nil
	case StrategyCluster, StrategySpread, StrategySingle:
		return Strategy(raw), nil
	default:
		return "", fmt.Errorf("unknown placement strategy %q", raw)
	}
}

// Options tune a Generator beyond its layout and roster.
type Options struct {
	Strategy    Strategy
	MaxAttempts int
}

// Generator places a roster onto a layout through randomized retries.
// A generator is safe to reuse; each Generate call owns its own
// working state.
type Generator struct {
	layout      Layout
	roster      Roster
	strategy    Strategy
	maxAttempts int

	open      []Position
	large     map[string]bool
	conflicts map[string]map[string]bool
}

// New validates the configuration and returns a ready generator.
// Validation covers exactly two conditions: the roster must fit the
// weight-adjusted total capacity, and every pinned row or column must
// lie inside the grid. Anything else (duplicate names, unknown names
// in constraints, an empty roster) passes through untouched.
func New(layout Layout, roster Roster, opts Options) (*Generator, error) {
	if layout.Rows < 1 || layout.Columns < 1 {
		return nil, configErrorf("classroom must have at least one row and one column")
	}

	strategy := opts.Strategy
	if strategy == "" {
		strategy = StrategyCluster
	}
	switch strategy {
	case StrategyCluster, StrategySpread, StrategySingle:
	default:
		return nil, configErrorf("unknown placement strategy %q", strategy)
	}

	maxAttempts := opts.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}

	large := roster.largeSet()
	largeSeated := 0
	for _, name := range roster.Students {
		if large[name] {
			largeSeated++
		}
	}
	capacity := layout.capacitySum() - largeSeated
	if len(roster.Students) > capacity {
		return nil, configErrorf("too many students (%d) for maximum desk capacity (%d)", len(roster.Students), capacity)
	}

	for name, row := range roster.PinnedRows {
		if row < 0 || row >= layout.Rows {
			return nil, configErrorf("row %d for student %s is out of bounds (1-%d)", row+1, name, layout.Rows)
		}
	}
	for name, col := range roster.PinnedColumns {
		if col < 0 || col >= layout.Columns {
			return nil, configErrorf("column %d for student %s is out of bounds (1-%d)", col+1, name, layout.Columns)
		}
	}

	open := make([]Position, 0, layout.Rows*layout.Columns)
	for _, p := range layout.Positions() {
		if !layout.IsBlocked(p) {
			open = append(open, p)
		}
	}

	return &Generator{
		layout:      layout,
		roster:      roster,
		strategy:    strategy,
		maxAttempts: maxAttempts,
		open:        open,
		large:       large,
		conflicts:   roster.conflictSets(),
	}, nil
}

// Layout returns the layout the generator was built for.
func (g *Generator) Layout() Layout {
	return g.layout
}

// Strategy returns the placement strategy in effect.
func (g *Generator) Strategy() Strategy {
	return g.strategy
}

// MaxAttempts returns the attempt budget in effect.
func (g *Generator) MaxAttempts() int {
	return g.maxAttempts
}

// Generate runs up to the configured number of independent placement
// attempts and returns the first complete chart. Attempts never
// backtrack: a student with no legal desk fails the whole attempt and
// the next attempt starts from an empty grid. Identical inputs and an
// identically seeded rng reproduce the identical outcome. A nil rng
// gets a time-based seed.
func (g *Generator) Generate(rng *rand.Rand) (*Chart, error) {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	for attempt := 1; attempt <= g.maxAttempts; attempt++ {
		chart, ok := g.attempt(rng)
		if ok {
			chart.attempts = attempt
			return chart, nil
		}
	}
	return nil, &ExhaustedError{Attempts: g.maxAttempts}
}

func (g *Generator) attempt(rng *rand.Rand) (*Chart, bool) {
	chart := NewChart(g.layout)

	order := append([]string(nil), g.roster.Students...)
	rng.Shuffle(len(order), func(i, j int) {
		order[i], order[j] = order[j], order[i]
	})

	for _, student := range order {
		placed := false
		for _, p := range g.candidates(chart, rng) {
			if g.IsLegal(chart, student, p) {
				chart.place(student, p)
				placed = true
				break
			}
		}
		if !placed {
			return nil, false
		}
	}
	return chart, true
}

// candidates returns assignable desks for the next placement, shuffled
// to break ties and then ordered by the strategy's priority key. The
// key is recomputed on every call because occupancy shifts with each
// placement.
func (g *Generator) candidates(chart *Chart, rng *rand.Rand) []Position {
	positions := make([]Position, 0, len(g.open))
	for _, p := range g.open {
		switch g.strategy {
		case StrategySingle:
			if len(chart.Occupants(p)) > 0 {
				continue
			}
		case StrategyCluster:
			if g.deskWeight(chart, p) >= g.layout.CapacityAt(p).Max {
				continue
			}
		}
		positions = append(positions, p)
	}

	rng.Shuffle(len(positions), func(i, j int) {
		positions[i], positions[j] = positions[j], positions[i]
	})

	switch g.strategy {
	case StrategyCluster:
		sort.SliceStable(positions, func(i, j int) bool {
			ti, tj := g.clusterTier(chart, positions[i]), g.clusterTier(chart, positions[j])
			if ti != tj {
				return ti < tj
			}
			return len(chart.Occupants(positions[i])) > len(chart.Occupants(positions[j]))
		})
	case StrategySpread:
		sort.SliceStable(positions, func(i, j int) bool {
			return len(chart.Occupants(positions[i])) < len(chart.Occupants(positions[j]))
		})
	}
	return positions
}

// clusterTier ranks desks for the cluster strategy: partially filled
// desks with spare capacity first, then empty desks. Full desks are
// filtered out before tiering.
func (g *Generator) clusterTier(chart *Chart, p Position) int {
	if len(chart.Occupants(p)) > 0 {
		return 0
	}
	return 1
}

// IsLegal reports whether seating student at p is allowed given the
// chart's current occupancy. It is a pure predicate: the chart is
// never modified. Checks run in order, pinned position first, then
// capacity, then same-desk and adjacent-desk exclusion groups.
func (g *Generator) IsLegal(chart *Chart, student string, p Position) bool {
	if !g.layout.Contains(p) || g.layout.IsBlocked(p) {
		return false
	}

	if row, ok := g.roster.PinnedRows[student]; ok && row != p.Row {
		return false
	}
	if col, ok := g.roster.PinnedColumns[student]; ok && col != p.Col {
		return false
	}

	if g.deskWeight(chart, p)+g.weightOf(student) > g.layout.CapacityAt(p).Max {
		return false
	}

	avoid := g.conflicts[student]
	if len(avoid) == 0 {
		return true
	}
	for _, other := range chart.Occupants(p) {
		if avoid[other] {
			return false
		}
	}
	for _, n := range g.layout.Neighbors(p) {
		for _, other := range chart.Occupants(n) {
			if avoid[other] {
				return false
			}
		}
	}
	return true
}

// Underfilled lists occupied desks seating fewer students than their
// advisory minimum. Desks holding a large student are exempt: one
// large student already consumes two capacity units.
func (g *Generator) Underfilled(chart *Chart) []Position {
	var desks []Position
	for _, p := range chart.Underfilled() {
		exempt := false
		for _, student := range chart.Occupants(p) {
			if g.large[student] {
				exempt = true
				break
			}
		}
		if !exempt {
			desks = append(desks, p)
		}
	}
	return desks
}

// weightOf returns the capacity units a student consumes: two for
// large students, one otherwise.
func (g *Generator) weightOf(student string) int {
	if g.large[student] {
		return 2
	}
	return 1
}

func (g *Generator) deskWeight(chart *Chart, p Position) int {
	weight := 0
	for _, student := range chart.Occupants(p) {
		weight += g.weightOf(student)
	}
	return weight
}
