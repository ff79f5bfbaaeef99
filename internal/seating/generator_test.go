package seating

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLayout(rows, cols, maxCap int) Layout {
	return Layout{
		Rows:    rows,
		Columns: cols,
		Default: CapacityRule{Min: 1, Max: maxCap},
	}
}

func TestNewRejectsInvalidConfigurations(t *testing.T) {
	cases := []struct {
		name   string
		layout Layout
		roster Roster
		opts   Options
	}{
		{
			name:   "zero rows",
			layout: testLayout(0, 3, 2),
			roster: Roster{Students: []string{"Ana"}},
		},
		{
			name:   "too many students",
			layout: testLayout(2, 2, 1),
			roster: Roster{Students: []string{"Ana", "Ben", "Cam", "Dee", "Eli"}},
		},
		{
			name:   "large students shrink capacity",
			layout: testLayout(1, 2, 2),
			roster: Roster{
				Students: []string{"Ana", "Ben", "Cam", "Dee"},
				Large:    []string{"Ana"},
			},
		},
		{
			name:   "pinned row out of bounds",
			layout: testLayout(3, 3, 3),
			roster: Roster{
				Students:   []string{"Ana"},
				PinnedRows: map[string]int{"Ana": 3},
			},
		},
		{
			name:   "pinned column out of bounds",
			layout: testLayout(3, 3, 3),
			roster: Roster{
				Students:      []string{"Ana"},
				PinnedColumns: map[string]int{"Ana": -1},
			},
		},
		{
			name:   "unknown strategy",
			layout: testLayout(2, 2, 2),
			roster: Roster{Students: []string{"Ana"}},
			opts:   Options{Strategy: Strategy("diagonal")},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.layout, tc.roster, tc.opts)
			require.Error(t, err)

			var cfgErr *ConfigError
			assert.True(t, errors.As(err, &cfgErr))
		})
	}
}

func TestNewReportsAdjustedCapacity(t *testing.T) {
	layout := testLayout(2, 2, 1)
	roster := Roster{Students: []string{"Ana", "Ben", "Cam", "Dee", "Eli"}}

	_, err := New(layout, roster, Options{})
	require.Error(t, err)
	assert.Equal(t, "too many students (5) for maximum desk capacity (4)", err.Error())
}

func TestNewAcceptsLooseRosters(t *testing.T) {
	layout := testLayout(2, 2, 3)
	roster := Roster{
		Students: []string{"Ana", "Ana"},
		Apart:    [][]string{{"Nobody", "Missing"}},
		Large:    []string{"Ghost"},
	}

	gen, err := New(layout, roster, Options{})
	require.NoError(t, err)
	assert.Equal(t, StrategyCluster, gen.Strategy())
	assert.Equal(t, DefaultMaxAttempts, gen.MaxAttempts())
}

func TestGenerateSingleOccupancyFillsEveryDesk(t *testing.T) {
	layout := testLayout(2, 2, 1)
	roster := Roster{Students: []string{"Ana", "Ben", "Cam", "Dee"}}

	gen, err := New(layout, roster, Options{Strategy: StrategySingle})
	require.NoError(t, err)

	chart, err := gen.Generate(rand.New(rand.NewSource(7)))
	require.NoError(t, err)
	assert.Equal(t, 1, chart.Attempts())

	seen := map[string]bool{}
	for _, p := range layout.Positions() {
		occupants := chart.Occupants(p)
		require.Len(t, occupants, 1)
		seen[occupants[0]] = true
	}
	assert.Len(t, seen, 4)
}

func TestGenerateFailsWhenOnlyDesksAreAdjacent(t *testing.T) {
	layout := testLayout(1, 2, 2)
	roster := Roster{
		Students: []string{"Ana", "Ben"},
		Apart:    [][]string{{"Ana", "Ben"}},
	}

	gen, err := New(layout, roster, Options{MaxAttempts: 25})
	require.NoError(t, err)

	chart, err := gen.Generate(rand.New(rand.NewSource(1)))
	require.Error(t, err)
	assert.Nil(t, chart)

	var exhausted *ExhaustedError
	require.True(t, errors.As(err, &exhausted))
	assert.Equal(t, 25, exhausted.Attempts)
	assert.Contains(t, err.Error(), "after 25 attempts")
}

func TestGenerateHonorsPinnedRow(t *testing.T) {
	layout := testLayout(3, 3, 3)
	roster := Roster{
		Students: []string{"Ana", "Ben", "Cam", "Dee", "Eli", "Fay", "Gus", "Hal", "Ivy"},
		PinnedRows: map[string]int{
			"Ana": 1,
		},
	}

	gen, err := New(layout, roster, Options{})
	require.NoError(t, err)

	chart, err := gen.Generate(rand.New(rand.NewSource(11)))
	require.NoError(t, err)

	pos, found := chart.PositionOf("Ana")
	require.True(t, found)
	assert.Equal(t, 1, pos.Row)

	appearances := 0
	for _, p := range layout.Positions() {
		for _, name := range chart.Occupants(p) {
			if name == "Ana" {
				appearances++
			}
		}
	}
	assert.Equal(t, 1, appearances)
}

func TestGenerateHonorsPinnedDesk(t *testing.T) {
	layout := testLayout(3, 3, 3)
	roster := Roster{
		Students:      []string{"Ana", "Ben", "Cam"},
		PinnedRows:    map[string]int{"Ben": 0},
		PinnedColumns: map[string]int{"Ben": 2},
	}

	gen, err := New(layout, roster, Options{})
	require.NoError(t, err)

	chart, err := gen.Generate(rand.New(rand.NewSource(3)))
	require.NoError(t, err)

	pos, found := chart.PositionOf("Ben")
	require.True(t, found)
	assert.Equal(t, Position{Row: 0, Col: 2}, pos)
}

func TestClusterStrategyGroupsStudents(t *testing.T) {
	layout := testLayout(1, 2, 2)
	roster := Roster{Students: []string{"Ana", "Ben"}}

	gen, err := New(layout, roster, Options{Strategy: StrategyCluster})
	require.NoError(t, err)

	chart, err := gen.Generate(rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	anaPos, _ := chart.PositionOf("Ana")
	benPos, _ := chart.PositionOf("Ben")
	assert.Equal(t, anaPos, benPos)
}

func TestSpreadStrategySeparatesStudents(t *testing.T) {
	layout := testLayout(1, 2, 2)
	roster := Roster{Students: []string{"Ana", "Ben"}}

	gen, err := New(layout, roster, Options{Strategy: StrategySpread})
	require.NoError(t, err)

	chart, err := gen.Generate(rand.New(rand.NewSource(5)))
	require.NoError(t, err)

	anaPos, _ := chart.PositionOf("Ana")
	benPos, _ := chart.PositionOf("Ben")
	assert.NotEqual(t, anaPos, benPos)
}

func TestSingleStrategyNeverSharesDesks(t *testing.T) {
	layout := testLayout(1, 3, 2)
	roster := Roster{Students: []string{"Ana", "Ben", "Cam"}}

	gen, err := New(layout, roster, Options{Strategy: StrategySingle})
	require.NoError(t, err)

	chart, err := gen.Generate(rand.New(rand.NewSource(2)))
	require.NoError(t, err)

	for _, p := range layout.Positions() {
		assert.LessOrEqual(t, len(chart.Occupants(p)), 1)
	}
	assert.Equal(t, 3, chart.PlacedStudents())
}

func TestGeneratePlacesLargeStudentAlone(t *testing.T) {
	layout := testLayout(1, 2, 2)
	roster := Roster{
		Students: []string{"Bruno", "Ana", "Ben"},
		Large:    []string{"Bruno"},
	}

	gen, err := New(layout, roster, Options{})
	require.NoError(t, err)

	chart, err := gen.Generate(rand.New(rand.NewSource(9)))
	require.NoError(t, err)

	brunoPos, found := chart.PositionOf("Bruno")
	require.True(t, found)
	assert.Equal(t, []string{"Bruno"}, chart.Occupants(brunoPos))

	for _, p := range layout.Positions() {
		weight := 0
		for _, name := range chart.Occupants(p) {
			if name == "Bruno" {
				weight += 2
			} else {
				weight++
			}
		}
		assert.LessOrEqual(t, weight, layout.CapacityAt(p).Max)
	}
}

func TestGenerateSkipsZeroCapacityDesks(t *testing.T) {
	layout := Layout{
		Rows:    1,
		Columns: 2,
		Default: CapacityRule{Min: 1, Max: 2},
		Overrides: map[Position]CapacityRule{
			{Row: 0, Col: 1}: {Min: 0, Max: 0},
		},
	}
	roster := Roster{Students: []string{"Ana", "Ben"}}

	gen, err := New(layout, roster, Options{Strategy: StrategyCluster})
	require.NoError(t, err)

	chart, err := gen.Generate(rand.New(rand.NewSource(4)))
	require.NoError(t, err)
	assert.Empty(t, chart.Occupants(Position{Row: 0, Col: 1}))
	assert.Len(t, chart.Occupants(Position{Row: 0, Col: 0}), 2)
}

func TestGenerateNeverSeatsBlockedDesks(t *testing.T) {
	layout := Layout{
		Rows:    2,
		Columns: 2,
		Default: CapacityRule{Min: 1, Max: 1},
		Blocked: []Position{{Row: 0, Col: 0}},
	}
	roster := Roster{Students: []string{"Ana", "Ben", "Cam"}}

	gen, err := New(layout, roster, Options{Strategy: StrategySingle})
	require.NoError(t, err)

	chart, err := gen.Generate(rand.New(rand.NewSource(8)))
	require.NoError(t, err)
	assert.Empty(t, chart.Occupants(Position{Row: 0, Col: 0}))
	assert.Equal(t, 3, chart.PlacedStudents())
}

func TestGenerateIsDeterministicForSeed(t *testing.T) {
	layout := testLayout(3, 3, 3)
	roster := Roster{
		Students: []string{"Ana", "Ben", "Cam", "Dee", "Eli", "Fay", "Gus"},
		Apart:    [][]string{{"Ana", "Ben"}},
		Large:    []string{"Gus"},
	}

	first, err := New(layout, roster, Options{})
	require.NoError(t, err)
	second, err := New(layout, roster, Options{})
	require.NoError(t, err)

	chartA, err := first.Generate(rand.New(rand.NewSource(99)))
	require.NoError(t, err)
	chartB, err := second.Generate(rand.New(rand.NewSource(99)))
	require.NoError(t, err)

	assert.Equal(t, chartA.Cells(), chartB.Cells())
	assert.Equal(t, chartA.Attempts(), chartB.Attempts())
}

func TestGenerateEmptyRoster(t *testing.T) {
	layout := testLayout(2, 2, 2)

	gen, err := New(layout, Roster{}, Options{})
	require.NoError(t, err)

	chart, err := gen.Generate(rand.New(rand.NewSource(1)))
	require.NoError(t, err)
	assert.Equal(t, 0, chart.PlacedStudents())
	assert.Equal(t, 1, chart.Attempts())
}

func TestIsLegalOrdering(t *testing.T) {
	layout := testLayout(2, 2, 2)
	roster := Roster{
		Students:   []string{"Ana", "Ben", "Cam", "Dee", "Lia"},
		Apart:      [][]string{{"Ana", "Ben"}},
		Large:      []string{"Lia"},
		PinnedRows: map[string]int{"Dee": 1},
	}

	gen, err := New(layout, roster, Options{})
	require.NoError(t, err)

	t.Run("pinned row rejected first", func(t *testing.T) {
		chart := NewChart(layout)
		assert.False(t, gen.IsLegal(chart, "Dee", Position{Row: 0, Col: 0}))
		assert.True(t, gen.IsLegal(chart, "Dee", Position{Row: 1, Col: 0}))
	})

	t.Run("capacity counts large students twice", func(t *testing.T) {
		chart := NewChart(layout)
		chart.place("Lia", Position{Row: 0, Col: 0})
		assert.False(t, gen.IsLegal(chart, "Cam", Position{Row: 0, Col: 0}))
		assert.True(t, gen.IsLegal(chart, "Cam", Position{Row: 0, Col: 1}))
	})

	t.Run("same desk exclusion", func(t *testing.T) {
		chart := NewChart(layout)
		chart.place("Ana", Position{Row: 0, Col: 0})
		assert.False(t, gen.IsLegal(chart, "Ben", Position{Row: 0, Col: 0}))
	})

	t.Run("adjacent desk exclusion spares diagonals", func(t *testing.T) {
		chart := NewChart(layout)
		chart.place("Ana", Position{Row: 0, Col: 0})
		assert.False(t, gen.IsLegal(chart, "Ben", Position{Row: 0, Col: 1}))
		assert.False(t, gen.IsLegal(chart, "Ben", Position{Row: 1, Col: 0}))
		assert.True(t, gen.IsLegal(chart, "Ben", Position{Row: 1, Col: 1}))
	})

	t.Run("blocked and out-of-grid desks are illegal", func(t *testing.T) {
		blocked := layout
		blocked.Blocked = []Position{{Row: 1, Col: 1}}
		blockedGen, err := New(blocked, roster, Options{})
		require.NoError(t, err)

		chart := NewChart(blocked)
		assert.False(t, blockedGen.IsLegal(chart, "Cam", Position{Row: 1, Col: 1}))
		assert.False(t, blockedGen.IsLegal(chart, "Cam", Position{Row: 5, Col: 5}))
	})
}

func TestGenerateSeparatesExclusionGroupDiagonally(t *testing.T) {
	layout := testLayout(2, 2, 1)
	roster := Roster{
		Students: []string{"Ana", "Ben"},
		Apart:    [][]string{{"Ana", "Ben"}},
	}

	gen, err := New(layout, roster, Options{Strategy: StrategySingle})
	require.NoError(t, err)

	chart, err := gen.Generate(rand.New(rand.NewSource(6)))
	require.NoError(t, err)

	anaPos, _ := chart.PositionOf("Ana")
	benPos, _ := chart.PositionOf("Ben")
	assert.Equal(t, 1, abs(anaPos.Row-benPos.Row))
	assert.Equal(t, 1, abs(anaPos.Col-benPos.Col))
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func TestChartUnderfilled(t *testing.T) {
	layout := Layout{
		Rows:    1,
		Columns: 2,
		Default: CapacityRule{Min: 2, Max: 3},
	}
	roster := Roster{Students: []string{"Ana"}}

	gen, err := New(layout, roster, Options{})
	require.NoError(t, err)

	chart, err := gen.Generate(rand.New(rand.NewSource(12)))
	require.NoError(t, err)

	anaPos, _ := chart.PositionOf("Ana")
	assert.Equal(t, []Position{anaPos}, chart.Underfilled())
	assert.Equal(t, []Position{anaPos}, gen.Underfilled(chart))
}

func TestGeneratorUnderfilledExemptsLargeStudents(t *testing.T) {
	layout := Layout{
		Rows:    1,
		Columns: 2,
		Default: CapacityRule{Min: 2, Max: 3},
	}
	roster := Roster{
		Students: []string{"Ana"},
		Large:    []string{"Ana"},
	}

	gen, err := New(layout, roster, Options{})
	require.NoError(t, err)

	chart, err := gen.Generate(rand.New(rand.NewSource(12)))
	require.NoError(t, err)

	anaPos, _ := chart.PositionOf("Ana")
	assert.Equal(t, []Position{anaPos}, chart.Underfilled())
	assert.Empty(t, gen.Underfilled(chart))
}

func TestRestoreRebuildsChart(t *testing.T) {
	layout := testLayout(2, 3, 2)
	roster := Roster{Students: []string{"Ana", "Ben", "Cam", "Dee"}}

	gen, err := New(layout, roster, Options{})
	require.NoError(t, err)

	chart, err := gen.Generate(rand.New(rand.NewSource(21)))
	require.NoError(t, err)

	restored := Restore(layout, chart.Cells())
	assert.Equal(t, chart.Cells(), restored.Cells())
	assert.Equal(t, chart.OccupiedDesks(), restored.OccupiedDesks())
	assert.Equal(t, chart.PlacedStudents(), restored.PlacedStudents())
}

func TestParseStrategy(t *testing.T) {
	strategy, err := ParseStrategy("")
	require.NoError(t, err)
	assert.Equal(t, StrategyCluster, strategy)

	strategy, err = ParseStrategy("spread")
	require.NoError(t, err)
	assert.Equal(t, StrategySpread, strategy)

	_, err = ParseStrategy("zigzag")
	require.Error(t, err)
}
