package chartfile

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ntc490/seating-charter/internal/seating"
)

// Capacity defaults applied when a classroom document omits
// default_capacity.
const (
	DefaultMinCapacity = 2
	DefaultMaxCapacity = 3
)

// ClassroomDoc mirrors the classroom YAML document. All coordinates
// are one-indexed as written by teachers; ToLayout converts.
type ClassroomDoc struct {
	Rows            int            `yaml:"rows"`
	Columns         int            `yaml:"columns"`
	DefaultCapacity *CapacityDoc   `yaml:"default_capacity"`
	BlockedDesks    []DeskRef      `yaml:"blocked_desks"`
	Overrides       []OverrideDesk `yaml:"desk_capacity_overrides"`
}

// CapacityDoc is a min/max pair; either side may be omitted.
type CapacityDoc struct {
	Min *int `yaml:"min"`
	Max *int `yaml:"max"`
}

// DeskRef points at a desk by one-indexed row and column.
type DeskRef struct {
	Row    int `yaml:"row"`
	Column int `yaml:"column"`
}

// OverrideDesk replaces the default capacity for one desk. Omitted
// min/max fall back to the classroom default.
type OverrideDesk struct {
	Row    int  `yaml:"row"`
	Column int  `yaml:"column"`
	Min    *int `yaml:"min"`
	Max    *int `yaml:"max"`
}

// RosterDoc mirrors the students YAML document.
type RosterDoc struct {
	Students    []string       `yaml:"students"`
	Constraints ConstraintsDoc `yaml:"constraints"`
}

// ConstraintsDoc groups the optional constraint sections.
type ConstraintsDoc struct {
	CannotSitTogether  [][]string      `yaml:"cannot_sit_together"`
	LargeStudents      []string        `yaml:"large_students"`
	RowRequirements    []RowRequire    `yaml:"row_requirements"`
	ColumnRequirements []ColumnRequire `yaml:"column_requirements"`
}

// RowRequire pins a student to a one-indexed row.
type RowRequire struct {
	Student string `yaml:"student"`
	Row     int    `yaml:"row"`
}

// ColumnRequire pins a student to a one-indexed column.
type ColumnRequire struct {
	Student string `yaml:"student"`
	Column  int    `yaml:"column"`
}

// LoadClassroom reads and converts a classroom document.
func LoadClassroom(path string) (seating.Layout, error) {
	doc, err := readClassroom(path)
	if err != nil {
		return seating.Layout{}, err
	}
	layout, err := doc.ToLayout()
	if err != nil {
		return seating.Layout{}, fmt.Errorf("%s: %w", path, err)
	}
	return layout, nil
}

// LoadRoster reads and converts a students document.
func LoadRoster(path string) (seating.Roster, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return seating.Roster{}, fmt.Errorf("read students file: %w", err)
	}
	doc, err := ParseRoster(raw)
	if err != nil {
		return seating.Roster{}, fmt.Errorf("%s: %w", path, err)
	}
	return doc, nil
}

func readClassroom(path string) (*ClassroomDoc, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read classroom file: %w", err)
	}
	doc := &ClassroomDoc{}
	if err := yaml.Unmarshal(raw, doc); err != nil {
		return nil, fmt.Errorf("%s: parse classroom yaml: %w", path, err)
	}
	return doc, nil
}

// ParseClassroom converts raw YAML into a layout.
func ParseClassroom(raw []byte) (seating.Layout, error) {
	doc := &ClassroomDoc{}
	if err := yaml.Unmarshal(raw, doc); err != nil {
		return seating.Layout{}, fmt.Errorf("parse classroom yaml: %w", err)
	}
	return doc.ToLayout()
}

// ParseRoster converts raw YAML into a roster.
func ParseRoster(raw []byte) (seating.Roster, error) {
	doc := &RosterDoc{}
	if err := yaml.Unmarshal(raw, doc); err != nil {
		return seating.Roster{}, fmt.Errorf("parse students yaml: %w", err)
	}
	return doc.ToRoster(), nil
}

// ToLayout validates the document shape and converts one-indexed
// coordinates to the engine's zero-indexed layout.
func (d *ClassroomDoc) ToLayout() (seating.Layout, error) {
	if d.Rows < 1 || d.Columns < 1 {
		return seating.Layout{}, fmt.Errorf("classroom requires positive rows and columns, got %dx%d", d.Rows, d.Columns)
	}

	defaultRule := seating.CapacityRule{Min: DefaultMinCapacity, Max: DefaultMaxCapacity}
	if d.DefaultCapacity != nil {
		if d.DefaultCapacity.Min != nil {
			defaultRule.Min = *d.DefaultCapacity.Min
		}
		if d.DefaultCapacity.Max != nil {
			defaultRule.Max = *d.DefaultCapacity.Max
		}
	}

	layout := seating.Layout{
		Rows:    d.Rows,
		Columns: d.Columns,
		Default: defaultRule,
	}

	for _, blocked := range d.BlockedDesks {
		p, err := d.position(blocked.Row, blocked.Column, "blocked desk")
		if err != nil {
			return seating.Layout{}, err
		}
		layout.Blocked = append(layout.Blocked, p)
	}

	if len(d.Overrides) > 0 {
		layout.Overrides = make(map[seating.Position]seating.CapacityRule, len(d.Overrides))
	}
	for _, override := range d.Overrides {
		p, err := d.position(override.Row, override.Column, "capacity override")
		if err != nil {
			return seating.Layout{}, err
		}
		rule := defaultRule
		if override.Min != nil {
			rule.Min = *override.Min
		}
		if override.Max != nil {
			rule.Max = *override.Max
		}
		layout.Overrides[p] = rule
	}

	return layout, nil
}

func (d *ClassroomDoc) position(row, column int, what string) (seating.Position, error) {
	if row < 1 || row > d.Rows || column < 1 || column > d.Columns {
		return seating.Position{}, fmt.Errorf("%s at row %d, column %d is outside the %dx%d classroom", what, row, column, d.Rows, d.Columns)
	}
	return seating.Position{Row: row - 1, Col: column - 1}, nil
}

// ToRoster converts the document to engine types. Pin coordinates
// shift to zero-indexed; bounds checking stays with the engine so the
// same rules apply to every caller.
func (d *RosterDoc) ToRoster() seating.Roster {
	roster := seating.Roster{
		Students: d.Students,
		Apart:    d.Constraints.CannotSitTogether,
		Large:    d.Constraints.LargeStudents,
	}

	if len(d.Constraints.RowRequirements) > 0 {
		roster.PinnedRows = make(map[string]int, len(d.Constraints.RowRequirements))
		for _, req := range d.Constraints.RowRequirements {
			roster.PinnedRows[req.Student] = req.Row - 1
		}
	}
	if len(d.Constraints.ColumnRequirements) > 0 {
		roster.PinnedColumns = make(map[string]int, len(d.Constraints.ColumnRequirements))
		for _, req := range d.Constraints.ColumnRequirements {
			roster.PinnedColumns[req.Student] = req.Column - 1
		}
	}
	return roster
}
