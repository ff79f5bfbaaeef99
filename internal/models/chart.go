package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// SeatingChart is a generated chart persisted for later retrieval.
type SeatingChart struct {
	ID           string     `db:"id" json:"id"`
	Name         string     `db:"name" json:"name"`
	Rows         int        `db:"grid_rows" json:"rows"`
	Columns      int        `db:"grid_columns" json:"columns"`
	Strategy     string     `db:"strategy" json:"strategy"`
	Seed         *int64     `db:"seed" json:"seed,omitempty"`
	AttemptsUsed int        `db:"attempts_used" json:"attempts_used"`
	StudentCount int        `db:"student_count" json:"student_count"`
	Cells        ChartCells `db:"cells" json:"cells"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
}

// ChartCell describes one desk of a stored chart.
type ChartCell struct {
	Row      int      `json:"row"`
	Column   int      `json:"column"`
	Blocked  bool     `json:"blocked"`
	Students []string `json:"students"`
}

// ChartCells is the JSONB desk list of a stored chart.
type ChartCells []ChartCell

// Value marshals cells to JSON for persistence.
func (c ChartCells) Value() (driver.Value, error) {
	if c == nil {
		c = ChartCells{}
	}
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("marshal chart cells: %w", err)
	}
	return data, nil
}

// Scan unmarshals JSON payloads into the cell list.
func (c *ChartCells) Scan(value interface{}) error {
	if value == nil {
		*c = ChartCells{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported type %T for ChartCells", value)
	}
	if len(data) == 0 {
		*c = ChartCells{}
		return nil
	}
	if err := json.Unmarshal(data, c); err != nil {
		return fmt.Errorf("unmarshal chart cells: %w", err)
	}
	return nil
}

// ChartFilter encapsulates allowed search parameters for listing
// stored charts.
type ChartFilter struct {
	Search    string
	Strategy  string
	Page      int
	PageSize  int
	SortBy    string
	SortOrder string
}
