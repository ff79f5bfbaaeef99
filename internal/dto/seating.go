package dto

import (
	"time"

	"github.com/ntc490/seating-charter/internal/models"
)

// CapacityRequest is a min/max occupancy pair. Omitted sides fall back
// to the classroom defaults.
type CapacityRequest struct {
	Min *int `json:"min" validate:"omitempty,min=0"`
	Max *int `json:"max" validate:"omitempty,min=0"`
}

// DeskRequest addresses a desk by one-indexed coordinates.
type DeskRequest struct {
	Row    int `json:"row" validate:"required,min=1"`
	Column int `json:"column" validate:"required,min=1"`
}

// CapacityOverrideRequest replaces the default capacity of one desk.
type CapacityOverrideRequest struct {
	Row    int  `json:"row" validate:"required,min=1"`
	Column int  `json:"column" validate:"required,min=1"`
	Min    *int `json:"min" validate:"omitempty,min=0"`
	Max    *int `json:"max" validate:"omitempty,min=0"`
}

// ClassroomRequest describes grid geometry and capacity rules.
type ClassroomRequest struct {
	Rows              int                       `json:"rows" validate:"required,min=1"`
	Columns           int                       `json:"columns" validate:"required,min=1"`
	DefaultCapacity   *CapacityRequest          `json:"defaultCapacity"`
	BlockedDesks      []DeskRequest             `json:"blockedDesks" validate:"omitempty,dive"`
	CapacityOverrides []CapacityOverrideRequest `json:"capacityOverrides" validate:"omitempty,dive"`
}

// RowRequirementRequest pins a student to a one-indexed row.
type RowRequirementRequest struct {
	Student string `json:"student" validate:"required"`
	Row     int    `json:"row" validate:"required,min=1"`
}

// ColumnRequirementRequest pins a student to a one-indexed column.
type ColumnRequirementRequest struct {
	Student string `json:"student" validate:"required"`
	Column  int    `json:"column" validate:"required,min=1"`
}

// ConstraintsRequest groups the optional placement constraints.
type ConstraintsRequest struct {
	CannotSitTogether  [][]string                 `json:"cannotSitTogether" validate:"omitempty,dive,min=2"`
	LargeStudents      []string                   `json:"largeStudents"`
	RowRequirements    []RowRequirementRequest    `json:"rowRequirements" validate:"omitempty,dive"`
	ColumnRequirements []ColumnRequirementRequest `json:"columnRequirements" validate:"omitempty,dive"`
}

// GenerateChartRequest instructs the engine to build a seating chart.
type GenerateChartRequest struct {
	Name        string             `json:"name" validate:"omitempty,max=120"`
	Classroom   ClassroomRequest   `json:"classroom" validate:"required"`
	Students    []string           `json:"students"`
	Constraints ConstraintsRequest `json:"constraints"`
	Strategy    string             `json:"strategy" validate:"omitempty,oneof=cluster spread single"`
	Seed        *int64             `json:"seed"`
	MaxAttempts int                `json:"maxAttempts" validate:"omitempty,min=1,max=100000"`
}

// ChartResponse returns a generated or stored chart.
type ChartResponse struct {
	ID           string             `json:"id,omitempty"`
	Name         string             `json:"name,omitempty"`
	Rows         int                `json:"rows"`
	Columns      int                `json:"columns"`
	Strategy     string             `json:"strategy"`
	Seed         *int64             `json:"seed,omitempty"`
	AttemptsUsed int                `json:"attemptsUsed"`
	StudentCount int                `json:"studentCount"`
	Cells        []models.ChartCell `json:"cells"`
	Warnings     []string           `json:"warnings,omitempty"`
	CreatedAt    *time.Time         `json:"createdAt,omitempty"`
}

// ChartSummary is the list-view projection of a stored chart.
type ChartSummary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Rows         int       `json:"rows"`
	Columns      int       `json:"columns"`
	Strategy     string    `json:"strategy"`
	StudentCount int       `json:"studentCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CreateExportRequest enqueues an asynchronous chart export.
type CreateExportRequest struct {
	Format    models.ExportFormat `json:"format" validate:"required,oneof=csv pdf"`
	FloorPlan bool                `json:"floorPlan"`
}

// ExportJobResponse is returned after enqueueing an export.
type ExportJobResponse struct {
	ID      string              `json:"id"`
	ChartID string              `json:"chartId"`
	Format  models.ExportFormat `json:"format"`
	Status  models.ExportStatus `json:"status"`
}

// ExportStatusResponse exposes job state and the signed download URL
// once the artifact is ready.
type ExportStatusResponse struct {
	ID        string              `json:"id"`
	ChartID   string              `json:"chartId"`
	Format    models.ExportFormat `json:"format"`
	Status    models.ExportStatus `json:"status"`
	ResultURL *string             `json:"resultUrl,omitempty"`
	ExpiresAt *time.Time          `json:"expiresAt,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
