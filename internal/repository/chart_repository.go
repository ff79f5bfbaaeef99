package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ntc490/seating-charter/internal/models"
)

// ChartRepository manages persistence for generated seating charts.
type ChartRepository struct {
	db *sqlx.DB
}

// NewChartRepository constructs a ChartRepository.
func NewChartRepository(db *sqlx.DB) *ChartRepository {
	return &ChartRepository{db: db}
}

// Insert stores a generated chart.
func (r *ChartRepository) Insert(ctx context.Context, chart *models.SeatingChart) error {
	if chart.ID == "" {
		chart.ID = uuid.NewString()
	}
	if chart.CreatedAt.IsZero() {
		chart.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO seating_charts (id, name, grid_rows, grid_columns, strategy, seed, attempts_used, student_count, cells, created_at)
        VALUES (:id, :name, :grid_rows, :grid_columns, :strategy, :seed, :attempts_used, :student_count, :cells, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, chart); err != nil {
		return fmt.Errorf("insert chart: %w", err)
	}
	return nil
}

// GetByID fetches a stored chart by ID.
func (r *ChartRepository) GetByID(ctx context.Context, id string) (*models.SeatingChart, error) {
	const query = `SELECT id, name, grid_rows, grid_columns, strategy, seed, attempts_used, student_count, cells, created_at
        FROM seating_charts WHERE id = $1`
	var chart models.SeatingChart
	if err := r.db.GetContext(ctx, &chart, query, id); err != nil {
		return nil, err
	}
	return &chart, nil
}

// List returns stored charts matching the provided filters.
func (r *ChartRepository) List(ctx context.Context, filter models.ChartFilter) ([]models.SeatingChart, int, error) {
	base := "FROM seating_charts"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Strategy != "" {
		conditions = append(conditions, fmt.Sprintf("strategy = $%d", len(args)+1))
		args = append(args, filter.Strategy)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	sortBy := filter.SortBy
	allowedSorts := map[string]string{
		"name":          "name",
		"created_at":    "created_at",
		"student_count": "student_count",
	}
	if sortBy == "" {
		sortBy = "created_at"
	}
	column, ok := allowedSorts[sortBy]
	if !ok {
		column = "created_at"
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT id, name, grid_rows, grid_columns, strategy, seed, attempts_used, student_count, cells, created_at
        %s ORDER BY %s %s LIMIT %d OFFSET %d`, base, column, order, size, offset)

	var charts []models.SeatingChart
	if err := r.db.SelectContext(ctx, &charts, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list charts: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count charts: %w", err)
	}
	return charts, total, nil
}

// Delete removes a stored chart. Returns sql.ErrNoRows when nothing matched.
func (r *ChartRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM seating_charts WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete chart: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete chart: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
