package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ntc490/seating-charter/internal/models"
)

func newChartMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	return sqlx.NewDb(db, "sqlmock"), mock, func() { db.Close() }
}

func TestChartRepositoryList(t *testing.T) {
	db, mock, cleanup := newChartMock(t)
	defer cleanup()
	repo := NewChartRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "grid_rows", "grid_columns", "strategy", "seed", "attempts_used", "student_count", "cells", "created_at"}).
		AddRow("chart-1", "Period 3", 2, 3, "cluster", int64(42), 1, 4, []byte(`[{"row":1,"column":1,"blocked":false,"students":["Amy"]}]`), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, grid_rows, grid_columns, strategy, seed, attempts_used, student_count, cells, created_at\n        FROM seating_charts WHERE 1=1 ORDER BY created_at DESC LIMIT 20 OFFSET 0")).
		WillReturnRows(rows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM seating_charts WHERE 1=1")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	charts, total, err := repo.List(context.Background(), models.ChartFilter{})
	require.NoError(t, err)
	require.Len(t, charts, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, "Period 3", charts[0].Name)
	require.Len(t, charts[0].Cells, 1)
	assert.Equal(t, []string{"Amy"}, charts[0].Cells[0].Students)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChartRepositoryListFiltered(t *testing.T) {
	db, mock, cleanup := newChartMock(t)
	defer cleanup()
	repo := NewChartRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM seating_charts WHERE 1=1 AND strategy = $1 AND LOWER(name) LIKE $2 ORDER BY name ASC LIMIT 10 OFFSET 10")).
		WithArgs("spread", "%period%").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "grid_rows", "grid_columns", "strategy", "seed", "attempts_used", "student_count", "cells", "created_at"}))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM seating_charts WHERE 1=1 AND strategy = $1 AND LOWER(name) LIKE $2")).
		WithArgs("spread", "%period%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	charts, total, err := repo.List(context.Background(), models.ChartFilter{
		Strategy:  "spread",
		Search:    "Period",
		Page:      2,
		PageSize:  10,
		SortBy:    "name",
		SortOrder: "asc",
	})
	require.NoError(t, err)
	assert.Empty(t, charts)
	assert.Equal(t, 0, total)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChartRepositoryInsert(t *testing.T) {
	db, mock, cleanup := newChartMock(t)
	defer cleanup()
	repo := NewChartRepository(db)

	mock.ExpectExec("INSERT INTO seating_charts").
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	chart := &models.SeatingChart{
		Name:         "Morning block",
		Rows:         3,
		Columns:      3,
		Strategy:     "cluster",
		AttemptsUsed: 2,
		StudentCount: 5,
		Cells:        models.ChartCells{{Row: 0, Column: 0, Students: []string{"Amy"}}},
	}
	err := repo.Insert(context.Background(), chart)
	require.NoError(t, err)
	assert.NotEmpty(t, chart.ID)
	assert.False(t, chart.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChartRepositoryGetByID(t *testing.T) {
	db, mock, cleanup := newChartMock(t)
	defer cleanup()
	repo := NewChartRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name", "grid_rows", "grid_columns", "strategy", "seed", "attempts_used", "student_count", "cells", "created_at"}).
		AddRow("chart-9", "Lab", 2, 2, "single", nil, 1, 3, []byte(`[]`), time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name, grid_rows, grid_columns, strategy, seed, attempts_used, student_count, cells, created_at\n        FROM seating_charts WHERE id = $1")).
		WithArgs("chart-9").
		WillReturnRows(rows)

	chart, err := repo.GetByID(context.Background(), "chart-9")
	require.NoError(t, err)
	assert.Equal(t, "Lab", chart.Name)
	assert.Nil(t, chart.Seed)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChartRepositoryDelete(t *testing.T) {
	db, mock, cleanup := newChartMock(t)
	defer cleanup()
	repo := NewChartRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM seating_charts WHERE id = $1")).
		WithArgs("chart-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	require.NoError(t, repo.Delete(context.Background(), "chart-1"))

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM seating_charts WHERE id = $1")).
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))
	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
