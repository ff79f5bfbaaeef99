package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ntc490/seating-charter/internal/chartfile"
	"github.com/ntc490/seating-charter/internal/dto"
	"github.com/ntc490/seating-charter/internal/models"
	"github.com/ntc490/seating-charter/internal/render"
	"github.com/ntc490/seating-charter/internal/seating"
	"github.com/ntc490/seating-charter/pkg/config"
	appErrors "github.com/ntc490/seating-charter/pkg/errors"
)

type chartRepository interface {
	Insert(ctx context.Context, chart *models.SeatingChart) error
	GetByID(ctx context.Context, id string) (*models.SeatingChart, error)
	List(ctx context.Context, filter models.ChartFilter) ([]models.SeatingChart, int, error)
	Delete(ctx context.Context, id string) error
}

type chartCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// SeatingService runs the placement engine and manages chart history.
// Both the repository and the cache may be nil: without a repository
// charts are generated but never stored, without a cache every read
// goes to the database.
type SeatingService struct {
	repo      chartRepository
	cache     chartCache
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	text      *render.TextRenderer
	cfg       config.SeatingConfig
}

// NewSeatingService constructs the seating service.
func NewSeatingService(repo chartRepository, cache chartCache, metrics *MetricsService, cfg config.SeatingConfig, validate *validator.Validate, logger *zap.Logger) *SeatingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeatingService{
		repo:      repo,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		text:      render.NewTextRenderer(),
		cfg:       cfg,
	}
}

// Generate runs the engine and stores the resulting chart when history
// is enabled.
func (s *SeatingService) Generate(ctx context.Context, req dto.GenerateChartRequest) (*dto.ChartResponse, error) {
	return s.generate(ctx, req, true)
}

// Preview runs the engine without touching chart history.
func (s *SeatingService) Preview(ctx context.Context, req dto.GenerateChartRequest) (*dto.ChartResponse, error) {
	return s.generate(ctx, req, false)
}

func (s *SeatingService) generate(ctx context.Context, req dto.GenerateChartRequest, persist bool) (*dto.ChartResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid chart request")
	}
	if err := s.checkLimits(req); err != nil {
		return nil, err
	}

	layout, roster, err := requestToEngine(req)
	if err != nil {
		s.metrics.ObserveGeneration("invalid", 0, 0)
		return nil, appErrors.Clone(appErrors.ErrChartConfig, err.Error())
	}

	strategy, err := seating.ParseStrategy(req.Strategy)
	if err != nil {
		s.metrics.ObserveGeneration("invalid", 0, 0)
		return nil, appErrors.Clone(appErrors.ErrChartConfig, err.Error())
	}

	attempts := req.MaxAttempts
	if attempts <= 0 {
		attempts = s.cfg.MaxAttempts
	}

	gen, err := seating.New(layout, roster, seating.Options{Strategy: strategy, MaxAttempts: attempts})
	if err != nil {
		s.metrics.ObserveGeneration("invalid", 0, 0)
		return nil, appErrors.Clone(appErrors.ErrChartConfig, err.Error())
	}

	var rng *rand.Rand
	if req.Seed != nil {
		rng = rand.New(rand.NewSource(*req.Seed))
	}

	start := time.Now()
	chart, err := gen.Generate(rng)
	elapsed := time.Since(start)
	if err != nil {
		var exhausted *seating.ExhaustedError
		if errors.As(err, &exhausted) {
			s.metrics.ObserveGeneration("exhausted", 0, elapsed)
			return nil, appErrors.Clone(appErrors.ErrPlacementExhausted, exhausted.Error())
		}
		s.metrics.ObserveGeneration("invalid", 0, elapsed)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to generate chart")
	}
	s.metrics.ObserveGeneration("success", chart.Attempts(), elapsed)

	model := &models.SeatingChart{
		Name:         req.Name,
		Rows:         layout.Rows,
		Columns:      layout.Columns,
		Strategy:     string(gen.Strategy()),
		Seed:         req.Seed,
		AttemptsUsed: chart.Attempts(),
		StudentCount: chart.PlacedStudents(),
		Cells:        chartCells(chart),
	}

	if persist && s.repo != nil {
		if err := s.repo.Insert(ctx, model); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store chart")
		}
		s.cacheChart(ctx, model)
	}

	s.logger.Info("seating chart generated",
		zap.String("chart_id", model.ID),
		zap.String("strategy", model.Strategy),
		zap.Int("students", model.StudentCount),
		zap.Int("attempts", model.AttemptsUsed),
		zap.Duration("elapsed", elapsed),
	)

	warnings := underfillWarnings(gen, chart)
	if len(warnings) > 0 {
		s.logger.Warn("seating chart has desks under minimum capacity",
			zap.String("chart_id", model.ID),
			zap.Strings("warnings", warnings),
		)
	}

	return chartResponse(model, warnings), nil
}

// Get loads a stored chart.
func (s *SeatingService) Get(ctx context.Context, id string) (*dto.ChartResponse, error) {
	model, err := s.StoredChart(ctx, id)
	if err != nil {
		return nil, err
	}
	return chartResponse(model, nil), nil
}

// List returns stored charts and pagination metadata.
func (s *SeatingService) List(ctx context.Context, filter models.ChartFilter) ([]dto.ChartSummary, *models.Pagination, error) {
	if s.repo == nil {
		return nil, nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "chart history is disabled")
	}
	charts, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list charts")
	}
	summaries := make([]dto.ChartSummary, 0, len(charts))
	for _, chart := range charts {
		summaries = append(summaries, dto.ChartSummary{
			ID:           chart.ID,
			Name:         chart.Name,
			Rows:         chart.Rows,
			Columns:      chart.Columns,
			Strategy:     chart.Strategy,
			StudentCount: chart.StudentCount,
			CreatedAt:    chart.CreatedAt,
		})
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return summaries, pagination, nil
}

// Delete removes a stored chart and its cache entry.
func (s *SeatingService) Delete(ctx context.Context, id string) error {
	if s.repo == nil {
		return appErrors.Clone(appErrors.ErrPreconditionFailed, "chart history is disabled")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		if err == sql.ErrNoRows {
			return appErrors.Clone(appErrors.ErrNotFound, "chart not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete chart")
	}
	if s.cache != nil {
		if err := s.cache.Delete(ctx, chartCacheKey(id)); err != nil {
			s.logger.Warn("failed to drop chart cache entry", zap.String("chart_id", id), zap.Error(err))
		}
	}
	return nil
}

// RenderText renders a stored chart as the printable classroom view.
func (s *SeatingService) RenderText(ctx context.Context, id string) (string, error) {
	model, err := s.StoredChart(ctx, id)
	if err != nil {
		return "", err
	}
	return s.text.RenderString(restoreChart(model)), nil
}

// StoredChart loads a chart by ID, consulting the cache first.
func (s *SeatingService) StoredChart(ctx context.Context, id string) (*models.SeatingChart, error) {
	if s.repo == nil {
		return nil, appErrors.Clone(appErrors.ErrPreconditionFailed, "chart history is disabled")
	}

	if s.cache != nil {
		var cached models.SeatingChart
		lookupStart := time.Now()
		err := s.cache.Get(ctx, chartCacheKey(id), &cached)
		s.metrics.RecordCacheOperation(err == nil, time.Since(lookupStart))
		if err == nil {
			return &cached, nil
		}
		if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("chart cache lookup failed", zap.String("chart_id", id), zap.Error(err))
		}
	}

	model, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "chart not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load chart")
	}
	s.cacheChart(ctx, model)
	return model, nil
}

func (s *SeatingService) cacheChart(ctx context.Context, model *models.SeatingChart) {
	if s.cache == nil || model.ID == "" {
		return
	}
	ttl := s.cfg.CacheTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	if err := s.cache.Set(ctx, chartCacheKey(model.ID), model, ttl); err != nil {
		s.logger.Warn("failed to cache chart", zap.String("chart_id", model.ID), zap.Error(err))
	}
}

func (s *SeatingService) checkLimits(req dto.GenerateChartRequest) error {
	if s.cfg.MaxRows > 0 && req.Classroom.Rows > s.cfg.MaxRows {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("rows may not exceed %d", s.cfg.MaxRows))
	}
	if s.cfg.MaxColumns > 0 && req.Classroom.Columns > s.cfg.MaxColumns {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("columns may not exceed %d", s.cfg.MaxColumns))
	}
	if s.cfg.MaxStudents > 0 && len(req.Students) > s.cfg.MaxStudents {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("student count may not exceed %d", s.cfg.MaxStudents))
	}
	return nil
}

func chartCacheKey(id string) string {
	return "chart:" + id
}

// requestToEngine converts the one-indexed request payload into engine
// types by way of the shared document model, so API requests and YAML
// files agree on validation and error wording.
func requestToEngine(req dto.GenerateChartRequest) (seating.Layout, seating.Roster, error) {
	doc := chartfile.ClassroomDoc{
		Rows:    req.Classroom.Rows,
		Columns: req.Classroom.Columns,
	}
	if req.Classroom.DefaultCapacity != nil {
		doc.DefaultCapacity = &chartfile.CapacityDoc{
			Min: req.Classroom.DefaultCapacity.Min,
			Max: req.Classroom.DefaultCapacity.Max,
		}
	}
	for _, desk := range req.Classroom.BlockedDesks {
		doc.BlockedDesks = append(doc.BlockedDesks, chartfile.DeskRef{Row: desk.Row, Column: desk.Column})
	}
	for _, override := range req.Classroom.CapacityOverrides {
		doc.Overrides = append(doc.Overrides, chartfile.OverrideDesk{
			Row:    override.Row,
			Column: override.Column,
			Min:    override.Min,
			Max:    override.Max,
		})
	}

	layout, err := doc.ToLayout()
	if err != nil {
		return seating.Layout{}, seating.Roster{}, err
	}

	rosterDoc := chartfile.RosterDoc{
		Students: req.Students,
		Constraints: chartfile.ConstraintsDoc{
			CannotSitTogether: req.Constraints.CannotSitTogether,
			LargeStudents:     req.Constraints.LargeStudents,
		},
	}
	for _, pin := range req.Constraints.RowRequirements {
		rosterDoc.Constraints.RowRequirements = append(rosterDoc.Constraints.RowRequirements, chartfile.RowRequire{Student: pin.Student, Row: pin.Row})
	}
	for _, pin := range req.Constraints.ColumnRequirements {
		rosterDoc.Constraints.ColumnRequirements = append(rosterDoc.Constraints.ColumnRequirements, chartfile.ColumnRequire{Student: pin.Student, Column: pin.Column})
	}

	return layout, rosterDoc.ToRoster(), nil
}

// chartCells flattens a chart into the stored row-major cell list with
// one-indexed coordinates.
func chartCells(chart *seating.Chart) models.ChartCells {
	layout := chart.Layout()
	cells := make(models.ChartCells, 0, layout.Rows*layout.Columns)
	for _, p := range layout.Positions() {
		cell := models.ChartCell{Row: p.Row + 1, Column: p.Col + 1}
		if layout.IsBlocked(p) {
			cell.Blocked = true
		} else {
			cell.Students = append([]string{}, chart.Occupants(p)...)
		}
		cells = append(cells, cell)
	}
	return cells
}

// restoreChart rebuilds an engine chart from its stored form.
func restoreChart(model *models.SeatingChart) *seating.Chart {
	layout := seating.Layout{
		Rows:    model.Rows,
		Columns: model.Columns,
		Default: seating.CapacityRule{Min: chartfile.DefaultMinCapacity, Max: chartfile.DefaultMaxCapacity},
	}
	cells := make([][][]string, model.Rows)
	for row := range cells {
		cells[row] = make([][]string, model.Columns)
	}
	for _, cell := range model.Cells {
		row, col := cell.Row-1, cell.Column-1
		if row < 0 || row >= model.Rows || col < 0 || col >= model.Columns {
			continue
		}
		if cell.Blocked {
			layout.Blocked = append(layout.Blocked, seating.Position{Row: row, Col: col})
			continue
		}
		cells[row][col] = append([]string(nil), cell.Students...)
	}
	return seating.Restore(layout, cells)
}

func underfillWarnings(gen *seating.Generator, chart *seating.Chart) []string {
	layout := chart.Layout()
	var warnings []string
	for _, p := range gen.Underfilled(chart) {
		rule := layout.CapacityAt(p)
		warnings = append(warnings, fmt.Sprintf("desk (row %d, column %d) is under minimum capacity: %d/%d", p.Row+1, p.Col+1, len(chart.Occupants(p)), rule.Min))
	}
	return warnings
}

func chartResponse(model *models.SeatingChart, warnings []string) *dto.ChartResponse {
	resp := &dto.ChartResponse{
		ID:           model.ID,
		Name:         model.Name,
		Rows:         model.Rows,
		Columns:      model.Columns,
		Strategy:     model.Strategy,
		Seed:         model.Seed,
		AttemptsUsed: model.AttemptsUsed,
		StudentCount: model.StudentCount,
		Cells:        model.Cells,
		Warnings:     warnings,
	}
	if !model.CreatedAt.IsZero() {
		created := model.CreatedAt
		resp.CreatedAt = &created
	}
	return resp
}
