package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ntc490/seating-charter/internal/dto"
	"github.com/ntc490/seating-charter/internal/models"
	appErrors "github.com/ntc490/seating-charter/pkg/errors"
	"github.com/ntc490/seating-charter/pkg/response"
)

type seatingService interface {
	Generate(ctx context.Context, req dto.GenerateChartRequest) (*dto.ChartResponse, error)
	Preview(ctx context.Context, req dto.GenerateChartRequest) (*dto.ChartResponse, error)
	Get(ctx context.Context, id string) (*dto.ChartResponse, error)
	List(ctx context.Context, filter models.ChartFilter) ([]dto.ChartSummary, *models.Pagination, error)
	Delete(ctx context.Context, id string) error
	RenderText(ctx context.Context, id string) (string, error)
}

// SeatingHandler exposes seating chart endpoints.
type SeatingHandler struct {
	service seatingService
}

// NewSeatingHandler constructs SeatingHandler.
func NewSeatingHandler(service seatingService) *SeatingHandler {
	return &SeatingHandler{service: service}
}

// Generate godoc
// @Summary Generate a seating chart
// @Tags Seating
// @Accept json
// @Produce json
// @Param payload body dto.GenerateChartRequest true "Classroom, roster and constraints"
// @Success 201 {object} response.Envelope
// @Router /seating/charts [post]
func (h *SeatingHandler) Generate(c *gin.Context) {
	var req dto.GenerateChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	chart, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, chart)
}

// Preview godoc
// @Summary Generate a seating chart without saving it
// @Tags Seating
// @Accept json
// @Produce json
// @Param payload body dto.GenerateChartRequest true "Classroom, roster and constraints"
// @Success 200 {object} response.Envelope
// @Router /seating/charts/preview [post]
func (h *SeatingHandler) Preview(c *gin.Context) {
	var req dto.GenerateChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	chart, err := h.service.Preview(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, chart, nil)
}

// List godoc
// @Summary List saved seating charts
// @Tags Seating
// @Produce json
// @Param search query string false "Search by chart name"
// @Param strategy query string false "Filter by placement strategy"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param sort query string false "Sort column (name, created_at, student_count)"
// @Param order query string false "Sort order (ASC or DESC)"
// @Success 200 {object} response.Envelope
// @Router /seating/charts [get]
func (h *SeatingHandler) List(c *gin.Context) {
	var filter models.ChartFilter
	filter.Search = strings.TrimSpace(c.Query("search"))
	filter.Strategy = strings.TrimSpace(c.Query("strategy"))
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = size
	}
	filter.SortBy = c.Query("sort")
	filter.SortOrder = c.Query("order")

	charts, pagination, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, charts, pagination)
}

// Get godoc
// @Summary Get a saved seating chart
// @Tags Seating
// @Produce json
// @Param id path string true "Chart ID"
// @Success 200 {object} response.Envelope
// @Router /seating/charts/{id} [get]
func (h *SeatingHandler) Get(c *gin.Context) {
	chart, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, chart, nil)
}

// Delete godoc
// @Summary Delete a saved seating chart
// @Tags Seating
// @Produce json
// @Param id path string true "Chart ID"
// @Success 204
// @Router /seating/charts/{id} [delete]
func (h *SeatingHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Text godoc
// @Summary Render a saved seating chart as plain text
// @Tags Seating
// @Produce plain
// @Param id path string true "Chart ID"
// @Success 200 {string} string
// @Router /seating/charts/{id}/text [get]
func (h *SeatingHandler) Text(c *gin.Context) {
	rendered, err := h.service.RenderText(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.String(http.StatusOK, rendered)
}
