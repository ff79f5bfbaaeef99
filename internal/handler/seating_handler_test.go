package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/ntc490/seating-charter/internal/dto"
	"github.com/ntc490/seating-charter/internal/models"
	appErrors "github.com/ntc490/seating-charter/pkg/errors"
)

type seatingServiceMock struct {
	chartResp  *dto.ChartResponse
	chartErr   error
	listResp   []dto.ChartSummary
	listPages  *models.Pagination
	listErr    error
	listFilter models.ChartFilter
	deleteErr  error
	text       string
	textErr    error
}

func (m *seatingServiceMock) Generate(ctx context.Context, req dto.GenerateChartRequest) (*dto.ChartResponse, error) {
	return m.chartResp, m.chartErr
}

func (m *seatingServiceMock) Preview(ctx context.Context, req dto.GenerateChartRequest) (*dto.ChartResponse, error) {
	return m.chartResp, m.chartErr
}

func (m *seatingServiceMock) Get(ctx context.Context, id string) (*dto.ChartResponse, error) {
	return m.chartResp, m.chartErr
}

func (m *seatingServiceMock) List(ctx context.Context, filter models.ChartFilter) ([]dto.ChartSummary, *models.Pagination, error) {
	m.listFilter = filter
	return m.listResp, m.listPages, m.listErr
}

func (m *seatingServiceMock) Delete(ctx context.Context, id string) error {
	return m.deleteErr
}

func (m *seatingServiceMock) RenderText(ctx context.Context, id string) (string, error) {
	return m.text, m.textErr
}

func newGinContext(method, path string, body []byte) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(method, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	return c, w
}

func generatePayload(t *testing.T) []byte {
	t.Helper()
	payload, err := json.Marshal(dto.GenerateChartRequest{
		Classroom: dto.ClassroomRequest{Rows: 2, Columns: 2},
		Students:  []string{"Amy", "Ben"},
	})
	require.NoError(t, err)
	return payload
}

func TestSeatingHandlerGenerate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &seatingServiceMock{
		chartResp: &dto.ChartResponse{ID: "chart-1", Rows: 2, Columns: 2, Strategy: "cluster", StudentCount: 2},
	}
	handler := NewSeatingHandler(mockSvc)

	c, w := newGinContext(http.MethodPost, "/seating/charts", generatePayload(t))

	handler.Generate(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var envelope struct {
		Data dto.ChartResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.Equal(t, "chart-1", envelope.Data.ID)
}

func TestSeatingHandlerGenerateInvalidJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSeatingHandler(&seatingServiceMock{})

	c, w := newGinContext(http.MethodPost, "/seating/charts", []byte("{not-json"))

	handler.Generate(c)
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSeatingHandlerGenerateExhausted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &seatingServiceMock{
		chartErr: appErrors.Clone(appErrors.ErrPlacementExhausted, "no legal arrangement found after 1000 attempts"),
	}
	handler := NewSeatingHandler(mockSvc)

	c, w := newGinContext(http.MethodPost, "/seating/charts", generatePayload(t))

	handler.Generate(c)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var envelope struct {
		Error *appErrors.Error `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	require.Equal(t, appErrors.ErrPlacementExhausted.Code, envelope.Error.Code)
}

func TestSeatingHandlerPreview(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &seatingServiceMock{
		chartResp: &dto.ChartResponse{Rows: 2, Columns: 2, Strategy: "spread", StudentCount: 2},
	}
	handler := NewSeatingHandler(mockSvc)

	c, w := newGinContext(http.MethodPost, "/seating/charts/preview", generatePayload(t))

	handler.Preview(c)
	require.Equal(t, http.StatusOK, w.Code)
}

func TestSeatingHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &seatingServiceMock{
		listResp:  []dto.ChartSummary{{ID: "chart-1", Name: "Period 3"}},
		listPages: &models.Pagination{Page: 2, PageSize: 10, TotalCount: 11},
	}
	handler := NewSeatingHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/seating/charts?search=period&strategy=spread&page=2&limit=10&sort=name&order=ASC", nil)

	handler.List(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "period", mockSvc.listFilter.Search)
	require.Equal(t, "spread", mockSvc.listFilter.Strategy)
	require.Equal(t, 2, mockSvc.listFilter.Page)
	require.Equal(t, 10, mockSvc.listFilter.PageSize)
	require.Equal(t, "name", mockSvc.listFilter.SortBy)
	require.Equal(t, "ASC", mockSvc.listFilter.SortOrder)
}

func TestSeatingHandlerGetNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &seatingServiceMock{
		chartErr: appErrors.Clone(appErrors.ErrNotFound, "chart not found"),
	}
	handler := NewSeatingHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/seating/charts/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Get(c)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSeatingHandlerDelete(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewSeatingHandler(&seatingServiceMock{})

	c, w := newGinContext(http.MethodDelete, "/seating/charts/chart-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "chart-1"}}

	handler.Delete(c)
	require.Equal(t, http.StatusNoContent, w.Code)
}

func TestSeatingHandlerText(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mockSvc := &seatingServiceMock{text: "FRONT OF CLASSROOM\n"}
	handler := NewSeatingHandler(mockSvc)

	c, w := newGinContext(http.MethodGet, "/seating/charts/chart-1/text", nil)
	c.Params = gin.Params{{Key: "id", Value: "chart-1"}}

	handler.Text(c)
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "FRONT OF CLASSROOM")
	require.Contains(t, w.Header().Get("Content-Type"), "text/plain")
}
