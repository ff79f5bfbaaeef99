package service

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ntc490/seating-charter/internal/dto"
	"github.com/ntc490/seating-charter/internal/models"
	appErrors "github.com/ntc490/seating-charter/pkg/errors"
	"github.com/ntc490/seating-charter/pkg/export"
	"github.com/ntc490/seating-charter/pkg/storage"
)

type chartProviderStub struct {
	chart *models.SeatingChart
}

func (s chartProviderStub) StoredChart(ctx context.Context, id string) (*models.SeatingChart, error) {
	if s.chart == nil || s.chart.ID != id {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "chart not found")
	}
	return s.chart, nil
}

func exportTestChart() *models.SeatingChart {
	return &models.SeatingChart{
		ID:           "chart-1",
		Name:         "Period 3",
		Rows:         2,
		Columns:      2,
		Strategy:     "cluster",
		StudentCount: 2,
		Cells: models.ChartCells{
			{Row: 1, Column: 1, Students: []string{"Amy", "Ben"}},
			{Row: 1, Column: 2, Students: []string{}},
			{Row: 2, Column: 1, Blocked: true},
			{Row: 2, Column: 2, Students: []string{}},
		},
		CreatedAt: time.Now().UTC(),
	}
}

func newExportServiceForTest(t *testing.T) (*ExportService, *storage.LocalStorage) {
	t.Helper()
	dir := t.TempDir()
	files, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	cfg := ExportConfig{APIPrefix: "/api/v1", ResultTTL: time.Hour, JobTTL: time.Hour, Workers: 1, Retries: 1}
	svc := NewExportService(chartProviderStub{chart: exportTestChart()}, files, signer, nil, cfg, validator.New(), zap.NewNop(), export.NewCSVExporter(), export.NewPDFExporter())
	return svc, files
}

func waitForFinished(t *testing.T, svc *ExportService, jobID string) *dto.ExportStatusResponse {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		resp, err := svc.Status(context.Background(), jobID)
		require.NoError(t, err)
		switch resp.Status {
		case models.ExportStatusFinished:
			return resp
		case models.ExportStatusFailed:
			if resp.Error != nil {
				t.Fatalf("export job failed: %s", *resp.Error)
			}
			t.Fatal("export job failed")
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("job %s never finished", jobID)
	return nil
}

func TestExportServiceEnqueueCSV(t *testing.T) {
	svc, files := newExportServiceForTest(t)
	svc.Start(context.Background())
	t.Cleanup(svc.Stop)

	job, err := svc.Enqueue(context.Background(), "chart-1", dto.CreateExportRequest{Format: models.ExportFormatCSV})
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusQueued, job.Status)
	assert.Equal(t, "chart-1", job.ChartID)

	status := waitForFinished(t, svc, job.ID)
	require.NotNil(t, status.ResultURL)
	require.Contains(t, *status.ResultURL, "/api/v1/export/")
	require.NotNil(t, status.ExpiresAt)

	token := strings.TrimPrefix(*status.ResultURL, "/api/v1/export/")
	jobID, relPath, _, err := svc.ParseToken(token, false)
	require.NoError(t, err)
	assert.Equal(t, job.ID, jobID)

	info, err := os.Stat(files.Path(relPath))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestExportServiceEnqueueFloorPlanPDF(t *testing.T) {
	svc, files := newExportServiceForTest(t)
	svc.Start(context.Background())
	t.Cleanup(svc.Stop)

	job, err := svc.Enqueue(context.Background(), "chart-1", dto.CreateExportRequest{Format: models.ExportFormatPDF, FloorPlan: true})
	require.NoError(t, err)

	status := waitForFinished(t, svc, job.ID)
	require.NotNil(t, status.ResultURL)

	token := strings.TrimPrefix(*status.ResultURL, "/api/v1/export/")
	_, relPath, _, err := svc.ParseToken(token, false)
	require.NoError(t, err)
	assert.Contains(t, relPath, ".pdf")

	info, err := os.Stat(files.Path(relPath))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestExportServiceEnqueueFloorPlanRequiresPDF(t *testing.T) {
	svc, _ := newExportServiceForTest(t)

	_, err := svc.Enqueue(context.Background(), "chart-1", dto.CreateExportRequest{Format: models.ExportFormatCSV, FloorPlan: true})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appErrors.FromError(err).Code)
}

func TestExportServiceEnqueueUnknownChart(t *testing.T) {
	svc, _ := newExportServiceForTest(t)

	_, err := svc.Enqueue(context.Background(), "missing", dto.CreateExportRequest{Format: models.ExportFormatCSV})
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", appErrors.FromError(err).Code)
}

func TestExportServiceStatusUnknownJob(t *testing.T) {
	svc, _ := newExportServiceForTest(t)

	_, err := svc.Status(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", appErrors.FromError(err).Code)
}

func TestExportServiceResolveDownload(t *testing.T) {
	svc, _ := newExportServiceForTest(t)
	svc.Start(context.Background())
	t.Cleanup(svc.Stop)

	job, err := svc.Enqueue(context.Background(), "chart-1", dto.CreateExportRequest{Format: models.ExportFormatCSV})
	require.NoError(t, err)
	status := waitForFinished(t, svc, job.ID)

	token := strings.TrimPrefix(*status.ResultURL, "/api/v1/export/")
	download, err := svc.ResolveDownload(context.Background(), token)
	require.NoError(t, err)
	defer download.File.Close()
	assert.Equal(t, "text/csv", download.MimeType)
	assert.Greater(t, download.SizeBytes, int64(0))
	assert.Contains(t, download.Filename, ".csv")

	_, err = svc.ResolveDownload(context.Background(), "not-a-token")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appErrors.FromError(err).Code)
}

func TestExportServiceRenderJobPDFTable(t *testing.T) {
	svc, files := newExportServiceForTest(t)

	job := models.ExportJob{ID: "job-1", ChartID: "chart-1", Format: models.ExportFormatPDF}
	result, err := svc.renderJob(context.Background(), job)
	require.NoError(t, err)
	require.Contains(t, result.url, "/api/v1/export/")

	info, err := os.Stat(files.Path(result.relPath))
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}
