package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ntc490/seating-charter/internal/dto"
	"github.com/ntc490/seating-charter/internal/models"
	"github.com/ntc490/seating-charter/internal/render"
	appErrors "github.com/ntc490/seating-charter/pkg/errors"
	"github.com/ntc490/seating-charter/pkg/export"
	"github.com/ntc490/seating-charter/pkg/jobs"
	"github.com/ntc490/seating-charter/pkg/storage"
)

type chartProvider interface {
	StoredChart(ctx context.Context, id string) (*models.SeatingChart, error)
}

type fileStorage interface {
	Save(filename string, data []byte) (string, error)
	Open(filename string) (*os.File, error)
	Delete(filename string) error
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
	RenderFloorPlan(plan export.FloorPlan, title string) ([]byte, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix       string
	ResultTTL       time.Duration
	JobTTL          time.Duration
	CleanupInterval time.Duration
	Workers         int
	Retries         int
}

// ExportService renders stored charts to downloadable files through a
// background worker queue. Job state lives in memory and expires with
// the files it refers to.
type ExportService struct {
	charts    chartProvider
	storage   fileStorage
	csv       csvRenderer
	pdf       pdfRenderer
	signer    *storage.SignedURLSigner
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       ExportConfig

	store *jobStore
	queue *jobs.Queue
}

// NewExportService constructs an ExportService.
func NewExportService(charts chartProvider, files fileStorage, signer *storage.SignedURLSigner, metrics *MetricsService, cfg ExportConfig, validate *validator.Validate, logger *zap.Logger, csv csvRenderer, pdf pdfRenderer) *ExportService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = cfg.ResultTTL
	}
	if csv == nil {
		csv = export.NewCSVExporter()
	}
	if pdf == nil {
		pdf = export.NewPDFExporter()
	}

	svc := &ExportService{
		charts:    charts,
		storage:   files,
		csv:       csv,
		pdf:       pdf,
		signer:    signer,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
		cfg:       cfg,
		store:     newJobStore(cfg.JobTTL),
	}
	svc.queue = jobs.NewQueue("chart-exports", svc.process, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.Retries,
		Logger:     logger,
	})
	return svc
}

// Start launches the export workers and the retention sweeper.
func (s *ExportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
	if s.cfg.CleanupInterval > 0 {
		go s.cleanupLoop(ctx)
	}
}

// Stop drains the export workers.
func (s *ExportService) Stop() {
	s.queue.Stop()
}

// Enqueue verifies the chart exists and queues an export job for it.
func (s *ExportService) Enqueue(ctx context.Context, chartID string, req dto.CreateExportRequest) (*dto.ExportJobResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export request")
	}
	if req.FloorPlan && req.Format != models.ExportFormatPDF {
		return nil, appErrors.Clone(appErrors.ErrValidation, "floor plan exports require the pdf format")
	}
	if _, err := s.charts.StoredChart(ctx, chartID); err != nil {
		return nil, err
	}

	job := models.ExportJob{
		ID:        uuid.NewString(),
		ChartID:   chartID,
		Format:    req.Format,
		FloorPlan: req.FloorPlan,
		Status:    models.ExportStatusQueued,
		CreatedAt: time.Now().UTC(),
	}
	s.store.Save(job)

	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: "chart_export", Payload: job.ID}); err != nil {
		s.store.Delete(job.ID)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue export")
	}
	s.metrics.SetExportBacklog(s.queue.Pending())

	return &dto.ExportJobResponse{
		ID:      job.ID,
		ChartID: job.ChartID,
		Format:  job.Format,
		Status:  job.Status,
	}, nil
}

// Status reports the state of an export job.
func (s *ExportService) Status(ctx context.Context, jobID string) (*dto.ExportStatusResponse, error) {
	job, ok := s.store.Get(jobID)
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	return &dto.ExportStatusResponse{
		ID:        job.ID,
		ChartID:   job.ChartID,
		Format:    job.Format,
		Status:    job.Status,
		ResultURL: job.ResultURL,
		ExpiresAt: job.ExpiresAt,
		Error:     job.ErrorMessage,
	}, nil
}

// ParseToken validates download token metadata.
func (s *ExportService) ParseToken(token string, allowExpired bool) (jobID, relPath string, expiresAt time.Time, err error) {
	return s.signer.Parse(token, allowExpired)
}

// ExportDownload is a ready-to-stream export artifact.
type ExportDownload struct {
	File      *os.File
	Filename  string
	MimeType  string
	SizeBytes int64
	ExpiresAt time.Time
}

// ResolveDownload validates a signed token and opens the file it names.
func (s *ExportService) ResolveDownload(ctx context.Context, token string) (*ExportDownload, error) {
	_, relPath, expiresAt, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "invalid or expired download token")
	}
	file, err := s.storage.Open(relPath)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export file no longer available")
	}
	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read export file")
	}

	mimeType := "application/octet-stream"
	switch filepath.Ext(relPath) {
	case ".csv":
		mimeType = "text/csv"
	case ".pdf":
		mimeType = "application/pdf"
	}

	return &ExportDownload{
		File:      file,
		Filename:  filepath.Base(relPath),
		MimeType:  mimeType,
		SizeBytes: info.Size(),
		ExpiresAt: expiresAt,
	}, nil
}

// Open returns a handle to the stored file.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// Delete removes a stored export file.
func (s *ExportService) Delete(relPath string) error {
	return s.storage.Delete(relPath)
}

// Cleanup removes files older than ttl (defaults to configured ResultTTL when ttl <= 0).
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

func (s *ExportService) process(ctx context.Context, j jobs.Job) error {
	jobID, _ := j.Payload.(string)
	job, ok := s.store.Get(jobID)
	if !ok {
		return nil
	}
	s.store.Update(jobID, func(job *models.ExportJob) {
		job.Status = models.ExportStatusProcessing
	})

	result, err := s.renderJob(ctx, job)
	if err != nil {
		message := err.Error()
		s.store.Update(jobID, func(job *models.ExportJob) {
			job.Status = models.ExportStatusFailed
			job.ErrorMessage = &message
		})
		s.metrics.SetExportBacklog(s.queue.Pending())
		return err
	}

	now := time.Now().UTC()
	s.store.Update(jobID, func(job *models.ExportJob) {
		job.Status = models.ExportStatusFinished
		job.ResultURL = &result.url
		job.ExpiresAt = &result.expiresAt
		job.FinishedAt = &now
		job.ErrorMessage = nil
	})
	s.metrics.SetExportBacklog(s.queue.Pending())

	s.logger.Info("chart export finished",
		zap.String("job_id", job.ID),
		zap.String("chart_id", job.ChartID),
		zap.String("format", string(job.Format)),
		zap.String("path", result.relPath),
	)
	return nil
}

type renderedExport struct {
	relPath   string
	url       string
	expiresAt time.Time
}

func (s *ExportService) renderJob(ctx context.Context, job models.ExportJob) (*renderedExport, error) {
	model, err := s.charts.StoredChart(ctx, job.ChartID)
	if err != nil {
		return nil, err
	}
	chart := restoreChart(model)

	title := model.Name
	if title == "" {
		title = "Seating Chart"
	}

	var payload []byte
	switch {
	case job.Format == models.ExportFormatCSV:
		payload, err = s.csv.Render(render.ChartDataset(chart))
	case job.FloorPlan:
		payload, err = s.pdf.RenderFloorPlan(render.FloorPlan(chart), title)
	case job.Format == models.ExportFormatPDF:
		payload, err = s.pdf.Render(render.ChartDataset(chart), title)
	default:
		err = fmt.Errorf("unsupported format %s", job.Format)
	}
	if err != nil {
		return nil, err
	}

	relPath, err := s.storage.Save(s.buildFilename(job, model), payload)
	if err != nil {
		return nil, err
	}

	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}

	return &renderedExport{
		relPath:   relPath,
		url:       fmt.Sprintf("%s/export/%s", prefix, token),
		expiresAt: expiresAt,
	}, nil
}

func (s *ExportService) buildFilename(job models.ExportJob, chart *models.SeatingChart) string {
	base := chart.Name
	if base == "" {
		base = chart.ID
	}
	timestamp := time.Now().UTC().Format("20060102_150405")
	return fmt.Sprintf("charts/%s_%s.%s", sanitizeFilename(base), timestamp, job.Format)
}

func sanitizeFilename(raw string) string {
	if raw == "" {
		return "chart"
	}
	replacer := strings.NewReplacer(" ", "_", "/", "-", "\\", "-", ":", "-", "..", ".", "__", "_")
	result := replacer.Replace(raw)
	if len(result) > 100 {
		return result[:100]
	}
	return result
}

func (s *ExportService) cleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.Cleanup(0)
			if err != nil {
				s.logger.Warn("export cleanup failed", zap.Error(err))
				continue
			}
			if len(removed) > 0 {
				s.logger.Info("expired exports removed", zap.Int("count", len(removed)))
			}
			s.store.purgeExpired()
		}
	}
}

type jobStore struct {
	ttl   time.Duration
	mu    sync.RWMutex
	items map[string]models.ExportJob
}

func newJobStore(ttl time.Duration) *jobStore {
	return &jobStore{
		ttl:   ttl,
		items: make(map[string]models.ExportJob),
	}
}

func (s *jobStore) Save(job models.ExportJob) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[job.ID] = job
}

func (s *jobStore) Get(id string) (models.ExportJob, bool) {
	s.mu.RLock()
	job, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return models.ExportJob{}, false
	}
	if time.Since(job.CreatedAt) > s.ttl {
		s.Delete(id)
		return models.ExportJob{}, false
	}
	return job, true
}

func (s *jobStore) Update(id string, fn func(*models.ExportJob)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.items[id]
	if !ok {
		return
	}
	fn(&job)
	s.items[id] = job
}

func (s *jobStore) Delete(id string) {
	s.mu.Lock()
	delete(s.items, id)
	s.mu.Unlock()
}

func (s *jobStore) purgeExpired() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, job := range s.items {
		if time.Since(job.CreatedAt) > s.ttl {
			delete(s.items, id)
		}
	}
}
