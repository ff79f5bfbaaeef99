package models

import "time"

// SystemMetrics represents runtime counters captured from instrumentation.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	ChartsGenerated          uint64    `json:"charts_generated"`
	GenerationFailures       uint64    `json:"generation_failures"`
	AverageAttempts          float64   `json:"average_attempts"`
	ExportBacklog            int       `json:"export_backlog"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
