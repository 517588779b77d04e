package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"statepop/internal/population"
)

// StatsFunc reports statistics of the loaded dataset. ok is false when no
// dataset is loaded.
type StatsFunc func() (stats population.Stats, ok bool)

// HealthService provides health check functionality
type HealthService struct {
	version   string
	stats     StatsFunc
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// ServiceHealth represents individual service health
type ServiceHealth struct {
	Status  string            `json:"status"`
	Message string            `json:"message,omitempty"`
	Dataset *population.Stats `json:"dataset,omitempty"`
}

// NewHealthService creates a new health service. stats may be nil.
func NewHealthService(version string, stats StatsFunc, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("HealthService initialized", slog.String("version", version))

	return &HealthService{
		version:   version,
		stats:     stats,
		startTime: time.Now(),
		logger:    logger,
	}
}

// HealthCheck returns overall health status
func (hs *HealthService) HealthCheck(ctx context.Context) HealthStatus {
	status := HealthStatus{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services: map[string]interface{}{
			"dataset": hs.checkDataset(),
		},
	}

	hs.logger.DebugContext(ctx, "HealthCheck: completed",
		slog.String("status", status.Status),
		slog.String("uptime", time.Since(hs.startTime).String()))
	return status
}

// ReadinessCheck reports ready once a dataset is loaded
func (hs *HealthService) ReadinessCheck(ctx context.Context) HealthStatus {
	dataset := hs.checkDataset()
	status := HealthStatus{
		Status:    "ready",
		Timestamp: time.Now(),
		Version:   hs.version,
		Services:  map[string]interface{}{"dataset": dataset},
	}
	if dataset.Status != "ready" {
		status.Status = "not_ready"
	}
	return status
}

// LivenessCheck returns liveness status
func (hs *HealthService) LivenessCheck(ctx context.Context) HealthStatus {
	return HealthStatus{
		Status:    "alive",
		Timestamp: time.Now(),
		Version:   hs.version,
		Runtime: map[string]interface{}{
			"uptime":     time.Since(hs.startTime).Seconds(),
			"go_version": runtime.Version(),
			"goroutines": runtime.NumGoroutine(),
		},
	}
}

func (hs *HealthService) checkDataset() ServiceHealth {
	if hs.stats == nil {
		return ServiceHealth{Status: "not_ready", Message: ErrDatasetNotLoaded.Error()}
	}
	stats, ok := hs.stats()
	if !ok {
		return ServiceHealth{Status: "not_ready", Message: ErrDatasetNotLoaded.Error()}
	}
	return ServiceHealth{Status: "ready", Dataset: &stats}
}
