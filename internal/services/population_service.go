package services

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"statepop/internal/config"
	"statepop/internal/dataprocessing"
	"statepop/internal/exporter"
	"statepop/internal/infrastructure"
	"statepop/internal/integrity"
	"statepop/internal/population"
	"statepop/internal/validation"
	"statepop/pkg/contracts/domain"
)

// DensifyRequest describes one densify run. Paths are used as given; callers
// resolve relative paths beforehand.
type DensifyRequest struct {
	Input     string
	Output    string
	StartYear int
	EndYear   int
	Columns   []string
}

// NewDensifyRequest builds a request from the densify section of the configuration
func NewDensifyRequest(cfg config.DensifyConfig) DensifyRequest {
	return DensifyRequest{
		Input:     cfg.Input,
		Output:    cfg.Output,
		StartYear: cfg.StartYear,
		EndYear:   cfg.EndYear,
		Columns:   slices.Clone(cfg.Columns),
	}
}

// DensifyResult summarizes a completed run
type DensifyResult struct {
	RunID           string           `json:"run_id"`
	Input           string           `json:"input"`
	Output          string           `json:"output"`
	RowsLoaded      int              `json:"rows_loaded"`
	RecordsExported int              `json:"records_exported"`
	InputChecksum   string           `json:"input_checksum,omitempty"`
	OutputChecksum  string           `json:"output_checksum,omitempty"`
	Stats           population.Stats `json:"stats"`
	Duration        time.Duration    `json:"duration"`
}

// PopulationService runs densify jobs and loads datasets for the query server
type PopulationService struct {
	validator *validation.FileValidator
	exporter  *exporter.PopulationExporter
	tracer    trace.Tracer
	metrics   *infrastructure.DensifyMetrics
	logger    *slog.Logger
}

// NewPopulationService creates the service. A nil providers disables tracing
// and metrics; a nil logger falls back to the slog default.
func NewPopulationService(providers *infrastructure.OTelProviders, logger *slog.Logger) (*PopulationService, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = infrastructure.WithComponent(logger, "population_service")

	s := &PopulationService{
		validator: validation.NewFileValidator(logger),
		exporter:  exporter.NewPopulationExporter(nil, logger),
		tracer:    otel.Tracer(infrastructure.MeterName),
		logger:    logger,
	}

	if providers != nil {
		if providers.Tracer != nil {
			s.tracer = providers.Tracer
		}
		if providers.Meter != nil {
			m, err := infrastructure.CreateDensifyMetrics(providers.Meter)
			if err != nil {
				return nil, fmt.Errorf("failed to create densify metrics: %w", err)
			}
			s.metrics = m
		}
	}
	return s, nil
}

// Densify reads req.Input, fills every state and year in [StartYear, EndYear]
// and writes the result to req.Output. Nothing is written unless every stage
// before the write succeeded.
func (s *PopulationService) Densify(ctx context.Context, req DensifyRequest) (*DensifyResult, error) {
	start := time.Now()
	ctx = infrastructure.EnsureTraceID(ctx)
	result := &DensifyResult{
		RunID:  infrastructure.GetTraceID(ctx),
		Input:  req.Input,
		Output: req.Output,
	}

	ctx, span := s.tracer.Start(ctx, "densify", trace.WithAttributes(
		attribute.String("densify.run_id", result.RunID),
		attribute.String("densify.input", req.Input),
		attribute.String("densify.output", req.Output),
		attribute.Int("densify.start_year", req.StartYear),
		attribute.Int("densify.end_year", req.EndYear),
	))
	defer span.End()

	err := s.densify(ctx, req, result)
	result.Duration = time.Since(start)
	infrastructure.RecordDensifyRun(ctx, s.metrics, result.RowsLoaded, result.RecordsExported, result.Duration, err)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return nil, err
	}

	s.logger.InfoContext(ctx, "Finished!",
		slog.String("run_id", result.RunID),
		slog.Int("rows_loaded", result.RowsLoaded),
		slog.Int("records_exported", result.RecordsExported),
		slog.Int("states_with_data", result.Stats.StatesWithData),
		slog.String("output_checksum", result.OutputChecksum),
		slog.Duration("duration", result.Duration))
	return result, nil
}

func (s *PopulationService) densify(ctx context.Context, req DensifyRequest, result *DensifyResult) error {
	cols, err := population.ColumnsFromNames(req.Columns)
	if err != nil {
		return err
	}

	err = s.stage(ctx, "validate", func(context.Context) error {
		if err := s.validator.ValidateInputFile(req.Input); err != nil {
			return err
		}
		return s.validator.ValidateOutputDirectory(req.Output)
	})
	if err != nil {
		return err
	}

	result.InputChecksum = s.checksum(ctx, req.Input)

	s.logger.InfoContext(ctx, "Reading raw query results from input csv...", slog.String("input", req.Input))
	processor, err := s.load(ctx, req.Input, cols)
	if err != nil {
		return err
	}
	result.Stats = processor.Stats()
	result.RowsLoaded = result.Stats.RowsLoaded

	s.logger.InfoContext(ctx, "Calculating estimated population for missing years...",
		slog.Int("start_year", req.StartYear),
		slog.Int("end_year", req.EndYear))
	var records []domain.PopulationRecord
	err = s.stage(ctx, "estimate", func(ctx context.Context) error {
		records = slices.Collect(processor.Export(req.StartYear, req.EndYear))
		infrastructure.AddSpanEvent(ctx, "records.computed", attribute.Int("records", len(records)))
		return ctx.Err()
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "Saving processed population data to export csv...", slog.String("output", req.Output))
	err = s.stage(ctx, "write", func(context.Context) error {
		return s.exporter.WriteRecords(req.Output, records)
	})
	if err != nil {
		return err
	}
	result.RecordsExported = len(records)
	result.OutputChecksum = s.checksum(ctx, req.Output)
	return nil
}

// checksum fingerprints path. Failures are logged and yield "".
func (s *PopulationService) checksum(ctx context.Context, path string) string {
	d, err := integrity.Checksum(path)
	if err != nil {
		s.logger.WarnContext(ctx, "Failed to checksum file",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return ""
	}
	return d.String()
}

// LoadDataset reads and loads path into a new processor
func (s *PopulationService) LoadDataset(ctx context.Context, path string, columns []string) (*population.Processor, error) {
	cols, err := population.ColumnsFromNames(columns)
	if err != nil {
		return nil, err
	}

	ctx, span := s.tracer.Start(ctx, "load_dataset", trace.WithAttributes(attribute.String("dataset.path", path)))
	defer span.End()

	err = s.stage(ctx, "validate", func(context.Context) error {
		return s.validator.ValidateInputFile(path)
	})
	if err != nil {
		return nil, err
	}

	processor, err := s.load(ctx, path, cols)
	if err != nil {
		return nil, err
	}

	stats := processor.Stats()
	s.logger.InfoContext(ctx, "Dataset loaded",
		slog.String("path", path),
		slog.Int("rows", stats.RowsLoaded),
		slog.Int("states_with_data", stats.StatesWithData))
	return processor, nil
}

func (s *PopulationService) load(ctx context.Context, path string, cols population.ColumnMapping) (*population.Processor, error) {
	var rows []domain.Row
	err := s.stage(ctx, "read", func(ctx context.Context) error {
		var err error
		rows, err = dataprocessing.ReadRows(path)
		infrastructure.AddSpanEvent(ctx, "rows.read", attribute.Int("rows", len(rows)))
		return err
	})
	if err != nil {
		return nil, err
	}

	processor := population.NewProcessor()
	err = s.stage(ctx, "load", func(context.Context) error {
		return processor.Load(rows, cols)
	})
	if err != nil {
		return nil, err
	}
	return processor, nil
}

// stage runs fn in a child span and logs failures
func (s *PopulationService) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "densify."+name)
	defer span.End()

	if err := fn(ctx); err != nil {
		infrastructure.RecordError(ctx, err)
		s.logger.ErrorContext(ctx, "Stage failed",
			slog.String("stage", name),
			slog.String("error", err.Error()))
		return err
	}
	return nil
}
