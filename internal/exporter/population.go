package exporter

import (
	"iter"
	"log/slog"
	"path/filepath"
	"slices"
	"strings"

	"statepop/internal/config"
	apperrors "statepop/internal/errors"
	"statepop/pkg/contracts/domain"
)

// PopulationExporter writes densified records as CSV or Excel
type PopulationExporter struct {
	csv    *CSVWriter
	paths  *config.Paths
	logger *slog.Logger
}

// NewPopulationExporter creates an exporter. paths may be nil.
func NewPopulationExporter(paths *config.Paths, logger *slog.Logger) *PopulationExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &PopulationExporter{
		csv:    NewCSVWriter(paths, logger),
		paths:  paths,
		logger: logger.With(slog.String("component", "population_exporter")),
	}
}

// Export collects every record from seq and then writes them to path. A path
// ending in .xlsx produces a workbook, anything else CSV. It returns the number
// of records written.
func (e *PopulationExporter) Export(path string, seq iter.Seq[domain.PopulationRecord]) (int, error) {
	records := slices.Collect(seq)
	if err := e.WriteRecords(path, records); err != nil {
		return 0, err
	}
	return len(records), nil
}

// WriteRecords writes already computed records to path
func (e *PopulationExporter) WriteRecords(path string, records []domain.PopulationRecord) error {
	var err error
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		full := path
		if e.paths != nil {
			full = e.paths.Resolve(path)
		}
		err = writeExcel(full, records)
	} else {
		rows := make([][]string, len(records))
		for i, rec := range records {
			rows[i] = FormatRecord(rec)
		}
		err = e.csv.WriteCSV(path, WriteOptions{Headers: PopulationHeaders, Records: rows})
	}
	if err != nil {
		e.logger.Error("Failed to write output",
			slog.String("path", path),
			slog.String("error", err.Error()))
		return apperrors.NewStorageError("failed to write output "+path, err)
	}

	e.logger.Debug("Output written",
		slog.String("path", path),
		slog.Int("records", len(records)))
	return nil
}

// WriteCSVStream writes every record of seq to sw and flushes it
func WriteCSVStream(sw *StreamWriter, seq iter.Seq[domain.PopulationRecord]) (int, error) {
	n := 0
	for rec := range seq {
		if err := sw.WriteRecord(FormatRecord(rec)); err != nil {
			return n, err
		}
		n++
	}
	return n, sw.Close()
}
