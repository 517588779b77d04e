package services

import (
	"context"
	"iter"
	"log/slog"
	"strings"

	apperrors "statepop/internal/errors"
	"statepop/internal/infrastructure"
	"statepop/internal/population"
	"statepop/pkg/contracts/domain"
)

// StateSummary describes a state of the reference table and the span of its
// known data. EarliestYear and LatestYear are nil for states without data.
type StateSummary struct {
	Name         string `json:"name"`
	Code         string `json:"code"`
	Observations int    `json:"observations"`
	EarliestYear *int   `json:"earliest_year"`
	LatestYear   *int   `json:"latest_year"`
}

// QueryService answers read-only questions about a loaded dataset. The
// processor must not be modified after it is handed to the service.
type QueryService struct {
	processor *population.Processor
	logger    *slog.Logger
}

// NewQueryService wraps a loaded processor
func NewQueryService(processor *population.Processor, logger *slog.Logger) *QueryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryService{
		processor: processor,
		logger:    infrastructure.WithComponent(logger, "query_service"),
	}
}

// States lists every state in reference-table order
func (q *QueryService) States(ctx context.Context) []StateSummary {
	all := q.processor.All()
	out := make([]StateSummary, 0, len(all))
	for _, s := range all {
		st := s.State()
		summary := StateSummary{Name: st.Name, Code: st.Code, Observations: s.Len()}
		if first, err := s.EarliestYear(); err == nil {
			summary.EarliestYear = &first
		}
		if last, err := s.LatestYear(); err == nil {
			summary.LatestYear = &last
		}
		out = append(out, summary)
	}
	return out
}

// StatePopulation returns the densified series of one state. Codes are
// matched case-insensitively.
func (q *QueryService) StatePopulation(ctx context.Context, code string, start, end int) ([]domain.PopulationRecord, error) {
	s, ok := q.processor.SeriesByCode(strings.ToUpper(code))
	if !ok {
		q.logger.DebugContext(ctx, "Unknown state code", slog.String("code", code))
		return nil, apperrors.NewNotFoundError("state code "+code, population.ErrUnknownEntity).
			WithContext("code", code)
	}
	return s.Records(start, end), nil
}

// StateObservations returns the known figures of one state
func (q *QueryService) StateObservations(ctx context.Context, code string) ([]domain.Observation, error) {
	s, ok := q.processor.SeriesByCode(strings.ToUpper(code))
	if !ok {
		return nil, apperrors.NewNotFoundError("state code "+code, population.ErrUnknownEntity).
			WithContext("code", code)
	}
	return s.Observations(), nil
}

// Population yields the records of every state for [start, end]
func (q *QueryService) Population(ctx context.Context, start, end int) iter.Seq[domain.PopulationRecord] {
	return q.processor.Export(start, end)
}

// Stats reports the loaded dataset statistics. It satisfies StatsFunc.
func (q *QueryService) Stats() (population.Stats, bool) {
	if q.processor == nil {
		return population.Stats{}, false
	}
	return q.processor.Stats(), true
}
