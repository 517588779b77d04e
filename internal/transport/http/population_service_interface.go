package http

import (
	"context"
	"iter"

	"statepop/internal/services"
	"statepop/pkg/contracts/domain"
)

// PopulationServiceInterface defines the read operations the handlers need
type PopulationServiceInterface interface {
	States(ctx context.Context) []services.StateSummary
	StatePopulation(ctx context.Context, code string, start, end int) ([]domain.PopulationRecord, error)
	StateObservations(ctx context.Context, code string) ([]domain.Observation, error)
	Population(ctx context.Context, start, end int) iter.Seq[domain.PopulationRecord]
}
