package population

import (
	"errors"
	"fmt"
	"iter"

	apperrors "statepop/internal/errors"
	"statepop/internal/states"
	"statepop/pkg/contracts/domain"
)

// Default input column names
const (
	DefaultEntityColumn     = "stateLabel"
	DefaultYearColumn       = "year"
	DefaultPopulationColumn = "population"
)

// ColumnMapping names the input columns holding the state, the year and the population
type ColumnMapping struct {
	Entity     string
	Year       string
	Population string
}

// DefaultColumns returns the stateLabel, year, population mapping
func DefaultColumns() ColumnMapping {
	return ColumnMapping{
		Entity:     DefaultEntityColumn,
		Year:       DefaultYearColumn,
		Population: DefaultPopulationColumn,
	}
}

// ColumnsFromNames builds a mapping from an ordered list of column names.
// At least three names are required; only the first three are used.
func ColumnsFromNames(names []string) (ColumnMapping, error) {
	if len(names) < 3 {
		return ColumnMapping{}, apperrors.NewConfigError(
			fmt.Sprintf("at least 3 column names are required (state, year, population), got %d", len(names)), nil)
	}
	return ColumnMapping{Entity: names[0], Year: names[1], Population: names[2]}, nil
}

// Stats summarizes what a processor has loaded
type Stats struct {
	States         int `json:"states"`
	StatesWithData int `json:"states_with_data"`
	Observations   int `json:"observations"`
	RowsLoaded     int `json:"rows_loaded"`
}

// Processor owns one Series per reference-table state and runs the load then
// export pipeline. It is not safe for concurrent Load calls; once loading is
// finished the read methods may be used from multiple goroutines.
type Processor struct {
	series []*Series
	byName map[string]*Series
	byCode map[string]*Series
	rows   int
}

// NewProcessor creates a processor over the 50 US states
func NewProcessor() *Processor {
	return NewProcessorWithStates(states.All())
}

// NewProcessorWithStates creates a processor over a custom reference table.
// Export order follows the order of list.
func NewProcessorWithStates(list []domain.State) *Processor {
	p := &Processor{
		series: make([]*Series, 0, len(list)),
		byName: make(map[string]*Series, len(list)),
		byCode: make(map[string]*Series, len(list)),
	}
	for _, st := range list {
		s := NewSeries(st)
		p.series = append(p.series, s)
		p.byName[st.Name] = s
		p.byCode[st.Code] = s
	}
	return p
}

// Load adds every row to the series of the state it names. Loading is
// cumulative across calls. An unknown state name aborts the load; rows before
// it stay applied.
func (p *Processor) Load(rows []domain.Row, cols ColumnMapping) error {
	for i, row := range rows {
		if err := p.loadRow(row, cols); err != nil {
			var appErr *apperrors.AppError
			if errors.As(err, &appErr) {
				appErr.WithContext("row", i+1)
			}
			return err
		}
		p.rows++
	}

	for _, s := range p.series {
		s.sortedYears()
	}
	return nil
}

func (p *Processor) loadRow(row domain.Row, cols ColumnMapping) error {
	name, ok := row[cols.Entity]
	if !ok {
		return apperrors.NewAppValidationError(fmt.Sprintf("missing column %q", cols.Entity), nil)
	}
	year, ok := row[cols.Year]
	if !ok {
		return apperrors.NewAppValidationError(fmt.Sprintf("missing column %q", cols.Year), nil)
	}
	pop, ok := row[cols.Population]
	if !ok {
		return apperrors.NewAppValidationError(fmt.Sprintf("missing column %q", cols.Population), nil)
	}

	s, ok := p.byName[name]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("state %q", name), ErrUnknownEntity).
			WithContext("state", name)
	}
	return s.AddRawObservation(year, pop)
}

// Export yields the records of every state in reference-table order, each
// covering [start, end] in ascending years. Nothing is yielded when start > end.
func (p *Processor) Export(start, end int) iter.Seq[domain.PopulationRecord] {
	return func(yield func(domain.PopulationRecord) bool) {
		for _, s := range p.series {
			for rec := range s.ExportRange(start, end) {
				if !yield(rec) {
					return
				}
			}
		}
	}
}

// Series returns the series for a state name
func (p *Processor) Series(name string) (*Series, bool) {
	s, ok := p.byName[name]
	return s, ok
}

// SeriesByCode returns the series for a two-letter state code
func (p *Processor) SeriesByCode(code string) (*Series, bool) {
	s, ok := p.byCode[code]
	return s, ok
}

// All returns the series in reference-table order
func (p *Processor) All() []*Series {
	out := make([]*Series, len(p.series))
	copy(out, p.series)
	return out
}

// Stats reports how much data has been loaded
func (p *Processor) Stats() Stats {
	st := Stats{States: len(p.series), RowsLoaded: p.rows}
	for _, s := range p.series {
		if n := s.Len(); n > 0 {
			st.StatesWithData++
			st.Observations += n
		}
	}
	return st
}
