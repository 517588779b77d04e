package population

import (
	"errors"
	"fmt"
	"iter"
	"maps"
	"math"
	"slices"
	"strconv"
	"strings"

	apperrors "statepop/internal/errors"
	"statepop/pkg/contracts/domain"
)

// Resolution is the outcome of resolving a single year
type Resolution struct {
	Value      int64
	Estimation domain.Estimation
}

// Determined reports whether the resolution carries a value
func (r Resolution) Determined() bool {
	return r.Estimation != domain.Undetermined
}

// Series holds the sparse known observations of one state.
// The zero value is not usable; construct with NewSeries.
type Series struct {
	state domain.State
	known map[int]int64
	// sorted view of the keys of known, rebuilt lazily after writes
	years []int
	dirty bool
}

// NewSeries creates an empty series for state
func NewSeries(state domain.State) *Series {
	return &Series{
		state: state,
		known: make(map[int]int64),
	}
}

// State returns the state this series belongs to
func (s *Series) State() domain.State {
	return s.state
}

// Len returns the number of known years
func (s *Series) Len() int {
	return len(s.known)
}

// AddObservation stores population for year, rounded half up. An existing value is overwritten.
func (s *Series) AddObservation(year int, population float64) {
	s.set(year, RoundHalfUp(population))
}

// AddRawObservation parses year and population as they appear in an input table and stores them
func (s *Series) AddRawObservation(year, population string) error {
	y, err := parseYear(year)
	if err != nil {
		return err
	}

	raw := strings.TrimSpace(population)
	p, err := strconv.ParseFloat(raw, 64)
	if err == nil && (math.IsNaN(p) || math.IsInf(p, 0)) {
		err = errors.New("not a finite number")
	}
	if err != nil {
		return apperrors.NewAppValidationError(fmt.Sprintf("invalid population %q", population), err)
	}
	if p < 0 {
		return fmt.Errorf("%s %d: %w", s.state.Name, y, ErrNegativePopulation)
	}

	s.AddObservation(y, p)
	return nil
}

func parseYear(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if y, err := strconv.Atoi(raw); err == nil {
		return y, nil
	}

	f, err := strconv.ParseFloat(raw, 64)
	if err == nil && f != math.Trunc(f) {
		err = errors.New("not an integral value")
	}
	if err != nil {
		return 0, apperrors.NewAppValidationError(fmt.Sprintf("invalid year %q", raw), err)
	}
	return int(f), nil
}

func (s *Series) set(year int, population int64) {
	if _, exists := s.known[year]; !exists {
		s.dirty = true
	}
	s.known[year] = population
}

// KnownYears returns the years with observations in ascending order
func (s *Series) KnownYears() []int {
	return slices.Clone(s.sortedYears())
}

// Observations returns the known figures in ascending year order
func (s *Series) Observations() []domain.Observation {
	years := s.sortedYears()
	out := make([]domain.Observation, len(years))
	for i, y := range years {
		out[i] = domain.Observation{Year: y, Population: s.known[y]}
	}
	return out
}

func (s *Series) sortedYears() []int {
	if s.dirty || len(s.years) != len(s.known) {
		s.years = slices.Sorted(maps.Keys(s.known))
		s.dirty = false
	}
	return s.years
}

// EarliestYear returns the first known year
func (s *Series) EarliestYear() (int, error) {
	years := s.sortedYears()
	if len(years) == 0 {
		return 0, fmt.Errorf("%s: %w", s.state.Name, ErrInsufficientData)
	}
	return years[0], nil
}

// LatestYear returns the last known year
func (s *Series) LatestYear() (int, error) {
	years := s.sortedYears()
	if len(years) == 0 {
		return 0, fmt.Errorf("%s: %w", s.state.Name, ErrInsufficientData)
	}
	return years[len(years)-1], nil
}

// YearBefore returns the largest known year strictly before year
func (s *Series) YearBefore(year int) (int, bool) {
	years := s.sortedYears()
	i, _ := slices.BinarySearch(years, year)
	if i == 0 {
		return 0, false
	}
	return years[i-1], true
}

// YearAfter returns the smallest known year strictly after year
func (s *Series) YearAfter(year int) (int, bool) {
	years := s.sortedYears()
	i, found := slices.BinarySearch(years, year)
	if found {
		i++
	}
	if i >= len(years) {
		return 0, false
	}
	return years[i], true
}

// ValueAt resolves year. It never fails: missing data and years outside the
// known span resolve to Undetermined.
func (s *Series) ValueAt(year int) Resolution {
	years := s.sortedYears()
	if len(years) == 0 || year < years[0] || year > years[len(years)-1] {
		return Resolution{Estimation: domain.Undetermined}
	}

	if v, ok := s.known[year]; ok {
		return Resolution{Value: v, Estimation: domain.Known}
	}

	prev, _ := s.YearBefore(year)
	next, _ := s.YearAfter(year)
	v, _ := Interpolate(year, prev, next, s.known[prev], s.known[next])
	return Resolution{Value: v, Estimation: domain.Estimated}
}

// PopulationAt returns the value at year or an error when it cannot be determined
func (s *Series) PopulationAt(year int) (int64, error) {
	if s.Len() == 0 {
		return 0, fmt.Errorf("%s: %w", s.state.Name, ErrInsufficientData)
	}
	r := s.ValueAt(year)
	if !r.Determined() {
		return 0, fmt.Errorf("%s %d: %w", s.state.Name, year, ErrOutOfRange)
	}
	return r.Value, nil
}

// Interpolate computes the value at year on the straight line through
// (startYear, startPop) and (endYear, endPop).
func Interpolate(year, startYear, endYear int, startPop, endPop int64) (int64, error) {
	if year < startYear || year > endYear {
		return 0, fmt.Errorf("%d not in [%d, %d]: %w", year, startYear, endYear, ErrOutOfRange)
	}
	if startYear == endYear {
		return startPop, nil
	}

	growth := float64(endPop-startPop) / float64(endYear-startYear)
	return RoundHalfUp(float64(startPop) + growth*float64(year-startYear)), nil
}

// Record resolves year into an output record
func (s *Series) Record(year int) domain.PopulationRecord {
	r := s.ValueAt(year)
	rec := domain.PopulationRecord{
		Year:       year,
		State:      s.state.Name,
		StateCode:  s.state.Code,
		Estimation: r.Estimation,
	}
	if r.Determined() {
		v := r.Value
		rec.Population = &v
	}
	return rec
}

// ExportRange yields one record per year in [start, end]. The sequence is
// lazy and may be ranged over any number of times.
func (s *Series) ExportRange(start, end int) iter.Seq[domain.PopulationRecord] {
	return func(yield func(domain.PopulationRecord) bool) {
		if start > end {
			return
		}
		// stop on end itself so that end == math.MaxInt cannot wrap around
		for year := start; ; year++ {
			if !yield(s.Record(year)) || year == end {
				return
			}
		}
	}
}

// maxPrealloc caps the capacity Records reserves up front
const maxPrealloc = 1 << 16

// Records collects ExportRange into a slice
func (s *Series) Records(start, end int) []domain.PopulationRecord {
	if start > end {
		return []domain.PopulationRecord{}
	}
	out := make([]domain.PopulationRecord, 0, min(uint64(end)-uint64(start), maxPrealloc-1)+1)
	for rec := range s.ExportRange(start, end) {
		out = append(out, rec)
	}
	return out
}
