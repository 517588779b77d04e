package domain

import "encoding/json"

// State is one entry of the static state reference table
type State struct {
	Name string `json:"name" validate:"required"`
	Code string `json:"code" validate:"required,len=2"`
}

// Observation is a known population figure for a single year
type Observation struct {
	Year       int   `json:"year"`
	Population int64 `json:"population" validate:"gte=0"`
}

// Estimation tells how a population value was obtained
type Estimation int

const (
	// Undetermined means the year lies outside the known span of the state
	Undetermined Estimation = iota
	// Known means the value was read from the input
	Known
	// Estimated means the value was linearly interpolated between two known years
	Estimated
)

// String returns the lower case name of the estimation state
func (e Estimation) String() string {
	switch e {
	case Known:
		return "known"
	case Estimated:
		return "estimated"
	default:
		return "undetermined"
	}
}

// Flag maps the estimation state onto the tri-state "Estimated" output column:
// false for known values, true for estimates and nil when undetermined.
func (e Estimation) Flag() *bool {
	switch e {
	case Known:
		f := false
		return &f
	case Estimated:
		t := true
		return &t
	default:
		return nil
	}
}

// MarshalJSON renders the estimation as its string name
func (e Estimation) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.String())
}

// PopulationRecord is one output row: the resolved population of a state in a year
type PopulationRecord struct {
	Year       int        `json:"year"`
	State      string     `json:"state"`
	StateCode  string     `json:"state_code"`
	Population *int64     `json:"population"`
	Estimation Estimation `json:"estimation"`
}

// Estimated returns the tri-state estimated flag of the record
func (r PopulationRecord) Estimated() *bool {
	return r.Estimation.Flag()
}

// Row is one input table row keyed by column header
type Row map[string]string
