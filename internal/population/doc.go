// Package population densifies sparse historical population figures.
//
// A Series holds the known (year, population) observations of one state and
// resolves any year to a value tagged known, estimated or undetermined. A
// Processor owns one Series per state of the reference table, loads raw input
// rows into them, and exports a dense record stream for a year range.
//
// # Resolution
//
// For a series with known span [earliest, latest]:
//
//   - a year outside the span, or any year of a series without observations,
//     is undetermined and carries no value
//   - a known year returns its stored value
//   - any other year is interpolated linearly between the nearest known year
//     before it and the nearest known year after it, then rounded half away
//     from zero
//
// # Loading
//
// Loading is a separate pass from export. All rows are consumed before any
// year is resolved because an estimate may depend on observations that appear
// later in the input. Duplicate years overwrite earlier values.
//
// # Usage Example
//
//	p := population.NewProcessor()
//	if err := p.Load(rows, population.DefaultColumns()); err != nil {
//	    return err
//	}
//	for rec := range p.Export(1600, 2018) {
//	    ...
//	}
package population
