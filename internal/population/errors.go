package population

import "errors"

var (
	// ErrInsufficientData is returned when a series has no observations
	ErrInsufficientData = errors.New("insufficient data")

	// ErrOutOfRange is returned when a year lies outside the known span
	ErrOutOfRange = errors.New("year is out of range")

	// ErrUnknownEntity is returned when an input row names a state that is not in the reference table
	ErrUnknownEntity = errors.New("unknown entity")

	// ErrNegativePopulation is returned for observations below zero
	ErrNegativePopulation = errors.New("population cannot be negative")
)
