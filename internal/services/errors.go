package services

import "errors"

// Service errors
var (
	ErrDatasetNotLoaded = errors.New("dataset not loaded")
)
