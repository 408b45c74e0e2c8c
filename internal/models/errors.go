package models

import "errors"

// Sentinel errors shared across repositories and services operating on these models.
var (
	ErrNotFound              = errors.New("record not found")
	ErrDuplicateKey          = errors.New("duplicate key violation")
	ErrInvalidID             = errors.New("invalid ID format")
	ErrRaceResultNotFound    = errors.New("race result not found")
	ErrInvalidRaceResult     = errors.New("invalid race result data")
	ErrPredictionNotFound    = errors.New("prediction not found")
	ErrPredictionDuplicate   = errors.New("prediction already exists")
)
