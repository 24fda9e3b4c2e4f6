package service

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation matches every *ValidationError
	ErrValidation = errors.New("validation failed")

	ErrMissingField   = errors.New("missing required field")
	ErrInvalidArea    = errors.New("invalid area")
	ErrInvalidNumeric = errors.New("invalid numeric value")

	// ErrModelUnavailable means the model or vocabulary artifact failed to load
	ErrModelUnavailable = errors.New("model not loaded properly")

	// ErrFeatureSchemaMismatch matches every *FeatureSchemaMismatchError
	ErrFeatureSchemaMismatch = errors.New("feature schema mismatch")

	// ErrPredictionFailed wraps unexpected failures during scoring
	ErrPredictionFailed = errors.New("prediction failed")

	// ErrHistoryDisabled is returned by history lookups when no audit store is configured
	ErrHistoryDisabled = errors.New("prediction history is disabled")

	// ErrPredictionNotFound is returned for unknown prediction ids
	ErrPredictionNotFound = errors.New("prediction not found")
)

// ValidationError is a client-facing input problem
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// Is makes every ValidationError match ErrValidation
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// FeatureSchemaMismatchError means the built vector and the model disagree on length
type FeatureSchemaMismatchError struct {
	Got      int
	Expected int
}

func (e *FeatureSchemaMismatchError) Error() string {
	return fmt.Sprintf("Feature mismatch: got %d, expected %d", e.Got, e.Expected)
}

// Is makes every FeatureSchemaMismatchError match ErrFeatureSchemaMismatch
func (e *FeatureSchemaMismatchError) Is(target error) bool {
	return target == ErrFeatureSchemaMismatch
}
