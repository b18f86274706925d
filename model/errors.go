package model

import (
	"errors"
	"fmt"
)

// ValidationError reports a rejected catalog write.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// ErrSongNotFound is returned for updates and deletes on an unknown song id.
var ErrSongNotFound = errors.New("song not found")

// GenerationExhaustedError reports that every playlist generation attempt
// failed. It is the one propagating failure in the AI pipeline.
type GenerationExhaustedError struct {
	Mood     string
	Attempts int
	LastErr  error
}

func (e *GenerationExhaustedError) Error() string {
	return fmt.Sprintf("playlist generation for %q exhausted after %d attempts: %v", e.Mood, e.Attempts, e.LastErr)
}

func (e *GenerationExhaustedError) Unwrap() error {
	return e.LastErr
}
