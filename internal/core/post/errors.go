package post

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned for malformed ids and ids that match nothing.
	ErrNotFound = errors.New("post not found")
	// ErrForbiddenOrMissing covers both a missing post and a post the caller
	// does not own. Callers must not be able to tell the two apart.
	ErrForbiddenOrMissing = errors.New("post missing or not owned by caller")
	// ErrInvalidInput is returned when a search term is not text.
	ErrInvalidInput = errors.New("invalid input")
)

// ValidationError carries the accumulated, user-facing messages.
type ValidationError struct {
	Messages []string
	Err      error
}

func (e *ValidationError) Error() string {
	return "invalid post: " + strings.Join(e.Messages, "; ")
}

func (e *ValidationError) Unwrap() error { return e.Err }

type UpdateStatus string

const (
	UpdateSuccess UpdateStatus = "success"
	UpdateFailure UpdateStatus = "failure"
)

// UpdateResult is what an owner gets back from an update. A failure carries
// the validation messages; it is not an error.
type UpdateResult struct {
	Status UpdateStatus `json:"status"`
	Errors []string     `json:"errors,omitempty"`
}
