package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrConflict              = errors.New("conflict")
	ErrEmbeddingUnavailable  = errors.New("embedding unavailable")
	ErrIndexUnavailable      = errors.New("vector index unavailable")
	ErrStorageUnavailable    = errors.New("storage unavailable")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

type EmbeddingFailureReason string

const (
	EmbeddingFailureTimeout         EmbeddingFailureReason = "timeout"
	EmbeddingFailureInvalidResponse EmbeddingFailureReason = "invalid_response"
	EmbeddingFailureUpstream        EmbeddingFailureReason = "upstream_error"
)

// EmbeddingError carries the reason code for a failed remote embedding call.
// It matches ErrEmbeddingUnavailable under errors.Is so callers can branch
// on the sentinel without losing the reason.
type EmbeddingError struct {
	Reason EmbeddingFailureReason
	Err    error
}

func (e *EmbeddingError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("embedding failed (%s): %v", e.Reason, e.Err)
	}
	return fmt.Sprintf("embedding failed (%s)", e.Reason)
}

func (e *EmbeddingError) Unwrap() error { return e.Err }

func (e *EmbeddingError) Is(target error) bool { return target == ErrEmbeddingUnavailable }

func NewEmbeddingError(reason EmbeddingFailureReason, err error) *EmbeddingError {
	return &EmbeddingError{Reason: reason, Err: err}
}

// EmbeddingReason extracts the reason code from an error chain, or "" when
// the error is not an embedding failure.
func EmbeddingReason(err error) EmbeddingFailureReason {
	var embErr *EmbeddingError
	if errors.As(err, &embErr) {
		return embErr.Reason
	}
	return ""
}
