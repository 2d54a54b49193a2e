package services

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound: the member or meal does not exist.
	ErrNotFound = errors.New("not found")
	// ErrValidation: input rejected before it reaches the pipeline.
	ErrValidation = errors.New("validation failed")
	// ErrConsistency: an internal invariant was violated.
	ErrConsistency = errors.New("consistency violation")

	ErrOracleTimeout     = errors.New("oracle timed out")
	ErrOracleMalformed   = errors.New("oracle response malformed")
	ErrOracleUnavailable = errors.New("oracle unavailable")

	ErrDetectorUnavailable = errors.New("no food detector configured")
)

// MalformedResponseError keeps the raw oracle reply for logging.
type MalformedResponseError struct {
	Raw    string
	Reason string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%s: %s", ErrOracleMalformed, e.Reason)
}

func (e *MalformedResponseError) Is(target error) bool { return target == ErrOracleMalformed }

func notFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
