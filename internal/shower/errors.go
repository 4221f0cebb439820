package shower

import (
	"errors"
	"fmt"
)

// ErrorCode categorizes shower errors.
type ErrorCode string

const (
	// ErrCodeInvalidParameter indicates a run parameter failed validation.
	ErrCodeInvalidParameter ErrorCode = "INVALID_PARAMETER"

	// ErrCodeGenerationLimit indicates a run exceeded the generation cap.
	ErrCodeGenerationLimit ErrorCode = "GENERATION_LIMIT"
)

// ParamError is returned before any simulation work starts when a run
// parameter is out of range. No partial result accompanies it.
type ParamError struct {
	// Code is always ErrCodeInvalidParameter.
	Code ErrorCode

	// Field names the offending parameter (e.g. "step_fraction").
	Field string

	// Message is a human-readable description of the violated constraint.
	Message string
}

// Error implements the error interface.
func (e *ParamError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s: %s", e.Code, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// IsInvalidParameter returns true if err is (or wraps) a ParamError.
func IsInvalidParameter(err error) bool {
	var pe *ParamError
	return errors.As(err, &pe)
}

func invalid(field, format string, args ...any) *ParamError {
	return &ParamError{
		Code:    ErrCodeInvalidParameter,
		Field:   field,
		Message: fmt.Sprintf(format, args...),
	}
}

// GenerationLimitError is returned when a run is still alive after the
// engine's generation cap. Terminating inputs never hit the default cap;
// a zero ionization loss can keep a soft charged particle alive forever.
type GenerationLimitError struct {
	Generations int // generations completed when the run was stopped
	Population  int // live entities at that point
	Limit       int // configured cap
}

// Error implements the error interface.
func (e *GenerationLimitError) Error() string {
	return fmt.Sprintf("%s: shower still has %d live entities after %d generations (limit %d)",
		ErrCodeGenerationLimit, e.Population, e.Generations, e.Limit)
}

// IsGenerationLimit returns true if err is (or wraps) a GenerationLimitError.
func IsGenerationLimit(err error) bool {
	var ge *GenerationLimitError
	return errors.As(err, &ge)
}
