package session

import (
	"errors"
	"fmt"
)

// ErrSessionLocked is returned when save or terminate is called on a
// session that is terminated or closed.
var ErrSessionLocked = errors.New("session is locked")

// ValidationError carries field-addressable validation messages parsed
// from an API error payload. Field paths are indexed into the sent
// quantities array, e.g. "0.actual".
type ValidationError struct {
	// Code is the API error code, 400 for validation failures.
	Code int

	// Details maps a field path to its error messages.
	Details map[string][]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed (%d fields)", len(e.Details))
}

// AsValidationError unwraps err into a ValidationError if it is one.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
