package domain

import "errors"

var (
	// Validation reasons carried by ValidationError.
	ErrNameRequired    = errors.New("name required")
	ErrCostNotNumber   = errors.New("cost must be a number")
	ErrCostNotPositive = errors.New("cost must be positive")
	ErrCostOutOfRange  = errors.New("cost out of range")

	// Session errors
	ErrSessionNotFound = errors.New("session not found")
)

// Entry fields a ValidationError can point at.
const (
	FieldName = "name"
	FieldCost = "cost"
)

// ValidationError reports why a candidate entry was rejected and which input
// field the message belongs next to.
type ValidationError struct {
	Field  string
	Reason error
}

func (e *ValidationError) Error() string {
	return e.Reason.Error()
}

func (e *ValidationError) Unwrap() error {
	return e.Reason
}

func newValidationError(field string, reason error) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// IsValidationError reports whether err is a ValidationError and returns it.
func IsValidationError(err error) (*ValidationError, bool) {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr, true
	}
	return nil, false
}
