package calendar

import (
	"errors"
	"fmt"
)

// ErrValidation is the parent of every input rejection; the store is left
// untouched and nothing is persisted.
var ErrValidation = errors.New("invalid task")

var (
	ErrEmptyTitle        = fmt.Errorf("%w: title is required", ErrValidation)
	ErrMissingDate       = fmt.Errorf("%w: date is required", ErrValidation)
	ErrInvalidDate       = fmt.Errorf("%w: date must be YYYY-MM-DD", ErrValidation)
	ErrInvalidTime       = fmt.Errorf("%w: time must be HH:MM (24-hour)", ErrValidation)
	ErrInvalidColor      = fmt.Errorf("%w: unknown color", ErrValidation)
	ErrInvalidRecurrence = fmt.Errorf("%w: invalid recurrence rule", ErrValidation)
)

// ErrMalformedImport rejects an import document as a whole.
var ErrMalformedImport = errors.New("malformed import document")
