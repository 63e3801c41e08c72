package booking

import "errors"

var (
	ErrNotFound      = errors.New("booking not found")
	ErrForbidden     = errors.New("actor may not perform this transition")
	ErrInvalidStatus = errors.New("unknown booking status")
	ErrValidation    = errors.New("invalid booking request")
)
