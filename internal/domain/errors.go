package domain

import "errors"

var (
	// ErrInvalidRequest is returned when request parameters are invalid.
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidCode is returned when a scanned identifier is not a
	// usable barcode after normalization.
	ErrInvalidCode = errors.New("invalid product code")
)
