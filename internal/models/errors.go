package models

import (
	"errors"
	"fmt"
)

// Request related errors. These are the caller's fault and map to 400.
var (
	ErrInvalidBody = errors.New("Invalid request body")
	ErrURLRequired = errors.New("URL is required")
	ErrInvalidURL  = errors.New("Invalid URL format. Please include http:// or https://")
)

// Configuration related errors. A deployment defect, maps to 500.
var (
	ErrAPIKeyMissing = errors.New("Server configuration error: API key missing")
)

// IsBadRequest reports whether err belongs to the client error family.
func IsBadRequest(err error) bool {
	return errors.Is(err, ErrInvalidBody) ||
		errors.Is(err, ErrURLRequired) ||
		errors.Is(err, ErrInvalidURL)
}

// IsServerConfiguration reports whether err means the server is missing required setup.
func IsServerConfiguration(err error) bool {
	return errors.Is(err, ErrAPIKeyMissing)
}

// URLError carries the offending input alongside a BadRequest sentinel.
type URLError struct {
	Input string
	Err   error
}

func (ue *URLError) Error() string {
	return fmt.Sprintf("%v: %q", ue.Err, ue.Input)
}

func (ue *URLError) Unwrap() error {
	return ue.Err
}
