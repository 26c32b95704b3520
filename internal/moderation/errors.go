package moderation

import (
	"errors"
	"net/http"
)

var (
	// ErrInvalidDictionaries indicates a dictionary document failed validation.
	ErrInvalidDictionaries = errors.New("invalid dictionaries")
	// ErrEmptyText indicates an assess request carried no text field.
	ErrEmptyText = errors.New("text is required")
)

// MapHTTPStatus maps moderation errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrEmptyText):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
