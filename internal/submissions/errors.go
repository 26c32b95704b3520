package submissions

import (
	"errors"
	"net/http"
)

var (
	ErrNotFound        = errors.New("submission not found")
	ErrDuplicate       = errors.New("submission already exists")
	ErrInvalidCategory = errors.New("invalid category")
	ErrInvalidField    = errors.New("invalid field")
	ErrNotTrashed      = errors.New("submission is not in the trash")
)

// MapHTTPStatus maps submission errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrDuplicate), errors.Is(err, ErrNotTrashed):
		return http.StatusConflict
	case errors.Is(err, ErrInvalidCategory), errors.Is(err, ErrInvalidField):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
