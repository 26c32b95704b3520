package intake

import (
	"errors"
	"net/http"

	"github.com/JaimeStill/warden/internal/pipeline"
	"github.com/JaimeStill/warden/internal/submissions"
)

var (
	ErrRejected       = errors.New("submission contains prohibited content")
	ErrUnknownForm    = errors.New("unknown feedback form")
	ErrInvalidPayload = errors.New("invalid submission payload")
)

// MapHTTPStatus maps intake errors to HTTP status codes.
func MapHTTPStatus(err error) int {
	switch {
	case errors.Is(err, ErrRejected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, ErrUnknownForm):
		return http.StatusNotFound
	case errors.Is(err, ErrInvalidPayload):
		return http.StatusBadRequest
	case errors.Is(err, pipeline.ErrPersist):
		return http.StatusServiceUnavailable
	default:
		return submissions.MapHTTPStatus(err)
	}
}
