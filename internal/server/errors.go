package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/job-tailor/internal/llm"
	"github.com/jonathan/job-tailor/internal/store"
)

// HTTPStatus maps domain errors to response codes. Every handler funnels its
// errors through here; individual handlers never pick status codes.
//
//	validation        -> 400
//	not found         -> 404
//	unreadable URL    -> 422
//	malformed model   -> 502
//	provider down     -> 503
func HTTPStatus(err error) int {
	var (
		validationErr   *store.ValidationError
		notFoundErr     *store.NotFoundError
		extractionErr   *llm.ExtractionError
		malformedErr    *llm.MalformedResponseError
		connectivityErr *llm.ConnectivityError
	)
	switch {
	case errors.As(err, &validationErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr):
		return http.StatusNotFound
	case errors.As(err, &extractionErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &malformedErr):
		return http.StatusBadGateway
	case errors.As(err, &connectivityErr):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
