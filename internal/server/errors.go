// Package server provides the HTTP REST API for the job advisor.
package server

import (
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/justin/job-advisor/internal/builder"
	"github.com/justin/job-advisor/internal/llm"
)

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var notFound *builder.NotFoundError
	var invalidState *builder.InvalidStateError
	var unavailable *builder.GenerationUnavailableError
	var genErr *llm.GenerationError
	var validationErrs validator.ValidationErrors

	switch {
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &invalidState):
		return http.StatusConflict
	case errors.As(err, &unavailable), errors.As(err, &genErr):
		return http.StatusBadGateway
	case errors.As(err, &validationErrs):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// serviceError writes an error response with the status code mapped from
// the error type. 502 responses carry retryable: true so clients know the
// request can be reissued as-is.
func (s *Server) serviceError(w http.ResponseWriter, err error) {
	status := HTTPStatus(err)
	body := map[string]any{"error": err.Error()}
	if status == http.StatusBadGateway {
		body["retryable"] = true
	}
	s.jsonResponse(w, status, body)
}
