package server

import (
	"errors"
	"net/http"

	"github.com/jonathan/job-search/internal/pipeline"
	"github.com/jonathan/job-search/internal/profile"
	"github.com/jonathan/job-search/internal/schemas"
)

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		validationErr *schemas.ValidationError
		malformedErr  *profile.MalformedInputError
		stepErr       *pipeline.StepError
		tooLarge      *http.MaxBytesError
	)
	switch {
	case errors.As(err, &validationErr):
		return http.StatusUnprocessableEntity
	case errors.As(err, &malformedErr):
		return http.StatusBadRequest
	case errors.As(err, &tooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.As(err, &stepErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// fieldErrorJSON is one validation failure in a response body
type fieldErrorJSON struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// errorBody renders err for a response, listing every field error when err
// is a validation failure.
func errorBody(err error) map[string]any {
	body := map[string]any{"error": err.Error()}
	var validationErr *schemas.ValidationError
	if errors.As(err, &validationErr) {
		fields := make([]fieldErrorJSON, 0, len(validationErr.Errors))
		for _, fe := range validationErr.Errors {
			fields = append(fields, fieldErrorJSON{Field: fe.Field, Message: fe.Message})
		}
		body["error"] = "validation failed"
		body["errors"] = fields
	}
	return body
}

// writeError picks the status for err and writes it as JSON
func (s *Server) writeError(w http.ResponseWriter, err error) {
	s.jsonResponse(w, HTTPStatus(err), errorBody(err))
}
