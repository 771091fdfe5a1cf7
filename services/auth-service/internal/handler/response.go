package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"
	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/payload"
	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/usecase"
	"github.com/vasapolrittideah/islamic-app-api/shared/validation"
)

const messageServerError = "Server error"

func respond(w http.ResponseWriter, r *http.Request, status int, v any) {
	render.Status(r, status)
	render.JSON(w, r, v)
}

func respondError(w http.ResponseWriter, r *http.Request, status int, message string) {
	respond(w, r, status, payload.ErrorResponse{Message: message})
}

func respondValidation(w http.ResponseWriter, r *http.Request, fields []validation.FieldError) {
	respond(w, r, http.StatusBadRequest, payload.ErrorResponse{
		Message: "Validation failed",
		Errors:  fields,
	})
}

// internalError logs err with the request-scoped logger and answers with a
// generic 500 that never reveals err.
func internalError(w http.ResponseWriter, r *http.Request, err error, message string) {
	zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg(message)
	respondError(w, r, http.StatusInternalServerError, message)
}

// normalizer is implemented by request bodies that clean their fields before
// validation.
type normalizer interface {
	Normalize()
}

// decode parses the JSON body into dst, normalizes and validates it. It writes the 400
// response itself and returns false when the request must stop.
func decode(w http.ResponseWriter, r *http.Request, v *validation.Validator, dst any) bool {
	if err := render.DecodeJSON(r.Body, dst); err != nil {
		respondError(w, r, http.StatusBadRequest, "Invalid request body")
		return false
	}

	if n, ok := dst.(normalizer); ok {
		n.Normalize()
	}

	if fields := v.Struct(dst); len(fields) > 0 {
		respondValidation(w, r, fields)
		return false
	}

	return true
}

// validationFields extracts per-field messages from a usecase validation error.
func validationFields(err error) ([]validation.FieldError, bool) {
	var verr *usecase.ValidationError
	if errors.As(err, &verr) {
		return verr.Fields, true
	}
	return nil, false
}

func notFound(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusNotFound, "Route not found")
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request) {
	respondError(w, r, http.StatusMethodNotAllowed, "Method not allowed")
}
