package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/payload"
	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/usecase"
)

func (h *authHTTPHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req payload.EmailRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	if err := h.passwordResetUsecase.ForgotPassword(r.Context(), req.Email); err != nil {
		switch {
		case errors.Is(err, usecase.ErrNotFound):
			respondError(w, r, http.StatusNotFound, "No user found with this email")
		case errors.Is(err, usecase.ErrDispatchFailed):
			internalError(w, r, err, "Failed to send password reset email")
		default:
			internalError(w, r, err, "Server error during password reset request")
		}
		return
	}

	respond(w, r, http.StatusOK, payload.MessageResponse{
		Success: true,
		Message: "Password reset email sent successfully",
	})
}

func (h *authHTTPHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req payload.ResetPasswordRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	session, err := h.passwordResetUsecase.ResetPassword(r.Context(), chi.URLParam(r, "token"), req.Password)
	if err != nil {
		if fields, ok := validationFields(err); ok {
			respondValidation(w, r, fields)
			return
		}

		switch {
		case errors.Is(err, usecase.ErrInvalidOrExpiredToken):
			respondError(w, r, http.StatusBadRequest, "Invalid or expired token")
		default:
			internalError(w, r, err, "Server error during password reset")
		}
		return
	}

	h.respondWithSession(w, r, session)
}
