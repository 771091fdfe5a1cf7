package handler

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/payload"
	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/usecase"
)

const messageEmailVerified = "Email verified successfully! You can now login."

func (h *authHTTPHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		respondError(w, r, http.StatusBadRequest, "Verification token is required")
		return
	}

	if _, err := h.verificationUsecase.VerifyEmailByToken(r.Context(), token); err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidOrExpiredToken):
			respondError(w, r, http.StatusBadRequest, "Invalid or expired verification token")
		default:
			internalError(w, r, err, messageServerError)
		}
		return
	}

	respond(w, r, http.StatusOK, payload.MessageResponse{Success: true, Message: messageEmailVerified})
}

func (h *authHTTPHandler) VerifyCode(w http.ResponseWriter, r *http.Request) {
	var req payload.VerifyCodeRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	if _, err := h.verificationUsecase.VerifyEmailByCode(r.Context(), req.Email, req.Code); err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidOrExpiredToken):
			respondError(w, r, http.StatusBadRequest, "Invalid or expired verification code")
		default:
			internalError(w, r, err, messageServerError)
		}
		return
	}

	respond(w, r, http.StatusOK, payload.MessageResponse{Success: true, Message: messageEmailVerified})
}

func (h *authHTTPHandler) ResendVerification(w http.ResponseWriter, r *http.Request) {
	var req payload.EmailRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	dispatched, err := h.verificationUsecase.ResendVerification(r.Context(), req.Email)
	if err != nil {
		h.respondResendError(w, r, err)
		return
	}

	if !dispatched {
		respond(w, r, http.StatusOK, payload.DispatchResponse{
			Success:    true,
			Message:    "A new verification code was issued, but we couldn't send the email. Please try again.",
			EmailError: true,
		})
		return
	}

	respond(w, r, http.StatusOK, payload.DispatchResponse{
		Success: true,
		Message: "Verification code sent successfully",
	})
}

func (h *authHTTPHandler) ResendVerificationLink(w http.ResponseWriter, r *http.Request) {
	var req payload.EmailRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	dispatched, err := h.verificationUsecase.SendVerificationLink(r.Context(), req.Email)
	if err != nil {
		h.respondResendError(w, r, err)
		return
	}

	if !dispatched {
		respond(w, r, http.StatusOK, payload.DispatchResponse{
			Success:    true,
			Message:    "A new verification link was issued, but we couldn't send the email. Please try again.",
			EmailError: true,
		})
		return
	}

	respond(w, r, http.StatusOK, payload.DispatchResponse{
		Success: true,
		Message: "Verification link sent successfully",
	})
}

func (h *authHTTPHandler) respondResendError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, usecase.ErrNotFound):
		respondError(w, r, http.StatusNotFound, "User not found")
	case errors.Is(err, usecase.ErrAlreadyVerified):
		respondError(w, r, http.StatusBadRequest, "Email is already verified")
	default:
		internalError(w, r, err, messageServerError)
	}
}

// TestEmail probes the SMTP configuration. It is only mounted outside
// production.
func (h *authHTTPHandler) TestEmail(w http.ResponseWriter, r *http.Request) {
	var req payload.EmailRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	res := h.verificationUsecase.TestEmail(r.Context(), req.Email)

	message := "Test email sent successfully! Check your inbox."
	switch {
	case !res.ConfigValid:
		message = "Email configuration failed"
	case !res.Sent:
		message = "Failed to send test email"
	}

	respond(w, r, http.StatusOK, payload.TestEmailResponse{
		Success: res.Sent,
		Message: message,
		Details: res,
	})
}
