package handler

import (
	"errors"
	"net/http"

	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/model"
	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/payload"
	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/usecase"
	"github.com/vasapolrittideah/islamic-app-api/shared/validation"
)

type authHTTPHandler struct {
	authUsecase          usecase.AuthUsecase
	verificationUsecase  usecase.VerificationUsecase
	passwordResetUsecase usecase.PasswordResetUsecase
	validator            *validation.Validator
	secureCookies        bool
}

func (h *authHTTPHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req payload.RegisterRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	res, err := h.authUsecase.Register(r.Context(), usecase.RegisterParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Password:  req.Password,
	})
	if err != nil {
		if fields, ok := validationFields(err); ok {
			respondValidation(w, r, fields)
			return
		}

		switch {
		case errors.Is(err, usecase.ErrDuplicateEmail):
			respondError(w, r, http.StatusBadRequest, "User already exists with this email")
		default:
			internalError(w, r, err, "Server error during registration")
		}
		return
	}

	if !res.EmailDispatched {
		respond(w, r, http.StatusCreated, payload.RegisterResponse{
			Success: true,
			Message: "Registration successful! However, we couldn't send the verification email. " +
				"Please try resending.",
			Email:      res.User.Email,
			EmailError: true,
		})
		return
	}

	respond(w, r, http.StatusCreated, payload.RegisterResponse{
		Success: true,
		Message: "Registration successful! Please check your email for verification code.",
		Email:   res.User.Email,
	})
}

func (h *authHTTPHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req payload.LoginRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	session, err := h.authUsecase.Login(r.Context(), usecase.LoginParams{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrInvalidCredentials):
			respondError(w, r, http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, usecase.ErrEmailNotVerified):
			respond(w, r, http.StatusUnauthorized, payload.ErrorResponse{
				Message:           "Please verify your email before logging in",
				NeedsVerification: true,
				Email:             model.NormalizeEmail(req.Email),
			})
		case errors.Is(err, usecase.ErrAccountLocked):
			respondError(w, r, http.StatusLocked,
				"Account is temporarily locked due to too many failed login attempts. Please try again later.")
		default:
			internalError(w, r, err, "Server error during login")
		}
		return
	}

	h.respondWithSession(w, r, session)
}

func (h *authHTTPHandler) Me(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, payload.UserResponse{
		Success: true,
		User:    payload.NewUser(currentUser(r)),
	})
}

// Logout only clears the session cookie; bearer tokens are discarded by the
// client.
func (h *authHTTPHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clearSessionCookie(w, h.secureCookies)

	respond(w, r, http.StatusOK, payload.MessageResponse{
		Success: true,
		Message: "User logged out successfully",
	})
}

func (h *authHTTPHandler) respondWithSession(w http.ResponseWriter, r *http.Request, session *usecase.Session) {
	setSessionCookie(w, session.Token, session.ExpiresAt, h.secureCookies)

	respond(w, r, http.StatusOK, payload.TokenResponse{
		Success: true,
		Token:   session.Token,
		User:    payload.NewUser(session.User),
	})
}
