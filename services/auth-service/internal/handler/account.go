package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/payload"
	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/usecase"
	"github.com/vasapolrittideah/islamic-app-api/shared/validation"
)

type accountHTTPHandler struct {
	accountUsecase usecase.AccountUsecase
	validator      *validation.Validator
	now            func() time.Time
}

func (h *accountHTTPHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, payload.UserResponse{
		Success: true,
		User:    payload.NewProfile(currentUser(r)),
	})
}

func (h *accountHTTPHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req payload.UpdateProfileRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	user, err := h.accountUsecase.UpdateProfile(r.Context(), currentUser(r).ID.Hex(), usecase.UpdateProfileParams{
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		switch {
		case errors.Is(err, usecase.ErrNotFound):
			respondError(w, r, http.StatusNotFound, "User not found")
		default:
			internalError(w, r, err, messageServerError)
		}
		return
	}

	respond(w, r, http.StatusOK, payload.UserResponse{
		Success: true,
		Message: "Profile updated successfully",
		User:    payload.NewUser(user),
	})
}

func (h *accountHTTPHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	respond(w, r, http.StatusOK, payload.DashboardResponse{
		Success: true,
		Data:    payload.NewDashboard(currentUser(r), h.now().UTC()),
	})
}

func (h *accountHTTPHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req payload.ChangePasswordRequest
	if !decode(w, r, h.validator, &req) {
		return
	}

	err := h.accountUsecase.ChangePassword(r.Context(), currentUser(r).ID.Hex(), usecase.ChangePasswordParams{
		CurrentPassword: req.CurrentPassword,
		NewPassword:     req.NewPassword,
	})
	if err != nil {
		if fields, ok := validationFields(err); ok {
			respondValidation(w, r, fields)
			return
		}

		switch {
		case errors.Is(err, usecase.ErrInvalidCredentials):
			respondError(w, r, http.StatusBadRequest, "Current password is incorrect")
		case errors.Is(err, usecase.ErrNotFound):
			respondError(w, r, http.StatusNotFound, "User not found")
		default:
			internalError(w, r, err, messageServerError)
		}
		return
	}

	respond(w, r, http.StatusOK, payload.MessageResponse{
		Success: true,
		Message: "Password changed successfully",
	})
}

func (h *accountHTTPHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := h.accountUsecase.DeleteAccount(r.Context(), currentUser(r).ID.Hex()); err != nil {
		switch {
		case errors.Is(err, usecase.ErrNotFound):
			respondError(w, r, http.StatusNotFound, "User not found")
		default:
			internalError(w, r, err, messageServerError)
		}
		return
	}

	respond(w, r, http.StatusOK, payload.MessageResponse{
		Success: true,
		Message: "Account deleted successfully",
	})
}
