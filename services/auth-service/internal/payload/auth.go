package payload

import (
	"strings"
	"time"

	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/model"
	"github.com/vasapolrittideah/islamic-app-api/shared/validation"
)

type RegisterRequest struct {
	FirstName string `json:"firstName" validate:"required,max=50"`
	LastName  string `json:"lastName"  validate:"required,max=50"`
	Email     string `json:"email"     validate:"required,account_email"`
	Password  string `json:"password"  validate:"required,min=8,max_bytes=72"`
}

// Normalize trims the identity fields so validation sees the stored values.
func (r *RegisterRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.TrimSpace(r.Email)
}

type RegisterResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Email      string `json:"email"`
	EmailError bool   `json:"emailError,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,account_email"`
	Password string `json:"password" validate:"required"`
}

// TokenResponse is returned by every operation that signs the caller in.
type TokenResponse struct {
	Success bool   `json:"success"`
	Token   string `json:"token"`
	User    User   `json:"user"`
}

type VerifyCodeRequest struct {
	Email string `json:"email" validate:"required,account_email"`
	Code  string `json:"code"  validate:"required"`
}

// EmailRequest carries a single address: resend, forgot-password and the
// transport probe.
type EmailRequest struct {
	Email string `json:"email" validate:"required,account_email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password" validate:"required,min=8,max_bytes=72"`
}

type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

type DispatchResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	EmailError bool   `json:"emailError,omitempty"`
}

type ErrorResponse struct {
	Success           bool                    `json:"success"`
	Message           string                  `json:"message"`
	Errors            []validation.FieldError `json:"errors,omitempty"`
	NeedsVerification bool                    `json:"needsVerification,omitempty"`
	Email             string                  `json:"email,omitempty"`
}

type UserResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	User    User   `json:"user"`
}

type TestEmailResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Details any    `json:"details"`
}

type HealthResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

// User is the public view of an account. It never carries the secret hash
// or any verification or reset artifact.
type User struct {
	ID              string     `json:"id"`
	FirstName       string     `json:"firstName"`
	LastName        string     `json:"lastName"`
	Email           string     `json:"email"`
	IsEmailVerified bool       `json:"isEmailVerified"`
	LastLogin       *time.Time `json:"lastLogin,omitempty"`
	CreatedAt       *time.Time `json:"createdAt,omitempty"`
}

// NewUser builds the public view of u.
func NewUser(u *model.User) User {
	return User{
		ID:              u.ID.Hex(),
		FirstName:       u.FirstName,
		LastName:        u.LastName,
		Email:           u.Email,
		IsEmailVerified: u.IsEmailVerified,
	}
}

// NewProfile is NewUser plus login and membership timestamps.
func NewProfile(u *model.User) User {
	user := NewUser(u)
	user.LastLogin = u.LastLogin
	createdAt := u.CreatedAt
	user.CreatedAt = &createdAt
	return user
}
