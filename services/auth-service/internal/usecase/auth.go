package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/config"
	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/model"
	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/repository"
	"github.com/vasapolrittideah/islamic-app-api/shared/auth"
	"github.com/vasapolrittideah/islamic-app-api/shared/security"
)

// AuthUsecase defines registration, login and session resolution.
type AuthUsecase interface {
	// Register creates an unverified account and mails it a verification code.
	// A dispatch failure does not fail registration; it is reported through
	// RegisterResult.EmailDispatched.
	Register(ctx context.Context, params RegisterParams) (*RegisterResult, error)

	// Login checks credentials and issues a session token. Unknown email and
	// wrong password both yield ErrInvalidCredentials.
	Login(ctx context.Context, params LoginParams) (*Session, error)

	// Authenticate resolves a session token to its account.
	Authenticate(ctx context.Context, token string) (*model.User, error)
}

// Deps bundles the collaborators shared by the account usecases.
type Deps struct {
	UserRepo repository.UserRepository
	Hasher   security.PasswordHasher
	JWTAuth  *auth.JWTAuthenticator
	Mailer   Mailer
	Config   *config.AuthServiceConfig
	Logger   *zerolog.Logger

	// Now defaults to time.Now.
	Now func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now != nil {
		return d.Now()
	}
	return time.Now()
}

func (d Deps) lockoutPolicy() model.LockoutPolicy {
	return model.LockoutPolicy{
		MaxAttempts:  d.Config.Lockout.MaxAttempts,
		LockDuration: d.Config.Lockout.LockDuration,
	}
}

// hashPassword hashes plaintext, reporting a secret outside the length
// bounds as a validation failure on field.
func (d Deps) hashPassword(field, plaintext string) (string, error) {
	hash, err := model.HashPassword(d.Hasher, plaintext)
	if err != nil {
		return "", passwordError(field, err)
	}

	return hash, nil
}

// issueSession signs a session token for user.
func (d Deps) issueSession(user *model.User) (*Session, error) {
	token, expiresAt, err := d.JWTAuth.IssueSessionToken(user.ID.Hex())
	if err != nil {
		return nil, fmt.Errorf("failed to issue session token: %w", err)
	}

	return &Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// RegisterParams defines the parameters for user registration.
type RegisterParams struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// RegisterResult is the outcome of a registration.
type RegisterResult struct {
	User            *model.User
	EmailDispatched bool
}

// LoginParams defines the parameters for user login.
type LoginParams struct {
	Email    string
	Password string
}

// Session is an issued bearer token and the account it belongs to.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      *model.User
}

type authUsecase struct {
	Deps
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(deps Deps) AuthUsecase {
	return &authUsecase{Deps: deps}
}

func (u *authUsecase) Register(ctx context.Context, params RegisterParams) (*RegisterResult, error) {
	// Fast path for a friendly error; the unique index is what actually
	// guarantees one record per email.
	if _, err := u.UserRepo.GetUserByEmail(ctx, params.Email); err == nil {
		return nil, ErrDuplicateEmail
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, err
	}

	user := model.NewUser(params.FirstName, params.LastName, params.Email)
	if user.FirstName == "" {
		return nil, blankName("firstName")
	}
	if user.LastName == "" {
		return nil, blankName("lastName")
	}

	if err := user.SetPassword(u.Hasher, params.Password); err != nil {
		return nil, passwordError("password", err)
	}

	code, err := security.GenerateNumericCode()
	if err != nil {
		return nil, err
	}
	user.SetVerificationCode(code, u.now().Add(u.Config.Token.VerificationCodeExpires))

	created, err := u.UserRepo.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	dispatched := true
	if err := sendVerificationCode(ctx, u.Deps, created, code); err != nil {
		u.Logger.Warn().Err(err).Str("user_id", created.ID.Hex()).Msg("registered without verification email")
		dispatched = false
	}

	return &RegisterResult{User: created, EmailDispatched: dispatched}, nil
}

func (u *authUsecase) Login(ctx context.Context, params LoginParams) (*Session, error) {
	user, err := u.UserRepo.GetUserByEmail(ctx, params.Email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	now := u.now()
	if user.IsLocked(now) {
		return nil, ErrAccountLocked
	}

	ok, err := user.MatchPassword(u.Hasher, params.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		updated, err := u.UserRepo.IncLoginAttempts(ctx, user.ID.Hex(), now, u.lockoutPolicy())
		if err != nil {
			return nil, err
		}
		if updated.IsLocked(now) && !user.IsLocked(now) {
			u.Logger.Warn().Str("user_id", user.ID.Hex()).Msg("account locked after repeated login failures")
		}
		return nil, ErrInvalidCredentials
	}

	if !user.IsEmailVerified {
		return nil, ErrEmailNotVerified
	}

	user, err = u.UserRepo.RecordLogin(ctx, user.ID.Hex(), now)
	if err != nil {
		return nil, err
	}

	return u.issueSession(user)
}

func (u *authUsecase) Authenticate(ctx context.Context, token string) (*model.User, error) {
	userID, err := u.JWTAuth.ParseSessionToken(token)
	if err != nil {
		return nil, ErrInvalidOrExpiredToken
	}

	user, err := u.UserRepo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	return user, nil
}
