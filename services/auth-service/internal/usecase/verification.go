package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/model"
	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/repository"
	"github.com/vasapolrittideah/islamic-app-api/shared/security"
)

// testEmailCode is the fixed code mailed by TestEmail.
const testEmailCode = "123456"

// VerificationUsecase defines the email verification flows. The numeric code
// is the primary flow; the link token is an alternative for clients that
// cannot show a code prompt.
type VerificationUsecase interface {
	VerifyEmailByCode(ctx context.Context, email, code string) (*model.User, error)
	VerifyEmailByToken(ctx context.Context, rawToken string) (*model.User, error)

	// ResendVerification replaces any pending code with a fresh one and mails
	// it. The returned flag is false when the email could not be sent.
	ResendVerification(ctx context.Context, email string) (bool, error)

	// SendVerificationLink issues a link token and mails it, with the same
	// preconditions and dispatch reporting as ResendVerification.
	SendVerificationLink(ctx context.Context, email string) (bool, error)

	// TestEmail probes the transport and sends a sample code email to email.
	TestEmail(ctx context.Context, email string) *EmailTestResult
}

// EmailTestResult reports the outcome of TestEmail.
type EmailTestResult struct {
	ConfigValid bool   `json:"configValid"`
	Sent        bool   `json:"sent"`
	Error       string `json:"error,omitempty"`
}

type verificationUsecase struct {
	Deps
}

// NewVerificationUsecase creates a new instance of VerificationUsecase.
func NewVerificationUsecase(deps Deps) VerificationUsecase {
	return &verificationUsecase{Deps: deps}
}

func (u *verificationUsecase) VerifyEmailByCode(ctx context.Context, email, code string) (*model.User, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, ErrInvalidOrExpiredToken
	}

	user, err := u.UserRepo.ConsumeVerificationCode(ctx, email, code, u.now())
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidOrExpiredToken
		}
		return nil, err
	}

	u.Logger.Info().Str("user_id", user.ID.Hex()).Msg("email verified by code")
	return user, nil
}

func (u *verificationUsecase) VerifyEmailByToken(ctx context.Context, rawToken string) (*model.User, error) {
	if rawToken == "" {
		return nil, ErrInvalidOrExpiredToken
	}

	user, err := u.UserRepo.ConsumeVerificationToken(ctx, security.DigestToken(rawToken), u.now())
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidOrExpiredToken
		}
		return nil, err
	}

	u.Logger.Info().Str("user_id", user.ID.Hex()).Msg("email verified by link")
	return user, nil
}

func (u *verificationUsecase) ResendVerification(ctx context.Context, email string) (bool, error) {
	user, err := u.pendingUser(ctx, email)
	if err != nil {
		return false, err
	}

	code, err := security.GenerateNumericCode()
	if err != nil {
		return false, err
	}

	user, err = u.UserRepo.SetVerificationCode(
		ctx, user.ID.Hex(), code, u.now().Add(u.Config.Token.VerificationCodeExpires),
	)
	if err != nil {
		return false, err
	}

	if err := sendVerificationCode(ctx, u.Deps, user, code); err != nil {
		u.Logger.Warn().Err(err).Str("user_id", user.ID.Hex()).Msg("verification code not delivered")
		return false, nil
	}

	return true, nil
}

func (u *verificationUsecase) SendVerificationLink(ctx context.Context, email string) (bool, error) {
	user, err := u.pendingUser(ctx, email)
	if err != nil {
		return false, err
	}

	raw, digest, err := security.GenerateOpaqueToken()
	if err != nil {
		return false, err
	}

	expiresIn := u.Config.Token.VerificationLinkExpires
	user, err = u.UserRepo.SetVerificationToken(ctx, user.ID.Hex(), digest, u.now().Add(expiresIn))
	if err != nil {
		return false, err
	}

	msg, err := verificationLinkEmail(user.FirstName, clientLink(u.Config.ClientURL, "verify-email", raw), expiresIn)
	if err != nil {
		return false, err
	}

	if err := u.Mailer.SendHTML(ctx, []string{user.Email}, msg.Subject, msg.HTML, msg.Text); err != nil {
		u.Logger.Warn().Err(err).Str("user_id", user.ID.Hex()).Msg("verification link not delivered")
		return false, nil
	}

	return true, nil
}

func (u *verificationUsecase) TestEmail(ctx context.Context, email string) *EmailTestResult {
	if err := u.Mailer.Verify(ctx); err != nil {
		u.Logger.Error().Err(err).Msg("email configuration check failed")
		return &EmailTestResult{Error: err.Error()}
	}

	msg, err := verificationCodeEmail("Test User", testEmailCode, u.Config.Token.VerificationCodeExpires)
	if err == nil {
		err = u.Mailer.SendHTML(ctx, []string{email}, msg.Subject, msg.HTML, msg.Text)
	}
	if err != nil {
		return &EmailTestResult{ConfigValid: true, Error: err.Error()}
	}

	return &EmailTestResult{ConfigValid: true, Sent: true}
}

// pendingUser returns the unverified account registered under email.
func (u *verificationUsecase) pendingUser(ctx context.Context, email string) (*model.User, error) {
	user, err := u.UserRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if user.IsEmailVerified {
		return nil, ErrAlreadyVerified
	}

	return user, nil
}

func sendVerificationCode(ctx context.Context, deps Deps, user *model.User, code string) error {
	msg, err := verificationCodeEmail(user.FirstName, code, deps.Config.Token.VerificationCodeExpires)
	if err != nil {
		return err
	}

	if err := deps.Mailer.SendHTML(ctx, []string{user.Email}, msg.Subject, msg.HTML, msg.Text); err != nil {
		return fmt.Errorf("%w: %w", ErrDispatchFailed, err)
	}

	return nil
}

// clientLink builds <clientURL>/<path>/<token>.
func clientLink(clientURL, path, token string) string {
	return strings.TrimRight(clientURL, "/") + "/" + path + "/" + token
}
