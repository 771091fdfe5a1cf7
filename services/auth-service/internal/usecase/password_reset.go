package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/repository"
	"github.com/vasapolrittideah/islamic-app-api/shared/security"
)

// PasswordResetUsecase defines the business logic for password reset.
type PasswordResetUsecase interface {
	// ForgotPassword mails a reset link to the account registered under email.
	// Unlike login it reports unknown emails with ErrNotFound, and a dispatch
	// failure fails the request with ErrDispatchFailed.
	ForgotPassword(ctx context.Context, email string) error

	// ResetPassword replaces the secret of the account holding rawToken and
	// signs the caller in.
	ResetPassword(ctx context.Context, rawToken, newPassword string) (*Session, error)
}

type passwordResetUsecase struct {
	Deps
}

// NewPasswordResetUsecase creates a new instance of PasswordResetUsecase.
func NewPasswordResetUsecase(deps Deps) PasswordResetUsecase {
	return &passwordResetUsecase{Deps: deps}
}

func (u *passwordResetUsecase) ForgotPassword(ctx context.Context, email string) error {
	user, err := u.UserRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return ErrNotFound
		}
		return err
	}

	raw, digest, err := security.GenerateOpaqueToken()
	if err != nil {
		return err
	}

	expiresIn := u.Config.Token.PasswordResetExpires
	if _, err := u.UserRepo.SetResetToken(ctx, user.ID.Hex(), digest, u.now().Add(expiresIn)); err != nil {
		return err
	}

	msg, err := passwordResetEmail(user.FirstName, clientLink(u.Config.ClientURL, "reset-password", raw), expiresIn)
	if err == nil {
		err = u.Mailer.SendHTML(ctx, []string{user.Email}, msg.Subject, msg.HTML, msg.Text)
	}
	if err != nil {
		// The user never received the link, so nothing may redeem it.
		if clearErr := u.UserRepo.ClearResetToken(ctx, user.ID.Hex()); clearErr != nil {
			u.Logger.Error().Err(clearErr).Str("user_id", user.ID.Hex()).Msg("failed to clear undelivered reset token")
		}
		return fmt.Errorf("%w: %w", ErrDispatchFailed, err)
	}

	u.Logger.Info().Str("user_id", user.ID.Hex()).Msg("password reset link sent")
	return nil
}

func (u *passwordResetUsecase) ResetPassword(ctx context.Context, rawToken, newPassword string) (*Session, error) {
	if rawToken == "" {
		return nil, ErrInvalidOrExpiredToken
	}

	hash, err := u.hashPassword("password", newPassword)
	if err != nil {
		return nil, err
	}

	user, err := u.UserRepo.ConsumeResetToken(ctx, security.DigestToken(rawToken), hash, u.now())
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, ErrInvalidOrExpiredToken
		}
		return nil, err
	}

	u.Logger.Info().Str("user_id", user.ID.Hex()).Msg("password reset")
	return u.issueSession(user)
}
