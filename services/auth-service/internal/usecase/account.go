package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/model"
	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/repository"
)

// AccountUsecase defines operations on the authenticated caller's own account.
type AccountUsecase interface {
	GetUser(ctx context.Context, userID string) (*model.User, error)
	UpdateProfile(ctx context.Context, userID string, params UpdateProfileParams) (*model.User, error)
	ChangePassword(ctx context.Context, userID string, params ChangePasswordParams) error
	DeleteAccount(ctx context.Context, userID string) error
}

// UpdateProfileParams carries the name fields to change. Nil or blank values
// are left untouched.
type UpdateProfileParams struct {
	FirstName *string
	LastName  *string
}

// ChangePasswordParams defines the parameters for a password change.
type ChangePasswordParams struct {
	CurrentPassword string
	NewPassword     string
}

type accountUsecase struct {
	Deps
}

// NewAccountUsecase creates a new instance of AccountUsecase.
func NewAccountUsecase(deps Deps) AccountUsecase {
	return &accountUsecase{Deps: deps}
}

func (u *accountUsecase) GetUser(ctx context.Context, userID string) (*model.User, error) {
	user, err := u.UserRepo.GetUser(ctx, userID)
	if err != nil {
		return nil, mapNotFound(err)
	}

	return user, nil
}

func (u *accountUsecase) UpdateProfile(
	ctx context.Context,
	userID string,
	params UpdateProfileParams,
) (*model.User, error) {
	update := repository.UpdateProfileParams{
		FirstName: trimmedOrNil(params.FirstName),
		LastName:  trimmedOrNil(params.LastName),
	}

	user, err := u.UserRepo.UpdateProfile(ctx, userID, update)
	if errors.Is(err, repository.ErrNoUpdates) {
		return u.GetUser(ctx, userID)
	}
	if err != nil {
		return nil, mapNotFound(err)
	}

	return user, nil
}

func (u *accountUsecase) ChangePassword(ctx context.Context, userID string, params ChangePasswordParams) error {
	user, err := u.UserRepo.GetUser(ctx, userID)
	if err != nil {
		return mapNotFound(err)
	}

	ok, err := user.MatchPassword(u.Hasher, params.CurrentPassword)
	if err != nil {
		return fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return ErrInvalidCredentials
	}

	hash, err := u.hashPassword("newPassword", params.NewPassword)
	if err != nil {
		return err
	}

	if err := u.UserRepo.UpdatePasswordHash(ctx, userID, hash); err != nil {
		return mapNotFound(err)
	}

	u.Logger.Info().Str("user_id", userID).Msg("password changed")
	return nil
}

func (u *accountUsecase) DeleteAccount(ctx context.Context, userID string) error {
	if _, err := u.UserRepo.DeleteUser(ctx, userID); err != nil {
		return mapNotFound(err)
	}

	u.Logger.Info().Str("user_id", userID).Msg("account deleted")
	return nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}

	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

func mapNotFound(err error) error {
	if errors.Is(err, repository.ErrUserNotFound) {
		return ErrNotFound
	}
	return err
}
