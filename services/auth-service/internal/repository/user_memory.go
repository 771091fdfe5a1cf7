package repository

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/model"
)

// userMemoryRepository is an in-process UserRepository with the same atomicity
// guarantees as the MongoDB implementation: every operation runs under one lock.
type userMemoryRepository struct {
	mu      sync.Mutex
	users   map[bson.ObjectID]*model.User
	byEmail map[string]bson.ObjectID
}

// NewUserMemoryRepository creates an empty in-memory credential store.
func NewUserMemoryRepository() UserRepository {
	return &userMemoryRepository{
		users:   make(map[bson.ObjectID]*model.User),
		byEmail: make(map[string]bson.ObjectID),
	}
}

func (r *userMemoryRepository) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	email := model.NormalizeEmail(user.Email)
	if _, exists := r.byEmail[email]; exists {
		return nil, ErrDuplicateEmail
	}

	now := time.Now()
	stored := *user
	stored.ID = bson.NewObjectID()
	stored.Email = email
	stored.CreatedAt = now
	stored.UpdatedAt = now

	r.users[stored.ID] = &stored
	r.byEmail[email] = stored.ID

	out := stored
	return &out, nil
}

func (r *userMemoryRepository) GetUser(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, err := r.lookup(id)
	if err != nil {
		return nil, err
	}

	out := *u
	return &out, nil
}

func (r *userMemoryRepository) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id, ok := r.byEmail[model.NormalizeEmail(email)]
	if !ok {
		return nil, ErrUserNotFound
	}

	out := *r.users[id]
	return &out, nil
}

func (r *userMemoryRepository) UpdateProfile(
	_ context.Context,
	id string,
	params UpdateProfileParams,
) (*model.User, error) {
	if params.FirstName == nil && params.LastName == nil {
		return nil, ErrNoUpdates
	}

	return r.mutate(id, func(u *model.User) {
		if params.FirstName != nil {
			u.FirstName = *params.FirstName
		}
		if params.LastName != nil {
			u.LastName = *params.LastName
		}
	})
}

func (r *userMemoryRepository) UpdatePasswordHash(_ context.Context, id, passwordHash string) error {
	_, err := r.mutate(id, func(u *model.User) {
		u.PasswordHash = passwordHash
	})
	return err
}

func (r *userMemoryRepository) DeleteUser(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, err := r.lookup(id)
	if err != nil {
		return nil, err
	}

	delete(r.users, u.ID)
	delete(r.byEmail, u.Email)

	return u, nil
}

func (r *userMemoryRepository) SetVerificationCode(
	_ context.Context,
	id, code string,
	expiresAt time.Time,
) (*model.User, error) {
	return r.mutate(id, func(u *model.User) {
		u.SetVerificationCode(code, expiresAt)
	})
}

func (r *userMemoryRepository) ConsumeVerificationCode(
	_ context.Context,
	email, code string,
	now time.Time,
) (*model.User, error) {
	return r.consume(func(u *model.User) bool {
		return u.Email == model.NormalizeEmail(email) && u.HasValidVerificationCode(code, now)
	}, func(u *model.User) {
		u.MarkEmailVerified()
	})
}

func (r *userMemoryRepository) SetVerificationToken(
	_ context.Context,
	id, digest string,
	expiresAt time.Time,
) (*model.User, error) {
	return r.mutate(id, func(u *model.User) {
		u.SetVerificationToken(digest, expiresAt)
	})
}

func (r *userMemoryRepository) ConsumeVerificationToken(
	_ context.Context,
	digest string,
	now time.Time,
) (*model.User, error) {
	return r.consume(func(u *model.User) bool {
		return u.HasValidVerificationToken(digest, now)
	}, func(u *model.User) {
		u.MarkEmailVerified()
	})
}

func (r *userMemoryRepository) SetResetToken(
	_ context.Context,
	id, digest string,
	expiresAt time.Time,
) (*model.User, error) {
	return r.mutate(id, func(u *model.User) {
		u.SetResetToken(digest, expiresAt)
	})
}

func (r *userMemoryRepository) ConsumeResetToken(
	_ context.Context,
	digest, passwordHash string,
	now time.Time,
) (*model.User, error) {
	return r.consume(func(u *model.User) bool {
		return u.HasValidResetToken(digest, now)
	}, func(u *model.User) {
		u.PasswordHash = passwordHash
		u.ClearResetToken()
	})
}

func (r *userMemoryRepository) ClearResetToken(_ context.Context, id string) error {
	_, err := r.mutate(id, func(u *model.User) {
		u.ClearResetToken()
	})
	return err
}

func (r *userMemoryRepository) RecordLogin(_ context.Context, id string, now time.Time) (*model.User, error) {
	return r.mutate(id, func(u *model.User) {
		u.LastLogin = &now
		u.ResetLoginAttempts()
	})
}

func (r *userMemoryRepository) IncLoginAttempts(
	_ context.Context,
	id string,
	now time.Time,
	policy model.LockoutPolicy,
) (*model.User, error) {
	return r.mutate(id, func(u *model.User) {
		u.IncLoginAttempts(now, policy)
	})
}

func (r *userMemoryRepository) Ping(context.Context) error {
	return nil
}

func (r *userMemoryRepository) lookup(id string) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	u, ok := r.users[objectID]
	if !ok {
		return nil, ErrUserNotFound
	}

	return u, nil
}

func (r *userMemoryRepository) mutate(id string, fn func(*model.User)) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	u, err := r.lookup(id)
	if err != nil {
		return nil, err
	}

	fn(u)
	u.UpdatedAt = time.Now()

	out := *u
	return &out, nil
}

func (r *userMemoryRepository) consume(match func(*model.User) bool, apply func(*model.User)) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if !match(u) {
			continue
		}

		apply(u)
		u.UpdatedAt = time.Now()

		out := *u
		return &out, nil
	}

	return nil, ErrUserNotFound
}
