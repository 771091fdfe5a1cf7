package repository

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/vasapolrittideah/islamic-app-api/services/auth-service/internal/model"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("user already exists with this email")
	ErrNoUpdates      = errors.New("no user fields to update")
)

// UserRepository defines the credential store. Every method that consumes a
// one-time artifact matches and mutates in a single atomic operation, so two
// concurrent callers can never both succeed with the same code or token.
type UserRepository interface {
	// CreateUser inserts a new record. The store enforces email uniqueness and
	// returns ErrDuplicateEmail on conflict.
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUser(ctx context.Context, id string) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	UpdateProfile(ctx context.Context, id string, params UpdateProfileParams) (*model.User, error)
	UpdatePasswordHash(ctx context.Context, id, passwordHash string) error
	DeleteUser(ctx context.Context, id string) (*model.User, error)

	// SetVerificationCode overwrites any pending code on the record.
	SetVerificationCode(ctx context.Context, id, code string, expiresAt time.Time) (*model.User, error)
	// ConsumeVerificationCode verifies the record matching email and an
	// unexpired code, and clears pending verification artifacts.
	ConsumeVerificationCode(ctx context.Context, email, code string, now time.Time) (*model.User, error)
	SetVerificationToken(ctx context.Context, id, digest string, expiresAt time.Time) (*model.User, error)
	ConsumeVerificationToken(ctx context.Context, digest string, now time.Time) (*model.User, error)

	SetResetToken(ctx context.Context, id, digest string, expiresAt time.Time) (*model.User, error)
	// ConsumeResetToken replaces the secret of the record holding an unexpired
	// reset token and clears the token.
	ConsumeResetToken(ctx context.Context, digest, passwordHash string, now time.Time) (*model.User, error)
	ClearResetToken(ctx context.Context, id string) error

	// RecordLogin stamps lastLogin and resets lockout bookkeeping.
	RecordLogin(ctx context.Context, id string, now time.Time) (*model.User, error)
	// IncLoginAttempts records a failed login under policy.
	IncLoginAttempts(ctx context.Context, id string, now time.Time, policy model.LockoutPolicy) (*model.User, error)

	Ping(ctx context.Context) error
}

// UpdateProfileParams defines the optional parameters for updating a profile.
// Only the fields that are not nil will be updated.
type UpdateProfileParams struct {
	FirstName *string
	LastName  *string
}

const userCollection = "users"

type userMongoRepository struct {
	db *mongo.Database
}

// NewUserMongoRepository creates the MongoDB credential store and ensures its indexes.
func NewUserMongoRepository(ctx context.Context, logger *zerolog.Logger, db *mongo.Database) UserRepository {
	if err := EnsureUserIndexes(ctx, db); err != nil {
		logger.Fatal().Err(err).Msg("failed to create user indexes")
	}

	return &userMongoRepository{db: db}
}

// EnsureUserIndexes creates the unique email index and the sparse lookup
// indexes used by token consumption.
func EnsureUserIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "email_verification_token", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
		{
			Keys:    bson.D{{Key: "reset_password_token", Value: 1}},
			Options: options.Index().SetSparse(true),
		},
	}

	_, err := db.Collection(userCollection).Indexes().CreateMany(ctx, indexes)
	return err
}

func (r *userMongoRepository) collection() *mongo.Collection {
	return r.db.Collection(userCollection)
}

func (r *userMongoRepository) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
	user.Email = model.NormalizeEmail(user.Email)

	result, err := r.collection().InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, err
	}

	if objectID, ok := result.InsertedID.(bson.ObjectID); ok {
		user.ID = objectID
	} else {
		return nil, errors.New("failed to convert inserted ID to ObjectID")
	}

	return user, nil
}

func (r *userMongoRepository) GetUser(ctx context.Context, id string) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	return r.findOne(ctx, bson.M{"_id": objectID})
}

func (r *userMongoRepository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.findOne(ctx, bson.M{"email": model.NormalizeEmail(email)})
}

func (r *userMongoRepository) UpdateProfile(
	ctx context.Context,
	id string,
	params UpdateProfileParams,
) (*model.User, error) {
	updateMap := bson.M{}
	if params.FirstName != nil {
		updateMap["first_name"] = *params.FirstName
	}
	if params.LastName != nil {
		updateMap["last_name"] = *params.LastName
	}

	if len(updateMap) == 0 {
		return nil, ErrNoUpdates
	}

	updateMap["updated_at"] = time.Now()

	return r.updateByID(ctx, id, bson.M{"$set": updateMap})
}

func (r *userMongoRepository) UpdatePasswordHash(ctx context.Context, id, passwordHash string) error {
	_, err := r.updateByID(ctx, id, bson.M{"$set": bson.M{
		"password_hash": passwordHash,
		"updated_at":    time.Now(),
	}})
	return err
}

func (r *userMongoRepository) DeleteUser(ctx context.Context, id string) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	var user model.User
	if err := r.collection().FindOneAndDelete(ctx, bson.M{"_id": objectID}).Decode(&user); err != nil {
		return nil, mapError(err)
	}

	return &user, nil
}

func (r *userMongoRepository) SetVerificationCode(
	ctx context.Context,
	id, code string,
	expiresAt time.Time,
) (*model.User, error) {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{
		"email_verification_code":         code,
		"email_verification_code_expires": expiresAt,
		"updated_at":                      time.Now(),
	}})
}

func (r *userMongoRepository) ConsumeVerificationCode(
	ctx context.Context,
	email, code string,
	now time.Time,
) (*model.User, error) {
	filter := bson.M{
		"email":                           model.NormalizeEmail(email),
		"email_verification_code":         code,
		"email_verification_code_expires": bson.M{"$gt": now},
	}

	return r.findOneAndUpdate(ctx, filter, markVerifiedUpdate(now))
}

func (r *userMongoRepository) SetVerificationToken(
	ctx context.Context,
	id, digest string,
	expiresAt time.Time,
) (*model.User, error) {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{
		"email_verification_token":   digest,
		"email_verification_expires": expiresAt,
		"updated_at":                 time.Now(),
	}})
}

func (r *userMongoRepository) ConsumeVerificationToken(
	ctx context.Context,
	digest string,
	now time.Time,
) (*model.User, error) {
	filter := bson.M{
		"email_verification_token":   digest,
		"email_verification_expires": bson.M{"$gt": now},
	}

	return r.findOneAndUpdate(ctx, filter, markVerifiedUpdate(now))
}

func (r *userMongoRepository) SetResetToken(
	ctx context.Context,
	id, digest string,
	expiresAt time.Time,
) (*model.User, error) {
	return r.updateByID(ctx, id, bson.M{"$set": bson.M{
		"reset_password_token":   digest,
		"reset_password_expires": expiresAt,
		"updated_at":             time.Now(),
	}})
}

func (r *userMongoRepository) ConsumeResetToken(
	ctx context.Context,
	digest, passwordHash string,
	now time.Time,
) (*model.User, error) {
	filter := bson.M{
		"reset_password_token":   digest,
		"reset_password_expires": bson.M{"$gt": now},
	}
	update := bson.M{
		"$set": bson.M{
			"password_hash": passwordHash,
			"updated_at":    now,
		},
		"$unset": bson.M{
			"reset_password_token":   "",
			"reset_password_expires": "",
		},
	}

	return r.findOneAndUpdate(ctx, filter, update)
}

func (r *userMongoRepository) ClearResetToken(ctx context.Context, id string) error {
	_, err := r.updateByID(ctx, id, bson.M{
		"$set": bson.M{"updated_at": time.Now()},
		"$unset": bson.M{
			"reset_password_token":   "",
			"reset_password_expires": "",
		},
	})
	return err
}

func (r *userMongoRepository) RecordLogin(ctx context.Context, id string, now time.Time) (*model.User, error) {
	return r.updateByID(ctx, id, bson.M{
		"$set": bson.M{
			"last_login":     now,
			"login_attempts": 0,
			"updated_at":     now,
		},
		"$unset": bson.M{"lock_until": ""},
	})
}

// IncLoginAttempts mirrors model.User.IncLoginAttempts as a single pipeline
// update so concurrent failures cannot lose increments.
func (r *userMongoRepository) IncLoginAttempts(
	ctx context.Context,
	id string,
	now time.Time,
	policy model.LockoutPolicy,
) (*model.User, error) {
	lockUntil := bson.D{{Key: "$ifNull", Value: bson.A{"$lock_until", nil}}}

	pipeline := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "lock_expired", Value: bson.D{{Key: "$and", Value: bson.A{
				bson.D{{Key: "$ne", Value: bson.A{lockUntil, nil}}},
				bson.D{{Key: "$lte", Value: bson.A{"$lock_until", now}}},
			}}}},
		}}},
		{{Key: "$set", Value: bson.D{
			{Key: "login_attempts", Value: bson.D{{Key: "$cond", Value: bson.A{
				"$lock_expired",
				1,
				bson.D{{Key: "$add", Value: bson.A{
					bson.D{{Key: "$ifNull", Value: bson.A{"$login_attempts", 0}}},
					1,
				}}},
			}}}},
			{Key: "lock_until", Value: bson.D{{Key: "$cond", Value: bson.A{"$lock_expired", nil, lockUntil}}}},
		}}},
		{{Key: "$set", Value: bson.D{
			{Key: "lock_until", Value: bson.D{{Key: "$cond", Value: bson.A{
				bson.D{{Key: "$and", Value: bson.A{
					bson.D{{Key: "$not", Value: bson.A{"$lock_expired"}}},
					bson.D{{Key: "$gte", Value: bson.A{"$login_attempts", policy.MaxAttempts}}},
					bson.D{{Key: "$not", Value: bson.A{bson.D{{Key: "$gt", Value: bson.A{lockUntil, now}}}}}},
				}}},
				now.Add(policy.LockDuration),
				lockUntil,
			}}}},
			{Key: "updated_at", Value: now},
		}}},
		{{Key: "$unset", Value: "lock_expired"}},
	}

	return r.updateByID(ctx, id, pipeline)
}

func (r *userMongoRepository) Ping(ctx context.Context) error {
	return r.db.Client().Ping(ctx, nil)
}

func (r *userMongoRepository) findOne(ctx context.Context, filter bson.M) (*model.User, error) {
	var user model.User
	if err := r.collection().FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, mapError(err)
	}

	return &user, nil
}

func (r *userMongoRepository) updateByID(ctx context.Context, id string, update any) (*model.User, error) {
	objectID, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrUserNotFound
	}

	return r.findOneAndUpdate(ctx, bson.M{"_id": objectID}, update)
}

func (r *userMongoRepository) findOneAndUpdate(ctx context.Context, filter bson.M, update any) (*model.User, error) {
	result := r.collection().FindOneAndUpdate(
		ctx,
		filter,
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	)

	var user model.User
	if err := result.Decode(&user); err != nil {
		return nil, mapError(err)
	}

	return &user, nil
}

func markVerifiedUpdate(now time.Time) bson.M {
	return bson.M{
		"$set": bson.M{
			"is_email_verified": true,
			"updated_at":        now,
		},
		"$unset": bson.M{
			"email_verification_code":         "",
			"email_verification_code_expires": "",
			"email_verification_token":        "",
			"email_verification_expires":      "",
		},
	}
}

func mapError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrUserNotFound
	}
	return err
}
