package model

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/vasapolrittideah/islamic-app-api/shared/security"
)

// Secret length bounds, in bytes. bcrypt ignores input past 72 bytes, so
// longer secrets are refused for every hasher.
const (
	MinPasswordLength = 8
	MaxPasswordLength = 72
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong  = errors.New("password must be at most 72 bytes")
)

// User represents a registered account in the credential store.
// Nullable fields are pointers; a verification code and its expiry, a link
// token and its expiry, and a reset token and its expiry are always set and
// cleared together.
type User struct {
	ID        bson.ObjectID `bson:"_id,omitempty"`
	FirstName string        `bson:"first_name"`
	LastName  string        `bson:"last_name"`
	Email     string        `bson:"email"`

	PasswordHash string `bson:"password_hash"`

	IsEmailVerified              bool       `bson:"is_email_verified"`
	EmailVerificationCode        *string    `bson:"email_verification_code,omitempty"`
	EmailVerificationCodeExpires *time.Time `bson:"email_verification_code_expires,omitempty"`
	EmailVerificationToken       *string    `bson:"email_verification_token,omitempty"`
	EmailVerificationExpires     *time.Time `bson:"email_verification_expires,omitempty"`

	ResetPasswordToken   *string    `bson:"reset_password_token,omitempty"`
	ResetPasswordExpires *time.Time `bson:"reset_password_expires,omitempty"`

	LoginAttempts int        `bson:"login_attempts"`
	LockUntil     *time.Time `bson:"lock_until,omitempty"`
	LastLogin     *time.Time `bson:"last_login,omitempty"`
	IsActive      bool       `bson:"is_active"`

	CreatedAt time.Time `bson:"created_at"`
	UpdatedAt time.Time `bson:"updated_at"`
}

// LockoutPolicy configures login-attempt bookkeeping.
type LockoutPolicy struct {
	MaxAttempts  int
	LockDuration time.Duration
}

// NewUser builds an unverified, active account with normalized identity fields.
// The secret must be set separately with SetPassword.
func NewUser(firstName, lastName, email string) *User {
	return &User{
		FirstName: strings.TrimSpace(firstName),
		LastName:  strings.TrimSpace(lastName),
		Email:     NormalizeEmail(email),
		IsActive:  true,
	}
}

// NormalizeEmail trims and lowercases an email so it can be used as the unique key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// HashPassword enforces the length bounds and hashes plaintext.
func HashPassword(hasher security.PasswordHasher, plaintext string) (string, error) {
	if len(plaintext) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	if len(plaintext) > MaxPasswordLength {
		return "", ErrPasswordTooLong
	}

	return hasher.Hash(plaintext)
}

// SetPassword replaces the stored secret with a hash of plaintext. This is the
// only way the secret changes; other field updates never rehash.
func (u *User) SetPassword(hasher security.PasswordHasher, plaintext string) error {
	hash, err := HashPassword(hasher, plaintext)
	if err != nil {
		return err
	}

	u.PasswordHash = hash
	return nil
}

// MatchPassword reports whether plaintext matches the stored secret.
func (u *User) MatchPassword(hasher security.PasswordHasher, plaintext string) (bool, error) {
	return hasher.Verify(plaintext, u.PasswordHash)
}

// IsLocked reports whether login is currently refused.
func (u *User) IsLocked(now time.Time) bool {
	return u.LockUntil != nil && u.LockUntil.After(now)
}

// SetVerificationCode stores a pending code together with its expiry.
func (u *User) SetVerificationCode(code string, expiresAt time.Time) {
	u.EmailVerificationCode = &code
	u.EmailVerificationCodeExpires = &expiresAt
}

// SetVerificationToken stores a link-token digest together with its expiry.
func (u *User) SetVerificationToken(digest string, expiresAt time.Time) {
	u.EmailVerificationToken = &digest
	u.EmailVerificationExpires = &expiresAt
}

// SetResetToken stores a reset-token digest together with its expiry.
func (u *User) SetResetToken(digest string, expiresAt time.Time) {
	u.ResetPasswordToken = &digest
	u.ResetPasswordExpires = &expiresAt
}

// MarkEmailVerified flags the email as verified and drops every pending
// verification artifact.
func (u *User) MarkEmailVerified() {
	u.IsEmailVerified = true
	u.EmailVerificationCode = nil
	u.EmailVerificationCodeExpires = nil
	u.EmailVerificationToken = nil
	u.EmailVerificationExpires = nil
}

// ClearResetToken drops the pending reset token.
func (u *User) ClearResetToken() {
	u.ResetPasswordToken = nil
	u.ResetPasswordExpires = nil
}

// HasValidVerificationCode reports whether code matches the pending code and
// has not yet expired at now.
func (u *User) HasValidVerificationCode(code string, now time.Time) bool {
	return u.EmailVerificationCode != nil && *u.EmailVerificationCode == code &&
		u.EmailVerificationCodeExpires != nil && u.EmailVerificationCodeExpires.After(now)
}

// HasValidVerificationToken reports whether digest matches the pending link token.
func (u *User) HasValidVerificationToken(digest string, now time.Time) bool {
	return u.EmailVerificationToken != nil && *u.EmailVerificationToken == digest &&
		u.EmailVerificationExpires != nil && u.EmailVerificationExpires.After(now)
}

// HasValidResetToken reports whether digest matches the pending reset token.
func (u *User) HasValidResetToken(digest string, now time.Time) bool {
	return u.ResetPasswordToken != nil && *u.ResetPasswordToken == digest &&
		u.ResetPasswordExpires != nil && u.ResetPasswordExpires.After(now)
}

// IncLoginAttempts records a failed login. A lock that has already expired is
// cleared and counting restarts at 1; otherwise the counter is incremented and
// a lock is placed once it reaches the policy maximum.
func (u *User) IncLoginAttempts(now time.Time, policy LockoutPolicy) {
	if u.LockUntil != nil && !u.LockUntil.After(now) {
		u.LockUntil = nil
		u.LoginAttempts = 1
		return
	}

	u.LoginAttempts++
	if u.LoginAttempts >= policy.MaxAttempts && !u.IsLocked(now) {
		lockUntil := now.Add(policy.LockDuration)
		u.LockUntil = &lockUntil
	}
}

// ResetLoginAttempts clears the failure counter and any lock.
func (u *User) ResetLoginAttempts() {
	u.LoginAttempts = 0
	u.LockUntil = nil
}

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
