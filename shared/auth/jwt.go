package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultSessionTTL is the session token lifetime used when none is configured.
const DefaultSessionTTL = 7 * 24 * time.Hour

// ErrInvalidOrExpiredToken covers every reason a session token is rejected:
// bad signature, malformed payload, wrong issuer/audience and expiry.
var ErrInvalidOrExpiredToken = errors.New("invalid or expired token")

// SessionClaims is the signed assertion carried by a session token.
type SessionClaims struct {
	ID string `json:"id"`
	jwt.RegisteredClaims
}

// JWTAuthenticator signs and verifies HS256 session tokens.
type JWTAuthenticator struct {
	audience string
	issuer   string
	secret   []byte
	ttl      time.Duration
	now      func() time.Time
}

// NewJWTAuthenticator creates a new JWTAuthenticator instance. The issuer is
// also used as the audience.
func NewJWTAuthenticator(issuer, secret string, ttl time.Duration) *JWTAuthenticator {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}

	return &JWTAuthenticator{
		audience: issuer,
		issuer:   issuer,
		secret:   []byte(secret),
		ttl:      ttl,
		now:      time.Now,
	}
}

// WithClock returns a copy of the authenticator that reads time from now.
func (a *JWTAuthenticator) WithClock(now func() time.Time) *JWTAuthenticator {
	cp := *a
	cp.now = now
	return &cp
}

// TTL returns the lifetime of issued session tokens.
func (a *JWTAuthenticator) TTL() time.Duration {
	return a.ttl
}

// GenerateToken signs the given claims with the authenticator secret.
func (a *JWTAuthenticator) GenerateToken(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenStr, err := token.SignedString(a.secret)
	if err != nil {
		return "", err
	}

	return tokenStr, nil
}

// ValidateTokenWithClaims validates a JWT token and parses it into the provided claims type.
// The claims parameter should be a pointer to a struct that implements jwt.Claims.
func (a *JWTAuthenticator) ValidateTokenWithClaims(tokenString string, claims jwt.Claims) (*jwt.Token, error) {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return a.secret, nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithAudience(a.audience),
		jwt.WithIssuer(a.issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(a.now),
	)
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, errors.New("invalid token")
	}

	return token, nil
}

// IssueSessionToken signs {id: userID} valid for the configured lifetime and
// returns the token together with its expiry.
func (a *JWTAuthenticator) IssueSessionToken(userID string) (string, time.Time, error) {
	now := a.now()
	expiresAt := now.Add(a.ttl)

	claims := SessionClaims{
		ID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    a.issuer,
			Audience:  jwt.ClaimStrings{a.audience},
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token, err := a.GenerateToken(claims)
	if err != nil {
		return "", time.Time{}, err
	}

	return token, expiresAt, nil
}

// ParseSessionToken verifies a session token and recovers the user id.
func (a *JWTAuthenticator) ParseSessionToken(tokenString string) (string, error) {
	var claims SessionClaims
	if _, err := a.ValidateTokenWithClaims(tokenString, &claims); err != nil {
		return "", ErrInvalidOrExpiredToken
	}

	if claims.ID == "" {
		return "", ErrInvalidOrExpiredToken
	}

	return claims.ID, nil
}
