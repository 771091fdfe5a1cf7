package security

import (
	"errors"
	"fmt"

	"github.com/matthewhartstonge/argon2"
	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost is the work factor used when no cost is configured.
const DefaultBcryptCost = 12

// Supported hashing algorithms.
const (
	AlgorithmBcrypt   = "bcrypt"
	AlgorithmArgon2id = "argon2id"
)

var ErrEmptyPassword = errors.New("password cannot be empty")

// PasswordHasher hashes secrets with a salted, adaptive one-way function.
type PasswordHasher interface {
	// Hash returns a freshly salted hash of password.
	Hash(password string) (string, error)

	// Verify reports whether password matches a hash previously produced by Hash.
	// A mismatch is not an error.
	Verify(password, hash string) (bool, error)
}

// NewPasswordHasher returns the hasher for the named algorithm.
func NewPasswordHasher(algorithm string, bcryptCost int) (PasswordHasher, error) {
	switch algorithm {
	case "", AlgorithmBcrypt:
		return NewBcryptHasher(bcryptCost)
	case AlgorithmArgon2id:
		return NewArgon2Hasher(), nil
	default:
		return nil, fmt.Errorf("unsupported hash algorithm %q", algorithm)
	}
}

// BcryptHasher implements PasswordHasher with bcrypt.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a bcrypt hasher. A zero cost selects DefaultBcryptCost.
func NewBcryptHasher(cost int) (*BcryptHasher, error) {
	if cost == 0 {
		cost = DefaultBcryptCost
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		return nil, fmt.Errorf("bcrypt cost %d out of range [%d, %d]", cost, bcrypt.MinCost, bcrypt.MaxCost)
	}

	return &BcryptHasher{cost: cost}, nil
}

func (h *BcryptHasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", err
	}

	return string(hashed), nil
}

func (h *BcryptHasher) Verify(password, hash string) (bool, error) {
	if password == "" || hash == "" {
		return false, nil
	}

	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return false, nil
		}
		return false, err
	}

	return true, nil
}

// Argon2Hasher implements PasswordHasher with argon2id in PHC string format.
type Argon2Hasher struct {
	config argon2.Config
}

// NewArgon2Hasher creates an argon2id hasher with the library defaults.
func NewArgon2Hasher() *Argon2Hasher {
	return &Argon2Hasher{config: argon2.DefaultConfig()}
}

func (h *Argon2Hasher) Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	encoded, err := h.config.HashEncoded([]byte(password))
	if err != nil {
		return "", err
	}

	return string(encoded), nil
}

func (h *Argon2Hasher) Verify(password, hash string) (bool, error) {
	if password == "" || hash == "" {
		return false, nil
	}

	return argon2.VerifyEncoded([]byte(password), []byte(hash))
}
