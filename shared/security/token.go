package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/big"
)

const (
	opaqueTokenBytes = 20
	codeMin          = 100000
	codeSpan         = 900000
)

// GenerateOpaqueToken returns a random token for delivery to the user together
// with the SHA-256 digest that is safe to persist.
func GenerateOpaqueToken() (raw, digest string, err error) {
	b := make([]byte, opaqueTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", "", fmt.Errorf("failed to generate token: %w", err)
	}

	raw = hex.EncodeToString(b)
	return raw, DigestToken(raw), nil
}

// DigestToken hashes a raw token the same way GenerateOpaqueToken does, so an
// incoming candidate can be compared against a stored digest.
func DigestToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// GenerateNumericCode returns a uniformly random 6-digit code in [100000, 999999].
func GenerateNumericCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(codeSpan))
	if err != nil {
		return "", fmt.Errorf("failed to generate code: %w", err)
	}

	return fmt.Sprintf("%d", n.Int64()+codeMin), nil
}
