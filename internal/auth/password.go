// Package auth provides password hashing, bearer token issuance and
// verification, and request-context helpers for authenticated identities.
package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"
)

// Hasher turns a plaintext password into the value persisted for a user.
type Hasher interface {
	Name() string
	Hash(password string) (string, error)
}

// NewHasher returns the hasher registered under name ("sha256" or "argon2id").
func NewHasher(name string) (Hasher, error) {
	switch name {
	case "", "sha256":
		return SHA256Hasher{}, nil
	case "argon2id":
		return Argon2idHasher{}, nil
	default:
		return nil, fmt.Errorf("unknown password hasher %q", name)
	}
}

// SHA256Hasher stores the hex-encoded SHA-256 digest of the password.
// Unsalted, single round; kept for compatibility with existing records.
type SHA256Hasher struct{}

// Name returns the configuration name of the scheme.
func (SHA256Hasher) Name() string { return "sha256" }

// Hash returns the 64-character hex SHA-256 digest of password.
func (SHA256Hasher) Hash(password string) (string, error) {
	return HashSHA256(password), nil
}

// HashSHA256 returns the hex-encoded SHA-256 digest of password.
func HashSHA256(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}

// VerifyPassword reports whether password matches the stored hash.
// The scheme is detected from the stored value, so records written by
// either hasher can be verified regardless of the current configuration.
func VerifyPassword(password, stored string) (bool, error) {
	if strings.HasPrefix(stored, argon2Prefix) {
		return verifyArgon2id(password, stored)
	}

	if len(stored) != sha256.Size*2 {
		return false, ErrInvalidHash
	}

	computed := HashSHA256(password)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(stored)) == 1, nil
}

// QuickHash returns a truncated SHA-256 hex digest of the input for cache keys.
// This is NOT for password storage, only for cache key derivation.
func QuickHash(input string) string {
	hash := sha256.Sum256([]byte(input))
	return hex.EncodeToString(hash[:16])
}
