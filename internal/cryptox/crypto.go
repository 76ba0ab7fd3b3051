// Package cryptox hashes challenge secrets before they are stored.
//
// Link tokens carry 256 bits of entropy, so a plain SHA-256 digest is enough
// and keeps lookups cheap. Six-digit codes are brute-forceable offline, so
// they go through bcrypt.
package cryptox

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch is returned when a candidate does not match a stored hash.
var ErrMismatch = errors.New("secret mismatch")

// HashToken returns the hex SHA-256 digest of a link token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

// CompareToken checks token against a digest produced by HashToken in
// constant time.
func CompareToken(digest, token string) error {
	if subtle.ConstantTimeCompare([]byte(digest), []byte(HashToken(token))) != 1 {
		return ErrMismatch
	}
	return nil
}

// HashCode returns a bcrypt hash of a one-time code.
func HashCode(code string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

// CompareCode checks code against a hash produced by HashCode.
func CompareCode(hash, code string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(code))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatch
	}
	return err
}
