package models

import "time"

// ChallengeVariant is the delivery form of a sign-in secret.
type ChallengeVariant string

const (
	VariantLink ChallengeVariant = "link"
	VariantCode ChallengeVariant = "code"
)

// Valid reports whether v is a known variant.
func (v ChallengeVariant) Valid() bool {
	return v == VariantLink || v == VariantCode
}

// Challenge is a pending sign-in. Only a hash of the secret is kept; for
// links it is SHA-256 hex, for codes a bcrypt hash.
type Challenge struct {
	ID         string           `json:"id"`
	Email      string           `json:"email"`
	UserID     string           `json:"user_id"`
	Variant    ChallengeVariant `json:"variant"`
	SecretHash string           `json:"secret_hash"`
	ExpiresAt  time.Time        `json:"expires_at"`
	CreatedAt  time.Time        `json:"created_at"`
}

// Expired reports whether the challenge is past its lifetime at now.
func (c *Challenge) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
