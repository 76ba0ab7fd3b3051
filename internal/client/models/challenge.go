package models

import (
	"fmt"
	"time"
)

// ChallengeVariant selects how the one-time secret reaches the user.
type ChallengeVariant string

const (
	VariantLink ChallengeVariant = "link"
	VariantCode ChallengeVariant = "code"
)

// ParseChallengeVariant accepts "link" or "code".
func ParseChallengeVariant(s string) (ChallengeVariant, error) {
	switch v := ChallengeVariant(s); v {
	case VariantLink, VariantCode:
		return v, nil
	default:
		return "", fmt.Errorf("unknown challenge variant %q", s)
	}
}

// ChallengeState follows a challenge from issuance to its single use.
type ChallengeState string

const (
	ChallengeIssued   ChallengeState = "issued"
	ChallengeVerified ChallengeState = "verified"
	ChallengeExpired  ChallengeState = "expired"
	ChallengeInvalid  ChallengeState = "invalid"
)

// ChallengeRef is the opaque handle returned when a challenge is issued.
// Secret is only populated when both the backend and this client run with
// secret echo enabled, which is meant for local development.
type ChallengeRef struct {
	ID        string
	Email     string
	Variant   ChallengeVariant
	ExpiresAt time.Time
	Secret    string
}

// AuthChallenge is the client's view of an outstanding challenge.
type AuthChallenge struct {
	Email     string
	Reference ChallengeRef
	Variant   ChallengeVariant
	State     ChallengeState
}
