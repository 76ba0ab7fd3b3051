// Package common contains constants, sentinel errors, and small helpers shared
// by the resumeai client and the reference backend.
package common

// AuthorizationHeaderName carries the bearer access token on API requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the access token in AuthorizationHeaderName.
const BearerPrefix = "Bearer "

// DefaultUsageLimit is the free-tier number of successful analyses.
const DefaultUsageLimit = 3

// ChallengeCodeLength is the number of digits in a one-time code.
const ChallengeCodeLength = 6

// Error codes sent in the "code" field of API error bodies.
const (
	CodeValidation     = "validation_error"
	CodeInvalidSecret  = "invalid_or_expired_challenge"
	CodeUnauthorized   = "unauthorized"
	CodeQuotaExceeded  = "quota_exceeded"
	CodeNotFound       = "not_found"
	CodeUnsupported    = "unsupported_media"
	CodeInternal       = "internal_error"
	CodeAnalysisFailed = "analysis_failed"
)
