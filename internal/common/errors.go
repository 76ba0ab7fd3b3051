package common

import (
	"errors"
	"fmt"
)

var (
	// Local validation, raised before any network call.
	ErrValidation       = errors.New("validation error")
	ErrEmptyInput       = errors.New("empty input")
	ErrUnsupportedMedia = errors.New("unsupported media")

	// Authentication.
	ErrInvalidOrExpiredChallenge = errors.New("invalid or expired challenge")
	ErrUnauthorized              = errors.New("unauthorized")
	ErrInvalidToken              = errors.New("invalid token")
	ErrNoSession                 = errors.New("no session")

	// Submission lifecycle.
	ErrQuotaExceeded   = errors.New("quota exceeded")
	ErrAlreadyInFlight = errors.New("submission already in flight")
	ErrSuperseded      = errors.New("superseded")
	ErrSubmission      = errors.New("submission failed")

	// Transport.
	ErrTransport = errors.New("transport error")
	ErrTimeout   = errors.New("timeout")

	// Repository / retrieval.
	ErrNotFound = errors.New("not found")
	ErrInternal = errors.New("internal error")
)

// ValidationError reports which input was rejected. It matches ErrValidation.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// QuotaError is returned when a submission is refused for usage reasons.
// Authoritative is true when the backend refused it, false when the local
// gate did.
type QuotaError struct {
	Authoritative bool
	Used          int
	Limit         int
	Detail        string
}

func (e *QuotaError) Error() string {
	src := "local"
	if e.Authoritative {
		src = "server"
	}
	if e.Detail != "" {
		return fmt.Sprintf("quota exceeded (%s): %s", src, e.Detail)
	}
	return fmt.Sprintf("quota exceeded (%s): %d of %d used", src, e.Used, e.Limit)
}

func (e *QuotaError) Unwrap() error { return ErrQuotaExceeded }

// SubmissionError carries the backend's failure detail for a non-success
// response that is not a quota refusal. Cause, when set, names a finer
// condition such as ErrUnauthorized; the error matches it as well as
// ErrSubmission.
type SubmissionError struct {
	Status int
	Detail string
	Cause  error
}

func (e *SubmissionError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("submission failed with status %d", e.Status)
	}
	return fmt.Sprintf("submission failed with status %d: %s", e.Status, e.Detail)
}

func (e *SubmissionError) Unwrap() []error {
	if e.Cause == nil {
		return []error{ErrSubmission}
	}
	return []error{ErrSubmission, e.Cause}
}
