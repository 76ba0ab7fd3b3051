package common

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStructuredErrors_MatchSentinels(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
	}{
		{"validation", &ValidationError{Field: "email", Reason: "required"}, ErrValidation},
		{"local quota", &QuotaError{Used: 3, Limit: 3}, ErrQuotaExceeded},
		{"server quota", &QuotaError{Authoritative: true, Detail: "Usage limit reached"}, ErrQuotaExceeded},
		{"submission", &SubmissionError{Status: 500, Detail: "boom"}, ErrSubmission},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.ErrorIs(t, wrapped, tt.target)
		})
	}
}

func TestQuotaError_Message(t *testing.T) {
	assert.Equal(t, "quota exceeded (local): 3 of 3 used", (&QuotaError{Used: 3, Limit: 3}).Error())
	assert.Equal(t, "quota exceeded (server): Usage limit reached",
		(&QuotaError{Authoritative: true, Detail: "Usage limit reached"}).Error())
}

func TestQuotaError_As(t *testing.T) {
	err := fmt.Errorf("submit: %w", &QuotaError{Authoritative: true})
	var qe *QuotaError
	if assert.True(t, errors.As(err, &qe)) {
		assert.True(t, qe.Authoritative)
	}
}

func TestSubmissionError_Message(t *testing.T) {
	assert.Equal(t, "submission failed with status 502", (&SubmissionError{Status: 502}).Error())
	assert.Contains(t, (&SubmissionError{Status: 400, Detail: "bad"}).Error(), "bad")
}

func TestSubmissionError_Cause(t *testing.T) {
	err := fmt.Errorf("analyze: %w", &SubmissionError{Status: 401, Detail: "Unauthorized", Cause: ErrUnauthorized})
	assert.ErrorIs(t, err, ErrSubmission)
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.NotErrorIs(t, err, ErrValidation)

	plain := &SubmissionError{Status: 400, Detail: "not a resume"}
	assert.ErrorIs(t, plain, ErrSubmission)
	assert.NotErrorIs(t, plain, ErrUnauthorized)
}
