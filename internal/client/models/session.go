// Package models holds the client-side domain types: the session, the
// authentication challenge, and analysis requests and results.
package models

import (
	"github.com/dmitrijs2005/resumeai/internal/common"
)

// Session is the authenticated identity of this client together with the
// number of analyses the user has consumed.
type Session struct {
	UserID      string
	Email       string
	UsageCount  int
	AccessToken string
}

// Validate reports whether s is structurally usable as a restored session.
func (s Session) Validate() error {
	switch {
	case s.UserID == "":
		return &common.ValidationError{Field: "user_id", Reason: "empty"}
	case s.Email == "":
		return &common.ValidationError{Field: "email", Reason: "empty"}
	case s.UsageCount < 0:
		return &common.ValidationError{Field: "usage_count", Reason: "negative"}
	}
	return nil
}
