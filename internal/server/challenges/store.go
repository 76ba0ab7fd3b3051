// Package challenges keeps pending sign-in challenges until they are used,
// superseded or expire. Only one challenge per email is live at a time.
package challenges

import (
	"context"

	"github.com/dmitrijs2005/resumeai/internal/server/models"
)

// MaxAttempts is the number of wrong secrets a challenge tolerates before
// it is discarded.
const MaxAttempts = 5

// Store holds live challenges. Get and Delete return common.ErrNotFound for
// unknown, expired or superseded ids.
type Store interface {
	// Save stores c until c.ExpiresAt and invalidates any earlier challenge
	// for the same email.
	Save(ctx context.Context, c *models.Challenge) error
	Get(ctx context.Context, id string) (*models.Challenge, error)
	// Delete removes the challenge. Exactly one of several concurrent
	// callers succeeds, which makes a challenge single use.
	Delete(ctx context.Context, id string) error
	// RecordFailure counts a wrong secret and returns the running total.
	RecordFailure(ctx context.Context, id string) (int, error)
}
