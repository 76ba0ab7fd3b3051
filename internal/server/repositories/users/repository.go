package users

import (
	"context"

	"github.com/dmitrijs2005/resumeai/internal/server/models"
)

// Repository persists users and their usage counters.
type Repository interface {
	// GetOrCreate returns the user with email, creating it with limit when
	// absent.
	GetOrCreate(ctx context.Context, email string, limit int) (*models.User, error)
	GetByID(ctx context.Context, id string) (*models.User, error)
	// IncrementUsage adds one to the usage counter unless the limit is
	// already reached, in which case it returns common.ErrQuotaExceeded.
	IncrementUsage(ctx context.Context, id string) (*models.User, error)
}
