package analyses

import (
	"context"

	"github.com/dmitrijs2005/resumeai/internal/server/models"
)

// Repository persists analysis results.
type Repository interface {
	Create(ctx context.Context, a *models.Analysis) (*models.Analysis, error)
	// ListByUser returns the user's analyses, newest first.
	ListByUser(ctx context.Context, userID string) ([]*models.Analysis, error)
}
