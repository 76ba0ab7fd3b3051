package client

import (
	"context"

	"github.com/dmitrijs2005/resumeai/internal/client/models"
)

type Client interface {
	Close() error
	SetAccessToken(token string)
	Ping(ctx context.Context) error

	RequestChallenge(ctx context.Context, email string, variant models.ChallengeVariant) (models.ChallengeRef, error)
	VerifyChallenge(ctx context.Context, ref models.ChallengeRef, secret string) (models.Session, error)

	AnalyzeText(ctx context.Context, req models.AnalysisRequest) (models.Submission, error)
	AnalyzePDF(ctx context.Context, req models.AnalysisRequest) (models.Submission, error)

	GetUser(ctx context.Context, id string) (models.UserRecord, error)
	ListAnalyses(ctx context.Context, owner string) ([]models.AnalysisResult, error)
}
