package httpapi

import (
	"time"

	"github.com/dmitrijs2005/resumeai/internal/server/models"
)

type challengeRequest struct {
	Email   string `json:"email" validate:"required,email,max=254"`
	Variant string `json:"variant" validate:"omitempty,oneof=link code"`
}

type challengeResponse struct {
	ChallengeID string    `json:"challenge_id"`
	Email       string    `json:"email"`
	Variant     string    `json:"variant"`
	ExpiresAt   time.Time `json:"expires_at"`
	Secret      string    `json:"secret,omitempty"`
}

type verifyRequest struct {
	ChallengeID string `json:"challenge_id" validate:"required,max=64"`
	Secret      string `json:"secret" validate:"required,max=128"`
	Email       string `json:"email" validate:"omitempty,email"`
}

type userResponse struct {
	ID         string `json:"id"`
	UserID     string `json:"user_id"`
	Email      string `json:"email"`
	UsageCount int    `json:"usage_count"`
	UsageLimit int    `json:"usage_limit"`
}

func newUserResponse(u *models.User) userResponse {
	return userResponse{ID: u.ID, UserID: u.ID, Email: u.Email, UsageCount: u.UsageCount, UsageLimit: u.UsageLimit}
}

type verifyResponse struct {
	userResponse
	AccessToken string `json:"access_token"`
}

type analyzeTextRequest struct {
	ResumeText string `json:"resume_text" validate:"required"`
	RoleTarget string `json:"role_target" validate:"max=200"`
}

// analysisResponse flattens the feedback next to the record fields.
type analysisResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	CreatedAt  time.Time `json:"created_at"`
	ResumeText string    `json:"resume_text"`
	RoleTarget string    `json:"role_target,omitempty"`
	Source     string    `json:"source"`
	models.Feedback
}

func newAnalysisResponse(a *models.Analysis) analysisResponse {
	fb := a.Feedback
	fb.Normalize()
	return analysisResponse{
		ID:         a.ID,
		UserID:     a.UserID,
		CreatedAt:  a.CreatedAt,
		ResumeText: a.ResumeExcerpt,
		RoleTarget: a.RoleTarget,
		Source:     string(a.Source),
		Feedback:   fb,
	}
}

type analyzeResponse struct {
	AnalysisID    string           `json:"analysis_id"`
	Analysis      analysisResponse `json:"analysis"`
	RemainingUses int              `json:"remaining_uses"`
}

type listAnalysesResponse struct {
	Analyses []analysisResponse `json:"analyses"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
