package models

import (
	"strings"
	"time"
)

// Upload is a binary resume document.
type Upload struct {
	Data     []byte
	Filename string
}

// AnalysisRequest is one submission. Exactly one of Text and Upload is set.
type AnalysisRequest struct {
	Text       string
	Upload     *Upload
	RoleTarget string
	Owner      string
}

// HasText reports whether the text source is populated with non-blank text.
func (r AnalysisRequest) HasText() bool {
	return strings.TrimSpace(r.Text) != ""
}

// HasUpload reports whether an upload with content is attached.
func (r AnalysisRequest) HasUpload() bool {
	return r.Upload != nil && len(r.Upload.Data) > 0
}

// BulletRewrite pairs an original resume bullet with a suggested rewrite.
type BulletRewrite struct {
	Original string `json:"original"`
	Improved string `json:"improved"`
}

// AnalysisResult is the structured feedback produced for one submission.
type AnalysisResult struct {
	ID              string          `json:"id"`
	Owner           string          `json:"user_id"`
	CreatedAt       time.Time       `json:"created_at"`
	ResumeExcerpt   string          `json:"resume_text,omitempty"`
	OverallScore    int             `json:"overall_score"`
	ScoreVerdict    string          `json:"score_verdict"`
	SummaryInsight  string          `json:"summary_insight"`
	Strengths       []string        `json:"strengths"`
	Weaknesses      []string        `json:"weaknesses"`
	ATSIssues       []string        `json:"ats_issues"`
	ImprovedBullets []BulletRewrite `json:"improved_bullets"`
	Recommendations []string        `json:"recommendations"`
}

// Submission is what a successful analyze call returns.
type Submission struct {
	AnalysisID    string
	Result        AnalysisResult
	RemainingUses int
}

// UserRecord is the backend's authoritative view of a user.
type UserRecord struct {
	ID         string
	Email      string
	UsageCount int
	UsageLimit int
}
