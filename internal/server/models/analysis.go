package models

import "time"

// BulletRewrite pairs an original resume bullet with a suggested rewrite.
type BulletRewrite struct {
	Original string `json:"original"`
	Improved string `json:"improved"`
}

// Feedback is the structured output of the analysis engine.
type Feedback struct {
	OverallScore    int             `json:"overall_score"`
	ScoreVerdict    string          `json:"score_verdict"`
	SummaryInsight  string          `json:"summary_insight"`
	Strengths       []string        `json:"strengths"`
	Weaknesses      []string        `json:"weaknesses"`
	ATSIssues       []string        `json:"ats_issues"`
	ImprovedBullets []BulletRewrite `json:"improved_bullets"`
	Recommendations []string        `json:"recommendations"`
}

// Normalize clamps the score and replaces nil lists with empty ones so the
// JSON form always carries arrays.
func (f *Feedback) Normalize() {
	if f.OverallScore < 0 {
		f.OverallScore = 0
	}
	if f.OverallScore > 100 {
		f.OverallScore = 100
	}
	for _, l := range []*[]string{&f.Strengths, &f.Weaknesses, &f.ATSIssues, &f.Recommendations} {
		if *l == nil {
			*l = []string{}
		}
	}
	if f.ImprovedBullets == nil {
		f.ImprovedBullets = []BulletRewrite{}
	}
}

// Source says how the resume reached the server.
type Source string

const (
	SourceText Source = "text"
	SourcePDF  Source = "pdf"
)

// Analysis is one stored analysis. ResumeExcerpt keeps only the beginning
// of the submitted text.
type Analysis struct {
	ID            string
	UserID        string
	Source        Source
	RoleTarget    string
	ResumeExcerpt string
	ArchiveKey    string
	Feedback      Feedback
	CreatedAt     time.Time
}
