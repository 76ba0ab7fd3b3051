// Package analyzer turns resume text into structured recruiter feedback
// with a generative model.
package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"

	"github.com/dmitrijs2005/resumeai/internal/logging"
	"github.com/dmitrijs2005/resumeai/internal/server/models"
)

// DefaultAttempts is how many times a model call is tried.
const DefaultAttempts = 3

var (
	// ErrAnalysisFailed is returned when every attempt failed.
	ErrAnalysisFailed = errors.New("AI analysis failed after retries")
	// ErrNotConfigured is returned by an Analyzer without a Generator.
	ErrNotConfigured = errors.New("analysis engine not configured")
)

// Analyzer runs the recruiter prompt against a Generator.
type Analyzer struct {
	gen      Generator
	logger   logging.Logger
	attempts int
}

// New returns an Analyzer. gen may be nil, in which case Analyze always
// fails with ErrNotConfigured.
func New(gen Generator, logger logging.Logger) *Analyzer {
	return &Analyzer{gen: gen, logger: logger.With("module", "analyzer"), attempts: DefaultAttempts}
}

// rawFeedback accepts a fractional score; models sometimes send one.
type rawFeedback struct {
	models.Feedback
	OverallScore float64 `json:"overall_score"`
}

// Analyze scores resumeText for roleTarget. The text is cut to
// MaxResumeChars first. Cancellation of ctx stops retrying.
func (a *Analyzer) Analyze(ctx context.Context, resumeText, roleTarget string) (*models.Feedback, error) {
	if a.gen == nil {
		return nil, ErrNotConfigured
	}

	prompt := BuildPrompt(Truncate(resumeText, MaxResumeChars), roleTarget)

	var lastErr error
	for attempt := 1; attempt <= a.attempts; attempt++ {
		fb, err := a.try(ctx, prompt)
		if err == nil {
			a.logger.Debug(ctx, "analysis parsed", "attempt", attempt, "score", fb.OverallScore)
			return fb, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		lastErr = err
		a.logger.Warn(ctx, "analysis attempt failed", "attempt", attempt, "error", err.Error())
	}

	return nil, fmt.Errorf("%w: %v", ErrAnalysisFailed, lastErr)
}

func (a *Analyzer) try(ctx context.Context, prompt string) (*models.Feedback, error) {
	text, err := a.gen.GenerateJSON(ctx, prompt)
	if err != nil {
		return nil, err
	}

	doc, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}
	if err := validateFeedback(doc); err != nil {
		return nil, err
	}

	var raw rawFeedback
	if err := json.Unmarshal([]byte(doc), &raw); err != nil {
		return nil, fmt.Errorf("decode feedback: %w", err)
	}

	fb := raw.Feedback
	fb.OverallScore = int(math.Round(raw.OverallScore))
	fb.Normalize()
	return &fb, nil
}

// Close releases the Generator.
func (a *Analyzer) Close() error {
	if a.gen == nil {
		return nil
	}
	return a.gen.Close()
}
