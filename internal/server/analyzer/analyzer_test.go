package analyzer

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/resumeai/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedGen struct {
	mu      sync.Mutex
	replies []string
	errs    []error
	prompts []string
	closed  bool
}

func (g *scriptedGen) GenerateJSON(ctx context.Context, prompt string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	i := len(g.prompts)
	g.prompts = append(g.prompts, prompt)
	if i < len(g.errs) && g.errs[i] != nil {
		return "", g.errs[i]
	}
	if i < len(g.replies) {
		return g.replies[i], nil
	}
	return "", errors.New("script exhausted")
}

func (g *scriptedGen) Close() error {
	g.closed = true
	return nil
}

func quietLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

const goodReply = `{"overall_score": 74.6, "score_verdict": "Good, gaps remain.", "summary_insight": "Few metrics.",
 "strengths": ["Go"], "weaknesses": ["vague bullets"], "ats_issues": [],
 "improved_bullets": [{"original": "worked on APIs", "improved": "Built 12 APIs"}],
 "recommendations": ["add numbers"]}`

func TestAnalyze_Success(t *testing.T) {
	gen := &scriptedGen{replies: []string{"Sure! Here it is:\n```json\n" + goodReply + "\n```"}}
	a := New(gen, quietLogger())

	fb, err := a.Analyze(context.Background(), "resume body", "")
	require.NoError(t, err)

	assert.Equal(t, 75, fb.OverallScore)
	assert.Equal(t, "Good, gaps remain.", fb.ScoreVerdict)
	assert.Equal(t, []string{}, fb.ATSIssues)
	require.Len(t, fb.ImprovedBullets, 1)
	assert.Equal(t, "Built 12 APIs", fb.ImprovedBullets[0].Improved)

	require.Len(t, gen.prompts, 1)
	assert.Contains(t, gen.prompts[0], DefaultRoleTarget)
	assert.Contains(t, gen.prompts[0], "resume body")
}

func TestAnalyze_RetriesThenSucceeds(t *testing.T) {
	gen := &scriptedGen{
		errs:    []error{errors.New("rate limited"), nil, nil},
		replies: []string{"", "not json at all", goodReply},
	}
	a := New(gen, quietLogger())

	fb, err := a.Analyze(context.Background(), "resume", "SRE")
	require.NoError(t, err)
	assert.Equal(t, 75, fb.OverallScore)
	assert.Len(t, gen.prompts, 3)
	assert.Contains(t, gen.prompts[2], "SRE")
}

func TestAnalyze_FailsAfterThreeAttempts(t *testing.T) {
	gen := &scriptedGen{replies: []string{`{"score": 1}`, `{"score": 1}`, `{"score": 1}`, goodReply}}
	a := New(gen, quietLogger())

	_, err := a.Analyze(context.Background(), "resume", "")
	require.ErrorIs(t, err, ErrAnalysisFailed)
	assert.Contains(t, err.Error(), "overall_score")
	assert.Len(t, gen.prompts, 3, "the fourth reply is never requested")
}

func TestAnalyze_ClampsScore(t *testing.T) {
	gen := &scriptedGen{replies: []string{`{"overall_score": 140, "score_verdict": "", "summary_insight": ""}`}}
	fb, err := New(gen, quietLogger()).Analyze(context.Background(), "resume", "")
	require.NoError(t, err)
	assert.Equal(t, 100, fb.OverallScore)
	assert.NotNil(t, fb.Strengths)
}

func TestAnalyze_TruncatesResume(t *testing.T) {
	gen := &scriptedGen{replies: []string{goodReply}}
	long := strings.Repeat("a", MaxResumeChars) + "TAIL"

	_, err := New(gen, quietLogger()).Analyze(context.Background(), long, "")
	require.NoError(t, err)
	assert.NotContains(t, gen.prompts[0], "TAIL")
}

func TestAnalyze_StopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	gen := &scriptedGen{errs: []error{context.Canceled}}

	_, err := New(gen, quietLogger()).Analyze(ctx, "resume", "")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, gen.prompts, 1)
}

func TestAnalyze_NotConfigured(t *testing.T) {
	a := New(nil, quietLogger())
	_, err := a.Analyze(context.Background(), "resume", "")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.NoError(t, a.Close())
}

func TestClose(t *testing.T) {
	gen := &scriptedGen{}
	require.NoError(t, New(gen, quietLogger()).Close())
	assert.True(t, gen.closed)
}
