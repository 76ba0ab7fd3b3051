package cli

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/resumeai/internal/client/models"
	"github.com/dmitrijs2005/resumeai/internal/client/results"
	"github.com/dmitrijs2005/resumeai/internal/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_Online(t *testing.T) {
	ta := newTestApp("")
	ta.signIn()
	ta.hist.dash = results.Dashboard{
		User:     models.UserRecord{ID: "u1", Email: "a@b.com", UsageCount: 2, UsageLimit: 3},
		Analyses: []models.AnalysisResult{{ID: "a1"}, {ID: "a2"}},
	}

	require.NoError(t, ta.Status(context.Background()))
	assert.Contains(t, ta.buf.String(), "a@b.com: 2 of 3 analyses used, 1 left, 2 saved")
}

func TestStatus_OfflineFallsBackToLocal(t *testing.T) {
	ta := newTestApp("")
	ta.signIn()
	ta.hist.refreshErr = common.ErrTransport

	require.NoError(t, ta.Status(context.Background()))
	assert.Contains(t, ta.buf.String(), "a@b.com (offline): 1 of 3 analyses used")
}

func TestStatus_OtherErrorsReturned(t *testing.T) {
	ta := newTestApp("")
	ta.signIn()
	ta.hist.refreshErr = common.ErrUnauthorized

	assert.ErrorIs(t, ta.Status(context.Background()), common.ErrUnauthorized)
}

func TestStatus_NotSignedIn(t *testing.T) {
	ta := newTestApp("")
	require.NoError(t, ta.Status(context.Background()))
	assert.Contains(t, ta.buf.String(), "Not signed in.")
}

func TestHistory(t *testing.T) {
	ta := newTestApp("")
	ta.signIn()
	ta.hist.items = []models.AnalysisResult{
		{ID: "a2", CreatedAt: time.Now(), OverallScore: 80, ScoreVerdict: "Strong"},
		{ID: "a1", CreatedAt: time.Now().Add(-time.Hour), OverallScore: 55, ScoreVerdict: "Fair"},
	}

	require.NoError(t, ta.History(context.Background()))
	out := ta.buf.String()
	assert.Equal(t, "u1", ta.hist.owner)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Strong")
	assert.Less(t, strings.Index(out, "a2"), strings.Index(out, "a1"))
}

func TestHistory_Empty(t *testing.T) {
	ta := newTestApp("")
	ta.signIn()

	require.NoError(t, ta.History(context.Background()))
	assert.Contains(t, ta.buf.String(), "No analyses yet")
}

func TestShow(t *testing.T) {
	ta := newTestApp("")
	ta.signIn()
	ta.hist.items = []models.AnalysisResult{{
		ID: "a1", OverallScore: 64, SummaryInsight: "Solid but generic.",
		ImprovedBullets: []models.BulletRewrite{{Original: "Did APIs", Improved: "Built 12 APIs"}},
	}}

	require.NoError(t, ta.Show(context.Background(), "a1"))
	out := ta.buf.String()
	assert.Contains(t, out, "Score: 64/100")
	assert.Contains(t, out, "Solid but generic.")
	assert.Contains(t, out, "after:  Built 12 APIs")

	assert.ErrorIs(t, ta.Show(context.Background(), "zzz"), common.ErrNotFound)
}

func TestHistoryCommands_RequireSession(t *testing.T) {
	ta := newTestApp("")
	assert.ErrorIs(t, ta.History(context.Background()), common.ErrNoSession)
	assert.ErrorIs(t, ta.Show(context.Background(), "a1"), common.ErrNoSession)
}
