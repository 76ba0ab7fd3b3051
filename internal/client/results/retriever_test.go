package results

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/dmitrijs2005/resumeai/internal/client/models"
	"github.com/dmitrijs2005/resumeai/internal/common"
	"github.com/dmitrijs2005/resumeai/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAPI struct {
	items   []models.AnalysisResult
	user    models.UserRecord
	listErr error
	userErr error
	owners  []string
}

func (f *fakeAPI) ListAnalyses(_ context.Context, owner string) ([]models.AnalysisResult, error) {
	f.owners = append(f.owners, owner)
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := make([]models.AnalysisResult, len(f.items))
	copy(out, f.items)
	return out, nil
}

func (f *fakeAPI) GetUser(_ context.Context, id string) (models.UserRecord, error) {
	if f.userErr != nil {
		return models.UserRecord{}, f.userErr
	}
	return f.user, nil
}

type fakeSessions struct {
	sess       *models.Session
	reconciled []int
	err        error
}

func (f *fakeSessions) Current() (models.Session, bool) {
	if f.sess == nil {
		return models.Session{}, false
	}
	return *f.sess, true
}

func (f *fakeSessions) Reconcile(_ context.Context, n int) error {
	if f.err != nil {
		return f.err
	}
	f.reconciled = append(f.reconciled, n)
	f.sess.UsageCount = n
	return nil
}

func newRetriever(api API, s Sessions) *Retriever {
	return NewRetriever(api, s, logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func sample() []models.AnalysisResult {
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	return []models.AnalysisResult{
		{ID: "a1", Owner: "u1", CreatedAt: base, OverallScore: 60},
		{ID: "a3", Owner: "u1", CreatedAt: base.Add(2 * time.Hour), OverallScore: 81},
		{ID: "a2", Owner: "u1", CreatedAt: base.Add(time.Hour), OverallScore: 70},
	}
}

func TestList_NewestFirst(t *testing.T) {
	api := &fakeAPI{items: sample()}
	r := newRetriever(api, &fakeSessions{})

	got, err := r.List(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, []string{"a3", "a2", "a1"}, []string{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, []string{"u1"}, api.owners)
}

func TestList_EmptyIsValid(t *testing.T) {
	r := newRetriever(&fakeAPI{}, &fakeSessions{})

	got, err := r.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestList_FetchesEveryCall(t *testing.T) {
	api := &fakeAPI{items: sample()[:1]}
	r := newRetriever(api, &fakeSessions{})

	_, err := r.List(context.Background(), "u1")
	require.NoError(t, err)
	api.items = sample()
	got, err := r.List(context.Background(), "u1")
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestGet(t *testing.T) {
	r := newRetriever(&fakeAPI{items: sample()}, &fakeSessions{})

	got, err := r.Get(context.Background(), "u1", "a2")
	require.NoError(t, err)
	assert.Equal(t, 70, got.OverallScore)

	_, err = r.Get(context.Background(), "u1", "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGet_PropagatesTransportError(t *testing.T) {
	r := newRetriever(&fakeAPI{listErr: common.ErrTransport}, &fakeSessions{})

	_, err := r.Get(context.Background(), "u1", "a1")
	assert.ErrorIs(t, err, common.ErrTransport)
	assert.NotErrorIs(t, err, common.ErrNotFound)
}

func TestRefresh_ReconcilesWithServer(t *testing.T) {
	api := &fakeAPI{
		items: sample(),
		user:  models.UserRecord{ID: "u1", Email: "a@b.com", UsageCount: 2, UsageLimit: 3},
	}
	s := &fakeSessions{sess: &models.Session{UserID: "u1", Email: "a@b.com", UsageCount: 3}}
	r := newRetriever(api, s)

	d, err := r.Refresh(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, d.User.UsageLimit)
	assert.Len(t, d.Analyses, 3)
	assert.Equal(t, "a3", d.Analyses[0].ID)
	assert.Equal(t, []int{2}, s.reconciled)
	assert.Equal(t, 2, s.sess.UsageCount)
}

func TestRefresh_Errors(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name   string
		api    *fakeAPI
		sess   *fakeSessions
		target error
	}{
		{"no session", &fakeAPI{}, &fakeSessions{}, common.ErrNoSession},
		{"user fails", &fakeAPI{userErr: common.ErrUnauthorized}, &fakeSessions{sess: &models.Session{UserID: "u1"}}, common.ErrUnauthorized},
		{"list fails", &fakeAPI{listErr: common.ErrTimeout}, &fakeSessions{sess: &models.Session{UserID: "u1"}}, common.ErrTimeout},
		{"reconcile fails", &fakeAPI{}, &fakeSessions{sess: &models.Session{UserID: "u1"}, err: boom}, boom},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newRetriever(tt.api, tt.sess).Refresh(context.Background())
			assert.ErrorIs(t, err, tt.target)
			assert.Empty(t, tt.sess.reconciled)
		})
	}
}
