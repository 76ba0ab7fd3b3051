package cli

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"

	"github.com/dmitrijs2005/resumeai/internal/client/config"
	"github.com/dmitrijs2005/resumeai/internal/client/models"
	"github.com/dmitrijs2005/resumeai/internal/client/results"
	"github.com/dmitrijs2005/resumeai/internal/common"
	"github.com/dmitrijs2005/resumeai/internal/logging"
)

type fakeTransport struct {
	mu      sync.Mutex
	pingErr error
	pings   int
	token   string
	closed  bool
}

func (f *fakeTransport) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pings++
	return f.pingErr
}

func (f *fakeTransport) setPingErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pingErr = err
}

func (f *fakeTransport) SetAccessToken(t string) { f.token = t }
func (f *fakeTransport) Close() error            { f.closed = true; return nil }

type fakeStore struct {
	sess     *models.Session
	loadErr  error
	clearErr error
	cleared  bool
}

func (f *fakeStore) Load(context.Context) (models.Session, error) {
	if f.loadErr != nil {
		return models.Session{}, f.loadErr
	}
	if f.sess == nil {
		return models.Session{}, common.ErrNoSession
	}
	return *f.sess, nil
}

func (f *fakeStore) Current() (models.Session, bool) {
	if f.sess == nil {
		return models.Session{}, false
	}
	return *f.sess, true
}

func (f *fakeStore) Clear(context.Context) error {
	if f.clearErr != nil {
		return f.clearErr
	}
	f.cleared = true
	f.sess = nil
	return nil
}

type fakeAuth struct {
	store     *fakeStore
	variant   models.ChallengeVariant
	ref       models.ChallengeRef
	reqErr    error
	verifyErr error
	session   models.Session

	gotEmail  string
	gotSecret string
	abandoned int
}

func (f *fakeAuth) Variant() models.ChallengeVariant { return f.variant }

func (f *fakeAuth) RequestChallenge(_ context.Context, email string) (models.ChallengeRef, error) {
	f.gotEmail = email
	if f.reqErr != nil {
		return models.ChallengeRef{}, f.reqErr
	}
	ref := f.ref
	ref.Email = email
	if ref.Variant == "" {
		ref.Variant = f.variant
	}
	return ref, nil
}

func (f *fakeAuth) Verify(_ context.Context, secret string) (models.Session, error) {
	f.gotSecret = secret
	if f.verifyErr != nil {
		return models.Session{}, f.verifyErr
	}
	s := f.session
	f.store.sess = &s
	return s, nil
}

func (f *fakeAuth) Abandon() { f.abandoned++ }

type fakeSubmitter struct {
	reqs []models.AnalysisRequest
	sub  models.Submission
	err  error
}

func (f *fakeSubmitter) Submit(_ context.Context, req models.AnalysisRequest) (models.Submission, error) {
	f.reqs = append(f.reqs, req)
	return f.sub, f.err
}

type fakeHistory struct {
	items      []models.AnalysisResult
	dash       results.Dashboard
	err        error
	refreshErr error
	owner      string
}

func (f *fakeHistory) List(_ context.Context, owner string) ([]models.AnalysisResult, error) {
	f.owner = owner
	return f.items, f.err
}

func (f *fakeHistory) Get(_ context.Context, owner, id string) (models.AnalysisResult, error) {
	f.owner = owner
	if f.err != nil {
		return models.AnalysisResult{}, f.err
	}
	for _, it := range f.items {
		if it.ID == id {
			return it, nil
		}
	}
	return models.AnalysisResult{}, common.ErrNotFound
}

func (f *fakeHistory) Refresh(context.Context) (results.Dashboard, error) {
	return f.dash, f.refreshErr
}

type testApp struct {
	*App
	transport *fakeTransport
	store     *fakeStore
	authf     *fakeAuth
	submit    *fakeSubmitter
	hist      *fakeHistory
	buf       *bytes.Buffer
}

func newTestApp(input string) *testApp {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	store := &fakeStore{}
	ta := &testApp{
		transport: &fakeTransport{},
		store:     store,
		authf:     &fakeAuth{store: store, variant: models.VariantLink},
		submit:    &fakeSubmitter{},
		hist:      &fakeHistory{},
		buf:       &bytes.Buffer{},
	}
	ta.App = &App{
		config:   cfg,
		logger:   logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		api:      ta.transport,
		sessions: store,
		auth:     ta.authf,
		analyzer: ta.submit,
		history:  ta.hist,
		reader:   bufio.NewReader(strings.NewReader(input)),
		out:      ta.buf,
	}
	return ta
}

func (ta *testApp) signIn() {
	ta.store.sess = &models.Session{UserID: "u1", Email: "a@b.com", UsageCount: 1, AccessToken: "jwt"}
}
