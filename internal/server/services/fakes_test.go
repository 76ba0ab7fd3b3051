package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/resumeai/internal/common"
	"github.com/dmitrijs2005/resumeai/internal/dbx"
	"github.com/dmitrijs2005/resumeai/internal/logging"
	"github.com/dmitrijs2005/resumeai/internal/server/mailer"
	"github.com/dmitrijs2005/resumeai/internal/server/models"
	"github.com/dmitrijs2005/resumeai/internal/server/repositories/analyses"
	"github.com/dmitrijs2005/resumeai/internal/server/repositories/users"
)

func quietLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db, mock
}

// fakeUsers is an in-memory users.Repository keyed by id.
type fakeUsers struct {
	mu        sync.Mutex
	byID      map[string]*models.User
	getErr    error
	createErr error
	incErr    error
	incCalls  int
}

func newFakeUsers(us ...*models.User) *fakeUsers {
	f := &fakeUsers{byID: map[string]*models.User{}}
	for _, u := range us {
		f.byID[u.ID] = u
	}
	return f
}

func (f *fakeUsers) GetOrCreate(ctx context.Context, email string, limit int) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			c := *u
			return &c, nil
		}
	}
	u := &models.User{ID: "u-" + email, Email: email, UsageLimit: limit, CreatedAt: time.Now()}
	f.byID[u.ID] = u
	c := *u
	return &c, nil
}

func (f *fakeUsers) GetByID(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	c := *u
	return &c, nil
}

func (f *fakeUsers) IncrementUsage(ctx context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.incCalls++
	if f.incErr != nil {
		return nil, f.incErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	if u.UsageCount >= u.UsageLimit {
		return nil, common.ErrQuotaExceeded
	}
	u.UsageCount++
	c := *u
	return &c, nil
}

type fakeAnalyses struct {
	mu        sync.Mutex
	stored    []*models.Analysis
	createErr error
	listErr   error
}

func (f *fakeAnalyses) Create(ctx context.Context, a *models.Analysis) (*models.Analysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	a.CreatedAt = time.Now()
	f.stored = append(f.stored, a)
	return a, nil
}

func (f *fakeAnalyses) ListByUser(ctx context.Context, userID string) ([]*models.Analysis, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	out := []*models.Analysis{}
	for i := len(f.stored) - 1; i >= 0; i-- {
		if f.stored[i].UserID == userID {
			out = append(out, f.stored[i])
		}
	}
	return out, nil
}

type fakeRepoMgr struct {
	users    *fakeUsers
	analyses *fakeAnalyses
}

func (m *fakeRepoMgr) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *fakeRepoMgr) Users(dbx.DBTX) users.Repository              { return m.users }
func (m *fakeRepoMgr) Analyses(dbx.DBTX) analyses.Repository        { return m.analyses }

// captureMailer records sent messages.
type captureMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
	err  error
}

func (c *captureMailer) Send(ctx context.Context, m mailer.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, m)
	return nil
}

func (c *captureMailer) last() mailer.Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sent[len(c.sent)-1]
}
