package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/dmitrijs2005/resumeai/internal/client/analysis"
	"github.com/dmitrijs2005/resumeai/internal/client/auth"
	"github.com/dmitrijs2005/resumeai/internal/client/client"
	"github.com/dmitrijs2005/resumeai/internal/client/config"
	"github.com/dmitrijs2005/resumeai/internal/client/models"
	"github.com/dmitrijs2005/resumeai/internal/client/results"
	"github.com/dmitrijs2005/resumeai/internal/client/session"
	"github.com/dmitrijs2005/resumeai/internal/common"
	"github.com/dmitrijs2005/resumeai/internal/filex"
	"github.com/dmitrijs2005/resumeai/internal/logging"
)

const dbFileName = "resumeai.db"

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

type transport interface {
	Ping(ctx context.Context) error
	SetAccessToken(token string)
	Close() error
}

type sessionStore interface {
	Load(ctx context.Context) (models.Session, error)
	Current() (models.Session, bool)
	Clear(ctx context.Context) error
}

type authFlow interface {
	Variant() models.ChallengeVariant
	RequestChallenge(ctx context.Context, email string) (models.ChallengeRef, error)
	Verify(ctx context.Context, secret string) (models.Session, error)
	Abandon()
}

type submitter interface {
	Submit(ctx context.Context, req models.AnalysisRequest) (models.Submission, error)
}

type historyReader interface {
	List(ctx context.Context, owner string) ([]models.AnalysisResult, error)
	Get(ctx context.Context, owner, id string) (models.AnalysisResult, error)
	Refresh(ctx context.Context) (results.Dashboard, error)
}

type App struct {
	config   *config.Config
	logger   logging.Logger
	api      transport
	sessions sessionStore
	auth     authFlow
	analyzer submitter
	history  historyReader
	closers  []io.Closer

	reader *bufio.Reader
	out    io.Writer

	mu   sync.Mutex
	mode Mode
}

// NewApp opens the local database, connects the transport and wires the
// sign-in, submission and history components around one session store.
func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	path, err := filex.EnsureDataFile(c.DataDir, dbFileName)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, path)
	if err != nil {
		return nil, fmt.Errorf("error initializing database: %w", err)
	}

	api, err := client.NewHTTPClient(c.ServerURL, c.HealthAddr, c.RequestTimeout)
	if err != nil {
		db.Close()
		return nil, err
	}

	store := session.NewStore(db, logger)

	return &App{
		config:   c,
		logger:   logger,
		api:      api,
		sessions: store,
		auth: auth.NewController(api, store, logger, auth.Options{
			Variant:    c.ChallengeVariant,
			Timeout:    c.RequestTimeout,
			EchoSecret: c.DevEchoSecret,
		}),
		analyzer: analysis.NewOrchestrator(api, store, logger, c.UsageLimit, c.RequestTimeout),
		history:  results.NewRetriever(api, store, logger),
		closers:  []io.Closer{db},
		reader:   bufio.NewReader(os.Stdin),
		out:      os.Stdout,
	}, nil
}

// Run restores any saved session, starts the connectivity watcher and blocks
// in the REPL until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) {
	defer a.Close()

	fmt.Fprintln(a.out, "Welcome to resumeai (type 'help' for commands)")
	a.restoreSession(ctx)

	watchCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go a.StartOnlineStatusWatcher(watchCtx, a.config.OnlineCheckInterval)

	runREPL(ctx, a, a.getStatus, a.reader)
}

func (a *App) Close() error {
	errs := []error{a.api.Close()}
	for _, c := range a.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

func (a *App) restoreSession(ctx context.Context) {
	sess, err := a.sessions.Load(ctx)
	switch {
	case err == nil:
		a.api.SetAccessToken(sess.AccessToken)
		fmt.Fprintf(a.out, "Signed in as %s\n", sess.Email)
	case errors.Is(err, common.ErrNoSession):
	default:
		a.logger.Error(ctx, "failed to restore session", "error", err)
	}
}

func (a *App) isLoggedIn() bool {
	_, ok := a.sessions.Current()
	return ok
}

func (a *App) Mode() Mode {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.mode
}

func (a *App) setMode(mode Mode) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.mode != mode {
		a.mode = mode
		a.logger.Info(context.Background(), "connectivity changed", "mode", mode)
	}
}

func (a *App) getStatus() string {
	s := ""
	if sess, ok := a.sessions.Current(); ok {
		s = sess.Email + " "
	}
	if m := a.Mode(); m != "" {
		s += string(m)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

// StartOnlineStatusWatcher pings the backend every interval and flips the
// app between online and offline mode.
func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {
	a.checkOnline(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			a.checkOnline(ctx)
		case <-ctx.Done():
			return
		}
	}
}

func (a *App) checkOnline(ctx context.Context) {
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	err := a.api.Ping(pingCtx)
	cancel()

	if ctx.Err() != nil {
		return
	}
	if err != nil {
		a.setMode(ModeOffline)
		return
	}
	a.setMode(ModeOnline)
}
