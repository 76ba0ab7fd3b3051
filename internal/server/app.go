// Package server wires configuration, storage and services together and runs
// the HTTP API next to the gRPC health endpoint until shutdown.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/resumeai/internal/logging"
	"github.com/dmitrijs2005/resumeai/internal/server/analyzer"
	"github.com/dmitrijs2005/resumeai/internal/server/challenges"
	"github.com/dmitrijs2005/resumeai/internal/server/config"
	"github.com/dmitrijs2005/resumeai/internal/server/httpapi"
	"github.com/dmitrijs2005/resumeai/internal/server/mailer"
	"github.com/dmitrijs2005/resumeai/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/resumeai/internal/server/services"
	"github.com/dmitrijs2005/resumeai/internal/server/storage"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/resumeai/internal/server/grpc"
)

type App struct {
	config   *config.Config
	logger   logging.Logger
	db       *sql.DB
	redis    *redis.Client
	analyzer *analyzer.Analyzer
	auth     *services.AuthService
	analysis *services.AnalysisService
}

// NewLogger builds the process logger from the configured format and level.
func NewLogger(c *config.Config) (logging.Logger, error) {
	return logging.New(c.LogFormat, c.LogLevel, os.Stdout)
}

// Migrate applies pending schema migrations and returns.
func Migrate(ctx context.Context, c *config.Config, logger logging.Logger) error {
	db, err := repomanager.OpenDB(ctx, c.DatabaseDSN)
	if err != nil {
		return fmt.Errorf("db init error: %w", err)
	}
	defer db.Close()

	if err := repomanager.NewPostgresRepositoryManager().RunMigrations(ctx, db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	logger.Info(ctx, "migrations applied")
	return nil
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	db, err := repomanager.OpenDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrations: %w", err)
	}

	app := &App{config: c, logger: logger, db: db}

	var store challenges.Store = challenges.NewMemoryStore()
	if c.RedisURL != "" {
		rdb, err := challenges.Connect(ctx, c.RedisURL)
		if err != nil {
			app.Close()
			return nil, err
		}
		app.redis = rdb
		store = challenges.NewRedisStore(rdb)
		logger.Info(ctx, "challenge store: redis")
	} else {
		logger.Warn(ctx, "challenge store: memory, challenges are lost on restart")
	}

	var gen analyzer.Generator
	if c.GeminiAPIKey != "" {
		g, err := analyzer.NewGeminiGenerator(ctx, c.GeminiAPIKey, c.GeminiModel)
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("gemini client: %w", err)
		}
		gen = g
	} else {
		logger.Warn(ctx, "no Gemini API key configured, analyses will fail")
	}
	app.analyzer = analyzer.New(gen, logger)

	var archive storage.Archive = storage.NoopArchive{}
	if c.S3Bucket != "" {
		a, err := storage.NewS3Archive(ctx, storage.S3Config{
			Region:       c.S3Region,
			AccessKey:    c.S3RootUser,
			SecretKey:    c.S3RootPassword,
			Bucket:       c.S3Bucket,
			BaseEndpoint: c.S3BaseEndpoint,
		})
		if err != nil {
			app.Close()
			return nil, fmt.Errorf("s3 archive: %w", err)
		}
		archive = a
	}

	if c.DevEchoSecret {
		logger.Warn(ctx, "sign-in secrets are echoed in API responses; do not use in production")
	}

	app.auth = services.NewAuthService(db, rm, store, mailer.NewConsoleMailer(os.Stderr, logger), c, logger)
	app.analysis = services.NewAnalysisService(db, rm, app.analyzer, archive, logger)

	return app, nil
}

// Close releases every resource NewApp opened.
func (app *App) Close() {
	var errs []error
	if app.analyzer != nil {
		errs = append(errs, app.analyzer.Close())
	}
	if app.redis != nil {
		errs = append(errs, app.redis.Close())
	}
	if app.db != nil {
		errs = append(errs, app.db.Close())
	}
	if err := errors.Join(errs...); err != nil {
		app.logger.Error(context.Background(), "close failed", "error", err.Error())
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	h := httpapi.NewHandler(app.auth, app.analysis, app.db, app.logger)
	s := httpapi.NewServer(app.config.HTTPAddr, httpapi.NewRouter(h, app.config.CORSOrigins), app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewHealthServer(app.config.HealthAddrGRPC, app.db, app.logger)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run blocks until a signal arrives, ctx is cancelled or a server fails.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if app.config.HealthAddrGRPC != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startGRPCServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	app.Close()
	app.logger.Info(context.Background(), "App stopped")
}
