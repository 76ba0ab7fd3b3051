// Package results fetches a user's past analyses from the backend.
//
// Nothing is cached between calls: every List goes to the backend, so the
// view is as fresh as the last request.
package results

import (
	"context"
	"fmt"
	"sort"

	"github.com/dmitrijs2005/resumeai/internal/client/models"
	"github.com/dmitrijs2005/resumeai/internal/common"
	"github.com/dmitrijs2005/resumeai/internal/logging"
	"golang.org/x/sync/errgroup"
)

type API interface {
	ListAnalyses(ctx context.Context, owner string) ([]models.AnalysisResult, error)
	GetUser(ctx context.Context, id string) (models.UserRecord, error)
}

// Sessions is the part of the session store Refresh reconciles.
type Sessions interface {
	Current() (models.Session, bool)
	Reconcile(ctx context.Context, usageCount int) error
}

type Retriever struct {
	api      API
	sessions Sessions
	logger   logging.Logger
}

func NewRetriever(api API, sessions Sessions, logger logging.Logger) *Retriever {
	return &Retriever{api: api, sessions: sessions, logger: logger.With("module", "results")}
}

// List returns owner's analyses, newest first. An empty list is not an error.
func (r *Retriever) List(ctx context.Context, owner string) ([]models.AnalysisResult, error) {
	items, err := r.api.ListAnalyses(ctx, owner)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	sortNewestFirst(items)
	return items, nil
}

// Get finds one analysis by id among owner's analyses.
func (r *Retriever) Get(ctx context.Context, owner, id string) (models.AnalysisResult, error) {
	items, err := r.List(ctx, owner)
	if err != nil {
		return models.AnalysisResult{}, err
	}
	for _, it := range items {
		if it.ID == id {
			return it, nil
		}
	}
	return models.AnalysisResult{}, fmt.Errorf("analysis %s: %w", id, common.ErrNotFound)
}

// Dashboard is the signed-in user's record plus their analyses.
type Dashboard struct {
	User     models.UserRecord
	Analyses []models.AnalysisResult
}

// Refresh loads the user record and analyses concurrently and overwrites the
// local usage counter with the backend's value.
func (r *Retriever) Refresh(ctx context.Context) (Dashboard, error) {
	sess, ok := r.sessions.Current()
	if !ok {
		return Dashboard{}, common.ErrNoSession
	}

	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		u, err := r.api.GetUser(gctx, sess.UserID)
		if err != nil {
			return fmt.Errorf("get user: %w", err)
		}
		d.User = u
		return nil
	})
	g.Go(func() error {
		items, err := r.List(gctx, sess.UserID)
		if err != nil {
			return err
		}
		d.Analyses = items
		return nil
	})
	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}

	if d.User.UsageCount != sess.UsageCount {
		r.logger.Info(ctx, "reconciling usage count", "local", sess.UsageCount, "server", d.User.UsageCount)
	}
	if err := r.sessions.Reconcile(ctx, d.User.UsageCount); err != nil {
		return d, fmt.Errorf("reconcile usage: %w", err)
	}
	return d, nil
}

func sortNewestFirst(items []models.AnalysisResult) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
}
