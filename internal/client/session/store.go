// Package session owns the client's single Session: who is signed in and how
// many analyses they have used.
//
// Every mutation is serialized and written through to the local SQLite slot
// before the in-memory copy changes, so a successful call is immediately
// visible to Load, including from a fresh process.
//
// The usage counter has two writers. IncrementUsage is the optimistic +1
// applied after a successful submission; Reconcile overwrites the counter
// with the backend's value, which always wins.
package session

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"sync"

	"github.com/dmitrijs2005/resumeai/internal/client/models"
	"github.com/dmitrijs2005/resumeai/internal/client/repositories/sessionslot"
	"github.com/dmitrijs2005/resumeai/internal/common"
	"github.com/dmitrijs2005/resumeai/internal/dbx"
	"github.com/dmitrijs2005/resumeai/internal/logging"
)

type Store struct {
	mu     sync.Mutex
	db     *sql.DB
	logger logging.Logger
	cur    *models.Session
}

func NewStore(db *sql.DB, logger logging.Logger) *Store {
	return &Store{db: db, logger: logger.With("module", "session_store")}
}

func (s *Store) repo(db dbx.DBTX) sessionslot.Repository {
	return sessionslot.NewSQLiteRepository(db)
}

// Load restores the persisted session. A missing or malformed slot yields
// common.ErrNoSession.
func (s *Store) Load(ctx context.Context) (models.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kv, err := s.repo(s.db).All(ctx)
	if err != nil {
		return models.Session{}, err
	}
	if len(kv) == 0 {
		s.cur = nil
		return models.Session{}, common.ErrNoSession
	}

	sess, err := decode(kv)
	if err != nil {
		s.logger.Warn(ctx, "ignoring malformed session slot", "error", err)
		s.cur = nil
		return models.Session{}, common.ErrNoSession
	}

	s.cur = &sess
	return sess, nil
}

// Current returns the in-memory session without touching storage.
func (s *Store) Current() (models.Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cur == nil {
		return models.Session{}, false
	}
	return *s.cur, true
}

// Set replaces the slot with sess.
func (s *Store) Set(ctx context.Context, sess models.Session) error {
	if err := sess.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		r := s.repo(tx)
		if err := r.Clear(ctx); err != nil {
			return err
		}
		for k, v := range encode(sess) {
			if err := r.Put(ctx, k, v); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("session set: %w", err)
	}

	s.cur = &sess
	s.logger.Info(ctx, "session established", "user_id", sess.UserID, "usage_count", sess.UsageCount)
	return nil
}

// Clear removes the session. Clearing an empty store is not an error.
func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.repo(s.db).Clear(ctx); err != nil {
		return fmt.Errorf("session clear: %w", err)
	}
	s.cur = nil
	return nil
}

// Reconcile sets the usage counter to the backend's authoritative count.
func (s *Store) Reconcile(ctx context.Context, count int) error {
	if count < 0 {
		return &common.ValidationError{Field: "usage_count", Reason: "negative"}
	}
	return s.writeUsage(ctx, func(int) int { return count })
}

// IncrementUsage adds one to the usage counter and returns the new value.
func (s *Store) IncrementUsage(ctx context.Context) (int, error) {
	var next int
	err := s.writeUsage(ctx, func(cur int) int {
		next = cur + 1
		return next
	})
	if err != nil {
		return 0, err
	}
	return next, nil
}

func (s *Store) writeUsage(ctx context.Context, f func(int) int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.cur == nil {
		return common.ErrNoSession
	}

	n := f(s.cur.UsageCount)
	if err := s.repo(s.db).Put(ctx, sessionslot.KeyUsageCount, strconv.Itoa(n)); err != nil {
		return fmt.Errorf("session usage: %w", err)
	}

	prev := s.cur.UsageCount
	s.cur.UsageCount = n
	if n != prev+1 {
		s.logger.Debug(ctx, "usage reconciled", "from", prev, "to", n)
	}
	return nil
}

func encode(sess models.Session) map[string]string {
	kv := map[string]string{
		sessionslot.KeyUserID:     sess.UserID,
		sessionslot.KeyEmail:      sess.Email,
		sessionslot.KeyUsageCount: strconv.Itoa(sess.UsageCount),
	}
	if sess.AccessToken != "" {
		kv[sessionslot.KeyAccessToken] = sess.AccessToken
	}
	return kv
}

func decode(kv map[string]string) (models.Session, error) {
	raw, ok := kv[sessionslot.KeyUsageCount]
	if !ok {
		return models.Session{}, &common.ValidationError{Field: "usage_count", Reason: "missing"}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return models.Session{}, &common.ValidationError{Field: "usage_count", Reason: "not a number"}
	}

	sess := models.Session{
		UserID:      kv[sessionslot.KeyUserID],
		Email:       kv[sessionslot.KeyEmail],
		UsageCount:  n,
		AccessToken: kv[sessionslot.KeyAccessToken],
	}
	if err := sess.Validate(); err != nil {
		return models.Session{}, err
	}
	return sess, nil
}
