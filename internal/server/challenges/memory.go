package challenges

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/resumeai/internal/common"
	"github.com/dmitrijs2005/resumeai/internal/server/models"
)

type memEntry struct {
	c        models.Challenge
	failures int
}

// MemoryStore is a process-local Store for development and tests.
type MemoryStore struct {
	mu      sync.Mutex
	byID    map[string]*memEntry
	byEmail map[string]string
	now     func() time.Time
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]*memEntry),
		byEmail: make(map[string]string),
		now:     time.Now,
	}
}

func (s *MemoryStore) Save(_ context.Context, c *models.Challenge) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.byEmail[c.Email]; ok {
		delete(s.byID, prev)
	}
	s.byID[c.ID] = &memEntry{c: *c}
	s.byEmail[c.Email] = c.ID
	return nil
}

// live returns the entry for id, dropping it when expired. Callers hold mu.
func (s *MemoryStore) live(id string) (*memEntry, bool) {
	e, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	if e.c.Expired(s.now()) {
		s.remove(id)
		return nil, false
	}
	return e, true
}

func (s *MemoryStore) remove(id string) {
	e, ok := s.byID[id]
	if !ok {
		return
	}
	delete(s.byID, id)
	if s.byEmail[e.c.Email] == id {
		delete(s.byEmail, e.c.Email)
	}
}

func (s *MemoryStore) Get(_ context.Context, id string) (*models.Challenge, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(id)
	if !ok {
		return nil, common.ErrNotFound
	}
	c := e.c
	return &c, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.live(id); !ok {
		return common.ErrNotFound
	}
	s.remove(id)
	return nil
}

func (s *MemoryStore) RecordFailure(_ context.Context, id string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.live(id)
	if !ok {
		return 0, common.ErrNotFound
	}
	e.failures++
	return e.failures, nil
}
