// Package memory is an in-memory ledger store, used as the default backend
// for local runs and as the store under test.
package memory

import (
	"context"
	"sync"

	"github.com/mocanunicolaemarius-del/buget/internal/core"
)

type Store struct {
	mu        sync.Mutex
	months    map[string]*core.MonthRecord
	templates []core.QuickTemplate
}

func New() *Store {
	return &Store{months: make(map[string]*core.MonthRecord)}
}

// LoadMonth returns a copy of the stored record, if any.
func (s *Store) LoadMonth(_ context.Context, key string) (*core.MonthRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.months[key]
	if !ok {
		return nil, false, nil
	}
	return rec.Clone(), true, nil
}

// SaveMonth stores a copy of the record under the key.
func (s *Store) SaveMonth(_ context.Context, key string, rec *core.MonthRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.months[key] = rec.Clone()
	return nil
}

// ListTemplates returns templates in insertion order.
func (s *Store) ListTemplates(_ context.Context) ([]core.QuickTemplate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.QuickTemplate, len(s.templates))
	copy(out, s.templates)
	return out, nil
}

// UpsertTemplate overwrites by id, keeping the original position, or appends.
func (s *Store) UpsertTemplate(_ context.Context, tpl core.QuickTemplate) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.templates {
		if s.templates[i].ID == tpl.ID {
			s.templates[i] = tpl
			return nil
		}
	}
	s.templates = append(s.templates, tpl)
	return nil
}

// DeleteTemplate removes by id; missing ids are a no-op.
func (s *Store) DeleteTemplate(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := s.templates[:0]
	for _, t := range s.templates {
		if t.ID != id {
			out = append(out, t)
		}
	}
	s.templates = out
	return nil
}
