// Package memstore implements the run store in memory, for tests and
// short-lived fits that don't need a database file.
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/cognicore/topika/pkg/topika/internalerr"
	"github.com/cognicore/topika/pkg/topika/store"
)

type memStore struct {
	mu     sync.RWMutex
	runs   map[string]store.Run
	traces map[string][]float64
	terms  map[string][]store.TopicTerm
}

// New creates an empty in-memory run store.
func New() store.Store {
	return &memStore{
		runs:   make(map[string]store.Run),
		traces: make(map[string][]float64),
		terms:  make(map[string][]store.TopicTerm),
	}
}

func (m *memStore) Close() error {
	return nil
}

func (m *memStore) SaveRun(_ context.Context, r store.Run) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs[r.ID] = r
	return nil
}

func (m *memStore) GetRun(_ context.Context, id string) (store.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.runs[id]
	if !ok {
		return store.Run{}, fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	return r, nil
}

func (m *memStore) ListRuns(_ context.Context, limit int) ([]store.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]store.Run, 0, len(m.runs))
	for _, r := range m.runs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && limit < len(out) {
		out = out[:limit]
	}
	return out, nil
}

func (m *memStore) BestRun(_ context.Context, method string, k int) (store.Run, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var best store.Run
	found := false
	for _, r := range m.runs {
		if r.Method != method || r.K != k {
			continue
		}
		if !found || r.LogLik > best.LogLik {
			best = r
			found = true
		}
	}
	if !found {
		return store.Run{}, internalerr.ErrNotFound
	}
	return best, nil
}

func (m *memStore) DeleteRun(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.runs[id]; !ok {
		return fmt.Errorf("run %s: %w", id, internalerr.ErrNotFound)
	}
	delete(m.runs, id)
	delete(m.traces, id)
	delete(m.terms, id)
	return nil
}

func (m *memStore) SaveTrace(_ context.Context, runID string, values []float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.traces[runID] = append([]float64(nil), values...)
	return nil
}

func (m *memStore) GetTrace(_ context.Context, runID string) ([]float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]float64(nil), m.traces[runID]...), nil
}

func (m *memStore) SaveTopicTerms(_ context.Context, runID string, terms []store.TopicTerm) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.terms[runID] = append([]store.TopicTerm(nil), terms...)
	return nil
}

func (m *memStore) GetTopicTerms(_ context.Context, runID string, topic int) ([]store.TopicTerm, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var out []store.TopicTerm
	for _, t := range m.terms[runID] {
		if t.Topic == topic {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Rank < out[j].Rank })
	return out, nil
}
