package analysis

import (
	"sync"

	"github.com/sells-group/lead-intel/internal/model"
)

// ResultStore holds the most recent analysis result and the process-wide
// run counter behind a mutex. It is injected into the Service rather than
// living as package state so each test gets an isolated store. The cached
// result is replaced wholesale on each run; concurrent writers race with
// last-write-wins semantics but never corrupt the cell.
type ResultStore struct {
	mu   sync.RWMutex
	last *model.AnalysisResult
	runs int
}

// NewResultStore creates an empty store.
func NewResultStore() *ResultStore {
	return &ResultStore{}
}

// Put replaces the cached result and increments the run counter, returning
// the new count. Called exactly once per successful analysis run.
func (s *ResultStore) Put(result model.AnalysisResult) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.last = &result
	s.runs++
	return s.runs
}

// Last returns a copy of the cached result (nil when no run has completed)
// and the current run count.
func (s *ResultStore) Last() (*model.AnalysisResult, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.last == nil {
		return nil, s.runs
	}
	cp := *s.last
	cp.Leads = append([]model.ScoredLead(nil), s.last.Leads...)
	return &cp, s.runs
}
