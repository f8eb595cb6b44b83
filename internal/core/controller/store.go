package controller

import (
	"slices"
	"sync"

	"github.com/niksmo/teerex/internal/core/domain"
)

// Store holds the catalog state of one session.
//
// Only the [Controller] event loop writes to it. Get is safe to call from
// any goroutine.
type Store struct {
	mu    sync.RWMutex
	state domain.CatalogState
	warm  bool

	// IsLoading is set while either request is outstanding.
	viewPending bool
	loadPending bool
}

func NewStore() *Store {
	s := &Store{state: domain.NewCatalogState(), viewPending: true}
	s.syncLoadingLocked()
	return s
}

// Get returns a read-only snapshot of the state.
func (s *Store) Get() domain.CatalogState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Clone()
}

// isWarm reports whether a full catalog fetch has succeeded in this session.
func (s *Store) isWarm() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.warm
}

func (s *Store) setLoading(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Status = domain.StatusLoading
	s.state.Query = query
	s.viewPending = true
	s.syncLoadingLocked()
}

// beginLoad marks a full catalog fetch as outstanding.
func (s *Store) beginLoad() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadPending = true
	s.syncLoadingLocked()
}

// finishLoad marks the full catalog fetch as completed, whatever its result.
func (s *Store) finishLoad() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadPending = false
	s.syncLoadingLocked()
}

// setCatalog replaces the cached catalog. When show is set the whole
// catalog also becomes the visible set.
func (s *Store) setCatalog(ps []domain.Product, show bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ps == nil {
		ps = []domain.Product{}
	}
	s.warm = true
	s.state.AllProducts = slices.Clone(ps)
	if !show {
		return
	}
	s.state.VisibleProducts = slices.Clone(ps)
	s.state.Query = ""
	s.setLoadedLocked()
}

func (s *Store) setVisible(query string, ps []domain.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if ps == nil {
		ps = []domain.Product{}
	}
	s.state.VisibleProducts = slices.Clone(ps)
	s.state.Query = query
	s.setLoadedLocked()
}

// resetVisible shows the whole cached catalog again.
func (s *Store) resetVisible() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.VisibleProducts = slices.Clone(s.state.AllProducts)
	s.state.Query = ""
	s.setLoadedLocked()
}

func (s *Store) setFailure(err *domain.FetchError) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Status = domain.StatusError
	s.state.VisibleProducts = []domain.Product{}
	s.state.LastError = err
	s.viewPending = false
	s.syncLoadingLocked()
}

func (s *Store) setLoadedLocked() {
	s.state.Status = domain.StatusLoaded
	s.state.LastError = nil
	s.viewPending = false
	s.syncLoadingLocked()
}

func (s *Store) syncLoadingLocked() {
	s.state.IsLoading = s.viewPending || s.loadPending
}
