package session

import (
	"context"
	"sync"
	"time"

	"github.com/DachengChen/trinoai/db"
)

// State owns everything the dashboard keeps between questions.
type State struct {
	History *History

	mu       sync.RWMutex
	snapshot *db.Snapshot
	loadErr  error
	loadedAt time.Time
}

// NewState returns a state with empty history and no catalog.
func NewState() *State {
	return &State{History: NewHistory()}
}

// Refresh reloads the catalog from engine. On failure the previous
// catalog is kept and the error is remembered for display.
func (s *State) Refresh(ctx context.Context, engine db.Engine) error {
	snap, err := db.FetchCatalog(ctx, engine)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.loadErr = err
	if err != nil {
		return err
	}
	s.snapshot = snap
	s.loadedAt = time.Now()
	return nil
}

// Snapshot returns the cached catalog snapshot (nil before the first
// successful refresh) and the last refresh error.
func (s *State) Snapshot() (*db.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot, s.loadErr
}

// Catalog returns the cached catalog, possibly empty.
func (s *State) Catalog() db.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil
	}
	return s.snapshot.Catalog
}

// LoadedAt is the time of the last successful refresh.
func (s *State) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}
