package memory

import (
	"context"
	"sync"

	"github.com/olinekleiven/snarveg/application/ports"
)

// PreferenceStore keeps per-user preferences in memory. Unknown users get
// the zero preferences rather than an error.
type PreferenceStore struct {
	mu    sync.RWMutex
	prefs map[string]ports.Preferences
}

// NewPreferenceStore creates an empty in-memory preference store
func NewPreferenceStore() *PreferenceStore {
	return &PreferenceStore{
		prefs: make(map[string]ports.Preferences),
	}
}

var _ ports.PreferenceStore = (*PreferenceStore)(nil)

// Get returns the user's stored preferences
func (s *PreferenceStore) Get(ctx context.Context, userID string) (ports.Preferences, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs[userID], nil
}

// Set stores the user's preferences
func (s *PreferenceStore) Set(ctx context.Context, userID string, prefs ports.Preferences) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prefs[userID] = prefs
	return nil
}
