package session

import (
	"sync"
	"time"

	"edadash/domain/dataset"
	"edadash/domain/figure"
)

// Session holds the active dataset of one browser session. It is passed
// explicitly to every dashboard operation.
type Session struct {
	ID            string    `json:"id"`
	DefaultLoaded bool      `json:"default_loaded"`
	Source        string    `json:"source"`
	LoadedAt      time.Time `json:"loaded_at"`
	LastSeen      time.Time `json:"last_seen"`

	dataset    *dataset.Dataset
	lastFigure *figure.Figure
	mu         sync.RWMutex
}

// New creates a session with an empty dataset
func New(id string) *Session {
	return &Session{
		ID:       id,
		LastSeen: time.Now(),
		dataset:  dataset.Empty(),
	}
}

// Current returns the active dataset, never nil
func (s *Session) Current() *dataset.Dataset {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dataset
}

// Replace swaps in a new dataset. The previous one is discarded, not merged.
func (s *Session) Replace(ds *dataset.Dataset, source string) {
	if ds == nil {
		ds = dataset.Empty()
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dataset = ds
	s.Source = source
	s.LoadedAt = time.Now()
	s.lastFigure = nil
}

// MarkDefaultLoaded records that the default dataset was requested. It
// returns false when it already had been, so the load happens once.
func (s *Session) MarkDefaultLoaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.DefaultLoaded {
		return false
	}
	s.DefaultLoaded = true
	return true
}

// ClearDefaultLoaded undoes MarkDefaultLoaded after a failed load
func (s *Session) ClearDefaultLoaded() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DefaultLoaded = false
}

// SetFigure remembers the last drawn figure for the embedded chart frame
func (s *Session) SetFigure(f *figure.Figure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastFigure = f
}

// LastFigure returns the last drawn figure, or nil
func (s *Session) LastFigure() *figure.Figure {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastFigure
}

// GetStatus returns a snapshot of the session for templates and the API
func (s *Session) GetStatus() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return map[string]interface{}{
		"id":             s.ID,
		"source":         s.Source,
		"default_loaded": s.DefaultLoaded,
		"loaded_at":      s.LoadedAt,
		"rows":           s.dataset.Rows(),
		"columns":        s.dataset.Schema().Len(),
	}
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.LastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.LastSeen
}
