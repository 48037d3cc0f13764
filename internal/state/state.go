// Package state holds the application state as immutable snapshots
// produced by a reducer.
package state

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/thesavant42/timerange-clipboard/internal/models"
	"github.com/thesavant42/timerange-clipboard/internal/timerange"
)

// AppState is one snapshot. Pointers inside it are never mutated after the
// snapshot is published.
type AppState struct {
	Config models.Config

	ActiveURL    string
	ActiveFormat *models.URLFormat // nil when no format matches ActiveURL
	ActiveRange  *models.TimeRange // nil when ActiveURL carries no range

	// ActiveDisplay is the root display options overlaid with the active
	// format's.
	ActiveDisplay models.DisplayOptions

	Clipped *models.TimeRange
}

// Action is a state transition understood by Reduce.
type Action interface {
	reduce(e *timerange.Engine, s AppState) AppState
}

// SetConfig replaces the configuration and re-evaluates the active URL
// against it.
type SetConfig struct{ Config models.Config }

// SetActiveURL records the URL being looked at and extracts its range.
type SetActiveURL struct{ URL string }

// SetClipped replaces the clipped range. A nil Range clears it.
type SetClipped struct{ Range *models.TimeRange }

func (a SetConfig) reduce(e *timerange.Engine, s AppState) AppState {
	s.Config = a.Config
	return s.extract(e)
}

func (a SetActiveURL) reduce(e *timerange.Engine, s AppState) AppState {
	s.ActiveURL = a.URL
	return s.extract(e)
}

func (a SetClipped) reduce(_ *timerange.Engine, s AppState) AppState {
	if a.Range == nil {
		s.Clipped = nil
		return s
	}
	r := *a.Range
	s.Clipped = &r
	return s
}

func (s AppState) extract(e *timerange.Engine) AppState {
	s.ActiveFormat, s.ActiveRange = nil, nil
	if s.ActiveURL != "" {
		s.ActiveRange, s.ActiveFormat = e.Extract(s.Config.URLFormats, s.ActiveURL)
	}
	s.ActiveDisplay = s.Config.DisplayOptions
	if s.ActiveFormat != nil {
		s.ActiveDisplay = s.ActiveDisplay.Merge(s.ActiveFormat.DisplayOptions)
	}
	return s
}

// Reduce applies a to s and returns the new snapshot.
func Reduce(e *timerange.Engine, s AppState, a Action) AppState {
	return a.reduce(e, s)
}

// Store serializes actions and publishes snapshots to subscribers in
// dispatch order.
type Store struct {
	engine *timerange.Engine
	logger *log.Logger

	mu          sync.Mutex
	state       AppState
	subscribers []func(AppState)
}

// NewStore creates an empty store. A nil engine uses timerange.Default.
func NewStore(engine *timerange.Engine, logger *log.Logger) *Store {
	if engine == nil {
		engine = timerange.Default()
	}
	return &Store{engine: engine, logger: logger}
}

// State returns the current snapshot.
func (s *Store) State() AppState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Dispatch applies a and notifies subscribers. Subscribers run with the
// store locked and must not dispatch.
func (s *Store) Dispatch(a Action) AppState {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = Reduce(s.engine, s.state, a)
	if s.logger != nil {
		s.logger.Debug("Dispatch", "action", actionName(a), "url", s.state.ActiveURL,
			"matched", s.state.ActiveFormat != nil, "range", s.state.ActiveRange != nil)
	}
	for _, fn := range s.subscribers {
		fn(s.state)
	}
	return s.state
}

// Subscribe registers fn for every future snapshot.
func (s *Store) Subscribe(fn func(AppState)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

func actionName(a Action) string {
	switch a.(type) {
	case SetConfig:
		return "setConfig"
	case SetActiveURL:
		return "setActiveURL"
	case SetClipped:
		return "setClipped"
	}
	return "unknown"
}
