package state

import (
	"errors"
	"fmt"
	"sync"
)

// ErrScreenNotFound is returned for screen ids outside the device's table.
var ErrScreenNotFound = errors.New("screen not found")

// screen holds the declared kinds and current values of one screen.
type screen struct {
	kinds  map[string]Kind
	values map[string]any
}

// Store is the in-memory device state shared by every connection. It is
// created once at startup and mutated only by protocol updates; all access
// is serialized by one mutex.
type Store struct {
	mu      sync.Mutex
	screens map[ScreenID]*screen
	pages   []Page
	console *ConsoleLog
}

// Options configures a new Store.
type Options struct {
	// Schema declares the settings of each screen. Defaults to DefaultSchema().
	Schema map[ScreenID][]Setting
	// Pages is the menu. Defaults to DefaultPages().
	Pages []Page
	// ConsoleCapacity bounds the console log. Defaults to DefaultConsoleCapacity.
	ConsoleCapacity int
}

// NewStore creates a Store initialized with default values.
func NewStore(opts Options) *Store {
	schema := opts.Schema
	if schema == nil {
		schema = DefaultSchema()
	}
	pages := opts.Pages
	if pages == nil {
		pages = DefaultPages()
	}

	s := &Store{
		screens: make(map[ScreenID]*screen, len(schema)),
		pages:   append([]Page(nil), pages...),
		console: NewConsoleLog(opts.ConsoleCapacity),
	}
	for id, settings := range schema {
		sc := &screen{
			kinds:  make(map[string]Kind, len(settings)),
			values: make(map[string]any, len(settings)),
		}
		for _, setting := range settings {
			sc.kinds[setting.Key] = setting.Kind
			sc.values[setting.Key] = cloneValue(setting.Default)
		}
		s.screens[id] = sc
	}
	return s
}

// Screen returns a copy of the current values of a screen.
func (s *Store) Screen(id ScreenID) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.screens[id]
	if !ok {
		return nil, fmt.Errorf("screen %d: %w", id, ErrScreenNotFound)
	}
	out := make(map[string]any, len(sc.values))
	for k, v := range sc.values {
		out[k] = cloneValue(v)
	}
	return out, nil
}

// Kind returns the declared kind of key on a screen. Keys that were never
// declared report KindAny.
func (s *Store) Kind(id ScreenID, key string) (Kind, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.screens[id]
	if !ok {
		return KindAny, fmt.Errorf("screen %d: %w", id, ErrScreenNotFound)
	}
	return sc.kinds[key], nil
}

// Set decodes raw according to the declared kind of key and stores it.
// It returns the stored value. Nothing is broadcast; callers notify clients.
func (s *Store) Set(id ScreenID, key, raw string) (any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.screens[id]
	if !ok {
		return nil, fmt.Errorf("screen %d: %w", id, ErrScreenNotFound)
	}

	v, err := Decode(sc.kinds[key], raw)
	if err != nil {
		return nil, fmt.Errorf("screen %d key %s: %w", id, key, err)
	}
	sc.values[key] = v
	return cloneValue(v), nil
}

// SetValue stores an already-typed value, checking it against the declared
// kind. It is used to apply configured overrides at startup.
func (s *Store) SetValue(id ScreenID, key string, v any) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sc, ok := s.screens[id]
	if !ok {
		return fmt.Errorf("screen %d: %w", id, ErrScreenNotFound)
	}

	v, err := normalizeDefault(sc.kinds[key], v)
	if err != nil {
		return fmt.Errorf("screen %d key %s: %w", id, key, err)
	}
	sc.values[key] = v
	return nil
}

// ApplyOverrides replaces default values with configured ones.
func (s *Store) ApplyOverrides(overrides map[int]map[string]any) error {
	for id, values := range overrides {
		for key, v := range values {
			if err := s.SetValue(ScreenID(id), key, v); err != nil {
				return err
			}
		}
	}
	return nil
}

// Pages returns the device menu.
func (s *Store) Pages() []Page {
	return append([]Page(nil), s.pages...)
}

// Console returns the shared console log.
func (s *Store) Console() *ConsoleLog {
	return s.console
}
