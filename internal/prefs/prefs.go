// Package prefs persists per-session display preferences in a JSON file
// under the data directory.
package prefs

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// Theme is a display theme choice.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"

	// DefaultTheme applies when a session has not chosen yet.
	DefaultTheme = ThemeLight
)

// Valid reports whether t is a known theme.
func (t Theme) Valid() bool {
	return t == ThemeLight || t == ThemeDark
}

// Store keeps session preferences in data/preferences.json. All access
// goes through the store's lock; writes replace the file atomically.
type Store struct {
	path string

	mu     sync.Mutex
	themes map[string]Theme
}

// New opens (or creates) the preferences file in the given data
// directory.
func New(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	s := &Store{
		path:   filepath.Join(dataDir, "preferences.json"),
		themes: make(map[string]Theme),
	}

	raw, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading preferences: %w", err)
	}
	if err := json.Unmarshal(raw, &s.themes); err != nil {
		return nil, fmt.Errorf("parsing preferences: %w", err)
	}
	return s, nil
}

// Theme returns the session's chosen theme, or DefaultTheme when none
// was recorded.
func (s *Store) Theme(sessionID string) Theme {
	s.mu.Lock()
	defer s.mu.Unlock()

	if t, ok := s.themes[sessionID]; ok && t.Valid() {
		return t
	}
	return DefaultTheme
}

// SetTheme records the session's theme choice and flushes it to disk.
func (s *Store) SetTheme(sessionID string, theme Theme) error {
	if !theme.Valid() {
		return fmt.Errorf("unknown theme %q", theme)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.themes[sessionID] = theme
	return s.flush()
}

func (s *Store) flush() error {
	raw, err := json.MarshalIndent(s.themes, "", "  ")
	if err != nil {
		return err
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("writing preferences: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replacing preferences: %w", err)
	}
	return nil
}
