// Package settings persists the user-mutable engine configuration: source
// property names, read property, tag inclusion, exclusion rules, and UI
// state. Every mutation is written through to disk immediately.
package settings

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/peterbourgon/diskv/v3"

	"github.com/veslatte/clipdex/internal/apperr"
	"github.com/veslatte/clipdex/internal/catalog"
)

const settingsKey = "settings"

// Settings is the persisted shape.
type Settings struct {
	// SourceProperties is the comma-separated list of frontmatter
	// properties that mark a note as clipped.
	SourceProperties string `json:"source_properties"`
	// ReadProperty holds the read flag; empty disables read tracking.
	ReadProperty           string   `json:"read_property"`
	IncludeFrontmatterTags bool     `json:"include_frontmatter_tags"`
	IgnoredDirectories     []string `json:"ignored_directories"`
	// PanelExpanded is UI-only state; changing it does not trigger a
	// catalog refresh.
	PanelExpanded bool `json:"panel_expanded"`
}

// Store is a diskv-backed settings store. It implements
// catalog.SettingsSource.
type Store struct {
	d *diskv.Diskv

	mu       sync.Mutex
	cur      Settings
	onChange func()
}

// Open loads persisted settings from dir, seeding the store with defaults on
// first run.
func Open(dir string, defaults Settings) (*Store, error) {
	d := diskv.New(diskv.Options{
		BasePath:     dir,
		CacheSizeMax: 64 * 1024,
	})
	s := &Store{d: d, cur: defaults}

	data, err := d.Read(settingsKey)
	if err != nil {
		// First run: persist the defaults.
		if err := s.persist(); err != nil {
			return nil, err
		}
		return s, nil
	}

	var loaded Settings
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("settings: decode persisted settings: %w", err)
	}
	s.cur = loaded
	return s, nil
}

// OnChange registers a callback invoked after every engine-relevant mutation
// (UI-only state excluded).
func (s *Store) OnChange(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onChange = fn
}

// Current returns a copy of the persisted settings.
func (s *Store) Current() Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Engine returns the catalog engine configuration derived from the current
// settings. Implements catalog.SettingsSource.
func (s *Store) Engine() catalog.Settings {
	s.mu.Lock()
	cur := s.snapshot()
	s.mu.Unlock()
	return catalog.Settings{
		SourceProperties:       catalog.ParseSourceProperties(cur.SourceProperties),
		ReadProperty:           strings.TrimSpace(cur.ReadProperty),
		IncludeFrontmatterTags: cur.IncludeFrontmatterTags,
		IgnoredDirectories:     cur.IgnoredDirectories,
	}
}

// UpdateEngine replaces the engine-relevant fields and persists.
func (s *Store) UpdateEngine(sourceProperties, readProperty string, includeFrontmatterTags bool) error {
	if len(catalog.ParseSourceProperties(sourceProperties)) == 0 {
		return fmt.Errorf("settings: source properties must name at least one property")
	}
	s.mu.Lock()
	s.cur.SourceProperties = sourceProperties
	s.cur.ReadProperty = readProperty
	s.cur.IncludeFrontmatterTags = includeFrontmatterTags
	err := s.persist()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify()
	return nil
}

// AddRule appends an exclusion rule. Duplicate rules (case-insensitive) are
// rejected.
func (s *Store) AddRule(rule string) error {
	rule = strings.TrimSpace(rule)
	if rule == "" {
		return fmt.Errorf("settings: rule must not be empty")
	}

	s.mu.Lock()
	for _, r := range s.cur.IgnoredDirectories {
		if strings.EqualFold(r, rule) {
			s.mu.Unlock()
			return apperr.ErrAlreadyExists
		}
	}
	s.cur.IgnoredDirectories = append(s.cur.IgnoredDirectories, rule)
	err := s.persist()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify()
	return nil
}

// RemoveRule deletes an exclusion rule by exact (case-insensitive) value.
func (s *Store) RemoveRule(rule string) error {
	s.mu.Lock()
	idx := -1
	for i, r := range s.cur.IgnoredDirectories {
		if strings.EqualFold(r, rule) {
			idx = i
			break
		}
	}
	if idx < 0 {
		s.mu.Unlock()
		return apperr.ErrNotFound
	}
	s.cur.IgnoredDirectories = append(
		s.cur.IgnoredDirectories[:idx],
		s.cur.IgnoredDirectories[idx+1:]...)
	err := s.persist()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify()
	return nil
}

// ClearRules removes all exclusion rules.
func (s *Store) ClearRules() error {
	s.mu.Lock()
	s.cur.IgnoredDirectories = nil
	err := s.persist()
	s.mu.Unlock()
	if err != nil {
		return err
	}
	s.notify()
	return nil
}

// SetPanelExpanded persists the UI panel state. No refresh notification.
func (s *Store) SetPanelExpanded(expanded bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur.PanelExpanded = expanded
	return s.persist()
}

// snapshot returns a copy with the rule slice cloned. Callers hold s.mu.
func (s *Store) snapshot() Settings {
	cp := s.cur
	if s.cur.IgnoredDirectories != nil {
		cp.IgnoredDirectories = make([]string, len(s.cur.IgnoredDirectories))
		copy(cp.IgnoredDirectories, s.cur.IgnoredDirectories)
	}
	return cp
}

// persist writes the current settings through to disk. Callers hold s.mu.
func (s *Store) persist() error {
	data, err := json.MarshalIndent(s.cur, "", "  ")
	if err != nil {
		return fmt.Errorf("settings: encode: %w", err)
	}
	if err := s.d.Write(settingsKey, data); err != nil {
		return fmt.Errorf("settings: persist: %w", err)
	}
	return nil
}

func (s *Store) notify() {
	s.mu.Lock()
	fn := s.onChange
	s.mu.Unlock()
	if fn != nil {
		fn()
	}
}
