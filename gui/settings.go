package gui

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// WindowSettings is the persisted geometry of one window.
type WindowSettings struct {
	X float32 `yaml:"x"`
	Y float32 `yaml:"y"`
	W float32 `yaml:"w,omitempty"`
	H float32 `yaml:"h,omitempty"`
}

// Settings holds UI state that outlives the process, keyed by window title.
// The yaml encoder sorts map keys, so saved files diff cleanly.
type Settings struct {
	Windows map[string]WindowSettings `yaml:"windows"`

	dirty bool
}

// NewSettings returns an empty settings store.
func NewSettings() *Settings {
	return &Settings{Windows: make(map[string]WindowSettings)}
}

// Window returns the stored geometry of a window.
func (s *Settings) Window(title string) (WindowSettings, bool) {
	ws, ok := s.Windows[title]
	return ws, ok
}

// SetWindow stores the geometry of a window.
func (s *Settings) SetWindow(title string, ws WindowSettings) {
	if old, ok := s.Windows[title]; ok && old == ws {
		return
	}
	s.Windows[title] = ws
	s.dirty = true
}

// Dirty reports whether anything changed since the last Load or Save.
func (s *Settings) Dirty() bool {
	return s.dirty
}

// Load replaces the store's contents with the file at path.
// A missing file leaves the store empty and is not an error.
func (s *Settings) Load(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		logger().Debug("settings file not found, starting fresh", "path", path)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}

	loaded := NewSettings()
	if err := yaml.Unmarshal(data, loaded); err != nil {
		return fmt.Errorf("parse settings %s: %w", path, err)
	}
	if loaded.Windows == nil {
		loaded.Windows = make(map[string]WindowSettings)
	}
	s.Windows = loaded.Windows
	s.dirty = false
	logger().Debug("settings loaded", "path", path, "windows", len(s.Windows))
	return nil
}

// Save writes the store to path through a temporary file, so a crash
// never leaves a truncated file behind.
func (s *Settings) Save(path string) error {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode settings: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".settings-*")
	if err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		return fmt.Errorf("save settings: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	s.dirty = false
	return nil
}
