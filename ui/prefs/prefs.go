// Package prefs provides YAML-based window preferences.
package prefs

import (
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"
)

const prefsFile = "preferences.yaml"

// Default window size.
const (
	DefaultWindowWidth  = 720
	DefaultWindowHeight = 480
)

type values struct {
	LastDirectory string  `yaml:"last_directory,omitempty"`
	WindowWidth   float32 `yaml:"window_width,omitempty"`
	WindowHeight  float32 `yaml:"window_height,omitempty"`
}

// Prefs stores UI state that survives restarts.
type Prefs struct {
	mu     sync.RWMutex
	values values
	path   string
}

// Load reads preferences from <UserConfigDir>/outline-fit/preferences.yaml.
// Returns empty preferences if the file doesn't exist.
func Load() *Prefs {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return LoadFrom(filepath.Join(configDir, "outline-fit", prefsFile))
}

// LoadFrom reads preferences from path. Unreadable files yield empty
// preferences that will be written back to path.
func LoadFrom(path string) *Prefs {
	p := &Prefs{path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		return p
	}
	_ = yaml.Unmarshal(data, &p.values)
	return p
}

// Save writes preferences to disk.
func (p *Prefs) Save() error {
	p.mu.RLock()
	data, err := yaml.Marshal(&p.values)
	p.mu.RUnlock()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0o644)
}

// LastDirectory returns the directory of the last picked image.
func (p *Prefs) LastDirectory() string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.values.LastDirectory
}

// SetLastDirectory stores the directory of the last picked image.
func (p *Prefs) SetLastDirectory(dir string) {
	p.mu.Lock()
	p.values.LastDirectory = dir
	p.mu.Unlock()
}

// WindowSize returns the saved window size, or the default if unset.
func (p *Prefs) WindowSize() (width, height float32) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	width, height = p.values.WindowWidth, p.values.WindowHeight
	if width <= 0 || height <= 0 {
		return DefaultWindowWidth, DefaultWindowHeight
	}
	return width, height
}

// SetWindowSize stores the window size.
func (p *Prefs) SetWindowSize(width, height float32) {
	p.mu.Lock()
	p.values.WindowWidth = width
	p.values.WindowHeight = height
	p.mu.Unlock()
}
