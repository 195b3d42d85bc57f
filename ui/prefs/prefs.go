// Package prefs stores the viewer's user preferences as JSON.
package prefs

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

const (
	appDir    = "map-composer"
	prefsFile = "preferences.json"
)

// Preference keys.
const (
	KeyWindowWidth  = "window.width"
	KeyWindowHeight = "window.height"
	KeyMouseMode    = "canvas.mouse_mode"
	KeyConfigPath   = "config.path"
)

// Prefs is a key-value map persisted to one file. It is safe for concurrent
// use.
type Prefs struct {
	mu     sync.RWMutex
	values map[string]interface{}
	path   string
}

// Dir returns the directory preferences and the default settings file live
// in.
func Dir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		configDir = filepath.Join(os.Getenv("HOME"), ".config")
	}
	return filepath.Join(configDir, appDir)
}

// Load reads preferences from Dir(). A missing or unreadable file yields
// empty preferences.
func Load() *Prefs {
	return LoadFrom(filepath.Join(Dir(), prefsFile))
}

// LoadFrom reads preferences from path.
func LoadFrom(path string) *Prefs {
	p := &Prefs{values: make(map[string]interface{}), path: path}
	data, err := os.ReadFile(path)
	if err != nil {
		return p
	}
	_ = json.Unmarshal(data, &p.values)
	if p.values == nil {
		p.values = make(map[string]interface{})
	}
	return p
}

// Path returns the file Save writes to.
func (p *Prefs) Path() string { return p.path }

// Save writes preferences to disk.
func (p *Prefs) Save() error {
	p.mu.RLock()
	data, err := json.MarshalIndent(p.values, "", "  ")
	p.mu.RUnlock()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(p.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(p.path, data, 0o644)
}

// Float returns a number preference, or fallback if not set.
func (p *Prefs) Float(key string, fallback float64) float64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	switch n := p.values[key].(type) {
	case float64:
		return n
	case int:
		return float64(n)
	}
	return fallback
}

// SetFloat stores a number preference.
func (p *Prefs) SetFloat(key string, val float64) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// String returns a string preference, or fallback if not set.
func (p *Prefs) String(key, fallback string) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if s, ok := p.values[key].(string); ok {
		return s
	}
	return fallback
}

// SetString stores a string preference.
func (p *Prefs) SetString(key string, val string) {
	p.mu.Lock()
	p.values[key] = val
	p.mu.Unlock()
}

// WindowSize returns the last window size, or the given default.
func (p *Prefs) WindowSize(w, h float32) (float32, float32) {
	return float32(p.Float(KeyWindowWidth, float64(w))), float32(p.Float(KeyWindowHeight, float64(h)))
}

// SetWindowSize records the window size.
func (p *Prefs) SetWindowSize(w, h float32) {
	p.SetFloat(KeyWindowWidth, float64(w))
	p.SetFloat(KeyWindowHeight, float64(h))
}

// ConfigPath returns the settings file to load.
func (p *Prefs) ConfigPath() string {
	return p.String(KeyConfigPath, filepath.Join(filepath.Dir(p.path), "settings.toml"))
}
