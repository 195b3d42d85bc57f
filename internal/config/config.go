// Package config loads the engine settings file and watches it for changes.
package config

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"map-composer/internal/render"
	"map-composer/internal/typeface"
	"map-composer/pkg/colorutil"

	"github.com/BurntSushi/toml"
	"github.com/fsnotify/fsnotify"
)

// ErrInvalidSettings is returned when a settings file decodes but holds
// values the engine cannot use.
var ErrInvalidSettings = errors.New("invalid settings")

// Settings are the engine options a user may change without rebuilding.
type Settings struct {
	// PrintResolution is the print and image export resolution in dpi.
	PrintResolution int `toml:"print_resolution"`
	// ScrollZoomDirection is +1 or -1 and flips the mouse wheel.
	ScrollZoomDirection int `toml:"scroll_zoom_direction"`
	// GeneralizationDefault is the on-page size, in points, below which new
	// vector features are skipped.
	GeneralizationDefault float64 `toml:"generalization_default"`

	DeskColour            string `toml:"desk_colour"`
	SelectedFeatureColour string `toml:"selected_feature_colour"`
	SelectionBoxColour    string `toml:"selection_box_colour"`

	DefaultFontSize float64 `toml:"default_font_size"`
}

// Default returns the built-in settings.
func Default() Settings {
	st := render.DefaultStyle()
	return Settings{
		PrintResolution:       600,
		ScrollZoomDirection:   1,
		GeneralizationDefault: 0.5,
		DeskColour:            colorutil.Hex(st.DeskColour),
		SelectedFeatureColour: colorutil.Hex(st.SelectedFeatureColour),
		SelectionBoxColour:    colorutil.Hex(st.SelectionBoxColour),
		DefaultFontSize:       typeface.DefaultFont.Size,
	}
}

// Validate reports the first unusable value.
func (s Settings) Validate() error {
	if s.PrintResolution < 72 || s.PrintResolution > 2400 {
		return fmt.Errorf("%w: print_resolution %d outside 72..2400", ErrInvalidSettings, s.PrintResolution)
	}
	if s.ScrollZoomDirection != 1 && s.ScrollZoomDirection != -1 {
		return fmt.Errorf("%w: scroll_zoom_direction must be 1 or -1, got %d", ErrInvalidSettings, s.ScrollZoomDirection)
	}
	if s.GeneralizationDefault < 0 {
		return fmt.Errorf("%w: negative generalization_default", ErrInvalidSettings)
	}
	if s.DefaultFontSize <= 0 {
		return fmt.Errorf("%w: default_font_size must be positive", ErrInvalidSettings)
	}
	if _, err := s.Style(); err != nil {
		return err
	}
	return nil
}

// Style returns the render colours.
func (s Settings) Style() (render.Style, error) {
	desk, err := colorutil.ParseHex(s.DeskColour)
	if err != nil {
		return render.Style{}, fmt.Errorf("%w: desk_colour: %v", ErrInvalidSettings, err)
	}
	sel, err := colorutil.ParseHex(s.SelectedFeatureColour)
	if err != nil {
		return render.Style{}, fmt.Errorf("%w: selected_feature_colour: %v", ErrInvalidSettings, err)
	}
	box, err := colorutil.ParseHex(s.SelectionBoxColour)
	if err != nil {
		return render.Style{}, fmt.Errorf("%w: selection_box_colour: %v", ErrInvalidSettings, err)
	}
	return render.Style{DeskColour: desk, SelectedFeatureColour: sel, SelectionBoxColour: box}, nil
}

// Font returns the default label font at the configured size.
func (s Settings) Font() typeface.Font {
	f := typeface.DefaultFont
	f.Size = s.DefaultFontSize
	return f
}

// Load reads settings from path. Keys missing from the file keep their
// defaults; a missing file yields Default().
func Load(path string) (Settings, error) {
	s := Default()
	md, err := toml.DecodeFile(path, &s)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return Default(), fmt.Errorf("failed to read %s: %w", path, err)
	}
	for _, k := range md.Undecoded() {
		log.Printf("config: ignoring unknown key %q in %s", k.String(), path)
	}
	if err := s.Validate(); err != nil {
		return Default(), fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Save writes s to path, creating the directory if needed.
func Save(path string, s Settings) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := toml.NewEncoder(f).Encode(s); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

// Watch reloads path whenever it is written or replaced and passes the
// result to fn. The directory is watched so editors that replace the file
// are seen. fn runs on the watcher goroutine; the caller must hand the
// settings to the goroutine that owns the document. Watching stops when ctx
// is done.
func Watch(ctx context.Context, path string, fn func(Settings, error)) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	path = filepath.Clean(path)
	if err := w.Add(filepath.Dir(path)); err != nil {
		w.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(path), err)
	}

	go func() {
		defer w.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				fn(Load(path))
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				log.Printf("config: watch %s: %v", path, err)
			}
		}
	}()
	return nil
}
