package carto

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"path/filepath"
	"strings"

	"github.com/srwiley/oksvg"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// MapImage places a raster or SVG picture on the page. When the file cannot
// be read the element keeps its place and renders a placeholder.
type MapImage struct {
	Base
	FileName            string
	MaintainAspectRatio bool
	LineWidth           float64

	img     image.Image
	icon    *oksvg.SvgIcon
	loadErr error
	aspect  float64
}

// NewMapImage loads fileName and sizes the element to the picture's natural
// size in points. A load failure is kept and reported by LoadError.
func NewMapImage(name, fileName string) *MapImage {
	m := &MapImage{
		Base:      newBase(name),
		FileName:  fileName,
		LineWidth: 0.75,
	}
	m.BorderVisible = true
	m.loadErr = m.load()
	return m
}

func (m *MapImage) Kind() Kind { return KindMapImage }

func (m *MapImage) load() error {
	if m.FileName == "" {
		return fmt.Errorf("map image %q: no file name", m.name)
	}
	f, err := os.Open(m.FileName)
	if err != nil {
		return fmt.Errorf("failed to open map image: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(m.FileName), ".svg") {
		icon, err := oksvg.ReadIconStream(f, oksvg.WarnErrorMode)
		if err != nil {
			return fmt.Errorf("failed to parse svg %s: %w", m.FileName, err)
		}
		m.icon = icon
		m.setNaturalSize(icon.ViewBox.W, icon.ViewBox.H)
		return nil
	}

	img, _, err := image.Decode(f)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", m.FileName, err)
	}
	m.img = img
	b := img.Bounds()
	m.setNaturalSize(float64(b.Dx()), float64(b.Dy()))
	return nil
}

func (m *MapImage) setNaturalSize(w, h float64) {
	if w <= 0 || h <= 0 {
		return
	}
	m.SetSize(w, h)
	m.aspect = w / h
}

// Reload reads the file again, e.g. after FileName changed.
func (m *MapImage) Reload() error {
	m.img, m.icon = nil, nil
	m.loadErr = m.load()
	return m.loadErr
}

// Image returns the decoded raster picture, or nil.
func (m *MapImage) Image() image.Image { return m.img }

// Icon returns the parsed SVG picture, or nil.
func (m *MapImage) Icon() *oksvg.SvgIcon { return m.icon }

// Available reports whether there is anything to draw.
func (m *MapImage) Available() bool { return m.img != nil || m.icon != nil }

// LoadError returns the error from the last load attempt.
func (m *MapImage) LoadError() error { return m.loadErr }

// Resize follows the pointer down to one point in each dimension and, when
// the aspect ratio is held, derives the other dimension from the dragged one.
func (m *MapImage) Resize(x, y float64, mode ResizeMode) {
	m.resize(x, y, mode, 1, 1)
	if !m.MaintainAspectRatio || m.aspect <= 0 {
		return
	}
	switch mode {
	case ResizeN, ResizeS:
		m.width = m.height * m.aspect
	default:
		m.height = m.width / m.aspect
	}
}
