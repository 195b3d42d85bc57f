// Package export renders a map composition for printing or to an image file.
package export

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"

	"map-composer/internal/carto"
	"map-composer/internal/render"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

// DefaultResolution is the print and export resolution in dots per inch.
const DefaultResolution = 600

var (
	// ErrNoSuchPage is returned when a page other than the first is
	// requested. A composition is always one page.
	ErrNoSuchPage = errors.New("no such page")
	// ErrUnsupportedFormat is returned for an unknown file extension.
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// PageFormat is the printable region of the paper, in points.
type PageFormat struct {
	ImageableX      float64
	ImageableY      float64
	ImageableWidth  float64
	ImageableHeight float64
}

// Exporter renders documents at a fixed resolution.
type Exporter struct {
	Renderer   *render.Renderer
	Resolution int
}

// New returns an exporter at DefaultResolution.
func New(r *render.Renderer) *Exporter {
	return &Exporter{Renderer: r, Resolution: DefaultResolution}
}

func (e *Exporter) dpi() float64 {
	if e.Resolution <= 0 {
		return DefaultResolution
	}
	return float64(e.Resolution)
}

// pixels converts a length in points to device pixels.
func (e *Exporter) pixels(points float64) int {
	return int(e.dpi() * points / 72)
}

// Print draws page pageIndex of doc onto c, which stands for the imageable
// area of the paper at the exporter's resolution. Selected elements are
// drawn unselected so no selection outlines reach the paper, and are
// selected again afterwards.
func (e *Exporter) Print(doc *carto.Document, c render.Canvas, pageIndex int) error {
	if pageIndex > 0 {
		return ErrNoSuchPage
	}
	selected := doc.SelectedElements()
	doc.DeselectAll()
	defer func() {
		for _, el := range selected {
			el.SetSelected(true)
		}
	}()
	if err := e.Renderer.Render(doc, c, true, render.Overlay{}); err != nil {
		return fmt.Errorf("print %s: %w", doc.Name, err)
	}
	return nil
}

// PrintImage renders the imageable area of pf into a new image for a
// printer driver. Page points map to pixels at 72/resolution points each.
func (e *Exporter) PrintImage(doc *carto.Document, pf PageFormat, pageIndex int) (*image.RGBA, error) {
	if pageIndex > 0 {
		return nil, ErrNoSuchPage
	}
	w, h := e.pixels(pf.ImageableWidth), e.pixels(pf.ImageableHeight)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("print %s: empty imageable area %gx%g", doc.Name, pf.ImageableWidth, pf.ImageableHeight)
	}
	c := render.NewRasterCanvas(w, h)
	if err := e.Print(doc, c, pageIndex); err != nil {
		return nil, err
	}
	return c.Image(), nil
}

// Rasterize renders the whole page at the exporter's resolution.
func (e *Exporter) Rasterize(doc *carto.Document) (*image.RGBA, error) {
	c := render.NewRasterCanvas(e.pixels(doc.PageWidth), e.pixels(doc.PageHeight))
	if err := e.Print(doc, c, 0); err != nil {
		return nil, err
	}
	return c.Image(), nil
}

// SaveToImage renders the page and writes it to path in the format named by
// the file extension.
func (e *Exporter) SaveToImage(doc *carto.Document, path string) error {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
	if _, ok := encoders[ext]; !ok {
		return fmt.Errorf("save %s: %w %q", path, ErrUnsupportedFormat, ext)
	}
	img, err := e.Rasterize(doc)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := Encode(f, img, ext); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return f.Close()
}

var encoders = map[string]func(io.Writer, image.Image) error{
	"png": png.Encode,
	"jpg": func(w io.Writer, m image.Image) error {
		return jpeg.Encode(w, m, &jpeg.Options{Quality: 95})
	},
	"jpeg": func(w io.Writer, m image.Image) error {
		return jpeg.Encode(w, m, &jpeg.Options{Quality: 95})
	},
	"gif": func(w io.Writer, m image.Image) error {
		return gif.Encode(w, m, nil)
	},
	"tif": func(w io.Writer, m image.Image) error {
		return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate})
	},
	"tiff": func(w io.Writer, m image.Image) error {
		return tiff.Encode(w, m, &tiff.Options{Compression: tiff.Deflate})
	},
	"bmp": bmp.Encode,
}

// Encode writes img in the named format ("png", "jpg", "gif", "tiff",
// "bmp", ...).
func Encode(w io.Writer, img image.Image, format string) error {
	enc, ok := encoders[strings.ToLower(format)]
	if !ok {
		return fmt.Errorf("%w %q", ErrUnsupportedFormat, format)
	}
	return enc(w, img)
}

// Formats lists the extensions SaveToImage accepts.
func Formats() []string {
	return []string{"png", "jpg", "jpeg", "gif", "tif", "tiff", "bmp"}
}
