// Package typeface loads the Go font family and exposes the text metrics and
// glyph outlines needed to lay out and draw cartographic text in page points.
package typeface

import (
	"fmt"
	"sync"

	"map-composer/pkg/geometry"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
)

// Style selects a member of the font family.
type Style int

const (
	Regular Style = iota
	Bold
	Italic
	BoldItalic
)

// String returns the style name.
func (s Style) String() string {
	switch s {
	case Bold:
		return "bold"
	case Italic:
		return "italic"
	case BoldItalic:
		return "bold-italic"
	default:
		return "regular"
	}
}

// Font describes a font by style and size in points.
type Font struct {
	Style Style   `toml:"style" json:"style"`
	Size  float64 `toml:"size" json:"size"`
}

// DefaultFont is the label font used when an element specifies none.
var DefaultFont = Font{Style: Regular, Size: 10}

var (
	parseMu sync.Mutex
	parsed  = map[Style]*sfnt.Font{}

	faceMu sync.Mutex
	faces  = map[Font]*Face{}
)

func ttf(s Style) []byte {
	switch s {
	case Bold:
		return gobold.TTF
	case Italic:
		return goitalic.TTF
	case BoldItalic:
		return gobolditalic.TTF
	default:
		return goregular.TTF
	}
}

func load(s Style) (*sfnt.Font, error) {
	parseMu.Lock()
	defer parseMu.Unlock()
	if f, ok := parsed[s]; ok {
		return f, nil
	}
	f, err := opentype.Parse(ttf(s))
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s font: %w", s, err)
	}
	parsed[s] = f
	return f, nil
}

// Face is a sized font. Faces are cached per Font and are not safe for
// concurrent use.
type Face struct {
	font    Font
	sf      *sfnt.Font
	face    font.Face
	buf     sfnt.Buffer
	ppem    fixed.Int26_6
	metrics font.Metrics
}

// Open returns the cached face for f, creating it on first use.
func Open(f Font) (*Face, error) {
	if f.Size <= 0 {
		f.Size = DefaultFont.Size
	}
	faceMu.Lock()
	defer faceMu.Unlock()
	if fc, ok := faces[f]; ok {
		return fc, nil
	}
	sf, err := load(f.Style)
	if err != nil {
		return nil, err
	}
	// 72 DPI makes one pixel equal one page point.
	ff, err := opentype.NewFace(sf, &opentype.FaceOptions{
		Size:    f.Size,
		DPI:     72,
		Hinting: font.HintingNone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create face %v: %w", f, err)
	}
	fc := &Face{
		font:    f,
		sf:      sf,
		face:    ff,
		ppem:    fixed.Int26_6(f.Size * 64),
		metrics: ff.Metrics(),
	}
	faces[f] = fc
	return fc, nil
}

// MustOpen is Open for the embedded Go fonts, which always parse.
func MustOpen(f Font) *Face {
	fc, err := Open(f)
	if err != nil {
		panic(err)
	}
	return fc
}

// Font returns the font this face was opened with.
func (f *Face) Font() Font { return f.font }

// Ascent is the distance from the baseline to the top of the line.
func (f *Face) Ascent() float64 { return toFloat(f.metrics.Ascent) }

// Descent is the distance from the baseline to the bottom of the line.
func (f *Face) Descent() float64 { return toFloat(f.metrics.Descent) }

// Height is the recommended baseline-to-baseline distance.
func (f *Face) Height() float64 { return toFloat(f.metrics.Height) }

// Leading is the gap between one line's descent and the next line's ascent.
func (f *Face) Leading() float64 {
	l := f.Height() - f.Ascent() - f.Descent()
	if l < 0 {
		return 0
	}
	return l
}

// Advance returns the width of s in points, kerning included.
func (f *Face) Advance(s string) float64 {
	return toFloat(font.MeasureString(f.face, s))
}

// Outline returns the glyph outlines of s with its baseline origin at (x, y).
// Glyphs missing from the font are skipped after advancing.
func (f *Face) Outline(s string, x, y float64) geometry.Path {
	var p geometry.Path
	pen := x
	prev := sfnt.GlyphIndex(0)
	for i, r := range s {
		gi, err := f.sf.GlyphIndex(&f.buf, r)
		if err != nil {
			continue
		}
		if i > 0 && prev != 0 {
			if k, err := f.sf.Kern(&f.buf, prev, gi, f.ppem, font.HintingNone); err == nil {
				pen += toFloat(k)
			}
		}
		segs, err := f.sf.LoadGlyph(&f.buf, gi, f.ppem, nil)
		if err == nil {
			appendSegments(&p, segs, pen, y)
		}
		if adv, err := f.sf.GlyphAdvance(&f.buf, gi, f.ppem, font.HintingNone); err == nil {
			pen += toFloat(adv)
		}
		prev = gi
	}
	return p
}

func appendSegments(p *geometry.Path, segs sfnt.Segments, dx, dy float64) {
	pt := func(a fixed.Point26_6) (float64, float64) {
		return dx + toFloat(a.X), dy + toFloat(a.Y)
	}
	open := false
	for _, s := range segs {
		switch s.Op {
		case sfnt.SegmentOpMoveTo:
			if open {
				p.Close()
			}
			x, y := pt(s.Args[0])
			p.MoveTo(x, y)
			open = true
		case sfnt.SegmentOpLineTo:
			x, y := pt(s.Args[0])
			p.LineTo(x, y)
		case sfnt.SegmentOpQuadTo:
			cx, cy := pt(s.Args[0])
			x, y := pt(s.Args[1])
			p.QuadTo(cx, cy, x, y)
		case sfnt.SegmentOpCubeTo:
			c1x, c1y := pt(s.Args[0])
			c2x, c2y := pt(s.Args[1])
			x, y := pt(s.Args[2])
			p.CubeTo(c1x, c1y, c2x, c2y, x, y)
		}
	}
	if open {
		p.Close()
	}
}

func toFloat(v fixed.Int26_6) float64 {
	return float64(v) / 64
}
