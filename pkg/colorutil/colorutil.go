// Package colorutil provides the named colours and colour helpers used by the
// map renderer.
package colorutil

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Named colours used throughout the page and map rendering.
var (
	Black     = color.RGBA{R: 0, G: 0, B: 0, A: 255}
	White     = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Cyan      = color.RGBA{R: 0, G: 255, B: 255, A: 255}
	Blue      = color.RGBA{R: 0, G: 0, B: 255, A: 255}
	Red       = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Yellow    = color.RGBA{R: 255, G: 255, B: 0, A: 255}
	Gray      = color.RGBA{R: 128, G: 128, B: 128, A: 255}
	DarkGray  = color.RGBA{R: 64, G: 64, B: 64, A: 255}
	LightGray = color.RGBA{R: 192, G: 192, B: 192, A: 255}

	// Desk is the area around the page in interactive mode.
	Desk = color.RGBA{R: 160, G: 160, B: 160, A: 255}
	// PageShadow is drawn offset below and right of the page.
	PageShadow = color.RGBA{R: 100, G: 100, B: 100, A: 255}
	// Transparent is fully transparent black.
	Transparent = color.RGBA{}
)

// ParseHex parses "#rrggbb" or "#rrggbbaa".
func ParseHex(s string) (color.RGBA, error) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 && len(s) != 8 {
		return color.RGBA{}, fmt.Errorf("invalid colour %q", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return color.RGBA{}, fmt.Errorf("invalid colour %q: %w", s, err)
	}
	if len(s) == 6 {
		return color.RGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 255}, nil
	}
	return color.RGBA{R: uint8(v >> 24), G: uint8(v >> 16), B: uint8(v >> 8), A: uint8(v)}, nil
}

// Hex formats c as "#rrggbb", adding the alpha byte when it is not opaque.
func Hex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// Lerp interpolates linearly between a and b; t is clamped to [0, 1].
func Lerp(a, b color.RGBA, t float64) color.RGBA {
	if t < 0 {
		t = 0
	} else if t > 1 {
		t = 1
	}
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// WithAlpha returns c with its alpha replaced. Colours are treated as
// non-premultiplied, as stored in palettes and settings.
func WithAlpha(c color.RGBA, a uint8) color.RGBA {
	c.A = a
	return c
}

// Premultiplied converts a non-premultiplied colour for use with image/draw.
func Premultiplied(c color.RGBA) color.RGBA {
	if c.A == 255 {
		return c
	}
	a := uint32(c.A)
	return color.RGBA{
		R: uint8(uint32(c.R) * a / 255),
		G: uint8(uint32(c.G) * a / 255),
		B: uint8(uint32(c.B) * a / 255),
		A: c.A,
	}
}
