package layer

import (
	"strings"

	"map-composer/pkg/geometry"
)

// MarkerStyle is the glyph drawn for point features.
type MarkerStyle int

const (
	MarkerCircle MarkerStyle = iota
	MarkerSquare
	MarkerTriangle
	MarkerTriangle2
	MarkerDiamond
	MarkerCross
	MarkerX
	MarkerSimpleStar
	MarkerThickCross
)

var markerNames = []string{
	"circle", "square", "triangle", "triangle2", "diamond",
	"cross", "x", "simple_star", "thick_cross",
}

func (m MarkerStyle) String() string {
	if int(m) >= 0 && int(m) < len(markerNames) {
		return markerNames[m]
	}
	return "circle"
}

// ParseMarkerStyle looks up a style by name, defaulting to circle.
func ParseMarkerStyle(s string) MarkerStyle {
	s = strings.ToLower(strings.TrimSpace(s))
	for i, n := range markerNames {
		if n == s {
			return MarkerStyle(i)
		}
	}
	return MarkerCircle
}

// Marker returns the glyph for style centred on the origin.
func Marker(style MarkerStyle, size float64) geometry.Path {
	var p geometry.Path
	h := size / 2
	switch style {
	case MarkerSquare:
		p.MoveTo(-h, -h)
		p.LineTo(h, -h)
		p.LineTo(h, h)
		p.LineTo(-h, h)
		p.LineTo(-h, -h)
	case MarkerTriangle:
		p.MoveTo(0, -h)
		p.LineTo(h, h)
		p.LineTo(-h, h)
		p.LineTo(0, -h)
	case MarkerTriangle2:
		p.MoveTo(0, h)
		p.LineTo(h, -h)
		p.LineTo(-h, -h)
		p.LineTo(0, h)
	case MarkerDiamond:
		p.MoveTo(0, -h*1.2)
		p.LineTo(h, 0)
		p.LineTo(0, h*1.2)
		p.LineTo(-h, 0)
		p.LineTo(0, -h*1.2)
	case MarkerCross:
		p.MoveTo(0, -h)
		p.LineTo(0, h)
		p.MoveTo(-h, 0)
		p.LineTo(h, 0)
	case MarkerX:
		p.MoveTo(-h, -h)
		p.LineTo(h, h)
		p.MoveTo(-h, h)
		p.LineTo(h, -h)
	case MarkerSimpleStar:
		p.MoveTo(-h, -h)
		p.LineTo(h, h)
		p.MoveTo(-h, h)
		p.LineTo(h, -h)
		p.MoveTo(0, h*1.2)
		p.LineTo(0, -h*1.2)
		p.MoveTo(-h*1.2, 0)
		p.LineTo(h*1.2, 0)
	case MarkerThickCross:
		t := size / 6
		p.MoveTo(-t, -h)
		p.LineTo(t, -h)
		p.LineTo(t, -t)
		p.LineTo(h, -t)
		p.LineTo(h, t)
		p.LineTo(t, t)
		p.LineTo(t, h)
		p.LineTo(-t, h)
		p.LineTo(-t, t)
		p.LineTo(-h, t)
		p.LineTo(-h, -t)
		p.LineTo(-t, -t)
		p.LineTo(-t, -h)
	default:
		p.Ellipse(-h, -h, size, size)
	}
	return p
}
