package render

import (
	"image"
	"image/color"

	"map-composer/pkg/geometry"

	"github.com/srwiley/oksvg"
)

// Join selects how stroked path segments meet.
type Join int

const (
	JoinMiter Join = iota
	JoinRound
)

// Stroke describes an outline. Width and dash lengths are in the units of the
// canvas's current transform (page points for element drawing).
type Stroke struct {
	Colour     color.RGBA
	Width      float64
	Dash       []float64
	DashOffset float64
	Join       Join
}

// Solid returns a plain stroke of colour c and width w.
func Solid(c color.RGBA, w float64) Stroke {
	return Stroke{Colour: c, Width: w}
}

// Canvas is the drawing target of the renderer. Coordinates passed to it are
// mapped to device pixels by the current transform.
type Canvas interface {
	// Size returns the device size in pixels.
	Size() (width, height int)
	SetTransform(t geometry.AffineTransform)
	Transform() geometry.AffineTransform
	// SetClip restricts drawing to r, given in current coordinates.
	SetClip(r geometry.Rect)
	ClearClip()
	// Clear fills the whole device, ignoring transform and clip.
	Clear(c color.RGBA)
	FillPath(p geometry.Path, c color.RGBA)
	StrokePath(p geometry.Path, s Stroke)
	// DrawImage scales img into dst. Smooth selects bilinear over nearest
	// neighbour sampling.
	DrawImage(img image.Image, dst geometry.Rect, smooth bool)
	DrawSVG(icon *oksvg.SvgIcon, dst geometry.Rect)
}

func rectPath(r geometry.Rect) geometry.Path {
	var p geometry.Path
	p.Rect(r.X, r.Y, r.Width, r.Height)
	return p
}

func linePath(x1, y1, x2, y2 float64) geometry.Path {
	var p geometry.Path
	p.MoveTo(x1, y1)
	p.LineTo(x2, y2)
	return p
}

func fillRect(c Canvas, r geometry.Rect, col color.RGBA) {
	c.FillPath(rectPath(r), col)
}

func strokeRect(c Canvas, r geometry.Rect, s Stroke) {
	c.StrokePath(rectPath(r), s)
}
