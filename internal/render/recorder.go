package render

import (
	"image"
	"image/color"

	"map-composer/pkg/geometry"

	"github.com/srwiley/oksvg"
)

// Op names a recorded canvas call.
type Op string

const (
	OpClear  Op = "clear"
	OpClip   Op = "clip"
	OpFill   Op = "fill"
	OpStroke Op = "stroke"
	OpImage  Op = "image"
	OpSVG    Op = "svg"
)

// Call is one recorded drawing operation. Path and Rect are in the
// coordinates passed to the canvas, before the transform.
type Call struct {
	Op        Op
	Path      geometry.Path
	Rect      geometry.Rect
	Colour    color.RGBA
	Stroke    Stroke
	Transform geometry.AffineTransform
}

// Recorder is a Canvas that keeps a log of calls instead of drawing.
type Recorder struct {
	W, H  int
	Calls []Call

	xf geometry.AffineTransform
}

// NewRecorder returns an empty recorder of the given device size.
func NewRecorder(w, h int) *Recorder {
	return &Recorder{W: w, H: h, xf: geometry.Identity()}
}

func (r *Recorder) Size() (int, int)                        { return r.W, r.H }
func (r *Recorder) SetTransform(t geometry.AffineTransform) { r.xf = t }
func (r *Recorder) Transform() geometry.AffineTransform     { return r.xf }

func (r *Recorder) SetClip(rect geometry.Rect) {
	r.add(Call{Op: OpClip, Rect: rect})
}

func (r *Recorder) ClearClip() {}

func (r *Recorder) Clear(c color.RGBA) {
	r.add(Call{Op: OpClear, Colour: c})
}

func (r *Recorder) FillPath(p geometry.Path, c color.RGBA) {
	r.add(Call{Op: OpFill, Path: p, Colour: c})
}

func (r *Recorder) StrokePath(p geometry.Path, s Stroke) {
	r.add(Call{Op: OpStroke, Path: p, Colour: s.Colour, Stroke: s})
}

func (r *Recorder) DrawImage(img image.Image, dst geometry.Rect, smooth bool) {
	r.add(Call{Op: OpImage, Rect: dst})
}

func (r *Recorder) DrawSVG(icon *oksvg.SvgIcon, dst geometry.Rect) {
	r.add(Call{Op: OpSVG, Rect: dst})
}

func (r *Recorder) add(c Call) {
	c.Transform = r.xf
	r.Calls = append(r.Calls, c)
}

// Reset forgets the recorded calls.
func (r *Recorder) Reset() { r.Calls = r.Calls[:0] }

// Count returns how many calls of op were recorded.
func (r *Recorder) Count(op Op) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// DrawCalls counts the calls that put paint on the canvas.
func (r *Recorder) DrawCalls() int {
	return r.Count(OpFill) + r.Count(OpStroke) + r.Count(OpImage) + r.Count(OpSVG)
}

// WithColour returns the fill and stroke calls made in colour c.
func (r *Recorder) WithColour(c color.RGBA) []Call {
	var out []Call
	for _, call := range r.Calls {
		if (call.Op == OpFill || call.Op == OpStroke) && call.Colour == c {
			out = append(out, call)
		}
	}
	return out
}
