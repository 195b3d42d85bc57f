package render

import (
	"image"
	"image/color"
	"math"

	"map-composer/pkg/geometry"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
	"golang.org/x/image/draw"
	"golang.org/x/image/math/fixed"
)

// RasterCanvas draws into an *image.RGBA with anti-aliased even-odd fills and
// dashed strokes.
type RasterCanvas struct {
	img     *image.RGBA
	xf      geometry.AffineTransform
	clip    image.Rectangle
	scanner *rasterx.ScannerGV
	filler  *rasterx.Filler
	dasher  *rasterx.Dasher
}

// NewRasterCanvas allocates a transparent w x h canvas.
func NewRasterCanvas(w, h int) *RasterCanvas {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return NewRasterCanvasFor(image.NewRGBA(image.Rect(0, 0, w, h)))
}

// NewRasterCanvasFor draws into an existing image.
func NewRasterCanvasFor(img *image.RGBA) *RasterCanvas {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	scanner := rasterx.NewScannerGV(w, h, img, b)
	return &RasterCanvas{
		img:     img,
		xf:      geometry.Identity(),
		clip:    b,
		scanner: scanner,
		filler:  rasterx.NewFiller(w, h, scanner),
		dasher:  rasterx.NewDasher(w, h, scanner),
	}
}

// Image returns the backing image.
func (c *RasterCanvas) Image() *image.RGBA { return c.img }

func (c *RasterCanvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

func (c *RasterCanvas) SetTransform(t geometry.AffineTransform) { c.xf = t }
func (c *RasterCanvas) Transform() geometry.AffineTransform   { return c.xf }

func (c *RasterCanvas) SetClip(r geometry.Rect) {
	c.clip = c.deviceRect(r).Intersect(c.img.Bounds())
	c.scanner.SetClip(c.clip)
}

func (c *RasterCanvas) ClearClip() {
	c.clip = c.img.Bounds()
	c.scanner.SetClip(c.clip)
}

func (c *RasterCanvas) Clear(col color.RGBA) {
	draw.Draw(c.img, c.img.Bounds(), &image.Uniform{C: col}, image.Point{}, draw.Src)
}

func (c *RasterCanvas) FillPath(p geometry.Path, col color.RGBA) {
	if p.Empty() || col.A == 0 || c.clip.Empty() {
		return
	}
	c.filler.Clear()
	c.filler.SetWinding(false)
	c.filler.SetColor(col)
	c.emit(c.filler, p)
	c.filler.Draw()
}

func (c *RasterCanvas) StrokePath(p geometry.Path, s Stroke) {
	if p.Empty() || s.Colour.A == 0 || c.clip.Empty() {
		return
	}
	k := c.xf.UniformScale()
	w := s.Width * k
	if w <= 0 {
		w = 1
	}
	var dash []float64
	if len(s.Dash) > 0 {
		dash = make([]float64, len(s.Dash))
		for i, d := range s.Dash {
			dash[i] = d * k
		}
	}
	join := rasterx.Miter
	if s.Join == JoinRound {
		join = rasterx.Round
	}
	c.dasher.Clear()
	c.dasher.SetWinding(true)
	c.dasher.SetColor(s.Colour)
	c.dasher.SetStroke(toFixed(w), toFixed(4), rasterx.ButtCap, rasterx.ButtCap,
		rasterx.FlatGap, join, dash, s.DashOffset*k)
	c.emit(c.dasher, p)
	c.dasher.Draw()
}

func (c *RasterCanvas) DrawImage(img image.Image, dst geometry.Rect, smooth bool) {
	if img == nil {
		return
	}
	dr := c.deviceRect(dst)
	target, ok := c.img.SubImage(c.clip.Intersect(dr)).(*image.RGBA)
	if !ok || target.Bounds().Empty() {
		return
	}
	var interp draw.Interpolator = draw.NearestNeighbor
	if smooth {
		interp = draw.ApproxBiLinear
	}
	interp.Scale(target, dr, img, img.Bounds(), draw.Over, nil)
}

func (c *RasterCanvas) DrawSVG(icon *oksvg.SvgIcon, dst geometry.Rect) {
	if icon == nil || c.clip.Empty() {
		return
	}
	x0, y0 := c.xf.ApplyXY(dst.X, dst.Y)
	x1, y1 := c.xf.ApplyXY(dst.X+dst.Width, dst.Y+dst.Height)
	icon.SetTarget(math.Min(x0, x1), math.Min(y0, y1), math.Abs(x1-x0), math.Abs(y1-y0))
	c.dasher.SetWinding(true)
	icon.Draw(c.dasher, 1)
}

// deviceRect maps r through the transform and rounds outwards.
func (c *RasterCanvas) deviceRect(r geometry.Rect) image.Rectangle {
	x0, y0 := c.xf.ApplyXY(r.X, r.Y)
	x1, y1 := c.xf.ApplyXY(r.X+r.Width, r.Y+r.Height)
	return image.Rect(
		int(math.Floor(math.Min(x0, x1))), int(math.Floor(math.Min(y0, y1))),
		int(math.Ceil(math.Max(x0, x1))), int(math.Ceil(math.Max(y0, y1))),
	)
}

func toFixed(v float64) fixed.Int26_6 { return fixed.Int26_6(math.Round(v * 64)) }

func (c *RasterCanvas) fixedPoint(p geometry.Point2D) fixed.Point26_6 {
	x, y := c.xf.ApplyXY(p.X, p.Y)
	return fixed.Point26_6{X: toFixed(x), Y: toFixed(y)}
}

// emit feeds p to a rasterx path consumer in device coordinates.
func (c *RasterCanvas) emit(a rasterx.Adder, p geometry.Path) {
	open := false
	for _, s := range p.Segs {
		switch s.Op {
		case geometry.OpMoveTo:
			if open {
				a.Stop(false)
			}
			a.Start(c.fixedPoint(s.Pts[0]))
			open = true
		case geometry.OpLineTo:
			a.Line(c.fixedPoint(s.Pts[0]))
		case geometry.OpQuadTo:
			a.QuadBezier(c.fixedPoint(s.Pts[0]), c.fixedPoint(s.Pts[1]))
		case geometry.OpCubeTo:
			a.CubeBezier(c.fixedPoint(s.Pts[0]), c.fixedPoint(s.Pts[1]), c.fixedPoint(s.Pts[2]))
		case geometry.OpClose:
			if open {
				a.Stop(true)
			}
			open = false
		}
	}
	if open {
		a.Stop(false)
	}
}
