package geometry

import "math"

// PathOp is a path construction instruction.
type PathOp int

const (
	OpMoveTo PathOp = iota
	OpLineTo
	OpQuadTo
	OpCubeTo
	OpClose
)

// PathSegment is one instruction; Pts holds 1 (move/line), 2 (quad) or 3
// (cube) points and nothing for close.
type PathSegment struct {
	Op  PathOp
	Pts [3]Point2D
}

// Path is a sequence of subpaths. The zero value is an empty path.
type Path struct {
	Segs []PathSegment
}

// MoveTo starts a new subpath.
func (p *Path) MoveTo(x, y float64) {
	p.Segs = append(p.Segs, PathSegment{Op: OpMoveTo, Pts: [3]Point2D{{X: x, Y: y}}})
}

// LineTo adds a straight segment.
func (p *Path) LineTo(x, y float64) {
	p.Segs = append(p.Segs, PathSegment{Op: OpLineTo, Pts: [3]Point2D{{X: x, Y: y}}})
}

// QuadTo adds a quadratic Bézier segment.
func (p *Path) QuadTo(cx, cy, x, y float64) {
	p.Segs = append(p.Segs, PathSegment{Op: OpQuadTo, Pts: [3]Point2D{{X: cx, Y: cy}, {X: x, Y: y}}})
}

// CubeTo adds a cubic Bézier segment.
func (p *Path) CubeTo(c1x, c1y, c2x, c2y, x, y float64) {
	p.Segs = append(p.Segs, PathSegment{Op: OpCubeTo, Pts: [3]Point2D{{X: c1x, Y: c1y}, {X: c2x, Y: c2y}, {X: x, Y: y}}})
}

// Close closes the current subpath.
func (p *Path) Close() {
	p.Segs = append(p.Segs, PathSegment{Op: OpClose})
}

// Empty reports whether the path has no segments.
func (p *Path) Empty() bool {
	return len(p.Segs) == 0
}

// Polyline appends an open subpath through pts.
func (p *Path) Polyline(pts []Point2D) {
	if len(pts) == 0 {
		return
	}
	p.MoveTo(pts[0].X, pts[0].Y)
	for _, q := range pts[1:] {
		p.LineTo(q.X, q.Y)
	}
}

// Rect appends a closed rectangle.
func (p *Path) Rect(x, y, w, h float64) {
	p.MoveTo(x, y)
	p.LineTo(x+w, y)
	p.LineTo(x+w, y+h)
	p.LineTo(x, y+h)
	p.Close()
}

// kappa is the control-point distance for a quarter circle of radius 1.
const kappa = 0.5522847498

// Ellipse appends a closed ellipse inscribed in the given box.
func (p *Path) Ellipse(x, y, w, h float64) {
	rx, ry := w/2, h/2
	cx, cy := x+rx, y+ry
	kx, ky := rx*kappa, ry*kappa
	p.MoveTo(cx+rx, cy)
	p.CubeTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	p.CubeTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	p.CubeTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	p.CubeTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	p.Close()
}

// Append adds all segments of other.
func (p *Path) Append(other Path) {
	p.Segs = append(p.Segs, other.Segs...)
}

// Transform returns a copy of the path with every point mapped by t.
func (p Path) Transform(t AffineTransform) Path {
	out := Path{Segs: make([]PathSegment, len(p.Segs))}
	for i, s := range p.Segs {
		n := s.Op.numPoints()
		for k := 0; k < n; k++ {
			s.Pts[k] = t.Apply(s.Pts[k])
		}
		out.Segs[i] = s
	}
	return out
}

// Bounds returns the box of all on- and off-curve points.
func (p Path) Bounds() BoundingBox {
	b := Uninitialized()
	for _, s := range p.Segs {
		for k := 0; k < s.Op.numPoints(); k++ {
			q := s.Pts[k]
			b = b.Union(BoundingBox{MinX: q.X, MinY: q.Y, MaxX: q.X, MaxY: q.Y})
		}
	}
	return b
}

func (op PathOp) numPoints() int {
	switch op {
	case OpMoveTo, OpLineTo:
		return 1
	case OpQuadTo:
		return 2
	case OpCubeTo:
		return 3
	}
	return 0
}

// NumPoints returns how many entries of PathSegment.Pts the op uses.
func (op PathOp) NumPoints() int { return op.numPoints() }

// Degrees converts degrees to radians.
func Degrees(deg float64) float64 {
	return deg * math.Pi / 180
}
