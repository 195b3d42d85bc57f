package geometry

import (
	"fmt"
	"math"
)

// BoundingBox is an axis-aligned box in a caller-chosen unit space (page points
// or map units). It is a value type: assigning or passing it copies it.
//
// A box whose MaxY is -Inf is uninitialized; Uninitialized returns one.
type BoundingBox struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// NewBoundingBox returns a box with the given bounds.
func NewBoundingBox(minX, minY, maxX, maxY float64) BoundingBox {
	return BoundingBox{MinX: minX, MinY: minY, MaxX: maxX, MaxY: maxY}
}

// Uninitialized returns a box that reports IsInitialized() == false.
func Uninitialized() BoundingBox {
	inf := math.Inf(-1)
	return BoundingBox{MinX: inf, MinY: inf, MaxX: inf, MaxY: inf}
}

// IsInitialized reports whether the box has been given real bounds.
func (b BoundingBox) IsInitialized() bool {
	return !math.IsInf(b.MaxY, -1)
}

// IsNull reports whether the box is empty on the X axis (MaxX < MinX).
func (b BoundingBox) IsNull() bool {
	return b.MaxX < b.MinX
}

// Width returns MaxX - MinX.
func (b BoundingBox) Width() float64 { return b.MaxX - b.MinX }

// Height returns MaxY - MinY.
func (b BoundingBox) Height() float64 { return b.MaxY - b.MinY }

// MaxExtent returns the larger of width and height, 0 for a null box.
func (b BoundingBox) MaxExtent() float64 {
	if b.IsNull() {
		return 0
	}
	return math.Max(b.Width(), b.Height())
}

// Clone returns a copy of the box. Since BoundingBox is a value type this is a
// plain copy; it exists so call sites that store a box read as owning it.
func (b BoundingBox) Clone() BoundingBox {
	return b
}

// Intersect returns the overlapping region of the two boxes. The result is only
// meaningful when Overlaps is true.
func (b BoundingBox) Intersect(other BoundingBox) BoundingBox {
	return BoundingBox{
		MinX: math.Max(b.MinX, other.MinX),
		MinY: math.Max(b.MinY, other.MinY),
		MaxX: math.Min(b.MaxX, other.MaxX),
		MaxY: math.Min(b.MaxY, other.MaxY),
	}
}

// Union returns the smallest box containing both. An uninitialized operand is
// ignored.
func (b BoundingBox) Union(other BoundingBox) BoundingBox {
	if !b.IsInitialized() {
		return other
	}
	if !other.IsInitialized() {
		return b
	}
	return BoundingBox{
		MinX: math.Min(b.MinX, other.MinX),
		MinY: math.Min(b.MinY, other.MinY),
		MaxX: math.Max(b.MaxX, other.MaxX),
		MaxY: math.Max(b.MaxY, other.MaxY),
	}
}

// Overlaps reports whether the boxes share any point, edges included.
func (b BoundingBox) Overlaps(other BoundingBox) bool {
	if b.IsNull() || other.IsNull() {
		return false
	}
	return !(b.MaxY < other.MinY || b.MaxX < other.MinX ||
		b.MinY > other.MaxY || b.MinX > other.MaxX)
}

// EntirelyContainedWithin reports whether b lies inside other.
func (b BoundingBox) EntirelyContainedWithin(other BoundingBox) bool {
	return b.MaxY <= other.MaxY && b.MaxX <= other.MaxX &&
		b.MinY >= other.MinY && b.MinX >= other.MinX
}

// EntirelyContains reports whether other lies inside b.
func (b BoundingBox) EntirelyContains(other BoundingBox) bool {
	return other.EntirelyContainedWithin(b)
}

// IsPointInBox reports whether (x, y) lies in the box, edges included.
func (b BoundingBox) IsPointInBox(x, y float64) bool {
	if b.IsNull() {
		return false
	}
	return !(b.MaxY < y || b.MaxX < x || b.MinY > y || b.MinX > x)
}

// Expand returns the box grown by dx on each X side and dy on each Y side.
func (b BoundingBox) Expand(dx, dy float64) BoundingBox {
	return BoundingBox{MinX: b.MinX - dx, MinY: b.MinY - dy, MaxX: b.MaxX + dx, MaxY: b.MaxY + dy}
}

// Translate returns the box shifted by (dx, dy).
func (b BoundingBox) Translate(dx, dy float64) BoundingBox {
	return BoundingBox{MinX: b.MinX + dx, MinY: b.MinY + dy, MaxX: b.MaxX + dx, MaxY: b.MaxY + dy}
}

// Rect converts a page-space box to a Rect.
func (b BoundingBox) Rect() Rect {
	return Rect{X: b.MinX, Y: b.MinY, Width: b.Width(), Height: b.Height()}
}

// BoxFromRect converts a Rect to a BoundingBox.
func BoxFromRect(r Rect) BoundingBox {
	return BoundingBox{MinX: r.X, MinY: r.Y, MaxX: r.X + r.Width, MaxY: r.Y + r.Height}
}

// BoxOf returns the bounding box of a set of points, Uninitialized if empty.
func BoxOf(points []Point2D) BoundingBox {
	if len(points) == 0 {
		return Uninitialized()
	}
	b := BoundingBox{MinX: points[0].X, MinY: points[0].Y, MaxX: points[0].X, MaxY: points[0].Y}
	for _, p := range points[1:] {
		b.MinX = math.Min(b.MinX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b
}

func (b BoundingBox) String() string {
	return fmt.Sprintf("[%g,%g - %g,%g]", b.MinX, b.MinY, b.MaxX, b.MaxY)
}
