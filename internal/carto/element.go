// Package carto holds the cartographic document: an ordered list of
// page-placed elements (map areas, titles, legends, scales, north arrows,
// neatlines, images, text areas and groups) measured in page points.
//
// Nothing in this package is safe for concurrent use. A Document and its
// elements belong to the UI thread, which both renders them and applies input
// to them; background work must hand results back to that thread rather than
// touch the document directly.
package carto

import (
	"image/color"

	"map-composer/pkg/colorutil"
	"map-composer/pkg/geometry"
)

// Kind identifies an element variant.
type Kind int

const (
	KindMapArea Kind = iota
	KindMapTitle
	KindMapTextArea
	KindMapScale
	KindNorthArrow
	KindLegend
	KindNeatline
	KindMapImage
	KindGroup
)

func (k Kind) String() string {
	switch k {
	case KindMapArea:
		return "MapArea"
	case KindMapTitle:
		return "MapTitle"
	case KindMapTextArea:
		return "MapTextArea"
	case KindMapScale:
		return "MapScale"
	case KindNorthArrow:
		return "NorthArrow"
	case KindLegend:
		return "Legend"
	case KindNeatline:
		return "Neatline"
	case KindMapImage:
		return "MapImage"
	case KindGroup:
		return "Group"
	default:
		return "Unknown"
	}
}

// ResizeMode names the edge or corner being dragged.
type ResizeMode int

const (
	ResizeN ResizeMode = iota
	ResizeS
	ResizeE
	ResizeW
	ResizeNE
	ResizeNW
	ResizeSE
	ResizeSW
)

func (m ResizeMode) String() string {
	return [...]string{"n", "s", "e", "w", "ne", "nw", "se", "sw"}[m]
}

// Element is implemented only by the variants in this package. Renderers and
// hit tests switch on the concrete type.
type Element interface {
	Kind() Kind
	// Number is the element's position in the document list, which is also
	// its paint order.
	Number() int
	Name() string
	SetName(string)
	Visible() bool
	SetVisible(bool)
	Selected() bool
	SetSelected(bool)

	// Placed reports whether a position and size have been assigned. An
	// unplaced element is laid out by EnsureLayout before it is painted.
	Placed() bool
	Bounds() geometry.Rect
	SetUpperLeft(x, y float64)
	Resize(x, y float64, mode ResizeMode)

	// SelectedOffset is the pointer position minus the upper-left corner,
	// recorded when a drag starts so the element keeps its grip point.
	SelectedOffset() geometry.Point2D
	SetSelectedOffset(geometry.Point2D)

	base() *Base
}

// Base carries the state common to every element. Position and size are each
// optional until assigned.
type Base struct {
	number   int
	name     string
	visible  bool
	selected bool
	offset   geometry.Point2D

	ulX, ulY      float64
	width, height float64
	hasPosition   bool
	hasSize       bool

	BorderVisible     bool
	BorderColour      color.RGBA
	BorderWidth       float64
	BackgroundVisible bool
	BackgroundColour  color.RGBA
	// Margin is the inner padding in points.
	Margin float64
}

func newBase(name string) Base {
	return Base{
		number:           -1,
		name:             name,
		visible:          true,
		BorderColour:     colorutil.Black,
		BorderWidth:      0.75,
		BackgroundColour: colorutil.White,
	}
}

func (b *Base) base() *Base                          { return b }
func (b *Base) Number() int                          { return b.number }
func (b *Base) Name() string                         { return b.name }
func (b *Base) SetName(s string)                     { b.name = s }
func (b *Base) Visible() bool                        { return b.visible }
func (b *Base) SetVisible(v bool)                    { b.visible = v }
func (b *Base) Selected() bool                       { return b.selected }
func (b *Base) SetSelected(v bool)                   { b.selected = v }
func (b *Base) SelectedOffset() geometry.Point2D     { return b.offset }
func (b *Base) SetSelectedOffset(p geometry.Point2D) { b.offset = p }

// Placed reports whether both position and size are known.
func (b *Base) Placed() bool { return b.hasPosition && b.hasSize }

// HasPosition reports whether the upper-left corner has been assigned.
func (b *Base) HasPosition() bool { return b.hasPosition }

// HasSize reports whether the width and height have been assigned.
func (b *Base) HasSize() bool { return b.hasSize }

// Bounds returns the element rectangle. It is the zero Rect until placed.
func (b *Base) Bounds() geometry.Rect {
	return geometry.NewRect(b.ulX, b.ulY, b.width, b.height)
}

// UpperLeft returns the upper-left corner.
func (b *Base) UpperLeft() geometry.Point2D { return geometry.Pt(b.ulX, b.ulY) }

// Width returns the width in points.
func (b *Base) Width() float64 { return b.width }

// Height returns the height in points.
func (b *Base) Height() float64 { return b.height }

// SetUpperLeft moves the element.
func (b *Base) SetUpperLeft(x, y float64) {
	b.ulX, b.ulY = x, y
	b.hasPosition = true
}

// SetSize assigns the width and height.
func (b *Base) SetSize(w, h float64) {
	b.width, b.height = w, h
	b.hasSize = true
}

// ClearLayout forgets position and size so the next layout pass recomputes
// both.
func (b *Base) ClearLayout() {
	b.hasPosition = false
	b.hasSize = false
}

// Resize drags an edge or corner to (x, y) while keeping each dimension at
// least 50 points.
func (b *Base) Resize(x, y float64, mode ResizeMode) {
	b.resize(x, y, mode, 50, 50)
}

// resize is the shared edge-drag rule: an edge follows the pointer only when
// the resulting dimension stays at or above the minimum.
func (b *Base) resize(x, y float64, mode ResizeMode, minW, minH float64) {
	north := func() {
		dy := y - b.ulY
		if b.height-dy >= minH {
			b.ulY = y
			b.height -= dy
		}
	}
	south := func() {
		dy := y - (b.ulY + b.height)
		if b.height+dy >= minH {
			b.height += dy
		}
	}
	east := func() {
		dx := x - (b.ulX + b.width)
		if b.width+dx >= minW {
			b.width += dx
		}
	}
	west := func() {
		dx := x - b.ulX
		if b.width-dx >= minW {
			b.ulX = x
			b.width -= dx
		}
	}
	switch mode {
	case ResizeN:
		north()
	case ResizeS:
		south()
	case ResizeE:
		east()
	case ResizeW:
		west()
	case ResizeNE:
		north()
		east()
	case ResizeNW:
		north()
		west()
	case ResizeSE:
		south()
		east()
	case ResizeSW:
		south()
		west()
	}
}

// Contains reports whether the page point lies on the element, edges
// included.
func Contains(e Element, x, y float64) bool {
	return e.Bounds().Contains(geometry.Pt(x, y))
}
