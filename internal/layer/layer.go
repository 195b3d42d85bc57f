// Package layer provides the data layers stacked inside a map area: gridded
// rasters rendered through a palette and vector record collections rendered by
// shape type.
//
// Layers are not safe for concurrent use. They are owned by the document and
// only touched from the UI thread that renders and handles input.
package layer

import (
	"map-composer/pkg/geometry"
)

// Type distinguishes the layer variants.
type Type int

const (
	TypeRaster Type = iota
	TypeVector
)

func (t Type) String() string {
	switch t {
	case TypeRaster:
		return "raster"
	case TypeVector:
		return "vector"
	default:
		return "unknown"
	}
}

// MapLayer is implemented only by *Raster and *Vector. Renderers switch on the
// concrete type.
type MapLayer interface {
	Type() Type
	Title() string
	SetTitle(string)
	OverlayNumber() int
	SetOverlayNumber(int)
	FullExtent() geometry.BoundingBox
	CurrentExtent() geometry.BoundingBox
	SetCurrentExtent(geometry.BoundingBox)
	Visible() bool
	SetVisible(bool)
	XYUnits() string

	mapLayer()
}

// common holds the fields shared by both variants.
type common struct {
	title         string
	overlayNumber int
	visible       bool
	fullExtent    geometry.BoundingBox
	currentExtent geometry.BoundingBox
	xyUnits       string
}

func (c *common) Title() string { return c.title }
func (c *common) SetTitle(s string) { c.title = s }
func (c *common) OverlayNumber() int { return c.overlayNumber }
func (c *common) SetOverlayNumber(n int) { c.overlayNumber = n }
func (c *common) Visible() bool { return c.visible }
func (c *common) SetVisible(v bool) { c.visible = v }
func (c *common) XYUnits() string { return c.xyUnits }

// SetXYUnits sets the unit label of the layer's coordinates, e.g. "metres".
func (c *common) SetXYUnits(s string) { c.xyUnits = s }

// FullExtent returns a copy of the layer's total bounds.
func (c *common) FullExtent() geometry.BoundingBox { return c.fullExtent.Clone() }

// CurrentExtent returns a copy of the portion last requested for display.
func (c *common) CurrentExtent() geometry.BoundingBox { return c.currentExtent.Clone() }

func (c *common) mapLayer() {}
