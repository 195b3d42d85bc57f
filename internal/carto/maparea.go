package carto

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"strings"

	"map-composer/internal/layer"
	"map-composer/internal/typeface"
	"map-composer/pkg/colorutil"
	"map-composer/pkg/geometry"
)

var (
	// ErrNoActiveMapArea is returned by document operations that need a map
	// area when the document has none.
	ErrNoActiveMapArea = errors.New("no active map area")
	// ErrNoSuchLayer is returned for an overlay number outside the stack.
	ErrNoSuchLayer = errors.New("no such layer")
)

// MapArea hosts a stack of data layers viewed through its own geographic
// extent. Layer index equals overlay number; index 0 is painted first.
type MapArea struct {
	Base
	layers []layer.MapLayer
	active layer.MapLayer

	// currentExtent is the requested extent in map units. The renderer pads
	// it to the viewport aspect ratio each frame without storing the result.
	currentExtent geometry.BoundingBox
	history       []geometry.BoundingBox
	historyIdx    int

	ReferenceMarksVisible bool
	NeatlineVisible       bool
	// MaximizeToScreen makes the viewport follow the canvas instead of the
	// element's page rectangle. It has no effect when printing.
	MaximizeToScreen bool
	LabelFont        typeface.Font
	FontColour       color.RGBA
	LineWidth        float64

	refMarkSize float64
}

// NewMapArea returns an unplaced map area with no layers.
func NewMapArea(name string) *MapArea {
	a := &MapArea{
		Base:                  newBase(name),
		currentExtent:         geometry.Uninitialized(),
		historyIdx:            -1,
		ReferenceMarksVisible: true,
		LabelFont:             typeface.DefaultFont,
		FontColour:            colorutil.Black,
		LineWidth:             0.75,
		refMarkSize:           10,
	}
	a.BorderVisible = true
	a.BackgroundVisible = true
	return a
}

func (a *MapArea) Kind() Kind { return KindMapArea }

// ReferenceMarkSize is the band between the element edge and the viewport
// that holds the reference marks and their labels.
func (a *MapArea) ReferenceMarkSize() float64 { return a.refMarkSize }

// SetReferenceMarkSize sets the reference band width in points.
func (a *MapArea) SetReferenceMarkSize(v float64) { a.refMarkSize = v }

// ViewArea returns the page-space viewport inside the reference band.
func (a *MapArea) ViewArea() geometry.Rect {
	return a.Bounds().Inset(a.refMarkSize)
}

// Layers returns the layer stack, bottom first.
func (a *MapArea) Layers() []layer.MapLayer { return a.layers }

// NumLayers returns the stack height.
func (a *MapArea) NumLayers() int { return len(a.layers) }

// NumRasterLayers counts the raster layers in the stack.
func (a *MapArea) NumRasterLayers() int {
	n := 0
	for _, l := range a.layers {
		if l.Type() == layer.TypeRaster {
			n++
		}
	}
	return n
}

// Layer returns the layer with the given overlay number, or nil.
func (a *MapArea) Layer(overlay int) layer.MapLayer {
	if overlay < 0 || overlay >= len(a.layers) {
		return nil
	}
	return a.layers[overlay]
}

func (a *MapArea) renumber() {
	for i, l := range a.layers {
		l.SetOverlayNumber(i)
	}
}

// AddLayer pushes a layer onto the top of the stack. The first layer of an
// empty map area sets the current extent to the full extent and makes itself
// active.
func (a *MapArea) AddLayer(l layer.MapLayer) {
	a.layers = append(a.layers, l)
	a.renumber()
	if a.active == nil {
		a.active = l
	}
	if !a.currentExtent.IsInitialized() || a.currentExtent.IsNull() {
		a.currentExtent = a.FullExtent()
		a.history = append(a.history, a.currentExtent)
		a.historyIdx = len(a.history) - 1
	}
}

// RemoveLayer drops a layer. When the active layer goes, the one beneath it
// becomes active, or the one above when it was the bottom layer.
func (a *MapArea) RemoveLayer(overlay int) error {
	if overlay < 0 || overlay >= len(a.layers) {
		return fmt.Errorf("remove layer %d of %d: %w", overlay, len(a.layers), ErrNoSuchLayer)
	}
	removed := a.layers[overlay]
	if removed == a.active {
		switch {
		case len(a.layers) == 1:
			a.active = nil
		case overlay > 0:
			a.active = a.layers[overlay-1]
		default:
			a.active = a.layers[overlay+1]
		}
	}
	a.layers = append(a.layers[:overlay], a.layers[overlay+1:]...)
	a.renumber()
	if len(a.layers) == 0 {
		a.currentExtent = geometry.Uninitialized()
		a.history = nil
		a.historyIdx = -1
	}
	return nil
}

// ActiveLayer returns the layer that receives edits and readouts, or nil.
func (a *MapArea) ActiveLayer() layer.MapLayer { return a.active }

// ActiveLayerOverlay returns the active layer's overlay number, or -1.
func (a *MapArea) ActiveLayerOverlay() int {
	if a.active == nil {
		return -1
	}
	return a.active.OverlayNumber()
}

// SetActiveLayer makes the layer with the given overlay number active.
func (a *MapArea) SetActiveLayer(overlay int) error {
	l := a.Layer(overlay)
	if l == nil {
		return fmt.Errorf("activate layer %d: %w", overlay, ErrNoSuchLayer)
	}
	a.active = l
	return nil
}

// ActiveVector returns the active layer when it is a vector, else nil.
func (a *MapArea) ActiveVector() *layer.Vector {
	v, _ := a.active.(*layer.Vector)
	return v
}

// ActiveRaster returns the active layer when it is a raster, else nil.
func (a *MapArea) ActiveRaster() *layer.Raster {
	r, _ := a.active.(*layer.Raster)
	return r
}

// IsActiveLayerVector reports whether the active layer is a vector.
func (a *MapArea) IsActiveLayerVector() bool { return a.ActiveVector() != nil }

// PromoteLayer swaps a layer with the one above it.
func (a *MapArea) PromoteLayer(overlay int) {
	if overlay < 0 || overlay >= len(a.layers)-1 {
		return
	}
	a.layers[overlay], a.layers[overlay+1] = a.layers[overlay+1], a.layers[overlay]
	a.renumber()
}

// DemoteLayer swaps a layer with the one beneath it.
func (a *MapArea) DemoteLayer(overlay int) {
	if overlay <= 0 || overlay >= len(a.layers) {
		return
	}
	a.layers[overlay], a.layers[overlay-1] = a.layers[overlay-1], a.layers[overlay]
	a.renumber()
}

// PromoteLayerToTop moves a layer to the top of the stack.
func (a *MapArea) PromoteLayerToTop(overlay int) {
	if overlay < 0 || overlay >= len(a.layers)-1 {
		return
	}
	l := a.layers[overlay]
	a.layers = append(a.layers[:overlay], a.layers[overlay+1:]...)
	a.layers = append(a.layers, l)
	a.renumber()
}

// DemoteLayerToBottom moves a layer to the bottom of the stack.
func (a *MapArea) DemoteLayerToBottom(overlay int) {
	if overlay <= 0 || overlay >= len(a.layers) {
		return
	}
	l := a.layers[overlay]
	a.layers = append(a.layers[:overlay], a.layers[overlay+1:]...)
	a.layers = append([]layer.MapLayer{l}, a.layers...)
	a.renumber()
}

// ToggleLayerVisibility flips a layer's visibility.
func (a *MapArea) ToggleLayerVisibility(overlay int) {
	if l := a.Layer(overlay); l != nil {
		l.SetVisible(!l.Visible())
	}
}

// ReverseLayerPalette reverses the palette of a raster layer.
func (a *MapArea) ReverseLayerPalette(overlay int) {
	if r, ok := a.Layer(overlay).(*layer.Raster); ok {
		r.Palette = r.Palette.Reversed()
		r.Update()
	}
}

// XYUnits derives the coordinate label suffix from the bottom layer: " m"
// for metres, "°" for degrees, otherwise the unit name.
func (a *MapArea) XYUnits() string {
	if len(a.layers) == 0 {
		return ""
	}
	u := strings.ToLower(a.layers[0].XYUnits())
	switch {
	case strings.Contains(u, "met"):
		return " m"
	case strings.Contains(u, "deg"):
		return "°"
	case u == "" || strings.Contains(u, "not specified"):
		return ""
	default:
		return " " + a.layers[0].XYUnits()
	}
}

// FullExtent is the union of the layers' full extents.
func (a *MapArea) FullExtent() geometry.BoundingBox {
	bb := geometry.Uninitialized()
	for _, l := range a.layers {
		bb = bb.Union(l.FullExtent())
	}
	return bb
}

// CurrentExtent returns a copy of the requested extent, falling back to the
// full extent.
func (a *MapArea) CurrentExtent() geometry.BoundingBox {
	if !a.currentExtent.IsInitialized() {
		return a.FullExtent()
	}
	return a.currentExtent.Clone()
}

// SetCurrentExtent stores a copy of bb and records it in the history,
// discarding any forward entries.
func (a *MapArea) SetCurrentExtent(bb geometry.BoundingBox) {
	a.currentExtent = bb.Clone()
	a.pushHistory(bb)
}

// PreviewExtent shows bb without recording it in the history. A drag uses it
// for intermediate positions and commits the last one with SetCurrentExtent.
func (a *MapArea) PreviewExtent(bb geometry.BoundingBox) {
	a.currentExtent = bb.Clone()
}

func (a *MapArea) pushHistory(bb geometry.BoundingBox) {
	if a.historyIdx < len(a.history)-1 {
		a.history = a.history[:a.historyIdx+1]
	}
	a.history = append(a.history, bb.Clone())
	a.historyIdx = len(a.history) - 1
}

// PreviousExtent steps back through the history.
func (a *MapArea) PreviousExtent() bool {
	if a.historyIdx <= 0 {
		return false
	}
	a.historyIdx--
	a.currentExtent = a.history[a.historyIdx].Clone()
	return true
}

// NextExtent steps forward through the history.
func (a *MapArea) NextExtent() bool {
	if a.historyIdx >= len(a.history)-1 {
		return false
	}
	a.historyIdx++
	a.currentExtent = a.history[a.historyIdx].Clone()
	return true
}

// ZoomToFullExtent shows every layer.
func (a *MapArea) ZoomToFullExtent() {
	if len(a.layers) == 0 {
		return
	}
	a.SetCurrentExtent(a.FullExtent())
}

// ZoomIn pulls each side of the extent in by 10% of its range.
func (a *MapArea) ZoomIn() {
	ce := a.CurrentExtent()
	a.SetCurrentExtent(ce.Expand(-0.1*ce.Width(), -0.1*ce.Height()))
}

// ZoomOut pushes each side of the extent out by 10% of its range.
func (a *MapArea) ZoomOut() {
	ce := a.CurrentExtent()
	a.SetCurrentExtent(ce.Expand(0.1*ce.Width(), 0.1*ce.Height()))
}

// PanUp moves the extent north by 10% of its height.
func (a *MapArea) PanUp() {
	ce := a.CurrentExtent()
	a.SetCurrentExtent(ce.Translate(0, 0.1*ce.Height()))
}

// PanDown moves the extent south by 10% of its height.
func (a *MapArea) PanDown() {
	ce := a.CurrentExtent()
	a.SetCurrentExtent(ce.Translate(0, -0.1*ce.Height()))
}

// PanLeft moves the extent west by 10% of its width.
func (a *MapArea) PanLeft() {
	ce := a.CurrentExtent()
	a.SetCurrentExtent(ce.Translate(-0.1*ce.Width(), 0))
}

// PanRight moves the extent east by 10% of its width.
func (a *MapArea) PanRight() {
	ce := a.CurrentExtent()
	a.SetCurrentExtent(ce.Translate(0.1*ce.Width(), 0))
}

// Pan shifts the extent by (dx, dy) map units.
func (a *MapArea) Pan(dx, dy float64) {
	a.SetCurrentExtent(a.CurrentExtent().Translate(dx, dy))
}

// NaturalZoom scales the extent by factor about the map point (x, y), so the
// point stays under the pointer. A factor below 1 zooms in.
func (a *MapArea) NaturalZoom(x, y, factor float64) {
	if factor <= 0 {
		return
	}
	ce := a.CurrentExtent()
	a.SetCurrentExtent(geometry.NewBoundingBox(
		x-(x-ce.MinX)*factor,
		y-(y-ce.MinY)*factor,
		x+(ce.MaxX-x)*factor,
		y+(ce.MaxY-y)*factor,
	))
}

// Scale returns the representative scale denominator of the element's own
// viewport, or 0 when it has no extent.
func (a *MapArea) Scale() float64 {
	ce := a.CurrentExtent()
	if !ce.IsInitialized() || ce.Width() <= 0 || ce.Height() <= 0 {
		return 0
	}
	vw := (a.width - 2*a.refMarkSize) / PointsPerMetre
	vh := (a.height - 2*a.refMarkSize) / PointsPerMetre
	return 1 / math.Min(vw/math.Abs(ce.Width()), vh/math.Abs(ce.Height()))
}

// SetScale grows or shrinks the extent about its centre so the viewport
// shows the given scale denominator.
func (a *MapArea) SetScale(scale float64) {
	ce := a.CurrentExtent()
	if !ce.IsInitialized() || scale <= 0 {
		return
	}
	vw := (a.width - 2*a.refMarkSize) / PointsPerMetre
	vh := (a.height - 2*a.refMarkSize) / PointsPerMetre
	dx := (scale*vw - ce.Width()) / 2
	dy := (scale*vh - ce.Height()) / 2
	a.SetCurrentExtent(ce.Expand(dx, dy))
}

func (a *MapArea) dataAspect() (target, current float64, ok bool) {
	fe := a.FullExtent()
	if len(a.layers) == 0 || fe.Height() == 0 {
		return 0, 0, false
	}
	vh := a.height - 2*a.refMarkSize
	if vh == 0 {
		return 0, 0, false
	}
	return fe.Width() / fe.Height(), (a.width - 2*a.refMarkSize) / vh, true
}

// IsFitToData reports whether the viewport already has the data's aspect
// ratio.
func (a *MapArea) IsFitToData() bool {
	target, current, ok := a.dataAspect()
	return ok && math.Abs(current-target) < 0.005
}

// FitToData shrinks one side of the element so the viewport matches the
// data's aspect ratio.
func (a *MapArea) FitToData() {
	target, current, ok := a.dataAspect()
	if !ok {
		return
	}
	r := a.refMarkSize
	if current > target {
		a.width = (a.height-2*r)*target + 2*r
	} else {
		a.height = (a.width-2*r)/target + 2*r
	}
}

// RowAndColumn resolves a map point against the active raster, or failing
// that the topmost raster containing it.
func (a *MapArea) RowAndColumn(x, y float64) layer.GridCell {
	r := a.ActiveRaster()
	if r == nil {
		return layer.InvalidCell
	}
	if c := r.RowAndColumn(x, y); c.Valid() {
		return c
	}
	for i := len(a.layers) - 1; i >= 0; i-- {
		if rr, ok := a.layers[i].(*layer.Raster); ok {
			if c := rr.RowAndColumn(x, y); c.Valid() {
				return c
			}
		}
	}
	return layer.InvalidCell
}

// SelectVectorFeatures toggles the feature under a map point on the active
// vector and returns its record number, or -1.
func (a *MapArea) SelectVectorFeatures(x, y float64) int {
	v := a.ActiveVector()
	if v == nil {
		return -1
	}
	return v.SelectFeatureByLocation(x, y)
}

// SelectVectorFeaturesByBox selects the active vector's features inside a
// map-space box and returns how many were added.
func (a *MapArea) SelectVectorFeaturesByBox(bb geometry.BoundingBox) int {
	v := a.ActiveVector()
	if v == nil {
		return 0
	}
	return v.SelectFeaturesInBox(bb)
}

// DeselectVectorFeatures clears the active vector's selection.
func (a *MapArea) DeselectVectorFeatures() {
	if v := a.ActiveVector(); v != nil {
		v.ClearSelectedFeatures()
	}
}
