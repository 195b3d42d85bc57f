// Package interact turns pointer and keyboard events on the map canvas into
// edits of a carto.Document.
//
// A Controller is not safe for concurrent use. Events, renders and host
// callbacks must all run on one goroutine, the one that owns the document.
package interact

import (
	"math"

	"map-composer/internal/carto"
	"map-composer/internal/layer"
	"map-composer/internal/render"
	"map-composer/pkg/geometry"
)

const (
	// resizeBand is how far outside a selected element, in page points,
	// the pointer grabs an edge.
	resizeBand = 8
	// livePanStep is the fraction of the extent a pan drag must cover
	// before the map area follows the pointer.
	livePanStep = 0.05

	zoomClickStep = 0.15
	wheelMapStep  = 0.15
	wheelPageStep = 0.1
)

// Controller is the interaction state machine of a map canvas. Every event
// recomputes the page transform from the current canvas size and page
// extent, the same way the renderer does for the frame the user sees.
type Controller struct {
	doc  *carto.Document
	host Host

	// ScrollDirection multiplies wheel notches; -1 reverses wheel zoom.
	ScrollDirection float64

	width, height float64

	mode   Mode
	hover  Hover
	target carto.Element
	edge   carto.ResizeMode

	measuring bool
	// points are the measured vertices, or the vertices of the feature
	// being digitized, in map units.
	points []geometry.Point2D

	pressScreen  geometry.Point2D
	pressPage    geometry.Point2D
	pressExtent  geometry.BoundingBox
	pressMap     geometry.Point2D
	pressInView  bool
	dragging     bool
	dragEnd      geometry.Point2D
	pointerMap   geometry.Point2D
	pointerOnMap bool

	crosshair   bool
	crosshairAt geometry.Point2D
}

// NewController returns a controller in select mode.
func NewController(doc *carto.Document, host Host) *Controller {
	return &Controller{
		doc:             doc,
		host:            host,
		ScrollDirection: 1,
		mode:            ModeSelect,
		pressExtent:     geometry.Uninitialized(),
	}
}

// Document returns the document being edited.
func (c *Controller) Document() *carto.Document { return c.doc }

// SetDocument replaces the document and forgets all pointer state.
func (c *Controller) SetDocument(doc *carto.Document) {
	c.doc = doc
	c.target = nil
	c.hover = HoverNone
	c.dragging = false
	c.points = nil
	c.crosshair = false
}

// SetCanvasSize records the size in pixels of the canvas events arrive on.
func (c *Controller) SetCanvasSize(w, h float64) {
	c.width, c.height = w, h
}

// MouseMode returns the chosen tool.
func (c *Controller) MouseMode() Mode { return c.mode }

// Mode returns the effective mode: the chosen tool, or ModeResize while the
// pointer is over a resize band.
func (c *Controller) Mode() Mode {
	if c.hover == HoverResize {
		return ModeResize
	}
	return c.mode
}

// Hover returns what the pointer was over at the last event.
func (c *Controller) Hover() Hover { return c.hover }

// Target returns the element under the pointer, or nil.
func (c *Controller) Target() carto.Element { return c.target }

// SetMouseMode chooses a tool. ModeResize cannot be chosen and is ignored.
func (c *Controller) SetMouseMode(m Mode) {
	if m == ModeResize || m == c.mode {
		return
	}
	prev := c.mode
	c.mode = m
	if prev == ModeModifyPixel {
		c.crosshair = false
	}
	if prev == ModeDigitize || m == ModeDigitize {
		c.cancelFeature()
	}
}

// cancelFeature drops the vertices of an unfinished feature, both here and
// on the edited layer, so the two never disagree.
func (c *Controller) cancelFeature() {
	c.points = nil
	if _, v := c.editedVector(); v != nil && v.FeatureOpen() {
		v.CancelNewFeature()
	}
}

// SetMeasuring turns the distance tool on or off. Turning it off discards
// the measured points.
func (c *Controller) SetMeasuring(on bool) {
	c.measuring = on
	if !on && c.mode != ModeDigitize {
		c.points = nil
	}
}

// Measuring reports whether the distance tool is on.
func (c *Controller) Measuring() bool { return c.measuring }

// Points returns the measured or digitized vertices.
func (c *Controller) Points() []geometry.Point2D { return c.points }

func (c *Controller) digitizing() bool {
	return c.measuring || c.mode == ModeDigitize || c.mode == ModeModifyPixel
}

// page derives the page transform the renderer uses for an interactive
// frame at the current canvas size.
func (c *Controller) page() render.PageTransform {
	return render.NewPageTransform(c.width, c.height, c.doc.InitPageExtent(false))
}

func (c *Controller) toPage(x, y float64) (render.PageTransform, geometry.Point2D) {
	pt := c.page()
	px, py := pt.ToPage(x, y)
	return pt, geometry.Pt(px, py)
}

// mapView returns the view of a for this event, or false when it has no
// usable extent or is hidden.
func (c *Controller) mapView(a *carto.MapArea, page render.PageTransform) (render.MapView, bool) {
	if a == nil || !a.Visible() {
		return render.MapView{}, false
	}
	return render.NewMapView(a, page, false)
}

// mapPoint converts a page point over a to map units. It reports false
// outside the view rectangle.
func (c *Controller) mapPoint(a *carto.MapArea, page render.PageTransform, p geometry.Point2D) (geometry.Point2D, bool) {
	v, ok := c.mapView(a, page)
	if !ok || !v.InView(p.X, p.Y) {
		return geometry.Point2D{}, false
	}
	x, y := v.ToMap(p.X, p.Y)
	return geometry.Pt(x, y), true
}

func (c *Controller) targetArea() *carto.MapArea {
	a, _ := c.target.(*carto.MapArea)
	return a
}

// grabbing reports whether a drag would move the selected elements.
func (c *Controller) grabbing() bool {
	return (c.hover == HoverElement || c.hover == HoverMapArea) && c.target != nil && c.target.Selected()
}

func (c *Controller) repaint() {
	if c.host != nil {
		c.host.RefreshMap(false)
	}
}

func (c *Controller) refresh() {
	if c.host != nil {
		c.host.RefreshMap(true)
	}
}

func (c *Controller) feedback(msg string) {
	if c.host != nil {
		c.host.ShowFeedback(msg)
	}
}

// locate finds the element under p. Later elements are painted on top and
// win. Selected elements also record the pointer's offset from their corner
// so a drag keeps the grip point.
func (c *Controller) locate(p geometry.Point2D) {
	c.hover = HoverNone
	c.target = nil
	for _, e := range c.doc.Elements() {
		if !e.Visible() {
			continue
		}
		if carto.HitTest(e, p.X, p.Y) {
			c.target = e
			if _, ok := e.(*carto.MapArea); ok {
				c.hover = HoverMapArea
			} else {
				c.hover = HoverElement
			}
		} else if e.Selected() {
			if m, ok := carto.EdgeAt(e, p.X, p.Y, resizeBand); ok {
				c.target = e
				c.hover = HoverResize
				c.edge = m
			}
		}
		if e.Selected() {
			e.SetSelectedOffset(p.Sub(e.Bounds().TopLeft()))
		}
	}
}

// Move handles pointer motion with no button held.
func (c *Controller) Move(x, y float64) {
	page, p := c.toPage(x, y)
	prevHover, prevTarget := c.hover, c.target
	c.locate(p)

	c.pointerOnMap = false
	if a := c.targetArea(); a != nil {
		c.pointerMap, c.pointerOnMap = c.mapPoint(a, page, p)
		c.updateStatus(a, page, p)
	}

	switch {
	case c.hover == HoverNone && prevHover != HoverNone:
		c.repaint()
	case c.hover == HoverMapArea && c.mode == ModeFeatureSelect:
		c.repaint()
	case c.target != prevTarget:
		c.repaint()
	}
}

// Press records the anchor of a possible drag.
func (c *Controller) Press(x, y float64) {
	page, p := c.toPage(x, y)
	c.locate(p)
	c.pressScreen = geometry.Pt(x, y)
	c.pressPage = p
	c.pressExtent = c.doc.InitPageExtent(false)
	c.dragging = false
	c.dragEnd = p
	c.pressInView = false
	if a := c.targetArea(); a != nil {
		c.pressMap, c.pressInView = c.mapPoint(a, page, p)
	}
}

// Drag handles pointer motion with the button held.
func (c *Controller) Drag(x, y float64) {
	page, p := c.toPage(x, y)
	c.dragging = true
	c.dragEnd = p

	switch c.hover {
	case HoverElement, HoverMapArea:
		if c.grabbing() {
			for _, e := range c.doc.SelectedElements() {
				off := e.SelectedOffset()
				e.SetUpperLeft(p.X-off.X, p.Y-off.Y)
			}
		}
		if a := c.targetArea(); a != nil && c.mode == ModePan && !a.Selected() {
			c.livePan(a, page, p)
		}
	case HoverResize:
		if c.target != nil && c.target.Selected() {
			c.target.Resize(p.X, p.Y, c.edge)
		}
	case HoverNone:
		if c.mode == ModePan && c.pressExtent.IsInitialized() {
			c.panPage(page, x, y)
		}
	}
	c.repaint()
}

// livePan moves a map area's extent with the pointer once the drag covers a
// noticeable part of it, so large rasters are not redrawn every pixel.
func (c *Controller) livePan(a *carto.MapArea, page render.PageTransform, p geometry.Point2D) {
	if !c.pressInView {
		return
	}
	v, ok := c.mapView(a, page)
	if !ok {
		return
	}
	ex, ey := v.ToMap(p.X, p.Y)
	ce := a.CurrentExtent()
	dx, dy := c.pressMap.X-ex, c.pressMap.Y-ey
	if math.Abs(dx/ce.Width()) >= livePanStep || math.Abs(dy/ce.Height()) >= livePanStep {
		a.PreviewExtent(ce.Translate(dx, dy))
	}
}

// panPage slides the page under the pointer. The page scale does not change
// so the offset from the press converts directly to page points.
func (c *Controller) panPage(page render.PageTransform, x, y float64) {
	dx := (x - c.pressScreen.X) / page.Scale
	dy := (y - c.pressScreen.Y) / page.Scale
	c.doc.SetPageExtent(c.pressExtent.Translate(-dx, -dy))
}

// Release commits the action of a drag.
func (c *Controller) Release(x, y float64) {
	page, p := c.toPage(x, y)
	defer func() {
		c.dragging = false
		c.repaint()
	}()
	if !c.dragging {
		return
	}

	switch {
	case c.mode == ModeSelect && !c.grabbing() && c.hover != HoverResize:
		c.selectInBox(boxOf(c.pressPage, p))

	case c.mode == ModeZoomIn && !c.measuring &&
		(c.hover == HoverNone || (c.hover == HoverElement && !c.target.Selected())):
		if bb := boxOf(c.pressPage, p); bb.Width() > 0 && bb.Height() > 0 {
			c.doc.SetPageExtent(bb)
		}

	case c.hover == HoverResize:
		if c.target != nil {
			c.target.Resize(p.X, p.Y, c.edge)
		}

	case c.hover == HoverMapArea:
		a := c.targetArea()
		if a == nil || a.Selected() || !c.pressInView {
			return
		}
		v, ok := c.mapView(a, page)
		if !ok {
			return
		}
		ex, ey := v.ToMap(p.X, p.Y)
		bb := boxOf(c.pressMap, geometry.Pt(ex, ey))
		switch c.mode {
		case ModeFeatureSelect:
			a.SelectVectorFeaturesByBox(bb)
		case ModeZoomIn:
			if !c.measuring && bb.Width() > 0 && bb.Height() > 0 {
				a.SetCurrentExtent(bb)
			}
		case ModePan:
			a.SetCurrentExtent(a.CurrentExtent().Translate(c.pressMap.X-ex, c.pressMap.Y-ey))
		}
	}
}

// selectInBox selects exactly the elements whose rectangles lie inside bb.
func (c *Controller) selectInBox(bb geometry.BoundingBox) {
	for _, e := range c.doc.Elements() {
		e.SetSelected(bb.EntirelyContains(geometry.BoxFromRect(e.Bounds())))
	}
}

func boxOf(a, b geometry.Point2D) geometry.BoundingBox {
	return geometry.NewBoundingBox(math.Min(a.X, b.X), math.Min(a.Y, b.Y),
		math.Max(a.X, b.X), math.Max(a.Y, b.Y))
}

// bandVisible reports whether the current drag shows a rubber band.
func (c *Controller) bandVisible() bool {
	if !c.dragging || c.grabbing() || c.hover == HoverResize {
		return false
	}
	switch c.mode {
	case ModeSelect, ModeZoomIn:
		return true
	case ModeFeatureSelect:
		return c.hover == HoverMapArea
	}
	return false
}

// Overlay returns the interaction state for the next frame.
func (c *Controller) Overlay() render.Overlay {
	ov := render.Overlay{
		RubberBand:     c.bandVisible(),
		BandStart:      c.pressPage,
		BandEnd:        c.dragEnd,
		FeatureSelect:  c.mode == ModeFeatureSelect && c.hover == HoverMapArea && c.pointerOnMap,
		Pointer:        c.pointerMap,
		Measuring:      c.measuring,
		Digitizing:     c.mode == ModeDigitize,
		Crosshair:      c.crosshair,
		CrosshairPoint: c.crosshairAt,
	}
	if len(c.points) > 0 {
		ov.Vertices = append([]geometry.Point2D(nil), c.points...)
	}
	return ov
}

// Cursor returns the pointer shape for the current state.
func (c *Controller) Cursor() Cursor {
	switch c.hover {
	case HoverResize:
		return resizeCursors[c.edge]
	case HoverElement:
		if c.target.Selected() {
			return CursorPan
		}
		if c.mode != ModeZoomIn && c.mode != ModeZoomOut {
			return CursorSelect
		}
	case HoverMapArea:
		switch {
		case c.target.Selected() && !c.digitizing():
			return CursorPan
		case c.mode == ModeFeatureSelect:
			return CursorFeatureSelect
		case c.digitizing():
			return CursorDigitize
		case c.mode == ModePan && c.dragging:
			return CursorGrab
		}
	}
	return modeCursors[c.mode]
}

var modeCursors = map[Mode]Cursor{
	ModeZoomIn:        CursorZoomIn,
	ModeZoomOut:       CursorZoomOut,
	ModePan:           CursorPan,
	ModeSelect:        CursorSelect,
	ModeFeatureSelect: CursorFeatureSelect,
	ModeDigitize:      CursorDigitize,
	ModeModifyPixel:   CursorDigitize,
}

var resizeCursors = map[carto.ResizeMode]Cursor{
	carto.ResizeN:  CursorResizeN,
	carto.ResizeS:  CursorResizeS,
	carto.ResizeE:  CursorResizeE,
	carto.ResizeW:  CursorResizeW,
	carto.ResizeNE: CursorResizeNE,
	carto.ResizeNW: CursorResizeNW,
	carto.ResizeSE: CursorResizeSE,
	carto.ResizeSW: CursorResizeSW,
}

// activeVector returns the vector layer digitizing applies to: the active
// layer of the target, which must be the document's active map area.
func (c *Controller) activeVector() (*carto.MapArea, *layer.Vector) {
	a := c.targetArea()
	if a == nil || a != c.doc.ActiveMapArea() {
		return nil, nil
	}
	return a, a.ActiveVector()
}
