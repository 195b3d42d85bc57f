package render

import (
	"math"

	"map-composer/internal/carto"
	"map-composer/pkg/geometry"
)

// PageTransform maps page points onto a canvas of a given size so that the
// page extent is centred and fits. It is derived fresh for every frame and
// every input event from the current canvas size and page extent.
type PageTransform struct {
	Scale  float64
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// NewPageTransform fits extent into a w x h canvas. A degenerate canvas or
// extent gets scale 1 so the inverse stays finite.
func NewPageTransform(w, h float64, extent geometry.BoundingBox) PageTransform {
	t := PageTransform{Scale: 1, Width: w, Height: h}
	ew, eh := extent.Width(), extent.Height()
	if w > 0 && h > 0 && ew > 0 && eh > 0 && !math.IsInf(ew, 0) && !math.IsInf(eh, 0) {
		t.Scale = math.Min(w/ew, h/eh)
	}
	if !extent.IsInitialized() {
		return t
	}
	t.Top = (h-eh*t.Scale)/2 - extent.MinY*t.Scale
	t.Left = (w-ew*t.Scale)/2 - extent.MinX*t.Scale
	return t
}

// ToPage converts a canvas pixel position to page points.
func (t PageTransform) ToPage(x, y float64) (float64, float64) {
	return (x - t.Left) / t.Scale, (y - t.Top) / t.Scale
}

// ToScreen converts page points to a canvas pixel position.
func (t PageTransform) ToScreen(x, y float64) (float64, float64) {
	return x*t.Scale + t.Left, y*t.Scale + t.Top
}

// Affine returns the page-to-canvas transform.
func (t PageTransform) Affine() geometry.AffineTransform {
	return geometry.Translation(t.Left, t.Top).Compose(geometry.Scale(t.Scale, t.Scale))
}

// LineWidth is the page-space width of one canvas pixel.
func (t PageTransform) LineWidth() float64 {
	w := 1 / t.Scale
	if w == 0 || math.IsInf(w, 0) || math.IsNaN(w) {
		return 0.5
	}
	return w
}

// VisiblePage returns the page-space rectangle covered by the whole canvas.
func (t PageTransform) VisiblePage() geometry.Rect {
	x, y := t.ToPage(0, 0)
	return geometry.NewRect(x, y, t.Width/t.Scale, t.Height/t.Scale)
}

// MapView relates a map area's view rectangle on the page to map units.
type MapView struct {
	// Frame is the map area's rectangle, or the visible canvas when the area
	// is maximized.
	Frame geometry.Rect
	// View is Frame inset by the reference mark size.
	View geometry.Rect
	// Extent is the current extent padded so its aspect matches View.
	Extent geometry.BoundingBox
	// Scale is page points per map unit.
	Scale float64
}

// NewMapView computes the view of a for a frame. It reports false when the
// area has no usable extent, in which case only Frame and View are set.
func NewMapView(a *carto.MapArea, page PageTransform, forPrint bool) (MapView, bool) {
	ref := a.ReferenceMarkSize()
	v := MapView{Frame: a.Bounds()}
	v.View = v.Frame.Inset(ref)
	if a.MaximizeToScreen && !forPrint {
		v.Frame = page.VisiblePage()
		v.View = geometry.NewRect(v.Frame.X+ref, v.Frame.Y+ref,
			page.Width/page.Scale-2*ref, page.Height/page.Scale-2*ref)
	}

	ce := a.CurrentExtent()
	if !ce.IsInitialized() {
		return v, false
	}
	xr, yr := math.Abs(ce.Width()), math.Abs(ce.Height())
	if xr <= 0 || yr <= 0 || v.View.Width <= 0 || v.View.Height <= 0 {
		return v, false
	}
	v.Scale = math.Min(v.View.Width/xr, v.View.Height/yr)
	padX := (v.View.Width/v.Scale - xr) / 2
	padY := (v.View.Height/v.Scale - yr) / 2
	v.Extent = geometry.NewBoundingBox(ce.MinX-padX, ce.MinY-padY, ce.MaxX+padX, ce.MaxY+padY)
	return v, true
}

// ToPage converts map units to page points.
func (v MapView) ToPage(x, y float64) (float64, float64) {
	e := v.Extent
	return v.View.X + (x-e.MinX)/e.Width()*v.View.Width,
		v.View.Y + (e.MaxY-y)/e.Height()*v.View.Height
}

// ToMap converts page points to map units.
func (v MapView) ToMap(px, py float64) (float64, float64) {
	e := v.Extent
	return e.MinX + (px-v.View.X)/v.View.Width*e.Width(),
		e.MinY + (v.View.Y+v.View.Height-py)/v.View.Height*e.Height()
}

// InView reports whether the page point lies inside the view rectangle.
func (v MapView) InView(px, py float64) bool {
	return v.View.Contains(geometry.Pt(px, py))
}
