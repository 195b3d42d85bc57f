package render

import (
	"image/color"

	"map-composer/pkg/colorutil"
	"map-composer/pkg/geometry"
)

// Overlay is the interaction state drawn on top of the document: the drag
// rubber band, the feature-select hover box, measured or digitized vertices
// and the modify-pixel crosshair. The interaction controller produces one per
// frame.
type Overlay struct {
	// RubberBand draws a dashed box between BandStart and BandEnd, given in
	// page points.
	RubberBand bool
	BandStart  geometry.Point2D
	BandEnd    geometry.Point2D

	// FeatureSelect shows the box of any active-layer record under Pointer.
	FeatureSelect bool
	// Pointer is the last pointer position in map units.
	Pointer geometry.Point2D

	// Measuring draws Vertices in every map area; Digitizing draws them in
	// the active map area only.
	Measuring  bool
	Digitizing bool
	Vertices   []geometry.Point2D

	// Crosshair marks the pixel being modified, in map units.
	Crosshair      bool
	CrosshairPoint geometry.Point2D
}

// PaintContext is the immutable per-frame drawing state handed to every
// element renderer.
type PaintContext struct {
	Page     PageTransform
	ForPrint bool
	// LineWidth is one canvas pixel in page points.
	LineWidth float64
	// Dash is the selection dash pattern, constant in canvas pixels.
	Dash []float64

	SelectedColour        color.RGBA
	SelectedFeatureColour color.RGBA
	SelectionBoxColour    color.RGBA

	Overlay Overlay
}

// NewPaintContext derives the frame's stroke widths and dash pattern from
// the page transform.
func NewPaintContext(page PageTransform, forPrint bool, st Style, ov Overlay) PaintContext {
	lw := page.LineWidth()
	return PaintContext{
		Page:                  page,
		ForPrint:              forPrint,
		LineWidth:             lw,
		Dash:                  []float64{4 * lw},
		SelectedColour:        colorutil.Black,
		SelectedFeatureColour: st.SelectedFeatureColour,
		SelectionBoxColour:    st.SelectionBoxColour,
		Overlay:               ov,
	}
}

// SelectionStroke is the dashed outline of a selected element.
func (pc PaintContext) SelectionStroke() Stroke {
	return Stroke{Colour: pc.SelectedColour, Width: pc.LineWidth, Dash: pc.Dash}
}

// drawBand draws a rectangle as black dashes over white dashes offset by one
// dash, so it shows on any background.
func drawBand(c Canvas, pc PaintContext, r geometry.Rect) {
	p := rectPath(r)
	c.StrokePath(p, Stroke{Colour: colorutil.Black, Width: pc.LineWidth, Dash: pc.Dash})
	c.StrokePath(p, Stroke{Colour: colorutil.White, Width: pc.LineWidth, Dash: pc.Dash, DashOffset: pc.Dash[0]})
}

// Style holds the configurable colours of a renderer.
type Style struct {
	DeskColour            color.RGBA
	SelectedFeatureColour color.RGBA
	SelectionBoxColour    color.RGBA
}

// DefaultStyle returns the standard interactive colours.
func DefaultStyle() Style {
	return Style{
		DeskColour:            colorutil.Desk,
		SelectedFeatureColour: colorutil.Cyan,
		SelectionBoxColour:    colorutil.Gray,
	}
}
