// Package render paints a cartographic document onto a Canvas.
//
// A Renderer is used from the one goroutine that owns the document. Render
// reads and lazily updates document state (default layout, raster pixel
// buffers, layer current extents) and must not run concurrently with any
// other access to the same document, including input handling.
package render

import (
	"errors"
	"fmt"

	"map-composer/internal/carto"
	"map-composer/pkg/colorutil"
	"map-composer/pkg/geometry"

	"github.com/srwiley/oksvg"
)

// Reporter receives failures that do not stop a frame.
type Reporter interface {
	LogException(context string, err error)
	ShowFeedback(msg string)
}

// RenderErrorContext is the context passed to Reporter.LogException for a
// failed element.
const RenderErrorContext = "Error in MapRenderer"

// Renderer draws documents. Its only state across frames is the parsed
// north arrow icons.
type Renderer struct {
	Style    Style
	Reporter Reporter

	arrows map[arrowKey]*oksvg.SvgIcon
}

// NewRenderer returns a renderer using st. rep may be nil.
func NewRenderer(st Style, rep Reporter) *Renderer {
	return &Renderer{Style: st, Reporter: rep, arrows: make(map[arrowKey]*oksvg.SvgIcon)}
}

// Render paints one frame of doc. Interactive frames show the desk, the page
// shadow and the margin ticks and use the document's page extent; print
// frames cover exactly the page on white. A failure in one element is
// reported and the remaining elements are still drawn; the joined failures
// are returned.
func (r *Renderer) Render(doc *carto.Document, c Canvas, forPrint bool, ov Overlay) error {
	var errs []error
	if err := carto.EnsureLayout(doc); err != nil {
		errs = append(errs, err)
		r.report(err)
	}

	var extent geometry.BoundingBox
	if forPrint {
		extent = doc.PrintPageExtent()
	} else {
		extent = doc.InitPageExtent(false)
	}
	w, h := c.Size()
	page := NewPageTransform(float64(w), float64(h), extent)
	pc := NewPaintContext(page, forPrint, r.Style, ov)

	c.SetTransform(geometry.Identity())
	c.ClearClip()
	bg := r.Style.DeskColour
	if forPrint || !doc.PageVisible {
		bg = colorutil.White
	}
	c.Clear(bg)
	c.SetTransform(page.Affine())

	if doc.PageVisible && !forPrint {
		drawPage(c, doc)
	}

	for _, e := range doc.Elements() {
		if err := r.drawElement(c, pc, doc, e); err != nil {
			errs = append(errs, err)
			r.report(err)
		}
	}

	if ov.RubberBand {
		drawBand(c, pc, geometry.RectFromCorners(ov.BandStart, ov.BandEnd))
	}
	c.SetTransform(geometry.Identity())
	return errors.Join(errs...)
}

func (r *Renderer) report(err error) {
	if r.Reporter == nil {
		return
	}
	r.Reporter.LogException(RenderErrorContext, err)
	r.Reporter.ShowFeedback(err.Error())
}

// drawElement paints one element, turning a panic into an error so the
// frame can go on.
func (r *Renderer) drawElement(c Canvas, pc PaintContext, d *carto.Document, e carto.Element) (err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("draw %s: %v", e.Name(), rec)
		}
		c.ClearClip()
	}()
	if !e.Visible() {
		return nil
	}
	switch el := e.(type) {
	case *carto.MapArea:
		err = r.drawMapArea(c, pc, d, el)
	case *carto.Legend:
		err = drawLegend(c, pc, el)
	case *carto.MapScale:
		err = drawMapScale(c, pc, el)
	case *carto.MapTitle:
		err = drawMapTitle(c, pc, el)
	case *carto.MapTextArea:
		err = drawMapTextArea(c, pc, el)
	case *carto.NorthArrow:
		err = r.drawNorthArrow(c, pc, el)
	case *carto.Neatline:
		drawNeatline(c, pc, el)
	case *carto.MapImage:
		err = drawMapImage(c, pc, el)
	case *carto.Group:
		err = r.drawGroup(c, pc, d, el)
	}
	if err != nil {
		return fmt.Errorf("draw %s: %w", e.Name(), err)
	}
	return nil
}

// drawGroup paints the children in order, each isolated like a top-level
// element, then the group outline when selected.
func (r *Renderer) drawGroup(c Canvas, pc PaintContext, d *carto.Document, g *carto.Group) error {
	var errs []error
	for _, child := range g.Elements() {
		if err := r.drawElement(c, pc, d, child); err != nil {
			errs = append(errs, err)
		}
	}
	if g.Selected() && !pc.ForPrint {
		strokeRect(c, g.Bounds(), pc.SelectionStroke())
	}
	return errors.Join(errs...)
}

// marginTick is the length of the printable-area corner marks.
const marginTick = 7

func drawPage(c Canvas, d *carto.Document) {
	w, h := d.PageWidth, d.PageHeight
	fillRect(c, geometry.NewRect(carto.PageShadow, carto.PageShadow, w, h), colorutil.PageShadow)
	page := geometry.NewRect(0, 0, w, h)
	fillRect(c, page, colorutil.White)
	strokeRect(c, page, Solid(colorutil.DarkGray, 1))

	m := d.Margin
	if m <= 0 {
		return
	}
	var p geometry.Path
	corners := []struct{ x, y, dx, dy float64 }{
		{m, m, -1, -1},
		{w - m, m, 1, -1},
		{m, h - m, -1, 1},
		{w - m, h - m, 1, 1},
	}
	for _, k := range corners {
		p.MoveTo(k.x, k.y)
		p.LineTo(k.x, k.y+k.dy*marginTick)
		p.MoveTo(k.x, k.y)
		p.LineTo(k.x+k.dx*marginTick, k.y)
	}
	c.StrokePath(p, Solid(colorutil.LightGray, 1))
}

// drawBackground fills an element's rectangle when its background is on.
func drawBackground(c Canvas, b *carto.Base, r geometry.Rect) {
	if b.BackgroundVisible {
		fillRect(c, r, b.BackgroundColour)
	}
}

// drawFrame outlines an element: dashed while selected on screen, otherwise
// in the border colour when the border is on.
func drawFrame(c Canvas, pc PaintContext, b *carto.Base, r geometry.Rect, width float64) {
	switch {
	case b.Selected() && !pc.ForPrint:
		strokeRect(c, r, pc.SelectionStroke())
	case b.BorderVisible:
		strokeRect(c, r, Solid(b.BorderColour, width))
	}
}
