package render

import (
	"math"

	"map-composer/internal/carto"
	"map-composer/internal/layer"
	"map-composer/internal/typeface"
	"map-composer/pkg/colorutil"
	"map-composer/pkg/geometry"
)

// Sizes of the editing and overlay marks, in page points.
const (
	editHandleSize   = 2.5
	editHandleStroke = 0.5
	hoverDotRadius   = 2
	vertexSquare     = 6
	crosshairRadius  = 9
	crosshairArm     = 13
)

func (r *Renderer) drawMapArea(c Canvas, pc PaintContext, d *carto.Document, a *carto.MapArea) error {
	v, ok := NewMapView(a, pc.Page, pc.ForPrint)
	if a.BackgroundVisible {
		fillRect(c, v.Frame, a.BackgroundColour)
	}
	face, err := typeface.Open(a.LabelFont)
	if err != nil {
		return err
	}

	if ok {
		for _, ly := range a.Layers() {
			if !ly.Visible() {
				continue
			}
			switch l := ly.(type) {
			case *layer.Raster:
				drawRasterLayer(c, v, l)
			case *layer.Vector:
				drawVectorLayer(c, pc, v, a, l)
			}
		}
	}

	if a.BorderVisible {
		strokeRect(c, v.View, Solid(a.BorderColour, a.LineWidth))
	}
	if ok && a.ReferenceMarksVisible {
		drawReferenceMarks(c, a, v)
		drawExtentLabels(c, face, a, v)
	}

	if !a.MaximizeToScreen || pc.ForPrint {
		switch {
		case a.Selected() && !pc.ForPrint:
			strokeRect(c, v.Frame, pc.SelectionStroke())
		case a.NeatlineVisible:
			strokeRect(c, v.Frame, Solid(a.BorderColour, a.LineWidth))
		}
	}

	if ok && !pc.ForPrint {
		drawMapOverlay(c, pc, v, a == d.ActiveMapArea())
	}
	return nil
}

// drawRasterLayer blits the part of the raster inside the view, rebuilding
// its pixel buffer at a decimation matching the on-page size.
func drawRasterLayer(c Canvas, v MapView, l *layer.Raster) {
	fe := l.FullExtent()
	if !fe.IsInitialized() || !fe.Overlaps(v.Extent) {
		return
	}
	ce := fe.Intersect(v.Extent)
	l.SetCurrentExtent(ce)

	x := v.View.X + (ce.MinX-v.Extent.MinX)*v.Scale
	y := v.View.Y + (v.Extent.MaxY-ce.MaxY)*v.Scale
	w := ce.Width() * v.Scale
	h := ce.Height() * v.Scale
	rows := int(math.Round(ce.Height() / l.CellSizeY()))
	cols := int(math.Round(ce.Width() / l.CellSizeX()))
	l.SetResolutionFactor(layer.ResolutionFactorFor(rows, cols, w, h))
	if l.Dirty() || l.Image() == nil {
		l.CreatePixelData()
	}
	c.DrawImage(l.Image(), geometry.NewRect(x, y, w, h), false)
}

// drawVectorLayer draws the records of l that survive culling. Features
// smaller than the generalization level on the page are skipped.
func drawVectorLayer(c Canvas, pc PaintContext, v MapView, a *carto.MapArea, l *layer.Vector) {
	active := a.ActiveLayer() == l
	if !active {
		l.ClearSelectedFeatures()
	}
	fe := l.FullExtent()
	if !fe.IsInitialized() || !fe.Overlaps(v.Extent) {
		return
	}
	base := l.ShapeType().Base()
	if base == layer.ShapeMultiPatch || base == layer.ShapeNull {
		return
	}
	l.SetCurrentExtent(v.Extent)
	recs := l.Mappable(v.Extent, l.GeneralizationLevel/v.Scale)
	if len(recs) == 0 {
		return
	}
	if !fe.EntirelyContainedWithin(v.Extent) {
		c.SetClip(v.View)
		defer c.ClearClip()
	}

	edited := active && l.ActivelyEdited()
	switch {
	case l.ShapeType().IsPointType():
		drawPointRecords(c, pc, v, l, recs, edited)
	case base == layer.ShapePolyLine:
		drawPolylineRecords(c, pc, v, l, recs, edited, active)
	case base == layer.ShapePolygon:
		drawPolygonRecords(c, pc, v, l, recs, edited, active)
	}
}

func drawPointRecords(c Canvas, pc PaintContext, v MapView, l *layer.Vector, recs []*layer.Record, edited bool) {
	outline := Solid(l.LineColour, l.LineThickness)
	for _, rec := range recs {
		selected := l.IsFeatureSelected(rec.Number)
		for _, p := range rec.Geometry.Points {
			if !v.Extent.IsPointInBox(p.X, p.Y) {
				continue
			}
			x, y := v.ToPage(p.X, p.Y)
			if edited {
				c.StrokePath(xMark(x, y, editHandleSize), Solid(colorutil.Red, editHandleStroke))
				continue
			}
			m := layer.Marker(l.MarkerStyle, l.MarkerSize).Transform(geometry.Translation(x, y))
			if l.Filled {
				c.FillPath(m, l.RecordColour(rec.Number))
			}
			if l.Outlined {
				c.StrokePath(m, outline)
			}
			if selected {
				c.StrokePath(m, Solid(pc.SelectedFeatureColour, l.LineThickness))
			}
		}
	}
}

func drawPolylineRecords(c Canvas, pc PaintContext, v MapView, l *layer.Vector, recs []*layer.Record, edited, active bool) {
	base := Stroke{Width: l.LineThickness, Join: JoinRound}
	if l.Dashed {
		base.Dash = l.DashPattern()
	}
	for _, rec := range recs {
		s := base
		if l.IsFeatureSelected(rec.Number) {
			s.Colour = pc.SelectedFeatureColour
		} else {
			s.Colour = l.RecordColour(rec.Number)
		}
		c.StrokePath(partsPath(rec.Geometry, v, false), s)
		if edited {
			drawVertexHandles(c, v, rec.Geometry)
		}
		if active {
			drawHoverBox(c, pc, v, rec)
		}
	}
}

// drawPolygonRecords fills each record's parts as one even-odd path so holes
// stay open. Selected outlines on the active layer are drawn in a second
// pass so they sit above neighbouring fills.
func drawPolygonRecords(c Canvas, pc PaintContext, v MapView, l *layer.Vector, recs []*layer.Record, edited, active bool) {
	outline := Stroke{Colour: l.LineColour, Width: l.LineThickness}
	if l.Dashed {
		outline.Dash = l.DashPattern()
	}
	paths := make([]geometry.Path, len(recs))
	for i, rec := range recs {
		paths[i] = partsPath(rec.Geometry, v, true)
		if l.Filled {
			c.FillPath(paths[i], l.RecordColour(rec.Number))
		}
		selected := l.IsFeatureSelected(rec.Number)
		if (l.Outlined || edited) && !(selected && active) {
			c.StrokePath(paths[i], outline)
		}
		if edited {
			drawVertexHandles(c, v, rec.Geometry)
		}
	}
	if !active {
		return
	}
	sel := Solid(pc.SelectedFeatureColour, math.Max(l.LineThickness, 1))
	for i, rec := range recs {
		if l.IsFeatureSelected(rec.Number) {
			c.StrokePath(paths[i], sel)
		}
		drawHoverBox(c, pc, v, rec)
	}
}

// partsPath converts each part of g to a page-space subpath.
func partsPath(g layer.Geometry, v MapView, closed bool) geometry.Path {
	var p geometry.Path
	for i := 0; i < g.NumParts(); i++ {
		pts := g.Part(i)
		if len(pts) == 0 {
			continue
		}
		for k, q := range pts {
			x, y := v.ToPage(q.X, q.Y)
			if k == 0 {
				p.MoveTo(x, y)
			} else {
				p.LineTo(x, y)
			}
		}
		if closed {
			p.Close()
		}
	}
	return p
}

func xMark(x, y, s float64) geometry.Path {
	var p geometry.Path
	p.MoveTo(x-s, y-s)
	p.LineTo(x+s, y+s)
	p.MoveTo(x-s, y+s)
	p.LineTo(x+s, y-s)
	return p
}

func drawVertexHandles(c Canvas, v MapView, g layer.Geometry) {
	var p geometry.Path
	for _, q := range g.Points {
		x, y := v.ToPage(q.X, q.Y)
		p.Append(xMark(x, y, editHandleSize))
	}
	c.StrokePath(p, Solid(colorutil.Red, editHandleStroke))
}

// drawHoverBox outlines the box of a record under the pointer while feature
// selection is on.
func drawHoverBox(c Canvas, pc PaintContext, v MapView, rec *layer.Record) {
	ov := pc.Overlay
	if !ov.FeatureSelect {
		return
	}
	bb := rec.Geometry.Box()
	if !bb.IsPointInBox(ov.Pointer.X, ov.Pointer.Y) {
		return
	}
	x1, y1 := v.ToPage(bb.MinX, bb.MaxY)
	x2, y2 := v.ToPage(bb.MaxX, bb.MinY)
	r := geometry.NewRect(x1, y1, x2-x1, y2-y1)
	strokeRect(c, r, Stroke{Colour: pc.SelectionBoxColour, Width: pc.LineWidth, Dash: pc.Dash})
	ctr := r.Center()
	var dot geometry.Path
	dot.Ellipse(ctr.X-hoverDotRadius, ctr.Y-hoverDotRadius, 2*hoverDotRadius, 2*hoverDotRadius)
	c.FillPath(dot, pc.SelectionBoxColour)
}

// drawReferenceMarks draws two outward ticks at each viewport corner.
func drawReferenceMarks(c Canvas, a *carto.MapArea, v MapView) {
	ref := a.ReferenceMarkSize()
	x1, y1 := v.View.X, v.View.Y
	x2, y2 := x1+v.View.Width, y1+v.View.Height
	var p geometry.Path
	for _, k := range []struct{ x, y, dx, dy float64 }{
		{x1, y1, -1, -1}, {x2, y1, 1, -1}, {x1, y2, -1, 1}, {x2, y2, 1, 1},
	} {
		p.MoveTo(k.x+k.dx*ref, k.y)
		p.LineTo(k.x, k.y)
		p.MoveTo(k.x, k.y+k.dy*ref)
		p.LineTo(k.x, k.y)
	}
	c.StrokePath(p, Solid(a.BorderColour, a.LineWidth))
}

// drawExtentLabels writes the extent coordinates in the reference band:
// eastings along the top and bottom, northings rotated up the sides.
func drawExtentLabels(c Canvas, face *typeface.Face, a *carto.MapArea, v MapView) {
	if a.NumLayers() == 0 {
		return
	}
	units := a.XYUnits()
	col := a.FontColour
	ht := face.Ascent()
	vx, vy := v.View.X, v.View.Y
	lrx, lry := vx+v.View.Width, vy+v.View.Height
	e := v.Extent

	minX := carto.FormatGrouped(e.MinX) + units
	drawString(c, face, minX, vx+4, vy-3, col)
	drawString(c, face, minX, vx+4, lry+ht, col)

	maxX := carto.FormatGrouped(e.MaxX) + units
	wd := face.Advance(maxX)
	drawString(c, face, maxX, lrx-wd-2, vy-3, col)
	drawString(c, face, maxX, lrx-wd-2, lry+ht, col)

	maxY := carto.FormatGrouped(e.MaxY) + units
	wd = face.Advance(maxY)
	drawStringRotated(c, face, maxY, vx-3, vy+wd+3, -90, col)
	drawStringRotated(c, face, maxY, lrx+ht, vy+wd+3, -90, col)

	minY := carto.FormatGrouped(e.MinY) + units
	drawStringRotated(c, face, minY, vx-3, lry-4, -90, col)
	drawStringRotated(c, face, minY, lrx+ht, lry-4, -90, col)
}

// drawMapOverlay draws measured or digitized vertices, or the modify-pixel
// crosshair.
func drawMapOverlay(c Canvas, pc PaintContext, v MapView, active bool) {
	ov := pc.Overlay
	if ov.Measuring || (ov.Digitizing && active) {
		if len(ov.Vertices) == 0 {
			return
		}
		pts := make([]geometry.Point2D, len(ov.Vertices))
		for i, q := range ov.Vertices {
			x, y := v.ToPage(q.X, q.Y)
			pts[i] = geometry.Pt(x, y)
		}
		var p geometry.Path
		p.Polyline(pts)
		c.StrokePath(p, Solid(colorutil.Yellow, 1))
		for i, q := range pts {
			col := colorutil.Yellow
			if i == len(pts)-1 {
				col = colorutil.Blue
			}
			fillRect(c, geometry.NewRect(q.X-vertexSquare/2, q.Y-vertexSquare/2, vertexSquare, vertexSquare), col)
		}
		return
	}
	if !ov.Crosshair || !active {
		return
	}
	x, y := v.ToPage(ov.CrosshairPoint.X, ov.CrosshairPoint.Y)
	if !v.InView(x, y) {
		return
	}
	var ring geometry.Path
	ring.Ellipse(x-crosshairRadius, y-crosshairRadius, 2*crosshairRadius, 2*crosshairRadius)
	c.StrokePath(ring, Solid(colorutil.White, 3))
	c.StrokePath(ring, Solid(colorutil.Black, 1))
	fillRect(c, geometry.NewRect(x-crosshairArm, y-1, 2*crosshairArm, 2), colorutil.White)
	fillRect(c, geometry.NewRect(x-1, y-crosshairArm, 2, 2*crosshairArm), colorutil.White)
	var cross geometry.Path
	cross.MoveTo(x-crosshairArm, y)
	cross.LineTo(x+crosshairArm, y)
	cross.MoveTo(x, y-crosshairArm)
	cross.LineTo(x, y+crosshairArm)
	c.StrokePath(cross, Solid(colorutil.Black, 1))
}
