package render

import (
	"image"

	"map-composer/internal/carto"
	"map-composer/internal/layer"
	"map-composer/internal/typeface"
	"map-composer/pkg/colorutil"
	"map-composer/pkg/geometry"
)

// Legend layout in points.
const (
	legendLayerGap     = 10
	legendTitleGap     = 4
	legendRampWidth    = 12
	legendRampHeight   = 35
	legendRampAdvance  = 45
	legendLabelOffset  = 16
	legendSwatch       = 16
	legendSwatchGap    = 3
	legendSwatchLabelX = 22
)

func drawLegend(c Canvas, pc PaintContext, l *carto.Legend) error {
	face, err := typeface.Open(l.Font)
	if err != nil {
		return err
	}
	b := l.Bounds()
	c.SetClip(geometry.NewRect(b.X-1, b.Y-1, b.Width+2, b.Height+2))
	drawBackground(c, &l.Base, b)

	fh := face.Height()
	left := b.X + l.Margin
	top := b.Y + l.Margin + fh
	drawStringCentred(c, face, l.Label, b.X+b.Width/2, top, l.FontColour)
	top += legendTitleGap

	for _, a := range l.MapAreas() {
		layers := a.Layers()
		for i := len(layers) - 1; i >= 0; i-- {
			if !layers[i].Visible() {
				continue
			}
			top += legendLayerGap
			switch ly := layers[i].(type) {
			case *layer.Raster:
				top = drawRamp(c, face, l, ly.Title(), ly.Palette, ly.MinDisplay, ly.MaxDisplay, left, top)
			case *layer.Vector:
				if ly.ColourMode == layer.ColourContinuous {
					lo, hi := ly.ValueRange()
					top = drawRamp(c, face, l, ly.Title(), ly.Palette, lo, hi, left, top)
					continue
				}
				top = drawVectorEntries(c, face, l, ly, left, top)
			}
		}
	}

	c.ClearClip()
	drawFrame(c, pc, &l.Base, b, l.BorderWidth)
	return nil
}

// drawRamp draws a titled vertical palette ramp with its maximum at the top
// and returns the next entry's top.
func drawRamp(c Canvas, face *typeface.Face, l *carto.Legend, title string, p layer.Palette, lo, hi, left, top float64) float64 {
	drawString(c, face, title, left, top, l.FontColour)
	top += legendTitleGap
	r := geometry.NewRect(left, top, legendRampWidth, legendRampHeight)
	c.DrawImage(rampImage(p, legendRampHeight), r, false)
	strokeRect(c, r, Solid(l.FontColour, l.LineWidth))
	drawString(c, face, carto.FormatGrouped(hi), left+legendLabelOffset, top+face.Height(), l.FontColour)
	drawString(c, face, carto.FormatGrouped(lo), left+legendLabelOffset, top+legendRampHeight, l.FontColour)
	return top + legendRampAdvance
}

// rampImage renders a palette as a one pixel wide column, last entry on top.
func rampImage(p layer.Palette, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1, h))
	for y := 0; y < h; y++ {
		t := 1.0
		if h > 1 {
			t = 1 - float64(y)/float64(h-1)
		}
		img.SetRGBA(0, y, p.At(t))
	}
	return img
}

func drawVectorEntries(c Canvas, face *typeface.Face, l *carto.Legend, v *layer.Vector, left, top float64) float64 {
	entries := v.LegendEntries()
	if v.ColourMode != layer.ColourSingle {
		drawString(c, face, v.Title(), left, top, l.FontColour)
		top += legendTitleGap
	}
	top += legendSwatchGap
	for i, e := range entries {
		y := top + float64(i)*(legendSwatch+legendSwatchGap)
		box := geometry.NewRect(left, y, legendSwatch, legendSwatch)
		drawSwatch(c, v, e, box)
		drawString(c, face, e.Label, left+legendSwatchLabelX,
			y+legendSwatch-(legendSwatch/2-face.Height()/4), l.FontColour)
	}
	return top + float64(len(entries))*(legendSwatch+legendSwatchGap) + legendSwatchGap
}

// drawSwatch draws the sample for one legend entry: a filled box for
// polygons, the marker for points and a bent line for polylines.
func drawSwatch(c Canvas, v *layer.Vector, e layer.LegendEntry, box geometry.Rect) {
	line := Stroke{Colour: v.LineColour, Width: v.LineThickness}
	if v.Dashed {
		line.Dash = v.DashPattern()
	}
	switch base := v.ShapeType().Base(); {
	case base == layer.ShapePolygon:
		if v.Filled {
			fillRect(c, box, e.Colour)
		}
		if v.Outlined {
			strokeRect(c, box, line)
		}
	case v.ShapeType().IsPointType():
		ctr := box.Center()
		m := layer.Marker(v.MarkerStyle, v.MarkerSize).Transform(geometry.Translation(ctr.X, ctr.Y))
		if v.Filled {
			c.FillPath(m, e.Colour)
		}
		if v.Outlined {
			c.StrokePath(m, line)
		}
	case base == layer.ShapePolyLine:
		if v.LineColour == colorutil.White {
			fillRect(c, box, colorutil.LightGray)
		}
		var p geometry.Path
		bottom := box.Y + box.Height
		p.MoveTo(box.X, bottom)
		p.LineTo(box.X+box.Width/3, box.Y)
		p.LineTo(box.X+2*box.Width/3, bottom)
		p.LineTo(box.X+box.Width, box.Y)
		line.Colour = e.Colour
		c.StrokePath(p, line)
	}
}
