// Package demo builds the sample composition the viewer opens with and the
// export command renders when no other document is available.
package demo

import (
	"image/color"
	"math"

	"map-composer/internal/carto"
	"map-composer/internal/config"
	"map-composer/internal/layer"
	"map-composer/pkg/geometry"
)

// Extent is the map area covered by the sample layers, in UTM metres.
var Extent = geometry.NewBoundingBox(500000, 4800000, 520000, 4815000)

var blue = color.RGBA{R: 70, G: 130, B: 200, A: 255}

const (
	cellSize = 100.0
	noData   = -32768.0
)

// Terrain returns a synthetic elevation raster over Extent. Cells outside a
// coastline ellipse are nodata.
func Terrain() *layer.Raster {
	cols := int(Extent.Width() / cellSize)
	rows := int(Extent.Height() / cellSize)
	g := layer.NewMemGrid(rows, cols, noData)
	cx, cy := float64(cols)/2, float64(rows)/2
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			dx, dy := (float64(c)-cx)/cx, (float64(r)-cy)/cy
			if dx*dx+dy*dy > 1 {
				continue
			}
			z := 400*(1-dx*dx-dy*dy) +
				60*math.Sin(float64(c)/9)*math.Cos(float64(r)/7)
			_ = g.SetValue(r, c, math.Round(z*10)/10)
		}
	}
	r := layer.NewRaster("Elevation", g, Extent)
	r.SetXYUnits("metres")
	r.Scale = layer.ScaleContinuous
	r.Palette = layer.SpectrumPalette
	return r
}

// Rivers returns a polyline layer with two channels.
func Rivers() *layer.Vector {
	v := layer.NewVector("Rivers", layer.ShapePolyLine)
	v.LineColour = blue
	v.LineThickness = 1.5
	v.AddRecord(layer.Geometry{Points: []geometry.Point2D{
		{X: 503000, Y: 4807500}, {X: 506000, Y: 4808200}, {X: 509500, Y: 4807000},
		{X: 513000, Y: 4807900}, {X: 517000, Y: 4807400},
	}}, 1)
	v.AddRecord(layer.Geometry{Points: []geometry.Point2D{
		{X: 509500, Y: 4807000}, {X: 510200, Y: 4804500}, {X: 511800, Y: 4801800},
	}}, 2)
	return v
}

// Lakes returns a polygon layer; the second lake has an island.
func Lakes() *layer.Vector {
	v := layer.NewVector("Lakes", layer.ShapePolygon)
	v.FillColour = blue
	v.AddRecord(layer.Geometry{Points: ring(506000, 4811000, 900, 600)}, 1)
	outer := ring(514000, 4804000, 1400, 900)
	island := ring(514000, 4804000, 300, 200)
	v.AddRecord(layer.Geometry{
		Parts:  []int{0, len(outer)},
		Points: append(outer, island...),
	}, 2)
	return v
}

// Towns returns an empty point layer open for digitizing.
func Towns() *layer.Vector {
	v := layer.NewVector("Towns", layer.ShapePoint)
	v.MarkerStyle = layer.MarkerSquare
	v.SetActivelyEdited(true)
	return v
}

// Document assembles the sample composition using s for fonts and
// generalization.
func Document(s config.Settings) *carto.Document {
	doc := carto.NewDocument("Sample Watershed")
	doc.DefaultFont = s.Font()
	doc.AddNeatline()

	a := doc.AddMapArea()
	a.AddLayer(Terrain())
	towns := Towns()
	for _, v := range []*layer.Vector{Lakes(), Rivers(), towns} {
		v.GeneralizationLevel = s.GeneralizationDefault
		a.AddLayer(v)
	}
	_ = a.SetActiveLayer(towns.OverlayNumber())

	doc.AddMapTitle()
	doc.AddNorthArrow()
	doc.AddMapScale()
	doc.AddLegend()
	return doc
}

// ring approximates an ellipse with a closed ring of 24 vertices.
func ring(cx, cy, rx, ry float64) []geometry.Point2D {
	const n = 24
	pts := make([]geometry.Point2D, 0, n+1)
	for i := 0; i <= n; i++ {
		t := 2 * math.Pi * float64(i%n) / n
		pts = append(pts, geometry.Pt(cx+rx*math.Cos(t), cy+ry*math.Sin(t)))
	}
	return pts
}
