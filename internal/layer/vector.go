package layer

import (
	"image/color"
	"math"
	"sort"
	"strconv"

	"map-composer/pkg/colorutil"
	"map-composer/pkg/geometry"

	"gonum.org/v1/gonum/floats"
)

// ShapeType is the geometry type of a vector layer, using shapefile codes.
type ShapeType int

const (
	ShapeNull        ShapeType = 0
	ShapePoint       ShapeType = 1
	ShapePolyLine    ShapeType = 3
	ShapePolygon     ShapeType = 5
	ShapeMultiPoint  ShapeType = 8
	ShapePointZ      ShapeType = 11
	ShapePolyLineZ   ShapeType = 13
	ShapePolygonZ    ShapeType = 15
	ShapeMultiPointZ ShapeType = 18
	ShapePointM      ShapeType = 21
	ShapePolyLineM   ShapeType = 23
	ShapePolygonM    ShapeType = 25
	ShapeMultiPointM ShapeType = 28
	ShapeMultiPatch  ShapeType = 31
)

// Base collapses the Z and M variants onto their plain shape.
func (s ShapeType) Base() ShapeType {
	switch s {
	case ShapePointZ, ShapePointM:
		return ShapePoint
	case ShapePolyLineZ, ShapePolyLineM:
		return ShapePolyLine
	case ShapePolygonZ, ShapePolygonM:
		return ShapePolygon
	case ShapeMultiPointZ, ShapeMultiPointM:
		return ShapeMultiPoint
	}
	return s
}

// IsPointType reports point and multipoint shapes of any flavour.
func (s ShapeType) IsPointType() bool {
	b := s.Base()
	return b == ShapePoint || b == ShapeMultiPoint
}

func (s ShapeType) String() string {
	names := map[ShapeType]string{
		ShapeNull: "null", ShapePoint: "point", ShapePolyLine: "polyline",
		ShapePolygon: "polygon", ShapeMultiPoint: "multipoint", ShapePointZ: "pointz",
		ShapePolyLineZ: "polylinez", ShapePolygonZ: "polygonz", ShapeMultiPointZ: "multipointz",
		ShapePointM: "pointm", ShapePolyLineM: "polylinem", ShapePolygonM: "polygonm",
		ShapeMultiPointM: "multipointm", ShapeMultiPatch: "multipatch",
	}
	if n, ok := names[s]; ok {
		return n
	}
	return "unknown"
}

// Geometry holds the points of a record split into parts. Parts[i] is the
// index in Points where part i starts.
type Geometry struct {
	Parts  []int
	Points []geometry.Point2D
}

// Box returns the bounding box of all points.
func (g Geometry) Box() geometry.BoundingBox {
	return geometry.BoxOf(g.Points)
}

// Part returns the points of part i.
func (g Geometry) Part(i int) []geometry.Point2D {
	if len(g.Parts) == 0 {
		return g.Points
	}
	start := g.Parts[i]
	end := len(g.Points)
	if i < len(g.Parts)-1 {
		end = g.Parts[i+1]
	}
	return g.Points[start:end]
}

// NumParts returns the number of parts; a geometry with points but no part
// index is a single part.
func (g Geometry) NumParts() int {
	if len(g.Parts) == 0 && len(g.Points) > 0 {
		return 1
	}
	return len(g.Parts)
}

// Record is one feature. Number is 1-based and stable within the layer.
type Record struct {
	Number   int
	Shape    ShapeType
	Geometry Geometry
	// Value is the numeric attribute used for categorical or continuous
	// colouring.
	Value float64
}

// ColourMode selects how per-record colours are derived.
type ColourMode int

const (
	ColourSingle ColourMode = iota
	ColourCategorical
	ColourContinuous
)

// Vector is a layer of geometry records sharing one shape type.
type Vector struct {
	common
	shapeType ShapeType
	records   []*Record
	nextNum   int

	FillColour    color.RGBA
	LineColour    color.RGBA
	Filled        bool
	Outlined      bool
	Dashed        bool
	DashArray     []float64
	LineThickness float64
	MarkerStyle   MarkerStyle
	MarkerSize    float64
	Alpha         uint8

	ColourMode ColourMode
	Palette    Palette
	colours    []color.RGBA
	coloured   bool
	minValue   float64
	maxValue   float64

	// GeneralizationLevel is the minimum on-page size, in points, a feature
	// must have to be drawn.
	GeneralizationLevel float64

	activelyEdited bool
	newFeature     []geometry.Point2D
	featureOpen    bool
	selected       map[int]bool
}

// NewVector returns an empty layer of the given shape type.
func NewVector(title string, shape ShapeType) *Vector {
	return &Vector{
		common: common{
			title:         title,
			visible:       true,
			fullExtent:    geometry.Uninitialized(),
			currentExtent: geometry.Uninitialized(),
		},
		shapeType:           shape,
		nextNum:             1,
		FillColour:          color.RGBA{R: 120, G: 170, B: 210, A: 255},
		LineColour:          colorutil.Black,
		Filled:              true,
		Outlined:            true,
		LineThickness:       1,
		MarkerStyle:         MarkerCircle,
		MarkerSize:          6,
		Alpha:               255,
		Palette:             QualitativePalette,
		GeneralizationLevel: 0.5,
		selected:            make(map[int]bool),
	}
}

// Type implements MapLayer.
func (v *Vector) Type() Type { return TypeVector }

// ShapeType returns the layer's shape type.
func (v *Vector) ShapeType() ShapeType { return v.shapeType }

// SetCurrentExtent records the displayed portion of the layer.
func (v *Vector) SetCurrentExtent(bb geometry.BoundingBox) {
	v.currentExtent = bb.Clone()
}

// AddRecord appends a feature and returns its record number.
func (v *Vector) AddRecord(g Geometry, value float64) int {
	if len(g.Parts) == 0 && len(g.Points) > 0 {
		g.Parts = []int{0}
	}
	shape := v.shapeType
	if len(g.Points) == 0 {
		shape = ShapeNull
	}
	r := &Record{Number: v.nextNum, Shape: shape, Geometry: g, Value: value}
	v.nextNum++
	v.records = append(v.records, r)
	if shape != ShapeNull {
		v.fullExtent = v.fullExtent.Union(g.Box())
	}
	v.coloured = false
	return r.Number
}

// Records returns all records in order.
func (v *Vector) Records() []*Record { return v.records }

// NumRecords returns the number of records.
func (v *Vector) NumRecords() int { return len(v.records) }

// Record returns the record with the given number, or nil.
func (v *Vector) Record(number int) *Record {
	for _, r := range v.records {
		if r.Number == number {
			return r
		}
	}
	return nil
}

func (v *Vector) recalculateExtent() {
	v.fullExtent = geometry.Uninitialized()
	for _, r := range v.records {
		if r.Shape != ShapeNull {
			v.fullExtent = v.fullExtent.Union(r.Geometry.Box())
		}
	}
}

// Mappable returns the records that intersect box and whose largest
// dimension exceeds minSize map units. Points are only tested against box.
func (v *Vector) Mappable(box geometry.BoundingBox, minSize float64) []*Record {
	if !v.fullExtent.IsInitialized() || !v.fullExtent.Overlaps(box) {
		return nil
	}
	out := make([]*Record, 0, len(v.records))
	for _, r := range v.records {
		if r.Shape == ShapeNull {
			continue
		}
		bb := r.Geometry.Box()
		if !bb.Overlaps(box) {
			continue
		}
		if !v.shapeType.IsPointType() && bb.MaxExtent() <= minSize {
			continue
		}
		out = append(out, r)
	}
	return out
}

// ApplyColouring recomputes per-record colours from ColourMode and Palette.
// Adding or deleting records only marks the colours stale; they are
// recomputed on the next read.
func (v *Vector) ApplyColouring() {
	v.coloured = true
	v.colours = nil
	if v.ColourMode == ColourSingle || len(v.records) == 0 || len(v.Palette) == 0 {
		return
	}
	vals := make([]float64, len(v.records))
	for i, r := range v.records {
		vals[i] = r.Value
	}
	v.minValue, v.maxValue = floats.Min(vals), floats.Max(vals)

	maxNum := 0
	for _, r := range v.records {
		if r.Number > maxNum {
			maxNum = r.Number
		}
	}
	v.colours = make([]color.RGBA, maxNum)
	switch v.ColourMode {
	case ColourCategorical:
		uniq := append([]float64(nil), vals...)
		sort.Float64s(uniq)
		idx := map[float64]int{}
		for _, u := range uniq {
			if _, ok := idx[u]; !ok {
				idx[u] = len(idx)
			}
		}
		for _, r := range v.records {
			v.colours[r.Number-1] = v.Palette[idx[r.Value]%len(v.Palette)]
		}
	case ColourContinuous:
		rng := v.maxValue - v.minValue
		for _, r := range v.records {
			t := 0.0
			if rng > 0 {
				t = (r.Value - v.minValue) / rng
			}
			v.colours[r.Number-1] = v.Palette.At(t)
		}
	}
}

func (v *Vector) ensureColouring() {
	if !v.coloured {
		v.ApplyColouring()
	}
}

// ValueRange returns the min and max record values used by continuous
// colouring.
func (v *Vector) ValueRange() (float64, float64) {
	v.ensureColouring()
	return v.minValue, v.maxValue
}

// LegendEntry is one swatch of a vector layer's legend.
type LegendEntry struct {
	Label  string
	Colour color.RGBA
}

// LegendEntries lists the swatches describing the layer: one per distinct
// value when coloured by category, otherwise a single entry titled with the
// layer name.
func (v *Vector) LegendEntries() []LegendEntry {
	if v.ColourMode != ColourCategorical || len(v.Palette) == 0 || len(v.records) == 0 {
		return []LegendEntry{{Label: v.title, Colour: v.RecordColour(0)}}
	}
	vals := make([]float64, len(v.records))
	for i, r := range v.records {
		vals[i] = r.Value
	}
	sort.Float64s(vals)
	var out []LegendEntry
	for i, val := range vals {
		if i > 0 && val == vals[i-1] {
			continue
		}
		c := v.Palette[len(out)%len(v.Palette)]
		out = append(out, LegendEntry{
			Label:  strconv.FormatFloat(val, 'g', -1, 64),
			Colour: colorutil.WithAlpha(c, uint8(uint32(c.A)*uint32(v.Alpha)/255)),
		})
	}
	return out
}

// RecordColour returns the draw colour of record number n: its palette colour
// when coloured by value, otherwise the fill colour (line colour for
// polylines). The layer alpha is applied.
func (v *Vector) RecordColour(n int) color.RGBA {
	v.ensureColouring()
	var c color.RGBA
	switch {
	case n >= 1 && n <= len(v.colours):
		c = v.colours[n-1]
	case v.shapeType.Base() == ShapePolyLine:
		c = v.LineColour
	default:
		c = v.FillColour
	}
	return colorutil.WithAlpha(c, uint8(uint32(c.A)*uint32(v.Alpha)/255))
}

// DashPattern returns the dash array in points, defaulting to 4 on 4 off
// scaled by the line thickness.
func (v *Vector) DashPattern() []float64 {
	if len(v.DashArray) > 0 {
		return v.DashArray
	}
	w := math.Max(v.LineThickness, 1)
	return []float64{4 * w, 4 * w}
}
