package carto

import (
	"image/color"
	"math"
	"strings"

	"map-composer/internal/typeface"
	"map-composer/pkg/colorutil"
	"map-composer/pkg/geometry"
)

// PointsPerMetre converts a physical length on the page to points.
const PointsPerMetre = 72 / 0.0254

// MapTitle is a single line of text drawn as a glyph outline so it can be
// rotated and given separate fill and outline colours.
type MapTitle struct {
	Base
	Label          string
	Font           typeface.Font
	FontColour     color.RGBA
	OutlineColour  color.RGBA
	OutlineVisible bool
	// Rotation is in degrees, clockwise about the text origin.
	Rotation float64
}

// NewMapTitle returns an unplaced title.
func NewMapTitle(name, label string) *MapTitle {
	t := &MapTitle{
		Base:          newBase(name),
		Label:         label,
		Font:          typeface.Font{Style: typeface.Bold, Size: 20},
		FontColour:    colorutil.Black,
		OutlineColour: colorutil.Black,
	}
	t.Margin = 5
	return t
}

func (t *MapTitle) Kind() Kind { return KindMapTitle }

// SetFont changes the font and re-measures the box around the label.
func (t *MapTitle) SetFont(f typeface.Font) {
	t.Font = f
	t.measure()
}

// SetLabel changes the text and re-measures the box.
func (t *MapTitle) SetLabel(s string) {
	t.Label = s
	t.measure()
}

func (t *MapTitle) measure() {
	face, err := typeface.Open(t.Font)
	if err != nil {
		return
	}
	t.SetSize(face.Advance(t.Label)+2*t.Margin, face.Height()+2*t.Margin)
}

const maxTitleFontSize = 300

// Resize picks the font size whose measured height (north and south edges)
// or label width (east and west edges) best matches the dragged box, then
// re-measures. The element is never stretched independently of its text.
func (t *MapTitle) Resize(x, y float64, mode ResizeMode) {
	textH := t.height - 2*t.Margin
	textW := t.width - 2*t.Margin
	minH := titleHeight(t.Font.Style, 1)
	var dx, dy float64
	byHeight := true
	switch mode {
	case ResizeN, ResizeNE, ResizeNW:
		dy = y - t.ulY
		textH -= dy
	case ResizeS, ResizeSE, ResizeSW:
		textH += y - (t.ulY + t.height)
	case ResizeE:
		textW += x - (t.ulX + t.width)
		byHeight = false
	case ResizeW:
		dx = x - t.ulX
		textW -= dx
		byHeight = false
	}
	if textH < minH {
		textH = minH
	}

	best, bestDiff := 1, math.Inf(1)
	for size := 1; size < maxTitleFontSize; size++ {
		var d float64
		if byHeight {
			d = titleHeight(t.Font.Style, size) - textH
		} else {
			d = titleWidth(t.Font.Style, size, t.Label) - textW
		}
		if d*d < bestDiff {
			bestDiff = d * d
			best = size
		}
	}
	t.SetFont(typeface.Font{Style: t.Font.Style, Size: float64(best)})
	t.ulX += dx
	t.ulY += dy
}

func titleHeight(s typeface.Style, size int) float64 {
	f, err := typeface.Open(typeface.Font{Style: s, Size: float64(size)})
	if err != nil {
		return 0
	}
	return f.Height()
}

func titleWidth(s typeface.Style, size int, label string) float64 {
	f, err := typeface.Open(typeface.Font{Style: s, Size: float64(size)})
	if err != nil {
		return 0
	}
	return f.Advance(label)
}

// MapTextArea is a block of wrapped text.
type MapTextArea struct {
	Base
	Text       string
	Font       typeface.Font
	FontColour color.RGBA
	// InterlineSpace multiplies the ascent added between lines; 1 adds none.
	InterlineSpace float64
}

// NewMapTextArea returns a 280x200 text area waiting for a position.
func NewMapTextArea(name, text string) *MapTextArea {
	a := &MapTextArea{
		Base:           newBase(name),
		Text:           text,
		Font:           typeface.Font{Style: typeface.Regular, Size: 12},
		FontColour:     colorutil.Black,
		InterlineSpace: 1.25,
	}
	a.Margin = 5
	a.SetSize(280, 200)
	return a
}

func (a *MapTextArea) Kind() Kind { return KindMapTextArea }

// Lines splits the text on newlines and greedily wraps each paragraph to
// width points. Empty paragraphs are kept as empty lines.
func (a *MapTextArea) Lines(face *typeface.Face, width float64) []string {
	var out []string
	for _, para := range strings.Split(a.Text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			next := line + " " + w
			if face.Advance(next) > width {
				out = append(out, line)
				line = w
				continue
			}
			line = next
		}
		out = append(out, line)
	}
	return out
}

// ScaleStyle selects the bar drawing of a MapScale.
type ScaleStyle int

const (
	ScaleStandard ScaleStyle = iota
	ScaleSimple
	ScaleComplex
)

func (s ScaleStyle) String() string {
	switch s {
	case ScaleSimple:
		return "simple"
	case ScaleComplex:
		return "complex"
	default:
		return "standard"
	}
}

// MapScale is a graphical scale bar and optional representative fraction for
// one map area.
type MapScale struct {
	Base
	mapArea *MapArea

	Style              ScaleStyle
	Units              string
	ConversionToMetres float64
	BarLength          float64
	Divisions          int
	LowerLabel         string
	UpperLabel         string
	LineWidth          float64

	ShowRepresentativeFraction bool
	ShowGraphicalScale         bool
	RepresentativeFraction     string

	Font           typeface.Font
	FontColour     color.RGBA
	OutlineColour  color.RGBA
	OutlineVisible bool

	scale float64
}

// NewMapScale returns a 150x50 scale bar waiting for a position.
func NewMapScale(name string, area *MapArea) *MapScale {
	s := &MapScale{
		Base:               newBase(name),
		mapArea:            area,
		Units:              "metres",
		ConversionToMetres: 1,
		BarLength:          5,
		Divisions:          5,
		ShowGraphicalScale: true,
		LowerLabel:         "0",
		UpperLabel:         "5",
		LineWidth:          0.75,
		Font:               typeface.DefaultFont,
		FontColour:         colorutil.Black,
		OutlineColour:      colorutil.Black,
	}
	s.Margin = 10
	s.SetSize(150, 50)
	return s
}

func (s *MapScale) Kind() Kind { return KindMapScale }

// MapArea returns the map area the scale describes.
func (s *MapScale) MapArea() *MapArea { return s.mapArea }

// SetMapArea attaches the scale to a map area.
func (s *MapScale) SetMapArea(a *MapArea) {
	s.mapArea = a
	s.UpdateScale()
}

// Scale returns the scale denominator computed by the last UpdateScale.
func (s *MapScale) Scale() float64 { return s.scale }

// SetUnits sets the bar units from a loose name, falling back to metres.
func (s *MapScale) SetUnits(units string) {
	u := strings.ToLower(units)
	s.Units = units
	switch {
	case strings.Contains(u, "kilo"), strings.Contains(u, "km"):
		s.ConversionToMetres = 1000
	case strings.Contains(u, "met"), u == "m":
		s.ConversionToMetres = 1
	case strings.Contains(u, "feet"), strings.Contains(u, "ft"):
		s.ConversionToMetres = 0.3048
	case strings.Contains(u, "mile"), u == "mi":
		s.ConversionToMetres = 1609.34
	default:
		s.Units = "metres"
		s.ConversionToMetres = 1
	}
}

var (
	niceLengths  = []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 50, 100, 500, 1000, 5000, 10000, 50000, 100000}
	niceDecimals = []int{3, 3, 2, 2, 1, 1, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0}
)

// UpdateScale reads the map area's scale and picks the bar length and
// division count (2 to 10 divisions of a round length) that best fills the
// box without exceeding it.
func (s *MapScale) UpdateScale() {
	if s.mapArea == nil {
		return
	}
	scale := s.mapArea.Scale()
	if scale <= 0 || math.IsInf(scale, 0) || math.IsNaN(scale) {
		s.scale = 0
		return
	}
	s.scale = scale
	s.RepresentativeFraction = "Scale 1:" + FormatGrouped(scale)

	widthGU := (s.width - 4*s.Margin) / PointsPerMetre * scale / s.ConversionToMetres
	bestDist := math.Inf(1)
	div, length, decimals := 0, 0.0, 0
	for a := 2; a <= 10; a++ {
		for b, l := range niceLengths {
			total := float64(a) * l
			if d := math.Abs(widthGU - total); d < bestDist && total < widthGU {
				bestDist = d
				div, length, decimals = a, l, niceDecimals[b]
			}
		}
	}
	if div == 0 {
		return
	}
	s.BarLength = length * float64(div)
	s.Divisions = div
	s.LowerLabel = FormatFixed(0, decimals)
	s.UpperLabel = FormatFixed(s.BarLength, decimals)
}

// Resize keeps the scale at least 60x30 points.
func (s *MapScale) Resize(x, y float64, mode ResizeMode) {
	s.resize(x, y, mode, 60, 30)
}

// ArrowStyle selects the north arrow glyph.
type ArrowStyle int

const (
	ArrowStandard ArrowStyle = iota
	ArrowStar
)

func (s ArrowStyle) String() string {
	if s == ArrowStar {
		return "star"
	}
	return "standard"
}

// NorthArrow is a fixed-size glyph positioned by its centre.
type NorthArrow struct {
	Base
	Style         ArrowStyle
	MarkerSize    float64
	OutlineColour color.RGBA
	LineWidth     float64
}

// NewNorthArrow returns an unplaced 40 point north arrow.
func NewNorthArrow(name string) *NorthArrow {
	n := &NorthArrow{
		Base:          newBase(name),
		MarkerSize:    40,
		OutlineColour: colorutil.Black,
		LineWidth:     0.75,
	}
	n.Margin = 4
	n.SetSize(n.MarkerSize, n.MarkerSize)
	return n
}

func (n *NorthArrow) Kind() Kind { return KindNorthArrow }

// Centre returns the arrow's centre point.
func (n *NorthArrow) Centre() geometry.Point2D {
	return geometry.Pt(n.ulX+n.MarkerSize/2, n.ulY+n.MarkerSize/2)
}

// SetCentre positions the arrow by its centre.
func (n *NorthArrow) SetCentre(x, y float64) {
	n.SetUpperLeft(x-n.MarkerSize/2, y-n.MarkerSize/2)
}

// SetMarkerSize changes the size while keeping the centre fixed.
func (n *NorthArrow) SetMarkerSize(size float64) {
	c := n.Centre()
	n.MarkerSize = size
	n.SetSize(size, size)
	if n.hasPosition {
		n.SetCentre(c.X, c.Y)
	}
}

// GlyphSize is the drawn arrow size inside the margin.
func (n *NorthArrow) GlyphSize() float64 { return n.MarkerSize - 2*n.Margin }

// Resize is a no-op; the arrow is sized through SetMarkerSize.
func (n *NorthArrow) Resize(x, y float64, mode ResizeMode) {}

// Legend lists the visible layers of one or more map areas.
type Legend struct {
	Base
	Label      string
	mapAreas   []*MapArea
	Font       typeface.Font
	FontColour color.RGBA
	LineWidth  float64
}

// NewLegend returns an unplaced legend.
func NewLegend(name string) *Legend {
	l := &Legend{
		Base:       newBase(name),
		Label:      "Legend",
		Font:       typeface.DefaultFont,
		FontColour: colorutil.Black,
		LineWidth:  0.75,
	}
	l.Margin = 5
	l.BackgroundVisible = true
	return l
}

func (l *Legend) Kind() Kind { return KindLegend }

// MapAreas returns the map areas listed by the legend.
func (l *Legend) MapAreas() []*MapArea { return l.mapAreas }

// AddMapArea adds a map area to the legend.
func (l *Legend) AddMapArea(a *MapArea) {
	for _, m := range l.mapAreas {
		if m == a {
			return
		}
	}
	l.mapAreas = append(l.mapAreas, a)
}

// RemoveMapArea drops a map area from the legend.
func (l *Legend) RemoveMapArea(a *MapArea) {
	for i, m := range l.mapAreas {
		if m == a {
			l.mapAreas = append(l.mapAreas[:i], l.mapAreas[i+1:]...)
			return
		}
	}
}

// NumEntries counts the visible layers across all listed map areas.
func (l *Legend) NumEntries() int {
	n := 0
	for _, a := range l.mapAreas {
		for _, ly := range a.Layers() {
			if ly.Visible() {
				n++
			}
		}
	}
	return n
}

// Neatline is a single or double rectangle framing the page content.
type Neatline struct {
	Base
	DoubleLine     bool
	Gap            float64
	InnerLineWidth float64
	OuterLineWidth float64
}

// NewNeatline returns an unplaced double-line neatline.
func NewNeatline(name string) *Neatline {
	n := &Neatline{
		Base:           newBase(name),
		DoubleLine:     true,
		Gap:            2,
		InnerLineWidth: 0.75,
		OuterLineWidth: 1.5,
	}
	n.BorderVisible = true
	n.BackgroundVisible = true
	return n
}

func (n *Neatline) Kind() Kind { return KindNeatline }
