package carto

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"map-composer/internal/typeface"
	"map-composer/pkg/geometry"
)

func fullDocument(t *testing.T) *Document {
	t.Helper()
	d := NewDocument("Layout")
	d.AddNeatline()
	a := d.AddMapArea()
	a.AddLayer(rasterLayer("dem", geometry.NewBoundingBox(0, 0, 1000, 1000)))
	d.AddMapTitle()
	d.AddMapTextArea("Some notes\n\nabout the map")
	d.AddMapScale()
	d.AddNorthArrow()
	d.AddLegend()
	_, err := d.AddMapImage("does-not-exist.png")
	require.Error(t, err)
	return d
}

func TestEnsureLayoutPlacesEverything(t *testing.T) {
	d := fullDocument(t)
	require.NoError(t, EnsureLayout(d))
	for _, e := range d.Elements() {
		assert.True(t, e.Placed(), "%s not placed", e.Name())
	}

	neat := d.Element(0).(*Neatline)
	assert.Equal(t, geometry.NewRect(36, 36, 720, 540), neat.Bounds())

	area := d.MapAreas()[0]
	b := area.Bounds()
	assert.Equal(t, d.PageWidth-2*d.Margin-4, b.Width)
	assert.InDelta(t, d.PageWidth/2, b.X+b.Width/2, 1e-9)
	face := typeface.MustOpen(area.LabelFont)
	assert.Equal(t, face.Height()+2, area.ReferenceMarkSize())

	var arrow *NorthArrow
	for _, e := range d.Elements() {
		if n, ok := e.(*NorthArrow); ok {
			arrow = n
		}
	}
	require.NotNil(t, arrow)
	assert.Equal(t, geometry.Pt(792-36-20, 612-36-20), arrow.Centre())
}

func TestEnsureLayoutContinuesPastFailures(t *testing.T) {
	d := fullDocument(t)
	var title Element
	for _, e := range d.Elements() {
		if _, ok := e.(*MapTitle); ok {
			title = e
		}
	}
	require.NotNil(t, title)
	broken := errors.New("no such font")
	openFace = func(f typeface.Font) (*typeface.Face, error) {
		if f.Style == typeface.Bold && f.Size == 20 {
			return nil, broken
		}
		return typeface.Open(f)
	}
	t.Cleanup(func() { openFace = typeface.Open })

	err := EnsureLayout(d)
	require.ErrorIs(t, err, broken)
	assert.Contains(t, err.Error(), title.Name())
	for _, e := range d.Elements() {
		if e == title {
			continue
		}
		assert.True(t, e.Placed(), "%s is laid out", e.Name())
	}
	assert.False(t, title.Placed())
}

func TestEnsureLayoutIsIdempotent(t *testing.T) {
	d := fullDocument(t)
	require.NoError(t, EnsureLayout(d))
	before := make([]geometry.Rect, d.NumElements())
	for i, e := range d.Elements() {
		before[i] = e.Bounds()
	}

	require.NoError(t, EnsureLayout(d))
	for i, e := range d.Elements() {
		assert.Equal(t, before[i], e.Bounds(), e.Name())
	}
}

func TestEnsureLayoutKeepsAssignedPosition(t *testing.T) {
	d := NewDocument("x")
	title := d.AddMapTitle()
	title.SetUpperLeft(5, 400)
	require.NoError(t, EnsureLayout(d))
	assert.Equal(t, geometry.Pt(5, 400), title.UpperLeft())
	assert.Greater(t, title.Width(), 2*title.Margin)
}

func TestMapScaleGrowsToFitRepresentativeFraction(t *testing.T) {
	d := NewDocument("x")
	s := d.AddMapScale()
	s.SetSize(150, 10)
	s.ShowRepresentativeFraction = true
	require.NoError(t, EnsureLayout(d))

	face := typeface.MustOpen(s.Font)
	assert.InDelta(t, s.ContentHeight(face)+2*s.Margin, s.Height(), 1e-9)
	assert.Equal(t, d.PageHeight-d.Margin-s.Height(), s.Bounds().Y)
}

func TestMapScaleUpdateScale(t *testing.T) {
	a := placedArea(t)
	a.AddLayer(rasterLayer("dem", geometry.NewBoundingBox(0, 0, 10000, 10000)))
	a.SetScale(25000)

	s := NewMapScale("scale", a)
	s.SetUpperLeft(0, 0)
	s.UpdateScale()

	assert.InDelta(t, 25000, s.Scale(), 1e-6)
	assert.Equal(t, "Scale 1:25,000", s.RepresentativeFraction)
	widthGU := (s.Width() - 4*s.Margin) / PointsPerMetre * 25000
	assert.Less(t, s.BarLength, widthGU)
	assert.GreaterOrEqual(t, s.Divisions, 2)
	assert.LessOrEqual(t, s.Divisions, 10)
	assert.Equal(t, "0", s.LowerLabel)
}

func TestMapScaleUnits(t *testing.T) {
	s := NewMapScale("s", nil)
	s.SetUnits("Kilometres")
	assert.Equal(t, 1000.0, s.ConversionToMetres)
	s.SetUnits("m")
	assert.Equal(t, 1.0, s.ConversionToMetres)
	s.SetUnits("feet")
	assert.Equal(t, 0.3048, s.ConversionToMetres)
	s.SetUnits("furlongs")
	assert.Equal(t, "metres", s.Units)
}

func TestTitleResizePicksFontSize(t *testing.T) {
	title := NewMapTitle("t", "Hello")
	title.SetUpperLeft(0, 0)
	title.SetFont(typeface.Font{Style: typeface.Bold, Size: 20})
	h20 := title.Height()

	title.Resize(0, title.Height()*2, ResizeS)
	assert.Greater(t, title.Font.Size, 20.0)
	assert.Greater(t, title.Height(), h20)
}

func TestEdgeAt(t *testing.T) {
	e := NewMapTextArea("e", "")
	e.SetUpperLeft(100, 100)
	e.SetSize(100, 50)

	cases := []struct {
		x, y float64
		want ResizeMode
	}{
		{150, 95, ResizeN},
		{150, 155, ResizeS},
		{205, 120, ResizeE},
		{95, 120, ResizeW},
		{95, 95, ResizeNW},
		{205, 95, ResizeNE},
		{95, 155, ResizeSW},
		{205, 155, ResizeSE},
	}
	for _, c := range cases {
		got, ok := EdgeAt(e, c.x, c.y, 8)
		require.True(t, ok, "(%v,%v)", c.x, c.y)
		assert.Equal(t, c.want, got, "(%v,%v)", c.x, c.y)
	}

	_, ok := EdgeAt(e, 150, 120, 8)
	assert.False(t, ok, "inside is not an edge")
	_, ok = EdgeAt(e, 150, 80, 8)
	assert.False(t, ok, "too far away")
}

func TestFormatGrouped(t *testing.T) {
	assert.Equal(t, "25,000", FormatGrouped(25000))
	assert.Equal(t, "1,234.6", FormatGrouped(1234.56))
	assert.Equal(t, "0.5", FormatGrouped(0.5))
}
