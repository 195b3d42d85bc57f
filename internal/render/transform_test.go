package render

import (
	"fmt"
	"testing"

	"map-composer/internal/carto"
	"map-composer/internal/layer"
	"map-composer/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageTransformRoundTrip(t *testing.T) {
	extents := []geometry.BoundingBox{
		geometry.NewBoundingBox(0, 0, 791, 611),
		geometry.NewBoundingBox(-6, -6, 799.5, 619.5),
		geometry.NewBoundingBox(100, 50, 140, 90),
		geometry.Uninitialized(),
	}
	sizes := [][2]float64{{800, 600}, {1920, 1080}, {300, 900}, {1, 1}, {0, 0}, {0, 400}}
	points := []geometry.Point2D{{X: 0, Y: 0}, {X: 396, Y: 306}, {X: -20, Y: 700}, {X: 12.345, Y: 0.001}}

	for _, ext := range extents {
		for _, sz := range sizes {
			t.Run(fmt.Sprintf("%v %vx%v", ext, sz[0], sz[1]), func(t *testing.T) {
				pt := NewPageTransform(sz[0], sz[1], ext)
				require.Greater(t, pt.Scale, 0.0)
				for _, p := range points {
					sx, sy := pt.ToScreen(p.X, p.Y)
					x, y := pt.ToPage(sx, sy)
					assert.InDelta(t, p.X, x, 1e-9)
					assert.InDelta(t, p.Y, y, 1e-9)
				}
			})
		}
	}
}

func TestPageTransformCentresExtent(t *testing.T) {
	pt := NewPageTransform(800, 600, geometry.NewBoundingBox(0, 0, 800, 600))
	assert.Equal(t, 1.0, pt.Scale)
	assert.Equal(t, 0.0, pt.Left)
	assert.Equal(t, 0.0, pt.Top)

	pt = NewPageTransform(1000, 600, geometry.NewBoundingBox(0, 0, 800, 600))
	assert.Equal(t, 1.0, pt.Scale)
	assert.Equal(t, 100.0, pt.Left)

	pt = NewPageTransform(400, 300, geometry.NewBoundingBox(0, 0, 800, 600))
	assert.Equal(t, 0.5, pt.Scale)
	assert.Equal(t, 2.0, pt.LineWidth())

	x, y := pt.Affine().ApplyXY(800, 600)
	assert.InDelta(t, 400, x, 1e-9)
	assert.InDelta(t, 300, y, 1e-9)
}

func areaWithExtent(w, h float64, ext geometry.BoundingBox) *carto.MapArea {
	a := carto.NewMapArea("area")
	a.SetUpperLeft(0, 0)
	a.SetSize(w, h)
	a.SetReferenceMarkSize(10)
	g := layer.NewMemGrid(2, 2, -9999)
	a.AddLayer(layer.NewRaster("r", g, ext))
	return a
}

func TestMapViewNeverOverflows(t *testing.T) {
	page := NewPageTransform(800, 600, geometry.NewBoundingBox(0, 0, 800, 600))
	cases := []struct {
		w, h float64
		ext  geometry.BoundingBox
	}{
		{220, 120, geometry.NewBoundingBox(0, 0, 100, 100)},
		{120, 220, geometry.NewBoundingBox(0, 0, 100, 100)},
		{500, 300, geometry.NewBoundingBox(500000, 4800000, 510000, 4801000)},
		{30, 30, geometry.NewBoundingBox(-180, -90, 180, 90)},
		{700, 500, geometry.NewBoundingBox(0.1, 0.2, 0.3, 0.25)},
	}
	for _, tc := range cases {
		a := areaWithExtent(tc.w, tc.h, tc.ext)
		v, ok := NewMapView(a, page, false)
		require.True(t, ok)
		const eps = 1e-9
		assert.GreaterOrEqual(t, v.View.Width, tc.ext.Width()*v.Scale-eps)
		assert.GreaterOrEqual(t, v.View.Height, tc.ext.Height()*v.Scale-eps)
		assert.InDelta(t, v.View.Width/v.View.Height, v.Extent.Width()/v.Extent.Height(), 1e-9)
	}
}

func TestMapViewRoundTrip(t *testing.T) {
	page := NewPageTransform(800, 600, geometry.NewBoundingBox(0, 0, 800, 600))
	a := areaWithExtent(220, 120, geometry.NewBoundingBox(0, 0, 100, 100))
	v, ok := NewMapView(a, page, false)
	require.True(t, ok)
	assert.Equal(t, geometry.NewRect(10, 10, 200, 100), v.View)
	assert.Equal(t, 1.0, v.Scale)

	x, y := v.ToPage(0, 100)
	assert.InDelta(t, 60, x, 1e-9, "extent is padded equally east and west")
	assert.InDelta(t, 10, y, 1e-9, "north is up")
	mx, my := v.ToMap(x, y)
	assert.InDelta(t, 0, mx, 1e-9)
	assert.InDelta(t, 100, my, 1e-9)
	assert.True(t, v.InView(x, y))
	assert.False(t, v.InView(5, 5))
}

func TestMapViewMaximizedFollowsCanvas(t *testing.T) {
	page := NewPageTransform(800, 600, geometry.NewBoundingBox(0, 0, 800, 600))
	a := areaWithExtent(220, 120, geometry.NewBoundingBox(0, 0, 100, 100))
	a.MaximizeToScreen = true

	v, ok := NewMapView(a, page, false)
	require.True(t, ok)
	assert.Equal(t, geometry.NewRect(0, 0, 800, 600), v.Frame)
	assert.Equal(t, geometry.NewRect(10, 10, 780, 580), v.View)

	v, _ = NewMapView(a, page, true)
	assert.Equal(t, a.Bounds(), v.Frame, "printing ignores maximize")
}

func TestMapViewWithoutLayers(t *testing.T) {
	a := carto.NewMapArea("empty")
	a.SetUpperLeft(0, 0)
	a.SetSize(100, 100)
	_, ok := NewMapView(a, NewPageTransform(100, 100, geometry.NewBoundingBox(0, 0, 100, 100)), false)
	assert.False(t, ok)
}
