package render

import (
	"testing"

	"map-composer/internal/carto"
	"map-composer/internal/layer"
	"map-composer/pkg/colorutil"
	"map-composer/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRasterCanvasFill(t *testing.T) {
	c := NewRasterCanvas(40, 40)
	c.Clear(colorutil.White)
	fillRect(c, geometry.NewRect(0, 0, 20, 20), colorutil.Red)

	img := c.Image()
	assert.Equal(t, colorutil.Red, img.RGBAAt(10, 10))
	assert.Equal(t, colorutil.White, img.RGBAAt(30, 30))
}

func TestRasterCanvasTransformAndClip(t *testing.T) {
	c := NewRasterCanvas(40, 40)
	c.SetTransform(geometry.Scale(2, 2))
	c.SetClip(geometry.NewRect(0, 0, 5, 20))
	fillRect(c, geometry.NewRect(0, 0, 20, 20), colorutil.Blue)

	img := c.Image()
	assert.Equal(t, colorutil.Blue, img.RGBAAt(5, 30), "scaled into device space")
	assert.Zero(t, img.RGBAAt(20, 20).A, "outside the clip")
}

func TestRasterCanvasStroke(t *testing.T) {
	c := NewRasterCanvas(40, 40)
	c.StrokePath(linePath(0, 20, 40, 20), Solid(colorutil.Black, 4))
	img := c.Image()
	assert.Equal(t, uint8(255), img.RGBAAt(20, 20).A)
	assert.Zero(t, img.RGBAAt(20, 5).A)
}

func rasterLayer() *layer.Raster {
	g := layer.NewMemGrid(10, 10, -9999)
	for r := 0; r < 10; r++ {
		for c := 0; c < 10; c++ {
			_ = g.SetValue(r, c, float64(r*10+c))
		}
	}
	return layer.NewRaster("dem", g, geometry.NewBoundingBox(0, 0, 1000, 1000))
}

func TestRenderSmoke(t *testing.T) {
	d := carto.NewDocument("Smoke")
	d.AddNeatline()
	a := d.AddMapArea()
	a.AddLayer(rasterLayer())
	d.AddMapTitle()
	d.AddMapTextArea("First paragraph of notes.\n\nSecond paragraph.")
	d.AddMapScale()
	d.AddNorthArrow()
	d.AddLegend()

	c := NewRasterCanvas(400, 300)
	rep := &fakeReporter{}
	require.NoError(t, NewRenderer(DefaultStyle(), rep).Render(d, c, false, Overlay{}))
	assert.Empty(t, rep.errs)
	assert.Equal(t, colorutil.Desk, c.Image().RGBAAt(0, 0))

	p := NewRasterCanvas(792, 612)
	require.NoError(t, NewRenderer(DefaultStyle(), rep).Render(d, p, true, Overlay{}))
	assert.Equal(t, colorutil.White, p.Image().RGBAAt(0, 0))
}
