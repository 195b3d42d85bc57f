package interact

import (
	"testing"

	"map-composer/internal/carto"
	"map-composer/internal/layer"
	"map-composer/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeHost struct {
	refreshes int
	relayouts int
	status    []string
	feedback  []string
	logged    []string

	pixel      float64
	pixelOK    bool
	pixelCells []layer.GridCell

	properties []carto.Element

	confirm      bool
	confirmCalls int

	started int
	closed  []int
}

func (h *fakeHost) LogException(context string, err error) { h.logged = append(h.logged, context) }
func (h *fakeHost) ShowFeedback(msg string)                { h.feedback = append(h.feedback, msg) }
func (h *fakeHost) SetStatus(msg string)                   { h.status = append(h.status, msg) }
func (h *fakeHost) ShowProperties(e carto.Element)         { h.properties = append(h.properties, e) }
func (h *fakeHost) FeatureStarted(v *layer.Vector)         { h.started++ }

func (h *fakeHost) RefreshMap(relayout bool) {
	h.refreshes++
	if relayout {
		h.relayouts++
	}
}

func (h *fakeHost) EditPixelValue(title string, cell layer.GridCell) (float64, bool) {
	h.pixelCells = append(h.pixelCells, cell)
	return h.pixel, h.pixelOK
}

func (h *fakeHost) Confirm(msg string) bool {
	h.confirmCalls++
	return h.confirm
}

func (h *fakeHost) FeatureClosed(v *layer.Vector, record int) {
	h.closed = append(h.closed, record)
}

func (h *fakeHost) lastStatus() string {
	if len(h.status) == 0 {
		return ""
	}
	return h.status[len(h.status)-1]
}

// testRaster is a 10x10 grid over 0..100 holding row*10+col.
func testRaster() *layer.Raster {
	g := layer.NewMemGrid(10, 10, -9999)
	for r := 0; r < 10; r++ {
		for c := 0; c < 10; c++ {
			_ = g.SetValue(r, c, float64(r*10+c))
		}
	}
	return layer.NewRaster("dem", g, geometry.NewBoundingBox(0, 0, 100, 100))
}

// fixture is an 800x600 canvas showing page points one to one, with a map
// area whose view is (110,110)-(310,210). Map point (x, y) is drawn at page
// point (160+x, 210-y).
type fixture struct {
	doc  *carto.Document
	area *carto.MapArea
	host *fakeHost
	ctrl *Controller
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	doc := carto.NewDocument("test")
	doc.SetPageExtent(geometry.NewBoundingBox(0, 0, 800, 600))
	a := carto.NewMapArea("area")
	a.SetUpperLeft(100, 100)
	a.SetSize(220, 120)
	a.SetReferenceMarkSize(10)
	a.AddLayer(testRaster())
	doc.Add(a)

	h := &fakeHost{}
	c := NewController(doc, h)
	c.SetCanvasSize(800, 600)
	return &fixture{doc: doc, area: a, host: h, ctrl: c}
}

func onMap(x, y float64) (float64, float64) { return 160 + x, 210 - y }

func (f *fixture) addVector(t *testing.T, shape layer.ShapeType) *layer.Vector {
	t.Helper()
	v := layer.NewVector("edits", shape)
	f.area.AddLayer(v)
	require.NoError(t, f.area.SetActiveLayer(v.OverlayNumber()))
	return v
}

func (f *fixture) addTitle(x, y, w, h float64) *carto.MapTitle {
	t := carto.NewMapTitle("title", "Title")
	t.SetUpperLeft(x, y)
	t.SetSize(w, h)
	f.doc.Add(t)
	return t
}

func (f *fixture) drag(x0, y0, x1, y1 float64) {
	f.ctrl.Move(x0, y0)
	f.ctrl.Press(x0, y0)
	f.ctrl.Drag((x0+x1)/2, (y0+y1)/2)
	f.ctrl.Drag(x1, y1)
	f.ctrl.Release(x1, y1)
}

func assertBox(t *testing.T, want, got geometry.BoundingBox) {
	t.Helper()
	assert.InDelta(t, want.MinX, got.MinX, 1e-9, "min x")
	assert.InDelta(t, want.MinY, got.MinY, 1e-9, "min y")
	assert.InDelta(t, want.MaxX, got.MaxX, 1e-9, "max x")
	assert.InDelta(t, want.MaxY, got.MaxY, 1e-9, "max y")
}

func TestBoxZoomSetsPageExtent(t *testing.T) {
	doc := carto.NewDocument("empty")
	doc.SetPageExtent(geometry.NewBoundingBox(0, 0, 800, 600))
	c := NewController(doc, &fakeHost{})
	c.SetCanvasSize(800, 600)
	c.SetMouseMode(ModeZoomIn)

	c.Move(10, 10)
	c.Press(10, 10)
	c.Drag(110, 60)
	ov := c.Overlay()
	assert.True(t, ov.RubberBand)
	assert.Equal(t, geometry.Pt(10, 10), ov.BandStart)
	assert.Equal(t, geometry.Pt(110, 60), ov.BandEnd)

	c.Release(110, 60)
	assert.Equal(t, geometry.NewBoundingBox(10, 10, 110, 60), doc.PageExtent())
	assert.False(t, c.Overlay().RubberBand)
}

func TestZoomBoxNeedsADrag(t *testing.T) {
	f := newFixture(t)
	f.ctrl.SetMouseMode(ModeZoomIn)
	before := f.doc.PageExtent()

	f.ctrl.Press(500, 400)
	f.ctrl.Release(500, 400)
	assert.Equal(t, before, f.doc.PageExtent())

	f.drag(500, 400, 500, 450)
	assert.Equal(t, before, f.doc.PageExtent(), "zero-width box is ignored")
}

func TestSelectBoxSelectsContainedElements(t *testing.T) {
	f := newFixture(t)
	inside := f.addTitle(400, 400, 50, 20)
	outside := f.addTitle(600, 400, 50, 20)

	f.drag(390, 390, 500, 450)
	assert.True(t, inside.Selected())
	assert.False(t, outside.Selected())
	assert.False(t, f.area.Selected())
}

func TestDragMovesSelectedElements(t *testing.T) {
	f := newFixture(t)
	title := f.addTitle(400, 400, 50, 20)
	title.SetSelected(true)

	f.ctrl.Move(410, 405)
	assert.Equal(t, HoverElement, f.ctrl.Hover())
	assert.Equal(t, CursorPan, f.ctrl.Cursor())

	f.drag(410, 405, 430, 415)
	assert.Equal(t, geometry.Pt(420, 410), title.Bounds().TopLeft())
	assert.True(t, title.Selected(), "moving is not a box selection")
}

func TestResizeFromEdge(t *testing.T) {
	f := newFixture(t)
	text := carto.NewMapTextArea("notes", "Notes")
	text.SetUpperLeft(400, 400)
	text.SetSize(100, 60)
	text.SetSelected(true)
	f.doc.Add(text)

	f.ctrl.Move(505, 430)
	require.Equal(t, HoverResize, f.ctrl.Hover())
	assert.Equal(t, ModeResize, f.ctrl.Mode())
	assert.Equal(t, ModeSelect, f.ctrl.MouseMode())
	assert.Equal(t, CursorResizeE, f.ctrl.Cursor())

	f.drag(505, 430, 530, 430)
	assert.Equal(t, 130.0, text.Bounds().Width)
	assert.Equal(t, 60.0, text.Bounds().Height)
	assert.Equal(t, 400.0, text.Bounds().X)
}

func TestResizeTitleRefitsFont(t *testing.T) {
	f := newFixture(t)
	title := f.addTitle(400, 400, 100, 60)
	title.SetSelected(true)
	before := title.Font.Size

	f.ctrl.Move(430, 465)
	require.Equal(t, HoverResize, f.ctrl.Hover())
	f.drag(430, 465, 430, 520)
	assert.Greater(t, title.Font.Size, before, "a taller box picks a larger font")
	assert.Equal(t, 400.0, title.Bounds().Y)
}

func TestMapAreaBoxZoom(t *testing.T) {
	f := newFixture(t)
	f.ctrl.SetMouseMode(ModeZoomIn)
	x0, y0 := onMap(0, 50)
	x1, y1 := onMap(25, 75)

	f.drag(x0, y0, x1, y1)
	assertBox(t, geometry.NewBoundingBox(0, 50, 25, 75), f.area.CurrentExtent())
}

func TestMapAreaPanFollowsPointer(t *testing.T) {
	f := newFixture(t)
	f.ctrl.SetMouseMode(ModePan)
	x0, y0 := onMap(0, 50)

	f.drag(x0, y0, x0+10, y0)
	assertBox(t, geometry.NewBoundingBox(-10, 0, 90, 100), f.area.CurrentExtent())
}

func TestMapAreaPanRecordsOneHistoryEntry(t *testing.T) {
	f := newFixture(t)
	f.ctrl.SetMouseMode(ModePan)
	x0, y0 := onMap(0, 50)

	f.ctrl.Move(x0, y0)
	f.ctrl.Press(x0, y0)
	for _, dx := range []float64{20, 40, 60} {
		f.ctrl.Drag(x0+dx, y0)
	}
	f.ctrl.Release(x0+60, y0)
	assertBox(t, geometry.NewBoundingBox(-60, 0, 40, 100), f.area.CurrentExtent())

	require.True(t, f.area.PreviousExtent())
	assertBox(t, geometry.NewBoundingBox(0, 0, 100, 100), f.area.CurrentExtent())
	assert.False(t, f.area.PreviousExtent(), "intermediate drag positions are not kept")
}

func TestMapAreaBoxZoomIgnoredWhileMeasuring(t *testing.T) {
	f := newFixture(t)
	f.ctrl.SetMouseMode(ModeZoomIn)
	f.ctrl.SetMeasuring(true)
	x0, y0 := onMap(0, 50)
	x1, y1 := onMap(25, 75)

	f.drag(x0, y0, x1, y1)
	assertBox(t, geometry.NewBoundingBox(0, 0, 100, 100), f.area.CurrentExtent())
}

func TestPanDragOutsideMapAreasMovesPage(t *testing.T) {
	f := newFixture(t)
	f.ctrl.SetMouseMode(ModePan)

	f.drag(400, 300, 410, 300)
	assertBox(t, geometry.NewBoundingBox(-10, 0, 790, 600), f.doc.PageExtent())
}

func TestFeatureSelectBox(t *testing.T) {
	f := newFixture(t)
	v := f.addVector(t, layer.ShapePoint)
	near := v.AddRecord(layer.Geometry{Points: []geometry.Point2D{geometry.Pt(10, 10)}}, 0)
	far := v.AddRecord(layer.Geometry{Points: []geometry.Point2D{geometry.Pt(90, 90)}}, 0)
	f.ctrl.SetMouseMode(ModeFeatureSelect)

	x0, y0 := onMap(5, 5)
	x1, y1 := onMap(50, 50)
	f.ctrl.Move(x0, y0)
	f.ctrl.Press(x0, y0)
	f.ctrl.Drag(x1, y1)
	assert.True(t, f.ctrl.Overlay().RubberBand)
	f.ctrl.Release(x1, y1)

	assert.True(t, v.IsFeatureSelected(near))
	assert.False(t, v.IsFeatureSelected(far))
}

func TestFeatureSelectHoverOverlay(t *testing.T) {
	f := newFixture(t)
	f.addVector(t, layer.ShapePolygon)
	f.ctrl.SetMouseMode(ModeFeatureSelect)

	f.ctrl.Move(onMap(30, 40))
	ov := f.ctrl.Overlay()
	assert.True(t, ov.FeatureSelect)
	assert.InDelta(t, 30, ov.Pointer.X, 1e-9)
	assert.InDelta(t, 40, ov.Pointer.Y, 1e-9)
	assert.Equal(t, CursorFeatureSelect, f.ctrl.Cursor())

	f.ctrl.Move(105, 105)
	assert.False(t, f.ctrl.Overlay().FeatureSelect, "reference band is outside the view")
}

func TestMoveReportsCellUnderPointer(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Move(onMap(15, 85))
	assert.Equal(t, "E: 15.0  N: 85.0  Row: 1  Col: 1  Z: 11", f.host.lastStatus())

	f.ctrl.Move(105, 105)
	assert.Equal(t, "", f.host.lastStatus())
}

func TestEventsFollowCanvasResize(t *testing.T) {
	f := newFixture(t)
	f.ctrl.SetCanvasSize(1600, 1200)
	f.ctrl.Move(onMap(15, 85))
	assert.Equal(t, HoverNone, f.ctrl.Hover(), "the page is drawn twice as large now")

	x, y := onMap(15, 85)
	f.ctrl.Move(2*x, 2*y)
	assert.Equal(t, HoverMapArea, f.ctrl.Hover())
	assert.Equal(t, "E: 15.0  N: 85.0  Row: 1  Col: 1  Z: 11", f.host.lastStatus())
}

func TestCursorFollowsMode(t *testing.T) {
	f := newFixture(t)
	cases := []struct {
		mode Mode
		want Cursor
	}{
		{ModeZoomIn, CursorZoomIn},
		{ModeZoomOut, CursorZoomOut},
		{ModePan, CursorPan},
		{ModeSelect, CursorSelect},
		{ModeDigitize, CursorDigitize},
	}
	for _, tc := range cases {
		f.ctrl.SetMouseMode(tc.mode)
		f.ctrl.Move(700, 500)
		assert.Equal(t, tc.want, f.ctrl.Cursor(), tc.mode.String())
	}

	f.ctrl.SetMouseMode(ModeModifyPixel)
	f.ctrl.Move(onMap(50, 50))
	assert.Equal(t, CursorDigitize, f.ctrl.Cursor())
}

func TestSetMouseModeIgnoresResize(t *testing.T) {
	c := NewController(carto.NewDocument("d"), nil)
	c.SetMouseMode(ModePan)
	c.SetMouseMode(ModeResize)
	assert.Equal(t, ModePan, c.MouseMode())
}

func TestParseMode(t *testing.T) {
	for m := ModeZoomIn; m < ModeResize; m++ {
		got, ok := ParseMode(m.String())
		require.True(t, ok)
		assert.Equal(t, m, got)
	}
	_, ok := ParseMode("resize")
	assert.False(t, ok)
}
