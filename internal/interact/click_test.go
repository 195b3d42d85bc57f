package interact

import (
	"testing"

	"map-composer/internal/layer"
	"map-composer/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func click(x, y float64) ClickEvent {
	return ClickEvent{X: x, Y: y, Count: 1, Button: ButtonPrimary}
}

func clickMap(x, y float64, count int) ClickEvent {
	px, py := onMap(x, y)
	return ClickEvent{X: px, Y: py, Count: count, Button: ButtonPrimary}
}

func TestClickSelectsAndActivatesMapArea(t *testing.T) {
	f := newFixture(t)
	title := f.addTitle(400, 400, 50, 20)
	title.SetSelected(true)

	f.ctrl.Click(click(200, 150))
	assert.True(t, f.area.Selected())
	assert.False(t, title.Selected(), "plain click replaces the selection")
	assert.Same(t, f.area, f.doc.ActiveMapArea())
	assert.Equal(t, 1, f.host.relayouts)

	f.ctrl.Click(click(200, 150))
	assert.False(t, f.area.Selected())
}

func TestShiftClickExtendsSelection(t *testing.T) {
	f := newFixture(t)
	title := f.addTitle(400, 400, 50, 20)
	title.SetSelected(true)

	ev := click(200, 150)
	ev.Shift = true
	f.ctrl.Click(ev)
	assert.True(t, f.area.Selected())
	assert.True(t, title.Selected())
}

func TestClickOnEmptyPageDeselects(t *testing.T) {
	f := newFixture(t)
	f.area.SetSelected(true)
	f.ctrl.Click(click(700, 500))
	assert.False(t, f.area.Selected())
}

func TestDoubleAndRightClickShowProperties(t *testing.T) {
	f := newFixture(t)
	title := f.addTitle(400, 400, 50, 20)

	ev := click(410, 410)
	ev.Count = 2
	f.ctrl.Click(ev)

	ev = click(200, 150)
	ev.Button = ButtonSecondary
	f.ctrl.Click(ev)

	require.Len(t, f.host.properties, 2)
	assert.Same(t, title, f.host.properties[0])
	assert.Same(t, f.area, f.host.properties[1])
}

func TestClickZoomOutOutsideMapAreaZoomsPage(t *testing.T) {
	f := newFixture(t)
	f.ctrl.SetMouseMode(ModeZoomOut)
	f.ctrl.Click(click(400, 300))
	assertBox(t, geometry.NewBoundingBox(-60, -45, 860, 645), f.doc.PageExtent())
}

func TestClickZoomInOnMapAreaKeepsPointFixed(t *testing.T) {
	f := newFixture(t)
	f.ctrl.SetMouseMode(ModeZoomIn)
	f.ctrl.Click(clickMap(0, 50, 1))
	assertBox(t, geometry.NewBoundingBox(0, 7.5, 85, 92.5), f.area.CurrentExtent())
	assert.Equal(t, geometry.NewBoundingBox(0, 0, 800, 600), f.doc.PageExtent())
}

func TestWheelZoomsMapAreaAboutPointer(t *testing.T) {
	f := newFixture(t)
	x, y := onMap(0, 50)
	f.ctrl.Wheel(x, y, 1)
	assertBox(t, geometry.NewBoundingBox(0, -7.5, 115, 107.5), f.area.CurrentExtent())

	f.area.SetCurrentExtent(geometry.NewBoundingBox(0, 0, 100, 100))
	f.ctrl.ScrollDirection = -1
	f.ctrl.Wheel(x, y, 1)
	assertBox(t, geometry.NewBoundingBox(0, 7.5, 85, 92.5), f.area.CurrentExtent())
}

func TestWheelOutsideMapAreasZoomsPage(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Wheel(400, 300, -1)
	assertBox(t, geometry.NewBoundingBox(40, 30, 760, 570), f.doc.PageExtent())
}

func TestFeatureSelectClick(t *testing.T) {
	f := newFixture(t)
	v := f.addVector(t, layer.ShapePolygon)
	n := v.AddRecord(layer.Geometry{Points: []geometry.Point2D{
		geometry.Pt(0, 0), geometry.Pt(40, 0), geometry.Pt(40, 40), geometry.Pt(0, 40), geometry.Pt(0, 0),
	}}, 0)
	f.ctrl.SetMouseMode(ModeFeatureSelect)

	f.ctrl.Click(clickMap(20, 20, 1))
	assert.True(t, v.IsFeatureSelected(n))
	assert.False(t, f.area.Selected(), "feature selection does not select the element")

	f.ctrl.Click(clickMap(20, 20, 1))
	assert.False(t, v.IsFeatureSelected(n))
}

func TestMeasureDistanceAndArea(t *testing.T) {
	f := newFixture(t)
	f.ctrl.SetMeasuring(true)
	for _, p := range []geometry.Point2D{{X: 10, Y: 10}, {X: 20, Y: 10}, {X: 20, Y: 20}, {X: 10, Y: 20}} {
		f.ctrl.Click(clickMap(p.X, p.Y, 1))
	}
	require.Len(t, f.ctrl.Points(), 4)
	assert.Equal(t, "Distance: 30.0   Enclosed Area: 100.0 sqr. units", f.host.lastStatus())
	assert.False(t, f.area.Selected(), "measuring clicks do not select")

	ov := f.ctrl.Overlay()
	assert.True(t, ov.Measuring)
	assert.Len(t, ov.Vertices, 4)

	f.ctrl.Click(clickMap(10, 20, 2))
	assert.Empty(t, f.ctrl.Points())
}

func TestMeasureIgnoresClicksOutsideView(t *testing.T) {
	f := newFixture(t)
	f.ctrl.SetMeasuring(true)
	f.ctrl.Click(click(105, 105))
	assert.Empty(t, f.ctrl.Points())
}

func TestMeasuringOffDiscardsPoints(t *testing.T) {
	f := newFixture(t)
	f.ctrl.SetMeasuring(true)
	f.ctrl.Click(clickMap(10, 10, 1))
	f.ctrl.SetMeasuring(false)
	assert.Empty(t, f.ctrl.Points())
}

func TestRemoveLastNode(t *testing.T) {
	f := newFixture(t)
	f.ctrl.RemoveLastNode()
	assert.Equal(t, []string{noDigitizedNode}, f.host.feedback)

	f.ctrl.SetMeasuring(true)
	f.ctrl.Click(clickMap(10, 10, 1))
	f.ctrl.Click(clickMap(20, 10, 1))
	f.ctrl.RemoveLastNode()
	require.Len(t, f.ctrl.Points(), 1)
	assert.InDelta(t, 10, f.ctrl.Points()[0].X, 1e-9)
}

func TestDigitizePolyline(t *testing.T) {
	f := newFixture(t)
	v := f.addVector(t, layer.ShapePolyLine)
	v.SetActivelyEdited(true)
	f.ctrl.SetMouseMode(ModeDigitize)

	f.ctrl.Click(clickMap(10, 10, 1))
	f.ctrl.Click(clickMap(20, 20, 1))
	assert.Equal(t, 1, f.host.started)
	assert.Len(t, v.NewFeaturePoints(), 2)
	assert.True(t, f.ctrl.Overlay().Digitizing)
	assert.Len(t, f.ctrl.Overlay().Vertices, 2)

	f.ctrl.Click(clickMap(20, 20, 2))
	require.Equal(t, 1, v.NumRecords())
	assert.Equal(t, []int{1}, f.host.closed)
	assert.Len(t, v.Record(1).Geometry.Points, 2)
	assert.Empty(t, f.ctrl.Points())
	assert.Empty(t, f.host.logged)
}

// assertVerticesInSync checks the overlay and the layer hold the same
// unfinished feature.
func assertVerticesInSync(t *testing.T, c *Controller, v *layer.Vector) {
	t.Helper()
	assert.Equal(t, len(c.Points()), len(v.NewFeaturePoints()))
	for i, p := range c.Points() {
		assert.InDelta(t, p.X, v.NewFeaturePoints()[i].X, 1e-9)
		assert.InDelta(t, p.Y, v.NewFeaturePoints()[i].Y, 1e-9)
	}
}

func TestDigitizeAcrossModeSwitchStartsAfresh(t *testing.T) {
	f := newFixture(t)
	v := f.addVector(t, layer.ShapePolyLine)
	v.SetActivelyEdited(true)
	f.ctrl.SetMouseMode(ModeDigitize)

	f.ctrl.Click(clickMap(10, 10, 1))
	f.ctrl.Click(clickMap(20, 20, 1))
	assertVerticesInSync(t, f.ctrl, v)

	f.ctrl.SetMouseMode(ModeSelect)
	assert.Empty(t, f.ctrl.Points())
	assert.False(t, v.FeatureOpen(), "leaving the tool abandons the feature")
	assertVerticesInSync(t, f.ctrl, v)

	f.ctrl.SetMouseMode(ModeDigitize)
	f.ctrl.Click(clickMap(50, 50, 1))
	assertVerticesInSync(t, f.ctrl, v)
	f.ctrl.Click(clickMap(60, 50, 1))
	f.ctrl.Click(clickMap(60, 50, 2))

	require.Equal(t, 1, v.NumRecords())
	pts := v.Record(1).Geometry.Points
	require.Len(t, pts, 2)
	assert.InDelta(t, 50, pts[0].X, 1e-9)
	assert.InDelta(t, 60, pts[1].X, 1e-9)
}

func TestDigitizeRemoveLastNodeKeepsLayerInSync(t *testing.T) {
	f := newFixture(t)
	v := f.addVector(t, layer.ShapePolyLine)
	v.SetActivelyEdited(true)
	f.ctrl.SetMouseMode(ModeDigitize)

	f.ctrl.Click(clickMap(10, 10, 1))
	f.ctrl.Click(clickMap(20, 20, 1))
	f.ctrl.Click(clickMap(30, 30, 1))
	f.ctrl.RemoveLastNode()
	require.Len(t, f.ctrl.Points(), 2)
	assertVerticesInSync(t, f.ctrl, v)

	f.ctrl.RemoveLastNode()
	f.ctrl.RemoveLastNode()
	assert.Empty(t, f.ctrl.Points())
	assertVerticesInSync(t, f.ctrl, v)
	assert.Empty(t, f.host.feedback)
}

func TestDigitizeRemoveLastNodeReportsLayerMismatch(t *testing.T) {
	f := newFixture(t)
	v := f.addVector(t, layer.ShapePolyLine)
	v.SetActivelyEdited(true)
	f.ctrl.SetMouseMode(ModeDigitize)

	f.ctrl.Click(clickMap(10, 10, 1))
	require.NoError(t, v.RemoveLastNode())

	f.ctrl.RemoveLastNode()
	assert.Equal(t, []string{noDigitizedNode}, f.host.feedback)
	assert.Len(t, f.ctrl.Points(), 1, "nothing is dropped when the layer refuses")
}

func TestDigitizePointClosesAtOnce(t *testing.T) {
	f := newFixture(t)
	v := f.addVector(t, layer.ShapePoint)
	v.SetActivelyEdited(true)
	f.ctrl.SetMouseMode(ModeDigitize)

	f.ctrl.Click(clickMap(10, 10, 1))
	f.ctrl.Click(clickMap(30, 30, 1))
	assert.Equal(t, 2, v.NumRecords())
	assert.Equal(t, 2, f.host.started)
	assert.Equal(t, []int{1, 2}, f.host.closed)
}

func TestDigitizeFailureKeepsVertices(t *testing.T) {
	f := newFixture(t)
	v := f.addVector(t, layer.ShapePolygon)
	v.SetActivelyEdited(true)
	f.ctrl.SetMouseMode(ModeDigitize)

	f.ctrl.Click(clickMap(10, 10, 1))
	f.ctrl.Click(clickMap(20, 10, 2))
	assert.Equal(t, 0, v.NumRecords())
	assert.Equal(t, []string{digitizeErrorContext}, f.host.logged)
	assert.Equal(t, []string{digitizeFeedback}, f.host.feedback)
	assert.Len(t, f.ctrl.Points(), 1, "the user can keep adding vertices")
}

func TestDigitizeNeedsEditedLayer(t *testing.T) {
	f := newFixture(t)
	v := f.addVector(t, layer.ShapePolyLine)
	f.ctrl.SetMouseMode(ModeDigitize)

	f.ctrl.Click(clickMap(10, 10, 1))
	assert.Equal(t, []string{digitizeErrorContext}, f.host.logged)
	assert.Empty(t, f.ctrl.Points())
	assert.False(t, v.FeatureOpen())
}

func TestModifyPixel(t *testing.T) {
	f := newFixture(t)
	f.host.pixel, f.host.pixelOK = 42, true
	f.ctrl.SetMouseMode(ModeModifyPixel)

	f.ctrl.Click(clickMap(13, 88, 1))
	require.Len(t, f.host.pixelCells, 1)
	cell := f.host.pixelCells[0]
	assert.Equal(t, 1, cell.Row)
	assert.Equal(t, 1, cell.Col)
	assert.Equal(t, 11.0, cell.Z)

	r := f.area.ActiveRaster()
	assert.Equal(t, 42.0, r.DataValue(1, 1))
	assert.True(t, r.Dirty())

	ov := f.ctrl.Overlay()
	assert.True(t, ov.Crosshair)
	assert.InDelta(t, 15, ov.CrosshairPoint.X, 1e-9, "snapped to the cell centre")
	assert.InDelta(t, 85, ov.CrosshairPoint.Y, 1e-9)

	f.ctrl.SetMouseMode(ModeSelect)
	assert.False(t, f.ctrl.Overlay().Crosshair)
}

func TestModifyPixelCancelled(t *testing.T) {
	f := newFixture(t)
	f.ctrl.SetMouseMode(ModeModifyPixel)
	f.ctrl.Click(clickMap(13, 88, 1))
	assert.Equal(t, 11.0, f.area.ActiveRaster().DataValue(1, 1))
}

func TestModifyPixelNeedsRaster(t *testing.T) {
	f := newFixture(t)
	f.addVector(t, layer.ShapePolygon)
	f.ctrl.SetMouseMode(ModeModifyPixel)
	f.ctrl.Click(clickMap(13, 88, 1))
	assert.Equal(t, []string{noRasterToModify}, f.host.feedback)
	assert.Empty(t, f.host.pixelCells)
}

func squareRecord(v *layer.Vector) int {
	return v.AddRecord(layer.Geometry{Points: []geometry.Point2D{
		geometry.Pt(0, 0), geometry.Pt(10, 0), geometry.Pt(10, 10), geometry.Pt(0, 0),
	}}, 0)
}

func TestDeleteFeatureWithoutSelectionIsNoop(t *testing.T) {
	f := newFixture(t)
	v := f.addVector(t, layer.ShapePolygon)
	v.SetActivelyEdited(true)
	squareRecord(v)
	f.host.confirm = true

	f.ctrl.DeleteFeature()
	assert.Equal(t, []string{noSelectedFeature}, f.host.feedback)
	assert.Zero(t, f.host.confirmCalls)
	assert.Equal(t, 1, v.NumRecords())
}

func TestDeleteFeatureAfterConfirmation(t *testing.T) {
	f := newFixture(t)
	v := f.addVector(t, layer.ShapePolygon)
	v.SetActivelyEdited(true)
	n := squareRecord(v)
	v.SelectFeature(n)

	f.ctrl.DeleteFeature()
	assert.Equal(t, 1, f.host.confirmCalls)
	assert.Equal(t, 1, v.NumRecords(), "declined")

	f.host.confirm = true
	f.ctrl.Key(KeyDelete)
	assert.Equal(t, 0, v.NumRecords())
}

func TestDeleteKeyRemovesSelectedElements(t *testing.T) {
	f := newFixture(t)
	title := f.addTitle(400, 400, 50, 20)
	title.SetSelected(true)

	f.ctrl.Key(KeyBackspace)
	assert.Equal(t, 1, f.doc.NumElements())
	assert.Same(t, f.area, f.doc.Element(0))
	assert.Equal(t, 1, f.host.relayouts)
}

func TestArrowAndZoomKeys(t *testing.T) {
	f := newFixture(t)
	f.ctrl.Key(KeyRight)
	assertBox(t, geometry.NewBoundingBox(10, 0, 110, 100), f.area.CurrentExtent())
	f.ctrl.Key(KeyUp)
	assertBox(t, geometry.NewBoundingBox(10, 10, 110, 110), f.area.CurrentExtent())
	f.ctrl.Key(KeyMinus)
	assertBox(t, geometry.NewBoundingBox(0, 0, 120, 120), f.area.CurrentExtent())
	f.ctrl.Key(KeyEquals)
	assertBox(t, geometry.NewBoundingBox(12, 12, 108, 108), f.area.CurrentExtent())
}
