package carto

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"map-composer/pkg/geometry"
)

func TestEffectivePageExtentDiffersForPrint(t *testing.T) {
	d := NewDocument("test")
	require.Equal(t, 792.0, d.PageWidth)
	require.Equal(t, 612.0, d.PageHeight)

	interactive := d.EffectivePageExtent(false)
	assert.Equal(t, geometry.NewBoundingBox(-6, -6, 799.5, 619.5), interactive)

	printed := d.EffectivePageExtent(true)
	assert.Equal(t, geometry.NewBoundingBox(0, 0, 791, 611), printed)

	assert.False(t, d.PageExtent().IsInitialized(), "effective extent must not mutate")
	d.InitPageExtent(true)
	assert.Equal(t, printed, d.PageExtent())
	assert.Equal(t, printed, d.EffectivePageExtent(false), "an assigned extent wins")
}

func TestDocumentZoom(t *testing.T) {
	d := NewDocument("test")
	d.SetPageExtent(geometry.NewBoundingBox(0, 0, 100, 50))

	d.Zoom(200, 100, 2)
	assert.Equal(t, geometry.NewBoundingBox(100, 50, 300, 150), d.PageExtent())

	d.ZoomIn(200, 100)
	pe := d.PageExtent()
	assert.InDelta(t, 170, pe.Width(), 1e-9)
	assert.InDelta(t, 85, pe.Height(), 1e-9)

	d.ZoomToPage()
	assert.False(t, d.PageExtent().IsInitialized())
}

func TestAddNumbersElementsAndNeatlineGoesToBottom(t *testing.T) {
	d := NewDocument("test")
	title := d.AddMapTitle()
	area := d.AddMapArea()
	neat := d.AddNeatline()

	require.Equal(t, 3, d.NumElements())
	assert.Equal(t, 0, neat.Number())
	assert.Equal(t, 1, title.Number())
	assert.Equal(t, 2, area.Number())
	assert.Equal(t, "MapTitle1", title.Name())
	assert.Equal(t, "MapArea1", area.Name())
	assert.Equal(t, "test", title.Label)

	require.NoError(t, d.Remove(1))
	assert.Equal(t, 0, neat.Number())
	assert.Equal(t, 1, area.Number())

	assert.ErrorIs(t, d.Remove(7), ErrNoSuchElement)
}

func TestActiveMapAreaResolution(t *testing.T) {
	d := NewDocument("test")
	assert.Nil(t, d.ActiveMapArea())

	a1 := d.AddMapArea()
	a2 := d.AddMapArea()
	assert.Same(t, a2, d.ActiveMapArea(), "adding a map area activates it")

	d.DeselectAll()
	assert.Same(t, a1, d.ActiveMapArea(), "first map area when none selected")

	d.DeselectAll()
	a2.SetSelected(true)
	assert.Same(t, a2, d.ActiveMapArea())
}

func TestRemoveMapAreaDetachesLegendAndScale(t *testing.T) {
	d := NewDocument("test")
	a := d.AddMapArea()
	leg := d.AddLegend()
	sc := d.AddMapScale()
	require.Same(t, a, sc.MapArea())
	require.Len(t, leg.MapAreas(), 1)

	require.NoError(t, d.Remove(a.Number()))
	assert.Nil(t, sc.MapArea())
	assert.Empty(t, leg.MapAreas())
	assert.Nil(t, d.ActiveMapArea())
}

func TestPromoteDemote(t *testing.T) {
	d := NewDocument("test")
	a := d.AddNorthArrow()
	b := d.AddMapTextArea("x")

	d.Promote(0)
	assert.Same(t, b, d.Element(0))
	assert.Same(t, a, d.Element(1))
	assert.Equal(t, 1, a.Number())

	d.Demote(1)
	assert.Same(t, a, d.Element(0))
}

func TestRemoveSelected(t *testing.T) {
	d := NewDocument("test")
	d.AddNorthArrow().SetSelected(true)
	keep := d.AddMapTextArea("x")
	d.AddMapTitle().SetSelected(true)

	assert.Equal(t, 2, d.RemoveSelected())
	require.Equal(t, 1, d.NumElements())
	assert.Same(t, keep, d.Element(0))
	assert.Equal(t, 0, keep.Number())
}

func TestElementAtPicksTopmostVisible(t *testing.T) {
	d := NewDocument("test")
	low := d.AddMapTextArea("low")
	low.SetUpperLeft(0, 0)
	high := d.AddMapTextArea("high")
	high.SetUpperLeft(100, 100)

	assert.Same(t, high, d.ElementAt(150, 150))
	assert.Same(t, low, d.ElementAt(50, 50))
	high.SetVisible(false)
	assert.Same(t, low, d.ElementAt(150, 150))
	assert.Nil(t, d.ElementAt(500, 500))
}

func TestGroupAndUngroup(t *testing.T) {
	d := NewDocument("test")
	a := d.AddMapTextArea("a")
	a.SetUpperLeft(10, 10)
	b := d.AddMapTextArea("b")
	b.SetUpperLeft(400, 300)
	other := d.AddNorthArrow()

	assert.Nil(t, d.GroupSelected(), "needs two selected elements")

	a.SetSelected(true)
	b.SetSelected(true)
	g := d.GroupSelected()
	require.NotNil(t, g)
	assert.True(t, g.Selected())
	assert.False(t, a.Selected())
	require.Equal(t, 2, d.NumElements())
	assert.Same(t, other, d.Element(0))
	assert.Same(t, g, d.Element(1))
	assert.Equal(t, geometry.NewRect(10, 10, 670, 490), g.Bounds())

	g.SetUpperLeft(20, 30)
	assert.Equal(t, geometry.NewRect(20, 30, 280, 200), a.Bounds())
	assert.Equal(t, geometry.NewRect(410, 320, 280, 200), b.Bounds())

	assert.Equal(t, 1, d.UngroupSelected())
	require.Equal(t, 3, d.NumElements())
	assert.Same(t, a, d.Element(1))
	assert.Same(t, b, d.Element(2))
}

func TestAlignAndDistribute(t *testing.T) {
	d := NewDocument("test")
	var els []*MapTextArea
	for i, x := range []float64{50, 120, 400} {
		e := d.AddMapTextArea("")
		e.SetSize(20, 20)
		e.SetUpperLeft(x, float64(i)*10)
		e.SetSelected(true)
		els = append(els, e)
	}

	require.True(t, d.DistributeSelectedHorizontally())
	// span 50..420, total width 60, two gaps of 155
	assert.InDelta(t, 225, els[1].Bounds().X, 1e-9)
	assert.Equal(t, 50.0, els[0].Bounds().X)
	assert.Equal(t, 400.0, els[2].Bounds().X)

	require.True(t, d.AlignSelectedLeft())
	for _, e := range els {
		assert.Equal(t, 50.0, e.Bounds().X)
	}

	require.True(t, d.AlignSelectedBottom())
	for _, e := range els {
		assert.Equal(t, 20.0, e.Bounds().Y)
	}

	d.DeselectAll()
	els[0].SetSelected(true)
	require.True(t, d.AlignSelectedRight())
	assert.Equal(t, d.PageWidth-d.Margin-20, els[0].Bounds().X)
	require.True(t, d.CentreSelectedVertically())
	assert.Equal(t, d.PageWidth/2-10, els[0].Bounds().X)
	assert.False(t, d.DistributeSelectedVertically())
}
