package demo

import (
	"testing"

	"map-composer/internal/carto"
	"map-composer/internal/config"
	"map-composer/internal/layer"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerrainHasCoastline(t *testing.T) {
	r := Terrain()
	centre := r.RowAndColumn(510000, 4807500)
	require.True(t, centre.Valid())
	assert.False(t, centre.NoData)
	assert.Greater(t, centre.Z, 300.0)

	corner := r.RowAndColumn(500050, 4814950)
	require.True(t, corner.Valid())
	assert.True(t, corner.NoData)
}

func TestLakeWithIslandHasTwoParts(t *testing.T) {
	v := Lakes()
	require.Equal(t, 2, v.NumRecords())
	assert.Equal(t, 2, v.Record(2).Geometry.NumParts())
}

func TestDocument(t *testing.T) {
	s := config.Default()
	s.GeneralizationDefault = 2
	s.DefaultFontSize = 12
	doc := Document(s)

	require.NoError(t, carto.EnsureLayout(doc))
	a := doc.ActiveMapArea()
	require.NotNil(t, a)
	assert.Equal(t, 4, a.NumLayers())

	v := a.ActiveVector()
	require.NotNil(t, v, "towns are active for digitizing")
	assert.Equal(t, layer.ShapePoint, v.ShapeType())
	assert.True(t, v.ActivelyEdited())
	assert.Equal(t, 2.0, v.GeneralizationLevel)
	assert.Equal(t, 12.0, doc.DefaultFont.Size)

	for _, e := range doc.Elements() {
		assert.True(t, e.Placed(), e.Name())
	}
}
