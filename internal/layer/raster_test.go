package layer

import (
	"testing"

	"map-composer/pkg/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rampGrid(rows, cols int) *MemGrid {
	g := NewMemGrid(rows, cols, -9999)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			_ = g.SetValue(r, c, float64(r*cols+c))
		}
	}
	return g
}

func TestResolutionFactorFor(t *testing.T) {
	tests := []struct {
		name         string
		rows, cols   int
		destW, destH float64
		want         int
	}{
		{"far smaller viewport", 4000, 6000, 100, 100, 40},
		{"row ratio limits", 1000, 5000, 100, 100, 10},
		{"larger viewport never below one", 50, 50, 400, 300, 1},
		{"fractional ratio floors", 250, 250, 100, 100, 2},
		{"degenerate viewport", 100, 100, 0, 10, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolutionFactorFor(tt.rows, tt.cols, tt.destW, tt.destH)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 1)
		})
	}
}

func TestCreatePixelDataDecimates(t *testing.T) {
	r := NewRaster("dem", rampGrid(10, 20), geometry.NewBoundingBox(0, 0, 20, 10))
	r.SetResolutionFactor(2)
	require.True(t, r.Dirty())

	r.CreatePixelData()
	assert.False(t, r.Dirty())
	img := r.Image()
	require.NotNil(t, img)
	assert.Equal(t, 10, img.Bounds().Dx())
	assert.Equal(t, 5, img.Bounds().Dy())
}

func TestCurrentExtentSubsetsBuffer(t *testing.T) {
	r := NewRaster("dem", rampGrid(10, 10), geometry.NewBoundingBox(0, 0, 10, 10))
	r.CreatePixelData()
	r.SetCurrentExtent(geometry.NewBoundingBox(0, 5, 5, 10))
	assert.True(t, r.Dirty())

	r.CreatePixelData()
	assert.Equal(t, 5, r.Image().Bounds().Dx())
	assert.Equal(t, 5, r.Image().Bounds().Dy())
}

func TestNoDataIsTransparent(t *testing.T) {
	g := NewMemGrid(2, 2, -1)
	require.NoError(t, g.SetValue(0, 0, 5))
	r := NewRaster("sparse", g, geometry.NewBoundingBox(0, 0, 2, 2))
	r.CreatePixelData()
	assert.Equal(t, uint8(0), r.Image().NRGBAAt(1, 1).A)
	assert.Equal(t, uint8(255), r.Image().NRGBAAt(0, 0).A)
}

func TestRowAndColumn(t *testing.T) {
	r := NewRaster("dem", rampGrid(10, 10), geometry.NewBoundingBox(100, 200, 110, 210))
	cell := r.RowAndColumn(100.5, 209.5)
	assert.Equal(t, 0, cell.Row)
	assert.Equal(t, 0, cell.Col)
	assert.InDelta(t, 209.5, r.YFromRow(0), 1e-9)
	assert.InDelta(t, 100.5, r.XFromColumn(0), 1e-9)

	assert.False(t, r.RowAndColumn(99, 205).Valid())
}

func TestSetDataValueMarksDirty(t *testing.T) {
	r := NewRaster("dem", rampGrid(3, 3), geometry.NewBoundingBox(0, 0, 3, 3))
	r.CreatePixelData()
	require.NoError(t, r.SetDataValue(1, 1, 42))
	assert.True(t, r.Dirty())
	assert.Equal(t, 42.0, r.DataValue(1, 1))

	err := r.SetDataValue(5, 5, 1)
	assert.ErrorIs(t, err, ErrCellOutOfRange)
}
