package layer

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"map-composer/pkg/geometry"
)

// DataScale selects how cell values are mapped to palette entries.
type DataScale int

const (
	ScaleContinuous DataScale = iota
	ScaleCategorical
	ScaleBoolean
	ScaleRGB
)

func (s DataScale) String() string {
	switch s {
	case ScaleCategorical:
		return "categorical"
	case ScaleBoolean:
		return "boolean"
	case ScaleRGB:
		return "rgb"
	default:
		return "continuous"
	}
}

// Raster is a gridded layer. Its pixel buffer covers the current extent at a
// stride of ResolutionFactor cells and is rebuilt lazily when dirty.
type Raster struct {
	common
	grid Grid

	Scale   DataScale
	Palette Palette
	// MinDisplay and MaxDisplay bound the values spread across the palette.
	MinDisplay float64
	MaxDisplay float64
	Gamma      float64
	Alpha      uint8

	resolutionFactor int
	dirty            bool
	pixels           *image.NRGBA
	startRow, endRow int
	startCol, endCol int
}

// NewRaster wraps a grid covering extent in map units.
func NewRaster(title string, g Grid, extent geometry.BoundingBox) *Raster {
	r := &Raster{
		common: common{
			title:         title,
			visible:       true,
			fullExtent:    extent,
			currentExtent: extent,
		},
		grid:             g,
		Palette:          GreyPalette,
		Gamma:            1,
		Alpha:            255,
		resolutionFactor: 1,
		dirty:            true,
	}
	if m, ok := g.(*MemGrid); ok {
		lo, hi := m.Range()
		if !math.IsNaN(lo) {
			r.MinDisplay, r.MaxDisplay = lo, hi
		}
	}
	return r
}

// Type implements MapLayer.
func (r *Raster) Type() Type { return TypeRaster }

// Grid returns the underlying data.
func (r *Raster) Grid() Grid { return r.grid }

// Rows returns the number of grid rows.
func (r *Raster) Rows() int { return r.grid.Rows() }

// Cols returns the number of grid columns.
func (r *Raster) Cols() int { return r.grid.Cols() }

// CellSizeX is the width of one cell in map units.
func (r *Raster) CellSizeX() float64 { return r.fullExtent.Width() / float64(r.grid.Cols()) }

// CellSizeY is the height of one cell in map units.
func (r *Raster) CellSizeY() float64 { return r.fullExtent.Height() / float64(r.grid.Rows()) }

// SetCurrentExtent records the displayed portion; a change dirties the buffer.
func (r *Raster) SetCurrentExtent(bb geometry.BoundingBox) {
	if bb != r.currentExtent {
		r.currentExtent = bb.Clone()
		r.dirty = true
	}
}

// ResolutionFactor is the decimation stride used for the pixel buffer.
func (r *Raster) ResolutionFactor() int { return r.resolutionFactor }

// SetResolutionFactor sets the stride, clamped to at least 1.
func (r *Raster) SetResolutionFactor(v int) {
	if v < 1 {
		v = 1
	}
	if v != r.resolutionFactor {
		r.resolutionFactor = v
		r.dirty = true
	}
}

// ResolutionFactorFor chooses a decimation stride so that numRows x numCols
// source cells roughly match a destination of destW x destH pixels.
func ResolutionFactorFor(numRows, numCols int, destW, destH float64) int {
	if destW <= 0 || destH <= 0 {
		return 1
	}
	res := int(math.Min(float64(numRows)/destH, float64(numCols)/destW))
	if res < 1 {
		return 1
	}
	return res
}

// Dirty reports whether the pixel buffer needs rebuilding.
func (r *Raster) Dirty() bool { return r.dirty }

// Update marks the pixel buffer stale, e.g. after the palette changed.
func (r *Raster) Update() { r.dirty = true }

// Image returns the last built pixel buffer; nil before CreatePixelData.
func (r *Raster) Image() *image.NRGBA { return r.pixels }

// CreatePixelData rebuilds the pixel buffer for the current extent and
// resolution factor.
func (r *Raster) CreatePixelData() {
	ext := r.currentExtent
	if !ext.IsInitialized() {
		ext = r.fullExtent
	}
	rows, cols := r.grid.Rows(), r.grid.Cols()
	csx, csy := r.CellSizeX(), r.CellSizeY()

	r.startRow = int(math.Abs(r.fullExtent.MaxY-ext.MaxY) / csy)
	r.endRow = int(float64(rows)-math.Abs(r.fullExtent.MinY-ext.MinY)/csy) - 1
	r.startCol = int(math.Abs(r.fullExtent.MinX-ext.MinX) / csx)
	r.endCol = int(float64(cols)-math.Abs(r.fullExtent.MaxX-ext.MaxX)/csx) - 1

	stride := r.resolutionFactor
	h, w := 0, 0
	if r.endRow >= r.startRow {
		h = (r.endRow-r.startRow)/stride + 1
	}
	if r.endCol >= r.startCol {
		w = (r.endCol-r.startCol)/stride + 1
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	nodata := r.grid.NoData()

	y := 0
	for row := r.startRow; row <= r.endRow; row += stride {
		x := 0
		for col := r.startCol; col <= r.endCol; col += stride {
			v := r.grid.Value(row, col)
			if v != nodata && !math.IsNaN(v) {
				img.SetNRGBA(x, y, r.colourFor(v))
			}
			x++
		}
		y++
	}
	r.pixels = img
	r.dirty = false
}

func (r *Raster) colourFor(v float64) color.NRGBA {
	n := len(r.Palette)
	var c color.RGBA
	switch r.Scale {
	case ScaleRGB:
		u := uint32(v)
		c = color.RGBA{R: uint8(u), G: uint8(u >> 8), B: uint8(u >> 16), A: uint8(u >> 24)}
	case ScaleBoolean:
		if n == 0 {
			return color.NRGBA{}
		}
		if v > 0 {
			c = r.Palette[n-1]
		} else {
			c = r.Palette[0]
		}
	case ScaleCategorical:
		if n == 0 {
			return color.NRGBA{}
		}
		i := int(v-r.MinDisplay) % n
		if i < 0 {
			i = 0
		}
		c = r.Palette[i]
	default:
		if n == 0 {
			return color.NRGBA{}
		}
		t := 0.0
		if rng := r.MaxDisplay - r.MinDisplay; rng != 0 {
			t = (v - r.MinDisplay) / rng
		}
		t = math.Max(0, math.Min(1, t))
		if r.Gamma > 0 && r.Gamma != 1 {
			t = math.Pow(t, r.Gamma)
		}
		c = r.Palette[int(t*float64(n-1))]
	}
	a := uint8(uint32(c.A) * uint32(r.Alpha) / 255)
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}
}

// RowAndColumn resolves a map coordinate to the cell containing it.
func (r *Raster) RowAndColumn(x, y float64) GridCell {
	fe := r.fullExtent
	if !fe.IsPointInBox(x, y) {
		return InvalidCell
	}
	row := int((fe.MaxY - y) / r.CellSizeY())
	col := int((x - fe.MinX) / r.CellSizeX())
	if row >= r.grid.Rows() {
		row = r.grid.Rows() - 1
	}
	if col >= r.grid.Cols() {
		col = r.grid.Cols() - 1
	}
	z := r.grid.Value(row, col)
	return GridCell{
		Row:    row,
		Col:    col,
		Z:      z,
		NoData: z == r.grid.NoData(),
		IsRGB:  r.Scale == ScaleRGB,
	}
}

// XFromColumn returns the map X of a column's centre.
func (r *Raster) XFromColumn(col int) float64 {
	return r.fullExtent.MinX + (float64(col)+0.5)*r.CellSizeX()
}

// YFromRow returns the map Y of a row's centre.
func (r *Raster) YFromRow(row int) float64 {
	return r.fullExtent.MaxY - (float64(row)+0.5)*r.CellSizeY()
}

// DataValue reads a cell.
func (r *Raster) DataValue(row, col int) float64 {
	return r.grid.Value(row, col)
}

// SetDataValue writes a cell and marks the pixel buffer stale.
func (r *Raster) SetDataValue(row, col int, v float64) error {
	if err := r.grid.SetValue(row, col, v); err != nil {
		return fmt.Errorf("raster %q: %w", r.title, err)
	}
	r.dirty = true
	return nil
}
