package layer

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"
)

// ErrCellOutOfRange is returned for a row/column outside the grid.
var ErrCellOutOfRange = errors.New("cell out of range")

// Grid is the data access layer behind a raster: a row-major matrix of cell
// values. Row 0 is the northern edge.
type Grid interface {
	Rows() int
	Cols() int
	Value(row, col int) float64
	SetValue(row, col int, v float64) error
	NoData() float64
}

// MemGrid is an in-memory Grid.
type MemGrid struct {
	rows, cols int
	nodata     float64
	data       []float64
}

// NewMemGrid returns a grid filled with nodata.
func NewMemGrid(rows, cols int, nodata float64) *MemGrid {
	g := &MemGrid{rows: rows, cols: cols, nodata: nodata, data: make([]float64, rows*cols)}
	for i := range g.data {
		g.data[i] = nodata
	}
	return g
}

func (g *MemGrid) Rows() int { return g.rows }
func (g *MemGrid) Cols() int { return g.cols }
func (g *MemGrid) NoData() float64 { return g.nodata }

// Value returns the cell value, or nodata outside the grid.
func (g *MemGrid) Value(row, col int) float64 {
	if row < 0 || col < 0 || row >= g.rows || col >= g.cols {
		return g.nodata
	}
	return g.data[row*g.cols+col]
}

// SetValue writes one cell.
func (g *MemGrid) SetValue(row, col int, v float64) error {
	if row < 0 || col < 0 || row >= g.rows || col >= g.cols {
		return fmt.Errorf("set (%d,%d) in %dx%d grid: %w", row, col, g.rows, g.cols, ErrCellOutOfRange)
	}
	g.data[row*g.cols+col] = v
	return nil
}

// Range returns the minimum and maximum non-nodata values. Both are NaN for a
// grid holding only nodata.
func (g *MemGrid) Range() (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, v := range g.data {
		if v == g.nodata || math.IsNaN(v) {
			continue
		}
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo > hi {
		return math.NaN(), math.NaN()
	}
	return lo, hi
}

// GridFromImage packs each pixel of img into a cell value as 0xAABBGGRR,
// suitable for a raster with the RGB data scale.
func GridFromImage(img image.Image) *MemGrid {
	b := img.Bounds()
	g := NewMemGrid(b.Dy(), b.Dx(), -1)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			v := uint32(c.A)<<24 | uint32(c.B)<<16 | uint32(c.G)<<8 | uint32(c.R)
			g.data[(y-b.Min.Y)*g.cols+(x-b.Min.X)] = float64(v)
		}
	}
	return g
}

// GridCell identifies a raster cell and its value.
type GridCell struct {
	Row, Col int
	Z        float64
	NoData   bool
	IsRGB    bool
}

// Valid reports whether the cell lies inside the grid.
func (c GridCell) Valid() bool {
	return c.Row >= 0 && c.Col >= 0
}

// InvalidCell is returned for locations outside a raster.
var InvalidCell = GridCell{Row: -1, Col: -1, Z: math.NaN()}
